package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/hako/durafmt"
)

// drawSplash covers the window until init_data and a first snapshot
// arrive. An AOI update before init produces a degenerate world; the
// splash stays up until both are in.
func drawSplash(screen *ebiten.Image, snap drawSnapshot) {
	screen.Fill(rgba(snap.color("BACKGROUND")))
	msg := "Connecting..."
	switch {
	case fake:
		msg = "Starting offline world..."
	case snap.initReceived:
		msg = "Waiting for world snapshot..."
	case isConnected():
		msg = "Waiting for server..."
	}
	drawText(screen, hudFont, msg, float64(screenW)/2-80, float64(screenH)/2, rgba(snap.color("UI_TEXT")))
}

// drawHUD renders the always-on status line and the associated item
// bar at the bottom of the window.
func drawHUD(screen *ebiten.Image, snap drawSnapshot) {
	uiText := rgba(snap.color("UI_TEXT"))

	line := fmt.Sprintf("%s  map %d  (%.1f, %.1f)",
		snap.player.ID, snap.player.MapID, snap.player.InterpPos.X, snap.player.InterpPos.Y)
	if snap.player.MaxLife > 0 {
		line += fmt.Sprintf("  life %.0f/%.0f", snap.player.Life, snap.player.MaxLife)
	}
	if snap.player.RespawnIn != nil {
		line += fmt.Sprintf("  respawn in %.1fs", *snap.player.RespawnIn)
	}
	if !isConnected() && !fake {
		line += "  [disconnected]"
	}
	drawText(screen, hudFont, line, 8, 8, uiText)

	if len(snap.associatedItemIDs) > 0 {
		bar := "items: " + strings.Join(snap.associatedItemIDs, "  ")
		drawText(screen, hudFont, bar, 8, float64(screenH)-48, uiText)
	}
	if gs.ShowFPS {
		drawText(screen, labelFont, fmt.Sprintf("%.0f fps", ebiten.ActualFPS()),
			float64(screenW)-64, 8, rgba(snap.color("DEBUG_TEXT")))
	}
}

// drawDebugOverlay is the devUi view: transport counters, world
// population and the AOI ring around the player.
func drawDebugOverlay(screen *ebiten.Image, snap drawSnapshot) {
	debugText := rgba(snap.color("DEBUG_TEXT"))

	latencyMu.Lock()
	lat := netLatency
	latencyMu.Unlock()

	lines := []string{
		fmt.Sprintf("recv %s in %d frames (%d dropped)",
			humanize.Bytes(bytesReceived.Load()), framesReceived.Load(), framesDropped.Load()),
		fmt.Sprintf("players %d  bots %d  obstacles %d  portals %d  floors %d  fg %d",
			len(snap.otherPlayers), len(snap.bots), len(snap.obstacles),
			len(snap.portals), len(snap.floors), len(snap.foregrounds)),
		fmt.Sprintf("grid %dx%d cell %.1f interp %dms zoom %.2f",
			snap.cfg.GridW, snap.cfg.GridH, snap.cfg.CellSize,
			snap.cfg.InterpolationMs, cameraSnapshot().zoom),
	}
	if up := connectionUptime(); up > 0 {
		lines[0] += "  up " + durafmt.Parse(up.Truncate(time.Second)).LimitFirstN(2).String()
	}
	if lat > 0 {
		lines[0] += fmt.Sprintf("  rtt %dms", lat.Milliseconds())
	}
	if !snap.lastUpdateTime.IsZero() {
		lines = append(lines, fmt.Sprintf("last snapshot %dms ago",
			time.Since(snap.lastUpdateTime).Milliseconds()))
	}
	lastClickMu.Lock()
	if lastClick.TargetID != "" {
		lines = append(lines, fmt.Sprintf("clicked %s at (%.1f, %.1f)",
			lastClick.TargetID, lastClick.WorldX, lastClick.WorldY))
	}
	lastClickMu.Unlock()

	y := 28.0
	for _, l := range lines {
		drawText(screen, debugFont, l, 8, y, debugText)
		y += 16
	}

	if snap.cfg.AOIRadius > 0 {
		cam := cameraSnapshot()
		cs := cellSizeOr(snap.cfg.CellSize)
		cx, cy := cam.worldToScreen(snap.player.InterpPos.X*cs, snap.player.InterpPos.Y*cs)
		r := float32(snap.cfg.AOIRadius * cs * cam.zoom)
		vector.StrokeCircle(screen, float32(cx), float32(cy), r, 1, rgba(snap.color("AOI")), false)
	}
}

// drawErrorBanner shows the latest server error for a few seconds.
func drawErrorBanner(screen *ebiten.Image, snap drawSnapshot) {
	if snap.lastError == "" || time.Since(snap.errorDisplayTime) > errorBannerDuration {
		return
	}
	drawText(screen, hudFont, snap.lastError, 8, float64(screenH)-24, rgba(snap.color("ERROR_TEXT")))
}
