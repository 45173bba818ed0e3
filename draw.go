package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	text "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

func rgba(c ColorRGBA) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// drawScene renders the world from a snapshot: floors, obstacles and
// portals first, then the player path and target, entities, and
// foregrounds on top.
func drawScene(screen *ebiten.Image, snap drawSnapshot) {
	screen.Fill(rgba(snap.color("BACKGROUND")))
	cam := cameraSnapshot()
	cs := cellSizeOr(snap.cfg.CellSize)

	drawGrid(screen, &cam, snap, cs)

	for i := range snap.floors {
		drawWorldObject(screen, &cam, snap, &snap.floors[i], cs, "FLOOR_BACKGROUND")
	}
	for i := range snap.obstacles {
		drawWorldObject(screen, &cam, snap, &snap.obstacles[i], cs, "OBSTACLE")
	}
	for i := range snap.portals {
		p := &snap.portals[i]
		drawWorldObject(screen, &cam, snap, p, cs, "PORTAL")
		if p.PortalLabel != "" {
			sx, sy := cam.worldToScreen(p.Pos.X*cs, p.Pos.Y*cs)
			drawText(screen, labelFont, p.PortalLabel, sx, sy-14, rgba(snap.color("PORTAL_LABEL")))
		}
	}

	drawPlayerPath(screen, &cam, snap, cs)

	for i := range snap.otherPlayers {
		drawEntity(screen, &cam, snap, &snap.otherPlayers[i].EntityState, cs, "OTHER_PLAYER", "other_player")
	}
	for i := range snap.bots {
		drawEntity(screen, &cam, snap, &snap.bots[i].EntityState, cs, "bot", "bot")
	}
	if snap.player.ID != "" {
		drawEntity(screen, &cam, snap, &snap.player.EntityState, cs, "PLAYER", "player")
	}

	for i := range snap.foregrounds {
		drawWorldObject(screen, &cam, snap, &snap.foregrounds[i], cs, "FOREGROUND")
	}
}

// drawGrid fills the playable area and strokes the map boundary.
func drawGrid(screen *ebiten.Image, cam *camera, snap drawSnapshot, cs float64) {
	if snap.cfg.GridW <= 0 || snap.cfg.GridH <= 0 {
		return
	}
	x0, y0 := cam.worldToScreen(0, 0)
	x1, y1 := cam.worldToScreen(float64(snap.cfg.GridW)*cs, float64(snap.cfg.GridH)*cs)
	vector.DrawFilledRect(screen, float32(x0), float32(y0), float32(x1-x0), float32(y1-y0),
		rgba(snap.color("GRID_BACKGROUND")), false)
	vector.StrokeRect(screen, float32(x0), float32(y0), float32(x1-x0), float32(y1-y0),
		2, rgba(snap.color("MAP_BOUNDARY")), false)
}

// drawWorldObject draws a static object, textured when a texture for
// its type is loaded, palette rect otherwise.
func drawWorldObject(screen *ebiten.Image, cam *camera, snap drawSnapshot, w *WorldObject, cs float64, colorKey string) {
	sx, sy := cam.worldToScreen(w.Pos.X*cs, w.Pos.Y*cs)
	sw := w.Dims.Width * cs * cam.zoom
	sh := w.Dims.Height * cs * cam.zoom
	if tex := textureFor(w.Type); tex != nil {
		drawTexture(screen, tex, sx, sy, sw, sh)
		return
	}
	vector.DrawFilledRect(screen, float32(sx), float32(sy), float32(sw), float32(sh),
		rgba(snap.color(colorKey)), false)
}

// drawEntity draws one entity at its interpolated position with a life
// bar when life data is present.
func drawEntity(screen *ebiten.Image, cam *camera, snap drawSnapshot, e *EntityState, cs float64, colorKey, texKey string) {
	sx, sy := cam.worldToScreen(e.InterpPos.X*cs, e.InterpPos.Y*cs)
	sw := e.Dims.Width * cs * cam.zoom
	sh := e.Dims.Height * cs * cam.zoom
	if tex := textureFor(texKey); tex != nil {
		drawTexture(screen, tex, sx, sy, sw, sh)
	} else {
		vector.DrawFilledRect(screen, float32(sx), float32(sy), float32(sw), float32(sh),
			rgba(snap.color(colorKey)), false)
	}
	if e.MaxLife > 0 {
		frac := e.Life / e.MaxLife
		if frac < 0 {
			frac = 0
		}
		if frac > 1 {
			frac = 1
		}
		vector.DrawFilledRect(screen, float32(sx), float32(sy-4), float32(sw),
			2, color.RGBA{R: 40, G: 40, B: 40, A: 200}, false)
		vector.DrawFilledRect(screen, float32(sx), float32(sy-4), float32(sw*frac),
			2, color.RGBA{R: 60, G: 220, B: 60, A: 255}, false)
	}
}

// drawPlayerPath marks the server-provided path cells and the current
// move target.
func drawPlayerPath(screen *ebiten.Image, cam *camera, snap drawSnapshot, cs float64) {
	pathCol := rgba(snap.color("PATH"))
	for _, p := range snap.player.Path {
		sx, sy := cam.worldToScreen(p.X*cs, p.Y*cs)
		vector.DrawFilledRect(screen, float32(sx), float32(sy),
			float32(cs*cam.zoom), float32(cs*cam.zoom), pathCol, false)
	}
	if len(snap.player.Path) > 0 {
		tx, ty := cam.worldToScreen(snap.player.TargetPos.X*cs, snap.player.TargetPos.Y*cs)
		r := float32(cs * cam.zoom / 2)
		vector.StrokeCircle(screen, float32(tx)+r, float32(ty)+r, r,
			2, rgba(snap.color("TARGET")), false)
	}
}

func drawTexture(screen *ebiten.Image, tex *ebiten.Image, sx, sy, sw, sh float64) {
	b := tex.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(sw/float64(b.Dx()), sh/float64(b.Dy()))
	op.GeoM.Translate(sx, sy)
	screen.DrawImage(tex, op)
}

func drawText(screen *ebiten.Image, face text.Face, s string, x, y float64, col color.RGBA) {
	if face == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(col)
	text.Draw(screen, s, face, op)
}
