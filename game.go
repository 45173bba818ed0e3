package main

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Game drives the fixed per-frame pipeline: drain the transport, apply
// snapshots, poll input, interpolate, follow with the camera, then
// flush queued actions. Draw renders from a copied snapshot so worldMu
// is held only briefly.
type Game struct{}

var (
	gameCtx       context.Context
	gameInitOnce  sync.Once
	lastFrameTime time.Time

	screenW = initialWindowW
	screenH = initialWindowH
)

var errShutdown = errors.New("shutdown")

func (g *Game) Update() error {
	select {
	case <-gameCtx.Done():
		return errShutdown
	default:
	}
	gameInitOnce.Do(initGame)

	now := time.Now()
	dt := 0.0
	if !lastFrameTime.IsZero() {
		dt = now.Sub(lastFrameTime).Seconds()
	}
	lastFrameTime = now

	drainInbound()
	pollInput(screenW, screenH)
	updateInterpolation(dt)
	updateCamera()
	processEvents()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	snap := captureDrawSnapshot()
	if !snap.initReceived || !snap.firstAOIApplied {
		drawSplash(screen, snap)
		return
	}
	drawScene(screen, snap)
	if gs.ShowHUD {
		drawHUD(screen, snap)
	}
	if snap.cfg.DevUI {
		drawDebugOverlay(screen, snap)
	}
	drawErrorBanner(screen, snap)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != screenW || outsideHeight != screenH {
		screenW, screenH = outsideWidth, outsideHeight
		recenterCamera(screenW, screenH)
	}
	return outsideWidth, outsideHeight
}

// drawSnapshot is a render-ready copy of the world taken under worldMu
// once per Draw, so collection replacement never races the renderer.
type drawSnapshot struct {
	player       PlayerState
	playerID     string
	otherPlayers []PlayerState
	bots         []BotState
	obstacles    []WorldObject
	portals      []WorldObject
	floors       []WorldObject
	foregrounds  []WorldObject

	associatedItemIDs []string

	cfg    worldConfig
	colors map[string]ColorRGBA

	initReceived     bool
	firstAOIApplied  bool
	lastError        string
	errorDisplayTime time.Time
	lastUpdateTime   time.Time
}

func captureDrawSnapshot() drawSnapshot {
	worldMu.Lock()
	defer worldMu.Unlock()

	snap := drawSnapshot{
		player:            world.player,
		playerID:          world.playerID,
		cfg:               world.cfg,
		initReceived:      world.initReceived,
		firstAOIApplied:   world.firstAOIApplied,
		lastError:         world.lastError,
		errorDisplayTime:  world.errorDisplayTime,
		lastUpdateTime:    world.lastUpdateTime,
		associatedItemIDs: append([]string(nil), world.associatedItemIDs...),
		colors:            make(map[string]ColorRGBA, len(world.colors)),
	}
	for k, v := range world.colors {
		snap.colors[k] = v
	}
	snap.otherPlayers = make([]PlayerState, 0, len(world.otherPlayers))
	for _, p := range world.otherPlayers {
		snap.otherPlayers = append(snap.otherPlayers, *p)
	}
	snap.bots = make([]BotState, 0, len(world.bots))
	for _, b := range world.bots {
		snap.bots = append(snap.bots, *b)
	}
	snap.obstacles = copyObjects(world.obstacles)
	snap.portals = copyObjects(world.portals)
	snap.floors = copyObjects(world.floors)
	snap.foregrounds = copyObjects(world.foregrounds)
	return snap
}

func copyObjects(m map[string]*WorldObject) []WorldObject {
	out := make([]WorldObject, 0, len(m))
	for _, w := range m {
		out = append(out, *w)
	}
	return out
}

// color reads the snapshot palette with the same fallbacks the live
// world uses.
func (s *drawSnapshot) color(name string) ColorRGBA {
	if c, ok := s.colors[name]; ok {
		return c
	}
	if c, ok := defaultPalette()[name]; ok {
		return c
	}
	return ColorRGBA{R: 255, G: 0, B: 255, A: 255}
}

func runGame(ctx context.Context) {
	gameCtx = ctx

	ebiten.SetWindowTitle("goCyberia")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(ebiten.SyncWithFPS)
	if gs.Fullscreen {
		ebiten.SetFullscreen(true)
	}

	if err := ebiten.RunGame(&Game{}); err != nil && !errors.Is(err, errShutdown) {
		logError("ebiten: %v", err)
	}
	saveSettings()
}

func initGame() {
	ebiten.SetVsyncEnabled(gs.VSync)
	initFont()
	recenterCamera(screenW, screenH)
}
