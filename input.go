package main

import (
	"errors"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// eventKind enumerates semantic input events. Interact, use-skill and
// cancel are recognized and drained but have no wire message yet; the
// server protocol does not define one.
type eventKind int

const (
	eventMoveTo eventKind = iota
	eventInteract
	eventUseSkill
	eventZoomIn
	eventZoomOut
	eventToggleHUD
	eventToggleDebug
	eventCancelAction
)

func (k eventKind) String() string {
	switch k {
	case eventMoveTo:
		return "MOVE_TO"
	case eventInteract:
		return "INTERACT"
	case eventUseSkill:
		return "USE_SKILL"
	case eventZoomIn:
		return "ZOOM_IN"
	case eventZoomOut:
		return "ZOOM_OUT"
	case eventToggleHUD:
		return "TOGGLE_HUD"
	case eventToggleDebug:
		return "TOGGLE_DEBUG"
	case eventCancelAction:
		return "CANCEL_ACTION"
	}
	return "UNKNOWN"
}

type inputEvent struct {
	kind     eventKind
	targetID string
	screenX  float64
	screenY  float64
	worldX   float64
	worldY   float64
	when     time.Time
}

// maxQueuedEvents bounds the per-frame event queue; one frame's worth
// of input.
const maxQueuedEvents = 32

var errQueueFull = errors.New("input queue full")

// eventQueue is local to the render thread; queued during a frame,
// drained at its end.
var eventQueue []inputEvent

// queueEvent appends an event in FIFO order, rejecting overflow.
func queueEvent(ev inputEvent) error {
	if len(eventQueue) >= maxQueuedEvents {
		return errQueueFull
	}
	eventQueue = append(eventQueue, ev)
	return nil
}

func queueEventOrDrop(ev inputEvent) {
	if err := queueEvent(ev); err != nil {
		logWarnThrottled("%s dropped: %v", ev.kind, err)
	}
}

// isOverUI suppresses world interaction for screen points over HUD
// chrome. The bottom bar heuristic stands in until a real UI layout
// exists; tests and future layouts swap the predicate.
var isOverUI = func(x, y, screenW, screenH int) bool {
	return y > screenH-60
}

// clickInfo records the last world click for the HUD.
type clickInfo struct {
	WorldX, WorldY float64
	TargetID       string
	When           time.Time
}

var (
	lastClick   clickInfo
	lastClickMu sync.Mutex
)

// entityAt hit-tests a world-pixel point against the local player,
// then every other player, then every bot. The first entity whose
// axis-aligned rect (InterpPos·cellSize, Dims·cellSize) contains the
// point wins; the local player always has precedence.
func entityAt(wx, wy float64) (string, bool) {
	worldMu.Lock()
	defer worldMu.Unlock()
	cs := cellSizeOr(world.cfg.CellSize)

	if world.player.ID != "" && entityRectContains(&world.player.EntityState, wx, wy, cs) {
		return world.player.ID, true
	}
	for _, p := range world.otherPlayers {
		if entityRectContains(&p.EntityState, wx, wy, cs) {
			return p.ID, true
		}
	}
	for _, b := range world.bots {
		if entityRectContains(&b.EntityState, wx, wy, cs) {
			return b.ID, true
		}
	}
	return "", false
}

func entityRectContains(e *EntityState, wx, wy, cellSize float64) bool {
	x := e.InterpPos.X * cellSize
	y := e.InterpPos.Y * cellSize
	w := e.Dims.Width * cellSize
	h := e.Dims.Height * cellSize
	return wx >= x && wx < x+w && wy >= y && wy < y+h
}

// pollInput samples the mouse and keyboard once per frame and turns
// them into queued events.
func pollInput(screenW, screenH int) {
	now := time.Now()
	mx, my := ebiten.CursorPosition()

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) &&
		!isOverUI(mx, my, screenW, screenH) {
		handleWorldClick(float64(mx), float64(my), now)
	}

	if _, wheelY := ebiten.Wheel(); wheelY != 0 {
		kind := eventZoomIn
		if wheelY < 0 {
			kind = eventZoomOut
		}
		queueEventOrDrop(inputEvent{kind: kind, when: now})
	}

	if keys := inpututil.AppendJustPressedKeys(nil); len(keys) > 0 {
		switch keys[len(keys)-1] {
		case ebiten.KeyH:
			queueEventOrDrop(inputEvent{kind: eventToggleHUD, when: now})
		case ebiten.KeyF3:
			queueEventOrDrop(inputEvent{kind: eventToggleDebug, when: now})
		case ebiten.KeyEscape:
			queueEventOrDrop(inputEvent{kind: eventCancelAction, when: now})
		}
	}
}

// handleWorldClick hit-tests a left click and queues either an
// interaction with the entity under the cursor or a move order.
func handleWorldClick(sx, sy float64, now time.Time) {
	c := cameraSnapshot()
	wx, wy := c.screenToWorld(sx, sy)
	ev := inputEvent{screenX: sx, screenY: sy, worldX: wx, worldY: wy, when: now}
	if id, ok := entityAt(wx, wy); ok {
		ev.kind = eventInteract
		ev.targetID = id
	} else {
		ev.kind = eventMoveTo
	}
	queueEventOrDrop(ev)
}

// processEvents drains the queue in FIFO order at the end of the frame
// and clears it. Move orders go out as player_action frames; zoom and
// toggle events act locally.
func processEvents() {
	for _, ev := range eventQueue {
		switch ev.kind {
		case eventMoveTo:
			worldMu.Lock()
			cs := world.cfg.CellSize
			worldMu.Unlock()
			gx := worldToGrid(ev.worldX, cs)
			gy := worldToGrid(ev.worldY, cs)
			if err := sendFrame(playerActionMessage(gx, gy)); err != nil {
				logWarnThrottled("player_action dropped: %v", err)
			}
		case eventZoomIn:
			zoomBy(1.1)
		case eventZoomOut:
			zoomBy(0.9)
		case eventToggleDebug:
			worldMu.Lock()
			world.cfg.DevUI = !world.cfg.DevUI
			worldMu.Unlock()
		case eventToggleHUD:
			gs.ShowHUD = !gs.ShowHUD
		case eventInteract:
			// No outbound message defined yet; remember the click so
			// the HUD can show what was targeted.
			lastClickMu.Lock()
			lastClick = clickInfo{WorldX: ev.worldX, WorldY: ev.worldY, TargetID: ev.targetID, When: ev.when}
			lastClickMu.Unlock()
			logDebug("interact with %s at (%.1f, %.1f)", ev.targetID, ev.worldX, ev.worldY)
		case eventUseSkill, eventCancelAction:
			logDebug("%s drained (no wire message)", ev.kind)
		}
	}
	eventQueue = eventQueue[:0]
}
