package main

import (
	"time"
)

// processServerMessage routes one inbound text frame. Malformed frames
// are dropped with a bounded excerpt; unknown types are dropped with a
// throttled warning. Never panics on bad input.
func processServerMessage(data []byte) {
	root, err := parseFrame(data)
	if err != nil {
		head, tail := frameExcerpt(data)
		logWarnThrottled("parse error: %v head=%q tail=%q", err, head, tail)
		return
	}

	payload, _ := getObject(root, "payload")
	msgType, ok := getString(root, "type")
	if !ok {
		msgType = inferMessageType(payload)
		if msgType == "" {
			logWarnThrottled("untyped message with unrecognized payload, dropped")
			return
		}
		logDebug("inferred message type %q", msgType)
	}

	switch msgType {
	case "init_data":
		handleInitData(payload)
	case "aoi_update":
		handleAOIUpdate(payload)
	case "skill_item_ids":
		handleSkillItemIDs(payload)
	case "error":
		handleServerError(payload)
	case "ping":
		// Keepalive probe; answer so the server keeps the session.
		if err := sendFrame(pongMessage()); err != nil {
			logDebug("pong: %v", err)
		}
	case "pong":
		notePongReceived()
	default:
		logWarnThrottled("unknown message type %q, dropped", msgType)
	}
}

// inferMessageType classifies untyped frames by payload shape, matching
// what older servers send.
func inferMessageType(payload jsObject) string {
	if payload == nil {
		return ""
	}
	if _, hasW := payload["gridW"]; hasW {
		if _, hasH := payload["gridH"]; hasH {
			return "init_data"
		}
	}
	if _, hasPlayer := payload["player"]; hasPlayer {
		if _, hasID := payload["playerID"]; hasID {
			return "aoi_update"
		}
	}
	if _, ok := payload["associatedItemIds"]; ok {
		return "skill_item_ids"
	}
	return ""
}

// handleInitData replaces the configuration and palette and unlocks
// world rendering.
func handleInitData(payload jsObject) {
	if payload == nil {
		logWarnThrottled("init_data without payload, dropped")
		return
	}
	worldMu.Lock()
	cfg := &world.cfg
	cfg.GridW = getIntDefault(payload, "gridW", cfg.GridW)
	cfg.GridH = getIntDefault(payload, "gridH", cfg.GridH)
	cfg.CellSize = getFloatDefault(payload, "cellSize", cfg.CellSize)
	cfg.FPS = getIntDefault(payload, "fps", cfg.FPS)
	cfg.InterpolationMs = getIntDefault(payload, "interpolationMs", cfg.InterpolationMs)
	cfg.AOIRadius = getFloatDefault(payload, "aoiRadius", cfg.AOIRadius)
	cfg.DefaultObjWidth = getFloatDefault(payload, "defaultObjWidth", cfg.DefaultObjWidth)
	cfg.DefaultObjHeight = getFloatDefault(payload, "defaultObjHeight", cfg.DefaultObjHeight)
	cfg.CameraSmoothing = getFloatDefault(payload, "cameraSmoothing", cfg.CameraSmoothing)
	cfg.CameraZoom = clampZoom(getFloatDefault(payload, "cameraZoom", cfg.CameraZoom))
	cfg.DevUI = getBoolDefault(payload, "devUi", cfg.DevUI)
	cfg.SumStatsLimit = getIntDefault(payload, "sumStatsLimit", cfg.SumStatsLimit)

	if colors, ok := getObject(payload, "colors"); ok {
		for name, v := range colors {
			if o, ok := v.(jsObject); ok {
				world.colors[name] = decodeColor(o)
			}
		}
	}

	// Some servers assign the player id at init rather than with the
	// first snapshot.
	if id, ok := getString(payload, "playerID"); ok && world.playerID == "" {
		world.playerID = id
	}

	world.initReceived = true
	applied := *cfg
	worldMu.Unlock()

	initCamera(applied.CameraZoom)
	logDebug("init_data applied: grid=%dx%d cell=%.1f interp=%dms",
		applied.GridW, applied.GridH, applied.CellSize, applied.InterpolationMs)
}

// handleAOIUpdate atomically replaces the visible world. Collections
// are cleared and repopulated in a fixed order under worldMu, so a
// reader holding the lock always sees one coherent snapshot. Entities
// that survive from the previous snapshot keep animating from their
// currently displayed position.
func handleAOIUpdate(payload jsObject) {
	if payload == nil {
		logWarnThrottled("aoi_update without payload, dropped")
		return
	}
	now := time.Now()

	worldMu.Lock()
	defer worldMu.Unlock()

	if !world.initReceived {
		// Tolerated: the snapshot applies against default config and
		// the renderer stays on the splash until init_data arrives.
		logWarnThrottled("aoi_update before init_data")
	}
	defW, defH := world.cfg.DefaultObjWidth, world.cfg.DefaultObjHeight

	if po, ok := getObject(payload, "player"); ok {
		if p, ok := decodePlayer(po, defW, defH); ok {
			if world.playerID == "" {
				world.playerID = p.ID
			}
			anchorEntity(&p.EntityState, &world.player.EntityState, world.player.ID == p.ID, now)
			world.player = p
		}
	}
	if id, ok := getString(payload, "playerID"); ok && world.playerID == "" {
		world.playerID = id
	}

	prevPlayers := world.otherPlayers
	world.otherPlayers = make(map[string]*PlayerState)
	if visible, ok := getObject(payload, "visiblePlayers"); ok {
		for id, v := range visible {
			if len(world.otherPlayers) >= maxEntitiesPerKind {
				logWarnThrottled("visible players capped at %d", maxEntitiesPerKind)
				break
			}
			o, ok := v.(jsObject)
			if !ok {
				continue
			}
			p, ok := decodePlayer(o, defW, defH)
			if !ok || p.ID == world.playerID {
				continue
			}
			if prev, ok := prevPlayers[id]; ok {
				anchorEntity(&p.EntityState, &prev.EntityState, true, now)
			} else {
				p.LastUpdate = now
			}
			world.otherPlayers[id] = &p
		}
	}

	prevBots := world.bots
	world.bots = make(map[string]*BotState)
	objects, _ := getObject(payload, "visibleGridObjects")
	if bots, ok := getObject(objects, "bots"); ok {
		for id, v := range bots {
			if len(world.bots) >= maxEntitiesPerKind {
				logWarnThrottled("visible bots capped at %d", maxEntitiesPerKind)
				break
			}
			o, ok := v.(jsObject)
			if !ok {
				continue
			}
			b, ok := decodeBot(o, defW, defH)
			if !ok {
				continue
			}
			if prev, ok := prevBots[id]; ok {
				anchorEntity(&b.EntityState, &prev.EntityState, true, now)
			} else {
				b.LastUpdate = now
			}
			world.bots[id] = &b
		}
	}

	world.obstacles = decodeObjectCollection(objects, "obstacles", defW, defH)
	world.portals = decodeObjectCollection(objects, "portals", defW, defH)
	world.floors = decodeObjectCollection(objects, "floors", defW, defH)
	world.foregrounds = decodeObjectCollection(objects, "foregrounds", defW, defH)

	world.lastUpdateTime = now
	world.firstAOIApplied = true
}

// anchorEntity rebases interpolation for an entity that already existed
// locally: the new PosPrev and InterpPos start from the previously
// displayed position, so motion continues from what the player sees
// rather than snapping back to the old server position.
func anchorEntity(next *EntityState, prev *EntityState, existed bool, now time.Time) {
	if existed {
		next.PosPrev = prev.InterpPos
		next.InterpPos = prev.InterpPos
	}
	next.LastUpdate = now
}

// decodeObjectCollection builds one world object category, bounded by
// the per-category cap.
func decodeObjectCollection(objects jsObject, key string, defW, defH float64) map[string]*WorldObject {
	out := make(map[string]*WorldObject)
	if objects == nil {
		return out
	}
	col, ok := getObject(objects, key)
	if !ok {
		return out
	}
	for id, v := range col {
		if len(out) >= maxObjectsPerKind {
			logWarnThrottled("%s capped at %d", key, maxObjectsPerKind)
			break
		}
		o, ok := v.(jsObject)
		if !ok {
			continue
		}
		if w, ok := decodeWorldObject(o, defW, defH); ok {
			out[id] = &w
		}
	}
	return out
}

// handleSkillItemIDs replaces the associated item list shown in the HUD.
func handleSkillItemIDs(payload jsObject) {
	if payload == nil {
		return
	}
	arr, ok := getArray(payload, "associatedItemIds")
	if !ok {
		logWarnThrottled("skill_item_ids without associatedItemIds, dropped")
		return
	}
	ids := make([]string, 0, len(arr))
	for _, v := range arr {
		if s, ok := v.(string); ok {
			ids = append(ids, s)
		}
	}
	worldMu.Lock()
	world.associatedItemIDs = ids
	worldMu.Unlock()
}

// handleServerError surfaces a server-reported error in the HUD banner
// and as a desktop notification.
func handleServerError(payload jsObject) {
	msg := "unknown server error"
	if payload != nil {
		msg = getStringDefault(payload, "message", msg)
	}
	worldMu.Lock()
	world.lastError = msg
	world.errorDisplayTime = time.Now()
	worldMu.Unlock()
	logError("server error: %s", msg)
	notifyDesktop("goCyberia", msg)
}
