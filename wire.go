package main

import (
	"encoding/json"
	"fmt"
)

// jsObject is a parsed JSON object node. Frames are decoded into plain
// interface trees and read through the typed getters below so a single
// malformed field degrades to its default instead of failing the frame.
type jsObject = map[string]any

// parseFrame decodes one UTF-8 text frame into an object tree.
func parseFrame(data []byte) (jsObject, error) {
	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	obj, ok := root.(jsObject)
	if !ok {
		return nil, fmt.Errorf("frame is not a JSON object")
	}
	return obj, nil
}

// frameExcerpt returns a bounded head/tail of a frame for parse error
// logs: up to 300 leading and 100 trailing bytes.
func frameExcerpt(data []byte) (head, tail string) {
	const headMax, tailMax = 300, 100
	if len(data) <= headMax {
		return string(data), ""
	}
	head = string(data[:headMax])
	if rest := data[headMax:]; len(rest) > tailMax {
		tail = string(rest[len(rest)-tailMax:])
	} else {
		tail = string(rest)
	}
	return head, tail
}

// Safe field getters. Each reports absence explicitly; the *Default
// forms take a caller-supplied fallback. Numbers arrive as float64;
// integer access truncates toward zero. Booleans accept only true JSON
// booleans, never 0/1.

func getString(o jsObject, key string) (string, bool) {
	v, ok := o[key].(string)
	return v, ok
}

func getStringDefault(o jsObject, key, def string) string {
	if v, ok := getString(o, key); ok {
		return v
	}
	return def
}

func getFloat(o jsObject, key string) (float64, bool) {
	v, ok := o[key].(float64)
	return v, ok
}

func getFloatDefault(o jsObject, key string, def float64) float64 {
	if v, ok := getFloat(o, key); ok {
		return v
	}
	return def
}

func getInt(o jsObject, key string) (int, bool) {
	v, ok := getFloat(o, key)
	return int(v), ok
}

func getIntDefault(o jsObject, key string, def int) int {
	if v, ok := getInt(o, key); ok {
		return v
	}
	return def
}

func getBool(o jsObject, key string) (bool, bool) {
	v, ok := o[key].(bool)
	return v, ok
}

func getBoolDefault(o jsObject, key string, def bool) bool {
	if v, ok := getBool(o, key); ok {
		return v
	}
	return def
}

func getObject(o jsObject, key string) (jsObject, bool) {
	v, ok := o[key].(jsObject)
	return v, ok
}

func getArray(o jsObject, key string) ([]any, bool) {
	v, ok := o[key].([]any)
	return v, ok
}

// directionNames is the canonical wire spelling per facing.
var directionNames = map[Direction]string{
	DirUp:        "up",
	DirUpRight:   "up_right",
	DirRight:     "right",
	DirDownRight: "down_right",
	DirDown:      "down",
	DirDownLeft:  "down_left",
	DirLeft:      "left",
	DirUpLeft:    "up_left",
	DirNone:      "none",
}

var directionValues = func() map[string]Direction {
	m := make(map[string]Direction, len(directionNames))
	for d, n := range directionNames {
		m[n] = d
	}
	return m
}()

func (d Direction) String() string {
	if n, ok := directionNames[d]; ok {
		return n
	}
	return "none"
}

func (d Direction) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Direction) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*d = decodeDirection(v)
	return nil
}

// decodeDirection accepts the integer enum 0..8 or a canonical
// lowercase string; anything else is none.
func decodeDirection(v any) Direction {
	switch t := v.(type) {
	case float64:
		if d := Direction(int(t)); d >= DirUp && d <= DirNone {
			return d
		}
	case string:
		if d, ok := directionValues[t]; ok {
			return d
		}
	}
	return DirNone
}

var modeNames = map[EntityMode]string{
	ModeIdle:        "idle",
	ModeWalking:     "walking",
	ModeTeleporting: "teleporting",
}

var modeValues = func() map[string]EntityMode {
	m := make(map[string]EntityMode, len(modeNames))
	for em, n := range modeNames {
		m[n] = em
	}
	return m
}()

func (m EntityMode) String() string {
	if n, ok := modeNames[m]; ok {
		return n
	}
	return "idle"
}

func (m EntityMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *EntityMode) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = decodeMode(v)
	return nil
}

// decodeMode accepts the integer enum 0..2 or a mode name; anything
// else is idle.
func decodeMode(v any) EntityMode {
	switch t := v.(type) {
	case float64:
		if m := EntityMode(int(t)); m >= ModeIdle && m <= ModeTeleporting {
			return m
		}
	case string:
		if m, ok := modeValues[t]; ok {
			return m
		}
	}
	return ModeIdle
}

// decodeColor reads r/g/b/a channels, each defaulting to 255.
func decodeColor(o jsObject) ColorRGBA {
	return ColorRGBA{
		R: uint8(getIntDefault(o, "r", 255)),
		G: uint8(getIntDefault(o, "g", 255)),
		B: uint8(getIntDefault(o, "b", 255)),
		A: uint8(getIntDefault(o, "a", 255)),
	}
}

func decodePoint(o jsObject) Point {
	return Point{
		X: getFloatDefault(o, "X", 0),
		Y: getFloatDefault(o, "Y", 0),
	}
}

func decodeDims(o jsObject, defW, defH float64) Dimensions {
	return Dimensions{
		Width:  getFloatDefault(o, "Width", defW),
		Height: getFloatDefault(o, "Height", defH),
	}
}

func decodeObjectLayer(o jsObject) ObjectLayerState {
	l := ObjectLayerState{
		ItemID: getStringDefault(o, "itemId", ""),
		Active: getBoolDefault(o, "active", false),
	}
	if q := getIntDefault(o, "quantity", 0); q > 0 {
		l.Quantity = q
	}
	return l
}

// decodeObjectLayers decodes at most maxObjectLayers entries, dropping
// the overflow with a throttled warning.
func decodeObjectLayers(arr []any) []ObjectLayerState {
	if len(arr) == 0 {
		return nil
	}
	n := len(arr)
	if n > maxObjectLayers {
		logWarnThrottled("object layers truncated: %d > %d", n, maxObjectLayers)
		n = maxObjectLayers
	}
	layers := make([]ObjectLayerState, 0, n)
	for _, v := range arr[:n] {
		if o, ok := v.(jsObject); ok {
			layers = append(layers, decodeObjectLayer(o))
		}
	}
	return layers
}

// decodeEntity fills the shared entity prefix. The id is required;
// entities without one are dropped by callers.
func decodeEntity(o jsObject, defW, defH float64) (EntityState, bool) {
	id, ok := getString(o, "id")
	if !ok || id == "" {
		return EntityState{}, false
	}
	e := EntityState{
		ID:      id,
		Life:    getFloatDefault(o, "life", 0),
		MaxLife: getFloatDefault(o, "maxLife", 0),
	}
	if pos, ok := getObject(o, "Pos"); ok {
		e.PosServer = decodePoint(pos)
	}
	if dims, ok := getObject(o, "Dims"); ok {
		e.Dims = decodeDims(dims, defW, defH)
	} else {
		e.Dims = Dimensions{Width: defW, Height: defH}
	}
	if v, ok := o["direction"]; ok {
		e.Direction = decodeDirection(v)
	} else {
		e.Direction = DirNone
	}
	if v, ok := o["mode"]; ok {
		e.Mode = decodeMode(v)
	}
	if r, ok := getFloat(o, "respawnIn"); ok {
		if r < 0 {
			r = 0
		}
		e.RespawnIn = &r
	}
	if arr, ok := getArray(o, "objectLayers"); ok {
		e.ObjectLayers = decodeObjectLayers(arr)
	}
	// A fresh decode has no history; interpolation starts at rest.
	e.PosPrev = e.PosServer
	e.InterpPos = e.PosServer
	return e, true
}

func decodePlayer(o jsObject, defW, defH float64) (PlayerState, bool) {
	e, ok := decodeEntity(o, defW, defH)
	if !ok {
		return PlayerState{}, false
	}
	p := PlayerState{
		EntityState: e,
		MapID:       getIntDefault(o, "MapID", 0),
	}
	if tp, ok := getObject(o, "targetPos"); ok {
		p.TargetPos = decodePoint(tp)
	}
	if arr, ok := getArray(o, "path"); ok {
		n := len(arr)
		if n > maxPathPoints {
			logWarnThrottled("path truncated: %d > %d", n, maxPathPoints)
			n = maxPathPoints
		}
		p.Path = make([]Point, 0, n)
		for _, v := range arr[:n] {
			if po, ok := v.(jsObject); ok {
				p.Path = append(p.Path, decodePoint(po))
			}
		}
	}
	return p, true
}

func decodeBot(o jsObject, defW, defH float64) (BotState, bool) {
	e, ok := decodeEntity(o, defW, defH)
	if !ok {
		return BotState{}, false
	}
	return BotState{
		EntityState: e,
		Behavior:    getStringDefault(o, "behavior", ""),
	}, true
}

func decodeWorldObject(o jsObject, defW, defH float64) (WorldObject, bool) {
	id, ok := getString(o, "id")
	if !ok || id == "" {
		return WorldObject{}, false
	}
	w := WorldObject{
		ID:          id,
		Type:        getStringDefault(o, "Type", ""),
		PortalLabel: getStringDefault(o, "PortalLabel", ""),
	}
	if pos, ok := getObject(o, "Pos"); ok {
		w.Pos = decodePoint(pos)
	}
	if dims, ok := getObject(o, "Dims"); ok {
		w.Dims = decodeDims(dims, defW, defH)
	} else {
		w.Dims = Dimensions{Width: defW, Height: defH}
	}
	if arr, ok := getArray(o, "objectLayers"); ok {
		w.ObjectLayers = decodeObjectLayers(arr)
	}
	return w, true
}

// Outbound messages. Field order in the structs fixes the canonical
// byte order on the wire.

type handshakeBody struct {
	Type    string `json:"type"`
	Client  string `json:"client"`
	Version string `json:"version"`
}

// handshakeMessage identifies the client after connecting.
func handshakeMessage(client, version string) []byte {
	b, _ := json.Marshal(handshakeBody{Type: "handshake", Client: client, Version: version})
	return b
}

type playerActionBody struct {
	Type    string `json:"type"`
	Payload struct {
		TargetX float64 `json:"targetX"`
		TargetY float64 `json:"targetY"`
	} `json:"payload"`
}

// playerActionMessage requests a move to the given grid coordinates.
func playerActionMessage(targetX, targetY float64) []byte {
	m := playerActionBody{Type: "player_action"}
	m.Payload.TargetX = targetX
	m.Payload.TargetY = targetY
	b, _ := json.Marshal(m)
	return b
}

type typeOnlyBody struct {
	Type string `json:"type"`
}

func pingMessage() []byte {
	b, _ := json.Marshal(typeOnlyBody{Type: "ping"})
	return b
}

func pongMessage() []byte {
	b, _ := json.Marshal(typeOnlyBody{Type: "pong"})
	return b
}

type itemActionBody struct {
	Type    string `json:"type"`
	Payload struct {
		ItemID   string `json:"itemId"`
		Activate bool   `json:"activate"`
	} `json:"payload"`
}

// itemActionMessage toggles an associated item on the server.
func itemActionMessage(itemID string, activate bool) []byte {
	m := itemActionBody{Type: "item_action"}
	m.Payload.ItemID = itemID
	m.Payload.Activate = activate
	b, _ := json.Marshal(m)
	return b
}
