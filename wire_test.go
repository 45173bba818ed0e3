package main

import (
	"encoding/json"
	"reflect"
	"testing"
)

func mustParse(t *testing.T, s string) jsObject {
	t.Helper()
	o, err := parseFrame([]byte(s))
	if err != nil {
		t.Fatalf("parseFrame: %v", err)
	}
	return o
}

func TestParseFrameRejectsMalformed(t *testing.T) {
	if _, err := parseFrame([]byte(`{"type":`)); err == nil {
		t.Fatalf("expected error for truncated JSON")
	}
	if _, err := parseFrame([]byte(`[1,2,3]`)); err == nil {
		t.Fatalf("expected error for non-object frame")
	}
}

func TestGettersTypedAccess(t *testing.T) {
	o := mustParse(t, `{"s":"hi","n":3.9,"m":-3.9,"b":true,"i":1,"o":{"k":2},"a":[1,2]}`)

	if v, ok := getString(o, "s"); !ok || v != "hi" {
		t.Fatalf("getString = %q, %v", v, ok)
	}
	if _, ok := getString(o, "n"); ok {
		t.Fatalf("getString should reject numbers")
	}
	if v, ok := getInt(o, "n"); !ok || v != 3 {
		t.Fatalf("getInt should truncate toward zero, got %d", v)
	}
	if v, _ := getInt(o, "m"); v != -3 {
		t.Fatalf("getInt(-3.9) = %d, want -3", v)
	}
	if v, ok := getFloat(o, "n"); !ok || v != 3.9 {
		t.Fatalf("getFloat = %v, %v", v, ok)
	}
	if v, ok := getBool(o, "b"); !ok || !v {
		t.Fatalf("getBool = %v, %v", v, ok)
	}
	// 0/1 are not booleans.
	if _, ok := getBool(o, "i"); ok {
		t.Fatalf("getBool should reject numeric 1")
	}
	if _, ok := getObject(o, "o"); !ok {
		t.Fatalf("getObject failed")
	}
	if a, ok := getArray(o, "a"); !ok || len(a) != 2 {
		t.Fatalf("getArray = %v, %v", a, ok)
	}
	if v := getStringDefault(o, "missing", "d"); v != "d" {
		t.Fatalf("getStringDefault = %q", v)
	}
	if v := getIntDefault(o, "missing", 7); v != 7 {
		t.Fatalf("getIntDefault = %d", v)
	}
	if v := getFloatDefault(o, "missing", 1.5); v != 1.5 {
		t.Fatalf("getFloatDefault = %v", v)
	}
	if v := getBoolDefault(o, "missing", true); !v {
		t.Fatalf("getBoolDefault = %v", v)
	}
}

func TestFrameExcerptBounds(t *testing.T) {
	long := make([]byte, 1000)
	for i := range long {
		long[i] = 'x'
	}
	head, tail := frameExcerpt(long)
	if len(head) != 300 || len(tail) != 100 {
		t.Fatalf("excerpt lengths = %d, %d", len(head), len(tail))
	}
	head, tail = frameExcerpt([]byte("short"))
	if head != "short" || tail != "" {
		t.Fatalf("short excerpt = %q, %q", head, tail)
	}
}

func TestDecodeDirectionVariants(t *testing.T) {
	tests := []struct {
		in   any
		want Direction
	}{
		{float64(0), DirUp},
		{float64(4), DirDown},
		{float64(8), DirNone},
		{float64(9), DirNone},
		{float64(-1), DirNone},
		{"up", DirUp},
		{"down_left", DirDownLeft},
		{"up_right", DirUpRight},
		{"none", DirNone},
		{"sideways", DirNone},
		{true, DirNone},
		{nil, DirNone},
	}
	for _, tt := range tests {
		if got := decodeDirection(tt.in); got != tt.want {
			t.Fatalf("decodeDirection(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDecodeModeVariants(t *testing.T) {
	tests := []struct {
		in   any
		want EntityMode
	}{
		{float64(0), ModeIdle},
		{float64(1), ModeWalking},
		{float64(2), ModeTeleporting},
		{float64(3), ModeIdle},
		{"walking", ModeWalking},
		{"teleporting", ModeTeleporting},
		{"sprinting", ModeIdle},
		{nil, ModeIdle},
	}
	for _, tt := range tests {
		if got := decodeMode(tt.in); got != tt.want {
			t.Fatalf("decodeMode(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDecodeColorDefaults(t *testing.T) {
	c := decodeColor(mustParse(t, `{"r":10,"g":20}`))
	want := ColorRGBA{R: 10, G: 20, B: 255, A: 255}
	if c != want {
		t.Fatalf("decodeColor = %+v, want %+v", c, want)
	}
}

func TestDecodeEntityDefaultsAndLayers(t *testing.T) {
	o := mustParse(t, `{
		"id":"e1",
		"Pos":{"X":2,"Y":3},
		"direction":"left",
		"mode":1,
		"life":5,"maxLife":10,
		"respawnIn":2.5,
		"objectLayers":[{"itemId":"sword","active":true,"quantity":1}]
	}`)
	e, ok := decodeEntity(o, 1.5, 2.5)
	if !ok {
		t.Fatalf("decodeEntity failed")
	}
	if e.ID != "e1" || e.PosServer != (Point{X: 2, Y: 3}) {
		t.Fatalf("entity basics wrong: %+v", e)
	}
	if e.Dims != (Dimensions{Width: 1.5, Height: 2.5}) {
		t.Fatalf("missing Dims should use defaults, got %+v", e.Dims)
	}
	if e.Direction != DirLeft || e.Mode != ModeWalking {
		t.Fatalf("direction/mode wrong: %v %v", e.Direction, e.Mode)
	}
	if e.RespawnIn == nil || *e.RespawnIn != 2.5 {
		t.Fatalf("respawnIn = %v", e.RespawnIn)
	}
	if len(e.ObjectLayers) != 1 || e.ObjectLayers[0].ItemID != "sword" {
		t.Fatalf("objectLayers = %+v", e.ObjectLayers)
	}
	if e.PosPrev != e.PosServer || e.InterpPos != e.PosServer {
		t.Fatalf("fresh entity should start at rest")
	}

	if _, ok := decodeEntity(mustParse(t, `{"Pos":{"X":1,"Y":1}}`), 1, 1); ok {
		t.Fatalf("entity without id should be dropped")
	}
	e, _ = decodeEntity(mustParse(t, `{"id":"e2"}`), 1, 1)
	if e.RespawnIn != nil {
		t.Fatalf("absent respawnIn should stay nil")
	}
	if e.Direction != DirNone {
		t.Fatalf("absent direction should be none, got %v", e.Direction)
	}
}

func TestDecodeObjectLayersCap(t *testing.T) {
	arr := make([]any, maxObjectLayers+5)
	for i := range arr {
		arr[i] = jsObject{"itemId": "x", "active": false}
	}
	layers := decodeObjectLayers(arr)
	if len(layers) != maxObjectLayers {
		t.Fatalf("layers = %d, want %d", len(layers), maxObjectLayers)
	}
}

func TestDecodePlayerPathCap(t *testing.T) {
	path := make([]any, maxPathPoints+10)
	for i := range path {
		path[i] = jsObject{"X": float64(i), "Y": 0.0}
	}
	p, ok := decodePlayer(jsObject{"id": "p", "path": path, "MapID": 3.0}, 1, 1)
	if !ok {
		t.Fatalf("decodePlayer failed")
	}
	if len(p.Path) != maxPathPoints {
		t.Fatalf("path = %d, want %d", len(p.Path), maxPathPoints)
	}
	if p.MapID != 3 {
		t.Fatalf("MapID = %d", p.MapID)
	}
}

func roundTripEntity(t *testing.T, v EntityState) EntityState {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	o := mustParse(t, string(data))
	got, ok := decodeEntity(o, 0, 0)
	if !ok {
		t.Fatalf("decodeEntity failed on %s", data)
	}
	return got
}

func TestCodecRoundTrips(t *testing.T) {
	respawn := 3.5
	ent := EntityState{
		ID:        "e9",
		PosServer: Point{X: 1.25, Y: -2.5},
		Dims:      Dimensions{Width: 2, Height: 1},
		Direction: DirDownRight,
		Mode:      ModeTeleporting,
		Life:      12,
		MaxLife:   40,
		RespawnIn: &respawn,
		ObjectLayers: []ObjectLayerState{
			{ItemID: "torch", Active: true, Quantity: 2},
		},
	}
	ent.PosPrev = ent.PosServer
	ent.InterpPos = ent.PosServer
	if got := roundTripEntity(t, ent); !reflect.DeepEqual(got, ent) {
		t.Fatalf("entity round trip:\n got %+v\nwant %+v", got, ent)
	}

	player := PlayerState{
		EntityState: ent,
		MapID:       7,
		TargetPos:   Point{X: 9, Y: 9},
		Path:        []Point{{X: 1, Y: 1}, {X: 2, Y: 2}},
	}
	data, _ := json.Marshal(player)
	got, ok := decodePlayer(mustParse(t, string(data)), 0, 0)
	if !ok || !reflect.DeepEqual(got, player) {
		t.Fatalf("player round trip:\n got %+v\nwant %+v", got, player)
	}

	bot := BotState{EntityState: ent, Behavior: "hostile"}
	bdata, _ := json.Marshal(bot)
	gotBot, ok := decodeBot(mustParse(t, string(bdata)), 0, 0)
	if !ok || !reflect.DeepEqual(gotBot, bot) {
		t.Fatalf("bot round trip:\n got %+v\nwant %+v", gotBot, bot)
	}

	obj := WorldObject{
		ID:          "portal-9",
		Type:        "portal",
		Pos:         Point{X: 4, Y: 5},
		Dims:        Dimensions{Width: 1, Height: 2},
		PortalLabel: "cave entrance",
	}
	odata, _ := json.Marshal(obj)
	gotObj, ok := decodeWorldObject(mustParse(t, string(odata)), 0, 0)
	if !ok || !reflect.DeepEqual(gotObj, obj) {
		t.Fatalf("object round trip:\n got %+v\nwant %+v", gotObj, obj)
	}
}

func TestWireKeysAreCapitalized(t *testing.T) {
	data, _ := json.Marshal(PlayerState{
		EntityState: EntityState{ID: "p", PosServer: Point{X: 1, Y: 2}, Dims: Dimensions{Width: 1, Height: 1}},
		MapID:       1,
	})
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"Pos", "Dims", "MapID"} {
		if _, ok := raw[key]; !ok {
			t.Fatalf("encoded player missing wire key %q: %s", key, data)
		}
	}
	var pos map[string]json.RawMessage
	json.Unmarshal(raw["Pos"], &pos)
	if _, ok := pos["X"]; !ok {
		t.Fatalf("Pos must use capitalized X: %s", raw["Pos"])
	}
}

func TestOutboundMessageShapes(t *testing.T) {
	if got := string(handshakeMessage("goCyberia", "1.0")); got != `{"type":"handshake","client":"goCyberia","version":"1.0"}` {
		t.Fatalf("handshake = %s", got)
	}
	if got := string(playerActionMessage(25, 33.5)); got != `{"type":"player_action","payload":{"targetX":25,"targetY":33.5}}` {
		t.Fatalf("player_action = %s", got)
	}
	if got := string(pingMessage()); got != `{"type":"ping"}` {
		t.Fatalf("ping = %s", got)
	}
	if got := string(pongMessage()); got != `{"type":"pong"}` {
		t.Fatalf("pong = %s", got)
	}
	if got := string(itemActionMessage("torch", true)); got != `{"type":"item_action","payload":{"itemId":"torch","activate":true}}` {
		t.Fatalf("item_action = %s", got)
	}
}
