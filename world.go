package main

import (
	"sync"
	"time"
)

// Collection caps. Snapshots that exceed them are truncated with a
// throttled warning rather than rejected.
const (
	maxEntitiesPerKind  = 1000
	maxObjectsPerKind   = 5000
	maxObjectLayers     = 20
	maxPathPoints       = 100
	defaultCellSize     = 12.0
	errorBannerDuration = 5 * time.Second
)

// Point is a position in grid units (fractional cells).
type Point struct {
	X float64 `json:"X"`
	Y float64 `json:"Y"`
}

// Dimensions is an entity or object footprint in grid units.
type Dimensions struct {
	Width  float64 `json:"Width"`
	Height float64 `json:"Height"`
}

// ColorRGBA is a palette entry.
type ColorRGBA struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// Direction matches the server's facing enum ordering.
type Direction int

const (
	DirUp Direction = iota
	DirUpRight
	DirRight
	DirDownRight
	DirDown
	DirDownLeft
	DirLeft
	DirUpLeft
	DirNone
)

// EntityMode matches the server's object layer mode enum.
type EntityMode int

const (
	ModeIdle EntityMode = iota
	ModeWalking
	ModeTeleporting
)

// ObjectLayerState is a visual/semantic layer attached to an entity or
// world object, like an equipped item.
type ObjectLayerState struct {
	ItemID   string `json:"itemId"`
	Active   bool   `json:"active"`
	Quantity int    `json:"quantity"`
}

// EntityState is the shared prefix of players and bots. PosServer is
// the last authoritative position, PosPrev the interpolation anchor and
// InterpPos the position actually drawn.
type EntityState struct {
	ID           string             `json:"id"`
	PosServer    Point              `json:"Pos"`
	Dims         Dimensions         `json:"Dims"`
	Direction    Direction          `json:"direction"`
	Mode         EntityMode         `json:"mode"`
	Life         float64            `json:"life"`
	MaxLife      float64            `json:"maxLife"`
	RespawnIn    *float64           `json:"respawnIn,omitempty"`
	ObjectLayers []ObjectLayerState `json:"objectLayers,omitempty"`

	PosPrev    Point     `json:"-"`
	InterpPos  Point     `json:"-"`
	LastUpdate time.Time `json:"-"`
}

// PlayerState is an entity with pathing data.
type PlayerState struct {
	EntityState
	MapID     int     `json:"MapID"`
	TargetPos Point   `json:"targetPos"`
	Path      []Point `json:"path,omitempty"`
}

// BotState is an entity with a server-driven behavior tag.
type BotState struct {
	EntityState
	Behavior string `json:"behavior"`
}

// WorldObject is a static grid object: obstacle, portal, floor or
// foreground. Portals carry a destination label.
type WorldObject struct {
	ID           string             `json:"id"`
	Type         string             `json:"Type"`
	Pos          Point              `json:"Pos"`
	Dims         Dimensions         `json:"Dims"`
	PortalLabel  string             `json:"PortalLabel,omitempty"`
	ObjectLayers []ObjectLayerState `json:"objectLayers,omitempty"`
}

// worldConfig mirrors the init_data payload.
type worldConfig struct {
	GridW            int
	GridH            int
	CellSize         float64
	FPS              int
	InterpolationMs  int
	AOIRadius        float64
	DefaultObjWidth  float64
	DefaultObjHeight float64
	CameraSmoothing  float64
	CameraZoom       float64
	DevUI            bool
	SumStatsLimit    int
}

// worldState is the client's view of the game, valid only between
// snapshots. All access goes through worldMu.
type worldState struct {
	player   PlayerState
	playerID string

	otherPlayers map[string]*PlayerState
	bots         map[string]*BotState
	obstacles    map[string]*WorldObject
	portals      map[string]*WorldObject
	floors       map[string]*WorldObject
	foregrounds  map[string]*WorldObject

	associatedItemIDs []string

	cfg    worldConfig
	colors map[string]ColorRGBA

	initReceived     bool
	firstAOIApplied  bool
	lastError        string
	errorDisplayTime time.Time
	lastUpdateTime   time.Time
}

var (
	world   = newWorldState()
	worldMu sync.Mutex
)

func newWorldState() worldState {
	return worldState{
		otherPlayers: make(map[string]*PlayerState),
		bots:         make(map[string]*BotState),
		obstacles:    make(map[string]*WorldObject),
		portals:      make(map[string]*WorldObject),
		floors:       make(map[string]*WorldObject),
		foregrounds:  make(map[string]*WorldObject),
		cfg: worldConfig{
			CellSize:         defaultCellSize,
			FPS:              60,
			InterpolationMs:  200,
			DefaultObjWidth:  1,
			DefaultObjHeight: 1,
			CameraSmoothing:  0.1,
			CameraZoom:       1.0,
		},
		colors: defaultPalette(),
	}
}

// resetWorld clears all game state so a new session starts clean.
func resetWorld() {
	worldMu.Lock()
	world = newWorldState()
	worldMu.Unlock()
	resetCamera()
}

// defaultPalette provides every named color the renderer reads, so a
// sparse init_data palette still draws. The lowercase keys are legacy
// aliases older servers send.
func defaultPalette() map[string]ColorRGBA {
	return map[string]ColorRGBA{
		"BACKGROUND":       {R: 18, G: 18, B: 24, A: 255},
		"GRID_BACKGROUND":  {R: 28, G: 28, B: 36, A: 255},
		"FLOOR_BACKGROUND": {R: 40, G: 40, B: 52, A: 255},
		"OBSTACLE":         {R: 100, G: 100, B: 100, A: 255},
		"FOREGROUND":       {R: 70, G: 70, B: 90, A: 255},
		"PLAYER":           {R: 0, G: 121, B: 241, A: 255},
		"OTHER_PLAYER":     {R: 0, G: 180, B: 120, A: 255},
		"PATH":             {R: 255, G: 255, B: 255, A: 80},
		"TARGET":           {R: 255, G: 200, B: 0, A: 200},
		"AOI":              {R: 255, G: 255, B: 255, A: 40},
		"DEBUG_TEXT":       {R: 200, G: 200, B: 200, A: 255},
		"ERROR_TEXT":       {R: 255, G: 80, B: 80, A: 255},
		"PORTAL":           {R: 128, G: 0, B: 128, A: 255},
		"PORTAL_LABEL":     {R: 230, G: 200, B: 255, A: 255},
		"UI_TEXT":          {R: 255, G: 255, B: 255, A: 255},
		"MAP_BOUNDARY":     {R: 255, G: 0, B: 255, A: 255},
		"grid":             {R: 28, G: 28, B: 36, A: 255},
		"floor":            {R: 40, G: 40, B: 52, A: 255},
		"bot":              {R: 255, G: 100, B: 60, A: 255},
	}
}

// paletteColor returns the named color, falling back to the built-in
// default and finally magenta so missing keys are visible.
func paletteColor(w *worldState, name string) ColorRGBA {
	if c, ok := w.colors[name]; ok {
		return c
	}
	if c, ok := defaultPalette()[name]; ok {
		return c
	}
	return ColorRGBA{R: 255, G: 0, B: 255, A: 255}
}

// cellSizeOr returns the configured cell size, guarding against
// degenerate configs.
func cellSizeOr(cs float64) float64 {
	if cs <= 0 {
		return defaultCellSize
	}
	return cs
}
