package main

import (
	"context"
	"encoding/json"
	"math"
	"sync"
	"time"
)

// runFakeMode drives the full message pipeline without a server: it
// feeds synthetic init_data and aoi_update frames through
// processServerMessage and captures outbound player_action frames so
// clicks actually move the fake player.
func runFakeMode(ctx context.Context) {
	const (
		gridW, gridH = 100, 100
		tick         = 200 * time.Millisecond
	)

	var mu sync.Mutex
	px, py := 50.0, 50.0
	tx, ty := px, py

	sendFrame = func(data []byte) error {
		var m struct {
			Type    string `json:"type"`
			Payload struct {
				TargetX float64 `json:"targetX"`
				TargetY float64 `json:"targetY"`
			} `json:"payload"`
		}
		if err := json.Unmarshal(data, &m); err != nil || m.Type != "player_action" {
			return nil
		}
		mu.Lock()
		tx, ty = m.Payload.TargetX, m.Payload.TargetY
		mu.Unlock()
		return nil
	}

	initMsg := map[string]any{
		"type": "init_data",
		"payload": map[string]any{
			"gridW": gridW, "gridH": gridH,
			"cellSize": 12.0, "fps": 60,
			"interpolationMs": 200, "aoiRadius": 15.0,
			"defaultObjWidth": 1.0, "defaultObjHeight": 1.0,
			"cameraSmoothing": 0.15, "cameraZoom": 1.5,
			"devUi":    true,
			"playerID": "offline-player",
		},
	}
	feedFrame(initMsg)
	feedFrame(map[string]any{
		"type":    "skill_item_ids",
		"payload": map[string]any{"associatedItemIds": []string{"torch", "pickaxe"}},
	})

	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	step := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		step++

		mu.Lock()
		// Walk toward the last click target at a fixed cell rate.
		dx, dy := tx-px, ty-py
		if d := math.Hypot(dx, dy); d > 0.01 {
			stepLen := math.Min(d, 0.5)
			px += dx / d * stepLen
			py += dy / d * stepLen
		}
		cx, cy := px, py
		mu.Unlock()

		// A bot circling the player's spawn.
		bx := 50 + 8*math.Cos(float64(step)/10)
		by := 50 + 8*math.Sin(float64(step)/10)

		mode := "idle"
		if cx != tx || cy != ty {
			mode = "walking"
		}
		aoi := map[string]any{
			"type": "aoi_update",
			"payload": map[string]any{
				"playerID": "offline-player",
				"player": map[string]any{
					"id":    "offline-player",
					"Pos":   map[string]any{"X": cx, "Y": cy},
					"Dims":  map[string]any{"Width": 1.0, "Height": 1.0},
					"mode":  mode,
					"life":  80.0, "maxLife": 100.0,
					"MapID":     1,
					"targetPos": map[string]any{"X": tx, "Y": ty},
				},
				"visiblePlayers": map[string]any{},
				"visibleGridObjects": map[string]any{
					"bots": map[string]any{
						"bot-1": map[string]any{
							"id":       "bot-1",
							"Pos":      map[string]any{"X": bx, "Y": by},
							"Dims":     map[string]any{"Width": 1.0, "Height": 1.0},
							"behavior": "passive",
							"mode":     "walking",
						},
					},
					"obstacles": map[string]any{
						"rock-1": map[string]any{"id": "rock-1", "Type": "obstacle",
							"Pos": map[string]any{"X": 45.0, "Y": 45.0}},
						"rock-2": map[string]any{"id": "rock-2", "Type": "obstacle",
							"Pos": map[string]any{"X": 55.0, "Y": 47.0}},
					},
					"portals": map[string]any{
						"portal-1": map[string]any{"id": "portal-1", "Type": "portal",
							"Pos":         map[string]any{"X": 60.0, "Y": 60.0},
							"PortalLabel": "elsewhere"},
					},
					"floors":      map[string]any{},
					"foregrounds": map[string]any{},
				},
			},
		}
		feedFrame(aoi)
	}
}

func feedFrame(m map[string]any) {
	data, err := json.Marshal(m)
	if err != nil {
		logError("fake frame: %v", err)
		return
	}
	processServerMessage(data)
}
