package main

import "sync"

const (
	minZoom = 0.1
	maxZoom = 5.0
)

// camera follows the local player. target is the world-pixel position
// the camera looks at; offset is the screen point that position maps
// to. Written only by the render thread; camMu covers the init done by
// the dispatcher when init_data arrives.
type camera struct {
	target    Point
	offsetX   float64
	offsetY   float64
	zoom      float64
	smoothing float64
	ready     bool
}

var (
	cam   camera
	camMu sync.Mutex
)

// initCamera makes the camera usable once init_data provides the zoom
// and smoothing config. Re-inits are ignored so reconnects keep the
// current view.
func initCamera(zoom float64) {
	camMu.Lock()
	if !cam.ready {
		cam.zoom = clampZoom(zoom)
		cam.ready = true
	}
	camMu.Unlock()
}

func resetCamera() {
	camMu.Lock()
	cam = camera{}
	camMu.Unlock()
}

func clampZoom(z float64) float64 {
	if z < minZoom {
		return minZoom
	}
	if z > maxZoom {
		return maxZoom
	}
	return z
}

// updateCamera advances the follow target toward the player's displayed
// position once per frame.
func updateCamera() {
	worldMu.Lock()
	cs := cellSizeOr(world.cfg.CellSize)
	desiredX := world.player.InterpPos.X * cs
	desiredY := world.player.InterpPos.Y * cs
	smoothing := world.cfg.CameraSmoothing
	worldMu.Unlock()

	if smoothing <= 0 || smoothing > 1 {
		smoothing = 1
	}
	camMu.Lock()
	cam.smoothing = smoothing
	cam.target.X += smoothing * (desiredX - cam.target.X)
	cam.target.Y += smoothing * (desiredY - cam.target.Y)
	cam.zoom = clampZoom(cam.zoom)
	camMu.Unlock()
}

// recenterCamera pins the camera offset to the window center; called on
// every layout change.
func recenterCamera(screenW, screenH int) {
	camMu.Lock()
	cam.offsetX = float64(screenW) / 2
	cam.offsetY = float64(screenH) / 2
	camMu.Unlock()
}

// screenToWorld converts a window point to world pixels by undoing the
// zoom about the camera offset. The follow target deliberately does not
// enter the inverse: the server's original client pans the scene at
// draw time only, and action coordinates must match what it sends.
func (c *camera) screenToWorld(sx, sy float64) (float64, float64) {
	z := c.zoom
	if z <= 0 {
		z = 1
	}
	return (sx-c.offsetX)/z + c.offsetX, (sy-c.offsetY)/z + c.offsetY
}

// worldToScreen is the draw-side transform: pan by the follow target,
// scale about the offset.
func (c *camera) worldToScreen(wx, wy float64) (float64, float64) {
	z := c.zoom
	if z <= 0 {
		z = 1
	}
	return (wx-c.target.X)*z + c.offsetX, (wy-c.target.Y)*z + c.offsetY
}

// worldToGrid converts world pixels to grid units.
func worldToGrid(w float64, cellSize float64) float64 {
	return w / cellSizeOr(cellSize)
}

// zoomBy scales the camera zoom and clamps it to [0.1, 5.0].
func zoomBy(factor float64) {
	camMu.Lock()
	cam.zoom = clampZoom(cam.zoom * factor)
	camMu.Unlock()
}

// cameraSnapshot returns a copy for the render thread.
func cameraSnapshot() camera {
	camMu.Lock()
	c := cam
	camMu.Unlock()
	return c
}
