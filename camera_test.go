package main

import (
	"math"
	"testing"
)

func setTestCamera(t *testing.T, c camera) {
	t.Helper()
	camMu.Lock()
	cam = c
	camMu.Unlock()
	t.Cleanup(resetCamera)
}

func TestZoomStaysClamped(t *testing.T) {
	setTestCamera(t, camera{zoom: 1, ready: true})
	for i := 0; i < 100; i++ {
		zoomBy(1.1)
	}
	if z := cameraSnapshot().zoom; z > maxZoom {
		t.Fatalf("zoom = %v, exceeds %v", z, maxZoom)
	}
	for i := 0; i < 200; i++ {
		zoomBy(0.9)
	}
	if z := cameraSnapshot().zoom; z < minZoom {
		t.Fatalf("zoom = %v, below %v", z, minZoom)
	}
	// Mixed sequences stay inside the bounds too.
	for i := 0; i < 500; i++ {
		if i%3 == 0 {
			zoomBy(0.9)
		} else {
			zoomBy(1.1)
		}
		if z := cameraSnapshot().zoom; z < minZoom || z > maxZoom {
			t.Fatalf("zoom escaped bounds: %v", z)
		}
	}
}

func TestScreenToWorldIdentityAtUnitZoom(t *testing.T) {
	c := camera{offsetX: 300, offsetY: 400, target: Point{X: 60, Y: 60}, zoom: 1, ready: true}
	wx, wy := c.screenToWorld(300, 400)
	if wx != 300 || wy != 400 {
		t.Fatalf("screenToWorld(300,400) = (%v,%v), want (300,400)", wx, wy)
	}
	wx, wy = c.screenToWorld(60, 60)
	if wx != 60 || wy != 60 {
		t.Fatalf("screenToWorld(60,60) = (%v,%v), want (60,60)", wx, wy)
	}
}

func TestScreenToWorldUndoesZoom(t *testing.T) {
	c := camera{offsetX: 100, offsetY: 100, zoom: 2, ready: true}
	wx, wy := c.screenToWorld(140, 100)
	if wx != 120 || wy != 100 {
		t.Fatalf("screenToWorld = (%v,%v), want (120,100)", wx, wy)
	}
	// Zero zoom is treated as 1, keeping the transform total.
	c.zoom = 0
	wx, wy = c.screenToWorld(140, 100)
	if wx != 140 || wy != 100 {
		t.Fatalf("zero-zoom screenToWorld = (%v,%v)", wx, wy)
	}
}

func TestWorldToGridFallback(t *testing.T) {
	if g := worldToGrid(300, 12); g != 25 {
		t.Fatalf("worldToGrid = %v, want 25", g)
	}
	if g := worldToGrid(120, 0); g != 10 {
		t.Fatalf("fallback cell size should be 12, got %v", g)
	}
	if g := worldToGrid(120, -3); g != 10 {
		t.Fatalf("negative cell size should fall back, got %v", g)
	}
}

func TestCameraFollowsPlayer(t *testing.T) {
	resetForTest(t)
	feed(t, initFrame)
	feed(t, firstAOIFrame)
	setTestCamera(t, camera{zoom: 1, ready: true})

	// Player displayed at (5,5) grid, cellSize 12: desired target (60,60).
	worldMu.Lock()
	world.cfg.CameraSmoothing = 0.5
	worldMu.Unlock()

	updateCamera()
	c := cameraSnapshot()
	if math.Abs(c.target.X-30) > 1e-9 || math.Abs(c.target.Y-30) > 1e-9 {
		t.Fatalf("target = %+v, want (30,30)", c.target)
	}
	updateCamera()
	c = cameraSnapshot()
	if math.Abs(c.target.X-45) > 1e-9 {
		t.Fatalf("second step target.X = %v, want 45", c.target.X)
	}
}

func TestRecenterCameraOnResize(t *testing.T) {
	setTestCamera(t, camera{zoom: 1, ready: true})
	recenterCamera(600, 800)
	c := cameraSnapshot()
	if c.offsetX != 300 || c.offsetY != 400 {
		t.Fatalf("offset = (%v,%v), want (300,400)", c.offsetX, c.offsetY)
	}
}

func TestInitCameraClampsAndSticks(t *testing.T) {
	resetCamera()
	initCamera(9.5)
	if z := cameraSnapshot().zoom; z != maxZoom {
		t.Fatalf("init zoom not clamped: %v", z)
	}
	// Re-init on reconnect keeps the current view.
	zoomBy(0.5)
	want := cameraSnapshot().zoom
	initCamera(1.0)
	if z := cameraSnapshot().zoom; z != want {
		t.Fatalf("re-init changed zoom: %v -> %v", want, z)
	}
	resetCamera()
}
