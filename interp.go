package main

// interpAlpha returns the per-frame blend factor for a delta time in
// seconds: dt over the interpolation window, clamped to [0,1]. A frame
// longer than the window snaps entities to their server position.
func interpAlpha(dt float64, interpolationMs int) float64 {
	if interpolationMs <= 0 {
		return 1
	}
	alpha := dt / (float64(interpolationMs) / 1000.0)
	if alpha < 0 {
		return 0
	}
	if alpha > 1 {
		return 1
	}
	return alpha
}

// stepEntity advances one entity's displayed position toward its server
// position.
func stepEntity(e *EntityState, alpha float64) {
	e.InterpPos.X += alpha * (e.PosServer.X - e.InterpPos.X)
	e.InterpPos.Y += alpha * (e.PosServer.Y - e.InterpPos.Y)
}

// updateInterpolation runs once per rendered frame. The local player,
// other players and bots move identically; world objects are static
// between snapshots.
func updateInterpolation(dt float64) {
	worldMu.Lock()
	alpha := interpAlpha(dt, world.cfg.InterpolationMs)
	stepEntity(&world.player.EntityState, alpha)
	for _, p := range world.otherPlayers {
		stepEntity(&p.EntityState, alpha)
	}
	for _, b := range world.bots {
		stepEntity(&b.EntityState, alpha)
	}
	worldMu.Unlock()
}
