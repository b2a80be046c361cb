package main

import "math"

const laserPulseSpeed = 2.0

// LaserBarrier is the fixed central hazard dividing the field. Its
// geometry is static; only the pulse animation phase mutates.
type LaserBarrier struct {
	Width float64
	phase float64
	Glow  float64 // 0.7..1.0, renderer hint only
}

// NewLaserBarrier creates the central barrier
func NewLaserBarrier() *LaserBarrier {
	return &LaserBarrier{Width: LaserWidth, Glow: 1.0}
}

// Update advances the pulse animation
func (l *LaserBarrier) Update(dt float64) {
	l.phase += dt
	l.Glow = 0.7 + 0.3*math.Sin(l.phase*laserPulseSpeed*math.Pi)
}

// CollisionRect is the narrow rectangle that penalizes ship contact
func (l *LaserBarrier) CollisionRect() Rect {
	return Rect{X: ScreenWidth/2 - l.Width/2, Y: 0, W: l.Width, H: ScreenHeight}
}

// DangerZone is the wider rectangle used by the renderer for the
// early-warning glow. It never scores.
func (l *LaserBarrier) DangerZone() Rect {
	return Rect{X: ScreenWidth/2 - l.Width - 10, Y: 0, W: l.Width*2 + 20, H: ScreenHeight}
}

// InDanger reports whether a ship is close enough to warrant a warning
func (l *LaserBarrier) InDanger(ship *Ship) bool {
	return l.DangerZone().Overlaps(ship.Rect())
}

// Touching reports whether a ship overlaps the penalizing rectangle
func (l *LaserBarrier) Touching(ship *Ship) bool {
	return l.CollisionRect().Overlaps(ship.Rect())
}
