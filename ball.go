package main

import (
	"math"
	"math/rand"
)

// Ball is the meteorite bounced between the ships
type Ball struct {
	X, Y     float64
	VX, VY   float64
	Speed    float64 // scalar speed, ramps up on paddle hits
	Size     float64
	Rotation float64 // visual spin in degrees, renderer hint only
	LastHitBy int    // 1 or 2, 0 if untouched since serve

	rng *rand.Rand
}

// NewBall creates a centered ball serving in a random direction
func NewBall(rng *rand.Rand) *Ball {
	b := &Ball{
		X:     ScreenWidth / 2,
		Y:     ScreenHeight / 2,
		Speed: BallInitialSpeed,
		Size:  BallSize,
		rng:   rng,
	}
	b.setRandomDirection()
	return b
}

// setRandomDirection launches the ball at a random angle within 45
// degrees of horizontal, toward a random side
func (b *Ball) setRandomDirection() {
	angle := (b.rng.Float64()*2 - 1) * math.Pi / 4
	dir := 1.0
	if b.rng.Intn(2) == 0 {
		dir = -1.0
	}
	b.VX = math.Cos(angle) * b.Speed * dir
	b.VY = math.Sin(angle) * b.Speed
}

// Update integrates the ball one tick and resolves wall bounces.
// Horizontal exits are left for the orchestrator to score.
func (b *Ball) Update(dt float64) {
	b.X += b.VX * dt
	b.Y += b.VY * dt

	// Spin in the direction of travel
	spin := BallRotationSpeed * dt
	if b.VX < 0 {
		spin = -spin
	}
	b.Rotation = math.Mod(b.Rotation+spin+360, 360)

	b.Y, b.VY = reflectWalls(b.Y, b.VY, b.Size/2, b.rng)
}

// Serve recenters the ball toward the given player (1 = left, 2 =
// right), or a random side when toward is 0. Speed resets to the given
// serve speed (the base speed, possibly level-scaled).
func (b *Ball) Serve(toward int, serveSpeed float64) {
	b.X = ScreenWidth / 2
	b.Y = ScreenHeight / 2
	b.Speed = Clamp(Sanitize(serveSpeed, BallInitialSpeed), BallInitialSpeed, BallMaxSpeed)
	b.Rotation = 0
	b.LastHitBy = 0

	if toward != 1 && toward != 2 {
		b.setRandomDirection()
		return
	}
	angle := (b.rng.Float64()*2 - 1) * math.Pi / 4
	dir := 1.0
	if toward == 1 {
		dir = -1.0
	}
	b.VX = math.Cos(angle) * b.Speed * dir
	b.VY = math.Sin(angle) * b.Speed
}

// OutOfBounds reports whether the ball left the field horizontally and
// which player scores. A left exit scores for player 2, a right exit
// for player 1. The ball must clear the edge by its full size.
func (b *Ball) OutOfBounds() (bool, int) {
	if b.X+b.Size < 0 {
		return true, 2
	}
	if b.X-b.Size > ScreenWidth {
		return true, 1
	}
	return false, 0
}

// Direction returns the horizontal travel direction: -1, 0 or 1
func (b *Ball) Direction() int {
	if b.VX < 0 {
		return -1
	}
	if b.VX > 0 {
		return 1
	}
	return 0
}

// Rect returns the ball's bounding box
func (b *Ball) Rect() Rect {
	return NewRectCentered(b.X, b.Y, b.Size, b.Size)
}
