package main

import (
	"math"
	"math/rand"
)

const (
	predictStep    = 0.016 // nominal frame duration
	predictMaxIter = 1000  // hard cap, bounds pathological inputs
)

// reflectWalls resolves a vertical boundary crossing: clamp to the
// wall, force the velocity sign inward, and (when rng is given) add a
// bounded random perturbation so rallies never become perfectly
// periodic. The predictor passes nil rng for a deterministic forecast.
func reflectWalls(y, vy, half float64, rng *rand.Rand) (float64, float64) {
	if y-half <= 0 {
		y = half
		vy = math.Abs(vy)
		if rng != nil {
			vy += (rng.Float64()*2 - 1) * WallBounceJitter
		}
	} else if y+half >= ScreenHeight {
		y = ScreenHeight - half
		vy = -math.Abs(vy)
		if rng != nil {
			vy += (rng.Float64()*2 - 1) * WallBounceJitter
		}
	}
	return y, vy
}

// BounceOffPaddle deflects the ball off a ship: the impact offset sets
// the exit angle, speed ramps up 5% (capped), and the ball is moved
// flush to the ship's outer edge so the same hit cannot trigger twice.
func BounceOffPaddle(ball *Ball, ship *Ship) {
	rel := ship.RelativeHitPosition(ball.Y)
	angle := rel * MaxBounceAngleDeg * math.Pi / 180

	ball.Speed = math.Min(ball.Speed*BallSpeedIncrement, BallMaxSpeed)

	// Left paddle sends the ball right, right paddle sends it left
	dir := 1.0
	if ship.PlayerID == 2 {
		dir = -1.0
	}
	ball.VX = math.Cos(angle) * ball.Speed * dir
	ball.VY = math.Sin(angle) * ball.Speed

	// Keep enough horizontal speed to rule out near-vertical stalls
	minX := ball.Speed * MinHorizontalRatio
	if math.Abs(ball.VX) < minX {
		ball.VX = minX * dir
	}

	shipRect := ship.Rect()
	if dir > 0 {
		ball.X = shipRect.Right() + ball.Size/2 + 5
	} else {
		ball.X = shipRect.X - ball.Size/2 - 5
	}

	ball.LastHitBy = ship.PlayerID
}

// PredictBallY forward-simulates the ball until its x crosses targetX
// and returns the y at arrival. Pure function of the inputs; the live
// ball is never touched. If the ball moves away from targetX the
// forecast is undefined and the screen center is returned. Returns
// capped=true when the iteration limit was hit, in which case the last
// simulated y is the degraded result.
func PredictBallY(x, y, vx, vy, half, targetX float64) (predicted float64, capped bool) {
	if (targetX > x && vx <= 0) || (targetX < x && vx >= 0) {
		return ScreenHeight / 2, false
	}

	for i := 0; i < predictMaxIter; i++ {
		x += vx * predictStep
		y += vy * predictStep
		y, vy = reflectWalls(y, vy, half, nil)

		if (vx > 0 && x >= targetX) || (vx < 0 && x <= targetX) {
			return y, false
		}
	}
	return y, true
}
