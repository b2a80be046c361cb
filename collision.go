package main

// Collision kinds reported by the detector
const (
	HitPaddle     = "paddle"
	HitWallTop    = "wall_top"
	HitWallBottom = "wall_bottom"
	HitGoalLeft   = "goal_left"  // player 2 scores
	HitGoalRight  = "goal_right" // player 1 scores
	HitLaser      = "laser"
)

// CollisionResult is the structured outcome of a collision query
type CollisionResult struct {
	Collided bool
	Kind     string
	HitFrac  float64 // paddle hits: impact offset in [-1, 1]
	Ship     *Ship   // paddle/laser hits: the ship involved
}

// CheckBallShip tests the ball against a ship's inset hitbox. The hit
// only counts while the ball travels toward that ship, so a bounce that
// already reversed direction this frame is not processed twice.
func CheckBallShip(ball *Ball, ship *Ship) CollisionResult {
	if !ball.Rect().Overlaps(ship.PaddleRect()) {
		return CollisionResult{}
	}
	if ship.PlayerID == 1 && ball.VX > 0 {
		return CollisionResult{}
	}
	if ship.PlayerID == 2 && ball.VX < 0 {
		return CollisionResult{}
	}
	return CollisionResult{
		Collided: true,
		Kind:     HitPaddle,
		HitFrac:  ship.RelativeHitPosition(ball.Y),
		Ship:     ship,
	}
}

// CheckBallWall tests the ball against the top and bottom walls
func CheckBallWall(ball *Ball) CollisionResult {
	half := ball.Size / 2
	if ball.Y-half <= 0 {
		return CollisionResult{Collided: true, Kind: HitWallTop}
	}
	if ball.Y+half >= ScreenHeight {
		return CollisionResult{Collided: true, Kind: HitWallBottom}
	}
	return CollisionResult{}
}

// CheckGoal tests whether the ball has fully left the field
func CheckGoal(ball *Ball) CollisionResult {
	out, scorer := ball.OutOfBounds()
	if !out {
		return CollisionResult{}
	}
	kind := HitGoalRight
	if scorer == 2 {
		kind = HitGoalLeft
	}
	return CollisionResult{Collided: true, Kind: kind}
}

// CheckShipLaser tests a ship against the barrier's collision rect
func CheckShipLaser(ship *Ship, laser *LaserBarrier) CollisionResult {
	if !laser.Touching(ship) {
		return CollisionResult{}
	}
	return CollisionResult{Collided: true, Kind: HitLaser, Ship: ship}
}
