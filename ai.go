package main

import "math/rand"

const (
	aiMistakeOffset  = 100.0 // max one-off mistake, pixels
	aiDriftMinPeriod = 0.5   // seconds between drift retargets
	aiDriftMaxPeriod = 2.0
)

// AIController steers a bot ship by forecasting the ball's arrival and
// layering difficulty-scaled imperfections on top: delayed reactions,
// prediction error, occasional outright mistakes, and a slowly
// wandering focus offset.
type AIController struct {
	profile DifficultyProfile

	targetY       float64
	reactionTimer float64
	returning     bool
	lastBallDir   int

	// Focus drift: a perturbation that re-targets at random intervals
	// and eases toward its target, simulating imperfect attention
	driftOffset float64
	driftTarget float64
	driftTimer  float64

	rng *rand.Rand
	tel *Telemetry
}

// NewAIController creates a controller with the given tuning. The RNG
// is the sole randomness source, so a seeded one makes the bot
// reproducible.
func NewAIController(profile DifficultyProfile, rng *rand.Rand, tel *Telemetry) *AIController {
	return &AIController{
		profile: profile,
		targetY: ScreenHeight / 2,
		rng:     rng,
		tel:     tel,
	}
}

// SetProfile swaps the difficulty tuning at runtime (used by leveling)
func (ai *AIController) SetProfile(profile DifficultyProfile) {
	ai.profile = profile
}

// Profile returns the current tuning
func (ai *AIController) Profile() DifficultyProfile {
	return ai.profile
}

// Update re-evaluates the controller for one tick and returns the
// movement decision for the bot's ship: -1, 0 or 1.
func (ai *AIController) Update(dt float64, ball *Ball, ship *Ship) int {
	ai.updateDrift(dt)

	ai.reactionTimer -= dt

	// A direction flip invalidates the previous forecast immediately
	ballDir := ball.Direction()
	if ballDir != ai.lastBallDir {
		ai.lastBallDir = ballDir
		ai.reactionTimer = 0
	}

	if ai.ballApproaching(ball, ship) {
		ai.returning = false

		if ai.reactionTimer <= 0 {
			y, capped := PredictBallY(ball.X, ball.Y, ball.VX, ball.VY, ball.Size/2, ship.X)
			if capped {
				ai.tel.CountPredictionOverrun()
			}
			ai.targetY = y + ai.predictionError()
			ai.reactionTimer = ai.profile.ReactionDelay

			if ai.rng.Float64() < ai.profile.MistakeChance {
				ai.targetY += (ai.rng.Float64()*2 - 1) * aiMistakeOffset
			}
		}
	} else {
		// Ball heading away: recenter like a human would
		ai.returning = true
		ai.targetY = ScreenHeight / 2
	}

	return ai.decide(ship.Y, ai.targetY+ai.driftOffset)
}

// ballApproaching reports whether the ball travels toward the bot's side
func (ai *AIController) ballApproaching(ball *Ball, ship *Ship) bool {
	if ship.PlayerID == 2 {
		return ball.VX > 0
	}
	return ball.VX < 0
}

// predictionError returns a uniform error scaled by difficulty
func (ai *AIController) predictionError() float64 {
	return (ai.rng.Float64()*2 - 1) * ai.profile.PredictionError
}

// updateDrift advances the focus-drift model: when the timer expires a
// new random offset target is chosen within the difficulty's range, and
// the live offset eases toward it every tick.
func (ai *AIController) updateDrift(dt float64) {
	ai.driftTimer -= dt
	if ai.driftTimer <= 0 {
		maxDrift := ScreenHeight * ai.profile.FocusDrift * 0.5
		ai.driftTarget = (ai.rng.Float64()*2 - 1) * maxDrift
		ai.driftTimer = aiDriftMinPeriod + ai.rng.Float64()*(aiDriftMaxPeriod-aiDriftMinPeriod)
	}
	ai.driftOffset += (ai.driftTarget - ai.driftOffset) * ai.profile.DriftSpeed * dt
}

// decide compares the ship position against the effective target with
// a dead zone of a quarter ship height to avoid oscillation
func (ai *AIController) decide(currentY, targetY float64) int {
	threshold := ShipHeight / 4
	if targetY < currentY-threshold {
		return -1
	}
	if targetY > currentY+threshold {
		return 1
	}
	return 0
}

// TargetY returns the current aim point (before drift), for debugging
func (ai *AIController) TargetY() float64 {
	return ai.targetY
}

// Reset clears all controller state between matches
func (ai *AIController) Reset() {
	ai.targetY = ScreenHeight / 2
	ai.reactionTimer = 0
	ai.returning = false
	ai.lastBallDir = 0
	ai.driftOffset = 0
	ai.driftTarget = 0
	ai.driftTimer = 0
}
