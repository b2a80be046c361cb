package main

// Field dimensions and entity sizes (pixels, 1280x720 playfield)
const (
	ScreenWidth  = 1280.0
	ScreenHeight = 720.0

	ShipWidth  = 80.0
	ShipHeight = 100.0
	ShipSpeed  = 400.0 // pixels/s
	ShipMargin = 50.0  // distance from screen edge

	BallSize           = 40.0
	BallInitialSpeed   = 350.0
	BallMaxSpeed       = 700.0
	BallSpeedIncrement = 1.05 // multiplier per paddle hit
	BallRotationSpeed  = 180.0 // degrees/s, renderer hint only

	LaserWidth = 10.0

	MaxBounceAngleDeg  = 60.0
	WallBounceJitter   = 5.0 // max random vy perturbation on wall bounce
	MinHorizontalRatio = 0.3 // min |vx| as fraction of speed after bounce

	RoundResetDelay = 1.0 // seconds before a new serve
)

// Ship center x positions after reset
const (
	ShipP1X = ShipMargin + ShipWidth/2
	ShipP2X = ScreenWidth - ShipMargin - ShipWidth/2
)

// GameMode defines who controls the right-hand ship
type GameMode int

const (
	ModePvP GameMode = 0 // two human seats
	ModePvE GameMode = 1 // seat 2 is the bot
)

// Difficulty tiers for the bot
type Difficulty int

const (
	DiffEasy   Difficulty = 0
	DiffMedium Difficulty = 1
	DiffHard   Difficulty = 2
)

// String returns the tier name used in settings and the client UI
func (d Difficulty) String() string {
	switch d {
	case DiffEasy:
		return "easy"
	case DiffHard:
		return "hard"
	default:
		return "medium"
	}
}

// ParseDifficulty maps a settings string to a tier, defaulting to medium
func ParseDifficulty(s string) Difficulty {
	switch s {
	case "easy":
		return DiffEasy
	case "hard":
		return DiffHard
	default:
		return DiffMedium
	}
}

// DifficultyProfile holds the numeric knobs that fully determine bot
// behavior. Passed explicitly to the AI controller, never looked up
// from globals during simulation.
type DifficultyProfile struct {
	ReactionDelay   float64 // seconds before the bot re-predicts
	PredictionError float64 // max pixels of uniform prediction error
	SpeedMultiplier float64 // bot ship speed scale
	MistakeChance   float64 // probability of a large one-off error
	FocusDrift      float64 // fraction of screen height the focus can wander
	DriftSpeed      float64 // interpolation rate toward the drift target
}

// ProfileFor returns the tuning for a difficulty tier
func ProfileFor(d Difficulty) DifficultyProfile {
	switch d {
	case DiffEasy:
		return DifficultyProfile{
			ReactionDelay:   0.3,
			PredictionError: 120,
			SpeedMultiplier: 0.6,
			MistakeChance:   0.4,
			FocusDrift:      0.8,
			DriftSpeed:      4.0,
		}
	case DiffHard:
		return DifficultyProfile{
			ReactionDelay:   0.05,
			PredictionError: 15,
			SpeedMultiplier: 1.0,
			MistakeChance:   0.05,
			FocusDrift:      0.1,
			DriftSpeed:      1.0,
		}
	default:
		return DifficultyProfile{
			ReactionDelay:   0.15,
			PredictionError: 60,
			SpeedMultiplier: 0.8,
			MistakeChance:   0.2,
			FocusDrift:      0.4,
			DriftSpeed:      2.0,
		}
	}
}

// Leveling (PvE only): human points accumulate toward levels that scale
// the bot and the serve speed
const (
	PointsPerLevel     = 3
	MaxLevel           = 10
	LevelBotSpeedMul   = 1.08 // per level
	LevelBotSpeedCap   = 1.6  // total multiplier cap
	LevelBallSpeedMul  = 1.06 // per level, applied to serve speed
	LevelBreakMedium   = 4    // level at which the tier steps to medium
	LevelBreakHard     = 8    // level at which the tier steps to hard
)

// MatchConfig holds the immutable settings for one match
type MatchConfig struct {
	Mode         GameMode
	Difficulty   Difficulty
	WinningScore int
}

// DefaultMatchConfig returns the stock ruleset
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		Mode:         ModePvE,
		Difficulty:   DiffMedium,
		WinningScore: 10,
	}
}

// Validate clamps nonsensical values instead of failing. Winning score
// shares the 1-99 range the settings endpoint enforces.
func (c MatchConfig) Validate() MatchConfig {
	if c.WinningScore < 1 || c.WinningScore > 99 {
		c.WinningScore = 10
	}
	if c.Mode != ModePvP && c.Mode != ModePvE {
		c.Mode = ModePvE
	}
	if c.Difficulty < DiffEasy || c.Difficulty > DiffHard {
		c.Difficulty = DiffMedium
	}
	return c
}
