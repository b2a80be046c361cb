package main

import (
	"math"
	"math/rand"
)

// MatchPhase is the round lifecycle
type MatchPhase int

const (
	PhaseActive     MatchPhase = 0
	PhaseRoundReset MatchPhase = 1
	PhaseGameOver   MatchPhase = 2
)

// PauseState is orthogonal to the phase: pausing suspends updates in
// any phase and remembers nothing, so resuming lands back where the
// match left off (including mid-countdown).
type PauseState int

const (
	PauseNone        PauseState = 0
	PausePaused      PauseState = 1
	PauseConfirmExit PauseState = 2
)

// Match owns all entities for one game and advances the rules each
// tick: scoring, laser penalties, win detection, round resets, and the
// PvE leveling ramp.
type Match struct {
	cfg MatchConfig

	Ship1 *Ship
	Ship2 *Ship
	Ball  *Ball
	Laser *LaserBarrier
	AI    *AIController // nil in PvP

	phase      MatchPhase
	pause      PauseState
	resetTimer float64
	winner     int

	// PvE leveling
	level       int
	levelPoints int

	events []MatchEvent

	rng *rand.Rand
	tel *Telemetry
}

// MatchEvent kinds
const (
	EventPoint    = "point"
	EventGameOver = "game_over"
)

// Point causes
const (
	CauseGoal  = "goal"
	CauseLaser = "laser"
)

// MatchEvent records a scoring or terminal event for the shell to
// broadcast. Events accumulate during Update and are drained after.
type MatchEvent struct {
	Kind   string
	Scorer int
	Cause  string
	Winner int
	Score1 int
	Score2 int
}

// DrainEvents returns and clears the events produced since the last call
func (m *Match) DrainEvents() []MatchEvent {
	ev := m.events
	m.events = nil
	return ev
}

// NewMatch builds a match from a validated config. The RNG drives all
// simulation randomness (serves, wall jitter, bot imperfection), so a
// seeded one makes the whole match reproducible.
func NewMatch(cfg MatchConfig, rng *rand.Rand, tel *Telemetry) *Match {
	cfg = cfg.Validate()
	m := &Match{
		cfg:   cfg,
		Ship1: NewShip(1, false),
		Ship2: NewShip(2, cfg.Mode == ModePvE),
		Ball:  NewBall(rng),
		Laser: NewLaserBarrier(),
		level: 1,
		rng:   rng,
		tel:   tel,
	}
	if cfg.Mode == ModePvE {
		m.AI = NewAIController(ProfileFor(cfg.Difficulty), rng, tel)
		m.applyBotSpeed()
	}
	return m
}

// Config returns the match configuration
func (m *Match) Config() MatchConfig { return m.cfg }

// Phase returns the current round phase
func (m *Match) Phase() MatchPhase { return m.phase }

// PauseMode returns the current pause sub-state
func (m *Match) PauseMode() PauseState { return m.pause }

// Winner returns 1 or 2 once the match is decided, 0 before that
func (m *Match) Winner() int { return m.winner }

// Level returns the current PvE level (always 1 in PvP)
func (m *Match) Level() int { return m.level }

// LevelProgress returns the fraction of points toward the next level
func (m *Match) LevelProgress() float64 {
	if m.cfg.Mode != ModePvE || m.level >= MaxLevel {
		return 0
	}
	return float64(m.levelPoints) / PointsPerLevel
}

// ResetTimer returns the remaining serve countdown
func (m *Match) ResetTimer() float64 { return m.resetTimer }

// SetInput sets a human seat's movement intent. Input for the bot seat
// or outside active play is dropped.
func (m *Match) SetInput(player, dir int) {
	if m.pause != PauseNone || m.phase == PhaseGameOver {
		return
	}
	switch player {
	case 1:
		m.Ship1.SetMovement(dir)
	case 2:
		if !m.Ship2.IsBot {
			m.Ship2.SetMovement(dir)
		}
	}
}

// Pause suspends the match. No-op when already paused or decided.
func (m *Match) Pause() {
	if m.phase == PhaseGameOver || m.pause != PauseNone {
		return
	}
	m.pause = PausePaused
}

// Resume continues a paused match. No-op in any other state.
func (m *Match) Resume() {
	if m.pause != PausePaused {
		return
	}
	m.pause = PauseNone
}

// RequestExit asks for the exit-to-menu confirmation while paused
func (m *Match) RequestExit() {
	if m.pause != PausePaused {
		return
	}
	m.pause = PauseConfirmExit
}

// CancelExit backs out of the exit confirmation
func (m *Match) CancelExit() {
	if m.pause != PauseConfirmExit {
		return
	}
	m.pause = PausePaused
}

// Update advances the match one tick. All entity mutation happens
// here; snapshots taken after Update never observe a mid-frame state.
func (m *Match) Update(dt float64) {
	if m.pause != PauseNone || m.phase == PhaseGameOver {
		return
	}

	dt = Sanitize(dt, 0)
	if dt <= 0 {
		return
	}

	if m.phase == PhaseRoundReset {
		m.resetTimer -= dt
		if m.resetTimer <= 0 {
			m.resetTimer = 0
			m.phase = PhaseActive
		}
		return
	}

	if m.AI != nil {
		m.Ship2.SetMovement(m.AI.Update(dt, m.Ball, m.Ship2))
	}

	m.Ship1.Update(dt)
	m.Ship2.Update(dt)
	m.Ball.Update(dt)
	m.Laser.Update(dt)

	m.handleCollisions()
	m.handleScoring()
}

// handleCollisions resolves paddle bounces and laser penalties
func (m *Match) handleCollisions() {
	if m.Ball.VX < 0 {
		if res := CheckBallShip(m.Ball, m.Ship1); res.Collided {
			BounceOffPaddle(m.Ball, m.Ship1)
			m.tel.CountPaddleBounce()
		}
	}
	if m.Ball.VX > 0 {
		if res := CheckBallShip(m.Ball, m.Ship2); res.Collided {
			BounceOffPaddle(m.Ball, m.Ship2)
			m.tel.CountPaddleBounce()
		}
	}

	if m.Laser.Touching(m.Ship1) {
		m.onLaserTouch(m.Ship1)
	}
	if m.Laser.Touching(m.Ship2) {
		m.onLaserTouch(m.Ship2)
	}
}

// onLaserTouch awards the opponent a point and yanks the offending
// ship back to its reset position. Play continues without a countdown
// since the ball never left the field. Once a touch has decided the
// match, later touches in the same tick do nothing.
func (m *Match) onLaserTouch(ship *Ship) {
	if m.phase == PhaseGameOver {
		return
	}
	if ship.PlayerID == 1 {
		m.awardPoint(2, CauseLaser)
	} else {
		m.awardPoint(1, CauseLaser)
	}
	ship.ResetPosition()
	m.tel.CountLaserPenalty()
}

// handleScoring detects goals and starts the next round
func (m *Match) handleScoring() {
	out, scorer := m.Ball.OutOfBounds()
	if !out {
		return
	}

	m.awardPoint(scorer, CauseGoal)
	if m.phase == PhaseGameOver {
		return
	}

	// Loser receives the next serve
	receiver := 1
	if scorer == 1 {
		receiver = 2
	}
	m.startRoundReset(receiver)
}

// awardPoint adds a point, advances leveling, and checks for a winner.
// Scores freeze once the match is decided.
func (m *Match) awardPoint(scorer int, cause string) {
	if m.phase == PhaseGameOver {
		return
	}

	if scorer == 1 {
		m.Ship1.AddScore(1)
	} else {
		m.Ship2.AddScore(1)
	}
	m.tel.CountPoint()
	m.events = append(m.events, MatchEvent{
		Kind:   EventPoint,
		Scorer: scorer,
		Cause:  cause,
		Score1: m.Ship1.Score,
		Score2: m.Ship2.Score,
	})

	if m.cfg.Mode == ModePvE && scorer == 1 {
		m.advanceLevel()
	}

	if m.Ship1.Score >= m.cfg.WinningScore {
		m.declareWinner(1)
	} else if m.Ship2.Score >= m.cfg.WinningScore {
		m.declareWinner(2)
	}
}

// declareWinner freezes the match
func (m *Match) declareWinner(player int) {
	m.phase = PhaseGameOver
	m.winner = player
	m.resetTimer = 0
	m.tel.CountMatchCompleted()
	m.events = append(m.events, MatchEvent{
		Kind:   EventGameOver,
		Winner: player,
		Score1: m.Ship1.Score,
		Score2: m.Ship2.Score,
	})
}

// startRoundReset recenters everything and arms the serve countdown
func (m *Match) startRoundReset(towardPlayer int) {
	m.Ship1.ResetPosition()
	m.Ship2.ResetPosition()
	m.Ball.Serve(towardPlayer, m.serveSpeed())
	m.resetTimer = RoundResetDelay
	m.phase = PhaseRoundReset
}

// serveSpeed is the level-scaled ball base speed
func (m *Match) serveSpeed() float64 {
	if m.cfg.Mode != ModePvE {
		return BallInitialSpeed
	}
	mul := math.Pow(LevelBallSpeedMul, float64(m.level-1))
	return math.Min(BallInitialSpeed*mul, BallMaxSpeed)
}

// advanceLevel accumulates human points and applies the per-level
// scaling to the bot ship and, at the breakpoints, its difficulty tier
func (m *Match) advanceLevel() {
	m.levelPoints++
	if m.levelPoints < PointsPerLevel || m.level >= MaxLevel {
		return
	}
	m.levelPoints -= PointsPerLevel
	m.level++

	if m.AI != nil {
		m.AI.SetProfile(ProfileFor(m.effectiveDifficulty()))
	}
	m.applyBotSpeed()
}

// effectiveDifficulty steps the configured tier up at the level
// breakpoints, never below the configured base
func (m *Match) effectiveDifficulty() Difficulty {
	tier := m.cfg.Difficulty
	if m.level >= LevelBreakHard {
		tier += 2
	} else if m.level >= LevelBreakMedium {
		tier++
	}
	if tier > DiffHard {
		tier = DiffHard
	}
	return tier
}

// applyBotSpeed sets the bot ship speed from the current profile and
// level multiplier
func (m *Match) applyBotSpeed() {
	if m.AI == nil {
		return
	}
	levelMul := math.Min(math.Pow(LevelBotSpeedMul, float64(m.level-1)), LevelBotSpeedCap)
	m.Ship2.Speed = ShipSpeed * m.AI.Profile().SpeedMultiplier * levelMul
}

// Reset restarts the match from scratch: scores, positions, leveling,
// bot state. This is the only way out of GameOver.
func (m *Match) Reset() {
	m.Ship1.ResetPosition()
	m.Ship1.Score = 0
	m.Ship2.ResetPosition()
	m.Ship2.Score = 0

	m.level = 1
	m.levelPoints = 0
	m.winner = 0
	m.resetTimer = 0
	m.phase = PhaseActive
	m.pause = PauseNone

	if m.AI != nil {
		m.AI.Reset()
		m.AI.SetProfile(ProfileFor(m.cfg.Difficulty))
		m.applyBotSpeed()
	}

	m.Ball.Serve(0, BallInitialSpeed)
}
