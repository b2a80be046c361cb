package main

import (
	"math"
	"testing"
)

func newTestMatch(cfg MatchConfig) *Match {
	return NewMatch(cfg, testRNG(), NewTelemetry())
}

func pvpConfig() MatchConfig {
	return MatchConfig{Mode: ModePvP, Difficulty: DiffMedium, WinningScore: 10}
}

func pveConfig() MatchConfig {
	return MatchConfig{Mode: ModePvE, Difficulty: DiffEasy, WinningScore: 50}
}

func TestMatchConfigValidate(t *testing.T) {
	cfg := MatchConfig{Mode: GameMode(99), Difficulty: Difficulty(99), WinningScore: -3}.Validate()
	if cfg.Mode != ModePvE || cfg.Difficulty != DiffMedium || cfg.WinningScore != 10 {
		t.Errorf("validation should fall back to defaults, got %+v", cfg)
	}
}

func TestMatchConfigValidateWinningScoreRange(t *testing.T) {
	// Same 1-99 range the settings endpoint enforces
	for _, score := range []int{0, -1, 100, 1000000000} {
		cfg := MatchConfig{Mode: ModePvP, Difficulty: DiffMedium, WinningScore: score}.Validate()
		if cfg.WinningScore != 10 {
			t.Errorf("Validate(win=%d) = %d, want fallback 10", score, cfg.WinningScore)
		}
	}
	for _, score := range []int{1, 10, 99} {
		cfg := MatchConfig{Mode: ModePvP, Difficulty: DiffMedium, WinningScore: score}.Validate()
		if cfg.WinningScore != score {
			t.Errorf("Validate(win=%d) = %d, want unchanged", score, cfg.WinningScore)
		}
	}
}

func TestMatchPvEHasBot(t *testing.T) {
	m := newTestMatch(pveConfig())
	if m.AI == nil || !m.Ship2.IsBot {
		t.Error("PvE match should wire a bot into seat 2")
	}

	m = newTestMatch(pvpConfig())
	if m.AI != nil || m.Ship2.IsBot {
		t.Error("PvP match should have two human seats")
	}
}

func TestMatchGoalScoringAndServe(t *testing.T) {
	m := newTestMatch(pvpConfig())
	m.Ball.X = ScreenWidth + BallSize + 10
	m.Ball.VX = 350

	m.Update(1.0 / 60)

	if m.Ship1.Score != 1 || m.Ship2.Score != 0 {
		t.Errorf("right exit should score for player 1, got %d-%d", m.Ship1.Score, m.Ship2.Score)
	}
	if m.Phase() != PhaseRoundReset {
		t.Errorf("goal should start the serve countdown, phase=%d", m.Phase())
	}
	if m.ResetTimer() != RoundResetDelay {
		t.Errorf("countdown should arm at %f, got %f", RoundResetDelay, m.ResetTimer())
	}
	if m.Ball.X != ScreenWidth/2 {
		t.Errorf("ball should recenter, got x=%f", m.Ball.X)
	}
	// Loser receives the serve
	if m.Ball.VX <= 0 {
		t.Errorf("serve should head toward player 2, got vx=%f", m.Ball.VX)
	}

	events := m.DrainEvents()
	if len(events) != 1 || events[0].Kind != EventPoint || events[0].Cause != CauseGoal {
		t.Errorf("expected one goal event, got %+v", events)
	}
}

func TestMatchRoundResetCountdown(t *testing.T) {
	m := newTestMatch(pvpConfig())
	m.Ball.X = -BallSize - 10
	m.Update(1.0 / 60)
	if m.Phase() != PhaseRoundReset {
		t.Fatalf("expected countdown phase, got %d", m.Phase())
	}

	ballX := m.Ball.X
	for i := 0; i < 65; i++ { // just over one second
		m.Update(1.0 / 60)
	}
	if m.Phase() != PhaseActive {
		t.Errorf("countdown should end in active play, got phase %d", m.Phase())
	}
	if m.Ball.X == ballX {
		t.Error("ball should be moving again after the countdown")
	}
}

func TestMatchWinAndScoreFreeze(t *testing.T) {
	m := newTestMatch(pvpConfig())
	m.Ship1.Score = 9

	m.awardPoint(1, CauseGoal)

	if m.Phase() != PhaseGameOver {
		t.Errorf("expected game over, got phase %d", m.Phase())
	}
	if m.Winner() != 1 {
		t.Errorf("expected winner 1, got %d", m.Winner())
	}
	if m.Ship1.Score != 10 {
		t.Errorf("expected score 10, got %d", m.Ship1.Score)
	}

	// Scores freeze after the match is decided
	m.awardPoint(2, CauseGoal)
	if m.Ship2.Score != 0 {
		t.Errorf("score changed after game over: %d", m.Ship2.Score)
	}

	// And the world stops advancing
	bx := m.Ball.X
	m.Update(1.0 / 60)
	if m.Ball.X != bx {
		t.Error("entities must not move after game over")
	}

	events := m.DrainEvents()
	if len(events) != 2 || events[1].Kind != EventGameOver || events[1].Winner != 1 {
		t.Errorf("expected point then game-over events, got %+v", events)
	}
}

func TestMatchPauseSuspendsEverything(t *testing.T) {
	m := newTestMatch(pvpConfig())
	m.Pause()

	bx, by := m.Ball.X, m.Ball.Y
	m.Update(1.0)
	if m.Ball.X != bx || m.Ball.Y != by {
		t.Error("paused match must not advance")
	}

	// Input is dropped while paused
	m.SetInput(1, 1)
	if m.Ship1.Dir != 0 {
		t.Error("input should be dropped while paused")
	}

	m.Resume()
	m.Update(1.0 / 60)
	if m.Ball.X == bx && m.Ball.Y == by {
		t.Error("resumed match should advance")
	}
}

func TestMatchPauseRetainsCountdown(t *testing.T) {
	m := newTestMatch(pvpConfig())
	m.Ball.X = -BallSize - 10
	m.Update(1.0 / 60)

	m.Update(1.0 / 60) // burn a little countdown
	remaining := m.ResetTimer()

	m.Pause()
	m.Update(5.0)
	if m.ResetTimer() != remaining {
		t.Errorf("pause should freeze the countdown at %f, got %f", remaining, m.ResetTimer())
	}

	m.Resume()
	if m.Phase() != PhaseRoundReset {
		t.Error("resume should land back in the countdown")
	}
}

func TestMatchExitConfirmStateMachine(t *testing.T) {
	m := newTestMatch(pvpConfig())

	// Exit confirmation requires being paused first
	m.RequestExit()
	if m.PauseMode() != PauseNone {
		t.Error("exit request outside pause should be a no-op")
	}

	m.Pause()
	m.RequestExit()
	if m.PauseMode() != PauseConfirmExit {
		t.Errorf("expected confirm-exit, got %d", m.PauseMode())
	}

	// Resume is not a valid way out of the confirmation
	m.Resume()
	if m.PauseMode() != PauseConfirmExit {
		t.Error("resume should not bypass the confirmation")
	}

	m.CancelExit()
	if m.PauseMode() != PausePaused {
		t.Errorf("cancel should return to paused, got %d", m.PauseMode())
	}

	m.Resume()
	if m.PauseMode() != PauseNone {
		t.Errorf("expected resumed play, got %d", m.PauseMode())
	}
}

func TestMatchLaserPenalty(t *testing.T) {
	m := newTestMatch(pvpConfig())
	m.Ball.X = 200
	m.Ball.VX = -100
	m.Ship2.X = ScreenWidth / 2 // forced into the barrier

	m.handleCollisions()

	if m.Ship1.Score != 1 {
		t.Errorf("barrier touch should score for the opponent, got %d", m.Ship1.Score)
	}
	if m.Ship2.X != ShipP2X {
		t.Errorf("offending ship should teleport home, got x=%f", m.Ship2.X)
	}
	// No countdown: the ball never left the field
	if m.Phase() != PhaseActive {
		t.Errorf("laser penalty should not start a countdown, phase=%d", m.Phase())
	}

	events := m.DrainEvents()
	if len(events) != 1 || events[0].Cause != CauseLaser || events[0].Scorer != 1 {
		t.Errorf("expected a laser point event, got %+v", events)
	}
}

func TestMatchLaserPenaltyDecidingTouchStopsPlay(t *testing.T) {
	cfg := pvpConfig()
	cfg.WinningScore = 1
	m := newTestMatch(cfg)
	m.Ball.X = 200
	m.Ball.VX = -100
	// Both ships in the barrier on the same tick
	m.Ship1.X = ScreenWidth / 2
	m.Ship2.X = ScreenWidth / 2

	m.handleCollisions()

	// Ship 1's touch decides the match; ship 2's touch the same tick
	// must not score, reset, or count
	if m.Winner() != 2 {
		t.Fatalf("expected winner 2, got %d", m.Winner())
	}
	if m.Ship1.Score != 0 || m.Ship2.Score != 1 {
		t.Errorf("expected score 0-1, got %d-%d", m.Ship1.Score, m.Ship2.Score)
	}
	if m.Ship2.X != ScreenWidth/2 {
		t.Errorf("ship 2 must not be touched after the match is decided, got x=%f", m.Ship2.X)
	}
	if got := m.tel.Snapshot().LaserPenalties; got != 1 {
		t.Errorf("expected 1 laser penalty, got %d", got)
	}

	events := m.DrainEvents()
	if len(events) != 2 || events[0].Kind != EventPoint || events[1].Kind != EventGameOver {
		t.Errorf("expected point then game-over events, got %+v", events)
	}
}

func TestMatchBotSeatIgnoresInput(t *testing.T) {
	m := newTestMatch(pveConfig())
	m.SetInput(2, 1)
	if m.Ship2.Dir != 0 {
		t.Error("input for the bot seat must be dropped")
	}

	m.SetInput(1, -1)
	if m.Ship1.Dir != -1 {
		t.Error("human seat input should apply")
	}
}

func TestMatchPvELeveling(t *testing.T) {
	m := newTestMatch(pveConfig())
	baseSpeed := m.Ship2.Speed

	for i := 0; i < PointsPerLevel; i++ {
		m.awardPoint(1, CauseGoal)
	}
	if m.Level() != 2 {
		t.Errorf("expected level 2 after %d human points, got %d", PointsPerLevel, m.Level())
	}
	if m.Ship2.Speed <= baseSpeed {
		t.Errorf("bot should speed up on level-up: %f -> %f", baseSpeed, m.Ship2.Speed)
	}

	wantServe := math.Min(BallInitialSpeed*LevelBallSpeedMul, BallMaxSpeed)
	if math.Abs(m.serveSpeed()-wantServe) > 0.001 {
		t.Errorf("expected serve speed %f at level 2, got %f", wantServe, m.serveSpeed())
	}
}

func TestMatchPvELevelingIgnoresBotPoints(t *testing.T) {
	m := newTestMatch(pveConfig())
	for i := 0; i < 6; i++ {
		m.awardPoint(2, CauseGoal)
	}
	if m.Level() != 1 {
		t.Errorf("bot points must not level the match, got level %d", m.Level())
	}
}

func TestMatchDifficultyBreakpoints(t *testing.T) {
	m := newTestMatch(pveConfig()) // base easy

	for i := 0; i < PointsPerLevel*(LevelBreakMedium-1); i++ {
		m.awardPoint(1, CauseGoal)
	}
	if m.Level() != LevelBreakMedium {
		t.Fatalf("expected level %d, got %d", LevelBreakMedium, m.Level())
	}
	want := ProfileFor(DiffMedium)
	if m.AI.Profile().ReactionDelay != want.ReactionDelay {
		t.Errorf("tier should step up to medium at level %d", LevelBreakMedium)
	}

	for i := 0; i < PointsPerLevel*(LevelBreakHard-LevelBreakMedium); i++ {
		m.awardPoint(1, CauseGoal)
	}
	want = ProfileFor(DiffHard)
	if m.AI.Profile().ReactionDelay != want.ReactionDelay {
		t.Errorf("tier should step up to hard at level %d", LevelBreakHard)
	}
}

func TestMatchLevelCap(t *testing.T) {
	m := newTestMatch(pveConfig())
	for i := 0; i < PointsPerLevel*MaxLevel+10; i++ {
		m.awardPoint(1, CauseGoal)
	}
	if m.Level() > MaxLevel {
		t.Errorf("level exceeded cap: %d", m.Level())
	}
	levelMul := math.Pow(LevelBotSpeedMul, float64(m.Level()-1))
	if levelMul > LevelBotSpeedCap {
		levelMul = LevelBotSpeedCap
	}
	maxSpeed := ShipSpeed * ProfileFor(DiffHard).SpeedMultiplier * LevelBotSpeedCap
	if m.Ship2.Speed > maxSpeed+0.001 {
		t.Errorf("bot speed %f exceeded cap %f", m.Ship2.Speed, maxSpeed)
	}
}

func TestMatchReset(t *testing.T) {
	m := newTestMatch(pveConfig())
	for i := 0; i < 50; i++ {
		m.awardPoint(1, CauseGoal)
	}
	if m.Phase() != PhaseGameOver {
		t.Fatal("expected game over")
	}

	m.Reset()

	if m.Phase() != PhaseActive || m.Winner() != 0 {
		t.Error("reset should restart active play")
	}
	if m.Ship1.Score != 0 || m.Ship2.Score != 0 {
		t.Error("reset should clear scores")
	}
	if m.Level() != 1 {
		t.Errorf("reset should return to level 1, got %d", m.Level())
	}
	want := ProfileFor(pveConfig().Difficulty)
	if m.AI.Profile().ReactionDelay != want.ReactionDelay {
		t.Error("reset should restore the configured difficulty")
	}
}
