package main

import "sync"

// Telemetry keeps lightweight in-memory counters for diagnostics.
// Counting must never block or fail the simulation, and a nil receiver
// is a no-op so the core can run without a sink (tests, benchmarks).
type Telemetry struct {
	mu sync.Mutex

	PointsScored       int64
	LaserPenalties     int64
	PaddleBounces      int64
	MatchesCompleted   int64
	PredictionOverruns int64 // trajectory forecasts that hit the iteration cap
}

// NewTelemetry creates an empty counter set
func NewTelemetry() *Telemetry {
	return &Telemetry{}
}

// CountPoint records a scored point
func (t *Telemetry) CountPoint() {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.PointsScored++
	t.mu.Unlock()
}

// CountLaserPenalty records a barrier-touch penalty
func (t *Telemetry) CountLaserPenalty() {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.LaserPenalties++
	t.mu.Unlock()
}

// CountPaddleBounce records a ball-ship bounce
func (t *Telemetry) CountPaddleBounce() {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.PaddleBounces++
	t.mu.Unlock()
}

// CountMatchCompleted records a finished match
func (t *Telemetry) CountMatchCompleted() {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.MatchesCompleted++
	t.mu.Unlock()
}

// CountPredictionOverrun records a forecast that hit the iteration cap
// and fell back to its degraded result
func (t *Telemetry) CountPredictionOverrun() {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.PredictionOverruns++
	t.mu.Unlock()
}

// Snapshot returns a copy of all counters
func (t *Telemetry) Snapshot() TelemetrySnapshot {
	if t == nil {
		return TelemetrySnapshot{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return TelemetrySnapshot{
		PointsScored:       t.PointsScored,
		LaserPenalties:     t.LaserPenalties,
		PaddleBounces:      t.PaddleBounces,
		MatchesCompleted:   t.MatchesCompleted,
		PredictionOverruns: t.PredictionOverruns,
	}
}

// TelemetrySnapshot is the JSON shape served at /stats
type TelemetrySnapshot struct {
	PointsScored       int64 `json:"points"`
	LaserPenalties     int64 `json:"laser_penalties"`
	PaddleBounces      int64 `json:"paddle_bounces"`
	MatchesCompleted   int64 `json:"matches"`
	PredictionOverruns int64 `json:"prediction_overruns"`
}
