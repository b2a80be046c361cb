package main

import (
	"math/rand"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	TickRate       = 60 // physics ticks per second
	BroadcastRate  = 30 // state broadcasts per second
	TickDuration   = time.Second / TickRate
	BroadcastEvery = TickRate / BroadcastRate
)

// Broadcaster is the client-facing send interface, mockable in tests
type Broadcaster interface {
	SendJSON(msg interface{})
	SendBinary(data []byte)
}

type seatInfo struct {
	client Broadcaster
	authID int64 // 0 = guest
	name   string
}

// Game hosts one match: it runs the fixed-step loop, routes seat input
// into the orchestrator, and broadcasts snapshots and events.
type Game struct {
	mu      sync.RWMutex
	match   *Match
	seats   map[int]seatInfo
	tick    uint64
	running bool
	stop    chan struct{}

	db  *DB
	tel *Telemetry
}

// NewGame creates a game around a fresh match. A nil db disables
// stats/achievements; a nil telemetry disables counters.
func NewGame(cfg MatchConfig, db *DB, tel *Telemetry) *Game {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Game{
		match: NewMatch(cfg, rng, tel),
		seats: make(map[int]seatInfo),
		stop:  make(chan struct{}),
		db:    db,
		tel:   tel,
	}
}

// Run starts the fixed-step game loop
func (g *Game) Run() {
	g.mu.Lock()
	g.running = true
	g.mu.Unlock()

	ticker := time.NewTicker(TickDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			g.update()
		case <-g.stop:
			return
		}
	}
}

// Stop terminates the game loop
func (g *Game) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running {
		g.running = false
		close(g.stop)
	}
}

// Mode returns the match's game mode
func (g *Game) Mode() GameMode {
	return g.match.Config().Mode
}

// TakeSeat assigns the next free human seat to a client and returns
// the seat number, or 0 when the session is full. PvE has a single
// human seat.
func (g *Game) TakeSeat(client Broadcaster, authID int64, name string) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	humanSeats := 2
	if g.match.Config().Mode == ModePvE {
		humanSeats = 1
	}
	for seat := 1; seat <= humanSeats; seat++ {
		if _, taken := g.seats[seat]; !taken {
			g.seats[seat] = seatInfo{client: client, authID: authID, name: name}
			return seat
		}
	}
	return 0
}

// ReleaseSeat frees a seat and pauses the match so the remaining
// player is not scored against while alone
func (g *Game) ReleaseSeat(seat int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.seats[seat]; !ok {
		return
	}
	delete(g.seats, seat)
	g.match.SetInput(seat, 0)
	g.match.Pause()
}

// SeatCount returns the number of occupied human seats
func (g *Game) SeatCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.seats)
}

// HandleInput sets a seat's movement intent
func (g *Game) HandleInput(seat int, input InputMsg) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.match.SetInput(seat, input.Dir)
}

// HandleControl routes pause/exit/restart requests into the match
// state machine; invalid transitions are no-ops there
func (g *Game) HandleControl(msgType string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch msgType {
	case MsgPause:
		g.match.Pause()
	case MsgResume:
		g.match.Resume()
	case MsgExitAsk:
		g.match.RequestExit()
	case MsgExitNo:
		g.match.CancelExit()
	case MsgRestart:
		if g.match.Phase() == PhaseGameOver {
			g.match.Reset()
		}
	}
}

// SetSkin applies a cosmetic skin to a seat's ship
func (g *Game) SetSkin(seat int, skin string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !ValidSkin(skin) {
		return
	}
	switch seat {
	case 1:
		g.match.Ship1.Skin = skin
	case 2:
		if !g.match.Ship2.IsBot {
			g.match.Ship2.Skin = skin
		}
	}
}

// update runs one game tick
func (g *Game) update() {
	g.mu.Lock()
	defer g.mu.Unlock()

	dt := 1.0 / float64(TickRate)
	g.tick++

	g.match.Update(dt)

	for _, ev := range g.match.DrainEvents() {
		g.handleEvent(ev)
	}

	if g.tick%BroadcastEvery == 0 {
		g.broadcastState()
	}
}

// handleEvent fans a match event out to the seats and, on game over,
// settles persistent stats and achievements
func (g *Game) handleEvent(ev MatchEvent) {
	switch ev.Kind {
	case EventPoint:
		g.broadcastMsg(Envelope{T: MsgPoint, Data: PointMsg{
			Scorer: ev.Scorer,
			Cause:  ev.Cause,
			Score1: ev.Score1,
			Score2: ev.Score2,
		}})
	case EventGameOver:
		g.broadcastMsg(Envelope{T: MsgGameOver, Data: GameOverMsg{
			Winner: ev.Winner,
			Score1: ev.Score1,
			Score2: ev.Score2,
		}})
		g.settleMatch(ev)
	}
}

// settleMatch updates aggregate stats for authenticated seats and
// notifies newly unlocked achievements
func (g *Game) settleMatch(ev MatchEvent) {
	if g.db == nil {
		return
	}
	for seat, info := range g.seats {
		if info.authID == 0 {
			continue
		}
		won := seat == ev.Winner
		pointsFor := ev.Score1
		pointsAgainst := ev.Score2
		if seat == 2 {
			pointsFor, pointsAgainst = ev.Score2, ev.Score1
		}
		if err := g.db.RecordResult(info.authID, won, pointsFor, pointsAgainst); err != nil {
			continue
		}
		for _, def := range CheckAchievements(g.db, info.authID, pointsFor, pointsAgainst, won) {
			info.client.SendJSON(Envelope{T: MsgUnlocked, Data: UnlockedMsg{
				ID:   def.ID,
				Name: def.Name,
			}})
		}
	}
}

// snapshot builds the broadcast state from the match. Callers hold the
// game lock, so this never observes a mid-update state.
func (g *Game) snapshot() Snapshot {
	m := g.match
	return Snapshot{
		Tick:      g.tick,
		Phase:     int(m.Phase()),
		Pause:     int(m.PauseMode()),
		Winner:    m.Winner(),
		Countdown: round1(m.ResetTimer()),
		Level:     m.Level(),
		LevelProg: round1(m.LevelProgress()),
		LaserGlow: round1(m.Laser.Glow),
		P1:        g.shipState(m.Ship1),
		P2:        g.shipState(m.Ship2),
		Ball: BallState{
			X:   round1(m.Ball.X),
			Y:   round1(m.Ball.Y),
			VX:  round1(m.Ball.VX),
			VY:  round1(m.Ball.VY),
			Rot: round1(m.Ball.Rotation),
		},
	}
}

func (g *Game) shipState(s *Ship) ShipState {
	name := "BOT"
	if !s.IsBot {
		name = g.seats[s.PlayerID].name
	}
	return ShipState{
		X:      round1(s.X),
		Y:      round1(s.Y),
		VY:     round1(s.VY),
		Dir:    s.Dir,
		Score:  s.Score,
		Skin:   s.Skin,
		Name:   name,
		Bot:    s.IsBot,
		Danger: g.match.Laser.InDanger(s),
	}
}

// broadcastState sends the msgpack snapshot to all seats
func (g *Game) broadcastState() {
	data, err := msgpack.Marshal(g.snapshot())
	if err != nil {
		return
	}
	for _, info := range g.seats {
		info.client.SendBinary(data)
	}
}

// broadcastMsg sends a JSON message to all seats
func (g *Game) broadcastMsg(msg Envelope) {
	for _, info := range g.seats {
		info.client.SendJSON(msg)
	}
}
