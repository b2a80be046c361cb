package main

import "testing"

func TestSessionLifecycle(t *testing.T) {
	sm := NewSessionManager()
	cfg := MatchConfig{Mode: ModePvE, Difficulty: DiffMedium, WinningScore: 10}

	sess := sm.CreateSession("test", cfg, nil, nil)
	if sess == nil {
		t.Fatal("expected a session")
	}
	defer sess.Game.Stop()

	if got := sm.GetSession(sess.ID); got != sess {
		t.Error("lookup by ID should return the session")
	}
	if sm.GetSession("nope") != nil {
		t.Error("unknown ID should return nil")
	}

	list := sm.ListSessions()
	if len(list) != 1 || list[0].Mode != "pve" || list[0].Name != "test" {
		t.Errorf("unexpected session list: %+v", list)
	}
}

func TestSessionTeardownWhenEmpty(t *testing.T) {
	sm := NewSessionManager()
	cfg := MatchConfig{Mode: ModePvP, Difficulty: DiffMedium, WinningScore: 10}
	sess := sm.CreateSession("test", cfg, nil, nil)

	mock := &mockBroadcaster{}
	seat := sess.Game.TakeSeat(mock, 0, "A")
	if seat != 1 {
		t.Fatalf("expected seat 1, got %d", seat)
	}

	sm.ReleaseSeat(sess.ID, seat)

	if sm.GetSession(sess.ID) != nil {
		t.Error("empty session should be torn down")
	}
}

func TestSessionReleaseKeepsOccupied(t *testing.T) {
	sm := NewSessionManager()
	cfg := MatchConfig{Mode: ModePvP, Difficulty: DiffMedium, WinningScore: 10}
	sess := sm.CreateSession("test", cfg, nil, nil)
	defer sess.Game.Stop()

	a, b := &mockBroadcaster{}, &mockBroadcaster{}
	sess.Game.TakeSeat(a, 0, "A")
	seatB := sess.Game.TakeSeat(b, 0, "B")

	sm.ReleaseSeat(sess.ID, seatB)

	if sm.GetSession(sess.ID) == nil {
		t.Error("session with a remaining player should survive")
	}
	if sess.Game.SeatCount() != 1 {
		t.Errorf("expected 1 seat, got %d", sess.Game.SeatCount())
	}
}
