package main

import "sync"

const maxSessions = 100

// Session is one joinable match
type Session struct {
	ID   string
	Name string
	Game *Game
}

// SessionManager handles creation and lookup of sessions
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionManager creates a new SessionManager
func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
	}
}

// CreateSession creates a session hosting a match with the given
// ruleset. Returns nil if the session limit is reached.
func (sm *SessionManager) CreateSession(name string, cfg MatchConfig, db *DB, tel *Telemetry) *Session {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if len(sm.sessions) >= maxSessions {
		return nil
	}

	id := GenerateUUID()
	game := NewGame(cfg, db, tel)
	sess := &Session{
		ID:   id,
		Name: name,
		Game: game,
	}
	sm.sessions[id] = sess
	go game.Run()
	return sess
}

// GetSession returns a session by ID
func (sm *SessionManager) GetSession(id string) *Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sessions[id]
}

// ReleaseSeat frees a seat and tears the session down once empty
func (sm *SessionManager) ReleaseSeat(sessionID string, seat int) {
	sm.mu.RLock()
	sess, ok := sm.sessions[sessionID]
	sm.mu.RUnlock()
	if !ok {
		return
	}
	sess.Game.ReleaseSeat(seat)

	if sess.Game.SeatCount() == 0 {
		sess.Game.Stop()
		sm.mu.Lock()
		delete(sm.sessions, sessionID)
		sm.mu.Unlock()
	}
}

// ListSessions returns info about all active sessions
func (sm *SessionManager) ListSessions() []SessionInfo {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	list := make([]SessionInfo, 0, len(sm.sessions))
	for _, sess := range sm.sessions {
		mode := "pvp"
		if sess.Game.Mode() == ModePvE {
			mode = "pve"
		}
		list = append(list, SessionInfo{
			ID:    sess.ID,
			Name:  sess.Name,
			Mode:  mode,
			Seats: sess.Game.SeatCount(),
		})
	}
	return list
}
