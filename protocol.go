package main

import "encoding/json"

// Client -> Server message types
const (
	MsgJoin     = "join"     // take a seat in a session
	MsgCreate   = "create"   // create session
	MsgList     = "list"     // list sessions
	MsgInput    = "input"    // movement intent
	MsgPause    = "pause"
	MsgResume   = "resume"
	MsgExitAsk  = "exit_ask"  // open exit confirmation
	MsgExitNo   = "exit_no"   // cancel exit confirmation
	MsgExitYes  = "exit_yes"  // confirm exit to menu
	MsgRestart  = "restart"   // new match after game over
	MsgRegister = "register"
	MsgLogin    = "login"
	MsgSetPrefs = "set_prefs" // persist gameplay settings
	MsgGetPrefs = "get_prefs"
	MsgSetSkin  = "set_skin"
	MsgGetStats = "get_stats" // aggregate account stats
)

// Server -> Client message types
const (
	MsgState    = "state" // msgpack binary snapshot
	MsgWelcome  = "welcome"
	MsgJoined   = "joined"
	MsgCreated  = "created"
	MsgSessions = "sessions"
	MsgPoint    = "point"
	MsgGameOver = "game_over"
	MsgAuthed   = "authed"
	MsgPrefs    = "prefs"
	MsgUnlocked = "unlocked" // achievement unlocked
	MsgStats    = "stats"
	MsgError    = "error"
)

// Envelope wraps all outgoing JSON messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages — json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// InputMsg carries a seat's movement intent each input frame
type InputMsg struct {
	Dir int `json:"dir"` // -1 up, 0 idle, 1 down
}

// JoinMsg takes a seat in an existing session
type JoinMsg struct {
	Name      string `json:"name"`
	SessionID string `json:"sid"`
}

// CreateMsg creates a session with the given ruleset
type CreateMsg struct {
	Name         string `json:"name"`
	Mode         string `json:"mode"` // "pvp" or "pve"
	Difficulty   string `json:"diff,omitempty"`
	WinningScore int    `json:"win,omitempty"`
}

// AuthMsg carries register/login credentials
type AuthMsg struct {
	Username string `json:"user"`
	Password string `json:"pass"`
	Token    string `json:"tok,omitempty"`
}

// AuthedMsg confirms an account login
type AuthedMsg struct {
	PlayerID int64  `json:"pid"`
	Username string `json:"user"`
	Token    string `json:"tok"`
}

// PrefsMsg is the persisted gameplay settings document
type PrefsMsg struct {
	WinningScore int    `json:"win"`
	Mode         string `json:"mode"`
	Difficulty   string `json:"diff"`
}

// SkinMsg selects a cosmetic ship skin for the client's seat
type SkinMsg struct {
	Skin string `json:"skin"`
}

// WelcomeMsg is sent on connect
type WelcomeMsg struct {
	ServerVersion string `json:"v"`
}

// JoinedMsg confirms a seat assignment
type JoinedMsg struct {
	SessionID string `json:"sid"`
	Seat      int    `json:"seat"` // 1 or 2
}

// CreatedMsg confirms session creation; client should navigate
type CreatedMsg struct {
	SessionID string `json:"sid"`
	JoinURL   string `json:"url"`
}

// SessionInfo is used in the session list
type SessionInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Mode  string `json:"mode"`
	Seats int    `json:"seats"` // occupied human seats
}

// PointMsg is broadcast whenever someone scores
type PointMsg struct {
	Scorer int    `json:"p"`
	Cause  string `json:"cause"` // "goal" or "laser"
	Score1 int    `json:"s1"`
	Score2 int    `json:"s2"`
}

// GameOverMsg is broadcast when a match is decided
type GameOverMsg struct {
	Winner int `json:"w"`
	Score1 int `json:"s1"`
	Score2 int `json:"s2"`
}

// StatsMsg carries a player's lifetime aggregates
type StatsMsg struct {
	Username      string   `json:"user"`
	Wins          int      `json:"w"`
	Losses        int      `json:"l"`
	Matches       int      `json:"m"`
	PointsFor     int      `json:"pf"`
	PointsAgainst int      `json:"pa"`
	Achievements  []string `json:"ach"`
}

// UnlockedMsg notifies a player of a new achievement
type UnlockedMsg struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ErrorMsg sends an error to the client
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// ShipState is the per-ship part of the binary snapshot
type ShipState struct {
	X      float64 `msgpack:"x"`
	Y      float64 `msgpack:"y"`
	VY     float64 `msgpack:"vy"`
	Dir    int     `msgpack:"d"`
	Score  int     `msgpack:"sc"`
	Skin   string  `msgpack:"sk"`
	Name   string  `msgpack:"n"`
	Bot    bool    `msgpack:"b"`
	Danger bool    `msgpack:"dz"` // inside the barrier warning zone
}

// BallState is the ball part of the binary snapshot
type BallState struct {
	X   float64 `msgpack:"x"`
	Y   float64 `msgpack:"y"`
	VX  float64 `msgpack:"vx"`
	VY  float64 `msgpack:"vy"`
	Rot float64 `msgpack:"r"`
}

// Snapshot is the full state broadcast, msgpack-encoded as a binary
// websocket frame at the broadcast rate
type Snapshot struct {
	Tick      uint64    `msgpack:"t"`
	Phase     int       `msgpack:"ph"`
	Pause     int       `msgpack:"pa"`
	Winner    int       `msgpack:"w"`
	Countdown float64   `msgpack:"cd"` // serve countdown remaining
	Level     int       `msgpack:"lv"`
	LevelProg float64   `msgpack:"lp"`
	LaserGlow float64   `msgpack:"lg"`
	P1        ShipState `msgpack:"p1"`
	P2        ShipState `msgpack:"p2"`
	Ball      BallState `msgpack:"bl"`
}
