package main

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 80
	maxNameLen        = 16
	maxSessionNameLen = 30
)

// Client represents one WebSocket connection
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	sessionID  string
	seat       int // 0 = spectating / not seated
	remoteAddr string
	msgCount   int
	msgResetAt time.Time
	// Auth state
	authPlayerID int64  // 0 = guest
	authUsername string // "" = guest
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		remoteAddr: remoteAddr,
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.leaveSession()
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws error: %v", err)
			}
			break
		}

		// Rate limiting
		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			log.Printf("rate limit exceeded for %s, disconnecting", c.remoteAddr)
			break
		}

		// Binary input messages: 2 bytes [0x01, dir+1]
		if msgType == websocket.BinaryMessage && len(message) == 2 && message[0] == 0x01 {
			c.handleBinaryInput(message)
		} else {
			c.handleMessage(message)
		}
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// Check for binary marker (0xFF prefix from SendBinary)
			var err error
			if len(message) > 0 && message[0] == 0xFF {
				err = c.conn.WriteMessage(websocket.BinaryMessage, message[1:])
			} else {
				err = c.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON sends a JSON message to the client
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("marshal error: %v", err)
		return
	}
	defer func() { recover() }()
	select {
	case c.send <- data:
	default:
		// Client too slow, drop message
	}
}

// SendBinary sends pre-marshaled bytes as a binary WebSocket message.
// Prefixes with 0xFF marker byte so WritePump can distinguish from text.
func (c *Client) SendBinary(data []byte) {
	defer func() { recover() }()
	msg := make([]byte, len(data)+1)
	msg[0] = 0xFF
	copy(msg[1:], data)
	select {
	case c.send <- msg:
	default:
	}
}

// handleMessage routes incoming messages (single-pass decode via InEnvelope)
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Printf("unmarshal error: %v", err)
		return
	}

	switch env.T {
	case MsgList:
		c.handleList()
	case MsgCreate:
		c.handleCreate(env.D)
	case MsgJoin:
		c.handleJoin(env.D)
	case MsgInput:
		c.handleInput(env.D)
	case MsgPause, MsgResume, MsgExitAsk, MsgExitNo, MsgRestart:
		c.handleControl(env.T)
	case MsgExitYes:
		c.leaveSession()
	case MsgRegister:
		c.handleRegister(env.D)
	case MsgLogin:
		c.handleLogin(env.D)
	case MsgSetPrefs:
		c.handleSetPrefs(env.D)
	case MsgGetPrefs:
		c.handleGetPrefs()
	case MsgSetSkin:
		c.handleSetSkin(env.D)
	case MsgGetStats:
		c.handleGetStats()
	}
}

func (c *Client) session() *Session {
	if c.sessionID == "" {
		return nil
	}
	return c.hub.sessions.GetSession(c.sessionID)
}

func (c *Client) handleList() {
	c.SendJSON(Envelope{T: MsgSessions, Data: c.hub.sessions.ListSessions()})
}

func (c *Client) handleCreate(data json.RawMessage) {
	var msg CreateMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	name := msg.Name
	if name == "" {
		name = "Space Pong"
	}
	if len(name) > maxSessionNameLen {
		name = name[:maxSessionNameLen]
	}

	// Unset fields fall back to the persisted gameplay settings
	prefs := c.hub.db.LoadPrefs()
	cfg := DefaultMatchConfig()
	cfg.Mode = ModePvE
	mode := msg.Mode
	if mode == "" {
		mode = prefs.Mode
	}
	if mode == "pvp" {
		cfg.Mode = ModePvP
	}
	diff := msg.Difficulty
	if diff == "" {
		diff = prefs.Difficulty
	}
	cfg.Difficulty = ParseDifficulty(diff)
	cfg.WinningScore = msg.WinningScore
	if cfg.WinningScore <= 0 {
		cfg.WinningScore = prefs.WinningScore
	}

	sess := c.hub.sessions.CreateSession(name, cfg, c.hub.db, c.hub.tel)
	if sess == nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "too many active sessions"}})
		return
	}
	c.SendJSON(Envelope{T: MsgCreated, Data: CreatedMsg{
		SessionID: sess.ID,
		JoinURL:   c.hub.joinURL(sess.ID),
	}})
}

func (c *Client) handleJoin(data json.RawMessage) {
	var msg JoinMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	if c.seat != 0 {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "already seated"}})
		return
	}
	sess := c.hub.sessions.GetSession(msg.SessionID)
	if sess == nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "session not found"}})
		return
	}

	name := msg.Name
	if name == "" {
		name = c.authUsername
	}
	if name == "" {
		name = GenerateGuestName()
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}

	seat := sess.Game.TakeSeat(c, c.authPlayerID, name)
	if seat == 0 {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "session full"}})
		return
	}
	c.sessionID = sess.ID
	c.seat = seat

	c.SendJSON(Envelope{T: MsgJoined, Data: JoinedMsg{SessionID: sess.ID, Seat: seat}})
}

// handleBinaryInput decodes a compact 2-byte input message: [0x01, dir+1]
func (c *Client) handleBinaryInput(msg []byte) {
	sess := c.session()
	if sess == nil || c.seat == 0 {
		return
	}
	dir := int(msg[1]) - 1
	if dir < -1 || dir > 1 {
		return
	}
	sess.Game.HandleInput(c.seat, InputMsg{Dir: dir})
}

func (c *Client) handleInput(data json.RawMessage) {
	sess := c.session()
	if sess == nil || c.seat == 0 {
		return
	}
	var input InputMsg
	if err := json.Unmarshal(data, &input); err != nil {
		return
	}
	if input.Dir < -1 || input.Dir > 1 {
		return
	}
	sess.Game.HandleInput(c.seat, input)
}

func (c *Client) handleControl(msgType string) {
	sess := c.session()
	if sess == nil || c.seat == 0 {
		return
	}
	sess.Game.HandleControl(msgType)
}

// leaveSession frees the client's seat; the session manager tears the
// session down once no human seat remains
func (c *Client) leaveSession() {
	if c.sessionID != "" && c.seat != 0 {
		c.hub.sessions.ReleaseSeat(c.sessionID, c.seat)
	}
	c.sessionID = ""
	c.seat = 0
}

func (c *Client) handleRegister(data json.RawMessage) {
	if c.hub.auth == nil {
		return
	}
	var msg AuthMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, token, err := c.hub.auth.Register(msg.Username, msg.Password)
	if err != nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: err.Error()}})
		return
	}
	c.authPlayerID = id
	c.authUsername = msg.Username
	c.SendJSON(Envelope{T: MsgAuthed, Data: AuthedMsg{PlayerID: id, Username: msg.Username, Token: token}})
}

func (c *Client) handleLogin(data json.RawMessage) {
	if c.hub.auth == nil {
		return
	}
	var msg AuthMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	// A token resumes a previous login without credentials
	if msg.Token != "" {
		id, username, err := c.hub.auth.ValidateToken(msg.Token)
		if err != nil {
			c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "invalid token"}})
			return
		}
		c.authPlayerID = id
		c.authUsername = username
		c.SendJSON(Envelope{T: MsgAuthed, Data: AuthedMsg{PlayerID: id, Username: username, Token: msg.Token}})
		return
	}
	id, token, err := c.hub.auth.Login(msg.Username, msg.Password, c.remoteAddr)
	if err != nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: err.Error()}})
		return
	}
	c.authPlayerID = id
	c.authUsername = msg.Username
	c.SendJSON(Envelope{T: MsgAuthed, Data: AuthedMsg{PlayerID: id, Username: msg.Username, Token: token}})
}

func (c *Client) handleSetPrefs(data json.RawMessage) {
	var msg PrefsMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	if msg.WinningScore <= 0 || msg.WinningScore > 99 {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "winning score must be 1-99"}})
		return
	}
	if msg.Mode != "pvp" && msg.Mode != "pve" {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "unknown mode"}})
		return
	}
	if err := c.hub.db.SavePrefs(msg); err != nil {
		log.Printf("save prefs: %v", err)
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "could not save settings"}})
		return
	}
	c.SendJSON(Envelope{T: MsgPrefs, Data: c.hub.db.LoadPrefs()})
}

func (c *Client) handleGetPrefs() {
	c.SendJSON(Envelope{T: MsgPrefs, Data: c.hub.db.LoadPrefs()})
}

func (c *Client) handleGetStats() {
	if c.hub.db == nil || c.authPlayerID == 0 {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "not authenticated"}})
		return
	}
	stats, err := c.hub.db.GetStats(c.authPlayerID)
	if err != nil || stats == nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "stats not found"}})
		return
	}
	achievements, _ := c.hub.db.GetAchievements(c.authPlayerID)
	c.SendJSON(Envelope{T: MsgStats, Data: StatsMsg{
		Username:      c.authUsername,
		Wins:          stats.Wins,
		Losses:        stats.Losses,
		Matches:       stats.Matches,
		PointsFor:     stats.PointsFor,
		PointsAgainst: stats.PointsAgainst,
		Achievements:  achievements,
	}})
}

func (c *Client) handleSetSkin(data json.RawMessage) {
	sess := c.session()
	if sess == nil || c.seat == 0 {
		return
	}
	var msg SkinMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	if !ValidSkin(msg.Skin) {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "unknown skin"}})
		return
	}
	sess.Game.SetSkin(c.seat, msg.Skin)
}
