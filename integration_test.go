package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

// ---------- helpers ----------

// startTestServer spins up an httptest.Server around a Hub and returns
// the hub, its WebSocket URL, and a cleanup func.
func startTestServer(t *testing.T) (*Hub, string, func()) {
	t.Helper()

	tmpDir := t.TempDir()
	os.WriteFile(filepath.Join(tmpDir, "index.html"), []byte("<html>test</html>"), 0o644)

	hub := NewHub(testDB(t), NewTelemetry(), "http://test")
	go hub.Run()

	srv := httptest.NewServer(SetupRoutes(hub, tmpDir))
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	return hub, wsURL, srv.Close
}

// dialWS opens a WebSocket connection and consumes the welcome message
// every connection receives first.
func dialWS(t *testing.T, wsURL string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial WS: %v", err)
	}
	env := readEnvelope(t, conn)
	if env.T != MsgWelcome {
		t.Fatalf("expected welcome on connect, got %s", env.T)
	}
	return conn
}

// readEnvelope reads the next JSON message, skipping snapshot frames.
func readEnvelope(t *testing.T, conn *websocket.Conn) InEnvelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		msgType, raw, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read WS: %v", err)
		}
		if msgType != websocket.TextMessage {
			continue
		}
		var env InEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		return env
	}
}

// readSnapshot reads the next binary state frame, skipping JSON messages.
func readSnapshot(t *testing.T, conn *websocket.Conn) Snapshot {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		msgType, raw, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read WS: %v", err)
		}
		if msgType != websocket.BinaryMessage {
			continue
		}
		var snap Snapshot
		if err := msgpack.Unmarshal(raw, &snap); err != nil {
			t.Fatalf("msgpack unmarshal: %v", err)
		}
		return snap
	}
}

// sendWS sends a typed message over the WebSocket.
func sendWS(t *testing.T, conn *websocket.Conn, msgType string, data interface{}) {
	t.Helper()
	raw, _ := json.Marshal(Envelope{T: msgType, Data: data})
	if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
		t.Fatalf("write WS: %v", err)
	}
}

// dataMap extracts the payload as map[string]interface{}.
func dataMap(t *testing.T, env InEnvelope) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	json.Unmarshal(env.D, &m)
	return m
}

// createSession creates a session and returns its ID.
func createSession(t *testing.T, conn *websocket.Conn, mode string) string {
	t.Helper()
	sendWS(t, conn, MsgCreate, CreateMsg{Name: "TestArena", Mode: mode})
	env := readEnvelope(t, conn)
	if env.T != MsgCreated {
		t.Fatalf("expected created, got %s", env.T)
	}
	return dataMap(t, env)["sid"].(string)
}

// joinSession takes a seat and returns its number.
func joinSession(t *testing.T, conn *websocket.Conn, name, sid string) int {
	t.Helper()
	sendWS(t, conn, MsgJoin, JoinMsg{Name: name, SessionID: sid})
	env := readEnvelope(t, conn)
	if env.T != MsgJoined {
		t.Fatalf("expected joined, got %s", env.T)
	}
	return int(dataMap(t, env)["seat"].(float64))
}

// waitFor polls a condition until it holds or the timeout expires.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool, desc string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", desc)
}

// ---------- WebSocket /ws endpoint ----------

func TestWSWelcomeVersion(t *testing.T) {
	_, wsURL, cleanup := startTestServer(t)
	defer cleanup()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial WS: %v", err)
	}
	defer conn.Close()

	env := readEnvelope(t, conn)
	if env.T != MsgWelcome {
		t.Fatalf("expected welcome, got %s", env.T)
	}
	if v := dataMap(t, env)["v"]; v != serverVersion {
		t.Errorf("expected server version %q, got %v", serverVersion, v)
	}
}

// ---------- Session create/join lifecycle ----------

func TestCreateAndJoinSession(t *testing.T) {
	hub, wsURL, cleanup := startTestServer(t)
	defer cleanup()

	c := dialWS(t, wsURL)
	defer c.Close()

	sendWS(t, c, MsgCreate, CreateMsg{Name: "Arena", Mode: "pve"})
	created := readEnvelope(t, c)
	if created.T != MsgCreated {
		t.Fatalf("expected created, got %s", created.T)
	}
	d := dataMap(t, created)
	sid := d["sid"].(string)
	if hub.sessions.GetSession(sid) == nil {
		t.Fatal("created session should be registered")
	}
	if url, _ := d["url"].(string); !strings.HasSuffix(url, "?join="+sid) {
		t.Errorf("join url should carry the session id, got %q", url)
	}

	if seat := joinSession(t, c, "Alice", sid); seat != 1 {
		t.Errorf("first join should get seat 1, got %d", seat)
	}
}

func TestJoinUnknownSession(t *testing.T) {
	_, wsURL, cleanup := startTestServer(t)
	defer cleanup()

	c := dialWS(t, wsURL)
	defer c.Close()

	sendWS(t, c, MsgJoin, JoinMsg{Name: "Lost", SessionID: GenerateUUID()})
	env := readEnvelope(t, c)
	if env.T != MsgError {
		t.Fatalf("expected error, got %s", env.T)
	}
}

func TestJoinFullSession(t *testing.T) {
	_, wsURL, cleanup := startTestServer(t)
	defer cleanup()

	// PvE has a single human seat
	c1 := dialWS(t, wsURL)
	defer c1.Close()
	sid := createSession(t, c1, "pve")
	joinSession(t, c1, "Alice", sid)

	c2 := dialWS(t, wsURL)
	defer c2.Close()
	sendWS(t, c2, MsgJoin, JoinMsg{Name: "Bob", SessionID: sid})
	env := readEnvelope(t, c2)
	if env.T != MsgError {
		t.Fatalf("expected seat refusal, got %s", env.T)
	}
	if msg := dataMap(t, env)["msg"]; msg != "session full" {
		t.Errorf("expected session full, got %v", msg)
	}
}

func TestPvPSecondSeat(t *testing.T) {
	_, wsURL, cleanup := startTestServer(t)
	defer cleanup()

	c1 := dialWS(t, wsURL)
	defer c1.Close()
	sid := createSession(t, c1, "pvp")
	if seat := joinSession(t, c1, "Alice", sid); seat != 1 {
		t.Fatalf("expected seat 1, got %d", seat)
	}

	c2 := dialWS(t, wsURL)
	defer c2.Close()
	if seat := joinSession(t, c2, "Bob", sid); seat != 2 {
		t.Fatalf("expected seat 2, got %d", seat)
	}
}

// ---------- State broadcasts and input ----------

func TestSnapshotBroadcasts(t *testing.T) {
	_, wsURL, cleanup := startTestServer(t)
	defer cleanup()

	c := dialWS(t, wsURL)
	defer c.Close()
	sid := createSession(t, c, "pve")
	joinSession(t, c, "Alice", sid)

	first := readSnapshot(t, c)
	if !first.P2.Bot || first.P2.Name != "BOT" {
		t.Errorf("seat 2 should be the bot, got %+v", first.P2)
	}
	if first.P1.Name != "Alice" {
		t.Errorf("expected seat 1 name Alice, got %q", first.P1.Name)
	}

	second := readSnapshot(t, c)
	if second.Tick <= first.Tick {
		t.Errorf("ticks should advance between snapshots: %d then %d", first.Tick, second.Tick)
	}
}

func TestBinaryInputMovesShip(t *testing.T) {
	_, wsURL, cleanup := startTestServer(t)
	defer cleanup()

	c := dialWS(t, wsURL)
	defer c.Close()
	sid := createSession(t, c, "pve")
	joinSession(t, c, "Alice", sid)

	// Compact input frame: [0x01, dir+1], dir 1 = down
	if err := c.WriteMessage(websocket.BinaryMessage, []byte{0x01, 2}); err != nil {
		t.Fatalf("write input: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap := readSnapshot(t, c)
		if snap.P1.Y > ScreenHeight/2+1 {
			return
		}
	}
	t.Fatal("ship never moved after binary input")
}

// ---------- Keepalive ----------

func TestWSPingPong(t *testing.T) {
	_, wsURL, cleanup := startTestServer(t)
	defer cleanup()

	c := dialWS(t, wsURL)
	defer c.Close()

	pong := make(chan struct{}, 1)
	c.SetPongHandler(func(string) error {
		select {
		case pong <- struct{}{}:
		default:
		}
		return nil
	})
	// Control frames are only processed while reading
	go func() {
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := c.WriteMessage(websocket.PingMessage, nil); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	select {
	case <-pong:
	case <-time.After(2 * time.Second):
		t.Fatal("no pong from server")
	}
}

// ---------- Message rate limiting ----------

func TestMessageRateLimitDisconnects(t *testing.T) {
	hub, wsURL, cleanup := startTestServer(t)
	defer cleanup()

	c := dialWS(t, wsURL)
	defer c.Close()
	waitFor(t, 2*time.Second, func() bool { return hub.ClientCount() == 1 }, "client registration")

	raw, _ := json.Marshal(Envelope{T: MsgList})
	for i := 0; i < maxMessagesPerSec*2; i++ {
		if err := c.WriteMessage(websocket.TextMessage, raw); err != nil {
			break // server already hung up
		}
	}

	waitFor(t, 2*time.Second, func() bool { return hub.ClientCount() == 0 }, "rate-limit disconnect")
}

// ---------- Per-IP connection cap ----------

func TestPerIPConnectionCap(t *testing.T) {
	hub, wsURL, cleanup := startTestServer(t)
	defer cleanup()

	conns := make([]*websocket.Conn, 0, maxConnsPerIP)
	for i := 0; i < maxConnsPerIP; i++ {
		c := dialWS(t, wsURL)
		defer c.Close()
		conns = append(conns, c)
	}
	if got := hub.TotalConns(); got != maxConnsPerIP {
		t.Fatalf("expected %d tracked connections, got %d", maxConnsPerIP, got)
	}
	waitFor(t, 2*time.Second, func() bool { return hub.ClientCount() == maxConnsPerIP }, "client registration")

	// All test dials share one IP, so the next one is over the cap
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("dial past the per-IP cap should be refused")
	}
	if resp == nil || resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 refusal, got %+v", resp)
	}
	resp.Body.Close()

	// Freeing a slot lets the next connection in
	conns[0].Close()
	waitFor(t, 2*time.Second, func() bool { return hub.TotalConns() == maxConnsPerIP-1 }, "connection release")

	c := dialWS(t, wsURL)
	defer c.Close()
}

// ---------- Disconnect teardown ----------

func TestDisconnectTearsDownSession(t *testing.T) {
	hub, wsURL, cleanup := startTestServer(t)
	defer cleanup()

	c := dialWS(t, wsURL)
	sid := createSession(t, c, "pve")
	joinSession(t, c, "Alice", sid)
	if hub.sessions.GetSession(sid) == nil {
		t.Fatal("session should exist while seated")
	}

	c.Close()

	waitFor(t, 2*time.Second, func() bool { return hub.sessions.GetSession(sid) == nil }, "session teardown")
	waitFor(t, 2*time.Second, func() bool { return hub.ClientCount() == 0 && hub.TotalConns() == 0 }, "connection tracking release")
}
