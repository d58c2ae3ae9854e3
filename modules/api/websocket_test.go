package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	domain "github.com/Hanan11240/chat-app/domain/chat"
	"github.com/Hanan11240/chat-app/modules/broadcast"
	"github.com/Hanan11240/chat-app/modules/chat"
	"github.com/Hanan11240/chat-app/modules/presence"
	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// fakeSessions records the session calls made by dispatch.
type fakeSessions struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeSessions) record(format string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeSessions) Connect(id string)               { f.record("connect %s", id) }
func (f *fakeSessions) EnterRoom(id, name, room string) { f.record("enter %s %s %s", id, name, room) }
func (f *fakeSessions) Message(id, name, text string)   { f.record("message %s %s %s", id, name, text) }
func (f *fakeSessions) Activity(id, name string)        { f.record("activity %s %s", id, name) }
func (f *fakeSessions) Disconnect(id string)            { f.record("disconnect %s", id) }

func (f *fakeSessions) snapshot() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func TestDispatch(t *testing.T) {
	tests := []struct {
		name    string
		frame   string
		want    []string
		wantErr bool
	}{
		{"enter room", `{"event":"enterRoom","data":{"name":"Alice","room":"lobby"}}`, []string{"enter c1 Alice lobby"}, false},
		{"message", `{"event":"message","data":{"name":"Alice","text":"hi"}}`, []string{"message c1 Alice hi"}, false},
		{"activity", `{"event":"activity","data":"Alice"}`, []string{"activity c1 Alice"}, false},
		{"empty room is passed through", `{"event":"enterRoom","data":{"name":"Alice","room":""}}`, []string{"enter c1 Alice "}, false},
		{"unknown event", `{"event":"createRoom","data":{}}`, nil, true},
		{"not json", `hello`, nil, true},
		{"bad enterRoom payload", `{"event":"enterRoom","data":"lobby"}`, nil, true},
		{"bad activity payload", `{"event":"activity","data":{"name":"Alice"}}`, nil, true},
		{"missing message payload", `{"event":"message"}`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := &fakeSessions{}
			m := NewModule(Config{}, &mockLogger{})
			m.SetSessions(sessions)

			err := m.dispatch("c1", []byte(tt.frame), nil)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, sessions.snapshot())
		})
	}
}

func TestDispatch_RateLimitsMessages(t *testing.T) {
	sessions := &fakeSessions{}
	m := NewModule(Config{}, &mockLogger{})
	m.SetSessions(sessions)
	limiter := rate.NewLimiter(rate.Every(time.Hour), 2)

	msg := []byte(`{"event":"message","data":{"name":"Alice","text":"spam"}}`)
	require.NoError(t, m.dispatch("c1", msg, limiter))
	require.NoError(t, m.dispatch("c1", msg, limiter))
	err := m.dispatch("c1", msg, limiter)
	assert.True(t, errors.Is(err, errRateLimited))

	// Activity notices are not limited.
	require.NoError(t, m.dispatch("c1", []byte(`{"event":"activity","data":"Alice"}`), limiter))

	assert.Equal(t, []string{
		"message c1 Alice spam",
		"message c1 Alice spam",
		"activity c1 Alice",
	}, sessions.snapshot())
}

func TestModule_StartRequiresDependencies(t *testing.T) {
	logger := &mockLogger{}
	hub := broadcast.NewHub(0, logger)

	m := NewModule(Config{Port: "0"}, logger)
	assert.ErrorIs(t, m.Start(context.Background()), ErrNoHub)

	m.SetHub(hub, 0)
	assert.ErrorIs(t, m.Start(context.Background()), ErrNoSessions)

	m.SetSessions(&fakeSessions{})
	assert.ErrorIs(t, m.Start(context.Background()), ErrNoPresence)

	m.presence = &mockPresencePort{}
	assert.ErrorIs(t, m.Start(context.Background()), ErrNoStats)
}

type wireFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// startServer runs the real session stack behind the API module on an
// ephemeral port and returns the websocket URL.
func startServer(t *testing.T) string {
	t.Helper()
	logger := &mockLogger{}

	store := presence.NewStore()
	hub := broadcast.NewHub(0, logger)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	m := NewModule(Config{Port: "0"}, logger)
	m.SetHub(hub, 0)
	m.SetSessions(chat.NewController(store, hub, logger))
	m.presence = &mockPresencePort{}
	m.stats = &mockStatsPort{}
	require.NoError(t, m.Start(context.Background()))

	t.Cleanup(func() {
		cancel()
		hub.Wait()
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopCancel()
		_ = m.Stop(stopCtx)
	})

	port := m.Addr().(*net.TCPAddr).Port
	return fmt.Sprintf("ws://127.0.0.1:%d/ws", port)
}

func dial(t *testing.T, url string) *gws.Conn {
	t.Helper()
	conn, resp, err := gws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	return conn
}

func send(t *testing.T, conn *gws.Conn, event string, data any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(map[string]any{"event": event, "data": data}))
}

func readFrame(t *testing.T, conn *gws.Conn) wireFrame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var f wireFrame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func expectMessage(t *testing.T, conn *gws.Conn, name, text string) {
	t.Helper()
	f := readFrame(t, conn)
	require.Equal(t, domain.EventMessage, f.Event)
	var env domain.Envelope
	require.NoError(t, json.Unmarshal(f.Data, &env))
	assert.Equal(t, name, env.Name)
	assert.Equal(t, text, env.Text)
	assert.NotEmpty(t, env.Time)
}

func expectUsers(t *testing.T, conn *gws.Conn, names ...string) {
	t.Helper()
	f := readFrame(t, conn)
	require.Equal(t, domain.EventUserList, f.Event)
	var list domain.UserList
	require.NoError(t, json.Unmarshal(f.Data, &list))
	got := make([]string, 0, len(list.Users))
	for _, u := range list.Users {
		got = append(got, u.Name)
	}
	assert.Equal(t, names, got)
}

func expectRooms(t *testing.T, conn *gws.Conn, rooms ...string) {
	t.Helper()
	f := readFrame(t, conn)
	require.Equal(t, domain.EventRoomList, f.Event)
	var list domain.RoomList
	require.NoError(t, json.Unmarshal(f.Data, &list))
	assert.Equal(t, rooms, list.Rooms)
}

func TestWebSocket_ChatSession(t *testing.T) {
	url := startServer(t)

	alice := dial(t, url)
	defer alice.Close()
	expectMessage(t, alice, domain.AdminName, chat.WelcomeText)

	send(t, alice, "enterRoom", map[string]string{"name": "Alice", "room": "lobby"})
	expectMessage(t, alice, domain.AdminName, "You have joined lobby chat room")
	expectUsers(t, alice, "Alice")
	expectRooms(t, alice, "lobby")

	bob := dial(t, url)
	defer bob.Close()
	expectMessage(t, bob, domain.AdminName, chat.WelcomeText)

	send(t, bob, "enterRoom", map[string]string{"name": "Bob", "room": "lobby"})
	expectMessage(t, bob, domain.AdminName, "You have joined lobby chat room")
	expectUsers(t, bob, "Alice", "Bob")
	expectRooms(t, bob, "lobby")

	expectMessage(t, alice, domain.AdminName, "Bob has joined the room")
	expectUsers(t, alice, "Alice", "Bob")
	expectRooms(t, alice, "lobby")

	// Garbage does not close the connection.
	require.NoError(t, alice.WriteMessage(gws.TextMessage, []byte("not json")))

	send(t, alice, "message", map[string]string{"name": "Alice", "text": "hi"})
	expectMessage(t, alice, "Alice", "hi")
	expectMessage(t, bob, "Alice", "hi")

	send(t, bob, "activity", "Bob")
	f := readFrame(t, alice)
	assert.Equal(t, domain.EventActivity, f.Event)
	assert.JSONEq(t, `"Bob"`, string(f.Data))

	require.NoError(t, bob.Close())
	expectMessage(t, alice, domain.AdminName, "Bob has left the room")
	expectUsers(t, alice, "Alice")
	expectRooms(t, alice, "lobby")
}

func TestWebSocket_RoomsAreIsolated(t *testing.T) {
	url := startServer(t)

	alice := dial(t, url)
	defer alice.Close()
	expectMessage(t, alice, domain.AdminName, chat.WelcomeText)
	send(t, alice, "enterRoom", map[string]string{"name": "Alice", "room": "lobby"})
	expectMessage(t, alice, domain.AdminName, "You have joined lobby chat room")
	expectUsers(t, alice, "Alice")
	expectRooms(t, alice, "lobby")

	carol := dial(t, url)
	defer carol.Close()
	expectMessage(t, carol, domain.AdminName, chat.WelcomeText)
	send(t, carol, "enterRoom", map[string]string{"name": "Carol", "room": "game"})
	expectMessage(t, carol, domain.AdminName, "You have joined game chat room")
	expectUsers(t, carol, "Carol")
	expectRooms(t, carol, "lobby", "game")

	// The join notice is global; the roster is not.
	expectMessage(t, alice, domain.AdminName, "Carol has joined the room")
	expectRooms(t, alice, "lobby", "game")

	send(t, carol, "message", map[string]string{"name": "Carol", "text": "gg"})
	expectMessage(t, carol, "Carol", "gg")

	send(t, alice, "message", map[string]string{"name": "Alice", "text": "ping"})
	expectMessage(t, alice, "Alice", "ping")
}

func TestNewModule_DefaultFrameLimitFitsLongMessages(t *testing.T) {
	m := NewModule(Config{}, &mockLogger{})
	assert.Equal(t, 1<<20, m.cfg.MaxFrameBytes)
}

func TestWebSocket_LongMessageIsRelayed(t *testing.T) {
	url := startServer(t)

	alice := dial(t, url)
	defer alice.Close()
	expectMessage(t, alice, domain.AdminName, chat.WelcomeText)
	send(t, alice, "enterRoom", map[string]string{"name": "Alice", "room": "lobby"})
	expectMessage(t, alice, domain.AdminName, "You have joined lobby chat room")
	expectUsers(t, alice, "Alice")
	expectRooms(t, alice, "lobby")

	long := strings.Repeat("x", 64*1024)
	send(t, alice, "message", map[string]string{"name": "Alice", "text": long})
	expectMessage(t, alice, "Alice", long)
}
