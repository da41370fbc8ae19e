package scatter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starforge/scatter-go/config"
	"github.com/starforge/scatter-go/model"
)

type wireFrame struct {
	Type      string `json:"type"`
	Token     string `json:"token,omitempty"`
	ChannelID string `json:"channel_id,omitempty"`
	SpaceID   string `json:"space_id,omitempty"`
}

type wireEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// fakeGateway is a scripted gateway endpoint: it authenticates every
// connection, acks heartbeats, and records all other inbound frames.
type fakeGateway struct {
	server *httptest.Server

	mu     sync.Mutex
	conns  []*websocket.Conn
	frames []wireFrame
}

func newFakeGateway(t *testing.T) *fakeGateway {
	t.Helper()
	fg := &fakeGateway{}
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	fg.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		fg.mu.Lock()
		fg.conns = append(fg.conns, conn)
		fg.mu.Unlock()

		for {
			conn.SetReadDeadline(time.Now().Add(5 * time.Second))
			var f wireFrame
			if err := conn.ReadJSON(&f); err != nil {
				return
			}
			switch f.Type {
			case "auth":
				fg.send(conn, "auth_success", map[string]string{"user_id": "bot-1"})
			case "heartbeat":
				fg.send(conn, "heartbeat_ack", nil)
			default:
				fg.mu.Lock()
				fg.frames = append(fg.frames, f)
				fg.mu.Unlock()
			}
		}
	}))

	t.Cleanup(fg.server.Close)
	return fg
}

func (fg *fakeGateway) send(conn *websocket.Conn, eventType string, data any) {
	payload, _ := json.Marshal(data)
	conn.WriteJSON(wireEnvelope{Type: eventType, Data: payload})
}

// emit pushes an event on the most recent connection.
func (fg *fakeGateway) emit(eventType string, data any) {
	fg.mu.Lock()
	conn := fg.conns[len(fg.conns)-1]
	fg.mu.Unlock()
	fg.send(conn, eventType, data)
}

func (fg *fakeGateway) sentFrames() []wireFrame {
	fg.mu.Lock()
	defer fg.mu.Unlock()
	return append([]wireFrame(nil), fg.frames...)
}

func (fg *fakeGateway) config() *config.Config {
	return &config.Config{
		Token: "scatter_bot_test",
		Gateway: config.GatewayConfig{
			URL:                "ws" + strings.TrimPrefix(fg.server.URL, "http"),
			HeartbeatInterval:  50 * time.Millisecond,
			AuthTimeout:        time.Second,
			ReconnectBaseDelay: 10 * time.Millisecond,
			ReconnectMaxDelay:  40 * time.Millisecond,
		},
		Typing: config.TypingConfig{Interval: 20 * time.Millisecond},
	}
}

func waitUntil(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestClientReadyAndTypedDispatch(t *testing.T) {
	fg := newFakeGateway(t)

	client, err := New(fg.config(), WithLogger(discardLogger()))
	require.NoError(t, err)

	var (
		mu        sync.Mutex
		readySeen bool
		messages  []*model.Message
	)
	client.Listen("ready", func(ctx context.Context, ev any) error {
		mu.Lock()
		readySeen = true
		mu.Unlock()
		return nil
	})
	require.NoError(t, client.Handle("message", func(ctx context.Context, ev any) error {
		msg, ok := ev.(*model.Message)
		if !ok {
			t.Errorf("message event decoded as %T", ev)
			return nil
		}
		mu.Lock()
		messages = append(messages, msg)
		mu.Unlock()
		return nil
	}))

	require.NoError(t, client.Start(context.Background()))
	defer client.Close()

	waitUntil(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return readySeen
	}, "ready never dispatched")
	assert.Equal(t, "bot-1", client.UserID())

	fg.emit("message_created", map[string]any{
		"id":         "m1",
		"channel_id": "c1",
		"content":    "!ping",
		"author":     map[string]string{"id": "u1", "username": "kira"},
	})

	waitUntil(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(messages) == 1
	}, "message never dispatched")

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "m1", messages[0].ID)
	assert.Equal(t, "kira", messages[0].Author.Username)
}

func TestClientSubscriptionFrames(t *testing.T) {
	fg := newFakeGateway(t)

	client, err := New(fg.config(), WithLogger(discardLogger()))
	require.NoError(t, err)

	require.NoError(t, client.Start(context.Background()))
	defer client.Close()

	require.NoError(t, client.SubscribeChannel("c1"))
	require.NoError(t, client.SubscribeSpace("s1"))
	require.NoError(t, client.UnsubscribeChannel("c1"))

	waitUntil(t, func() bool {
		return len(fg.sentFrames()) >= 3
	}, "subscription frames never arrived")

	frames := fg.sentFrames()
	assert.Equal(t, wireFrame{Type: "subscribe", ChannelID: "c1"}, frames[0])
	assert.Equal(t, wireFrame{Type: "subscribe_space", SpaceID: "s1"}, frames[1])
	assert.Equal(t, wireFrame{Type: "unsubscribe", ChannelID: "c1"}, frames[2])
}

func TestClientSubscribeBeforeConnectIsTrackedOnly(t *testing.T) {
	fg := newFakeGateway(t)

	client, err := New(fg.config(), WithLogger(discardLogger()))
	require.NoError(t, err)

	// Not connected yet: intent is recorded, no error surfaces.
	require.NoError(t, client.SubscribeChannel("c1"))

	require.NoError(t, client.Start(context.Background()))
	defer client.Close()

	// The tracked subscription is replayed during connect.
	waitUntil(t, func() bool {
		for _, f := range fg.sentFrames() {
			if f.Type == "subscribe" && f.ChannelID == "c1" {
				return true
			}
		}
		return false
	}, "tracked subscription never replayed")
}

func TestClientTypingKeepAlive(t *testing.T) {
	fg := newFakeGateway(t)

	client, err := New(fg.config(), WithLogger(discardLogger()))
	require.NoError(t, err)

	require.NoError(t, client.Start(context.Background()))
	defer client.Close()

	ts := client.Typing("c1")
	time.Sleep(70 * time.Millisecond)
	ts.Release()

	typingFrames := func() int {
		n := 0
		for _, f := range fg.sentFrames() {
			if f.Type == "typing" && f.ChannelID == "c1" {
				n++
			}
		}
		return n
	}

	// Immediate send plus repeats while held.
	assert.GreaterOrEqual(t, typingFrames(), 3)

	before := typingFrames()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, before, typingFrames())
}

func TestClientRunStopsOnContextCancel(t *testing.T) {
	fg := newFakeGateway(t)

	client, err := New(fg.config(), WithLogger(discardLogger()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- client.Run(ctx) }()

	waitUntil(t, func() bool { return client.UserID() == "bot-1" }, "client never became ready")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	_, err = New(&config.Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token")
}
