package realtime

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub(t *testing.T) (*Hub, string, func()) {
	t.Helper()
	hub := NewHub()
	e := echo.New()
	e.GET("/ws", NewHandler(hub).Serve)
	srv := httptest.NewServer(e)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	return hub, wsURL, srv.Close
}

func dial(t *testing.T, wsURL string) *websocket.Conn {
	t.Helper()
	ws, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		defer resp.Body.Close()
	}
	return ws
}

func readEnvelope(t *testing.T, ws *websocket.Conn) Envelope {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	var env Envelope
	require.NoError(t, ws.ReadJSON(&env))
	return env
}

func waitForLen(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.Len() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("hub.Len() = %d; want %d", hub.Len(), want)
}

func TestHubWelcomeOnConnect(t *testing.T) {
	hub, wsURL, done := newTestHub(t)
	defer done()

	ws := dial(t, wsURL)
	defer ws.Close()

	env := readEnvelope(t, ws)
	assert.Equal(t, "welcome", env.Type)
	waitForLen(t, hub, 1)
}

func TestHubSubscribeAck(t *testing.T) {
	_, wsURL, done := newTestHub(t)
	defer done()

	ws := dial(t, wsURL)
	defer ws.Close()
	readEnvelope(t, ws) // welcome

	require.NoError(t, ws.WriteJSON(map[string]string{"type": "subscribe"}))
	env := readEnvelope(t, ws)
	assert.Equal(t, "subscribed", env.Type)
}

func TestHubBroadcastReachesAllClients(t *testing.T) {
	hub, wsURL, done := newTestHub(t)
	defer done()

	a := dial(t, wsURL)
	defer a.Close()
	b := dial(t, wsURL)
	defer b.Close()
	readEnvelope(t, a)
	readEnvelope(t, b)
	waitForLen(t, hub, 2)

	hub.Broadcast("packageUpdate", map[string]string{"tracking_code": "ST-ABCDEF234"})

	for _, ws := range []*websocket.Conn{a, b} {
		env := readEnvelope(t, ws)
		assert.Equal(t, "packageUpdate", env.Type)
		data, ok := env.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "ST-ABCDEF234", data["tracking_code"])
	}
}

func TestHubDropsClosedConnections(t *testing.T) {
	hub, wsURL, done := newTestHub(t)
	defer done()

	ws := dial(t, wsURL)
	readEnvelope(t, ws)
	waitForLen(t, hub, 1)

	require.NoError(t, ws.Close())
	waitForLen(t, hub, 0)

	// Broadcasting into an empty registry is a no-op, not a panic.
	hub.Broadcast("chatMessage", nil)
}

func TestHubUnknownMessageTypesIgnored(t *testing.T) {
	_, wsURL, done := newTestHub(t)
	defer done()

	ws := dial(t, wsURL)
	defer ws.Close()
	readEnvelope(t, ws)

	require.NoError(t, ws.WriteJSON(map[string]string{"type": "mystery"}))
	require.NoError(t, ws.WriteJSON(map[string]string{"type": "subscribe"}))

	// Only the subscribe gets a reply.
	env := readEnvelope(t, ws)
	assert.Equal(t, "subscribed", env.Type)

	_ = ws.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	var extra Envelope
	err := ws.ReadJSON(&extra)
	if err == nil {
		t.Fatalf("unexpected extra frame: %+v", extra)
	}
	var netErr interface{ Timeout() bool }
	if assert.ErrorAs(t, err, &netErr) {
		assert.True(t, netErr.Timeout())
	}
}
