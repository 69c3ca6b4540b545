package websocket

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	h.Start()
	t.Cleanup(h.Stop)
	return h
}

func newTestClient(h *Hub) *Client {
	return &Client{
		hub:         h,
		send:        make(chan []byte, sendBufferSize),
		id:          "test-client",
		remoteAddr:  "127.0.0.1:0",
		connectedAt: time.Now(),
	}
}

func receive(t *testing.T, c *Client) map[string]interface{} {
	t.Helper()
	select {
	case payload, ok := <-c.send:
		require.True(t, ok)
		var msg map[string]interface{}
		require.NoError(t, json.Unmarshal(payload, &msg))
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestHubRegisterSendsConnectionMessage(t *testing.T) {
	h := testHub(t)
	c := newTestClient(h)

	h.register <- c

	msg := receive(t, c)
	assert.Equal(t, TypeConnection, msg["type"])

	data, ok := msg["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "connected", data["status"])
	assert.Equal(t, "test-client", data["client_id"])
}

func TestHubBroadcastDataUpdate(t *testing.T) {
	h := testHub(t)
	c := newTestClient(h)
	h.register <- c
	receive(t, c) // drain the connection message

	loadedAt := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	h.BroadcastDataUpdate(1234, loadedAt)

	msg := receive(t, c)
	assert.Equal(t, TypeDataUpdate, msg["type"])

	data, ok := msg["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1234), data["rows"])
	assert.Equal(t, loadedAt.Format(time.RFC3339), data["loaded_at"])
}

func TestHubClientCount(t *testing.T) {
	h := testHub(t)
	assert.Equal(t, 0, h.ClientCount())

	c1 := newTestClient(h)
	c2 := newTestClient(h)
	h.register <- c1
	h.register <- c2
	receive(t, c1)
	receive(t, c2)

	assert.Equal(t, 2, h.ClientCount())

	h.unregister <- c1
	assert.Eventually(t, func() bool { return h.ClientCount() == 1 },
		2*time.Second, 10*time.Millisecond)
}

func TestHubStopClosesClients(t *testing.T) {
	h := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	h.Start()

	c := newTestClient(h)
	h.register <- c
	receive(t, c)

	h.Stop()

	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-c.send:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond, "send channel closes on shutdown")
}
