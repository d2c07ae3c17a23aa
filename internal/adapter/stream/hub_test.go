package stream

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketsim/internal/domain/economy"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHub_BroadcastsTick(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	a := dial(t, srv)
	b := dial(t, srv)
	require.Eventually(t, func() bool { return hub.Subscribers() == 2 }, time.Second, 10*time.Millisecond)

	outcome := economy.TickOutcome{
		Day:     1,
		Hour:    9,
		Entries: []economy.LogEntry{{Seq: 1, Day: 1, Time: 9, ActorName: "System", Message: "Hour 9:00", Kind: economy.LogSystem}},
		Agents:  []economy.AgentOutcome{{AgentID: "1", Result: economy.ActionResult{Action: economy.ActionIdle, Success: true}}},
	}
	require.NoError(t, hub.PublishTick(context.Background(), outcome))

	for _, conn := range []*websocket.Conn{a, b} {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, raw, err := conn.ReadMessage()
		require.NoError(t, err)
		var msg TickMessage
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, "TICK", msg.Type)
		assert.Equal(t, 9, msg.Hour)
		require.Len(t, msg.Entries, 1)
		assert.Equal(t, "Hour 9:00", msg.Entries[0].Message)
		require.Len(t, msg.Results, 1)
	}
}

func TestHub_DropsSlowSubscriber(t *testing.T) {
	hub := NewHub(nil)
	hub.buffer = 1
	id, sub := hub.subscribe()
	require.NotZero(t, id)

	require.NoError(t, hub.PublishTick(context.Background(), economy.TickOutcome{Hour: 1}))
	require.NoError(t, hub.PublishTick(context.Background(), economy.TickOutcome{Hour: 2}))
	assert.Equal(t, 0, hub.Subscribers())

	first, ok := <-sub.ch
	require.True(t, ok)
	assert.Contains(t, string(first), `"hour":1`)
	_, ok = <-sub.ch
	assert.False(t, ok, "channel should be closed after drop")
	assert.Equal(t, websocket.CloseTryAgainLater, sub.closeCode)
}

func TestHub_UnsubscribeOnDisconnect(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, time.Second, 10*time.Millisecond)
	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.Subscribers() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_CloseSendsGoingAway(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, time.Second, 10*time.Millisecond)
	hub.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	var ce *websocket.CloseError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, websocket.CloseGoingAway, ce.Code)
	assert.Equal(t, "server shutting down", ce.Text)
}

func TestHub_UnsubscribeQueuesNoCloseFrame(t *testing.T) {
	hub := NewHub(nil)
	id, sub := hub.subscribe()
	hub.unsubscribe(id)

	_, ok := <-sub.ch
	assert.False(t, ok)
	assert.Zero(t, sub.closeCode)
	assert.Equal(t, 0, hub.Subscribers())
}
