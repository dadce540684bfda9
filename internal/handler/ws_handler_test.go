package handler

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
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ws "github.com/intervue/intervue-backend/internal/websocket"
)

// dialMonitor upgrades a test connection and runs serveMonitor against a
// test-fed events channel.
func dialMonitor(t *testing.T, events <-chan *redis.Message) *websocket.Conn {
	t.Helper()

	h := NewWSHandler(nil, zerolog.Nop(), nil)
	var wg sync.WaitGroup

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		wg.Add(1)
		defer wg.Done()
		h.serveMonitor(ctx, cancel, conn, events, zerolog.Nop())
	}))
	t.Cleanup(func() {
		srv.Close()
		wg.Wait()
	})

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

// Pings and pub/sub forwards race for the same connection; every write must
// go through the single pump goroutine. Run under -race this fails if any
// write happens off the pump.
func TestServeMonitorSerializesWrites(t *testing.T) {
	const eventCount = 50

	events := make(chan *redis.Message)
	client := dialMonitor(t, events)

	payload, err := json.Marshal(ws.ProgressEvent{Event: ws.EventProgress, State: "IN_PROGRESS"})
	require.NoError(t, err)

	// Writer side: flood progress events while the client floods pings.
	go func() {
		for i := 0; i < eventCount; i++ {
			events <- &redis.Message{Payload: string(payload)}
		}
	}()
	go func() {
		for i := 0; i < eventCount; i++ {
			_ = client.WriteJSON(ws.RequestEnvelope{Action: ws.ActionPing})
		}
	}()

	progress := 0
	pongs := 0
	deadline := time.Now().Add(5 * time.Second)
	for progress < eventCount {
		require.NoError(t, client.SetReadDeadline(deadline))
		_, data, err := client.ReadMessage()
		require.NoError(t, err)

		var frame struct {
			Event ws.Event `json:"event"`
		}
		require.NoError(t, json.Unmarshal(data, &frame), "frame must be intact JSON: %q", data)
		switch frame.Event {
		case ws.EventProgress:
			progress++
		case ws.EventPong:
			pongs++
		default:
			t.Fatalf("unexpected frame %q", data)
		}
	}

	assert.Equal(t, eventCount, progress)
	// Pings coalesce while a pong is pending, so only some fraction is
	// answered. At least one must get through.
	assert.Greater(t, pongs, 0)
}

func TestServeMonitorStopsWhenEventsClose(t *testing.T) {
	events := make(chan *redis.Message)
	client := dialMonitor(t, events)

	events <- &redis.Message{Payload: `{"event":"progress"}`}
	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := client.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"progress"}`, string(data))

	close(events)
	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = client.ReadMessage()
	assert.Error(t, err)
}
