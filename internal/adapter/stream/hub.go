// Package stream pushes committed ticks to websocket observers.
package stream

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"marketsim/internal/domain/economy"
)

const (
	defaultBuffer = 16
	writeWait     = 5 * time.Second
	readWait      = 60 * time.Second
)

// TickMessage is the frame sent to observers after every committed tick.
type TickMessage struct {
	Type      string                   `json:"type"`
	Day       int                      `json:"day"`
	Hour      int                      `json:"hour"`
	CEOsActed bool                     `json:"ceos_acted"`
	Entries   []economy.LogEntry       `json:"entries"`
	Results   []economy.AgentOutcome   `json:"results"`
	Companies []economy.CompanyOutcome `json:"companies"`
	Degraded  []economy.Degraded       `json:"degraded"`
}

// Hub fans tick messages out to subscribers. A subscriber whose buffer is full is
// disconnected rather than allowed to stall the publisher.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *slog.Logger
	buffer   int
	nextID   atomic.Uint64

	mu   sync.Mutex
	subs map[uint64]*subscriber
}

// subscriber is one observer's outbound queue. The close code and text are set
// before ch is closed and tell the writer which close frame to send, if any.
type subscriber struct {
	ch        chan []byte
	closeCode int
	closeText string
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger,
		buffer: defaultBuffer,
		subs:   map[uint64]*subscriber{},
	}
}

func (h *Hub) PublishTick(_ context.Context, outcome economy.TickOutcome) error {
	b, err := json.Marshal(TickMessage{
		Type:      "TICK",
		Day:       outcome.Day,
		Hour:      outcome.Hour,
		CEOsActed: outcome.CEOsActed,
		Entries:   outcome.Entries,
		Results:   outcome.Agents,
		Companies: outcome.Companies,
		Degraded:  outcome.Degraded,
	})
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, sub := range h.subs {
		select {
		case sub.ch <- b:
		default:
			h.drop(id, websocket.CloseTryAgainLater, "too slow")
			h.logger.Warn("observer dropped", "observer_id", id, "reason", "slow consumer")
		}
	}
	return nil
}

func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close disconnects every observer.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id := range h.subs {
		h.drop(id, websocket.CloseGoingAway, "server shutting down")
	}
}

func (h *Hub) subscribe() (uint64, *subscriber) {
	id := h.nextID.Add(1)
	sub := &subscriber{ch: make(chan []byte, h.buffer)}
	h.mu.Lock()
	h.subs[id] = sub
	h.mu.Unlock()
	return id, sub
}

// unsubscribe is used when the client went away, so no close frame is queued.
func (h *Hub) unsubscribe(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.drop(id, 0, "")
}

// drop must be called with h.mu held.
func (h *Hub) drop(id uint64, code int, text string) {
	sub, ok := h.subs[id]
	if !ok {
		return
	}
	delete(h.subs, id)
	sub.closeCode, sub.closeText = code, text
	close(sub.ch)
}

func (h *Hub) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		id, sub := h.subscribe()
		defer h.unsubscribe(id)
		h.logger.Info("observer joined", "observer_id", id, "remote", r.RemoteAddr)

		done := make(chan struct{})
		go func() {
			defer close(done)
			for b := range sub.ch {
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					_ = conn.Close()
					return
				}
			}
			if sub.closeCode != 0 {
				_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(sub.closeCode, sub.closeText), time.Now().Add(time.Second))
			}
			_ = conn.Close()
		}()

		// Observers only listen; reads keep the connection alive and detect close.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(readWait))
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		h.unsubscribe(id)
		select {
		case <-done:
		case <-time.After(500 * time.Millisecond):
		}
		h.logger.Info("observer left", "observer_id", id)
	}
}
