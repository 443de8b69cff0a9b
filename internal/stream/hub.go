package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
)

// Event is a single push to connected clients, e.g. a batch of freshly
// ingested prices or a sync status change.
type Event struct {
	Type string      `json:"type"`
	At   time.Time   `json:"at"`
	Data interface{} `json:"data"`
}

const (
	EventPriceUpdate = "price_update"
	EventSyncStatus  = "sync_status"
)

type client struct {
	events chan []byte
}

// Hub fans Events out to websocket subscribers. Slow clients drop events
// rather than block the publisher.
type Hub struct {
	logger     *zap.Logger
	bufferSize int

	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool
}

func NewHub(logger *zap.Logger, bufferSize int) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	if bufferSize <= 0 {
		bufferSize = 32
	}
	return &Hub{
		logger:     logger,
		bufferSize: bufferSize,
		clients:    make(map[*client]struct{}),
	}
}

// Publish serializes the event once and queues it on every subscriber.
func (h *Hub) Publish(eventType string, data interface{}) {
	if h == nil {
		return
	}
	payload, err := json.Marshal(Event{Type: eventType, At: time.Now().UTC(), Data: data})
	if err != nil {
		h.logger.Warn("stream: marshal event", zap.String("type", eventType), zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}
	for c := range h.clients {
		select {
		case c.events <- payload:
		default:
			h.logger.Debug("stream: dropping event for slow client", zap.String("type", eventType))
		}
	}
}

// Subscribers returns the current connection count.
func (h *Hub) Subscribers() int {
	if h == nil {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) add(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

// Serve upgrades the request and streams events until the client goes away
// or the context is canceled.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) error {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		return err
	}
	defer conn.Close(websocket.StatusInternalError, "closing")

	c := &client{events: make(chan []byte, h.bufferSize)}
	if !h.add(c) {
		conn.Close(websocket.StatusGoingAway, "shutting down")
		return nil
	}
	defer h.remove(c)

	ctx := r.Context()

	// Drain reads so pings and close frames are processed.
	go func() {
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "bye")
			return nil
		case payload := <-c.events:
			writeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			err := conn.Write(writeCtx, websocket.MessageText, payload)
			cancel()
			if err != nil {
				return err
			}
		}
	}
}

// Close disconnects all subscribers. New Serve calls are rejected after.
func (h *Hub) Close() {
	if h == nil {
		return
	}
	h.mu.Lock()
	h.closed = true
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()
}
