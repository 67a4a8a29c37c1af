// Package broadcast fans report lifecycle events out to connected live
// listeners (the neighborhood siren controllers and the admin dashboard).
// Delivery is at-most-once per currently-connected listener: no buffering
// for late joiners, no acknowledgment, no retry, no cross-listener ordering.
package broadcast

import (
	"log"
	"sync"
	"time"
)

// Topics published by the report ingestor.
const (
	TopicNewReport    = "new_report"
	TopicStatusUpdate = "report_status_update"
)

// Event is one published message as it goes over the wire.
type Event struct {
	Topic   string      `json:"topic"`
	Payload interface{} `json:"payload"`
	At      time.Time   `json:"at"`
}

// Hub tracks the currently connected listeners.  It is process-wide shared
// state with its own lock; publishing never blocks on a slow listener, the
// event is dropped for that listener instead.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

// NewHub constructs an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

// Subscribe attaches a new listener and returns its client handle.  The
// caller owns the pump: drain client.Send until Done fires, then call
// Unsubscribe.
func (h *Hub) Subscribe() *Client {
	c := newClient(64)
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

// Unsubscribe detaches and closes a listener.
func (h *Hub) Unsubscribe(c *Client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.Close()
}

// Publish sends the payload to every currently connected listener under the
// given topic.  Listeners whose queue is full miss this event; a live alert
// stream has no use for backpressure into the request path.
func (h *Hub) Publish(topic string, payload interface{}) {
	ev := Event{Topic: topic, Payload: payload, At: time.Now().UTC()}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.Send <- ev:
		default:
			log.Printf("broadcast: dropping %s event for slow listener", topic)
		}
	}
}

// Count returns the number of connected listeners.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
