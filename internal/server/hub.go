package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/boardlens/boardlens/internal/logger"
)

const writeTimeout = 5 * time.Second

// Message is the envelope for every push-channel event.
type Message struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp,omitempty"`
	Data      any    `json:"data,omitempty"`
	Processed bool   `json:"processed,omitempty"`
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex // serializes writes per connection
}

// Hub fans push messages out to every connected observer. Subscribers that
// fail a write are dropped silently.
type Hub struct {
	mu   sync.RWMutex
	subs map[*subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[*subscriber]struct{})}
}

func (h *Hub) add(conn *websocket.Conn) *subscriber {
	sub := &subscriber{conn: conn}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

func (h *Hub) remove(sub *subscriber) {
	h.mu.Lock()
	delete(h.subs, sub)
	h.mu.Unlock()
}

// Count returns the number of connected observers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Broadcast sends one message to every observer and returns the number of
// successful deliveries.
func (h *Hub) Broadcast(ctx context.Context, msg Message) int {
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Error("broadcast marshal", "type", msg.Type, "err", err)
		return 0
	}

	h.mu.RLock()
	subs := make([]*subscriber, 0, len(h.subs))
	for sub := range h.subs {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	sent := 0
	for _, sub := range subs {
		if err := sub.write(ctx, data); err != nil {
			h.remove(sub)
			sub.conn.Close(websocket.StatusInternalError, "write failed")
			continue
		}
		sent++
	}
	return sent
}

func (s *subscriber) write(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return s.conn.Write(ctx, websocket.MessageText, data)
}
