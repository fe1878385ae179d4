// Package streamhub broadcasts emitted HandFrames to WebSocket clients,
// the collaborator-facing output surface the core itself deliberately
// stays out of.
package streamhub

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kestrelcam/handtrace/handmodel"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // local-network control panel, no cross-origin concern
	},
}

// Hub broadcasts the most recently published HandFrame to every connected
// client on a fixed tick, independent of how often frames are published.
type Hub struct {
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
	latest   handmodel.HandFrame
	hasFrame bool

	tickInterval time.Duration
	stop         chan struct{}
	stopOnce     sync.Once
}

// New creates a Hub that broadcasts at tickInterval (use 0 for the default
// ~15 FPS cadence) and starts its background broadcast loop.
func New(tickInterval time.Duration) *Hub {
	if tickInterval <= 0 {
		tickInterval = 66 * time.Millisecond
	}
	h := &Hub{
		clients:      make(map[*websocket.Conn]bool),
		tickInterval: tickInterval,
		stop:         make(chan struct{}),
	}
	go h.broadcast()
	return h
}

// Publish records the latest HandFrame to send on the next broadcast tick.
// It never blocks on client I/O.
func (h *Hub) Publish(frame handmodel.HandFrame) {
	h.mu.Lock()
	h.latest = frame
	h.hasFrame = true
	h.mu.Unlock()
}

// HasClients reports whether any client is currently connected, letting a
// caller skip publishing work when nobody is listening.
func (h *Hub) HasClients() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients) > 0
}

// ServeHTTP upgrades the request to a WebSocket connection and registers
// it as a broadcast recipient until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("streamhub: upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Close stops the broadcast loop.
func (h *Hub) Close() {
	h.stopOnce.Do(func() { close(h.stop) })
}

func (h *Hub) broadcast() {
	ticker := time.NewTicker(h.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.stop:
			return
		case <-ticker.C:
			h.mu.RLock()
			if len(h.clients) == 0 || !h.hasFrame {
				h.mu.RUnlock()
				continue
			}
			msg, err := json.Marshal(h.latest)
			clients := make([]*websocket.Conn, 0, len(h.clients))
			for conn := range h.clients {
				clients = append(clients, conn)
			}
			h.mu.RUnlock()

			if err != nil {
				log.Printf("streamhub: marshal error: %v", err)
				continue
			}
			for _, conn := range clients {
				_ = conn.WriteMessage(websocket.TextMessage, msg)
			}
		}
	}
}
