package api

import (
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/brownbat/kingdom-clicker/internal/kingdom"
)

const (
	writeWait      = 10 * time.Second
	pingPeriod     = 30 * time.Second
	maxStreamConns = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The chronicle is public read-only data; origin checks happen in the
	// CORS layer for the REST surface.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans chronicle events out to websocket subscribers.
type Hub struct {
	register   chan *subscriber
	unregister chan *subscriber
	events     chan []kingdom.Event
	subs       map[*subscriber]bool
}

type subscriber struct {
	conn *websocket.Conn
	send chan []kingdom.Event
}

// NewHub creates an idle hub; call Run in a goroutine to start it.
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *subscriber),
		unregister: make(chan *subscriber),
		events:     make(chan []kingdom.Event, 64),
		subs:       make(map[*subscriber]bool),
	}
}

// Run owns the subscriber set. Slow subscribers are dropped rather than
// allowed to stall the tick loop.
func (h *Hub) Run() {
	for {
		select {
		case sub := <-h.register:
			h.subs[sub] = true
		case sub := <-h.unregister:
			if h.subs[sub] {
				delete(h.subs, sub)
				close(sub.send)
			}
		case batch := <-h.events:
			for sub := range h.subs {
				select {
				case sub.send <- batch:
				default:
					delete(h.subs, sub)
					close(sub.send)
				}
			}
		}
	}
}

// Broadcast queues an event batch for delivery. Never blocks; the feed is
// best-effort and the database keeps the authoritative chronicle.
func (h *Hub) Broadcast(events []kingdom.Event) {
	if len(events) == 0 {
		return
	}
	select {
	case h.events <- events:
	default:
	}
}

// handleStream upgrades the connection and streams event batches as JSON
// arrays until the client goes away.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "stream disabled", http.StatusConflict)
		return
	}
	if atomic.LoadInt32(&s.streamConns) >= maxStreamConns {
		http.Error(w, "too many stream connections", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	atomic.AddInt32(&s.streamConns, 1)

	sub := &subscriber{conn: conn, send: make(chan []kingdom.Event, 16)}
	s.hub.register <- sub

	go sub.writeLoop(s.hub)
	go func() {
		sub.readLoop(s.hub)
		atomic.AddInt32(&s.streamConns, -1)
	}()
}

func (sub *subscriber) writeLoop(h *Hub) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		sub.conn.Close()
	}()

	for {
		select {
		case batch, ok := <-sub.send:
			sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				sub.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := sub.conn.WriteJSON(batch); err != nil {
				return
			}
		case <-ticker.C:
			sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop drains client frames so pong handling works, and unregisters on
// disconnect.
func (sub *subscriber) readLoop(h *Hub) {
	defer func() {
		h.unregister <- sub
		sub.conn.Close()
	}()
	sub.conn.SetReadLimit(512)
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			return
		}
	}
}
