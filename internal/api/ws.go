// Live entity feed over websockets. Clients subscribe with a plain GET
// upgrade; the simulation loop pushes a frame of entity snapshots after
// every tick via Broadcast.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/talgya/emberwood/internal/engine"
)

const writeWait = 5 * time.Second

// Hub fans tick frames out to every connected websocket client. Slow
// clients are dropped rather than allowed to stall the tick loop.
type Hub struct {
	mu          sync.Mutex
	subscribers map[*websocket.Conn]chan []byte
	upgrader    websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[*websocket.Conn]chan []byte),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Frame is one tick's worth of live state.
type Frame struct {
	Tick     uint64                  `json:"tick"`
	Entities []engine.EntitySnapshot `json:"entities"`
}

// Broadcast queues a frame for every subscriber. A subscriber whose buffer
// is full misses the frame; the next one supersedes it anyway.
func (h *Hub) Broadcast(tick uint64, snaps []engine.EntitySnapshot) {
	b, err := json.Marshal(Frame{Tick: tick, Entities: snaps})
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, out := range h.subscribers {
		select {
		case out <- b:
		default:
		}
	}
}

// Subscribers returns the current connection count.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

func (h *Hub) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	out := make(chan []byte, 8)
	h.mu.Lock()
	h.subscribers[conn] = out
	h.mu.Unlock()
	slog.Debug("ws client connected", "remote", r.RemoteAddr)

	// Writer goroutine: drains the frame buffer until the connection dies.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for b := range out {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		}
	}()

	// Reader loop: clients send nothing meaningful, but reading is how we
	// notice the close handshake.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	// Unsubscribe before closing the buffer so Broadcast never writes to a
	// closed channel.
	h.mu.Lock()
	delete(h.subscribers, conn)
	h.mu.Unlock()
	close(out)
	<-done
	conn.Close()
	slog.Debug("ws client disconnected", "remote", r.RemoteAddr)
}
