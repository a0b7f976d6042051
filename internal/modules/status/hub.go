package status

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// Hub fans status frames out to WebSocket subscribers. Clients only listen;
// anything they send is discarded.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *slog.Logger
	initial  func() any

	// mu guards clients and serializes writes, since a gorilla conn allows
	// one writer at a time.
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewHub returns a hub. initial, if set, produces the frame sent to each
// client right after it connects.
func NewHub(logger *slog.Logger, initial func() any) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger:  logger,
		initial: initial,
		clients: make(map[*websocket.Conn]struct{}),
	}
}

func (h *Hub) handleStatus(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		h.logger.Warn("ws upgrade failed", "error", err)
		return
	}

	var first any
	if h.initial != nil {
		first = h.initial()
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	if first != nil {
		if err := writeFrame(conn, first); err != nil {
			h.dropLocked(conn)
			h.mu.Unlock()
			return
		}
	}
	h.mu.Unlock()

	h.logger.Debug("ws client connected", "remote", r.RemoteAddr)
	go h.readPump(conn)
}

// Broadcast sends v to every client and returns how many received it.
// Clients that fail a write are dropped.
func (h *Hub) Broadcast(v any) int {
	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("ws marshal frame", "error", err)
		return 0
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	sent := 0
	for c := range h.clients {
		_ = c.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
			h.dropLocked(c)
			continue
		}
		sent++
	}
	return sent
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		_ = c.SetWriteDeadline(time.Now().Add(time.Second))
		_ = c.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		h.dropLocked(c)
	}
}

func (h *Hub) readPump(c *websocket.Conn) {
	defer func() {
		h.mu.Lock()
		h.dropLocked(c)
		h.mu.Unlock()
	}()
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) dropLocked(c *websocket.Conn) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	_ = c.Close()
}

func writeFrame(c *websocket.Conn, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = c.SetWriteDeadline(time.Now().Add(writeWait))
	return c.WriteMessage(websocket.TextMessage, data)
}
