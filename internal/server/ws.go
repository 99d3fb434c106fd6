package server

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// clientBuffer is how many events may wait for a slow client before
	// new ones are dropped for it.
	clientBuffer = 64

	writeWait = 2 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// client is one websocket subscriber. Only its writer goroutine writes
// data frames to conn.
type client struct {
	conn *websocket.Conn
	send chan Detection
	once sync.Once
}

// stop ends the writer once the queued events are flushed.
func (c *client) stop() {
	c.once.Do(func() { close(c.send) })
}

func (c *client) writePump(logger *slog.Logger) {
	for event := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(event); err != nil {
			logger.Debug("dropping websocket client", "error", err)
			c.conn.Close()
			for range c.send {
			}
			return
		}
	}

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"))
	c.conn.Close()
}

// DetectionsHandler pushes detection events to WebSocket clients. Publishing
// never waits on the network: each client has its own queue and writer.
type DetectionsHandler struct {
	clients map[*client]bool
	mu      sync.RWMutex
	logger  *slog.Logger
}

// NewDetectionsHandler creates a new DetectionsHandler.
func NewDetectionsHandler(logger *slog.Logger) *DetectionsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DetectionsHandler{
		clients: make(map[*client]bool),
		logger:  logger,
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *DetectionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	c := &client{conn: conn, send: make(chan Detection, clientBuffer)}
	go c.writePump(h.logger)

	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, c)
		c.stop()
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Clients returns the number of connected clients.
func (h *DetectionsHandler) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish queues a detection event for every connected client. A client
// whose queue is full misses the event.
func (h *DetectionsHandler) Publish(event Detection) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- event:
		default:
			h.logger.Debug("websocket client is behind, event dropped", "frame", event.Frame)
		}
	}
}

// CloseAll disconnects every client after its queued events are written.
func (h *DetectionsHandler) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		delete(h.clients, c)
		c.stop()
	}
}
