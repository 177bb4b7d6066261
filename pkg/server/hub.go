package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/movegraph/pkg/style"
	"github.com/matzehuels/movegraph/pkg/viewport"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 16
)

// MessageType tags a websocket push.
type MessageType string

const (
	MessageReload MessageType = "reload"
	MessageStyle  MessageType = "style"
	MessageState  MessageType = "state"
	MessageError  MessageType = "error"
)

// StyleUpdate carries the zoom-dependent attributes of one restyle batch.
type StyleUpdate struct {
	EdgeWidth  float64            `json:"edge_width"`
	ArrowScale float64            `json:"arrow_scale"`
	FontSizes  map[string]float64 `json:"font_sizes"`
}

// StateUpdate is the view after an event.
type StateUpdate struct {
	State     viewport.State      `json:"state"`
	Overrides style.Overrides     `json:"overrides"`
	Animation *viewport.Animation `json:"animation,omitempty"`
}

// Message is pushed to every connected browser.
type Message struct {
	Type   MessageType  `json:"type"`
	Moves  int          `json:"moves,omitempty"`
	Detail string       `json:"detail,omitempty"`
	Style  *StyleUpdate `json:"style,omitempty"`
	State  *StateUpdate `json:"state,omitempty"`
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// Hub fans messages out to websocket clients. Slow clients whose buffer
// fills are dropped rather than blocking the broadcaster.
type Hub struct {
	logger   *log.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

// NewHub creates an empty hub. A nil logger discards.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		clients: map[*client]struct{}{},
	}
}

// Run blocks until ctx is done and then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		c.close()
		delete(h.clients, c)
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast queues msg for every client.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("encode websocket message", "type", msg.Type, "err", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logger.Warn("dropping slow websocket client", "client", c.id)
			c.close()
			delete(h.clients, c)
		}
	}
}

// ServeHTTP upgrades the request and registers the connection.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	c := &client{id: uuid.NewString(), conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	h.logger.Debug("websocket connected", "client", c.id)
	go h.writePump(c)
	go h.readPump(c)
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.close()
	}
	h.mu.Unlock()
}

// readPump only services control frames; clients send events over HTTP.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
		h.logger.Debug("websocket disconnected", "client", c.id)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("websocket read", "client", c.id, "err", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// hubSurface turns each restyle batch into one style message.
type hubSurface struct{ hub *Hub }

type styleRecorder struct{ update StyleUpdate }

func (r *styleRecorder) SetEdgeStyle(width, arrowScale float64) {
	r.update.EdgeWidth, r.update.ArrowScale = width, arrowScale
}

func (r *styleRecorder) SetNodeFontSize(id string, size float64) {
	r.update.FontSizes[id] = size
}

func (s hubSurface) Batch(fn func(viewport.StyleWriter)) error {
	rec := &styleRecorder{update: StyleUpdate{FontSizes: map[string]float64{}}}
	fn(rec)
	s.hub.Broadcast(Message{Type: MessageStyle, Style: &rec.update})
	return nil
}
