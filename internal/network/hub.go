package network

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pocketpet/server/internal/platform/logger"
	"github.com/pocketpet/server/internal/platform/metrics"
	"github.com/pocketpet/server/internal/render"
)

// Message types pushed to clients.
const (
	MsgTypeFrame  = "FRAME"
	MsgTypeResult = "RESULT"
	MsgTypeError  = "ERROR"
)

// Message is the envelope of every server push.
type Message struct {
	Type      string      `json:"type"`
	Timestamp int64       `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// Hub maintains the set of active clients and broadcasts frames to them.
// The most recent frame is replayed to every newly registered client.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
	latest     []byte
	done       chan struct{}
	logger     *logger.Logger
	metrics    *metrics.Collector
}

// NewHub initializes a new WebSocket Hub.
func NewHub(log *logger.Logger, m *metrics.Collector) *Hub {
	if m == nil {
		m = metrics.New()
	}
	return &Hub{
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		done:       make(chan struct{}),
		logger:     log,
		metrics:    m,
	}
}

// Run starts the Hub's main loop to handle client connections and broadcasts.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("WebSocket Hub shutting down.")
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			if h.latest != nil {
				select {
				case client.send <- h.latest:
				default:
				}
			}
			h.mu.Unlock()
			h.metrics.RecordWSConnection(1)
			h.logger.Info("New WebSocket client connected")
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.metrics.RecordWSConnection(-1)
				h.logger.Info("WebSocket client disconnected")
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
					h.metrics.RecordWSMessage(false)
				default:
					close(client.send)
					delete(h.clients, client)
					h.metrics.RecordWSConnection(-1)
					h.metrics.RecordWSError()
					h.logger.Warn("Dropped slow WebSocket client")
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastFrame serializes frame, stores it as the latest and queues it for
// every connected client. Never blocks the caller.
func (h *Hub) BroadcastFrame(frame render.Frame) {
	payload, err := json.Marshal(Message{
		Type:      MsgTypeFrame,
		Timestamp: time.Now().Unix(),
		Payload:   frame,
	})
	if err != nil {
		h.logger.Errorf("Failed to serialize frame for WebSocket broadcast: %v", err)
		return
	}

	h.mu.Lock()
	h.latest = payload
	h.mu.Unlock()

	select {
	case h.broadcast <- payload:
	default:
		h.logger.Warn("Broadcast queue full, frame only kept as latest")
	}
}

func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// sendTo queues data for one registered client. Returns false if the client
// is gone or its buffer is full.
func (h *Hub) sendTo(c *Client, data []byte) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.clients[c] {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// Latest returns the last broadcast frame message, or nil.
func (h *Hub) Latest() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.latest
}

// ClientCount returns the number of registered clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// FrameSurface is a render.Surface that broadcasts each committed frame.
type FrameSurface struct {
	*render.Recorder
	hub *Hub
}

// NewFrameSurface creates a surface publishing to hub.
func NewFrameSurface(hub *Hub) *FrameSurface {
	return &FrameSurface{Recorder: render.NewRecorder(false), hub: hub}
}

// Flush commits the current frame to every client.
func (s *FrameSurface) Flush() {
	s.Recorder.Flush()
	s.hub.BroadcastFrame(s.Frame())
}
