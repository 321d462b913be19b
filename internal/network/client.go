package network

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pocketpet/server/internal/engine"
	"github.com/pocketpet/server/internal/platform/logger"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 512
	// Minimum spacing between two actions from one client.
	actionCooldown = 100 * time.Millisecond
)

// ActionSubmitter applies user actions to the pet.
type ActionSubmitter interface {
	Feed(ctx context.Context, actor string) (engine.ActionResult, error)
	Play(ctx context.Context, actor string) (engine.ActionResult, error)
}

// PetAction represents an incoming command from the frontend.
type PetAction struct {
	Type    string `json:"type"`     // "FEED" or "PLAY"
	ActorID string `json:"actor_id"` // Who triggered the action
}

// Client is one active WebSocket connection.
type Client struct {
	hub            *Hub
	conn           *websocket.Conn
	send           chan []byte
	actions        ActionSubmitter
	lastActionTime time.Time
}

// NewClient creates a new WebSocket client and returns it.
func NewClient(hub *Hub, conn *websocket.Conn, actions ActionSubmitter, sendBuffer int) *Client {
	if sendBuffer <= 0 {
		sendBuffer = 64
	}
	return &Client{
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		actions: actions,
	}
}

// Register adds the client to the hub. Returns false once the hub has stopped.
func (c *Client) Register() bool {
	return c.hub.join(c)
}

// ReadPump pumps actions from the websocket connection to the engine.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Errorf("WebSocket read error: %v", err)
				c.hub.metrics.RecordWSError()
			}
			break
		}
		c.hub.metrics.RecordWSMessage(true)

		var action PetAction
		if err := json.Unmarshal(message, &action); err != nil {
			c.hub.logger.Error("Failed to parse PetAction from WebSocket. err: " + err.Error())
			c.reply(MsgTypeError, map[string]string{"error": "invalid action"})
			continue
		}

		c.handlePetAction(ctx, action)
	}
}

func (c *Client) handlePetAction(ctx context.Context, action PetAction) {
	if time.Since(c.lastActionTime) < actionCooldown {
		c.hub.logger.Warn("Rate limit exceeded for client action from " + action.ActorID)
		c.reply(MsgTypeError, map[string]string{"error": "too many actions"})
		return
	}
	c.lastActionTime = time.Now()

	if action.ActorID == "" {
		action.ActorID = "anonymous"
	}

	var (
		res engine.ActionResult
		err error
	)
	switch action.Type {
	case "FEED":
		res, err = c.actions.Feed(ctx, action.ActorID)
	case "PLAY":
		res, err = c.actions.Play(ctx, action.ActorID)
	default:
		c.hub.logger.Warn("Unknown PetAction type: " + action.Type)
		c.reply(MsgTypeError, map[string]string{"error": "unknown action " + action.Type})
		return
	}
	if err != nil {
		c.reply(MsgTypeError, map[string]string{"error": err.Error()})
		return
	}
	c.hub.logger.Event("PLAYER_ACTION_"+action.Type, action.ActorID, res.State.Filename())
	c.reply(MsgTypeResult, res)
}

// reply queues a message for this client only.
func (c *Client) reply(msgType string, payload interface{}) {
	data, err := json.Marshal(Message{Type: msgType, Timestamp: time.Now().Unix(), Payload: payload})
	if err != nil {
		return
	}
	c.hub.sendTo(c, data)
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // The pet page may be served from a dev server on another port
	},
}

// ServeWS upgrades the request and starts the client pumps.
func ServeWS(ctx context.Context, hub *Hub, actions ActionSubmitter, sendBuffer int, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("Failed to upgrade websocket connection")
			hub.metrics.RecordWSError()
			return
		}

		client := NewClient(hub, conn, actions, sendBuffer)
		if !client.Register() {
			conn.Close()
			return
		}

		go client.WritePump()
		go client.ReadPump(ctx)
	}
}
