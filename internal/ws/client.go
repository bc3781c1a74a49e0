package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/clawbot69/clawnopoly/internal/logger"
	"github.com/clawbot69/clawnopoly/internal/service"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 256
)

// Client is one websocket connection. It holds at most one seat at a time.
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte

	hub    *Hub
	router *Router

	done      chan struct{}
	closeOnce sync.Once

	mu       sync.RWMutex
	gameID   string
	playerID string
}

func NewClient(conn *websocket.Conn, hub *Hub, router *Router) *Client {
	return &Client{
		ID:     uuid.NewString(),
		Conn:   conn,
		Send:   make(chan []byte, sendBuffer),
		hub:    hub,
		router: router,
		done:   make(chan struct{}),
	}
}

// Run serves the connection until it drops.
func (c *Client) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c.hub.Register(c)
	go c.writePump()

	c.SendMessage(MsgReady, map[string]interface{}{"connectionId": c.ID})
	c.readPump(ctx)
}

func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.router.Disconnected(context.Background(), c)
		c.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("ws read error", "conn_id", c.ID, "error", err)
			}
			return
		}
		c.router.Handle(ctx, c, msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Debug("ws write error", "conn_id", c.ID, "error", err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// enqueue hands a frame to the write pump without blocking. Frames for a
// closed or backed up connection are dropped.
func (c *Client) enqueue(b []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.Send <- b:
		return true
	default:
		logger.Warn("ws send buffer full, dropping message", "conn_id", c.ID)
		return false
	}
}

func (c *Client) SendEvent(ev service.Event) {
	b, err := json.Marshal(ev)
	if err != nil {
		logger.Error("failed to encode event", "type", ev.Type, "error", err)
		return
	}
	c.enqueue(b)
}

func (c *Client) SendMessage(typ string, payload interface{}) {
	c.SendEvent(service.Event{Type: typ, Payload: payload})
}

func (c *Client) SendError(msg string) {
	c.SendEvent(service.Event{Type: service.EventError, Payload: service.ErrorPayload{Message: msg}})
}

// Seat returns the game and player this connection is bound to.
func (c *Client) Seat() (gameID, playerID string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gameID, c.playerID
}

func (c *Client) setSeat(gameID, playerID string) {
	c.mu.Lock()
	c.gameID, c.playerID = gameID, playerID
	c.mu.Unlock()
}

func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}
