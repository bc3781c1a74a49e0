package ws

import (
	"encoding/json"
	"sync"

	"github.com/clawbot69/clawnopoly/internal/logger"
	"github.com/clawbot69/clawnopoly/internal/service"
)

// Hub tracks open connections and the seat each one holds. A seat belongs
// to one connection at a time; binding it again moves it.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	games   map[string]map[string]*Client
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		games:   make(map[string]map[string]*Client),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	n := len(h.clients)
	h.mu.Unlock()

	WSConnections.Set(float64(n))
	logger.Debug("ws connected", "conn_id", c.ID)
}

// Unregister forgets the connection. ok reports whether it still held a
// seat when it went away.
func (h *Hub) Unregister(c *Client) (gameID, playerID string, ok bool) {
	h.mu.Lock()
	delete(h.clients, c.ID)
	gameID, playerID, ok = h.unbindLocked(c)
	n := len(h.clients)
	h.mu.Unlock()

	WSConnections.Set(float64(n))
	return gameID, playerID, ok
}

// Bind seats c as playerID in gameID, releasing whatever c held before and
// taking the seat from any other connection.
func (h *Hub) Bind(c *Client, gameID, playerID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.unbindLocked(c)
	seats := h.games[gameID]
	if seats == nil {
		seats = make(map[string]*Client)
		h.games[gameID] = seats
	}
	if prev := seats[playerID]; prev != nil && prev != c {
		prev.setSeat("", "")
		logger.Info("seat taken over by new connection", "game_id", gameID, "player_id", playerID, "old_conn", prev.ID, "conn_id", c.ID)
	}
	seats[playerID] = c
	c.setSeat(gameID, playerID)
}

// Unbind releases the seat held by c, if any.
func (h *Hub) Unbind(c *Client) (gameID, playerID string, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.unbindLocked(c)
}

func (h *Hub) unbindLocked(c *Client) (string, string, bool) {
	gameID, playerID := c.Seat()
	if gameID == "" {
		return "", "", false
	}
	c.setSeat("", "")
	seats := h.games[gameID]
	if seats[playerID] != c {
		return gameID, playerID, false
	}
	delete(seats, playerID)
	if len(seats) == 0 {
		delete(h.games, gameID)
	}
	return gameID, playerID, true
}

// Broadcast sends ev to every connection seated in the game.
func (h *Hub) Broadcast(gameID string, ev service.Event) {
	b, err := json.Marshal(ev)
	if err != nil {
		logger.Error("failed to encode event", "type", ev.Type, "game_id", gameID, "error", err)
		return
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.games[gameID]))
	for _, c := range h.games[gameID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		c.enqueue(b)
	}
}

func (h *Hub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Seated(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.games[gameID])
}

// Shutdown closes every connection.
func (h *Hub) Shutdown() {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Close()
	}
}
