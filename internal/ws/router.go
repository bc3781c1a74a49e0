package ws

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/clawbot69/clawnopoly/internal/game"
	"github.com/clawbot69/clawnopoly/internal/logger"
	"github.com/clawbot69/clawnopoly/internal/service"

	"github.com/mitchellh/mapstructure"
)

var knownTypes = map[string]bool{
	MsgCreateGame: true, MsgJoinGame: true, MsgStartGame: true, MsgRollDice: true,
	MsgBuyProperty: true, MsgBuildHouse: true, MsgEndTurn: true, MsgPayJailFine: true,
	MsgUseJailCard: true, MsgLeaveGame: true, MsgResume: true, MsgGetState: true, MsgPing: true,
}

// Router turns client frames into game service calls. Replies to the
// requester go straight to its connection; everything else reaches the
// players through the hub.
type Router struct {
	svc *service.GameService
	hub *Hub
}

func NewRouter(svc *service.GameService, hub *Hub) *Router {
	return &Router{svc: svc, hub: hub}
}

func (r *Router) Handle(ctx context.Context, c *Client, raw []byte) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.SendError("invalid message")
		return
	}
	if knownTypes[msg.Type] {
		WSMessages.WithLabelValues(msg.Type).Inc()
	} else {
		WSMessages.WithLabelValues("unknown").Inc()
	}

	switch msg.Type {
	case MsgPing:
		c.SendMessage(MsgPong, nil)
	case MsgCreateGame:
		r.createGame(ctx, c)
	case MsgJoinGame:
		r.joinGame(ctx, c, msg)
	case MsgResume:
		r.resume(ctx, c, msg)
	case MsgGetState:
		r.getState(ctx, c, msg)
	default:
		r.seated(ctx, c, msg)
	}
}

func (r *Router) createGame(ctx context.Context, c *Client) {
	id, err := r.svc.CreateGame(ctx)
	if err != nil {
		logger.Error("failed to create game", "conn_id", c.ID, "error", err)
		c.SendError("Failed to create game")
		return
	}
	c.SendMessage(service.EventGameCreated, map[string]interface{}{"gameId": id})
}

func (r *Router) joinGame(ctx context.Context, c *Client, msg Message) {
	var req joinGameRequest
	if !decode(c, msg, &req) {
		return
	}
	r.release(ctx, c)

	_, err := r.svc.JoinGame(ctx, req.GameID, req.PlayerName, func(res *service.JoinResult) {
		r.hub.Bind(c, res.GameID, res.Player.ID)
		c.SendMessage(service.EventJoinedGame, res)
	})
	if errors.Is(err, service.ErrGameNotFound) {
		c.SendError("Game not found")
		return
	}
	r.reply(c, msg.Type, err)
}

func (r *Router) resume(ctx context.Context, c *Client, msg Message) {
	var req resumeRequest
	if !decode(c, msg, &req) {
		return
	}
	seat, snap, err := r.svc.Resume(ctx, req.Token)
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		c.SendError("Game not found")
		return
	case errors.Is(err, game.ErrPlayerNotFound):
		c.SendError("seat no longer available")
		return
	case err != nil:
		r.reply(c, msg.Type, err)
		return
	}

	if g, p := c.Seat(); g != seat.GameID || p != seat.PlayerID {
		r.release(ctx, c)
	}
	r.hub.Bind(c, seat.GameID, seat.PlayerID)
	c.SendMessage(service.EventState, snap)
	logger.Info("player resumed", "game_id", seat.GameID, "player_id", seat.PlayerID, "conn_id", c.ID)
}

func (r *Router) getState(ctx context.Context, c *Client, msg Message) {
	var req getStateRequest
	if !decode(c, msg, &req) {
		return
	}
	gameID := req.GameID
	if gameID == "" {
		gameID, _ = c.Seat()
	}
	if gameID == "" {
		return
	}
	snap, err := r.svc.State(ctx, gameID)
	if err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			c.SendError("Game not found")
			return
		}
		r.reply(c, msg.Type, err)
		return
	}
	c.SendMessage(service.EventState, snap)
}

// seated handles actions that need a seat. Connections without one are
// ignored.
func (r *Router) seated(ctx context.Context, c *Client, msg Message) {
	gameID, playerID := c.Seat()
	if gameID == "" {
		return
	}

	var err error
	switch msg.Type {
	case MsgStartGame:
		err = r.svc.StartGame(ctx, gameID, playerID)
	case MsgRollDice:
		_, err = r.svc.RollDice(ctx, gameID, playerID)
	case MsgBuyProperty:
		_, err = r.svc.BuyProperty(ctx, gameID, playerID)
	case MsgBuildHouse:
		var req buildHouseRequest
		if !decode(c, msg, &req) {
			return
		}
		_, err = r.svc.BuildHouse(ctx, gameID, playerID, req.TileID)
	case MsgEndTurn:
		_, err = r.svc.EndTurn(ctx, gameID, playerID)
	case MsgPayJailFine:
		_, err = r.svc.PayJailFine(ctx, gameID, playerID)
	case MsgUseJailCard:
		_, err = r.svc.UseJailCard(ctx, gameID, playerID)
	case MsgLeaveGame:
		if err = r.svc.LeaveGame(ctx, gameID, playerID); err == nil {
			r.hub.Unbind(c)
		}
	default:
		c.SendError("unknown message type: " + msg.Type)
		return
	}
	r.reply(c, msg.Type, err)
}

// Disconnected runs when the connection is gone.
func (r *Router) Disconnected(ctx context.Context, c *Client) {
	gameID, playerID, ok := r.hub.Unregister(c)
	if !ok {
		return
	}
	logger.Info("player disconnected", "game_id", gameID, "player_id", playerID, "conn_id", c.ID)
	r.svc.Disconnected(ctx, gameID, playerID)
}

// release gives up the seat c holds before it takes another one.
func (r *Router) release(ctx context.Context, c *Client) {
	if gameID, playerID, ok := r.hub.Unbind(c); ok {
		r.svc.Disconnected(ctx, gameID, playerID)
	}
}

// reply reports a failed action to the requester only. Lookups that miss
// are dropped without an answer.
func (r *Router) reply(c *Client, action string, err error) {
	switch {
	case err == nil:
	case errors.Is(err, service.ErrGameNotFound),
		errors.Is(err, service.ErrSessionClosed),
		errors.Is(err, game.ErrPlayerNotFound):
		logger.Debug("dropped action", "action", action, "conn_id", c.ID, "error", err)
	case game.IsValidation(err), game.IsResource(err), errors.Is(err, service.ErrInvalidToken):
		c.SendError(err.Error())
	default:
		logger.Error("action failed", "action", action, "conn_id", c.ID, "error", err)
		c.SendError("internal error")
	}
}

func decode(c *Client, msg Message, out interface{}) bool {
	if msg.Payload == nil {
		return true
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err == nil {
		err = dec.Decode(msg.Payload)
	}
	if err != nil {
		c.SendError("invalid " + msg.Type + " payload")
		return false
	}
	return true
}
