package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/clawbot69/clawnopoly/internal/domain"
	"github.com/clawbot69/clawnopoly/internal/game"
	"github.com/clawbot69/clawnopoly/internal/logger"
)

const DefaultChaosDelay = 1500 * time.Millisecond

// GameService runs player actions against the registry. Successful results
// are broadcast to everyone seated in the game; errors only go back to the
// caller.
type GameService struct {
	registry   *Registry
	hub        Broadcaster
	tokens     *SeatTokens
	recorder   *Recorder
	chaosDelay time.Duration
}

func NewGameService(registry *Registry, hub Broadcaster, tokens *SeatTokens, recorder *Recorder, chaosDelay time.Duration) *GameService {
	if chaosDelay < 0 {
		chaosDelay = 0
	}
	return &GameService{
		registry:   registry,
		hub:        hub,
		tokens:     tokens,
		recorder:   recorder,
		chaosDelay: chaosDelay,
	}
}

func (s *GameService) Registry() *Registry {
	return s.registry
}

func (s *GameService) Tokens() *SeatTokens {
	return s.tokens
}

// CreateGame opens a new lobby and returns its id.
func (s *GameService) CreateGame(ctx context.Context) (string, error) {
	sess := s.registry.Create()
	err := sess.Do(ctx, func(e *game.Engine) {
		s.recorder.CreateGame(e.Snapshot())
		s.recorder.Log(e.ID, "", domain.ActionCreate, nil)
	})
	if err != nil {
		s.registry.Remove(sess.ID)
		return "", err
	}
	s.observe(domain.ActionCreate, nil)
	logger.Info("game created", "game_id", sess.ID)
	return sess.ID, nil
}

// JoinGame seats a new player. seat, when set, runs before the other
// players are told, so the caller can bind its connection and receive the
// announcement too.
func (s *GameService) JoinGame(ctx context.Context, gameID, name string, seat func(*JoinResult)) (*JoinResult, error) {
	var res *JoinResult
	err := s.act(ctx, gameID, domain.ActionJoin, func(sess *Session, e *game.Engine) error {
		p, err := e.AddPlayer(NewPlayerID(), name)
		if err != nil {
			return err
		}
		token, err := s.tokens.Issue(Seat{GameID: e.ID, PlayerID: p.ID})
		if err != nil {
			_ = e.RemovePlayer(p.ID)
			return err
		}
		res = &JoinResult{GameID: e.ID, Player: p, Token: token}
		if seat != nil {
			seat(res)
		}

		snap := e.Snapshot()
		s.broadcast(e.ID, EventPlayerJoined, PlayersPayload{Players: snap.Players})
		s.recorder.Log(e.ID, p.ID, domain.ActionJoin, map[string]interface{}{"name": p.Name, "color": p.Color})
		s.recorder.Snapshot(snap)
		logger.Info("player joined", "game_id", e.ID, "player_id", p.ID, "name", p.Name)
		return nil
	})
	return res, err
}

func (s *GameService) StartGame(ctx context.Context, gameID, playerID string) error {
	return s.act(ctx, gameID, domain.ActionStart, func(sess *Session, e *game.Engine) error {
		if err := e.Start(playerID); err != nil {
			return err
		}
		snap := e.Snapshot()
		current, _ := e.CurrentPlayer()
		s.broadcast(e.ID, EventGameStarted, GameStartedPayload{
			Board:         game.Board,
			Players:       snap.Players,
			CurrentPlayer: current,
		})
		s.recorder.Log(e.ID, playerID, domain.ActionStart, map[string]interface{}{"players": len(snap.Players)})
		s.recorder.Snapshot(snap)
		logger.Info("game started", "game_id", e.ID, "players", len(snap.Players))
		return nil
	})
}

// RollDice moves the current player. A chaos event picked by the roll is
// resolved after the chaos delay, still inside the same command.
func (s *GameService) RollDice(ctx context.Context, gameID, playerID string) (*game.RollResult, error) {
	var res *game.RollResult
	err := s.act(ctx, gameID, domain.ActionRoll, func(sess *Session, e *game.Engine) error {
		var err error
		res, err = e.RollDice(playerID)
		if err != nil {
			return err
		}

		s.broadcast(e.ID, EventDiceRolled, DiceRolledPayload{
			PlayerID:    res.PlayerID,
			Dice:        res.Dice,
			Total:       res.Total,
			OldPosition: res.OldPosition,
			NewPosition: res.NewPosition,
			PassedGo:    res.PassedGo,
			Balance:     res.Balance,
		})
		s.broadcast(e.ID, EventTileAction, TileActionPayload{
			PlayerID: res.PlayerID,
			Tile:     res.Tile,
			Result:   res.Outcome,
		})
		s.recorder.Log(e.ID, playerID, domain.ActionRoll, res)
		s.settle(e.ID, res.Settlement)
		s.recorder.Snapshot(e.Snapshot())

		if res.Chaos == nil {
			return nil
		}
		if !sess.Sleep(s.chaosDelay) {
			return nil
		}
		cr := e.ResolveChaos()
		if cr == nil {
			return nil
		}
		ChaosEventsTotal.WithLabelValues(cr.Event.ID).Inc()
		s.broadcast(e.ID, EventChaos, cr)
		s.recorder.Log(e.ID, cr.PlayerID, domain.ActionChaos, cr)
		s.settle(e.ID, cr.Settlement)
		s.recorder.Snapshot(e.Snapshot())
		return nil
	})
	return res, err
}

func (s *GameService) BuyProperty(ctx context.Context, gameID, playerID string) (*game.PurchaseResult, error) {
	var res *game.PurchaseResult
	err := s.act(ctx, gameID, domain.ActionBuyProperty, func(sess *Session, e *game.Engine) error {
		var err error
		if res, err = e.BuyProperty(playerID); err != nil {
			return err
		}
		s.broadcast(e.ID, EventPropertyBought, res)
		s.recorder.Log(e.ID, playerID, domain.ActionBuyProperty, res)
		s.settle(e.ID, res.Settlement)
		s.recorder.Snapshot(e.Snapshot())
		return nil
	})
	return res, err
}

func (s *GameService) BuildHouse(ctx context.Context, gameID, playerID string, tileID int) (*game.BuildResult, error) {
	var res *game.BuildResult
	err := s.act(ctx, gameID, domain.ActionBuildHouse, func(sess *Session, e *game.Engine) error {
		var err error
		if res, err = e.BuildHouse(playerID, tileID); err != nil {
			return err
		}
		s.broadcast(e.ID, EventHouseBuilt, res)
		s.recorder.Log(e.ID, playerID, domain.ActionBuildHouse, res)
		s.settle(e.ID, res.Settlement)
		s.recorder.Snapshot(e.Snapshot())
		return nil
	})
	return res, err
}

func (s *GameService) EndTurn(ctx context.Context, gameID, playerID string) (*game.TurnResult, error) {
	var res *game.TurnResult
	err := s.act(ctx, gameID, domain.ActionEndTurn, func(sess *Session, e *game.Engine) error {
		var err error
		if res, err = e.EndTurn(playerID); err != nil {
			return err
		}
		next, _ := e.CurrentPlayer()
		s.broadcast(e.ID, EventTurnEnded, TurnEndedPayload{TurnResult: res, NextPlayer: next})
		s.recorder.Log(e.ID, playerID, domain.ActionEndTurn, res)
		s.settle(e.ID, res.Settlement)
		s.recorder.Snapshot(e.Snapshot())
		return nil
	})
	return res, err
}

func (s *GameService) PayJailFine(ctx context.Context, gameID, playerID string) (*game.JailResult, error) {
	var res *game.JailResult
	err := s.act(ctx, gameID, domain.ActionPayJailFine, func(sess *Session, e *game.Engine) error {
		var err error
		if res, err = e.PayJailFine(playerID); err != nil {
			return err
		}
		s.broadcast(e.ID, EventJailFinePaid, res)
		s.recorder.Log(e.ID, playerID, domain.ActionPayJailFine, res)
		s.settle(e.ID, res.Settlement)
		s.recorder.Snapshot(e.Snapshot())
		return nil
	})
	return res, err
}

func (s *GameService) UseJailCard(ctx context.Context, gameID, playerID string) (*game.JailResult, error) {
	var res *game.JailResult
	err := s.act(ctx, gameID, domain.ActionUseJailCard, func(sess *Session, e *game.Engine) error {
		var err error
		if res, err = e.UseJailCard(playerID); err != nil {
			return err
		}
		s.broadcast(e.ID, EventJailCardUsed, res)
		s.recorder.Log(e.ID, playerID, domain.ActionUseJailCard, res)
		s.settle(e.ID, res.Settlement)
		s.recorder.Snapshot(e.Snapshot())
		return nil
	})
	return res, err
}

// LeaveGame gives up a seat. In a lobby the player is removed; in a running
// game they forfeit and their properties return to the bank.
func (s *GameService) LeaveGame(ctx context.Context, gameID, playerID string) error {
	empty := false
	err := s.act(ctx, gameID, domain.ActionLeave, func(sess *Session, e *game.Engine) error {
		switch e.Status() {
		case game.StatusWaiting:
			if err := e.RemovePlayer(playerID); err != nil {
				return err
			}
			empty = e.PlayerCount() == 0
			s.playerLeft(e, playerID)
			return nil
		default:
			res, err := e.Forfeit(playerID)
			if err != nil {
				return err
			}
			s.playerLeft(e, playerID)
			s.settle(e.ID, res.Settlement)
			if res.GameOver == nil && res.CurrentPlayerID != res.PreviousPlayerID {
				next, _ := e.CurrentPlayer()
				s.broadcast(e.ID, EventTurnEnded, TurnEndedPayload{TurnResult: res, NextPlayer: next})
			}
			s.recorder.Snapshot(e.Snapshot())
			return nil
		}
	})
	if err == nil && empty {
		s.registry.Remove(gameID)
	}
	return err
}

// Disconnected handles a dropped connection. Lobby seats are released;
// seats in a running game stay open for a resume.
func (s *GameService) Disconnected(ctx context.Context, gameID, playerID string) {
	sess, ok := s.registry.Get(gameID)
	if !ok {
		return
	}
	empty := false
	err := sess.Do(ctx, func(e *game.Engine) {
		switch e.Status() {
		case game.StatusWaiting:
			if err := e.RemovePlayer(playerID); err != nil {
				return
			}
			empty = e.PlayerCount() == 0
			s.playerLeft(e, playerID)
		case game.StatusActive:
			s.broadcast(e.ID, EventPlayerDisconnected, PlayerPayload{PlayerID: playerID})
		}
	})
	if err != nil {
		logger.Debug("disconnect on closed game", "game_id", gameID, "player_id", playerID, "error", err)
		return
	}
	if empty {
		s.registry.Remove(gameID)
	}
}

// Resume checks a seat token and returns the seat with the current state.
func (s *GameService) Resume(ctx context.Context, token string) (Seat, *game.Snapshot, error) {
	seat, err := s.tokens.Parse(token)
	if err != nil {
		return Seat{}, nil, err
	}
	sess, ok := s.registry.Get(seat.GameID)
	if !ok {
		return Seat{}, nil, ErrGameNotFound
	}

	var snap game.Snapshot
	var seated bool
	if err := sess.Do(ctx, func(e *game.Engine) {
		_, seated = e.Player(seat.PlayerID)
		snap = e.Snapshot()
	}); err != nil {
		return Seat{}, nil, err
	}
	if !seated {
		return Seat{}, nil, game.ErrPlayerNotFound
	}
	return seat, &snap, nil
}

// State returns the game from memory, then the cache, then the store.
func (s *GameService) State(ctx context.Context, gameID string) (*game.Snapshot, error) {
	gameID = NormalizeGameID(gameID)
	if sess, ok := s.registry.Get(gameID); ok {
		var snap game.Snapshot
		if err := sess.Do(ctx, func(e *game.Engine) { snap = e.Snapshot() }); err == nil {
			return &snap, nil
		}
	}

	if c := s.recorder.Cache(); c != nil {
		snap, err := c.Get(ctx, gameID)
		if err == nil {
			return snap, nil
		}
		logger.Debug("snapshot cache miss", "game_id", gameID, "error", err)
	}

	if st := s.recorder.Store(); st != nil {
		rec, err := st.GetGame(ctx, gameID)
		if err != nil {
			return nil, err
		}
		var snap game.Snapshot
		if err := json.Unmarshal(rec.BoardState, &snap); err != nil || snap.ID == "" {
			snap = game.Snapshot{ID: rec.ID, Status: game.Status(rec.Status), CurrentPlayer: rec.CurrentPlayer, TurnCount: rec.TurnCount, Jackpot: rec.Jackpot}
		}
		return &snap, nil
	}
	return nil, ErrGameNotFound
}

// ListOpenGames returns lobbies that still have a free seat.
func (s *GameService) ListOpenGames(ctx context.Context) []LobbyInfo {
	out := []LobbyInfo{}
	for _, sess := range s.registry.List() {
		var info *LobbyInfo
		err := sess.Do(ctx, func(e *game.Engine) {
			if e.Status() != game.StatusWaiting || e.PlayerCount() >= e.Rules().MaxPlayers {
				return
			}
			snap := e.Snapshot()
			info = &LobbyInfo{ID: e.ID, Players: make([]string, 0, len(snap.Players)), MaxPlayers: e.Rules().MaxPlayers}
			for _, p := range snap.Players {
				info.Players = append(info.Players, p.Name)
			}
		})
		if err == nil && info != nil {
			out = append(out, *info)
		}
	}
	return out
}

// ActionLog returns the latest log entries of a game, newest first.
func (s *GameService) ActionLog(ctx context.Context, gameID string, limit int) ([]*domain.ActionLog, error) {
	st := s.recorder.Store()
	if st == nil {
		return []*domain.ActionLog{}, nil
	}
	if limit <= 0 {
		limit = domain.DefaultLogLimit
	}
	logs, err := st.GetLog(ctx, NormalizeGameID(gameID), limit)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []*domain.ActionLog{}
	}
	return logs, nil
}

// DeleteGame removes a game everywhere. The token must hold a seat in it.
func (s *GameService) DeleteGame(ctx context.Context, gameID, token string) error {
	gameID = NormalizeGameID(gameID)
	seat, err := s.tokens.Parse(token)
	if err != nil {
		return err
	}
	if seat.GameID != gameID {
		return ErrForbidden
	}

	inMemory := false
	if sess, ok := s.registry.Get(gameID); ok {
		inMemory = true
		_ = sess.Do(ctx, func(e *game.Engine) {
			s.broadcast(e.ID, EventGameEnded, game.GameOver{Reason: "game deleted"})
		})
		s.registry.Remove(gameID)
	}

	err = s.recorder.DeleteGame(ctx, gameID)
	switch {
	case err == nil:
	case errors.Is(err, ErrGameNotFound) && inMemory:
	default:
		return err
	}
	if !inMemory && s.recorder.Store() == nil {
		return ErrGameNotFound
	}
	logger.Info("game deleted", "game_id", gameID, "player_id", seat.PlayerID)
	return nil
}

// act runs fn on the game's session and counts the outcome.
func (s *GameService) act(ctx context.Context, gameID, action string, fn func(*Session, *game.Engine) error) error {
	sess, ok := s.registry.Get(gameID)
	if !ok {
		s.observe(action, ErrGameNotFound)
		return ErrGameNotFound
	}

	var actErr error
	if err := sess.Do(ctx, func(e *game.Engine) { actErr = fn(sess, e) }); err != nil {
		s.observe(action, err)
		return err
	}
	s.observe(action, actErr)
	return actErr
}

func (s *GameService) settle(gameID string, st game.Settlement) {
	if len(st.Bankrupt) > 0 {
		s.broadcast(gameID, EventBankrupt, BankruptPayload{PlayerIDs: st.Bankrupt})
		for _, id := range st.Bankrupt {
			s.recorder.Log(gameID, id, domain.ActionBankrupt, nil)
		}
	}
	if st.GameOver != nil {
		s.broadcast(gameID, EventGameEnded, st.GameOver)
		s.recorder.Log(gameID, st.GameOver.WinnerID, domain.ActionGameEnd, st.GameOver)
		logger.Info("game ended", "game_id", gameID, "winner_id", st.GameOver.WinnerID, "reason", st.GameOver.Reason)
	}
}

func (s *GameService) playerLeft(e *game.Engine, playerID string) {
	snap := e.Snapshot()
	s.broadcast(e.ID, EventPlayerLeft, PlayerLeftPayload{PlayerID: playerID, Players: snap.Players})
	s.recorder.Log(e.ID, playerID, domain.ActionLeave, nil)
	s.recorder.Snapshot(snap)
}

func (s *GameService) broadcast(gameID, typ string, payload interface{}) {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast(gameID, Event{Type: typ, Payload: payload})
}

func (s *GameService) observe(action string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case game.IsValidation(err), game.IsResource(err), errors.Is(err, game.ErrPlayerNotFound):
		result = "rejected"
	case errors.Is(err, ErrGameNotFound):
		result = "not_found"
	default:
		result = "error"
	}
	ActionsTotal.WithLabelValues(action, result).Inc()
}
