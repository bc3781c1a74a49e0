package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/clawbot69/clawnopoly/internal/domain"
	"github.com/clawbot69/clawnopoly/internal/game"
	"github.com/clawbot69/clawnopoly/internal/logger"

	"golang.org/x/sync/errgroup"
)

// Store is the persistence surface the game service writes to.
type Store interface {
	CreateGame(ctx context.Context, g *domain.GameRecord) error
	UpdateGame(ctx context.Context, g *domain.GameRecord) error
	GetGame(ctx context.Context, id string) (*domain.GameRecord, error)
	DeleteGame(ctx context.Context, id string) error
	SavePlayer(ctx context.Context, p *domain.PlayerRecord) error
	GetPlayers(ctx context.Context, gameID string) ([]*domain.PlayerRecord, error)
	PrunePlayers(ctx context.Context, gameID string, keep []string) error
	SaveProperties(ctx context.Context, gameID string, props []domain.PropertyRecord) error
	GetProperties(ctx context.Context, gameID string) ([]*domain.PropertyRecord, error)
	AppendLog(ctx context.Context, log *domain.ActionLog) error
	GetLog(ctx context.Context, gameID string, limit int) ([]*domain.ActionLog, error)
	Ping(ctx context.Context) error
	Close()
}

type SnapshotCache interface {
	Set(ctx context.Context, gameID string, snap game.Snapshot, ttl time.Duration) error
	Get(ctx context.Context, gameID string) (*game.Snapshot, error)
	Delete(ctx context.Context, gameID string) error
}

const (
	opCreateGame = "create_game"
	opSnapshot   = "snapshot"
	opLog        = "log"
	opCache      = "cache"
	opDelete     = "delete_game"
)

type job struct {
	op     string
	gameID string
	run    func(ctx context.Context) error
	done   chan error
}

// Recorder writes game state in the background. Jobs are applied in the
// order they were queued by a single worker; failures are logged and
// counted but never reach the players.
type Recorder struct {
	store    Store
	cache    SnapshotCache
	cacheTTL time.Duration
	timeout  time.Duration

	jobs     chan job
	wg       sync.WaitGroup
	stopOnce sync.Once
	mu       sync.RWMutex
	stopped  bool
}

// NewRecorder starts the worker. store and cache may each be nil.
func NewRecorder(store Store, cache SnapshotCache, queueSize int, cacheTTL time.Duration) *Recorder {
	if queueSize <= 0 {
		queueSize = 256
	}
	if cacheTTL <= 0 {
		cacheTTL = 24 * time.Hour
	}
	r := &Recorder{
		store:    store,
		cache:    cache,
		cacheTTL: cacheTTL,
		timeout:  5 * time.Second,
		jobs:     make(chan job, queueSize),
	}
	r.wg.Add(1)
	go r.worker()
	return r
}

func (r *Recorder) Store() Store {
	return r.store
}

func (r *Recorder) Cache() SnapshotCache {
	return r.cache
}

func (r *Recorder) worker() {
	defer r.wg.Done()
	for j := range r.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		err := j.run(ctx)
		cancel()
		if err != nil {
			PersistenceFailures.WithLabelValues(j.op).Inc()
			logger.Error("failed to persist game", "op", j.op, "game_id", j.gameID, "error", err)
		}
		if j.done != nil {
			j.done <- err
		}
	}
}

func (r *Recorder) enqueue(j job) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.stopped {
		return false
	}
	select {
	case r.jobs <- j:
		return true
	default:
		PersistenceFailures.WithLabelValues(j.op).Inc()
		logger.Warn("persistence queue full, dropping job", "op", j.op, "game_id", j.gameID)
		return false
	}
}

// CreateGame records a new lobby.
func (r *Recorder) CreateGame(snap game.Snapshot) {
	if r.store == nil {
		return
	}
	rec := gameRecord(snap)
	r.enqueue(job{op: opCreateGame, gameID: snap.ID, run: func(ctx context.Context) error {
		return r.store.CreateGame(ctx, rec)
	}})
}

// Snapshot mirrors the full state of a game into the store and the cache.
func (r *Recorder) Snapshot(snap game.Snapshot) {
	if r.store == nil && r.cache == nil {
		return
	}
	r.enqueue(job{op: opSnapshot, gameID: snap.ID, run: func(ctx context.Context) error {
		if r.cache != nil {
			if err := r.cache.Set(ctx, snap.ID, snap, r.cacheTTL); err != nil {
				PersistenceFailures.WithLabelValues(opCache).Inc()
				logger.Warn("failed to cache snapshot", "game_id", snap.ID, "error", err)
			}
		}
		if r.store == nil {
			return nil
		}
		return r.writeSnapshot(ctx, snap)
	}})
}

func (r *Recorder) writeSnapshot(ctx context.Context, snap game.Snapshot) error {
	if err := r.store.UpdateGame(ctx, gameRecord(snap)); err != nil {
		return err
	}

	players := playerRecords(snap)
	g, gctx := errgroup.WithContext(ctx)
	for _, p := range players {
		g.Go(func() error {
			return r.store.SavePlayer(gctx, p)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	keep := make([]string, 0, len(players))
	for _, p := range players {
		keep = append(keep, p.ID)
	}
	if err := r.store.PrunePlayers(ctx, snap.ID, keep); err != nil {
		return err
	}
	return r.store.SaveProperties(ctx, snap.ID, propertyRecords(snap))
}

// Log appends an action to the game log. details is stored as a JSON object.
func (r *Recorder) Log(gameID, playerID, action string, details interface{}) {
	if r.store == nil {
		return
	}
	entry := &domain.ActionLog{
		GameID:   gameID,
		PlayerID: playerID,
		Action:   action,
		Details:  toDetails(details),
	}
	r.enqueue(job{op: opLog, gameID: gameID, run: func(ctx context.Context) error {
		return r.store.AppendLog(ctx, entry)
	}})
}

// DeleteGame removes a game from the store and cache after every job queued
// before it, and waits for the result.
func (r *Recorder) DeleteGame(ctx context.Context, gameID string) error {
	if r.store == nil && r.cache == nil {
		return nil
	}
	done := make(chan error, 1)
	ok := r.enqueue(job{op: opDelete, gameID: gameID, done: done, run: func(ctx context.Context) error {
		if r.cache != nil {
			_ = r.cache.Delete(ctx, gameID)
		}
		if r.store == nil {
			return nil
		}
		return r.store.DeleteGame(ctx, gameID)
	}})
	if !ok {
		return ErrSessionClosed
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Flush waits until every job queued so far has been applied.
func (r *Recorder) Flush(ctx context.Context) error {
	done := make(chan error, 1)
	if !r.enqueue(job{op: "flush", run: func(context.Context) error { return nil }, done: done}) {
		return ErrSessionClosed
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop drains the queue and stops the worker.
func (r *Recorder) Stop(ctx context.Context) {
	r.stopOnce.Do(func() {
		r.mu.Lock()
		r.stopped = true
		close(r.jobs)
		r.mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		logger.Warn("persistence queue not drained before shutdown")
	}
}

func gameRecord(s game.Snapshot) *domain.GameRecord {
	board, err := json.Marshal(s)
	if err != nil {
		board = []byte("{}")
	}
	return &domain.GameRecord{
		ID:            s.ID,
		Status:        string(s.Status),
		CurrentPlayer: s.CurrentPlayer,
		TurnCount:     s.TurnCount,
		BoardState:    board,
		Jackpot:       s.Jackpot,
	}
}

func playerRecords(s game.Snapshot) []*domain.PlayerRecord {
	out := make([]*domain.PlayerRecord, 0, len(s.Players))
	for _, p := range s.Players {
		props := make([]int, 0, len(p.Properties))
		for _, ref := range p.Properties {
			props = append(props, ref.TileID)
		}
		out = append(out, &domain.PlayerRecord{
			ID:            p.ID,
			GameID:        s.ID,
			Name:          p.Name,
			Color:         p.Color,
			Position:      p.Position,
			Money:         p.Money,
			InJail:        p.InJail,
			JailTurns:     p.JailTurns,
			JailFreeCards: p.JailFreeCards,
			Properties:    props,
			TurnOrder:     p.TurnOrder,
			Active:        p.Active,
		})
	}
	return out
}

func propertyRecords(s game.Snapshot) []domain.PropertyRecord {
	out := make([]domain.PropertyRecord, 0, len(s.Properties))
	for _, o := range s.Properties {
		out = append(out, domain.PropertyRecord{
			GameID:    s.ID,
			TileID:    o.TileID,
			OwnerID:   o.OwnerID,
			Houses:    o.Houses,
			Hotel:     o.Hotel,
			Mortgaged: o.Mortgaged,
		})
	}
	return out
}

func toDetails(v interface{}) map[string]interface{} {
	if v == nil {
		return map[string]interface{}{}
	}
	if m, ok := v.(map[string]interface{}); ok {
		return m
	}
	b, err := json.Marshal(v)
	if err != nil {
		return map[string]interface{}{}
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil || m == nil {
		return map[string]interface{}{}
	}
	return m
}
