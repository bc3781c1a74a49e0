package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/clawbot69/clawnopoly/internal/game"
	"github.com/clawbot69/clawnopoly/internal/logger"

	"github.com/google/uuid"
)

// Registry holds the games running in this process.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	rules    game.Rules
	opts     []game.Option
}

func NewRegistry(rules game.Rules, opts ...game.Option) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		rules:    rules,
		opts:     opts,
	}
}

func (r *Registry) Rules() game.Rules {
	return r.rules
}

// Create starts a new waiting game under a fresh 8 character id.
func (r *Registry) Create() *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := NewGameID()
	for r.sessions[id] != nil {
		id = NewGameID()
	}
	s := newSession(game.NewEngine(id, r.rules, r.opts...))
	r.sessions[id] = s
	GamesActive.Inc()
	return s
}

func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[NormalizeGameID(id)]
	return s, ok
}

// Remove stops the session and forgets it. It reports whether the game was
// present.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	s, ok := r.sessions[NormalizeGameID(id)]
	if ok {
		delete(r.sessions, s.ID)
	}
	r.mu.Unlock()

	if !ok {
		return false
	}
	s.Close()
	GamesActive.Dec()
	return true
}

// List returns the sessions oldest first.
func (r *Registry) List() []*Session {
	r.mu.RLock()
	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// EvictIdle removes every game with no activity for ttl.
func (r *Registry) EvictIdle(ttl time.Duration) []string {
	cutoff := time.Now().Add(-ttl)

	var stale []string
	r.mu.RLock()
	for id, s := range r.sessions {
		if s.LastActive().Before(cutoff) {
			stale = append(stale, id)
		}
	}
	r.mu.RUnlock()

	for _, id := range stale {
		if r.Remove(id) {
			logger.Info("evicted idle game", "game_id", id)
		}
	}
	return stale
}

func (r *Registry) StartCleanup(ctx context.Context, interval, ttl time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				r.EvictIdle(ttl)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Close stops every session.
func (r *Registry) Close() {
	for _, s := range r.List() {
		r.Remove(s.ID)
	}
}

func NewGameID() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

func NewPlayerID() string {
	return uuid.NewString()
}

func NormalizeGameID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}
