package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/clawbot69/clawnopoly/internal/game"
	"github.com/clawbot69/clawnopoly/internal/logger"
)

// Session owns one engine. Commands run one at a time on the session
// goroutine, so a command may pause (for the chaos delay) without any
// other action on the game slipping in.
type Session struct {
	ID        string
	CreatedAt time.Time

	engine     *game.Engine
	cmds       chan func(*game.Engine)
	quit       chan struct{}
	closeOnce  sync.Once
	lastActive atomic.Int64
}

func newSession(e *game.Engine) *Session {
	s := &Session{
		ID:        e.ID,
		CreatedAt: time.Now(),
		engine:    e,
		cmds:      make(chan func(*game.Engine)),
		quit:      make(chan struct{}),
	}
	s.touch()
	go s.run()
	return s
}

func (s *Session) run() {
	for {
		select {
		case cmd := <-s.cmds:
			s.exec(cmd)
			s.touch()
		case <-s.quit:
			return
		}
	}
}

func (s *Session) exec(cmd func(*game.Engine)) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("game command panicked", "game_id", s.ID, "panic", r)
		}
	}()
	cmd(s.engine)
}

// Do runs fn on the session goroutine and waits for it to return.
func (s *Session) Do(ctx context.Context, fn func(e *game.Engine)) error {
	done := make(chan struct{})
	cmd := func(e *game.Engine) {
		defer close(done)
		fn(e)
	}

	select {
	case s.cmds <- cmd:
	case <-s.quit:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	<-done
	return nil
}

// Sleep pauses the running command. It returns false if the session was
// closed in the meantime.
func (s *Session) Sleep(d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-s.quit:
		return false
	}
}

func (s *Session) Close() {
	s.closeOnce.Do(func() { close(s.quit) })
}

func (s *Session) Closed() bool {
	select {
	case <-s.quit:
		return true
	default:
		return false
	}
}

func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

func (s *Session) touch() {
	s.lastActive.Store(time.Now().UnixNano())
}
