// Package application coordinates sessions: the multiplexer admits
// terminal connections up to a ceiling and hands each one to an isolated
// session runner.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/lumonlabs/refinery/internal/ports"
)

// ErrServerFull rejects a connection arriving while the configured maximum
// number of sessions is already active.
var ErrServerFull = errors.New("server full: maximum concurrent sessions reached")

// Metrics receives session lifecycle events. Implementations must be safe
// for concurrent use.
type Metrics interface {
	SessionStarted(user string)
	SessionEnded(user string)
	SessionRejected()
}

type nopMetrics struct{}

func (nopMetrics) SessionStarted(string) {}
func (nopMetrics) SessionEnded(string)   {}
func (nopMetrics) SessionRejected()      {}

// SessionRunner drives one session over its terminal until the session
// ends or ctx is cancelled. The runner owns conn's reads and writes but
// not its closure.
type SessionRunner func(ctx context.Context, conn ports.TerminalConn, cfg Settings, seed uint64) error

type session struct {
	id     uint64
	user   string
	cancel context.CancelFunc
}

// Server is the connection multiplexer. Sessions share nothing but the
// registry slot that counts them.
type Server struct {
	cfg Settings
	log *slog.Logger
	met Metrics
	run SessionRunner

	mu       sync.Mutex
	sessions map[uint64]*session
	nextID   uint64
	closed   bool
	wg       sync.WaitGroup
}

// Option tweaks server construction.
type Option func(*Server)

// WithMetrics wires a metrics sink; without it events are dropped.
func WithMetrics(m Metrics) Option {
	return func(s *Server) { s.met = m }
}

// WithSessionRunner replaces the default bubbletea runner.
func WithSessionRunner(run SessionRunner) Option {
	return func(s *Server) { s.run = run }
}

func NewServer(cfg Settings, log *slog.Logger, opts ...Option) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate settings: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		cfg:      cfg,
		log:      log,
		met:      nopMetrics{},
		run:      RunSession,
		sessions: make(map[uint64]*session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ActiveSessions reports how many sessions are currently running.
func (s *Server) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Handle admits conn as a new session, or rejects it with ErrServerFull
// when the ceiling is reached. On admission it returns immediately; the
// session runs on its own goroutine and conn is closed at teardown.
func (s *Server) Handle(ctx context.Context, conn ports.TerminalConn) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errors.New("server shutting down")
	}
	if len(s.sessions) >= s.cfg.MaxSessions {
		s.mu.Unlock()
		s.met.SessionRejected()
		s.log.Warn("session rejected",
			slog.String("user", conn.User()),
			slog.Int("max_sessions", s.cfg.MaxSessions))
		return ErrServerFull
	}

	ctx, cancel := context.WithCancel(ctx)
	s.nextID++
	sess := &session{id: s.nextID, user: conn.User(), cancel: cancel}
	s.sessions[sess.id] = sess
	s.wg.Add(1)
	s.mu.Unlock()

	s.met.SessionStarted(sess.user)
	s.log.Info("session started",
		slog.Uint64("session_id", sess.id),
		slog.String("user", sess.user),
		slog.String("colors", conn.ColorMode().String()))

	go func() {
		defer s.wg.Done()
		defer s.release(sess, conn)
		if err := s.run(ctx, conn, s.cfg, rand.Uint64()); err != nil && ctx.Err() == nil {
			s.log.Error("session failed",
				slog.Uint64("session_id", sess.id),
				slog.String("user", sess.user),
				slog.Any("error", err))
		}
	}()
	return nil
}

func (s *Server) release(sess *session, conn ports.TerminalConn) {
	_ = conn.Close()
	sess.cancel()

	s.mu.Lock()
	delete(s.sessions, sess.id)
	s.mu.Unlock()

	s.met.SessionEnded(sess.user)
	s.log.Info("session ended",
		slog.Uint64("session_id", sess.id),
		slog.String("user", sess.user))
}

// Shutdown cancels every running session and waits for them to drain, or
// until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	for _, sess := range s.sessions {
		sess.cancel()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown: %w", ctx.Err())
	}
}
