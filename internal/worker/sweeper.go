package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/geocoder89/classroom/internal/observability"
)

type SessionSweeper interface {
	Sweep(ctx context.Context) (int64, error)
}

type Config struct {
	Interval     time.Duration
	SweepTimeout time.Duration
}

// Sweeper deletes expired sessions on a fixed interval. Redis expires keys
// by itself, so the sweeper only runs for the postgres and memory backends.
type Sweeper struct {
	cfg      Config
	sessions SessionSweeper
	prom     *observability.Prom
	log      *slog.Logger

	readyMu sync.RWMutex
	ready   bool

	// consecutive failures, drives the backoff
	failures int
}

func NewSweeper(cfg Config, sessions SessionSweeper, prom *observability.Prom, log *slog.Logger) *Sweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Minute
	}
	if cfg.SweepTimeout <= 0 {
		cfg.SweepTimeout = 5 * time.Second
	}

	return &Sweeper{cfg: cfg, sessions: sessions, prom: prom, log: log}
}

func (s *Sweeper) Run(ctx context.Context) error {
	s.setReady(true)
	defer s.setReady(false)

	timer := time.NewTimer(s.cfg.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("session sweeper received shutdown signal")
			return nil

		case <-timer.C:
			_, err := s.SweepOnce(ctx)

			next := s.cfg.Interval
			if err != nil {
				s.failures++
				next = ExponentialBackoff(s.failures - 1)
			} else {
				s.failures = 0
			}

			timer.Reset(next)
		}
	}
}

// SweepOnce runs a single pass and reports how many sessions it removed.
func (s *Sweeper) SweepOnce(ctx context.Context) (int64, error) {
	sweepCtx, cancel := context.WithTimeout(ctx, s.cfg.SweepTimeout)
	defer cancel()

	n, err := s.sessions.Sweep(sweepCtx)
	if err != nil {
		s.log.ErrorContext(ctx, "session sweep failed", "err", err)
		return 0, err
	}

	s.prom.Swept(n)

	if n > 0 {
		s.log.InfoContext(ctx, "expired sessions swept", "count", n)
	}

	return n, nil
}

var ErrSweeperStopped = errors.New("session sweeper not running")

// Check reports readiness in the shape /readyz expects.
func (s *Sweeper) Check(context.Context) error {
	if !s.Ready() {
		return ErrSweeperStopped
	}
	return nil
}

func (s *Sweeper) Ready() bool {
	s.readyMu.RLock()
	defer s.readyMu.RUnlock()
	return s.ready
}

func (s *Sweeper) setReady(v bool) {
	s.readyMu.Lock()
	s.ready = v
	s.readyMu.Unlock()
}
