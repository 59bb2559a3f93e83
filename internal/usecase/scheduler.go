package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"MacroPulse/pkg/logger"
)

// CycleRunner runs one collection cycle.
type CycleRunner interface {
	RunCycle(ctx context.Context) (CycleResult, error)
}

// Scheduler runs cycles on a fixed interval. Ticks run sequentially, so a slow
// cycle delays the next tick instead of overlapping it.
type Scheduler struct {
	runner   CycleRunner
	interval time.Duration
	log      *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewScheduler(runner CycleRunner, interval time.Duration, log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Scheduler{runner: runner, interval: interval, log: log}
}

// Start launches the ticking goroutine. Calling Start twice is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	go s.loop(ctx)
	s.log.Info("scheduler started", logger.Duration("interval_ms", s.interval))
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.tick(ctx)
		}
	}
}

// tick detaches the cycle from the loop context so Stop lets a started cycle finish.
func (s *Scheduler) tick(ctx context.Context) {
	_, err := s.runner.RunCycle(context.WithoutCancel(ctx))
	switch {
	case err == nil:
	case errors.Is(err, ErrCycleInProgress):
		s.log.Info("scheduled cycle skipped, another cycle is running")
	default:
		s.log.Error("scheduled cycle failed", logger.Error(err))
	}
}

// Stop cancels the loop and waits for an in-flight cycle to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
	s.log.Info("scheduler stopped")
}
