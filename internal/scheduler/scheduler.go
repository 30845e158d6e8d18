// Package scheduler triggers pipeline runs on a cron schedule.
package scheduler

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is one pipeline dispatch. The returned error only reports dispatch
// problems; run outcomes are surfaced by the job itself.
type Job func(ctx context.Context) error

// Scheduler invokes a job on a cron schedule. Overlapping ticks are
// skipped: the source design never runs two pipelines at once, so a tick
// that fires while a run is still active is dropped and logged.
type Scheduler struct {
	cron    *cron.Cron
	logger  *zap.Logger
	mu      sync.Mutex
	running bool
	skipped atomic.Int64
}

// New creates a scheduler
func New(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:   cron.New(),
		logger: logger,
	}
}

// Schedule registers job under a cron-style time spec.
func (s *Scheduler) Schedule(ctx context.Context, spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.Dispatch(ctx, job)
	})
	return err
}

// Dispatch runs job once, unless a previous dispatch is still active.
// Returns false when the tick was skipped.
func (s *Scheduler) Dispatch(ctx context.Context, job Job) bool {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.skipped.Add(1)
		s.logger.Warn("previous run still active, skipping trigger")
		return false
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	if err := job(ctx); err != nil {
		s.logger.Error("scheduled run failed", zap.Error(err))
	}
	return true
}

// SkippedTicks reports how many triggers were dropped by the overlap guard.
func (s *Scheduler) SkippedTicks() int64 {
	return s.skipped.Load()
}

// Start begins firing scheduled jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the schedule and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
