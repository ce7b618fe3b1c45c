package workers

import (
	"context"
	"sync"
	"time"

	"stockai/pkg/logger"
)

// Worker is one periodic background task. The scheduler calls Run once
// per Interval; each call completes one iteration and returns.
type Worker interface {
	Name() string
	Run(ctx context.Context) error
	Interval() time.Duration
	Enabled() bool
}

// WorkerHealth is a snapshot of a worker's run history.
type WorkerHealth struct {
	LastRun  time.Time
	RunCount int64
}

// BaseWorker carries the identity, schedule, and run bookkeeping shared
// by all workers.
type BaseWorker struct {
	name     string
	interval time.Duration
	enabled  bool
	log      *logger.Logger

	mu       sync.RWMutex
	lastRun  time.Time
	runCount int64
}

// NewBaseWorker creates a new base worker.
func NewBaseWorker(name string, interval time.Duration, enabled bool) *BaseWorker {
	return &BaseWorker{
		name:     name,
		interval: interval,
		enabled:  enabled,
		log:      logger.Get().With("worker", name),
	}
}

// Name returns the worker name.
func (w *BaseWorker) Name() string { return w.name }

// Interval returns the run interval.
func (w *BaseWorker) Interval() time.Duration { return w.interval }

// Enabled returns whether the worker is enabled.
func (w *BaseWorker) Enabled() bool { return w.enabled }

// Log returns the worker-scoped logger.
func (w *BaseWorker) Log() *logger.Logger { return w.log }

// Health returns a snapshot of the worker's run history.
func (w *BaseWorker) Health() WorkerHealth {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return WorkerHealth{
		LastRun:  w.lastRun,
		RunCount: w.runCount,
	}
}

// RecordRun records a completed iteration.
func (w *BaseWorker) RecordRun(time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastRun = time.Now()
	w.runCount++
}
