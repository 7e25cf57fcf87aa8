// Package scheduler runs the pipeline on a fixed interval. The provider
// recomputes its index hourly, so one run per hour keeps results fresh
// without wasting upstream calls.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/coordinator"
	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/report"
)

// Config holds configuration for the scheduler.
type Config struct {
	// Coordinator drives the pipeline.
	Coordinator *coordinator.Coordinator

	// Store receives each run's aggregated outcomes for the presentation
	// layer.
	Store *report.Store

	// Cities is the fixed city list passed to every run.
	Cities []string

	// Interval between runs (default: 1 hour).
	Interval time.Duration

	// RunTimeout bounds one full run (default: 2 minutes).
	RunTimeout time.Duration

	// Logger for scheduler operations.
	Logger zerolog.Logger
}

// Metrics tracks scheduler statistics.
type Metrics struct {
	TotalRuns    int64
	CitiesDone   int64
	CitiesFailed int64
	LastRunAt    time.Time
	LastDuration time.Duration
}

// Scheduler periodically executes the pipeline and publishes the outcomes.
type Scheduler struct {
	coordinator *coordinator.Coordinator
	store       *report.Store
	cities      []string
	interval    time.Duration
	runTimeout  time.Duration
	logger      zerolog.Logger

	mu      sync.RWMutex
	metrics Metrics
}

// New creates a scheduler.
func New(cfg Config) *Scheduler {
	interval := cfg.Interval
	if interval == 0 {
		interval = time.Hour
	}
	runTimeout := cfg.RunTimeout
	if runTimeout == 0 {
		runTimeout = 2 * time.Minute
	}

	return &Scheduler{
		coordinator: cfg.Coordinator,
		store:       cfg.Store,
		cities:      cfg.Cities,
		interval:    interval,
		runTimeout:  runTimeout,
		logger:      cfg.Logger,
	}
}

// Start runs the loop until the context is cancelled. The first run happens
// immediately.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info().
		Dur("interval", s.interval).
		Strs("cities", s.cities).
		Msg("scheduler started")

	s.RunOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("scheduler stopped")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce executes one full pipeline run and publishes the outcomes.
func (s *Scheduler) RunOnce(ctx context.Context) map[string]coordinator.Outcome {
	runCtx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()

	started := time.Now()
	outcomes := s.coordinator.Run(runCtx, s.cities)
	duration := time.Since(started)

	s.store.Set(outcomes)

	done, failed := int64(0), int64(0)
	for _, outcome := range outcomes {
		if outcome.State == coordinator.StateDone {
			done++
		} else {
			failed++
		}
	}

	s.mu.Lock()
	s.metrics.TotalRuns++
	s.metrics.CitiesDone += done
	s.metrics.CitiesFailed += failed
	s.metrics.LastRunAt = started
	s.metrics.LastDuration = duration
	s.mu.Unlock()

	s.logger.Info().
		Dur("duration", duration).
		Int64("done", done).
		Int64("failed", failed).
		Msg("scheduled run completed")

	return outcomes
}

// GetMetrics returns a copy of the current metrics.
func (s *Scheduler) GetMetrics() Metrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.metrics
}
