// Package cleanup runs periodic sweeps of expired rate-limit counters so the
// in-process counter map does not grow for the lifetime of the server.
package cleanup

import (
	"context"
	"log/slog"
	"time"

	"greenleaf/internal/platform/metrics"
)

// SweepResult contains the results of a sweep run.
type SweepResult struct {
	Removed  int
	Duration time.Duration
}

// Sweeper removes expired counters older than now.
type Sweeper interface {
	Sweep(ctx context.Context, now time.Time) (removed int, err error)
}

type Option func(*Worker)

func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

func WithInterval(interval time.Duration) Option {
	return func(w *Worker) {
		if interval > 0 {
			w.interval = interval
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(w *Worker) {
		w.metrics = m
	}
}

// Worker sweeps the counter store on a fixed interval until its context is
// cancelled.
type Worker struct {
	sweeper  Sweeper
	logger   *slog.Logger
	interval time.Duration
	metrics  *metrics.Metrics
}

func New(sweeper Sweeper, opts ...Option) *Worker {
	worker := &Worker{
		sweeper:  sweeper,
		logger:   slog.Default(),
		interval: 15 * time.Minute,
		metrics:  nil,
	}
	for _, opt := range opts {
		opt(worker)
	}
	return worker
}

func (w *Worker) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			startTime := time.Now()
			res, err := w.RunOnce(ctx)
			duration := time.Since(startTime)

			if err != nil {
				w.logger.Error("ratelimit_sweep_failed",
					"error", err,
					"duration_ms", duration.Milliseconds(),
				)
				if w.metrics != nil {
					w.metrics.SweepRuns.WithLabelValues("error").Inc()
				}
				continue
			}

			res.Duration = duration

			w.logger.Info("ratelimit_sweep_completed",
				"counters_removed", res.Removed,
				"duration_ms", duration.Milliseconds(),
			)

			if w.metrics != nil {
				w.metrics.SweepRemovedTotal.Add(float64(res.Removed))
				w.metrics.SweepRuns.WithLabelValues("success").Inc()
			}

		case <-ctx.Done():
			w.logger.Info("ratelimit sweep worker stopping", "reason", ctx.Err())
			return ctx.Err()
		}
	}
}

// RunOnce executes a single sweep. Logging is handled by the caller (Start).
func (w *Worker) RunOnce(ctx context.Context) (*SweepResult, error) {
	removed, err := w.sweeper.Sweep(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	return &SweepResult{Removed: removed}, nil
}
