package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"greenleaf/internal/platform/metrics"
)

// Store is the counter backend. MemoryStore is the only implementation today;
// the interface exists so a shared backend can replace it per deployment.
type Store interface {
	Allow(ctx context.Context, key string, rule Rule) (*Result, error)
	Status(ctx context.Context, key string, rule Rule) (*Result, error)
	Record(ctx context.Context, key string, rule Rule) error
	Reset(ctx context.Context, key string) error
	Sweep(ctx context.Context, now time.Time) (int, error)
}

// Service applies per-purpose rules to client IPs.
type Service struct {
	store   Store
	rules   map[Purpose]Rule
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewService creates a limiter over the given store. A nil rules map falls
// back to DefaultRules.
func NewService(store Store, rules map[Purpose]Rule, logger *slog.Logger, m *metrics.Metrics) *Service {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Service{
		store:   store,
		rules:   rules,
		logger:  logger,
		metrics: m,
	}
}

func key(purpose Purpose, clientIP string) string {
	return string(purpose) + ":" + clientIP
}

// Check evaluates the rule for a purpose against the client IP. Normal
// purposes count the request itself; failure-counting purposes only read the
// counter, and the caller reports failures via RecordFailure. An unknown
// purpose denies, since a missing rule means a misconfigured route.
func (s *Service) Check(ctx context.Context, purpose Purpose, clientIP string) (*Result, error) {
	rule, ok := s.rules[purpose]
	if !ok {
		s.logger.Error("rate limit rule missing", "purpose", string(purpose))
		return &Result{Allowed: false}, nil
	}

	var (
		res *Result
		err error
	)
	if rule.CountFailures {
		res, err = s.store.Status(ctx, key(purpose, clientIP), rule)
	} else {
		res, err = s.store.Allow(ctx, key(purpose, clientIP), rule)
	}
	if err != nil {
		return nil, err
	}

	if !res.Allowed {
		s.metrics.RateLimitDenials.WithLabelValues(string(purpose)).Inc()
		s.logger.Warn("rate limit exceeded",
			"purpose", string(purpose),
			"retry_after_seconds", res.RetryAfter,
		)
	}
	return res, nil
}

// RecordFailure counts one failed attempt for a failure-counting purpose.
func (s *Service) RecordFailure(ctx context.Context, purpose Purpose, clientIP string) error {
	rule, ok := s.rules[purpose]
	if !ok {
		return nil
	}
	return s.store.Record(ctx, key(purpose, clientIP), rule)
}

// Clear wipes the counter for a purpose and client, typically after a
// successful login.
func (s *Service) Clear(ctx context.Context, purpose Purpose, clientIP string) error {
	return s.store.Reset(ctx, key(purpose, clientIP))
}

// Sweep removes expired counters from the store.
func (s *Service) Sweep(ctx context.Context, now time.Time) (int, error) {
	return s.store.Sweep(ctx, now)
}
