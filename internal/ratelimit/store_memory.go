package ratelimit

import (
	"context"
	"sync"
	"time"
)

// counter is one fixed-window record: how many events were seen and when the
// window resets. A zero resetTime marks a permanent window.
type counter struct {
	count     int
	resetTime time.Time
}

func (c *counter) expired(now time.Time) bool {
	return !c.resetTime.IsZero() && now.After(c.resetTime)
}

// MemoryStore keeps counters in a process-local map. All read-modify-write
// cycles hold the mutex since handlers run on parallel goroutines. Suitable
// for a single instance only; a multi-instance deployment needs a shared
// backing store behind the same interface.
type MemoryStore struct {
	mu       sync.Mutex
	counters map[string]*counter
}

// NewMemoryStore constructs an empty in-memory counter store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counters: make(map[string]*counter)}
}

func resetTimeFor(rule Rule, now time.Time) time.Time {
	if rule.Window == 0 {
		return time.Time{}
	}
	return now.Add(rule.Window)
}

// Allow counts one event against the key and reports whether it fit in the
// window. The denied path does not increment, so a denied request never
// extends the lockout.
func (s *MemoryStore) Allow(_ context.Context, key string, rule Rule) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	c, ok := s.counters[key]
	if !ok || c.expired(now) {
		c = &counter{count: 1, resetTime: resetTimeFor(rule, now)}
		s.counters[key] = c
		return s.result(c, rule, true, now), nil
	}

	if c.count >= rule.Max {
		return s.result(c, rule, false, now), nil
	}

	c.count++
	return s.result(c, rule, true, now), nil
}

// Status reports the window state without counting an event. Used by
// failure-counting purposes where only RecordFailure consumes budget.
func (s *MemoryStore) Status(_ context.Context, key string, rule Rule) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	c, ok := s.counters[key]
	if !ok || c.expired(now) {
		c = &counter{count: 0, resetTime: resetTimeFor(rule, now)}
		s.counters[key] = c
	}

	return s.result(c, rule, c.count < rule.Max, now), nil
}

// Record counts one failure against the key.
func (s *MemoryStore) Record(_ context.Context, key string, rule Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	c, ok := s.counters[key]
	if !ok || c.expired(now) {
		s.counters[key] = &counter{count: 1, resetTime: resetTimeFor(rule, now)}
		return nil
	}

	c.count++
	return nil
}

// Reset clears the counter for a key.
func (s *MemoryStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.counters, key)
	return nil
}

// Sweep removes counters whose window has expired, bounding map growth over
// the process lifetime. Permanent counters are never swept.
func (s *MemoryStore) Sweep(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, c := range s.counters {
		if c.expired(now) {
			delete(s.counters, key)
			removed++
		}
	}
	return removed, nil
}

// result must be called with the mutex held.
func (s *MemoryStore) result(c *counter, rule Rule, allowed bool, now time.Time) *Result {
	remaining := rule.Max - c.count
	if remaining < 0 {
		remaining = 0
	}

	retryAfter := 0
	if !allowed && !c.resetTime.IsZero() {
		if secs := int(c.resetTime.Sub(now).Seconds()); secs > 0 {
			retryAfter = secs
		}
	}

	return &Result{
		Allowed:    allowed,
		Remaining:  remaining,
		ResetAt:    c.resetTime,
		RetryAfter: retryAfter,
	}
}
