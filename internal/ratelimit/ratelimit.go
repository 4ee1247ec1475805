// Package ratelimit implements per-client-IP request counting over fixed
// windows. A counter is created lazily on first sight of a key, resets
// wholesale once its window expires, and denies once the per-purpose maximum
// is reached. State lives behind the Store interface so the process-local map
// can later be swapped for a shared counter service without touching callers.
package ratelimit

import "time"

// Purpose identifies which endpoint a counter protects. It is prefixed onto
// the client IP to form the counter key, so the same IP gets independent
// budgets per endpoint.
type Purpose string

const (
	PurposeApplication    Purpose = "application"
	PurposeLogin          Purpose = "login"
	PurposeCreateInstance Purpose = "create"
)

// Rule is the per-purpose limit configuration.
type Rule struct {
	// Max is the number of events allowed per window.
	Max int

	// Window is the counting window. Zero means the window never expires:
	// once Max is reached the key is locked out permanently.
	Window time.Duration

	// CountFailures selects failure-counting mode: Check reads the counter
	// without incrementing, and callers report failures via RecordFailure.
	// Login uses this so only bad credentials consume budget.
	CountFailures bool
}

// DefaultRules returns the limits for the three public endpoints:
// applications and logins get 5 events per 15 minutes; instance creation is
// locked out permanently after 3 attempts.
func DefaultRules() map[Purpose]Rule {
	return map[Purpose]Rule{
		PurposeApplication:    {Max: 5, Window: 15 * time.Minute},
		PurposeLogin:          {Max: 5, Window: 15 * time.Minute, CountFailures: true},
		PurposeCreateInstance: {Max: 3, Window: 0},
	}
}

// Result reports a limit decision.
type Result struct {
	Allowed   bool
	Remaining int

	// ResetAt is when the window expires. Zero for permanent windows.
	ResetAt time.Time

	// RetryAfter is the whole seconds until ResetAt when denied, 0 otherwise.
	RetryAfter int
}
