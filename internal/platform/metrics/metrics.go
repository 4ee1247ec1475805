package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the recruiting pipeline.
type Metrics struct {
	ApplicationsSubmitted prometheus.Counter
	ApplicationsRejected  *prometheus.CounterVec
	LoginAttempts         *prometheus.CounterVec
	InstancesCreated      prometheus.Counter
	RateLimitDenials      *prometheus.CounterVec
	SweepRuns             *prometheus.CounterVec
	SweepRemovedTotal     prometheus.Counter
}

// New registers the pipeline metrics on the given registerer.
// Tests pass a fresh registry to avoid duplicate registration panics.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ApplicationsSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "greenleaf_applications_submitted_total",
			Help: "Total number of recruiting applications accepted",
		}),
		ApplicationsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "greenleaf_applications_rejected_total",
			Help: "Total number of recruiting applications rejected",
		}, []string{"reason"}),
		LoginAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "greenleaf_login_attempts_total",
			Help: "Total number of admin login attempts",
		}, []string{"outcome"}),
		InstancesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "greenleaf_admin_instances_created_total",
			Help: "Total number of admin instances provisioned",
		}),
		RateLimitDenials: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "greenleaf_ratelimit_denials_total",
			Help: "Total number of requests denied by the rate limiter",
		}, []string{"purpose"}),
		SweepRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "greenleaf_ratelimit_sweep_runs_total",
			Help: "Total number of expired-counter sweep runs",
		}, []string{"status"}),
		SweepRemovedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "greenleaf_ratelimit_sweep_removed_total",
			Help: "Total number of expired rate-limit counters removed",
		}),
	}
}
