package admin

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"greenleaf/internal/platform/metrics"
	"greenleaf/internal/platform/privacy"
	"greenleaf/internal/platform/tracer"
	dErrors "greenleaf/pkg/domain-errors"
	"greenleaf/pkg/secrets"
	"greenleaf/pkg/sentinel"
)

// Service verifies admin logins and provisions the singleton instance.
type Service struct {
	store        Store
	logger       *slog.Logger
	metrics      *metrics.Metrics
	tracer       tracer.Tracer
	latencyFloor time.Duration
}

// NewService constructs the admin service. latencyFloor pads every login
// response so the verification path never shows through response timing.
func NewService(store Store, logger *slog.Logger, m *metrics.Metrics, tr tracer.Tracer, latencyFloor time.Duration) *Service {
	return &Service{
		store:        store,
		logger:       logger,
		metrics:      m,
		tracer:       tr,
		latencyFloor: latencyFloor,
	}
}

// Login verifies the credentials against the stored admin instance. Both the
// unknown-username and wrong-password branches return the same error, take a
// bcrypt comparison, and pad to the latency floor, so neither response body
// nor timing reveals which check failed.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanAdminLogin)
	start := time.Now()
	defer func() {
		s.padLatency(ctx, start)
		span.End(err)
	}()

	instance, err := s.store.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			secrets.DummyVerify(req.Password)
			s.metrics.LoginAttempts.WithLabelValues("failure").Inc()
			return dErrors.New(dErrors.CodeUnauthorized, "Invalid username or password")
		}
		s.metrics.LoginAttempts.WithLabelValues("error").Inc()
		return dErrors.Wrap(err, dErrors.CodeInternal, "could not load admin instance")
	}

	if err = secrets.Verify(req.Password, instance.PasswordHash); err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			s.metrics.LoginAttempts.WithLabelValues("failure").Inc()
			return dErrors.New(dErrors.CodeUnauthorized, "Invalid username or password")
		}
		s.metrics.LoginAttempts.WithLabelValues("error").Inc()
		return err
	}

	s.metrics.LoginAttempts.WithLabelValues("success").Inc()
	s.logger.Info("admin login", "username", instance.Username)
	return nil
}

// padLatency sleeps out the remainder of the latency floor. Cancelled
// contexts cut the wait short; the response is already doomed then.
func (s *Service) padLatency(ctx context.Context, start time.Time) {
	remaining := s.latencyFloor - time.Since(start)
	if remaining <= 0 {
		return
	}
	timer := time.NewTimer(remaining)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// CreateInstance provisions the singleton admin credential record. Returns
// the plaintext credentials exactly once; afterwards only the hash exists.
func (s *Service) CreateInstance(ctx context.Context, clientIP string) (creds *Credentials, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanInstanceCreate)
	defer func() { span.End(err) }()

	count, err := s.store.Count(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not count admin instances")
	}
	if count > 0 {
		return nil, dErrors.New(dErrors.CodeConflict, "An admin instance is already created")
	}

	username, err := secrets.GenerateUsername()
	if err != nil {
		return nil, err
	}
	password, err := secrets.GeneratePassword()
	if err != nil {
		return nil, err
	}
	passwordHash, err := secrets.Hash(password, secrets.PasswordHashCost)
	if err != nil {
		return nil, err
	}

	instance := &Instance{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		Type:         TypeAdmin,
		Status:       StatusActive,
		CreatedAt:    time.Now().UTC(),
		CreatedFrom:  clientIP,
	}

	if err = s.store.Create(ctx, instance); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyExists) {
			return nil, dErrors.New(dErrors.CodeConflict, "An admin instance is already created")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not store admin instance")
	}

	s.metrics.InstancesCreated.Inc()
	s.logger.Info("admin instance created",
		"instance_id", instance.ID,
		"client_ip_prefix", privacy.AnonymizeIP(clientIP),
	)
	return &Credentials{Username: username, Password: password}, nil
}
