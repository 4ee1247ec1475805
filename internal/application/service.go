package application

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"greenleaf/internal/platform/clientinfo"
	"greenleaf/internal/platform/metrics"
	"greenleaf/internal/platform/privacy"
	"greenleaf/internal/platform/tracer"
	dErrors "greenleaf/pkg/domain-errors"
	"greenleaf/pkg/secrets"
	"greenleaf/pkg/sentinel"
)

// Service runs the submission pipeline over a Store.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  tracer.Tracer
}

// NewService constructs the application service.
func NewService(store Store, logger *slog.Logger, m *metrics.Metrics, tr tracer.Tracer) *Service {
	return &Service{
		store:   store,
		logger:  logger,
		metrics: m,
		tracer:  tr,
	}
}

// Submit stores one applicant record. The request must already be prepared
// (sanitized, normalized, validated). The raw phone is hashed before storage;
// only the masked display form is kept readable.
func (s *Service) Submit(ctx context.Context, req *SubmitRequest, clientIP, userAgent string) (app *Application, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanApplicationSubmit)
	defer func() { span.End(err) }()

	_, err = s.store.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		s.metrics.ApplicationsRejected.WithLabelValues("duplicate_email").Inc()
		return nil, dErrors.New(dErrors.CodeConflict, "An application with this email already exists")
	case !errors.Is(err, sentinel.ErrNotFound):
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not check for existing application")
	}

	phoneHash, err := secrets.Hash(req.Phone, secrets.PhoneHashCost)
	if err != nil {
		return nil, err
	}

	app = &Application{
		ID:            uuid.NewString(),
		Name:          req.Name,
		Email:         req.Email,
		PhoneHash:     phoneHash,
		PhoneDisplay:  MaskPhone(req.Phone),
		SubmittedAt:   time.Now().UTC(),
		SubmittedFrom: clientIP,
		SubmittedWith: clientinfo.Summarize(userAgent),
		Status:        StatusPending,
	}

	if err = s.store.Create(ctx, app); err != nil {
		// Two concurrent submissions can both pass the read check; the
		// store's uniqueness guarantee decides the race.
		if errors.Is(err, sentinel.ErrAlreadyExists) {
			s.metrics.ApplicationsRejected.WithLabelValues("duplicate_email").Inc()
			return nil, dErrors.New(dErrors.CodeConflict, "An application with this email already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not store application")
	}

	span.SetAttributes(tracer.String("application.id", app.ID))
	s.metrics.ApplicationsSubmitted.Inc()
	s.logger.Info("application submitted",
		"application_id", app.ID,
		"client_ip_prefix", privacy.AnonymizeIP(clientIP),
		"submitted_with", app.SubmittedWith,
	)
	return app, nil
}
