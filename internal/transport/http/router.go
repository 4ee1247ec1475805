// Package http wires the chi router: the public API endpoints, the static
// pages behind the session gate, and the health and metrics surfaces.
package http

import (
	"log/slog"
	"net/http"
	"net/netip"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"greenleaf/internal/admin"
	"greenleaf/internal/application"
	"greenleaf/internal/platform/health"
	"greenleaf/internal/platform/middleware"
	"greenleaf/internal/ratelimit"
	"greenleaf/pkg/httputil"
	"greenleaf/pkg/validation"
)

// Page prefixes gated behind the admin session.
var protectedPrefixes = []string{"/admin-home", "/general-setup"}

// Config carries the transport-level knobs from the server config.
type Config struct {
	TrustedProxies   []netip.Prefix
	SecureCookies    bool
	SessionCookieAge time.Duration
	RequestTimeout   time.Duration
}

// Deps collects everything the router needs.
type Deps struct {
	Config       Config
	Logger       *slog.Logger
	Applications *application.Service
	Admins       *admin.Service
	Limiter      *ratelimit.Service
	Health       *health.Handler
}

// NewRouter builds the full route tree with the shared middleware stack.
func NewRouter(deps Deps) http.Handler {
	h := &handler{
		logger:           deps.Logger,
		applications:     deps.Applications,
		admins:           deps.Admins,
		limiter:          deps.Limiter,
		secureCookies:    deps.Config.SecureCookies,
		sessionCookieAge: deps.Config.SessionCookieAge,
	}

	metadata := middleware.NewMetadata(deps.Config.TrustedProxies)

	r := chi.NewRouter()
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(metadata.Handler)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Timeout(deps.Config.RequestTimeout))

	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusMethodNotAllowed, httputil.ErrorResponse{Error: "Method not allowed"})
	})

	r.Route("/api", func(api chi.Router) {
		api.With(
			middleware.BodyLimit(validation.MaxApplicationBodySize),
			middleware.ContentTypeJSON,
		).Post("/applications", h.submitApplication)

		api.With(
			middleware.BodyLimit(validation.MaxLoginBodySize),
			middleware.ContentTypeJSON,
		).Post("/auth/login", h.login)

		api.Post("/auth/logout", h.logout)

		api.With(
			middleware.BodyLimit(validation.MaxCreateInstanceBodySize),
		).Post("/create-instance", h.createInstance)
	})

	deps.Health.Register(r)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(pages chi.Router) {
		pages.Use(middleware.SessionGate(protectedPrefixes))
		registerPages(pages)
	})

	return r
}
