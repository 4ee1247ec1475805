package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"greenleaf/internal/admin"
	"greenleaf/internal/application"
	"greenleaf/internal/platform/middleware"
	"greenleaf/internal/ratelimit"
	"greenleaf/pkg/httputil"
)

type handler struct {
	logger           *slog.Logger
	applications     *application.Service
	admins           *admin.Service
	limiter          *ratelimit.Service
	secureCookies    bool
	sessionCookieAge time.Duration
}

// writeRateLimited sends the 429 body with a Retry-After hint when the window
// has a known expiry.
func writeRateLimited(w http.ResponseWriter, message string, retryAfter int) {
	if retryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	}
	httputil.WriteJSON(w, http.StatusTooManyRequests, httputil.ErrorResponse{Error: message})
}

type submitResponse struct {
	Message       string `json:"message"`
	ApplicationID string `json:"applicationId"`
}

func (h *handler) submitApplication(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	clientIP := middleware.GetClientIP(ctx)

	res, err := h.limiter.Check(ctx, ratelimit.PurposeApplication, clientIP)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !res.Allowed {
		writeRateLimited(w, "Too many requests. Please try again later.", res.RetryAfter)
		return
	}

	req, err := httputil.DecodeAndPrepare[application.SubmitRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	app, err := h.applications.Submit(ctx, req, clientIP, middleware.GetUserAgent(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, submitResponse{
		Message:       "Application submitted successfully",
		ApplicationID: app.ID,
	})
}
