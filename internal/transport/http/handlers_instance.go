package http

import (
	"net/http"

	"greenleaf/internal/admin"
	"greenleaf/internal/platform/middleware"
	"greenleaf/internal/ratelimit"
	"greenleaf/pkg/httputil"
)

type createInstanceResponse struct {
	Success     bool               `json:"success"`
	Credentials *admin.Credentials `json:"credentials"`
}

func (h *handler) createInstance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	clientIP := middleware.GetClientIP(ctx)

	res, err := h.limiter.Check(ctx, ratelimit.PurposeCreateInstance, clientIP)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !res.Allowed {
		writeRateLimited(w, "Too many creation attempts. Please try again later.", res.RetryAfter)
		return
	}

	creds, err := h.admins.CreateInstance(ctx, clientIP)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, createInstanceResponse{
		Success:     true,
		Credentials: creds,
	})
}
