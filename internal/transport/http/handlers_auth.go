package http

import (
	"net/http"

	"greenleaf/internal/admin"
	"greenleaf/internal/platform/middleware"
	"greenleaf/internal/ratelimit"
	dErrors "greenleaf/pkg/domain-errors"
	"greenleaf/pkg/httputil"
)

type loginResponse struct {
	Message string    `json:"message"`
	User    loginUser `json:"user"`
}

type loginUser struct {
	Username string `json:"username"`
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	clientIP := middleware.GetClientIP(ctx)

	res, err := h.limiter.Check(ctx, ratelimit.PurposeLogin, clientIP)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !res.Allowed {
		writeRateLimited(w, "Too many login attempts. Please try again later.", res.RetryAfter)
		return
	}

	req, err := httputil.DecodeAndPrepare[admin.LoginRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.admins.Login(ctx, req); err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			// The failure being reported is not yet in the counter; the
			// remaining budget shrinks by one from the pre-check reading.
			if recordErr := h.limiter.RecordFailure(ctx, ratelimit.PurposeLogin, clientIP); recordErr != nil {
				h.logger.ErrorContext(ctx, "could not record login failure", "error", recordErr)
			}
			attemptsLeft := res.Remaining - 1
			if attemptsLeft < 0 {
				attemptsLeft = 0
			}
			httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{
				Error:        err.Error(),
				AttemptsLeft: &attemptsLeft,
			})
			return
		}
		httputil.WriteError(w, err)
		return
	}

	if err := h.limiter.Clear(ctx, ratelimit.PurposeLogin, clientIP); err != nil {
		h.logger.ErrorContext(ctx, "could not clear login failures", "error", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    middleware.SessionSentinel,
		Path:     "/",
		MaxAge:   int(h.sessionCookieAge.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})

	httputil.WriteJSON(w, http.StatusOK, loginResponse{
		Message: "Login successful",
		User:    loginUser{Username: req.Username},
	})
}

type logoutResponse struct {
	Message string `json:"message"`
}

func (h *handler) logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})

	httputil.WriteJSON(w, http.StatusOK, logoutResponse{Message: "Logged out"})
}
