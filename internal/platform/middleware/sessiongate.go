package middleware

import (
	"net/http"
	"strings"
)

// Session cookie contract. The cookie's mere presence with the exact sentinel
// value is the only proof of authentication; there is no server-side session
// store. It is set by the login success path and cleared by logout.
const (
	SessionCookieName = "session"
	SessionSentinel   = "authenticated"
	SessionRedirectTo = "/"
)

// SessionGate redirects requests under the protected path prefixes to the
// login page unless the session cookie carries the exact sentinel value.
// Requests outside the prefixes pass through unmodified.
func SessionGate(protectedPrefixes []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isProtectedPath(r.URL.Path, protectedPrefixes) {
				next.ServeHTTP(w, r)
				return
			}

			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value != SessionSentinel {
				http.Redirect(w, r, SessionRedirectTo, http.StatusFound)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// isProtectedPath reports whether path is one of the prefixes or a descendant.
// "/admin-homestead" must not match the "/admin-home" prefix.
func isProtectedPath(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}
