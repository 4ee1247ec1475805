package middleware

import (
	"context"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// maxForwardedHeaderLength bounds forwarding headers to prevent header
// injection and log pollution.
const maxForwardedHeaderLength = 500

type clientMetadataKey struct{}

type clientMetadata struct {
	ip        string
	userAgent string
}

// Metadata extracts the client IP and User-Agent and stores them on the
// request context. X-Forwarded-For and X-Real-IP are only honored when the
// direct peer is a trusted proxy.
type Metadata struct {
	trustedProxies []netip.Prefix
}

// NewMetadata creates the metadata middleware. An empty proxy list means
// forwarding headers are never trusted.
func NewMetadata(trustedProxies []netip.Prefix) *Metadata {
	return &Metadata{trustedProxies: trustedProxies}
}

// Handler stores client metadata on the context for handlers and services.
func (m *Metadata) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		meta := clientMetadata{
			ip:        m.extractClientIP(r),
			userAgent: r.Header.Get("User-Agent"),
		}
		ctx := context.WithValue(r.Context(), clientMetadataKey{}, meta)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetClientIP retrieves the best-effort client IP from the context.
func GetClientIP(ctx context.Context) string {
	if meta, ok := ctx.Value(clientMetadataKey{}).(clientMetadata); ok {
		return meta.ip
	}
	return "unknown"
}

// GetUserAgent retrieves the raw User-Agent header from the context.
func GetUserAgent(ctx context.Context) string {
	if meta, ok := ctx.Value(clientMetadataKey{}).(clientMetadata); ok {
		return meta.userAgent
	}
	return ""
}

func (m *Metadata) extractClientIP(r *http.Request) string {
	remoteIP := parseRemoteAddr(r.RemoteAddr)
	if remoteIP == "" {
		return "unknown"
	}

	if !m.isTrustedProxy(remoteIP) {
		return remoteIP
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" && len(xff) <= maxForwardedHeaderLength {
		// First IP in the chain is the original client.
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" && len(xri) <= maxForwardedHeaderLength {
		return strings.TrimSpace(xri)
	}

	return remoteIP
}

func (m *Metadata) isTrustedProxy(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	for _, prefix := range m.trustedProxies {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

func parseRemoteAddr(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		// RemoteAddr without a port, e.g. in tests.
		if _, perr := netip.ParseAddr(remoteAddr); perr == nil {
			return remoteAddr
		}
		return ""
	}
	return host
}
