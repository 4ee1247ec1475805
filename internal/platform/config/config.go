// Package config builds runtime configuration from environment variables so
// main stays lean. Values are external; only the names live here.
package config

import (
	"net/netip"
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration for the recruiting service.
type Server struct {
	Addr        string
	Environment string

	// DatabaseURL is the PostgreSQL connection string. When empty the
	// service runs on in-memory stores (dev mode).
	DatabaseURL       string
	ApplicationsTable string
	InstancesTable    string

	// TrustedProxies lists CIDR prefixes allowed to set forwarding headers.
	// Empty means forwarded client IPs are never trusted.
	TrustedProxies []netip.Prefix

	SecureCookies     bool
	SessionCookieAge  time.Duration
	LoginLatencyFloor time.Duration
	RequestTimeout    time.Duration
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	cfg := Server{
		Addr:              envOr("GREENLEAF_ADDR", ":8080"),
		Environment:       envOr("GREENLEAF_ENV", "development"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		ApplicationsTable: envOr("GREENLEAF_APPLICATIONS_TABLE", "applications"),
		InstancesTable:    envOr("GREENLEAF_INSTANCES_TABLE", "admin_instances"),
		SecureCookies:     os.Getenv("GREENLEAF_SECURE_COOKIES") == "true",
		SessionCookieAge:  time.Hour,
		LoginLatencyFloor: 500 * time.Millisecond,
		RequestTimeout:    30 * time.Second,
	}

	if raw := os.Getenv("GREENLEAF_TRUSTED_PROXIES"); raw != "" {
		cfg.TrustedProxies = parsePrefixes(raw)
	}
	if raw := os.Getenv("GREENLEAF_LOGIN_LATENCY_FLOOR"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d >= 0 {
			cfg.LoginLatencyFloor = d
		}
	}

	return cfg
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

// parsePrefixes parses a comma-separated list of CIDR prefixes, skipping
// entries that do not parse. A bare IP is treated as a single-address prefix.
func parsePrefixes(raw string) []netip.Prefix {
	var prefixes []netip.Prefix
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if p, err := netip.ParsePrefix(part); err == nil {
			prefixes = append(prefixes, p)
			continue
		}
		if a, err := netip.ParseAddr(part); err == nil {
			prefixes = append(prefixes, netip.PrefixFrom(a, a.BitLen()))
		}
	}
	return prefixes
}
