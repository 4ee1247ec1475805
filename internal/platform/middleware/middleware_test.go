package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRecovery(t *testing.T) {
	handler := Recovery(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequestIDGenerated(t *testing.T) {
	var captured string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, captured)
	assert.Equal(t, captured, rec.Header().Get("X-Request-ID"))
}

func TestRequestIDFromHeader(t *testing.T) {
	handler := RequestID(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "client-id-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "client-id-1", rec.Header().Get("X-Request-ID"))
}

func TestContentTypeJSON(t *testing.T) {
	handler := ContentTypeJSON(okHandler())

	t.Run("rejects non-json content type on POST", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{}"))
		req.Header.Set("Content-Type", "text/plain")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})

	t.Run("allows json with charset", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{}"))
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("allows missing content type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{}"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestBodyLimit(t *testing.T) {
	handler := BodyLimit(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("under the limit", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("tiny")))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("over the limit", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 64))))
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})
}

func TestMetadataClientIP(t *testing.T) {
	t.Run("uses remote addr when no proxies trusted", func(t *testing.T) {
		m := NewMetadata(nil)
		var got string
		handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = GetClientIP(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "203.0.113.9:4312"
		req.Header.Set("X-Forwarded-For", "198.51.100.1")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "203.0.113.9", got)
	})

	t.Run("honors forwarded header from trusted proxy", func(t *testing.T) {
		cfg := mustPrefixes(t, "10.0.0.0/8")
		m := NewMetadata(cfg)
		var got string
		handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = GetClientIP(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.1.2.3:55000"
		req.Header.Set("X-Forwarded-For", "198.51.100.1, 10.1.2.3")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "198.51.100.1", got)
	})

	t.Run("falls back to x-real-ip", func(t *testing.T) {
		cfg := mustPrefixes(t, "10.0.0.0/8")
		m := NewMetadata(cfg)
		var got string
		handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = GetClientIP(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.1.2.3:55000"
		req.Header.Set("X-Real-IP", "198.51.100.7")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "198.51.100.7", got)
	})

	t.Run("user agent captured", func(t *testing.T) {
		m := NewMetadata(nil)
		var got string
		handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = GetUserAgent(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("User-Agent", "test-agent/1.0")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "test-agent/1.0", got)
	})
}

func TestGetClientIPWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "unknown", GetClientIP(req.Context()))
}
