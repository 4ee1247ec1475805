package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"greenleaf/internal/admin"
	"greenleaf/internal/application"
	"greenleaf/internal/platform/health"
	"greenleaf/internal/platform/metrics"
	"greenleaf/internal/platform/tracer"
	"greenleaf/internal/ratelimit"
)

type RouterSuite struct {
	suite.Suite
	router        http.Handler
	appStore      *application.MemoryStore
	instanceStore *admin.MemoryStore
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New(prometheus.NewRegistry())
	tr := tracer.NewNoop()

	s.appStore = application.NewMemoryStore()
	s.instanceStore = admin.NewMemoryStore()

	limiter := ratelimit.NewService(ratelimit.NewMemoryStore(), ratelimit.DefaultRules(), logger, m)

	s.router = NewRouter(Deps{
		Config: Config{
			SecureCookies:    false,
			SessionCookieAge: time.Hour,
			RequestTimeout:   5 * time.Second,
		},
		Logger:       logger,
		Applications: application.NewService(s.appStore, logger, m, tr),
		Admins:       admin.NewService(s.instanceStore, logger, m, tr, 0),
		Limiter:      limiter,
		Health:       health.New("test"),
	})
}

func (s *RouterSuite) do(method, path, remoteAddr string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = remoteAddr
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *RouterSuite) decodeBody(rec *httptest.ResponseRecorder) map[string]any {
	var decoded map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &decoded))
	return decoded
}

func applicationBody(email string) map[string]string {
	return map[string]string{
		"name":  "Jordan Reyes",
		"email": email,
		"phone": "+1 (555) 123-4567",
	}
}

func (s *RouterSuite) TestSubmitApplication() {
	rec := s.do(http.MethodPost, "/api/applications", "203.0.113.7:40000", applicationBody("jordan@example.com"))
	s.Equal(http.StatusCreated, rec.Code)

	body := s.decodeBody(rec)
	s.Equal("Application submitted successfully", body["message"])
	s.NotEmpty(body["applicationId"])

	stored, err := s.appStore.FindByEmail(context.Background(), "jordan@example.com")
	s.Require().NoError(err)
	s.Equal(body["applicationId"], stored.ID)
	s.Equal("pending", stored.Status)
}

func (s *RouterSuite) TestSubmitApplicationDuplicateEmail() {
	rec := s.do(http.MethodPost, "/api/applications", "203.0.113.7:40000", applicationBody("jordan@example.com"))
	s.Require().Equal(http.StatusCreated, rec.Code)

	rec = s.do(http.MethodPost, "/api/applications", "203.0.113.8:40000", applicationBody("JORDAN@example.com"))
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal("An application with this email already exists", s.decodeBody(rec)["error"])
}

func (s *RouterSuite) TestSubmitApplicationValidation() {
	s.Run("invalid email", func() {
		body := applicationBody("not-an-email")
		rec := s.do(http.MethodPost, "/api/applications", "203.0.113.7:40000", body)
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("Invalid email format", s.decodeBody(rec)["error"])
	})

	s.Run("invalid phone", func() {
		body := applicationBody("valid@example.com")
		body["phone"] = "0123"
		rec := s.do(http.MethodPost, "/api/applications", "203.0.113.9:40000", body)
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("Invalid phone number format", s.decodeBody(rec)["error"])
	})

	s.Run("malformed JSON", func() {
		req := httptest.NewRequest(http.MethodPost, "/api/applications", strings.NewReader("{not json"))
		req.RemoteAddr = "203.0.113.10:40000"
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("Invalid JSON format", s.decodeBody(rec)["error"])
	})
}

func (s *RouterSuite) TestSubmitApplicationRateLimit() {
	for i := 0; i < 5; i++ {
		rec := s.do(http.MethodPost, "/api/applications", "203.0.113.7:40000",
			applicationBody(fmt.Sprintf("user%d@example.com", i)))
		s.Require().Equal(http.StatusCreated, rec.Code, "request %d should pass", i+1)
	}

	rec := s.do(http.MethodPost, "/api/applications", "203.0.113.7:40000", applicationBody("user6@example.com"))
	s.Equal(http.StatusTooManyRequests, rec.Code)
	s.Equal("Too many requests. Please try again later.", s.decodeBody(rec)["error"])
	s.NotEmpty(rec.Header().Get("Retry-After"))

	s.Run("other clients unaffected", func() {
		rec := s.do(http.MethodPost, "/api/applications", "203.0.113.99:40000", applicationBody("other@example.com"))
		s.Equal(http.StatusCreated, rec.Code)
	})
}

func (s *RouterSuite) TestSubmitApplicationOversizedBody() {
	padding := strings.Repeat("x", 5000)
	raw := fmt.Sprintf(`{"name":"Jordan","email":"a@b.co","phone":"5551234","junk":%q}`, padding)

	req := httptest.NewRequest(http.MethodPost, "/api/applications", strings.NewReader(raw))
	req.RemoteAddr = "203.0.113.7:40000"
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusRequestEntityTooLarge, rec.Code)
	s.Equal("Request payload too large", s.decodeBody(rec)["error"])
}

func (s *RouterSuite) TestMethodNotAllowed() {
	rec := s.do(http.MethodGet, "/api/applications", "203.0.113.7:40000", nil)
	s.Equal(http.StatusMethodNotAllowed, rec.Code)
	s.Equal("Method not allowed", s.decodeBody(rec)["error"])
}

func (s *RouterSuite) TestContentTypeEnforced() {
	req := httptest.NewRequest(http.MethodPost, "/api/applications", strings.NewReader(`{}`))
	req.RemoteAddr = "203.0.113.7:40000"
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusUnsupportedMediaType, rec.Code)
}

func (s *RouterSuite) createInstance(remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/create-instance", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *RouterSuite) TestCreateInstance() {
	rec := s.createInstance("203.0.113.7:40000")
	s.Require().Equal(http.StatusCreated, rec.Code)

	body := s.decodeBody(rec)
	s.Equal(true, body["success"])
	creds := body["credentials"].(map[string]any)
	s.Len(creds["username"], 10)
	s.Len(creds["password"], 10)

	count, err := s.instanceStore.Count(context.Background())
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *RouterSuite) TestCreateInstanceSingleton() {
	rec := s.createInstance("203.0.113.7:40000")
	s.Require().Equal(http.StatusCreated, rec.Code)

	rec = s.createInstance("203.0.113.8:40000")
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal("An admin instance is already created", s.decodeBody(rec)["error"])
}

func (s *RouterSuite) TestCreateInstancePermanentLockout() {
	for i := 0; i < 3; i++ {
		s.createInstance("203.0.113.7:40000")
	}

	rec := s.createInstance("203.0.113.7:40000")
	s.Equal(http.StatusTooManyRequests, rec.Code)
	s.Equal("Too many creation attempts. Please try again later.", s.decodeBody(rec)["error"])
}

func (s *RouterSuite) provisionAdmin() *admin.Credentials {
	rec := s.createInstance("198.51.100.1:40000")
	s.Require().Equal(http.StatusCreated, rec.Code)

	var body struct {
		Credentials admin.Credentials `json:"credentials"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	return &body.Credentials
}

func (s *RouterSuite) login(remoteAddr, username, password string) *httptest.ResponseRecorder {
	return s.do(http.MethodPost, "/api/auth/login", remoteAddr, map[string]string{
		"username": username,
		"password": password,
	})
}

func (s *RouterSuite) TestLoginSuccessSetsSessionCookie() {
	creds := s.provisionAdmin()

	rec := s.login("203.0.113.7:40000", creds.Username, creds.Password)
	s.Require().Equal(http.StatusOK, rec.Code)

	body := s.decodeBody(rec)
	s.Equal("Login successful", body["message"])
	s.Equal(creds.Username, body["user"].(map[string]any)["username"])

	cookies := rec.Result().Cookies()
	s.Require().Len(cookies, 1)
	cookie := cookies[0]
	s.Equal("session", cookie.Name)
	s.Equal("authenticated", cookie.Value)
	s.True(cookie.HttpOnly)
	s.Equal(http.SameSiteStrictMode, cookie.SameSite)
	s.Equal(3600, cookie.MaxAge)
}

func (s *RouterSuite) TestLoginFailureReportsAttemptsLeft() {
	creds := s.provisionAdmin()

	rec := s.login("203.0.113.7:40000", creds.Username, "wrong-password")
	s.Require().Equal(http.StatusUnauthorized, rec.Code)

	body := s.decodeBody(rec)
	s.Equal("Invalid username or password", body["error"])
	s.Equal(float64(4), body["attemptsLeft"])

	rec = s.login("203.0.113.7:40000", creds.Username, "wrong-password")
	s.Require().Equal(http.StatusUnauthorized, rec.Code)
	s.Equal(float64(3), s.decodeBody(rec)["attemptsLeft"])
}

func (s *RouterSuite) TestLoginLockoutAfterFiveFailures() {
	creds := s.provisionAdmin()

	for i := 0; i < 5; i++ {
		rec := s.login("203.0.113.7:40000", creds.Username, "wrong-password")
		s.Require().Equal(http.StatusUnauthorized, rec.Code, "failure %d should be 401", i+1)
	}

	rec := s.login("203.0.113.7:40000", creds.Username, creds.Password)
	s.Equal(http.StatusTooManyRequests, rec.Code)
	s.Equal("Too many login attempts. Please try again later.", s.decodeBody(rec)["error"])

	s.Run("other clients unaffected", func() {
		rec := s.login("203.0.113.99:40000", creds.Username, creds.Password)
		s.Equal(http.StatusOK, rec.Code)
	})
}

func (s *RouterSuite) TestLoginSuccessClearsFailureCount() {
	creds := s.provisionAdmin()

	for i := 0; i < 4; i++ {
		rec := s.login("203.0.113.7:40000", creds.Username, "wrong-password")
		s.Require().Equal(http.StatusUnauthorized, rec.Code)
	}

	rec := s.login("203.0.113.7:40000", creds.Username, creds.Password)
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.login("203.0.113.7:40000", creds.Username, "wrong-password")
	s.Require().Equal(http.StatusUnauthorized, rec.Code)
	s.Equal(float64(4), s.decodeBody(rec)["attemptsLeft"], "counter should restart after success")
}

func (s *RouterSuite) TestLoginValidation() {
	rec := s.login("203.0.113.7:40000", "ab", "longenough")
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.login("203.0.113.7:40000", "validuser", "short")
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *RouterSuite) TestLoginOversizedBody() {
	padding := strings.Repeat("x", 600)
	raw := fmt.Sprintf(`{"username":"admin","password":%q}`, padding)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(raw))
	req.RemoteAddr = "203.0.113.7:40000"
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusRequestEntityTooLarge, rec.Code)
	s.Equal("Request payload too large", s.decodeBody(rec)["error"])
}

func (s *RouterSuite) TestLogoutClearsCookie() {
	rec := s.do(http.MethodPost, "/api/auth/logout", "203.0.113.7:40000", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	s.Require().Len(cookies, 1)
	s.Equal("session", cookies[0].Name)
	s.Less(cookies[0].MaxAge, 0)
}

func (s *RouterSuite) TestSessionGate() {
	s.Run("protected page redirects without cookie", func() {
		rec := s.do(http.MethodGet, "/admin-home", "203.0.113.7:40000", nil)
		s.Equal(http.StatusFound, rec.Code)
		s.Equal("/", rec.Header().Get("Location"))
	})

	s.Run("forged cookie value redirects", func() {
		req := httptest.NewRequest(http.MethodGet, "/general-setup", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: "admin"})
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		s.Equal(http.StatusFound, rec.Code)
	})

	s.Run("sentinel cookie passes", func() {
		req := httptest.NewRequest(http.MethodGet, "/admin-home", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: "authenticated"})
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), "Admin Home")
	})

	s.Run("public pages open", func() {
		for _, path := range []string{"/", "/recruiting", "/privacy", "/targeting-setup"} {
			rec := s.do(http.MethodGet, path, "203.0.113.7:40000", nil)
			s.Equal(http.StatusOK, rec.Code, "page %s should be public", path)
		}
	})
}

func (s *RouterSuite) TestHealthEndpoints() {
	for _, path := range []string{"/health", "/health/live", "/health/ready"} {
		rec := s.do(http.MethodGet, path, "203.0.113.7:40000", nil)
		s.Equal(http.StatusOK, rec.Code, "endpoint %s", path)
	}
}

func (s *RouterSuite) TestMetricsEndpoint() {
	rec := s.do(http.MethodGet, "/metrics", "203.0.113.7:40000", nil)
	s.Equal(http.StatusOK, rec.Code)
}
