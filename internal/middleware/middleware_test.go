package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BradenHooton/tunevault/internal/auth"
	"github.com/BradenHooton/tunevault/internal/metrics"
	"github.com/BradenHooton/tunevault/internal/models"
	pkghttp "github.com/BradenHooton/tunevault/pkg/http"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp pkghttp.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

// ============================================================================
// CSRF
// ============================================================================

type fixedToken string

func (f fixedToken) SessionCSRFToken(*http.Request) (string, bool) {
	return string(f), f != ""
}

func withOutcome(r *http.Request, source auth.Source) *http.Request {
	out := auth.Outcome{Source: source}
	switch source {
	case auth.ViaSession:
		out.Session = &models.Session{UserID: 3, Role: models.RoleUser}
	case auth.ViaToken:
		out.Token = &models.TokenPayload{Subject: 3, Role: models.RoleUser}
	}
	return r.WithContext(auth.WithOutcome(r.Context(), out))
}

func TestCSRFProtection(t *testing.T) {
	tests := []struct {
		name   string
		method string
		source auth.Source
		header string
		stored string
		status int
	}{
		{"safe method", "GET", auth.ViaSession, "", "tok", http.StatusOK},
		{"anonymous post", "POST", auth.Unauthenticated, "", "tok", http.StatusOK},
		{"bearer post", "POST", auth.ViaToken, "", "tok", http.StatusOK},
		{"session without header", "POST", auth.ViaSession, "", "tok", http.StatusForbidden},
		{"session wrong token", "DELETE", auth.ViaSession, "nope", "tok", http.StatusForbidden},
		{"session no stored token", "PUT", auth.ViaSession, "tok", "", http.StatusForbidden},
		{"session valid token", "POST", auth.ViaSession, "tok", "tok", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := CSRFProtection(fixedToken(tt.stored), discardLogger())(okHandler)

			req := withOutcome(httptest.NewRequest(tt.method, "/api/playlists", nil), tt.source)
			if tt.header != "" {
				req.Header.Set(auth.CSRFHeader, tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusForbidden {
				assert.Equal(t, "permission_denied", errorCode(t, w))
			}
		})
	}
}

// ============================================================================
// Rate limiting
// ============================================================================

func TestRateLimitByIP(t *testing.T) {
	handler := RateLimitByIP(RateLimitConfig{Requests: 2, Window: time.Minute})(okHandler)

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/api/auth/login", nil)
		req.RemoteAddr = ip + ":5000"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, send("10.0.0.1").Code)

	w := send("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "rate_limit_exceeded", errorCode(t, w))

	assert.Equal(t, http.StatusOK, send("10.0.0.2").Code, "limit is per client IP")
}

func TestDefaultAuthRateLimit(t *testing.T) {
	cfg := DefaultAuthRateLimit()
	assert.Equal(t, 5, cfg.Requests)
	assert.Equal(t, time.Minute, cfg.Window)

	cfg = DefaultCSRFRateLimit()
	assert.Equal(t, 30, cfg.Requests)
	assert.Equal(t, time.Minute, cfg.Window)
}

// ============================================================================
// CORS
// ============================================================================

func TestCORS(t *testing.T) {
	handler := CORS(DefaultCORSConfig([]string{"http://localhost:5173"}))(okHandler)

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/songs", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), auth.CSRFHeader)
	})

	t.Run("unknown origin", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/songs", nil)
		req.Header.Set("Origin", "http://evil.example")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/api/playlists", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "3600", w.Header().Get("Access-Control-Max-Age"))
	})
}

// ============================================================================
// Security headers
// ============================================================================

func TestSecurityHeaders(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")

	w := httptest.NewRecorder()
	SecurityHeaders(SecurityHeadersConfig{Env: "production"})(okHandler).ServeHTTP(w, req)

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "default-src 'none'")
	assert.Equal(t, "same-site", w.Header().Get("Cross-Origin-Resource-Policy"))
	assert.NotEmpty(t, w.Header().Get("Strict-Transport-Security"))

	w = httptest.NewRecorder()
	SecurityHeaders(SecurityHeadersConfig{Env: "development"})(okHandler).ServeHTTP(w, req)

	assert.Equal(t, "cross-origin", w.Header().Get("Cross-Origin-Resource-Policy"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}

// ============================================================================
// Logging
// ============================================================================

func TestSecureLogger_RecordsRoutePattern(t *testing.T) {
	m := metrics.New()

	r := chi.NewRouter()
	r.Use(SecureLogger(discardLogger(), m))
	r.Get("/api/songs/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, path := range []string{"/api/songs/1", "/api/songs/2"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		require.Equal(t, http.StatusNotFound, w.Code)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/api/songs/{id}", "404")))
}

func TestSecureLogger_NilMetrics(t *testing.T) {
	w := httptest.NewRecorder()
	SecureLogger(discardLogger(), nil)(okHandler).ServeHTTP(w, httptest.NewRequest("GET", "/health?token=x", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
