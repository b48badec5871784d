package middleware

import (
	"net/http"
	"time"

	pkghttp "github.com/BradenHooton/tunevault/pkg/http"
	"github.com/go-chi/httprate"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// DefaultAuthRateLimit allows 5 login or registration attempts per minute per IP
func DefaultAuthRateLimit() RateLimitConfig {
	return RateLimitConfig{Requests: 5, Window: time.Minute}
}

// DefaultCSRFRateLimit allows 30 CSRF token requests per minute per IP. Each
// anonymous request opens a server-side session, so the route stays limited.
func DefaultCSRFRateLimit() RateLimitConfig {
	return RateLimitConfig{Requests: 30, Window: time.Minute}
}

// RateLimitByIP limits requests per client IP and answers 429 in the API's
// error envelope
func RateLimitByIP(config RateLimitConfig) func(next http.Handler) http.Handler {
	return httprate.Limit(
		config.Requests,
		config.Window,
		httprate.WithKeyByRealIP(),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			pkghttp.WriteTooManyRequests(w, "Too many attempts. Please try again later.")
		}),
	)
}
