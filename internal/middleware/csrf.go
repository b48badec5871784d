package middleware

import (
	"log/slog"
	"net/http"

	"github.com/BradenHooton/tunevault/internal/auth"
	pkghttp "github.com/BradenHooton/tunevault/pkg/http"
)

// CSRFTokenSource looks up the token bound to the caller's session
type CSRFTokenSource interface {
	SessionCSRFToken(r *http.Request) (string, bool)
}

// CSRFProtection checks the X-CSRF-Token header on state-changing requests
// authenticated by the session cookie. Bearer-token callers and anonymous
// callers pass through; the cookie is what makes a request forgeable.
// Must run after the resolver middleware.
func CSRFProtection(source CSRFTokenSource, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isStateChangingMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			out := auth.OutcomeFromContext(r.Context())
			if out.Source != auth.ViaSession {
				next.ServeHTTP(w, r)
				return
			}

			provided := r.Header.Get(auth.CSRFHeader)
			if provided == "" {
				logger.Warn("CSRF token missing",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Int64("user_id", out.UserID()))
				pkghttp.WriteForbidden(w, "CSRF token missing")
				return
			}

			expected, ok := source.SessionCSRFToken(r)
			if !ok || !auth.ValidCSRFToken(expected, provided) {
				logger.Warn("CSRF token validation failed",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Int64("user_id", out.UserID()))
				pkghttp.WriteForbidden(w, "CSRF token invalid")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isStateChangingMethod(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
		return true
	default:
		return false
	}
}
