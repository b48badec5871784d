package auth

import (
	"context"
	"net/http"

	pkghttp "github.com/BradenHooton/tunevault/pkg/http"
)

type contextKey string

const outcomeContextKey contextKey = "auth_outcome"

// WithOutcome stores o in ctx
func WithOutcome(ctx context.Context, o Outcome) context.Context {
	return context.WithValue(ctx, outcomeContextKey, o)
}

// OutcomeFromContext returns the outcome stored by Middleware, or an
// unauthenticated outcome when none is present.
func OutcomeFromContext(ctx context.Context) Outcome {
	o, _ := ctx.Value(outcomeContextKey).(Outcome)
	return o
}

// Middleware resolves the caller once per request and stores the outcome in
// the request context. It never rejects.
func (rs *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		out := rs.Resolve(r)
		next.ServeHTTP(w, r.WithContext(WithOutcome(r.Context(), out)))
	})
}

// RequireAuth rejects unauthenticated callers with 401
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		out := OutcomeFromContext(r.Context())
		if !out.Authenticated() {
			msg := "Authentication required"
			if out.BearerRejected {
				msg = "Invalid or expired token"
			}
			pkghttp.WriteUnauthorized(w, msg)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects unauthenticated callers with 401 and non-admins with 403
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		out := OutcomeFromContext(r.Context())
		if !out.Authenticated() {
			pkghttp.WriteUnauthorized(w, "Authentication required")
			return
		}
		if !out.IsAdmin() {
			pkghttp.WriteForbidden(w, "Access denied. Admin privileges required.")
			return
		}
		next.ServeHTTP(w, r)
	})
}
