package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/BradenHooton/tunevault/internal/auth"
	"github.com/BradenHooton/tunevault/internal/handlers"
	"github.com/BradenHooton/tunevault/internal/metrics"
	"github.com/BradenHooton/tunevault/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Dependencies are the pieces the router wires together
type Dependencies struct {
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Resolver *auth.Resolver

	Auth      *handlers.AuthHandler
	Songs     *handlers.SongHandler
	Playlists *handlers.PlaylistHandler
	Favorites *handlers.FavoriteHandler
	Health    *handlers.HealthHandler

	Env            string
	AllowedOrigins []string
	RequestTimeout time.Duration
	// UploadDir is served read-only under /uploads
	UploadDir string
	AuthLimit middleware.RateLimitConfig
	// CSRFLimit guards /auth/csrf; zero means middleware.DefaultCSRFRateLimit
	CSRFLimit middleware.RateLimitConfig
}

// NewRouter builds the HTTP handler for the whole service
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecureLogger(deps.Logger, deps.Metrics))
	r.Use(middleware.SecurityHeaders(middleware.SecurityHeadersConfig{Env: deps.Env}))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(deps.AllowedOrigins)))
	if deps.RequestTimeout > 0 {
		r.Use(chimw.Timeout(deps.RequestTimeout))
	}

	r.Get("/health", deps.Health.Health)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}
	if deps.UploadDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(deps.UploadDir))))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(deps.Resolver.Middleware)
		r.Use(middleware.CSRFProtection(deps.Resolver, deps.Logger))

		RegisterRoutes(r, deps)
	})

	return r
}

// RegisterRoutes registers the API routes on r, which must already resolve
// the caller's identity
func RegisterRoutes(r chi.Router, deps Dependencies) {
	authLimit := middleware.RateLimitByIP(deps.AuthLimit)
	if deps.CSRFLimit.Requests <= 0 {
		deps.CSRFLimit = middleware.DefaultCSRFRateLimit()
	}
	csrfLimit := middleware.RateLimitByIP(deps.CSRFLimit)

	r.Route("/auth", func(r chi.Router) {
		r.With(authLimit).Post("/register", deps.Auth.Register)
		r.With(authLimit).Post("/login", deps.Auth.Login)
		r.Post("/logout", deps.Auth.Logout)
		r.Get("/check", deps.Auth.Check)
		r.With(csrfLimit).Get("/csrf", deps.Auth.CSRF)
	})

	r.Route("/songs", func(r chi.Router) {
		r.Get("/", deps.Songs.List)
		r.Get("/search", deps.Songs.Search)
		r.Get("/{id}", deps.Songs.Get)
		r.With(auth.RequireAuth).Post("/{id}/play", deps.Songs.Play)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Post("/", deps.Songs.Create)
			r.Put("/{id}", deps.Songs.Update)
			r.Delete("/{id}", deps.Songs.Delete)
		})
	})

	r.Route("/playlists", func(r chi.Router) {
		r.Use(auth.RequireAuth)
		r.Get("/", deps.Playlists.List)
		r.Post("/", deps.Playlists.Create)
		r.Get("/{id}", deps.Playlists.Get)
		r.Put("/{id}", deps.Playlists.Update)
		r.Delete("/{id}", deps.Playlists.Delete)
		r.Post("/{id}/songs", deps.Playlists.AddSong)
		r.Delete("/{id}/songs/{songID}", deps.Playlists.RemoveSong)
	})

	r.Route("/favorites", func(r chi.Router) {
		r.Use(auth.RequireAuth)
		r.Get("/", deps.Favorites.List)
		r.Post("/", deps.Favorites.Add)
		r.Delete("/{songID}", deps.Favorites.Remove)
	})
}
