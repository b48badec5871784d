package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/BradenHooton/tunevault/internal/auth"
	"github.com/BradenHooton/tunevault/internal/background"
	"github.com/BradenHooton/tunevault/internal/config"
	"github.com/BradenHooton/tunevault/internal/database"
	"github.com/BradenHooton/tunevault/internal/handlers"
	"github.com/BradenHooton/tunevault/internal/metrics"
	"github.com/BradenHooton/tunevault/internal/middleware"
	"github.com/BradenHooton/tunevault/internal/repositories"
	"github.com/BradenHooton/tunevault/internal/routes"
	"github.com/BradenHooton/tunevault/internal/search"
	"github.com/BradenHooton/tunevault/internal/services"
	"github.com/BradenHooton/tunevault/internal/sessionstore"
	"github.com/BradenHooton/tunevault/internal/storage"
	pkgauth "github.com/BradenHooton/tunevault/pkg/auth"
	pkghttp "github.com/BradenHooton/tunevault/pkg/http"
	pkglogger "github.com/BradenHooton/tunevault/pkg/logger"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		slog.Error("tunevault exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.Server.LogLevel)}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewConnection(ctx, &cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	sessions, closeSessions, err := newSessionStore(ctx, cfg.Sessions, logger)
	if err != nil {
		return err
	}
	defer closeSessions()

	m := metrics.New()
	auditLogger := pkglogger.NewAuditLogger(logger)

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	songRepo := repositories.NewSongRepository(db)
	playlistRepo := repositories.NewPlaylistRepository(db)
	favoriteRepo := repositories.NewFavoriteRepository(db)

	// Auth
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	resolver := auth.NewResolver(tokens, sessions, auth.ResolverConfig{
		SessionLifetime: cfg.Auth.SessionLifetime,
		StrictBearer:    cfg.Auth.StrictBearer,
		Cookie: auth.CookieConfig{
			Name:     cfg.Auth.CookieName,
			Domain:   cfg.Auth.CookieDomain,
			Secure:   cfg.Auth.CookieSecure,
			SameSite: cfg.Auth.CookieSameSite,
		},
	}, logger)
	timingDelay := auth.NewTimingDelay(auth.TimingConfig{
		BaseDelayMs:   cfg.Auth.TimingDelayBaseMs,
		RandomDelayMs: cfg.Auth.TimingDelayRandomMs,
	})

	// Services
	media := storage.NewLocalStore(cfg.Media.UploadDir, logger)
	authService := services.NewAuthService(userRepo, pkgauth.NewPasswordHasher(cfg.Auth.BcryptCost), timingDelay, m, logger, auditLogger, cfg.Server.Env)
	songService := services.NewSongService(songRepo, search.NewBuilder(cfg.Search.DefaultPageSize, cfg.Search.MaxPageSize), media, m, logger, auditLogger)
	playlistService := services.NewPlaylistService(playlistRepo, songRepo, logger)
	favoriteService := services.NewFavoriteService(favoriteRepo, songRepo, logger)

	bootstrapCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	created, err := authService.EnsureAdmin(bootstrapCtx, os.Getenv("ADMIN_USERNAME"), os.Getenv("ADMIN_EMAIL"), os.Getenv("ADMIN_PASSWORD"))
	cancel()
	if err != nil {
		logger.Error("failed to ensure admin user", slog.Any("error", err))
	} else if created {
		logger.Info("admin user created")
	}

	urls := storage.NewURLBuilder(cfg.Media.PublicBaseURL)
	router := routes.NewRouter(routes.Dependencies{
		Logger:         logger,
		Metrics:        m,
		Resolver:       resolver,
		Auth:           handlers.NewAuthHandler(authService, resolver, &pkghttp.IPConfig{TrustedProxies: cfg.Server.TrustedProxies}),
		Songs:          handlers.NewSongHandler(songService, urls),
		Playlists:      handlers.NewPlaylistHandler(playlistService, urls),
		Favorites:      handlers.NewFavoriteHandler(favoriteService, urls),
		Health:         handlers.NewHealthHandler(db),
		Env:            cfg.Server.Env,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RequestTimeout: cfg.Server.RequestTimeout,
		UploadDir:      cfg.Media.UploadDir,
		AuthLimit:      middleware.DefaultAuthRateLimit(),
		CSRFLimit:      middleware.DefaultCSRFRateLimit(),
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return background.NewSessionSweeper(sessions, m, logger, cfg.Sessions.SweepInterval).Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("server stopped gracefully")
	return nil
}

// sessionStore is what both the resolver and the sweeper need
type sessionStore interface {
	auth.SessionStore
	background.Sweepable
}

func newSessionStore(ctx context.Context, cfg config.SessionConfig, logger *slog.Logger) (sessionStore, func(), error) {
	if cfg.Store != "redis" {
		logger.Info("using in-memory session store")
		return sessionstore.NewMemoryStore(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	store := sessionstore.NewRedisStore(client, cfg.RedisPrefix)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
	}

	logger.Info("using redis session store", slog.String("addr", cfg.RedisAddr))
	return store, func() { _ = client.Close() }, nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
