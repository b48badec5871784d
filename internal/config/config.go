package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Auth     AuthConfig
	Sessions SessionConfig
	Search   SearchConfig
	Media    MediaConfig
}

type DatabaseConfig struct {
	Host              string
	Port              int
	User              string
	Password          string
	Name              string
	SSLMode           string
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
}

type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	AllowedOrigins []string
	TrustedProxies []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
}

type AuthConfig struct {
	JWTSecret       string
	TokenTTL        time.Duration
	SessionLifetime time.Duration
	BcryptCost      int
	// StrictBearer rejects requests carrying an invalid bearer token instead of
	// falling back to the session cookie.
	StrictBearer        bool
	CookieName          string
	CookieDomain        string
	CookieSecure        bool
	CookieSameSite      string
	TimingDelayBaseMs   int
	TimingDelayRandomMs int
}

type SessionConfig struct {
	Store         string // "memory" or "redis"
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
	SweepInterval time.Duration
}

type SearchConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

type MediaConfig struct {
	PublicBaseURL string
	UploadDir     string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	env := getEnv("ENV", "development")

	cfg := &Config{
		Database: DatabaseConfig{
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              getEnvAsInt("DB_PORT", 5432),
			User:              getEnv("DB_USER", "tunevault"),
			Password:          getEnv("DB_PASSWORD", ""),
			Name:              getEnv("DB_NAME", "tunevault"),
			SSLMode:           getEnv("DB_SSLMODE", "disable"),
			MaxConns:          int32(getEnvAsInt("DB_MAX_CONNS", 25)),
			MinConns:          int32(getEnvAsInt("DB_MIN_CONNS", 2)),
			MaxConnLifetime:   getEnvAsDuration("DB_MAX_CONN_LIFETIME", 5*time.Minute),
			MaxConnIdleTime:   getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 1*time.Minute),
			HealthCheckPeriod: getEnvAsDuration("DB_HEALTH_CHECK_PERIOD", 1*time.Minute),
		},
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Env:            env,
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			AllowedOrigins: parseAllowedOrigins(env),
			TrustedProxies: parseList(getEnv("TRUSTED_PROXIES", "")),
			ReadTimeout:    getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:    getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			RequestTimeout: getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 30*time.Second),
		},
		Auth: AuthConfig{
			JWTSecret:           jwtSecret,
			TokenTTL:            getEnvAsDuration("JWT_EXPIRY", 7*24*time.Hour),
			SessionLifetime:     getEnvAsDuration("SESSION_LIFETIME", 24*time.Hour),
			BcryptCost:          getEnvAsInt("BCRYPT_COST", 10),
			StrictBearer:        getEnvAsBool("AUTH_STRICT_BEARER", false),
			CookieName:          getEnv("SESSION_COOKIE_NAME", "tunevault_session"),
			CookieDomain:        getEnv("SESSION_COOKIE_DOMAIN", ""),
			CookieSecure:        getEnvAsBool("SESSION_COOKIE_SECURE", env == "production"),
			CookieSameSite:      getEnv("SESSION_COOKIE_SAMESITE", "lax"),
			TimingDelayBaseMs:   getEnvAsInt("AUTH_TIMING_DELAY_BASE_MS", 250),
			TimingDelayRandomMs: getEnvAsInt("AUTH_TIMING_DELAY_RANDOM_MS", 100),
		},
		Sessions: SessionConfig{
			Store:         strings.ToLower(getEnv("SESSION_STORE", "memory")),
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvAsInt("REDIS_DB", 0),
			RedisPrefix:   getEnv("REDIS_SESSION_PREFIX", "tunevault:session:"),
			SweepInterval: getEnvAsDuration("SESSION_SWEEP_INTERVAL", 10*time.Minute),
		},
		Search: SearchConfig{
			DefaultPageSize: getEnvAsInt("SONGS_PER_PAGE", 20),
			MaxPageSize:     getEnvAsInt("SONGS_MAX_PAGE_SIZE", 100),
		},
		Media: MediaConfig{
			PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
			UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
		},
	}

	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}

	if err := validateJWTSecret(jwtSecret, env); err != nil {
		return nil, err
	}

	switch cfg.Sessions.Store {
	case "memory", "redis":
	default:
		return nil, fmt.Errorf("SESSION_STORE must be \"memory\" or \"redis\" (got %q)", cfg.Sessions.Store)
	}

	if cfg.Search.DefaultPageSize < 1 || cfg.Search.DefaultPageSize > cfg.Search.MaxPageSize {
		return nil, fmt.Errorf("SONGS_PER_PAGE must be between 1 and %d", cfg.Search.MaxPageSize)
	}

	for name, d := range map[string]time.Duration{
		"JWT_EXPIRY":             cfg.Auth.TokenTTL,
		"SESSION_LIFETIME":       cfg.Auth.SessionLifetime,
		"SESSION_SWEEP_INTERVAL": cfg.Sessions.SweepInterval,
	} {
		if d <= 0 {
			return nil, fmt.Errorf("%s must be greater than 0 (got %s)", name, d)
		}
	}

	return cfg, nil
}

// validateJWTSecret enforces minimum security standards for the token secret
func validateJWTSecret(secret, env string) error {
	minLength := 16
	if env == "production" {
		minLength = 32
	}

	if len(secret) < minLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters in %s environment (got %d)",
			minLength, env, len(secret))
	}

	weakSecrets := []string{
		"secret", "password", "changeme", "change_this_in_production",
		"musicplayer_jwt_secret_key_change_this_in_production",
	}

	secretLower := strings.ToLower(secret)
	for _, weak := range weakSecrets {
		if secretLower == weak {
			return fmt.Errorf("JWT_SECRET cannot be a common weak value")
		}
	}

	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// URL returns the connection string in postgres:// form for database/sql drivers
func (c *DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}

func parseList(raw string) []string {
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseAllowedOrigins(env string) []string {
	if env == "production" {
		return parseList(getEnv("ALLOWED_ORIGINS", ""))
	}

	// Development: allow localhost variants
	return []string{
		"http://localhost:3000",
		"http://localhost:8080",
		"http://localhost:5173",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:8080",
		"http://127.0.0.1:5173",
	}
}
