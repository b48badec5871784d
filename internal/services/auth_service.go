package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/BradenHooton/tunevault/internal/auth"
	"github.com/BradenHooton/tunevault/internal/metrics"
	"github.com/BradenHooton/tunevault/internal/models"
	pkgauth "github.com/BradenHooton/tunevault/pkg/auth"
	pkglogger "github.com/BradenHooton/tunevault/pkg/logger"
)

// UserRepository is the account store used by AuthService
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	FindByLogin(ctx context.Context, login string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	TouchLastLogin(ctx context.Context, id int64) error
	CountByRole(ctx context.Context, role models.Role) (int, error)
}

// ClientInfo identifies the caller in audit events
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

// AuthService handles registration and credential checks. Establishing the
// session and issuing the token is left to auth.Resolver.
type AuthService struct {
	repo        UserRepository
	hasher      *pkgauth.PasswordHasher
	timingDelay *auth.TimingDelay
	metrics     *metrics.Metrics
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
	env         string
}

func NewAuthService(
	repo UserRepository,
	hasher *pkgauth.PasswordHasher,
	timingDelay *auth.TimingDelay,
	m *metrics.Metrics,
	logger *slog.Logger,
	auditLogger *pkglogger.AuditLogger,
	env string,
) *AuthService {
	if hasher == nil {
		hasher = pkgauth.NewPasswordHasher(pkgauth.DefaultBcryptCost)
	}
	return &AuthService{
		repo:        repo,
		hasher:      hasher,
		timingDelay: timingDelay,
		metrics:     m,
		logger:      logger,
		auditLogger: auditLogger,
		env:         env,
	}
}

// Register creates a new account with the user role
func (s *AuthService) Register(ctx context.Context, username, email, password string, client ClientInfo) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: all fields are required", models.ErrValidation)
	}
	if err := pkgauth.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrValidation, err.Error())
	}

	taken, err := s.repo.UsernameExists(ctx, username)
	if err != nil {
		s.logger.Error("failed to check username", slog.Any("error", err))
		return nil, err
	}
	if taken {
		s.logger.Info("registration failed: username taken")
		return nil, ErrUsernameTaken
	}

	taken, err = s.repo.EmailExists(ctx, email)
	if err != nil {
		s.logger.Error("failed to check email", slog.Any("error", err))
		return nil, err
	}
	if taken {
		s.logger.Info("registration failed: email registered",
			pkglogger.RedactedAttr("email", email, s.env))
		return nil, ErrEmailTaken
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, fmt.Errorf("%w: %v", models.ErrStore, err)
	}

	user, err := s.repo.Create(ctx, &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
	})
	if err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, models.ErrConflict) {
			return nil, ErrUsernameTaken
		}
		s.logger.Error("failed to create user", slog.Any("error", err))
		return nil, err
	}

	s.logger.Info("user registered", slog.Int64("user_id", user.ID))
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "user_registered",
		UserID:    user.ID,
		IPAddress: client.IPAddress,
		UserAgent: client.UserAgent,
		Success:   true,
	})

	return user, nil
}

// Authenticate checks a username-or-email and password pair. Unknown users
// and wrong passwords both return models.ErrInvalidCredentials after the
// same padded delay.
func (s *AuthService) Authenticate(ctx context.Context, login, password string, client ClientInfo) (*models.User, error) {
	start := time.Now()

	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, fmt.Errorf("%w: username/email and password are required", models.ErrValidation)
	}

	user, err := s.repo.FindByLogin(ctx, login)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("failed to look up user", slog.Any("error", err))
		return nil, err
	}

	if user == nil || s.hasher.Compare(user.PasswordHash, password) != nil {
		s.fail(ctx, start, user, client)
		return nil, models.ErrInvalidCredentials
	}

	if err := s.repo.TouchLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("failed to record last login", slog.Int64("user_id", user.ID), slog.Any("error", err))
	}

	if s.timingDelay != nil {
		s.timingDelay.WaitFrom(ctx, start, true)
	}
	s.metrics.ObserveLogin(true)
	s.logger.Info("user logged in", slog.Int64("user_id", user.ID))
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "login_success",
		UserID:    user.ID,
		IPAddress: client.IPAddress,
		UserAgent: client.UserAgent,
		Success:   true,
	})

	return user, nil
}

func (s *AuthService) fail(ctx context.Context, start time.Time, user *models.User, client ClientInfo) {
	if s.timingDelay != nil {
		s.timingDelay.WaitFrom(ctx, start, false)
	}
	s.metrics.ObserveLogin(false)

	event := pkglogger.AuditEvent{
		EventType:     "login_failed",
		IPAddress:     client.IPAddress,
		UserAgent:     client.UserAgent,
		FailureReason: "invalid_credentials",
	}
	if user != nil {
		event.UserID = user.ID
	}
	s.logger.Info("login failed: invalid credentials")
	s.auditLogger.LogAuthAttempt(event)
}

// LogLogout records a completed logout
func (s *AuthService) LogLogout(userID int64, client ClientInfo) {
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "logout",
		UserID:    userID,
		IPAddress: client.IPAddress,
		UserAgent: client.UserAgent,
		Success:   true,
	})
}

func (s *AuthService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

// EnsureAdmin creates an admin account when none exists yet. It reports
// whether an account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, email, password string) (bool, error) {
	if username == "" || email == "" || password == "" {
		return false, nil
	}

	admins, err := s.repo.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("failed to count admins: %w", err)
	}
	if admins > 0 {
		return false, nil
	}

	if err := pkgauth.ValidatePassword(password); err != nil {
		return false, fmt.Errorf("%w: admin password: %s", models.ErrValidation, err.Error())
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return false, fmt.Errorf("failed to hash admin password: %w", err)
	}

	user, err := s.repo.Create(ctx, &models.User{
		Username:     strings.TrimSpace(username),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	})
	if err != nil {
		return false, fmt.Errorf("failed to create admin: %w", err)
	}

	s.logger.Info("admin account bootstrapped", slog.Int64("user_id", user.ID))
	s.auditLogger.LogAdminAction("admin_bootstrapped", user.ID, "user", user.ID, nil)
	return true, nil
}
