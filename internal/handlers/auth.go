package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/BradenHooton/tunevault/internal/auth"
	"github.com/BradenHooton/tunevault/internal/models"
	"github.com/BradenHooton/tunevault/internal/services"
	pkghttp "github.com/BradenHooton/tunevault/pkg/http"
)

// AuthServiceInterface defines the interface for auth business logic
type AuthServiceInterface interface {
	Register(ctx context.Context, username, email, password string, client services.ClientInfo) (*models.User, error)
	Authenticate(ctx context.Context, login, password string, client services.ClientInfo) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	LogLogout(userID int64, client services.ClientInfo)
}

// SessionManager establishes and tears down login state
type SessionManager interface {
	Login(ctx context.Context, w http.ResponseWriter, r *http.Request, user *models.User) (*auth.LoginResult, error)
	Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) error
	EnsureCSRFToken(ctx context.Context, w http.ResponseWriter, r *http.Request) (string, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	service  AuthServiceInterface
	sessions SessionManager
	ipConfig *pkghttp.IPConfig
}

func NewAuthHandler(service AuthServiceInterface, sessions SessionManager, ipConfig *pkghttp.IPConfig) *AuthHandler {
	return &AuthHandler{
		service:  service,
		sessions: sessions,
		ipConfig: ipConfig,
	}
}

// Request DTOs

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required"`
}

func (RegisterRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"Username.required": "All fields are required",
		"Email.required":    "All fields are required",
		"Password.required": "All fields are required",
		"Username.min":      "Username must be between 3 and 50 characters",
		"Username.max":      "Username must be between 3 and 50 characters",
		"Email.email":       "Invalid email format",
		"Email.max":         "Invalid email format",
	}
}

// LoginRequest represents the request body for login. Login is a username or email.
type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (LoginRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"Login.required":    "Username/email and password are required",
		"Password.required": "Username/email and password are required",
	}
}

// LoginResponse is returned on successful login
type LoginResponse struct {
	Token          string    `json:"token"`
	ExpiresAt      time.Time `json:"expires_at"`
	CSRFToken      string    `json:"csrf_token"`
	UserID         int64     `json:"user_id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	ProfilePicture string    `json:"profile_picture"`
}

func (h *AuthHandler) client(r *http.Request) services.ClientInfo {
	return services.ClientInfo{
		IPAddress: pkghttp.ExtractClientIP(r, h.ipConfig),
		UserAgent: r.Header.Get("User-Agent"),
	}
}

// Register handles user registration
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	user, err := h.service.Register(r.Context(), req.Username, req.Email, req.Password, h.client(r))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUsernameTaken):
			pkghttp.WriteConflict(w, "Username already taken")
		case errors.Is(err, services.ErrEmailTaken):
			pkghttp.WriteConflict(w, "Email already registered")
		case errors.Is(err, models.ErrValidation):
			pkghttp.WriteBadRequest(w, validationMessage(err))
		default:
			pkghttp.WriteInternalError(w, "An error occurred during registration")
		}
		return
	}

	pkghttp.WriteSuccess(w, http.StatusCreated, "Registration successful", map[string]any{
		"user_id":  user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}

// Login checks credentials, then opens a session and issues a bearer token
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Login, req.Password, h.client(r))
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidCredentials):
			pkghttp.WriteUnauthorized(w, "Invalid credentials")
		case errors.Is(err, models.ErrValidation):
			pkghttp.WriteBadRequest(w, "Username/email and password are required")
		default:
			pkghttp.WriteInternalError(w, "Login failed")
		}
		return
	}

	res, err := h.sessions.Login(r.Context(), w, r, user)
	if err != nil {
		pkghttp.WriteInternalError(w, "Login failed")
		return
	}

	pkghttp.WriteSuccess(w, http.StatusOK, "Login successful", LoginResponse{
		Token:          res.Token,
		ExpiresAt:      time.Unix(res.Payload.ExpiresAt, 0).UTC(),
		CSRFToken:      res.CSRFToken,
		UserID:         user.ID,
		Username:       user.Username,
		Email:          user.Email,
		Role:           string(user.Role),
		ProfilePicture: user.ProfilePicture,
	})
}

// Logout destroys the caller's session. Bearer tokens stay valid until they expire.
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	out := auth.OutcomeFromContext(r.Context())
	if !out.Authenticated() {
		pkghttp.WriteBadRequest(w, "Not logged in")
		return
	}

	if err := h.sessions.Logout(r.Context(), w, r); err != nil {
		pkghttp.WriteInternalError(w, "Logout failed")
		return
	}
	h.service.LogLogout(out.UserID(), h.client(r))

	pkghttp.WriteSuccess(w, http.StatusOK, "Logout successful", nil)
}

// Check reports whether the caller is logged in
// @Router /auth/check [get]
func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	out := auth.OutcomeFromContext(r.Context())
	if !out.Authenticated() {
		pkghttp.WriteSuccess(w, http.StatusOK, "User is not logged in", map[string]any{"logged_in": false})
		return
	}

	user, err := h.service.GetUser(r.Context(), out.UserID())
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteSuccess(w, http.StatusOK, "User is not logged in", map[string]any{"logged_in": false})
			return
		}
		pkghttp.WriteInternalError(w, "An error occurred")
		return
	}

	pkghttp.WriteSuccess(w, http.StatusOK, "User is logged in", map[string]any{
		"logged_in": true,
		"via":       out.Source.String(),
		"user":      userModelToResponse(user),
	})
}

// CSRF returns the CSRF token of the caller's session, creating one if needed
// @Router /auth/csrf [get]
func (h *AuthHandler) CSRF(w http.ResponseWriter, r *http.Request) {
	token, err := h.sessions.EnsureCSRFToken(r.Context(), w, r)
	if err != nil {
		pkghttp.WriteInternalError(w, "An error occurred")
		return
	}
	w.Header().Set(auth.CSRFHeader, token)
	pkghttp.WriteSuccess(w, http.StatusOK, "CSRF token issued", map[string]string{"csrf_token": token})
}
