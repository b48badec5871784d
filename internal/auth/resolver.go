package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/BradenHooton/tunevault/internal/models"
)

// Source identifies which credential established the caller's identity
type Source int

const (
	Unauthenticated Source = iota
	ViaToken
	ViaSession
)

func (s Source) String() string {
	switch s {
	case ViaToken:
		return "token"
	case ViaSession:
		return "session"
	default:
		return "none"
	}
}

// Outcome is the result of resolving a request's identity. Exactly one of
// Token or Session is populated when Source is not Unauthenticated, and all
// identity accessors read from that one source.
type Outcome struct {
	Source  Source
	Token   *models.TokenPayload
	Session *models.Session

	// SessionID is set whenever the request carried a live session cookie,
	// including anonymous sessions that only hold a CSRF token.
	SessionID string

	// BearerRejected is set when a bearer token was presented but failed
	// validation.
	BearerRejected bool
}

func (o Outcome) Authenticated() bool {
	return o.Source != Unauthenticated
}

func (o Outcome) UserID() int64 {
	switch o.Source {
	case ViaToken:
		return o.Token.Subject
	case ViaSession:
		return o.Session.UserID
	}
	return 0
}

func (o Outcome) Username() string {
	switch o.Source {
	case ViaToken:
		return o.Token.Name
	case ViaSession:
		return o.Session.Username
	}
	return ""
}

func (o Outcome) Role() models.Role {
	switch o.Source {
	case ViaToken:
		return o.Token.Role
	case ViaSession:
		return o.Session.Role
	}
	return ""
}

func (o Outcome) IsAdmin() bool {
	return o.Authenticated() && o.Role() == models.RoleAdmin
}

// ResolverConfig tunes session handling
type ResolverConfig struct {
	SessionLifetime time.Duration
	Cookie          CookieConfig
	// StrictBearer makes an invalid bearer token fail the request instead of
	// falling back to the session cookie
	StrictBearer bool
}

// Resolver answers "who is calling" using a bearer token or a session cookie
type Resolver struct {
	tokens   *TokenManager
	sessions SessionStore
	config   ResolverConfig
	logger   *slog.Logger
	now      func() time.Time
}

func NewResolver(tokens *TokenManager, sessions SessionStore, config ResolverConfig, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		tokens:   tokens,
		sessions: sessions,
		config:   config,
		logger:   logger,
		now:      time.Now,
	}
}

// Resolve determines the caller's identity. A valid bearer token wins over
// the session. An invalid one falls through to the session unless the
// resolver runs in strict mode. Failures never abort the request here.
func (rs *Resolver) Resolve(r *http.Request) Outcome {
	var out Outcome

	if token, ok := ResolveToken(r); ok {
		payload, err := rs.tokens.Validate(token)
		if err == nil {
			out.Source = ViaToken
			out.Token = payload
		} else {
			out.BearerRejected = true
			rs.logger.Debug("bearer token rejected", slog.String("reason", err.Error()))
		}
	}

	id, session := rs.lookupSession(r)
	if session != nil {
		out.SessionID = id
	}

	if out.Source == ViaToken {
		return out
	}
	if out.BearerRejected && rs.config.StrictBearer {
		return out
	}

	if session.Authenticated() {
		out.Source = ViaSession
		out.Session = session
	}
	return out
}

func (rs *Resolver) IsAuthenticated(r *http.Request) bool {
	return rs.Resolve(r).Authenticated()
}

func (rs *Resolver) IsAdmin(r *http.Request) bool {
	return rs.Resolve(r).IsAdmin()
}

// CurrentUserID returns the caller's user id, bearer subject first
func (rs *Resolver) CurrentUserID(r *http.Request) (int64, bool) {
	out := rs.Resolve(r)
	if !out.Authenticated() {
		return 0, false
	}
	return out.UserID(), true
}

func (rs *Resolver) lookupSession(r *http.Request) (string, *models.Session) {
	id, ok := SessionIDFromRequest(r, rs.config.Cookie)
	if !ok {
		return "", nil
	}

	session, err := rs.sessions.Get(r.Context(), id)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			rs.logger.Error("session lookup failed", slog.String("error", err.Error()))
		}
		return "", nil
	}
	return id, session
}

// LoginResult carries the credentials minted by Login
type LoginResult struct {
	Token     string
	Payload   *models.TokenPayload
	SessionID string
	CSRFToken string
}

// Login binds user to a fresh session id, sets the session cookie and issues
// a bearer token. Any session id presented by the request is discarded.
func (rs *Resolver) Login(ctx context.Context, w http.ResponseWriter, r *http.Request, user *models.User) (*LoginResult, error) {
	if user == nil || user.ID == 0 {
		return nil, models.ErrInvalidUser
	}

	csrf, err := NewCSRFToken()
	if err != nil {
		return nil, err
	}

	now := rs.now()
	session := &models.Session{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		LoginTime: now,
		CSRFToken: csrf,
		ExpiresAt: now.Add(rs.config.SessionLifetime),
	}

	oldID, _ := SessionIDFromRequest(r, rs.config.Cookie)
	id, err := rs.sessions.Regenerate(ctx, oldID, session)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStore, err)
	}

	token, payload, err := rs.tokens.Issue(user)
	if err != nil {
		_ = rs.sessions.Delete(ctx, id)
		return nil, err
	}

	SetSessionCookie(w, id, rs.config.SessionLifetime, rs.config.Cookie)

	return &LoginResult{
		Token:     token,
		Payload:   payload,
		SessionID: id,
		CSRFToken: csrf,
	}, nil
}

// Logout destroys the session record and expires the cookie. Bearer tokens
// issued earlier stay valid until their exp.
func (rs *Resolver) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	ClearSessionCookie(w, rs.config.Cookie)

	id, ok := SessionIDFromRequest(r, rs.config.Cookie)
	if !ok {
		return nil
	}
	if err := rs.sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", models.ErrStore, err)
	}
	return nil
}

// EnsureCSRFToken returns the CSRF token of the caller's session, creating an
// anonymous session when the request has none.
func (rs *Resolver) EnsureCSRFToken(ctx context.Context, w http.ResponseWriter, r *http.Request) (string, error) {
	id, session := rs.lookupSession(r)

	if session != nil && session.CSRFToken != "" {
		return session.CSRFToken, nil
	}

	csrf, err := NewCSRFToken()
	if err != nil {
		return "", err
	}

	if session != nil {
		session.CSRFToken = csrf
		if err := rs.sessions.Save(ctx, id, session); err != nil {
			return "", fmt.Errorf("%w: %v", models.ErrStore, err)
		}
		return csrf, nil
	}

	session = &models.Session{
		CSRFToken: csrf,
		ExpiresAt: rs.now().Add(rs.config.SessionLifetime),
	}
	id, err = rs.sessions.Regenerate(ctx, "", session)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrStore, err)
	}
	SetSessionCookie(w, id, rs.config.SessionLifetime, rs.config.Cookie)

	return csrf, nil
}

// SessionCSRFToken returns the CSRF token bound to the request's session
func (rs *Resolver) SessionCSRFToken(r *http.Request) (string, bool) {
	_, session := rs.lookupSession(r)
	if session == nil || session.CSRFToken == "" {
		return "", false
	}
	return session.CSRFToken, true
}
