package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/BradenHooton/tunevault/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any bearer token that fails validation
var ErrInvalidToken = errors.New("invalid bearer token")

// tokenHeader is emitted byte-for-byte so tokens match existing clients
const tokenHeader = `{"typ":"JWT","alg":"HS256"}`

// TokenManager issues and validates HS256 bearer tokens
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager creates a new TokenManager
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock replaces the time source. Intended for tests.
func (tm *TokenManager) WithClock(now func() time.Time) *TokenManager {
	tm.now = now
	return tm
}

// TTL returns the lifetime of issued tokens
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// Issue signs a token for user valid from now until now+TTL
func (tm *TokenManager) Issue(user *models.User) (string, *models.TokenPayload, error) {
	if user == nil || user.ID == 0 {
		return "", nil, models.ErrInvalidUser
	}

	now := tm.now()
	payload := &models.TokenPayload{
		Subject:   user.ID,
		Name:      user.Username,
		Role:      user.Role,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(tm.ttl).Unix(),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode token payload: %w", err)
	}

	signingString := base64.RawURLEncoding.EncodeToString([]byte(tokenHeader)) + "." +
		base64.RawURLEncoding.EncodeToString(body)

	sig, err := jwt.SigningMethodHS256.Sign(signingString, tm.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return signingString + "." + base64.RawURLEncoding.EncodeToString(sig), payload, nil
}

// Validate checks signature and expiry and returns the decoded payload.
// A token is accepted up to and including its exp second.
func (tm *TokenManager) Validate(token string) (*models.TokenPayload, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(time.Second),
		jwt.WithTimeFunc(tm.now),
	)

	payload := &models.TokenPayload{}
	_, err := parser.ParseWithClaims(token, payload, func(*jwt.Token) (any, error) {
		return tm.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if payload.Subject == 0 {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	if !payload.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, payload.Role)
	}

	return payload, nil
}
