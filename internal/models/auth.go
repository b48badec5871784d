package models

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenPayload is the claim set carried by a bearer token.
// All timestamps are Unix seconds.
type TokenPayload struct {
	Subject   int64  `json:"sub"`
	Name      string `json:"name"`
	Role      Role   `json:"role"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

func (p *TokenPayload) GetExpirationTime() (*jwt.NumericDate, error) {
	if p.ExpiresAt == 0 {
		return nil, nil
	}
	return jwt.NewNumericDate(time.Unix(p.ExpiresAt, 0)), nil
}

func (p *TokenPayload) GetIssuedAt() (*jwt.NumericDate, error) {
	if p.IssuedAt == 0 {
		return nil, nil
	}
	return jwt.NewNumericDate(time.Unix(p.IssuedAt, 0)), nil
}

func (p *TokenPayload) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }
func (p *TokenPayload) GetIssuer() (string, error)              { return "", nil }
func (p *TokenPayload) GetAudience() (jwt.ClaimStrings, error)  { return nil, nil }

func (p *TokenPayload) GetSubject() (string, error) {
	return strconv.FormatInt(p.Subject, 10), nil
}

// Session is the server-side record bound to a session cookie.
// UserID is zero for anonymous sessions that only carry a CSRF token.
type Session struct {
	UserID    int64     `json:"user_id,omitempty"`
	Username  string    `json:"username,omitempty"`
	Role      Role      `json:"role,omitempty"`
	LoginTime time.Time `json:"login_time,omitempty"`
	CSRFToken string    `json:"csrf_token,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Authenticated reports whether the session is bound to a user
func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != 0
}
