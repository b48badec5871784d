package auth_test

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/BradenHooton/tunevault/internal/auth"
	"github.com/BradenHooton/tunevault/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-32-characters-long!!"

func testUser() *models.User {
	return &models.User{ID: 42, Username: "alice", Role: models.RoleAdmin}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTokenManager_IssueAndValidate(t *testing.T) {
	tm := auth.NewTokenManager(testSecret, time.Hour)

	token, issued, err := tm.Issue(testUser())
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	payload, err := tm.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), payload.Subject)
	assert.Equal(t, "alice", payload.Name)
	assert.Equal(t, models.RoleAdmin, payload.Role)
	assert.Equal(t, issued.ExpiresAt, payload.ExpiresAt)
	assert.Equal(t, payload.IssuedAt+3600, payload.ExpiresAt)
}

func TestTokenManager_HeaderBytes(t *testing.T) {
	tm := auth.NewTokenManager(testSecret, time.Hour)

	token, _, err := tm.Issue(testUser())
	require.NoError(t, err)

	header, err := base64.RawURLEncoding.DecodeString(strings.Split(token, ".")[0])
	require.NoError(t, err)
	assert.Equal(t, `{"typ":"JWT","alg":"HS256"}`, string(header))
	assert.NotContains(t, token, "=")
}

func TestTokenManager_PayloadFields(t *testing.T) {
	now := time.Unix(1700000000, 0)
	tm := auth.NewTokenManager(testSecret, 7*24*time.Hour).WithClock(fixedClock(now))

	token, _, err := tm.Issue(testUser())
	require.NoError(t, err)

	body, err := base64.RawURLEncoding.DecodeString(strings.Split(token, ".")[1])
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"sub":42,"name":"alice","role":"admin","iat":1700000000,"exp":1700604800}`,
		string(body))
}

func TestTokenManager_TamperedPayloadRejected(t *testing.T) {
	tm := auth.NewTokenManager(testSecret, time.Hour)
	token, _, err := tm.Issue(testUser())
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	payload := []byte(parts[1])
	for i := range payload {
		tampered := make([]byte, len(payload))
		copy(tampered, payload)
		if tampered[i] == 'A' {
			tampered[i] = 'B'
		} else {
			tampered[i] = 'A'
		}
		candidate := parts[0] + "." + string(tampered) + "." + parts[2]

		_, err := tm.Validate(candidate)
		assert.ErrorIs(t, err, auth.ErrInvalidToken, "tampered byte %d accepted", i)
	}
}

func TestTokenManager_WrongSecretRejected(t *testing.T) {
	token, _, err := auth.NewTokenManager(testSecret, time.Hour).Issue(testUser())
	require.NoError(t, err)

	_, err = auth.NewTokenManager("another-secret-of-enough-length", time.Hour).Validate(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenManager_ExpiredRejected(t *testing.T) {
	issuedAt := time.Unix(1700000000, 0)
	tm := auth.NewTokenManager(testSecret, time.Hour).WithClock(fixedClock(issuedAt))
	token, _, err := tm.Issue(testUser())
	require.NoError(t, err)

	tm.WithClock(fixedClock(issuedAt.Add(time.Hour)))
	_, err = tm.Validate(token)
	assert.NoError(t, err, "token must be accepted at its exp second")

	tm.WithClock(fixedClock(issuedAt.Add(time.Hour + time.Second)))
	_, err = tm.Validate(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenManager_MalformedRejected(t *testing.T) {
	tm := auth.NewTokenManager(testSecret, time.Hour)

	for _, token := range []string{"", "abc", "a.b", "a.b.c.d", "not.a.token"} {
		_, err := tm.Validate(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken, "token %q", token)
	}
}

func TestTokenManager_IssueRequiresIdentity(t *testing.T) {
	tm := auth.NewTokenManager(testSecret, time.Hour)

	_, _, err := tm.Issue(&models.User{Username: "ghost"})
	assert.ErrorIs(t, err, models.ErrInvalidUser)

	_, _, err = tm.Issue(nil)
	assert.ErrorIs(t, err, models.ErrInvalidUser)
}

func signPayload(t *testing.T, payload string) string {
	t.Helper()
	signingString := base64.RawURLEncoding.EncodeToString([]byte(`{"typ":"JWT","alg":"HS256"}`)) + "." +
		base64.RawURLEncoding.EncodeToString([]byte(payload))
	sig, err := jwt.SigningMethodHS256.Sign(signingString, []byte(testSecret))
	require.NoError(t, err)
	return signingString + "." + base64.RawURLEncoding.EncodeToString(sig)
}

func TestTokenManager_IncompletePayloadRejected(t *testing.T) {
	tm := auth.NewTokenManager(testSecret, time.Hour).WithClock(fixedClock(time.Unix(1700000000, 0)))

	_, err := tm.Validate(signPayload(t, `{"sub":1,"name":"a","role":"user","iat":1700000000,"exp":1700003600}`))
	require.NoError(t, err, "complete payload must be accepted")

	tests := []struct {
		name    string
		payload string
	}{
		{"missing exp", `{"sub":1,"name":"a","role":"user","iat":1700000000}`},
		{"zero subject", `{"sub":0,"name":"a","role":"user","iat":1700000000,"exp":1700003600}`},
		{"missing subject", `{"name":"a","role":"user","iat":1700000000,"exp":1700003600}`},
		{"unknown role", `{"sub":1,"name":"a","role":"root","iat":1700000000,"exp":1700003600}`},
		{"missing role", `{"sub":1,"name":"a","iat":1700000000,"exp":1700003600}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tm.Validate(signPayload(t, tt.payload))
			assert.ErrorIs(t, err, auth.ErrInvalidToken)
		})
	}
}
