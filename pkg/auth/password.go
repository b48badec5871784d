package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultBcryptCost = 10
	MinPasswordLen    = 6
	MaxPasswordLen    = 72 // bcrypt ignores input beyond 72 bytes
)

// PasswordValidationError describes why a password was rejected
type PasswordValidationError struct {
	Reason string
}

func (e *PasswordValidationError) Error() string {
	return e.Reason
}

// PasswordHasher hashes and verifies passwords with bcrypt at a fixed cost
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher using cost, or DefaultBcryptCost when cost is
// outside bcrypt's accepted range.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &PasswordHasher{cost: cost}
}

// Cost returns the bcrypt work factor in use
func (h *PasswordHasher) Cost() int {
	return h.cost
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// Compare runs in constant time with respect to the password contents
func (h *PasswordHasher) Compare(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// ValidatePassword enforces the account password policy
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLen {
		return &PasswordValidationError{
			Reason: fmt.Sprintf("Password must be at least %d characters long", MinPasswordLen),
		}
	}
	if len(password) > MaxPasswordLen {
		return &PasswordValidationError{
			Reason: fmt.Sprintf("Password must be at most %d characters long", MaxPasswordLen),
		}
	}
	return nil
}

// RandomHex returns n random bytes encoded as hex
func RandomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}
