package auth

import (
	"crypto/subtle"

	pkgauth "github.com/BradenHooton/tunevault/pkg/auth"
)

// CSRFHeader is the request header clients echo the session's token in
const CSRFHeader = "X-CSRF-Token"

const csrfTokenBytes = 32

// NewCSRFToken returns a 64 character hex token
func NewCSRFToken() (string, error) {
	return pkgauth.RandomHex(csrfTokenBytes)
}

// ValidCSRFToken compares the session token with the one the client sent in
// constant time. An empty expected token never matches.
func ValidCSRFToken(expected, provided string) bool {
	if expected == "" || provided == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(provided)) == 1
}
