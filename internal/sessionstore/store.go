// Package sessionstore provides the server-side session backends used by the
// auth resolver: an in-process map and Redis.
package sessionstore

import (
	"errors"

	"github.com/google/uuid"
)

var errEmptyID = errors.New("session id cannot be empty")

// newID mints an opaque session identifier
func newID() string {
	return uuid.NewString()
}
