package auth

import (
	"context"
	"time"

	"github.com/BradenHooton/tunevault/internal/models"
)

// SessionStore holds server-side session records keyed by an opaque id.
// Get returns models.ErrNotFound for unknown or expired ids.
type SessionStore interface {
	Get(ctx context.Context, id string) (*models.Session, error)
	Save(ctx context.Context, id string, s *models.Session) error
	// Regenerate drops oldID (if any) and stores s under a freshly minted id
	Regenerate(ctx context.Context, oldID string, s *models.Session) (string, error)
	Delete(ctx context.Context, id string) error
	// Sweep removes records that expired before now and reports how many
	Sweep(ctx context.Context, now time.Time) (int, error)
}
