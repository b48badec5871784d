package sessionstore

import (
	"context"
	"sync"
	"time"

	"github.com/BradenHooton/tunevault/internal/auth"
	"github.com/BradenHooton/tunevault/internal/models"
)

var _ auth.SessionStore = (*MemoryStore)(nil)

// MemoryStore keeps sessions in process memory. Records are copied in and
// out so callers never share state with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]models.Session),
		now:      time.Now,
	}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*models.Session, error) {
	if id == "" {
		return nil, models.ErrNotFound
	}

	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, models.ErrNotFound
	}
	if !s.ExpiresAt.After(m.now()) {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
		return nil, models.ErrNotFound
	}
	return &s, nil
}

func (m *MemoryStore) Save(_ context.Context, id string, s *models.Session) error {
	if id == "" {
		return errEmptyID
	}

	m.mu.Lock()
	m.sessions[id] = *s
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Regenerate(_ context.Context, oldID string, s *models.Session) (string, error) {
	id := newID()

	m.mu.Lock()
	defer m.mu.Unlock()

	if oldID != "" {
		delete(m.sessions, oldID)
	}
	m.sessions[id] = *s
	return id, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Sweep(_ context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if !s.ExpiresAt.After(now) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// Len reports the number of stored records, expired ones included
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
