package background

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/BradenHooton/tunevault/internal/metrics"
	"github.com/BradenHooton/tunevault/internal/models"
	"github.com/BradenHooton/tunevault/internal/sessionstore"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSessionSweeper_RemovesExpired(t *testing.T) {
	ctx := context.Background()
	store := sessionstore.NewMemoryStore()

	now := time.Now()
	_, err := store.Regenerate(ctx, "", &models.Session{UserID: 1, ExpiresAt: now.Add(-time.Minute)})
	require.NoError(t, err)
	_, err = store.Regenerate(ctx, "", &models.Session{UserID: 2, ExpiresAt: now.Add(time.Hour)})
	require.NoError(t, err)

	m := metrics.New()
	sweeper := NewSessionSweeper(store, m, discardLogger(), time.Hour)

	runCtx, cancel := context.WithCancel(ctx)
	cancel()
	require.NoError(t, sweeper.Run(runCtx))

	assert.Equal(t, 1, store.Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsSwept))
}

type countingStore struct {
	calls atomic.Int32
	err   error
}

func (c *countingStore) Sweep(context.Context, time.Time) (int, error) {
	c.calls.Add(1)
	return 0, c.err
}

func TestSessionSweeper_TicksUntilCancelled(t *testing.T) {
	store := &countingStore{err: errors.New("store down")}
	sweeper := NewSessionSweeper(store, nil, discardLogger(), 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sweeper.Run(ctx) }()

	require.Eventually(t, func() bool { return store.calls.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
