package sessionstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/BradenHooton/tunevault/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis connects to REDIS_ADDR (default localhost:6379) and skips
// the test when nothing answers.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("Redis not available for testing at %s: %v", addr, err)
	}

	t.Cleanup(func() { _ = client.Close() })
	return client
}

func testPrefix(t *testing.T) string {
	return "tunevault-test:" + t.Name() + ":"
}

func TestRedisStore_SaveAndGet(t *testing.T) {
	store := NewRedisStore(setupTestRedis(t), testPrefix(t))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "abc", liveSession(7)))
	t.Cleanup(func() { _ = store.Delete(ctx, "abc") })

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.UserID)
	assert.Equal(t, models.RoleUser, got.Role)
	assert.Equal(t, "csrf", got.CSRFToken)
}

func TestRedisStore_GetMissing(t *testing.T) {
	store := NewRedisStore(setupTestRedis(t), testPrefix(t))

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRedisStore_SaveExpiredFails(t *testing.T) {
	store := NewRedisStore(setupTestRedis(t), testPrefix(t))

	s := liveSession(7)
	s.ExpiresAt = time.Now().Add(-time.Second)
	assert.Error(t, store.Save(context.Background(), "abc", s))
}

func TestRedisStore_Regenerate(t *testing.T) {
	store := NewRedisStore(setupTestRedis(t), testPrefix(t))
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "old", liveSession(0)))

	id, err := store.Regenerate(ctx, "old", liveSession(7))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Delete(ctx, id) })

	_, err = store.Get(ctx, "old")
	assert.ErrorIs(t, err, models.ErrNotFound)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.UserID)
}

func TestRedisStore_Delete(t *testing.T) {
	store := NewRedisStore(setupTestRedis(t), testPrefix(t))
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "abc", liveSession(7)))

	require.NoError(t, store.Delete(ctx, "abc"))

	_, err := store.Get(ctx, "abc")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRedisStore_SweepIsNoop(t *testing.T) {
	store := NewRedisStore(setupTestRedis(t), testPrefix(t))

	removed, err := store.Sweep(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, removed)
}
