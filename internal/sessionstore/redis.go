package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/BradenHooton/tunevault/internal/auth"
	"github.com/BradenHooton/tunevault/internal/models"
	"github.com/redis/go-redis/v9"
)

var _ auth.SessionStore = (*RedisStore)(nil)

// DefaultRedisPrefix namespaces session keys
const DefaultRedisPrefix = "tunevault:session:"

// RedisStore persists sessions as JSON with a TTL derived from ExpiresAt,
// so expiry is handled by Redis itself.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

func (s *RedisStore) Get(ctx context.Context, id string) (*models.Session, error) {
	if id == "" {
		return nil, models.ErrNotFound
	}

	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}

	if !sess.ExpiresAt.After(time.Now()) {
		if err := s.Delete(ctx, id); err != nil {
			return nil, fmt.Errorf("cleanup expired session: %w", err)
		}
		return nil, models.ErrNotFound
	}

	return &sess, nil
}

func encodeWithTTL(sess *models.Session) ([]byte, time.Duration, error) {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return nil, 0, errors.New("session is expired")
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return nil, 0, fmt.Errorf("marshal session: %w", err)
	}
	return data, ttl, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, sess *models.Session) error {
	if id == "" {
		return errEmptyID
	}

	data, ttl, err := encodeWithTTL(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(id), data, ttl).Err()
}

func (s *RedisStore) Regenerate(ctx context.Context, oldID string, sess *models.Session) (string, error) {
	data, ttl, err := encodeWithTTL(sess)
	if err != nil {
		return "", err
	}

	id := newID()
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if oldID != "" {
			pipe.Del(ctx, s.key(oldID))
		}
		pipe.Set(ctx, s.key(id), data, ttl)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("redis regenerate: %w", err)
	}
	return id, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.client.Del(ctx, s.key(id)).Err()
}

// Sweep is a no-op: Redis expires keys on its own.
func (s *RedisStore) Sweep(context.Context, time.Time) (int, error) {
	return 0, nil
}

// Ping checks connectivity
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
