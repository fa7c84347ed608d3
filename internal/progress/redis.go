package progress

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/castwave/castwave/internal/cache"
)

// snapshotTTL bounds how long a finished run's progress lingers.
const snapshotTTL = time.Hour

// RedisStore shares snapshots between the API and worker processes.
type RedisStore struct {
	cache *cache.Cache
}

// NewRedisStore wraps a cache client.
func NewRedisStore(c *cache.Cache) *RedisStore {
	return &RedisStore{cache: c}
}

func key(runID string) string { return "progress:" + runID }

func (s *RedisStore) Set(ctx context.Context, snap Snapshot) error {
	return s.cache.Set(ctx, key(snap.RunID), snap, snapshotTTL)
}

func (s *RedisStore) Get(ctx context.Context, runID string) (Snapshot, bool, error) {
	var snap Snapshot
	err := s.cache.Get(ctx, key(runID), &snap)
	if errors.Is(err, redis.Nil) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, err
	}
	return snap, true, nil
}

func (s *RedisStore) Delete(ctx context.Context, runID string) error {
	return s.cache.Delete(ctx, key(runID))
}
