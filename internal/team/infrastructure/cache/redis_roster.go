// Package cache keeps interviewer rosters in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "hireflow:roster:"

// Source is the roster behind the cache.
type Source interface {
	Members(ctx context.Context, employerID string) ([]string, error)
}

// RedisCachedRoster caches roster lookups for ttl. Redis failures degrade to
// reading the source directly.
type RedisCachedRoster struct {
	client redis.UniversalClient
	source Source
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisCachedRoster wraps source with a Redis cache.
func NewRedisCachedRoster(client redis.UniversalClient, source Source, ttl time.Duration, logger *slog.Logger) *RedisCachedRoster {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisCachedRoster{client: client, source: source, ttl: ttl, logger: logger}
}

// Members returns the employer's interviewer IDs.
func (r *RedisCachedRoster) Members(ctx context.Context, employerID string) ([]string, error) {
	key := keyPrefix + employerID
	raw, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var ids []string
		if jsonErr := json.Unmarshal(raw, &ids); jsonErr == nil {
			return ids, nil
		}
		r.logger.Warn("discarding corrupt roster cache entry", "employer_id", employerID)
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("roster cache read failed", "employer_id", employerID, "error", err)
	}

	ids, err := r.source.Members(ctx, employerID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	encoded, err := json.Marshal(ids)
	if err != nil {
		return nil, err
	}
	if err := r.client.Set(ctx, key, encoded, r.ttl).Err(); err != nil {
		r.logger.Warn("roster cache write failed", "employer_id", employerID, "error", err)
	}
	return ids, nil
}

// Invalidate drops the cached roster after a membership change.
func (r *RedisCachedRoster) Invalidate(ctx context.Context, employerID string) error {
	return r.client.Del(ctx, keyPrefix+employerID).Err()
}
