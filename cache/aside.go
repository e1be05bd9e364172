package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/abimdanu/openmusic-api/logger"
)

// Source tags where a cache-aside read was served from. It is surfaced
// to API clients (X-Data-Source header) so cache-served traffic can be
// told apart from database-served traffic.
type Source string

const (
	SourceCache    Source = "cache"
	SourceDatabase Source = "database"
)

// Fetch reads key cache-aside: on a hit the cached value is decoded and
// returned; on a miss loader is invoked against the database, its result
// is written back with the given TTL (best effort) and returned.
//
// A cache outage is downgraded to a miss so the read still succeeds off
// the database. A hit that fails to decode is corruption, not a miss,
// and is returned as an error rather than silently reloaded.
func Fetch[T any](ctx context.Context, store Store, key string, ttl time.Duration, loader func(context.Context) (T, error)) (T, Source, error) {
	var zero T

	raw, err := store.Get(ctx, key)
	if err == nil {
		var value T
		if derr := json.Unmarshal(raw, &value); derr != nil {
			return zero, SourceCache, fmt.Errorf("decode cached value for %q: %w", key, derr)
		}
		return value, SourceCache, nil
	}
	if !errors.Is(err, ErrMiss) {
		logger.Warn("cache get failed, falling back to database",
			logger.String("key", key),
			logger.ErrorField(err))
	}

	value, err := loader(ctx)
	if err != nil {
		return zero, SourceDatabase, err
	}

	if raw, merr := json.Marshal(value); merr == nil {
		if serr := store.Set(ctx, key, raw, ttl); serr != nil {
			logger.Warn("cache set failed",
				logger.String("key", key),
				logger.ErrorField(serr))
		}
	}

	return value, SourceDatabase, nil
}

// Mutate runs writer against the database and, only after it succeeds,
// deletes the given cache keys. The writer's error is propagated
// untouched; a failed write leaves the cache alone. The deletes are
// attempted synchronously before Mutate returns, and a delete failure
// is logged rather than surfaced so a cache outage cannot fail the
// mutation itself.
func Mutate(ctx context.Context, store Store, writer func(context.Context) error, keys ...string) error {
	if err := writer(ctx); err != nil {
		return err
	}

	for _, key := range keys {
		if err := store.Delete(ctx, key); err != nil {
			logger.Warn("cache invalidation failed",
				logger.String("key", key),
				logger.ErrorField(err))
		}
	}

	return nil
}
