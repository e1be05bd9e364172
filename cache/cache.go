// Package cache provides the Redis-backed key-value store and the
// cache-aside helpers the catalog services are built on.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Store.Get when the key is absent. Absence is a
// distinguishable outcome, not an empty value.
var ErrMiss = errors.New("cache: key not found")

// Store is the narrow key-value interface the services consume. Values
// are opaque byte strings with a TTL.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// RedisStore implements Store on a Redis client.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a RedisStore around an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get returns the value stored under key, or ErrMiss if absent.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, err
	}
	return val, nil
}

// Set stores value under key with the given TTL.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

// Delete removes key. Deleting an absent key is not an error.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// AlbumKey is the cache key for an album's aggregate projection
// (album row plus denormalized song list).
func AlbumKey(albumID string) string {
	return "albums:" + albumID
}

// AlbumLikesKey is the cache key for an album's like count. The count
// lives under its own key so the two payload shapes never share one.
func AlbumLikesKey(albumID string) string {
	return "album-likes:" + albumID
}
