// Package cache provides the TTL byte cache used for whole rendered pages.
//
// Entries are never invalidated by writes to the store; they expire after
// their TTL or when Clear is called.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a key/value store of rendered bytes with per-entry TTL.
type Cache interface {
	// Get returns the cached bytes and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Clear removes the given keys, or every key owned by the cache when
	// called with none.
	Clear(ctx context.Context, keys ...string) error
}

// ErrNoPrefix is returned by Clear() on a cache without a key prefix, where
// a prefix scan would match every key in the database.
var ErrNoPrefix = errors.New("cache: clear all requires a key prefix")

// RedisCache stores entries under a common prefix so Clear() can find them.
type RedisCache struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisCache wraps a go-redis client. prefix namespaces every key.
func NewRedisCache(client redis.UniversalClient, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

func (c *RedisCache) key(k string) string { return c.prefix + k }

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, c.key(key), value, ttl).Err()
}

func (c *RedisCache) Clear(ctx context.Context, keys ...string) error {
	if len(keys) > 0 {
		full := make([]string, len(keys))
		for i, k := range keys {
			full[i] = c.key(k)
		}
		return c.client.Del(ctx, full...).Err()
	}

	if c.prefix == "" {
		return ErrNoPrefix
	}

	// SCAN instead of KEYS so a large keyspace does not block redis
	var batch []string
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 200).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 200 {
			if err := c.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return c.client.Del(ctx, batch...).Err()
	}
	return nil
}

// Ping checks connectivity at startup.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
