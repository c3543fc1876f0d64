// Package cache holds a read-through entity cache: records are cached
// by id plus one list key per collection, invalidated on every
// successful mutation. A nil or unreachable cache degrades to store
// reads.
package cache

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/elmarkeb/clinicdesk/pkg/logging"
)

// Cache is a Redis-backed entity cache. The zero value and nil are
// usable no-ops.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// New connects to Redis. An empty addr returns a disabled cache.
func New(addr, password string, useTLS bool, ttl time.Duration, logger *logging.Logger) *Cache {
	if logger == nil {
		logger = logging.Default()
	}
	if addr == "" {
		return nil
	}
	opts := &redis.Options{Addr: addr, Password: password}
	if useTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return &Cache{client: redis.NewClient(opts), ttl: ttl, logger: logger}
}

// NewWithClient wraps an existing client, used by tests.
func NewWithClient(client *redis.Client, ttl time.Duration, logger *logging.Logger) *Cache {
	if logger == nil {
		logger = logging.Default()
	}
	return &Cache{client: client, ttl: ttl, logger: logger}
}

// Get loads the cached value for key into out and reports a hit.
func (c *Cache) Get(ctx context.Context, key string, out any) bool {
	if c == nil || c.client == nil {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.logger.Warn("cache decode failed", "key", key, "error", err)
		return false
	}
	return true
}

// Set stores v under key for the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, v any) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("cache encode failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", "key", key, "error", err)
	}
}

// Invalidate drops the given keys after a successful mutation.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.client == nil || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("cache invalidate failed", "keys", keys, "error", err)
	}
}

// Close releases the underlying connection.
func (c *Cache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
