// Package cache provides a redis read-through cache of the keyset
// collection. Every page view filters the same full collection in memory,
// so the whole list is cached under one key and invalidated on any catalog
// write. Cache failures degrade to the database and are logged, never
// surfaced.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/keycaplendar/api/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const keysetsKey = "keysets:all"

// KeysetCache caches the full keyset collection in redis
type KeysetCache struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// New connects to redis and verifies the connection
func New(ctx context.Context, addr, password string, ttl time.Duration, log zerolog.Logger) (*KeysetCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, err
	}

	log.Info().Str("addr", addr).Dur("ttl", ttl).Msg("Keyset cache connected")
	return &KeysetCache{
		client: client,
		ttl:    ttl,
		log:    log.With().Str("component", "cache").Logger(),
	}, nil
}

// Get returns the cached collection, if present. A nil receiver (cache
// disabled) always misses.
func (c *KeysetCache) Get(ctx context.Context) ([]models.Keyset, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, keysetsKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Msg("Cache read failed")
		}
		return nil, false
	}
	var keysets []models.Keyset
	if err := json.Unmarshal(data, &keysets); err != nil {
		c.log.Warn().Err(err).Msg("Cache entry corrupt, dropping")
		c.client.Del(ctx, keysetsKey)
		return nil, false
	}
	return keysets, true
}

// Set stores the collection
func (c *KeysetCache) Set(ctx context.Context, keysets []models.Keyset) {
	if c == nil {
		return
	}
	data, err := json.Marshal(keysets)
	if err != nil {
		c.log.Warn().Err(err).Msg("Cache marshal failed")
		return
	}
	if err := c.client.Set(ctx, keysetsKey, data, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Msg("Cache write failed")
	}
}

// Invalidate drops the cached collection; called after every catalog write
func (c *KeysetCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, keysetsKey).Err(); err != nil {
		c.log.Warn().Err(err).Msg("Cache invalidation failed")
	}
}

// Close releases the redis connection
func (c *KeysetCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
