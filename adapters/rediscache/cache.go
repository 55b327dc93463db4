// Package rediscache caches published generations in Redis, keyed by week.
package rediscache

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"luckystat/internal/errors"
	"luckystat/models"
	"luckystat/ports"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "luckystat:results:"

// Cache implements ports.ResultCache on a Redis client
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.ResultCache = (*Cache)(nil)

// New wraps an existing client
func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Open parses a redis:// URL, connects and pings the server
func Open(ctx context.Context, url string, ttl time.Duration) (*Cache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.ExternalServiceError("redis", err)
	}
	return New(client, ttl), nil
}

// Key is the Redis key holding the generation of a week
func Key(weekKey string) string {
	return keyPrefix + weekKey
}

// Get returns the cached record of a week; ok is false on a miss
func (c *Cache) Get(ctx context.Context, weekKey string) (*models.ResultRecord, bool, error) {
	raw, err := c.client.Get(ctx, Key(weekKey)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.ExternalServiceError("redis", err)
	}

	var rec models.ResultRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		// a value we cannot read is treated as absent and overwritten on the next Set
		return nil, false, nil
	}
	return &rec, true, nil
}

// Set stores the record under its week key with the configured TTL
func (c *Cache) Set(ctx context.Context, record models.ResultRecord) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return errors.Wrap(err, "encode cached results")
	}
	if err := c.client.Set(ctx, Key(record.Week.Key()), raw, c.ttl).Err(); err != nil {
		return errors.ExternalServiceError("redis", err)
	}
	return nil
}

// Invalidate drops the cached record of a week
func (c *Cache) Invalidate(ctx context.Context, weekKey string) error {
	if err := c.client.Del(ctx, Key(weekKey)).Err(); err != nil {
		return errors.ExternalServiceError("redis", err)
	}
	return nil
}

// Ping checks the server is reachable
func (c *Cache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return errors.ExternalServiceError("redis", err)
	}
	return nil
}

// Close releases the client connections
func (c *Cache) Close() error {
	return c.client.Close()
}
