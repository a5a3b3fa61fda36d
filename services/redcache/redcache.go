// Package redcache is a thin Redis wrapper used to cache derived report
// data. Everything in here is best-effort: a cache failure never fails
// the request that triggered it.
package redcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Client handles Redis operations for the report cache.
type Client struct {
	client *redis.Client
}

// New connects to Redis at addr (host:port or a redis:// URL) and
// verifies the connection.
func New(addr string, db int) (*Client, error) {
	var client *redis.Client
	if opt, err := redis.ParseURL(addr); err == nil {
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{Addr: addr, DB: db})
	}

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &Client{client: client}, nil
}

// Close gracefully closes the Redis connection.
func (c *Client) Close() error {
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("error closing Redis connection: %w", err)
	}
	return nil
}

// PlayerSummaryKey formats the cache key for a player's report summary.
func PlayerSummaryKey(playerID uint) string {
	return fmt.Sprintf("chipbook:report:player:%d", playerID)
}

// GetJSON loads key into dest. Returns false on miss or any error.
func (c *Client) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.WithError(err).WithField("key", key).Warn("report cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		log.WithError(err).WithField("key", key).Warn("report cache entry corrupt")
		return false
	}
	return true
}

// SetJSON stores value under key with the given TTL.
func (c *Client) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		log.WithError(err).WithField("key", key).Warn("report cache marshal failed")
		return
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		log.WithError(err).WithField("key", key).Warn("report cache write failed")
	}
}

// Invalidate removes the given keys.
func (c *Client) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.WithError(err).Warn("report cache invalidation failed")
	}
}
