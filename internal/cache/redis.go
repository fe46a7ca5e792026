// internal/cache/redis.go
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps the Redis connection used for short-lived aggregate
// caches. A nil *Client is a valid no-cache configuration.
type Client struct {
	Redis *redis.Client
}

func NewClient(rdb *redis.Client) *Client {
	return &Client{Redis: rdb}
}

// Set stores a key-value pair with expiration.
func (c *Client) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return c.Redis.Set(ctx, key, value, expiration).Err()
}

// Get returns the value for key, or an empty string on a miss.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	val, err := c.Redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

// Delete removes keys.
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	return c.Redis.Del(ctx, keys...).Err()
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.Redis.Close()
}
