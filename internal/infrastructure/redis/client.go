package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Nil is returned by Get when the key does not exist
var Nil = redis.Nil

// Client wraps the Redis client with the operations the record store needs
type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(url string) (*Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	rdb := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Get retrieves a value
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	return c.rdb.Get(ctx, key).Result()
}

// MGet retrieves several values; missing keys come back as nil entries
func (c *Client) MGet(ctx context.Context, keys ...string) ([]interface{}, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	return c.rdb.MGet(ctx, keys...).Result()
}

// SetXX overwrites a key only if it already exists
func (c *Client) SetXX(ctx context.Context, key string, value interface{}) (bool, error) {
	return c.rdb.SetXX(ctx, key, value, 0).Result()
}

// LRange returns list members between start and stop inclusive
func (c *Client) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return c.rdb.LRange(ctx, key, start, stop).Result()
}

// InsertIndexed stores value at key and appends member to listKey. It returns
// false without touching the list when key already exists.
func (c *Client) InsertIndexed(ctx context.Context, key string, value interface{}, listKey, member string) (bool, error) {
	ok, err := c.rdb.SetNX(ctx, key, value, 0).Result()
	if err != nil || !ok {
		return false, err
	}
	if err := c.rdb.RPush(ctx, listKey, member).Err(); err != nil {
		_ = c.rdb.Del(ctx, key).Err()
		return false, err
	}
	return true, nil
}

// Claim sets every key to value only if none of them exist yet. It is used for
// unique secondary indexes.
func (c *Client) Claim(ctx context.Context, value string, keys ...string) (bool, error) {
	pairs := make([]interface{}, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, k, value)
	}
	return c.rdb.MSetNX(ctx, pairs...).Result()
}

// Exists reports how many of the keys exist
func (c *Client) Exists(ctx context.Context, keys ...string) (int64, error) {
	return c.rdb.Exists(ctx, keys...).Result()
}

// Set stores a value without expiry
func (c *Client) Set(ctx context.Context, key string, value interface{}) error {
	return c.rdb.Set(ctx, key, value, 0).Err()
}

// Delete removes keys
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	return c.rdb.Del(ctx, keys...).Err()
}

// Ping checks connectivity
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// IsNil reports whether err is a missing-key reply
func IsNil(err error) bool {
	return errors.Is(err, redis.Nil)
}
