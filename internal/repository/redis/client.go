package redis

import (
	"context"
	"fmt"

	"github.com/floorsight/floorsight/internal/config"
	"github.com/redis/go-redis/v9"
)

// Client wraps the Redis client. Redis holds only ephemeral operational
// state (analysis cache entries, rate-limit counters), never conversations.
type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client and verifies connectivity
func NewClient(cfg config.RedisConfig) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
