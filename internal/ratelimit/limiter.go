// Package ratelimit implements a fixed-window request counter in Redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter allows at most limit calls per key within each window.
type Limiter struct {
	client *redis.Client
	prefix string
	limit  int64
	window time.Duration
}

// NewLimiter connects to redisURL and creates a Limiter.
func NewLimiter(redisURL, prefix string, limit int, window time.Duration) (*Limiter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewLimiterWithClient(client, prefix, limit, window), nil
}

// NewLimiterWithClient creates a Limiter on an existing client.
func NewLimiterWithClient(client *redis.Client, prefix string, limit int, window time.Duration) *Limiter {
	return &Limiter{client: client, prefix: prefix, limit: int64(limit), window: window}
}

// Allow counts a call for key and reports whether it is within the limit.
// The window is attached in the same transaction as the increment, and only
// when the key has none, so a counter can never outlive its window.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.prefix + key
	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, l.window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("count %s: %w", k, err)
	}
	return incr.Val() <= l.limit, nil
}

// Close releases the Redis connection.
func (l *Limiter) Close() error {
	return l.client.Close()
}
