// Package realtime keeps short-lived per-slug click counters in Redis for
// live dashboard reads. The counters are best-effort: the durable record of
// every click lives in the analytics ledger.
package realtime

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"shortlink/internal/config"
)

type Counter struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCounter(ctx context.Context, cfg *config.RedisConfig) (*Counter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Counter{
		client: client,
		ttl:    time.Duration(cfg.CounterTTL) * time.Second,
	}, nil
}

func (c *Counter) Close() error {
	return c.client.Close()
}

// Incr bumps the rolling counter for slug. The TTL is set on the first
// increment of a window so idle slugs expire on their own.
func (c *Counter) Incr(ctx context.Context, slug string) error {
	key := counterKey(slug)
	n, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to increment realtime counter: %w", err)
	}
	if n == 1 {
		c.client.Expire(ctx, key, c.ttl)
	}
	return nil
}

// Get reads the current window's count for slug; a missing key reads as 0.
func (c *Counter) Get(ctx context.Context, slug string) (int64, error) {
	n, err := c.client.Get(ctx, counterKey(slug)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read realtime counter: %w", err)
	}
	return n, nil
}

func counterKey(slug string) string {
	return "clicks:realtime:" + slug
}
