package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed-window counter backed by a shared Redis store,
// for deployments with more than one engine instance. Same admission
// semantics as MemoryLimiter; keys expire instead of being swept.
type RedisLimiter struct {
	client    *redis.Client
	limit     int
	retention time.Duration
	now       func() time.Time
}

// NewRedisLimiter creates a Redis-backed limiter.
func NewRedisLimiter(addr string, perMinute int, retention time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client:    redis.NewClient(&redis.Options{Addr: addr}),
		limit:     perMinute,
		retention: retention,
		now:       time.Now,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, identity string) (bool, time.Duration, error) {
	now := l.now()
	key := fmt.Sprintf("ratelimit:%s:%d", identity, minuteBucket(now).Unix())

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, fmt.Errorf("rate limit counter: %w", err)
	}
	if count == 1 {
		// First hit in this window; bound the key's lifetime.
		if err := l.client.Expire(ctx, key, l.retention).Err(); err != nil {
			return false, 0, fmt.Errorf("rate limit expiry: %w", err)
		}
	}
	if count > int64(l.limit) {
		return false, untilNextMinute(now), nil
	}
	return true, 0, nil
}

// Close releases the underlying Redis connection.
func (l *RedisLimiter) Close() error {
	return l.client.Close()
}
