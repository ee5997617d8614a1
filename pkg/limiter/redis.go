package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed-window counter: maxFailures failed attempts within
// window lock the (identifier, ip) bucket until the window lapses.
type RedisLimiter struct {
	redis       *redis.Client
	maxFailures int
	window      time.Duration
}

var _ Limiter = (*RedisLimiter)(nil)

func NewRedisLimiter(client *redis.Client, maxFailures int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		redis:       client,
		maxFailures: maxFailures,
		window:      window,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, identifier, ip string) (bool, error) {
	count, err := l.redis.Get(ctx, l.key(identifier, ip)).Int()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read limiter counter: %w", err)
	}

	return count < l.maxFailures, nil
}

func (l *RedisLimiter) Failure(ctx context.Context, identifier, ip string) error {
	k := l.key(identifier, ip)

	count, err := l.redis.Incr(ctx, k).Result()
	if err != nil {
		return fmt.Errorf("failed to increment limiter counter: %w", err)
	}

	// Start the window at the first failure; later failures keep the original
	// deadline.
	if count == 1 {
		if err := l.redis.Expire(ctx, k, l.window).Err(); err != nil {
			return fmt.Errorf("failed to set limiter window: %w", err)
		}
	}

	return nil
}

func (l *RedisLimiter) Success(ctx context.Context, identifier, ip string) error {
	if err := l.redis.Del(ctx, l.key(identifier, ip)).Err(); err != nil {
		return fmt.Errorf("failed to reset limiter counter: %w", err)
	}
	return nil
}

func (l *RedisLimiter) key(identifier, ip string) string {
	return "login:fail:" + key(identifier, ip)
}
