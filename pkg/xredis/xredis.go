package xredis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/thefund-gallery/backend/config"
)

func NewClient(cfg config.RedisConfigs) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}

	return redis.NewClient(&redis.Options{Addr: cfg.Addr})
}

// ErrLimitExceeded is returned when a key went over its allowed attempts for the window.
var ErrLimitExceeded = fmt.Errorf("rate limit exceeded")

// RateLimiter is a fixed-window counter, used to slow down credential
// stuffing on the login endpoint.
type RateLimiter interface {
	Allow(ctx context.Context, key string) error
}

func NewRateLimiter(client *redis.Client, limit int, window time.Duration) RateLimiter {
	if client == nil || limit <= 0 {
		return nopLimiter{}
	}

	return &redisLimiter{client: client, limit: limit, window: window}
}

type redisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func (l *redisLimiter) Allow(ctx context.Context, key string) error {
	fullKey := "ratelimit:" + key
	count, err := l.client.Incr(ctx, fullKey).Result()
	if err != nil {
		return err
	}

	if count == 1 {
		if err := l.client.Expire(ctx, fullKey, l.window).Err(); err != nil {
			return err
		}
	}

	if count > int64(l.limit) {
		return ErrLimitExceeded
	}

	return nil
}

type nopLimiter struct{}

func (nopLimiter) Allow(context.Context, string) error {
	return nil
}
