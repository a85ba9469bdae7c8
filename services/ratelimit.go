package services

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"content-protect-assistant/internal/logger"
)

// Limiter gates chat requests per administrator
type Limiter interface {
	Allow(ctx context.Context, userID string) (bool, error)
}

// rateCounter is the expiring-counter primitive the limiter runs on. Redis
// provides it in production; tests substitute an in-memory counter.
type rateCounter interface {
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration)
}

type redisCounter struct {
	rdb *redis.Client
}

func (c redisCounter) Incr(ctx context.Context, key string) (int64, error) {
	return c.rdb.Incr(ctx, key).Result()
}

func (c redisCounter) Expire(ctx context.Context, key string, ttl time.Duration) {
	c.rdb.Expire(ctx, key, ttl)
}

// RateLimiter is a fixed-window counter backed by an expiring key per user.
// INCR is atomic, so concurrent requests from one admin cannot both slip
// under the cap; the counter may drift past the cap under rejected traffic,
// which never unblocks the user before the window expires.
type RateLimiter struct {
	counter rateCounter
	cap     int
	window  time.Duration
}

func NewRateLimiter(rdb *redis.Client, cap, windowSeconds int) *RateLimiter {
	return newRateLimiter(redisCounter{rdb: rdb}, cap, windowSeconds)
}

func newRateLimiter(counter rateCounter, cap, windowSeconds int) *RateLimiter {
	return &RateLimiter{
		counter: counter,
		cap:     cap,
		window:  time.Duration(windowSeconds) * time.Second,
	}
}

// Allow reports whether the admin may send another chat message in the
// current window. Counter failures fail open so a degraded cache never takes
// the assistant down with it.
func (l *RateLimiter) Allow(ctx context.Context, userID string) (bool, error) {
	key := "assistant:rate:" + userID

	count, err := l.counter.Incr(ctx, key)
	if err != nil {
		logger.Warn("rate limiter unavailable, failing open", "error", err)
		return true, err
	}

	// Set expiration on first request
	if count == 1 {
		l.counter.Expire(ctx, key, l.window)
	}

	return count <= int64(l.cap), nil
}
