package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jengzang/safeguard-backend/pkg/response"
)

// Limiter decides whether one more request for key fits in the current window
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimiter implements a sliding-window limiter in process memory
type RateLimiter struct {
	requests map[string][]time.Time
	mu       sync.Mutex
	limit    int           // Maximum requests per window
	window   time.Duration // Time window
}

// NewRateLimiter creates a new rate limiter. Stale entries are swept until ctx is done.
func NewRateLimiter(ctx context.Context, limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
	}

	go rl.cleanup(ctx)

	return rl
}

// cleanup removes old entries periodically
func (rl *RateLimiter) cleanup(ctx context.Context) {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		rl.mu.Lock()
		now := time.Now()
		for key, times := range rl.requests {
			valid := rl.prune(times, now)
			if len(valid) == 0 {
				delete(rl.requests, key)
			} else {
				rl.requests[key] = valid
			}
		}
		rl.mu.Unlock()
	}
}

func (rl *RateLimiter) prune(times []time.Time, now time.Time) []time.Time {
	var valid []time.Time
	for _, t := range times {
		if now.Sub(t) < rl.window {
			valid = append(valid, t)
		}
	}
	return valid
}

// Allow implements Limiter
func (rl *RateLimiter) Allow(_ context.Context, key string) (bool, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	valid := rl.prune(rl.requests[key], now)
	if len(valid) >= rl.limit {
		rl.requests[key] = valid
		return false, nil
	}

	rl.requests[key] = append(valid, now)
	return true, nil
}

// RedisRateLimiter is a fixed-window limiter shared by every instance using the same Redis
type RedisRateLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
	prefix string
}

// NewRedisRateLimiter creates a Redis-backed limiter
func NewRedisRateLimiter(rdb *redis.Client, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{rdb: rdb, limit: limit, window: window, prefix: "safeguard:ratelimit"}
}

func (rl *RedisRateLimiter) key(key string, now time.Time) string {
	bucket := now.UnixNano() / int64(rl.window)
	return fmt.Sprintf("%s:%s:%d", rl.prefix, key, bucket)
}

// Allow implements Limiter
func (rl *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := rl.key(key, time.Now())

	pipe := rl.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, rl.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit counter: %w", err)
	}

	return incr.Val() <= int64(rl.limit), nil
}

// RateLimit middleware limits requests per client IP. Limiter errors let the request through.
func RateLimit(limiter Limiter, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.Warn("Rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}

		if !ok {
			response.Error(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			c.Abort()
			return
		}

		c.Next()
	}
}
