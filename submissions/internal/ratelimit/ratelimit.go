package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/multillm/survey-stack/submissions/internal/metrics"
)

// RateLimiter decides whether one more submission from key is allowed.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Close() error
}

// slidingWindow trims entries older than the window, counts the rest and
// records the new hit only when under the limit.
var slidingWindow = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local ttl = tonumber(ARGV[4])

	redis.call('ZREMRANGEBYSCORE', key, 0, window_start)

	local current = redis.call('ZCARD', key)
	if current < limit then
		redis.call('ZADD', key, now, now)
		redis.call('EXPIRE', key, ttl)
		return 1
	end
	return 0
`)

type RedisRateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
	now    func() time.Time
}

// NewRedisRateLimiter connects to redisURL and verifies the connection.
func NewRedisRateLimiter(redisURL string, limit int, window time.Duration) (*RedisRateLimiter, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return NewRedisRateLimiterWithClient(client, limit, window), nil
}

// NewRedisRateLimiterWithClient wraps an existing client.
func NewRedisRateLimiterWithClient(client *redis.Client, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		limit:  int64(limit),
		window: window,
		now:    time.Now,
	}
}

// Allow implements sliding window rate limiting.
func (r *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := r.now().UnixNano()
	windowStart := now - r.window.Nanoseconds()
	ttl := int64(r.window.Seconds()) + 1

	result, err := slidingWindow.Run(ctx, r.client, []string{"survey:ratelimit:" + key}, now, windowStart, r.limit, ttl).Int()
	if err != nil {
		return false, fmt.Errorf("rate limit check failed: %w", err)
	}

	allowed := result == 1
	if !allowed {
		metrics.RateLimitHits.Inc()
	}
	return allowed, nil
}

func (r *RedisRateLimiter) Close() error {
	return r.client.Close()
}

// NoOpRateLimiter always allows requests.
type NoOpRateLimiter struct{}

func (NoOpRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	return true, nil
}

func (NoOpRateLimiter) Close() error {
	return nil
}
