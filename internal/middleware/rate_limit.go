package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// RateLimitStore counts requests per key within a fixed window.
type RateLimitStore interface {
	// Increment bumps the counter for key and returns the new count.
	// The first increment in a window sets the window TTL.
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)

	// GetTTL returns the remaining window time for key.
	GetTTL(ctx context.Context, key string) (time.Duration, error)
}

// RateLimitConfig holds configuration for the rate limiting middleware.
type RateLimitConfig struct {
	Logger *slog.Logger
	Store  RateLimitStore

	// Limit is the maximum number of requests per window.
	Limit int64

	// Window is the fixed counting window.
	Window time.Duration

	// SkipPaths are paths exempt from rate limiting.
	SkipPaths []string
}

// RateLimit returns a middleware enforcing a fixed-window request limit.
// Authenticated requests are keyed by user ID, anonymous ones by client IP.
// When the store fails the request is allowed through.
func RateLimit(config RateLimitConfig) echo.MiddlewareFunc {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Limit <= 0 {
		config.Limit = 100
	}
	if config.Window <= 0 {
		config.Window = time.Minute
	}

	skipPaths := make(map[string]struct{}, len(config.SkipPaths))
	for _, path := range config.SkipPaths {
		skipPaths[path] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := skipPaths[c.Request().URL.Path]; ok {
				return next(c)
			}
			if config.Store == nil {
				return next(c)
			}

			ctx := c.Request().Context()
			key := rateLimitKey(c)

			count, err := config.Store.Increment(ctx, key, config.Window)
			if err != nil {
				config.Logger.Warn("rate limit store unavailable",
					slog.String("key", key),
					slog.Any("error", err),
				)
				return next(c)
			}

			remaining := config.Limit - count
			if remaining < 0 {
				remaining = 0
			}

			header := c.Response().Header()
			header.Set("X-Ratelimit-Limit", strconv.FormatInt(config.Limit, 10))
			header.Set("X-Ratelimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > config.Limit {
				retryAfter := config.Window
				if ttl, ttlErr := config.Store.GetTTL(ctx, key); ttlErr == nil && ttl > 0 {
					retryAfter = ttl
				}
				header.Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds()+1)))

				return c.JSON(http.StatusTooManyRequests, map[string]any{
					"success": false,
					"error": map[string]string{
						"code":    "RATE_LIMITED",
						"message": "too many requests",
					},
				})
			}

			return next(c)
		}
	}
}

func rateLimitKey(c echo.Context) string {
	if userID := GetUserID(c); !userID.IsZero() {
		return "user:" + userID.String()
	}
	return "ip:" + c.RealIP()
}

// RedisRateLimitStore is a RateLimitStore backed by Redis.
type RedisRateLimitStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisRateLimitStore creates a Redis-backed store.
func NewRedisRateLimitStore(client *redis.Client) *RedisRateLimitStore {
	return &RedisRateLimitStore{
		client:    client,
		keyPrefix: "rate_limit:",
	}
}

func (s *RedisRateLimitStore) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	fullKey := s.keyPrefix + key

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, fullKey)
	pipe.ExpireNX(ctx, fullKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("increment rate limit counter: %w", err)
	}

	return incr.Val(), nil
}

func (s *RedisRateLimitStore) GetTTL(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := s.client.TTL(ctx, s.keyPrefix+key).Result()
	if err != nil {
		return 0, fmt.Errorf("get rate limit ttl: %w", err)
	}
	return ttl, nil
}

// MemoryRateLimitStore is an in-process RateLimitStore for tests and
// single-instance deployments.
type MemoryRateLimitStore struct {
	mu      sync.Mutex
	entries map[string]*memoryRateLimitEntry
}

type memoryRateLimitEntry struct {
	count     int64
	expiresAt time.Time
}

// NewMemoryRateLimitStore creates an in-memory store.
func NewMemoryRateLimitStore() *MemoryRateLimitStore {
	return &MemoryRateLimitStore{
		entries: make(map[string]*memoryRateLimitEntry),
	}
}

func (s *MemoryRateLimitStore) Increment(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	entry, ok := s.entries[key]
	if !ok || now.After(entry.expiresAt) {
		entry = &memoryRateLimitEntry{expiresAt: now.Add(window)}
		s.entries[key] = entry
	}
	entry.count++

	return entry.count, nil
}

func (s *MemoryRateLimitStore) GetTTL(_ context.Context, key string) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return 0, nil
	}

	ttl := time.Until(entry.expiresAt)
	if ttl < 0 {
		ttl = 0
	}
	return ttl, nil
}
