package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// RateLimitConfig configures the Redis-backed fixed-window rate limiter.
type RateLimitConfig struct {
	Max    int
	Window time.Duration
	// KeyGenerator buckets requests; defaults to client IP.
	KeyGenerator func(*fiber.Ctx) string
}

// DefaultRateLimitConfig returns default rate limit config
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Max:    100,
		Window: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}
}

// RateLimit enforces a fixed-window limit shared across instances through
// Redis. Redis errors fail open: a broken limiter never blocks traffic.
func RateLimit(client *redis.Client, cfg RateLimitConfig) fiber.Handler {
	if cfg.KeyGenerator == nil {
		cfg.KeyGenerator = DefaultRateLimitConfig().KeyGenerator
	}

	return func(c *fiber.Ctx) error {
		window := time.Now().Unix() / int64(cfg.Window.Seconds())
		key := fmt.Sprintf("ratelimit:%s:%d", cfg.KeyGenerator(c), window)

		count, err := client.Incr(c.Context(), key).Result()
		if err != nil {
			return c.Next()
		}
		if count == 1 {
			client.Expire(c.Context(), key, cfg.Window)
		}

		remaining := int64(cfg.Max) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Max))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(cfg.Max) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":   "Too Many Requests",
				"message": "Rate limit exceeded. Please try again later.",
			})
		}

		return c.Next()
	}
}
