package redis

import (
	"context"
	"fmt"
)

// ══════════════════════════════════════════════════════════════════════════════
// RATE LIMITER
// Fixed-window counter shared across API replicas. The key expires with the
// window, so idle clients cost nothing.
// ══════════════════════════════════════════════════════════════════════════════

// RateLimiter implements a per-client fixed-window rate limit on Redis.
type RateLimiter struct {
	cache *Cache
	limit int64
}

// NewRateLimiter creates a rate limiter allowing limit requests per
// TTLRateLimitWindow.
func NewRateLimiter(cache *Cache, limit int) *RateLimiter {
	return &RateLimiter{
		cache: cache,
		limit: int64(limit),
	}
}

// Allow reports whether the client identified by key may proceed.
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := RateLimitKey(key, "api")

	count, err := l.cache.Incr(ctx, redisKey)
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	// First hit opens the window.
	if count == 1 {
		if err := l.cache.Expire(ctx, redisKey, TTLRateLimitWindow); err != nil {
			return false, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	return count <= l.limit, nil
}
