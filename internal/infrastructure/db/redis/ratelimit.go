package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitStore implements a fixed-window request counter backed by
// Redis. Key format: ratelimit:<scope>:<identifier>; the key expires at
// the end of its window.
type RateLimitStore struct {
	client *redis.Client
	window time.Duration
	limit  int64
}

// NewRateLimitStore creates a store allowing limit requests per window
// for each identifier.
func NewRateLimitStore(client *redis.Client, limit int64, window time.Duration) *RateLimitStore {
	return &RateLimitStore{client: client, window: window, limit: limit}
}

// Allow records one attempt for the identifier and reports whether it is
// still within the limit for the current window.
func (s *RateLimitStore) Allow(ctx context.Context, scope, identifier string) (bool, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", scope, identifier)

	n, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	if n == 1 {
		if err := s.client.Expire(ctx, key, s.window).Err(); err != nil {
			return false, fmt.Errorf("rate limit expire: %w", err)
		}
	}
	return n <= s.limit, nil
}
