// Copyright (c) 2026 Kritika. All rights reserved.
// Author: dev@kritika.app

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kritika-app/kritika/internal/platform/constants"
)

// RedisThrottleRepository implements [ThrottleStore] using Redis counters.
type RedisThrottleRepository struct {
	client *redis.Client
}

// NewThrottleRepository creates a new Redis-backed [ThrottleStore].
func NewThrottleRepository(client *redis.Client) *RedisThrottleRepository {
	return &RedisThrottleRepository{client: client}
}

/*
Bump increments the per-address delivery counter atomically.

Description: INCR followed by EXPIRE inside a pipeline. The TTL is only set
when the key is fresh, so the window is anchored to the first delivery.

Parameters:
  - context: context.Context
  - email: string
  - window: time.Duration

Returns:
  - int64: Deliveries in the current window, including this one
  - error: Connectivity failures
*/
func (repository *RedisThrottleRepository) Bump(context context.Context, email string, window time.Duration) (int64, error) {

	key := constants.RedisPrefixSignupThrottle + email

	pipe := repository.client.TxPipeline()
	counter := pipe.Incr(context, key)
	// NX keeps the original window anchor on repeat deliveries.
	pipe.ExpireNX(context, key, window)

	if _, err := pipe.Exec(context); err != nil {
		return 0, fmt.Errorf("redis_signup_throttle_bump_failed: %w", err)
	}

	return counter.Val(), nil
}
