package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const failureKeyPrefix = "login:failures:"

// LockoutStore implements repository.LockoutStore using Redis. Failure
// counters expire on their own after the lockout window, so a locked account
// unlocks without any background job.
type LockoutStore struct {
	client *redis.Client
}

// NewLockoutStore creates a Redis-backed lockout store.
func NewLockoutStore(client *redis.Client) *LockoutStore {
	return &LockoutStore{client: client}
}

func failureKey(email string) string {
	return failureKeyPrefix + email
}

// RecordFailure increments the failure counter for the email and returns the
// new count. The window starts at the first failure; later failures do not
// extend it.
func (s *LockoutStore) RecordFailure(ctx context.Context, email string, window time.Duration) (int, error) {
	key := failureKey(email)

	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("increment login failures: %w", err)
	}

	if count == 1 {
		if err := s.client.Expire(ctx, key, window).Err(); err != nil {
			return 0, fmt.Errorf("set login failure expiry: %w", err)
		}
	}

	return int(count), nil
}

// Failures returns the current failure count for the email.
func (s *LockoutStore) Failures(ctx context.Context, email string) (int, error) {
	count, err := s.client.Get(ctx, failureKey(email)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("get login failures: %w", err)
	}

	return count, nil
}

// Reset clears the failure counter after a successful login.
func (s *LockoutStore) Reset(ctx context.Context, email string) error {
	if err := s.client.Del(ctx, failureKey(email)).Err(); err != nil {
		return fmt.Errorf("reset login failures: %w", err)
	}

	return nil
}
