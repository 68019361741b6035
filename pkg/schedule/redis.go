package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisKeyPrefix namespaces schedule hashes in a shared Redis.
const redisKeyPrefix = "review_schedule:"

// RedisSchedule is a schedule Provider backed by Redis hashes, for
// deployments where the review schedule is maintained by another service.
//
// Each assessment is a hash at "review_schedule:<id>" with optional fields
// review_due (RFC 3339), half_life and accelerated_half_life (Go duration
// strings). Missing fields fall back exactly like Static.
type RedisSchedule struct {
	client          *redis.Client
	defaultHalfLife time.Duration
}

// NewRedisSchedule creates a Redis-backed schedule provider (pass 0 for
// DefaultHalfLife).
func NewRedisSchedule(client *redis.Client, defaultHalfLife time.Duration) *RedisSchedule {
	if defaultHalfLife <= 0 {
		defaultHalfLife = DefaultHalfLife
	}
	return &RedisSchedule{client: client, defaultHalfLife: defaultHalfLife}
}

// ReviewDue implements Provider.
func (r *RedisSchedule) ReviewDue(ctx context.Context, assessmentID string) (time.Time, bool, error) {
	value, err := r.client.HGet(ctx, redisKeyPrefix+assessmentID, "review_due").Result()
	if err == redis.Nil {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("redis schedule read %q: %w", assessmentID, err)
	}
	due, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("redis schedule %q: invalid review_due %q: %w", assessmentID, value, err)
	}
	return due, true, nil
}

// HalfLife implements Provider.
func (r *RedisSchedule) HalfLife(ctx context.Context, assessmentID string) (time.Duration, error) {
	return r.duration(ctx, assessmentID, "half_life", r.defaultHalfLife)
}

// AcceleratedHalfLife implements Provider.
func (r *RedisSchedule) AcceleratedHalfLife(ctx context.Context, assessmentID string) (time.Duration, error) {
	halfLife, err := r.HalfLife(ctx, assessmentID)
	if err != nil {
		return 0, err
	}
	return r.duration(ctx, assessmentID, "accelerated_half_life", halfLife/AcceleratedDivisor)
}

func (r *RedisSchedule) duration(ctx context.Context, assessmentID, field string, fallback time.Duration) (time.Duration, error) {
	value, err := r.client.HGet(ctx, redisKeyPrefix+assessmentID, field).Result()
	if err == redis.Nil {
		return fallback, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis schedule read %q: %w", assessmentID, err)
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("redis schedule %q: invalid %s %q", assessmentID, field, value)
	}
	return d, nil
}
