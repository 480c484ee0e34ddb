package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// UserLocker serializes checkouts per user. TryLock returns false when
// another checkout currently holds the user.
type UserLocker interface {
	TryLock(ctx context.Context, userID string) (bool, error)
	Unlock(ctx context.Context, userID string) error
}

// RedisUserLock is an advisory lock on a Redis key with a TTL, so a
// crashed handler frees the user after at most the TTL.
type RedisUserLock struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisUserLock(client *redis.Client, ttl time.Duration) *RedisUserLock {
	return &RedisUserLock{client: client, ttl: ttl}
}

func (l *RedisUserLock) getKey(userID string) string {
	return fmt.Sprintf("checkout:lock:%s", userID)
}

func (l *RedisUserLock) TryLock(ctx context.Context, userID string) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.getKey(userID), "1", l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire checkout lock: %w", err)
	}
	return ok, nil
}

func (l *RedisUserLock) Unlock(ctx context.Context, userID string) error {
	return l.client.Del(ctx, l.getKey(userID)).Err()
}
