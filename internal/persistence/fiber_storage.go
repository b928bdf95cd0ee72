package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStorage adapts the go-redis client to fiber's Storage interface so the
// CSRF and rate-limit middlewares keep their state out of process memory.
type RedisStorage struct {
	client *redis.Client
	prefix string
}

// NewRedisStorage wraps the shared Redis connection under a key prefix.
func NewRedisStorage(r *Redis, prefix string) *RedisStorage {
	return &RedisStorage{client: r.Handle(), prefix: prefix}
}

// Get returns the value for key, or nil when the key is absent.
func (s *RedisStorage) Get(key string) ([]byte, error) {
	if s.client == nil {
		return nil, errors.New("redis client not configured")
	}
	val, err := s.client.Get(context.Background(), s.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return val, err
}

// Set stores the value with an optional expiration.
func (s *RedisStorage) Set(key string, val []byte, exp time.Duration) error {
	if s.client == nil {
		return errors.New("redis client not configured")
	}
	return s.client.Set(context.Background(), s.prefix+key, val, exp).Err()
}

// Delete removes a key.
func (s *RedisStorage) Delete(key string) error {
	if s.client == nil {
		return errors.New("redis client not configured")
	}
	return s.client.Del(context.Background(), s.prefix+key).Err()
}

// Reset removes every key under the storage prefix.
func (s *RedisStorage) Reset() error {
	if s.client == nil {
		return errors.New("redis client not configured")
	}
	ctx := context.Background()
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Close is a no-op; the underlying client is shared and closed by its owner.
func (s *RedisStorage) Close() error {
	return nil
}
