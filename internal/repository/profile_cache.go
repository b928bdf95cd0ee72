package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const roleCachePrefix = "profile:role:"

// RoleCache stores resolved roles keyed by user id so repeated requests skip
// the profile table.
type RoleCache interface {
	Get(ctx context.Context, userID string) (string, bool)
	Set(ctx context.Context, userID, role string)
	Invalidate(ctx context.Context, userID string)
}

type redisRoleCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRoleCache returns a Redis-backed role cache. A nil client yields a cache
// that always misses.
func NewRoleCache(client *redis.Client, ttl time.Duration) RoleCache {
	return &redisRoleCache{client: client, ttl: ttl}
}

func (c *redisRoleCache) Get(ctx context.Context, userID string) (string, bool) {
	if c.client == nil {
		return "", false
	}
	val, err := c.client.Get(ctx, roleCachePrefix+userID).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (c *redisRoleCache) Set(ctx context.Context, userID, role string) {
	if c.client == nil {
		return
	}
	// Best effort; a cache write failure must never fail the request.
	_ = c.client.Set(ctx, roleCachePrefix+userID, role, c.ttl).Err()
}

func (c *redisRoleCache) Invalidate(ctx context.Context, userID string) {
	if c.client == nil {
		return
	}
	_ = c.client.Del(ctx, roleCachePrefix+userID).Err()
}
