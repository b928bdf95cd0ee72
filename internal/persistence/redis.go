package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/propdesk/property-service/internal/config"
)

// Redis wraps the shared client backing the role cache and the CSRF and
// rate-limit storage. An unreachable server is reported at startup but does
// not abort it: every consumer degrades to a cache miss or an explicit error
// rather than taking the auth path down with it.
type Redis struct {
	client *redis.Client
}

// NewRedis connects using the provided configuration.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("unable to reach redis; role cache and security storage will degrade",
			zap.String("addr", cfg.Addr), zap.Error(err))
	} else {
		logger.Info("connected to redis", zap.String("addr", cfg.Addr))
	}

	return &Redis{client: client}
}

// Handle returns the underlying client for the role cache and storage adapters.
func (r *Redis) Handle() *redis.Client {
	if r == nil {
		return nil
	}
	return r.client
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.client != nil {
		_ = r.client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.client == nil {
		return errors.New("redis client not configured")
	}
	return r.client.Ping(ctx).Err()
}
