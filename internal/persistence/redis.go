package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/janus-pm/janus/internal/config"
)

// Redis wraps the go-redis client.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to Redis using the provided configuration.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

// AcquireLock takes a short-lived SETNX lock. It returns true when the lock
// was acquired and a release func; a lock that cannot be acquired because the
// key is held returns false. Transport errors also return false with a nil
// release so callers can decide whether to proceed unguarded.
func (r *Redis) AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, func(), error) {
	if r == nil || r.Client == nil {
		return false, nil, errors.New("redis client not configured")
	}
	ok, err := r.Client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, nil, err
	}
	if !ok {
		return false, nil, nil
	}
	release := func() {
		_ = r.Client.Del(context.Background(), key).Err()
	}
	return true, release, nil
}
