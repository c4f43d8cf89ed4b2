// Package data provides data access layer implementations.
package data

import (
	"context"
	"time"

	"github.com/small-creator/naverland-ho-tele/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient creates a new Redis client for the usage ledger.
// It returns the client and a cleanup function. A connection failure does not
// prevent startup: the quota layer maps ledger errors to its configured
// fail-open/fail-closed policy per request.
func NewRedisClient(c *conf.Data, logger log.Logger) (*redis.Client, func(), error) {
	helper := log.NewHelper(logger)

	if c == nil || c.Redis == nil {
		helper.Warn("redis configuration is nil, usage ledger will be unavailable")
		return nil, func() {}, nil
	}

	var opts *redis.Options
	if c.Redis.Url != "" {
		// Vercel KV style connection string (KV_URL)
		parsed, err := redis.ParseURL(c.Redis.Url)
		if err != nil {
			helper.Errorf("invalid redis url: %v", err)
			return nil, func() {}, err
		}
		opts = parsed
	} else {
		if c.Redis.Addr == "" {
			helper.Warn("redis address is empty, usage ledger will be unavailable")
			return nil, func() {}, nil
		}
		opts = &redis.Options{Addr: c.Redis.Addr}
	}

	opts.DialTimeout = 3 * time.Second
	opts.ConnMaxIdleTime = 5 * time.Minute
	if c.Redis.ReadTimeout != nil {
		opts.ReadTimeout = c.Redis.ReadTimeout.AsDuration()
	}
	if c.Redis.WriteTimeout != nil {
		opts.WriteTimeout = c.Redis.WriteTimeout.AsDuration()
	}

	rdb := redis.NewClient(opts)

	// Health check: verify connection with ping
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		helper.Warnf("failed to connect to redis at %s: %v (service will start; ledger errors follow the quota fail policy)", opts.Addr, err)
	} else {
		helper.Infof("connected to redis at %s", opts.Addr)
	}

	cleanup := func() {
		helper.Info("closing redis client")
		if err := rdb.Close(); err != nil {
			helper.Errorf("failed to close redis client: %v", err)
		}
	}

	return rdb, cleanup, nil
}
