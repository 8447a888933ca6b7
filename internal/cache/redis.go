// Package cache provides the Redis client and the blog service's post cache.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"newwek/internal/config"
	"newwek/internal/middleware"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

type metricsHook struct{}

func (h metricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			middleware.RedisErrors.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (h metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			middleware.RedisErrors.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// clientOptions resolves the configured REDIS_URL into client options.
// The value is either a bare host:port or a full redis:// URL; pool sizing
// comes from the config in both cases.
func clientOptions(cfg *config.Config) (*redis.Options, error) {
	var opts *redis.Options
	if strings.Contains(cfg.RedisURL, "://") {
		parsed, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: cfg.RedisURL}
	}

	opts.PoolSize = cfg.RedisPoolSize
	opts.MinIdleConns = cfg.RedisMinIdleConns
	return opts, nil
}

// InitRedis opens the shared Redis client. The cache is optional: any failure
// here leaves the client nil and the services run without caching.
func InitRedis(cfg *config.Config) {
	opts, err := clientOptions(cfg)
	if err != nil {
		middleware.Logger.Warn("Invalid REDIS_URL, continuing without cache",
			slog.String("redis_url", cfg.RedisURL),
			slog.String("error", err.Error()),
		)
		client = nil
		return
	}

	candidate := redis.NewClient(opts)
	candidate.AddHook(metricsHook{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := candidate.Ping(ctx).Err(); err != nil {
		middleware.Logger.Warn("Redis unreachable, continuing without cache",
			slog.String("addr", opts.Addr),
			slog.String("error", err.Error()),
		)
		client = nil
		return
	}

	middleware.Logger.Info("Redis connected",
		slog.String("addr", opts.Addr),
		slog.Int("pool_size", opts.PoolSize),
	)
	client = candidate
}

// GetClient returns the current Redis client instance.
func GetClient() *redis.Client {
	return client
}
