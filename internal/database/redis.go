package database

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mummysfood/backend/config"
)

const redisPingTimeout = 5 * time.Second

// RedisOptions builds client options from REDIS_URL when set, otherwise from host and port.
// A password in the URL takes precedence over REDIS_PASSWORD.
func RedisOptions(cfg *config.Config) (*redis.Options, error) {
	if cfg.RedisURL == "" {
		return &redis.Options{
			Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	if opts.Password == "" {
		opts.Password = cfg.RedisPassword
	}
	return opts, nil
}

// NewRedisClient connects to Redis and verifies the connection with a ping.
// Carts, revoked sessions and rate limit counters all share this client.
func NewRedisClient(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (*redis.Client, error) {
	opts, err := RedisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}

	log.Infow("connected to redis", "addr", opts.Addr, "db", opts.DB)
	return client, nil
}
