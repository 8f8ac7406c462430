package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"brand-plan/internal/config"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// NewRedisClient connects to the session store and pings it. The address is
// either host:port or a redis:// / rediss:// URL; credentials set in the
// config override the ones in the URL.
func NewRedisClient(redisCfg config.RedisConfig) (*redis.Client, error) {
	opts, err := redisOptions(redisCfg)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", opts.Addr, err)
	}
	return client, nil
}

func redisOptions(redisCfg config.RedisConfig) (*redis.Options, error) {
	if redisCfg.Address == "" {
		return nil, fmt.Errorf("redis configuration is missing or address is empty")
	}
	if !strings.HasPrefix(redisCfg.Address, "redis://") && !strings.HasPrefix(redisCfg.Address, "rediss://") {
		return &redis.Options{
			Addr:     redisCfg.Address,
			Password: redisCfg.Password,
			DB:       redisCfg.DB,
		}, nil
	}

	opts, err := redis.ParseURL(redisCfg.Address)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	if redisCfg.Password != "" {
		opts.Password = redisCfg.Password
	}
	if redisCfg.DB != 0 {
		opts.DB = redisCfg.DB
	}
	return opts, nil
}
