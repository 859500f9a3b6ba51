package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to the Redis content store. Redis is optional:
// callers treat a nil client as "content store not configured" and route
// content writes to the in-process fallback cache instead.
func NewRedisClient(cfg *Config) (*redis.Client, error) {
	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("REDIS_URL not configured")
	}

	var rdb *redis.Client

	// Check if RedisURL is a full URL (like Upstash) or just host:port
	if hasRedisScheme(cfg.RedisURL) {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URL: %v", err)
		}
		rdb = redis.NewClient(opt)
	} else {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisURL,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := rdb.Ping(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return rdb, nil
}

// hasRedisScheme distinguishes full redis:// and rediss:// URLs from bare
// host:port values, which may be shorter than either prefix.
func hasRedisScheme(url string) bool {
	return strings.HasPrefix(url, "redis://") || strings.HasPrefix(url, "rediss://")
}

// AsynqRedisOpt builds the Asynq Redis connection options from the same
// configuration the content store uses. Returns an error when Redis is not
// configured; the async upload path is then disabled.
func AsynqRedisOpt(cfg *Config) (asynq.RedisClientOpt, error) {
	if cfg.RedisURL == "" {
		return asynq.RedisClientOpt{}, fmt.Errorf("REDIS_URL not configured")
	}

	if hasRedisScheme(cfg.RedisURL) {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return asynq.RedisClientOpt{}, fmt.Errorf("failed to parse Redis URL: %v", err)
		}
		return asynq.RedisClientOpt{
			Addr:      opt.Addr,
			Username:  opt.Username,
			Password:  opt.Password,
			DB:        opt.DB,
			TLSConfig: opt.TLSConfig,
		}, nil
	}

	return asynq.RedisClientOpt{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}
