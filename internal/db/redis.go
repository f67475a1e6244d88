package db

import (
	"github.com/harris-ryder/crema/internal/config"
	"github.com/redis/go-redis/v9"
)

// ConnectRedis returns nil when no address is configured; the feed stream
// then falls back to single-instance fan-out.
func ConnectRedis(cfg config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
}
