package database

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"jejakin-server/config"
)

// Redis is nil when caching is disabled or the server is unreachable;
// callers must check before use.
var Redis *redis.Client

// InitRedis connects the cache client. A failed connection is not fatal:
// the API works without the cache, lookups just hit Postgres every time.
func InitRedis() {
	cfg := config.AppConfig.Redis
	if !cfg.Enabled {
		logrus.Info("redis cache disabled by config")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		logrus.Warnf("redis unavailable, continuing without cache: %v", err)
		return
	}

	Redis = client
	logrus.Infof("redis cache connected at %s", cfg.Addr)
}
