package redis

import (
	"context"

	"github.com/go-redis/redis/v8"

	"github.com/anand08151947-dot/Personalized-Adaptive-Hypothermia/internal/config"
)

// Client is an alias for the underlying Redis client type.
type Client = redis.Client

// NewRedisClient creates a Redis client from configuration.
func NewRedisClient(cfg *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Ping tests the Redis connection.
func Ping(ctx context.Context, client *redis.Client) error {
	return client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func Close(client *redis.Client) error {
	return client.Close()
}
