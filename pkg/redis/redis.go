package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/minkwan/storefront-backend/config"
	"github.com/minkwan/storefront-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var client *redis.Client

const hierarchyCacheKey = "catalog:hierarchy"

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

// BlacklistToken adds a token to the blacklist
func BlacklistToken(ctx context.Context, token string, expiry time.Duration) error {
	if client == nil {
		return nil
	}

	key := fmt.Sprintf("blacklist:%s", token)
	if err := client.Set(ctx, key, "revoked", expiry).Err(); err != nil {
		logger.Error("Failed to blacklist token", err, nil)
		return err
	}
	return nil
}

// IsTokenBlacklisted checks if a token is in the blacklist
func IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	if client == nil {
		return false, nil
	}

	key := fmt.Sprintf("blacklist:%s", token)
	val, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to check token blacklist", err, nil)
		return false, err
	}
	return val == "revoked", nil
}

// GetHierarchySnapshot returns the cached collection hierarchy JSON, or
// empty when the cache is cold or Redis is not configured.
func GetHierarchySnapshot(ctx context.Context) ([]byte, error) {
	if client == nil {
		return nil, nil
	}

	val, err := client.Get(ctx, hierarchyCacheKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		logger.Error("Failed to read hierarchy cache", err, nil)
		return nil, err
	}
	return val, nil
}

// SetHierarchySnapshot stores the collection hierarchy JSON with a TTL.
func SetHierarchySnapshot(ctx context.Context, payload []byte, ttl time.Duration) error {
	if client == nil {
		return nil
	}

	if err := client.Set(ctx, hierarchyCacheKey, payload, ttl).Err(); err != nil {
		logger.Error("Failed to write hierarchy cache", err, nil)
		return err
	}
	return nil
}

// InvalidateHierarchySnapshot drops the cached hierarchy. Called after
// any collection write so the next read rebuilds from the database.
func InvalidateHierarchySnapshot(ctx context.Context) error {
	if client == nil {
		return nil
	}

	if err := client.Del(ctx, hierarchyCacheKey).Err(); err != nil {
		logger.Error("Failed to invalidate hierarchy cache", err, nil)
		return err
	}
	return nil
}
