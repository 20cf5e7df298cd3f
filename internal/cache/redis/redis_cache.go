package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	cache "croncommander/internal/cache/iface"
	"croncommander/internal/logger"

	"github.com/redis/go-redis/v9"
)

type redisCache struct {
	client *redis.Client
	logger logger.Logger
}

// NewRedisCache creates a new Redis cache client
func NewRedisCache(addr string, password string, db int, log logger.Logger) (cache.Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info("connected to Redis successfully", logger.String("addr", addr))

	return &redisCache{
		client: client,
		logger: log.With(logger.String("component", "redis_cache")),
	}, nil
}

// Set stores a value with optional TTL
func (r *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		r.logger.Error("failed to set key",
			logger.String("key", key),
			logger.Error(err))
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

// Get retrieves a value by key
func (r *redisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("%w: %s", cache.ErrKeyNotFound, key)
	}
	if err != nil {
		r.logger.Error("failed to get key",
			logger.String("key", key),
			logger.Error(err))
		return "", fmt.Errorf("redis get failed: %w", err)
	}

	return val, nil
}

// GetDel retrieves a value and deletes the key in one round trip
func (r *redisCache) GetDel(ctx context.Context, key string) (string, error) {
	val, err := r.client.GetDel(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("%w: %s", cache.ErrKeyNotFound, key)
	}
	if err != nil {
		r.logger.Error("failed to getdel key",
			logger.String("key", key),
			logger.Error(err))
		return "", fmt.Errorf("redis getdel failed: %w", err)
	}

	return val, nil
}

// Delete removes a key
func (r *redisCache) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, key).Err()
	if err != nil {
		r.logger.Error("failed to delete key",
			logger.String("key", key),
			logger.Error(err))
		return fmt.Errorf("redis delete failed: %w", err)
	}

	return nil
}

// ZRangeWithScores returns the whole sorted set, lowest score first
func (r *redisCache) ZRangeWithScores(ctx context.Context, key string) ([]cache.ScoredMember, error) {
	vals, err := r.client.ZRangeWithScores(ctx, key, 0, -1).Result()
	if err != nil {
		r.logger.Error("failed to zrange",
			logger.String("key", key),
			logger.Error(err))
		return nil, fmt.Errorf("redis zrange failed: %w", err)
	}

	members := make([]cache.ScoredMember, 0, len(vals))
	for _, z := range vals {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		members = append(members, cache.ScoredMember{Member: member, Score: z.Score})
	}

	return members, nil
}

// ZScore returns the score of a sorted-set member
func (r *redisCache) ZScore(ctx context.Context, key, member string) (float64, error) {
	score, err := r.client.ZScore(ctx, key, member).Result()
	if errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("%w: %s[%s]", cache.ErrKeyNotFound, key, member)
	}
	if err != nil {
		r.logger.Error("failed to zscore",
			logger.String("key", key),
			logger.Error(err))
		return 0, fmt.Errorf("redis zscore failed: %w", err)
	}

	return score, nil
}

// HGet returns one hash field
func (r *redisCache) HGet(ctx context.Context, key, field string) (string, error) {
	val, err := r.client.HGet(ctx, key, field).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("%w: %s[%s]", cache.ErrKeyNotFound, key, field)
	}
	if err != nil {
		r.logger.Error("failed to hget",
			logger.String("key", key),
			logger.Error(err))
		return "", fmt.Errorf("redis hget failed: %w", err)
	}

	return val, nil
}

// HGetAll returns every field of a hash
func (r *redisCache) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	vals, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		r.logger.Error("failed to hgetall",
			logger.String("key", key),
			logger.Error(err))
		return nil, fmt.Errorf("redis hgetall failed: %w", err)
	}

	return vals, nil
}

// Eval executes a Lua script (for atomic operations)
func (r *redisCache) Eval(ctx context.Context, script string, keys []string, args ...interface{}) (interface{}, error) {
	result, err := r.client.Eval(ctx, script, keys, args...).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		r.logger.Error("failed to eval script",
			logger.Int("key_count", len(keys)),
			logger.Error(err))
		return nil, fmt.Errorf("redis eval failed: %w", err)
	}

	return result, nil
}

// Ping checks the connection
func (r *redisCache) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (r *redisCache) Close() error {
	return r.client.Close()
}
