package cache

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned when a key, member or field does not exist
var ErrKeyNotFound = errors.New("key not found")

// ScoredMember is one sorted-set entry
type ScoredMember struct {
	Member string
	Score  float64
}

// Cache defines the interface for cache operations (Redis)
type Cache interface {
	// Basic operations
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	GetDel(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error

	// Sorted set and hash reads (scheduler table)
	ZRangeWithScores(ctx context.Context, key string) ([]ScoredMember, error)
	ZScore(ctx context.Context, key, member string) (float64, error)
	HGet(ctx context.Context, key, field string) (string, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)

	// Script execution (for atomic table mutations)
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) (interface{}, error)

	Ping(ctx context.Context) error

	// Close connection
	Close() error
}
