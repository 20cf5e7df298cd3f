package nonce

import (
	"context"
	"errors"
	"fmt"
	"time"

	cache "croncommander/internal/cache/iface"
	"croncommander/internal/domain"

	"github.com/google/uuid"
)

type redisStore struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewRedisStore keeps tokens in Redis so any replica can redeem them
func NewRedisStore(c cache.Cache, ttl time.Duration) Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &redisStore{cache: c, ttl: ttl}
}

func (s *redisStore) Issue(ctx context.Context, scope string) (string, error) {
	token := uuid.NewString()
	if err := s.cache.Set(ctx, storageKey(scope, token), "1", s.ttl); err != nil {
		return "", fmt.Errorf("%w: failed to store token: %w", domain.ErrUpstreamUnavailable, err)
	}
	return token, nil
}

func (s *redisStore) Consume(ctx context.Context, scope, token string) error {
	if token == "" {
		return domain.ErrInvalidToken
	}

	_, err := s.cache.GetDel(ctx, storageKey(scope, token))
	if errors.Is(err, cache.ErrKeyNotFound) {
		return domain.ErrInvalidToken
	}
	if err != nil {
		return fmt.Errorf("%w: failed to redeem token: %w", domain.ErrUpstreamUnavailable, err)
	}

	return nil
}
