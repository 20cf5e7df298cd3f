package nonce

import (
	"context"
	"sync"
	"time"

	"croncommander/internal/domain"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const defaultMemoryCapacity = 4096

type memoryStore struct {
	mu     sync.Mutex
	tokens *expirable.LRU[string, struct{}]
}

// NewMemoryStore keeps tokens in process. When capacity is exceeded the oldest
// outstanding tokens are dropped and can no longer be redeemed.
func NewMemoryStore(capacity int, ttl time.Duration) Store {
	if capacity <= 0 {
		capacity = defaultMemoryCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &memoryStore{
		tokens: expirable.NewLRU[string, struct{}](capacity, nil, ttl),
	}
}

func (s *memoryStore) Issue(ctx context.Context, scope string) (string, error) {
	token := uuid.NewString()
	s.tokens.Add(storageKey(scope, token), struct{}{})
	return token, nil
}

func (s *memoryStore) Consume(ctx context.Context, scope, token string) error {
	if token == "" {
		return domain.ErrInvalidToken
	}

	key := storageKey(scope, token)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tokens.Peek(key); !ok {
		return domain.ErrInvalidToken
	}
	s.tokens.Remove(key)

	return nil
}
