package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const codeTTL = 10 * time.Minute

// CodeStore holds signup verification codes in Redis with a short TTL.
// Key format: signup_code:<email>
type CodeStore struct {
	client *redis.Client
}

// NewCodeStore creates a CodeStore wrapping the given Redis client.
func NewCodeStore(client *redis.Client) *CodeStore {
	return &CodeStore{client: client}
}

// Put stores code for email, replacing any code issued earlier.
func (s *CodeStore) Put(ctx context.Context, email, code string) error {
	return s.client.Set(ctx, s.key(email), code, codeTTL).Err()
}

// Consume compares code with the stored value and deletes it on a match.
// A missing or expired key reports false without error.
func (s *CodeStore) Consume(ctx context.Context, email, code string) (bool, error) {
	stored, err := s.client.Get(ctx, s.key(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("signup code lookup: %w", err)
	}
	if stored != code {
		return false, nil
	}

	if err := s.client.Del(ctx, s.key(email)).Err(); err != nil {
		return false, fmt.Errorf("signup code consume: %w", err)
	}
	return true, nil
}

func (s *CodeStore) key(email string) string {
	return "signup_code:" + email
}
