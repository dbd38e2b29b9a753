package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/funderr/crowdfund-api/internal/core/ports"
)

const replayTTL = 24 * time.Hour

// ReplayStore keeps the result of each keyed donation so a retried request
// returns the original outcome instead of crediting the contribution twice.
// Key format: donation:<idempotency_key>
type ReplayStore struct {
	client *redis.Client
}

// NewReplayStore creates a ReplayStore wrapping the given Redis client.
func NewReplayStore(client *redis.Client) *ReplayStore {
	return &ReplayStore{client: client}
}

// Get returns the stored result for key, reporting false when none exists.
func (s *ReplayStore) Get(ctx context.Context, key string) (*ports.DonationResult, bool, error) {
	raw, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("replay lookup: %w", err)
	}

	var result ports.DonationResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, false, fmt.Errorf("replay decode: %w", err)
	}
	return &result, true, nil
}

// Save records the result under key (expires after replayTTL).
func (s *ReplayStore) Save(ctx context.Context, key string, result *ports.DonationResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("replay encode: %w", err)
	}
	return s.client.Set(ctx, s.key(key), raw, replayTTL).Err()
}

func (s *ReplayStore) key(k string) string {
	return "donation:" + k
}
