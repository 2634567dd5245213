package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"github.com/bookkeep/library-records/internal/core/ports"
)

// DefaultIdempotencyTTL is how long a borrow result stays replayable.
const DefaultIdempotencyTTL = 24 * time.Hour

const borrowKeyPrefix = "idempotency:borrow:"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// IdempotencyStore caches borrow results by Idempotency-Key.
// Key format: idempotency:borrow:<key>
type IdempotencyStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

func NewIdempotencyStore(client redis.Cmdable, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

func (s *IdempotencyStore) Lookup(ctx context.Context, key string) (*ports.BorrowResult, error) {
	raw, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("idempotency lookup: %w", err)
	}

	var res ports.BorrowResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("idempotency decode: %w", err)
	}
	return &res, nil
}

// Save stores the result unless the key is already taken; the first result
// for a key wins.
func (s *IdempotencyStore) Save(ctx context.Context, key string, res *ports.BorrowResult) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("idempotency encode: %w", err)
	}
	if err := s.client.SetNX(ctx, s.key(key), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency save: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(k string) string {
	return borrowKeyPrefix + k
}
