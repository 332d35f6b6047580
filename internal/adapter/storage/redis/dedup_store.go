package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// DedupStore implements ports.DedupStore using Redis SET NX, so multiple
// instances share one notified-order set. The TTL bounds key growth; it is
// far longer than any realistic webhook retry window.
type DedupStore struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
}

// NewDedupStore creates a Redis-backed dedup store.
func NewDedupStore(client *goredis.Client, ttl time.Duration) *DedupStore {
	return &DedupStore{
		client: client,
		prefix: "notified:",
		ttl:    ttl,
	}
}

// Claim atomically records orderID if unseen. Returns true when this call
// won the claim, false when another dispatch already holds it.
func (s *DedupStore) Claim(ctx context.Context, orderID string) (bool, error) {
	result, err := s.client.SetArgs(ctx, s.prefix+orderID, 1, goredis.SetArgs{
		Mode: "NX",
		TTL:  s.ttl,
	}).Result()
	if err != nil {
		if err == goredis.Nil {
			// Key already exists, order was already notified.
			return false, nil
		}
		return false, fmt.Errorf("redis dedup claim: %w", err)
	}
	return result == "OK", nil
}
