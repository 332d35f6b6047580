// Package memory holds in-process adapter implementations for
// single-instance deployments.
package memory

import (
	"context"
	"sync"
)

// DedupStore implements ports.DedupStore as a process-lifetime set of order
// ids. No expiry, no persistence: a restart may at worst repeat one
// notification for an order whose payment event reappears.
type DedupStore struct {
	mu       sync.Mutex
	notified map[string]struct{}
}

// NewDedupStore creates an empty in-process dedup store.
func NewDedupStore() *DedupStore {
	return &DedupStore{notified: make(map[string]struct{})}
}

// Claim atomically records orderID and reports whether this call was the
// first to do so. Concurrent claims for the same id see exactly one true.
func (s *DedupStore) Claim(_ context.Context, orderID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, seen := s.notified[orderID]; seen {
		return false, nil
	}
	s.notified[orderID] = struct{}{}
	return true, nil
}
