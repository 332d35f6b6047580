package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDedupStore_FirstClaimWins(t *testing.T) {
	s := NewDedupStore()
	ctx := context.Background()

	first, err := s.Claim(ctx, "order-1")
	require.NoError(t, err)
	assert.True(t, first)

	second, err := s.Claim(ctx, "order-1")
	require.NoError(t, err)
	assert.False(t, second)

	other, err := s.Claim(ctx, "order-2")
	require.NoError(t, err)
	assert.True(t, other, "unrelated order ids are independent")
}

func TestDedupStore_ConcurrentClaims_ExactlyOneWinner(t *testing.T) {
	s := NewDedupStore()
	ctx := context.Background()

	const n = 64
	var wins int64
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			ok, err := s.Claim(ctx, "order-race")
			require.NoError(t, err)
			if ok {
				atomic.AddInt64(&wins, 1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int64(1), wins)
}
