package redis

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, ttl time.Duration) (*DedupStore, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	return NewDedupStore(client, ttl), s
}

func TestDedupStore_FirstClaimWins(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	first, err := store.Claim(ctx, "4242")
	require.NoError(t, err)
	assert.True(t, first)

	second, err := store.Claim(ctx, "4242")
	require.NoError(t, err)
	assert.False(t, second)
}

func TestDedupStore_TTLExpiry(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	ok, err := store.Claim(ctx, "4242")
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Minute)

	again, err := store.Claim(ctx, "4242")
	require.NoError(t, err)
	assert.True(t, again, "expired claim is reclaimable")
}

func TestDedupStore_ConcurrentClaims(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	const n = 32
	var wins int64
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := store.Claim(ctx, "order-race")
			require.NoError(t, err)
			if ok {
				atomic.AddInt64(&wins, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), wins)
}
