package memcache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePolicy(t *testing.T) {
	for _, s := range []string{"lru", "fifo", "ttl"} {
		p, err := ParsePolicy(s)
		require.NoError(t, err)
		assert.Equal(t, Policy(s), p)
	}

	_, err := ParsePolicy("arc")
	assert.Error(t, err)
}

func TestSetGet(t *testing.T) {
	m := New(PolicyLRU, 4, time.Minute)

	m.Set("overview:org-1", "payload")

	v, ok := m.Get("overview:org-1")
	require.True(t, ok)
	assert.Equal(t, "payload", v)

	_, ok = m.Get("overview:org-2")
	assert.False(t, ok)
}

func TestGetExpired(t *testing.T) {
	m := New(PolicyLRU, 4, time.Minute)
	clock := time.Now()
	m.now = func() time.Time { return clock }

	m.Set("k", 1)
	clock = clock.Add(2 * time.Minute)

	_, ok := m.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())

	stats := m.Stats()
	assert.Equal(t, uint64(1), stats.Expired)
	assert.Equal(t, uint64(1), stats.Misses)
}

func TestSetRefreshesExistingKey(t *testing.T) {
	m := New(PolicyLRU, 2, time.Minute)

	m.Set("k", "old")
	m.Set("k", "new")

	v, ok := m.Get("k")
	require.True(t, ok)
	assert.Equal(t, "new", v)
	assert.Equal(t, 1, m.Len())
}

func TestLRUEviction(t *testing.T) {
	m := New(PolicyLRU, 2, time.Minute)

	m.Set("a", 1)
	m.Set("b", 2)

	// Touch a so b becomes the least recently used.
	_, ok := m.Get("a")
	require.True(t, ok)

	m.Set("c", 3)

	_, ok = m.Get("b")
	assert.False(t, ok)
	_, ok = m.Get("a")
	assert.True(t, ok)
	_, ok = m.Get("c")
	assert.True(t, ok)
	assert.Equal(t, uint64(1), m.Stats().Evictions)
}

func TestFIFOEvictionIgnoresReads(t *testing.T) {
	m := New(PolicyFIFO, 2, time.Minute)

	m.Set("a", 1)
	m.Set("b", 2)

	// Reading a must not save it: insertion order decides.
	_, ok := m.Get("a")
	require.True(t, ok)

	m.Set("c", 3)

	_, ok = m.Get("a")
	assert.False(t, ok)
	_, ok = m.Get("b")
	assert.True(t, ok)
}

func TestTTLEvictionPicksSoonestExpiry(t *testing.T) {
	m := New(PolicyTTL, 2, time.Minute)

	m.SetTTL("long", 1, time.Hour)
	m.SetTTL("short", 2, time.Second)

	m.Set("c", 3)

	_, ok := m.Get("short")
	assert.False(t, ok)
	_, ok = m.Get("long")
	assert.True(t, ok)
}

func TestInsertReapsExpiredBeforeEvicting(t *testing.T) {
	m := New(PolicyLRU, 2, time.Minute)
	clock := time.Now()
	m.now = func() time.Time { return clock }

	m.SetTTL("stale", 1, time.Second)
	m.Set("live", 2)

	clock = clock.Add(10 * time.Second)
	m.Set("fresh", 3)

	// The expired entry made room, so nothing live was evicted.
	_, ok := m.Get("live")
	assert.True(t, ok)
	_, ok = m.Get("fresh")
	assert.True(t, ok)

	stats := m.Stats()
	assert.Equal(t, uint64(0), stats.Evictions)
	assert.Equal(t, uint64(1), stats.Expired)
}

func TestDeleteAndFlush(t *testing.T) {
	m := New(PolicyLRU, 4, time.Minute)

	m.Set("a", 1)
	m.Set("b", 2)

	m.Delete("a")
	_, ok := m.Get("a")
	assert.False(t, ok)

	m.Flush()
	assert.Equal(t, 0, m.Len())
	_, ok = m.Get("b")
	assert.False(t, ok)
}

func TestNonPositiveTTLStoresNothing(t *testing.T) {
	m := New(PolicyLRU, 4, time.Minute)

	m.SetTTL("k", 1, 0)
	assert.Equal(t, 0, m.Len())
}

func TestStatsCounters(t *testing.T) {
	m := New(PolicyFIFO, 8, time.Minute)

	m.Set("a", 1)
	m.Get("a")
	m.Get("a")
	m.Get("missing")

	stats := m.Stats()
	assert.Equal(t, PolicyFIFO, stats.Policy)
	assert.Equal(t, 8, stats.Capacity)
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, uint64(2), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
}

func TestConcurrentAccess(t *testing.T) {
	m := New(PolicyLRU, 64, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k-%d", (n+j)%32)
				m.Set(key, j)
				m.Get(key)
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, m.Len(), 64)
}
