package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	cache := NewMemoryCache(time.Minute)
	table := &Table{Source: "a.csv"}

	_, ok := cache.Get("a.csv")
	assert.False(t, ok)

	cache.Put("a.csv", table)

	got, ok := cache.Get("a.csv")
	require.True(t, ok)
	assert.Same(t, table, got)

	// Entries are per source.
	_, ok = cache.Get("b.csv")
	assert.False(t, ok)

	cache.Invalidate("a.csv")
	_, ok = cache.Get("a.csv")
	assert.False(t, ok)
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	cache := NewMemoryCache(time.Minute).(*memoryCache)

	current := time.Now()
	cache.now = func() time.Time { return current }

	cache.Put("a.csv", &Table{Source: "a.csv"})

	_, ok := cache.Get("a.csv")
	assert.True(t, ok)

	current = current.Add(59 * time.Second)
	_, ok = cache.Get("a.csv")
	assert.True(t, ok, "entry within ttl stays fresh")

	current = current.Add(2 * time.Second)
	_, ok = cache.Get("a.csv")
	assert.False(t, ok, "entry past ttl expires")

	// The expired entry was dropped, not just hidden.
	current = current.Add(-time.Hour)
	_, ok = cache.Get("a.csv")
	assert.False(t, ok)
}

func TestMemoryCache_ZeroTTLNeverExpires(t *testing.T) {
	cache := NewMemoryCache(0).(*memoryCache)

	current := time.Now()
	cache.now = func() time.Time { return current }

	cache.Put("a.csv", &Table{Source: "a.csv"})

	current = current.Add(24 * time.Hour)
	_, ok := cache.Get("a.csv")
	assert.True(t, ok)
}

func TestNopCache(t *testing.T) {
	cache := NewNopCache()

	cache.Put("a.csv", &Table{Source: "a.csv"})
	_, ok := cache.Get("a.csv")
	assert.False(t, ok)

	cache.Invalidate("a.csv")
}
