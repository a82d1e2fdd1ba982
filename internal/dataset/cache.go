package dataset

import (
	"sync"
	"time"
)

// Cache stores loaded tables keyed by source identifier so repeated
// loads within a process skip the fetch and parse cost. It is injected
// into the Loader by the caller rather than held as process-wide state,
// which keeps tests isolated and cross-source behavior explicit.
type Cache interface {
	// Get returns the cached table for the source and whether it was
	// present and still fresh.
	Get(source string) (*Table, bool)
	// Put stores a freshly loaded table for the source.
	Put(source string, table *Table)
	// Invalidate drops the cached table for the source.
	Invalidate(source string)
}

// memoryCache is a TTL-bounded in-memory Cache.
type memoryCache struct {
	mu  sync.RWMutex
	ttl time.Duration
	now func() time.Time

	entries map[string]memoryCacheEntry
}

type memoryCacheEntry struct {
	table    *Table
	cachedAt time.Time
}

// NewMemoryCache creates an in-memory cache whose entries expire after
// ttl. A non-positive ttl keeps entries until invalidated.
func NewMemoryCache(ttl time.Duration) Cache {
	return &memoryCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryCacheEntry),
	}
}

func (c *memoryCache) Get(source string) (*Table, bool) {
	c.mu.RLock()
	entry, ok := c.entries[source]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if c.ttl > 0 && c.now().Sub(entry.cachedAt) > c.ttl {
		c.Invalidate(source)
		return nil, false
	}

	return entry.table, true
}

func (c *memoryCache) Put(source string, table *Table) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[source] = memoryCacheEntry{table: table, cachedAt: c.now()}
}

func (c *memoryCache) Invalidate(source string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, source)
}

// nopCache disables caching; every load fetches and parses the source.
type nopCache struct{}

// NewNopCache returns a Cache that never stores anything.
func NewNopCache() Cache { return nopCache{} }

func (nopCache) Get(string) (*Table, bool) { return nil, false }
func (nopCache) Put(string, *Table)        {}
func (nopCache) Invalidate(string)         {}
