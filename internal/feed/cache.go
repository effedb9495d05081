package feed

import (
	"sync"
	"time"
)

// Cache TTLs mirror the refresh cadence of the panels they back:
// quotes go stale quickly, market news slowly.
const (
	tickersTTL = 25 * time.Second
	newsTTL    = 180 * time.Second
)

type cacheEntry struct {
	at   time.Time
	data any
}

// ttlCache is a small per-resource cache so timer-driven refreshes and
// user-driven ones (e.g. movers reusing the quote table) don't hammer
// the providers.
type ttlCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	now     func() time.Time
}

func newTTLCache() *ttlCache {
	return &ttlCache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func (c *ttlCache) get(key string, ttl time.Duration) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.at) >= ttl {
		return nil, false
	}
	return e.data, true
}

func (c *ttlCache) put(key string, data any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{at: c.now(), data: data}
}
