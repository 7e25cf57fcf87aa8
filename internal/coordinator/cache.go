package coordinator

import (
	"sync"
	"time"

	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/airquality"
)

// Cache is a city-keyed store of the last enriched result with a TTL. The
// upstream provider updates hourly, so re-fetching inside the TTL window
// wastes calls without improving freshness.
//
// Lookup-and-refresh for one city must be a single atomic step: LockCity
// serializes runs per city so two concurrent misses cannot both hit the
// provider.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
	locks   map[string]*sync.Mutex
	now     func() time.Time
}

type cacheEntry struct {
	result   airquality.EnrichedResult
	storedAt time.Time
}

// NewCache creates a cache with the given TTL.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		locks:   make(map[string]*sync.Mutex),
		now:     time.Now,
	}
}

// LockCity acquires the per-city mutex. The caller must Unlock the returned
// mutex when its run for the city completes.
func (c *Cache) LockCity(city string) *sync.Mutex {
	c.mu.Lock()
	lock, ok := c.locks[city]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[city] = lock
	}
	c.mu.Unlock()

	lock.Lock()
	return lock
}

// Get returns the cached result for a city if one exists and is younger than
// the TTL.
func (c *Cache) Get(city string) (airquality.EnrichedResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[city]
	if !ok || c.now().Sub(entry.storedAt) >= c.ttl {
		return airquality.EnrichedResult{}, false
	}
	return entry.result, true
}

// Put stores a result for a city with the current timestamp.
func (c *Cache) Put(city string, result airquality.EnrichedResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[city] = cacheEntry{result: result, storedAt: c.now()}
}

// Invalidate drops the cached entry for a city.
func (c *Cache) Invalidate(city string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, city)
}

// Len returns the number of cached entries, fresh or stale.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
