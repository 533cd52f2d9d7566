package course

import (
	"sync"
	"time"
)

// DefaultCacheTTL is how long search results stay cached
const DefaultCacheTTL = 10 * time.Minute

// SearchCache caches course search results per normalized query with a TTL.
// It is safe for concurrent use.
type SearchCache struct {
	mu       sync.Mutex
	results  map[string][]Course
	cachedAt map[string]time.Time
	ttl      time.Duration
	now      func() time.Time
	gen      uint64 // bumped by Clear
}

// NewSearchCache creates an empty cache. A non-positive ttl uses DefaultCacheTTL.
func NewSearchCache(ttl time.Duration) *SearchCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &SearchCache{
		results:  make(map[string][]Course),
		cachedAt: make(map[string]time.Time),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns cached results for query. ok is false when missing or expired.
func (c *SearchCache) Get(query string) ([]Course, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := NormalizeQuery(query)
	courses, exists := c.results[key]
	if !exists {
		return nil, false
	}

	cachedTime, hasTime := c.cachedAt[key]
	if !hasTime || c.now().Sub(cachedTime) > c.ttl {
		delete(c.results, key)
		delete(c.cachedAt, key)
		return nil, false
	}

	return courses, true
}

// Set stores results for query, including empty results
func (c *SearchCache) Set(query string, courses []Course) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := NormalizeQuery(query)
	c.results[key] = courses
	c.cachedAt[key] = c.now()
}

// Generation identifies the catalog state the cache reflects. Take it
// before querying the store and hand it to SetIfCurrent.
func (c *SearchCache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// SetIfCurrent stores results only if Clear has not run since gen was
// taken. It reports whether the results were stored.
func (c *SearchCache) SetIfCurrent(query string, courses []Course, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != gen {
		return false
	}
	key := NormalizeQuery(query)
	c.results[key] = courses
	c.cachedAt[key] = c.now()
	return true
}

// Clear drops every entry. Called whenever the catalog changes.
func (c *SearchCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	c.results = make(map[string][]Course)
	c.cachedAt = make(map[string]time.Time)
}

// CleanExpired removes expired entries and returns how many were removed
func (c *SearchCache) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	now := c.now()
	for key, cachedTime := range c.cachedAt {
		if now.Sub(cachedTime) > c.ttl {
			delete(c.results, key)
			delete(c.cachedAt, key)
			removed++
		}
	}
	return removed
}

// Size returns the number of cached queries
func (c *SearchCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.results)
}
