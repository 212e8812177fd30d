package veezi

import (
	"maps"
	"sync"
	"time"
)

// DefaultCacheTTL is the TTL applied by WithDefaultCaching and to routes
// without an explicit override.
const DefaultCacheTTL = 60 * time.Second

// CacheMode selects how a client caches responses
type CacheMode int

const (
	// CacheDisabled bypasses the cache; every call reaches the executor
	CacheDisabled CacheMode = iota
	// CacheDefaultTTL caches every route for DefaultCacheTTL
	CacheDefaultTTL
	// CacheCustomTTL caches every route for CachePolicy.TTL
	CacheCustomTTL
	// CachePerRoute caches each route for its entry in CachePolicy.Routes,
	// falling back to CachePolicy.TTL (or DefaultCacheTTL when unset)
	CachePerRoute
)

// String returns the string representation of a CacheMode
func (m CacheMode) String() string {
	switch m {
	case CacheDisabled:
		return "disabled"
	case CacheDefaultTTL:
		return "default"
	case CacheCustomTTL:
		return "custom"
	case CachePerRoute:
		return "per-route"
	default:
		return "unknown"
	}
}

// CachePolicy describes the caching behaviour of a client
type CachePolicy struct {
	Mode   CacheMode
	TTL    time.Duration
	Routes map[Route]time.Duration
}

// NoCache returns a policy that disables caching
func NoCache() CachePolicy {
	return CachePolicy{Mode: CacheDisabled}
}

// DefaultCaching returns a policy caching every route for DefaultCacheTTL
func DefaultCaching() CachePolicy {
	return CachePolicy{Mode: CacheDefaultTTL, TTL: DefaultCacheTTL}
}

// CustomTTL returns a policy caching every route for ttl
func CustomTTL(ttl time.Duration) CachePolicy {
	return CachePolicy{Mode: CacheCustomTTL, TTL: ttl}
}

// PerRoute returns a policy with per-route TTLs. A non-positive TTL disables
// caching for that route.
func PerRoute(routes map[Route]time.Duration) CachePolicy {
	return CachePolicy{Mode: CachePerRoute, Routes: maps.Clone(routes)}
}

// Enabled reports whether the policy caches anything
func (p CachePolicy) Enabled() bool {
	return p.Mode != CacheDisabled
}

// TTLFor resolves the TTL for a route. Zero means the route is not cached.
func (p CachePolicy) TTLFor(route Route) time.Duration {
	switch p.Mode {
	case CacheDefaultTTL:
		return DefaultCacheTTL
	case CacheCustomTTL:
		return max(p.TTL, 0)
	case CachePerRoute:
		if ttl, ok := p.Routes[route]; ok {
			return max(ttl, 0)
		}
		if p.TTL > 0 {
			return p.TTL
		}
		return DefaultCacheTTL
	default:
		return 0
	}
}

func (p CachePolicy) clone() CachePolicy {
	p.Routes = maps.Clone(p.Routes)
	return p
}

// cacheEntry is never mutated after insertion; refreshes replace it.
type cacheEntry struct {
	value      any
	insertedAt time.Time
}

func (e cacheEntry) validAt(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.insertedAt) < ttl
}

// responseCache maps endpoint identities to decoded responses. It is scoped to
// a single Client and safe for concurrent use.
type responseCache struct {
	policy  CachePolicy
	now     func() time.Time
	mu      sync.RWMutex
	entries map[Key]cacheEntry
}

func newResponseCache(policy CachePolicy, now func() time.Time) *responseCache {
	if now == nil {
		now = time.Now
	}
	return &responseCache{
		policy:  policy.clone(),
		now:     now,
		entries: make(map[Key]cacheEntry),
	}
}

// cacheable reports whether values for the key's route are cached at all
func (c *responseCache) cacheable(key Key) bool {
	return c.policy.TTLFor(key.Route()) > 0
}

// get returns the value stored under key if it has not expired. Expired
// entries are dropped.
func (c *responseCache) get(key Key) (any, bool) {
	ttl := c.policy.TTLFor(key.Route())
	if ttl <= 0 {
		return nil, false
	}

	c.mu.RLock()
	ent, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if ent.validAt(c.now(), ttl) {
		return ent.value, true
	}

	c.mu.Lock()
	// Another caller may have refreshed the entry in between.
	if cur, ok := c.entries[key]; ok && cur.insertedAt.Equal(ent.insertedAt) {
		delete(c.entries, key)
	}
	c.mu.Unlock()

	return nil, false
}

// put inserts or replaces the entry for key, stamped with the current time
func (c *responseCache) put(key Key, value any) {
	if !c.cacheable(key) {
		return
	}
	c.mu.Lock()
	c.entries[key] = cacheEntry{value: value, insertedAt: c.now()}
	c.mu.Unlock()
}

// invalidate removes the entry for key
func (c *responseCache) invalidate(key Key) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// clear removes all entries
func (c *responseCache) clear() {
	c.mu.Lock()
	c.entries = make(map[Key]cacheEntry)
	c.mu.Unlock()
}

// len returns the number of stored entries, including expired ones not yet evicted
func (c *responseCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
