package cache

import (
	"container/list"
	"sync"
	"sync/atomic"
	"time"
)

// Cache is a mutex-guarded LRU cache with per-entry TTL.
// Entries expire ttl after their last Set; expired entries count as misses
// and are removed lazily on access.
type Cache[K comparable, V any] struct {
	mu         sync.Mutex
	maxEntries int
	ttl        time.Duration
	items      map[K]*list.Element
	evictList  *list.List
	now        func() time.Time

	hits   atomic.Int64
	misses atomic.Int64
}

type entry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time
}

// New creates a cache holding at most maxEntries values, each valid for ttl.
// maxEntries <= 0 means unbounded; ttl <= 0 means entries never expire.
func New[K comparable, V any](maxEntries int, ttl time.Duration) *Cache[K, V] {
	return &Cache[K, V]{
		maxEntries: maxEntries,
		ttl:        ttl,
		items:      make(map[K]*list.Element),
		evictList:  list.New(),
		now:        time.Now,
	}
}

// Get returns the cached value for key. ok=false on miss or expiry.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	ent, ok := c.items[key]
	if !ok {
		c.misses.Add(1)
		return zero, false
	}
	e := ent.Value.(*entry[K, V])
	if c.expired(e) {
		c.removeElement(ent)
		c.misses.Add(1)
		return zero, false
	}
	c.hits.Add(1)
	c.evictList.MoveToFront(ent)
	return e.value, true
}

// Set stores value under key, refreshing its TTL and recency.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := time.Time{}
	if c.ttl > 0 {
		expiresAt = c.now().Add(c.ttl)
	}

	if ent, ok := c.items[key]; ok {
		c.evictList.MoveToFront(ent)
		e := ent.Value.(*entry[K, V])
		e.value = value
		e.expiresAt = expiresAt
		return
	}

	ent := &entry[K, V]{key: key, value: value, expiresAt: expiresAt}
	c.items[key] = c.evictList.PushFront(ent)

	for c.maxEntries > 0 && c.evictList.Len() > c.maxEntries {
		oldest := c.evictList.Back()
		if oldest == nil {
			break
		}
		c.removeElement(oldest)
	}
}

// Remove drops key from the cache if present.
func (c *Cache[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		c.removeElement(ent)
	}
}

// Len returns the number of entries, including any not yet reaped expired ones.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictList.Len()
}

// Purge drops all entries. Hit/miss counters are preserved.
func (c *Cache[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]*list.Element)
	c.evictList.Init()
}

// Stats returns the cumulative hit and miss counters.
func (c *Cache[K, V]) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// SetClock overrides the time source. Intended for TTL tests.
func (c *Cache[K, V]) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *Cache[K, V]) expired(e *entry[K, V]) bool {
	return !e.expiresAt.IsZero() && c.now().After(e.expiresAt)
}

func (c *Cache[K, V]) removeElement(ent *list.Element) {
	c.evictList.Remove(ent)
	e := ent.Value.(*entry[K, V])
	delete(c.items, e.key)
}
