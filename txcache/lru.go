package txcache

import (
	"container/list"
	"sync"
	"sync/atomic"
)

// LRU is the generic result-memoisation cache valueset and txops use to
// avoid recomputing identical $expand/$validate-code calls within a
// process. Grounded on the teacher's standalone cache.Cache[K,V] (a
// clean generic LRU with no terminology-specific assumptions baked in),
// folded directly into this package since nothing else in the module
// needs a cache-package-shaped dependency of its own.
type LRU[K comparable, V any] struct {
	mu       sync.RWMutex
	items    map[K]*lruEntry[K, V]
	order    *list.List
	capacity int

	hits   atomic.Uint64
	misses atomic.Uint64
	evicts atomic.Uint64
	sets   atomic.Uint64
}

type lruEntry[K comparable, V any] struct {
	key     K
	value   V
	element *list.Element
}

// NewLRU constructs an LRU with the given capacity. capacity<=0 defaults
// to 100.
func NewLRU[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity <= 0 {
		capacity = 100
	}
	return &LRU[K, V]{
		items:    make(map[K]*lruEntry[K, V], capacity),
		order:    list.New(),
		capacity: capacity,
	}
}

// Get retrieves a value from the cache. Accessing an item moves it to
// the front of the LRU list.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		c.misses.Add(1)
		var zero V
		return zero, false
	}

	c.hits.Add(1)

	c.mu.Lock()
	c.order.MoveToFront(e.element)
	c.mu.Unlock()

	return e.value, true
}

// Set adds or updates a value in the cache, evicting the least recently
// used entry if at capacity.
func (c *LRU[K, V]) Set(key K, value V) {
	c.sets.Add(1)

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		e.value = value
		c.order.MoveToFront(e.element)
		return
	}

	if len(c.items) >= c.capacity {
		c.evictOldest()
	}

	element := c.order.PushFront(key)
	c.items[key] = &lruEntry[K, V]{key: key, value: value, element: element}
}

// evictOldest removes the least recently used item. Must be called with
// mu held.
func (c *LRU[K, V]) evictOldest() {
	oldest := c.order.Back()
	if oldest == nil {
		return
	}
	key := oldest.Value.(K)
	delete(c.items, key)
	c.order.Remove(oldest)
	c.evicts.Add(1)
}

// Delete removes an item from the cache.
func (c *LRU[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		delete(c.items, key)
		c.order.Remove(e.element)
	}
}

// Len returns the current number of items in the cache.
func (c *LRU[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Clear removes all items from the cache.
func (c *LRU[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[K]*lruEntry[K, V], c.capacity)
	c.order.Init()
}

// LRUStats holds cache statistics.
type LRUStats struct {
	Size     int
	Capacity int
	Hits     uint64
	Misses   uint64
	Evicts   uint64
	Sets     uint64
	HitRate  float64
}

// Stats returns the cache's current statistics.
func (c *LRU[K, V]) Stats() LRUStats {
	c.mu.RLock()
	size := len(c.items)
	c.mu.RUnlock()

	hits := c.hits.Load()
	misses := c.misses.Load()
	total := hits + misses

	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return LRUStats{
		Size: size, Capacity: c.capacity,
		Hits: hits, Misses: misses, Evicts: c.evicts.Load(), Sets: c.sets.Load(),
		HitRate: hitRate,
	}
}

// GetOrSet returns the existing value for key if present; otherwise it
// calls fn to compute the value, stores it, and returns it. Atomic with
// respect to the cache — used to memoise $expand/$validate-code so two
// concurrent callers for the same key compute it at most once each.
func (c *LRU[K, V]) GetOrSet(key K, fn func() V) V {
	if v, ok := c.Get(key); ok {
		return v
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		c.order.MoveToFront(e.element)
		return e.value
	}

	value := fn()

	if len(c.items) >= c.capacity {
		c.evictOldest()
	}

	element := c.order.PushFront(key)
	c.items[key] = &lruEntry[K, V]{key: key, value: value, element: element}
	c.sets.Add(1)

	return value
}

// Keys returns all keys in the cache, in no particular order.
func (c *LRU[K, V]) Keys() []K {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]K, 0, len(c.items))
	for k := range c.items {
		keys = append(keys, k)
	}
	return keys
}

// Range calls fn for each item in the cache; iteration stops early if fn
// returns false.
func (c *LRU[K, V]) Range(fn func(key K, value V) bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for k, e := range c.items {
		if !fn(k, e.value) {
			break
		}
	}
}
