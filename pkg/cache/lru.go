package cache

import (
	"container/list"
	"sync"
)

type lruEntry[K comparable, V any] struct {
	key   K
	value V
}

// LRUCache is a thread-safe LRU cache. When it reaches capacity, the least
// recently used item is evicted.
//
// The evict callback runs after the cache lock is released, so it may block
// (closing a form waits for its loop to drain) or call back into the cache.
type LRUCache[K comparable, V any] struct {
	capacity int
	items    map[K]*list.Element
	eviction *list.List
	mu       sync.Mutex
	onEvict  func(key K, value V)
}

// NewLRUCache creates a new LRU cache with the specified capacity.
// The capacity must be positive, otherwise it panics.
func NewLRUCache[K comparable, V any](capacity int) *LRUCache[K, V] {
	if capacity <= 0 {
		panic("LRU cache capacity must be positive")
	}
	return &LRUCache[K, V]{
		capacity: capacity,
		items:    make(map[K]*list.Element),
		eviction: list.New(),
	}
}

// SetEvictCallback sets a function called for every entry dropped by
// capacity pressure, Remove or Clear.
func (c *LRUCache[K, V]) SetEvictCallback(fn func(key K, value V)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEvict = fn
}

// Get retrieves a value and marks it as recently used.
func (c *LRUCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.eviction.MoveToFront(elem)
		return elem.Value.(*lruEntry[K, V]).value, true
	}

	var zero V
	return zero, false
}

// Peek retrieves a value without touching its recency.
func (c *LRUCache[K, V]) Peek(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		return elem.Value.(*lruEntry[K, V]).value, true
	}

	var zero V
	return zero, false
}

// Put adds or updates a value. Returns the previous value if it existed.
// Replacing a value does not invoke the evict callback.
func (c *LRUCache[K, V]) Put(key K, value V) (V, bool) {
	c.mu.Lock()

	if elem, ok := c.items[key]; ok {
		c.eviction.MoveToFront(elem)
		entry := elem.Value.(*lruEntry[K, V])
		old := entry.value
		entry.value = value
		c.mu.Unlock()
		return old, true
	}

	c.items[key] = c.eviction.PushFront(&lruEntry[K, V]{key: key, value: value})

	var evicted []*lruEntry[K, V]
	for c.eviction.Len() > c.capacity {
		evicted = append(evicted, c.removeElement(c.eviction.Back()))
	}
	fn := c.onEvict
	c.mu.Unlock()

	notify(fn, evicted)

	var zero V
	return zero, false
}

// Remove deletes key and returns its value if it existed.
func (c *LRUCache[K, V]) Remove(key K) (V, bool) {
	c.mu.Lock()

	elem, ok := c.items[key]
	if !ok {
		c.mu.Unlock()
		var zero V
		return zero, false
	}
	entry := c.removeElement(elem)
	fn := c.onEvict
	c.mu.Unlock()

	notify(fn, []*lruEntry[K, V]{entry})
	return entry.value, true
}

func (c *LRUCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eviction.Len()
}

// Keys returns the keys from most to least recently used.
func (c *LRUCache[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]K, 0, c.eviction.Len())
	for e := c.eviction.Front(); e != nil; e = e.Next() {
		keys = append(keys, e.Value.(*lruEntry[K, V]).key)
	}
	return keys
}

// Clear removes all items, invoking the evict callback for each.
func (c *LRUCache[K, V]) Clear() {
	c.mu.Lock()
	evicted := make([]*lruEntry[K, V], 0, c.eviction.Len())
	for e := c.eviction.Back(); e != nil; e = e.Prev() {
		evicted = append(evicted, e.Value.(*lruEntry[K, V]))
	}
	c.items = make(map[K]*list.Element)
	c.eviction.Init()
	fn := c.onEvict
	c.mu.Unlock()

	notify(fn, evicted)
}

// Must be called with lock held.
func (c *LRUCache[K, V]) removeElement(elem *list.Element) *lruEntry[K, V] {
	c.eviction.Remove(elem)
	entry := elem.Value.(*lruEntry[K, V])
	delete(c.items, entry.key)
	return entry
}

func notify[K comparable, V any](fn func(K, V), entries []*lruEntry[K, V]) {
	if fn == nil {
		return
	}
	for _, e := range entries {
		fn(e.key, e.value)
	}
}
