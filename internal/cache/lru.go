package cache

import (
	"container/list"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/vbloom/internal/resource"
)

// LRU is a size-bounded least-recently-used cache.
type LRU[V any] struct {
	mu        sync.Mutex
	capacity  int64
	size      int64
	items     map[string]*list.Element
	evictList *list.List
	rc        *resource.Controller

	hits   atomic.Int64
	misses atomic.Int64
}

type entry[V any] struct {
	key   string
	value V
	size  int64
}

// NewLRU creates a new LRU cache with the given capacity in bytes.
// If rc is provided, it will be used to track memory usage.
func NewLRU[V any](capacity int64, rc *resource.Controller) *LRU[V] {
	return &LRU[V]{
		capacity:  capacity,
		items:     make(map[string]*list.Element),
		evictList: list.New(),
		rc:        rc,
	}
}

// Get returns the cached value for key.
func (c *LRU[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		c.hits.Add(1)
		c.evictList.MoveToFront(ent)
		return ent.Value.(*entry[V]).value, true
	}
	c.misses.Add(1)
	var zero V
	return zero, false
}

// Set caches value under key, charged as size bytes. It reports whether the
// value was admitted: values larger than the capacity, or that do not fit
// the controller's memory budget, are not cached.
func (c *LRU[V]) Set(key string, value V, size int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if size > c.capacity {
		return false
	}

	if ent, ok := c.items[key]; ok {
		e := ent.Value.(*entry[V])
		if size > e.size && !c.rc.TryAcquireMemory(size-e.size) {
			// Keep the old value.
			return false
		}
		if size < e.size {
			c.rc.ReleaseMemory(e.size - size)
		}
		c.size += size - e.size
		e.value, e.size = value, size
		c.evictList.MoveToFront(ent)
		c.evict()
		return true
	}

	// Evict locally first so released memory can be reacquired below.
	for c.size+size > c.capacity {
		ent := c.evictList.Back()
		if ent == nil {
			break
		}
		c.removeElement(ent)
	}

	if !c.rc.TryAcquireMemory(size) {
		return false
	}

	element := c.evictList.PushFront(&entry[V]{key: key, value: value, size: size})
	c.items[key] = element
	c.size += size
	return true
}

// Remove drops key from the cache and reports whether it was present.
func (c *LRU[V]) Remove(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	ent, ok := c.items[key]
	if ok {
		c.removeElement(ent)
	}
	return ok
}

// Invalidate removes entries whose key matches the predicate.
func (c *LRU[V]) Invalidate(predicate func(key string) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, element := range c.items {
		if predicate(key) {
			c.removeElement(element)
		}
	}
}

// Purge removes all entries.
func (c *LRU[V]) Purge() {
	c.Invalidate(func(string) bool { return true })
}

func (c *LRU[V]) evict() {
	for c.size > c.capacity {
		element := c.evictList.Back()
		if element == nil {
			break
		}
		c.removeElement(element)
	}
}

func (c *LRU[V]) removeElement(e *list.Element) {
	c.evictList.Remove(e)
	kv := e.Value.(*entry[V])
	delete(c.items, kv.key)
	c.size -= kv.size
	c.rc.ReleaseMemory(kv.size)
}

// Stats returns hit and miss counts.
func (c *LRU[V]) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Size returns the current size of the cache in bytes.
func (c *LRU[V]) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Len returns the number of cached entries.
func (c *LRU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
