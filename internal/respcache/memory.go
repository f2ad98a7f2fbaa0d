package respcache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// MemoryCache is an LRU response cache with a per-entry TTL, directly
// adapted from the teacher's embedding LRU shape (container/list + map)
// with an expiry check added at Get time.
type MemoryCache struct {
	capacity int
	ttl      time.Duration
	entries  map[string]*list.Element
	lru      *list.List
	mu       sync.RWMutex
	now      func() time.Time
}

type memoryEntry struct {
	key       string
	value     *Entry
	expiresAt time.Time
}

// NewMemoryCache creates an in-process LRU cache with the given capacity
// and TTL.
func NewMemoryCache(capacity int, ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		capacity: capacity,
		ttl:      ttl,
		entries:  make(map[string]*list.Element),
		lru:      list.New(),
		now:      time.Now,
	}
}

// Get returns the cached entry for key, or false if absent or expired. An
// expired entry is evicted on read.
func (c *MemoryCache) Get(ctx context.Context, key string) (*Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	me := elem.Value.(*memoryEntry)
	if c.now().After(me.expiresAt) {
		c.lru.Remove(elem)
		delete(c.entries, key)
		return nil, false
	}
	c.lru.MoveToFront(elem)
	return me.value, true
}

// Set stores entry for key, evicting the least recently used entry if at
// capacity.
func (c *MemoryCache) Set(ctx context.Context, key string, entry *Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(c.ttl)
	if elem, ok := c.entries[key]; ok {
		c.lru.MoveToFront(elem)
		me := elem.Value.(*memoryEntry)
		me.value = entry
		me.expiresAt = expiresAt
		return
	}

	elem := c.lru.PushFront(&memoryEntry{key: key, value: entry, expiresAt: expiresAt})
	c.entries[key] = elem

	if c.lru.Len() > c.capacity {
		oldest := c.lru.Back()
		if oldest != nil {
			c.lru.Remove(oldest)
			delete(c.entries, oldest.Value.(*memoryEntry).key)
		}
	}
}

var _ ResponseCache = (*MemoryCache)(nil)
