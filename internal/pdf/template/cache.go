package template

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// CachedSource memoizes the bytes of other sources. Concurrent fetches of
// the same source share one underlying call. Failed fetches are not cached.
type CachedSource struct {
	src   Source
	cache *lruCache
	group singleflight.Group
}

// NewCachedSource wraps src, keeping its payload in cache under src.Name().
func NewCachedSource(src Source, cache *LRU) *CachedSource {
	return &CachedSource{src: src, cache: cache.c}
}

func (s *CachedSource) Name() string { return s.src.Name() }

// Fetch returns the cached payload or joins the fetch in flight. The shared
// fetch is not cancelled with any one caller; a caller whose ctx ends stops
// waiting and the others still receive the result.
func (s *CachedSource) Fetch(ctx context.Context) ([]byte, error) {
	key := s.src.Name()
	if b, ok := s.cache.get(key); ok {
		return b, nil
	}

	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (interface{}, error) {
		if b, ok := s.cache.get(key); ok {
			return b, nil
		}
		b, err := s.src.Fetch(shared)
		if err != nil {
			return nil, err
		}
		s.cache.put(key, b)
		return b, nil
	})

	select {
	case <-ctx.Done():
		return nil, unavailable(key, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

// Invalidate drops the cached payload so the next Fetch goes to the source.
func (s *CachedSource) Invalidate() bool {
	return s.cache.remove(s.src.Name())
}

// LRU is a template payload cache that may be shared by several
// CachedSources.
type LRU struct {
	c *lruCache
}

// NewLRU creates a cache holding at most capacity payloads.
func NewLRU(capacity int) *LRU {
	return &LRU{c: newLRUCache(capacity)}
}

// Stats returns cache statistics
func (l *LRU) Stats() CacheStats {
	return l.c.stats()
}

// Keys returns cached source names from most to least recently used.
func (l *LRU) Keys() []string {
	return l.c.keys()
}

// CacheStats provides statistics about cache performance
type CacheStats struct {
	Hits     int64 `json:"hits"`
	Misses   int64 `json:"misses"`
	Size     int   `json:"current_size"`
	Bytes    int64 `json:"bytes"`
	Capacity int   `json:"max_capacity"`
}

// lruCache is a mutex guarded doubly linked list with a sentinel head and tail.
type lruCache struct {
	mutex    sync.Mutex
	capacity int
	items    map[string]*cacheNode
	head     *cacheNode // most recently used
	tail     *cacheNode // least recently used
	bytes    int64
	hits     int64
	misses   int64
}

type cacheNode struct {
	key   string
	value []byte
	prev  *cacheNode
	next  *cacheNode
}

func newLRUCache(capacity int) *lruCache {
	if capacity <= 0 {
		capacity = 4
	}

	c := &lruCache{
		capacity: capacity,
		items:    make(map[string]*cacheNode),
		head:     &cacheNode{},
		tail:     &cacheNode{},
	}
	c.head.next = c.tail
	c.tail.prev = c.head
	return c
}

func (c *lruCache) get(key string) ([]byte, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	node, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false
	}
	c.unlink(node)
	c.pushFront(node)
	c.hits++
	return node.value, true
}

func (c *lruCache) put(key string, value []byte) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if node, ok := c.items[key]; ok {
		c.bytes += int64(len(value) - len(node.value))
		node.value = value
		c.unlink(node)
		c.pushFront(node)
		return
	}

	node := &cacheNode{key: key, value: value}
	c.pushFront(node)
	c.items[key] = node
	c.bytes += int64(len(value))

	if len(c.items) > c.capacity {
		lru := c.tail.prev
		c.unlink(lru)
		delete(c.items, lru.key)
		c.bytes -= int64(len(lru.value))
	}
}

func (c *lruCache) remove(key string) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	node, ok := c.items[key]
	if !ok {
		return false
	}
	c.unlink(node)
	delete(c.items, key)
	c.bytes -= int64(len(node.value))
	return true
}

func (c *lruCache) keys() []string {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	keys := make([]string, 0, len(c.items))
	for n := c.head.next; n != c.tail; n = n.next {
		keys = append(keys, n.key)
	}
	return keys
}

func (c *lruCache) stats() CacheStats {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return CacheStats{
		Hits:     c.hits,
		Misses:   c.misses,
		Size:     len(c.items),
		Bytes:    c.bytes,
		Capacity: c.capacity,
	}
}

func (c *lruCache) pushFront(node *cacheNode) {
	node.prev = c.head
	node.next = c.head.next
	c.head.next.prev = node
	c.head.next = node
}

func (c *lruCache) unlink(node *cacheNode) {
	node.prev.next = node.next
	node.next.prev = node.prev
}
