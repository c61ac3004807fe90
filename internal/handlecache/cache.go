package handlecache

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Key identifies a cached handle. Keys are minted from a monotonic counter and
// never reused within a process lifetime, so a stale key is distinguishable
// from a live one only by cache absence, never by collision. A key is
// meaningless outside the cache instance that issued it.
type Key uint64

// Cache is a fixed-capacity least-recently-used store of owned handles.
// It has a single logical owner; concurrent use requires external
// synchronization by the caller.
type Cache[T any] struct {
	entries *lru.Cache[Key, T]
	next    Key
}

// New constructs a cache. Capacity below one is a caller programming error
// and fails loudly here instead of panicking at first use.
func New[T any](capacity int) (*Cache[T], error) {
	entries, err := lru.New[Key, T](capacity)
	if err != nil {
		return nil, fmt.Errorf("handle cache capacity %d: %w", capacity, err)
	}
	return &Cache[T]{entries: entries}, nil
}

// Push inserts value under a freshly minted key, evicting the least-recently-
// used entry when at capacity, and returns the key for later lookup.
func (c *Cache[T]) Push(value T) Key {
	key := c.next
	c.next++
	c.entries.Add(key, value)
	return key
}

// GetOrInsert returns the value cached under key, marking it most-recently-
// used. On a miss it invokes factory, caches the result under key, and
// returns it.
func (c *Cache[T]) GetOrInsert(key Key, factory func() T) T {
	if value, ok := c.entries.Get(key); ok {
		return value
	}
	value := factory()
	c.entries.Add(key, value)
	return value
}

// Len reports the number of resident entries.
func (c *Cache[T]) Len() int {
	return c.entries.Len()
}

// Contains reports residency without disturbing recency order.
func (c *Cache[T]) Contains(key Key) bool {
	return c.entries.Contains(key)
}
