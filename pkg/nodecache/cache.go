// Package nodecache implements a bounded LRU cache of parse results whose
// entries do not own the values they refer to.
//
// Values live in an Arena owned by whoever produced them. The cache only keeps
// Handles; when the owner frees a value, the entry pointing to it goes stale
// and is dropped on the next access.
package nodecache

import (
	"container/list"
	"fmt"
)

// NoPos is the Pos of keys that are not qualified by a position.
const NoPos = -1

// Key identifies a cached parse. Keys built by NewKey compare only the type
// and the text; keys built by NewPosKey also compare the position. A
// position-qualified key never equals an unqualified one.
type Key struct {
	TypeID int
	Text   string
	Pos    int
}

// NewKey returns a key that is not qualified by a position.
func NewKey(typeID int, text string) Key {
	return Key{typeID, text, NoPos}
}

// NewPosKey returns a key qualified by a position.
func NewPosKey(typeID int, text string, pos int) Key {
	return Key{typeID, text, pos}
}

// Qualified reports whether the key is qualified by a position.
func (k Key) Qualified() bool { return k.Pos != NoPos }

// Stats contains cache diagnostics.
type Stats struct {
	Size     int
	Capacity int
	Hits     int
	Misses   int
}

// HitRate returns the ratio of hits among all lookups, or 0 if there were no
// lookups.
func (s Stats) HitRate() float64 {
	if total := s.Hits + s.Misses; total > 0 {
		return float64(s.Hits) / float64(total)
	}
	return 0
}

func (s Stats) String() string {
	return fmt.Sprintf("size %d/%d, hits %d, misses %d, hit rate %.2f",
		s.Size, s.Capacity, s.Hits, s.Misses, s.HitRate())
}

// Cache is an LRU cache mapping keys to values in an Arena. It is not safe
// for concurrent use.
type Cache[T any] struct {
	arena    *Arena[T]
	capacity int
	ll       *list.List
	items    map[Key]*list.Element

	hits, misses int
}

type entry struct {
	key    Key
	handle Handle
}

// New creates a Cache over the given arena with the given capacity.
func New[T any](arena *Arena[T], capacity int) *Cache[T] {
	return &Cache[T]{
		arena:    arena,
		capacity: max(capacity, 0),
		ll:       list.New(),
		items:    make(map[Key]*list.Element),
	}
}

// Arena returns the arena the cache refers into.
func (c *Cache[T]) Arena() *Arena[T] { return c.arena }

// Lookup returns the value cached for the key and marks it as most recently
// used. An entry whose value has been freed counts as a miss and is removed.
func (c *Cache[T]) Lookup(k Key) (T, bool) {
	v, _, ok := c.LookupHandle(k)
	return v, ok
}

// LookupHandle is like Lookup, but also returns the handle of the value.
func (c *Cache[T]) LookupHandle(k Key) (T, Handle, bool) {
	var zero T
	e, ok := c.items[k]
	if !ok {
		c.misses++
		return zero, Handle{}, false
	}
	h := e.Value.(*entry).handle
	v, ok := c.arena.Get(h)
	if !ok {
		c.removeElement(e)
		c.misses++
		return zero, Handle{}, false
	}
	c.ll.MoveToFront(e)
	c.hits++
	return v, h, true
}

// Insert sets the entry for the key to the handle, marking it as most
// recently used, and evicts the least recently used entries beyond the
// capacity.
func (c *Cache[T]) Insert(k Key, h Handle) {
	if c.capacity == 0 {
		return
	}
	if e, ok := c.items[k]; ok {
		e.Value.(*entry).handle = h
		c.ll.MoveToFront(e)
		return
	}
	c.items[k] = c.ll.PushFront(&entry{k, h})
	c.evict()
}

// Remove removes the entry for the key, if any.
func (c *Cache[T]) Remove(k Key) {
	if e, ok := c.items[k]; ok {
		c.removeElement(e)
	}
}

// Resize changes the capacity, evicting entries as needed.
func (c *Cache[T]) Resize(capacity int) {
	c.capacity = max(capacity, 0)
	c.evict()
}

// Clear removes all entries. The hit and miss counters are kept.
func (c *Cache[T]) Clear() {
	c.ll.Init()
	clear(c.items)
}

// Len returns the number of entries, including ones that went stale but have
// not been accessed since.
func (c *Cache[T]) Len() int { return c.ll.Len() }

// Cap returns the capacity.
func (c *Cache[T]) Cap() int { return c.capacity }

// Stats returns the cache diagnostics.
func (c *Cache[T]) Stats() Stats {
	return Stats{c.ll.Len(), c.capacity, c.hits, c.misses}
}

func (c *Cache[T]) evict() {
	for c.ll.Len() > c.capacity {
		c.removeElement(c.ll.Back())
	}
}

func (c *Cache[T]) removeElement(e *list.Element) {
	c.ll.Remove(e)
	delete(c.items, e.Value.(*entry).key)
}
