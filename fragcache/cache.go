// Package fragcache maps fragment identities to cached render records.
//
// The cache is an explicit arena rather than a weak map: it never keeps a
// fragment alive on its own, and entries leave in two ways:
//
//   - Prune removes every entry whose identity the shaping oracle no longer
//     knows (the fragment was superseded or deleted).
//   - When a retention bound is set, the oldest detached entries are evicted
//     once more than that many are detached at the same time.
//
// Attached entries are never evicted by the retention bound. Detached entries
// stay addressable so a fragment scrolling back into the viewport reuses its
// record.
//
// Cache is not safe for concurrent use; it belongs to the layout thread.
package fragcache

import (
	"iter"

	"github.com/gogpu/vtext/fragment"
)

// Stats contains cache statistics for monitoring.
type Stats struct {
	// Len is the number of cached entries.
	Len int
	// Detached is the number of entries not currently attached.
	Detached int
	// Retain is the detached-entry bound (0 means unlimited).
	Retain int
	// Hits is the number of successful lookups.
	Hits uint64
	// Misses is the number of failed lookups.
	Misses uint64
	// HitRate is the cache hit rate (0.0 to 1.0).
	HitRate float64
	// Evictions is the number of entries removed by Prune or the bound.
	Evictions uint64
}

// entry holds a cached value. node is non-nil while the entry is detached.
type entry[V any] struct {
	value V
	node  *lruNode
}

// Cache is an identity-keyed store of values of type V.
type Cache[V any] struct {
	entries  map[fragment.ID]*entry[V]
	detached lruList
	retain   int
	onEvict  func(fragment.ID, V)

	hits      uint64
	misses    uint64
	evictions uint64
}

// New creates a cache that keeps at most retain detached entries.
// A retain of 0 or less means detached entries are kept until pruned.
func New[V any](retain int) *Cache[V] {
	if retain < 0 {
		retain = 0
	}
	return &Cache[V]{
		entries: make(map[fragment.ID]*entry[V]),
		retain:  retain,
	}
}

// OnEvict registers fn to be called for every entry removed by Prune, the
// retention bound, or Clear. Delete does not invoke it.
func (c *Cache[V]) OnEvict(fn func(fragment.ID, V)) {
	c.onEvict = fn
}

// Get returns the value cached for id.
func (c *Cache[V]) Get(id fragment.ID) (V, bool) {
	e, ok := c.entries[id]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	return e.value, true
}

// Peek returns the value cached for id without counting a hit or miss.
func (c *Cache[V]) Peek(id fragment.ID) (V, bool) {
	if e, ok := c.entries[id]; ok {
		return e.value, true
	}
	var zero V
	return zero, false
}

// Put stores v for id as an attached entry, replacing any previous value.
func (c *Cache[V]) Put(id fragment.ID, v V) {
	if e, ok := c.entries[id]; ok {
		e.value = v
		c.attach(e)
		return
	}
	c.entries[id] = &entry[V]{value: v}
}

// Delete removes id without invoking the eviction callback.
// It reports whether an entry was present.
func (c *Cache[V]) Delete(id fragment.ID) bool {
	e, ok := c.entries[id]
	if !ok {
		return false
	}
	c.attach(e)
	delete(c.entries, id)
	return true
}

// Detach marks id as no longer attached to the render tree. The entry stays
// addressable; if the retention bound is exceeded the oldest detached
// entries are evicted.
func (c *Cache[V]) Detach(id fragment.ID) {
	e, ok := c.entries[id]
	if !ok || e.node != nil {
		return
	}
	e.node = c.detached.PushFront(id)
	c.trim()
}

// Attach marks id as attached again, protecting it from the retention bound.
func (c *Cache[V]) Attach(id fragment.ID) {
	if e, ok := c.entries[id]; ok {
		c.attach(e)
	}
}

// IsDetached reports whether id is cached and currently detached.
func (c *Cache[V]) IsDetached(id fragment.ID) bool {
	e, ok := c.entries[id]
	return ok && e.node != nil
}

// Prune evicts every entry for which alive returns false and returns the
// number of evicted entries.
func (c *Cache[V]) Prune(alive func(fragment.ID) bool) int {
	n := 0
	for id, e := range c.entries {
		if alive(id) {
			continue
		}
		c.evict(id, e)
		n++
	}
	return n
}

// Len returns the number of cached entries.
func (c *Cache[V]) Len() int {
	return len(c.entries)
}

// All yields every cached entry in unspecified order.
func (c *Cache[V]) All() iter.Seq2[fragment.ID, V] {
	return func(yield func(fragment.ID, V) bool) {
		for id, e := range c.entries {
			if !yield(id, e.value) {
				return
			}
		}
	}
}

// Clear evicts every entry.
func (c *Cache[V]) Clear() {
	for id, e := range c.entries {
		c.evict(id, e)
	}
	c.detached.Clear()
}

// Stats returns current cache statistics.
func (c *Cache[V]) Stats() Stats {
	var hitRate float64
	if total := c.hits + c.misses; total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}
	return Stats{
		Len:       len(c.entries),
		Detached:  c.detached.Len(),
		Retain:    c.retain,
		Hits:      c.hits,
		Misses:    c.misses,
		HitRate:   hitRate,
		Evictions: c.evictions,
	}
}

// ResetStats resets the hit, miss and eviction counters.
func (c *Cache[V]) ResetStats() {
	c.hits = 0
	c.misses = 0
	c.evictions = 0
}

func (c *Cache[V]) attach(e *entry[V]) {
	if e.node != nil {
		c.detached.Remove(e.node)
		e.node = nil
	}
}

func (c *Cache[V]) trim() {
	if c.retain == 0 {
		return
	}
	for c.detached.Len() > c.retain {
		id, ok := c.detached.Oldest()
		if !ok {
			return
		}
		c.evict(id, c.entries[id])
	}
}

func (c *Cache[V]) evict(id fragment.ID, e *entry[V]) {
	c.attach(e)
	delete(c.entries, id)
	c.evictions++
	if c.onEvict != nil {
		c.onEvict(id, e.value)
	}
}
