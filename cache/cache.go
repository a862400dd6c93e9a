// Package cache provides a bounded, weight-aware LRU cache.
//
// The cache holds at most a configurable total weight of entries. By
// default every entry weighs 1, so the bound is an entry count; with a
// custom weigher the bound becomes a byte budget or any other measure.
// When an insertion would exceed the bound, least recently used entries
// are evicted until the new entry fits.
//
// A removal hook observes every destructive removal (capacity eviction,
// Evict, Clear), so owned resources such as GPU textures can be torn
// down exactly once. Take and Remove hand the value back to the caller
// instead and bypass the hook.
//
// The cache is not safe for concurrent use; callers that share one
// across goroutines must provide their own synchronization.
package cache

import (
	"fmt"
	"sync/atomic"
)

// Weigher computes the weight of an entry. The weight is fixed at
// insertion time; mutating a cached value does not re-weigh it.
type Weigher[K comparable, V any] func(key K, value V) uint64

// EvictFunc observes an entry leaving the cache destructively. It runs
// after the entry is detached, so the cache is consistent and may be
// used from inside the hook.
type EvictFunc[K comparable, V any] func(key K, value V)

// entry is a cached value with its recency node and recorded weight.
type entry[K comparable, V any] struct {
	value  V
	weight uint64
	node   *lruNode[K]
}

// LRU is a weight-bounded cache with least-recently-used eviction.
//
// LRU is not safe for concurrent use.
type LRU[K comparable, V any] struct {
	entries   map[K]*entry[K, V]
	order     *lruList[K]
	weight    uint64
	maxWeight uint64
	weigher   Weigher[K, V]
	onEvict   EvictFunc[K, V]

	// Statistics
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// Option configures an LRU.
type Option[K comparable, V any] func(*LRU[K, V])

// WithWeigher sets the function used to weigh entries. Without it every
// entry weighs 1 and maxWeight is a plain entry count.
func WithWeigher[K comparable, V any](w Weigher[K, V]) Option[K, V] {
	return func(c *LRU[K, V]) {
		c.weigher = w
	}
}

// WithEvictFunc sets the hook invoked on capacity eviction, Evict and
// Clear. The hook never fires for Take or Remove.
func WithEvictFunc[K comparable, V any](fn EvictFunc[K, V]) Option[K, V] {
	return func(c *LRU[K, V]) {
		c.onEvict = fn
	}
}

// New creates a cache bounded by maxWeight. A maxWeight of 0 is clamped
// to 1 so the cache is never unusable.
func New[K comparable, V any](maxWeight uint64, opts ...Option[K, V]) *LRU[K, V] {
	if maxWeight == 0 {
		maxWeight = 1
	}

	c := &LRU[K, V]{
		entries:   make(map[K]*entry[K, V]),
		order:     newLRUList[K](),
		maxWeight: maxWeight,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value for key and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	ent, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)
		var zero V
		return zero, false
	}

	c.order.MoveToFront(ent.node)
	c.hits.Add(1)
	return ent.value, true
}

// Take removes the entry for key and returns its value. Ownership
// transfers to the caller: the removal hook does not fire.
func (c *LRU[K, V]) Take(key K) (V, bool) {
	value, _, ok := c.detach(key)
	if !ok {
		c.misses.Add(1)
		return value, false
	}

	c.hits.Add(1)
	return value, true
}

// Peek returns the value for key without touching recency or counters.
func (c *LRU[K, V]) Peek(key K) (V, bool) {
	ent, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	return ent.value, true
}

// Contains reports whether key is cached, without touching recency.
func (c *LRU[K, V]) Contains(key K) bool {
	_, ok := c.entries[key]
	return ok
}

// Put inserts value under key as the most recently used entry, evicting
// least recently used entries until the new entry fits.
//
// If the entry alone outweighs the whole cache it is refused and false
// is returned; the caller keeps ownership of the value. If key is
// already present the old value is replaced silently, without the
// removal hook. Callers that own the old value should Evict first.
func (c *LRU[K, V]) Put(key K, value V) bool {
	w := c.weigh(key, value)
	if w > c.maxWeight {
		return false
	}

	// Replace any existing entry before making room.
	c.detach(key)

	for c.weight+w > c.maxWeight {
		if !c.evictOldest() {
			break
		}
	}

	node := c.order.PushFront(key)
	c.entries[key] = &entry[K, V]{value: value, weight: w, node: node}
	c.weight += w
	return true
}

// Remove removes the entry for key without invoking the removal hook.
// The caller keeps responsibility for the value. Returns false if the
// key is not cached.
func (c *LRU[K, V]) Remove(key K) bool {
	_, _, ok := c.detach(key)
	return ok
}

// Evict removes the entry for key and invokes the removal hook on it.
// Returns false if the key is not cached.
func (c *LRU[K, V]) Evict(key K) bool {
	value, _, ok := c.detach(key)
	if !ok {
		return false
	}

	if c.onEvict != nil {
		c.onEvict(key, value)
	}
	return true
}

// Clear removes every entry, invoking the removal hook on each in
// least-to-most recently used order.
func (c *LRU[K, V]) Clear() {
	for {
		key, ok := c.order.Oldest()
		if !ok {
			return
		}

		value, _, _ := c.detach(key)
		if c.onEvict != nil {
			c.onEvict(key, value)
		}
	}
}

// SetMaxWeight changes the weight bound, evicting least recently used
// entries if the cache now exceeds it. A bound of 0 is clamped to 1.
func (c *LRU[K, V]) SetMaxWeight(maxWeight uint64) {
	if maxWeight == 0 {
		maxWeight = 1
	}

	c.maxWeight = maxWeight
	for c.weight > c.maxWeight {
		if !c.evictOldest() {
			break
		}
	}
}

// Len returns the number of cached entries.
func (c *LRU[K, V]) Len() int {
	return len(c.entries)
}

// Weight returns the total weight of all cached entries.
func (c *LRU[K, V]) Weight() uint64 {
	return c.weight
}

// MaxWeight returns the current weight bound.
func (c *LRU[K, V]) MaxWeight() uint64 {
	return c.maxWeight
}

// weigh applies the configured weigher, defaulting to 1 per entry.
func (c *LRU[K, V]) weigh(key K, value V) uint64 {
	if c.weigher == nil {
		return 1
	}
	return c.weigher(key, value)
}

// detach removes the entry for key from the map, the recency list and
// the weight total. It fires no hook and touches no counters.
func (c *LRU[K, V]) detach(key K) (V, uint64, bool) {
	ent, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, 0, false
	}

	c.order.Remove(ent.node)
	delete(c.entries, key)
	c.weight -= ent.weight
	return ent.value, ent.weight, true
}

// evictOldest evicts the least recently used entry and invokes the
// removal hook. Returns false if the cache is empty.
func (c *LRU[K, V]) evictOldest() bool {
	key, ok := c.order.RemoveOldest()
	if !ok {
		return false
	}

	ent := c.entries[key]
	delete(c.entries, key)
	c.weight -= ent.weight
	c.evictions.Add(1)

	if c.onEvict != nil {
		c.onEvict(key, ent.value)
	}
	return true
}

// Stats is a snapshot of cache statistics.
type Stats struct {
	Len       int     // Current number of entries
	Weight    uint64  // Current total weight
	MaxWeight uint64  // Weight bound
	Hits      uint64  // Get/Take calls that found an entry
	Misses    uint64  // Get/Take calls that found nothing
	HitRate   float64 // Hits / (Hits + Misses)
	Evictions uint64  // Entries evicted to make room
}

// String returns a human-readable summary of the statistics.
func (s Stats) String() string {
	usedPct := float64(0)
	if s.MaxWeight > 0 {
		usedPct = float64(s.Weight) / float64(s.MaxWeight) * 100
	}
	return fmt.Sprintf("Cache[%.1f%% full, %d/%d weight, %d entries, %.1f%% hit rate, %d evictions]",
		usedPct, s.Weight, s.MaxWeight, s.Len, s.HitRate*100, s.Evictions)
}

// Stats returns a snapshot of cache statistics.
func (c *LRU[K, V]) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()

	hitRate := float64(0)
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return Stats{
		Len:       len(c.entries),
		Weight:    c.weight,
		MaxWeight: c.maxWeight,
		Hits:      hits,
		Misses:    misses,
		HitRate:   hitRate,
		Evictions: c.evictions.Load(),
	}
}

// ResetStats zeroes the hit, miss and eviction counters.
func (c *LRU[K, V]) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
}
