// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package layer

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/rescache/cache"
)

const (
	// DefaultMaxSizeMB is the pool budget in megabytes when NewPool is
	// given a zero budget. 16 MB holds four full-screen 1024x1024 layers.
	DefaultMaxSizeMB = 16

	bytesPerMB = 1024 * 1024
)

// Allocator creates a fresh layer of the given size. Pools built with
// WithAllocator use it to satisfy GetOrCreate misses.
type Allocator func(Size) (Layer, error)

// poolKey identifies one pooled layer. Layers of equal size are told
// apart by generation, so the pool can hold several side by side.
type poolKey struct {
	size Size
	gen  uint32
}

// Pool is a byte-budgeted cache of idle layers keyed by exact size.
//
// Released layers stay pooled until reused, destroyed to make room for
// newer releases, or dropped by Clear. The pool destroys in
// least-recently-released order and always admits the incoming layer
// when it fits the budget at all.
//
// Pool is safe for concurrent use.
type Pool struct {
	mu      sync.RWMutex
	cache   *cache.LRU[poolKey, Layer]
	index   map[Size][]uint32 // idle generations per size, oldest first
	nextGen uint32
	alloc   Allocator

	hits   atomic.Uint64
	misses atomic.Uint64
}

// Option configures a Pool.
type Option func(*Pool)

// WithAllocator sets the allocator used by GetOrCreate to create layers
// the pool cannot supply. Without it GetOrCreate fails with
// ErrNoAllocator on every miss.
func WithAllocator(alloc Allocator) Option {
	return func(p *Pool) {
		p.alloc = alloc
	}
}

// NewPool creates a pool bounded by maxBytes of pooled layer memory.
// A maxBytes of 0 selects the DefaultMaxSizeMB budget.
func NewPool(maxBytes uint64, opts ...Option) *Pool {
	if maxBytes == 0 {
		maxBytes = DefaultMaxSizeMB * bytesPerMB
	}

	p := &Pool{
		index: make(map[Size][]uint32),
	}
	p.cache = cache.New[poolKey, Layer](maxBytes,
		cache.WithWeigher[poolKey, Layer](func(_ poolKey, l Layer) uint64 {
			return l.ByteSize()
		}),
		cache.WithEvictFunc[poolKey, Layer](func(key poolKey, l Layer) {
			p.dropIndex(key)
			l.Destroy()
		}),
	)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Acquire removes and returns an idle layer of exactly size. When
// several are pooled, the most recently released one is returned.
// Ownership transfers to the caller; the pool will not destroy the
// layer. Returns (nil, false) when no layer of that size is pooled.
func (p *Pool) Acquire(size Size) (Layer, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	gens := p.index[size]
	if len(gens) == 0 {
		p.misses.Add(1)
		return nil, false
	}

	gen := gens[len(gens)-1]
	if len(gens) == 1 {
		delete(p.index, size)
	} else {
		p.index[size] = gens[:len(gens)-1]
	}

	l, ok := p.cache.Take(poolKey{size: size, gen: gen})
	if !ok {
		// The index and the cache always agree; a miss here is a bug.
		panic("layer: pool index out of sync")
	}

	p.hits.Add(1)
	return l, true
}

// Release offers l back to the pool. On true the pool owns the layer
// and may destroy it at any time; the caller must not use it again. On
// false the layer exceeds the whole pool budget and stays with the
// caller, who remains responsible for destroying it.
//
// Admitting a layer destroys least recently released layers until the
// budget holds, so a release can reclaim more memory than it adds.
func (p *Pool) Release(l Layer) bool {
	if l == nil {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	size := l.Size()
	key := poolKey{size: size, gen: p.nextGen}
	if !p.cache.Put(key, l) {
		return false
	}

	p.nextGen++
	p.index[size] = append(p.index[size], key.gen)
	return true
}

// GetOrCreate returns a pooled layer of exactly size, or allocates a
// fresh one on miss. Without an allocator, misses fail with
// ErrNoAllocator.
func (p *Pool) GetOrCreate(size Size) (Layer, error) {
	if l, ok := p.Acquire(size); ok {
		return l, nil
	}

	p.mu.RLock()
	alloc := p.alloc
	p.mu.RUnlock()

	if alloc == nil {
		return nil, ErrNoAllocator
	}

	l, err := alloc(size)
	if err != nil {
		return nil, fmt.Errorf("layer: allocate %v: %w", size, err)
	}
	return l, nil
}

// SetMaxSize changes the pool budget in bytes, destroying least
// recently released layers if the pool now exceeds it. A maxBytes of 0
// selects the DefaultMaxSizeMB budget.
func (p *Pool) SetMaxSize(maxBytes uint64) {
	if maxBytes == 0 {
		maxBytes = DefaultMaxSizeMB * bytesPerMB
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache.SetMaxWeight(maxBytes)
}

// MaxSize returns the pool budget in bytes.
func (p *Pool) MaxSize() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cache.MaxWeight()
}

// Size returns the total bytes of all pooled layers.
func (p *Pool) Size() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cache.Weight()
}

// Count returns the number of pooled layers.
func (p *Pool) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cache.Len()
}

// Clear destroys every pooled layer and empties the pool. The budget
// and statistics are unchanged.
func (p *Pool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache.Clear()
}

// dropIndex removes key's generation from the per-size index. Called
// from the eviction hook with p.mu held.
func (p *Pool) dropIndex(key poolKey) {
	gens := p.index[key.size]
	for i, gen := range gens {
		if gen == key.gen {
			p.index[key.size] = append(gens[:i], gens[i+1:]...)
			break
		}
	}
	if len(p.index[key.size]) == 0 {
		delete(p.index, key.size)
	}
}

// PoolStats is a snapshot of pool statistics.
type PoolStats struct {
	Size      uint64  // Current pooled bytes
	MaxSize   uint64  // Pool budget in bytes
	Layers    int     // Number of pooled layers
	Hits      uint64  // Acquires satisfied from the pool
	Misses    uint64  // Acquires that found no matching layer
	HitRate   float64 // Hits / (Hits + Misses)
	Evictions uint64  // Layers destroyed to stay within budget
}

// String returns a human-readable summary of the statistics.
func (s PoolStats) String() string {
	usedPct := float64(0)
	if s.MaxSize > 0 {
		usedPct = float64(s.Size) / float64(s.MaxSize) * 100
	}
	return fmt.Sprintf("LayerPool[%.1f%% full, %d/%d bytes, %d layers, %.1f%% hit rate, %d evictions]",
		usedPct, s.Size, s.MaxSize, s.Layers, s.HitRate*100, s.Evictions)
}

// Stats returns a snapshot of pool statistics.
func (p *Pool) Stats() PoolStats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	hits := p.hits.Load()
	misses := p.misses.Load()

	hitRate := float64(0)
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	cs := p.cache.Stats()
	return PoolStats{
		Size:      cs.Weight,
		MaxSize:   cs.MaxWeight,
		Layers:    cs.Len,
		Hits:      hits,
		Misses:    misses,
		HitRate:   hitRate,
		Evictions: cs.Evictions,
	}
}

// ResetStats zeroes the hit, miss and eviction counters.
func (p *Pool) ResetStats() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hits.Store(0)
	p.misses.Store(0)
	p.cache.ResetStats()
}
