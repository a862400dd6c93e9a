// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package layer provides a byte-budgeted pool of reusable render layers.
//
// Allocating a GPU texture is expensive; UI workloads allocate and drop
// layers of the same few sizes every frame. The pool keeps destroyed
// layers around instead, keyed by their exact pixel dimensions, so the
// next frame can reuse them without touching the device.
//
// # Pooling Model
//
// The pool follows the render-layer cache design common to
// hardware-accelerated UI toolkits:
//
//   - Acquire returns an idle layer of exactly the requested size, or
//     reports a miss. There is no best-fit matching: a 64x65 request
//     never gets a 64x64 layer.
//   - Release offers a no-longer-needed layer back to the pool. The pool
//     takes ownership and destroys least recently released layers when
//     the byte budget overflows. A layer too large for the whole budget
//     is refused and stays with the caller.
//   - Layers of equal size form a stack: the most recently released one
//     is handed out first, keeping warm allocations warmest.
//
// # Usage
//
// Manual acquire/release with an explicit allocation fallback:
//
//	pool := layer.NewPool(32 * 1024 * 1024)
//
//	l, ok := pool.Acquire(layer.Size{Width: 256, Height: 256})
//	if !ok {
//	    l, err = layer.NewTextureLayer(device, layer.Size{Width: 256, Height: 256})
//	}
//	// ... draw into l ...
//	if !pool.Release(l) {
//	    l.Destroy() // pool refused it, still ours
//	}
//
// Or let the pool allocate on miss:
//
//	pool := layer.NewPool(0, layer.WithAllocator(layer.PoolAllocator(device)))
//	l, err := pool.GetOrCreate(layer.Size{Width: 256, Height: 256})
//
// # Thread Safety
//
// Pool is safe for concurrent use. Individual layers are not: a layer
// belongs to exactly one owner at a time, either the pool or a caller.
package layer
