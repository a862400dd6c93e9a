// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package layer

import (
	"errors"
	"fmt"
)

// ErrNoAllocator is returned by Pool.GetOrCreate when the pool cannot
// satisfy a request from idle layers and was built without an allocator.
var ErrNoAllocator = errors.New("layer: pool has no allocator")

// Size is the pixel dimensions of a layer. Pooling matches on exact
// equality, so Size doubles as the pool lookup key.
type Size struct {
	Width  int
	Height int
}

// String returns the size in "WxH" form.
func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Layer is a reusable render target held by a Pool.
//
// A layer has exactly one owner at a time. While pooled, the pool may
// destroy it to stay within budget; once acquired, destruction is the
// caller's responsibility until the layer is released back.
type Layer interface {
	// Size returns the pixel dimensions the layer was created with.
	Size() Size

	// ByteSize returns the GPU memory the layer occupies in bytes.
	// The value counts against the pool budget while the layer is pooled.
	ByteSize() uint64

	// Destroy releases the layer's GPU resources. Destroy is safe to
	// call multiple times; only the first call has an effect.
	Destroy()
}
