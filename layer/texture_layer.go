// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package layer

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// ErrLayerDestroyed is returned when a destroyed layer is used.
var ErrLayerDestroyed = errors.New("layer: layer destroyed")

// bytesPerPixel is the BGRA8 texel size used for layer memory accounting.
const bytesPerPixel = 4

// TextureLayer is a GPU texture usable as an offscreen render target
// and sampled during compositing. It is the Layer implementation pooled
// by render pipelines.
type TextureLayer struct {
	size    Size
	device  hal.Device
	texture hal.Texture
	view    hal.TextureView
}

// NewTextureLayer creates a single-sampled BGRA8 texture of the given
// size on device, usable as a render attachment and for sampling.
func NewTextureLayer(device hal.Device, size Size) (*TextureLayer, error) {
	if device == nil {
		return nil, errors.New("layer: nil device")
	}
	if size.Width <= 0 || size.Height <= 0 {
		return nil, fmt.Errorf("layer: invalid size %v", size)
	}

	//nolint:gosec // G115: dimensions validated positive
	texture, err := device.CreateTexture(&hal.TextureDescriptor{
		Label: fmt.Sprintf("layer_%dx%d", size.Width, size.Height),
		Size: hal.Extent3D{
			Width:              uint32(size.Width),
			Height:             uint32(size.Height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding,
	})
	if err != nil {
		return nil, fmt.Errorf("layer: create texture %v: %w", size, err)
	}

	return &TextureLayer{
		size:    size,
		device:  device,
		texture: texture,
	}, nil
}

// Size returns the pixel dimensions the layer was created with.
func (l *TextureLayer) Size() Size {
	return l.size
}

// ByteSize returns the texture memory in bytes (width * height * 4).
func (l *TextureLayer) ByteSize() uint64 {
	return uint64(l.size.Width) * uint64(l.size.Height) * bytesPerPixel
}

// Texture returns the underlying texture, or nil after Destroy.
func (l *TextureLayer) Texture() hal.Texture {
	return l.texture
}

// View returns the layer's default texture view, creating it on first
// use. Both rendering into the layer and sampling it during compositing
// go through this view.
func (l *TextureLayer) View() (hal.TextureView, error) {
	if l.texture == nil {
		return nil, ErrLayerDestroyed
	}
	if l.view != nil {
		return l.view, nil
	}

	view, err := l.device.CreateTextureView(l.texture, &hal.TextureViewDescriptor{
		Label: "layer_view",
	})
	if err != nil {
		return nil, fmt.Errorf("layer: create texture view %v: %w", l.size, err)
	}
	l.view = view
	return view, nil
}

// Destroy releases the view and texture. Safe to call multiple times.
func (l *TextureLayer) Destroy() {
	if l.view != nil {
		l.device.DestroyTextureView(l.view)
		l.view = nil
	}
	if l.texture != nil {
		l.device.DestroyTexture(l.texture)
		l.texture = nil
	}
}

// PoolAllocator returns an Allocator that creates texture layers on
// device:
//
//	pool := layer.NewPool(0, layer.WithAllocator(layer.PoolAllocator(device)))
func PoolAllocator(device hal.Device) Allocator {
	return func(size Size) (Layer, error) {
		return NewTextureLayer(device, size)
	}
}

// Ensure TextureLayer implements Layer.
var _ Layer = (*TextureLayer)(nil)
