package texture

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/rescache"
)

// ErrTextureDestroyed is returned when operating on a destroyed texture.
var ErrTextureDestroyed = errors.New("texture: texture has been destroyed")

// Texture is a GPU texture uploaded from an Image, owned by its Cache.
//
// The cache destroys textures on eviction, Remove and Clear. Holders
// must treat a texture as borrowed: re-Get it each frame instead of
// retaining it across cache operations.
//
// Texture is safe for concurrent read access. The default view is
// created lazily, exactly once.
type Texture struct {
	id         rescache.ResourceID
	width      int
	height     int
	generation uint64

	mu        sync.RWMutex
	device    hal.Device
	texture   hal.Texture
	viewOnce  sync.Once
	view      hal.TextureView
	viewErr   error
	destroyed bool
}

// ID returns the identity of the source image.
func (t *Texture) ID() rescache.ResourceID {
	return t.id
}

// Width returns the texture width in pixels, after any downscaling.
func (t *Texture) Width() int {
	return t.width
}

// Height returns the texture height in pixels, after any downscaling.
func (t *Texture) Height() int {
	return t.height
}

// ByteSize returns the GPU memory the texture occupies (width * height * 4).
func (t *Texture) ByteSize() uint64 {
	return uint64(t.width) * uint64(t.height) * bytesPerPixel
}

// Generation returns the image generation the pixels were uploaded from.
func (t *Texture) Generation() uint64 {
	return t.generation
}

// HALTexture returns the underlying texture handle.
//
// Returns nil once the cache has destroyed the texture. The caller
// should not hold the handle across cache operations.
func (t *Texture) HALTexture() hal.Texture {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.destroyed {
		return nil
	}
	return t.texture
}

// IsDestroyed reports whether the cache has destroyed the texture.
func (t *Texture) IsDestroyed() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.destroyed
}

// View returns the default sampling view, creating it on first use.
//
// Multiple goroutines may call View concurrently; the view is created
// exactly once.
func (t *Texture) View() (hal.TextureView, error) {
	t.mu.RLock()
	if t.destroyed {
		t.mu.RUnlock()
		return nil, ErrTextureDestroyed
	}
	t.mu.RUnlock()

	t.viewOnce.Do(func() {
		t.view, t.viewErr = t.createView()
	})

	if t.viewErr != nil {
		return nil, t.viewErr
	}
	return t.view, nil
}

// createView creates the default view. Called via viewOnce.
func (t *Texture) createView() (hal.TextureView, error) {
	t.mu.RLock()
	device := t.device
	tex := t.texture
	destroyed := t.destroyed
	t.mu.RUnlock()

	if destroyed || tex == nil {
		return nil, ErrTextureDestroyed
	}

	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         fmt.Sprintf("image_%d_view", t.id),
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("texture: create view for image %d: %w", t.id, err)
	}
	return view, nil
}

// destroy releases the view and texture. Idempotent. The cache calls
// this when the entry leaves destructively.
//
// The view field itself is left alone: viewOnce is its only writer, so
// View can read it without holding the lock.
func (t *Texture) destroy() {
	t.mu.Lock()
	if t.destroyed {
		t.mu.Unlock()
		return
	}
	t.destroyed = true
	device := t.device
	tex := t.texture
	view := t.view
	t.texture = nil
	t.mu.Unlock()

	if view != nil {
		device.DestroyTextureView(view)
	}
	if tex != nil && device != nil {
		device.DestroyTexture(tex)
	}
}
