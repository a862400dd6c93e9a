// Package texture caches GPU textures uploaded from images.
//
// The cache is the texture side of the resource registry: images are
// uploaded on first use, reused by identity while their pixels are
// unchanged, and re-uploaded when the image generation moves. A byte
// budget bounds total GPU memory; least recently used textures are
// destroyed to make room.
//
// The registry calls Remove when an image dies, so a dead image never
// pins its upload. Images over the device dimension limit are refused,
// or shrunk to fit when the cache is built WithDownscale.
package texture

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/rescache"
	"github.com/gogpu/rescache/cache"
	"github.com/gogpu/rescache/internal/gpuutil"
)

const (
	// DefaultMaxSizeMB is the cache budget in megabytes when no
	// WithMaxSize option is given.
	DefaultMaxSizeMB = 24

	bytesPerMB    = 1024 * 1024
	bytesPerPixel = 4
)

// Cache is a byte-budgeted cache of GPU textures keyed by image
// identity.
//
// Cache is safe for concurrent use.
type Cache struct {
	mu             sync.RWMutex
	device         hal.Device
	queue          hal.Queue
	entries        *cache.LRU[rescache.ResourceID, *Texture]
	maxSize        uint64
	maxTextureSize int
	downscale      bool
}

// Option configures a Cache.
type Option func(*Cache)

// WithMaxSize sets the cache budget in bytes. Zero keeps the
// DefaultMaxSizeMB default.
func WithMaxSize(bytes uint64) Option {
	return func(c *Cache) {
		if bytes > 0 {
			c.maxSize = bytes
		}
	}
}

// WithMaxTextureSize caps accepted image dimensions in pixels. The
// default comes from gputypes.DefaultLimits.
func WithMaxTextureSize(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.maxTextureSize = n
		}
	}
}

// WithDownscale makes the cache shrink oversized images to the
// dimension cap instead of refusing them.
func WithDownscale(enabled bool) Option {
	return func(c *Cache) {
		c.downscale = enabled
	}
}

// New creates a texture cache that uploads through device and queue.
func New(device hal.Device, queue hal.Queue, opts ...Option) *Cache {
	c := &Cache{
		device:         device,
		queue:          queue,
		maxSize:        DefaultMaxSizeMB * bytesPerMB,
		maxTextureSize: int(gputypes.DefaultLimits().MaxTextureDimension2D),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.entries = cache.New[rescache.ResourceID, *Texture](c.maxSize,
		cache.WithWeigher[rescache.ResourceID, *Texture](func(_ rescache.ResourceID, t *Texture) uint64 {
			return t.ByteSize()
		}),
		cache.WithEvictFunc[rescache.ResourceID, *Texture](func(_ rescache.ResourceID, t *Texture) {
			t.destroy()
		}),
	)
	return c
}

// NewWithProvider creates a texture cache on the HAL handles extracted
// from a host device provider.
func NewWithProvider(p rescache.DeviceHandle, opts ...Option) (*Cache, error) {
	device, queue, err := gpuutil.Extract(p)
	if err != nil {
		return nil, fmt.Errorf("texture: %w", err)
	}
	return New(device, queue, opts...), nil
}

// Get returns the GPU texture for img, uploading it on first use.
//
// A cached texture is reused while img's generation is unchanged;
// edited pixels trigger a re-upload that destroys the stale texture.
// Images larger than the dimension cap are refused unless the cache
// was built WithDownscale. An upload that would outweigh the whole
// budget is refused; raise the budget with SetMaxSize or enable
// downscaling.
func (c *Cache) Get(img *rescache.Image) (*Texture, error) {
	if img == nil {
		return nil, errors.New("texture: nil image")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	id := img.ID()
	if t, ok := c.entries.Get(id); ok {
		if t.generation == img.Generation() {
			return t, nil
		}
		// Pixels changed since the upload; drop the stale texture.
		c.entries.Evict(id)
	}

	t, err := c.upload(img)
	if err != nil {
		return nil, err
	}
	c.entries.Put(id, t)
	return t, nil
}

// upload converts img to RGBA8, creates the texture and writes the
// pixels. Called with c.mu held.
func (c *Cache) upload(img *rescache.Image) (*Texture, error) {
	if c.device == nil || c.queue == nil {
		return nil, errors.New("texture: no device")
	}

	id := img.ID()
	w, h := img.Width(), img.Height()
	if w > c.maxTextureSize || h > c.maxTextureSize {
		if !c.downscale {
			rescache.Logger().Warn("bitmap too large",
				"id", id, "width", w, "height", h, "max", c.maxTextureSize)
			return nil, fmt.Errorf("texture: image %d is %dx%d, max dimension is %d",
				id, w, h, c.maxTextureSize)
		}
	}

	data := img.RGBABytes()
	if data == nil {
		return nil, fmt.Errorf("texture: image %d has no pixels", id)
	}
	if w > c.maxTextureSize || h > c.maxTextureSize {
		data, w, h = downscaleRGBA(data, w, h, c.maxTextureSize)
	}

	byteSize := uint64(w) * uint64(h) * bytesPerPixel
	if byteSize > c.entries.MaxWeight() {
		rescache.Logger().Warn("bitmap exceeds texture cache budget",
			"id", id, "bytes", byteSize, "budget", c.entries.MaxWeight())
		return nil, fmt.Errorf("texture: image %d needs %d bytes, cache budget is %d",
			id, byteSize, c.entries.MaxWeight())
	}

	//nolint:gosec // G115: dimensions bounded by maxTextureSize
	tex, err := c.device.CreateTexture(&hal.TextureDescriptor{
		Label:         fmt.Sprintf("image_%d", id),
		Size:          hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("texture: create texture for image %d: %w", id, err)
	}

	//nolint:gosec // G115: dimensions bounded by maxTextureSize
	c.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
		},
		data,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(w) * bytesPerPixel,
			RowsPerImage: uint32(h),
		},
		&hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
	)

	return &Texture{
		id:         id,
		width:      w,
		height:     h,
		generation: img.Generation(),
		device:     c.device,
		texture:    tex,
	}, nil
}

// Remove destroys and forgets the texture for id. Identities that were
// never uploaded are ignored.
func (c *Cache) Remove(id rescache.ResourceID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Evict(id)
}

// Contains reports whether a texture for id is cached, without
// touching recency.
func (c *Cache) Contains(id rescache.ResourceID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries.Contains(id)
}

// Clear destroys every cached texture.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Clear()
}

// SetMaxSize changes the cache budget in bytes, destroying least
// recently used textures if the cache now exceeds it. Zero selects the
// DefaultMaxSizeMB budget.
func (c *Cache) SetMaxSize(bytes uint64) {
	if bytes == 0 {
		bytes = DefaultMaxSizeMB * bytesPerMB
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.SetMaxWeight(bytes)
}

// MaxSize returns the cache budget in bytes.
func (c *Cache) MaxSize() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries.MaxWeight()
}

// Size returns the total bytes of all cached textures.
func (c *Cache) Size() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries.Weight()
}

// Count returns the number of cached textures.
func (c *Cache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries.Len()
}

// CacheStats is a snapshot of cache statistics.
type CacheStats struct {
	Size      uint64  // Current cached bytes
	MaxSize   uint64  // Cache budget in bytes
	Entries   int     // Number of cached textures
	Hits      uint64  // Gets served from the cache
	Misses    uint64  // Gets that uploaded
	HitRate   float64 // Hits / (Hits + Misses)
	Evictions uint64  // Textures destroyed to make room
}

// String returns a human-readable summary of the statistics.
func (s CacheStats) String() string {
	usedPct := float64(0)
	if s.MaxSize > 0 {
		usedPct = float64(s.Size) / float64(s.MaxSize) * 100
	}
	return fmt.Sprintf("TextureCache[%.1f%% full, %d/%d bytes, %d entries, %.1f%% hit rate, %d evictions]",
		usedPct, s.Size, s.MaxSize, s.Entries, s.HitRate*100, s.Evictions)
}

// Stats returns a snapshot of cache statistics.
func (c *Cache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cs := c.entries.Stats()
	return CacheStats{
		Size:      cs.Weight,
		MaxSize:   cs.MaxWeight,
		Entries:   cs.Len,
		Hits:      cs.Hits,
		Misses:    cs.Misses,
		HitRate:   cs.HitRate,
		Evictions: cs.Evictions,
	}
}

// ResetStats zeroes the hit, miss and eviction counters.
func (c *Cache) ResetStats() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.ResetStats()
}

// downscaleRGBA scales RGBA pixels so the longest dimension becomes
// max, preserving aspect ratio. Only called when a dimension exceeds
// max.
func downscaleRGBA(data []byte, w, h, max int) ([]byte, int, int) {
	newW, newH := w, h
	if w >= h {
		newW = max
		newH = h * max / w
	} else {
		newH = max
		newW = w * max / h
	}
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	src := &image.RGBA{Pix: data, Stride: w * bytesPerPixel, Rect: image.Rect(0, 0, w, h)}
	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst.Pix, newW, newH
}

// Ensure Cache can serve the registry as a derivative cache.
var _ rescache.DerivativeCache = (*Cache)(nil)
