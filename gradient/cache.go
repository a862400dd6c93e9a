// Package gradient caches gradient ramp textures.
//
// A ramp is the 1D lookup texture a gradient shader samples at draw
// time: the shader's color stops rendered into a short row of RGBA
// texels. Ramps are keyed by shader identity; a shader's geometry and
// stops never change after construction, so a cached ramp stays valid
// until the shader dies and the registry calls Remove.
package gradient

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/rescache"
	"github.com/gogpu/rescache/cache"
	"github.com/gogpu/rescache/internal/gpuutil"
)

const (
	// DefaultMaxSizeKB is the cache budget in kilobytes when no
	// WithMaxSize option is given. Ramps are tiny; half a megabyte
	// holds hundreds of them.
	DefaultMaxSizeKB = 512

	// DefaultRampSize is the ramp resolution in texels.
	DefaultRampSize = 256

	bytesPerKB    = 1024
	bytesPerTexel = 4
)

// Ramp is a gradient sampled into a 1D RGBA8 lookup texture.
//
// Ramps are owned by the Cache; holders treat them as borrowed and
// re-Get each frame.
type Ramp struct {
	id     rescache.ResourceID
	size   int
	pixels []uint8

	mu        sync.RWMutex
	device    hal.Device
	texture   hal.Texture
	destroyed bool
}

// ID returns the identity of the shader this ramp was sampled from.
func (r *Ramp) ID() rescache.ResourceID {
	return r.id
}

// Size returns the ramp resolution in texels.
func (r *Ramp) Size() int {
	return r.size
}

// Pixels returns the sampled RGBA texels, 4 bytes per texel. The
// slice is the CPU-side copy of the upload; callers must not modify
// it.
func (r *Ramp) Pixels() []uint8 {
	return r.pixels
}

// ByteSize returns the ramp's GPU memory footprint in bytes.
func (r *Ramp) ByteSize() uint64 {
	return uint64(len(r.pixels))
}

// HALTexture returns the underlying GPU texture, or nil after the
// ramp has been destroyed.
func (r *Ramp) HALTexture() hal.Texture {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.texture
}

// IsDestroyed reports whether the ramp's GPU texture has been
// destroyed.
func (r *Ramp) IsDestroyed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.destroyed
}

// destroy releases the GPU texture. Safe to call more than once.
func (r *Ramp) destroy() {
	r.mu.Lock()
	if r.destroyed {
		r.mu.Unlock()
		return
	}
	r.destroyed = true
	device := r.device
	texture := r.texture
	r.texture = nil
	r.device = nil
	r.mu.Unlock()

	if device != nil && texture != nil {
		device.DestroyTexture(texture)
	}
}

// Cache is a byte-budgeted cache of gradient ramps keyed by shader
// identity.
//
// Cache is safe for concurrent use.
type Cache struct {
	mu       sync.RWMutex
	device   hal.Device
	queue    hal.Queue
	entries  *cache.LRU[rescache.ResourceID, *Ramp]
	maxSize  uint64
	rampSize int
}

// Option configures a Cache.
type Option func(*Cache)

// WithMaxSize sets the cache budget in bytes. Zero keeps the
// DefaultMaxSizeKB default.
func WithMaxSize(bytes uint64) Option {
	return func(c *Cache) {
		if bytes > 0 {
			c.maxSize = bytes
		}
	}
}

// WithRampSize sets the ramp resolution in texels. Zero keeps the
// DefaultRampSize default; a ramp never has fewer than two texels.
func WithRampSize(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.rampSize = n
		}
	}
}

// New creates a gradient ramp cache that uploads through device and
// queue.
func New(device hal.Device, queue hal.Queue, opts ...Option) *Cache {
	c := &Cache{
		device:   device,
		queue:    queue,
		maxSize:  DefaultMaxSizeKB * bytesPerKB,
		rampSize: DefaultRampSize,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.entries = cache.New[rescache.ResourceID, *Ramp](c.maxSize,
		cache.WithWeigher[rescache.ResourceID, *Ramp](func(_ rescache.ResourceID, r *Ramp) uint64 {
			return r.ByteSize()
		}),
		cache.WithEvictFunc[rescache.ResourceID, *Ramp](func(_ rescache.ResourceID, r *Ramp) {
			r.destroy()
		}),
	)
	return c
}

// NewWithProvider creates a gradient ramp cache on the HAL handles
// extracted from a host device provider.
func NewWithProvider(p rescache.DeviceHandle, opts ...Option) (*Cache, error) {
	device, queue, err := gpuutil.Extract(p)
	if err != nil {
		return nil, fmt.Errorf("gradient: %w", err)
	}
	return New(device, queue, opts...), nil
}

// Get returns the ramp for s, sampling and uploading it on first use.
func (c *Cache) Get(s *rescache.Shader) (*Ramp, error) {
	if s == nil {
		return nil, errors.New("gradient: nil shader")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	id := s.ID()
	if r, ok := c.entries.Get(id); ok {
		return r, nil
	}

	r, err := c.upload(s)
	if err != nil {
		return nil, err
	}
	c.entries.Put(id, r)
	return r, nil
}

// upload samples the shader and writes the texels to a fresh n x 1
// texture. Called with c.mu held.
func (c *Cache) upload(s *rescache.Shader) (*Ramp, error) {
	if c.device == nil || c.queue == nil {
		return nil, errors.New("gradient: no device")
	}

	id := s.ID()
	pixels := s.Ramp(c.rampSize)
	n := len(pixels) / bytesPerTexel

	byteSize := uint64(len(pixels))
	if byteSize > c.entries.MaxWeight() {
		rescache.Logger().Warn("gradient ramp exceeds cache budget",
			"id", id, "bytes", byteSize, "budget", c.entries.MaxWeight())
		return nil, fmt.Errorf("gradient: ramp for shader %d needs %d bytes, cache budget is %d",
			id, byteSize, c.entries.MaxWeight())
	}

	//nolint:gosec // G115: ramp resolution is small and positive
	tex, err := c.device.CreateTexture(&hal.TextureDescriptor{
		Label:         fmt.Sprintf("gradient_%d", id),
		Size:          hal.Extent3D{Width: uint32(n), Height: 1, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gradient: create ramp texture for shader %d: %w", id, err)
	}

	//nolint:gosec // G115: ramp resolution is small and positive
	c.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
		},
		pixels,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(n) * bytesPerTexel,
			RowsPerImage: 1,
		},
		&hal.Extent3D{Width: uint32(n), Height: 1, DepthOrArrayLayers: 1},
	)

	return &Ramp{
		id:      id,
		size:    n,
		pixels:  pixels,
		device:  c.device,
		texture: tex,
	}, nil
}

// Remove destroys and forgets the ramp for id. Identities that were
// never uploaded are ignored.
func (c *Cache) Remove(id rescache.ResourceID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Evict(id)
}

// Contains reports whether a ramp for id is cached, without touching
// recency.
func (c *Cache) Contains(id rescache.ResourceID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries.Contains(id)
}

// Clear destroys every cached ramp.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Clear()
}

// SetMaxSize changes the cache budget in bytes, destroying least
// recently used ramps if the cache now exceeds it. Zero selects the
// DefaultMaxSizeKB budget.
func (c *Cache) SetMaxSize(bytes uint64) {
	if bytes == 0 {
		bytes = DefaultMaxSizeKB * bytesPerKB
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

// Size returns the total bytes of all cached ramps.
func (c *Cache) Size() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries.Weight()
}

// Count returns the number of cached ramps.
func (c *Cache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries.Len()
}

// CacheStats is a snapshot of cache statistics.
type CacheStats struct {
	Size      uint64  // Current cached bytes
	MaxSize   uint64  // Cache budget in bytes
	Entries   int     // Number of cached ramps
	Hits      uint64  // Gets served from the cache
	Misses    uint64  // Gets that sampled and uploaded
	HitRate   float64 // Hits / (Hits + Misses)
	Evictions uint64  // Ramps destroyed to make room
}

// String returns a human-readable summary of the statistics.
func (s CacheStats) String() string {
	usedPct := float64(0)
	if s.MaxSize > 0 {
		usedPct = float64(s.Size) / float64(s.MaxSize) * 100
	}
	return fmt.Sprintf("GradientCache[%.1f%% full, %d/%d bytes, %d entries, %.1f%% hit rate, %d evictions]",
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

// Ensure Cache can serve the registry as a derivative cache.
var _ rescache.DerivativeCache = (*Cache)(nil)
