// Package rescache manages the lifetime and reuse of expensive rendering
// resources for hardware-accelerated 2D pipelines in the GoGPU ecosystem.
//
// # Overview
//
// A renderer that records display lists and replays them on the GPU shares
// resources (pixel images, transform matrices, paints, shader programs)
// between the application and any number of in-flight display lists. Each
// shared resource may also have GPU-side derivatives: an uploaded texture
// for an image, a gradient ramp for a shader. rescache provides the
// bookkeeping that keeps all of that alive exactly as long as needed:
//
//   - Registry: reference counting plus deferred recycle/destroy requests
//     per resource, with teardown fanning out to the derivative caches.
//   - layer.Pool: a byte-budgeted pool of GPU drawing surfaces keyed by
//     exact pixel dimensions, reused across frames.
//   - cache.LRU: the bounded recency container both are built from.
//   - texture.Cache and gradient.Cache: the derivative caches themselves.
//
// # Quick Start
//
//	import "github.com/gogpu/rescache"
//
//	textures := texture.New(device, queue)
//	gradients := gradient.New(device, queue)
//	reg := rescache.NewRegistry(
//	    rescache.WithTextureCache(textures),
//	    rescache.WithGradientCache(gradients),
//	)
//
//	img := rescache.NewImage(64, 64)
//	reg.RetainImage(img)  // display list takes a reference
//	reg.DestroyImage(img) // owner is done; teardown deferred
//	reg.ReleaseImage(img) // last reference gone: texture dropped, pixels freed
//
// # Threading
//
// The registry and the display-list types follow the rendering-thread
// model: they are not safe for concurrent use and must be confined to
// the goroutine that owns the rendering context. The layer pool and the
// texture and gradient caches synchronize internally and may be shared.
// The core cache.LRU is unsynchronized; wrap it the way the pool does.
//
// # Architecture
//
// The library is organized into:
//   - Public API: Registry, Image, Matrix, Paint, Shader, Program
//   - cache: generic weight-bounded LRU with eviction hooks
//   - layer: GPU layer pool and the hal-backed TextureLayer
//   - texture, gradient: derivative caches keyed by ResourceID
//   - displaylist: a recorder that drives the registry protocol
package rescache

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
