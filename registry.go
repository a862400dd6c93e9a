package rescache

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"
)

// DerivativeCache drops data derived from a resource when the resource
// dies. The texture cache (bitmap uploads) and gradient cache (ramp
// textures) implement it; Remove must tolerate identities it has never
// seen.
type DerivativeCache interface {
	Remove(id ResourceID)
}

// reference is the tracking state of one shared resource.
type reference struct {
	kind             Kind
	refCount         int
	recycleRequested bool
	destroyRequested bool
	resource         any
}

// Registry tracks the lifetime of resources shared between display
// lists. A resource enters the registry on its first retain and leaves
// it when its reference count reaches zero with a recycle or destroy
// request pending; at that moment the registry performs the requested
// teardown exactly once, including dropping GPU-side derivatives from
// the texture and gradient caches.
//
// Resources that are never shared never enter the registry: recycling
// or destroying an untracked resource tears it down immediately.
//
// Registry is not safe for concurrent use. Callers must confine it to
// one goroutine or provide their own synchronization.
type Registry struct {
	entries   map[ResourceID]*reference
	textures  DerivativeCache
	gradients DerivativeCache

	// Statistics
	retains     atomic.Uint64
	releases    atomic.Uint64
	cleanups    atomic.Uint64
	usageErrors atomic.Uint64
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithTextureCache sets the cache holding textures uploaded from
// images. Destroyed images have their upload removed from it.
func WithTextureCache(c DerivativeCache) RegistryOption {
	return func(r *Registry) {
		r.textures = c
	}
}

// WithGradientCache sets the cache holding ramps built from shaders.
// Destroyed shaders have their ramp removed from it.
func WithGradientCache(c DerivativeCache) RegistryOption {
	return func(r *Registry) {
		r.gradients = c
	}
}

// NewRegistry creates an empty registry. Without options the registry
// still tracks lifetimes; it just has no derivative caches to notify.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		entries: make(map[ResourceID]*reference),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RetainImage records a reference to an image, tracking it on first
// retain.
func (r *Registry) RetainImage(img *Image) {
	r.retain(img.ID(), KindImage, img)
}

// RetainMatrix records a reference to a matrix, tracking it on first
// retain.
func (r *Registry) RetainMatrix(m *Matrix) {
	r.retain(m.ID(), KindMatrix, m)
}

// RetainPaint records a reference to a paint, tracking it on first
// retain.
func (r *Registry) RetainPaint(p *Paint) {
	r.retain(p.ID(), KindPaint, p)
}

// RetainShader records a reference to a shader, tracking it on first
// retain. The shader's compiled program, if any, is pinned alongside.
func (r *Registry) RetainShader(s *Shader) {
	if s.program != nil {
		s.program.retain()
	}
	r.retain(s.ID(), KindShader, s)
}

// ReleaseImage drops a reference to an image.
func (r *Registry) ReleaseImage(img *Image) {
	r.release(img.ID(), KindImage)
}

// ReleaseMatrix drops a reference to a matrix.
func (r *Registry) ReleaseMatrix(m *Matrix) {
	r.release(m.ID(), KindMatrix)
}

// ReleasePaint drops a reference to a paint.
func (r *Registry) ReleasePaint(p *Paint) {
	r.release(p.ID(), KindPaint)
}

// ReleaseShader drops a reference to a shader, unpinning the compiled
// program that the matching retain pinned.
func (r *Registry) ReleaseShader(s *Shader) {
	if r.release(s.ID(), KindShader) && s.program != nil {
		s.program.release()
	}
}

// RecycleImage requests that the image's pixel storage be released.
// An untracked image is recycled on the spot; a tracked one is
// recycled once its last reference is dropped. The image object stays
// alive either way, only its pixels go.
func (r *Registry) RecycleImage(img *Image) {
	ref := r.entries[img.ID()]
	if ref == nil {
		// Never shared, nothing else can hold the pixels.
		img.ReleasePixels()
		return
	}

	ref.recycleRequested = true
	if ref.refCount == 0 {
		r.cleanup(img.ID(), ref)
	}
}

// DestroyImage requests full teardown of an image: its uploaded
// texture is dropped from the texture cache and its pixel storage is
// released. An untracked image is torn down immediately; a tracked one
// once its last reference is dropped.
func (r *Registry) DestroyImage(img *Image) {
	ref := r.entries[img.ID()]
	if ref == nil {
		r.destroyImage(img)
		return
	}

	ref.destroyRequested = true
	if ref.refCount == 0 {
		r.cleanup(img.ID(), ref)
	}
}

// DestroyMatrix requests teardown of a matrix. Matrices have no
// derived GPU data, so for an untracked matrix this is a no-op beyond
// leaving the struct to the garbage collector.
func (r *Registry) DestroyMatrix(m *Matrix) {
	r.destroyPlain(m.ID())
}

// DestroyPaint requests teardown of a paint. Paints have no derived
// GPU data of their own; any shader the paint references has its own
// lifetime.
func (r *Registry) DestroyPaint(p *Paint) {
	r.destroyPlain(p.ID())
}

// DestroyShader requests teardown of a shader: its ramp is dropped
// from the gradient cache and its compiled program reference is
// released. An untracked shader is torn down immediately; a tracked
// one once its last reference is dropped.
func (r *Registry) DestroyShader(s *Shader) {
	ref := r.entries[s.ID()]
	if ref == nil {
		r.destroyShader(s)
		return
	}

	ref.destroyRequested = true
	if ref.refCount == 0 {
		r.cleanup(s.ID(), ref)
	}
}

// IsTracked reports whether the identity currently has a registry
// entry.
func (r *Registry) IsTracked(id ResourceID) bool {
	_, ok := r.entries[id]
	return ok
}

// RefCount returns the current reference count of a tracked identity.
// The second result is false for untracked identities.
func (r *Registry) RefCount(id ResourceID) (int, bool) {
	ref, ok := r.entries[id]
	if !ok {
		return 0, false
	}
	return ref.refCount, true
}

// Tracked returns the identities currently tracked, in ascending
// order.
func (r *Registry) Tracked() []ResourceID {
	ids := make([]ResourceID, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// LogContents writes every tracked entry to the logger at Debug level,
// one line per identity. A host chasing a reference leak can call it
// at frame boundaries to watch which entries never drop.
func (r *Registry) LogContents() {
	log := Logger()
	if !log.Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	log.Debug("registry contents", "tracked", len(r.entries))
	for _, id := range r.Tracked() {
		ref := r.entries[id]
		log.Debug("registry entry",
			"kind", ref.kind.String(), "id", uint64(id),
			"refCount", ref.refCount,
			"recycle", ref.recycleRequested, "destroy", ref.destroyRequested)
	}
}

// retain creates or bumps the entry for id.
func (r *Registry) retain(id ResourceID, kind Kind, resource any) {
	ref := r.entries[id]
	if ref == nil {
		ref = &reference{kind: kind, resource: resource}
		r.entries[id] = ref
	}
	ref.refCount++
	r.retains.Add(1)
}

// release drops one reference and runs cleanup when the count reaches
// zero with a recycle or destroy pending. Returns whether a reference
// was actually dropped.
func (r *Registry) release(id ResourceID, kind Kind) bool {
	ref := r.entries[id]
	if ref == nil {
		r.usageErrors.Add(1)
		Logger().Warn("release of untracked resource",
			"kind", kind.String(), "id", uint64(id))
		return false
	}
	if ref.refCount == 0 {
		r.usageErrors.Add(1)
		Logger().Warn("release of resource with zero references",
			"kind", kind.String(), "id", uint64(id))
		return false
	}

	ref.refCount--
	r.releases.Add(1)
	if ref.refCount == 0 && (ref.recycleRequested || ref.destroyRequested) {
		r.cleanup(id, ref)
	}
	return true
}

// destroyPlain handles destroy for kinds without derived GPU data.
func (r *Registry) destroyPlain(id ResourceID) {
	ref := r.entries[id]
	if ref == nil {
		return
	}

	ref.destroyRequested = true
	if ref.refCount == 0 {
		r.cleanup(id, ref)
	}
}

// cleanup performs the pending recycle/destroy work and removes the
// entry. It runs at most once per tracked identity.
func (r *Registry) cleanup(id ResourceID, ref *reference) {
	Logger().Debug("resource cleanup",
		"kind", ref.kind.String(), "id", uint64(id),
		"recycle", ref.recycleRequested, "destroy", ref.destroyRequested)

	if ref.recycleRequested && ref.kind == KindImage {
		ref.resource.(*Image).ReleasePixels()
	}

	if ref.destroyRequested {
		switch ref.kind {
		case KindImage:
			r.destroyImage(ref.resource.(*Image))
		case KindShader:
			r.destroyShader(ref.resource.(*Shader))
		case KindMatrix, KindPaint:
			// Nothing derived; the garbage collector owns the struct.
		}
	}

	delete(r.entries, id)
	r.cleanups.Add(1)
}

// destroyImage drops the image's derived texture and releases its
// pixels.
func (r *Registry) destroyImage(img *Image) {
	if r.textures != nil {
		r.textures.Remove(img.ID())
	}
	img.ReleasePixels()
}

// destroyShader drops the shader's derived ramp and releases the
// creation reference on its compiled program.
func (r *Registry) destroyShader(s *Shader) {
	if r.gradients != nil {
		r.gradients.Remove(s.ID())
	}
	s.SetProgram(nil)
}

// RegistryStats is a snapshot of registry statistics.
type RegistryStats struct {
	Tracked  int // Currently tracked identities
	Images   int
	Matrices int
	Paints   int
	Shaders  int

	Retains     uint64 // Total references recorded
	Releases    uint64 // Total references dropped
	Cleanups    uint64 // Entries cleaned up
	UsageErrors uint64 // Releases of untracked or zero-count identities
}

// String returns a human-readable summary of the statistics.
func (s RegistryStats) String() string {
	return fmt.Sprintf("Registry[%d tracked (%d images, %d matrices, %d paints, %d shaders), %d retains, %d releases, %d cleanups, %d usage errors]",
		s.Tracked, s.Images, s.Matrices, s.Paints, s.Shaders,
		s.Retains, s.Releases, s.Cleanups, s.UsageErrors)
}

// Stats returns a snapshot of registry statistics.
func (r *Registry) Stats() RegistryStats {
	stats := RegistryStats{
		Tracked:     len(r.entries),
		Retains:     r.retains.Load(),
		Releases:    r.releases.Load(),
		Cleanups:    r.cleanups.Load(),
		UsageErrors: r.usageErrors.Load(),
	}
	for _, ref := range r.entries {
		switch ref.kind {
		case KindImage:
			stats.Images++
		case KindMatrix:
			stats.Matrices++
		case KindPaint:
			stats.Paints++
		case KindShader:
			stats.Shaders++
		}
	}
	return stats
}
