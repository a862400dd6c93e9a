package rescache

import "sync/atomic"

// ResourceID uniquely identifies a resource for the lifetime of the
// process. IDs are issued when a resource is constructed and are never
// reused, so an ID observed after its resource died can only dangle,
// never alias a newer resource.
type ResourceID uint64

// nextResourceID issues process-wide unique IDs. Issuing is the one
// operation that stays safe across goroutines, so resources may be
// constructed anywhere before they reach a registry.
var nextResourceID atomic.Uint64

// newResourceID returns the next unused resource ID. ID 0 is never
// issued and can serve as a sentinel.
func newResourceID() ResourceID {
	return ResourceID(nextResourceID.Add(1))
}

// Valid reports whether the ID was issued by a resource constructor.
// The zero ID is a sentinel and never refers to a resource.
func (id ResourceID) Valid() bool {
	return id != 0
}

// Kind identifies the type of a tracked resource.
type Kind uint8

const (
	// KindImage is a pixel image with CPU-side storage.
	KindImage Kind = iota
	// KindMatrix is a 2D affine transform.
	KindMatrix
	// KindPaint is a set of drawing attributes.
	KindPaint
	// KindShader is a gradient shader with an optional compiled program.
	KindShader
)

// String returns the string representation.
func (k Kind) String() string {
	switch k {
	case KindImage:
		return "Image"
	case KindMatrix:
		return "Matrix"
	case KindPaint:
		return "Paint"
	case KindShader:
		return "Shader"
	default:
		return "Unknown"
	}
}
