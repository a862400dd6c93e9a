package displaylist

import (
	"github.com/gogpu/rescache"
)

// List is an immutable recorded display list. It owns one registry
// reference per recorded resource use; Release drops them all.
//
// The List is not safe for concurrent use.
type List struct {
	registry *rescache.Registry
	ops      []Op

	images   []*rescache.Image
	matrices []*rescache.Matrix
	paints   []*rescache.Paint
	shaders  []*rescache.Shader

	released bool
}

// Ops returns the recorded operations in order. Ops stay readable
// after Release; only the resources go.
func (l *List) Ops() []Op {
	return l.ops
}

// Image returns the image for ref, or nil if the reference is invalid
// or the list has been released.
func (l *List) Image(ref ImageRef) *rescache.Image {
	if !ref.IsValid() || int(ref) >= len(l.images) {
		return nil
	}
	return l.images[ref]
}

// Matrix returns the matrix for ref, or nil if the reference is
// invalid or the list has been released.
func (l *List) Matrix(ref MatrixRef) *rescache.Matrix {
	if !ref.IsValid() || int(ref) >= len(l.matrices) {
		return nil
	}
	return l.matrices[ref]
}

// Paint returns the paint for ref, or nil if the reference is invalid
// or the list has been released.
func (l *List) Paint(ref PaintRef) *rescache.Paint {
	if !ref.IsValid() || int(ref) >= len(l.paints) {
		return nil
	}
	return l.paints[ref]
}

// ImageCount returns the number of image references the list holds.
func (l *List) ImageCount() int {
	return len(l.images)
}

// MatrixCount returns the number of matrix references the list holds.
func (l *List) MatrixCount() int {
	return len(l.matrices)
}

// PaintCount returns the number of paint references the list holds.
func (l *List) PaintCount() int {
	return len(l.paints)
}

// Released reports whether the list's references have been dropped.
func (l *List) Released() bool {
	return l.released
}

// Release drops every reference the list holds. Resources whose
// reference count reaches zero with a pending recycle or destroy
// request are torn down by the registry at that moment. Only the
// first call drops references; repeats are no-ops.
func (l *List) Release() {
	if l.released {
		return
	}
	l.released = true

	for _, img := range l.images {
		l.registry.ReleaseImage(img)
	}
	for _, m := range l.matrices {
		l.registry.ReleaseMatrix(m)
	}
	for _, p := range l.paints {
		l.registry.ReleasePaint(p)
	}
	for _, s := range l.shaders {
		l.registry.ReleaseShader(s)
	}

	l.images = nil
	l.matrices = nil
	l.paints = nil
	l.shaders = nil
}
