package displaylist

import (
	"github.com/gogpu/rescache"
)

// Recorder captures drawing operations as ops, retaining every
// referenced resource through the registry. Use Finish to obtain the
// immutable List that owns the references.
//
// The Recorder is not safe for concurrent use.
type Recorder struct {
	registry *rescache.Registry
	ops      []Op

	images   []*rescache.Image
	matrices []*rescache.Matrix
	paints   []*rescache.Paint
	shaders  []*rescache.Shader

	finished bool
}

// NewRecorder creates a recorder whose resources are tracked by
// registry. Panics if registry is nil.
func NewRecorder(registry *rescache.Registry) *Recorder {
	if registry == nil {
		panic("displaylist: registry is nil")
	}
	return &Recorder{
		registry: registry,
		ops:      make([]Op, 0, 64),
		images:   make([]*rescache.Image, 0, 8),
		matrices: make([]*rescache.Matrix, 0, 8),
		paints:   make([]*rescache.Paint, 0, 16),
		shaders:  make([]*rescache.Shader, 0, 8),
	}
}

// recordable reports whether ops can still be recorded.
func (r *Recorder) recordable(op OpType) bool {
	if r.finished {
		rescache.Logger().Warn("record on finished recorder", "op", op.String())
		return false
	}
	return true
}

// addImage retains img and stores it, returning its reference.
func (r *Recorder) addImage(img *rescache.Image) ImageRef {
	r.registry.RetainImage(img)
	r.images = append(r.images, img)
	// #nosec G115 -- list size is bounded by available memory, well under uint32 max
	return ImageRef(uint32(len(r.images) - 1))
}

// addMatrix retains m and stores it, returning its reference.
func (r *Recorder) addMatrix(m *rescache.Matrix) MatrixRef {
	r.registry.RetainMatrix(m)
	r.matrices = append(r.matrices, m)
	// #nosec G115 -- list size is bounded by available memory, well under uint32 max
	return MatrixRef(uint32(len(r.matrices) - 1))
}

// addPaint retains p and stores it, returning its reference. A paint
// with a gradient shader retains the shader alongside.
func (r *Recorder) addPaint(p *rescache.Paint) PaintRef {
	r.registry.RetainPaint(p)
	if p.Shader != nil {
		r.registry.RetainShader(p.Shader)
		r.shaders = append(r.shaders, p.Shader)
	}
	r.paints = append(r.paints, p)
	// #nosec G115 -- list size is bounded by available memory, well under uint32 max
	return PaintRef(uint32(len(r.paints) - 1))
}

// DrawImage records drawing img under the transform m. A nil m draws
// the image untransformed. Each call takes its own reference on the
// resources it names.
func (r *Recorder) DrawImage(img *rescache.Image, m *rescache.Matrix) {
	if !r.recordable(OpDrawImage) {
		return
	}
	if img == nil {
		rescache.Logger().Warn("record with nil image", "op", OpDrawImage.String())
		return
	}

	matrix := MatrixRef(InvalidRef)
	if m != nil {
		matrix = r.addMatrix(m)
	}
	r.ops = append(r.ops, DrawImageOp{Image: r.addImage(img), Matrix: matrix})
}

// DrawRect records filling the rectangle (x0, y0)-(x1, y1) with p.
func (r *Recorder) DrawRect(x0, y0, x1, y1 float64, p *rescache.Paint) {
	if !r.recordable(OpDrawRect) {
		return
	}
	if p == nil {
		rescache.Logger().Warn("record with nil paint", "op", OpDrawRect.String())
		return
	}
	r.ops = append(r.ops, DrawRectOp{X0: x0, Y0: y0, X1: x1, Y1: y1, Paint: r.addPaint(p)})
}

// SetMatrix records replacing the current transformation matrix.
func (r *Recorder) SetMatrix(m *rescache.Matrix) {
	if !r.recordable(OpSetMatrix) {
		return
	}
	if m == nil {
		rescache.Logger().Warn("record with nil matrix", "op", OpSetMatrix.String())
		return
	}
	r.ops = append(r.ops, SetMatrixOp{Matrix: r.addMatrix(m)})
}

// Fill records flooding the whole target with p.
func (r *Recorder) Fill(p *rescache.Paint) {
	if !r.recordable(OpFill) {
		return
	}
	if p == nil {
		rescache.Logger().Warn("record with nil paint", "op", OpFill.String())
		return
	}
	r.ops = append(r.ops, FillOp{Paint: r.addPaint(p)})
}

// OpCount returns the number of recorded operations.
func (r *Recorder) OpCount() int {
	return len(r.ops)
}

// Finish seals the recorder and returns the recorded list. The list
// owns the references taken during recording and must be released
// exactly once. Further recording is rejected; a second Finish
// returns nil.
func (r *Recorder) Finish() *List {
	if r.finished {
		rescache.Logger().Warn("finish on finished recorder")
		return nil
	}
	r.finished = true

	return &List{
		registry: r.registry,
		ops:      r.ops,
		images:   r.images,
		matrices: r.matrices,
		paints:   r.paints,
		shaders:  r.shaders,
	}
}
