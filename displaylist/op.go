package displaylist

// OpType identifies the type of a display list operation.
type OpType uint8

const (
	// OpDrawImage draws an image under an optional transform.
	OpDrawImage OpType = iota
	// OpDrawRect fills an axis-aligned rectangle.
	OpDrawRect
	// OpSetMatrix replaces the current transformation matrix.
	OpSetMatrix
	// OpFill floods the whole target.
	OpFill
)

// opTypeNames maps OpType values to their string representation.
var opTypeNames = [...]string{
	OpDrawImage: "DrawImage",
	OpDrawRect:  "DrawRect",
	OpSetMatrix: "SetMatrix",
	OpFill:      "Fill",
}

// String returns the string representation of an OpType.
func (t OpType) String() string {
	if int(t) < len(opTypeNames) {
		return opTypeNames[t]
	}
	return "Unknown"
}

// Op is the interface implemented by all display list operations.
// Ops carry references into the list's resources instead of the
// resources themselves.
type Op interface {
	// Type returns the OpType for this operation.
	Type() OpType
}

// ImageRef is a reference to an image in the list's resources.
// The zero value is a valid reference to the first image (if any).
type ImageRef uint32

// MatrixRef is a reference to a matrix in the list's resources.
// The zero value is a valid reference to the first matrix (if any).
type MatrixRef uint32

// PaintRef is a reference to a paint in the list's resources.
// The zero value is a valid reference to the first paint (if any).
type PaintRef uint32

// InvalidRef is the sentinel value for an absent reference.
const InvalidRef = ^uint32(0)

// IsValid returns true if the reference points to a valid image.
func (r ImageRef) IsValid() bool {
	return uint32(r) != InvalidRef
}

// IsValid returns true if the reference points to a valid matrix.
func (r MatrixRef) IsValid() bool {
	return uint32(r) != InvalidRef
}

// IsValid returns true if the reference points to a valid paint.
func (r PaintRef) IsValid() bool {
	return uint32(r) != InvalidRef
}

// DrawImageOp draws an image.
type DrawImageOp struct {
	// Image references the image in the list's resources.
	Image ImageRef
	// Matrix references the transform to draw under, or an invalid
	// reference to draw the image untransformed.
	Matrix MatrixRef
}

// Type implements Op.
func (DrawImageOp) Type() OpType { return OpDrawImage }

// DrawRectOp fills an axis-aligned rectangle with a paint.
type DrawRectOp struct {
	// X0, Y0, X1, Y1 are the rectangle corners in canvas coordinates.
	X0, Y0, X1, Y1 float64
	// Paint references the fill paint in the list's resources.
	Paint PaintRef
}

// Type implements Op.
func (DrawRectOp) Type() OpType { return OpDrawRect }

// SetMatrixOp replaces the current transformation matrix.
type SetMatrixOp struct {
	// Matrix references the new transform in the list's resources.
	Matrix MatrixRef
}

// Type implements Op.
func (SetMatrixOp) Type() OpType { return OpSetMatrix }

// FillOp floods the whole target with a paint.
type FillOp struct {
	// Paint references the fill paint in the list's resources.
	Paint PaintRef
}

// Type implements Op.
func (FillOp) Type() OpType { return OpFill }
