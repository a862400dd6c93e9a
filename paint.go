package rescache

// LineCap specifies the shape of line endpoints.
type LineCap int

const (
	// LineCapButt specifies a flat line cap.
	LineCapButt LineCap = iota
	// LineCapRound specifies a rounded line cap.
	LineCapRound
	// LineCapSquare specifies a square line cap.
	LineCapSquare
)

// LineJoin specifies the shape of line joins.
type LineJoin int

const (
	// LineJoinMiter specifies a sharp (mitered) join.
	LineJoinMiter LineJoin = iota
	// LineJoinRound specifies a rounded join.
	LineJoinRound
	// LineJoinBevel specifies a beveled join.
	LineJoinBevel
)

// FillRule specifies how to determine which areas are inside a path.
type FillRule int

const (
	// FillRuleNonZero uses the non-zero winding rule.
	FillRuleNonZero FillRule = iota
	// FillRuleEvenOdd uses the even-odd rule.
	FillRuleEvenOdd
)

// Paint carries the styling information for drawing. Display lists
// share paints by reference, so a Paint is a tracked resource with a
// stable identity.
type Paint struct {
	id ResourceID

	// Color is the solid color, used when Shader is nil.
	Color RGBA

	// Shader colors fragments when set, overriding Color. The shader
	// may be shared with other paints.
	Shader *Shader

	// LineWidth is the width of strokes
	LineWidth float64

	// LineCap is the shape of line endpoints
	LineCap LineCap

	// LineJoin is the shape of line joins
	LineJoin LineJoin

	// MiterLimit is the miter limit for sharp joins
	MiterLimit float64

	// FillRule is the fill rule for paths
	FillRule FillRule

	// Antialias enables anti-aliasing
	Antialias bool
}

// NewPaint creates a new Paint with default values.
func NewPaint() *Paint {
	return &Paint{
		id:         newResourceID(),
		Color:      Black,
		LineWidth:  1.0,
		LineCap:    LineCapButt,
		LineJoin:   LineJoinMiter,
		MiterLimit: 10.0,
		FillRule:   FillRuleNonZero,
		Antialias:  true,
	}
}

// ID returns the paint's stable resource identity.
func (p *Paint) ID() ResourceID {
	return p.id
}

// Clone creates a copy of the Paint. The clone is a distinct resource
// with its own identity; the shader, if any, stays shared.
func (p *Paint) Clone() *Paint {
	return &Paint{
		id:         newResourceID(),
		Color:      p.Color,
		Shader:     p.Shader,
		LineWidth:  p.LineWidth,
		LineCap:    p.LineCap,
		LineJoin:   p.LineJoin,
		MiterLimit: p.MiterLimit,
		FillRule:   p.FillRule,
		Antialias:  p.Antialias,
	}
}

// ColorAt returns the color at the given position. It samples the
// shader if one is set, otherwise the solid color.
func (p *Paint) ColorAt(x, y float64) RGBA {
	if p.Shader != nil {
		return p.Shader.ColorAt(x, y)
	}
	return p.Color
}
