package rescache

import (
	"cmp"
	"math"
	"slices"

	"github.com/gogpu/rescache/internal/srgb"
)

// ExtendMode defines how gradients extend beyond their defined bounds.
type ExtendMode int

const (
	// ExtendPad extends edge colors beyond bounds (default behavior).
	ExtendPad ExtendMode = iota
	// ExtendRepeat repeats the gradient pattern.
	ExtendRepeat
	// ExtendReflect mirrors the gradient pattern.
	ExtendReflect
)

// GradientKind identifies the geometry of a gradient shader.
type GradientKind int

const (
	// GradientLinear interpolates along an axis between two points.
	GradientLinear GradientKind = iota
	// GradientRadial interpolates outward from a center point.
	GradientRadial
	// GradientSweep interpolates by angle around a center point.
	GradientSweep
)

// String returns the string representation.
func (k GradientKind) String() string {
	switch k {
	case GradientLinear:
		return "Linear"
	case GradientRadial:
		return "Radial"
	case GradientSweep:
		return "Sweep"
	default:
		return "Unknown"
	}
}

// ColorStop represents a color at a specific position in a gradient.
type ColorStop struct {
	Offset float64 // Position in gradient, 0.0 to 1.0
	Color  RGBA    // Color at this position
}

// Shader is a gradient shared between paints and display lists. The
// gradient is defined by its geometry and color stops; derived data
// such as ramp textures and compiled programs is produced on demand
// and cached elsewhere under the shader's identity.
type Shader struct {
	id      ResourceID
	kind    GradientKind
	start   Point
	end     Point
	radius  float64
	stops   []ColorStop
	extend  ExtendMode
	program *Program
}

// NewLinearGradient creates a linear gradient shader along the axis
// from start to end.
func NewLinearGradient(start, end Point, stops []ColorStop, extend ExtendMode) *Shader {
	return &Shader{
		id:     newResourceID(),
		kind:   GradientLinear,
		start:  start,
		end:    end,
		stops:  sortStops(stops),
		extend: extend,
	}
}

// NewRadialGradient creates a radial gradient shader centered at
// center with the given radius.
func NewRadialGradient(center Point, radius float64, stops []ColorStop, extend ExtendMode) *Shader {
	return &Shader{
		id:     newResourceID(),
		kind:   GradientRadial,
		start:  center,
		radius: radius,
		stops:  sortStops(stops),
		extend: extend,
	}
}

// NewSweepGradient creates a sweep gradient shader rotating around
// center.
func NewSweepGradient(center Point, stops []ColorStop, extend ExtendMode) *Shader {
	return &Shader{
		id:     newResourceID(),
		kind:   GradientSweep,
		start:  center,
		stops:  sortStops(stops),
		extend: extend,
	}
}

// ID returns the shader's stable resource identity.
func (s *Shader) ID() ResourceID {
	return s.id
}

// Kind returns the gradient geometry.
func (s *Shader) Kind() GradientKind {
	return s.kind
}

// Start returns the start point of a linear gradient, or the center of
// a radial or sweep gradient.
func (s *Shader) Start() Point {
	return s.start
}

// End returns the end point of a linear gradient.
func (s *Shader) End() Point {
	return s.end
}

// Radius returns the radius of a radial gradient.
func (s *Shader) Radius() float64 {
	return s.radius
}

// Stops returns the color stops, sorted by offset.
func (s *Shader) Stops() []ColorStop {
	return s.stops
}

// Extend returns how the gradient continues beyond its bounds.
func (s *Shader) Extend() ExtendMode {
	return s.extend
}

// Program returns the compiled program attached to this shader, or nil.
func (s *Shader) Program() *Program {
	return s.program
}

// SetProgram attaches a compiled program. The shader takes over the
// caller's reference; a previously attached program is released.
func (s *Shader) SetProgram(p *Program) {
	if s.program == p {
		return
	}
	if s.program != nil {
		s.program.release()
	}
	s.program = p
}

// ColorAt returns the gradient color at the given position.
func (s *Shader) ColorAt(x, y float64) RGBA {
	var t float64
	switch s.kind {
	case GradientLinear:
		dx := s.end.X - s.start.X
		dy := s.end.Y - s.start.Y
		lenSq := dx*dx + dy*dy
		if lenSq > 0 {
			t = ((x-s.start.X)*dx + (y-s.start.Y)*dy) / lenSq
		}
	case GradientRadial:
		if s.radius > 0 {
			dx := x - s.start.X
			dy := y - s.start.Y
			t = math.Sqrt(dx*dx+dy*dy) / s.radius
		}
	case GradientSweep:
		angle := math.Atan2(y-s.start.Y, x-s.start.X)
		if angle < 0 {
			angle += 2 * math.Pi
		}
		t = angle / (2 * math.Pi)
	}
	return colorAtOffset(s.stops, t, s.extend)
}

// Ramp samples the gradient into n straight RGBA texels, the 1D lookup
// texture layout GPU shaders sample at draw time. n is clamped to a
// minimum of 2.
func (s *Shader) Ramp(n int) []uint8 {
	if n < 2 {
		n = 2
	}

	out := make([]uint8, n*4)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		r, g, b, a := colorAtOffset(s.stops, t, s.extend).Bytes()
		out[i*4] = r
		out[i*4+1] = g
		out[i*4+2] = b
		out[i*4+3] = a
	}
	return out
}

// sortStops returns a copy of stops in ascending offset order. The
// sort is stable so coincident stops keep their declaration order.
func sortStops(stops []ColorStop) []ColorStop {
	if len(stops) == 0 {
		return stops
	}

	sorted := slices.Clone(stops)
	slices.SortStableFunc(sorted, func(a, b ColorStop) int {
		return cmp.Compare(a.Offset, b.Offset)
	})
	return sorted
}

// applyExtendMode maps an arbitrary offset into [0, 1].
func applyExtendMode(t float64, mode ExtendMode) float64 {
	switch mode {
	case ExtendRepeat:
		t = math.Mod(t, 1)
		if t < 0 {
			t++
		}
	case ExtendReflect:
		// Fold every odd period back onto [0, 1].
		t = math.Mod(math.Abs(t), 2)
		if t > 1 {
			t = 2 - t
		}
	default: // ExtendPad
		t = clamp01(t)
	}
	return t
}

// interpolateColorLinear blends two colors in linear sRGB space, which
// avoids the dark bands naive sRGB interpolation produces. Alpha is
// linear already and interpolates directly.
func interpolateColorLinear(c1, c2 RGBA, t float64) RGBA {
	return RGBA{
		R: srgb.Lerp(c1.R, c2.R, t),
		G: srgb.Lerp(c1.G, c2.G, t),
		B: srgb.Lerp(c1.B, c2.B, t),
		A: c1.A + t*(c2.A-c1.A),
	}
}

// colorAtOffset samples a sorted stop list at offset t. Offsets outside
// [0, 1] are brought into range by the extend mode first.
func colorAtOffset(stops []ColorStop, t float64, mode ExtendMode) RGBA {
	switch len(stops) {
	case 0:
		return Transparent
	case 1:
		return stops[0].Color
	}

	t = applyExtendMode(t, mode)
	if t <= stops[0].Offset {
		return stops[0].Color
	}

	// Stop lists are short; scan for the segment containing t.
	for i := 1; i < len(stops); i++ {
		s0, s1 := stops[i-1], stops[i]
		if t > s1.Offset {
			continue
		}
		if s1.Offset == s0.Offset {
			// Coincident stops produce a hard edge.
			return s0.Color
		}
		local := (t - s0.Offset) / (s1.Offset - s0.Offset)
		return interpolateColorLinear(s0.Color, s1.Color, local)
	}
	return stops[len(stops)-1].Color
}
