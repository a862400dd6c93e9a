package rescache

import "image/color"

// RGBA represents a color with red, green, blue, and alpha components.
// Each component is in the range [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1.0}
}

// FromColor converts a standard color.Color to RGBA.
func FromColor(c color.Color) RGBA {
	const max = 0xffff
	r, g, b, a := c.RGBA()
	return RGBA{
		R: float64(r) / max,
		G: float64(g) / max,
		B: float64(b) / max,
		A: float64(a) / max,
	}
}

// RGBA implements the color.Color interface. Components are
// premultiplied and scaled to [0, 65535].
func (c RGBA) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R * c.A * 65535)
	g = uint32(c.G * c.A * 65535)
	b = uint32(c.B * c.A * 65535)
	a = uint32(c.A * 65535)
	return
}

// Color converts RGBA to the standard color.Color interface.
func (c RGBA) Color() color.Color {
	r, g, b, a := c.Bytes()
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

// Bytes returns the color as non-premultiplied 8-bit RGBA components.
func (c RGBA) Bytes() (r, g, b, a uint8) {
	return uint8(clamp01(c.R) * 255),
		uint8(clamp01(c.G) * 255),
		uint8(clamp01(c.B) * 255),
		uint8(clamp01(c.A) * 255)
}

// Premultiply scales the color components by alpha.
func (c RGBA) Premultiply() RGBA {
	return RGBA{R: c.R * c.A, G: c.G * c.A, B: c.B * c.A, A: c.A}
}

// Unpremultiply undoes Premultiply. A fully transparent color has no
// recoverable components and comes back as the zero RGBA.
func (c RGBA) Unpremultiply() RGBA {
	if c.A == 0 {
		return RGBA{}
	}
	return RGBA{R: c.R / c.A, G: c.G / c.A, B: c.B / c.A, A: c.A}
}

// Lerp performs linear interpolation between two colors.
// Component-wise in sRGB space; Shader.ColorAt interpolates in linear
// space instead and should be preferred for gradient ramps.
func (c RGBA) Lerp(other RGBA, t float64) RGBA {
	return RGBA{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}

// clamp01 restricts a component to the [0, 1] range.
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Common colors
var (
	Black       = RGB(0, 0, 0)
	White       = RGB(1, 1, 1)
	Red         = RGB(1, 0, 0)
	Green       = RGB(0, 1, 0)
	Blue        = RGB(0, 0, 1)
	Transparent = RGBA{}
)
