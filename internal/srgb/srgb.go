// Package srgb converts color components between gamma-encoded sRGB and
// linear light. Gradient ramps interpolate in linear space so that the
// midpoint of two colors looks perceptually halfway between them.
package srgb

import "math"

// ToLinear converts an sRGB component to linear light (EOTF).
// Input and output are in range [0, 1].
func ToLinear(s float64) float64 {
	if s <= 0.04045 {
		return s / 12.92
	}
	return math.Pow((s+0.055)/1.055, 2.4)
}

// FromLinear converts a linear component to sRGB (OETF).
// Input and output are in range [0, 1].
func FromLinear(l float64) float64 {
	if l <= 0.0031308 {
		return l * 12.92
	}
	return 1.055*math.Pow(l, 1.0/2.4) - 0.055
}

// Lerp interpolates between two sRGB components in linear space and
// returns the result re-encoded as sRGB. Alpha components must not be
// passed through Lerp; alpha is always linear.
func Lerp(a, b, t float64) float64 {
	la := ToLinear(a)
	lb := ToLinear(b)
	return FromLinear(la + t*(lb-la))
}
