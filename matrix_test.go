package rescache

import (
	"math"
	"testing"
)

func TestIsScaleOnly(t *testing.T) {
	scaleOnly := []Affine{
		Identity(),
		Translate(10, 20),
		Scale(2, 2),
		Scale(3, 0.5),
		Scale(-2, -3),
		Scale(0, 0),
		Scale(2, 3).Multiply(Translate(10, 20)),
		{}, // degenerate zero matrix has no off-diagonal terms either
	}
	for _, m := range scaleOnly {
		if !m.IsScaleOnly() {
			t.Errorf("expected Affine%+v to be scale-only", m)
		}
	}

	mixing := []Affine{
		Rotate(math.Pi / 4),
		Rotate(math.Pi / 2),
		Shear(0.5, 0),
		Shear(0, 0.5),
		Scale(2, 2).Multiply(Rotate(math.Pi / 6)),
	}
	for _, m := range mixing {
		if m.IsScaleOnly() {
			t.Errorf("expected Affine%+v to mix axes", m)
		}
	}
}

func TestMaxScaleFactor(t *testing.T) {
	const tol = 1e-10

	tests := []struct {
		m    Affine
		want float64
	}{
		{Identity(), 1},
		{Translate(10, 20), 1},
		{Scale(2, 2), 2},
		{Scale(0.5, 0.5), 0.5},
		// The larger axis dominates, sign never matters.
		{Scale(3, 1), 3},
		{Scale(1, -4), 4},
		{Scale(-2, -3), 3},
		{Scale(0, 1), 1},
		{Scale(0, 0), 0},
		// Rotations preserve lengths.
		{Rotate(math.Pi / 4), 1},
		{Rotate(1.23), 1},
		{Scale(2, 2).Multiply(Rotate(math.Pi / 4)), 2},
		{Scale(1, 4).Multiply(Rotate(math.Pi / 6)), 4},
		// Largest singular value of [1 1; 0 1].
		{Shear(1, 0), math.Sqrt((3 + math.Sqrt(5)) / 2)},
		{Scale(3, 2).Multiply(Translate(100, 200)), 3},
	}
	for _, tt := range tests {
		if got := tt.m.MaxScaleFactor(); math.Abs(got-tt.want) > tol {
			t.Errorf("Affine%+v.MaxScaleFactor() = %v, want %v", tt.m, got, tt.want)
		}
	}
}

func TestMaxScaleFactorSkewComposition(t *testing.T) {
	// Against a brute-force oracle: the longest image of any unit
	// vector under the transform.
	m := Scale(2, 3).Multiply(Shear(0.5, 0))

	want := 0.0
	for i := range 3600 {
		a := float64(i) * math.Pi / 1800
		v := m.TransformVector(Point{X: math.Cos(a), Y: math.Sin(a)})
		if l := math.Hypot(v.X, v.Y); l > want {
			want = l
		}
	}

	got := m.MaxScaleFactor()
	if math.Abs(got-want) > 1e-5 {
		t.Errorf("MaxScaleFactor() = %v, want %v from sampling", got, want)
	}
}

func TestMaxScaleFactorRotationInvariance(t *testing.T) {
	// For a rotation matrix, MaxScaleFactor should be 1.0 regardless of angle.
	for deg := 0; deg < 360; deg += 15 {
		angle := float64(deg) * math.Pi / 180
		m := Rotate(angle)
		got := m.MaxScaleFactor()
		if math.Abs(got-1.0) > 1e-10 {
			t.Errorf("Rotate(%d deg).MaxScaleFactor() = %v, want 1.0", deg, got)
		}
	}
}

func TestMultiplyIdentity(t *testing.T) {
	m := Scale(2, 3).Multiply(Rotate(0.7)).Multiply(Translate(5, -1))

	if got := m.Multiply(Identity()); got != m {
		t.Errorf("m * I = %+v, want %+v", got, m)
	}
	if got := Identity().Multiply(m); got != m {
		t.Errorf("I * m = %+v, want %+v", got, m)
	}
}

func TestTransformPoint(t *testing.T) {
	tests := []struct {
		name string
		m    Affine
		p    Point
		want Point
	}{
		{"identity", Identity(), Point{3, 4}, Point{3, 4}},
		{"translate", Translate(10, 20), Point{3, 4}, Point{13, 24}},
		{"scale", Scale(2, 3), Point{3, 4}, Point{6, 12}},
		{"shear x", Shear(1, 0), Point{1, 1}, Point{2, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.m.TransformPoint(tt.p)
			if math.Abs(got.X-tt.want.X) > 1e-12 || math.Abs(got.Y-tt.want.Y) > 1e-12 {
				t.Errorf("TransformPoint(%+v) = %+v, want %+v", tt.p, got, tt.want)
			}
		})
	}
}

func TestTransformVectorIgnoresTranslation(t *testing.T) {
	m := Translate(100, 200)
	got := m.TransformVector(Point{3, 4})
	if got != (Point{3, 4}) {
		t.Errorf("TransformVector = %+v, want {3 4}", got)
	}
}

func TestInvertRoundTrip(t *testing.T) {
	m := Scale(2, 0.5).Multiply(Rotate(math.Pi / 7)).Multiply(Translate(12, -3))
	inv := m.Invert()

	p := Point{5, 9}
	back := inv.TransformPoint(m.TransformPoint(p))
	if math.Abs(back.X-p.X) > 1e-9 || math.Abs(back.Y-p.Y) > 1e-9 {
		t.Errorf("inverse round trip = %+v, want %+v", back, p)
	}
}

func TestInvertSingular(t *testing.T) {
	got := Scale(0, 0).Invert()
	if !got.IsIdentity() {
		t.Errorf("Invert of singular matrix = %+v, want identity", got)
	}
}

func TestMatrixResource(t *testing.T) {
	a := NewMatrix(Translate(1, 2))
	b := NewMatrix(Translate(1, 2))

	if a.ID() == b.ID() {
		t.Error("two matrices share a resource ID")
	}
	if a.Affine() != Translate(1, 2) {
		t.Errorf("Affine() = %+v, want translation", a.Affine())
	}

	a.SetAffine(Scale(3, 3))
	if a.Affine() != Scale(3, 3) {
		t.Errorf("Affine() after SetAffine = %+v, want scale", a.Affine())
	}
	if b.Affine() != Translate(1, 2) {
		t.Error("SetAffine on one matrix changed another")
	}
}
