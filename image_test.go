package rescache

import (
	"image"
	"math"
	"testing"
)

var _ image.Image = (*Image)(nil)

// TestNewImage tests the NewImage constructor.
func TestNewImage(t *testing.T) {
	img := NewImage(10, 20)
	if img == nil {
		t.Fatal("NewImage returned nil")
	}
	if img.Width() != 10 || img.Height() != 20 {
		t.Errorf("dimensions: got (%d, %d), want (10, 20)", img.Width(), img.Height())
	}
	if img.Format() != PixelFormatRGBA8 {
		t.Errorf("format: got %v, want RGBA8", img.Format())
	}
	if img.ByteSize() != 10*20*4 {
		t.Errorf("byte size: got %d, want %d", img.ByteSize(), 10*20*4)
	}
	if img.ID() == 0 {
		t.Error("ID = 0, want issued identity")
	}
	if img.Generation() != 0 {
		t.Errorf("generation: got %d, want 0", img.Generation())
	}
	if img.Recycled() {
		t.Error("new image reported as recycled")
	}
}

// TestNewImageInvalid verifies that invalid dimensions yield nil.
func TestNewImageInvalid(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
	}{
		{"zero width", 0, 10},
		{"zero height", 10, 0},
		{"negative width", -1, 10},
		{"negative height", 10, -1},
		{"both zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if img := NewImage(tt.width, tt.height); img != nil {
				t.Errorf("NewImage(%d, %d) = %v, want nil", tt.width, tt.height, img)
			}
		})
	}
}

// TestImageSetPixel tests the SetPixel method on an RGBA8 image.
func TestImageSetPixel(t *testing.T) {
	img := NewImage(10, 10)
	img.Clear(Transparent)

	img.SetPixel(5, 5, Red)

	// Verify raw data directly
	i := (5*10 + 5) * 4
	pix := img.Pix()
	if pix[i+0] != 255 || pix[i+1] != 0 || pix[i+2] != 0 || pix[i+3] != 255 {
		t.Errorf("raw data mismatch: got (%d, %d, %d, %d), want (255, 0, 0, 255)",
			pix[i+0], pix[i+1], pix[i+2], pix[i+3])
	}

	// Verify via PixelAt
	c := img.PixelAt(5, 5)
	if !colorsEqual(c, Red, 0.01) {
		t.Errorf("PixelAt mismatch: got %+v, want Red", c)
	}

	// Verify via At() (image.Image interface, values scaled to 0-65535)
	r, g, b, a := img.At(5, 5).RGBA()
	if r != 255*257 || g != 0 || b != 0 || a != 255*257 {
		t.Errorf("At() mismatch: got (%d, %d, %d, %d), want (%d, 0, 0, %d)",
			r, g, b, a, 255*257, 255*257)
	}
}

// TestImageSetPixel_OutOfBounds verifies out-of-bounds coordinates are silently ignored.
func TestImageSetPixel_OutOfBounds(t *testing.T) {
	img := NewImage(10, 10)
	img.Clear(Black)

	// Save original data
	original := make([]uint8, len(img.Pix()))
	copy(original, img.Pix())

	// These should not panic and should not modify data
	oob := []struct{ x, y int }{
		{-1, 5}, {10, 5}, {5, -1}, {5, 10},
		{-100, -100}, {100, 100},
	}
	for _, c := range oob {
		img.SetPixel(c.x, c.y, Red)
	}

	// Data should be unchanged
	for i, v := range img.Pix() {
		if v != original[i] {
			t.Fatalf("out-of-bounds write modified data at index %d: got %d, want %d", i, v, original[i])
		}
	}
}

// TestImageBGRA8 tests pixel access on a BGRA8 image.
func TestImageBGRA8(t *testing.T) {
	img := NewImageWithFormat(10, 10, PixelFormatBGRA8)

	img.SetPixel(3, 7, Red)

	// Raw storage is byte-swapped: B, G, R, A
	i := (7*10 + 3) * 4
	pix := img.Pix()
	if pix[i+0] != 0 || pix[i+1] != 0 || pix[i+2] != 255 || pix[i+3] != 255 {
		t.Errorf("raw data mismatch: got (%d, %d, %d, %d), want (0, 0, 255, 255)",
			pix[i+0], pix[i+1], pix[i+2], pix[i+3])
	}

	// PixelAt swizzles back
	c := img.PixelAt(3, 7)
	if !colorsEqual(c, Red, 0.01) {
		t.Errorf("PixelAt mismatch: got %+v, want Red", c)
	}

	// RGBABytes converts to straight RGBA order
	rgba := img.RGBABytes()
	if rgba[i+0] != 255 || rgba[i+1] != 0 || rgba[i+2] != 0 || rgba[i+3] != 255 {
		t.Errorf("RGBABytes mismatch: got (%d, %d, %d, %d), want (255, 0, 0, 255)",
			rgba[i+0], rgba[i+1], rgba[i+2], rgba[i+3])
	}
}

// TestImageA8 tests alpha-only storage.
func TestImageA8(t *testing.T) {
	img := NewImageWithFormat(10, 10, PixelFormatA8)
	if img.ByteSize() != 100 {
		t.Errorf("byte size: got %d, want 100", img.ByteSize())
	}

	// Only the alpha channel survives
	img.SetPixel(2, 2, RGBA{R: 1, G: 1, B: 1, A: 0.5})

	if got := img.Pix()[2*10+2]; got != 127 {
		t.Errorf("stored alpha: got %d, want 127", got)
	}

	// Decodes as black with the stored alpha
	c := img.PixelAt(2, 2)
	if c.R != 0 || c.G != 0 || c.B != 0 {
		t.Errorf("A8 pixel decoded with color: %+v", c)
	}
	if math.Abs(c.A-0.5) > 0.01 {
		t.Errorf("alpha: got %.4f, want 0.5", c.A)
	}

	// RGBABytes expands to one alpha-only texel per pixel
	rgba := img.RGBABytes()
	if len(rgba) != 100*4 {
		t.Fatalf("RGBABytes length: got %d, want 400", len(rgba))
	}
	i := (2*10 + 2) * 4
	if rgba[i+0] != 0 || rgba[i+1] != 0 || rgba[i+2] != 0 || rgba[i+3] != 127 {
		t.Errorf("RGBABytes texel: got (%d, %d, %d, %d), want (0, 0, 0, 127)",
			rgba[i+0], rgba[i+1], rgba[i+2], rgba[i+3])
	}
}

// TestImageIndex8 tests paletted storage.
func TestImageIndex8(t *testing.T) {
	img := NewImageWithFormat(4, 4, PixelFormatIndex8)
	img.SetPalette([]RGBA{Black, Red, Green})

	img.SetIndex(1, 1, 1)
	img.SetIndex(2, 2, 2)

	if c := img.PixelAt(1, 1); !colorsEqual(c, Red, 0.01) {
		t.Errorf("PixelAt(1, 1): got %+v, want Red", c)
	}
	if c := img.PixelAt(2, 2); !colorsEqual(c, Green, 0.01) {
		t.Errorf("PixelAt(2, 2): got %+v, want Green", c)
	}

	// Index beyond the palette decodes as transparent
	img.SetIndex(3, 3, 9)
	if c := img.PixelAt(3, 3); c != (RGBA{}) {
		t.Errorf("out-of-palette index: got %+v, want zero", c)
	}

	// SetPixel does not apply to paletted images
	before := img.Pix()[0]
	img.SetPixel(0, 0, Blue)
	if img.Pix()[0] != before {
		t.Error("SetPixel modified an Index8 image")
	}

	// RGBABytes expands through the palette; unknown indices stay transparent
	rgba := img.RGBABytes()
	i := (1*4 + 1) * 4
	if rgba[i+0] != 255 || rgba[i+3] != 255 {
		t.Errorf("palette expansion: got (%d, %d, %d, %d), want (255, 0, 0, 255)",
			rgba[i+0], rgba[i+1], rgba[i+2], rgba[i+3])
	}
	j := (3*4 + 3) * 4
	if rgba[j+3] != 0 {
		t.Errorf("unknown index expanded to alpha %d, want 0", rgba[j+3])
	}
}

// TestImageClear tests the Clear method.
func TestImageClear(t *testing.T) {
	img := NewImage(8, 8)
	img.Clear(Green)

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if c := img.PixelAt(x, y); !colorsEqual(c, Green, 0.01) {
				t.Fatalf("pixel (%d, %d) after Clear: got %+v, want Green", x, y, c)
			}
		}
	}
}

// TestImageRGBABytesShared verifies that RGBA8 images hand out their
// backing store rather than a copy.
func TestImageRGBABytesShared(t *testing.T) {
	img := NewImage(4, 4)
	rgba := img.RGBABytes()

	rgba[0] = 200
	if img.Pix()[0] != 200 {
		t.Error("RGBABytes returned a copy for an RGBA8 image")
	}
}

// TestImageReleasePixels tests the ReleasePixels method.
func TestImageReleasePixels(t *testing.T) {
	img := NewImage(10, 10)
	img.Clear(Red)

	img.ReleasePixels()

	if !img.Recycled() {
		t.Error("Recycled = false after release")
	}
	if img.Pix() != nil {
		t.Error("Pix != nil after release")
	}
	if img.ByteSize() != 0 {
		t.Errorf("ByteSize after release: got %d, want 0", img.ByteSize())
	}
	if img.RGBABytes() != nil {
		t.Error("RGBABytes != nil after release")
	}

	// Identity and dimensions survive
	if img.ID() == 0 || img.Width() != 10 || img.Height() != 10 {
		t.Error("identity or dimensions lost on release")
	}

	// Further access yields zero values, no panics
	img.SetPixel(5, 5, Blue)
	img.Clear(Blue)
	if c := img.PixelAt(5, 5); c != (RGBA{}) {
		t.Errorf("PixelAt after release: got %+v, want zero", c)
	}

	// Releasing twice is fine
	img.ReleasePixels()
}

// TestImageGeneration verifies the generation counter tracks content changes.
func TestImageGeneration(t *testing.T) {
	img := NewImage(10, 10)

	gen := img.Generation()
	img.SetPixel(1, 1, Red)
	if img.Generation() == gen {
		t.Error("SetPixel did not bump generation")
	}

	gen = img.Generation()
	img.Clear(Blue)
	if img.Generation() == gen {
		t.Error("Clear did not bump generation")
	}

	// Out-of-bounds writes change nothing
	gen = img.Generation()
	img.SetPixel(-1, -1, Red)
	if img.Generation() != gen {
		t.Error("out-of-bounds SetPixel bumped generation")
	}
}

// TestImageFromImage tests conversion from a standard library image.
func TestImageFromImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	src.Pix[0] = 255 // (0,0) red, opaque
	src.Pix[3] = 255

	img := ImageFromImage(src)
	if img == nil {
		t.Fatal("ImageFromImage returned nil")
	}
	if img.Width() != 4 || img.Height() != 4 {
		t.Errorf("dimensions: got (%d, %d), want (4, 4)", img.Width(), img.Height())
	}
	if c := img.PixelAt(0, 0); !colorsEqual(c, Red, 0.01) {
		t.Errorf("PixelAt(0, 0): got %+v, want Red", c)
	}
}

// TestImageToImage tests the round trip through image.RGBA.
func TestImageToImage(t *testing.T) {
	img := NewImage(4, 4)
	img.SetPixel(1, 2, Blue)

	std := img.ToImage()
	r, g, b, a := std.At(1, 2).RGBA()
	if r != 0 || g != 0 || b != 255*257 || a != 255*257 {
		t.Errorf("At(1, 2): got (%d, %d, %d, %d), want (0, 0, %d, %d)",
			r, g, b, a, 255*257, 255*257)
	}

	// The conversion copies; mutating the copy leaves the source alone
	std.Pix[0] = 99
	if img.Pix()[0] == 99 {
		t.Error("ToImage shares storage with the source image")
	}
}

// TestImageBounds tests image.Image interface conformance.
func TestImageBounds(t *testing.T) {
	img := NewImage(7, 3)
	want := image.Rect(0, 0, 7, 3)
	if img.Bounds() != want {
		t.Errorf("Bounds: got %v, want %v", img.Bounds(), want)
	}
}

// TestImageIDsUnique verifies every image gets its own identity.
func TestImageIDsUnique(t *testing.T) {
	a := NewImage(1, 1)
	b := NewImage(1, 1)
	if a.ID() == b.ID() {
		t.Error("two images share a resource ID")
	}
}

// TestPixelFormatString tests the PixelFormat String method.
func TestPixelFormatString(t *testing.T) {
	tests := []struct {
		format PixelFormat
		want   string
	}{
		{PixelFormatRGBA8, "RGBA8"},
		{PixelFormatBGRA8, "BGRA8"},
		{PixelFormatA8, "A8"},
		{PixelFormatIndex8, "Index8"},
		{PixelFormat(42), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("PixelFormat(%d).String() = %q, want %q", tt.format, got, tt.want)
		}
	}
}
