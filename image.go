package rescache

import (
	"image"
	"image/color"
	"image/png"
	"os"
)

// PixelFormat describes the in-memory layout of an Image's pixels.
type PixelFormat uint8

const (
	// PixelFormatRGBA8 is 8-bit RGBA (4 bytes per pixel).
	PixelFormatRGBA8 PixelFormat = iota
	// PixelFormatBGRA8 is 8-bit BGRA (4 bytes per pixel).
	PixelFormatBGRA8
	// PixelFormatA8 is 8-bit alpha only (1 byte per pixel).
	PixelFormatA8
	// PixelFormatIndex8 is 8-bit palette indices (1 byte per pixel).
	PixelFormatIndex8
)

// String returns the string representation.
func (f PixelFormat) String() string {
	switch f {
	case PixelFormatRGBA8:
		return "RGBA8"
	case PixelFormatBGRA8:
		return "BGRA8"
	case PixelFormatA8:
		return "A8"
	case PixelFormatIndex8:
		return "Index8"
	default:
		return "Unknown"
	}
}

// BytesPerPixel returns the number of bytes per pixel.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case PixelFormatRGBA8, PixelFormatBGRA8:
		return 4
	case PixelFormatA8, PixelFormatIndex8:
		return 1
	default:
		return 0
	}
}

// Image is an in-memory pixel buffer that can be shared between display
// lists and uploaded to the GPU. Unlike a plain pixmap it carries a
// stable identity, a generation counter for upload invalidation, and
// pixel storage that can be released while the object itself lives on.
type Image struct {
	id         ResourceID
	width      int
	height     int
	format     PixelFormat
	pix        []uint8
	palette    []RGBA
	generation uint64
	recycled   bool
}

// NewImage creates a new RGBA8 image with the given dimensions.
// Returns nil if either dimension is not positive.
func NewImage(width, height int) *Image {
	return NewImageWithFormat(width, height, PixelFormatRGBA8)
}

// NewImageWithFormat creates a new image with the given dimensions and
// pixel format. Returns nil if either dimension is not positive.
func NewImageWithFormat(width, height int, format PixelFormat) *Image {
	if width <= 0 || height <= 0 {
		return nil
	}
	bpp := format.BytesPerPixel()
	if bpp == 0 {
		return nil
	}
	return &Image{
		id:     newResourceID(),
		width:  width,
		height: height,
		format: format,
		pix:    make([]uint8, width*height*bpp),
	}
}

// ImageFromImage creates an RGBA8 image from a standard library image.
func ImageFromImage(src image.Image) *Image {
	bounds := src.Bounds()
	img := NewImage(bounds.Dx(), bounds.Dy())
	if img == nil {
		return nil
	}

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := src.At(x, y).RGBA()
			img.pix[i] = uint8(r >> 8)
			img.pix[i+1] = uint8(g >> 8)
			img.pix[i+2] = uint8(b >> 8)
			img.pix[i+3] = uint8(a >> 8)
			i += 4
		}
	}
	return img
}

// ID returns the image's stable resource identity.
func (i *Image) ID() ResourceID {
	return i.id
}

// Width returns the image width in pixels.
func (i *Image) Width() int {
	return i.width
}

// Height returns the image height in pixels.
func (i *Image) Height() int {
	return i.height
}

// Format returns the pixel format.
func (i *Image) Format() PixelFormat {
	return i.format
}

// Pix returns the backing pixel storage, or nil after the pixels have
// been released. The layout follows Format.
func (i *Image) Pix() []uint8 {
	return i.pix
}

// Palette returns the color table of an Index8 image, nil otherwise.
func (i *Image) Palette() []RGBA {
	return i.palette
}

// SetPalette sets the color table used by Index8 pixels.
func (i *Image) SetPalette(palette []RGBA) {
	i.palette = palette
	i.generation++
}

// SetPixel sets the pixel at (x, y). Out-of-bounds coordinates and
// released images are ignored. For A8 images only the alpha channel is
// stored; for Index8 images use SetIndex instead.
func (i *Image) SetPixel(x, y int, c RGBA) {
	if x < 0 || x >= i.width || y < 0 || y >= i.height || i.pix == nil {
		return
	}

	r, g, b, a := c.Bytes()
	switch i.format {
	case PixelFormatRGBA8:
		idx := (y*i.width + x) * 4
		i.pix[idx] = r
		i.pix[idx+1] = g
		i.pix[idx+2] = b
		i.pix[idx+3] = a
	case PixelFormatBGRA8:
		idx := (y*i.width + x) * 4
		i.pix[idx] = b
		i.pix[idx+1] = g
		i.pix[idx+2] = r
		i.pix[idx+3] = a
	case PixelFormatA8:
		i.pix[y*i.width+x] = a
	case PixelFormatIndex8:
		return
	}
	i.generation++
}

// SetIndex sets the palette index of the pixel at (x, y) of an Index8
// image. Ignored for other formats, out-of-bounds coordinates and
// released images.
func (i *Image) SetIndex(x, y int, index uint8) {
	if i.format != PixelFormatIndex8 || i.pix == nil {
		return
	}
	if x < 0 || x >= i.width || y < 0 || y >= i.height {
		return
	}
	i.pix[y*i.width+x] = index
	i.generation++
}

// PixelAt returns the color of the pixel at (x, y). Out-of-bounds
// coordinates and released images yield transparent black. A8 pixels
// decode as black with the stored alpha; Index8 pixels are looked up in
// the palette.
func (i *Image) PixelAt(x, y int) RGBA {
	if x < 0 || x >= i.width || y < 0 || y >= i.height || i.pix == nil {
		return RGBA{}
	}

	switch i.format {
	case PixelFormatRGBA8:
		idx := (y*i.width + x) * 4
		return rgbaFromBytes(i.pix[idx], i.pix[idx+1], i.pix[idx+2], i.pix[idx+3])
	case PixelFormatBGRA8:
		idx := (y*i.width + x) * 4
		return rgbaFromBytes(i.pix[idx+2], i.pix[idx+1], i.pix[idx], i.pix[idx+3])
	case PixelFormatA8:
		return RGBA{A: float64(i.pix[y*i.width+x]) / 255}
	case PixelFormatIndex8:
		index := int(i.pix[y*i.width+x])
		if index < len(i.palette) {
			return i.palette[index]
		}
		return RGBA{}
	default:
		return RGBA{}
	}
}

// Clear fills the whole image with a color. For A8 images only the
// alpha is stored. Ignored for Index8 and released images.
func (i *Image) Clear(c RGBA) {
	if i.pix == nil || i.format == PixelFormatIndex8 {
		return
	}

	r, g, b, a := c.Bytes()
	switch i.format {
	case PixelFormatRGBA8:
		for idx := 0; idx < len(i.pix); idx += 4 {
			i.pix[idx] = r
			i.pix[idx+1] = g
			i.pix[idx+2] = b
			i.pix[idx+3] = a
		}
	case PixelFormatBGRA8:
		for idx := 0; idx < len(i.pix); idx += 4 {
			i.pix[idx] = b
			i.pix[idx+1] = g
			i.pix[idx+2] = r
			i.pix[idx+3] = a
		}
	case PixelFormatA8:
		for idx := range i.pix {
			i.pix[idx] = a
		}
	}
	i.generation++
}

// RGBABytes returns the pixels expanded to straight RGBA order, the
// layout GPU uploads expect. For RGBA8 images this is the backing
// store itself, not a copy; other formats allocate and convert.
// Returns nil after the pixels have been released.
func (i *Image) RGBABytes() []uint8 {
	if i.pix == nil {
		return nil
	}

	switch i.format {
	case PixelFormatRGBA8:
		return i.pix

	case PixelFormatBGRA8:
		out := make([]uint8, len(i.pix))
		for idx := 0; idx < len(i.pix); idx += 4 {
			out[idx] = i.pix[idx+2]
			out[idx+1] = i.pix[idx+1]
			out[idx+2] = i.pix[idx]
			out[idx+3] = i.pix[idx+3]
		}
		return out

	case PixelFormatA8:
		out := make([]uint8, len(i.pix)*4)
		for idx, a := range i.pix {
			out[idx*4+3] = a
		}
		return out

	case PixelFormatIndex8:
		out := make([]uint8, len(i.pix)*4)
		for idx, index := range i.pix {
			if int(index) >= len(i.palette) {
				continue
			}
			r, g, b, a := i.palette[index].Bytes()
			out[idx*4] = r
			out[idx*4+1] = g
			out[idx*4+2] = b
			out[idx*4+3] = a
		}
		return out

	default:
		return nil
	}
}

// ReleasePixels drops the pixel storage and palette while keeping the
// image object and its identity alive. Further pixel access yields
// zero values. Safe to call more than once.
func (i *Image) ReleasePixels() {
	i.pix = nil
	i.palette = nil
	i.recycled = true
}

// Recycled reports whether the pixel storage has been released.
func (i *Image) Recycled() bool {
	return i.recycled
}

// ByteSize returns the size of the pixel storage in bytes. Released
// images weigh zero.
func (i *Image) ByteSize() uint64 {
	return uint64(len(i.pix))
}

// Generation returns a counter that changes whenever the pixel contents
// change. Upload caches compare it to decide whether a cached texture
// is stale.
func (i *Image) Generation() uint64 {
	return i.generation
}

// ToImage converts to a standard library RGBA image.
func (i *Image) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, i.width, i.height))
	rgba := i.RGBABytes()
	if rgba != nil {
		copy(img.Pix, rgba)
	}
	return img
}

// SavePNG writes the image to a PNG file.
func (i *Image) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, i.ToImage())
}

// ColorModel implements the image.Image interface.
func (i *Image) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements the image.Image interface.
func (i *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, i.width, i.height)
}

// At implements the image.Image interface.
func (i *Image) At(x, y int) color.Color {
	return i.PixelAt(x, y).Color()
}

// rgbaFromBytes converts 8-bit channels to an RGBA color.
func rgbaFromBytes(r, g, b, a uint8) RGBA {
	return RGBA{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: float64(a) / 255,
	}
}
