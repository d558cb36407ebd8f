package texture

import (
	"fmt"
	"image"
	"math"
)

// Buffer is a row-major RGBA raster, 4 bytes per pixel
type Buffer struct {
	Width  int
	Height int
	Pix    []uint8 // len = Width*Height*4
}

// NewBuffer allocates a zeroed buffer
func NewBuffer(width, height int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}
}

// Validate checks the buffer's dimensional invariant
func (b *Buffer) Validate() error {
	if b == nil {
		return fmt.Errorf("texture: nil buffer")
	}
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("texture: invalid dimensions %dx%d", b.Width, b.Height)
	}
	if len(b.Pix) != b.Width*b.Height*4 {
		return fmt.Errorf("texture: pixel data length %d, want %d for %dx%d",
			len(b.Pix), b.Width*b.Height*4, b.Width, b.Height)
	}
	return nil
}

// Clone returns a deep copy
func (b *Buffer) Clone() *Buffer {
	c := &Buffer{Width: b.Width, Height: b.Height, Pix: make([]uint8, len(b.Pix))}
	copy(c.Pix, b.Pix)
	return c
}

// Offset returns the index of the first byte of pixel (x, y)
func (b *Buffer) Offset(x, y int) int {
	return (y*b.Width + x) * 4
}

// RGBA returns the four channels of pixel (x, y)
func (b *Buffer) RGBA(x, y int) (r, g, bl, a uint8) {
	i := b.Offset(x, y)
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]
}

// SetRGB writes an opaque pixel
func (b *Buffer) SetRGB(x, y int, r, g, bl uint8) {
	i := b.Offset(x, y)
	b.Pix[i] = r
	b.Pix[i+1] = g
	b.Pix[i+2] = bl
	b.Pix[i+3] = 255
}

// SetGray writes an opaque grayscale pixel
func (b *Buffer) SetGray(x, y int, v uint8) {
	b.SetRGB(x, y, v, v, v)
}

// Luminance returns 0.299R + 0.587G + 0.114B for pixel (x, y)
func (b *Buffer) Luminance(x, y int) float64 {
	i := b.Offset(x, y)
	return Luminance(b.Pix[i], b.Pix[i+1], b.Pix[i+2])
}

// LuminanceMap returns the luminance of every pixel in row-major order
func (b *Buffer) LuminanceMap() []float64 {
	lum := make([]float64, b.Width*b.Height)
	for i := range lum {
		p := i * 4
		lum[i] = Luminance(b.Pix[p], b.Pix[p+1], b.Pix[p+2])
	}
	return lum
}

// IsBlank reports whether every pixel has zero red, green and blue
func (b *Buffer) IsBlank() bool {
	for i := 0; i < len(b.Pix); i += 4 {
		if b.Pix[i] != 0 || b.Pix[i+1] != 0 || b.Pix[i+2] != 0 {
			return false
		}
	}
	return true
}

// Equal reports whether two buffers hold identical pixels
func (b *Buffer) Equal(o *Buffer) bool {
	if b.Width != o.Width || b.Height != o.Height || len(b.Pix) != len(o.Pix) {
		return false
	}
	for i := range b.Pix {
		if b.Pix[i] != o.Pix[i] {
			return false
		}
	}
	return true
}

// Image wraps the buffer as a non-premultiplied image sharing its pixels
func (b *Buffer) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: b.Width * 4,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// FromNRGBA copies an NRGBA image into a new buffer
func FromNRGBA(img *image.NRGBA) *Buffer {
	r := img.Bounds()
	buf := NewBuffer(r.Dx(), r.Dy())
	for y := 0; y < buf.Height; y++ {
		src := img.Pix[img.PixOffset(r.Min.X, r.Min.Y+y):]
		copy(buf.Pix[y*buf.Width*4:(y+1)*buf.Width*4], src[:buf.Width*4])
	}
	return buf
}

// Luminance is the perceptual brightness used by every map generator
func Luminance(r, g, b uint8) float64 {
	return 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
}

// Clamp8 clamps v to [0,255] and rounds half to even, the way a clamped
// byte store converts floating point channel values. v is first snapped to a
// 1e-6 grid so accumulated error in weighted sums cannot flip a tie.
func Clamp8(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	v = math.Round(v*1e6) / 1e6
	return uint8(math.RoundToEven(v))
}
