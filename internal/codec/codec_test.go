package codec

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/kiesman99/pbrtex/pkg/texture"
)

func sample() *texture.Buffer {
	buf := texture.NewBuffer(5, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 5; x++ {
			buf.SetRGB(x, y, uint8(x*50), uint8(y*60), 90)
		}
	}
	return buf
}

func assertPixels(t *testing.T, img image.Image, want *texture.Buffer) {
	t.Helper()
	b := img.Bounds()
	if b.Dx() != want.Width || b.Dy() != want.Height {
		t.Fatalf("decoded %dx%d, want %dx%d", b.Dx(), b.Dy(), want.Width, want.Height)
	}
	for y := 0; y < want.Height; y++ {
		for x := 0; x < want.Width; x++ {
			got := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			r, g, bl, a := want.RGBA(x, y)
			if got != (color.NRGBA{r, g, bl, a}) {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, color.NRGBA{r, g, bl, a})
			}
		}
	}
}

func TestPNGEncoder(t *testing.T) {
	src := sample()
	data, err := PNGEncoder{}.Encode(src)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	img, format, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if format != PNG {
		t.Errorf("format = %q, want png", format)
	}
	assertPixels(t, img, src)
}

func TestWebPEncoderIsLossless(t *testing.T) {
	src := sample()
	data, err := WebPEncoder{}.Encode(src)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	img, format, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if format != WebP {
		t.Errorf("format = %q, want webp", format)
	}
	assertPixels(t, img, src)
}

func TestEncodersRejectMalformedBuffer(t *testing.T) {
	bad := &texture.Buffer{Width: 2, Height: 2, Pix: make([]uint8, 3)}
	for _, enc := range []Encoder{PNGEncoder{}, WebPEncoder{}} {
		if _, err := enc.Encode(bad); err == nil {
			t.Errorf("%s: expected error for malformed buffer", enc.Extension())
		}
	}
}

func TestDecodeFormats(t *testing.T) {
	src := sample()
	img := src.Image()

	encode := map[Format]func() ([]byte, error){
		PNG: func() ([]byte, error) {
			var b bytes.Buffer
			err := png.Encode(&b, img)
			return b.Bytes(), err
		},
		BMP: func() ([]byte, error) {
			var b bytes.Buffer
			err := bmp.Encode(&b, img)
			return b.Bytes(), err
		},
		TIFF: func() ([]byte, error) {
			var b bytes.Buffer
			err := tiff.Encode(&b, img, nil)
			return b.Bytes(), err
		},
	}

	for format, fn := range encode {
		t.Run(string(format), func(t *testing.T) {
			data, err := fn()
			if err != nil {
				t.Fatalf("fixture encode failed: %v", err)
			}
			decoded, got, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if got != format {
				t.Errorf("format = %q, want %q", got, format)
			}
			assertPixels(t, decoded, src)
		})
	}
}

func TestDecodeTGA(t *testing.T) {
	// Uncompressed 24-bit true color, 2x1, pixels stored as BGR
	header := []byte{
		0, 0, 2,
		0, 0, 0, 0, 0,
		0, 0, 0, 0,
		2, 0, 1, 0,
		24, 0,
	}
	data := append(header, 30, 20, 10, 0, 0, 255)

	img, format, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if format != TGA {
		t.Errorf("format = %q, want tga", format)
	}

	want := texture.NewBuffer(2, 1)
	want.SetRGB(0, 0, 10, 20, 30)
	want.SetRGB(1, 0, 255, 0, 0)
	assertPixels(t, img, want)
}

func TestDecodeErrors(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"garbage", []byte("hello")},
		{"truncated png", []byte("\x89PNG\r\n\x1a\n")},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := Decode(tc.data); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestEncoderFor(t *testing.T) {
	testCases := []struct {
		name string
		ext  string
		ct   string
	}{
		{"", "png", "image/png"},
		{"png", "png", "image/png"},
		{"PNG", "png", "image/png"},
		{"webp", "webp", "image/webp"},
	}
	for _, tc := range testCases {
		enc, err := EncoderFor(tc.name)
		if err != nil {
			t.Fatalf("EncoderFor(%q): %v", tc.name, err)
		}
		if enc.Extension() != tc.ext || enc.ContentType() != tc.ct {
			t.Errorf("EncoderFor(%q) = %s/%s", tc.name, enc.Extension(), enc.ContentType())
		}
	}

	if _, err := EncoderFor("jpeg2000"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestDataURL(t *testing.T) {
	url := DataURL("image/png", []byte{1, 2, 3})
	prefix := "data:image/png;base64,"
	if !strings.HasPrefix(url, prefix) {
		t.Fatalf("unexpected prefix in %q", url)
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, prefix))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(raw, []byte{1, 2, 3}) {
		t.Errorf("payload = %v", raw)
	}
}
