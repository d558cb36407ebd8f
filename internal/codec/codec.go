// Package codec decodes source photographs and encodes generated maps.
package codec

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"github.com/kiesman99/pbrtex/pkg/texture"
)

// ErrUnsupportedFormat is returned for output formats without an encoder
var ErrUnsupportedFormat = errors.New("unsupported format")

// Format names an image container
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	GIF  Format = "gif"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
	WebP Format = "webp"
	TGA  Format = "tga"
)

type decoder struct {
	format Format
	match  func(data []byte) bool
	decode func(r io.Reader) (image.Image, error)
}

func prefix(magic ...string) func([]byte) bool {
	return func(data []byte) bool {
		for _, m := range magic {
			if bytes.HasPrefix(data, []byte(m)) {
				return true
			}
		}
		return false
	}
}

// TGA has no signature, so it is tried last for anything unrecognized.
// Formats are dispatched explicitly rather than through image.Decode
// because the tga package registers an empty magic string that would
// shadow every other format.
var decoders = []decoder{
	{PNG, prefix("\x89PNG"), png.Decode},
	{JPEG, prefix("\xff\xd8"), jpeg.Decode},
	{GIF, prefix("GIF87a", "GIF89a"), gif.Decode},
	{BMP, prefix("BM"), bmp.Decode},
	{TIFF, prefix("II*\x00", "MM\x00*"), tiff.Decode},
	{WebP, isWebP, webp.Decode},
}

func isWebP(data []byte) bool {
	return len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WEBP"
}

// Decode decodes an image from bytes and reports its format
func Decode(data []byte) (image.Image, Format, error) {
	if len(data) == 0 {
		return nil, "", errors.New("codec: empty image data")
	}

	for _, d := range decoders {
		if !d.match(data) {
			continue
		}
		img, err := d.decode(bytes.NewReader(data))
		if err != nil {
			return nil, d.format, fmt.Errorf("codec: decode %s: %w", d.format, err)
		}
		return img, d.format, nil
	}

	img, err := tga.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("codec: unrecognized image format: %w", err)
	}
	return img, TGA, nil
}

// DecodeFile reads and decodes the image at path
func DecodeFile(path string) (image.Image, Format, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("codec: read %s: %w", path, err)
	}
	return Decode(data)
}

// Encoder encodes maps into one output format
type Encoder interface {
	Encode(buf *texture.Buffer) ([]byte, error)
	Extension() string
	ContentType() string
}

// PNGEncoder writes lossless PNG
type PNGEncoder struct {
	Level png.CompressionLevel
}

func (e PNGEncoder) Encode(buf *texture.Buffer) ([]byte, error) {
	if err := buf.Validate(); err != nil {
		return nil, fmt.Errorf("codec: %w", err)
	}
	var out bytes.Buffer
	enc := png.Encoder{CompressionLevel: e.Level}
	if err := enc.Encode(&out, buf.Image()); err != nil {
		return nil, fmt.Errorf("codec: encode png: %w", err)
	}
	return out.Bytes(), nil
}

func (PNGEncoder) Extension() string   { return "png" }
func (PNGEncoder) ContentType() string { return "image/png" }

// WebPEncoder writes lossless WebP
type WebPEncoder struct{}

func (WebPEncoder) Encode(buf *texture.Buffer) ([]byte, error) {
	if err := buf.Validate(); err != nil {
		return nil, fmt.Errorf("codec: %w", err)
	}
	var out bytes.Buffer
	if err := nativewebp.Encode(&out, buf.Image(), nil); err != nil {
		return nil, fmt.Errorf("codec: encode webp: %w", err)
	}
	return out.Bytes(), nil
}

func (WebPEncoder) Extension() string   { return "webp" }
func (WebPEncoder) ContentType() string { return "image/webp" }

// OutputFormats lists the names accepted by EncoderFor
var OutputFormats = []Format{PNG, WebP}

// EncoderFor returns the encoder for an output format name. The empty
// name selects PNG.
func EncoderFor(name string) (Encoder, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case "", PNG:
		return PNGEncoder{}, nil
	case WebP:
		return WebPEncoder{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// DataURL embeds data as a base64 data URL
func DataURL(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
