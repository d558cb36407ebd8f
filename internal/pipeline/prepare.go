package pipeline

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/kiesman99/pbrtex/pkg/texture"
)

// squareCrop returns the largest centered square inside r
func squareCrop(r image.Rectangle) image.Rectangle {
	size := min(r.Dx(), r.Dy())
	offX := (r.Dx() - size) / 2
	offY := (r.Dy() - size) / 2
	origin := r.Min.Add(image.Pt(offX, offY))
	return image.Rectangle{Min: origin, Max: origin.Add(image.Pt(size, size))}
}

// prepare center-crops src to a square and scales it to
// resolution x resolution
func prepare(src image.Image, resolution int) *texture.Buffer {
	crop := squareCrop(src.Bounds())
	dst := image.NewNRGBA(image.Rect(0, 0, resolution, resolution))

	if crop.Dx() == resolution {
		draw.Draw(dst, dst.Bounds(), src, crop.Min, draw.Src)
	} else {
		// Catmull-Rom approximates Lanczos for both up and downscaling
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Src, nil)
	}

	return texture.FromNRGBA(dst)
}
