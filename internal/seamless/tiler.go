// Package seamless rewrites the border region of a texture so that it
// repeats in a grid without visible seams.
//
// Borders are first blended toward the color of the opposite edge with a
// weight that fades in over a bounded blend zone, then the outermost rows
// and columns are forced to exactly matching values. The blend gives a
// smooth approach to the forced seam so no hard line appears.
package seamless

import (
	"errors"
	"fmt"
	"math"

	"github.com/kiesman99/pbrtex/internal/generator"
	"github.com/kiesman99/pbrtex/pkg/texture"
)

// Method identifies the blending strategy in tiling reports
const Method = "radial-edge-blend"

const (
	blendFraction = 0.15
	minBlendWidth = 8
	maxBlendWidth = 32

	// zoneFraction bounds how far from an edge pixels may be blended
	zoneFraction = 0.25

	edgeWeight   = 0.7
	radialWeight = 0.3

	// seamMix scales edge influence so both sides of a seam move halfway
	// toward each other
	seamMix = 0.5
)

// ErrBlankInput is returned for a texture whose RGB channels are all zero.
// The texture is returned unchanged.
var ErrBlankInput = errors.New("input was blank")

// Options tune a tiling pass
type Options struct {
	// Renormalize treats pixels as encoded unit vectors and re-normalizes
	// them after blending. Set it for normal maps.
	Renormalize bool
}

// Report describes a completed tiling pass
type Report struct {
	BlendWidth int
	Method     string
	// SeamDeviation is the largest channel difference across the wrap
	// seams of the result
	SeamDeviation int
}

// BlendWidth returns the blend zone thickness for a width x height texture
func BlendWidth(width, height int) int {
	bw := int(math.Floor(float64(min(width, height)) * blendFraction))
	return max(minBlendWidth, min(maxBlendWidth, bw))
}

// Tile returns a seamless copy of buf. buf itself is never modified.
func Tile(buf *texture.Buffer, opts Options) (*texture.Buffer, Report, error) {
	if err := buf.Validate(); err != nil {
		return nil, Report{}, fmt.Errorf("seamless: %w", err)
	}

	out := buf.Clone()
	if buf.IsBlank() {
		return out, Report{}, ErrBlankInput
	}

	blendWidth := BlendWidth(buf.Width, buf.Height)
	edges := computeEdgeAverages(buf)

	blendBorders(buf, out, edges, blendWidth)
	enforceEdgeEquality(out)

	if opts.Renormalize {
		renormalize(out)
	}

	return out, Report{
		BlendWidth:    blendWidth,
		Method:        Method,
		SeamDeviation: SeamDeviation(out),
	}, nil
}

// EdgeInfluence is the blend weight in [0,1] for pixel (x, y): close to 1 at
// the border, fading quadratically to 0 at blendWidth pixels in, modulated by
// a cosine falloff of the distance from the image center.
func EdgeInfluence(x, y, width, height, blendWidth int) float64 {
	dist := min(x, width-1-x, y, height-1-y)
	d := math.Min(float64(dist)/float64(blendWidth), 1)
	edgeFactor := 1 - d*d
	if edgeFactor <= 0 {
		return 0
	}

	cx := float64(width-1) / 2
	cy := float64(height-1) / 2
	var rx, ry float64
	if cx > 0 {
		rx = (float64(x) - cx) / cx
	}
	if cy > 0 {
		ry = (float64(y) - cy) / cy
	}
	r := math.Min(1, math.Sqrt(rx*rx+ry*ry)/math.Sqrt2)
	radialFactor := (1 - math.Cos(math.Pi*r)) / 2

	return edgeFactor * (edgeWeight + radialWeight*radialFactor)
}

type side int

const (
	none side = iota
	first
	second
)

// nearestSide reports which edge of a dimension pos lies in the blend zone
// of, preferring the closer one when both zones overlap
func nearestSide(pos, size int) side {
	zone := max(1, int(float64(size)*zoneFraction))
	nearFirst := pos < zone
	nearSecond := pos >= size-zone
	switch {
	case nearFirst && nearSecond:
		if pos <= size-1-pos {
			return first
		}
		return second
	case nearFirst:
		return first
	case nearSecond:
		return second
	}
	return none
}

// blendBorders moves each border-zone pixel of out toward the color found
// at the matching position on the opposite edge of src
func blendBorders(src, out *texture.Buffer, e *edgeAverages, blendWidth int) {
	w, h := src.Width, src.Height
	for y := 0; y < h; y++ {
		vertical := nearestSide(y, h)
		for x := 0; x < w; x++ {
			horizontal := nearestSide(x, w)
			if horizontal == none && vertical == none {
				continue
			}

			influence := EdgeInfluence(x, y, w, h, blendWidth)
			if influence <= 0 {
				continue
			}

			var target rgb
			switch {
			case horizontal == first && vertical == first:
				target = mean(e.right[y], e.bottom[x], e.bottomRight, e.topLeft)
			case horizontal == second && vertical == first:
				target = mean(e.left[y], e.bottom[x], e.bottomLeft, e.topRight)
			case horizontal == first && vertical == second:
				target = mean(e.right[y], e.top[x], e.topRight, e.bottomLeft)
			case horizontal == second && vertical == second:
				target = mean(e.left[y], e.top[x], e.topLeft, e.bottomRight)
			case horizontal == first:
				target = e.right[y]
			case horizontal == second:
				target = e.left[y]
			case vertical == first:
				target = e.bottom[x]
			default:
				target = e.top[x]
			}

			setPixel(out, x, y, pixel(src, x, y).lerp(target, influence*seamMix))
		}
	}
}

// enforceEdgeEquality makes opposite border pixels identical so the
// texture wraps exactly
func enforceEdgeEquality(buf *texture.Buffer) {
	w, h := buf.Width, buf.Height
	cx := func(x int) int { return max(0, min(w-1, x)) }
	cy := func(y int) int { return max(0, min(h-1, y)) }

	// One color shared by all four corners, from each corner and the two
	// edge pixels beside it
	corner := mean(
		pixel(buf, 0, 0), pixel(buf, cx(1), 0), pixel(buf, 0, cy(1)),
		pixel(buf, w-1, 0), pixel(buf, cx(w-2), 0), pixel(buf, w-1, cy(1)),
		pixel(buf, 0, h-1), pixel(buf, cx(1), h-1), pixel(buf, 0, cy(h-2)),
		pixel(buf, w-1, h-1), pixel(buf, cx(w-2), h-1), pixel(buf, w-1, cy(h-2)),
	)
	setPixel(buf, 0, 0, corner)
	setPixel(buf, w-1, 0, corner)
	setPixel(buf, 0, h-1, corner)
	setPixel(buf, w-1, h-1, corner)

	for y := 1; y < h-1; y++ {
		avg := mean(pixel(buf, 0, y), pixel(buf, w-1, y))
		setPixel(buf, 0, y, avg)
		setPixel(buf, w-1, y, avg)
	}

	for x := 1; x < w-1; x++ {
		avg := mean(pixel(buf, x, 0), pixel(buf, x, h-1))
		setPixel(buf, x, 0, avg)
		setPixel(buf, x, h-1, avg)
	}
}

func renormalize(buf *texture.Buffer) {
	for i := 0; i < len(buf.Pix); i += 4 {
		x, y, z := generator.DecodeNormal(buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2])
		buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2] = generator.EncodeNormal(x, y, z)
	}
}
