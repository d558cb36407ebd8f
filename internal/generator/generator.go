// Package generator derives PBR maps from a square base image.
//
// Each generator is a pure function of its input: it never modifies the
// source buffer and returns a freshly allocated, fully opaque buffer of the
// same dimensions.
package generator

import (
	"fmt"
	"math"

	"github.com/kiesman99/pbrtex/pkg/texture"
)

// Func turns a source buffer into one derived map
type Func func(src *texture.Buffer) (*texture.Buffer, error)

// For returns the generator for kind. The edge operator only affects the
// normal map.
func For(kind texture.Kind, edgeKind texture.EdgeDetection) (Func, error) {
	switch kind {
	case texture.Albedo:
		return Albedo, nil
	case texture.Height:
		return Height, nil
	case texture.Normal:
		return func(src *texture.Buffer) (*texture.Buffer, error) {
			return Normal(src, edgeKind)
		}, nil
	case texture.Metallic:
		return Metallic, nil
	case texture.Roughness:
		return Roughness, nil
	case texture.Occlusion:
		return Occlusion, nil
	}
	return nil, fmt.Errorf("generator: unknown texture kind %q", kind)
}

// jsRound rounds half away from zero for non-negative values, matching
// the reference's Math.round
func jsRound(v float64) float64 {
	return math.Floor(v + 0.5)
}

// writeGray stores a row-major field of gray levels as an opaque buffer
func writeGray(values []float64, width, height int) *texture.Buffer {
	out := texture.NewBuffer(width, height)
	for i, v := range values {
		g := texture.Clamp8(v)
		p := i * 4
		out.Pix[p] = g
		out.Pix[p+1] = g
		out.Pix[p+2] = g
		out.Pix[p+3] = 255
	}
	return out
}

// hasInterior reports whether a field has at least one pixel whose 3x3
// window lies fully inside it
func hasInterior(width, height int) bool {
	return width >= 3 && height >= 3
}

// replicateBorders copies the nearest interior row into the top and bottom
// rows, then the nearest interior column into the left and right columns.
// Corners therefore take the value of their diagonal interior neighbor.
func replicateBorders(values []float64, width, height int) {
	top, bottom := values[:width], values[(height-1)*width:]
	copy(top, values[width:2*width])
	copy(bottom, values[(height-2)*width:(height-1)*width])
	for y := 0; y < height; y++ {
		row := values[y*width : (y+1)*width]
		row[0] = row[1]
		row[width-1] = row[width-2]
	}
}
