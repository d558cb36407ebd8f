package generator

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/kiesman99/pbrtex/internal/edge"
	"github.com/kiesman99/pbrtex/pkg/texture"
)

// normalStrength scales gradients before they tilt the surface normal
const normalStrength = 2.0

// flatBlueThreshold is the mean blue level expected from a mostly flat
// surface
const flatBlueThreshold = 128

// Normal returns a tangent-space normal map computed from luminance
// heights with the selected gradient operator
func Normal(src *texture.Buffer, kind texture.EdgeDetection) (*texture.Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}

	w, h := src.Width, src.Height
	heights := src.LuminanceMap()
	for i := range heights {
		heights[i] /= 255.0
	}

	sample := edge.ClampedSampler(heights, w, h)
	gradient := edge.For(kind)

	out := texture.NewBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := gradient(sample, x, y)
			r, g, b := EncodeNormal(-dx*normalStrength, -dy*normalStrength, 1.0)
			out.SetRGB(x, y, r, g, b)
		}
	}
	return out, nil
}

// EncodeNormal normalizes (nx, ny, nz) and maps each component from
// [-1,1] to [0,255]
func EncodeNormal(nx, ny, nz float64) (r, g, b uint8) {
	length := math.Sqrt(nx*nx + ny*ny + nz*nz)
	if length == 0 {
		return 128, 128, 255
	}
	return encodeComponent(nx / length), encodeComponent(ny / length), encodeComponent(nz / length)
}

// DecodeNormal maps an encoded pixel back to a vector in [-1,1]^3
func DecodeNormal(r, g, b uint8) (x, y, z float64) {
	return float64(r)/255*2 - 1, float64(g)/255*2 - 1, float64(b)/255*2 - 1
}

func encodeComponent(c float64) uint8 {
	v := jsRound((c*0.5 + 0.5) * 255)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// NormalStats summarizes a normal map for quality diagnostics
type NormalStats struct {
	MeanBlue   float64
	MeanLength float64
	// Flat is true when the mean blue channel exceeds 128, which a
	// flat-ish source should produce
	Flat bool
}

// MeasureNormal computes diagnostics for a normal map. It never fails;
// callers decide whether a low score matters.
func MeasureNormal(buf *texture.Buffer) NormalStats {
	n := buf.Width * buf.Height
	if n == 0 {
		return NormalStats{}
	}

	blue := make([]float64, n)
	lengths := make([]float64, n)
	for i := 0; i < n; i++ {
		p := i * 4
		blue[i] = float64(buf.Pix[p+2])
		x, y, z := DecodeNormal(buf.Pix[p], buf.Pix[p+1], buf.Pix[p+2])
		lengths[i] = math.Sqrt(x*x + y*y + z*z)
	}

	meanBlue := stat.Mean(blue, nil)
	return NormalStats{
		MeanBlue:   meanBlue,
		MeanLength: stat.Mean(lengths, nil),
		Flat:       meanBlue > flatBlueThreshold,
	}
}
