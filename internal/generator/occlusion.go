package generator

import (
	"math"

	"github.com/kiesman99/pbrtex/pkg/texture"
)

const (
	occlusionRadius = 3
	occlusionGain   = 1.5
	occlusionFloor  = 50
)

// occlusionWeights holds max(0, radius - distance) for every offset in the
// (2r+1)^2 window
var occlusionWeights = func() [2*occlusionRadius + 1][2*occlusionRadius + 1]float64 {
	var w [2*occlusionRadius + 1][2*occlusionRadius + 1]float64
	for dy := -occlusionRadius; dy <= occlusionRadius; dy++ {
		for dx := -occlusionRadius; dx <= occlusionRadius; dx++ {
			d := math.Sqrt(float64(dx*dx + dy*dy))
			w[dy+occlusionRadius][dx+occlusionRadius] = math.Max(0, occlusionRadius-d)
		}
	}
	return w
}()

// Occlusion approximates ambient occlusion as the inverse of the
// distance-weighted neighborhood brightness. The window is clipped at the
// image bounds, so borders need no special case.
func Occlusion(src *texture.Buffer) (*texture.Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}

	w, h := src.Width, src.Height
	lum := src.LuminanceMap()
	values := make([]float64, w*h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			total, weights := 0.0, 0.0
			for dy := -occlusionRadius; dy <= occlusionRadius; dy++ {
				ny := y + dy
				if ny < 0 || ny >= h {
					continue
				}
				for dx := -occlusionRadius; dx <= occlusionRadius; dx++ {
					nx := x + dx
					if nx < 0 || nx >= w {
						continue
					}
					wt := occlusionWeights[dy+occlusionRadius][dx+occlusionRadius]
					total += lum[ny*w+nx] * wt
					weights += wt
				}
			}

			// The center always carries weight, so weights > 0
			occlusion := 255 - total/weights
			occlusion = math.Min(255, occlusion*occlusionGain)
			values[y*w+x] = math.Max(occlusionFloor, occlusion)
		}
	}

	return writeGray(values, w, h), nil
}
