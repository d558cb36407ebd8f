package generator

import (
	"math"

	"github.com/kiesman99/pbrtex/pkg/texture"
)

const (
	roughnessGain  = 3
	roughnessFloor = 80
)

// Roughness maps local luminance variation to microsurface roughness:
// uniform areas come out bright, detailed areas darker, never below 80.
func Roughness(src *texture.Buffer) (*texture.Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}

	w, h := src.Width, src.Height
	values := make([]float64, w*h)

	if !hasInterior(w, h) {
		// No neighbors to compare against: zero variation everywhere
		for i := range values {
			values[i] = 255
		}
		return writeGray(values, w, h), nil
	}

	lum := src.LuminanceMap()
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			center := lum[y*w+x]
			total := 0.0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					total += math.Abs(lum[(y+dy)*w+x+dx] - center)
				}
			}
			variance := total / 8

			roughness := 255 - math.Min(255, variance*roughnessGain)
			values[y*w+x] = math.Max(roughness, roughnessFloor)
		}
	}

	replicateBorders(values, w, h)
	return writeGray(values, w, h), nil
}
