package generator

import "github.com/kiesman99/pbrtex/pkg/texture"

const (
	// heightContrastThreshold is the minimum 3x3 range that gets enhanced
	heightContrastThreshold = 10
	heightContrastFactor    = 1.2
)

// Height returns a grayscale displacement map with local contrast
// enhancement
func Height(src *texture.Buffer) (*texture.Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}

	w, h := src.Width, src.Height
	gray := src.LuminanceMap()
	for i, l := range gray {
		gray[i] = jsRound(l)
	}

	// Too small for a 3x3 window: plain grayscale
	if !hasInterior(w, h) {
		return writeGray(gray, w, h), nil
	}

	enhanced := make([]float64, w*h)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			idx := y*w + x
			lo, hi := gray[idx], gray[idx]
			for dy := -1; dy <= 1; dy++ {
				row := (y + dy) * w
				for dx := -1; dx <= 1; dx++ {
					v := gray[row+x+dx]
					if v < lo {
						lo = v
					}
					if v > hi {
						hi = v
					}
				}
			}

			center := gray[idx]
			v := center
			if hi-lo > heightContrastThreshold {
				v = center + (center-(lo+hi)/2)*heightContrastFactor
			}
			enhanced[idx] = clampUnit255(v)
		}
	}

	replicateBorders(enhanced, w, h)
	return writeGray(enhanced, w, h), nil
}

func clampUnit255(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
