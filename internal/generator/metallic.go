package generator

import (
	"math"

	"github.com/kiesman99/pbrtex/pkg/texture"
)

// Metallic estimates metal likelihood from brightness and low saturation.
// Bright, neutral gray tones score highest.
func Metallic(src *texture.Buffer) (*texture.Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}

	out := texture.NewBuffer(src.Width, src.Height)
	for i := 0; i < len(src.Pix); i += 4 {
		r := float64(src.Pix[i])
		g := float64(src.Pix[i+1])
		b := float64(src.Pix[i+2])

		m := texture.Clamp8(metallicValue(r, g, b))
		out.Pix[i] = m
		out.Pix[i+1] = m
		out.Pix[i+2] = m
		out.Pix[i+3] = 255
	}
	return out, nil
}

func metallicValue(r, g, b float64) float64 {
	luminance := 0.299*r + 0.587*g + 0.114*b

	hi := math.Max(r, math.Max(g, b))
	lo := math.Min(r, math.Min(g, b))
	saturation := 0.0
	if hi != 0 {
		saturation = (hi - lo) / hi * 255
	}

	metallic := 0.0
	if luminance > 100 {
		metallic = ((luminance - 100) / 155) * 255
		metallic *= (1 - saturation/255) * 1.5
	}

	grayishness := 255 - math.Abs(r-g) - math.Abs(g-b) - math.Abs(r-b)
	if grayishness > 200 && luminance > 120 {
		metallic = math.Min(255, metallic+grayishness*0.3)
	}

	return math.Max(0, math.Min(255, metallic))
}
