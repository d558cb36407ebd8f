package generator

import "github.com/kiesman99/pbrtex/pkg/texture"

// albedoSaturation pushes each channel away from the pixel's gray level
const albedoSaturation = 1.1

// Albedo returns the base color with a mild saturation boost
func Albedo(src *texture.Buffer) (*texture.Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}

	out := texture.NewBuffer(src.Width, src.Height)
	for i := 0; i < len(src.Pix); i += 4 {
		r := float64(src.Pix[i])
		g := float64(src.Pix[i+1])
		b := float64(src.Pix[i+2])
		avg := (r + g + b) / 3

		out.Pix[i] = texture.Clamp8(avg + (r-avg)*albedoSaturation)
		out.Pix[i+1] = texture.Clamp8(avg + (g-avg)*albedoSaturation)
		out.Pix[i+2] = texture.Clamp8(avg + (b-avg)*albedoSaturation)
		out.Pix[i+3] = 255
	}
	return out, nil
}
