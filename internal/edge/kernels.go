// Package edge holds the image-gradient operators used to derive normal maps.
//
// Every operator reads heights through a Sampler, which is expected to clamp
// out-of-range coordinates to the nearest edge pixel, and returns a gradient
// normalized by the kernel's weight sum.
package edge

import "github.com/kiesman99/pbrtex/pkg/texture"

// Sampler returns the height in [0,1] at (x, y), clamping to the image edge
type Sampler func(x, y int) float64

// Gradient computes the horizontal and vertical derivative at (x, y)
type Gradient func(h Sampler, x, y int) (dx, dy float64)

var gradients = [...]Gradient{
	texture.Sobel:     SobelGradient,
	texture.Scharr:    ScharrGradient,
	texture.Prewitt:   PrewittGradient,
	texture.Roberts:   RobertsGradient,
	texture.Laplacian: LaplacianGradient,
}

// For returns the gradient operator for kind, falling back to Sobel
func For(kind texture.EdgeDetection) Gradient {
	if !kind.Valid() {
		return SobelGradient
	}
	return gradients[kind]
}

// ClampedSampler samples a row-major height field, clamping coordinates
func ClampedSampler(heights []float64, width, height int) Sampler {
	return func(x, y int) float64 {
		if x < 0 {
			x = 0
		} else if x >= width {
			x = width - 1
		}
		if y < 0 {
			y = 0
		} else if y >= height {
			y = height - 1
		}
		return heights[y*width+x]
	}
}

// window is the 8-neighborhood around a pixel
type window struct {
	tl, tc, tr float64
	ml, mr     float64
	bl, bc, br float64
}

func neighborhood(h Sampler, x, y int) window {
	return window{
		tl: h(x-1, y-1), tc: h(x, y-1), tr: h(x+1, y-1),
		ml: h(x-1, y), mr: h(x+1, y),
		bl: h(x-1, y+1), bc: h(x, y+1), br: h(x+1, y+1),
	}
}

// SobelGradient applies the 3x3 Sobel operator
func SobelGradient(h Sampler, x, y int) (float64, float64) {
	w := neighborhood(h, x, y)
	dx := (-1*w.tl + 1*w.tr +
		-2*w.ml + 2*w.mr +
		-1*w.bl + 1*w.br) / 8.0
	dy := (-1*w.tl - 2*w.tc - 1*w.tr +
		1*w.bl + 2*w.bc + 1*w.br) / 8.0
	return dx, dy
}

// ScharrGradient applies the 3x3 Scharr operator
func ScharrGradient(h Sampler, x, y int) (float64, float64) {
	w := neighborhood(h, x, y)
	dx := (-3*w.tl + 3*w.tr +
		-10*w.ml + 10*w.mr +
		-3*w.bl + 3*w.br) / 32.0
	dy := (-3*w.tl - 10*w.tc - 3*w.tr +
		3*w.bl + 10*w.bc + 3*w.br) / 32.0
	return dx, dy
}

// PrewittGradient applies the 3x3 Prewitt operator
func PrewittGradient(h Sampler, x, y int) (float64, float64) {
	w := neighborhood(h, x, y)
	dx := (-w.tl + w.tr - w.ml + w.mr - w.bl + w.br) / 6.0
	dy := (-w.tl - w.tc - w.tr + w.bl + w.bc + w.br) / 6.0
	return dx, dy
}

// RobertsGradient applies the 2x2 Roberts cross
func RobertsGradient(h Sampler, x, y int) (float64, float64) {
	center := h(x, y)
	right := h(x+1, y)
	below := h(x, y+1)
	diag := h(x+1, y+1)

	dx := (diag - center) / 2.0
	dy := (below - right) / 2.0
	return dx, dy
}

// LaplacianGradient combines central differences with a Laplacian term
func LaplacianGradient(h Sampler, x, y int) (float64, float64) {
	center := h(x, y)
	top := h(x, y-1)
	bottom := h(x, y+1)
	left := h(x-1, y)
	right := h(x+1, y)

	lap := 4*center - top - bottom - left - right

	dx := (right-left)/2.0 + lap*0.1
	dy := (bottom-top)/2.0 + lap*0.1
	return dx, dy
}
