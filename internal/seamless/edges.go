package seamless

import "github.com/kiesman99/pbrtex/pkg/texture"

// rgb is a floating point color used while blending
type rgb [3]float64

func (c rgb) add(o rgb) rgb {
	return rgb{c[0] + o[0], c[1] + o[1], c[2] + o[2]}
}

func (c rgb) scale(f float64) rgb {
	return rgb{c[0] * f, c[1] * f, c[2] * f}
}

func (c rgb) lerp(o rgb, t float64) rgb {
	return rgb{
		c[0] + (o[0]-c[0])*t,
		c[1] + (o[1]-c[1])*t,
		c[2] + (o[2]-c[2])*t,
	}
}

func mean(colors ...rgb) rgb {
	var sum rgb
	for _, c := range colors {
		sum = sum.add(c)
	}
	return sum.scale(1 / float64(len(colors)))
}

func pixel(buf *texture.Buffer, x, y int) rgb {
	i := buf.Offset(x, y)
	return rgb{float64(buf.Pix[i]), float64(buf.Pix[i+1]), float64(buf.Pix[i+2])}
}

func setPixel(buf *texture.Buffer, x, y int, c rgb) {
	buf.SetRGB(x, y, texture.Clamp8(c[0]), texture.Clamp8(c[1]), texture.Clamp8(c[2]))
}

// edgeSampleDepth is how many pixels deep each edge average reaches
const edgeSampleDepth = 4

// edgeAverages holds the color of every border row and column, averaged
// over a thin strip, plus the four corner colors
type edgeAverages struct {
	left, right []rgb // per row
	top, bottom []rgb // per column

	topLeft, topRight, bottomLeft, bottomRight rgb
}

func computeEdgeAverages(buf *texture.Buffer) *edgeAverages {
	w, h := buf.Width, buf.Height
	depthX := min(edgeSampleDepth, w)
	depthY := min(edgeSampleDepth, h)

	e := &edgeAverages{
		left:   make([]rgb, h),
		right:  make([]rgb, h),
		top:    make([]rgb, w),
		bottom: make([]rgb, w),
	}

	for y := 0; y < h; y++ {
		var l, r rgb
		for d := 0; d < depthX; d++ {
			l = l.add(pixel(buf, d, y))
			r = r.add(pixel(buf, w-1-d, y))
		}
		e.left[y] = l.scale(1 / float64(depthX))
		e.right[y] = r.scale(1 / float64(depthX))
	}

	for x := 0; x < w; x++ {
		var t, b rgb
		for d := 0; d < depthY; d++ {
			t = t.add(pixel(buf, x, d))
			b = b.add(pixel(buf, x, h-1-d))
		}
		e.top[x] = t.scale(1 / float64(depthY))
		e.bottom[x] = b.scale(1 / float64(depthY))
	}

	// Each corner blends the two edge averages that meet there
	e.topLeft = mean(e.top[0], e.left[0])
	e.topRight = mean(e.top[w-1], e.right[0])
	e.bottomLeft = mean(e.bottom[0], e.left[h-1])
	e.bottomRight = mean(e.bottom[w-1], e.right[h-1])

	return e
}
