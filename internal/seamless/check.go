package seamless

import "github.com/kiesman99/pbrtex/pkg/texture"

// SeamTolerance is the largest per-channel difference across a wrap seam
// that still counts as seamless
const SeamTolerance = 2

// Grid repeats buf cols x rows times
func Grid(buf *texture.Buffer, cols, rows int) *texture.Buffer {
	out := texture.NewBuffer(buf.Width*cols, buf.Height*rows)
	rowBytes := buf.Width * 4
	for ty := 0; ty < rows; ty++ {
		for y := 0; y < buf.Height; y++ {
			src := buf.Pix[y*rowBytes : (y+1)*rowBytes]
			dy := ty*buf.Height + y
			for tx := 0; tx < cols; tx++ {
				start := out.Offset(tx*buf.Width, dy)
				copy(out.Pix[start:start+rowBytes], src)
			}
		}
	}
	return out
}

// SeamDeviation returns the largest channel difference between the pixels
// that meet when buf is tiled: the last column against the first and the
// last row against the first. It matches inspecting the interior seams of
// Grid(buf, 2, 2) without allocating the grid.
func SeamDeviation(buf *texture.Buffer) int {
	w, h := buf.Width, buf.Height
	worst := 0
	for y := 0; y < h; y++ {
		worst = max(worst, channelDiff(buf, w-1, y, 0, y))
	}
	for x := 0; x < w; x++ {
		worst = max(worst, channelDiff(buf, x, h-1, x, 0))
	}
	return worst
}

// Seamless reports whether buf wraps within SeamTolerance
func Seamless(buf *texture.Buffer) bool {
	return SeamDeviation(buf) <= SeamTolerance
}

func channelDiff(buf *texture.Buffer, x0, y0, x1, y1 int) int {
	a := buf.Offset(x0, y0)
	b := buf.Offset(x1, y1)
	worst := 0
	for c := 0; c < 3; c++ {
		d := int(buf.Pix[a+c]) - int(buf.Pix[b+c])
		if d < 0 {
			d = -d
		}
		worst = max(worst, d)
	}
	return worst
}
