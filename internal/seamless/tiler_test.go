package seamless

import (
	"errors"
	"math"
	"testing"

	"github.com/kiesman99/pbrtex/internal/generator"
	"github.com/kiesman99/pbrtex/pkg/texture"
)

// gradientNoise builds a texture whose opposite edges differ strongly
func gradientNoise(w, h int) *texture.Buffer {
	buf := texture.NewBuffer(w, h)
	seed := uint32(88172645)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			seed ^= seed << 13
			seed ^= seed >> 17
			seed ^= seed << 5
			jitter := int(seed % 40)
			r := min(255, x*255/max(1, w-1)/2+jitter)
			g := min(255, y*255/max(1, h-1)/2+jitter)
			b := min(255, 60+int(seed>>8)%120)
			buf.SetRGB(x, y, uint8(r), uint8(g), uint8(b))
		}
	}
	return buf
}

func TestBlendWidth(t *testing.T) {
	testCases := []struct {
		w, h int
		want int
	}{
		{4, 4, 8},
		{53, 100, 8},
		{100, 100, 15},
		{256, 128, 19},
		{512, 512, 32},
		{4096, 4096, 32},
	}
	for _, tc := range testCases {
		if got := BlendWidth(tc.w, tc.h); got != tc.want {
			t.Errorf("BlendWidth(%d,%d) = %d, want %d", tc.w, tc.h, got, tc.want)
		}
	}
}

func TestTileBlankInput(t *testing.T) {
	buf := texture.NewBuffer(6, 6)
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			buf.SetRGB(x, y, 0, 0, 0)
		}
	}

	out, report, err := Tile(buf, Options{})
	if !errors.Is(err, ErrBlankInput) {
		t.Fatalf("expected ErrBlankInput, got %v", err)
	}
	if !out.Equal(buf) {
		t.Error("blank input should be returned unchanged")
	}
	if report.Method != "" {
		t.Errorf("blank input reported method %q", report.Method)
	}
}

func TestTileSeamProperty(t *testing.T) {
	sizes := []struct{ w, h int }{{1, 1}, {2, 2}, {4, 4}, {7, 5}, {32, 32}, {64, 40}, {128, 128}}

	for _, sz := range sizes {
		src := gradientNoise(sz.w, sz.h)
		out, report, err := Tile(src, Options{})
		if err != nil {
			t.Fatalf("%dx%d: %v", sz.w, sz.h, err)
		}
		if dev := SeamDeviation(out); dev > SeamTolerance {
			t.Errorf("%dx%d: seam deviation %d exceeds %d", sz.w, sz.h, dev, SeamTolerance)
		}
		if report.SeamDeviation != SeamDeviation(out) {
			t.Errorf("%dx%d: report deviation %d, measured %d", sz.w, sz.h, report.SeamDeviation, SeamDeviation(out))
		}
		if report.Method != Method || report.BlendWidth != BlendWidth(sz.w, sz.h) {
			t.Errorf("%dx%d: unexpected report %+v", sz.w, sz.h, report)
		}
		if out.Width != sz.w || out.Height != sz.h {
			t.Errorf("%dx%d: output is %dx%d", sz.w, sz.h, out.Width, out.Height)
		}
	}
}

func TestUntiledNoiseHasSeams(t *testing.T) {
	if Seamless(gradientNoise(64, 64)) {
		t.Fatal("test fixture unexpectedly wraps already")
	}
}

func TestTileExactEdges(t *testing.T) {
	out, _, err := Tile(gradientNoise(40, 30), Options{})
	if err != nil {
		t.Fatal(err)
	}
	w, h := out.Width, out.Height
	for y := 0; y < h; y++ {
		if pixel(out, 0, y) != pixel(out, w-1, y) {
			t.Fatalf("row %d: left %v != right %v", y, pixel(out, 0, y), pixel(out, w-1, y))
		}
	}
	for x := 0; x < w; x++ {
		if pixel(out, x, 0) != pixel(out, x, h-1) {
			t.Fatalf("column %d: top %v != bottom %v", x, pixel(out, x, 0), pixel(out, x, h-1))
		}
	}
	c := pixel(out, 0, 0)
	if pixel(out, w-1, 0) != c || pixel(out, 0, h-1) != c || pixel(out, w-1, h-1) != c {
		t.Error("corners differ")
	}
}

func TestTileLeavesInteriorAndInputAlone(t *testing.T) {
	src := gradientNoise(128, 128)
	before := src.Clone()

	out, report, err := Tile(src, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !src.Equal(before) {
		t.Fatal("Tile modified its input")
	}

	bw := report.BlendWidth
	for y := bw; y < 128-bw; y++ {
		for x := bw; x < 128-bw; x++ {
			if pixel(out, x, y) != pixel(src, x, y) {
				t.Fatalf("interior pixel (%d,%d) changed", x, y)
			}
		}
	}
	// The border itself must have moved
	if out.Equal(src) {
		t.Error("output identical to input")
	}
}

func TestTilePreservesGrayscaleAndAlpha(t *testing.T) {
	src := texture.NewBuffer(33, 33)
	for y := 0; y < 33; y++ {
		for x := 0; x < 33; x++ {
			src.SetGray(x, y, uint8((x*7+y*3)%256))
		}
	}
	out, _, err := Tile(src, Options{})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < len(out.Pix); i += 4 {
		if out.Pix[i] != out.Pix[i+1] || out.Pix[i+1] != out.Pix[i+2] {
			t.Fatalf("pixel %d lost grayscale: %v", i/4, out.Pix[i:i+3])
		}
		if out.Pix[i+3] != 255 {
			t.Fatalf("pixel %d alpha %d", i/4, out.Pix[i+3])
		}
	}
}

func TestTileRenormalizesNormals(t *testing.T) {
	normal, err := generator.Normal(gradientNoise(48, 48), texture.Sobel)
	if err != nil {
		t.Fatal(err)
	}

	out, _, err := Tile(normal, Options{Renormalize: true})
	if err != nil {
		t.Fatal(err)
	}
	if !Seamless(out) {
		t.Errorf("seam deviation %d", SeamDeviation(out))
	}
	for i := 0; i < len(out.Pix); i += 4 {
		x, y, z := generator.DecodeNormal(out.Pix[i], out.Pix[i+1], out.Pix[i+2])
		if l := math.Sqrt(x*x + y*y + z*z); math.Abs(l-1) > 0.02 {
			t.Fatalf("pixel %d: |v| = %v", i/4, l)
		}
	}
}

func TestTileRejectsMalformedBuffer(t *testing.T) {
	_, _, err := Tile(&texture.Buffer{Width: 3, Height: 3, Pix: make([]uint8, 5)}, Options{})
	if err == nil || errors.Is(err, ErrBlankInput) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestEdgeInfluence(t *testing.T) {
	const w, h, bw = 100, 100, 15

	border := EdgeInfluence(0, 50, w, h, bw)
	if border < edgeWeight || border > 1 {
		t.Errorf("border influence %v outside [%v,1]", border, edgeWeight)
	}
	if corner := EdgeInfluence(0, 0, w, h, bw); math.Abs(corner-1) > 1e-9 {
		t.Errorf("corner influence = %v, want 1", corner)
	}
	if inner := EdgeInfluence(bw, 50, w, h, bw); inner != 0 {
		t.Errorf("influence at blend width = %v, want 0", inner)
	}
	if center := EdgeInfluence(50, 50, w, h, bw); center != 0 {
		t.Errorf("center influence = %v, want 0", center)
	}

	prev := 2.0
	for x := 0; x <= bw; x++ {
		v := EdgeInfluence(x, 50, w, h, bw)
		if v > prev {
			t.Fatalf("influence rises from %v to %v at x=%d", prev, v, x)
		}
		prev = v
	}
}

func TestGrid(t *testing.T) {
	src := gradientNoise(5, 3)
	grid := Grid(src, 2, 3)
	if grid.Width != 10 || grid.Height != 9 {
		t.Fatalf("grid is %dx%d, want 10x9", grid.Width, grid.Height)
	}
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			if pixel(grid, x, y) != pixel(src, x%5, y%3) {
				t.Fatalf("grid pixel (%d,%d) does not repeat the source", x, y)
			}
		}
	}
}

func TestSeamDeviationMatchesGrid(t *testing.T) {
	src := gradientNoise(9, 6)
	grid := Grid(src, 2, 2)

	want := 0
	for y := 0; y < grid.Height; y++ {
		want = max(want, channelDiff(grid, 8, y, 9, y))
	}
	for x := 0; x < grid.Width; x++ {
		want = max(want, channelDiff(grid, x, 5, x, 6))
	}
	if got := SeamDeviation(src); got != want {
		t.Errorf("SeamDeviation = %d, grid seams differ by %d", got, want)
	}
}
