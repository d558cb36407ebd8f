package edge

import (
	"math"
	"testing"

	"github.com/kiesman99/pbrtex/pkg/texture"
)

// ramp builds a w x h height field that rises by step per column
func ramp(w, h int, step float64) []float64 {
	heights := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			heights[y*w+x] = float64(x) * step
		}
	}
	return heights
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestClampedSampler(t *testing.T) {
	heights := []float64{
		0.1, 0.2,
		0.3, 0.4,
	}
	s := ClampedSampler(heights, 2, 2)

	testCases := []struct {
		x, y int
		want float64
	}{
		{0, 0, 0.1},
		{-5, 0, 0.1},
		{1, -1, 0.2},
		{7, 1, 0.4},
		{-1, 9, 0.3},
	}

	for _, tc := range testCases {
		if got := s(tc.x, tc.y); got != tc.want {
			t.Errorf("sample(%d,%d) = %v, want %v", tc.x, tc.y, got, tc.want)
		}
	}
}

func TestFlatFieldHasNoGradient(t *testing.T) {
	heights := make([]float64, 25)
	for i := range heights {
		heights[i] = 0.5
	}
	s := ClampedSampler(heights, 5, 5)

	for _, kind := range texture.EdgeDetections {
		t.Run(kind.String(), func(t *testing.T) {
			dx, dy := For(kind)(s, 2, 2)
			if dx != 0 || dy != 0 {
				t.Errorf("expected zero gradient, got (%v, %v)", dx, dy)
			}
		})
	}
}

func TestHorizontalRamp(t *testing.T) {
	// A ramp rising 0.1 per column in the interior
	s := ClampedSampler(ramp(5, 5, 0.1), 5, 5)

	testCases := []struct {
		kind   texture.EdgeDetection
		wantDX float64
		wantDY float64
	}{
		// (tr-tl)*1 + (mr-ml)*2 + (br-bl)*1 = 0.2*4, / 8
		{texture.Sobel, 0.1, 0},
		// 0.2*(3+10+3) / 32
		{texture.Scharr, 0.1, 0},
		// 0.2*3 / 6
		{texture.Prewitt, 0.1, 0},
		// (diag-center)/2 and (below-right)/2
		{texture.Roberts, 0.05, -0.05},
		// (right-left)/2, laplacian of a linear ramp is zero
		{texture.Laplacian, 0.1, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			dx, dy := For(tc.kind)(s, 2, 2)
			if !almostEqual(dx, tc.wantDX) || !almostEqual(dy, tc.wantDY) {
				t.Errorf("got (%v, %v), want (%v, %v)", dx, dy, tc.wantDX, tc.wantDY)
			}
		})
	}
}

func TestLaplacianPeak(t *testing.T) {
	heights := make([]float64, 9)
	heights[4] = 1 // single raised center pixel
	s := ClampedSampler(heights, 3, 3)

	dx, dy := LaplacianGradient(s, 1, 1)
	// Central differences vanish, only 0.1 * (4*1) remains
	if !almostEqual(dx, 0.4) || !almostEqual(dy, 0.4) {
		t.Errorf("got (%v, %v), want (0.4, 0.4)", dx, dy)
	}
}

func TestBoundarySamplingStaysInBounds(t *testing.T) {
	s := ClampedSampler(ramp(3, 3, 0.25), 3, 3)

	for _, kind := range texture.EdgeDetections {
		g := For(kind)
		for y := 0; y < 3; y++ {
			for x := 0; x < 3; x++ {
				dx, dy := g(s, x, y)
				if math.IsNaN(dx) || math.IsNaN(dy) {
					t.Fatalf("%s: NaN gradient at (%d,%d)", kind, x, y)
				}
			}
		}
	}
}

func TestForUnknownFallsBackToSobel(t *testing.T) {
	s := ClampedSampler(ramp(4, 4, 0.3), 4, 4)
	wantDX, wantDY := SobelGradient(s, 1, 1)
	dx, dy := For(texture.EdgeDetection(42))(s, 1, 1)
	if dx != wantDX || dy != wantDY {
		t.Errorf("got (%v, %v), want sobel (%v, %v)", dx, dy, wantDX, wantDY)
	}
}
