package vision

import "testing"

func TestCanny_BlankImage(t *testing.T) {
	out := canny(uniform(32, 32, 128), 50, 150)
	if got := countForeground(out); got != 0 {
		t.Errorf("Expected no edges on a flat image, got %d", got)
	}
}

func TestCanny_SquareEdgesHugBoundary(t *testing.T) {
	src := newMask(40, 40, rect(10, 10, 30, 30))
	out := canny(src, 50, 150)

	if countForeground(out) == 0 {
		t.Fatal("Expected edges around the square")
	}
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			if out.GrayAt(x, y).Y == 0 {
				continue
			}
			inBand := x >= 9 && x <= 30 && y >= 9 && y <= 30 &&
				!(x >= 11 && x <= 28 && y >= 11 && y <= 28)
			if !inBand {
				t.Errorf("Edge pixel (%d,%d) is not next to the square boundary", x, y)
			}
		}
	}
}

func TestCanny_HighThresholdSuppressesEverything(t *testing.T) {
	src := newMask(40, 40, rect(10, 10, 30, 30))
	out := canny(src, 5000, 10000)
	if got := countForeground(out); got != 0 {
		t.Errorf("Expected no edges above the maximum gradient, got %d", got)
	}
}

func TestCanny_TinyImage(t *testing.T) {
	out := canny(uniform(2, 2, 255), 50, 150)
	if out.Bounds().Dx() != 2 || countForeground(out) != 0 {
		t.Error("Expected an empty edge map for images smaller than the Sobel window")
	}
}
