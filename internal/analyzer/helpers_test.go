package analyzer

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/anime-shed/contour-inspector-go/internal/vision"
)

const (
	testSize       = 64
	testBackground = 200
	testObject     = 40
)

// createTestImage draws a dark object on the standard background
func createTestImage(inside func(x, y int) bool) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, testSize, testSize))
	for y := 0; y < testSize; y++ {
		for x := 0; x < testSize; x++ {
			v := uint8(testBackground)
			if inside != nil && inside(x, y) {
				v = testObject
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return img
}

func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func discAt(cx, cy, r int) func(x, y int) bool {
	return func(x, y int) bool {
		dx, dy := x-cx, y-cy
		return dx*dx+dy*dy <= r*r
	}
}

// starPolygon returns the vertices of an n-pointed star
func starPolygon(cx, cy, outer, inner float64, n int) []vision.Contour {
	var c vision.Contour
	for k := 0; k < 2*n; k++ {
		r := outer
		if k%2 == 1 {
			r = inner
		}
		a := math.Pi*float64(k)/float64(n) - math.Pi/2
		c = append(c, image.Pt(int(math.Round(cx+r*math.Cos(a))), int(math.Round(cy+r*math.Sin(a)))))
	}
	return []vision.Contour{c}
}

// insidePolygon is an even-odd point-in-polygon test on pixel centres
func insidePolygon(poly vision.Contour) func(x, y int) bool {
	return func(x, y int) bool {
		in := false
		for i := range poly {
			a, b := poly[i], poly[(i+1)%len(poly)]
			if (a.Y > y) != (b.Y > y) {
				xCross := float64(b.X-a.X)*float64(y-a.Y)/float64(b.Y-a.Y) + float64(a.X)
				if float64(x) < xCross {
					in = !in
				}
			}
		}
		return in
	}
}
