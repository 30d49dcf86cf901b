package analyzer

import (
	"image"
	"math"
	"testing"

	apperrors "github.com/anime-shed/contour-inspector-go/internal/errors"
	"github.com/anime-shed/contour-inspector-go/internal/vision"
	"pgregory.net/rapid"
)

func newCalculator() MetricsCalculator {
	return NewMetricsCalculator(vision.NewGoPrimitives())
}

func square(x, y, side int) vision.Contour {
	return vision.Contour{{x, y}, {x + side, y}, {x + side, y + side}, {x, y + side}}
}

func TestNewMetricsCalculator(t *testing.T) {
	if calc := newCalculator(); calc == nil {
		t.Error("Expected non-nil metrics calculator")
	}
}

func TestCalculate_NoContours(t *testing.T) {
	_, err := newCalculator().Calculate(nil)
	if !apperrors.IsType(err, apperrors.ErrorTypeNoContours) {
		t.Errorf("Expected no_contours error, got %v", err)
	}
}

func TestCalculate_DegenerateContour(t *testing.T) {
	tests := []struct {
		name    string
		contour vision.Contour
	}{
		{"single point", vision.Contour{{3, 3}}},
		{"line", vision.Contour{{0, 0}, {5, 0}, {10, 0}}},
		{"there and back", vision.Contour{{0, 0}, {4, 4}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newCalculator().Calculate([]vision.Contour{tt.contour})
			if !apperrors.IsType(err, apperrors.ErrorTypeInvalidContour) {
				t.Errorf("Expected invalid_contour error, got %v", err)
			}
		})
	}
}

func TestCalculate_Square(t *testing.T) {
	m, err := newCalculator().Calculate([]vision.Contour{square(0, 0, 10)})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if m.AreaOriginal != 100 || m.AreaHull != 100 {
		t.Errorf("Expected both areas to be 100, got %f/%f", m.AreaOriginal, m.AreaHull)
	}
	if math.Abs(m.CircularityOriginal-math.Pi/4) > 1e-9 {
		t.Errorf("Expected circularity pi/4, got %f", m.CircularityOriginal)
	}
	if math.Abs(m.AreaRatio-1) > 1e-9 || math.Abs(m.CircularityRatio-1) > 1e-9 {
		t.Errorf("Expected unit ratios for a convex shape, got %f/%f", m.AreaRatio, m.CircularityRatio)
	}
}

func TestCalculate_SelectsLargestContour(t *testing.T) {
	m, err := newCalculator().Calculate([]vision.Contour{square(0, 0, 3), square(10, 10, 8), square(30, 30, 5)})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if m.AreaOriginal != 64 {
		t.Errorf("Expected the 8x8 square to be measured, got area %f", m.AreaOriginal)
	}
}

func TestCalculate_TieKeepsFirst(t *testing.T) {
	sq := square(0, 0, 4)
	bar := vision.Contour{{20, 0}, {22, 0}, {22, 8}, {20, 8}}
	calc := newCalculator()

	m, err := calc.Calculate([]vision.Contour{sq, bar})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if math.Abs(m.CircularityOriginal-math.Pi/4) > 1e-9 {
		t.Errorf("Expected the square (listed first) to win the tie, got circularity %f", m.CircularityOriginal)
	}

	m, err = calc.Calculate([]vision.Contour{bar, sq})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if want := 4 * math.Pi * 16 / 400; math.Abs(m.CircularityOriginal-want) > 1e-9 {
		t.Errorf("Expected the bar (listed first) to win the tie, got circularity %f", m.CircularityOriginal)
	}
}

func TestCalculate_PolygonalCircle(t *testing.T) {
	var c vision.Contour
	const n, r = 128, 1000.0
	for k := 0; k < n; k++ {
		a := 2 * math.Pi * float64(k) / n
		c = append(c, image.Pt(int(math.Round(r*math.Cos(a))), int(math.Round(r*math.Sin(a)))))
	}

	m, err := newCalculator().Calculate([]vision.Contour{c})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if math.Abs(m.CircularityOriginal-1) > 0.05 {
		t.Errorf("Expected circularity close to 1, got %f", m.CircularityOriginal)
	}
	if math.Abs(m.AreaRatio-1) > 0.01 {
		t.Errorf("Expected hull area close to the original, got ratio %f", m.AreaRatio)
	}
}

func TestCalculate_Star(t *testing.T) {
	m, err := newCalculator().Calculate(starPolygon(0, 0, 100, 40, 5))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if m.AreaRatio <= 1 {
		t.Errorf("Expected hull to inflate the area, got ratio %f", m.AreaRatio)
	}
	if m.CircularityRatio <= 1 {
		t.Errorf("Expected hull to inflate circularity, got ratio %f", m.CircularityRatio)
	}
}

// flatHullGeometry reports a hull with no perimeter
type flatHullGeometry struct {
	vision.Geometry
}

func (g flatHullGeometry) ConvexHull(c vision.Contour) vision.Contour {
	return vision.Contour{c[0]}
}

func TestCalculate_DegenerateHullFallsBackToZero(t *testing.T) {
	calc := NewMetricsCalculator(flatHullGeometry{Geometry: vision.NewGoPrimitives()})
	m, err := calc.Calculate([]vision.Contour{square(0, 0, 10)})
	if err != nil {
		t.Fatalf("Expected a degenerate hull to be tolerated, got %v", err)
	}
	if m.CircularityHull != 0 || m.CircularityRatio != 0 {
		t.Errorf("Expected zero hull circularity and ratio, got %f/%f", m.CircularityHull, m.CircularityRatio)
	}
	if m.AreaHull != 0 || m.AreaRatio != 0 {
		t.Errorf("Expected zero hull area and ratio, got %f/%f", m.AreaHull, m.AreaRatio)
	}
}

// nanGeometry reports a non-finite perimeter
type nanGeometry struct {
	vision.Geometry
}

func (g nanGeometry) Perimeter(vision.Contour) float64 {
	return math.NaN()
}

func TestCalculate_NonFiniteIsInvalid(t *testing.T) {
	calc := NewMetricsCalculator(nanGeometry{Geometry: vision.NewGoPrimitives()})
	_, err := calc.Calculate([]vision.Contour{square(0, 0, 10)})
	if !apperrors.IsType(err, apperrors.ErrorTypeInvalidContour) {
		t.Errorf("Expected invalid_contour error, got %v", err)
	}
}

func TestCalculate_MetricBounds(t *testing.T) {
	calc := newCalculator()
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(3, 40).Draw(t, "vertices")
		var c vision.Contour
		for k := 0; k < n; k++ {
			jitter := rapid.Float64Range(-0.2, 0.2).Draw(t, "jitter")
			radius := rapid.Float64Range(50, 500).Draw(t, "radius")
			a := 2 * math.Pi * (float64(k) + jitter) / float64(n)
			c = append(c, image.Pt(int(math.Round(radius*math.Cos(a))), int(math.Round(radius*math.Sin(a)))))
		}

		m, err := calc.Calculate([]vision.Contour{c})
		if err != nil {
			t.Fatalf("Unexpected error for a star-shaped polygon: %v", err)
		}
		if m.CircularityOriginal <= 0 {
			t.Fatalf("circularity must be positive, got %f", m.CircularityOriginal)
		}
		if m.AreaHull < m.AreaOriginal*(1-1e-9) {
			t.Fatalf("hull area %f below original %f", m.AreaHull, m.AreaOriginal)
		}
		if m.AreaRatio < 1-1e-9 {
			t.Fatalf("area ratio %f below 1", m.AreaRatio)
		}
	})
}
