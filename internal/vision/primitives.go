package vision

import (
	"fmt"
	"image"
)

// Contour is an ordered, closed sequence of boundary points.
type Contour []image.Point

// MorphOp selects a morphological operation.
type MorphOp string

const (
	Dilate MorphOp = "dilate"
	Erode  MorphOp = "erode"
)

// ElementShape selects the footprint of a structuring element.
type ElementShape string

const (
	ShapeCross   ElementShape = "cross"
	ShapeRect    ElementShape = "rect"
	ShapeEllipse ElementShape = "ellipse"
)

// StructuringElement is a square, odd-sized neighbourhood anchored at its centre.
type StructuringElement struct {
	Shape ElementShape `yaml:"shape" json:"shape"`
	Size  int          `yaml:"size" json:"size"`
}

// Validate checks the element can be rasterised.
func (e StructuringElement) Validate() error {
	if e.Size < 1 || e.Size%2 == 0 {
		return fmt.Errorf("structuring element size must be odd and >= 1 (got %d)", e.Size)
	}
	switch e.Shape {
	case ShapeCross, ShapeRect, ShapeEllipse:
		return nil
	default:
		return fmt.Errorf("unsupported structuring element shape: %q", e.Shape)
	}
}

// Offsets returns the element footprint relative to its anchor.
func (e StructuringElement) Offsets() []image.Point {
	r := e.Size / 2
	offsets := make([]image.Point, 0, e.Size*e.Size)
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			switch e.Shape {
			case ShapeCross:
				if dx != 0 && dy != 0 {
					continue
				}
			case ShapeEllipse:
				if r > 0 && float64(dx*dx+dy*dy) > float64(r*r) {
					continue
				}
			}
			offsets = append(offsets, image.Pt(dx, dy))
		}
	}
	return offsets
}

// Geometry measures contours.
type Geometry interface {
	// ConvexHull returns the convex hull of c in traversal order.
	ConvexHull(c Contour) Contour
	// Area returns the unsigned polygon area enclosed by c.
	Area(c Contour) float64
	// Perimeter returns the closed arc length of c.
	Perimeter(c Contour) float64
}

// Primitives is the contract the analysis pipeline consumes.
type Primitives interface {
	Geometry

	// LoadGrayscale decodes the image at path into 8-bit grayscale.
	LoadGrayscale(path string) (*image.Gray, error)
	// GaussianBlur smooths src with a Gaussian of odd kernel size ksize,
	// deriving sigma from the kernel size.
	GaussianBlur(src *image.Gray, ksize int) (*image.Gray, error)
	// Subtract computes a-b per pixel, saturating at zero.
	Subtract(a, b *image.Gray) (*image.Gray, error)
	// Threshold sets pixels strictly above cutoff to 255 and the rest to 0.
	Threshold(src *image.Gray, cutoff uint8) (*image.Gray, error)
	// Morphology applies op with element the given number of times.
	Morphology(src *image.Gray, op MorphOp, element StructuringElement, iterations int) (*image.Gray, error)
	// CannyEdges returns a binary edge map using a hysteresis pair.
	CannyEdges(src *image.Gray, low, high float64) (*image.Gray, error)
	// FindExternalContours returns the outer boundaries of foreground
	// components that are not nested inside another component.
	FindExternalContours(src *image.Gray) ([]Contour, error)
}

// SigmaForKernel returns the Gaussian sigma implied by an odd kernel size
// when no explicit sigma is given.
func SigmaForKernel(ksize int) float64 {
	return 0.3*((float64(ksize)-1)*0.5-1) + 0.8
}

func sameSize(a, b *image.Gray) error {
	if a.Bounds().Size() != b.Bounds().Size() {
		return fmt.Errorf("image size mismatch: %v vs %v", a.Bounds().Size(), b.Bounds().Size())
	}
	return nil
}
