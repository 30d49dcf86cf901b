//go:build gocv
// +build gocv

package vision

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// OpenCVPrimitives implements [Primitives] on top of OpenCV through gocv.
// Hull construction stays in Go so both backends share one definition.
type OpenCVPrimitives struct {
	goGeometry
}

// NewOpenCVPrimitives creates the OpenCV backend.
func NewOpenCVPrimitives() (Primitives, error) {
	return &OpenCVPrimitives{}, nil
}

func (p *OpenCVPrimitives) LoadGrayscale(path string) (*image.Gray, error) {
	m := gocv.IMRead(path, gocv.IMReadGrayScale)
	defer m.Close()
	if m.Empty() {
		return nil, fmt.Errorf("failed to open %s", path)
	}
	return matToGray(m)
}

func (p *OpenCVPrimitives) GaussianBlur(src *image.Gray, ksize int) (*image.Gray, error) {
	if ksize < 1 || ksize%2 == 0 {
		return nil, fmt.Errorf("gaussian kernel size must be odd and >= 1 (got %d)", ksize)
	}
	return unary(src, func(in gocv.Mat, out *gocv.Mat) {
		gocv.GaussianBlur(in, out, image.Pt(ksize, ksize), 0, 0, gocv.BorderDefault)
	})
}

func (p *OpenCVPrimitives) Subtract(a, b *image.Gray) (*image.Gray, error) {
	if err := sameSize(a, b); err != nil {
		return nil, err
	}
	ma, err := gocv.ImageGrayToMatGray(a)
	if err != nil {
		return nil, err
	}
	defer ma.Close()
	mb, err := gocv.ImageGrayToMatGray(b)
	if err != nil {
		return nil, err
	}
	defer mb.Close()
	out := gocv.NewMat()
	defer out.Close()
	gocv.Subtract(ma, mb, &out)
	return matToGray(out)
}

func (p *OpenCVPrimitives) Threshold(src *image.Gray, cutoff uint8) (*image.Gray, error) {
	return unary(src, func(in gocv.Mat, out *gocv.Mat) {
		gocv.Threshold(in, out, float32(cutoff), 255, gocv.ThresholdBinary)
	})
}

func (p *OpenCVPrimitives) Morphology(src *image.Gray, op MorphOp, element StructuringElement, iterations int) (*image.Gray, error) {
	if err := element.Validate(); err != nil {
		return nil, err
	}
	shape := gocv.MorphCross
	switch element.Shape {
	case ShapeRect:
		shape = gocv.MorphRect
	case ShapeEllipse:
		shape = gocv.MorphEllipse
	}
	kernel := gocv.GetStructuringElement(shape, image.Pt(element.Size, element.Size))
	defer kernel.Close()

	var apply func(in gocv.Mat, out *gocv.Mat)
	switch op {
	case Dilate:
		apply = func(in gocv.Mat, out *gocv.Mat) { gocv.Dilate(in, out, kernel) }
	case Erode:
		apply = func(in gocv.Mat, out *gocv.Mat) { gocv.Erode(in, out, kernel) }
	default:
		return nil, fmt.Errorf("unsupported morphological operation: %q", op)
	}

	cur := ToGray(src)
	for i := 0; i < iterations; i++ {
		next, err := unary(cur, apply)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

func (p *OpenCVPrimitives) CannyEdges(src *image.Gray, low, high float64) (*image.Gray, error) {
	return unary(src, func(in gocv.Mat, out *gocv.Mat) {
		gocv.Canny(in, out, float32(low), float32(high))
	})
}

func (p *OpenCVPrimitives) FindExternalContours(src *image.Gray) ([]Contour, error) {
	m, err := gocv.ImageGrayToMatGray(src)
	if err != nil {
		return nil, err
	}
	defer m.Close()
	found := gocv.FindContours(m, gocv.RetrievalExternal, gocv.ChainApproxNone)
	defer found.Close()

	contours := make([]Contour, 0, found.Size())
	for i := 0; i < found.Size(); i++ {
		contours = append(contours, Contour(found.At(i).ToPoints()))
	}
	return contours, nil
}

// Area delegates to cv::contourArea.
func (p *OpenCVPrimitives) Area(c Contour) float64 {
	if len(c) < 3 {
		return 0
	}
	pv := gocv.NewPointVectorFromPoints(c)
	defer pv.Close()
	return gocv.ContourArea(pv)
}

// Perimeter delegates to cv::arcLength on a closed curve.
func (p *OpenCVPrimitives) Perimeter(c Contour) float64 {
	if len(c) < 2 {
		return 0
	}
	pv := gocv.NewPointVectorFromPoints(c)
	defer pv.Close()
	return gocv.ArcLength(pv, true)
}

func unary(src *image.Gray, fn func(in gocv.Mat, out *gocv.Mat)) (*image.Gray, error) {
	in, err := gocv.ImageGrayToMatGray(src)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	out := gocv.NewMat()
	defer out.Close()
	fn(in, &out)
	return matToGray(out)
}

func matToGray(m gocv.Mat) (*image.Gray, error) {
	img, err := m.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert mat: %w", err)
	}
	return ToGray(img), nil
}
