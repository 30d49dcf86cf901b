package vision

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/disintegration/imaging"
	// Micrographs are usually TIFF; BMP shows up from older capture rigs.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// GoPrimitives is the pure Go implementation of [Primitives].
type GoPrimitives struct {
	goGeometry
}

// NewGoPrimitives creates the pure Go backend.
func NewGoPrimitives() *GoPrimitives {
	return &GoPrimitives{}
}

// LoadGrayscale opens the file at path and converts it to grayscale.
//
// Decoding goes through imaging.Open, so any format registered with the
// image package is accepted (TIFF, BMP, PNG, JPEG).
func (p *GoPrimitives) LoadGrayscale(path string) (*image.Gray, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	gray := ToGray(img)
	if gray.Bounds().Empty() {
		return nil, fmt.Errorf("image %s has no pixels", path)
	}
	return gray, nil
}

// GaussianBlur blurs src with sigma derived from ksize. A kernel size of 1
// returns an unmodified copy.
func (p *GoPrimitives) GaussianBlur(src *image.Gray, ksize int) (*image.Gray, error) {
	if ksize < 1 || ksize%2 == 0 {
		return nil, fmt.Errorf("gaussian kernel size must be odd and >= 1 (got %d)", ksize)
	}
	if ksize == 1 {
		return ToGray(src), nil
	}
	return ToGray(imaging.Blur(src, SigmaForKernel(ksize))), nil
}

// Subtract returns a-b with negative results clamped to zero.
func (p *GoPrimitives) Subtract(a, b *image.Gray) (*image.Gray, error) {
	if err := sameSize(a, b); err != nil {
		return nil, err
	}
	a, b = ToGray(a), ToGray(b)
	dst := image.NewGray(a.Rect)
	w := a.Rect.Dx()
	parallel.Line(a.Rect.Dy(), func(start, end int) {
		for y := start; y < end; y++ {
			ra := a.Pix[y*a.Stride : y*a.Stride+w]
			rb := b.Pix[y*b.Stride : y*b.Stride+w]
			out := dst.Pix[y*dst.Stride : y*dst.Stride+w]
			for x := range out {
				if ra[x] > rb[x] {
					out[x] = ra[x] - rb[x]
				}
			}
		}
	})
	return dst, nil
}

// Threshold keeps pixels strictly brighter than cutoff.
func (p *GoPrimitives) Threshold(src *image.Gray, cutoff uint8) (*image.Gray, error) {
	src = ToGray(src)
	dst := image.NewGray(src.Rect)
	w := src.Rect.Dx()
	parallel.Line(src.Rect.Dy(), func(start, end int) {
		for y := start; y < end; y++ {
			in := src.Pix[y*src.Stride : y*src.Stride+w]
			out := dst.Pix[y*dst.Stride : y*dst.Stride+w]
			for x, v := range in {
				if v > cutoff {
					out[x] = 255
				}
			}
		}
	})
	return dst, nil
}

// Morphology applies dilation or erosion iteratively.
func (p *GoPrimitives) Morphology(src *image.Gray, op MorphOp, element StructuringElement, iterations int) (*image.Gray, error) {
	return morphology(src, op, element, iterations)
}

// CannyEdges runs Canny edge detection on src.
func (p *GoPrimitives) CannyEdges(src *image.Gray, low, high float64) (*image.Gray, error) {
	if low < 0 || high < low {
		return nil, fmt.Errorf("invalid hysteresis thresholds: low=%g high=%g", low, high)
	}
	return canny(src, low, high), nil
}

// FindExternalContours traces the outer boundary of every top-level
// foreground component in src.
func (p *GoPrimitives) FindExternalContours(src *image.Gray) ([]Contour, error) {
	return findExternalContours(src), nil
}

// ToGray converts any image to an *image.Gray anchored at the origin.
func ToGray(img image.Image) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return gray
}
