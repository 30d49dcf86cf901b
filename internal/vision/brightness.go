package vision

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/stat"
)

// MeanIntensity returns the average grey level of img in [0, 255].
func MeanIntensity(img *image.Gray) float64 {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w == 0 || h == 0 {
		return 0
	}
	values := make([]float64, 0, w*h)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w]
		for _, v := range row {
			values = append(values, float64(v))
		}
	}
	return stat.Mean(values, nil)
}

// NormalizeBrightness scales every channel of img so that its mean grey
// level approaches target. Channels saturate at 0 and 255.
//
// Parameters:
//   - img: Source image, colour or grayscale.
//   - target: Desired mean grey level in (0, 255].
//
// Returns:
//   - *image.NRGBA: The adjusted image.
//   - float64: The scale factor that was applied.
//   - error: Non-nil if target is out of range or img is completely black.
func NormalizeBrightness(img image.Image, target float64) (*image.NRGBA, float64, error) {
	if target <= 0 || target > 255 {
		return nil, 0, fmt.Errorf("target brightness must be in (0, 255] (got %g)", target)
	}
	current := MeanIntensity(ToGray(img))
	if current == 0 {
		return nil, 0, fmt.Errorf("image is completely black, cannot scale brightness")
	}
	factor := target / current
	scale := func(v uint8) uint8 {
		return uint8(math.Max(0, math.Min(255, math.Round(float64(v)*factor))))
	}
	adjusted := imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
	})
	return adjusted, factor, nil
}
