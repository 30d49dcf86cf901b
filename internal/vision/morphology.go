package vision

import (
	"fmt"
	"image"
)

// morphology applies grey-level dilation (local maximum) or erosion (local
// minimum) over the element footprint. Footprint samples falling outside the
// image are ignored, so borders neither grow nor shrink the result.
func morphology(src *image.Gray, op MorphOp, element StructuringElement, iterations int) (*image.Gray, error) {
	if err := element.Validate(); err != nil {
		return nil, err
	}
	if iterations < 0 {
		return nil, fmt.Errorf("morphology iterations must be >= 0 (got %d)", iterations)
	}
	var pick func(a, b uint8) bool
	switch op {
	case Dilate:
		pick = func(a, b uint8) bool { return a > b }
	case Erode:
		pick = func(a, b uint8) bool { return a < b }
	default:
		return nil, fmt.Errorf("unsupported morphological operation: %q", op)
	}

	offsets := element.Offsets()
	cur := ToGray(src)
	w, h := cur.Rect.Dx(), cur.Rect.Dy()
	for it := 0; it < iterations; it++ {
		next := image.NewGray(cur.Rect)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				best := cur.Pix[y*cur.Stride+x]
				for _, o := range offsets {
					px, py := x+o.X, y+o.Y
					if px < 0 || py < 0 || px >= w || py >= h {
						continue
					}
					if v := cur.Pix[py*cur.Stride+px]; pick(v, best) {
						best = v
					}
				}
				next.Pix[y*next.Stride+x] = best
			}
		}
		cur = next
	}
	return cur, nil
}
