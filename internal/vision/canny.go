package vision

import (
	"image"
	"math"
)

var (
	sobelX = [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY = [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// canny detects edges in src.
//
// Unlike a general purpose detector it does not smooth its input first: the
// pipeline feeds it a cleaned binary mask. Steps:
//
//  1. Sobel gradients on raw 0-255 intensities, replicated borders.
//  2. Non-maximum suppression along the gradient direction quantised to
//     0°, 45°, 90° and 135°. Ties survive on both sides.
//  3. Hysteresis: pixels at or above high are seeds, pixels at or above low
//     are kept when 8-connected to a seed.
func canny(src *image.Gray, low, high float64) *image.Gray {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	if w < 3 || h < 3 {
		return out
	}

	at := func(x, y int) float64 {
		x = clamp(x, 0, w-1)
		y = clamp(y, 0, h-1)
		return float64(src.Pix[y*src.Stride+x])
	}

	magnitude := make([]float64, w*h)
	direction := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					v := at(x+kx, y+ky)
					gx += v * sobelX[ky+1][kx+1]
					gy += v * sobelY[ky+1][kx+1]
				}
			}
			magnitude[y*w+x] = math.Hypot(gx, gy)
			direction[y*w+x] = math.Atan2(gy, gx)
		}
	}

	suppressed := make([]float64, w*h)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			mag := magnitude[y*w+x]
			if mag < low {
				continue
			}
			angle := direction[y*w+x]
			var n1, n2 float64
			switch {
			case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
				n1, n2 = magnitude[y*w+x-1], magnitude[y*w+x+1]
			case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
				n1, n2 = magnitude[(y-1)*w+x-1], magnitude[(y+1)*w+x+1]
			case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
				n1, n2 = magnitude[(y-1)*w+x], magnitude[(y+1)*w+x]
			default:
				n1, n2 = magnitude[(y-1)*w+x+1], magnitude[(y+1)*w+x-1]
			}
			if mag >= n1 && mag >= n2 {
				suppressed[y*w+x] = mag
			}
		}
	}

	stack := make([]int, 0, 256)
	for i, v := range suppressed {
		if v >= high {
			out.Pix[(i/w)*out.Stride+i%w] = 255
			stack = append(stack, i)
		}
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%w, i/w
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				j := ny*w + nx
				if out.Pix[ny*out.Stride+nx] == 0 && suppressed[j] >= low && suppressed[j] > 0 {
					out.Pix[ny*out.Stride+nx] = 255
					stack = append(stack, j)
				}
			}
		}
	}
	return out
}

// clamp constrains an integer value to the range [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
