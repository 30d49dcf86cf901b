package vision

import "image"

// mooreOffsets lists the 8-neighbourhood clockwise on screen, starting east.
var mooreOffsets = [8]image.Point{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

const west = 4

// findExternalContours labels 8-connected foreground components and traces
// the outer boundary of each one that is not enclosed by another component.
//
// A component is top-level when the background pixel left of its first
// raster pixel is connected (4-connectivity) to the image border; otherwise
// it sits inside a hole of some other component and is skipped. Contours
// are returned in raster order of their first pixel.
func findExternalContours(src *image.Gray) []Contour {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	fg := func(x, y int) bool {
		if x < 0 || y < 0 || x >= w || y >= h {
			return false
		}
		return src.Pix[y*src.Stride+x] != 0
	}

	outside := outerBackground(fg, w, h)
	visited := make([]bool, w*h)
	contours := make([]Contour, 0)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !fg(x, y) || visited[y*w+x] {
				continue
			}
			markComponent(fg, visited, x, y, w)
			if x > 0 && !outside[y*w+x-1] {
				continue
			}
			contours = append(contours, traceBoundary(fg, image.Pt(x, y), w*h))
		}
	}
	return contours
}

// outerBackground flood-fills background pixels reachable from the border.
func outerBackground(fg func(x, y int) bool, w, h int) []bool {
	outside := make([]bool, w*h)
	stack := make([]image.Point, 0, 2*(w+h))
	push := func(x, y int) {
		if x < 0 || y < 0 || x >= w || y >= h || outside[y*w+x] || fg(x, y) {
			return
		}
		outside[y*w+x] = true
		stack = append(stack, image.Pt(x, y))
	}
	for x := 0; x < w; x++ {
		push(x, 0)
		push(x, h-1)
	}
	for y := 0; y < h; y++ {
		push(0, y)
		push(w-1, y)
	}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		push(p.X+1, p.Y)
		push(p.X-1, p.Y)
		push(p.X, p.Y+1)
		push(p.X, p.Y-1)
	}
	return outside
}

// markComponent performs an iterative 8-connected flood fill from (x, y).
func markComponent(fg func(x, y int) bool, visited []bool, x, y, w int) {
	stack := []image.Point{{X: x, Y: y}}
	visited[y*w+x] = true
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, o := range mooreOffsets {
			q := p.Add(o)
			if fg(q.X, q.Y) && !visited[q.Y*w+q.X] {
				visited[q.Y*w+q.X] = true
				stack = append(stack, q)
			}
		}
	}
}

// traceBoundary follows the outer boundary of the component containing
// start with Moore-neighbour tracing. start must be the first pixel of the
// component in raster order, so its west neighbour is background.
//
// Tracing stops when the walk is back at start and about to repeat its first
// move, which also closes boundaries that pass through start twice.
func traceBoundary(fg func(x, y int) bool, start image.Point, limit int) Contour {
	contour := Contour{start}
	p, back := start, west
	var first image.Point
	moved := false

	for steps := 0; steps <= 4*limit+8; steps++ {
		next, nextBack, ok := mooreStep(fg, p, back)
		if !ok {
			// isolated pixel
			return contour
		}
		if moved && p == start && next == first {
			break
		}
		if !moved {
			first, moved = next, true
		}
		contour = append(contour, next)
		p, back = next, nextBack
	}

	if n := len(contour); n > 1 && contour[n-1] == start {
		contour = contour[:n-1]
	}
	return contour
}

// mooreStep scans the neighbours of p clockwise, starting just after the
// backtrack direction, and returns the first foreground neighbour together
// with the direction from it back to the last background pixel examined.
func mooreStep(fg func(x, y int) bool, p image.Point, back int) (image.Point, int, bool) {
	for k := 1; k <= 8; k++ {
		dir := (back + k) % 8
		q := p.Add(mooreOffsets[dir])
		if !fg(q.X, q.Y) {
			continue
		}
		prev := p.Add(mooreOffsets[(back+k-1)%8])
		return q, offsetIndex(prev.Sub(q)), true
	}
	return p, back, false
}

func offsetIndex(d image.Point) int {
	for i, o := range mooreOffsets {
		if o == d {
			return i
		}
	}
	return west
}
