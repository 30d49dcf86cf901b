package vision

import (
	"image"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"
)

// goGeometry implements [Geometry] on pixel-centre coordinates.
type goGeometry struct{}

// Area returns the absolute shoelace area of the closed polygon c.
func (goGeometry) Area(c Contour) float64 {
	return polygonArea(c)
}

// Perimeter returns the length of c including the closing segment.
func (goGeometry) Perimeter(c Contour) float64 {
	return arcLength(c)
}

// ConvexHull returns the hull of c counter-clockwise in standard axes
// (clockwise on screen), without collinear points.
func (goGeometry) ConvexHull(c Contour) Contour {
	return convexHull(c)
}

func vec(p image.Point) r2.Vec {
	return r2.Vec{X: float64(p.X), Y: float64(p.Y)}
}

func polygonArea(c Contour) float64 {
	if len(c) < 3 {
		return 0
	}
	var sum float64
	for i := range c {
		sum += r2.Cross(vec(c[i]), vec(c[(i+1)%len(c)]))
	}
	if sum < 0 {
		sum = -sum
	}
	return sum / 2
}

func arcLength(c Contour) float64 {
	if len(c) < 2 {
		return 0
	}
	var length float64
	for i := range c {
		length += r2.Norm(r2.Sub(vec(c[(i+1)%len(c)]), vec(c[i])))
	}
	return length
}

// convexHull uses Andrew's monotone chain.
func convexHull(c Contour) Contour {
	pts := make([]image.Point, len(c))
	copy(pts, c)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})
	uniq := pts[:0]
	for i, p := range pts {
		if i == 0 || p != pts[i-1] {
			uniq = append(uniq, p)
		}
	}
	if len(uniq) < 3 {
		return Contour(uniq)
	}

	turn := func(o, a, b image.Point) float64 {
		return r2.Cross(r2.Sub(vec(a), vec(o)), r2.Sub(vec(b), vec(o)))
	}

	hull := make(Contour, 0, 2*len(uniq))
	for _, p := range uniq {
		for len(hull) >= 2 && turn(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(uniq) - 2; i >= 0; i-- {
		p := uniq[i]
		for len(hull) >= lower && turn(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}
