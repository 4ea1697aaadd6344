// Package geom holds the four-point geometry used to place products on templates.
package geom

import (
	"errors"
	"fmt"
	"image"
)

// ErrValidation reports malformed placement geometry.
var ErrValidation = errors.New("invalid points")

// Point is an integer pixel coordinate on the template.
type Point struct {
	X, Y int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Quad is a placement area ordered top-left, top-right, bottom-right, bottom-left.
type Quad [4]Point

// QuadFromPoints converts a validated slice into a Quad.
func QuadFromPoints(points []Point) (Quad, error) {
	var q Quad
	if len(points) != 4 {
		return q, fmt.Errorf("%w: need exactly 4 points, got %d", ErrValidation, len(points))
	}
	copy(q[:], points)
	return q, nil
}

// Validate checks that points form a usable placement area.
// Points outside the template are allowed; width and height are only
// reported in the error for context.
func Validate(points []Point, width, height int) error {
	q, err := QuadFromPoints(points)
	if err != nil {
		return err
	}
	if IsSelfIntersecting(q) {
		return fmt.Errorf("%w: points %v self-intersect on %dx%d template", ErrValidation, points, width, height)
	}
	return nil
}

// Validate is the Quad form of the package level Validate.
func (q Quad) Validate(width, height int) error {
	return Validate(q[:], width, height)
}

func ccw(a, b, c Point) bool {
	return (c.Y-a.Y)*(b.X-a.X) > (b.Y-a.Y)*(c.X-a.X)
}

func segmentsIntersect(a, b, c, d Point) bool {
	return ccw(a, c, d) != ccw(b, c, d) && ccw(a, b, c) != ccw(a, b, d)
}

// IsSelfIntersecting reports whether opposite edges of q cross.
func IsSelfIntersecting(q Quad) bool {
	if segmentsIntersect(q[0], q[1], q[2], q[3]) {
		return true
	}
	return segmentsIntersect(q[1], q[2], q[3], q[0])
}

// IsConvex reports whether every turn along q has the same orientation.
// A degenerate quad with all points collinear is not convex.
func IsConvex(q Quad) bool {
	sign := 0
	for i := range 4 {
		a, b, c := q[i], q[(i+1)%4], q[(i+2)%4]
		cross := (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
		if cross == 0 {
			continue
		}
		s := 1
		if cross < 0 {
			s = -1
		}
		if sign == 0 {
			sign = s
		} else if s != sign {
			return false
		}
	}
	return sign != 0
}

// Center returns the intersection of the diagonals, falling back to the
// vertex average when the diagonals are parallel.
func (q Quad) Center() (float64, float64) {
	x1, y1 := float64(q[0].X), float64(q[0].Y)
	x2, y2 := float64(q[2].X), float64(q[2].Y)
	x3, y3 := float64(q[1].X), float64(q[1].Y)
	x4, y4 := float64(q[3].X), float64(q[3].Y)
	den := (x1-x2)*(y3-y4) - (y1-y2)*(x3-x4)
	if den == 0 {
		var sx, sy float64
		for _, p := range q {
			sx += float64(p.X)
			sy += float64(p.Y)
		}
		return sx / 4, sy / 4
	}
	t := ((x1-x3)*(y3-y4) - (y1-y3)*(x3-x4)) / den
	return x1 + t*(x2-x1), y1 + t*(y2-y1)
}

// Bounds returns the smallest rectangle containing q, Max exclusive.
func (q Quad) Bounds() image.Rectangle {
	r := image.Rectangle{Min: image.Pt(q[0].X, q[0].Y), Max: image.Pt(q[0].X, q[0].Y)}
	for _, p := range q[1:] {
		r.Min.X = min(r.Min.X, p.X)
		r.Min.Y = min(r.Min.Y, p.Y)
		r.Max.X = max(r.Max.X, p.X)
		r.Max.Y = max(r.Max.Y, p.Y)
	}
	r.Max = r.Max.Add(image.Pt(1, 1))
	return r
}
