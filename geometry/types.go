package geometry

import (
	"fmt"
	"math"
)

// Point is a 2D coordinate in inches.
type Point struct {
	X float64 `json:"x" yaml:"x" msgpack:"x"`
	Y float64 `json:"y" yaml:"y" msgpack:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points.
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// Sub returns the difference of two points.
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// Scale returns the point scaled by a factor.
func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

// Distance returns the Euclidean distance to another point.
func (p Point) Distance(o Point) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

// Equal reports whether two points coincide within Epsilon.
func (p Point) Equal(o Point) bool {
	return ApproxEqual(p.X, o.X) && ApproxEqual(p.Y, o.Y)
}

func (p Point) String() string {
	return fmt.Sprintf("(%.2f,%.2f)", p.X, p.Y)
}

// Box is an axis-aligned rectangle anchored at its top-left corner.
type Box struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	W float64 `json:"w" yaml:"w"`
	H float64 `json:"h" yaml:"h"`
}

// NewBox creates a Box from its top-left corner and size.
func NewBox(x, y, w, h float64) Box {
	return Box{X: x, Y: y, W: w, H: h}
}

// BoxFromCorners builds the box spanning two opposite corners.
func BoxFromCorners(a, b Point) Box {
	minX, maxX := Min(a.X, b.X), Max(a.X, b.X)
	minY, maxY := Min(a.Y, b.Y), Max(a.Y, b.Y)
	return Box{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Right returns the x coordinate of the right edge.
func (b Box) Right() float64 { return b.X + b.W }

// Bottom returns the y coordinate of the bottom (front) edge.
func (b Box) Bottom() float64 { return b.Y + b.H }

// Center returns the center point of the box.
func (b Box) Center() Point {
	return Point{X: b.X + b.W/2, Y: b.Y + b.H/2}
}

// Area returns the area of the box.
func (b Box) Area() float64 { return b.W * b.H }

// Inflate grows the box by m on every side. Negative m shrinks it.
func (b Box) Inflate(m float64) Box {
	return Box{X: b.X - m, Y: b.Y - m, W: b.W + 2*m, H: b.H + 2*m}
}

// Translate returns the box moved by (dx, dy).
func (b Box) Translate(dx, dy float64) Box {
	return Box{X: b.X + dx, Y: b.Y + dy, W: b.W, H: b.H}
}

// MoveTo returns the box with its top-left corner at (x, y).
func (b Box) MoveTo(x, y float64) Box {
	return Box{X: x, Y: y, W: b.W, H: b.H}
}

// Intersects reports strict interval overlap on both axes. Boxes that only share
// an edge do not intersect.
func (b Box) Intersects(o Box) bool {
	return b.X < o.X+o.W && b.X+b.W > o.X &&
		b.Y < o.Y+o.H && b.Y+b.H > o.Y
}

// IntersectionArea returns the area shared by two boxes, or zero.
func (b Box) IntersectionArea(o Box) float64 {
	w := Min(b.Right(), o.Right()) - Max(b.X, o.X)
	h := Min(b.Bottom(), o.Bottom()) - Max(b.Y, o.Y)
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// ContainsPoint reports whether p lies inside the box or on its boundary.
func (b Box) ContainsPoint(p Point) bool {
	return p.X >= b.X && p.X <= b.Right() && p.Y >= b.Y && p.Y <= b.Bottom()
}

// StrictlyContains reports whether p lies in the open interior of the box.
func (b Box) StrictlyContains(p Point) bool {
	return p.X > b.X+Epsilon && p.X < b.Right()-Epsilon &&
		p.Y > b.Y+Epsilon && p.Y < b.Bottom()-Epsilon
}

// Within reports whether the box lies inside bounds (edges may touch).
func (b Box) Within(bounds Box) bool {
	return b.X >= bounds.X-Epsilon && b.Y >= bounds.Y-Epsilon &&
		b.Right() <= bounds.Right()+Epsilon && b.Bottom() <= bounds.Bottom()+Epsilon
}

// Union returns the smallest box containing both boxes.
func (b Box) Union(o Box) Box {
	minX, minY := Min(b.X, o.X), Min(b.Y, o.Y)
	maxX, maxY := Max(b.Right(), o.Right()), Max(b.Bottom(), o.Bottom())
	return Box{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Gap returns the edge-to-edge distance between two boxes. Overlapping or
// touching boxes have a gap of zero.
func (b Box) Gap(o Box) float64 {
	dx := Max(0, Max(o.X-b.Right(), b.X-o.Right()))
	dy := Max(0, Max(o.Y-b.Bottom(), b.Y-o.Bottom()))
	return math.Hypot(dx, dy)
}

func (b Box) String() string {
	return fmt.Sprintf("[%.2f,%.2f %.2fx%.2f]", b.X, b.Y, b.W, b.H)
}

// Envelope returns the union of all boxes. The second result is false when
// boxes is empty.
func Envelope(boxes []Box) (Box, bool) {
	if len(boxes) == 0 {
		return Box{}, false
	}
	env := boxes[0]
	for _, b := range boxes[1:] {
		env = env.Union(b)
	}
	return env, true
}

// BoundingBox returns the smallest box containing all points.
func BoundingBox(points []Point) Box {
	if len(points) == 0 {
		return Box{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX, maxX = Min(minX, p.X), Max(maxX, p.X)
		minY, maxY = Min(minY, p.Y), Max(maxY, p.Y)
	}
	return Box{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}
