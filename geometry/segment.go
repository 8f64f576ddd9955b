package geometry

import "math"

// Segment is a straight line between two points.
type Segment struct {
	A, B Point
}

// Length returns the length of the segment.
func (s Segment) Length() float64 {
	return s.A.Distance(s.B)
}

// orientation returns >0 for counter-clockwise, <0 for clockwise and 0 for
// collinear triples.
func orientation(a, b, c Point) float64 {
	v := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
	if math.Abs(v) < Epsilon {
		return 0
	}
	return v
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func onSegment(a, b, p Point) bool {
	return p.X >= Min(a.X, b.X)-Epsilon && p.X <= Max(a.X, b.X)+Epsilon &&
		p.Y >= Min(a.Y, b.Y)-Epsilon && p.Y <= Max(a.Y, b.Y)+Epsilon
}

// SegmentsIntersect reports whether segment ab and segment cd share a point.
// Touching endpoints and collinear overlaps count as an intersection.
func SegmentsIntersect(a, b, c, d Point) bool {
	o1 := sign(orientation(a, b, c))
	o2 := sign(orientation(a, b, d))
	o3 := sign(orientation(c, d, a))
	o4 := sign(orientation(c, d, b))

	if o1 != o2 && o3 != o4 {
		return true
	}
	if o1 == 0 && onSegment(a, b, c) {
		return true
	}
	if o2 == 0 && onSegment(a, b, d) {
		return true
	}
	if o3 == 0 && onSegment(c, d, a) {
		return true
	}
	if o4 == 0 && onSegment(c, d, b) {
		return true
	}
	return false
}

// SegmentsCross reports a proper crossing: the segments intersect at a single
// point interior to both. Shared endpoints and collinear runs are not crossings.
func SegmentsCross(a, b, c, d Point) bool {
	o1 := sign(orientation(a, b, c))
	o2 := sign(orientation(a, b, d))
	o3 := sign(orientation(c, d, a))
	o4 := sign(orientation(c, d, b))
	return o1*o2 < 0 && o3*o4 < 0
}

// SegmentIntersectsBox reports whether segment ab passes through the open
// interior of box. A segment running along an edge, or touching a corner, does
// not intersect. Uses Liang–Barsky clipping against the box.
func SegmentIntersectsBox(a, b Point, box Box) bool {
	if box.W <= 0 || box.H <= 0 {
		return false
	}
	dx := b.X - a.X
	dy := b.Y - a.Y
	t0, t1 := 0.0, 1.0

	clip := func(p, q float64) bool {
		if math.Abs(p) < Epsilon {
			// Parallel to this edge: reject unless strictly inside the slab.
			return q > Epsilon
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return false
			}
			if r < t1 {
				t1 = r
			}
		}
		return true
	}

	if !clip(-dx, a.X-box.X) || !clip(dx, box.Right()-a.X) ||
		!clip(-dy, a.Y-box.Y) || !clip(dy, box.Bottom()-a.Y) {
		return false
	}
	if t1-t0 <= Epsilon {
		return false
	}
	// The clipped portion must reach the interior, not only graze the boundary.
	mid := Point{X: a.X + dx*(t0+t1)/2, Y: a.Y + dy*(t0+t1)/2}
	return box.StrictlyContains(mid)
}

// PointSegmentDistance returns the distance from p to the closest point of ab.
func PointSegmentDistance(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 < Epsilon {
		return p.Distance(a)
	}
	t := Clamp(((p.X-a.X)*dx+(p.Y-a.Y)*dy)/l2, 0, 1)
	return p.Distance(Point{X: a.X + t*dx, Y: a.Y + t*dy})
}

// PolylineLength returns the summed length of all segments.
func PolylineLength(points []Point) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += points[i-1].Distance(points[i])
	}
	return total
}

// IsAxisAligned reports whether ab is horizontal or vertical.
func IsAxisAligned(a, b Point) bool {
	return ApproxEqual(a.X, b.X) || ApproxEqual(a.Y, b.Y)
}

// Collinear reports whether three points lie on a common line.
func Collinear(a, b, c Point) bool {
	return orientation(a, b, c) == 0
}
