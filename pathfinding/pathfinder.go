// Package pathfinding routes cables between jack coordinates around pedal
// footprints. Routes are polylines in board inches.
package pathfinding

import (
	"pedalboard/geometry"
)

// Strategy names reported on each route, in ladder order.
const (
	StrategyDirect    = "direct"
	StrategyLPath     = "l-path"
	StrategyChannel   = "channel"
	StrategyGrid      = "grid"
	StrategyPerimeter = "perimeter"
	StrategyEmergency = "emergency"
)

// Strategies lists every strategy in the order the router tries them.
var Strategies = []string{
	StrategyDirect, StrategyLPath, StrategyChannel, StrategyGrid, StrategyPerimeter, StrategyEmergency,
}

// Request describes one cable to route.
type Request struct {
	Start geometry.Point
	End   geometry.Point
	// StartNormal and EndNormal point away from the pedal at each jack. A
	// zero normal (external endpoints) means no standoff is added.
	StartNormal geometry.Point
	EndNormal   geometry.Point
	// Obstacles holds every active pedal footprint.
	Obstacles []geometry.Box
	// Endpoints indexes the footprints the cable starts or ends on.
	Endpoints []int
}

// Route is a routed cable path.
type Route struct {
	Points   []geometry.Point
	Strategy string
	Length   float64
	// Defect marks a route that could only be produced by the emergency
	// fallback and crosses pedals.
	Defect bool
}

// Direction represents a movement direction on the routing grid.
type Direction int

const (
	North Direction = iota
	East
	South
	West
	None
)

// GetDirection returns the axis direction from p1 to p2, or None if the two
// points are not axis aligned.
func GetDirection(p1, p2 geometry.Point) Direction {
	switch {
	case geometry.ApproxEqual(p1.X, p2.X) && p2.Y > p1.Y:
		return South
	case geometry.ApproxEqual(p1.X, p2.X) && p2.Y < p1.Y:
		return North
	case geometry.ApproxEqual(p1.Y, p2.Y) && p2.X > p1.X:
		return East
	case geometry.ApproxEqual(p1.Y, p2.Y) && p2.X < p1.X:
		return West
	}
	return None
}

// dedupe drops consecutive duplicate points.
func dedupe(points []geometry.Point) []geometry.Point {
	out := make([]geometry.Point, 0, len(points))
	for _, p := range points {
		if len(out) > 0 && out[len(out)-1].Equal(p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// SimplifyPath removes duplicate and collinear interior points. The first and
// last points are always kept.
func SimplifyPath(points []geometry.Point) []geometry.Point {
	points = dedupe(points)
	if len(points) <= 2 {
		return points
	}
	simplified := []geometry.Point{points[0]}
	for i := 1; i < len(points)-1; i++ {
		if !geometry.Collinear(simplified[len(simplified)-1], points[i], points[i+1]) {
			simplified = append(simplified, points[i])
		}
	}
	return append(simplified, points[len(points)-1])
}

// RemoveZigzags drops interior points that deviate less than threshold from
// the line joining their neighbours, as long as clear still accepts the
// shortcut. The first and last points are always kept.
func RemoveZigzags(points []geometry.Point, threshold float64, clear func(a, b geometry.Point) bool) []geometry.Point {
	out := append([]geometry.Point(nil), points...)
	for changed := true; changed; {
		changed = false
		for i := 1; i < len(out)-1; i++ {
			prev, next := out[i-1], out[i+1]
			if geometry.PointSegmentDistance(out[i], prev, next) >= threshold {
				continue
			}
			if clear != nil && !clear(prev, next) {
				continue
			}
			out = append(out[:i], out[i+1:]...)
			changed = true
			break
		}
	}
	return out
}
