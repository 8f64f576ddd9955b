package pathfinding

import (
	"sort"

	"github.com/samber/lo"

	"pedalboard/geometry"
)

// RoutingStrategy defines how an L-shaped path turns.
type RoutingStrategy int

const (
	// HorizontalFirst routes horizontally then vertically.
	HorizontalFirst RoutingStrategy = iota
	// VerticalFirst routes vertically then horizontally.
	VerticalFirst
)

func (s RoutingStrategy) String() string {
	if s == VerticalFirst {
		return "VerticalFirst"
	}
	return "HorizontalFirst"
}

// LPath returns the two-segment path from start to end turning once. Aligned
// points produce a straight segment.
func LPath(start, end geometry.Point, strategy RoutingStrategy) []geometry.Point {
	if geometry.IsAxisAligned(start, end) {
		return []geometry.Point{start, end}
	}
	corner := geometry.Pt(end.X, start.Y)
	if strategy == VerticalFirst {
		corner = geometry.Pt(start.X, end.Y)
	}
	return []geometry.Point{start, corner, end}
}

// channelCandidates returns three-segment paths that travel along a
// horizontal or vertical lane beside a footprint. Lanes run margin away from
// the footprint edges and are ordered by total length.
func channelCandidates(start, end geometry.Point, boxes []geometry.Box, margin float64) [][]geometry.Point {
	var ys, xs []float64
	for _, b := range boxes {
		ys = append(ys, b.Y-margin, b.Bottom()+margin)
		xs = append(xs, b.X-margin, b.Right()+margin)
	}
	if env, ok := geometry.Envelope(boxes); ok {
		ys = append(ys, env.Y-margin, env.Bottom()+margin)
		xs = append(xs, env.X-margin, env.Right()+margin)
	}

	var out [][]geometry.Point
	for _, y := range lo.Uniq(ys) {
		out = append(out, SimplifyPath([]geometry.Point{start, geometry.Pt(start.X, y), geometry.Pt(end.X, y), end}))
	}
	for _, x := range lo.Uniq(xs) {
		out = append(out, SimplifyPath([]geometry.Point{start, geometry.Pt(x, start.Y), geometry.Pt(x, end.Y), end}))
	}
	sortByLength(out)
	return out
}

// perimeterCandidates returns paths that leave the footprint envelope and
// travel around its outside, including routes that turn a corner.
func perimeterCandidates(start, end geometry.Point, env geometry.Box, offset float64) [][]geometry.Point {
	top, bottom := env.Y-offset, env.Bottom()+offset
	left, right := env.X-offset, env.Right()+offset

	var out [][]geometry.Point
	for _, y := range []float64{top, bottom} {
		out = append(out, []geometry.Point{start, geometry.Pt(start.X, y), geometry.Pt(end.X, y), end})
	}
	for _, x := range []float64{left, right} {
		out = append(out, []geometry.Point{start, geometry.Pt(x, start.Y), geometry.Pt(x, end.Y), end})
	}
	for _, y := range []float64{top, bottom} {
		for _, x := range []float64{left, right} {
			out = append(out,
				[]geometry.Point{start, geometry.Pt(start.X, y), geometry.Pt(x, y), geometry.Pt(x, end.Y), end},
				[]geometry.Point{start, geometry.Pt(x, start.Y), geometry.Pt(x, y), geometry.Pt(end.X, y), end},
			)
		}
	}
	out = lo.Map(out, func(p []geometry.Point, _ int) []geometry.Point { return SimplifyPath(p) })
	sortByLength(out)
	return out
}

func sortByLength(paths [][]geometry.Point) {
	sort.SliceStable(paths, func(i, j int) bool {
		return geometry.PolylineLength(paths[i]) < geometry.PolylineLength(paths[j])-geometry.Epsilon
	})
}
