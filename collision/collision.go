// Package collision detects overlapping placements and searches for free
// spots on a board.
package collision

import (
	"math"
	"sort"

	"github.com/flanksource/commons/logger"
	"github.com/samber/lo"

	"pedalboard/config"
	"pedalboard/core"
	"pedalboard/geometry"
)

var log = logger.GetLogger("collision")

// Checker grades collisions and validates candidate placements against a
// pedal catalog.
type Checker struct {
	cfg     config.CollisionConfig
	catalog core.Catalog
}

// NewChecker creates a checker.
func NewChecker(cfg config.CollisionConfig, catalog core.Catalog) *Checker {
	return &Checker{cfg: cfg, catalog: catalog}
}

// Box returns the rotation-adjusted footprint of a placement. Placements whose
// catalog pedal is unknown have an empty footprint.
func (c *Checker) Box(pp core.PlacedPedal) geometry.Box {
	p, ok := c.catalog.Lookup(pp.PedalID)
	if !ok {
		log.Warnf("no catalog entry %q for placement %s", pp.PedalID, pp.ID)
		return geometry.NewBox(pp.X, pp.Y, 0, 0)
	}
	return pp.Box(p)
}

// Detect returns every pair of active placements whose footprints overlap.
// Pairs are ordered by id and each pair appears once.
func (c *Checker) Detect(placements []core.PlacedPedal) []core.Collision {
	active := activeSorted(placements)
	boxes := lo.Map(active, func(pp core.PlacedPedal, _ int) geometry.Box { return c.Box(pp) })

	var out []core.Collision
	for i := 0; i < len(active); i++ {
		for j := i + 1; j < len(active); j++ {
			if !boxes[i].Intersects(boxes[j]) {
				continue
			}
			area := boxes[i].IntersectionArea(boxes[j])
			sev := core.SeverityClearance
			if area > c.cfg.OverlapAreaThreshold {
				sev = core.SeverityOverlap
			}
			out = append(out, core.Collision{A: active[i].ID, B: active[j].ID, Severity: sev, Area: area})
		}
	}
	return out
}

// OutOfBounds returns the active placements that leave the board surface.
func (c *Checker) OutOfBounds(placements []core.PlacedPedal, board core.Board) []core.BoundsViolation {
	bounds := board.Bounds()
	var out []core.BoundsViolation
	for _, pp := range activeSorted(placements) {
		if b := c.Box(pp); !b.Within(bounds) {
			out = append(out, core.BoundsViolation{ID: pp.ID, Box: b})
		}
	}
	return out
}

// IsValidPlacement reports whether candidate lies on the board and overlaps
// none of the other active placements. An entry of others with the
// candidate's id is ignored.
func (c *Checker) IsValidPlacement(candidate core.PlacedPedal, others []core.PlacedPedal, board core.Board) bool {
	box := c.Box(candidate)
	if !box.Within(board.Bounds()) {
		return false
	}
	for _, o := range others {
		if !o.IsActive || o.ID == candidate.ID {
			continue
		}
		if box.Intersects(c.Box(o)) {
			return false
		}
	}
	return true
}

// FindEmptySpot searches for a free top-left corner for pedal at the given
// rotation. Rail-centered rows are tried before a full scan; within a pass the
// candidate closest to the ideal x for chainPos of total wins. The second
// result is false when the board has no room.
func (c *Checker) FindEmptySpot(pedal core.Pedal, rotation, chainPos, total int, others []core.PlacedPedal, board core.Board) (geometry.Point, bool) {
	w, h := geometry.RotatedSize(pedal.WidthInches, pedal.DepthInches, rotation)
	maxX, maxY := board.WidthInches-w, board.DepthInches-h
	if maxX < -geometry.Epsilon || maxY < -geometry.Epsilon {
		return geometry.Point{}, false
	}
	maxX, maxY = geometry.Max(maxX, 0), geometry.Max(maxY, 0)

	occupied := make([]geometry.Box, 0, len(others))
	for _, o := range others {
		if o.IsActive {
			occupied = append(occupied, c.Box(o).Inflate(c.cfg.PlacementSpacing))
		}
	}
	free := func(x, y float64) bool {
		box := geometry.NewBox(x, y, w, h)
		for _, o := range occupied {
			if box.Intersects(o) {
				return false
			}
		}
		return true
	}

	ideal := IdealX(board.WidthInches, w, chainPos, total)
	xs := scanValues(maxX, c.cfg.ScanStep, ideal)

	railYs := lo.Uniq(lo.Map(board.Rails, func(r core.Rail, _ int) float64 {
		return geometry.Clamp(r.PositionInches-h/2, 0, maxY)
	}))
	sort.Float64s(railYs)
	if p, ok := bestCandidate(xs, railYs, ideal, free); ok {
		return p, true
	}
	return bestCandidate(xs, scanValues(maxY, c.cfg.ScanStep, -1), ideal, free)
}

// FindTightSpot is the last resort when FindEmptySpot finds no room. It
// drops the placement spacing and accepts any corner where pp passes
// IsValidPlacement, so the pedal may end up touching its neighbours.
// Besides the scan grid it tries every position flush against another
// footprint.
func (c *Checker) FindTightSpot(pp core.PlacedPedal, chainPos, total int, others []core.PlacedPedal, board core.Board) (geometry.Point, bool) {
	box := c.Box(pp)
	maxX, maxY := board.WidthInches-box.W, board.DepthInches-box.H
	if maxX < -geometry.Epsilon || maxY < -geometry.Epsilon {
		return geometry.Point{}, false
	}
	maxX, maxY = geometry.Max(maxX, 0), geometry.Max(maxY, 0)

	ideal := IdealX(board.WidthInches, box.W, chainPos, total)
	xs := append(scanValues(maxX, c.cfg.ScanStep, -1), ideal)
	ys := scanValues(maxY, c.cfg.ScanStep, -1)
	for _, o := range others {
		if !o.IsActive || o.ID == pp.ID {
			continue
		}
		ob := c.Box(o)
		xs = append(xs, ob.Right(), ob.X-box.W)
		ys = append(ys, ob.Bottom(), ob.Y-box.H)
	}

	free := func(x, y float64) bool {
		cand := pp
		cand.X, cand.Y = x, y
		return c.IsValidPlacement(cand, others, board)
	}
	return bestCandidate(inRange(xs, maxX), inRange(ys, maxY), ideal, free)
}

// SnapToRail moves pp vertically so its center sits on the nearest rail when
// that rail is within the snap distance. It reports whether pp moved.
func (c *Checker) SnapToRail(pp core.PlacedPedal, board core.Board) (core.PlacedPedal, bool) {
	if len(board.Rails) == 0 {
		return pp, false
	}
	box := c.Box(pp)
	cy := box.Center().Y
	rail := lo.MinBy(board.Rails, func(a, b core.Rail) bool {
		return geometry.Abs(a.PositionInches-cy) < geometry.Abs(b.PositionInches-cy)
	})
	if geometry.Abs(rail.PositionInches-cy) > c.cfg.RailSnapDistance {
		return pp, false
	}
	y := geometry.Clamp(rail.PositionInches-box.H/2, 0, geometry.Max(board.DepthInches-box.H, 0))
	if geometry.ApproxEqual(y, pp.Y) {
		return pp, false
	}
	pp.Y = y
	return pp, true
}

// IdealX is the preferred left edge for a pedal of width w at chainPos out
// of total. Position 1 sits against the entry edge.
func IdealX(boardWidth, w float64, chainPos, total int) float64 {
	span := geometry.Max(boardWidth-w, 0)
	if chainPos < 1 {
		chainPos = 1
	}
	denom := math.Max(float64(total-1), 1)
	frac := geometry.Clamp(float64(chainPos-1)/denom, 0, 1)
	if core.EntrySide == core.SideLeft {
		return span * frac
	}
	return span * (1 - frac)
}

func bestCandidate(xs, ys []float64, ideal float64, free func(x, y float64) bool) (geometry.Point, bool) {
	var best geometry.Point
	bestScore, found := math.Inf(1), false
	for _, y := range ys {
		for _, x := range xs {
			if !free(x, y) {
				continue
			}
			score := geometry.Abs(x - ideal)
			if score < bestScore-geometry.Epsilon {
				best, bestScore, found = geometry.Pt(x, y), score, true
			}
		}
	}
	return best, found
}

// scanValues returns 0, step, 2*step, ... up to limit, plus limit itself and
// extra when it falls inside the range.
func scanValues(limit, step, extra float64) []float64 {
	var out []float64
	for v := 0.0; v <= limit+geometry.Epsilon; v += step {
		out = append(out, v)
	}
	out = append(out, limit)
	if extra >= 0 && extra <= limit {
		out = append(out, extra)
	}
	out = lo.Uniq(out)
	sort.Float64s(out)
	return out
}

// inRange keeps the values inside [0, limit], sorted and without repeats.
func inRange(vs []float64, limit float64) []float64 {
	out := lo.Uniq(lo.FilterMap(vs, func(v float64, _ int) (float64, bool) {
		return geometry.Clamp(v, 0, limit), v >= -geometry.Epsilon && v <= limit+geometry.Epsilon
	}))
	sort.Float64s(out)
	return out
}

func activeSorted(placements []core.PlacedPedal) []core.PlacedPedal {
	active := lo.Filter(placements, func(pp core.PlacedPedal, _ int) bool { return pp.IsActive })
	sort.SliceStable(active, func(i, j int) bool { return active[i].ID < active[j].ID })
	return active
}
