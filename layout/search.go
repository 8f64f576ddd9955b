package layout

import (
	"github.com/samber/lo"

	"pedalboard/connections"
	"pedalboard/core"
	"pedalboard/geometry"
	"pedalboard/signalchain"
)

// search is the mutable state of one hill-climbing run.
type search struct {
	o       *Optimizer
	board   core.Board
	routing core.RoutingConfig
	loopOK  bool
	joint   bool

	placed []core.PlacedPedal
	chain  signalchain.Result
	links  []connections.Link
	cables []core.Cable
	cost   Breakdown
	passes int
	moves  int
}

var nudges = [4]geometry.Point{{X: 0, Y: -1}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}}

func (s *search) run() {
	s.links = connections.Plan(s.chain, s.o.catalog, s.routing, s.loopOK)
	s.cost, s.cables = s.o.evaluate(s.links, s.placed, s.board)

	active := make([]int, 0, len(s.placed))
	for i, pp := range s.placed {
		if pp.IsActive {
			active = append(active, i)
		}
	}

	for s.passes < s.o.cfg.Layout.MaxPasses {
		s.passes++
		improved := false

		for a := 0; a < len(active); a++ {
			for b := a + 1; b < len(active); b++ {
				if cand, ok := s.swapped(s.placed, active[a], active[b]); ok && s.try(cand, s.chain, s.links, MoveSwap) {
					improved = true
				}
			}
		}

		for _, i := range active {
			for _, d := range nudges {
				cand := append([]core.PlacedPedal(nil), s.placed...)
				cand[i].X += d.X * s.o.cfg.Layout.NudgeStep
				cand[i].Y += d.Y * s.o.cfg.Layout.NudgeStep
				if s.valid(cand, i) && s.try(cand, s.chain, s.links, MoveNudge) {
					improved = true
				}
			}
		}

		if s.joint && s.reorder() {
			improved = true
		}

		if !improved {
			break
		}
	}
	s.o.rec.OptimizerPasses(s.passes)
}

// try accepts the candidate when it beats the current cost by more than the
// configured epsilon.
func (s *search) try(cand []core.PlacedPedal, chain signalchain.Result, links []connections.Link, kind string) bool {
	cost, cables := s.o.evaluate(links, cand, s.board)
	if cost.Total >= s.cost.Total-s.o.cfg.Layout.Epsilon {
		return false
	}
	s.placed, s.chain, s.links = cand, chain, links
	s.cost, s.cables = cost, cables
	s.moves++
	s.o.rec.OptimizerMove(kind)
	return true
}

// valid reports whether the moved placements are on the board and clear of
// every other active placement.
func (s *search) valid(cand []core.PlacedPedal, moved ...int) bool {
	for _, i := range moved {
		if !s.o.checker.IsValidPlacement(cand[i], cand, s.board) {
			return false
		}
	}
	return true
}

// swapped exchanges the centres of two placements, clamping each to the board.
func (s *search) swapped(placed []core.PlacedPedal, i, j int) ([]core.PlacedPedal, bool) {
	cand := append([]core.PlacedPedal(nil), placed...)
	bi, bj := s.o.checker.Box(cand[i]), s.o.checker.Box(cand[j])
	ci, cj := bi.Center(), bj.Center()
	cand[i].X = geometry.Clamp(cj.X-bi.W/2, 0, geometry.Max(s.board.WidthInches-bi.W, 0))
	cand[i].Y = geometry.Clamp(cj.Y-bi.H/2, 0, geometry.Max(s.board.DepthInches-bi.H, 0))
	cand[j].X = geometry.Clamp(ci.X-bj.W/2, 0, geometry.Max(s.board.WidthInches-bj.W, 0))
	cand[j].Y = geometry.Clamp(ci.Y-bj.H/2, 0, geometry.Max(s.board.DepthInches-bj.H, 0))
	return cand, s.valid(cand, i, j)
}

// reorder tries adjacent transpositions inside every swappable group, alone
// and combined with a position swap of the two pedals. It stops at the first
// accepted move.
func (s *search) reorder() bool {
	for _, group := range swappableGroups(s.chain, s.o.catalog, s.o.cfg.Layout.JointMaxGroup) {
		for k := 0; k+1 < len(group); k++ {
			chain := transpose(s.chain, group[k], group[k+1])
			links := connections.Plan(chain, s.o.catalog, s.routing, s.loopOK)
			placed := applyChain(s.placed, chain)
			if s.try(placed, chain, links, MoveReorder) {
				return true
			}
			i, j := indexOf(placed, group[k]), indexOf(placed, group[k+1])
			if i < 0 || j < 0 {
				continue
			}
			if cand, ok := s.swapped(placed, i, j); ok && s.try(cand, chain, links, MoveReorderAt) {
				return true
			}
		}
	}
	return false
}

func indexOf(placed []core.PlacedPedal, id string) int {
	_, i, ok := lo.FindIndexOf(placed, func(pp core.PlacedPedal) bool { return pp.ID == id })
	if !ok {
		return -1
	}
	return i
}

// swappableGroups returns runs of consecutive same-category pedals within a
// zone, as placement ids, capped at max members.
func swappableGroups(chain signalchain.Result, catalog core.Catalog, max int) [][]string {
	var groups [][]string
	for _, loc := range core.Locations {
		zone := chain.Zone(loc)
		var run []string
		var runCat core.Category
		flush := func() {
			if len(run) >= 2 {
				if max > 1 && len(run) > max {
					run = run[:max]
				}
				groups = append(groups, run)
			}
			run = nil
		}
		for _, pp := range zone {
			pedal, ok := catalog.Lookup(pp.PedalID)
			if !ok {
				flush()
				continue
			}
			if len(run) > 0 && pedal.Category != runCat {
				flush()
			}
			runCat = pedal.Category
			run = append(run, pp.ID)
		}
		flush()
	}
	return groups
}

// transpose swaps the chain positions of two pedals in the same zone.
func transpose(chain signalchain.Result, a, b string) signalchain.Result {
	out := chain
	out.Ordered = append([]core.PlacedPedal(nil), chain.Ordered...)
	ia, ib := indexOf(out.Ordered, a), indexOf(out.Ordered, b)
	if ia < 0 || ib < 0 || out.Ordered[ia].Location != out.Ordered[ib].Location {
		return chain
	}
	pa, pb := out.Ordered[ia].ChainPosition, out.Ordered[ib].ChainPosition
	out.Ordered[ia], out.Ordered[ib] = out.Ordered[ib], out.Ordered[ia]
	out.Ordered[ia].ChainPosition, out.Ordered[ib].ChainPosition = pa, pb
	return out
}
