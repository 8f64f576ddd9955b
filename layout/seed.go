package layout

import (
	"sort"

	"github.com/samber/lo"

	"pedalboard/core"
	"pedalboard/geometry"
	"pedalboard/signalchain"
)

// rows returns the centre lines for the front-of-amp and effects-loop rows.
// With rails the front row is the rail nearest the player and the loop row
// the one furthest away; without rails the board is split into two bands.
func rows(board core.Board) (front, back float64) {
	if len(board.Rails) == 0 {
		return board.DepthInches * 0.75, board.DepthInches * 0.25
	}
	ys := lo.Map(board.Rails, func(r core.Rail, _ int) float64 { return r.PositionInches })
	sort.Float64s(ys)
	return ys[len(ys)-1], ys[0]
}

// seed lays active pedals out in chain order: front and hub pedals along the
// front row, loop pedals along the back row, each scanned from the entry edge
// toward the exit edge. Pedals that do not fit fall back to an empty-spot
// search, then to a spot that only clears its neighbours without spacing, and
// otherwise keep their position.
func (o *Optimizer) seed(placed []core.PlacedPedal, chain signalchain.Result, board core.Board) []core.PlacedPedal {
	out := append([]core.PlacedPedal(nil), placed...)
	index := make(map[string]int, len(out))
	for i, pp := range out {
		index[pp.ID] = i
	}

	frontRow, backRow := rows(board)
	var done []core.PlacedPedal

	place := func(group []core.PlacedPedal, row float64) {
		cursor := board.WidthInches
		for n, c := range group {
			i, ok := index[c.ID]
			if !ok {
				continue
			}
			pp := out[i]
			pedal, ok := o.catalog.Lookup(pp.PedalID)
			if !ok {
				done = append(done, pp)
				continue
			}
			w, h := geometry.RotatedSize(pedal.WidthInches, pedal.DepthInches, pp.RotationDegrees)
			y := geometry.Clamp(row-h/2, 0, geometry.Max(board.DepthInches-h, 0))

			x, found := o.scanRow(cursor-w, y, w, h, done, board)
			switch {
			case found:
				pp.X, pp.Y = x, y
				cursor = x - o.cfg.Layout.MinSpacing
			default:
				if spot, ok := o.checker.FindEmptySpot(pedal, pp.RotationDegrees, n+1, len(group), done, board); ok {
					pp.X, pp.Y = spot.X, spot.Y
				} else if spot, ok := o.checker.FindTightSpot(pp, n+1, len(group), done, board); ok {
					log.Debugf("pedal %s only fits touching its neighbours", pp.ID)
					pp.X, pp.Y = spot.X, spot.Y
				} else {
					log.Warnf("no room for pedal %s on board; leaving it at (%.2f, %.2f)", pp.ID, pp.X, pp.Y)
				}
			}
			out[i] = pp
			done = append(done, pp)
		}
	}

	front := append(chain.Zone(core.LocationFrontOfAmp), chain.Zone(core.LocationFourCableHub)...)
	place(front, frontRow)
	place(chain.Zone(core.LocationEffectsLoop), backRow)

	// Power supplies and other unchained active pedals go wherever there is room.
	rest := lo.Filter(chain.Unchained, func(pp core.PlacedPedal, _ int) bool { return pp.IsActive })
	place(rest, backRow)
	return out
}

// scanRow walks left from x in scan steps until a w×h box at y clears every
// placed box by the minimum spacing.
func (o *Optimizer) scanRow(x, y, w, h float64, done []core.PlacedPedal, board core.Board) (float64, bool) {
	occupied := lo.Map(lo.Filter(done, func(pp core.PlacedPedal, _ int) bool { return pp.IsActive }),
		func(pp core.PlacedPedal, _ int) geometry.Box {
			return o.checker.Box(pp).Inflate(o.cfg.Layout.MinSpacing - geometry.Epsilon)
		})
	bounds := board.Bounds()
	for ; x >= -geometry.Epsilon; x -= o.cfg.Collision.ScanStep {
		x = geometry.Max(x, 0)
		box := geometry.NewBox(x, y, w, h)
		if !box.Within(bounds) {
			if x == 0 {
				break
			}
			continue
		}
		if !lo.ContainsBy(occupied, box.Intersects) {
			return x, true
		}
		if x == 0 {
			break
		}
	}
	return 0, false
}
