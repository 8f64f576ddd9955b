package layout

import (
	"gonum.org/v1/gonum/floats"

	"pedalboard/connections"
	"pedalboard/core"
	"pedalboard/geometry"
)

// Breakdown is the layout cost split into its terms. Lengths are inches;
// the other terms are counts.
type Breakdown struct {
	CableLength float64 `json:"cableLength" yaml:"cableLength"`
	Crossings   float64 `json:"crossings" yaml:"crossings"`
	ClosePairs  float64 `json:"closePairs" yaml:"closePairs"`
	BoxHits     float64 `json:"boxHits" yaml:"boxHits"`
	Total       float64 `json:"total" yaml:"total"`
}

func (b Breakdown) terms() []float64 {
	return []float64{b.CableLength, b.Crossings, b.ClosePairs, b.BoxHits}
}

func (o *Optimizer) weights() []float64 {
	l := o.cfg.Layout
	return []float64{1, l.CrossingPenalty, l.SpacingPenalty, l.CollisionPenalty}
}

// evaluate routes every link on the candidate layout and scores it.
func (o *Optimizer) evaluate(links []connections.Link, placed []core.PlacedPedal, board core.Board) (Breakdown, []core.Cable) {
	o.rec.CostEvaluation()
	cables := o.cables.RouteLinks(links, placed, board)

	var b Breakdown
	for _, c := range cables {
		b.CableLength += c.RoutedLengthInches
	}
	b.Crossings = float64(countCrossings(cables))

	boxes := map[string]geometry.Box{}
	var ids []string
	for _, pp := range placed {
		if !pp.IsActive {
			continue
		}
		boxes[pp.ID] = o.checker.Box(pp)
		ids = append(ids, pp.ID)
	}
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if boxes[ids[i]].Gap(boxes[ids[j]]) < o.cfg.Layout.MinClearance {
				b.ClosePairs++
			}
		}
	}
	for _, c := range cables {
		for i := 1; i < len(c.Path); i++ {
			for _, id := range ids {
				if id == c.From.PlacedPedalID || id == c.To.PlacedPedalID {
					continue
				}
				if geometry.SegmentIntersectsBox(c.Path[i-1], c.Path[i], boxes[id]) {
					b.BoxHits++
				}
			}
		}
	}
	b.Total = floats.Dot(o.weights(), b.terms())
	return b, cables
}

// countCrossings counts proper crossings between segments of different cables.
func countCrossings(cables []core.Cable) int {
	n := 0
	for i := 0; i < len(cables); i++ {
		for j := i + 1; j < len(cables); j++ {
			a, b := cables[i].Path, cables[j].Path
			for s := 1; s < len(a); s++ {
				for t := 1; t < len(b); t++ {
					if geometry.SegmentsCross(a[s-1], a[s], b[t-1], b[t]) {
						n++
					}
				}
			}
		}
	}
	return n
}
