// Package validation checks a finished engine run against the invariants every
// result must hold: no overlapping pedals, everything on the board, dense chain
// positions and cables that start and end on their jacks without cutting
// through other pedals.
package validation

import (
	"fmt"
	"sort"
	"strings"

	"pedalboard/collision"
	"pedalboard/config"
	"pedalboard/connections"
	"pedalboard/core"
	"pedalboard/pathfinding"
	"pedalboard/signalchain"
)

// Kind classifies a validation error.
type Kind string

const (
	KindOverlap      Kind = "overlap"
	KindOutOfBounds  Kind = "out_of_bounds"
	KindChainGap     Kind = "chain_gap"
	KindPathEndpoint Kind = "path_endpoint"
	KindPathCrossing Kind = "path_crossing"
	KindPathDefect   Kind = "path_defect"
)

// ValidationError represents one broken invariant with the ids involved.
type ValidationError struct {
	Kind    Kind     `json:"kind" yaml:"kind"`
	IDs     []string `json:"ids,omitempty" yaml:"ids,omitempty"`
	Message string   `json:"message" yaml:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Snapshot is everything a run produced.
type Snapshot struct {
	Board   core.Board
	Catalog core.Catalog
	Placed  []core.PlacedPedal
	Chain   signalchain.Result
	Cables  []core.Cable
}

// Validator checks snapshots. It holds no per-run state.
type Validator struct {
	cfg config.Config
}

// report collects the errors of one Validate call.
type report []ValidationError

// NewValidator creates a validator using the engine configuration the run was
// made with.
func NewValidator(cfg config.Config) *Validator {
	return &Validator{cfg: cfg}
}

// Validate returns every broken invariant, or nil for a clean snapshot.
func (v *Validator) Validate(s Snapshot) []ValidationError {
	var r report

	checker := collision.NewChecker(v.cfg.Collision, s.Catalog)
	for _, c := range checker.Detect(s.Placed) {
		r.add(KindOverlap, []string{c.A, c.B}, "%s and %s overlap by %.2f sq in (%s)", c.A, c.B, c.Area, c.Severity)
	}
	for _, b := range checker.OutOfBounds(s.Placed, s.Board) {
		r.add(KindOutOfBounds, []string{b.ID}, "%s at %s leaves the %gx%g board", b.ID, b.Box, s.Board.WidthInches, s.Board.DepthInches)
	}

	checkChain(&r, s.Chain)
	v.checkCables(&r, s)
	return r
}

// checkChain verifies chain positions run 1..N in every zone.
func checkChain(r *report, chain signalchain.Result) {
	for _, loc := range core.Locations {
		zone := chain.Zone(loc)
		positions := make([]int, len(zone))
		for i, pp := range zone {
			positions[i] = pp.ChainPosition
		}
		sort.Ints(positions)
		for i, p := range positions {
			if p != i+1 {
				ids := make([]string, len(zone))
				for j, pp := range zone {
					ids[j] = pp.ID
				}
				r.add(KindChainGap, ids, "%s positions %v are not 1..%d", loc, positions, len(zone))
				break
			}
		}
	}
	for _, pp := range chain.Unchained {
		if pp.ChainPosition != 0 {
			r.add(KindChainGap, []string{pp.ID}, "unchained pedal %s has chain position %d", pp.ID, pp.ChainPosition)
		}
	}
}

// checkCables verifies each cable ends exactly on its endpoints and, unless it
// is already flagged as a defect, avoids every pedal outside its own cluster.
func (v *Validator) checkCables(r *report, s Snapshot) {
	anchors := connections.NewAnchors(s.Placed, s.Catalog, s.Board, v.cfg.Routing.ExternalOffset)
	for _, c := range s.Cables {
		if c.Defect {
			r.add(KindPathDefect, []string{c.ID}, "cable %s -> %s uses the emergency route", c.From, c.To)
		}
		from, okFrom := anchors.Resolve(c.From)
		to, okTo := anchors.Resolve(c.To)
		if !okFrom || !okTo {
			r.add(KindPathEndpoint, []string{c.ID}, "cable %s -> %s has an unresolvable endpoint", c.From, c.To)
			continue
		}
		if len(c.Path) < 2 {
			r.add(KindPathEndpoint, []string{c.ID}, "cable %s -> %s has %d points", c.From, c.To, len(c.Path))
			continue
		}
		if first := c.Path[0]; !first.Equal(from.Point) {
			r.add(KindPathEndpoint, []string{c.ID}, "cable %s starts at %s, want %s", c.ID, first, from.Point)
		}
		if last := c.Path[len(c.Path)-1]; !last.Equal(to.Point) {
			r.add(KindPathEndpoint, []string{c.ID}, "cable %s ends at %s, want %s", c.ID, last, to.Point)
		}
		if c.Defect {
			continue
		}
		obs := pathfinding.NewObstacles(anchors.Boxes(), connections.Endpoints(from, to))
		if !pathfinding.PathClear(c.Path, obs.SegmentClear) {
			r.add(KindPathCrossing, []string{c.ID}, "cable %s -> %s crosses a pedal", c.From, c.To)
		}
	}
}

func (r *report) add(kind Kind, ids []string, format string, args ...interface{}) {
	*r = append(*r, ValidationError{
		Kind:    kind,
		IDs:     ids,
		Message: fmt.Sprintf(format, args...),
	})
}

// Summary renders errors one per line for logs and the CLI.
func Summary(errs []ValidationError) string {
	lines := make([]string, len(errs))
	for i, e := range errs {
		lines[i] = e.Error()
	}
	return strings.Join(lines, "\n")
}
