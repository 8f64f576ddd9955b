// Package layout positions pedals on a board to keep cable runs short and
// tidy. A deterministic seeding pass lays pedals out in chain order; a hill
// climbing pass then improves the layout with swaps and nudges.
package layout

import (
	"sort"

	"github.com/flanksource/commons/logger"
	"github.com/samber/lo"

	"pedalboard/collision"
	"pedalboard/config"
	"pedalboard/connections"
	"pedalboard/core"
	"pedalboard/metrics"
	"pedalboard/signalchain"
)

var log = logger.GetLogger("layout")

// Move kinds reported to the recorder.
const (
	MoveSwap      = "swap"
	MoveNudge     = "nudge"
	MoveReorder   = "reorder"
	MoveReorderAt = "reorder+swap"
)

// Problem is one layout request.
type Problem struct {
	Board   core.Board
	Placed  []core.PlacedPedal
	Routing core.RoutingConfig
	Context signalchain.Context
}

// Result is an optimized layout. Placed holds every input placement with its
// new position and the chain position and zone of the final chain; inactive
// placements are unchanged. Positions lists the active placements by id.
type Result struct {
	Placed    []core.PlacedPedal `json:"placed" yaml:"placed"`
	Positions []core.Position    `json:"positions" yaml:"positions"`
	Chain     signalchain.Result `json:"chain" yaml:"chain"`
	Cables    []core.Cable       `json:"cables" yaml:"cables"`
	Cost      Breakdown          `json:"cost" yaml:"cost"`
	Passes    int                `json:"passes" yaml:"passes"`
	Moves     int                `json:"moves" yaml:"moves"`
}

// Optimizer runs layout searches. It holds no per-run state.
type Optimizer struct {
	cfg     config.Config
	catalog core.Catalog
	rec     metrics.Recorder
	chain   *signalchain.Engine
	checker *collision.Checker
	cables  *connections.Router
}

// NewOptimizer creates an optimizer. A nil recorder drops events.
func NewOptimizer(cfg config.Config, catalog core.Catalog, rec metrics.Recorder) *Optimizer {
	rec = metrics.OrNoop(rec)
	return &Optimizer{
		cfg:     cfg,
		catalog: catalog,
		rec:     rec,
		chain:   signalchain.NewEngine(),
		checker: collision.NewChecker(cfg.Collision, catalog),
		cables:  connections.NewRouter(cfg, catalog, rec),
	}
}

// WithChainEngine replaces the signal chain engine used to order pedals.
func (o *Optimizer) WithChainEngine(e *signalchain.Engine) *Optimizer {
	o.chain = e
	return o
}

// Optimize seeds a layout in chain order and improves it by hill climbing.
// The chain order is left unchanged.
func (o *Optimizer) Optimize(p Problem) Result {
	return o.run(p, false)
}

// OptimizeJoint is Optimize that may also swap the chain order of adjacent
// interchangeable pedals when that shortens the wiring.
func (o *Optimizer) OptimizeJoint(p Problem) Result {
	return o.run(p, true)
}

// Evaluate scores a layout as it stands.
func (o *Optimizer) Evaluate(p Problem) (Breakdown, []core.Cable) {
	chain := o.chain.Compute(p.Placed, o.catalog, p.Context)
	placed := applyChain(p.Placed, chain)
	links := connections.Plan(chain, o.catalog, p.Routing, p.Context.AmpHasEffectsLoop)
	return o.evaluate(links, placed, p.Board)
}

func (o *Optimizer) run(p Problem, joint bool) Result {
	chain := o.chain.Compute(p.Placed, o.catalog, p.Context)
	placed := o.seed(applyChain(p.Placed, chain), chain, p.Board)

	s := &search{
		o:       o,
		board:   p.Board,
		routing: p.Routing,
		loopOK:  p.Context.AmpHasEffectsLoop,
		placed:  placed,
		chain:   chain,
		joint:   joint,
	}
	s.run()

	res := Result{
		Placed: s.placed,
		Chain:  s.chain,
		Cables: s.cables,
		Cost:   s.cost,
		Passes: s.passes,
		Moves:  s.moves,
	}
	for _, pp := range s.placed {
		if pp.IsActive {
			res.Positions = append(res.Positions, core.Position{ID: pp.ID, X: pp.X, Y: pp.Y})
		}
	}
	sort.Slice(res.Positions, func(i, j int) bool { return res.Positions[i].ID < res.Positions[j].ID })
	log.Debugf("layout settled after %d passes and %d moves, cost %.2f", res.Passes, res.Moves, res.Cost.Total)
	return res
}

// applyChain copies placements, taking chain position and zone from chain.
func applyChain(placed []core.PlacedPedal, chain signalchain.Result) []core.PlacedPedal {
	byID := lo.KeyBy(append(append([]core.PlacedPedal(nil), chain.Ordered...), chain.Unchained...),
		func(pp core.PlacedPedal) string { return pp.ID })
	out := make([]core.PlacedPedal, len(placed))
	for i, pp := range placed {
		if c, ok := byID[pp.ID]; ok {
			pp.ChainPosition = c.ChainPosition
			pp.Location = c.Location
		}
		out[i] = pp
	}
	return out
}
