// Package pedalboard lays out guitar pedalboards. Given a board, a pedal
// catalog and the pedals placed on the board, it orders the signal chain,
// finds collisions, optimizes positions and routes every patch cable between
// exact jack coordinates.
//
// The Engine is stateless between calls apart from its configuration and
// metrics recorder, so one Engine may serve concurrent callers.
package pedalboard

import (
	"github.com/flanksource/commons/logger"
	"github.com/samber/lo"

	"pedalboard/collision"
	"pedalboard/config"
	"pedalboard/connections"
	"pedalboard/core"
	"pedalboard/export"
	"pedalboard/geometry"
	"pedalboard/layout"
	"pedalboard/metrics"
	"pedalboard/signalchain"
	"pedalboard/validation"
)

// OptimizeMode selects how Recompute treats positions.
type OptimizeMode string

const (
	// OptimizeNone keeps the placements where they are.
	OptimizeNone OptimizeMode = ""
	// OptimizeLayout moves pedals but keeps the chain order.
	OptimizeLayout OptimizeMode = "layout"
	// OptimizeJoint moves pedals and may reorder interchangeable neighbours.
	OptimizeJoint OptimizeMode = "joint"
)

// Engine exposes the layout and wiring operations.
type Engine struct {
	cfg   config.Config
	rec   metrics.Recorder
	log   logger.Logger
	rules []signalchain.Rule
}

// Option configures an Engine.
type Option func(*Engine)

// WithRecorder sends routing and optimizer events to rec.
func WithRecorder(rec metrics.Recorder) Option {
	return func(e *Engine) { e.rec = rec }
}

// WithLogger replaces the engine's logger.
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithRules replaces the default chain ordering rules.
func WithRules(rules ...signalchain.Rule) Option {
	return func(e *Engine) { e.rules = rules }
}

// New creates an engine. The configuration is validated once here.
func New(cfg config.Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{cfg: cfg, log: logger.GetLogger("pedalboard")}
	for _, opt := range opts {
		opt(e)
	}
	e.rec = metrics.OrNoop(e.rec)
	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() config.Config {
	return e.cfg
}

func (e *Engine) chain() *signalchain.Engine {
	return signalchain.NewEngine(e.rules...)
}

// ComputeSignalChain orders the active pedals into front-of-amp, four cable
// and effects loop zones and reports warnings and suggestions.
func (e *Engine) ComputeSignalChain(placed []core.PlacedPedal, catalog core.Catalog, ctx signalchain.Context) signalchain.Result {
	return e.chain().Compute(placed, catalog, ctx)
}

// DetectCollisions returns every overlapping pair of active placements.
func (e *Engine) DetectCollisions(placed []core.PlacedPedal, catalog core.Catalog) []core.Collision {
	return collision.NewChecker(e.cfg.Collision, catalog).Detect(placed)
}

// OutOfBounds returns the active placements that leave the board.
func (e *Engine) OutOfBounds(placed []core.PlacedPedal, catalog core.Catalog, board core.Board) []core.BoundsViolation {
	return collision.NewChecker(e.cfg.Collision, catalog).OutOfBounds(placed, board)
}

// OptimizeLayout repositions the active pedals to shorten and untangle the
// cables. With joint set it may also swap the chain order of adjacent pedals
// of the same category.
func (e *Engine) OptimizeLayout(p layout.Problem, catalog core.Catalog, joint bool) layout.Result {
	o := layout.NewOptimizer(e.cfg, catalog, e.rec).WithChainEngine(e.chain())
	if joint {
		return o.OptimizeJoint(p)
	}
	return o.Optimize(p)
}

// RouteCables derives the cables for the current chain and routes each one
// around the pedals on the board.
func (e *Engine) RouteCables(board core.Board, placed []core.PlacedPedal, catalog core.Catalog, routing core.RoutingConfig, ctx signalchain.Context) []core.Cable {
	chain := e.ComputeSignalChain(placed, catalog, ctx)
	return e.route(board, placed, catalog, routing, ctx, chain)
}

func (e *Engine) route(board core.Board, placed []core.PlacedPedal, catalog core.Catalog, routing core.RoutingConfig, ctx signalchain.Context, chain signalchain.Result) []core.Cable {
	links := connections.Plan(chain, catalog, routing, ctx.AmpHasEffectsLoop)
	return connections.NewRouter(e.cfg, catalog, e.rec).RouteLinks(links, placed, board)
}

// FindEmptySpot returns a free top-left corner for a new pedal that would sit
// at chainPos in the chain. It is false when the board has no room.
func (e *Engine) FindEmptySpot(pedal core.Pedal, rotation int, placed []core.PlacedPedal, catalog core.Catalog, board core.Board, chainPos int) (geometry.Point, bool) {
	total := lo.CountBy(placed, func(pp core.PlacedPedal) bool { return pp.IsActive }) + 1
	return collision.NewChecker(e.cfg.Collision, catalog).FindEmptySpot(pedal, rotation, chainPos, total, placed, board)
}

// DropPedal places a new pedal dropped at pp's coordinates. The drop snaps
// onto a nearby rail and is kept when the result is free; otherwise the
// pedal moves to the empty spot for chainPos. It is false when the board has
// no room.
func (e *Engine) DropPedal(pp core.PlacedPedal, placed []core.PlacedPedal, catalog core.Catalog, board core.Board, chainPos int) (core.PlacedPedal, bool) {
	checker := collision.NewChecker(e.cfg.Collision, catalog)
	if snapped, moved := checker.SnapToRail(pp, board); moved && checker.IsValidPlacement(snapped, placed, board) {
		return snapped, true
	}
	if checker.IsValidPlacement(pp, placed, board) {
		return pp, true
	}
	pedal, ok := catalog.Lookup(pp.PedalID)
	if !ok {
		return pp, false
	}
	spot, ok := e.FindEmptySpot(pedal, pp.RotationDegrees, placed, catalog, board, chainPos)
	if !ok {
		return pp, false
	}
	e.log.Debugf("drop of %s at (%.2f, %.2f) is blocked; moved to %s", pp.ID, pp.X, pp.Y, spot)
	pp.X, pp.Y = spot.X, spot.Y
	return pp, true
}

// Input is one full recompute request.
type Input struct {
	Board    core.Board
	Catalog  core.Catalog
	Placed   []core.PlacedPedal
	Routing  core.RoutingConfig
	Context  signalchain.Context
	Optimize OptimizeMode
}

// Output is the result of Recompute. Placed carries the final positions with
// chain positions and zones applied. Cost is set only when the layout was
// optimized.
type Output struct {
	Chain       signalchain.Result           `json:"chain" yaml:"chain"`
	Placed      []core.PlacedPedal           `json:"placed" yaml:"placed"`
	Positions   []core.Position              `json:"positions,omitempty" yaml:"positions,omitempty"`
	Collisions  []core.Collision             `json:"collisions,omitempty" yaml:"collisions,omitempty"`
	OutOfBounds []core.BoundsViolation       `json:"outOfBounds,omitempty" yaml:"outOfBounds,omitempty"`
	Cables      []core.Cable                 `json:"cables" yaml:"cables"`
	Cost        *layout.Breakdown            `json:"cost,omitempty" yaml:"cost,omitempty"`
	Errors      []validation.ValidationError `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// Recompute runs the whole pipeline: chain, optional layout optimization,
// collisions, cable routing and a final invariant check.
func (e *Engine) Recompute(in Input) Output {
	var out Output

	switch in.Optimize {
	case OptimizeLayout, OptimizeJoint:
		res := e.OptimizeLayout(layout.Problem{
			Board:   in.Board,
			Placed:  in.Placed,
			Routing: in.Routing,
			Context: in.Context,
		}, in.Catalog, in.Optimize == OptimizeJoint)
		out.Chain, out.Placed, out.Positions = res.Chain, res.Placed, res.Positions
		out.Cost = &res.Cost
	default:
		if in.Optimize != OptimizeNone {
			e.log.Warnf("unknown optimize mode %q, keeping positions", in.Optimize)
		}
		out.Chain = e.ComputeSignalChain(in.Placed, in.Catalog, in.Context)
		out.Placed = withChain(in.Placed, out.Chain)
	}

	out.Collisions = e.DetectCollisions(out.Placed, in.Catalog)
	out.OutOfBounds = e.OutOfBounds(out.Placed, in.Catalog, in.Board)
	out.Cables = e.route(in.Board, out.Placed, in.Catalog, in.Routing, in.Context, out.Chain)

	out.Errors = validation.NewValidator(e.cfg).Validate(validation.Snapshot{
		Board:   in.Board,
		Catalog: in.Catalog,
		Placed:  out.Placed,
		Chain:   out.Chain,
		Cables:  out.Cables,
	})
	if len(out.Errors) > 0 {
		e.log.Debugf("recompute finished with %d invariant violations:\n%s", len(out.Errors), validation.Summary(out.Errors))
	}
	e.log.Debugf("recompute: %d chained, %d cables, %d collisions", len(out.Chain.Ordered), len(out.Cables), len(out.Collisions))
	return out
}

// Document packages the output for export.
func (o Output) Document(board core.Board, catalog core.Catalog) *export.Document {
	return &export.Document{
		Board:       board,
		Catalog:     catalog,
		Placed:      o.Placed,
		Chain:       o.Chain,
		Cables:      o.Cables,
		Collisions:  o.Collisions,
		OutOfBounds: o.OutOfBounds,
		Errors:      o.Errors,
	}
}

// withChain copies placements, taking chain position and zone from chain.
func withChain(placed []core.PlacedPedal, chain signalchain.Result) []core.PlacedPedal {
	byID := lo.KeyBy(append(append([]core.PlacedPedal(nil), chain.Ordered...), chain.Unchained...),
		func(pp core.PlacedPedal) string { return pp.ID })
	return lo.Map(placed, func(pp core.PlacedPedal, _ int) core.PlacedPedal {
		if c, ok := byID[pp.ID]; ok {
			pp.ChainPosition, pp.Location = c.ChainPosition, c.Location
		}
		return pp
	})
}
