// Package signalchain decides the electrical order of the pedals on a board and
// the routing zone each one belongs to.
package signalchain

import (
	"sort"

	"github.com/flanksource/commons/logger"
	"github.com/samber/lo"

	"pedalboard/core"
)

var log = logger.GetLogger("signalchain")

// Context carries the amp and routing switches that rules depend on.
type Context struct {
	AmpHasEffectsLoop bool `json:"ampHasEffectsLoop" yaml:"ampHasEffectsLoop"`
	UseEffectsLoop    bool `json:"useEffectsLoop" yaml:"useEffectsLoop"`
	Use4CableMethod   bool `json:"use4CableMethod" yaml:"use4CableMethod"`
	ModulationInLoop  bool `json:"modulationInLoop" yaml:"modulationInLoop"`
}

func (c Context) loopActive() bool {
	return c.AmpHasEffectsLoop && c.UseEffectsLoop
}

// Message is a warning or suggestion about the computed chain.
type Message struct {
	Code     string   `json:"code" yaml:"code"`
	Text     string   `json:"text" yaml:"text"`
	PedalIDs []string `json:"pedalIds,omitempty" yaml:"pedalIds,omitempty"`
}

// Result is the outcome of a chain computation. Ordered holds the chained
// placements sorted by zone then chain position. Unchained holds inactive
// placements and power supplies, which keep a chain position of zero.
type Result struct {
	Ordered     []core.PlacedPedal `json:"ordered" yaml:"ordered"`
	Unchained   []core.PlacedPedal `json:"unchained,omitempty" yaml:"unchained,omitempty"`
	Warnings    []Message          `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Suggestions []Message          `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}

// Zone returns the ordered placements belonging to loc.
func (r Result) Zone(loc core.Location) []core.PlacedPedal {
	return lo.Filter(r.Ordered, func(pp core.PlacedPedal, _ int) bool {
		return pp.Location == loc
	})
}

type entry struct {
	placed core.PlacedPedal
	pedal  core.Pedal
	order  int
	zone   core.Location
}

// Engine computes signal chains with a fixed rule set.
type Engine struct {
	rules []Rule
}

// NewEngine creates an engine. With no rules the default set is used.
func NewEngine(rules ...Rule) *Engine {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Engine{rules: sortRules(rules)}
}

// Rules returns the rules in evaluation order.
func (e *Engine) Rules() []Rule {
	return append([]Rule(nil), e.rules...)
}

// Compute orders the placements. The input slice is not modified.
func (e *Engine) Compute(placed []core.PlacedPedal, catalog core.Catalog, ctx Context) Result {
	var res Result

	chain := make([]entry, 0, len(placed))
	for _, pp := range placed {
		pedal, ok := catalog.Lookup(pp.PedalID)
		if !ok {
			log.Warnf("placed pedal %s references unknown catalog pedal %q; treating it as a utility", pp.ID, pp.PedalID)
			pedal = core.WithDefaultJacks(core.Pedal{ID: pp.PedalID, Category: core.CategoryUtility})
		}
		if !pp.IsActive || pedal.Category == core.CategoryPower {
			pp.ChainPosition = 0
			res.Unchained = append(res.Unchained, pp)
			continue
		}
		chain = append(chain, entry{placed: pp, pedal: pedal, order: orderOf(pedal), zone: core.LocationFrontOfAmp})
	}

	// Step 1: category order, ties broken by the previous position then id.
	sort.SliceStable(chain, func(i, j int) bool {
		a, b := chain[i], chain[j]
		if a.order != b.order {
			return a.order < b.order
		}
		if a.placed.ChainPosition != b.placed.ChainPosition {
			return a.placed.ChainPosition < b.placed.ChainPosition
		}
		return a.placed.ID < b.placed.ID
	})

	// Step 2: rules in priority order.
	for _, r := range e.rules {
		if !r.Requires.Holds(ctx) {
			continue
		}
		chain = apply(r, chain)
		log.Debugf("rule %s applied: %v", r.Name, chainIDs(chain))
	}

	// Steps 3 and 4: split by zone and renumber densely within each zone.
	counters := make(map[core.Location]int, len(core.Locations))
	for _, en := range chain {
		counters[en.zone]++
		pp := en.placed
		pp.Location = en.zone
		pp.ChainPosition = counters[en.zone]
		res.Ordered = append(res.Ordered, pp)
	}
	sort.SliceStable(res.Ordered, func(i, j int) bool {
		a, b := res.Ordered[i], res.Ordered[j]
		if a.Location.Rank() != b.Location.Rank() {
			return a.Location.Rank() < b.Location.Rank()
		}
		return a.ChainPosition < b.ChainPosition
	})

	// Step 5: advice.
	pedals := make(map[string]core.Pedal, len(chain))
	for _, en := range chain {
		pedals[en.placed.ID] = en.pedal
	}
	res.Warnings = warnings(res.Ordered, pedals, ctx)
	res.Suggestions = suggestions(res.Ordered, pedals, ctx)

	log.Debugf("signal chain computed: %d chained, %d unchained, %d warnings", len(res.Ordered), len(res.Unchained), len(res.Warnings))
	return res
}

func orderOf(p core.Pedal) int {
	if p.OrderOverride != nil {
		return *p.OrderOverride
	}
	if o, ok := DefaultOrder[p.Category]; ok {
		return o
	}
	return DefaultOrder[core.CategoryUtility]
}

func chainIDs(chain []entry) []string {
	return lo.Map(chain, func(e entry, _ int) string { return e.placed.ID })
}
