package signalchain

import (
	"sort"

	"github.com/samber/lo"

	"pedalboard/core"
)

// DefaultOrder is the position of each category in a conventional chain.
// Lower values sit closer to the guitar.
var DefaultOrder = map[core.Category]int{
	core.CategoryTuner:      10,
	core.CategoryFilter:     20,
	core.CategoryCompressor: 30,
	core.CategoryPitch:      40,
	core.CategoryFuzz:       50,
	core.CategoryBoost:      60,
	core.CategoryOverdrive:  70,
	core.CategoryDistortion: 80,
	core.CategoryNoiseGate:  90,
	core.CategoryEQ:         100,
	core.CategoryPreamp:     110,
	core.CategoryMultiFX:    115,
	core.CategoryModulation: 120,
	core.CategoryTremolo:    130,
	core.CategoryVolume:     140,
	core.CategoryDelay:      150,
	core.CategoryReverb:     160,
	core.CategoryLooper:     170,
	core.CategoryUtility:    180,
	core.CategoryPower:      190,
}

// RuleKind selects how the interpreter applies a rule.
type RuleKind int

const (
	// MoveToFront moves matching pedals to the start of the chain, keeping
	// their relative order.
	MoveToFront RuleKind = iota
	// MoveAfterLast moves matching pedals to just after the last pedal whose
	// category is in Anchor. Without an anchor the list is unchanged.
	MoveAfterLast
	// AssignZone puts matching pedals that are still in front of the amp into
	// Zone. With Limit > 0 only that many matches move, chosen by id.
	AssignZone
	// MoveToEnd moves matching pedals to the end of the chain.
	MoveToEnd
)

func (k RuleKind) String() string {
	switch k {
	case MoveToFront:
		return "move-to-front"
	case MoveAfterLast:
		return "move-after-last"
	case AssignZone:
		return "assign-zone"
	case MoveToEnd:
		return "move-to-end"
	}
	return "unknown"
}

// Condition gates a rule on the routing context.
type Condition int

const (
	Always Condition = iota
	WhenEffectsLoop
	WhenModulationInLoop
	WhenFourCable
)

// Holds reports whether the condition is met.
func (c Condition) Holds(ctx Context) bool {
	switch c {
	case WhenEffectsLoop:
		return ctx.loopActive()
	case WhenModulationInLoop:
		return ctx.loopActive() && ctx.ModulationInLoop
	case WhenFourCable:
		return ctx.Use4CableMethod
	}
	return true
}

// Match selects the pedals a rule acts on. A pedal matches when its category
// is listed or any of the set flags is true on the pedal.
type Match struct {
	Categories        []core.Category
	NeedsDirectPickup bool
	Supports4Cable    bool
}

func (m Match) matches(p core.Pedal) bool {
	if lo.Contains(m.Categories, p.Category) {
		return true
	}
	if m.NeedsDirectPickup && p.NeedsDirectPickup {
		return true
	}
	if m.Supports4Cable && p.Supports4Cable {
		return true
	}
	return false
}

// Rule is one ordering rule. Rules are plain data; the interpreter in apply
// gives them meaning.
type Rule struct {
	Name     string
	Priority int
	Kind     RuleKind
	Requires Condition
	Match    Match
	Anchor   []core.Category
	Zone     core.Location
	Limit    int
}

// DefaultRules returns the stock rule set.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:     "direct-pickup-first",
			Priority: 100,
			Kind:     MoveToFront,
			Match:    Match{NeedsDirectPickup: true},
		},
		{
			Name:     "four-cable-hub",
			Priority: 90,
			Kind:     AssignZone,
			Requires: WhenFourCable,
			Match:    Match{Supports4Cable: true},
			Zone:     core.LocationFourCableHub,
			Limit:    1,
		},
		{
			Name:     "noise-gate-after-drive",
			Priority: 80,
			Kind:     MoveAfterLast,
			Match:    Match{Categories: []core.Category{core.CategoryNoiseGate}},
			Anchor:   []core.Category{core.CategoryOverdrive, core.CategoryDistortion, core.CategoryFuzz},
		},
		{
			Name:     "time-based-to-loop",
			Priority: 70,
			Kind:     AssignZone,
			Requires: WhenEffectsLoop,
			Match:    Match{Categories: []core.Category{core.CategoryDelay, core.CategoryReverb}},
			Zone:     core.LocationEffectsLoop,
		},
		{
			Name:     "modulation-to-loop",
			Priority: 65,
			Kind:     AssignZone,
			Requires: WhenModulationInLoop,
			Match:    Match{Categories: []core.Category{core.CategoryModulation, core.CategoryTremolo}},
			Zone:     core.LocationEffectsLoop,
		},
		{
			Name:     "looper-last",
			Priority: 60,
			Kind:     MoveToEnd,
			Match:    Match{Categories: []core.Category{core.CategoryLooper}},
		},
	}
}

// sortRules orders rules by descending priority, ties by name.
func sortRules(rules []Rule) []Rule {
	out := append([]Rule(nil), rules...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// apply runs one rule over the chain and returns the new chain.
func apply(r Rule, chain []entry) []entry {
	switch r.Kind {
	case MoveToFront:
		matched, rest := partition(chain, r.Match)
		return append(matched, rest...)

	case MoveToEnd:
		matched, rest := partition(chain, r.Match)
		return append(rest, matched...)

	case MoveAfterLast:
		matched, rest := partition(chain, r.Match)
		if len(matched) == 0 {
			return chain
		}
		last := -1
		for i, e := range rest {
			if lo.Contains(r.Anchor, e.pedal.Category) {
				last = i
			}
		}
		if last < 0 {
			return chain
		}
		out := make([]entry, 0, len(chain))
		out = append(out, rest[:last+1]...)
		out = append(out, matched...)
		return append(out, rest[last+1:]...)

	case AssignZone:
		candidates := lo.Filter(chain, func(e entry, _ int) bool {
			return e.zone == core.LocationFrontOfAmp && r.Match.matches(e.pedal)
		})
		ids := lo.Map(candidates, func(e entry, _ int) string { return e.placed.ID })
		sort.Strings(ids)
		if r.Limit > 0 && len(ids) > r.Limit {
			ids = ids[:r.Limit]
		}
		out := make([]entry, len(chain))
		for i, e := range chain {
			if lo.Contains(ids, e.placed.ID) {
				e.zone = r.Zone
			}
			out[i] = e
		}
		return out
	}
	return chain
}

func partition(chain []entry, m Match) (matched, rest []entry) {
	for _, e := range chain {
		if m.matches(e.pedal) {
			matched = append(matched, e)
		} else {
			rest = append(rest, e)
		}
	}
	return matched, rest
}
