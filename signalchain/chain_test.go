package signalchain

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pedalboard/core"
)

func intPtr(v int) *int { return &v }

func testCatalog() core.Catalog {
	return core.NewCatalog([]core.Pedal{
		{ID: "tuner", Name: "Tuner", Category: core.CategoryTuner, WidthInches: 2.9, DepthInches: 5.1, Buffered: true},
		{ID: "fuzz", Name: "Fuzz Face", Category: core.CategoryFuzz, WidthInches: 4, DepthInches: 4, NeedsDirectPickup: true},
		{ID: "od", Name: "Tube Screamer", Category: core.CategoryOverdrive, WidthInches: 2.9, DepthInches: 5},
		{ID: "dist", Name: "Rat", Category: core.CategoryDistortion, WidthInches: 3, DepthInches: 5},
		{ID: "gate", Name: "Gate", Category: core.CategoryNoiseGate, WidthInches: 2.9, DepthInches: 5},
		{ID: "chorus", Name: "Chorus", Category: core.CategoryModulation, WidthInches: 2.9, DepthInches: 5},
		{ID: "delay", Name: "Delay", Category: core.CategoryDelay, WidthInches: 2.9, DepthInches: 5},
		{ID: "reverb", Name: "Reverb", Category: core.CategoryReverb, WidthInches: 2.9, DepthInches: 5},
		{ID: "looper", Name: "Looper", Category: core.CategoryLooper, WidthInches: 2.9, DepthInches: 5},
		{ID: "psu", Name: "Power", Category: core.CategoryPower, WidthInches: 6, DepthInches: 3},
		{ID: "hub", Name: "Switcher", Category: core.CategoryMultiFX, WidthInches: 8, DepthInches: 4, Supports4Cable: true},
		{ID: "late-drive", Name: "Late Drive", Category: core.CategoryOverdrive, WidthInches: 2.9, DepthInches: 5, OrderOverride: intPtr(155)},
	})
}

func place(id, pedalID string, pos int) core.PlacedPedal {
	return core.PlacedPedal{ID: id, PedalID: pedalID, ChainPosition: pos, IsActive: true}
}

func positions(res Result, loc core.Location) map[string]int {
	out := map[string]int{}
	for _, pp := range res.Zone(loc) {
		out[pp.ID] = pp.ChainPosition
	}
	return out
}

func ids(pps []core.PlacedPedal) []string {
	return lo.Map(pps, func(pp core.PlacedPedal, _ int) string { return pp.ID })
}

func assertContiguous(t *testing.T, res Result) {
	t.Helper()
	for _, loc := range core.Locations {
		zone := res.Zone(loc)
		for i, pp := range zone {
			assert.Equal(t, i+1, pp.ChainPosition, "zone %s position of %s", loc, pp.ID)
		}
	}
	for _, pp := range res.Unchained {
		assert.Zero(t, pp.ChainPosition, "unchained %s", pp.ID)
	}
}

func TestCompute_NoiseGateFollowsLastDrive(t *testing.T) {
	placed := []core.PlacedPedal{
		place("g", "gate", 1),
		place("d1", "dist", 2),
		place("d2", "dist", 3),
		place("t", "tuner", 4),
	}
	res := NewEngine().Compute(placed, testCatalog(), Context{})

	assert.Equal(t, []string{"t", "d1", "d2", "g"}, ids(res.Ordered))
	pos := positions(res, core.LocationFrontOfAmp)
	assert.Equal(t, pos["d2"]+1, pos["g"])
	assertContiguous(t, res)
}

func TestCompute_NoiseGateAfterOverriddenDrive(t *testing.T) {
	placed := []core.PlacedPedal{
		place("g", "gate", 1),
		place("late", "late-drive", 2),
		place("dl", "delay", 3),
	}
	res := NewEngine().Compute(placed, testCatalog(), Context{})

	// the override puts the drive after the delay; the gate follows it there
	assert.Equal(t, []string{"dl", "late", "g"}, ids(res.Ordered))
}

func TestCompute_Ordering(t *testing.T) {
	tests := []struct {
		name  string
		ctx   Context
		front []string
		hub   []string
		loop  []string
	}{
		{
			name:  "everything in front",
			ctx:   Context{},
			front: []string{"f", "t", "o", "g", "c", "dl", "rv", "lp"},
		},
		{
			name:  "loop requested without amp loop",
			ctx:   Context{UseEffectsLoop: true},
			front: []string{"f", "t", "o", "g", "c", "dl", "rv", "lp"},
		},
		{
			name:  "time based in loop",
			ctx:   Context{AmpHasEffectsLoop: true, UseEffectsLoop: true},
			front: []string{"f", "t", "o", "g", "c", "lp"},
			loop:  []string{"dl", "rv"},
		},
		{
			name:  "modulation in loop",
			ctx:   Context{AmpHasEffectsLoop: true, UseEffectsLoop: true, ModulationInLoop: true},
			front: []string{"f", "t", "o", "g", "lp"},
			loop:  []string{"c", "dl", "rv"},
		},
		{
			name:  "modulation flag ignored without loop",
			ctx:   Context{AmpHasEffectsLoop: true, ModulationInLoop: true},
			front: []string{"f", "t", "o", "g", "c", "dl", "rv", "lp"},
		},
	}

	placed := []core.PlacedPedal{
		place("lp", "looper", 1),
		place("rv", "reverb", 2),
		place("dl", "delay", 3),
		place("c", "chorus", 4),
		place("g", "gate", 5),
		place("o", "od", 6),
		place("t", "tuner", 7),
		place("f", "fuzz", 8),
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewEngine().Compute(placed, testCatalog(), tt.ctx)
			assert.Equal(t, tt.front, ids(res.Zone(core.LocationFrontOfAmp)))
			assert.Equal(t, tt.hub, nilIfEmpty(ids(res.Zone(core.LocationFourCableHub))))
			assert.Equal(t, tt.loop, nilIfEmpty(ids(res.Zone(core.LocationEffectsLoop))))
			assertContiguous(t, res)
		})
	}
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

func TestCompute_FourCableHub(t *testing.T) {
	placed := []core.PlacedPedal{
		place("hub-b", "hub", 1),
		place("hub-a", "hub", 2),
		place("o", "od", 3),
		place("dl", "delay", 4),
	}
	ctx := Context{AmpHasEffectsLoop: true, UseEffectsLoop: true, Use4CableMethod: true}
	res := NewEngine().Compute(placed, testCatalog(), ctx)

	assert.Equal(t, []string{"hub-a"}, ids(res.Zone(core.LocationFourCableHub)))
	assert.Equal(t, []string{"o", "hub-b"}, ids(res.Zone(core.LocationFrontOfAmp)))
	assert.Equal(t, []string{"dl"}, ids(res.Zone(core.LocationEffectsLoop)))
	assert.Empty(t, lo.Filter(res.Warnings, func(m Message, _ int) bool { return m.Code == WarnNoFourCablePedal }))
	assertContiguous(t, res)
}

func TestCompute_Idempotent(t *testing.T) {
	contexts := []Context{
		{},
		{AmpHasEffectsLoop: true, UseEffectsLoop: true},
		{AmpHasEffectsLoop: true, UseEffectsLoop: true, ModulationInLoop: true, Use4CableMethod: true},
	}
	placed := []core.PlacedPedal{
		place("g", "gate", 1),
		place("hub-b", "hub", 2),
		place("d1", "dist", 3),
		place("lp", "looper", 4),
		place("f", "fuzz", 5),
		place("hub-a", "hub", 6),
		place("c", "chorus", 7),
		place("late", "late-drive", 8),
		place("dl", "delay", 9),
		place("p", "psu", 10),
		place("d2", "dist", 11),
		place("f2", "fuzz", 12),
	}

	engine := NewEngine()
	for _, ctx := range contexts {
		first := engine.Compute(placed, testCatalog(), ctx)
		again := append(append([]core.PlacedPedal(nil), first.Ordered...), first.Unchained...)
		second := engine.Compute(again, testCatalog(), ctx)

		assert.Equal(t, first.Ordered, second.Ordered, "context %+v", ctx)
		assert.Equal(t, first.Unchained, second.Unchained, "context %+v", ctx)
		assertContiguous(t, first)
	}
}

func TestCompute_InactiveAndPowerUnchained(t *testing.T) {
	off := place("o2", "od", 2)
	off.IsActive = false
	placed := []core.PlacedPedal{place("o", "od", 1), off, place("p", "psu", 3)}

	res := NewEngine().Compute(placed, testCatalog(), Context{})

	assert.Equal(t, []string{"o"}, ids(res.Ordered))
	assert.ElementsMatch(t, []string{"o2", "p"}, ids(res.Unchained))
	assertContiguous(t, res)
}

func TestCompute_UnknownPedalTreatedAsUtility(t *testing.T) {
	placed := []core.PlacedPedal{place("x", "missing", 1), place("dl", "delay", 2)}
	res := NewEngine().Compute(placed, testCatalog(), Context{})
	assert.Equal(t, []string{"dl", "x"}, ids(res.Ordered))
}

func TestCompute_InputNotMutated(t *testing.T) {
	placed := []core.PlacedPedal{place("g", "gate", 1), place("d", "dist", 2)}
	before := append([]core.PlacedPedal(nil), placed...)
	NewEngine().Compute(placed, testCatalog(), Context{AmpHasEffectsLoop: true, UseEffectsLoop: true})
	assert.Equal(t, before, placed)
}

func TestCompute_Warnings(t *testing.T) {
	codes := func(ms []Message) []string {
		return lo.Map(ms, func(m Message, _ int) string { return m.Code })
	}

	t.Run("gain before delay without gate", func(t *testing.T) {
		res := NewEngine().Compute([]core.PlacedPedal{place("d", "dist", 1), place("dl", "delay", 2)}, testCatalog(), Context{})
		require.Contains(t, codes(res.Warnings), WarnGainBeforeDelayNoGate)
	})

	t.Run("gate silences gain warning", func(t *testing.T) {
		res := NewEngine().Compute([]core.PlacedPedal{place("d", "dist", 1), place("g", "gate", 2), place("dl", "delay", 3)}, testCatalog(), Context{})
		assert.NotContains(t, codes(res.Warnings), WarnGainBeforeDelayNoGate)
	})

	t.Run("direct pickup after buffer", func(t *testing.T) {
		rules := lo.Filter(DefaultRules(), func(r Rule, _ int) bool { return r.Name != "direct-pickup-first" })
		res := NewEngine(rules...).Compute([]core.PlacedPedal{place("f", "fuzz", 1), place("t", "tuner", 2)}, testCatalog(), Context{})
		require.Equal(t, []string{"t", "f"}, ids(res.Ordered))
		assert.Contains(t, codes(res.Warnings), WarnFuzzAfterBuffer)
	})

	t.Run("direct pickup rule avoids buffer warning", func(t *testing.T) {
		res := NewEngine().Compute([]core.PlacedPedal{place("f", "fuzz", 1), place("t", "tuner", 2)}, testCatalog(), Context{})
		assert.Equal(t, []string{"f", "t"}, ids(res.Ordered))
		assert.NotContains(t, codes(res.Warnings), WarnFuzzAfterBuffer)
	})

	t.Run("loop unavailable", func(t *testing.T) {
		res := NewEngine().Compute([]core.PlacedPedal{place("dl", "delay", 1)}, testCatalog(), Context{UseEffectsLoop: true})
		assert.Contains(t, codes(res.Warnings), WarnLoopUnavailable)
	})

	t.Run("four cable without pedal", func(t *testing.T) {
		res := NewEngine().Compute([]core.PlacedPedal{place("o", "od", 1)}, testCatalog(), Context{Use4CableMethod: true})
		assert.Contains(t, codes(res.Warnings), WarnNoFourCablePedal)
	})
}

func TestCompute_Suggestions(t *testing.T) {
	codes := func(ms []Message) []string {
		return lo.Map(ms, func(m Message, _ int) string { return m.Code })
	}

	res := NewEngine().Compute([]core.PlacedPedal{place("dl", "delay", 1)}, testCatalog(), Context{AmpHasEffectsLoop: true})
	assert.Contains(t, codes(res.Suggestions), SuggestUnusedLoop)

	res = NewEngine().Compute([]core.PlacedPedal{place("d1", "dist", 1), place("f", "fuzz", 2)}, testCatalog(), Context{})
	assert.Contains(t, codes(res.Suggestions), SuggestNoiseGate)

	res = NewEngine().Compute([]core.PlacedPedal{place("t", "tuner", 1), place("c", "chorus", 2)}, testCatalog(), Context{})
	assert.NotContains(t, codes(res.Suggestions), SuggestTunerFirst)
}

func TestSortRules(t *testing.T) {
	rules := NewEngine().Rules()
	require.Len(t, rules, len(DefaultRules()))
	for i := 1; i < len(rules); i++ {
		assert.GreaterOrEqual(t, rules[i-1].Priority, rules[i].Priority)
	}
	assert.Equal(t, "direct-pickup-first", rules[0].Name)
	assert.Equal(t, "looper-last", rules[len(rules)-1].Name)
}
