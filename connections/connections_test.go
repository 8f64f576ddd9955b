package connections

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pedalboard/config"
	"pedalboard/core"
	"pedalboard/geometry"
	"pedalboard/signalchain"
)

func testCatalog() core.Catalog {
	return core.NewCatalog([]core.Pedal{
		{
			ID: "a", Category: core.CategoryOverdrive, WidthInches: 3, DepthInches: 5,
			Jacks: []core.Jack{
				{Type: core.JackInput, Side: core.SideRight, PositionPercent: 50},
				{Type: core.JackOutput, Side: core.SideLeft, PositionPercent: 50},
				{Type: core.JackPower, Side: core.SideTop, PositionPercent: 50},
			},
		},
		{ID: "plain", Category: core.CategoryDelay, WidthInches: 3, DepthInches: 5},
		{
			ID: "switcher", Category: core.CategoryMultiFX, WidthInches: 8, DepthInches: 4, Supports4Cable: true,
			Jacks: []core.Jack{
				{Type: core.JackInput, Side: core.SideRight, PositionPercent: 50},
				{Type: core.JackOutput, Side: core.SideLeft, PositionPercent: 50},
				{Type: core.JackSend, Side: core.SideTop, PositionPercent: 25},
				{Type: core.JackReturn, Side: core.SideTop, PositionPercent: 75},
			},
		},
		{
			ID: "psu", Category: core.CategoryPower, WidthInches: 6, DepthInches: 3,
			Jacks: []core.Jack{{Type: core.JackPower, Side: core.SideTop, PositionPercent: 10}},
		},
	})
}

func pp(id, pedalID string, loc core.Location, pos int) core.PlacedPedal {
	return core.PlacedPedal{ID: id, PedalID: pedalID, Location: loc, ChainPosition: pos, IsActive: true}
}

func pairs(links []Link) []string {
	return lo.Map(links, func(l Link, _ int) string { return l.From.String() + ">" + l.To.String() })
}

func TestJackPosition_Rotation(t *testing.T) {
	pedal := core.Pedal{ID: "x", WidthInches: 3, DepthInches: 5}
	input := core.Jack{Type: core.JackInput, Side: core.SideRight, PositionPercent: 20}
	output := core.Jack{Type: core.JackOutput, Side: core.SideLeft, PositionPercent: 50}

	tests := []struct {
		rotation int
		input    geometry.Point
		output   geometry.Point
	}{
		{0, geometry.Pt(7, 5), geometry.Pt(4, 6.5)},
		{90, geometry.Pt(8, 7), geometry.Pt(6.5, 4)},
		{180, geometry.Pt(4, 8), geometry.Pt(7, 6.5)},
		{270, geometry.Pt(5, 4), geometry.Pt(6.5, 7)},
		{360, geometry.Pt(7, 5), geometry.Pt(4, 6.5)},
		{-90, geometry.Pt(5, 4), geometry.Pt(6.5, 7)},
	}
	for _, tt := range tests {
		placed := core.PlacedPedal{ID: "p", X: 4, Y: 4, RotationDegrees: tt.rotation}
		assert.InDeltaf(t, tt.input.X, JackPosition(placed, pedal, input).X, 1e-9, "input x at %d", tt.rotation)
		assert.InDeltaf(t, tt.input.Y, JackPosition(placed, pedal, input).Y, 1e-9, "input y at %d", tt.rotation)
		assert.InDeltaf(t, tt.output.X, JackPosition(placed, pedal, output).X, 1e-9, "output x at %d", tt.rotation)
		assert.InDeltaf(t, tt.output.Y, JackPosition(placed, pedal, output).Y, 1e-9, "output y at %d", tt.rotation)
	}
}

func TestExternalPosition(t *testing.T) {
	board := core.Board{WidthInches: 20, DepthInches: 12}
	assert.Equal(t, geometry.Pt(21, 6), ExternalPosition(core.ExternalGuitar, board, 1))
	assert.Equal(t, geometry.Pt(-1, 6), ExternalPosition(core.ExternalAmpInput, board, 1))
	assert.Equal(t, geometry.Pt(-1, 3), ExternalPosition(core.ExternalAmpSend, board, 1))
	assert.Equal(t, geometry.Pt(-1, 9), ExternalPosition(core.ExternalAmpReturn, board, 1))
}

func TestRoundLength(t *testing.T) {
	stock := config.Default().Cables.StockLengths
	tests := []struct {
		required, want float64
	}{
		{0.5, 6},
		{6, 6},
		{6.01, 12},
		{16, 18},
		{119, 120},
		{121, 132},
		{144, 144},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RoundLength(tt.required, stock, 12), "required %v", tt.required)
	}
}

func TestCableID_Deterministic(t *testing.T) {
	from := core.ExternalEndpoint(core.ExternalGuitar)
	to := core.JackEndpoint("a", core.JackInput)
	assert.Equal(t, CableID(from, to), CableID(from, to))
	assert.NotEqual(t, CableID(from, to), CableID(to, from))
}

func TestPlan(t *testing.T) {
	cat := testCatalog()
	front := core.LocationFrontOfAmp
	loop := core.LocationEffectsLoop
	hub := core.LocationFourCableHub

	tests := []struct {
		name    string
		chain   signalchain.Result
		routing core.RoutingConfig
		loopOK  bool
		want    []string
	}{
		{
			name:  "empty board",
			chain: signalchain.Result{},
			want:  []string{"guitar>amp_input"},
		},
		{
			name:  "front only",
			chain: signalchain.Result{Ordered: []core.PlacedPedal{pp("p1", "a", front, 1), pp("p2", "plain", front, 2)}},
			want:  []string{"guitar>p1.input", "p1.output>p2.input", "p2.output>amp_input"},
		},
		{
			name:   "effects loop",
			chain:  signalchain.Result{Ordered: []core.PlacedPedal{pp("p1", "a", front, 1), pp("d", "plain", loop, 1)}},
			loopOK: true,
			want:   []string{"guitar>p1.input", "p1.output>amp_input", "amp_send>d.input", "d.output>amp_return"},
		},
		{
			name: "four cable",
			chain: signalchain.Result{Ordered: []core.PlacedPedal{
				pp("p1", "a", front, 1), pp("h", "switcher", hub, 1), pp("d", "plain", loop, 1),
			}},
			loopOK: true,
			want: []string{
				"guitar>p1.input", "p1.output>h.input",
				"h.send>amp_input",
				"amp_send>d.input", "d.output>h.return",
				"h.output>amp_return",
			},
		},
		{
			name: "four cable without amp loop wires the hub in front",
			chain: signalchain.Result{Ordered: []core.PlacedPedal{
				pp("p1", "a", front, 1), pp("h", "switcher", hub, 1),
			}},
			want: []string{"guitar>p1.input", "p1.output>h.input", "h.output>amp_input"},
		},
		{
			name: "pedal loop",
			chain: signalchain.Result{Ordered: []core.PlacedPedal{
				pp("p1", "a", front, 1), pp("h", "switcher", front, 2), pp("d", "plain", front, 3),
			}},
			routing: core.RoutingConfig{Pedals: []core.PedalRouting{
				{PlacedPedalID: "h", Mode: core.ModeLoop, LoopPedalIDs: []string{"d"}},
			}},
			want: []string{
				"guitar>p1.input", "p1.output>h.input",
				"h.send>d.input", "d.output>h.return",
				"h.output>amp_input",
			},
		},
		{
			name: "power",
			chain: signalchain.Result{
				Ordered:   []core.PlacedPedal{pp("p1", "a", front, 1), pp("d", "plain", front, 2)},
				Unchained: []core.PlacedPedal{{ID: "ps", PedalID: "psu", IsActive: true}},
			},
			routing: core.RoutingConfig{RoutePower: true},
			want:    []string{"guitar>p1.input", "p1.output>d.input", "d.output>amp_input", "ps.power>p1.power"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			links := Plan(tt.chain, cat, tt.routing, tt.loopOK)
			assert.Equal(t, tt.want, pairs(links))
			for _, l := range links {
				switch {
				case l.From.IsExternal() || l.To.IsExternal():
					assert.Equal(t, core.CableInstrument, l.Type)
				case l.From.Jack == core.JackPower:
					assert.Equal(t, core.CablePower, l.Type)
				default:
					assert.Equal(t, core.CablePatch, l.Type)
				}
			}
		})
	}
}

func TestRouteLinks_SinglePedalScenario(t *testing.T) {
	cfg := config.Default()
	cat := testCatalog()
	board := core.Board{WidthInches: 20, DepthInches: 13}
	a := pp("A", "a", core.LocationFrontOfAmp, 1)
	a.X, a.Y = 4, 4

	links := Plan(signalchain.Result{Ordered: []core.PlacedPedal{a}}, cat, core.RoutingConfig{}, false)
	cables := NewRouter(cfg, cat, nil).RouteLinks(links, []core.PlacedPedal{a}, board)
	require.Len(t, cables, 2)

	in, out := cables[0], cables[1]
	assert.Equal(t, geometry.Pt(21, 6.5), in.Path[0])
	assert.Equal(t, geometry.Pt(7, 6.5), in.Path[len(in.Path)-1])
	assert.Equal(t, geometry.Pt(4, 6.5), out.Path[0])
	assert.Equal(t, geometry.Pt(-1, 6.5), out.Path[len(out.Path)-1])

	for _, c := range cables {
		assert.Contains(t, []string{"direct", "l-path"}, c.Strategy)
		assert.Contains(t, cfg.Cables.StockLengths, c.CalculatedLengthInches)
		assert.GreaterOrEqual(t, c.CalculatedLengthInches, c.RoutedLengthInches)
		assert.Equal(t, core.CableInstrument, c.CableType)
		assert.False(t, c.Defect)
		assert.Equal(t, CableID(c.From, c.To), c.ID)
	}
	assert.InDelta(t, 14, in.RoutedLengthInches, 1e-9)
	assert.Equal(t, 18.0, in.CalculatedLengthInches)
	assert.Equal(t, 12.0, out.CalculatedLengthInches)
}

func TestRouteLinks_EndpointsExact(t *testing.T) {
	cfg := config.Default()
	cat := testCatalog()
	board := core.Board{WidthInches: 30, DepthInches: 14}
	placed := []core.PlacedPedal{
		{ID: "p1", PedalID: "a", X: 24, Y: 2, IsActive: true},
		{ID: "p2", PedalID: "a", X: 16, Y: 7, RotationDegrees: 90, IsActive: true},
		{ID: "h", PedalID: "switcher", X: 4, Y: 2, IsActive: true},
		{ID: "d", PedalID: "plain", X: 8, Y: 8, IsActive: true},
	}
	chain := signalchain.Result{Ordered: []core.PlacedPedal{
		pp("p1", "a", core.LocationFrontOfAmp, 1),
		pp("p2", "a", core.LocationFrontOfAmp, 2),
		pp("h", "switcher", core.LocationFourCableHub, 1),
		pp("d", "plain", core.LocationEffectsLoop, 1),
	}}
	links := Plan(chain, cat, core.RoutingConfig{}, true)
	cables := NewRouter(cfg, cat, nil).RouteLinks(links, placed, board)
	require.Len(t, cables, len(links))

	byID := lo.KeyBy(placed, func(p core.PlacedPedal) string { return p.ID })
	expect := func(e core.Endpoint) geometry.Point {
		if e.IsExternal() {
			return ExternalPosition(e.External, board, cfg.Routing.ExternalOffset)
		}
		p := byID[e.PlacedPedalID]
		pedal, _ := cat.Lookup(p.PedalID)
		jack, _ := pedal.Jack(e.Jack)
		return JackPosition(p, pedal, jack)
	}
	for _, c := range cables {
		require.GreaterOrEqual(t, len(c.Path), 2)
		assert.Equal(t, expect(c.From), c.Path[0], "cable %s start", c.From)
		assert.Equal(t, expect(c.To), c.Path[len(c.Path)-1], "cable %s end", c.To)
		assert.False(t, c.Defect, "cable %s -> %s", c.From, c.To)
	}
}
