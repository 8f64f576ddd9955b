package connections

import (
	"math"

	"github.com/google/uuid"

	"pedalboard/config"
	"pedalboard/core"
	"pedalboard/geometry"
	"pedalboard/metrics"
	"pedalboard/pathfinding"
)

// cableNamespace seeds the deterministic cable ids.
var cableNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("pedalboard.cable"))

// CableID returns a stable id for a cable between two endpoints.
func CableID(from, to core.Endpoint) string {
	return uuid.NewSHA1(cableNamespace, []byte(from.String()+"->"+to.String())).String()
}

// RoundLength rounds a required cable length up to the smallest stock length
// that covers it, or to the next multiple of step beyond the longest stock
// length.
func RoundLength(required float64, stock []float64, step float64) float64 {
	for _, s := range stock {
		if s >= required-geometry.Epsilon {
			return s
		}
	}
	if step <= 0 {
		return math.Ceil(required)
	}
	return math.Ceil(required/step-geometry.Epsilon) * step
}

// Router turns planned links into routed cables.
type Router struct {
	cfg     config.Config
	catalog core.Catalog
	paths   *pathfinding.Router
}

// NewRouter creates a cable router. A nil recorder drops events.
func NewRouter(cfg config.Config, catalog core.Catalog, rec metrics.Recorder) *Router {
	return &Router{
		cfg:     cfg,
		catalog: catalog,
		paths:   pathfinding.NewRouter(cfg.Routing, rec),
	}
}

// Anchor is a resolved cable endpoint: its exact coordinates, the outward
// normal of the jack's side and the index of its pedal's footprint, or -1 for
// an external point.
type Anchor struct {
	Point  geometry.Point
	Normal geometry.Point
	Box    int
}

// Anchors resolves endpoints against one layout.
type Anchors struct {
	board  core.Board
	offset float64
	byID   map[string]anchorEntry
	boxes  []geometry.Box
}

type anchorEntry struct {
	pp    core.PlacedPedal
	pedal core.Pedal
	box   int
}

// NewAnchors indexes the active, known placements of a layout. External
// points sit offset inches beyond the board edge.
func NewAnchors(placed []core.PlacedPedal, catalog core.Catalog, board core.Board, offset float64) *Anchors {
	a := &Anchors{board: board, offset: offset, byID: map[string]anchorEntry{}}
	for _, pp := range placed {
		if !pp.IsActive {
			continue
		}
		pedal, ok := catalog.Lookup(pp.PedalID)
		if !ok {
			continue
		}
		a.byID[pp.ID] = anchorEntry{pp: pp, pedal: pedal, box: len(a.boxes)}
		a.boxes = append(a.boxes, pp.Box(pedal))
	}
	return a
}

// Boxes returns the footprints of the indexed placements.
func (a *Anchors) Boxes() []geometry.Box {
	return a.boxes
}

// Resolve returns the anchor for e. It is false when the pedal is not an
// active known placement or lacks the jack.
func (a *Anchors) Resolve(e core.Endpoint) (Anchor, bool) {
	if e.IsExternal() {
		return Anchor{Point: ExternalPosition(e.External, a.board, a.offset), Box: -1}, true
	}
	en, ok := a.byID[e.PlacedPedalID]
	if !ok {
		return Anchor{}, false
	}
	jack, ok := en.pedal.Jack(e.Jack)
	if !ok {
		return Anchor{}, false
	}
	return Anchor{
		Point:  JackPosition(en.pp, en.pedal, jack),
		Normal: JackSide(en.pp, jack).Normal(),
		Box:    en.box,
	}, true
}

// Endpoints returns the footprint indices of the pedals a cable connects.
func Endpoints(from, to Anchor) []int {
	var out []int
	for _, b := range []int{from.Box, to.Box} {
		if b >= 0 {
			out = append(out, b)
		}
	}
	return out
}

// RouteLinks routes every link among the active placements on board. Links
// whose endpoints cannot be resolved are skipped.
func (r *Router) RouteLinks(links []Link, placed []core.PlacedPedal, board core.Board) []core.Cable {
	anchors := NewAnchors(placed, r.catalog, board, r.cfg.Routing.ExternalOffset)

	cables := make([]core.Cable, 0, len(links))
	for _, l := range links {
		from, okFrom := anchors.Resolve(l.From)
		to, okTo := anchors.Resolve(l.To)
		if !okFrom || !okTo {
			log.Warnf("skipping cable %s -> %s: unresolved endpoint", l.From, l.To)
			continue
		}
		route := r.paths.Route(pathfinding.Request{
			Start:       from.Point,
			End:         to.Point,
			StartNormal: from.Normal,
			EndNormal:   to.Normal,
			Obstacles:   anchors.Boxes(),
			Endpoints:   Endpoints(from, to),
		})
		cables = append(cables, core.Cable{
			ID:                     CableID(l.From, l.To),
			From:                   l.From,
			To:                     l.To,
			Path:                   route.Points,
			Strategy:               route.Strategy,
			RoutedLengthInches:     route.Length,
			CalculatedLengthInches: RoundLength(route.Length+r.cfg.Cables.SlackInches, r.cfg.Cables.StockLengths, r.cfg.Cables.RoundUpStep),
			CableType:              l.Type,
			Defect:                 route.Defect,
		})
	}
	return cables
}
