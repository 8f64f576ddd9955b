package pathfinding

import (
	"github.com/flanksource/commons/logger"

	"pedalboard/config"
	"pedalboard/geometry"
	"pedalboard/metrics"
)

var log = logger.GetLogger("pathfinding")

// Router routes cables with a ladder of strategies, from a straight segment
// up to a grid search, stopping at the first that yields a clear path.
type Router struct {
	cfg   config.RoutingConfig
	grid  *GridPathFinder
	cache *PathCache
	rec   metrics.Recorder
}

// NewRouter creates a router. A nil recorder drops events.
func NewRouter(cfg config.RoutingConfig, rec metrics.Recorder) *Router {
	return &Router{
		cfg: cfg,
		grid: NewGridPathFinder(GridCost{
			Cell:         cfg.GridCell,
			TurnCost:     cfg.TurnCost,
			MarginCost:   cfg.MarginCost,
			EndpointCost: cfg.EndpointCost,
			Margin:       cfg.ObstacleMargin,
			Padding:      cfg.GridPadding,
			MaxNodes:     cfg.MaxNodes,
		}),
		cache: NewPathCache(cfg.CacheSize),
		rec:   metrics.OrNoop(rec),
	}
}

// Cache exposes the router's path cache.
func (r *Router) Cache() *PathCache {
	return r.cache
}

// Route routes one cable. The returned path always starts at req.Start and
// ends at req.End.
func (r *Router) Route(req Request) Route {
	if cached, ok := r.cache.Get(req); ok {
		r.rec.RouteStrategy(cached.Strategy)
		if cached.Defect {
			r.rec.RouteDefect()
		}
		return cached
	}

	route := r.route(req)
	route.Length = geometry.PolylineLength(route.Points)
	r.rec.RouteStrategy(route.Strategy)
	if route.Defect {
		r.rec.RouteDefect()
	}
	r.cache.Put(req, route)
	return route
}

func (r *Router) route(req Request) Route {
	obs := NewObstacles(req.Obstacles, req.Endpoints)
	s1 := obs.Standoff(req.Start, req.StartNormal, r.cfg.Standoff)
	e1 := obs.Standoff(req.End, req.EndNormal, r.cfg.Standoff)

	finish := func(mid []geometry.Point, strategy string, strict bool) (Route, bool) {
		check := obs.SegmentClear
		if strict {
			check = obs.SegmentTidy
		}
		if !PathClear(mid, check) {
			return Route{}, false
		}
		full := append([]geometry.Point{req.Start}, mid...)
		full = append(full, req.End)
		if !PathClear(full, obs.SegmentClear) {
			return Route{}, false
		}
		return Route{Points: r.postProcess(full, obs), Strategy: strategy}, true
	}

	// 1. straight segment for short or nearly aligned runs
	d := e1.Sub(s1)
	if s1.Distance(e1) < r.cfg.DirectMaxDistance || geometry.Abs(d.X) < r.cfg.AxisTolerance || geometry.Abs(d.Y) < r.cfg.AxisTolerance {
		if route, ok := finish([]geometry.Point{s1, e1}, StrategyDirect, true); ok {
			return route
		}
	}

	// 2. single-turn L
	for _, s := range []RoutingStrategy{HorizontalFirst, VerticalFirst} {
		if route, ok := finish(LPath(s1, e1, s), StrategyLPath, true); ok {
			return route
		}
	}

	// 3. lanes beside footprints
	for _, mid := range channelCandidates(s1, e1, obs.All(), r.cfg.ObstacleMargin+r.cfg.GridCell) {
		if route, ok := finish(mid, StrategyChannel, true); ok {
			return route
		}
	}

	// 4. grid search
	if cells, err := r.grid.FindPath(s1, e1, obs); err == nil {
		last := cells[len(cells)-1]
		for _, s := range []RoutingStrategy{HorizontalFirst, VerticalFirst} {
			mid := SimplifyPath(append(append([]geometry.Point(nil), cells...), LPath(last, e1, s)[1:]...))
			if route, ok := finish(mid, StrategyGrid, false); ok {
				return route
			}
		}
		log.Debugf("grid path from %s to %s could not be joined to the jack", s1, e1)
	} else {
		log.Debugf("grid search from %s to %s: %v", s1, e1, err)
	}

	// 5. around the outside of every footprint
	env := obs.Envelope(s1, e1)
	for _, mid := range perimeterCandidates(s1, e1, env, r.cfg.ObstacleMargin+r.cfg.GridCell) {
		if route, ok := finish(mid, StrategyPerimeter, false); ok {
			return route
		}
	}

	// 6. give up and flag the cable
	log.Warnf("no clear route from %s to %s; using emergency path", req.Start, req.End)
	y := env.Y - r.cfg.EmergencyOffset
	full := SimplifyPath([]geometry.Point{req.Start, s1, geometry.Pt(s1.X, y), geometry.Pt(e1.X, y), e1, req.End})
	return Route{Points: full, Strategy: StrategyEmergency, Defect: true}
}

// postProcess collapses collinear points and smooths small jogs while keeping
// the path clear.
func (r *Router) postProcess(points []geometry.Point, obs *Obstacles) []geometry.Point {
	points = SimplifyPath(points)
	if r.cfg.ZigzagThreshold > 0 {
		points = RemoveZigzags(points, r.cfg.ZigzagThreshold, obs.SegmentTidy)
	}
	return points
}
