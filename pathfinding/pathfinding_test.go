package pathfinding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pedalboard/config"
	"pedalboard/geometry"
)

type recordingRecorder struct {
	strategies []string
	defects    int
}

func (r *recordingRecorder) RouteStrategy(s string) { r.strategies = append(r.strategies, s) }
func (r *recordingRecorder) RouteDefect()           { r.defects++ }
func (r *recordingRecorder) CostEvaluation()        {}
func (r *recordingRecorder) OptimizerMove(string)   {}
func (r *recordingRecorder) OptimizerPasses(int)    {}

func pts(coords ...float64) []geometry.Point {
	out := make([]geometry.Point, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		out = append(out, geometry.Pt(coords[i], coords[i+1]))
	}
	return out
}

func TestSimplifyPath(t *testing.T) {
	tests := []struct {
		name string
		in   []geometry.Point
		want []geometry.Point
	}{
		{"empty", nil, []geometry.Point{}},
		{"single", pts(1, 1), pts(1, 1)},
		{"collinear run", pts(0, 0, 1, 0, 2, 0, 3, 0), pts(0, 0, 3, 0)},
		{"keeps corners", pts(0, 0, 2, 0, 2, 2, 2, 4), pts(0, 0, 2, 0, 2, 4)},
		{"drops duplicates", pts(0, 0, 0, 0, 1, 0, 1, 0), pts(0, 0, 1, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SimplifyPath(tt.in))
		})
	}
}

func TestRemoveZigzags(t *testing.T) {
	jog := pts(0, 0, 5, 0, 5, 0.2, 10, 0.2)
	got := RemoveZigzags(jog, 0.3, nil)
	assert.Equal(t, geometry.Pt(0, 0), got[0])
	assert.Equal(t, geometry.Pt(10, 0.2), got[len(got)-1])
	assert.Less(t, len(got), len(jog))

	blocked := func(a, b geometry.Point) bool { return false }
	assert.Equal(t, jog, RemoveZigzags(jog, 0.3, blocked))

	corner := pts(0, 0, 5, 0, 5, 5)
	assert.Equal(t, corner, RemoveZigzags(corner, 0.3, nil))
}

func TestLPath(t *testing.T) {
	assert.Equal(t, pts(0, 0, 4, 0, 4, 3), LPath(geometry.Pt(0, 0), geometry.Pt(4, 3), HorizontalFirst))
	assert.Equal(t, pts(0, 0, 0, 3, 4, 3), LPath(geometry.Pt(0, 0), geometry.Pt(4, 3), VerticalFirst))
	assert.Equal(t, pts(0, 0, 4, 0), LPath(geometry.Pt(0, 0), geometry.Pt(4, 0), VerticalFirst))
}

func TestGetDirection(t *testing.T) {
	assert.Equal(t, East, GetDirection(geometry.Pt(0, 0), geometry.Pt(1, 0)))
	assert.Equal(t, West, GetDirection(geometry.Pt(1, 0), geometry.Pt(0, 0)))
	assert.Equal(t, South, GetDirection(geometry.Pt(0, 0), geometry.Pt(0, 1)))
	assert.Equal(t, North, GetDirection(geometry.Pt(0, 1), geometry.Pt(0, 0)))
	assert.Equal(t, None, GetDirection(geometry.Pt(0, 0), geometry.Pt(1, 1)))
}

func TestObstacles_Exclusion(t *testing.T) {
	boxes := []geometry.Box{
		geometry.NewBox(0, 0, 3, 3),
		geometry.NewBox(2.5, 0, 3, 3), // overlaps 0
		geometry.NewBox(10, 0, 3, 3),
		geometry.NewBox(0, 3.2, 3, 3), // 0.2 below 0
	}
	obs := NewObstacles(boxes, []int{0})
	assert.True(t, obs.Excluded(0))
	assert.True(t, obs.Excluded(1))
	assert.False(t, obs.Excluded(2))
	assert.False(t, obs.Excluded(3), "close but not overlapping")
	assert.Len(t, obs.Hard(), 2)

	assert.True(t, obs.SegmentClear(geometry.Pt(1, 1), geometry.Pt(5, 1)))
	assert.False(t, obs.SegmentClear(geometry.Pt(1, 1), geometry.Pt(12, 1)))
	assert.False(t, obs.SegmentClear(geometry.Pt(1, 2), geometry.Pt(1, 4)))
	assert.False(t, obs.SegmentTidy(geometry.Pt(-1, 1), geometry.Pt(2, 1)))
}

func TestObstacles_Standoff(t *testing.T) {
	boxes := []geometry.Box{
		geometry.NewBox(0, 0, 3, 3),
		geometry.NewBox(0, 3.2, 3, 3),
	}
	obs := NewObstacles(boxes, []int{0})
	down, left := geometry.Pt(0, 1), geometry.Pt(-1, 0)

	tests := []struct {
		name      string
		p, normal geometry.Point
		want      geometry.Point
	}{
		{"neighbour 0.2 away", geometry.Pt(1.5, 3), down, geometry.Pt(1.5, 3.1)},
		{"open side", geometry.Pt(0, 1.5), left, geometry.Pt(-0.5, 1.5)},
		{"along an edge", geometry.Pt(3, 3), down, geometry.Pt(3, 3.5)},
		{"external point", geometry.Pt(4, 4), geometry.Point{}, geometry.Pt(4, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := obs.Standoff(tt.p, tt.normal, 0.5)
			assert.True(t, got.Equal(tt.want), "got %s, want %s", got, tt.want)
		})
	}
}

func TestRouter_CloseNeighbourStaysHard(t *testing.T) {
	cfg := config.Default().Routing
	src := geometry.NewBox(15, 4, 2, 3)
	neighbour := geometry.NewBox(12.8, 4, 2, 3) // 0.2 left of src
	dst := geometry.NewBox(2, 4, 2, 3)
	req := Request{
		Start:       geometry.Pt(15, 5.5),
		End:         geometry.Pt(4, 5.5),
		StartNormal: geometry.Pt(-1, 0),
		EndNormal:   geometry.Pt(1, 0),
		Obstacles:   []geometry.Box{src, neighbour, dst},
		Endpoints:   []int{0, 2},
	}

	route := NewRouter(cfg, nil).Route(req)
	require.False(t, route.Defect, "strategy %s", route.Strategy)
	assert.Equal(t, req.Start, route.Points[0])
	assert.Equal(t, req.End, route.Points[len(route.Points)-1])
	for i := 1; i < len(route.Points); i++ {
		assert.False(t, geometry.SegmentIntersectsBox(route.Points[i-1], route.Points[i], neighbour),
			"segment %d of %v enters the neighbour", i, route.Points)
	}
}

func TestGridPathFinder_AroundObstacle(t *testing.T) {
	cfg := config.Default().Routing
	finder := NewGridPathFinder(GridCost{
		Cell: cfg.GridCell, TurnCost: cfg.TurnCost, MarginCost: cfg.MarginCost,
		EndpointCost: cfg.EndpointCost, Margin: cfg.ObstacleMargin, Padding: cfg.GridPadding, MaxNodes: cfg.MaxNodes,
	})
	wall := geometry.NewBox(4, 0, 2, 8)
	obs := NewObstacles([]geometry.Box{wall}, nil)

	path, err := finder.FindPath(geometry.Pt(0, 4), geometry.Pt(10, 4), obs)
	require.NoError(t, err)
	assert.Equal(t, geometry.Pt(0, 4), path[0])
	assert.True(t, path[len(path)-1].Distance(geometry.Pt(10, 4)) <= cfg.GridCell)
	assert.True(t, PathClear(path, obs.SegmentClear), "path %v", path)
}

func TestGridPathFinder_NodeLimit(t *testing.T) {
	finder := NewGridPathFinder(GridCost{Cell: 0.25, Padding: 2, MaxNodes: 5})
	obs := NewObstacles([]geometry.Box{geometry.NewBox(4, 0, 2, 8)}, nil)
	_, err := finder.FindPath(geometry.Pt(0, 4), geometry.Pt(10, 4), obs)
	assert.ErrorIs(t, err, errNodeLimit)
}

func TestRouter_Ladder(t *testing.T) {
	cfg := config.Default().Routing
	tests := []struct {
		name     string
		req      Request
		strategy string
	}{
		{
			name:     "aligned open board",
			req:      Request{Start: geometry.Pt(20, 6), End: geometry.Pt(2, 6)},
			strategy: StrategyDirect,
		},
		{
			name:     "diagonal open board",
			req:      Request{Start: geometry.Pt(20, 2), End: geometry.Pt(2, 10)},
			strategy: StrategyLPath,
		},
		{
			name: "blocked straight line takes a lane",
			req: Request{
				Start:     geometry.Pt(20, 6),
				End:       geometry.Pt(2, 6),
				Obstacles: []geometry.Box{geometry.NewBox(9, 4, 3, 4)},
			},
			strategy: StrategyChannel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recordingRecorder{}
			route := NewRouter(cfg, rec).Route(tt.req)
			assert.Equal(t, tt.strategy, route.Strategy)
			assert.False(t, route.Defect)
			require.GreaterOrEqual(t, len(route.Points), 2)
			assert.Equal(t, tt.req.Start, route.Points[0])
			assert.Equal(t, tt.req.End, route.Points[len(route.Points)-1])
			assert.InDelta(t, geometry.PolylineLength(route.Points), route.Length, 1e-9)
			assert.Equal(t, []string{tt.strategy}, rec.strategies)

			obs := NewObstacles(tt.req.Obstacles, tt.req.Endpoints)
			assert.True(t, PathClear(route.Points, obs.SegmentClear))
		})
	}
}

func TestRouter_Standoff(t *testing.T) {
	cfg := config.Default().Routing
	a := geometry.NewBox(4, 4, 3, 5)
	b := geometry.NewBox(12, 4, 3, 5)
	req := Request{
		Start:       geometry.Pt(12, 6.5), // b input, left edge
		End:         geometry.Pt(7, 8),    // a output, right edge
		StartNormal: geometry.Pt(-1, 0),
		EndNormal:   geometry.Pt(1, 0),
		Obstacles:   []geometry.Box{a, b},
		Endpoints:   []int{1, 0},
	}
	route := NewRouter(cfg, nil).Route(req)
	require.False(t, route.Defect)
	assert.Equal(t, req.Start, route.Points[0])
	assert.Equal(t, req.End, route.Points[len(route.Points)-1])
	for i := 1; i < len(route.Points); i++ {
		assert.False(t, geometry.SegmentIntersectsBox(route.Points[i-1], route.Points[i], a), "segment %d enters a", i)
		assert.False(t, geometry.SegmentIntersectsBox(route.Points[i-1], route.Points[i], b), "segment %d enters b", i)
	}
}

func TestRouter_GridAndEmergency(t *testing.T) {
	cfg := config.Default().Routing

	t.Run("walled pocket takes a lane", func(t *testing.T) {
		obstacles := []geometry.Box{
			geometry.NewBox(0, 0, 10, 1),
			geometry.NewBox(0, 9, 10, 1),
			geometry.NewBox(0, 1, 1, 8),
			geometry.NewBox(9, 1, 1, 6),
		}
		req := Request{Start: geometry.Pt(2, 5), End: geometry.Pt(14, 2), Obstacles: obstacles}
		route := NewRouter(cfg, nil).Route(req)
		assert.Equal(t, StrategyChannel, route.Strategy)
		obs := NewObstacles(obstacles, nil)
		assert.True(t, PathClear(route.Points, obs.SegmentClear), "path %v", route.Points)
	})

	t.Run("dog-leg exit needs grid search", func(t *testing.T) {
		obstacles := []geometry.Box{
			geometry.NewBox(0, 0, 10, 1),
			geometry.NewBox(0, 9, 10, 1),
			geometry.NewBox(0, 1, 1, 8),
			geometry.NewBox(9, 1, 1, 6),
			geometry.NewBox(11, 6, 2, 4),
		}
		req := Request{Start: geometry.Pt(2, 5), End: geometry.Pt(14, 2), Obstacles: obstacles}
		route := NewRouter(cfg, nil).Route(req)
		assert.Equal(t, StrategyGrid, route.Strategy)
		assert.False(t, route.Defect)
		assert.Equal(t, req.Start, route.Points[0])
		assert.Equal(t, req.End, route.Points[len(route.Points)-1])
		obs := NewObstacles(obstacles, nil)
		assert.True(t, PathClear(route.Points, obs.SegmentClear), "path %v", route.Points)
	})

	t.Run("sealed start is a defect", func(t *testing.T) {
		obstacles := []geometry.Box{
			geometry.NewBox(0, 0, 10, 1),
			geometry.NewBox(0, 9, 10, 1),
			geometry.NewBox(0, 1, 1, 8),
			geometry.NewBox(9, 1, 1, 8),
		}
		rec := &recordingRecorder{}
		small := cfg
		small.MaxNodes = 20000
		route := NewRouter(small, rec).Route(Request{Start: geometry.Pt(5, 5), End: geometry.Pt(14, 5), Obstacles: obstacles})
		assert.True(t, route.Defect)
		assert.Equal(t, StrategyEmergency, route.Strategy)
		assert.Equal(t, 1, rec.defects)
		assert.Equal(t, geometry.Pt(5, 5), route.Points[0])
		assert.Equal(t, geometry.Pt(14, 5), route.Points[len(route.Points)-1])
	})
}

func TestRouter_Cache(t *testing.T) {
	rec := &recordingRecorder{}
	router := NewRouter(config.Default().Routing, rec)
	req := Request{Start: geometry.Pt(20, 2), End: geometry.Pt(2, 10)}

	first := router.Route(req)
	first.Points[0] = geometry.Pt(-1, -1)
	second := router.Route(req)

	assert.Equal(t, req.Start, second.Points[0])
	hits, misses, _, size := router.Cache().Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)
	assert.Equal(t, 1, size)
	assert.Len(t, rec.strategies, 2)
}

func TestPathCache_Eviction(t *testing.T) {
	pc := NewPathCache(2)
	reqs := []Request{
		{Start: geometry.Pt(0, 0), End: geometry.Pt(1, 0)},
		{Start: geometry.Pt(0, 0), End: geometry.Pt(2, 0)},
		{Start: geometry.Pt(0, 0), End: geometry.Pt(3, 0)},
	}
	for _, r := range reqs {
		pc.Put(r, Route{Points: []geometry.Point{r.Start, r.End}, Strategy: StrategyDirect})
	}
	_, ok := pc.Get(reqs[0])
	assert.False(t, ok)
	_, ok = pc.Get(reqs[2])
	assert.True(t, ok)
	_, _, evictions, size := pc.Stats()
	assert.Equal(t, 1, evictions)
	assert.Equal(t, 2, size)

	pc.Clear()
	_, _, _, size = pc.Stats()
	assert.Zero(t, size)

	disabled := NewPathCache(0)
	disabled.Put(reqs[0], Route{})
	_, ok = disabled.Get(reqs[0])
	assert.False(t, ok)
}

func TestRequestHash(t *testing.T) {
	a := Request{Start: geometry.Pt(0, 0), End: geometry.Pt(1, 1), Obstacles: []geometry.Box{geometry.NewBox(0, 0, 1, 1)}}
	b := a
	b.Obstacles = []geometry.Box{geometry.NewBox(0, 0, 1, 2)}
	assert.Equal(t, a.Hash(), a.Hash())
	assert.NotEqual(t, a.Hash(), b.Hash())
}
