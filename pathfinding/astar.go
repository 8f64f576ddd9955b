package pathfinding

import (
	"container/heap"
	"errors"
	"math"

	"pedalboard/geometry"
)

var (
	errNodeLimit = errors.New("grid search exceeded node limit")
	errNoPath    = errors.New("no grid path found")
)

// GridCost is the cost model for the grid search. Distances are in inches.
type GridCost struct {
	Cell         float64
	TurnCost     float64
	MarginCost   float64
	EndpointCost float64
	Margin       float64
	Padding      float64
	MaxNodes     int
}

// cellKey addresses a grid cell relative to the grid origin.
type cellKey struct {
	I, J int
}

// gridNode is one arena slot of the search.
type gridNode struct {
	key       cellKey
	g, f, h   float64
	parent    int
	direction Direction
	index     int // position in the heap, -1 once popped
	closed    bool
}

// nodeQueue is a priority queue of arena indices.
type nodeQueue struct {
	arena *[]gridNode
	items []int
}

func (q nodeQueue) Len() int { return len(q.items) }

func (q nodeQueue) Less(i, j int) bool {
	a, b := &(*q.arena)[q.items[i]], &(*q.arena)[q.items[j]]
	if !geometry.ApproxEqual(a.f, b.f) {
		return a.f < b.f
	}
	// Prefer nodes closer to the goal, then a fixed cell order.
	if !geometry.ApproxEqual(a.h, b.h) {
		return a.h < b.h
	}
	if a.key.I != b.key.I {
		return a.key.I < b.key.I
	}
	return a.key.J < b.key.J
}

func (q nodeQueue) Swap(i, j int) {
	q.items[i], q.items[j] = q.items[j], q.items[i]
	(*q.arena)[q.items[i]].index = i
	(*q.arena)[q.items[j]].index = j
}

func (q *nodeQueue) Push(x any) {
	n := x.(int)
	(*q.arena)[n].index = len(q.items)
	q.items = append(q.items, n)
}

func (q *nodeQueue) Pop() any {
	old := q.items
	last := len(old) - 1
	n := old[last]
	(*q.arena)[n].index = -1
	q.items = old[:last]
	return n
}

// GridPathFinder runs A* over a uniform grid anchored at the start point.
// Pedal footprints inflated by half a cell are blocked; a margin band around
// them and the footprints of the cable's own pedals carry extra cost.
type GridPathFinder struct {
	cost GridCost
}

// NewGridPathFinder creates a grid path finder.
func NewGridPathFinder(cost GridCost) *GridPathFinder {
	return &GridPathFinder{cost: cost}
}

var moves = [4]struct {
	di, dj int
	dir    Direction
}{
	{0, -1, North},
	{1, 0, East},
	{0, 1, South},
	{-1, 0, West},
}

// FindPath searches from start to the grid cell nearest end and returns the
// cell centres visited, starting at start. The final cell is not end itself;
// callers join it to end.
func (a *GridPathFinder) FindPath(start, end geometry.Point, obs *Obstacles) ([]geometry.Point, error) {
	cell := a.cost.Cell
	env := obs.Envelope(start, end).Inflate(a.cost.Padding)
	minI := int(math.Floor((env.X - start.X) / cell))
	maxI := int(math.Ceil((env.Right() - start.X) / cell))
	minJ := int(math.Floor((env.Y - start.Y) / cell))
	maxJ := int(math.Ceil((env.Bottom() - start.Y) / cell))

	point := func(k cellKey) geometry.Point {
		return geometry.Pt(start.X+float64(k.I)*cell, start.Y+float64(k.J)*cell)
	}
	goal := cellKey{
		I: int(math.Round((end.X - start.X) / cell)),
		J: int(math.Round((end.Y - start.Y) / cell)),
	}

	inflate := cell/2 + geometry.Epsilon
	hard := obs.Hard()
	blockedBoxes := make([]geometry.Box, len(hard))
	marginBoxes := make([]geometry.Box, len(hard))
	for i, b := range hard {
		blockedBoxes[i] = b.Inflate(inflate)
		marginBoxes[i] = b.Inflate(inflate + a.cost.Margin)
	}
	soft := obs.Soft()

	origin := cellKey{}
	blocked := func(k cellKey) bool {
		if k.I < minI || k.I > maxI || k.J < minJ || k.J > maxJ {
			return true
		}
		if k == origin || k == goal {
			return false
		}
		p := point(k)
		for _, b := range blockedBoxes {
			if b.StrictlyContains(p) {
				return true
			}
		}
		return false
	}
	stepCost := func(k cellKey) float64 {
		p := point(k)
		c := cell
		for _, b := range marginBoxes {
			if b.StrictlyContains(p) {
				c += a.cost.MarginCost * cell
				break
			}
		}
		for _, b := range soft {
			if b.StrictlyContains(p) {
				c += a.cost.EndpointCost * cell
				break
			}
		}
		return c
	}
	heuristic := func(k cellKey) float64 {
		h := math.Abs(float64(goal.I-k.I))*cell + math.Abs(float64(goal.J-k.J))*cell
		if k.I != goal.I && k.J != goal.J {
			h += a.cost.TurnCost
		}
		return h
	}

	arena := make([]gridNode, 0, 1024)
	index := make(map[cellKey]int, 1024)
	open := &nodeQueue{arena: &arena}

	h0 := heuristic(origin)
	arena = append(arena, gridNode{key: origin, h: h0, f: h0, parent: -1, direction: None})
	index[origin] = 0
	heap.Push(open, 0)

	expanded := 0
	for open.Len() > 0 {
		expanded++
		if expanded > a.cost.MaxNodes {
			return nil, errNodeLimit
		}
		cur := heap.Pop(open).(int)
		arena[cur].closed = true
		node := arena[cur]
		if node.key == goal {
			return a.reconstruct(arena, cur, point), nil
		}

		for _, m := range moves {
			next := cellKey{I: node.key.I + m.di, J: node.key.J + m.dj}
			if blocked(next) {
				continue
			}
			g := node.g + stepCost(next)
			if node.direction != None && node.direction != m.dir {
				g += a.cost.TurnCost
			}
			if idx, seen := index[next]; seen {
				n := &arena[idx]
				if n.closed || g >= n.g-geometry.Epsilon {
					continue
				}
				n.g, n.f = g, g+n.h
				n.parent, n.direction = cur, m.dir
				heap.Fix(open, n.index)
				continue
			}
			h := heuristic(next)
			arena = append(arena, gridNode{key: next, g: g, h: h, f: g + h, parent: cur, direction: m.dir})
			index[next] = len(arena) - 1
			heap.Push(open, len(arena)-1)
		}
	}
	return nil, errNoPath
}

func (a *GridPathFinder) reconstruct(arena []gridNode, goal int, point func(cellKey) geometry.Point) []geometry.Point {
	var rev []geometry.Point
	for i := goal; i >= 0; i = arena[i].parent {
		rev = append(rev, point(arena[i].key))
	}
	out := make([]geometry.Point, len(rev))
	for i, p := range rev {
		out[len(rev)-1-i] = p
	}
	return SimplifyPath(out)
}
