package pathfinding

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"pedalboard/geometry"
)

// Obstacles splits the footprints of a request into the ones a route must
// never cross and the cluster around the cable's own pedals, which it may.
type Obstacles struct {
	boxes    []geometry.Box
	excluded geometry.IndexSet
	seeds    geometry.IndexSet
}

// NewObstacles builds the obstacle model for a request. Footprints that
// overlap an endpoint footprint, transitively, join the excluded cluster.
func NewObstacles(boxes []geometry.Box, endpoints []int) *Obstacles {
	seeds := make(geometry.IndexSet, len(endpoints))
	for _, i := range endpoints {
		if i >= 0 && i < len(boxes) {
			seeds[i] = true
		}
	}
	return &Obstacles{
		boxes:    boxes,
		excluded: geometry.ExpandExclusionSet(boxes, endpoints),
		seeds:    seeds,
	}
}

// Standoff returns the point dist along normal from p. When a hard footprint
// lies within dist the point is pulled back to half way to it, so a jack
// facing a close neighbour gets a short stub that stays out of it.
func (o *Obstacles) Standoff(p, normal geometry.Point, dist float64) geometry.Point {
	if dist <= 0 || normal.Equal(geometry.Point{}) {
		return p
	}
	for i, box := range o.boxes {
		if o.excluded.Has(i) {
			continue
		}
		if t, ok := rayEntry(p, normal, box); ok && t <= dist {
			dist = t / 2
		}
	}
	return p.Add(normal.Scale(dist))
}

// rayEntry returns the distance along dir at which a ray from p enters the
// interior of box. Rays running along an edge never enter.
func rayEntry(p, dir geometry.Point, box geometry.Box) (float64, bool) {
	tmin, tmax := math.Inf(-1), math.Inf(1)
	slab := func(p, d, lo, hi float64) bool {
		if geometry.ApproxEqual(d, 0) {
			return p > lo+geometry.Epsilon && p < hi-geometry.Epsilon
		}
		t1, t2 := (lo-p)/d, (hi-p)/d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin, tmax = math.Max(tmin, t1), math.Min(tmax, t2)
		return true
	}
	if !slab(p.X, dir.X, box.X, box.Right()) || !slab(p.Y, dir.Y, box.Y, box.Bottom()) {
		return 0, false
	}
	if tmax <= tmin+geometry.Epsilon || tmax <= geometry.Epsilon {
		return 0, false
	}
	return math.Max(tmin, 0), true
}

// Hard returns the footprints no route may cross.
func (o *Obstacles) Hard() []geometry.Box {
	out := make([]geometry.Box, 0, len(o.boxes))
	for i, b := range o.boxes {
		if !o.excluded.Has(i) {
			out = append(out, b)
		}
	}
	return out
}

// Soft returns the excluded cluster around the endpoints.
func (o *Obstacles) Soft() []geometry.Box {
	out := make([]geometry.Box, 0, len(o.excluded))
	for _, i := range o.excluded.Sorted() {
		out = append(out, o.boxes[i])
	}
	return out
}

// Excluded reports whether footprint i belongs to the endpoint cluster.
func (o *Obstacles) Excluded(i int) bool {
	return o.excluded.Has(i)
}

// All returns every footprint.
func (o *Obstacles) All() []geometry.Box {
	return o.boxes
}

// SegmentClear reports whether ab avoids every hard footprint.
func (o *Obstacles) SegmentClear(a, b geometry.Point) bool {
	for i, box := range o.boxes {
		if o.excluded.Has(i) {
			continue
		}
		if geometry.SegmentIntersectsBox(a, b, box) {
			return false
		}
	}
	return true
}

// SegmentTidy is SegmentClear that additionally keeps ab out of the
// footprints the cable starts and ends on.
func (o *Obstacles) SegmentTidy(a, b geometry.Point) bool {
	if !o.SegmentClear(a, b) {
		return false
	}
	for i := range o.seeds {
		if geometry.SegmentIntersectsBox(a, b, o.boxes[i]) {
			return false
		}
	}
	return true
}

// PathClear reports whether every segment of points passes check.
func PathClear(points []geometry.Point, check func(a, b geometry.Point) bool) bool {
	for i := 1; i < len(points); i++ {
		if !check(points[i-1], points[i]) {
			return false
		}
	}
	return true
}

// Envelope returns the bounding box of all footprints and the given points.
func (o *Obstacles) Envelope(points ...geometry.Point) geometry.Box {
	env := geometry.BoundingBox(points)
	if all, ok := geometry.Envelope(o.boxes); ok {
		env = env.Union(all)
	}
	return env
}

// Hash fingerprints a request for the path cache.
func (r Request) Hash() uint64 {
	d := xxhash.New()
	var buf [8]byte
	write := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		_, _ = d.Write(buf[:])
	}
	for _, p := range []geometry.Point{r.Start, r.End, r.StartNormal, r.EndNormal} {
		write(p.X)
		write(p.Y)
	}
	write(float64(len(r.Obstacles)))
	for _, b := range r.Obstacles {
		write(b.X)
		write(b.Y)
		write(b.W)
		write(b.H)
	}
	for _, i := range r.Endpoints {
		write(float64(i))
	}
	return d.Sum64()
}
