package pathfinding

import (
	"fmt"
	"sync"
	"sync/atomic"

	"pedalboard/geometry"
)

// PathCacheKey identifies a routing request.
type PathCacheKey struct {
	Start, End geometry.Point
	Hash       uint64
}

// PathCache stores previously computed routes. Entries are evicted in
// insertion order once the cache is full.
type PathCache struct {
	mu        sync.RWMutex
	cache     map[PathCacheKey]Route
	order     []PathCacheKey
	maxSize   int
	hits      int64
	misses    int64
	evictions int64
}

// NewPathCache creates a cache holding at most maxSize routes. A size of
// zero disables caching.
func NewPathCache(maxSize int) *PathCache {
	return &PathCache{
		cache:   make(map[PathCacheKey]Route),
		maxSize: maxSize,
	}
}

func keyFor(req Request) PathCacheKey {
	return PathCacheKey{Start: req.Start, End: req.End, Hash: req.Hash()}
}

// Get returns a copy of the cached route for req.
func (pc *PathCache) Get(req Request) (Route, bool) {
	if pc == nil || pc.maxSize <= 0 {
		return Route{}, false
	}
	key := keyFor(req)
	pc.mu.RLock()
	route, found := pc.cache[key]
	pc.mu.RUnlock()

	if !found {
		atomic.AddInt64(&pc.misses, 1)
		return Route{}, false
	}
	atomic.AddInt64(&pc.hits, 1)
	route.Points = append([]geometry.Point(nil), route.Points...)
	return route, true
}

// Put stores a route for req.
func (pc *PathCache) Put(req Request, route Route) {
	if pc == nil || pc.maxSize <= 0 {
		return
	}
	key := keyFor(req)
	route.Points = append([]geometry.Point(nil), route.Points...)

	pc.mu.Lock()
	defer pc.mu.Unlock()
	if _, exists := pc.cache[key]; !exists {
		for len(pc.cache) >= pc.maxSize {
			oldest := pc.order[0]
			pc.order = pc.order[1:]
			delete(pc.cache, oldest)
			atomic.AddInt64(&pc.evictions, 1)
		}
		pc.order = append(pc.order, key)
	}
	pc.cache[key] = route
}

// Clear removes all entries and resets the statistics.
func (pc *PathCache) Clear() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.cache = make(map[PathCacheKey]Route)
	pc.order = nil
	atomic.StoreInt64(&pc.hits, 0)
	atomic.StoreInt64(&pc.misses, 0)
	atomic.StoreInt64(&pc.evictions, 0)
}

// Stats returns cache statistics.
func (pc *PathCache) Stats() (hits, misses, evictions, size int) {
	pc.mu.RLock()
	size = len(pc.cache)
	pc.mu.RUnlock()
	return int(atomic.LoadInt64(&pc.hits)), int(atomic.LoadInt64(&pc.misses)), int(atomic.LoadInt64(&pc.evictions)), size
}

func (pc *PathCache) String() string {
	hits, misses, evictions, size := pc.Stats()
	hitRate := 0.0
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}
	return fmt.Sprintf("PathCache[size=%d/%d, hits=%d, misses=%d, hitRate=%.1f%%, evictions=%d]",
		size, pc.maxSize, hits, misses, hitRate, evictions)
}
