package geometry

import "sort"

// IndexSet is a set of box indices.
type IndexSet map[int]bool

// Has reports whether i is in the set.
func (s IndexSet) Has(i int) bool {
	return s[i]
}

// Sorted returns the members in ascending order.
func (s IndexSet) Sorted() []int {
	out := make([]int, 0, len(s))
	for i := range s {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// ExpandExclusionSet returns the seed indices plus every box that overlaps a
// member of the set, applied transitively. Seeds outside the slice bounds are
// ignored.
func ExpandExclusionSet(boxes []Box, seeds []int) IndexSet {
	set := make(IndexSet, len(seeds))
	queue := make([]int, 0, len(seeds))
	for _, s := range seeds {
		if s < 0 || s >= len(boxes) || set[s] {
			continue
		}
		set[s] = true
		queue = append(queue, s)
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for j := range boxes {
			if set[j] {
				continue
			}
			if boxes[cur].Intersects(boxes[j]) {
				set[j] = true
				queue = append(queue, j)
			}
		}
	}
	return set
}
