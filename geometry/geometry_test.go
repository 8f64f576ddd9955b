package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRotatedSize(t *testing.T) {
	tests := []struct {
		deg  int
		w, h float64
	}{
		{0, 3, 5},
		{90, 5, 3},
		{180, 3, 5},
		{270, 5, 3},
		{360, 3, 5},
		{-90, 5, 3},
		{450, 5, 3},
	}
	for _, tt := range tests {
		w, h := RotatedSize(3, 5, tt.deg)
		assert.Equal(t, tt.w, w, "width at %d", tt.deg)
		assert.Equal(t, tt.h, h, "height at %d", tt.deg)
	}
}

func TestNormalizeRotation(t *testing.T) {
	assert.Equal(t, 0, NormalizeRotation(0))
	assert.Equal(t, 270, NormalizeRotation(-90))
	assert.Equal(t, 90, NormalizeRotation(450))
	assert.Equal(t, 0, NormalizeRotation(45))
	assert.Equal(t, 3, RotationSteps(-90))
}

func TestBoxRelations(t *testing.T) {
	a := NewBox(0, 0, 2, 2)

	assert.True(t, a.Intersects(NewBox(1, 1, 2, 2)))
	assert.False(t, a.Intersects(NewBox(2, 0, 2, 2)), "shared edge")
	assert.False(t, a.Intersects(NewBox(2, 2, 1, 1)), "shared corner")

	assert.InDelta(t, 1.0, a.IntersectionArea(NewBox(1, 1, 2, 2)), Epsilon)
	assert.Zero(t, a.IntersectionArea(NewBox(2, 0, 2, 2)))

	assert.InDelta(t, 5.0, NewBox(0, 0, 1, 1).Gap(NewBox(4, 5, 1, 1)), Epsilon)
	assert.Zero(t, a.Gap(NewBox(2, 0, 1, 1)))

	assert.True(t, a.Within(NewBox(0, 0, 2, 2)))
	assert.False(t, a.Within(NewBox(0.5, 0, 2, 2)))

	assert.Equal(t, NewBox(0, 0, 5, 4), a.Union(NewBox(4, 3, 1, 1)))
	assert.True(t, a.ContainsPoint(Pt(2, 2)))
	assert.False(t, a.StrictlyContains(Pt(2, 1)))
	assert.Equal(t, Pt(1, 1), a.Center())
}

func TestEnvelopeAndBoundingBox(t *testing.T) {
	_, ok := Envelope(nil)
	assert.False(t, ok)

	env, ok := Envelope([]Box{NewBox(1, 1, 1, 1), NewBox(-1, 3, 1, 2)})
	assert.True(t, ok)
	assert.Equal(t, NewBox(-1, 1, 3, 4), env)

	assert.Equal(t, NewBox(-2, 0, 5, 3), BoundingBox([]Point{Pt(0, 0), Pt(3, 1), Pt(-2, 3)}))
}

func TestSegmentsIntersect(t *testing.T) {
	tests := []struct {
		name       string
		a, b, c, d Point
		intersect  bool
		cross      bool
	}{
		{"proper crossing", Pt(0, 0), Pt(2, 2), Pt(0, 2), Pt(2, 0), true, true},
		{"shared endpoint", Pt(0, 0), Pt(1, 1), Pt(1, 1), Pt(2, 0), true, false},
		{"t junction", Pt(0, 0), Pt(2, 0), Pt(1, 0), Pt(1, 1), true, false},
		{"collinear overlap", Pt(0, 0), Pt(2, 0), Pt(1, 0), Pt(3, 0), true, false},
		{"collinear apart", Pt(0, 0), Pt(1, 0), Pt(2, 0), Pt(3, 0), false, false},
		{"parallel", Pt(0, 0), Pt(2, 0), Pt(0, 1), Pt(2, 1), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.intersect, SegmentsIntersect(tt.a, tt.b, tt.c, tt.d))
			assert.Equal(t, tt.cross, SegmentsCross(tt.a, tt.b, tt.c, tt.d))
		})
	}
}

func TestSegmentIntersectsBox(t *testing.T) {
	box := NewBox(0, 0, 2, 2)
	tests := []struct {
		name string
		a, b Point
		want bool
	}{
		{"through the middle", Pt(-1, 1), Pt(3, 1), true},
		{"starts inside", Pt(1, 1), Pt(5, 1), true},
		{"along an edge", Pt(-1, 0), Pt(3, 0), false},
		{"grazes a corner", Pt(-1, 1), Pt(1, -1), false},
		{"stops at the edge", Pt(3, 1), Pt(2, 1), false},
		{"misses", Pt(3, 3), Pt(5, 5), false},
		{"diagonal through", Pt(-1, -1), Pt(3, 3), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SegmentIntersectsBox(tt.a, tt.b, box))
		})
	}

	assert.False(t, SegmentIntersectsBox(Pt(-1, 0), Pt(1, 0), NewBox(0, 0, 0, 2)), "degenerate box")
}

func TestPolylineHelpers(t *testing.T) {
	assert.InDelta(t, 7.0, PolylineLength([]Point{Pt(0, 0), Pt(3, 0), Pt(3, 4)}), Epsilon)
	assert.Zero(t, PolylineLength([]Point{Pt(1, 1)}))

	assert.InDelta(t, 1.0, PointSegmentDistance(Pt(1, 1), Pt(0, 0), Pt(2, 0)), Epsilon)
	assert.InDelta(t, 5.0, PointSegmentDistance(Pt(5, 4), Pt(0, 0), Pt(2, 0)), Epsilon)

	assert.True(t, IsAxisAligned(Pt(0, 1), Pt(4, 1)))
	assert.False(t, IsAxisAligned(Pt(0, 0), Pt(1, 1)))
	assert.Equal(t, 7.0, ManhattanDistance(Pt(0, 0), Pt(3, -4)))
}

func TestExpandExclusionSet(t *testing.T) {
	boxes := []Box{
		NewBox(0, 0, 2, 2),
		NewBox(1, 1, 2, 2),
		NewBox(2.5, 2.5, 2, 2),
		NewBox(10, 10, 1, 1),
		NewBox(2, 0, 1, 1),
	}

	set := ExpandExclusionSet(boxes, []int{0})
	assert.Equal(t, []int{0, 1, 2}, set.Sorted())
	assert.False(t, set.Has(4), "touching box")
	assert.False(t, set.Has(3))

	assert.Equal(t, []int{3}, ExpandExclusionSet(boxes, []int{3, 3}).Sorted())
	assert.Empty(t, ExpandExclusionSet(boxes, []int{-1, 9}).Sorted())
}
