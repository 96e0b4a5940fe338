package geometry_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/streetnet/geometry"
)

// lShape is a 20-unit polyline: (0,0)→(10,0)→(10,10).
var lShape = orb.LineString{{0, 0}, {10, 0}, {10, 10}}

func square(min, max float64) orb.Polygon {
	return orb.Polygon{orb.Ring{{min, min}, {max, min}, {max, max}, {min, max}, {min, min}}}
}

func TestProjectAndInterpolate(t *testing.T) {
	along, dist := geometry.Project(lShape, orb.Point{4, 3})
	assert.InDelta(t, 4.0, along, geometry.Epsilon)
	assert.InDelta(t, 3.0, dist, geometry.Epsilon)

	along, dist = geometry.Project(lShape, orb.Point{12, 5})
	assert.InDelta(t, 15.0, along, geometry.Epsilon)
	assert.InDelta(t, 2.0, dist, geometry.Epsilon)

	assert.Equal(t, orb.Point{10, 5}, geometry.Interpolate(lShape, 15))
	assert.Equal(t, orb.Point{0, 0}, geometry.Interpolate(lShape, -1))
	assert.Equal(t, orb.Point{10, 10}, geometry.Interpolate(lShape, 99))
}

func TestProjectTieKeepsEarliestSegment(t *testing.T) {
	// the corner vertex lies on both segments; the first one wins
	along, _ := geometry.Project(lShape, orb.Point{10, 0})
	assert.InDelta(t, 10.0, along, geometry.Epsilon)
}

func TestSubLine(t *testing.T) {
	sub := geometry.SubLine(lShape, 5, 15)
	require.Equal(t, orb.LineString{{5, 0}, {10, 0}, {10, 5}}, sub)
	assert.InDelta(t, 10.0, geometry.Length(sub), geometry.Epsilon)

	back := geometry.SubLine(lShape, 15, 5)
	assert.Equal(t, geometry.Reverse(sub), back)

	point := geometry.SubLine(lShape, 3, 3)
	assert.Len(t, point, 2)
	assert.Zero(t, geometry.Length(point))
}

func TestConcatDropsSharedVertices(t *testing.T) {
	got := geometry.Concat(
		orb.LineString{{0, 0}, {1, 0}},
		orb.LineString{{1, 0}, {2, 0}},
		orb.LineString{{2, 0}, {2, 1}},
	)
	assert.Equal(t, orb.LineString{{0, 0}, {1, 0}, {2, 0}, {2, 1}}, got)
}

func TestRegionContainsWithBuffer(t *testing.T) {
	r := geometry.NewRegion(square(0, 10), 0)
	assert.True(t, r.Contains(orb.Point{5, 5}))
	assert.False(t, r.Contains(orb.Point{11, 5}))

	rb := geometry.NewRegion(square(0, 10), 2)
	assert.True(t, rb.Contains(orb.Point{11, 5}))
	assert.False(t, rb.Contains(orb.Point{13, 5}))
}

func TestRegionIntersectsLine(t *testing.T) {
	r := geometry.NewRegion(square(0, 10), 0)
	// crosses without any vertex inside
	assert.True(t, r.IntersectsLine(orb.LineString{{-5, 5}, {15, 5}}))
	assert.False(t, r.IntersectsLine(orb.LineString{{20, 20}, {30, 30}}))

	rb := geometry.NewRegion(square(0, 10), 3)
	assert.True(t, rb.IntersectsLine(orb.LineString{{12, -5}, {12, 15}}))
}

func TestRegionClipSinglePart(t *testing.T) {
	r := geometry.NewRegion(square(0, 10), 0)
	parts := r.Clip(orb.LineString{{-5, 5}, {5, 5}, {15, 5}})
	require.Len(t, parts, 1)
	assert.Equal(t, orb.LineString{{0, 5}, {5, 5}, {10, 5}}, parts[0])
}

func TestRegionClipMultiPart(t *testing.T) {
	r := geometry.NewRegion(square(0, 10), 0)
	// leaves and re-enters the square
	parts := r.Clip(orb.LineString{{2, 5}, {2, 15}, {8, 15}, {8, 5}})
	assert.Len(t, parts, 2)
}

func TestRegionClipBuffered(t *testing.T) {
	r := geometry.NewRegion(square(0, 10), 2)
	parts := r.Clip(orb.LineString{{5, 5}, {20, 5}})
	require.Len(t, parts, 1)
	last := parts[0][len(parts[0])-1]
	assert.InDelta(t, 12.0, last[0], 1e-6)
}
