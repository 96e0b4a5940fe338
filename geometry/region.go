// SPDX-License-Identifier: MIT
// File: region.go
// Role: buffered polygon predicates and polyline clipping.
// Policy:
//   - Buffer == 0: crossings are exact segment/ring intersections.
//   - Buffer  > 0: crossings of the buffered outline are located by bisection
//     on sub-steps no longer than Buffer/2.

package geometry

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

const (
	bisectIterations = 48
	maxBufferSteps   = 1024
)

// Region is a polygon optionally grown by a buffer distance.
// The zero Buffer denotes the polygon itself.
type Region struct {
	Polygon orb.Polygon
	Buffer  float64
}

// NewRegion builds a Region from poly grown by buffer (negative buffers are
// treated as zero).
func NewRegion(poly orb.Polygon, buffer float64) Region {
	return Region{Polygon: poly, Buffer: math.Max(0, buffer)}
}

// Bound returns the region's bounding box, padded by the buffer.
func (r Region) Bound() orb.Bound {
	return r.Polygon.Bound().Pad(r.Buffer)
}

// Contains reports whether p lies in the polygon or within Buffer of its outline.
func (r Region) Contains(p orb.Point) bool {
	if planar.PolygonContains(r.Polygon, p) {
		return true
	}
	if r.Buffer <= 0 {
		return false
	}

	return r.boundaryDistance(p) <= r.Buffer
}

// IntersectsLine reports whether any part of ls lies inside the region.
func (r Region) IntersectsLine(ls orb.LineString) bool {
	if len(ls) == 0 {
		return false
	}
	// cheap reject on boxes first
	if !r.Bound().Intersects(ls.Bound()) {
		return false
	}
	for _, p := range ls {
		if r.Contains(p) {
			return true
		}
	}
	for i := 0; i+1 < len(ls); i++ {
		for _, ring := range r.Polygon {
			for j := 0; j+1 < len(ring); j++ {
				if segmentDistance(ls[i], ls[i+1], ring[j], ring[j+1]) <= r.Buffer {
					return true
				}
			}
		}
	}

	return false
}

// Clip returns the parts of ls lying inside the region, each running in the
// vertex order of ls. Parts of zero length are discarded.
//
// Complexity: O(n·m) for n line segments and m ring segments, plus the
// bisection steps when Buffer > 0.
func (r Region) Clip(ls orb.LineString) []orb.LineString {
	var (
		parts []orb.LineString
		cur   orb.LineString
	)
	flush := func() {
		if len(cur) >= 2 && Length(cur) > Epsilon {
			parts = append(parts, cur)
		}
		cur = nil
	}

	for i := 0; i+1 < len(ls); i++ {
		a, b := ls[i], ls[i+1]
		ts := r.breaks(a, b)
		for k := 0; k+1 < len(ts); k++ {
			t0, t1 := ts[k], ts[k+1]
			if t1-t0 <= 0 {
				continue
			}
			if !r.Contains(lerp(a, b, (t0+t1)/2)) {
				flush()
				continue
			}
			p0, p1 := lerp(a, b, t0), lerp(a, b, t1)
			cur = appendDistinct(cur, p0)
			cur = appendDistinct(cur, p1)
		}
	}
	flush()

	return parts
}

// breaks returns the sorted parameters in [0,1] where segment a→b may cross
// the region outline, always including 0 and 1.
func (r Region) breaks(a, b orb.Point) []float64 {
	ts := []float64{0, 1}
	if r.Buffer <= 0 {
		for _, ring := range r.Polygon {
			for j := 0; j+1 < len(ring); j++ {
				if t, ok := segmentIntersection(a, b, ring[j], ring[j+1]); ok {
					ts = append(ts, t)
				}
			}
		}
	} else {
		steps := int(math.Ceil(planar.Distance(a, b) / (r.Buffer / 2)))
		steps = max(1, min(steps, maxBufferSteps))
		prev := r.Contains(a)
		for s := 1; s <= steps; s++ {
			lo, hi := float64(s-1)/float64(steps), float64(s)/float64(steps)
			in := r.Contains(lerp(a, b, hi))
			if in != prev {
				ts = append(ts, r.bisect(a, b, lo, hi, prev))
			}
			prev = in
		}
	}
	sort.Float64s(ts)

	return ts
}

// bisect narrows [lo,hi] to the parameter where Contains flips away from startIn.
func (r Region) bisect(a, b orb.Point, lo, hi float64, startIn bool) float64 {
	for i := 0; i < bisectIterations; i++ {
		mid := (lo + hi) / 2
		if r.Contains(lerp(a, b, mid)) == startIn {
			lo = mid
		} else {
			hi = mid
		}
	}

	return (lo + hi) / 2
}

func (r Region) boundaryDistance(p orb.Point) float64 {
	best := math.Inf(1)
	for _, ring := range r.Polygon {
		if len(ring) == 0 {
			continue
		}
		best = math.Min(best, Distance(orb.LineString(ring), p))
	}

	return best
}

// segmentIntersection returns the parameter along a→b where it meets c→d.
// Collinear overlaps report no single crossing.
func segmentIntersection(a, b, c, d orb.Point) (float64, bool) {
	rx, ry := b[0]-a[0], b[1]-a[1]
	sx, sy := d[0]-c[0], d[1]-c[1]
	den := rx*sy - ry*sx
	if den == 0 {
		return 0, false
	}
	qx, qy := c[0]-a[0], c[1]-a[1]
	t := (qx*sy - qy*sx) / den
	u := (qx*ry - qy*rx) / den
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return 0, false
	}

	return t, true
}

// segmentDistance returns the minimum distance between segments a→b and c→d.
func segmentDistance(a, b, c, d orb.Point) float64 {
	if _, ok := segmentIntersection(a, b, c, d); ok {
		return 0
	}

	return math.Min(
		math.Min(planar.DistanceFromSegment(c, d, a), planar.DistanceFromSegment(c, d, b)),
		math.Min(planar.DistanceFromSegment(a, b, c), planar.DistanceFromSegment(a, b, d)),
	)
}
