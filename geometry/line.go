// SPDX-License-Identifier: MIT
// File: line.go
// Role: linear referencing over orb.LineString (length, project, interpolate, sub-lines).
// Determinism:
//   - Project resolves ties to the earliest segment.

package geometry

import (
	"errors"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Epsilon is the absolute tolerance used for length and coordinate comparisons.
const Epsilon = 1e-9

// ErrShortLine indicates a polyline with fewer than two vertices.
var ErrShortLine = errors.New("geometry: polyline needs at least two vertices")

// Length returns the planar length of ls.
func Length(ls orb.LineString) float64 {
	return planar.Length(ls)
}

// Distance returns the planar distance from p to the closest point of ls.
func Distance(ls orb.LineString, p orb.Point) float64 {
	if len(ls) == 1 {
		return planar.Distance(ls[0], p)
	}

	return planar.DistanceFrom(ls, p)
}

// Project returns the distance along ls of the point on ls closest to p, and
// the distance from p to that point. Ties resolve to the earliest segment.
//
// Complexity: O(n) in the number of vertices.
func Project(ls orb.LineString, p orb.Point) (along, dist float64) {
	if len(ls) == 0 {
		return 0, math.Inf(1)
	}
	if len(ls) == 1 {
		return 0, planar.Distance(ls[0], p)
	}

	best := math.Inf(1)
	var walked float64
	for i := 0; i+1 < len(ls); i++ {
		a, b := ls[i], ls[i+1]
		seg := planar.Distance(a, b)
		t := segmentParam(a, b, p)
		q := lerp(a, b, t)
		// strict < keeps the earliest segment on ties
		if d := planar.Distance(q, p); d < best {
			best = d
			along = walked + t*seg
		}
		walked += seg
	}

	return along, best
}

// Interpolate returns the point at distance d along ls. d is clamped to
// [0, Length(ls)].
func Interpolate(ls orb.LineString, d float64) orb.Point {
	if len(ls) == 0 {
		return orb.Point{}
	}
	if d <= 0 || len(ls) == 1 {
		return ls[0]
	}

	var walked float64
	for i := 0; i+1 < len(ls); i++ {
		seg := planar.Distance(ls[i], ls[i+1])
		if walked+seg >= d {
			if seg == 0 {
				return ls[i]
			}

			return lerp(ls[i], ls[i+1], (d-walked)/seg)
		}
		walked += seg
	}

	return ls[len(ls)-1]
}

// SubLine returns the part of ls between the along-distances from and to.
// Both are clamped to [0, Length(ls)]; if from > to the result runs backwards.
// The result always has at least two vertices (possibly coincident).
func SubLine(ls orb.LineString, from, to float64) orb.LineString {
	if len(ls) < 2 {
		return ls.Clone()
	}
	if from > to {
		return Reverse(SubLine(ls, to, from))
	}

	total := Length(ls)
	from = clamp(from, 0, total)
	to = clamp(to, 0, total)

	out := orb.LineString{Interpolate(ls, from)}
	var walked float64
	for i := 1; i < len(ls); i++ {
		walked += planar.Distance(ls[i-1], ls[i])
		if walked > from && walked < to {
			out = appendDistinct(out, ls[i])
		}
	}
	end := Interpolate(ls, to)
	if len(out) == 1 || !out[len(out)-1].Equal(end) {
		out = append(out, end)
	}

	return out
}

// Reverse returns a reversed copy of ls.
func Reverse(ls orb.LineString) orb.LineString {
	out := make(orb.LineString, len(ls))
	for i, p := range ls {
		out[len(ls)-1-i] = p
	}

	return out
}

// Concat joins polylines end to start. A vertex shared by consecutive parts
// appears once in the result.
func Concat(parts ...orb.LineString) orb.LineString {
	var n int
	for _, p := range parts {
		n += len(p)
	}
	out := make(orb.LineString, 0, n)
	for _, part := range parts {
		for _, p := range part {
			out = appendDistinct(out, p)
		}
	}

	return out
}

// Bound returns the bounding box of ls.
func Bound(ls orb.LineString) orb.Bound {
	return ls.Bound()
}

// Near reports whether a and b lie within Epsilon of each other.
func Near(a, b orb.Point) bool {
	return planar.Distance(a, b) <= Epsilon
}

// segmentParam returns the clamped parameter t of the projection of p on [a,b].
func segmentParam(a, b, p orb.Point) float64 {
	dx, dy := b[0]-a[0], b[1]-a[1]
	den := dx*dx + dy*dy
	if den == 0 {
		return 0
	}

	return clamp(((p[0]-a[0])*dx+(p[1]-a[1])*dy)/den, 0, 1)
}

func lerp(a, b orb.Point, t float64) orb.Point {
	return orb.Point{a[0] + t*(b[0]-a[0]), a[1] + t*(b[1]-a[1])}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// appendDistinct appends p unless it equals the current last vertex.
func appendDistinct(ls orb.LineString, p orb.Point) orb.LineString {
	if len(ls) > 0 && ls[len(ls)-1].Equal(p) {
		return ls
	}

	return append(ls, p)
}
