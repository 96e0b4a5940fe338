// SPDX-License-Identifier: MIT
// File: snap.go
// Role: snapping free coordinates onto the nearest edge.
// Determinism:
//   - Hits are ranked by (distance, edge key) on both the index and the
//     brute-force path.

package netpoint

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/paulmach/orb"

	"github.com/katalvlaran/streetnet/geometry"
	"github.com/katalvlaran/streetnet/gridindex"
	"github.com/katalvlaran/streetnet/network"
)

// Querier is the part of gridindex.Index and gridindex.Lazy used by Snap.
type Querier[K cmp.Ordered] interface {
	Query(x, y, radius float64) ([]gridindex.Candidate[K], error)
}

// Match is one snap result: the location on the edge and the distance from
// the query point to it.
type Match[K cmp.Ordered] struct {
	Location Location[K]
	Distance float64
}

// Option configures Snap and SnapN.
type Option func(*options)

type options struct {
	index  any
	radius float64
	obs    SnapObserver
}

// WithIndex delegates candidate search to idx. A stale *gridindex.Index
// (graph changed since build) fails with gridindex.ErrStaleIndex. A nil idx
// means no index.
func WithIndex[K cmp.Ordered](idx *gridindex.Index[K]) Option {
	return func(o *options) {
		if idx == nil {
			o.index = nil
			return
		}
		o.index = Querier[K](idx)
	}
}

// WithLazyIndex delegates to a version-keyed lazy index. A nil l means no
// index.
func WithLazyIndex[K cmp.Ordered](l *gridindex.Lazy[K]) Option {
	return func(o *options) {
		if l == nil {
			o.index = nil
			return
		}
		o.index = Querier[K](l)
	}
}

// WithRadius keeps only edges strictly closer than r. r ≤ 0 means no limit.
func WithRadius(r float64) Option {
	return func(o *options) { o.radius = r }
}

// WithMetrics reports every snap to obs.
func WithMetrics(obs SnapObserver) Option {
	return func(o *options) { o.obs = obs }
}

// Snap returns the nearest location to (x, y). ok is false when nothing lies
// within the radius (or, with an index, within the searched cells).
func Snap[K cmp.Ordered](g *network.Graph[K], x, y float64, opts ...Option) (Match[K], bool, error) {
	res, err := SnapN(g, x, y, 1, opts...)
	if err != nil || len(res) == 0 {
		return Match[K]{}, false, err
	}

	return res[0], true, nil
}

// SnapN returns up to n nearest locations, nearest first. n ≤ 0 means all
// candidates.
//
// Complexity: O(E·v) brute force over E edges of v vertices; with an index,
// only the 3×3 block of cells around the point is measured.
func SnapN[K cmp.Ordered](g *network.Graph[K], x, y float64, n int, opts ...Option) ([]Match[K], error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	cands, err := candidates(g, x, y, o)
	if err != nil {
		return nil, err
	}
	if n > 0 && len(cands) > n {
		cands = cands[:n]
	}

	p := orb.Point{x, y}
	res := make([]Match[K], 0, len(cands))
	for _, c := range cands {
		e, err := g.Edge(c.Edge)
		if err != nil {
			return nil, err
		}
		along, _ := geometry.Project(e.Geometry, p)
		dNeg := along
		if gl := geometry.Length(e.Geometry); gl > 0 {
			dNeg = along * e.Length / gl
		}
		loc, err := New(g, e.Key(), dNeg, e.Length-dNeg)
		if err != nil {
			return nil, err
		}
		res = append(res, Match[K]{Location: loc, Distance: c.Distance})
	}

	if o.obs != nil {
		if len(res) == 0 {
			o.obs.ObserveSnap(false, 0)
		} else {
			o.obs.ObserveSnap(true, res[0].Distance)
		}
	}

	return res, nil
}

func candidates[K cmp.Ordered](g *network.Graph[K], x, y float64, o options) ([]gridindex.Candidate[K], error) {
	if o.index != nil {
		q, ok := o.index.(Querier[K])
		if !ok {
			return nil, fmt.Errorf("%w: %T", ErrIndexType, o.index)
		}
		if idx, ok := q.(*gridindex.Index[K]); ok && !idx.Fresh(g) {
			return nil, fmt.Errorf("%w: built at %d, graph at %d", gridindex.ErrStaleIndex, idx.Version(), g.Version())
		}

		return q.Query(x, y, o.radius)
	}

	p := orb.Point{x, y}
	var res []gridindex.Candidate[K]
	for _, e := range g.Edges() {
		d := geometry.Distance(e.Geometry, p)
		if o.radius > 0 && !(d < o.radius) {
			continue
		}
		res = append(res, gridindex.Candidate[K]{Edge: e.Key(), Distance: d})
	}
	slices.SortStableFunc(res, func(a, b gridindex.Candidate[K]) int {
		return cmp.Compare(a.Distance, b.Distance)
	})

	return res, nil
}
