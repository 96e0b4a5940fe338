// SPDX-License-Identifier: MIT
// File: location.go
// Role: Location, a point on an edge referenced by node distances.
// Invariants:
//   - DistanceNegative + DistancePositive equals the edge length.
//   - The key is stored in the edge's own orientation.

package netpoint

import (
	"cmp"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/katalvlaran/streetnet/geometry"
	"github.com/katalvlaran/streetnet/network"
)

// Location is an immutable point on one edge.
type Location[K cmp.Ordered] struct {
	edge   network.EdgeKey[K]
	dNeg   float64
	dPos   float64
	length float64
}

// New builds a Location on key from both node distances. Distances are taken
// relative to key as given: if key names the edge in reverse orientation they
// are swapped to match the stored edge.
//
// Fails with network.ErrEdgeNotFound, ErrOutOfRange (a distance below zero or
// past the end) or ErrDistanceMismatch (sum off by more than the graph
// tolerance). Values within tolerance are clamped onto the edge.
func New[K cmp.Ordered](g *network.Graph[K], key network.EdgeKey[K], dNeg, dPos float64) (Location[K], error) {
	e, err := g.Edge(key)
	if err != nil {
		return Location[K]{}, err
	}
	if key.Neg != e.Neg {
		dNeg, dPos = dPos, dNeg
	}

	tol := g.Tolerance()
	for _, d := range [2]float64{dNeg, dPos} {
		if math.IsNaN(d) || d < -tol || d > e.Length+tol {
			return Location[K]{}, fmt.Errorf("%w: %g on edge %v of length %g", ErrOutOfRange, d, e.Key(), e.Length)
		}
	}
	if math.Abs(dNeg+dPos-e.Length) > tol {
		return Location[K]{}, fmt.Errorf("%w: %g+%g vs %g on edge %v", ErrDistanceMismatch, dNeg, dPos, e.Length, e.Key())
	}
	dNeg = min(max(dNeg, 0), e.Length)

	return Location[K]{edge: e.Key(), dNeg: dNeg, dPos: e.Length - dNeg, length: e.Length}, nil
}

// FromNegative builds a Location dNeg from the negative node of key.
func FromNegative[K cmp.Ordered](g *network.Graph[K], key network.EdgeKey[K], dNeg float64) (Location[K], error) {
	e, err := g.Edge(key)
	if err != nil {
		return Location[K]{}, err
	}

	return New(g, key, dNeg, e.Length-dNeg)
}

// FromPositive builds a Location dPos from the positive node of key.
func FromPositive[K cmp.Ordered](g *network.Graph[K], key network.EdgeKey[K], dPos float64) (Location[K], error) {
	e, err := g.Edge(key)
	if err != nil {
		return Location[K]{}, err
	}

	return New(g, key, e.Length-dPos, dPos)
}

// Centroid returns the Location halfway along key.
func Centroid[K cmp.Ordered](g *network.Graph[K], key network.EdgeKey[K]) (Location[K], error) {
	e, err := g.Edge(key)
	if err != nil {
		return Location[K]{}, err
	}

	return New(g, e.Key(), e.Length/2, e.Length/2)
}

// Edge returns the key of the edge holding the location.
func (l Location[K]) Edge() network.EdgeKey[K] { return l.edge }

// DistanceNegative returns the distance to the edge's negative node.
func (l Location[K]) DistanceNegative() float64 { return l.dNeg }

// DistancePositive returns the distance to the edge's positive node.
func (l Location[K]) DistancePositive() float64 { return l.dPos }

// EdgeLength returns the length of the edge when the location was built.
func (l Location[K]) EdgeLength() float64 { return l.length }

// DistanceFrom returns the distance to node, an endpoint of the edge. On a
// self-loop the shorter way round is returned.
func (l Location[K]) DistanceFrom(node K) (float64, error) {
	switch {
	case l.edge.Neg == node && l.edge.Pos == node:
		return min(l.dNeg, l.dPos), nil
	case l.edge.Neg == node:
		return l.dNeg, nil
	case l.edge.Pos == node:
		return l.dPos, nil
	}

	return 0, fmt.Errorf("%w: %v on edge %v", ErrNotEndpoint, node, l.edge)
}

// along converts the location to a distance along the edge geometry, which
// may differ from the stored length by up to the graph tolerance.
func (l Location[K]) along(geom orb.LineString) float64 {
	if l.length == 0 {
		return 0
	}

	return l.dNeg * geometry.Length(geom) / l.length
}

// Point returns the coordinate of the location.
func (l Location[K]) Point(g *network.Graph[K]) (orb.Point, error) {
	e, err := g.Edge(l.edge)
	if err != nil {
		return orb.Point{}, err
	}

	return geometry.Interpolate(e.Geometry, l.along(e.Geometry)), nil
}

// SubLine returns the part of the edge from the location to node, running
// toward node.
func (l Location[K]) SubLine(g *network.Graph[K], node K) (orb.LineString, error) {
	e, err := g.Edge(l.edge)
	if err != nil {
		return nil, err
	}
	at := l.along(e.Geometry)
	switch node {
	case e.Neg:
		return geometry.SubLine(e.Geometry, at, 0), nil
	case e.Pos:
		return geometry.SubLine(e.Geometry, at, geometry.Length(e.Geometry)), nil
	}

	return nil, fmt.Errorf("%w: %v on edge %v", ErrNotEndpoint, node, l.edge)
}

// EuclideanDistance returns the straight-line distance between l and o.
func (l Location[K]) EuclideanDistance(g *network.Graph[K], o Location[K]) (float64, error) {
	a, err := l.Point(g)
	if err != nil {
		return 0, err
	}
	b, err := o.Point(g)
	if err != nil {
		return 0, err
	}

	return planar.Distance(a, b), nil
}

// Equal reports whether l and o lie on the same edge within
// network.DefaultTolerance of each other.
func (l Location[K]) Equal(o Location[K]) bool {
	return l.edge == o.edge && math.Abs(l.dNeg-o.dNeg) <= network.DefaultTolerance
}

// String implements fmt.Stringer.
func (l Location[K]) String() string {
	return fmt.Sprintf("%v@%g/%g", l.edge, l.dNeg, l.dPos)
}
