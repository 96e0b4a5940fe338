// SPDX-License-Identifier: MIT
// File: methods_edges.go
// Role: edge lifecycle & queries: AddEdge/RemoveEdge/HasEdge/Edge/Edges/EdgesWithin/Extent/SetAttr.
// Determinism:
//   - Edges() returns edges sorted by EdgeKey (Neg, Pos, ID).
// Concurrency:
//   - Mutations under the write lock, queries under the read lock.

package network

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/katalvlaran/streetnet/geometry"
)

// AddEdge inserts an edge between existing nodes neg and pos.
//
// Steps:
//  1. Both endpoints must exist (ErrNodeNotFound).
//  2. (neg,pos,id) and (pos,neg,id) must be absent (ErrDuplicateEdge).
//  3. A nil geometry becomes the straight segment neg→pos; otherwise it needs
//     two vertices (ErrBadGeometry) and must start at neg and end at pos
//     (ErrEndpointMismatch).
//  4. WithLength must agree with the geometry length (ErrLengthMismatch);
//     without it the geometry length is used.
//  5. Reserved attributes are normalized (direction parsed, roundabout bool),
//     the default direction applies when none is given.
//  6. The edge is stored, linked both ways and the version is bumped.
//
// Complexity: O(len(geometry)).
func (g *Graph[K]) AddEdge(neg, pos, id K, geom orb.LineString, opts ...EdgeOption) (*Edge[K], error) {
	var cfg edgeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	key := EdgeKey[K]{Neg: neg, Pos: pos, ID: id}
	nNeg, ok := g.nodes[neg]
	if !ok {
		return nil, fmt.Errorf("%w: %v (edge %v)", ErrNodeNotFound, neg, key)
	}
	nPos, ok := g.nodes[pos]
	if !ok {
		return nil, fmt.Errorf("%w: %v (edge %v)", ErrNodeNotFound, pos, key)
	}
	if g.lookup(neg, pos, id) != nil {
		return nil, fmt.Errorf("%w: %v", ErrDuplicateEdge, key)
	}

	if geom == nil {
		geom = orb.LineString{nNeg.Loc, nPos.Loc}
	} else {
		if len(geom) < 2 {
			return nil, fmt.Errorf("%w: edge %v has %d", ErrBadGeometry, key, len(geom))
		}
		geom = geom.Clone()
	}
	if planar.Distance(geom[0], nNeg.Loc) > g.tolerance || planar.Distance(geom[len(geom)-1], nPos.Loc) > g.tolerance {
		return nil, fmt.Errorf("%w: edge %v runs %v→%v, nodes at %v→%v",
			ErrEndpointMismatch, key, geom[0], geom[len(geom)-1], nNeg.Loc, nPos.Loc)
	}

	length := geometry.Length(geom)
	if cfg.length != nil {
		if !g.lengthsAgree(*cfg.length, length) {
			return nil, fmt.Errorf("%w: edge %v length=%g geometry=%g", ErrLengthMismatch, key, *cfg.length, length)
		}
		length = *cfg.length
	}

	attrs, err := g.normalizeAttrs(cfg.attrs)
	if err != nil {
		return nil, fmt.Errorf("edge %v: %w", key, err)
	}

	e := &Edge[K]{ID: id, Neg: neg, Pos: pos, Geometry: geom, Length: length, Attrs: attrs}
	g.insertEdge(e)

	return e, nil
}

func (g *Graph[K]) insertEdge(e *Edge[K]) {
	g.edges[e.Key()] = e
	for _, arc := range physicalArcs(e) {
		g.adj.link(arc)
	}
	g.version++
}

func (g *Graph[K]) lengthsAgree(a, b float64) bool {
	return math.Abs(a-b) <= g.tolerance*math.Max(1, math.Abs(b))
}

func (g *Graph[K]) normalizeAttrs(in Attrs) (Attrs, error) {
	out := make(Attrs, len(in)+1)
	maps.Copy(out, in)
	if v, ok := out[AttrDirection]; ok {
		d, err := ParseDirection(v)
		if err != nil {
			return nil, err
		}
		out[AttrDirection] = d
	} else if g.defaultDir != nil {
		out[AttrDirection] = *g.defaultDir
	}
	if v, ok := out[AttrRoundabout]; ok {
		if _, isBool := v.(bool); !isBool {
			return nil, fmt.Errorf("%w: %s=%v", ErrBadAttribute, AttrRoundabout, v)
		}
	}

	return out, nil
}

// lookup finds (neg,pos,id) in either orientation. Callers hold mu.
func (g *Graph[K]) lookup(neg, pos, id K) *Edge[K] {
	if e, ok := g.edges[EdgeKey[K]{Neg: neg, Pos: pos, ID: id}]; ok {
		return e
	}
	if e, ok := g.edges[EdgeKey[K]{Neg: pos, Pos: neg, ID: id}]; ok {
		return e
	}

	return nil
}

// RemoveEdge deletes the edge identified by key (either orientation).
// Complexity: O(1).
func (g *Graph[K]) RemoveEdge(key EdgeKey[K]) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	e := g.lookup(key.Neg, key.Pos, key.ID)
	if e == nil {
		return fmt.Errorf("%w: %v", ErrEdgeNotFound, key)
	}
	g.removeEdge(e)

	return nil
}

func (g *Graph[K]) removeEdge(e *Edge[K]) {
	delete(g.edges, e.Key())
	for _, arc := range physicalArcs(e) {
		g.adj.unlink(arc.From, arc.To, arc.slot)
	}
	g.version++
}

// HasEdge reports whether key exists in either orientation.
func (g *Graph[K]) HasEdge(key EdgeKey[K]) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.lookup(key.Neg, key.Pos, key.ID) != nil
}

// Edge returns the edge for key (either orientation) or ErrEdgeNotFound.
func (g *Graph[K]) Edge(key EdgeKey[K]) (*Edge[K], error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	e := g.lookup(key.Neg, key.Pos, key.ID)
	if e == nil {
		return nil, fmt.Errorf("%w: %v", ErrEdgeNotFound, key)
	}

	return e, nil
}

// Edges returns all edges sorted by key.
// Complexity: O(E log E).
func (g *Graph[K]) Edges() []*Edge[K] {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.sortedEdges()
}

func (g *Graph[K]) sortedEdges() []*Edge[K] {
	res := make([]*Edge[K], 0, len(g.edges))
	for _, e := range g.edges {
		res = append(res, e)
	}
	slices.SortFunc(res, func(a, b *Edge[K]) int { return a.Key().Compare(b.Key()) })

	return res
}

// Snapshot returns the edges sorted by key and the version they belong to,
// both read under one lock.
func (g *Graph[K]) Snapshot() ([]*Edge[K], uint64) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.sortedEdges(), g.version
}

// EdgeCount returns the number of edges.
func (g *Graph[K]) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.edges)
}

// EdgesWithin returns edges whose geometry intersects poly grown by buffer,
// sorted by key.
func (g *Graph[K]) EdgesWithin(poly orb.Polygon, buffer float64) []*Edge[K] {
	region := geometry.NewRegion(poly, buffer)

	g.mu.RLock()
	defer g.mu.RUnlock()
	var res []*Edge[K]
	for _, e := range g.sortedEdges() {
		if region.IntersectsLine(e.Geometry) {
			res = append(res, e)
		}
	}

	return res
}

// Extent returns the bounding box over all edge geometries, or ErrEmptyNetwork.
// Complexity: O(total vertices).
func (g *Graph[K]) Extent() (orb.Bound, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if len(g.edges) == 0 {
		return orb.Bound{}, ErrEmptyNetwork
	}
	var (
		b     orb.Bound
		first = true
	)
	for _, e := range g.edges {
		if first {
			b, first = e.Geometry.Bound(), false
			continue
		}
		b = b.Union(e.Geometry.Bound())
	}

	return b, nil
}

// SetAttr sets one attribute on the edge identified by key. Reserved keys are
// validated; changing the direction moves the version since the routing graph
// derives from it.
func (g *Graph[K]) SetAttr(key EdgeKey[K], name string, value any) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	e := g.lookup(key.Neg, key.Pos, key.ID)
	if e == nil {
		return fmt.Errorf("%w: %v", ErrEdgeNotFound, key)
	}
	switch name {
	case AttrDirection:
		d, err := ParseDirection(value)
		if err != nil {
			return fmt.Errorf("edge %v: %w", key, err)
		}
		value = d
		g.version++
	case AttrRoundabout:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("edge %v: %w: %s=%v", key, ErrBadAttribute, AttrRoundabout, value)
		}
	}
	e.Attrs[name] = value

	return nil
}
