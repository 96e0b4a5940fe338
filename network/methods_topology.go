// SPDX-License-Identifier: MIT
// File: methods_topology.go
// Role: derived views: NextTurns, ShortestEdges, Clone.

package network

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
)

// NextTurns returns the edges a traveller standing at node may take next,
// sorted by key. With directed set only edges with a legal arc leaving node
// are returned. Edges whose id is in exclude are skipped, which is how
// callers avoid immediate reversals.
func (g *Graph[K]) NextTurns(node K, directed bool, exclude ...K) ([]*Edge[K], error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[node]; !ok {
		return nil, fmt.Errorf("%w: %v", ErrNodeNotFound, node)
	}
	var arcs []*Arc[K]
	if directed {
		r, err := g.ensureRouting()
		if err != nil {
			return nil, err
		}
		arcs = r.out.out(Real(node))
	} else {
		arcs = g.adj.out(Real(node))
	}

	seen := make(map[EdgeKey[K]]struct{}, len(arcs))
	var res []*Edge[K]
	for _, arc := range arcs {
		if slices.Contains(exclude, arc.Edge.ID) {
			continue
		}
		if _, dup := seen[arc.Edge]; dup {
			continue
		}
		seen[arc.Edge] = struct{}{}
		res = append(res, g.edges[arc.Edge])
	}
	slices.SortFunc(res, func(a, b *Edge[K]) int { return a.Key().Compare(b.Key()) })

	return res, nil
}

// ShortestEdges returns a copy of g that keeps, for every node pair, only the
// shortest of its parallel edges (smallest key on equal lengths).
// Complexity: O(V + E log E).
func (g *Graph[K]) ShortestEdges() *Graph[K] {
	g.mu.RLock()
	defer g.mu.RUnlock()

	type pair struct{ a, b K }
	best := make(map[pair]*Edge[K])
	for _, e := range g.sortedEdges() {
		p := pair{e.Neg, e.Pos}
		if p.b < p.a {
			p.a, p.b = p.b, p.a
		}
		if cur, ok := best[p]; !ok || e.Length < cur.Length {
			best[p] = e
		}
	}

	out := g.emptyCopy()
	for _, e := range g.sortedEdges() {
		p := pair{e.Neg, e.Pos}
		if p.b < p.a {
			p.a, p.b = p.b, p.a
		}
		if best[p] == e {
			out.insertEdge(copyEdge(e))
		}
	}

	return out
}

// Clone returns an independent copy of g: same nodes, edges and attributes.
// Attribute values themselves are copied shallowly.
func (g *Graph[K]) Clone() *Graph[K] {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := g.emptyCopy()
	for _, e := range g.sortedEdges() {
		out.insertEdge(copyEdge(e))
	}

	return out
}

// emptyCopy returns a graph with g's options and nodes but no edges.
func (g *Graph[K]) emptyCopy() *Graph[K] {
	out := &Graph[K]{
		tolerance:  g.tolerance,
		defaultDir: g.defaultDir,
		nodes:      make(map[K]*Node[K], len(g.nodes)),
		edges:      make(map[EdgeKey[K]]*Edge[K], len(g.edges)),
		adj:        make(adjacency[K], len(g.nodes)),
	}
	for id, n := range g.nodes {
		out.nodes[id] = &Node[K]{ID: n.ID, Loc: n.Loc}
		out.adj.ensure(Real(id))
	}

	return out
}

func copyEdge[K cmp.Ordered](e *Edge[K]) *Edge[K] {
	attrs := maps.Clone(e.Attrs)
	if attrs == nil {
		attrs = make(Attrs)
	}

	return &Edge[K]{
		ID:       e.ID,
		Neg:      e.Neg,
		Pos:      e.Pos,
		Geometry: e.Geometry.Clone(),
		Length:   e.Length,
		Attrs:    attrs,
	}
}
