// SPDX-License-Identifier: MIT
// File: routing_graph.go
// Role: the directed routing graph derived from edges and their direction attribute.
// Policy:
//   - Never edited by hand: BuildRoutingGraph is a pure function of the edges.
//   - The Graph caches one instance under its structural version.

package network

import (
	"cmp"
	"fmt"
)

// RoutingGraph is a directed multigraph over the same node set as its Graph.
// Each edge contributes a forward arc (neg→pos), a backward arc (pos→neg),
// both or none, according to its Direction.
type RoutingGraph[K cmp.Ordered] struct {
	out     adjacency[K]
	in      adjacency[K] // mirror of out keyed by head
	version uint64
}

func newRoutingGraph[K cmp.Ordered](version uint64) *RoutingGraph[K] {
	return &RoutingGraph[K]{out: make(adjacency[K]), in: make(adjacency[K]), version: version}
}

func (r *RoutingGraph[K]) link(arc *Arc[K]) {
	r.out.link(arc)
	r.in.link(&Arc[K]{From: arc.To, To: arc.From, Edge: arc.Edge, Length: arc.Length, slot: arc.slot})
}

func (r *RoutingGraph[K]) unlink(from, to Vertex[K], slot arcSlot[K]) *Arc[K] {
	arc := r.out.unlink(from, to, slot)
	if arc != nil {
		r.in.unlink(to, from, slot)
	}

	return arc
}

func (r *RoutingGraph[K]) ensure(v Vertex[K]) {
	r.out.ensure(v)
	r.in.ensure(v)
}

func (r *RoutingGraph[K]) drop(v Vertex[K]) {
	delete(r.out, v)
	delete(r.in, v)
}

// incoming returns the arcs ending at v, oriented as stored in out.
func (r *RoutingGraph[K]) incoming(v Vertex[K]) []*Arc[K] {
	mirrored := r.in.out(v)
	res := make([]*Arc[K], 0, len(mirrored))
	for _, m := range mirrored {
		res = append(res, r.out[m.To][v][m.slot])
	}
	sortArcs(res)

	return res
}

// routingArcs returns the arcs e contributes to the routing graph.
func routingArcs[K cmp.Ordered](e *Edge[K]) ([]*Arc[K], error) {
	d, ok := e.Direction()
	if !ok {
		return nil, fmt.Errorf("%w: %s on edge %v", ErrMissingAttribute, AttrDirection, e.Key())
	}
	key := e.Key()
	var arcs []*Arc[K]
	if d.AllowsForward() {
		arcs = append(arcs, &Arc[K]{
			From: Real(e.Neg), To: Real(e.Pos), Edge: key, Length: e.Length,
			slot: arcSlot[K]{id: e.ID},
		})
	}
	if d.AllowsBackward() {
		arcs = append(arcs, &Arc[K]{
			From: Real(e.Pos), To: Real(e.Neg), Edge: key, Length: e.Length,
			slot: arcSlot[K]{id: e.ID, back: true},
		})
	}

	return arcs, nil
}

// buildRouting derives a fresh routing graph. Callers hold mu (read or write).
func (g *Graph[K]) buildRouting() (*RoutingGraph[K], error) {
	r := newRoutingGraph[K](g.version)
	for id := range g.nodes {
		r.ensure(Real(id))
	}
	for _, e := range g.sortedEdges() {
		arcs, err := routingArcs(e)
		if err != nil {
			return nil, err
		}
		for _, arc := range arcs {
			r.link(arc)
		}
	}

	return r, nil
}

// ensureRouting returns the cached routing graph, rebuilding it when the
// structural version moved. Callers hold the write lock.
func (g *Graph[K]) ensureRouting() (*RoutingGraph[K], error) {
	if g.routing != nil && g.routing.version == g.version {
		return g.routing, nil
	}
	r, err := g.buildRouting()
	if err != nil {
		return nil, err
	}
	g.routing = r

	return r, nil
}

// BuildRoutingGraph derives the routing graph from the current edges.
// Returns ErrMissingAttribute when an edge has no direction.
// Complexity: O(V + E log E).
func (g *Graph[K]) BuildRoutingGraph() (*RoutingGraph[K], error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.buildRouting()
}

// Routing returns a snapshot of the cached routing graph, building the cache
// first if the graph changed since the last build.
func (g *Graph[K]) Routing() (*RoutingGraph[K], error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, err := g.ensureRouting()
	if err != nil {
		return nil, err
	}

	return r.clone(), nil
}

func (r *RoutingGraph[K]) clone() *RoutingGraph[K] {
	c := newRoutingGraph[K](r.version)
	for v := range r.out {
		c.ensure(v)
	}
	for _, arc := range r.arcs() {
		cp := *arc
		c.link(&cp)
	}

	return c
}

func (r *RoutingGraph[K]) arcs() []*Arc[K] {
	var res []*Arc[K]
	for _, m := range r.out {
		for _, inner := range m {
			for _, arc := range inner {
				res = append(res, arc)
			}
		}
	}
	sortArcs(res)

	return res
}

// Version is the graph version this routing graph was derived from.
func (r *RoutingGraph[K]) Version() uint64 { return r.version }

// Order returns the number of vertices.
func (r *RoutingGraph[K]) Order() int { return len(r.out) }

// ArcCount returns the number of directed arcs.
func (r *RoutingGraph[K]) ArcCount() int { return r.out.count() }

// Arcs returns every arc, sorted by (From, To, Edge).
func (r *RoutingGraph[K]) Arcs() []*Arc[K] { return r.arcs() }

// Out returns the arcs leaving node id.
func (r *RoutingGraph[K]) Out(id K) []*Arc[K] { return r.out.out(Real(id)) }

// In returns the arcs entering node id.
func (r *RoutingGraph[K]) In(id K) []*Arc[K] { return r.incoming(Real(id)) }

// HasArc reports whether travel from→to is possible along edge key.
func (r *RoutingGraph[K]) HasArc(from, to K, key EdgeKey[K]) bool {
	for _, arc := range r.out.arcs(Real(from), Real(to)) {
		if arc.Edge == key {
			return true
		}
	}

	return false
}
