// SPDX-License-Identifier: MIT
// File: methods_nodes.go
// Role: node lifecycle and queries: AddNode/HasNode/Node/Nodes/NodesWithin/RemoveNode/Degree.
// Determinism:
//   - Nodes() and NodesWithin() return ids sorted ascending.
// Concurrency:
//   - Mutations under the write lock, queries under the read lock.

package network

import (
	"fmt"
	"slices"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/katalvlaran/streetnet/geometry"
)

// AddNode inserts a node at loc. Re-adding an id at the same location (within
// tolerance) is a no-op; a different location returns ErrNodeConflict.
// Complexity: O(1).
func (g *Graph[K]) AddNode(id K, loc orb.Point) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.addNode(id, loc)
}

func (g *Graph[K]) addNode(id K, loc orb.Point) error {
	if n, ok := g.nodes[id]; ok {
		if planar.Distance(n.Loc, loc) > g.tolerance {
			return fmt.Errorf("%w: %v at %v, requested %v", ErrNodeConflict, id, n.Loc, loc)
		}

		return nil
	}
	g.nodes[id] = &Node[K]{ID: id, Loc: loc}
	g.adj.ensure(Real(id))
	g.version++

	return nil
}

// HasNode reports whether id exists.
func (g *Graph[K]) HasNode(id K) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.nodes[id]

	return ok
}

// Node returns the node id or ErrNodeNotFound.
func (g *Graph[K]) Node(id K) (*Node[K], error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrNodeNotFound, id)
	}

	return n, nil
}

// Nodes returns all node ids sorted ascending.
// Complexity: O(V log V).
func (g *Graph[K]) Nodes() []K {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.sortedNodeIDs()
}

func (g *Graph[K]) sortedNodeIDs() []K {
	ids := make([]K, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	return ids
}

// NodesWithin returns the ids of nodes located inside poly grown by buffer.
func (g *Graph[K]) NodesWithin(poly orb.Polygon, buffer float64) []K {
	region := geometry.NewRegion(poly, buffer)

	g.mu.RLock()
	defer g.mu.RUnlock()
	var ids []K
	for _, id := range g.sortedNodeIDs() {
		if region.Contains(g.nodes[id].Loc) {
			ids = append(ids, id)
		}
	}

	return ids
}

// NodeCount returns the number of caller-visible nodes.
func (g *Graph[K]) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.nodes)
}

// RemoveNode deletes id together with every incident edge.
// Complexity: O(deg(id)).
func (g *Graph[K]) RemoveNode(id K) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[id]; !ok {
		return fmt.Errorf("%w: %v", ErrNodeNotFound, id)
	}
	for _, e := range g.incident(id) {
		g.removeEdge(e)
	}
	delete(g.adj, Real(id))
	delete(g.nodes, id)
	g.version++

	return nil
}

// Degree returns the number of edge ends at id; self-loops count twice and
// parallel edges count separately.
// Complexity: O(deg(id)).
func (g *Graph[K]) Degree(id K) (int, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if _, ok := g.nodes[id]; !ok {
		return 0, fmt.Errorf("%w: %v", ErrNodeNotFound, id)
	}

	return g.degree(id), nil
}

func (g *Graph[K]) degree(id K) int {
	v := Real(id)
	var d int
	for w, inner := range g.adj[v] {
		if w == v {
			d += 2 * len(inner)
			continue
		}
		d += len(inner)
	}

	return d
}

// incident returns the edges touching id, sorted by key. Callers hold mu.
func (g *Graph[K]) incident(id K) []*Edge[K] {
	seen := make(map[EdgeKey[K]]struct{})
	var res []*Edge[K]
	for _, inner := range g.adj[Real(id)] {
		for _, arc := range inner {
			if _, dup := seen[arc.Edge]; dup {
				continue
			}
			if e, ok := g.edges[arc.Edge]; ok {
				seen[arc.Edge] = struct{}{}
				res = append(res, e)
			}
		}
	}
	slices.SortFunc(res, func(a, b *Edge[K]) int { return a.Key().Compare(b.Key()) })

	return res
}

// IncidentEdges returns the edges touching id, sorted by key. A self-loop
// appears once.
func (g *Graph[K]) IncidentEdges(id K) ([]*Edge[K], error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if _, ok := g.nodes[id]; !ok {
		return nil, fmt.Errorf("%w: %v", ErrNodeNotFound, id)
	}

	return g.incident(id), nil
}
