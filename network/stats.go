// SPDX-License-Identifier: MIT
// File: stats.go
// Role: size counters used to verify that splices leave no trace.

package network

// Stats counts the graph's adjacency state. Nodes and Edges count what is
// linked (temporary splice vertices and half-edges included); RoutingArcs
// counts arcs of the routing graph.
type Stats struct {
	Nodes       int
	Edges       int
	RoutingArcs int
}

// Stats returns the current counts. The routing graph is built if needed, so
// a graph with an edge lacking a direction returns ErrMissingAttribute.
func (g *Graph[K]) Stats() (Stats, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	st := g.physicalStats()
	r, err := g.ensureRouting()
	if err != nil {
		return st, err
	}
	st.RoutingArcs = r.ArcCount()

	return st, nil
}

// physicalStats counts vertices and links of the undirected adjacency; each
// mirrored pair of arcs is one link. Callers hold mu.
func (g *Graph[K]) physicalStats() Stats {
	st := Stats{Nodes: len(g.adj)}
	for from, m := range g.adj {
		for to, inner := range m {
			if from.Compare(to) <= 0 {
				st.Edges += len(inner)
			}
		}
	}

	return st
}
