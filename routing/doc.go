// Package routing finds shortest paths between two netpoint.Locations on a
// network.Graph.
//
// Overview:
//
//   - Undirected ignores travel direction and walks the physical edges.
//   - Directed walks the routing graph, so one-way streets are honoured and a
//     route may be forced the long way round.
//   - Length is Undirected returning only the distance.
//   - Finder binds a graph to one of the two modes.
//
// Locations on different edges are anchored by splicing: each location's
// edge is temporarily cut at the location, creating a temporary vertex joined
// to both endpoints by the two partial lengths. The search then runs between
// the temporary vertices. The splice holds the graph's write lock and is
// rolled back on every exit path (found, not found, error), so the node,
// edge and routing arc counts after a query equal those before it.
//
// Search:
//
//   - Bidirectional (default) and SingleSource Dijkstra with a lazy
//     decrease-key binary heap; both return the same length.
//   - Where parallel edges join two consecutive route nodes, the shortest is
//     reported.
//   - WithMaxDistance caps the search; longer routes report no path.
//
// Results:
//
//   - No route is ok == false with a nil error.
//   - Broken graph state is wrapped in network.ErrInvariantViolation and is
//     returned only after the rollback has run.
//
// Complexity: O((V+E) log V) per query.
package routing
