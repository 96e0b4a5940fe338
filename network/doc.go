// Package network holds the street network: an undirected multigraph of
// located nodes and polyline edges, and the directed routing graph derived
// from the edges' travel directions.
//
// Model:
//
//   - Node: id + orb.Point location.
//   - Edge: (Neg, Pos, ID) key; ID is unique per unordered node pair, so
//     parallel edges (dual carriageways, lay-bys) coexist. Geometry always
//     runs Neg→Pos and Length equals its planar length within Tolerance().
//   - Attributes: "direction" (Direction) drives the routing graph,
//     "roundabout" (bool) is carried through unification; other keys are free.
//   - RoutingGraph: two-way ⇒ both arcs, forward ⇒ Neg→Pos, backward ⇒
//     Pos→Neg, closed ⇒ none. Cached under Version(), rebuilt after any
//     structural edit; never edited directly.
//
// Splicing:
//
// Shortest paths between interior points are found by temporarily cutting the
// edges at those points. BeginSplice opens the transaction and holds the
// graph's write lock; Rollback restores the adjacency and releases it:
//
//	s, err := g.BeginSplice(network.SpliceUndirected)
//	if err != nil { ... }
//	defer s.Rollback()
//	t1, err := s.Split(key, dNeg, dPos)
//
// Temporary vertices are Vertex values with Splice > 0, a namespace disjoint
// from caller ids.
//
// Errors:
//
//	ErrNodeNotFound, ErrDuplicateEdge, ErrLengthMismatch, ErrEndpointMismatch,
//	ErrBadGeometry, ErrBadAttribute: construction, fail fast.
//	ErrMissingAttribute: routing graph needs a direction on every edge.
//	ErrEmptyNetwork: Extent on a graph without edges.
//	ErrInvariantViolation: inconsistent state met mid-algorithm.
//
// Concurrency: Graph is safe for concurrent use; a splice serializes all
// other access to its graph until rolled back.
package network
