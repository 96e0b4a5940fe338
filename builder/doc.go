// Package builder generates deterministic street networks for tests, examples
// and benchmarks.
//
// A Constructor adds one shape to a *network.Graph[string]; BuildNetwork
// creates the graph and runs constructors in order, Apply runs them against an
// existing graph.
//
// Shapes:
//
//   - Grid(rows, cols): orthogonal street grid, node IDs "r,c".
//   - Path(n): straight street of n-1 segments.
//   - Ring(n), Roundabout(n): closed ring road; Roundabout flags its edges.
//   - Star(n): n dead ends around one hub.
//   - Square(): a single block; with WithSymbolIDs its corners are A..D.
//
// Options (BuilderOption) set the ID scheme, spacing, origin, edge direction,
// bend and a seeded one-way probability. Option constructors panic on
// meaningless input; constructors return sentinel errors and never panic.
//
// Given the same options, seed and constructor order, output is identical.
package builder
