// Package streetnet is a planar street network toolkit: build a network of
// located nodes and polyline streets, merge pass-through chains, snap free
// coordinates onto streets, find shortest paths between arbitrary points on
// streets (honouring one-way travel or not) and cut networks to a polygon.
//
// Packages:
//
//	geometry/   polyline measures, linear referencing, buffered regions, clipping
//	network/    the street multigraph, its derived routing graph, splices, records
//	unify/      merging chains of degree-2 nodes into single edges
//	gridindex/  grid-bucketed spatial index for snapping
//	netpoint/   locations on edges, snapping, paths
//	routing/    shortest paths between locations (Dijkstra, bidirectional)
//	boundary/   extraction and labelling of the part inside a polygon
//	builder/    synthetic networks: grids, paths, rings, stars, squares
//	config/     YAML settings for the command
//	logs/       shared logrus logger
//	metrics/    Prometheus collector for index builds, snaps and routes
//
// The streetnet command (cmd/streetnet) drives all of them over JSON network
// records.
//
// Quick ASCII example:
//
//	D───C
//	│   │
//	A───B
//
// is builder.Square with symbol ids: a 10×10 block whose opposite sides are
// 20 apart along the streets.
package streetnet
