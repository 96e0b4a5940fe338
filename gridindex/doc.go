// Package gridindex provides a grid-bucketed spatial index for snapping points
// to a network.Graph.
//
// Build lays a regular grid over an extent; every edge is registered in each
// cell its bounding box may overlap. Query locates the point's cell, unions
// the edges registered in the surrounding 3×3 block, measures the exact
// point-to-polyline distance and returns hits nearest first.
//
// The 3×3 block is only complete for radii up to the cell size; larger radii
// are rejected with ErrRadiusTooLarge rather than silently missing edges.
//
// An Index is immutable. It is never patched after graph edits: Lazy keys a
// cached Index by network.Graph.Version and rebuilds it whole.
package gridindex
