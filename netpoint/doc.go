// Package netpoint expresses positions on a street network: a Location is a
// point on one edge held as distances from its two end nodes, a Path is a
// route between two locations, and Snap turns a free coordinate into the
// nearest Location.
//
// A Location refers to its edge by key and never copies the edge, so it is
// valid only while that edge exists in the graph it was built against.
//
// Snap either delegates to a gridindex (WithIndex, WithLazyIndex) or scans
// every edge. Both rank hits by (distance, edge key), so the two agree on the
// nearest edge whenever the search radius fits the grid cell size. Finding
// nothing is reported as ok == false, never as an error.
package netpoint
