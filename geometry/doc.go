// SPDX-License-Identifier: MIT
// Package geometry supplies the planar primitives the street network is built on.
//
// Polylines, points and polygons are github.com/paulmach/orb values; lengths and
// point distances delegate to orb/planar. On top of those the package adds the
// linear-referencing operations orb does not ship:
//
//   - Project(ls, p)          distance along ls of the closest point to p
//   - Interpolate(ls, d)      point at distance d along ls
//   - SubLine(ls, a, b)       portion of ls between two along-distances
//   - Concat(parts...)        join polylines sharing end/start vertices
//
// and a buffered polygon Region used by boundary extraction and edge filtering:
//
//   - Region.Contains(p)          inside the polygon or within Buffer of its boundary
//   - Region.IntersectsLine(ls)   any overlap between ls and the region
//   - Region.Clip(ls)             the inside parts of ls, in vertex order
//
// All functions are pure; none retain or mutate their inputs.
package geometry
