// SPDX-License-Identifier: MIT
// File: export.go
// Role: GeoJSON view of edges and nodes for external writers and renderers.

package network

import (
	"github.com/paulmach/orb/geojson"

	"github.com/katalvlaran/streetnet/geometry"
)

// Feature property keys written by GeoJSON. Edge attributes are copied
// alongside and lose to these on name clashes.
const (
	PropNeg    = "neg"
	PropPos    = "pos"
	PropID     = "id"
	PropLength = "length"
	PropNode   = "node"
)

// GeoJSON returns one LineString feature per edge (sorted by key) followed by
// one Point feature per node touched by an exported edge (sorted by id).
// A non-nil region restricts the export to edges intersecting it.
func (g *Graph[K]) GeoJSON(region *geometry.Region) *geojson.FeatureCollection {
	g.mu.RLock()
	defer g.mu.RUnlock()

	fc := geojson.NewFeatureCollection()
	touched := make(map[K]struct{})
	for _, e := range g.sortedEdges() {
		if region != nil && !region.IntersectsLine(e.Geometry) {
			continue
		}
		f := geojson.NewFeature(e.Geometry.Clone())
		for k, v := range e.Attrs {
			f.Properties[k] = v
		}
		f.Properties[PropNeg] = e.Neg
		f.Properties[PropPos] = e.Pos
		f.Properties[PropID] = e.ID
		f.Properties[PropLength] = e.Length
		fc.Append(f)
		touched[e.Neg] = struct{}{}
		touched[e.Pos] = struct{}{}
	}
	for _, id := range g.sortedNodeIDs() {
		if _, ok := touched[id]; !ok {
			continue
		}
		f := geojson.NewFeature(g.nodes[id].Loc)
		f.Properties[PropNode] = id
		fc.Append(f)
	}

	return fc
}
