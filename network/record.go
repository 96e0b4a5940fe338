// SPDX-License-Identifier: MIT
// File: record.go
// Role: serializable snapshot of a Graph and its reconstruction.
// Policy:
//   - The record carries the derived routing arcs; FromRecord rebuilds them
//     from the edges and rejects a record whose arcs disagree.
//   - Encoding is the caller's choice; the struct tags suit encoding/json.

package network

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/paulmach/orb"
)

// Record is the full serializable state of a Graph.
//
// Record and FromRecord keep attribute values as they are. Encoders may not:
// encoding/json decodes every number into float64, so an int attribute comes
// back as float64(n) after a JSON round trip. Reserved attributes are parsed
// by FromRecord and are not affected.
type Record[K cmp.Ordered] struct {
	Tolerance        float64         `json:"tolerance"`
	DefaultDirection *Direction      `json:"default_direction,omitempty"`
	Nodes            []NodeRecord[K] `json:"nodes"`
	Edges            []EdgeRecord[K] `json:"edges"`
	Routing          []ArcRecord[K]  `json:"routing,omitempty"`
	Index            *IndexRecord    `json:"index,omitempty"`
}

// NodeRecord is one node.
type NodeRecord[K cmp.Ordered] struct {
	ID K       `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// EdgeRecord is one edge with its geometry and attributes.
type EdgeRecord[K cmp.Ordered] struct {
	Neg      K              `json:"neg"`
	Pos      K              `json:"pos"`
	ID       K              `json:"id"`
	Geometry orb.LineString `json:"geometry"`
	Length   float64        `json:"length"`
	Attrs    Attrs          `json:"attrs,omitempty"`
}

// ArcRecord is one routing arc: travel From→To along edge (Neg, Pos, ID).
type ArcRecord[K cmp.Ordered] struct {
	From   K       `json:"from"`
	To     K       `json:"to"`
	Neg    K       `json:"neg"`
	Pos    K       `json:"pos"`
	ID     K       `json:"id"`
	Length float64 `json:"length"`
}

// IndexRecord holds the parameters of a cached spatial index, if any.
type IndexRecord struct {
	CellSize float64    `json:"cell_size"`
	Extent   [4]float64 `json:"extent"` // minX, minY, maxX, maxY
}

// Record snapshots g. Routing is filled when every edge carries a direction
// and left empty otherwise. Index is left for the caller to set.
func (g *Graph[K]) Record() Record[K] {
	g.mu.Lock()
	defer g.mu.Unlock()

	rec := Record[K]{Tolerance: g.tolerance, DefaultDirection: g.defaultDir}
	for _, id := range g.sortedNodeIDs() {
		n := g.nodes[id]
		rec.Nodes = append(rec.Nodes, NodeRecord[K]{ID: id, X: n.Loc.X(), Y: n.Loc.Y()})
	}
	for _, e := range g.sortedEdges() {
		c := copyEdge(e)
		rec.Edges = append(rec.Edges, EdgeRecord[K]{
			Neg: c.Neg, Pos: c.Pos, ID: c.ID, Geometry: c.Geometry, Length: c.Length, Attrs: c.Attrs,
		})
	}
	if r, err := g.ensureRouting(); err == nil {
		rec.Routing = arcRecords(r)
	}

	return rec
}

func arcRecords[K cmp.Ordered](r *RoutingGraph[K]) []ArcRecord[K] {
	arcs := r.arcs()
	res := make([]ArcRecord[K], 0, len(arcs))
	for _, a := range arcs {
		res = append(res, ArcRecord[K]{
			From: a.From.ID, To: a.To.ID,
			Neg: a.Edge.Neg, Pos: a.Edge.Pos, ID: a.Edge.ID,
			Length: a.Length,
		})
	}

	return res
}

// FromRecord rebuilds a Graph from rec, applying the same validation as
// AddNode/AddEdge. When rec carries routing arcs they must equal the arcs
// derived from the rebuilt edges, else ErrRecordMismatch.
func FromRecord[K cmp.Ordered](rec Record[K]) (*Graph[K], error) {
	var opts []GraphOption
	if rec.Tolerance > 0 {
		opts = append(opts, WithTolerance(rec.Tolerance))
	}
	if rec.DefaultDirection != nil {
		opts = append(opts, WithDefaultDirection(*rec.DefaultDirection))
	}
	g := NewGraph[K](opts...)

	for _, n := range rec.Nodes {
		if err := g.AddNode(n.ID, orb.Point{n.X, n.Y}); err != nil {
			return nil, fmt.Errorf("record node: %w", err)
		}
	}
	for _, e := range rec.Edges {
		if _, err := g.AddEdge(e.Neg, e.Pos, e.ID, e.Geometry, WithLength(e.Length), WithAttrs(e.Attrs)); err != nil {
			return nil, fmt.Errorf("record edge: %w", err)
		}
	}
	if len(rec.Routing) == 0 {
		return g, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	r, err := g.ensureRouting()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRecordMismatch, err)
	}
	got := arcRecords(r)
	want := slices.Clone(rec.Routing)
	slices.SortFunc(want, compareArcRecords[K])
	if len(got) != len(want) {
		return nil, fmt.Errorf("%w: %d routing arcs recorded, %d derived", ErrRecordMismatch, len(want), len(got))
	}
	for i := range got {
		if compareArcRecords(got[i], want[i]) != 0 || !g.lengthsAgree(got[i].Length, want[i].Length) {
			return nil, fmt.Errorf("%w: routing arc %v→%v (edge %v) not derived",
				ErrRecordMismatch, want[i].From, want[i].To, EdgeKey[K]{Neg: want[i].Neg, Pos: want[i].Pos, ID: want[i].ID})
		}
	}

	return g, nil
}

func compareArcRecords[K cmp.Ordered](a, b ArcRecord[K]) int {
	return cmp.Or(
		cmp.Compare(a.From, b.From),
		cmp.Compare(a.To, b.To),
		cmp.Compare(a.Neg, b.Neg),
		cmp.Compare(a.Pos, b.Pos),
		cmp.Compare(a.ID, b.ID),
	)
}
