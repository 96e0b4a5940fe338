// SPDX-License-Identifier: MIT
// File: adjacency.go
// Role: private helpers over the nested from → to → slot maps.
// Determinism:
//   - arcs(...) and out(...) return arcs sorted by (To, edge id, part, back).
// Concurrency:
//   - Callers hold Graph.mu.

package network

import (
	"cmp"
	"slices"
)

func (a adjacency[K]) ensure(v Vertex[K]) {
	if _, ok := a[v]; !ok {
		a[v] = make(map[Vertex[K]]map[arcSlot[K]]*Arc[K])
	}
}

func (a adjacency[K]) link(arc *Arc[K]) {
	a.ensure(arc.From)
	a.ensure(arc.To)
	inner, ok := a[arc.From][arc.To]
	if !ok {
		inner = make(map[arcSlot[K]]*Arc[K])
		a[arc.From][arc.To] = inner
	}
	inner[arc.slot] = arc
}

// unlink removes and returns the arc from→to in slot, or nil if absent.
// Empty inner maps are pruned; the vertices themselves stay.
func (a adjacency[K]) unlink(from, to Vertex[K], slot arcSlot[K]) *Arc[K] {
	inner := a[from][to]
	arc, ok := inner[slot]
	if !ok {
		return nil
	}
	delete(inner, slot)
	if len(inner) == 0 {
		delete(a[from], to)
	}

	return arc
}

func (a adjacency[K]) has(from, to Vertex[K], slot arcSlot[K]) bool {
	_, ok := a[from][to][slot]

	return ok
}

// out returns every arc leaving v, deterministically ordered.
func (a adjacency[K]) out(v Vertex[K]) []*Arc[K] {
	var res []*Arc[K]
	for _, inner := range a[v] {
		for _, arc := range inner {
			res = append(res, arc)
		}
	}
	sortArcs(res)

	return res
}

// arcs returns the parallel arcs from→to, deterministically ordered.
func (a adjacency[K]) arcs(from, to Vertex[K]) []*Arc[K] {
	inner := a[from][to]
	res := make([]*Arc[K], 0, len(inner))
	for _, arc := range inner {
		res = append(res, arc)
	}
	sortArcs(res)

	return res
}

// count returns the number of stored arcs.
func (a adjacency[K]) count() int {
	var n int
	for _, m := range a {
		for _, inner := range m {
			n += len(inner)
		}
	}

	return n
}

func sortArcs[K cmp.Ordered](arcs []*Arc[K]) {
	slices.SortFunc(arcs, func(x, y *Arc[K]) int {
		if c := x.From.Compare(y.From); c != 0 {
			return c
		}
		if c := x.To.Compare(y.To); c != 0 {
			return c
		}
		if c := x.Edge.Compare(y.Edge); c != 0 {
			return c
		}
		if c := cmp.Compare(x.slot.part, y.slot.part); c != 0 {
			return c
		}
		switch {
		case x.slot.back == y.slot.back:
			return 0
		case !x.slot.back:
			return -1
		default:
			return 1
		}
	})
}

// physicalArcs returns the undirected link(s) of e: neg→pos and its mirror
// (a single arc for self-loops).
func physicalArcs[K cmp.Ordered](e *Edge[K]) []*Arc[K] {
	key := e.Key()
	slot := arcSlot[K]{id: e.ID}
	fwd := &Arc[K]{From: Real(e.Neg), To: Real(e.Pos), Edge: key, Length: e.Length, slot: slot}
	if e.Neg == e.Pos {
		return []*Arc[K]{fwd}
	}
	rev := &Arc[K]{From: Real(e.Pos), To: Real(e.Neg), Edge: key, Length: e.Length, slot: slot}

	return []*Arc[K]{fwd, rev}
}
