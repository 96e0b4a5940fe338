// SPDX-License-Identifier: MIT
// File: splice.go
// Role: temporary edge splitting used to anchor searches at interior points.
// Lifecycle:
//   - BeginSplice takes the graph's write lock.
//   - Split replaces an edge's arcs by two halves meeting at a fresh vertex.
//   - Rollback restores every replaced arc, drops the temporary vertices and
//     releases the lock. It must run on every exit path (defer it).
// Policy:
//   - Temporary vertices live in their own namespace (Vertex.Splice > 0).
//   - Rollback never moves the graph version.

package network

import (
	"cmp"
	"errors"
	"fmt"
	"math"
)

// SpliceMode selects which adjacency a splice rewrites.
type SpliceMode uint8

const (
	// SpliceUndirected rewrites the physical (undirected) links.
	SpliceUndirected SpliceMode = iota
	// SpliceDirected rewrites the arcs of the routing graph.
	SpliceDirected
)

// Splice is an open splice transaction over one Graph.
type Splice[K cmp.Ordered] struct {
	g       *Graph[K]
	mode    SpliceMode
	routing *RoutingGraph[K] // directed mode only

	next     uint8
	vertices []Vertex[K]
	added    []*Arc[K]
	removed  []*Arc[K]
	closed   bool
}

// BeginSplice opens a splice transaction and holds the write lock until
// Rollback. Directed mode needs the routing graph and fails with
// ErrMissingAttribute when it cannot be built.
func (g *Graph[K]) BeginSplice(mode SpliceMode) (*Splice[K], error) {
	g.mu.Lock()
	s := &Splice[K]{g: g, mode: mode}
	if mode == SpliceDirected {
		r, err := g.ensureRouting()
		if err != nil {
			g.mu.Unlock()
			return nil, err
		}
		s.routing = r
	}

	return s, nil
}

// Mode returns the splice mode.
func (s *Splice[K]) Mode() SpliceMode { return s.mode }

// Split cuts the edge key at dNeg from its negative node (dPos from the
// positive one) and returns the temporary vertex standing for the cut.
//
// Undirected: the link neg↔pos is replaced by neg↔T (dNeg) and T↔pos (dPos).
// Directed: a forward arc becomes neg→T→pos, a backward arc pos→T→neg; an
// absent arc stays absent, so T may end up unreachable.
//
// Inconsistent input (unknown edge, distances not summing to the length, an
// edge already split) is reported as ErrInvariantViolation.
func (s *Splice[K]) Split(key EdgeKey[K], dNeg, dPos float64) (Vertex[K], error) {
	if s.closed {
		return Vertex[K]{}, ErrSpliceClosed
	}
	g := s.g
	e := g.lookup(key.Neg, key.Pos, key.ID)
	if e == nil {
		return Vertex[K]{}, fmt.Errorf("%w: split of unknown edge %v", ErrInvariantViolation, key)
	}
	key = e.Key()
	if dNeg < 0 || dPos < 0 || !g.lengthsAgree(dNeg+dPos, e.Length) {
		return Vertex[K]{}, fmt.Errorf("%w: node distances %g+%g for edge %v of length %g",
			ErrInvariantViolation, dNeg, dPos, key, e.Length)
	}
	if s.next == math.MaxUint8 {
		return Vertex[K]{}, fmt.Errorf("%w: too many splice vertices", ErrInvariantViolation)
	}
	s.next++
	t := Vertex[K]{Splice: s.next}
	if _, taken := g.adj[t]; taken {
		return Vertex[K]{}, fmt.Errorf("%w: splice vertex %v collides with an existing vertex (edge %v)",
			ErrInvariantViolation, t, key)
	}

	neg, pos := Real(e.Neg), Real(e.Pos)
	part := func(from, to Vertex[K], p uint8, back bool, l float64) *Arc[K] {
		return &Arc[K]{From: from, To: to, Edge: key, Length: l, slot: arcSlot[K]{id: e.ID, part: p, back: back}}
	}

	switch s.mode {
	case SpliceUndirected:
		whole := arcSlot[K]{id: e.ID}
		if !g.adj.has(neg, pos, whole) {
			return Vertex[K]{}, fmt.Errorf("%w: edge %v is not linked (already split?)", ErrInvariantViolation, key)
		}
		s.unlinkPhysical(neg, pos, whole)
		if neg != pos {
			s.unlinkPhysical(pos, neg, whole)
		}
		g.adj.ensure(t)
		s.vertices = append(s.vertices, t)
		s.linkPhysical(part(neg, t, 1, false, dNeg))
		s.linkPhysical(part(t, neg, 1, false, dNeg))
		s.linkPhysical(part(t, pos, 2, false, dPos))
		s.linkPhysical(part(pos, t, 2, false, dPos))
	case SpliceDirected:
		r := s.routing
		r.ensure(t)
		s.vertices = append(s.vertices, t)
		if arc := r.unlink(neg, pos, arcSlot[K]{id: e.ID}); arc != nil {
			s.removed = append(s.removed, arc)
			s.linkRouting(part(neg, t, 1, false, dNeg))
			s.linkRouting(part(t, pos, 2, false, dPos))
		}
		if arc := r.unlink(pos, neg, arcSlot[K]{id: e.ID, back: true}); arc != nil {
			s.removed = append(s.removed, arc)
			s.linkRouting(part(pos, t, 2, true, dPos))
			s.linkRouting(part(t, neg, 1, true, dNeg))
		}
	}

	return t, nil
}

func (s *Splice[K]) unlinkPhysical(from, to Vertex[K], slot arcSlot[K]) {
	if arc := s.g.adj.unlink(from, to, slot); arc != nil {
		s.removed = append(s.removed, arc)
	}
}

func (s *Splice[K]) linkPhysical(arc *Arc[K]) {
	s.g.adj.link(arc)
	s.added = append(s.added, arc)
}

func (s *Splice[K]) linkRouting(arc *Arc[K]) {
	s.routing.link(arc)
	s.added = append(s.added, arc)
}

// Out returns the arcs leaving v in the spliced adjacency.
func (s *Splice[K]) Out(v Vertex[K]) []*Arc[K] {
	if s.mode == SpliceDirected {
		return s.routing.out.out(v)
	}

	return s.g.adj.out(v)
}

// In returns the arcs entering v in the spliced adjacency.
func (s *Splice[K]) In(v Vertex[K]) []*Arc[K] {
	if s.mode == SpliceDirected {
		return s.routing.incoming(v)
	}
	var res []*Arc[K]
	for w := range s.g.adj[v] {
		res = append(res, s.g.adj.arcs(w, v)...)
	}
	sortArcs(res)

	return res
}

// Arcs returns the parallel arcs from→to in the spliced adjacency.
func (s *Splice[K]) Arcs(from, to Vertex[K]) []*Arc[K] {
	if s.mode == SpliceDirected {
		return s.routing.out.arcs(from, to)
	}

	return s.g.adj.arcs(from, to)
}

// HasVertex reports whether v is present (real node or live splice vertex).
func (s *Splice[K]) HasVertex(v Vertex[K]) bool {
	if s.mode == SpliceDirected {
		_, ok := s.routing.out[v]
		return ok
	}
	_, ok := s.g.adj[v]

	return ok
}

// Degree returns the physical degree of node id (see Graph.Degree). Splitting
// preserves degrees, so the value is the same as outside the splice.
func (s *Splice[K]) Degree(id K) int {
	return s.g.degree(id)
}

// Stats reports the current counts including temporary splice state.
func (s *Splice[K]) Stats() Stats {
	st := s.g.physicalStats()
	if s.routing != nil {
		st.RoutingArcs = s.routing.ArcCount()
	} else if r := s.g.routing; r != nil && r.version == s.g.version {
		st.RoutingArcs = r.ArcCount()
	}

	return st
}

// Rollback undoes every Split and releases the graph lock. It is idempotent;
// only the first call does work. Arcs found missing during restore are
// reported as ErrInvariantViolation after the restore completes.
func (s *Splice[K]) Rollback() error {
	if s.closed {
		return nil
	}
	s.closed = true
	defer s.g.mu.Unlock()

	var errs []error
	for i := len(s.added) - 1; i >= 0; i-- {
		arc := s.added[i]
		var got *Arc[K]
		if s.mode == SpliceDirected {
			got = s.routing.unlink(arc.From, arc.To, arc.slot)
		} else {
			got = s.g.adj.unlink(arc.From, arc.To, arc.slot)
		}
		if got == nil {
			errs = append(errs, fmt.Errorf("%w: splice arc %v→%v of edge %v missing on rollback",
				ErrInvariantViolation, arc.From, arc.To, arc.Edge))
		}
	}
	for _, arc := range s.removed {
		if s.mode == SpliceDirected {
			s.routing.link(arc)
		} else {
			s.g.adj.link(arc)
		}
	}
	for _, v := range s.vertices {
		if s.mode == SpliceDirected {
			s.routing.drop(v)
		} else {
			delete(s.g.adj, v)
		}
	}
	s.added, s.removed, s.vertices = nil, nil, nil

	return errors.Join(errs...)
}
