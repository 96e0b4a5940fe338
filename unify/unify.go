// SPDX-License-Identifier: MIT
// File: unify.go
// Role: collapse chains of pass-through nodes into single edges.
//
// A node is a candidate when it has exactly two incident edges, no self-loop,
// and they lead to two distinct neighbours. Each chain of candidates is walked
// once in both directions (global visited set) and replaced by one edge
// between its terminal non-candidates:
//
//   - geometry: constituent geometries concatenated in travel order;
//   - length:   sum of constituent lengths;
//   - id:       the first traversed edge's id (minted on collision);
//   - attrs:    the first traversed edge's attrs (roundabout flag included),
//     direction recomputed over the whole chain.
//
// A chain whose walk closes on itself has no terminal. LoopPolicy decides:
// DropLoops removes it, KeepLoops keeps it as a self-loop at its smallest id.

package unify

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/streetnet/geometry"
	"github.com/katalvlaran/streetnet/logs"
	"github.com/katalvlaran/streetnet/network"
)

// ErrMinterType indicates WithIDMinter was given a minter for another id type.
var ErrMinterType = errors.New("unify: id minter does not match the graph id type")

// MergeSuffix is appended by the default minter of string graphs when a merged
// edge id is already used between the chain terminals ("0" becomes "0_u").
const MergeSuffix = "_u"

// LoopPolicy selects what happens to closed loops of pass-through nodes.
type LoopPolicy uint8

const (
	// DropLoops removes isolated loops entirely.
	DropLoops LoopPolicy = iota
	// KeepLoops collapses each isolated loop to a self-loop edge.
	KeepLoops
)

// String returns "drop" or "keep".
func (p LoopPolicy) String() string {
	if p == KeepLoops {
		return "keep"
	}

	return "drop"
}

// ParseLoopPolicy converts "drop"/"keep" (empty means drop).
func ParseLoopPolicy(s string) (LoopPolicy, error) {
	switch s {
	case "", "drop":
		return DropLoops, nil
	case "keep":
		return KeepLoops, nil
	}

	return DropLoops, fmt.Errorf("unify: unknown loop policy %q", s)
}

// Option configures Segments.
type Option func(*options)

type options struct {
	loops  LoopPolicy
	minter any
	logger *logrus.Logger
}

// WithLoopPolicy sets the isolated-loop policy (default DropLoops).
func WithLoopPolicy(p LoopPolicy) Option {
	return func(o *options) { o.loops = p }
}

// WithIDMinter resolves merged-edge id collisions. String graphs default to
// network.SuffixMinter(MergeSuffix); other id types have no default, and a
// collision fails with network.ErrDuplicateEdge before g is modified.
func WithIDMinter[K cmp.Ordered](m network.IDMinter[K]) Option {
	return func(o *options) { o.minter = m }
}

// WithLogger overrides logs.Logger.
func WithLogger(l *logrus.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Report summarizes one Segments run.
type Report struct {
	Chains       int // chains replaced by a single edge
	LoopsDropped int
	LoopsKept    int
	NodesRemoved int
	EdgesRemoved int
	EdgesAdded   int
}

// step is one edge of a chain walk; forward reports travel Neg→Pos.
type step[K cmp.Ordered] struct {
	edge    *network.Edge[K]
	from    K
	forward bool
}

// Segments unifies g in place and reports what changed. On error g is left
// as it was.
// Complexity: O(V + E log E); every node is walked at most once.
func Segments[K cmp.Ordered](g *network.Graph[K], opts ...Option) (Report, error) {
	o := options{logger: logs.Logger}
	for _, opt := range opts {
		opt(&o)
	}
	minter, err := resolveMinter[K](o.minter)
	if err != nil {
		return Report{}, err
	}

	// Without a minter a collision can only be found by walking; do it on a
	// copy first so a failure leaves g untouched.
	if minter == nil {
		if _, err := run(g.Clone(), nil, o.loops); err != nil {
			return Report{}, err
		}
	}
	rep, err := run(g, minter, o.loops)
	if err != nil {
		return rep, err
	}

	o.logger.WithFields(logrus.Fields{
		"chains":        rep.Chains,
		"loops_dropped": rep.LoopsDropped,
		"loops_kept":    rep.LoopsKept,
		"nodes_removed": rep.NodesRemoved,
		"edges_removed": rep.EdgesRemoved,
	}).Info("unified pass-through segments")

	return rep, nil
}

func resolveMinter[K cmp.Ordered](m any) (network.IDMinter[K], error) {
	if m == nil {
		def, _ := any(network.SuffixMinter(MergeSuffix)).(network.IDMinter[K])
		return def, nil
	}
	minter, ok := m.(network.IDMinter[K])
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrMinterType, m)
	}

	return minter, nil
}

func run[K cmp.Ordered](g *network.Graph[K], minter network.IDMinter[K], loops LoopPolicy) (Report, error) {
	u := &unifier[K]{g: g, minter: minter, loops: loops, visited: make(map[K]bool)}
	candidates, err := u.findCandidates()
	if err != nil {
		return Report{}, err
	}
	u.candidates = candidates

	for _, n := range g.Nodes() {
		if !candidates[n] || u.visited[n] {
			continue
		}
		if err := u.unifyFrom(n); err != nil {
			return u.report, err
		}
	}

	return u.report, nil
}

type unifier[K cmp.Ordered] struct {
	g          *network.Graph[K]
	minter     network.IDMinter[K]
	loops      LoopPolicy
	candidates map[K]bool
	visited    map[K]bool
	report     Report
}

func (u *unifier[K]) findCandidates() (map[K]bool, error) {
	res := make(map[K]bool)
	for _, n := range u.g.Nodes() {
		edges, err := u.g.IncidentEdges(n)
		if err != nil {
			return nil, err
		}
		if len(edges) != 2 {
			continue
		}
		a, b := edges[0], edges[1]
		if a.Neg == a.Pos || b.Neg == b.Pos || a.Other(n) == b.Other(n) {
			continue
		}
		res[n] = true
	}

	return res, nil
}

// walk follows the chain from start along first until a non-candidate or
// start itself is reached.
func (u *unifier[K]) walk(start K, first *network.Edge[K]) (steps []step[K], end K, closed bool, err error) {
	cur, e := start, first
	for {
		next := e.Other(cur)
		steps = append(steps, step[K]{edge: e, from: cur, forward: e.Neg == cur})
		if next == start {
			return steps, next, true, nil
		}
		if !u.candidates[next] {
			return steps, next, false, nil
		}
		u.visited[next] = true
		edges, err := u.g.IncidentEdges(next)
		if err != nil {
			return nil, next, false, err
		}
		if edges[0].Key() == e.Key() {
			e = edges[1]
		} else {
			e = edges[0]
		}
		cur = next
	}
}

func (u *unifier[K]) unifyFrom(n K) error {
	u.visited[n] = true
	edges, err := u.g.IncidentEdges(n)
	if err != nil {
		return err
	}

	ahead, endA, closed, err := u.walk(n, edges[0])
	if err != nil {
		return err
	}
	if closed {
		return u.closeLoop(ahead)
	}
	behind, endB, _, err := u.walk(n, edges[1])
	if err != nil {
		return err
	}

	// endB ... n ... endA
	chain := make([]step[K], 0, len(behind)+len(ahead))
	for i := len(behind) - 1; i >= 0; i-- {
		s := behind[i]
		chain = append(chain, step[K]{edge: s.edge, from: s.edge.Other(s.from), forward: !s.forward})
	}
	chain = append(chain, ahead...)

	if err := u.replace(chain, endB, endA); err != nil {
		return err
	}
	u.report.Chains++

	return nil
}

func (u *unifier[K]) closeLoop(loop []step[K]) error {
	if u.loops == DropLoops {
		if err := u.removeChain(loop, loop[0].from, loop[0].from, true); err != nil {
			return err
		}
		u.report.LoopsDropped++

		return nil
	}

	// rotate so the walk starts and ends at the smallest node id
	anchor := 0
	for i, s := range loop {
		if s.from < loop[anchor].from {
			anchor = i
		}
	}
	loop = slices.Concat(loop[anchor:], loop[:anchor])
	if err := u.replace(loop, loop[0].from, loop[0].from); err != nil {
		return err
	}
	u.report.LoopsKept++

	return nil
}

// replace swaps chain (running neg→pos) for one merged edge.
func (u *unifier[K]) replace(chain []step[K], neg, pos K) error {
	parts := make([]orb.LineString, 0, len(chain))
	var length float64
	for _, s := range chain {
		if s.forward {
			parts = append(parts, s.edge.Geometry)
		} else {
			parts = append(parts, geometry.Reverse(s.edge.Geometry))
		}
		length += s.edge.Length
	}
	attrs := mergedAttrs(chain)

	// chains have two or more edges, so none of them joins neg and pos
	// directly and the id can be settled before anything is removed
	id := chain[0].edge.ID
	taken := func(id K) bool { return u.g.HasEdge(network.EdgeKey[K]{Neg: neg, Pos: pos, ID: id}) }
	if taken(id) {
		if u.minter == nil {
			return fmt.Errorf("%w: merged edge %v between %v and %v", network.ErrDuplicateEdge, id, neg, pos)
		}
		minted, err := network.Mint(u.minter, id, taken)
		if err != nil {
			return err
		}
		id = minted
	}

	if err := u.removeChain(chain, neg, pos, false); err != nil {
		return err
	}

	if _, err := u.g.AddEdge(neg, pos, id, geometry.Concat(parts...),
		network.WithLength(length), network.WithAttrs(attrs)); err != nil {
		return fmt.Errorf("unify: merge %v→%v: %w", neg, pos, err)
	}
	u.report.EdgesAdded++

	return nil
}

// removeChain drops the chain's edges and interior nodes. With all set the
// terminals go too (a dropped loop).
func (u *unifier[K]) removeChain(chain []step[K], neg, pos K, all bool) error {
	for _, s := range chain {
		if err := u.g.RemoveEdge(s.edge.Key()); err != nil {
			return err
		}
		u.report.EdgesRemoved++
	}
	for _, s := range chain {
		if !all && (s.from == neg || s.from == pos) {
			continue
		}
		if err := u.g.RemoveNode(s.from); err != nil {
			return err
		}
		u.report.NodesRemoved++
	}

	return nil
}

// mergedAttrs copies the first edge's attributes and recomputes direction:
// the chain is forward if every step may be travelled in walk order,
// backward if every step may be travelled against it.
func mergedAttrs[K cmp.Ordered](chain []step[K]) network.Attrs {
	attrs := make(network.Attrs, len(chain[0].edge.Attrs))
	for k, v := range chain[0].edge.Attrs {
		attrs[k] = v
	}

	fwd, back, known := true, true, false
	for _, s := range chain {
		d, ok := s.edge.Direction()
		if !ok {
			d = network.TwoWay
		} else {
			known = true
		}
		if !s.forward {
			d = d.Reverse()
		}
		fwd = fwd && d.AllowsForward()
		back = back && d.AllowsBackward()
	}
	if !known {
		delete(attrs, network.AttrDirection)
		return attrs
	}
	switch {
	case fwd && back:
		attrs[network.AttrDirection] = network.TwoWay
	case fwd:
		attrs[network.AttrDirection] = network.Forward
	case back:
		attrs[network.AttrDirection] = network.Backward
	default:
		attrs[network.AttrDirection] = network.Closed
	}

	return attrs
}
