// SPDX-License-Identifier: MIT
// File: path.go
// Role: Undirected, Directed and Length queries between two Locations.
// Lifecycle:
//   - Points on different edges are anchored by splicing their edges at the
//     points, searching between the two temporary vertices, and rolling the
//     splice back on every exit path.
//   - Rollback errors are joined to the query's own error.

package routing

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/streetnet/logs"
	"github.com/katalvlaran/streetnet/netpoint"
	"github.com/katalvlaran/streetnet/network"
)

const (
	modeUndirected = "undirected"
	modeDirected   = "directed"
)

// Undirected returns the shortest path from → to ignoring travel direction.
// Points on one edge are joined along that edge. ok is false when no path
// exists; that is not an error.
//
// Complexity: O((V+E) log V) per query plus O(len) to rebuild the path.
func Undirected[K cmp.Ordered](g *network.Graph[K], from, to netpoint.Location[K], opts ...Option) (netpoint.Path[K], bool, error) {
	cfg, err := resolve(opts)
	if err != nil {
		return netpoint.Path[K]{}, false, err
	}
	start := time.Now()
	p, ok, err := undirected(g, from, to, cfg, false)
	observe(cfg, modeUndirected, ok, start)

	return p.path, ok, err
}

// Length is Undirected without building the path: only the distance.
// It performs the same splice and rollback.
func Length[K cmp.Ordered](g *network.Graph[K], from, to netpoint.Location[K], opts ...Option) (float64, bool, error) {
	cfg, err := resolve(opts)
	if err != nil {
		return 0, false, err
	}
	start := time.Now()
	p, ok, err := undirected(g, from, to, cfg, true)
	observe(cfg, modeUndirected, ok, start)

	return p.length, ok, err
}

// result carries either a full path or, for length-only queries, a length.
type result[K cmp.Ordered] struct {
	path   netpoint.Path[K]
	length float64
}

func undirected[K cmp.Ordered](g *network.Graph[K], from, to netpoint.Location[K], cfg Options, lengthOnly bool) (res result[K], ok bool, err error) {
	if from.Edge() == to.Edge() {
		d := math.Abs(to.DistanceNegative() - from.DistanceNegative())
		if d > cfg.MaxDistance {
			return res, false, nil
		}
		res.length = d
		if lengthOnly {
			return res, true, nil
		}
		res.path, err = netpoint.NewPath(from, to, nil, []network.EdgeKey[K]{from.Edge()}, []float64{d}, nil)

		return res, err == nil, err
	}

	s, err := g.BeginSplice(network.SpliceUndirected)
	if err != nil {
		return res, false, err
	}
	defer rollback(s, &err)

	return spliced(s, from, to, cfg, lengthOnly)
}

// Directed returns the shortest legal path from → to on the routing graph.
//
// Points on one edge use that edge directly when its direction allows travel
// from → to. Otherwise the route leaves the edge backwards through the
// endpoint behind from, goes round, and re-enters through the endpoint behind
// to; an edge closed both ways yields no path.
//
// Fails with network.ErrMissingAttribute when an edge lacks a direction.
func Directed[K cmp.Ordered](g *network.Graph[K], from, to netpoint.Location[K], opts ...Option) (netpoint.Path[K], bool, error) {
	cfg, err := resolve(opts)
	if err != nil {
		return netpoint.Path[K]{}, false, err
	}
	start := time.Now()
	p, ok, err := directed(g, from, to, cfg)
	observe(cfg, modeDirected, ok, start)

	return p, ok, err
}

func directed[K cmp.Ordered](g *network.Graph[K], from, to netpoint.Location[K], cfg Options) (p netpoint.Path[K], ok bool, err error) {
	if from.Edge() == to.Edge() {
		return sameEdgeDirected(g, from, to, cfg)
	}

	s, err := g.BeginSplice(network.SpliceDirected)
	if err != nil {
		return p, false, err
	}
	defer rollback(s, &err)

	res, ok, err := spliced(s, from, to, cfg, false)

	return res.path, ok, err
}

// spliced anchors both locations and searches between them.
func spliced[K cmp.Ordered](s *network.Splice[K], from, to netpoint.Location[K], cfg Options, lengthOnly bool) (result[K], bool, error) {
	var res result[K]
	t1, err := s.Split(from.Edge(), from.DistanceNegative(), from.DistancePositive())
	if err != nil {
		return res, false, err
	}
	t2, err := s.Split(to.Edge(), to.DistanceNegative(), to.DistancePositive())
	if err != nil {
		return res, false, err
	}

	vs, length, ok := shortest[K](s, t1, t2, cfg.Method, cfg.MaxDistance)
	if !ok {
		return res, false, nil
	}
	res.length = length
	if lengthOnly {
		return res, true, nil
	}

	nodes, edges, dists, degrees, err := walk(s, vs)
	if err != nil {
		return res, false, err
	}
	res.path, err = netpoint.NewPath(from, to, nodes[1:len(nodes)-1], edges, dists, degrees[1:len(degrees)-1])
	if err != nil {
		return res, false, fmt.Errorf("%w: %w", network.ErrInvariantViolation, err)
	}

	return res, true, nil
}

// sameEdgeDirected handles two locations on one edge.
func sameEdgeDirected[K cmp.Ordered](g *network.Graph[K], from, to netpoint.Location[K], cfg Options) (netpoint.Path[K], bool, error) {
	key := from.Edge()
	diff := to.DistanceNegative() - from.DistanceNegative()
	if diff == 0 {
		p, err := netpoint.NewPath(from, to, nil, []network.EdgeKey[K]{key}, []float64{0}, nil)
		return p, err == nil, err
	}

	e, err := g.Edge(key)
	if err != nil {
		return netpoint.Path[K]{}, false, err
	}
	dir, set := e.Direction()
	if !set {
		return netpoint.Path[K]{}, false, fmt.Errorf("%w: %s on edge %v", network.ErrMissingAttribute, network.AttrDirection, key)
	}

	// behind is the endpoint at from's back, ahead the one past to.
	behind, ahead := key.Neg, key.Pos
	legal, reverse := dir.AllowsForward(), dir.AllowsBackward()
	if diff < 0 {
		behind, ahead = ahead, behind
		legal, reverse = reverse, legal
	}
	if legal {
		if math.Abs(diff) > cfg.MaxDistance {
			return netpoint.Path[K]{}, false, nil
		}
		p, err := netpoint.NewPath(from, to, nil, []network.EdgeKey[K]{key}, []float64{math.Abs(diff)}, nil)
		return p, err == nil, err
	}
	if !reverse {
		return netpoint.Path[K]{}, false, nil
	}

	out, in := from.DistanceNegative(), to.DistancePositive()
	if diff < 0 {
		out, in = from.DistancePositive(), to.DistanceNegative()
	}
	budget := cfg.MaxDistance - out - in
	if budget < 0 {
		return netpoint.Path[K]{}, false, nil
	}

	return detour(g, from, to, behind, ahead, out, in, cfg.Method, budget)
}

// detour routes behind → ahead on the routing graph and wraps the route with
// the two partial traversals of the shared edge.
func detour[K cmp.Ordered](g *network.Graph[K], from, to netpoint.Location[K], behind, ahead K, out, in float64, m Method, budget float64) (p netpoint.Path[K], ok bool, err error) {
	s, err := g.BeginSplice(network.SpliceDirected)
	if err != nil {
		return p, false, err
	}
	defer rollback(s, &err)

	vs, _, found := shortest[K](s, network.Real(behind), network.Real(ahead), m, budget)
	if !found {
		return p, false, nil
	}
	nodes, edges, dists, degrees, err := walk(s, vs)
	if err != nil {
		return p, false, err
	}
	key := from.Edge()
	edges = append(append([]network.EdgeKey[K]{key}, edges...), key)
	dists = append(append([]float64{out}, dists...), in)
	if p, err = netpoint.NewPath(from, to, nodes, edges, dists, degrees); err != nil {
		return p, false, fmt.Errorf("%w: %w", network.ErrInvariantViolation, err)
	}

	return p, true, nil
}

// walk turns a vertex sequence into node ids, the shortest parallel arc per
// hop and the degree of every vertex (0 for temporary ones).
func walk[K cmp.Ordered](s *network.Splice[K], vs []network.Vertex[K]) ([]K, []network.EdgeKey[K], []float64, []int, error) {
	nodes := make([]K, len(vs))
	degrees := make([]int, len(vs))
	for i, v := range vs {
		nodes[i] = v.ID
		if v.Splice == 0 {
			degrees[i] = s.Degree(v.ID)
		} else if i > 0 && i < len(vs)-1 {
			return nil, nil, nil, nil, fmt.Errorf("%w: temporary vertex %v inside route", network.ErrInvariantViolation, v)
		}
	}

	edges := make([]network.EdgeKey[K], 0, len(vs)-1)
	dists := make([]float64, 0, len(vs)-1)
	for i := 0; i+1 < len(vs); i++ {
		var best *network.Arc[K]
		for _, arc := range s.Arcs(vs[i], vs[i+1]) {
			if best == nil || arc.Length < best.Length {
				best = arc
			}
		}
		if best == nil {
			return nil, nil, nil, nil, fmt.Errorf("%w: no arc %v→%v on route", network.ErrInvariantViolation, vs[i], vs[i+1])
		}
		edges = append(edges, best.Edge)
		dists = append(dists, best.Length)
	}

	return nodes, edges, dists, degrees, nil
}

// rollback undoes s and joins any restore failure into *err.
func rollback[K cmp.Ordered](s *network.Splice[K], err *error) {
	rerr := s.Rollback()
	if rerr == nil {
		return
	}
	logs.Logger.WithError(rerr).Error("routing: splice rollback failed")
	*err = errors.Join(*err, rerr)
}

func observe(cfg Options, mode string, ok bool, start time.Time) {
	elapsed := time.Since(start)
	logs.Logger.WithFields(logrus.Fields{
		"mode":    mode,
		"method":  cfg.Method.String(),
		"found":   ok,
		"elapsed": elapsed,
	}).Debug("route query")
	if cfg.Observer != nil {
		cfg.Observer.ObserveRoute(mode, ok, elapsed)
	}
}
