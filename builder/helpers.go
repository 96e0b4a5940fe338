// SPDX-License-Identifier: MIT
// Package: streetnet/builder
//
// helpers.go - shared placement and emission helpers for the constructors.
//
// Every edge goes through addEdge so that spacing, bend, direction and the
// random one-way draw are applied identically by all constructors.

package builder

import (
	"fmt"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/katalvlaran/streetnet/network"
)

// at maps lattice coordinates (x, y), in units of spacing, to a location.
func (c builderConfig) at(x, y float64) orb.Point {
	return orb.Point{c.origin.X() + x*c.spacing, c.origin.Y() + y*c.spacing}
}

// addNode inserts id at p, tagging failures with method.
func addNode(g *network.Graph[string], method, id string, p orb.Point) error {
	if err := g.AddNode(id, p); err != nil {
		return fmt.Errorf("%s: AddNode(%s): %w: %w", method, id, ErrConstructFailed, err)
	}

	return nil
}

// addEdge connects neg→pos with edge id. The geometry is a straight segment,
// or a three-vertex polyline when cfg.bend is set.
func addEdge(g *network.Graph[string], cfg builderConfig, method, neg, pos, id string) error {
	a, err := g.Node(neg)
	if err != nil {
		return fmt.Errorf("%s: %s: %w: %w", method, id, ErrConstructFailed, err)
	}
	b, err := g.Node(pos)
	if err != nil {
		return fmt.Errorf("%s: %s: %w: %w", method, id, ErrConstructFailed, err)
	}

	geom := orb.LineString{a.Loc, b.Loc}
	if cfg.bend != 0 && a.Loc != b.Loc {
		geom = bent(a.Loc, b.Loc, cfg.bend*cfg.spacing)
	}

	dir := cfg.direction
	if cfg.oneWayP > 0 {
		if cfg.rng == nil {
			return fmt.Errorf("%s: one-way probability %g: %w", method, cfg.oneWayP, ErrNeedRandSource)
		}
		if cfg.rng.Float64() < cfg.oneWayP {
			dir = network.Forward
			if cfg.rng.Intn(2) == 1 {
				dir = network.Backward
			}
		}
	}

	if _, err = g.AddEdge(neg, pos, id, geom, network.WithDirection(dir)); err != nil {
		return fmt.Errorf("%s: AddEdge(%s→%s, %s): %w: %w", method, neg, pos, id, ErrConstructFailed, err)
	}

	return nil
}

// bent returns a→m→b where m is the midpoint of ab shifted left by offset.
func bent(a, b orb.Point, offset float64) orb.LineString {
	dx, dy := b.X()-a.X(), b.Y()-a.Y()
	norm := offset / planar.Distance(a, b)
	n := orb.Point{-dy, dx}
	m := orb.Point{(a.X()+b.X())/2 + n.X()*norm, (a.Y()+b.Y())/2 + n.Y()*norm}

	return orb.LineString{a, m, b}
}

// gridID formats a lattice coordinate as "r,c".
func gridID(r, c int) string {
	return strconv.Itoa(r) + "," + strconv.Itoa(c)
}

// edgeID names the i-th edge emitted by method, e.g. "path-3".
func edgeID(prefix string, i int) string {
	return prefix + "-" + strconv.Itoa(i)
}
