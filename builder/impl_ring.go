// SPDX-License-Identifier: MIT
// Package: streetnet/builder
//
// impl_ring.go - implementation of Ring(n) constructor.
//
// Contract:
//   • n ≥ 3 (else ErrTooFewVertices).
//   • Node i is cfg.idFn(i) on the unit circle (radius = spacing) at angle 2πi/n.
//   • Emits edges "ring-i" from node i to node (i+1) mod n, closing the ring.
//   • Roundabout marks every edge with the roundabout attribute.

package builder

import (
	"fmt"
	"math"

	"github.com/katalvlaran/streetnet/network"
)

const (
	methodRing   = "Ring"
	minRingNodes = 3
)

// Ring returns a Constructor that builds a closed ring road C_n.
func Ring(n int) Constructor {
	return ring(methodRing, n, false)
}

// Roundabout is Ring with every edge flagged as part of a roundabout.
func Roundabout(n int) Constructor {
	return ring("Roundabout", n, true)
}

func ring(method string, n int, roundabout bool) Constructor {
	return func(g *network.Graph[string], cfg builderConfig) error {
		if n < minRingNodes {
			return fmt.Errorf("%s: n=%d < min=%d: %w", method, n, minRingNodes, ErrTooFewVertices)
		}

		for i := 0; i < n; i++ {
			theta := 2 * math.Pi * float64(i) / float64(n)
			if err := addNode(g, method, cfg.idFn(i), cfg.at(math.Cos(theta), math.Sin(theta))); err != nil {
				return err
			}
		}
		for i := 0; i < n; i++ {
			id := edgeID("ring", i)
			u, v := cfg.idFn(i), cfg.idFn((i+1)%n)
			if err := addEdge(g, cfg, method, u, v, id); err != nil {
				return err
			}
			if !roundabout {
				continue
			}
			key := network.EdgeKey[string]{Neg: u, Pos: v, ID: id}
			if err := g.SetAttr(key, network.AttrRoundabout, true); err != nil {
				return fmt.Errorf("%s: %s: %w: %w", method, id, ErrConstructFailed, err)
			}
		}

		return nil
	}
}
