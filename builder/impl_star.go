// SPDX-License-Identifier: MIT
// Package: streetnet/builder
//
// impl_star.go - implementation of Star(n) constructor.
//
// Contract:
//   • n ≥ 1 spokes (else ErrTooFewVertices).
//   • Hub is cfg.idFn(0) at the origin; leaf i is cfg.idFn(i) at angle 2π(i-1)/n
//     on the unit circle.
//   • Emits edges "star-i" from the hub to leaf i, i=1..n.

package builder

import (
	"fmt"
	"math"

	"github.com/katalvlaran/streetnet/network"
)

const (
	methodStar  = "Star"
	minStarLeaf = 1
)

// Star returns a Constructor that builds n dead-end streets around one hub.
func Star(n int) Constructor {
	return func(g *network.Graph[string], cfg builderConfig) error {
		if n < minStarLeaf {
			return fmt.Errorf("%s: n=%d < min=%d: %w", methodStar, n, minStarLeaf, ErrTooFewVertices)
		}

		hub := cfg.idFn(0)
		if err := addNode(g, methodStar, hub, cfg.at(0, 0)); err != nil {
			return err
		}
		for i := 1; i <= n; i++ {
			theta := 2 * math.Pi * float64(i-1) / float64(n)
			if err := addNode(g, methodStar, cfg.idFn(i), cfg.at(math.Cos(theta), math.Sin(theta))); err != nil {
				return err
			}
		}
		for i := 1; i <= n; i++ {
			if err := addEdge(g, cfg, methodStar, hub, cfg.idFn(i), edgeID("star", i)); err != nil {
				return err
			}
		}

		return nil
	}
}
