// SPDX-License-Identifier: MIT
// Package: streetnet/builder
//
// impl_path.go - implementation of Path(n) constructor.
//
// Contract:
//   • n ≥ 2 (else ErrTooFewVertices).
//   • Node i is cfg.idFn(i) at lattice point (i, 0).
//   • Emits edges "path-i" from node i-1 to node i for i=1..n-1.

package builder

import (
	"fmt"

	"github.com/katalvlaran/streetnet/network"
)

const (
	methodPath   = "Path"
	minPathNodes = 2
)

// Path returns a Constructor that builds a straight street of n-1 segments.
func Path(n int) Constructor {
	return func(g *network.Graph[string], cfg builderConfig) error {
		if n < minPathNodes {
			return fmt.Errorf("%s: n=%d < min=%d: %w", methodPath, n, minPathNodes, ErrTooFewVertices)
		}

		for i := 0; i < n; i++ {
			if err := addNode(g, methodPath, cfg.idFn(i), cfg.at(float64(i), 0)); err != nil {
				return err
			}
		}
		for i := 1; i < n; i++ {
			if err := addEdge(g, cfg, methodPath, cfg.idFn(i-1), cfg.idFn(i), edgeID("path", i)); err != nil {
				return err
			}
		}

		return nil
	}
}
