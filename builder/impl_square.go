// SPDX-License-Identifier: MIT
// Package: streetnet/builder
//
// impl_square.go - implementation of Square() constructor.
//
// Contract:
//   • Four nodes cfg.idFn(0..3) at lattice corners (0,0), (1,0), (1,1), (0,1).
//   • Edges "side-0".."side-3" run counter-clockwise: 0→1, 1→2, 2→3, 3→0.
//   • With WithSymbolIDs and the default spacing this is the block
//     A(0,0) B(10,0) C(10,10) D(0,10).

package builder

import "github.com/katalvlaran/streetnet/network"

const methodSquare = "Square"

var squareCorners = [4][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

// Square returns a Constructor that builds one square city block.
func Square() Constructor {
	return func(g *network.Graph[string], cfg builderConfig) error {
		for i, c := range squareCorners {
			if err := addNode(g, methodSquare, cfg.idFn(i), cfg.at(c[0], c[1])); err != nil {
				return err
			}
		}
		for i := range squareCorners {
			if err := addEdge(g, cfg, methodSquare, cfg.idFn(i), cfg.idFn((i+1)%4), edgeID("side", i)); err != nil {
				return err
			}
		}

		return nil
	}
}
