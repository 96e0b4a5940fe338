// SPDX-License-Identifier: MIT
// Package: streetnet/builder
//
// impl_grid.go - implementation of Grid(rows, cols) constructor.
//
// Canonical model:
//   • Orthogonal street grid; node (r,c) sits at lattice point (c, r).
//   • Node IDs use the fixed scheme "r,c" (row-major), not cfg.idFn.
//   • Edge IDs are "h-r,c" for the street to (r,c+1) and "v-r,c" for the
//     street to (r+1,c).
//
// Contract:
//   • rows ≥ 1 and cols ≥ 1 (else ErrTooFewVertices).
//   • Emits, per cell in row-major order, the right then the upper street.
//
// Complexity:
//   • Time: O(rows*cols).

package builder

import (
	"fmt"

	"github.com/katalvlaran/streetnet/network"
)

const (
	methodGrid = "Grid"
	minGridDim = 1
)

// Grid returns a Constructor that builds a rows×cols street grid.
func Grid(rows, cols int) Constructor {
	return func(g *network.Graph[string], cfg builderConfig) error {
		// 1) Validate parameters early (fail fast; no partial work).
		if rows < minGridDim || cols < minGridDim {
			return fmt.Errorf("%s: rows=%d, cols=%d (each must be ≥ %d): %w",
				methodGrid, rows, cols, minGridDim, ErrTooFewVertices)
		}

		// 2) Intersections in row-major order.
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				if err := addNode(g, methodGrid, gridID(r, c), cfg.at(float64(c), float64(r))); err != nil {
					return err
				}
			}
		}

		// 3) Streets: right neighbour, then upper neighbour.
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				u := gridID(r, c)
				if c+1 < cols {
					if err := addEdge(g, cfg, methodGrid, u, gridID(r, c+1), "h-"+u); err != nil {
						return err
					}
				}
				if r+1 < rows {
					if err := addEdge(g, cfg, methodGrid, u, gridID(r+1, c), "v-"+u); err != nil {
						return err
					}
				}
			}
		}

		return nil
	}
}
