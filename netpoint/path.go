// SPDX-License-Identifier: MIT
// File: path.go
// Role: Path, an immutable route between two Locations.
// Invariants:
//   - len(Edges) == len(Nodes)+1.
//   - Distances is nil or has one entry per edge.
//   - Degrees has one entry per interior node.

package netpoint

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/katalvlaran/streetnet/network"
)

// Path is a route from Start to End through interior nodes.
type Path[K cmp.Ordered] struct {
	start, end Location[K]
	nodes      []K
	edges      []network.EdgeKey[K]
	distances  []float64
	degrees    []int
	total      float64
}

// NewPath builds a Path from per-edge distances. degrees holds the physical
// degree of each interior node, used for branch factors.
// Fails with ErrPathMismatch when the list lengths disagree.
func NewPath[K cmp.Ordered](start, end Location[K], nodes []K, edges []network.EdgeKey[K], distances []float64, degrees []int) (Path[K], error) {
	if len(distances) != len(edges) {
		return Path[K]{}, fmt.Errorf("%w: %d distances for %d edges", ErrPathMismatch, len(distances), len(edges))
	}
	p, err := newPath(start, end, nodes, edges, degrees)
	if err != nil {
		return Path[K]{}, err
	}
	p.distances = slices.Clone(distances)
	for _, d := range distances {
		p.total += d
	}

	return p, nil
}

// NewPathTotal builds a Path carrying only its total length.
func NewPathTotal[K cmp.Ordered](start, end Location[K], nodes []K, edges []network.EdgeKey[K], total float64, degrees []int) (Path[K], error) {
	p, err := newPath(start, end, nodes, edges, degrees)
	if err != nil {
		return Path[K]{}, err
	}
	p.total = total

	return p, nil
}

func newPath[K cmp.Ordered](start, end Location[K], nodes []K, edges []network.EdgeKey[K], degrees []int) (Path[K], error) {
	if len(edges) != len(nodes)+1 {
		return Path[K]{}, fmt.Errorf("%w: %d edges for %d nodes", ErrPathMismatch, len(edges), len(nodes))
	}
	if len(degrees) != len(nodes) {
		return Path[K]{}, fmt.Errorf("%w: %d degrees for %d nodes", ErrPathMismatch, len(degrees), len(nodes))
	}

	return Path[K]{
		start:   start,
		end:     end,
		nodes:   slices.Clone(nodes),
		edges:   slices.Clone(edges),
		degrees: slices.Clone(degrees),
	}, nil
}

// Start returns the origin location.
func (p Path[K]) Start() Location[K] { return p.start }

// End returns the destination location.
func (p Path[K]) End() Location[K] { return p.end }

// Nodes returns a copy of the interior nodes in travel order.
func (p Path[K]) Nodes() []K { return slices.Clone(p.nodes) }

// Edges returns a copy of the traversed edge keys in travel order.
func (p Path[K]) Edges() []network.EdgeKey[K] { return slices.Clone(p.edges) }

// Distances returns a copy of the per-edge distances, nil for a path built
// from a total.
func (p Path[K]) Distances() []float64 { return slices.Clone(p.distances) }

// Length returns the total route length.
func (p Path[K]) Length() float64 { return p.total }

// Degrees returns a copy of the physical degree of every interior node.
func (p Path[K]) Degrees() []int { return slices.Clone(p.degrees) }

// BranchFactors returns max(degree-1, 1) for every interior node.
func (p Path[K]) BranchFactors() []int {
	res := make([]int, len(p.degrees))
	for i, d := range p.degrees {
		res[i] = max(d-1, 1)
	}

	return res
}

// BranchProduct multiplies the branch factors: an estimate of how many
// equally plausible routes the path was chosen from.
func (p Path[K]) BranchProduct() float64 {
	prod := 1.0
	for _, b := range p.BranchFactors() {
		prod *= float64(b)
	}

	return prod
}
