package gridindex

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"sort"
	"time"

	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/streetnet/geometry"
	"github.com/katalvlaran/streetnet/logs"
	"github.com/katalvlaran/streetnet/network"
)

// Build lays a grid of cellSize over extent (the graph's Extent when nil) and
// registers every edge in each cell its bounding box may touch.
//
// Bins follow arange semantics: starts min, min+cell, ... strictly below max.
// A coordinate v maps to the first bin whose start is ≥ v, so registration is
// conservative and an edge may sit in cells it does not cross.
//
// Returns ErrBadCellSize or network.ErrEmptyNetwork (nil extent, no edges).
// Complexity: O(E · cells per bbox).
func Build[K cmp.Ordered](g *network.Graph[K], cellSize float64, extent *orb.Bound, obs ...BuildObserver) (*Index[K], error) {
	if !(cellSize > 0) || math.IsInf(cellSize, 0) {
		return nil, fmt.Errorf("%w: %g", ErrBadCellSize, cellSize)
	}
	start := time.Now()
	edges, version := g.Snapshot()
	var b orb.Bound
	switch {
	case extent != nil:
		b = *extent
	case len(edges) == 0:
		return nil, network.ErrEmptyNetwork
	default:
		b = edges[0].Geometry.Bound()
		for _, e := range edges[1:] {
			b = b.Union(e.Geometry.Bound())
		}
	}

	idx := &Index[K]{
		cellSize: cellSize,
		extent:   b,
		xs:       arange(b.Min.X(), b.Max.X(), cellSize),
		ys:       arange(b.Min.Y(), b.Max.Y(), cellSize),
		cells:    make(map[cell][]network.EdgeKey[K]),
		geoms:    make(map[network.EdgeKey[K]]orb.LineString),
		version:  version,
	}

	for _, e := range edges {
		key := e.Key()
		idx.geoms[key] = e.Geometry.Clone()
		bb := e.Geometry.Bound()
		lo := idx.locate(bb.Min)
		hi := idx.locate(bb.Max)
		for i := lo.i; i <= hi.i; i++ {
			for j := lo.j; j <= hi.j; j++ {
				c := cell{i, j}
				idx.cells[c] = append(idx.cells[c], key)
			}
		}
	}

	elapsed := time.Since(start)
	logs.Logger.WithFields(logrus.Fields{
		"cell_size": cellSize,
		"cells":     len(idx.cells),
		"edges":     len(edges),
		"elapsed":   elapsed,
	}).Debug("grid index built")
	for _, o := range obs {
		if o != nil {
			o.ObserveIndexBuild(len(idx.cells), len(edges), elapsed)
		}
	}

	return idx, nil
}

// arange returns lo, lo+step, ... strictly below hi.
func arange(lo, hi, step float64) []float64 {
	n := int(math.Ceil((hi - lo) / step))
	if n < 0 {
		n = 0
	}
	res := make([]float64, n)
	for i := range res {
		res[i] = lo + float64(i)*step
	}

	return res
}

// locate maps p to its cell by bisecting the bin starts.
func (idx *Index[K]) locate(p orb.Point) cell {
	return cell{sort.SearchFloat64s(idx.xs, p.X()), sort.SearchFloat64s(idx.ys, p.Y())}
}

// Query returns the edges registered in the 3×3 block of cells around (x, y)
// that lie closer than radius, nearest first (ties by edge key). radius ≤ 0
// means no limit. A radius above the cell size fails with ErrRadiusTooLarge.
// An empty result is not an error.
// Complexity: O(c log c) for c candidates in the block.
func (idx *Index[K]) Query(x, y, radius float64) ([]Candidate[K], error) {
	if radius > idx.cellSize {
		return nil, fmt.Errorf("%w: radius %g, cell size %g", ErrRadiusTooLarge, radius, idx.cellSize)
	}
	p := orb.Point{x, y}
	at := idx.locate(p)

	seen := make(map[network.EdgeKey[K]]struct{})
	var res []Candidate[K]
	for _, off := range Neighborhood {
		for _, key := range idx.cells[cell{at.i + off[0], at.j + off[1]}] {
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			d := geometry.Distance(idx.geoms[key], p)
			if radius > 0 && !(d < radius) {
				continue
			}
			res = append(res, Candidate[K]{Edge: key, Distance: d})
		}
	}
	slices.SortFunc(res, func(a, b Candidate[K]) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		return a.Edge.Compare(b.Edge)
	})

	return res, nil
}

// Nearest returns the closest candidate, if any.
func (idx *Index[K]) Nearest(x, y, radius float64) (Candidate[K], bool, error) {
	res, err := idx.Query(x, y, radius)
	if err != nil || len(res) == 0 {
		return Candidate[K]{}, false, err
	}

	return res[0], true, nil
}

// CellSize returns the grid cell size.
func (idx *Index[K]) CellSize() float64 { return idx.cellSize }

// Extent returns the gridded extent.
func (idx *Index[K]) Extent() orb.Bound { return idx.extent }

// Version returns the graph version the index was built from.
func (idx *Index[K]) Version() uint64 { return idx.version }

// Fresh reports whether g is unchanged since the build.
func (idx *Index[K]) Fresh(g *network.Graph[K]) bool { return g.Version() == idx.version }

// Params returns the index parameters for a network.Record.
func (idx *Index[K]) Params() network.IndexRecord {
	return network.IndexRecord{
		CellSize: idx.cellSize,
		Extent:   [4]float64{idx.extent.Min.X(), idx.extent.Min.Y(), idx.extent.Max.X(), idx.extent.Max.Y()},
	}
}

// FromParams rebuilds an index over g with recorded parameters.
func FromParams[K cmp.Ordered](g *network.Graph[K], p network.IndexRecord, obs ...BuildObserver) (*Index[K], error) {
	b := orb.Bound{Min: orb.Point{p.Extent[0], p.Extent[1]}, Max: orb.Point{p.Extent[2], p.Extent[3]}}

	return Build(g, p.CellSize, &b, obs...)
}
