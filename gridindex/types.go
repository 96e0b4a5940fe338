// Types, options and sentinel errors for the grid index.

package gridindex

import (
	"cmp"
	"errors"
	"time"

	"github.com/paulmach/orb"

	"github.com/katalvlaran/streetnet/network"
)

// Sentinel errors for gridindex operations.
var (
	// ErrBadCellSize indicates a non-positive cell size.
	ErrBadCellSize = errors.New("gridindex: cell size must be positive")
	// ErrRadiusTooLarge indicates a query radius beyond the cell size; the
	// 3×3 block could then miss closer edges.
	ErrRadiusTooLarge = errors.New("gridindex: radius exceeds cell size")
	// ErrStaleIndex indicates the graph changed since the index was built.
	ErrStaleIndex = errors.New("gridindex: index built for another graph version")
)

// Neighborhood lists the cell offsets scanned by a query: the point's own
// cell and its eight neighbours.
var Neighborhood = [9][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {0, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Candidate is one query hit: an edge and the point's distance to it.
type Candidate[K cmp.Ordered] struct {
	Edge     network.EdgeKey[K]
	Distance float64
}

// cell addresses one grid cell by its bisect positions in the x and y bins.
type cell struct{ i, j int }

// BuildObserver receives one call per completed build.
type BuildObserver interface {
	ObserveIndexBuild(cells, edges int, elapsed time.Duration)
}

// Index is an immutable grid over an extent. Each cell lists the edges whose
// bounding box overlaps it. Safe for concurrent queries.
type Index[K cmp.Ordered] struct {
	cellSize float64
	extent   orb.Bound
	xs, ys   []float64 // bin starts: min, min+cell, ... < max
	cells    map[cell][]network.EdgeKey[K]
	geoms    map[network.EdgeKey[K]]orb.LineString
	version  uint64
}
