package gridindex_test

import (
	"cmp"
	"fmt"
	"math/rand"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/streetnet/builder"
	"github.com/katalvlaran/streetnet/geometry"
	"github.com/katalvlaran/streetnet/gridindex"
	"github.com/katalvlaran/streetnet/network"
)

type countingObserver struct{ builds, edges int }

func (c *countingObserver) ObserveIndexBuild(_, edges int, _ time.Duration) {
	c.builds++
	c.edges = edges
}

func grid(t *testing.T, opts ...builder.BuilderOption) *network.Graph[string] {
	t.Helper()
	g, err := builder.BuildNetwork(nil, opts, builder.Grid(3, 3))
	require.NoError(t, err)

	return g
}

func TestQuery(t *testing.T) {
	g := grid(t)
	idx, err := gridindex.Build(g, 10, nil)
	require.NoError(t, err)

	res, err := idx.Query(5, 1, 5)
	require.NoError(t, err)
	require.Len(t, res, 1, "neighbours at distance exactly 5 are excluded")
	assert.Equal(t, "h-0,0", res[0].Edge.ID)
	assert.InDelta(t, 1.0, res[0].Distance, 1e-9)

	all, err := idx.Query(5, 1, 0)
	require.NoError(t, err)
	require.Greater(t, len(all), 1)
	assert.True(t, slices.IsSortedFunc(all, func(a, b gridindex.Candidate[string]) int {
		return cmp.Compare(a.Distance, b.Distance)
	}))

	none, err := idx.Query(5, 5, 4)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = idx.Query(5, 5, 10.5)
	assert.ErrorIs(t, err, gridindex.ErrRadiusTooLarge)

	c, ok, err := idx.Nearest(19, 20, 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "h-2,1", c.Edge.ID)
}

func TestBuildErrors(t *testing.T) {
	_, err := gridindex.Build(grid(t), 0, nil)
	assert.ErrorIs(t, err, gridindex.ErrBadCellSize)

	_, err = gridindex.Build(network.NewGraph[string](), 10, nil)
	assert.ErrorIs(t, err, network.ErrEmptyNetwork)
}

func TestMatchesBruteForce(t *testing.T) {
	g := grid(t, builder.WithBend(0.3), builder.WithSpacing(7))
	const cellSize = 4.0
	idx, err := gridindex.Build(g, cellSize, nil)
	require.NoError(t, err)
	ext := idx.Extent()
	edges := g.Edges()

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		p := orb.Point{
			ext.Min.X() + rng.Float64()*(ext.Max.X()-ext.Min.X()),
			ext.Min.Y() + rng.Float64()*(ext.Max.Y()-ext.Min.Y()),
		}

		var want []gridindex.Candidate[string]
		for _, e := range edges {
			if d := geometry.Distance(e.Geometry, p); d < cellSize {
				want = append(want, gridindex.Candidate[string]{Edge: e.Key(), Distance: d})
			}
		}
		slices.SortFunc(want, func(a, b gridindex.Candidate[string]) int {
			return cmp.Or(cmp.Compare(a.Distance, b.Distance), a.Edge.Compare(b.Edge))
		})

		got, ok, err := idx.Nearest(p.X(), p.Y(), cellSize)
		require.NoError(t, err)
		if len(want) == 0 {
			assert.False(t, ok, "point %v", p)
			continue
		}
		require.True(t, ok, "point %v", p)
		assert.Equal(t, want[0], got, "point %v", p)
	}
}

func TestLazyRebuildsOnChange(t *testing.T) {
	g := grid(t)
	obs := &countingObserver{}
	lazy := gridindex.NewLazy(g, 10, nil, obs)

	first, err := lazy.Index()
	require.NoError(t, err)
	again, err := lazy.Index()
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, 1, obs.builds)
	assert.Equal(t, 12, obs.edges)

	_, err = g.AddEdge("0,0", "1,1", "diag", nil, network.WithDirection(network.TwoWay))
	require.NoError(t, err)
	assert.False(t, first.Fresh(g))

	res, err := lazy.Query(5, 5, 1)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "diag", res[0].Edge.ID)
	assert.Equal(t, 2, obs.builds)

	lazy.Invalidate()
	_, err = lazy.Index()
	require.NoError(t, err)
	assert.Equal(t, 3, obs.builds)
	assert.Same(t, g, lazy.Graph())
}

// TestBuildDuringEdits builds while another goroutine adds edges; every index
// must hold exactly the edges of the version it is stamped with.
func TestBuildDuringEdits(t *testing.T) {
	g := grid(t)
	var mu sync.Mutex
	counts := map[uint64]int{g.Version(): g.EdgeCount()}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			_, err := g.AddEdge("0,0", "1,1", fmt.Sprintf("diag-%d", i), nil)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			counts[g.Version()] = g.EdgeCount()
			mu.Unlock()
		}
	}()

	type build struct {
		idx *gridindex.Index[string]
		obs *countingObserver
	}
	var builds []build
	for running := true; running; {
		select {
		case <-done:
			running = false
		default:
		}
		obs := &countingObserver{}
		idx, err := gridindex.Build(g, 10, nil, obs)
		require.NoError(t, err)
		builds = append(builds, build{idx, obs})
	}

	for _, b := range builds {
		want, ok := counts[b.idx.Version()]
		require.True(t, ok, "version %d", b.idx.Version())
		assert.Equal(t, want, b.obs.edges, "version %d", b.idx.Version())
	}
	last := builds[len(builds)-1].idx
	assert.True(t, last.Fresh(g))
}

func TestParamsRoundTrip(t *testing.T) {
	g := grid(t)
	ext := orb.Bound{Min: orb.Point{-5, -5}, Max: orb.Point{25, 25}}
	idx, err := gridindex.Build(g, 6, &ext)
	require.NoError(t, err)

	p := idx.Params()
	assert.Equal(t, network.IndexRecord{CellSize: 6, Extent: [4]float64{-5, -5, 25, 25}}, p)

	back, err := gridindex.FromParams(g, p)
	require.NoError(t, err)
	assert.Equal(t, idx.CellSize(), back.CellSize())
	assert.Equal(t, idx.Extent(), back.Extent())
	assert.Equal(t, idx.Version(), back.Version())
}
