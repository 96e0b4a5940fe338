package netpoint_test

import (
	"math/rand"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/streetnet/builder"
	"github.com/katalvlaran/streetnet/gridindex"
	"github.com/katalvlaran/streetnet/netpoint"
	"github.com/katalvlaran/streetnet/network"
)

var (
	ab = network.EdgeKey[string]{Neg: "A", Pos: "B", ID: "side-0"}
	cd = network.EdgeKey[string]{Neg: "C", Pos: "D", ID: "side-2"}
)

func square(t *testing.T) *network.Graph[string] {
	t.Helper()
	g, err := builder.BuildNetwork(nil, []builder.BuilderOption{builder.WithSymbolIDs()}, builder.Square())
	require.NoError(t, err)

	return g
}

type LocationSuite struct {
	suite.Suite
	g *network.Graph[string]
}

func (s *LocationSuite) SetupTest() { s.g = square(s.T()) }

func (s *LocationSuite) TestConstructors() {
	l, err := netpoint.FromNegative(s.g, ab, 2.5)
	s.Require().NoError(err)
	s.InDelta(2.5, l.DistanceNegative(), 1e-12)
	s.InDelta(7.5, l.DistancePositive(), 1e-12)
	s.InDelta(10.0, l.DistanceNegative()+l.DistancePositive(), 1e-12)

	r, err := netpoint.FromPositive(s.g, ab, 7.5)
	s.Require().NoError(err)
	s.True(l.Equal(r))

	rev, err := netpoint.New(s.g, network.EdgeKey[string]{Neg: "B", Pos: "A", ID: "side-0"}, 7.5, 2.5)
	s.Require().NoError(err)
	s.Equal(ab, rev.Edge(), "stored orientation")
	s.True(l.Equal(rev))

	c, err := netpoint.Centroid(s.g, cd)
	s.Require().NoError(err)
	s.InDelta(5.0, c.DistanceNegative(), 1e-12)
}

func (s *LocationSuite) TestConstructorErrors() {
	_, err := netpoint.New(s.g, ab, 3, 3)
	s.ErrorIs(err, netpoint.ErrDistanceMismatch)

	_, err = netpoint.New(s.g, ab, -1, 11)
	s.ErrorIs(err, netpoint.ErrOutOfRange)

	_, err = netpoint.FromNegative(s.g, ab, 10.5)
	s.ErrorIs(err, netpoint.ErrOutOfRange)

	_, err = netpoint.FromNegative(s.g, network.EdgeKey[string]{Neg: "A", Pos: "C", ID: "x"}, 1)
	s.ErrorIs(err, network.ErrEdgeNotFound)

	l, err := netpoint.FromNegative(s.g, ab, 10+1e-9)
	s.Require().NoError(err, "within tolerance")
	s.Equal(10.0, l.DistanceNegative())
	s.Zero(l.DistancePositive())
}

func (s *LocationSuite) TestGeometry() {
	l, err := netpoint.FromNegative(s.g, ab, 2.5)
	s.Require().NoError(err)

	d, err := l.DistanceFrom("B")
	s.Require().NoError(err)
	s.InDelta(7.5, d, 1e-12)
	_, err = l.DistanceFrom("C")
	s.ErrorIs(err, netpoint.ErrNotEndpoint)

	p, err := l.Point(s.g)
	s.Require().NoError(err)
	s.InDelta(2.5, p.X(), 1e-12)
	s.InDelta(0.0, p.Y(), 1e-12)

	toA, err := l.SubLine(s.g, "A")
	s.Require().NoError(err)
	s.Equal(orb.LineString{{2.5, 0}, {0, 0}}, toA)
	toB, err := l.SubLine(s.g, "B")
	s.Require().NoError(err)
	s.Equal(orb.LineString{{2.5, 0}, {10, 0}}, toB)

	m, err := netpoint.Centroid(s.g, cd)
	s.Require().NoError(err)
	e, err := l.EuclideanDistance(s.g, m)
	s.Require().NoError(err)
	s.InDelta(10.3078, e, 1e-4)
}

func TestLocationSuite(t *testing.T) {
	suite.Run(t, new(LocationSuite))
}

func TestPath(t *testing.T) {
	g := square(t)
	from, err := netpoint.Centroid(g, ab)
	require.NoError(t, err)
	to, err := netpoint.Centroid(g, cd)
	require.NoError(t, err)
	bc := network.EdgeKey[string]{Neg: "B", Pos: "C", ID: "side-1"}

	p, err := netpoint.NewPath(from, to, []string{"B", "C"}, []network.EdgeKey[string]{ab, bc, cd}, []float64{5, 10, 5}, []int{2, 2})
	require.NoError(t, err)
	assert.InDelta(t, 20.0, p.Length(), 1e-12)
	assert.Equal(t, []int{1, 1}, p.BranchFactors())
	assert.Equal(t, 1.0, p.BranchProduct())
	assert.Equal(t, []string{"B", "C"}, p.Nodes())
	assert.True(t, p.Start().Equal(from))
	assert.True(t, p.End().Equal(to))

	q, err := netpoint.NewPathTotal(from, to, []string{"B", "C"}, []network.EdgeKey[string]{ab, bc, cd}, 20, []int{4, 3})
	require.NoError(t, err)
	assert.Nil(t, q.Distances())
	assert.Equal(t, 6.0, q.BranchProduct())

	_, err = netpoint.NewPath(from, to, []string{"B"}, []network.EdgeKey[string]{ab}, []float64{5}, []int{2})
	assert.ErrorIs(t, err, netpoint.ErrPathMismatch)
	_, err = netpoint.NewPath(from, to, nil, []network.EdgeKey[string]{ab}, nil, nil)
	assert.ErrorIs(t, err, netpoint.ErrPathMismatch)
	_, err = netpoint.NewPathTotal(from, to, []string{"B"}, []network.EdgeKey[string]{ab, bc}, 1, nil)
	assert.ErrorIs(t, err, netpoint.ErrPathMismatch)
}

type snapCounter struct{ found, missed int }

func (c *snapCounter) ObserveSnap(found bool, _ float64) {
	if found {
		c.found++
	} else {
		c.missed++
	}
}

func TestSnapBruteForce(t *testing.T) {
	g := square(t)
	obs := &snapCounter{}

	m, ok, err := netpoint.Snap(g, 3, 1, netpoint.WithMetrics(obs))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ab, m.Location.Edge())
	assert.InDelta(t, 3.0, m.Location.DistanceNegative(), 1e-12)
	assert.InDelta(t, 1.0, m.Distance, 1e-12)

	_, ok, err = netpoint.Snap(g, 5, 5, netpoint.WithRadius(4), netpoint.WithMetrics(obs))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, obs.found)
	assert.Equal(t, 1, obs.missed)

	all, err := netpoint.SnapN(g, 5, 5, 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "side-0", all[0].Location.Edge().ID, "ties resolve to the smallest key")

	two, err := netpoint.SnapN(g, 5, 5, 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
}

func TestSnapWithIndex(t *testing.T) {
	g := square(t)
	idx, err := gridindex.Build(g, 5, nil)
	require.NoError(t, err)

	m, ok, err := netpoint.Snap(g, 9, 7, netpoint.WithIndex(idx), netpoint.WithRadius(5))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "side-1", m.Location.Edge().ID)
	assert.InDelta(t, 7.0, m.Location.DistanceNegative(), 1e-12)

	_, err = g.AddEdge("A", "C", "diag", nil, network.WithDirection(network.TwoWay))
	require.NoError(t, err)
	_, _, err = netpoint.Snap(g, 9, 7, netpoint.WithIndex(idx))
	assert.ErrorIs(t, err, gridindex.ErrStaleIndex)

	lazy := gridindex.NewLazy(g, 5, nil, nil)
	m, ok, err = netpoint.Snap(g, 7, 7.5, netpoint.WithLazyIndex(lazy), netpoint.WithRadius(5))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "diag", m.Location.Edge().ID)

	ig := network.NewGraph[int]()
	require.NoError(t, ig.AddNode(1, orb.Point{0, 0}))
	require.NoError(t, ig.AddNode(2, orb.Point{1, 0}))
	_, err = ig.AddEdge(1, 2, 1, nil)
	require.NoError(t, err)
	iidx, err := gridindex.Build(ig, 1, nil)
	require.NoError(t, err)
	_, _, err = netpoint.Snap(g, 0, 0, netpoint.WithIndex(iidx))
	assert.ErrorIs(t, err, netpoint.ErrIndexType)
}

func TestSnapNilIndexFallsBack(t *testing.T) {
	g := square(t)
	var idx *gridindex.Index[string]
	var lazy *gridindex.Lazy[string]

	for _, opt := range []netpoint.Option{netpoint.WithIndex(idx), netpoint.WithLazyIndex(lazy)} {
		m, ok, err := netpoint.Snap(g, 5, 1, opt)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "side-0", m.Location.Edge().ID)
		assert.InDelta(t, 1.0, m.Distance, 1e-12)
	}
}

func TestSnapIndexMatchesBruteForce(t *testing.T) {
	g, err := builder.BuildNetwork(nil, []builder.BuilderOption{builder.WithBend(0.25)}, builder.Grid(4, 5))
	require.NoError(t, err)
	const cell = 6.0
	idx, err := gridindex.Build(g, cell, nil)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 300; i++ {
		x, y := rng.Float64()*40, rng.Float64()*30
		brute, okB, err := netpoint.Snap(g, x, y, netpoint.WithRadius(cell))
		require.NoError(t, err)
		fast, okF, err := netpoint.Snap(g, x, y, netpoint.WithIndex(idx), netpoint.WithRadius(cell))
		require.NoError(t, err)
		require.Equal(t, okB, okF, "(%g,%g)", x, y)
		if okB {
			assert.Equal(t, brute.Location.Edge(), fast.Location.Edge(), "(%g,%g)", x, y)
			assert.InDelta(t, brute.Distance, fast.Distance, 1e-12)
		}
	}
}
