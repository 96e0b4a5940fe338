package routing_test

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/streetnet/builder"
	"github.com/katalvlaran/streetnet/netpoint"
	"github.com/katalvlaran/streetnet/network"
	"github.com/katalvlaran/streetnet/routing"
)

var (
	ab = network.EdgeKey[string]{Neg: "A", Pos: "B", ID: "side-0"}
	bc = network.EdgeKey[string]{Neg: "B", Pos: "C", ID: "side-1"}
	cd = network.EdgeKey[string]{Neg: "C", Pos: "D", ID: "side-2"}
	da = network.EdgeKey[string]{Neg: "D", Pos: "A", ID: "side-3"}
)

func square(t *testing.T) *network.Graph[string] {
	t.Helper()
	g, err := builder.BuildNetwork(nil, []builder.BuilderOption{builder.WithSymbolIDs()}, builder.Square())
	require.NoError(t, err)

	return g
}

func at(t *testing.T, g *network.Graph[string], key network.EdgeKey[string], dNeg float64) netpoint.Location[string] {
	t.Helper()
	l, err := netpoint.FromNegative(g, key, dNeg)
	require.NoError(t, err)

	return l
}

func stats(t *testing.T, g *network.Graph[string]) network.Stats {
	t.Helper()
	s, err := g.Stats()
	require.NoError(t, err)

	return s
}

type SquareSuite struct {
	suite.Suite
	g      *network.Graph[string]
	before network.Stats
}

func (s *SquareSuite) SetupTest() {
	s.g = square(s.T())
	s.before = stats(s.T(), s.g)
}

func (s *SquareSuite) TearDownTest() {
	s.Equal(s.before, stats(s.T(), s.g), "query left the graph changed")
}

func (s *SquareSuite) TestOppositeSides() {
	p, q := at(s.T(), s.g, ab, 5), at(s.T(), s.g, cd, 5)
	for _, m := range []routing.Method{routing.Bidirectional, routing.SingleSource} {
		path, ok, err := routing.Undirected(s.g, p, q, routing.WithMethod(m))
		s.Require().NoError(err)
		s.Require().True(ok)
		s.InDelta(20.0, path.Length(), 1e-9, m.String())
		s.Contains([][]string{{"B", "C"}, {"A", "D"}}, path.Nodes())
		s.Equal([]int{2, 2}, path.Degrees())
		s.Equal([]int{1, 1}, path.BranchFactors())

		edges := path.Edges()
		s.Require().Len(edges, 3)
		s.Equal(ab, edges[0])
		s.Equal(cd, edges[2])
		s.Equal([]float64{5, 10, 5}, path.Distances())
	}

	d, ok, err := routing.Length(s.g, p, q)
	s.Require().NoError(err)
	s.True(ok)
	s.InDelta(20.0, d, 1e-9)
}

func (s *SquareSuite) TestSameEdge() {
	p, q := at(s.T(), s.g, ab, 2), at(s.T(), s.g, ab, 7)

	path, ok, err := routing.Undirected(s.g, q, p)
	s.Require().NoError(err)
	s.Require().True(ok)
	s.InDelta(5.0, path.Length(), 1e-12)
	s.Empty(path.Nodes())
	s.Equal([]network.EdgeKey[string]{ab}, path.Edges())

	for _, x := range []netpoint.Location[string]{p, at(s.T(), s.g, bc, 10)} {
		d, ok, err := routing.Length(s.g, x, x)
		s.Require().NoError(err)
		s.True(ok)
		s.Zero(d)

		path, ok, err = routing.Directed(s.g, x, x)
		s.Require().NoError(err)
		s.True(ok)
		s.Zero(path.Length())
	}
}

func (s *SquareSuite) TestAdjacentEdges() {
	p, q := at(s.T(), s.g, ab, 8), at(s.T(), s.g, bc, 3)
	path, ok, err := routing.Directed(s.g, p, q)
	s.Require().NoError(err)
	s.Require().True(ok)
	s.InDelta(5.0, path.Length(), 1e-9)
	s.Equal([]string{"B"}, path.Nodes())
}

func (s *SquareSuite) TestMaxDistance() {
	p, q := at(s.T(), s.g, ab, 5), at(s.T(), s.g, cd, 5)
	_, ok, err := routing.Undirected(s.g, p, q, routing.WithMaxDistance(15))
	s.Require().NoError(err)
	s.False(ok)

	_, ok, err = routing.Undirected(s.g, p, q, routing.WithMaxDistance(20))
	s.Require().NoError(err)
	s.True(ok)

	_, _, err = routing.Undirected(s.g, p, q, routing.WithMaxDistance(-1))
	s.ErrorIs(err, routing.ErrBadMaxDistance)
}

func (s *SquareSuite) TestOneWayForcesDetour() {
	s.Require().NoError(s.g.SetAttr(ab, network.AttrDirection, network.Forward))
	s.before = stats(s.T(), s.g)

	// Same edge: near B back to near A.
	p, q := at(s.T(), s.g, ab, 8), at(s.T(), s.g, ab, 2)
	path, ok, err := routing.Directed(s.g, p, q)
	s.Require().NoError(err)
	s.Require().True(ok)
	s.InDelta(34.0, path.Length(), 1e-9)
	s.Equal([]string{"B", "C", "D", "A"}, path.Nodes())
	s.Equal([]network.EdgeKey[string]{ab, bc, cd, da, ab}, path.Edges())

	fwd, ok, err := routing.Directed(s.g, q, p)
	s.Require().NoError(err)
	s.Require().True(ok)
	s.InDelta(6.0, fwd.Length(), 1e-12)

	// Different edges: from just past B on BC to just before A on DA.
	p, q = at(s.T(), s.g, bc, 1), at(s.T(), s.g, da, 9)
	path, ok, err = routing.Directed(s.g, p, q)
	s.Require().NoError(err)
	s.Require().True(ok)
	s.InDelta(28.0, path.Length(), 1e-9)
	s.Equal([]string{"C", "D"}, path.Nodes())

	und, ok, err := routing.Undirected(s.g, p, q)
	s.Require().NoError(err)
	s.Require().True(ok)
	s.InDelta(12.0, und.Length(), 1e-9)
}

func (s *SquareSuite) TestClosedEdge() {
	s.Require().NoError(s.g.SetAttr(ab, network.AttrDirection, network.Closed))
	s.before = stats(s.T(), s.g)

	p, q := at(s.T(), s.g, ab, 8), at(s.T(), s.g, ab, 2)
	_, ok, err := routing.Directed(s.g, p, q)
	s.Require().NoError(err)
	s.False(ok)

	_, ok, err = routing.Directed(s.g, at(s.T(), s.g, ab, 5), at(s.T(), s.g, cd, 5))
	s.Require().NoError(err)
	s.False(ok, "a closed edge cannot be left")
}

func TestSquareSuite(t *testing.T) {
	suite.Run(t, new(SquareSuite))
}

func TestOneWayWithoutAlternative(t *testing.T) {
	g, err := builder.BuildNetwork(nil, []builder.BuilderOption{builder.WithDirection(network.Forward)}, builder.Path(2))
	require.NoError(t, err)
	key := network.EdgeKey[string]{Neg: "0", Pos: "1", ID: "path-1"}
	before := stats(t, g)

	_, ok, err := routing.Directed(g, at(t, g, key, 8), at(t, g, key, 2))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, before, stats(t, g))
}

func TestDisconnected(t *testing.T) {
	g := square(t)
	require.NoError(t, builder.Apply(g, []builder.BuilderOption{builder.WithPrefixIDs("far"), builder.WithOrigin(orb.Point{100, 100})}, builder.Path(2)))
	before := stats(t, g)
	far := network.EdgeKey[string]{Neg: "far0", Pos: "far1", ID: "path-1"}

	for _, m := range []routing.Method{routing.Bidirectional, routing.SingleSource} {
		_, ok, err := routing.Undirected(g, at(t, g, ab, 5), at(t, g, far, 5), routing.WithMethod(m))
		require.NoError(t, err)
		assert.False(t, ok)
		_, ok, err = routing.Directed(g, at(t, g, ab, 5), at(t, g, far, 5), routing.WithMethod(m))
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.Equal(t, before, stats(t, g))
}

func TestInvariantViolationRollsBack(t *testing.T) {
	g := square(t)
	p, q := at(t, g, ab, 5), at(t, g, cd, 5)
	require.NoError(t, g.RemoveEdge(cd))
	before := stats(t, g)
	version := g.Version()

	_, ok, err := routing.Undirected(g, p, q)
	assert.False(t, ok)
	assert.ErrorIs(t, err, network.ErrInvariantViolation)
	_, _, err = routing.Directed(g, p, q)
	assert.ErrorIs(t, err, network.ErrInvariantViolation)

	assert.Equal(t, before, stats(t, g))
	assert.Equal(t, version, g.Version())
}

func TestDirectedNeedsDirections(t *testing.T) {
	g := network.NewGraph[string]()
	for id, p := range map[string]orb.Point{"a": {0, 0}, "b": {10, 0}, "c": {20, 0}} {
		require.NoError(t, g.AddNode(id, p))
	}
	_, err := g.AddEdge("a", "b", "ab", nil)
	require.NoError(t, err)
	_, err = g.AddEdge("b", "c", "bc", nil)
	require.NoError(t, err)

	p := at(t, g, network.EdgeKey[string]{Neg: "a", Pos: "b", ID: "ab"}, 5)
	q := at(t, g, network.EdgeKey[string]{Neg: "b", Pos: "c", ID: "bc"}, 5)
	_, _, err = routing.Directed(g, p, q)
	assert.ErrorIs(t, err, network.ErrMissingAttribute)
	_, _, err = routing.Directed(g, p, at(t, g, network.EdgeKey[string]{Neg: "a", Pos: "b", ID: "ab"}, 7))
	assert.ErrorIs(t, err, network.ErrMissingAttribute)

	path, ok, err := routing.Undirected(g, p, q)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 10.0, path.Length(), 1e-9)
}

func TestShortestParallelEdge(t *testing.T) {
	g := network.NewGraph[string](network.WithDefaultDirection(network.TwoWay))
	for id, p := range map[string]orb.Point{"X": {-10, 0}, "A": {0, 0}, "B": {10, 0}, "Y": {20, 0}} {
		require.NoError(t, g.AddNode(id, p))
	}
	for _, e := range []struct {
		neg, pos, id string
		geom         orb.LineString
	}{
		{"X", "A", "xa", nil},
		{"A", "B", "long", orb.LineString{{0, 0}, {5, 5}, {10, 0}}},
		{"A", "B", "short", nil},
		{"B", "Y", "by", nil},
	} {
		_, err := g.AddEdge(e.neg, e.pos, e.id, e.geom)
		require.NoError(t, err)
	}
	p := at(t, g, network.EdgeKey[string]{Neg: "X", Pos: "A", ID: "xa"}, 5)
	q := at(t, g, network.EdgeKey[string]{Neg: "B", Pos: "Y", ID: "by"}, 5)

	for _, directed := range []bool{false, true} {
		path, ok, err := routing.NewFinder(g, directed).Path(p, q)
		require.NoError(t, err)
		require.True(t, ok)
		assert.InDelta(t, 20.0, path.Length(), 1e-9)
		assert.Equal(t, "short", path.Edges()[1].ID)
		assert.Equal(t, []int{3, 3}, path.Degrees())
		assert.Equal(t, 4.0, path.BranchProduct())
	}
}

func TestMethodsAgreeAndSymmetric(t *testing.T) {
	g, err := builder.BuildNetwork(nil, []builder.BuilderOption{builder.WithBend(0.2)}, builder.Grid(4, 4))
	require.NoError(t, err)
	edges := g.Edges()
	before := stats(t, g)
	rng := rand.New(rand.NewSource(3))

	for i := 0; i < 100; i++ {
		e1, e2 := edges[rng.Intn(len(edges))], edges[rng.Intn(len(edges))]
		p := at(t, g, e1.Key(), rng.Float64()*e1.Length)
		q := at(t, g, e2.Key(), rng.Float64()*e2.Length)

		bi, ok, err := routing.Length(g, p, q)
		require.NoError(t, err)
		require.True(t, ok)
		ss, ok, err := routing.Length(g, p, q, routing.WithMethod(routing.SingleSource))
		require.NoError(t, err)
		require.True(t, ok)
		back, ok, err := routing.Length(g, q, p)
		require.NoError(t, err)
		require.True(t, ok)
		dir, ok, err := routing.Directed(g, p, q)
		require.NoError(t, err)
		require.True(t, ok)

		assert.InDelta(t, bi, ss, 1e-9)
		assert.InDelta(t, bi, back, 1e-9)
		assert.InDelta(t, bi, dir.Length(), 1e-9, "all streets two-way")
	}
	assert.Equal(t, before, stats(t, g))
}

type routeCounter struct {
	mu    sync.Mutex
	calls map[string]int
}

func (c *routeCounter) ObserveRoute(mode string, found bool, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if found {
		c.calls[mode]++
	}
}

func TestFinderConcurrentQueries(t *testing.T) {
	g := square(t)
	p, q := at(t, g, ab, 5), at(t, g, cd, 5)
	obs := &routeCounter{calls: map[string]int{}}
	und := routing.NewFinder(g, false, routing.WithMetrics(obs))
	dir := routing.NewFinder(g, true, routing.WithMetrics(obs))
	assert.False(t, und.Directed())
	assert.Same(t, g, dir.Graph())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(f *routing.Finder[string]) {
			defer wg.Done()
			d, ok, err := f.Distance(p, q)
			assert.NoError(t, err)
			assert.True(t, ok)
			assert.InDelta(t, 20.0, d, 1e-9)
		}([]*routing.Finder[string]{und, dir}[i%2])
	}
	wg.Wait()

	assert.Equal(t, map[string]int{"undirected": 8, "directed": 8}, obs.calls)
	assert.Equal(t, network.Stats{Nodes: 4, Edges: 4, RoutingArcs: 8}, stats(t, g))
}

func TestParseMethod(t *testing.T) {
	m, err := routing.ParseMethod("single-source")
	require.NoError(t, err)
	assert.Equal(t, routing.SingleSource, m)
	m, err = routing.ParseMethod("")
	require.NoError(t, err)
	assert.Equal(t, routing.Bidirectional, m)
	_, err = routing.ParseMethod("astar")
	assert.ErrorIs(t, err, routing.ErrUnknownMethod)
}
