package network_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/streetnet/network"
)

// squareGraph builds A(0,0) B(10,0) C(10,10) D(0,10) joined by ab, bc, cd, da.
func squareGraph(t *testing.T, opts ...network.EdgeOption) *network.Graph[string] {
	t.Helper()
	g := network.NewGraph[string](network.WithDefaultDirection(network.TwoWay))
	for id, p := range map[string]orb.Point{"A": {0, 0}, "B": {10, 0}, "C": {10, 10}, "D": {0, 10}} {
		require.NoError(t, g.AddNode(id, p))
	}
	for _, e := range [][3]string{{"A", "B", "ab"}, {"B", "C", "bc"}, {"C", "D", "cd"}, {"D", "A", "da"}} {
		_, err := g.AddEdge(e[0], e[1], e[2], nil, opts...)
		require.NoError(t, err)
	}

	return g
}

func key(neg, pos, id string) network.EdgeKey[string] {
	return network.EdgeKey[string]{Neg: neg, Pos: pos, ID: id}
}
