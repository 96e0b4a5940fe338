package routing_test

import (
	"fmt"

	"github.com/katalvlaran/streetnet/builder"
	"github.com/katalvlaran/streetnet/netpoint"
	"github.com/katalvlaran/streetnet/network"
	"github.com/katalvlaran/streetnet/routing"
)

// ExampleUndirected routes between the midpoints of two opposite sides of a
// square block.
func ExampleUndirected() {
	g, _ := builder.BuildNetwork(nil, []builder.BuilderOption{builder.WithSymbolIDs()}, builder.Square())
	p, _ := netpoint.Centroid(g, network.EdgeKey[string]{Neg: "A", Pos: "B", ID: "side-0"})
	q, _ := netpoint.Centroid(g, network.EdgeKey[string]{Neg: "C", Pos: "D", ID: "side-2"})

	path, ok, _ := routing.Undirected(g, p, q)
	fmt.Println(ok, path.Length(), len(path.Nodes()))

	st, _ := g.Stats()
	fmt.Printf("%d nodes, %d edges, %d arcs\n", st.Nodes, st.Edges, st.RoutingArcs)
	// Output:
	// true 20 2
	// 4 nodes, 4 edges, 8 arcs
}

// ExampleDirected shows a one-way street forcing the long way round.
func ExampleDirected() {
	g, _ := builder.BuildNetwork(nil, []builder.BuilderOption{builder.WithSymbolIDs()}, builder.Square())
	ab := network.EdgeKey[string]{Neg: "A", Pos: "B", ID: "side-0"}
	_ = g.SetAttr(ab, network.AttrDirection, network.Forward)

	nearB, _ := netpoint.FromNegative(g, ab, 8)
	nearA, _ := netpoint.FromNegative(g, ab, 2)
	path, _, _ := routing.Directed(g, nearB, nearA)
	fmt.Println(path.Length(), path.Nodes())
	// Output:
	// 34 [B C D A]
}
