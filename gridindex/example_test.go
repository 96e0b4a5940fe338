package gridindex_test

import (
	"fmt"

	"github.com/katalvlaran/streetnet/builder"
	"github.com/katalvlaran/streetnet/gridindex"
)

func ExampleIndex_Query() {
	g, _ := builder.BuildNetwork(nil, nil, builder.Grid(2, 2))
	idx, _ := gridindex.Build(g, 10, nil)

	hits, _ := idx.Query(3, 2, 4)
	for _, h := range hits {
		fmt.Printf("%s %.1f\n", h.Edge.ID, h.Distance)
	}
	// Output:
	// h-0,0 2.0
	// v-0,0 3.0
}
