package routing

import (
	"cmp"

	"github.com/katalvlaran/streetnet/netpoint"
	"github.com/katalvlaran/streetnet/network"
)

// Finder answers path queries on one graph in one mode. Queries on the same
// graph are serialized by the graph's lock.
type Finder[K cmp.Ordered] struct {
	g        *network.Graph[K]
	directed bool
	opts     []Option
}

// NewFinder binds g. directed selects the routing graph over the physical one.
func NewFinder[K cmp.Ordered](g *network.Graph[K], directed bool, opts ...Option) *Finder[K] {
	return &Finder[K]{g: g, directed: directed, opts: opts}
}

// Path returns the shortest path from → to.
func (f *Finder[K]) Path(from, to netpoint.Location[K]) (netpoint.Path[K], bool, error) {
	if f.directed {
		return Directed(f.g, from, to, f.opts...)
	}

	return Undirected(f.g, from, to, f.opts...)
}

// Distance returns the shortest path length from → to.
func (f *Finder[K]) Distance(from, to netpoint.Location[K]) (float64, bool, error) {
	if !f.directed {
		return Length(f.g, from, to, f.opts...)
	}
	p, ok, err := Directed(f.g, from, to, f.opts...)
	if err != nil || !ok {
		return 0, ok, err
	}

	return p.Length(), true, nil
}

// Directed reports the finder's mode.
func (f *Finder[K]) Directed() bool { return f.directed }

// Graph returns the bound graph.
func (f *Finder[K]) Graph() *network.Graph[K] { return f.g }
