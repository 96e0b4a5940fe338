package gridindex

import (
	"cmp"
	"sync"

	"github.com/paulmach/orb"

	"github.com/katalvlaran/streetnet/network"
)

// Lazy is an index cache keyed by the graph's structural version: built on
// first use and rebuilt whole whenever the graph has changed since.
type Lazy[K cmp.Ordered] struct {
	g        *network.Graph[K]
	cellSize float64
	extent   *orb.Bound
	obs      BuildObserver

	mu  sync.Mutex
	idx *Index[K]
}

// NewLazy returns a cache over g. extent nil means the graph extent at build
// time; obs may be nil.
func NewLazy[K cmp.Ordered](g *network.Graph[K], cellSize float64, extent *orb.Bound, obs BuildObserver) *Lazy[K] {
	return &Lazy[K]{g: g, cellSize: cellSize, extent: extent, obs: obs}
}

// Index returns a fresh index, building it if missing or stale.
func (l *Lazy[K]) Index() (*Index[K], error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.idx != nil && l.idx.Fresh(l.g) {
		return l.idx, nil
	}
	idx, err := Build(l.g, l.cellSize, l.extent, l.obs)
	if err != nil {
		return nil, err
	}
	l.idx = idx

	return idx, nil
}

// Query runs Index().Query.
func (l *Lazy[K]) Query(x, y, radius float64) ([]Candidate[K], error) {
	idx, err := l.Index()
	if err != nil {
		return nil, err
	}

	return idx.Query(x, y, radius)
}

// Invalidate drops the cached index.
func (l *Lazy[K]) Invalidate() {
	l.mu.Lock()
	l.idx = nil
	l.mu.Unlock()
}

// Graph returns the indexed graph.
func (l *Lazy[K]) Graph() *network.Graph[K] { return l.g }
