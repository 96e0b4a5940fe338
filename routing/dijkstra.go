// SPDX-License-Identifier: MIT
// File: dijkstra.go
// Role: Dijkstra searches over a spliced adjacency.
// Policy:
//   - Lazy decrease-key: a vertex may sit in the heap several times; stale
//     entries are skipped when popped.
//   - Arc lengths are non-negative by construction (edge lengths).

package routing

import (
	"cmp"
	"container/heap"
	"math"
	"slices"

	"github.com/katalvlaran/streetnet/network"
)

// arcSource is the adjacency a search walks; *network.Splice implements it.
type arcSource[K cmp.Ordered] interface {
	Out(v network.Vertex[K]) []*network.Arc[K]
	In(v network.Vertex[K]) []*network.Arc[K]
}

// shortest returns the vertex sequence from→to and its length. ok is false
// when to is unreachable within maxDist.
func shortest[K cmp.Ordered](src arcSource[K], from, to network.Vertex[K], m Method, maxDist float64) ([]network.Vertex[K], float64, bool) {
	if m == SingleSource {
		return singleSource(src, from, to, maxDist)
	}

	return bidirectional(src, from, to, maxDist)
}

// frontier is one direction of a search.
type frontier[K cmp.Ordered] struct {
	dist    map[network.Vertex[K]]float64
	prev    map[network.Vertex[K]]network.Vertex[K]
	visited map[network.Vertex[K]]bool
	pq      vertexPQ[K]
}

func newFrontier[K cmp.Ordered](source network.Vertex[K]) *frontier[K] {
	f := &frontier[K]{
		dist:    map[network.Vertex[K]]float64{source: 0},
		prev:    make(map[network.Vertex[K]]network.Vertex[K]),
		visited: make(map[network.Vertex[K]]bool),
	}
	heap.Init(&f.pq)
	heap.Push(&f.pq, &vertexItem[K]{v: source, dist: 0})

	return f
}

func (f *frontier[K]) get(v network.Vertex[K]) float64 {
	if d, ok := f.dist[v]; ok {
		return d
	}

	return math.Inf(1)
}

// top returns the smallest key in the heap, +Inf when empty.
func (f *frontier[K]) top() float64 {
	if f.pq.Len() == 0 {
		return math.Inf(1)
	}

	return f.pq[0].dist
}

// pop returns the next unvisited vertex, marking it visited.
func (f *frontier[K]) pop() (network.Vertex[K], float64, bool) {
	for f.pq.Len() > 0 {
		item := heap.Pop(&f.pq).(*vertexItem[K])
		if f.visited[item.v] {
			continue
		}
		f.visited[item.v] = true

		return item.v, item.dist, true
	}

	return network.Vertex[K]{}, 0, false
}

// relax offers d to v via u.
func (f *frontier[K]) relax(u, v network.Vertex[K], d, maxDist float64) {
	if d > maxDist || d >= f.get(v) {
		return
	}
	f.dist[v] = d
	f.prev[v] = u
	heap.Push(&f.pq, &vertexItem[K]{v: v, dist: d})
}

// chain walks prev from v back to the source, source first.
func (f *frontier[K]) chain(v network.Vertex[K]) []network.Vertex[K] {
	res := []network.Vertex[K]{v}
	for {
		p, ok := f.prev[v]
		if !ok {
			break
		}
		res = append(res, p)
		v = p
	}
	slices.Reverse(res)

	return res
}

func singleSource[K cmp.Ordered](src arcSource[K], from, to network.Vertex[K], maxDist float64) ([]network.Vertex[K], float64, bool) {
	f := newFrontier(from)
	for {
		u, d, ok := f.pop()
		if !ok {
			return nil, 0, false
		}
		if u == to {
			return f.chain(to), d, true
		}
		for _, arc := range src.Out(u) {
			f.relax(u, arc.To, d+arc.Length, maxDist)
		}
	}
}

// bidirectional alternates a forward search over Out arcs and a backward
// search over In arcs, always expanding the side with the smaller heap top.
// It stops once the two tops sum to at least the best meeting length.
func bidirectional[K cmp.Ordered](src arcSource[K], from, to network.Vertex[K], maxDist float64) ([]network.Vertex[K], float64, bool) {
	fw, bw := newFrontier(from), newFrontier(to)
	best := math.Inf(1)
	var meet network.Vertex[K]
	if from == to {
		best, meet = 0, from
	}

	for fw.pq.Len() > 0 && bw.pq.Len() > 0 {
		if fw.top()+bw.top() >= best {
			break
		}
		if fw.top() <= bw.top() {
			u, d, ok := fw.pop()
			if !ok {
				break
			}
			for _, arc := range src.Out(u) {
				nd := d + arc.Length
				fw.relax(u, arc.To, nd, maxDist)
				if l := nd + bw.get(arc.To); nd <= maxDist && l < best {
					best, meet = l, arc.To
				}
			}
		} else {
			u, d, ok := bw.pop()
			if !ok {
				break
			}
			for _, arc := range src.In(u) {
				nd := d + arc.Length
				bw.relax(u, arc.From, nd, maxDist)
				if l := nd + fw.get(arc.From); nd <= maxDist && l < best {
					best, meet = l, arc.From
				}
			}
		}
	}
	if math.IsInf(best, 1) || best > maxDist {
		return nil, 0, false
	}

	path := fw.chain(meet)
	back := bw.chain(meet) // to ... meet
	slices.Reverse(back)

	return append(path, back[1:]...), best, true
}

// vertexItem is a heap entry.
type vertexItem[K cmp.Ordered] struct {
	v    network.Vertex[K]
	dist float64
}

// vertexPQ is a min-heap of *vertexItem ordered by dist.
type vertexPQ[K cmp.Ordered] []*vertexItem[K]

func (pq vertexPQ[K]) Len() int           { return len(pq) }
func (pq vertexPQ[K]) Less(i, j int) bool { return pq[i].dist < pq[j].dist }
func (pq vertexPQ[K]) Swap(i, j int)      { pq[i], pq[j] = pq[j], pq[i] }
func (pq *vertexPQ[K]) Push(x any)        { *pq = append(*pq, x.(*vertexItem[K])) }
func (pq *vertexPQ[K]) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}
