// SPDX-License-Identifier: MIT
// File: types.go
// Role: Node, Edge, EdgeKey, Vertex, Arc, Direction, options, sentinel errors and NewGraph.
// Policy:
//   - Sentinels are plain errors.New values; context is attached with %w.
//   - Graph is the single owner of nodes and edges; accessors hand out
//     pointers that callers must treat as read-only.

package network

import (
	"cmp"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/paulmach/orb"
)

// Sentinel errors for network construction and queries.
var (
	// ErrNodeNotFound indicates an operation referenced a node that does not exist.
	ErrNodeNotFound = errors.New("network: node not found")

	// ErrNodeConflict indicates AddNode was called twice for one id with different locations.
	ErrNodeConflict = errors.New("network: node already exists at another location")

	// ErrEdgeNotFound indicates an operation referenced an edge that does not exist.
	ErrEdgeNotFound = errors.New("network: edge not found")

	// ErrDuplicateEdge indicates (neg,pos,id) or (pos,neg,id) is already present.
	ErrDuplicateEdge = errors.New("network: duplicate edge id on node pair")

	// ErrLengthMismatch indicates a supplied length disagrees with the geometry length.
	ErrLengthMismatch = errors.New("network: edge length inconsistent with geometry")

	// ErrEndpointMismatch indicates the geometry does not start/end at the node locations.
	ErrEndpointMismatch = errors.New("network: geometry endpoints do not match nodes")

	// ErrBadGeometry indicates a polyline with fewer than two vertices.
	ErrBadGeometry = errors.New("network: edge geometry needs at least two vertices")

	// ErrBadAttribute indicates a reserved attribute holds a value of the wrong kind.
	ErrBadAttribute = errors.New("network: invalid attribute value")

	// ErrMissingAttribute indicates an edge lacks an attribute required by the routing graph.
	ErrMissingAttribute = errors.New("network: missing required edge attribute")

	// ErrEmptyNetwork indicates an operation that needs at least one edge.
	ErrEmptyNetwork = errors.New("network: network has no edges")

	// ErrInvariantViolation indicates internal graph state was found inconsistent.
	ErrInvariantViolation = errors.New("network: invariant violation")

	// ErrRecordMismatch indicates a serialized record disagrees with the state it rebuilds.
	ErrRecordMismatch = errors.New("network: record does not match rebuilt state")

	// ErrSpliceClosed indicates use of a splice after Rollback.
	ErrSpliceClosed = errors.New("network: splice already rolled back")
)

// Reserved attribute keys.
const (
	// AttrDirection holds the edge's Direction; required by the routing graph.
	AttrDirection = "direction"

	// AttrRoundabout holds a bool marking edges that belong to a roundabout.
	AttrRoundabout = "roundabout"
)

// DefaultTolerance is the absolute tolerance for length and endpoint checks.
const DefaultTolerance = 1e-6

// Direction is the legal travel direction along an edge, relative to its
// negative→positive orientation.
type Direction uint8

const (
	// TwoWay allows travel in both directions.
	TwoWay Direction = iota
	// Forward allows travel from the negative to the positive node only.
	Forward
	// Backward allows travel from the positive to the negative node only.
	Backward
	// Closed allows no travel; produced when one-way restrictions contradict.
	Closed
)

var directionNames = [...]string{"two-way", "forward", "backward", "closed"}

// String returns the canonical name of d.
func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}

	return fmt.Sprintf("direction(%d)", uint8(d))
}

// AllowsForward reports whether travel negative→positive is legal.
func (d Direction) AllowsForward() bool { return d == TwoWay || d == Forward }

// AllowsBackward reports whether travel positive→negative is legal.
func (d Direction) AllowsBackward() bool { return d == TwoWay || d == Backward }

// Reverse returns the direction seen from the opposite orientation.
func (d Direction) Reverse() Direction {
	switch d {
	case Forward:
		return Backward
	case Backward:
		return Forward
	default:
		return d
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v

	return nil
}

// ParseDirection converts a Direction or one of its textual spellings.
// Accepted strings: two-way|twoway|both, forward|oneway|yes, backward|reverse|-1, closed|none.
func ParseDirection(v any) (Direction, error) {
	switch x := v.(type) {
	case Direction:
		if int(x) < len(directionNames) {
			return x, nil
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "two-way", "twoway", "both", "no":
			return TwoWay, nil
		case "forward", "oneway", "yes", "1":
			return Forward, nil
		case "backward", "reverse", "-1":
			return Backward, nil
		case "closed", "none":
			return Closed, nil
		}
	}

	return 0, fmt.Errorf("%w: %s=%v", ErrBadAttribute, AttrDirection, v)
}

// Attrs is an open attribute set attached to an edge.
type Attrs map[string]any

// Node is a graph vertex with a planar location.
type Node[K cmp.Ordered] struct {
	ID  K
	Loc orb.Point
}

// EdgeKey identifies an edge: its oriented endpoints and its per-pair id.
type EdgeKey[K cmp.Ordered] struct {
	Neg K
	Pos K
	ID  K
}

// Compare orders keys by (Neg, Pos, ID).
func (k EdgeKey[K]) Compare(o EdgeKey[K]) int {
	if c := cmp.Compare(k.Neg, o.Neg); c != 0 {
		return c
	}
	if c := cmp.Compare(k.Pos, o.Pos); c != 0 {
		return c
	}

	return cmp.Compare(k.ID, o.ID)
}

// String renders the key as "neg<->pos (id)".
func (k EdgeKey[K]) String() string {
	return fmt.Sprintf("%v<->%v (%v)", k.Neg, k.Pos, k.ID)
}

// Edge is a physical street segment. Geometry runs from the negative to the
// positive node; Length equals the geometry length within the graph tolerance.
type Edge[K cmp.Ordered] struct {
	ID       K
	Neg      K
	Pos      K
	Geometry orb.LineString
	Length   float64
	Attrs    Attrs
}

// Key returns the edge's identifying triple.
func (e *Edge[K]) Key() EdgeKey[K] {
	return EdgeKey[K]{Neg: e.Neg, Pos: e.Pos, ID: e.ID}
}

// Direction returns the edge's travel direction and whether it is set.
func (e *Edge[K]) Direction() (Direction, bool) {
	d, ok := e.Attrs[AttrDirection].(Direction)

	return d, ok
}

// Roundabout reports the roundabout flag (false when unset).
func (e *Edge[K]) Roundabout() bool {
	b, _ := e.Attrs[AttrRoundabout].(bool)

	return b
}

// Other returns the endpoint opposite to id.
func (e *Edge[K]) Other(id K) K {
	if id == e.Neg {
		return e.Pos
	}

	return e.Neg
}

// Vertex addresses a node inside adjacency structures. Real nodes have
// Splice == 0; temporary splice vertices carry Splice > 0 and a zero ID, so
// synthetic vertices live in their own namespace.
type Vertex[K cmp.Ordered] struct {
	ID     K
	Splice uint8
}

// Real returns the Vertex of the caller-visible node id.
func Real[K cmp.Ordered](id K) Vertex[K] {
	return Vertex[K]{ID: id}
}

// Temporary reports whether v is a splice vertex.
func (v Vertex[K]) Temporary() bool { return v.Splice != 0 }

// Compare orders vertices by ID, then Splice.
func (v Vertex[K]) Compare(o Vertex[K]) int {
	if c := cmp.Compare(v.ID, o.ID); c != 0 {
		return c
	}

	return cmp.Compare(v.Splice, o.Splice)
}

// String renders real vertices as their id and splice vertices as "~splice<n>".
func (v Vertex[K]) String() string {
	if v.Temporary() {
		return fmt.Sprintf("~splice%d", v.Splice)
	}

	return fmt.Sprint(v.ID)
}

// Arc is one traversable direction of an edge, or of a spliced part of one.
type Arc[K cmp.Ordered] struct {
	From   Vertex[K]
	To     Vertex[K]
	Edge   EdgeKey[K]
	Length float64

	slot arcSlot[K]
}

// arcSlot keys an arc among its parallels: the edge id, which part of a split
// edge it covers (0 whole, 1 negative side, 2 positive side) and, in the
// routing graph, whether it runs against the edge orientation.
type arcSlot[K cmp.Ordered] struct {
	id   K
	part uint8
	back bool
}

// GraphOption configures a Graph at construction.
type GraphOption func(*graphConfig)

type graphConfig struct {
	tolerance  float64
	defaultDir *Direction
}

// WithTolerance sets the absolute tolerance for length and endpoint checks.
// Panics on non-positive values.
func WithTolerance(eps float64) GraphOption {
	if eps <= 0 {
		panic("network: WithTolerance requires eps > 0")
	}

	return func(c *graphConfig) { c.tolerance = eps }
}

// WithDefaultDirection assigns d to edges added without a direction attribute.
func WithDefaultDirection(d Direction) GraphOption {
	return func(c *graphConfig) { c.defaultDir = &d }
}

// EdgeOption configures a single AddEdge call.
type EdgeOption func(*edgeConfig)

type edgeConfig struct {
	length *float64
	attrs  Attrs
}

// WithLength supplies an explicit length; it must match the geometry length.
func WithLength(l float64) EdgeOption {
	return func(c *edgeConfig) { c.length = &l }
}

// WithDirection sets the edge's travel direction.
func WithDirection(d Direction) EdgeOption {
	return func(c *edgeConfig) { c.set(AttrDirection, d) }
}

// WithRoundabout sets the roundabout flag.
func WithRoundabout(b bool) EdgeOption {
	return func(c *edgeConfig) { c.set(AttrRoundabout, b) }
}

// WithAttrs merges attrs into the edge attribute set.
func WithAttrs(attrs Attrs) EdgeOption {
	return func(c *edgeConfig) {
		for k, v := range attrs {
			c.set(k, v)
		}
	}
}

func (c *edgeConfig) set(k string, v any) {
	if c.attrs == nil {
		c.attrs = make(Attrs)
	}
	c.attrs[k] = v
}

// adjacency maps from → to → slot → arc.
type adjacency[K cmp.Ordered] map[Vertex[K]]map[Vertex[K]]map[arcSlot[K]]*Arc[K]

// Graph is an undirected street multigraph with a derived directed routing graph.
//
// mu guards every field. Splice transactions hold the write lock from
// BeginSplice until Rollback, which serializes path queries per instance.
type Graph[K cmp.Ordered] struct {
	mu sync.RWMutex

	tolerance  float64
	defaultDir *Direction

	nodes map[K]*Node[K]
	edges map[EdgeKey[K]]*Edge[K]
	adj   adjacency[K] // physical links, mirrored in both directions

	version uint64           // bumped on every structural edit
	routing *RoutingGraph[K] // cache, valid while routing.version == version
}

// NewGraph returns an empty Graph.
// Complexity: O(len(opts)).
func NewGraph[K cmp.Ordered](opts ...GraphOption) *Graph[K] {
	cfg := graphConfig{tolerance: DefaultTolerance}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Graph[K]{
		tolerance:  cfg.tolerance,
		defaultDir: cfg.defaultDir,
		nodes:      make(map[K]*Node[K]),
		edges:      make(map[EdgeKey[K]]*Edge[K]),
		adj:        make(adjacency[K]),
	}
}

// Tolerance returns the graph's length/endpoint tolerance.
func (g *Graph[K]) Tolerance() float64 {
	return g.tolerance
}

// Version returns the structural version. It changes on every edge or node
// addition/removal and on direction changes; caches keyed by it (routing
// graph, spatial index) must be rebuilt when it moves.
func (g *Graph[K]) Version() uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.version
}
