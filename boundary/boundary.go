// SPDX-License-Identifier: MIT
// File: boundary.go
// Role: extract the part of a network lying inside a (buffered) polygon.
//
// Per edge:
//   - both end nodes inside: copied verbatim;
//   - otherwise, if the geometry reaches the region: copied whole when
//     clipping is off, else cut to the region. Every end lying outside is
//     replaced by a fresh boundary node at the cut, named by the id minter.
//     A cut that leaves several pieces keeps the whole edge instead;
//   - otherwise dropped.
//
// The result is a new, independent Graph; the input is not modified.

package boundary

import (
	"cmp"
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/streetnet/geometry"
	"github.com/katalvlaran/streetnet/logs"
	"github.com/katalvlaran/streetnet/network"
)

// ClipSuffix is appended to the id of a node replaced by a boundary node
// when the graph uses string ids and no minter is configured.
const ClipSuffix = "_clip"

var (
	// ErrMinterType indicates WithIDMinter was given a minter for another id type.
	ErrMinterType = errors.New("boundary: id minter does not match the graph id type")

	// ErrNoMinter indicates a clip needs a boundary node id but the graph's
	// id type has no default minter.
	ErrNoMinter = errors.New("boundary: no id minter for boundary nodes")
)

// Option configures Within.
type Option func(*options)

type options struct {
	buffer float64
	clip   bool
	minter any
	logger *logrus.Logger
}

// WithBuffer grows the polygon by d before testing (default 0).
func WithBuffer(d float64) Option {
	return func(o *options) { o.buffer = d }
}

// WithClip turns clipping of crossing edges on (default) or off.
func WithClip(clip bool) Option {
	return func(o *options) { o.clip = clip }
}

// WithIDMinter names boundary nodes. String graphs default to
// network.SuffixMinter(ClipSuffix).
func WithIDMinter[K cmp.Ordered](m network.IDMinter[K]) Option {
	return func(o *options) { o.minter = m }
}

// WithLogger overrides logs.Logger.
func WithLogger(l *logrus.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Report summarizes one Within run.
type Report struct {
	Kept     int // edges copied verbatim, both ends inside
	Clipped  int // edges cut to the region
	Whole    int // crossing edges copied uncut (clip off, or several pieces)
	Dropped  int // edges not reaching the region
	Boundary int // boundary nodes created
}

// Within returns the sub-network of g inside poly. A region containing no
// edge yields an empty graph, not an error.
//
// Complexity: O(E·n·m) for edges of n vertices against a polygon of m vertices.
func Within[K cmp.Ordered](g *network.Graph[K], poly orb.Polygon, opts ...Option) (*network.Graph[K], Report, error) {
	o := options{clip: true, logger: logs.Logger}
	for _, opt := range opts {
		opt(&o)
	}
	minter, err := resolveMinter[K](o.minter)
	if err != nil {
		return nil, Report{}, err
	}

	region := geometry.NewRegion(poly, o.buffer)
	out := network.NewGraph[K](network.WithTolerance(g.Tolerance()))
	taken := func(id K) bool { return g.HasNode(id) || out.HasNode(id) }
	var rep Report

	for _, e := range g.Edges() {
		a, err := g.Node(e.Neg)
		if err != nil {
			return nil, rep, err
		}
		b, err := g.Node(e.Pos)
		if err != nil {
			return nil, rep, err
		}
		inNeg, inPos := region.Contains(a.Loc), region.Contains(b.Loc)

		switch {
		case inNeg && inPos:
			rep.Kept++
		case !region.IntersectsLine(e.Geometry):
			rep.Dropped++
			continue
		case !o.clip:
			rep.Whole++
		default:
			parts := region.Clip(e.Geometry)
			if len(parts) == 0 {
				rep.Dropped++
				continue
			}
			if len(parts) > 1 {
				rep.Whole++
				break
			}
			if minter == nil {
				return nil, rep, fmt.Errorf("%w: edge %v", ErrNoMinter, e.Key())
			}
			n, err := clipEdge(out, e, parts[0], a.Loc, b.Loc, inNeg, inPos, minter, taken)
			if err != nil {
				return nil, rep, err
			}
			rep.Clipped++
			rep.Boundary += n
			continue
		}

		if err := copyEdge(out, e, a.Loc, b.Loc); err != nil {
			return nil, rep, err
		}
	}

	o.logger.WithFields(logrus.Fields{
		"kept":     rep.Kept,
		"clipped":  rep.Clipped,
		"whole":    rep.Whole,
		"dropped":  rep.Dropped,
		"boundary": rep.Boundary,
	}).Info("boundary extracted")

	return out, rep, nil
}

func resolveMinter[K cmp.Ordered](m any) (network.IDMinter[K], error) {
	if m == nil {
		def, _ := any(network.SuffixMinter(ClipSuffix)).(network.IDMinter[K])
		return def, nil
	}
	minter, ok := m.(network.IDMinter[K])
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrMinterType, m)
	}

	return minter, nil
}

func copyEdge[K cmp.Ordered](out *network.Graph[K], e *network.Edge[K], a, b orb.Point) error {
	if err := out.AddNode(e.Neg, a); err != nil {
		return err
	}
	if err := out.AddNode(e.Pos, b); err != nil {
		return err
	}
	_, err := out.AddEdge(e.Neg, e.Pos, e.ID, e.Geometry, network.WithLength(e.Length), network.WithAttrs(e.Attrs))

	return err
}

// clipEdge adds the single piece of e inside the region, replacing each
// outside end by a minted boundary node. Returns the number of nodes minted.
func clipEdge[K cmp.Ordered](out *network.Graph[K], e *network.Edge[K], part orb.LineString, a, b orb.Point, inNeg, inPos bool, minter network.IDMinter[K], taken func(K) bool) (int, error) {
	var minted int
	end := func(id K, in bool, loc orb.Point) (K, error) {
		if !in {
			var err error
			if id, err = network.Mint(minter, id, taken); err != nil {
				return id, fmt.Errorf("boundary node for edge %v: %w", e.Key(), err)
			}
			minted++
		}

		return id, out.AddNode(id, loc)
	}

	if inNeg {
		part[0] = a
	}
	if inPos {
		part[len(part)-1] = b
	}
	neg, err := end(e.Neg, inNeg, part[0])
	if err != nil {
		return minted, err
	}
	pos, err := end(e.Pos, inPos, part[len(part)-1])
	if err != nil {
		return minted, err
	}
	if _, err = out.AddEdge(neg, pos, e.ID, part, network.WithAttrs(e.Attrs)); err != nil {
		return minted, err
	}

	return minted, nil
}
