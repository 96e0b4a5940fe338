// SPDX-License-Identifier: MIT
// File: label.go
// Role: tag edges of a network by their relation to a polygon.

package boundary

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/paulmach/orb"

	"github.com/katalvlaran/streetnet/geometry"
	"github.com/katalvlaran/streetnet/network"
)

// LabelMethod selects the predicate Label writes.
type LabelMethod uint8

const (
	// LabelWithin marks edges lying entirely inside the region.
	LabelWithin LabelMethod = iota
	// LabelIntersects marks edges reaching the region at all.
	LabelIntersects
)

var (
	// ErrUnknownLabelMethod indicates an unrecognized label method name.
	ErrUnknownLabelMethod = errors.New("boundary: unknown label method")

	// ErrReservedAttr indicates Label was asked to overwrite a reserved attribute.
	ErrReservedAttr = errors.New("boundary: attribute name is reserved")
)

// String returns "within" or "intersects".
func (m LabelMethod) String() string {
	if m == LabelIntersects {
		return "intersects"
	}

	return "within"
}

// ParseLabelMethod accepts the names produced by String.
func ParseLabelMethod(s string) (LabelMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "within", "":
		return LabelWithin, nil
	case "intersects":
		return LabelIntersects, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownLabelMethod, s)
}

// Label sets the bool attribute name on every edge of g to whether the edge
// satisfies method against poly (grown by WithBuffer). Only WithBuffer is
// consulted among opts. Returns the number of edges labelled true.
//
// An edge is within when the region clips it to a single piece as long as
// the edge itself.
func Label[K cmp.Ordered](g *network.Graph[K], poly orb.Polygon, name string, method LabelMethod, opts ...Option) (int, error) {
	if name == network.AttrDirection || name == network.AttrRoundabout {
		return 0, fmt.Errorf("%w: %q", ErrReservedAttr, name)
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	region := geometry.NewRegion(poly, o.buffer)

	var hits int
	for _, e := range g.Edges() {
		var v bool
		switch method {
		case LabelIntersects:
			v = region.IntersectsLine(e.Geometry)
		default:
			v = within(region, e.Geometry, g.Tolerance())
		}
		if v {
			hits++
		}
		if err := g.SetAttr(e.Key(), name, v); err != nil {
			return hits, err
		}
	}

	return hits, nil
}

func within(r geometry.Region, ls orb.LineString, eps float64) bool {
	if !r.Contains(ls[0]) || !r.Contains(ls[len(ls)-1]) {
		return false
	}
	parts := r.Clip(ls)

	return len(parts) == 1 && math.Abs(geometry.Length(parts[0])-geometry.Length(ls)) <= eps
}
