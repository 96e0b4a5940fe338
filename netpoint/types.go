// SPDX-License-Identifier: MIT
// File: types.go
// Role: sentinel errors and observer hooks for netpoint.

package netpoint

import "errors"

var (
	// ErrDistanceMismatch indicates node distances that do not sum to the edge length.
	ErrDistanceMismatch = errors.New("netpoint: node distances do not sum to edge length")

	// ErrOutOfRange indicates a negative distance or one beyond the edge length.
	ErrOutOfRange = errors.New("netpoint: distance outside edge")

	// ErrNotEndpoint indicates a node that is not an end of the location's edge.
	ErrNotEndpoint = errors.New("netpoint: node is not an endpoint of the edge")

	// ErrPathMismatch indicates path lists of inconsistent lengths.
	ErrPathMismatch = errors.New("netpoint: inconsistent path lists")

	// ErrIndexType indicates an index whose key type differs from the graph's.
	ErrIndexType = errors.New("netpoint: index key type does not match graph")
)

// SnapObserver receives one call per Snap/SnapN.
type SnapObserver interface {
	ObserveSnap(found bool, distance float64)
}
