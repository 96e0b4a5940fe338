// SPDX-License-Identifier: MIT
// Package: streetnet/builder
//
// config.go - internal configuration and deterministic defaults.
//
// Deterministic defaults:
//   • idFn      = DefaultIDFn        ("0","1","2",...)
//   • rng       = nil                (no randomness unless seeded)
//   • spacing   = 10                 (distance between neighbouring nodes)
//   • origin    = (0,0)
//   • direction = network.TwoWay
//   • oneWayP   = 0                  (no random one-way edges)
//   • bend      = 0                  (straight edges)

package builder

import (
	"math/rand"

	"github.com/paulmach/orb"

	"github.com/katalvlaran/streetnet/network"
)

// builderConfig aggregates all knobs used by constructors.
// It is passed by VALUE to constructors.
type builderConfig struct {
	idFn    func(int) string
	rng     *rand.Rand
	spacing float64
	origin  orb.Point

	// direction applied to every edge unless oneWayP draws a one-way.
	direction network.Direction
	oneWayP   float64

	// bend offsets each edge's midpoint sideways by bend*spacing, giving
	// three-vertex polylines instead of straight segments.
	bend float64
}

const (
	defaultSpacing = 10.0
)

// newBuilderConfig applies all options in order (last wins).
// Complexity: O(len(opts)).
func newBuilderConfig(opts ...BuilderOption) builderConfig {
	cfg := builderConfig{
		idFn:      DefaultIDFn,
		spacing:   defaultSpacing,
		direction: network.TwoWay,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}
