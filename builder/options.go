// SPDX-License-Identifier: MIT
// Package: streetnet/builder
//
// options.go - functional options for the builder package.
//
// Contract:
//   • Option constructors VALIDATE and PANIC on meaningless inputs.
//     Constructors themselves never panic.
//   • Determinism is explicit: randomness only through WithSeed or WithRand.

package builder

import (
	"math/rand"

	"github.com/paulmach/orb"

	"github.com/katalvlaran/streetnet/network"
)

// BuilderOption customizes constructors by mutating a builderConfig.
type BuilderOption func(*builderConfig)

// WithIDScheme sets the node ID generator: idx -> string. Panics on nil.
func WithIDScheme(fn func(int) string) BuilderOption {
	if fn == nil {
		panic("builder: WithIDScheme(nil)")
	}
	return func(c *builderConfig) { c.idFn = fn }
}

// WithRand provides an explicit RNG for stochastic options. Panics on nil.
func WithRand(r *rand.Rand) BuilderOption {
	if r == nil {
		panic("builder: WithRand(nil)")
	}
	return func(c *builderConfig) { c.rng = r }
}

// WithSeed creates a new *rand.Rand with the given seed.
func WithSeed(seed int64) BuilderOption {
	return func(c *builderConfig) { c.rng = rand.New(rand.NewSource(seed)) }
}

// WithSpacing sets the distance between neighbouring nodes. Panics if s <= 0.
func WithSpacing(s float64) BuilderOption {
	if !(s > 0) {
		panic("builder: WithSpacing(s<=0)")
	}
	return func(c *builderConfig) { c.spacing = s }
}

// WithOrigin shifts every generated location by p.
func WithOrigin(p orb.Point) BuilderOption {
	return func(c *builderConfig) { c.origin = p }
}

// WithDirection sets the travel direction of every generated edge.
func WithDirection(d network.Direction) BuilderOption {
	return func(c *builderConfig) { c.direction = d }
}

// WithOneWayProbability makes each edge one-way with probability p (either
// orientation, equally likely). Needs WithSeed/WithRand. Panics outside [0,1].
func WithOneWayProbability(p float64) BuilderOption {
	if p < 0 || p > 1 {
		panic("builder: WithOneWayProbability(p∉[0,1])")
	}
	return func(c *builderConfig) { c.oneWayP = p }
}

// WithBend bends every edge: its midpoint is pushed sideways by
// bend*spacing. Panics if |bend| > 1.
func WithBend(bend float64) BuilderOption {
	if bend < -1 || bend > 1 {
		panic("builder: WithBend(|bend|>1)")
	}
	return func(c *builderConfig) { c.bend = bend }
}
