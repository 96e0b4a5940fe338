// SPDX-License-Identifier: MIT
// Package: streetnet/builder
//
// api.go - public entry point for the builder package.
//
// Design contract:
//   - One orchestrator: BuildNetwork(gopts, bopts, cons...). Creates g, resolves cfg, runs cons in order.
//   - Constructors are implemented in impl_*.go.
//   - Functional options (BuilderOption) resolve into an immutable builderConfig (no global state).
//   - Determinism: same inputs/options/seed and constructor order ⇒ identical networks.

package builder

import (
	"fmt"

	"github.com/katalvlaran/streetnet/network"
)

// Constructor adds a deterministic piece of street network to g using the
// resolved builderConfig. Constructors validate parameters early and return
// sentinel errors; they never panic.
type Constructor func(g *network.Graph[string], cfg builderConfig) error

// BuildNetwork creates a network.Graph with options gopts, resolves the
// builder configuration from bopts, and applies all constructors in order.
// Any constructor error is wrapped with "BuildNetwork: %w" and returned
// immediately.
//
// Complexity: O(len(bopts)) + Σ cost of constructors.
func BuildNetwork(gopts []network.GraphOption, bopts []BuilderOption, cons ...Constructor) (*network.Graph[string], error) {
	g := network.NewGraph[string](gopts...)
	cfg := newBuilderConfig(bopts...)

	for i, fn := range cons {
		if fn == nil {
			return nil, fmt.Errorf("BuildNetwork: nil constructor at index %d: %w", i, ErrConstructFailed)
		}
		if err := fn(g, cfg); err != nil {
			return nil, fmt.Errorf("BuildNetwork: %w", err)
		}
	}

	return g, nil
}

// Apply runs cons against an existing graph.
func Apply(g *network.Graph[string], bopts []BuilderOption, cons ...Constructor) error {
	if g == nil {
		return fmt.Errorf("Apply: nil graph: %w", ErrConstructFailed)
	}
	cfg := newBuilderConfig(bopts...)
	for i, fn := range cons {
		if fn == nil {
			return fmt.Errorf("Apply: nil constructor at index %d: %w", i, ErrConstructFailed)
		}
		if err := fn(g, cfg); err != nil {
			return fmt.Errorf("Apply: %w", err)
		}
	}

	return nil
}
