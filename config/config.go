// SPDX-License-Identifier: MIT
// File: config.go
// Role: YAML configuration for the streetnet command and its translation
// into the functional options of the library packages.

// Package config loads streetnet settings from YAML. Library packages are
// configured with functional options; this package only maps a file onto
// them.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/streetnet/boundary"
	"github.com/katalvlaran/streetnet/gridindex"
	"github.com/katalvlaran/streetnet/logs"
	"github.com/katalvlaran/streetnet/netpoint"
	"github.com/katalvlaran/streetnet/network"
	"github.com/katalvlaran/streetnet/routing"
	"github.com/katalvlaran/streetnet/unify"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid value")

// Routing modes.
const (
	ModeUndirected = "undirected"
	ModeDirected   = "directed"
)

// Config is the file layout.
type Config struct {
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		File   string `yaml:"file"`
	} `yaml:"log"`
	Network struct {
		Tolerance        float64 `yaml:"tolerance"`
		DefaultDirection string  `yaml:"default_direction"`
	} `yaml:"network"`
	Index struct {
		CellSize float64 `yaml:"cell_size"`
	} `yaml:"index"`
	Snap struct {
		Radius float64 `yaml:"radius"`
	} `yaml:"snap"`
	Routing struct {
		Mode        string  `yaml:"mode"`
		Method      string  `yaml:"method"`
		MaxDistance float64 `yaml:"max_distance"` // 0 means no cap
	} `yaml:"routing"`
	Unify struct {
		Loops    string `yaml:"loops"`
		IDSuffix string `yaml:"id_suffix"`
	} `yaml:"unify"`
	Boundary struct {
		Buffer   float64 `yaml:"buffer"`
		Clip     bool    `yaml:"clip"`
		IDSuffix string  `yaml:"id_suffix"`
	} `yaml:"boundary"`
}

// Default returns the built-in settings.
func Default() Config {
	var c Config
	c.Log.Level = "info"
	c.Log.Format = logs.FormatText
	c.Network.Tolerance = network.DefaultTolerance
	c.Network.DefaultDirection = network.TwoWay.String()
	c.Index.CellSize = 100
	c.Snap.Radius = 50
	c.Routing.Mode = ModeUndirected
	c.Routing.Method = routing.Bidirectional.String()
	c.Unify.Loops = unify.DropLoops.String()
	c.Unify.IDSuffix = unify.MergeSuffix
	c.Boundary.Clip = true
	c.Boundary.IDSuffix = boundary.ClipSuffix

	return c
}

// Load reads path over Default and validates the result. An empty path
// returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML over Default and validates the result. Unknown keys are
// rejected.
func Parse(data []byte) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Validate checks every field that has a closed set of values or a range.
func (c Config) Validate() error {
	var errs []error
	bad := func(field string, v any) {
		errs = append(errs, fmt.Errorf("%w: %s=%v", ErrInvalid, field, v))
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		bad("log.level", c.Log.Level)
	}
	if c.Log.Format != "" && c.Log.Format != logs.FormatText && c.Log.Format != logs.FormatJSON {
		bad("log.format", c.Log.Format)
	}
	if !(c.Network.Tolerance > 0) {
		bad("network.tolerance", c.Network.Tolerance)
	}
	if _, err := network.ParseDirection(c.Network.DefaultDirection); err != nil {
		bad("network.default_direction", c.Network.DefaultDirection)
	}
	if !(c.Index.CellSize > 0) {
		bad("index.cell_size", c.Index.CellSize)
	}
	if c.Snap.Radius < 0 || c.Snap.Radius > c.Index.CellSize {
		bad("snap.radius", c.Snap.Radius)
	}
	if c.Routing.Mode != ModeUndirected && c.Routing.Mode != ModeDirected {
		bad("routing.mode", c.Routing.Mode)
	}
	if _, err := routing.ParseMethod(c.Routing.Method); err != nil {
		bad("routing.method", c.Routing.Method)
	}
	if c.Routing.MaxDistance < 0 {
		bad("routing.max_distance", c.Routing.MaxDistance)
	}
	if _, err := unify.ParseLoopPolicy(c.Unify.Loops); err != nil {
		bad("unify.loops", c.Unify.Loops)
	}
	if c.Unify.IDSuffix == "" {
		bad("unify.id_suffix", `""`)
	}
	if c.Boundary.Buffer < 0 {
		bad("boundary.buffer", c.Boundary.Buffer)
	}
	if c.Boundary.IDSuffix == "" {
		bad("boundary.id_suffix", `""`)
	}

	return errors.Join(errs...)
}

// InitLogging applies the log section to logs.Logger.
func (c Config) InitLogging() error {
	return logs.Init(c.Log.Level, c.Log.Format, c.Log.File, nil)
}

// GraphOptions returns the network options.
func (c Config) GraphOptions() []network.GraphOption {
	d, _ := network.ParseDirection(c.Network.DefaultDirection)

	return []network.GraphOption{network.WithTolerance(c.Network.Tolerance), network.WithDefaultDirection(d)}
}

// Directed reports whether routing honours edge directions.
func (c Config) Directed() bool { return c.Routing.Mode == ModeDirected }

// RouteOptions returns the routing options; obs may be nil.
func (c Config) RouteOptions(obs routing.RouteObserver) []routing.Option {
	m, _ := routing.ParseMethod(c.Routing.Method)
	opts := []routing.Option{routing.WithMethod(m)}
	if c.Routing.MaxDistance > 0 {
		opts = append(opts, routing.WithMaxDistance(c.Routing.MaxDistance))
	}
	if obs != nil {
		opts = append(opts, routing.WithMetrics(obs))
	}

	return opts
}

// NewIndex returns a lazy grid index over g with the configured cell size.
func (c Config) NewIndex(g *network.Graph[string], obs gridindex.BuildObserver) *gridindex.Lazy[string] {
	return gridindex.NewLazy(g, c.Index.CellSize, nil, obs)
}

// SnapOptions returns the snap options for string graphs. idx nil means a
// brute-force scan; obs may be nil.
func (c Config) SnapOptions(idx *gridindex.Lazy[string], obs netpoint.SnapObserver) []netpoint.Option {
	opts := []netpoint.Option{netpoint.WithRadius(c.Snap.Radius)}
	if idx != nil {
		opts = append(opts, netpoint.WithLazyIndex(idx))
	}
	if obs != nil {
		opts = append(opts, netpoint.WithMetrics(obs))
	}

	return opts
}

// UnifyOptions returns the unify options for string graphs.
func (c Config) UnifyOptions() []unify.Option {
	p, _ := unify.ParseLoopPolicy(c.Unify.Loops)

	return []unify.Option{
		unify.WithLoopPolicy(p),
		unify.WithIDMinter(network.SuffixMinter(c.Unify.IDSuffix)),
	}
}

// BoundaryOptions returns the boundary options for string graphs.
func (c Config) BoundaryOptions() []boundary.Option {
	return []boundary.Option{
		boundary.WithBuffer(c.Boundary.Buffer),
		boundary.WithClip(c.Boundary.Clip),
		boundary.WithIDMinter(network.SuffixMinter(c.Boundary.IDSuffix)),
	}
}
