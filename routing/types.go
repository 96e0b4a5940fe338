// Types and options shared by Undirected, Directed, Length and Finder.

package routing

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// Sentinel errors returned by the routing package. Broken graph state is
// reported with network.ErrInvariantViolation.
var (
	// ErrUnknownMethod indicates a search method name that is not recognised.
	ErrUnknownMethod = errors.New("routing: unknown search method")

	// ErrBadMaxDistance indicates a negative search cap.
	ErrBadMaxDistance = errors.New("routing: MaxDistance must be non-negative")
)

// Method selects the shortest-path search. Both methods return the same
// length; they may pick different routes among equally short ones.
type Method uint8

const (
	// Bidirectional grows one search from each end and stops when they meet.
	Bidirectional Method = iota
	// SingleSource runs one Dijkstra search from the origin to the target.
	SingleSource
)

var methodNames = [...]string{"bidirectional", "single_source"}

// String implements fmt.Stringer.
func (m Method) String() string {
	if int(m) < len(methodNames) {
		return methodNames[m]
	}

	return fmt.Sprintf("Method(%d)", uint8(m))
}

// ParseMethod accepts "bidirectional" and "single_source" (or "single-source").
func ParseMethod(s string) (Method, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_") {
	case "", "bidirectional":
		return Bidirectional, nil
	case "single_source":
		return SingleSource, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

// RouteObserver receives one call per routing query.
type RouteObserver interface {
	ObserveRoute(mode string, found bool, elapsed time.Duration)
}

// Options configures a routing query.
//
// Method      – search method, Bidirectional by default.
// MaxDistance – searches stop beyond this length and report no path.
//
//	Must be ≥ 0. Default is +Inf (no cap).
type Options struct {
	Method      Method
	MaxDistance float64
	Observer    RouteObserver
}

// Option represents a functional option for a routing query.
type Option func(*Options)

// DefaultOptions returns the defaults: bidirectional, uncapped.
func DefaultOptions() Options {
	return Options{Method: Bidirectional, MaxDistance: math.Inf(1)}
}

// WithMethod selects the search method.
func WithMethod(m Method) Option {
	return func(o *Options) { o.Method = m }
}

// WithMaxDistance caps the search length.
func WithMaxDistance(d float64) Option {
	return func(o *Options) { o.MaxDistance = d }
}

// WithMetrics reports every query to obs.
func WithMetrics(obs RouteObserver) Option {
	return func(o *Options) { o.Observer = obs }
}

func resolve(opts []Option) (Options, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.MaxDistance < 0 || math.IsNaN(cfg.MaxDistance) {
		return cfg, fmt.Errorf("%w: %g", ErrBadMaxDistance, cfg.MaxDistance)
	}
	if cfg.Method > SingleSource {
		return cfg, fmt.Errorf("%w: %v", ErrUnknownMethod, cfg.Method)
	}

	return cfg, nil
}
