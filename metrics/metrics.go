// SPDX-License-Identifier: MIT
// File: metrics.go
// Role: Prometheus collector for index builds, snaps and route queries.

// Package metrics exports streetnet activity to Prometheus. A Collector
// satisfies gridindex.BuildObserver, netpoint.SnapObserver and
// routing.RouteObserver, so it can be passed straight to the WithMetrics
// options of those packages.
package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metric names.
const (
	MetricIndexBuilds       = "streetnet_index_builds_total"
	MetricIndexBuildSeconds = "streetnet_index_build_duration_seconds"
	MetricIndexCells        = "streetnet_index_cells"
	MetricIndexEdges        = "streetnet_index_edges"
	MetricSnaps             = "streetnet_snaps_total"
	MetricSnapDistance      = "streetnet_snap_distance"
	MetricRoutes            = "streetnet_routes_total"
	MetricRouteSeconds      = "streetnet_route_duration_seconds"
)

// Collector bundles the streetnet metrics. A nil *Collector ignores every
// observation.
type Collector struct {
	gatherer prometheus.Gatherer

	IndexBuilds       prometheus.Counter
	IndexBuildSeconds prometheus.Histogram
	IndexCells        prometheus.Gauge
	IndexEdges        prometheus.Gauge

	Snaps        *prometheus.CounterVec
	SnapDistance prometheus.Histogram

	Routes       *prometheus.CounterVec
	RouteSeconds *prometheus.HistogramVec
}

// New registers the metrics against reg, defaulting to the global registry
// when nil. Registering twice on one registry reuses the existing collectors.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}
	c := &Collector{gatherer: gatherer}

	var err error
	if c.IndexBuilds, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: MetricIndexBuilds,
		Help: "Number of grid index builds.",
	}), MetricIndexBuilds); err != nil {
		return nil, err
	}
	if c.IndexBuildSeconds, err = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    MetricIndexBuildSeconds,
		Help:    "Grid index build latency in seconds.",
		Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
	}), MetricIndexBuildSeconds); err != nil {
		return nil, err
	}
	if c.IndexCells, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: MetricIndexCells,
		Help: "Occupied cells of the latest grid index.",
	}), MetricIndexCells); err != nil {
		return nil, err
	}
	if c.IndexEdges, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: MetricIndexEdges,
		Help: "Edges registered in the latest grid index.",
	}), MetricIndexEdges); err != nil {
		return nil, err
	}
	if c.Snaps, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: MetricSnaps,
		Help: "Point snaps, labeled by whether an edge was found.",
	}, []string{"found"}), MetricSnaps); err != nil {
		return nil, err
	}
	if c.SnapDistance, err = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    MetricSnapDistance,
		Help:    "Distance from a snapped point to its edge, in network units.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	}), MetricSnapDistance); err != nil {
		return nil, err
	}
	if c.Routes, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: MetricRoutes,
		Help: "Route queries, labeled by mode and whether a path was found.",
	}, []string{"mode", "found"}), MetricRoutes); err != nil {
		return nil, err
	}
	if c.RouteSeconds, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    MetricRouteSeconds,
		Help:    "Route query latency in seconds.",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"mode"}), MetricRouteSeconds); err != nil {
		return nil, err
	}

	return c, nil
}

// ObserveIndexBuild records one grid index build.
func (c *Collector) ObserveIndexBuild(cells, edges int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.IndexBuilds.Inc()
	c.IndexBuildSeconds.Observe(elapsed.Seconds())
	c.IndexCells.Set(float64(cells))
	c.IndexEdges.Set(float64(edges))
}

// ObserveSnap records one snap; distance is only observed on a hit.
func (c *Collector) ObserveSnap(found bool, distance float64) {
	if c == nil {
		return
	}
	c.Snaps.WithLabelValues(strconv.FormatBool(found)).Inc()
	if found {
		c.SnapDistance.Observe(distance)
	}
}

// ObserveRoute records one route query.
func (c *Collector) ObserveRoute(mode string, found bool, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.Routes.WithLabelValues(mode, strconv.FormatBool(found)).Inc()
	c.RouteSeconds.WithLabelValues(mode).Observe(elapsed.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}

	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// register adds col to reg, returning the already registered collector of
// the same type when there is one.
func register[T prometheus.Collector](reg prometheus.Registerer, col T, name string) (T, error) {
	if err := reg.Register(col); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return col, err
		}
		existing, ok := are.ExistingCollector.(T)
		if !ok {
			return col, fmt.Errorf("metrics: %s already registered with incompatible type", name)
		}
		return existing, nil
	}

	return col, nil
}
