// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/katalvlaran/streetnet/network"
)

// readNetwork loads a JSON network.Record.
func readNetwork(path string) (*network.Graph[string], *network.Record[string], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	var rec network.Record[string]
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	g, err := network.FromRecord(rec)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	return g, &rec, nil
}

// writeNetwork stores g as an indented JSON network.Record.
func writeNetwork(path string, g *network.Graph[string], index *network.IndexRecord) error {
	rec := g.Record()
	rec.Index = index

	return writeJSON(path, rec)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// readPolygon returns the first polygon of a GeoJSON file holding a
// FeatureCollection, a Feature or a bare geometry.
func readPolygon(path string) (orb.Polygon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var geoms []orb.Geometry
	switch probe.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		for _, f := range fc.Features {
			geoms = append(geoms, f.Geometry)
		}
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		geoms = append(geoms, f.Geometry)
	default:
		gj, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		geoms = append(geoms, gj.Geometry())
	}

	for _, g := range geoms {
		switch p := g.(type) {
		case orb.Polygon:
			return p, nil
		case orb.MultiPolygon:
			if len(p) > 0 {
				return p[0], nil
			}
		}
	}

	return nil, fmt.Errorf("%s: no polygon found", path)
}
