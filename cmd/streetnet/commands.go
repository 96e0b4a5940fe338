// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/streetnet/boundary"
	"github.com/katalvlaran/streetnet/builder"
	"github.com/katalvlaran/streetnet/config"
	"github.com/katalvlaran/streetnet/geometry"
	"github.com/katalvlaran/streetnet/gridindex"
	"github.com/katalvlaran/streetnet/netpoint"
	"github.com/katalvlaran/streetnet/network"
	"github.com/katalvlaran/streetnet/routing"
	"github.com/katalvlaran/streetnet/unify"
)

func (a *app) generateCmd() *cobra.Command {
	var (
		rows, cols, n int
		spacing, bend float64
		oneWay        float64
		seed          int64
		ids           string
	)
	cmd := &cobra.Command{
		Use:   "generate <grid|path|ring|roundabout|star|square> <out.json>",
		Short: "Generate a synthetic street network",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var con builder.Constructor
			switch args[0] {
			case "grid":
				con = builder.Grid(rows, cols)
			case "path":
				con = builder.Path(n)
			case "ring":
				con = builder.Ring(n)
			case "roundabout":
				con = builder.Roundabout(n)
			case "star":
				con = builder.Star(n)
			case "square":
				con = builder.Square()
			default:
				return fmt.Errorf("unknown shape %q", args[0])
			}
			if spacing <= 0 || oneWay < 0 || oneWay > 1 || bend < -1 || bend > 1 {
				return fmt.Errorf("spacing must be > 0, oneway in [0,1], bend in [-1,1]")
			}
			bopts := []builder.BuilderOption{builder.WithSpacing(spacing), builder.WithSeed(seed), builder.WithBend(bend)}
			if oneWay > 0 {
				bopts = append(bopts, builder.WithOneWayProbability(oneWay))
			}
			switch ids {
			case "", "default":
			case "symbol":
				bopts = append(bopts, builder.WithSymbolIDs())
			case "excel":
				bopts = append(bopts, builder.WithExcelColumnIDs())
			default:
				bopts = append(bopts, builder.WithPrefixIDs(ids))
			}

			g, err := builder.BuildNetwork(a.cfg.GraphOptions(), bopts, con)
			if err != nil {
				return err
			}
			if err := writeNetwork(args[1], g, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d nodes, %d edges\n", g.NodeCount(), g.EdgeCount())

			return nil
		},
	}
	f := cmd.Flags()
	f.IntVar(&rows, "rows", 3, "grid rows")
	f.IntVar(&cols, "cols", 3, "grid columns")
	f.IntVar(&n, "n", 4, "vertex count for path, ring, roundabout and star")
	f.Float64Var(&spacing, "spacing", 10, "distance between neighbouring nodes")
	f.Float64Var(&bend, "bend", 0, "bow every street sideways by this share of its length")
	f.Float64Var(&oneWay, "oneway", 0, "probability that a street is one-way")
	f.Int64Var(&seed, "seed", 1, "random seed for one-way draws")
	f.StringVar(&ids, "ids", "", "node ids: default, symbol, excel or a prefix")

	return cmd
}

func (a *app) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <net.json>",
		Short: "Print network statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, rec, err := readNetwork(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			st, err := g.Stats()
			if err != nil {
				fmt.Fprintf(out, "nodes %d\nedges %d\nrouting unavailable: %v\n", g.NodeCount(), g.EdgeCount(), err)
			} else {
				fmt.Fprintf(out, "nodes %d\nedges %d\narcs %d\n", st.Nodes, st.Edges, st.RoutingArcs)
			}
			if b, err := g.Extent(); err == nil {
				fmt.Fprintf(out, "extent %g %g %g %g\n", b.Min.X(), b.Min.Y(), b.Max.X(), b.Max.Y())
			}
			if rec.Index != nil {
				fmt.Fprintf(out, "index cell %g\n", rec.Index.CellSize)
			}

			return nil
		},
	}
}

// index returns a lazy grid index for g, honouring a cell size stored in
// the record over the configured one.
func (a *app) index(g *network.Graph[string], rec *network.Record[string]) *gridindex.Lazy[string] {
	cfg := a.cfg
	if rec != nil && rec.Index != nil {
		cfg.Index.CellSize = rec.Index.CellSize
	}

	return cfg.NewIndex(g, a.metrics)
}

func (a *app) snapCmd() *cobra.Command {
	var (
		n       int
		noIndex bool
	)
	cmd := &cobra.Command{
		Use:   "snap <net.json> <x> <y>",
		Short: "Snap a point onto the nearest edges",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, rec, err := readNetwork(args[0])
			if err != nil {
				return err
			}
			xy, err := floats(args[1:])
			if err != nil {
				return err
			}
			var idx *gridindex.Lazy[string]
			if !noIndex {
				idx = a.index(g, rec)
			}
			res, err := netpoint.SnapN(g, xy[0], xy[1], n, a.cfg.SnapOptions(idx, a.metrics)...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(res) == 0 {
				fmt.Fprintln(out, "no edge within radius")
				return nil
			}
			for _, m := range res {
				fmt.Fprintf(out, "%s %.3f\n", m.Location, m.Distance)
			}

			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "n", "n", 1, "number of candidates (0 for all)")
	cmd.Flags().BoolVar(&noIndex, "no-index", false, "scan every edge instead of the grid index")

	return cmd
}

func (a *app) routeCmd() *cobra.Command {
	var (
		directed bool
		method   string
	)
	cmd := &cobra.Command{
		Use:   "route <net.json> <x1> <y1> <x2> <y2>",
		Short: "Shortest path between two points snapped onto the network",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, rec, err := readNetwork(args[0])
			if err != nil {
				return err
			}
			xy, err := floats(args[1:])
			if err != nil {
				return err
			}
			cfg := a.cfg
			if cmd.Flags().Changed("directed") {
				cfg.Routing.Mode = config.ModeUndirected
				if directed {
					cfg.Routing.Mode = config.ModeDirected
				}
			}
			if method != "" {
				cfg.Routing.Method = method
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			idx := a.index(g, rec)
			opts := cfg.SnapOptions(idx, a.metrics)
			from, ok, err := netpoint.Snap(g, xy[0], xy[1], opts...)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no edge near %g %g", xy[0], xy[1])
			}
			to, ok, err := netpoint.Snap(g, xy[2], xy[3], opts...)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no edge near %g %g", xy[2], xy[3])
			}

			f := routing.NewFinder(g, cfg.Directed(), cfg.RouteOptions(a.metrics)...)
			p, ok, err := f.Path(from.Location, to.Location)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !ok {
				fmt.Fprintln(out, "no path")
				return nil
			}
			edges := make([]string, 0, len(p.Edges()))
			for _, e := range p.Edges() {
				edges = append(edges, e.ID)
			}
			fmt.Fprintf(out, "length %.3f\nnodes %s\nedges %s\nbranching %g\n",
				p.Length(), strings.Join(p.Nodes(), " "), strings.Join(edges, " "), p.BranchProduct())

			return nil
		},
	}
	cmd.Flags().BoolVar(&directed, "directed", false, "honour one-way streets (overrides routing.mode)")
	cmd.Flags().StringVar(&method, "method", "", "bidirectional or single-source (overrides routing.method)")

	return cmd
}

func (a *app) unifyCmd() *cobra.Command {
	var loops string
	cmd := &cobra.Command{
		Use:   "unify <in.json> <out.json>",
		Short: "Merge chains of pass-through nodes into single edges",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _, err := readNetwork(args[0])
			if err != nil {
				return err
			}
			opts := a.cfg.UnifyOptions()
			if loops != "" {
				p, err := unify.ParseLoopPolicy(loops)
				if err != nil {
					return err
				}
				opts = append(opts, unify.WithLoopPolicy(p))
			}
			rep, err := unify.Segments(g, opts...)
			if err != nil {
				return err
			}
			if err := writeNetwork(args[1], g, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "chains %d, nodes removed %d, edges %d -> %d\n",
				rep.Chains, rep.NodesRemoved, g.EdgeCount()+rep.EdgesRemoved-rep.EdgesAdded, g.EdgeCount())

			return nil
		},
	}
	cmd.Flags().StringVar(&loops, "loops", "", "isolated loop policy: drop or keep (overrides unify.loops)")

	return cmd
}

func (a *app) clipCmd() *cobra.Command {
	var (
		buffer float64
		whole  bool
	)
	cmd := &cobra.Command{
		Use:   "clip <in.json> <area.geojson> <out.json>",
		Short: "Extract the part of a network inside a polygon",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _, err := readNetwork(args[0])
			if err != nil {
				return err
			}
			poly, err := readPolygon(args[1])
			if err != nil {
				return err
			}
			opts := a.cfg.BoundaryOptions()
			if cmd.Flags().Changed("buffer") {
				opts = append(opts, boundary.WithBuffer(buffer))
			}
			if whole {
				opts = append(opts, boundary.WithClip(false))
			}
			out, rep, err := boundary.Within(g, poly, opts...)
			if err != nil {
				return err
			}
			if err := writeNetwork(args[2], out, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "kept %d, clipped %d, whole %d, dropped %d, boundary nodes %d\n",
				rep.Kept, rep.Clipped, rep.Whole, rep.Dropped, rep.Boundary)

			return nil
		},
	}
	cmd.Flags().Float64Var(&buffer, "buffer", 0, "grow the polygon by this distance (overrides boundary.buffer)")
	cmd.Flags().BoolVar(&whole, "whole", false, "keep crossing edges uncut")

	return cmd
}

func (a *app) labelCmd() *cobra.Command {
	var method string
	cmd := &cobra.Command{
		Use:   "label <in.json> <area.geojson> <attr> <out.json>",
		Short: "Tag every edge with whether it lies in a polygon",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, rec, err := readNetwork(args[0])
			if err != nil {
				return err
			}
			poly, err := readPolygon(args[1])
			if err != nil {
				return err
			}
			m, err := boundary.ParseLabelMethod(method)
			if err != nil {
				return err
			}
			hits, err := boundary.Label(g, poly, args[2], m, boundary.WithBuffer(a.cfg.Boundary.Buffer))
			if err != nil {
				return err
			}
			if err := writeNetwork(args[3], g, rec.Index); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d edges %s\n", hits, g.EdgeCount(), m)

			return nil
		},
	}
	cmd.Flags().StringVar(&method, "method", "within", "within or intersects")

	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var area string
	cmd := &cobra.Command{
		Use:   "export <net.json> <out.geojson>",
		Short: "Write the network as a GeoJSON FeatureCollection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _, err := readNetwork(args[0])
			if err != nil {
				return err
			}
			fc := g.GeoJSON(nil)
			if area != "" {
				poly, err := readPolygon(area)
				if err != nil {
					return err
				}
				r := geometry.NewRegion(poly, a.cfg.Boundary.Buffer)
				fc = g.GeoJSON(&r)
			}
			data, err := fc.MarshalJSON()
			if err != nil {
				return err
			}
			if err := os.WriteFile(args[1], data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d features\n", len(fc.Features))

			return nil
		},
	}
	cmd.Flags().StringVar(&area, "area", "", "only export edges reaching this GeoJSON polygon")

	return cmd
}

func floats(args []string) ([]float64, error) {
	res := make([]float64, len(args))
	for i, s := range args {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("coordinate %q: %w", s, err)
		}
		res[i] = v
	}

	return res, nil
}
