// SPDX-License-Identifier: MIT

package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/streetnet/config"
	"github.com/katalvlaran/streetnet/logs"
	"github.com/katalvlaran/streetnet/metrics"
)

// app is the state shared by every subcommand of one invocation.
type app struct {
	configPath  string
	logLevel    string
	metricsFile string

	cfg      config.Config
	registry *prometheus.Registry
	metrics  *metrics.Collector
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "streetnet",
		Short:         "Planar street network toolkit",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return a.flushMetrics()
		},
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	pf.StringVar(&a.logLevel, "log-level", "", "override log.level")
	pf.StringVar(&a.metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")

	root.AddCommand(
		a.generateCmd(),
		a.infoCmd(),
		a.snapCmd(),
		a.routeCmd(),
		a.unifyCmd(),
		a.clipCmd(),
		a.labelCmd(),
		a.exportCmd(),
	)

	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg
	if err := logs.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.File, cmd.ErrOrStderr()); err != nil {
		return err
	}

	a.registry = prometheus.NewRegistry()
	a.metrics, err = metrics.New(a.registry)

	return err
}

func (a *app) flushMetrics() error {
	if a.metricsFile == "" {
		return nil
	}

	return prometheus.WriteToTextfile(a.metricsFile, a.registry)
}
