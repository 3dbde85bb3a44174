package main

import (
	"context"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/prerender/internal/errors"
	"github.com/vango-dev/prerender/pkg/metrics"
	"github.com/vango-dev/prerender/pkg/server"
)

type serveOptions struct {
	addr    string
	demo    bool
	latency time.Duration
	static  bool
	dev     bool
}

func serveCmd(configPath *string) *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the render server",
		Long: `Start the HTTP render server.

The server renders JSON tree documents posted to /render, stores
renders under /snapshots/{key} and exposes Prometheus metrics.

With --demo it also serves the colors example page at / and the
colors API at /api/colors/{id}.

Examples:
  prerender serve
  prerender serve --demo --latency=200ms
  prerender serve --config=prod.json --addr=0.0.0.0:8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *configPath, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.addr, "addr", "a", "", "Listen address (default from prerender.json)")
	cmd.Flags().BoolVar(&opts.demo, "demo", false, "Serve the colors example")
	cmd.Flags().DurationVar(&opts.latency, "latency", 50*time.Millisecond, "Simulated load latency of the demo")
	cmd.Flags().BoolVar(&opts.static, "static", false, "Render static markup without cache data")
	cmd.Flags().BoolVar(&opts.dev, "dev", false, "Enable development warnings")

	return cmd
}

// buildServer assembles the server described by the configuration file and
// the command-line overrides.
func buildServer(configPath string, opts serveOptions, reg prometheus.Registerer, gatherer prometheus.Gatherer) (*server.Server, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg.Log, os.Stderr)

	sc := serverConfig(cfg)
	if opts.addr != "" {
		sc.Address = opts.addr
	}
	if opts.static {
		sc.Static = true
	}
	if opts.dev {
		sc.DevMode = true
	}

	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	serverOpts := []server.Option{
		server.WithLogger(logger.With("component", "server")),
		server.WithStore(store),
	}
	if cfg.Metrics.Enabled {
		collector := metrics.New(
			metrics.WithNamespace(cfg.Metrics.Namespace),
			metrics.WithRegistry(reg),
		)
		serverOpts = append(serverOpts, server.WithMetrics(collector), server.WithGatherer(gatherer))
	}

	s := server.New(sc, serverOpts...)
	if opts.demo {
		server.NewDemo(opts.latency).Register(s)
	}
	logger.Info("server configured",
		"address", sc.Address,
		"snapshot_backend", cfg.Snapshot.Backend,
		"metrics", cfg.Metrics.Enabled,
		"demo", opts.demo,
	)
	return s, nil
}

func runServe(ctx context.Context, configPath string, opts serveOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := buildServer(configPath, opts, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
	if err != nil {
		return err
	}
	if err := s.Run(ctx); err != nil {
		return errors.New(errors.CodeServerFailed).Wrap(err)
	}
	return nil
}
