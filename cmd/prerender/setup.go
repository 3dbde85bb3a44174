package main

import (
	"io"
	"log/slog"

	"github.com/vango-dev/prerender/internal/config"
	"github.com/vango-dev/prerender/internal/errors"
	"github.com/vango-dev/prerender/pkg/cache"
	"github.com/vango-dev/prerender/pkg/server"
	"github.com/vango-dev/prerender/pkg/snapshot"
)

// loadConfig loads and validates the configuration at path, falling back
// to ./prerender.json and then to defaults.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// newLogger builds the process logger described by cfg.
func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: logLevels[cfg.Level]}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// openStore opens the snapshot store selected by cfg.Snapshot.
func openStore(cfg *config.Config) (snapshot.Store, error) {
	sc := cfg.Snapshot
	switch sc.Backend {
	case config.BackendFile:
		store, err := snapshot.NewFileStore(cfg.SnapshotDir())
		if err != nil {
			return nil, errors.New(errors.CodeSnapshotFailed).Wrap(err)
		}
		return store, nil
	case config.BackendS3:
		client := snapshot.NewS3Client(sc.Region, sc.Endpoint)
		return snapshot.NewS3Store(client, sc.Bucket, sc.Prefix), nil
	default:
		return snapshot.NewMemoryStore(), nil
	}
}

// embedOptions returns the cache data script settings of cfg.Render.
func embedOptions(cfg *config.Config) cache.EmbedOptions {
	return cache.EmbedOptions{
		Global:      cfg.Render.DataGlobal,
		ContainerID: cfg.Render.ContainerID,
	}
}

// serverConfig maps the file configuration onto the HTTP server's.
func serverConfig(cfg *config.Config) *server.ServerConfig {
	sc := server.DefaultServerConfig()
	sc.Address = cfg.Address()
	sc.ShutdownTimeout = cfg.ShutdownTimeout()
	sc.ClientScript = cfg.Server.ClientScript
	sc.Title = cfg.Server.Title
	sc.Static = cfg.Render.Static
	sc.MaxWait = cfg.MaxWait()
	sc.FrameBudget = cfg.FrameBudget()
	sc.DevMode = cfg.Render.Dev
	sc.Embed = embedOptions(cfg)
	sc.MetricsPath = cfg.Metrics.Path
	return sc
}
