package server

import (
	"time"

	"github.com/vango-dev/prerender/pkg/cache"
)

// ServerConfig holds configuration for the HTTP server.
type ServerConfig struct {
	// Address is the listen address.
	// Default: ":3000".
	Address string

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 10 seconds.
	ShutdownTimeout time.Duration

	// ReadHeaderTimeout is the time allowed to read request headers.
	// Default: 5 seconds.
	ReadHeaderTimeout time.Duration

	// MaxBodyBytes caps request bodies of tree documents.
	// Default: 1MB.
	MaxBodyBytes int64

	// ClientScript is loaded after the rendered markup of every page.
	// Default: "/main.js". Empty after construction disables it.
	ClientScript string

	// Title is the document title of rendered pages.
	Title string

	// Static renders pages without hydration markers or cache data.
	Static bool

	// MaxWait bounds how long a render waits on suspended data outside a
	// Suspense boundary. Zero waits until the request is cancelled.
	MaxWait time.Duration

	// FrameBudget is how long the engine works before yielding. Zero uses
	// the adapter default.
	FrameBudget time.Duration

	// DevMode enables development warnings during renders.
	DevMode bool

	// Embed names the cache data script element and global.
	Embed cache.EmbedOptions

	// MetricsPath is where the Prometheus handler is mounted when a
	// gatherer is configured.
	// Default: "/metrics".
	MetricsPath string
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Address:           ":3000",
		ShutdownTimeout:   10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxBodyBytes:      1 << 20,
		ClientScript:      "/main.js",
		MaxWait:           5 * time.Second,
		MetricsPath:       "/metrics",
	}
}

// Clone returns a copy of the ServerConfig.
func (c *ServerConfig) Clone() *ServerConfig {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

// WithAddress returns a copy of the config with the listen address set.
func (c *ServerConfig) WithAddress(addr string) *ServerConfig {
	clone := c.Clone()
	clone.Address = addr
	return clone
}

// WithStatic returns a copy of the config rendering static markup.
func (c *ServerConfig) WithStatic() *ServerConfig {
	clone := c.Clone()
	clone.Static = true
	return clone
}

// WithDevMode returns a copy of the config with development warnings on.
func (c *ServerConfig) WithDevMode() *ServerConfig {
	clone := c.Clone()
	clone.DevMode = true
	return clone
}

// fillDefaults sets unset fields from DefaultServerConfig. Fields whose
// zero value is meaningful are left alone.
func (c *ServerConfig) fillDefaults() {
	defaults := DefaultServerConfig()
	if c.Address == "" {
		c.Address = defaults.Address
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if c.ReadHeaderTimeout == 0 {
		c.ReadHeaderTimeout = defaults.ReadHeaderTimeout
	}
	if c.MaxBodyBytes == 0 {
		c.MaxBodyBytes = defaults.MaxBodyBytes
	}
	if c.MetricsPath == "" {
		c.MetricsPath = defaults.MetricsPath
	}
}
