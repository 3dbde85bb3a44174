package config

import (
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/vango-dev/prerender/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "prerender.json"

	// DefaultPort is the default HTTP port.
	DefaultPort = 3000

	// DefaultHost is the default bind address.
	DefaultHost = "localhost"

	// DefaultMaxWait is the default time a render waits on suspended data.
	DefaultMaxWait = "5s"

	// DefaultShutdownTimeout bounds graceful shutdown of the server.
	DefaultShutdownTimeout = "10s"

	// DefaultMetricsPath is where Prometheus scrapes metrics.
	DefaultMetricsPath = "/metrics"

	// DefaultSnapshotDir is the directory of the file snapshot backend.
	DefaultSnapshotDir = ".prerender/snapshots"
)

// Snapshot backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendS3     = "s3"
)

// Config represents the prerender.json configuration file.
type Config struct {
	// Server configures the HTTP server.
	Server ServerConfig `json:"server"`

	// Render configures every render.
	Render RenderConfig `json:"render"`

	// Snapshot selects where stored renders are kept.
	Snapshot SnapshotConfig `json:"snapshot"`

	// Metrics configures the Prometheus endpoint.
	Metrics MetricsConfig `json:"metrics"`

	// Log configures the default logger.
	Log LogConfig `json:"log"`

	// configPath is the path to the loaded config file.
	configPath string
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host string `json:"host,omitempty"`
	Port int    `json:"port,omitempty"`

	// ShutdownTimeout bounds graceful shutdown, as a Go duration string.
	ShutdownTimeout string `json:"shutdownTimeout,omitempty"`

	// ClientScript is the script loaded after the rendered markup.
	ClientScript string `json:"clientScript,omitempty"`

	// Title is the document title of rendered pages.
	Title string `json:"title,omitempty"`
}

// RenderConfig configures renders.
type RenderConfig struct {
	// Static renders plain markup without hydration markers or cache data.
	Static bool `json:"static,omitempty"`

	// MaxWait bounds waiting on suspended data, as a Go duration string.
	// "0" waits until the request is cancelled.
	MaxWait string `json:"maxWait,omitempty"`

	// FrameBudget is how long the engine works before yielding.
	FrameBudget string `json:"frameBudget,omitempty"`

	// Dev enables development warnings.
	Dev bool `json:"dev,omitempty"`

	// DataGlobal is the window property assigned the cache data.
	DataGlobal string `json:"dataGlobal,omitempty"`

	// ContainerID is the id of the cache data script element.
	ContainerID string `json:"containerID,omitempty"`
}

// SnapshotConfig selects the snapshot store.
type SnapshotConfig struct {
	// Backend is memory, file or s3.
	Backend string `json:"backend,omitempty"`

	// Dir is the file backend's directory, relative to the config file.
	Dir string `json:"dir,omitempty"`

	Bucket   string `json:"bucket,omitempty"`
	Prefix   string `json:"prefix,omitempty"`
	Region   string `json:"region,omitempty"`
	Endpoint string `json:"endpoint,omitempty"`
}

// MetricsConfig configures the metrics endpoint.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled"`
	Namespace string `json:"namespace,omitempty"`
	Path      string `json:"path,omitempty"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `json:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			ShutdownTimeout: DefaultShutdownTimeout,
			ClientScript:    "/main.js",
		},
		Render: RenderConfig{
			MaxWait: DefaultMaxWait,
		},
		Snapshot: SnapshotConfig{
			Backend: BackendMemory,
			Dir:     DefaultSnapshotDir,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "prerender",
			Path:      DefaultMetricsPath,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from prerender.json in the given directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile loads configuration from a specific file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeConfigNotFound).
				WithDetail("No " + ConfigFileName + " found at " + path)
		}
		return nil, errors.New(errors.CodeConfigInvalid).Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		ce := errors.New(errors.CodeConfigInvalid).
			WithSuggestion("Check that " + filepath.Base(path) + " is valid JSON").
			Wrap(err)
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case stderrors.As(err, &syntaxErr):
			ce.WithOffset(path, data, syntaxErr.Offset)
		case stderrors.As(err, &typeErr):
			ce.WithOffset(path, data, typeErr.Offset)
		}
		return nil, ce
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// LoadOrDefault loads path, or prerender.json in the working directory
// when path is empty. A missing default file yields New().
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		return LoadFile(path)
	}
	if !Exists(".") {
		return New(), nil
	}
	return Load(".")
}

// Save writes the configuration back to its file.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to a specific path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New(errors.CodeConfigInvalid).Wrap(err)
	}

	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(errors.CodeConfigInvalid).Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path to the config file.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in values a file left empty.
func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Render.MaxWait == "" {
		c.Render.MaxWait = DefaultMaxWait
	}
	if c.Snapshot.Backend == "" {
		c.Snapshot.Backend = BackendMemory
	}
	if c.Snapshot.Dir == "" {
		c.Snapshot.Dir = DefaultSnapshotDir
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	invalid := func(detail string) error {
		return errors.New(errors.CodeConfigInvalid).WithDetail(detail)
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return invalid("server.port must be between 0 and 65535")
	}
	for name, value := range map[string]string{
		"server.shutdownTimeout": c.Server.ShutdownTimeout,
		"render.maxWait":         c.Render.MaxWait,
		"render.frameBudget":     c.Render.FrameBudget,
	} {
		if _, err := parseDuration(value); err != nil {
			return invalid(name + " must be a duration such as \"2s\" or \"500ms\", got " + strconv.Quote(value))
		}
	}

	switch c.Snapshot.Backend {
	case BackendMemory, BackendFile:
	case BackendS3:
		if c.Snapshot.Bucket == "" {
			return invalid("snapshot.bucket is required for the s3 backend")
		}
	default:
		return invalid("snapshot.backend must be memory, file or s3, got " + strconv.Quote(c.Snapshot.Backend))
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return invalid("log.level must be debug, info, warn or error, got " + strconv.Quote(c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return invalid("log.format must be text or json, got " + strconv.Quote(c.Log.Format))
	}
	return nil
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" || s == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, stderrors.New("negative duration")
	}
	return d, nil
}

// Address returns the server listen address.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// MaxWait returns render.maxWait. Call Validate first.
func (c *Config) MaxWait() time.Duration {
	d, _ := parseDuration(c.Render.MaxWait)
	return d
}

// FrameBudget returns render.frameBudget, zero meaning the engine default.
func (c *Config) FrameBudget() time.Duration {
	d, _ := parseDuration(c.Render.FrameBudget)
	return d
}

// ShutdownTimeout returns server.shutdownTimeout.
func (c *Config) ShutdownTimeout() time.Duration {
	d, _ := parseDuration(c.Server.ShutdownTimeout)
	return d
}

// SnapshotDir returns the absolute file backend directory.
func (c *Config) SnapshotDir() string {
	if filepath.IsAbs(c.Snapshot.Dir) {
		return c.Snapshot.Dir
	}
	return filepath.Join(c.Dir(), c.Snapshot.Dir)
}

// Exists checks if prerender.json exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}
