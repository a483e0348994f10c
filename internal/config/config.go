package config

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/vango-dev/quill/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "quill.json"

	// DefaultMaxRecursion is the default per-flush job recursion limit.
	DefaultMaxRecursion = 100

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default log output format.
	DefaultLogFormat = "text"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "quill"

	// DefaultAddr is the default address for quill serve.
	DefaultAddr = "localhost:9090"
)

// Config represents the complete quill.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Scheduler contains job queue settings.
	Scheduler SchedulerConfig `json:"scheduler"`

	// Log contains logging settings.
	Log LogConfig `json:"log"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `json:"metrics"`

	// Tracing contains OpenTelemetry settings.
	Tracing TracingConfig `json:"tracing"`

	// Serve contains settings for the serve command.
	Serve ServeConfig `json:"serve"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// SchedulerConfig contains job queue settings.
type SchedulerConfig struct {
	// MaxRecursion is how many times one job may run in a single flush.
	MaxRecursion int `json:"maxRecursion,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled registers the quill collectors.
	Enabled bool `json:"enabled"`

	// Namespace prefixes every metric name.
	Namespace string `json:"namespace,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// Enabled reports flushes and job failures as spans.
	Enabled bool `json:"enabled"`

	// TracerName is the name passed to the global tracer provider.
	TracerName string `json:"tracerName,omitempty"`
}

// ServeConfig contains settings for the serve command.
type ServeConfig struct {
	// Addr is the listen address.
	Addr string `json:"addr,omitempty"`
}

// Default creates a new Config with default values.
func Default() *Config {
	return &Config{
		Scheduler: SchedulerConfig{
			MaxRecursion: DefaultMaxRecursion,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
		},
		Tracing: TracingConfig{
			TracerName: DefaultNamespace,
		},
		Serve: ServeConfig{
			Addr: DefaultAddr,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for quill.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads and validates configuration from the specified file path.
// Fields missing from the file keep their defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("Q502").
				WithDetail("No quill.json found in " + filepath.Dir(path)).
				WithSuggestion("Create quill.json or run without --config to use defaults")
		}
		return nil, errors.New("Q501").Wrap(err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		qe := errors.New("Q501").
			WithDetail("Failed to parse quill.json: " + err.Error()).
			WithSuggestion("Check that quill.json is valid JSON")
		var syntax *json.SyntaxError
		if stderrors.As(err, &syntax) {
			line, col := lineCol(data, syntax.Offset)
			qe.WithLocation(path, line, col)
		}
		return nil, qe.Wrap(err)
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("Q501").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("Q501").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
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

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Scheduler.MaxRecursion == 0 {
		c.Scheduler.MaxRecursion = DefaultMaxRecursion
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultNamespace
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = DefaultAddr
	}
}

var metricNameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Scheduler.MaxRecursion < 1 {
		return errors.New("Q501").
			WithDetail("scheduler.maxRecursion must be at least 1")
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return errors.New("Q501").
			WithDetail(err.Error()).
			WithSuggestion("Use one of debug, info, warn, error")
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("Q501").
			WithDetailf("log.format %q is not text or json", c.Log.Format)
	}
	if !metricNameRe.MatchString(c.Metrics.Namespace) {
		return errors.New("Q501").
			WithDetailf("metrics.namespace %q is not a valid metric name prefix", c.Metrics.Namespace)
	}
	if !strings.Contains(c.Serve.Addr, ":") {
		return errors.New("Q501").
			WithDetailf("serve.addr %q must be host:port", c.Serve.Addr)
	}
	return nil
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// Logger builds a logger writing to w in the configured format and level.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log.level %q is not a valid level", s)
	}
	return level, nil
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	path := filepath.Join(dir, ConfigFileName)
	_, err := os.Stat(path)
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing quill.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("Q502").
				WithDetail("No quill.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// lineCol converts a byte offset into a 1-based line and column.
func lineCol(data []byte, offset int64) (int, int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line, col := 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
