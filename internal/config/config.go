// Package config loads formulax settings from a YAML file with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config holds all formulax configuration.
type Config struct {
	// Decimals printed for numeric results; negative prints the shortest exact form.
	Precision int `yaml:"precision"`

	Output  OutputConfig  `yaml:"output"`
	History HistoryConfig `yaml:"history"`
	Batch   BatchConfig   `yaml:"batch"`
	Game    GameConfig    `yaml:"game"`
	Logging LoggingConfig `yaml:"logging"`
}

// OutputConfig controls how results are printed.
type OutputConfig struct {
	Format  string `yaml:"format"` // text, json, yaml
	Prompts bool   `yaml:"prompts"`
}

// HistoryConfig controls the session history and its SQLite log.
type HistoryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Size     int    `yaml:"size"`
	Database string `yaml:"database"`
}

// BatchConfig configures batch runs.
type BatchConfig struct {
	Workers      int    `yaml:"workers"`
	ReportDir    string `yaml:"report_dir"`
	ReportFormat string `yaml:"report_format"` // json, yaml
}

// GameConfig configures the guessing game.
type GameConfig struct {
	Min         int `yaml:"min"`
	Max         int `yaml:"max"`
	MaxAttempts int `yaml:"max_attempts"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Environment variables that override file settings.
const (
	EnvPrecision = "FORMULAX_PRECISION"
	EnvDB        = "FORMULAX_DB"
	EnvLogLevel  = "FORMULAX_LOG_LEVEL"
	EnvWorkers   = "FORMULAX_WORKERS"
)

var (
	ValidFormats       = []string{"text", "json", "yaml"}
	ValidReportFormats = []string{"json", "yaml"}
)

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Precision: 2,
		Output: OutputConfig{
			Format:  "text",
			Prompts: true,
		},
		History: HistoryConfig{
			Enabled:  false,
			Size:     100,
			Database: filepath.Join(".formulax", "history.db"),
		},
		Batch: BatchConfig{
			Workers:      4,
			ReportDir:    filepath.Join(".formulax", "reports"),
			ReportFormat: "json",
		},
		Game: GameConfig{
			Min:         1,
			Max:         100,
			MaxAttempts: 0,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(EnvPrecision); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPrecision, err)
		}
		c.Precision = n
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		c.Batch.Workers = n
	}
	if path := os.Getenv(EnvDB); path != "" {
		c.History.Database = path
		c.History.Enabled = true
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Logging.Level = level
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs []error
	if c.Precision > 15 {
		errs = append(errs, fmt.Errorf("precision %d exceeds 15 decimals", c.Precision))
	}
	if !slices.Contains(ValidFormats, c.Output.Format) {
		errs = append(errs, fmt.Errorf("invalid output format: %s (valid: %v)", c.Output.Format, ValidFormats))
	}
	if c.History.Size < 1 {
		errs = append(errs, fmt.Errorf("history size must be positive, got %d", c.History.Size))
	}
	if c.History.Enabled && c.History.Database == "" {
		errs = append(errs, errors.New("history database path is required when history is enabled"))
	}
	if c.Batch.Workers < 1 {
		errs = append(errs, fmt.Errorf("batch workers must be positive, got %d", c.Batch.Workers))
	}
	if !slices.Contains(ValidReportFormats, c.Batch.ReportFormat) {
		errs = append(errs, fmt.Errorf("invalid report format: %s (valid: %v)", c.Batch.ReportFormat, ValidReportFormats))
	}
	if c.Game.Min > c.Game.Max {
		errs = append(errs, fmt.Errorf("game range [%d, %d] is empty", c.Game.Min, c.Game.Max))
	}
	if c.Game.MaxAttempts < 0 {
		errs = append(errs, fmt.Errorf("game max_attempts must not be negative, got %d", c.Game.MaxAttempts))
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// LogLevel parses the configured logging level.
func (c *Config) LogLevel() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(c.Logging.Level)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level: %w", err)
	}
	return lvl, nil
}
