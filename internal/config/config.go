// Package config handles TOML configuration for idlescan.
package config

import (
	"fmt"
	"os"
	"slices"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
)

// DefaultReportPath is where the report is written when nothing else is configured.
const DefaultReportPath = "aws_resource_audit_report.csv"

// Report formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// CollectorNames lists the collectors in report order.
var CollectorNames = []string{"ebs", "eip", "s3", "eks", "fsx"}

// Config is the root configuration structure.
type Config struct {
	AWS        AWSConfig        `toml:"aws"`
	Output     OutputConfig     `toml:"output"`
	Collectors CollectorsConfig `toml:"collectors"`
	OTEL       OTELConfig       `toml:"otel"`
	Log        LogConfig        `toml:"log"`
}

// AWSConfig holds AWS provider settings. Empty values fall through to the
// SDK default chain.
type AWSConfig struct {
	Region  string `toml:"region"`
	Profile string `toml:"profile"`
}

// OutputConfig holds report output settings.
type OutputConfig struct {
	Path        string `toml:"path"`
	Format      string `toml:"format"`
	MetricsFile string `toml:"metrics_file"`
}

// CollectorsConfig selects collectors by name.
type CollectorsConfig struct {
	Include []string `toml:"include"`
	Exclude []string `toml:"exclude"`
}

// OTELConfig holds OpenTelemetry settings.
type OTELConfig struct {
	Endpoint    string        `toml:"endpoint"`
	Insecure    bool          `toml:"insecure"`
	ServiceName string        `toml:"service_name"`
	Traces      TracesConfig  `toml:"traces"`
	Metrics     MetricsConfig `toml:"metrics"`
}

// TracesConfig holds tracing settings.
type TracesConfig struct {
	Enabled    bool    `toml:"enabled"`
	SampleRate float64 `toml:"sample_rate"`
}

// MetricsConfig holds metrics settings.
type MetricsConfig struct {
	Enabled bool `toml:"enabled"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.OTEL.Traces.SampleRate = 1.0
	applyDefaults(cfg)
	return cfg
}

// Load reads and parses a TOML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	cfg.OTEL.Traces.SampleRate = 1.0
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Output.Path == "" {
		cfg.Output.Path = DefaultReportPath
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = FormatCSV
	}
	if cfg.OTEL.ServiceName == "" {
		cfg.OTEL.ServiceName = "idlescan"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
}

// Validate checks the configuration is valid.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case FormatCSV, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("output: unknown format %q (want csv, json or yaml)", c.Output.Format)
	}
	if c.Output.Path == "" {
		return fmt.Errorf("output: path required")
	}
	for _, name := range append(slices.Clone(c.Collectors.Include), c.Collectors.Exclude...) {
		if !slices.Contains(CollectorNames, name) {
			return fmt.Errorf("collectors: unknown collector %q", name)
		}
	}
	if c.OTEL.Traces.SampleRate < 0.0 || c.OTEL.Traces.SampleRate > 1.0 {
		return fmt.Errorf("otel: traces.sample_rate must be between 0.0 and 1.0 (got %v)", c.OTEL.Traces.SampleRate)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		return fmt.Errorf("log: unknown format %q (want console or json)", c.Log.Format)
	}
	return nil
}
