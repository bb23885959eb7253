// Package config loads the pivot CLI configuration from YAML with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spektr-org/pivot/engine"
)

// Config holds all pivot configuration.
type Config struct {
	// Top-level labels that hold balances rather than flows.
	BoundaryLabels []string `yaml:"boundary_labels" json:"boundary_labels"`
	// Top-level label whose subtotal rolls up every non-boundary leaf.
	RollupLabel     string `yaml:"rollup_label" json:"rollup_label"`
	GrandTotalLabel string `yaml:"grand_total_label" json:"grand_total_label"`

	Language string `yaml:"language" json:"language"`
	TwoLevel bool   `yaml:"two_level" json:"two_level"`

	// Category filters keyed by zero-based level.
	Filters map[int][]string `yaml:"filters,omitempty" json:"filters,omitempty"`

	Logging LoggingConfig `yaml:"logging" json:"logging"`
	Output  OutputConfig  `yaml:"output" json:"output"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level,omitempty"` // debug, info, warn, error
}

// OutputConfig configures rendering.
type OutputConfig struct {
	Format   string `yaml:"format" json:"format,omitempty"` // json, pretty, csv, xlsx, text
	Decimals int    `yaml:"decimals" json:"decimals"`
}

// Output formats understood by the CLI.
var Formats = []string{"json", "pretty", "csv", "xlsx", "text"}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BoundaryLabels:  []string{"Initial", "Final"},
		RollupLabel:     "Cashflow Net",
		GrandTotalLabel: engine.GrandTotalLabel,
		Language:        "en",

		Logging: LoggingConfig{
			Level: "warn",
		},

		Output: OutputConfig{
			Format:   "json",
			Decimals: 2,
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
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
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("PIVOT_LANGUAGE"); v != "" {
		c.Language = v
	}
	if v := os.Getenv("PIVOT_LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("PIVOT_OUTPUT_FORMAT"); v != "" {
		c.Output.Format = strings.ToLower(v)
	}
}

// Validate rejects unknown output formats and contradictory labels.
func (c *Config) Validate() error {
	known := false
	for _, f := range Formats {
		if c.Output.Format == f {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown output format %q (want one of %s)", c.Output.Format, strings.Join(Formats, ", "))
	}
	for _, b := range c.BoundaryLabels {
		if b != "" && b == c.RollupLabel {
			return fmt.Errorf("label %q cannot be both a boundary and the rollup", b)
		}
	}
	if c.Output.Decimals < 0 {
		return fmt.Errorf("output.decimals must not be negative")
	}
	return nil
}

// EngineOptions maps the configuration onto engine options.
func (c *Config) EngineOptions() []engine.Option {
	opts := []engine.Option{
		engine.WithBoundaryLabels(c.BoundaryLabels...),
		engine.WithRollupLabel(c.RollupLabel),
		engine.WithGrandTotalLabel(c.GrandTotalLabel),
	}
	if len(c.Filters) > 0 {
		opts = append(opts, engine.WithFilters(engine.Filters{Levels: c.Filters}))
	}
	return opts
}

// TableOptions returns the rendering options for tables.
func (c *Config) TableOptions(categoryNames []string) engine.TableOptions {
	return engine.TableOptions{
		Language:      c.Language,
		Decimals:      c.Output.Decimals,
		CategoryNames: categoryNames,
	}
}
