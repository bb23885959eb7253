package schema

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spektr-org/pivot/engine"
)

// ============================================================================
// SCHEMA — Describes how a tabular source maps onto pivot rows
// ============================================================================
// Auto-discovered from CSV headers and samples, or written by hand as JSON.
// The helpers use it to lay cells out as [period, order?, categories...,
// measures...]; the engine gets its Slots, category types and measure labels.
// ============================================================================

// Field types recorded on FieldMeta.
const (
	TypeText      = "text"
	TypeTimestamp = "timestamp"
	TypeNumber    = "number"
	TypeInteger   = "integer"
)

// Config describes the complete shape of a dataset.
type Config struct {
	Name string `json:"name"`

	Time       FieldMeta   `json:"time"`
	Order      *FieldMeta  `json:"order,omitempty"`
	Categories []FieldMeta `json:"categories"`
	Measures   []FieldMeta `json:"measures"`

	// Lay the categories out as two levels even when only one is bound.
	TwoLevel bool `json:"twoLevel,omitempty"`

	// Auto-discovery metadata
	DiscoveredFrom string `json:"discoveredFrom,omitempty"`
	DiscoveredAt   string `json:"discoveredAt,omitempty"`

	// Columns skipped during auto-discovery
	SkippedColumns []SkippedColumn `json:"skippedColumns,omitempty"`
}

// FieldMeta binds one source column to a role.
type FieldMeta struct {
	Key            string   `json:"key"`
	Column         string   `json:"column"` // header in the source file
	DisplayName    string   `json:"displayName"`
	Type           string   `json:"type"`
	TemporalFormat string   `json:"temporalFormat,omitempty"`
	SampleValues   []string `json:"sampleValues,omitempty"`
}

// SkippedColumn records why a column was excluded during auto-discovery.
type SkippedColumn struct {
	Column      string `json:"column"`
	Reason      string `json:"reason"`
	Recoverable bool   `json:"recoverable"` // Can be restored if consumer overrides
}

// Slots reports the engine slot bindings this schema produces.
func (c Config) Slots() engine.Slots {
	s := engine.Slots{
		Time:     1,
		Category: len(c.Categories),
		Measure:  len(c.Measures),
		TwoLevel: c.TwoLevel,
	}
	if c.Order != nil {
		s.Order = 1
	}
	return s
}

// CategoryTypes returns the engine field type of each category level.
func (c Config) CategoryTypes() []engine.FieldType {
	types := make([]engine.FieldType, len(c.Categories))
	for i, f := range c.Categories {
		if f.Type == TypeTimestamp {
			types[i] = engine.FieldTimestamp
		}
	}
	return types
}

// MeasureLabels returns the display name of each measure.
func (c Config) MeasureLabels() []string {
	labels := make([]string, len(c.Measures))
	for i, m := range c.Measures {
		labels[i] = m.label()
	}
	return labels
}

// CategoryNames returns the display name of each category level.
func (c Config) CategoryNames() []string {
	names := make([]string, len(c.Categories))
	for i, f := range c.Categories {
		names[i] = f.label()
	}
	return names
}

// Spec builds the engine Spec for this schema.
func (c Config) Spec(language string) engine.Spec {
	return engine.Spec{
		Slots:         c.Slots(),
		Measures:      c.MeasureLabels(),
		CategoryTypes: c.CategoryTypes(),
		Language:      language,
		Title:         c.Name,
	}
}

// Columns returns the source headers in row layout order.
func (c Config) Columns() []string {
	cols := []string{c.Time.Column}
	if c.Order != nil {
		cols = append(cols, c.Order.Column)
	}
	for _, f := range c.Categories {
		cols = append(cols, f.Column)
	}
	for _, f := range c.Measures {
		cols = append(cols, f.Column)
	}
	return cols
}

// Validate reports a schema that cannot produce rows.
func (c Config) Validate() error {
	if c.Time.Column == "" {
		return fmt.Errorf("schema %q: no period column", c.Name)
	}
	if len(c.Categories) == 0 {
		return fmt.Errorf("schema %q: no category columns", c.Name)
	}
	if len(c.Measures) == 0 {
		return fmt.Errorf("schema %q: no measure columns", c.Name)
	}
	seen := make(map[string]bool)
	for _, col := range c.Columns() {
		if col == "" {
			return fmt.Errorf("schema %q: field without a column", c.Name)
		}
		if seen[col] {
			return fmt.Errorf("schema %q: column %q bound twice", c.Name, col)
		}
		seen[col] = true
	}
	return nil
}

// Load reads a JSON schema file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (f FieldMeta) label() string {
	switch {
	case f.DisplayName != "":
		return f.DisplayName
	case f.Column != "":
		return f.Column
	}
	return f.Key
}
