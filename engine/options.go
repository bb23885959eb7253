package engine

import (
	"go.uber.org/zap"
)

// ============================================================================
// ENGINE OPTIONS — Functional options for Execute()
// ============================================================================

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	BoundaryLabels  []string // top-level labels holding balances, not flows
	RollupLabel     string   // top-level label that rolls up every non-boundary leaf
	GrandTotalLabel string
	Localizer       Localizer
	PeriodParser    PeriodParser
	Filters         Filters
	Logger          *zap.Logger
}

// WithBoundaryLabels marks top-level labels (e.g. "Initial", "Final") as
// balance rows: they get no subtotal and their Cumul is the first period.
func WithBoundaryLabels(labels ...string) Option {
	return func(c *config) {
		c.BoundaryLabels = append([]string(nil), labels...)
	}
}

// WithRollupLabel names the top-level label (e.g. "Cashflow Net") whose
// subtotal sums every non-boundary leaf instead of its own group.
func WithRollupLabel(label string) Option {
	return func(c *config) {
		c.RollupLabel = label
	}
}

// WithGrandTotalLabel overrides the label of the grand-total row.
func WithGrandTotalLabel(label string) Option {
	return func(c *config) {
		if label != "" {
			c.GrandTotalLabel = label
		}
	}
}

// WithLocalizer sets how category values become labels.
func WithLocalizer(l Localizer) Option {
	return func(c *config) {
		if l != nil {
			c.Localizer = l
		}
	}
}

// WithPeriodParser sets how period cells are coerced to sortable periods.
func WithPeriodParser(fn PeriodParser) Option {
	return func(c *config) {
		if fn != nil {
			c.PeriodParser = fn
		}
	}
}

// WithFilters restricts the rows that are aggregated.
func WithFilters(f Filters) Option {
	return func(c *config) {
		c.Filters = f
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.Logger = l
		}
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		GrandTotalLabel: GrandTotalLabel,
		Localizer:       DefaultLocalizer{},
		PeriodParser:    ParsePeriod,
		Logger:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
