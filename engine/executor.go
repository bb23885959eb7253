package engine

import (
	"fmt"

	"go.uber.org/zap"
)

// ============================================================================
// EXECUTOR — pivot pipeline entry point
// ============================================================================
// Entry point: Execute(spec, view, opts...)
//
// Pipeline:
//   1. Reject empty input
//   2. Resolve the column layout and validate every row
//   3. (Optional) Apply category filters → SubView
//   4. Aggregate rows into leaf records (one per category key)
//   5. Cumulative columns
//   6. Row order, then per-level label order
//   7. Subtotals (two or more levels) and boundary snapshots
//   8. Grand total
//   9. Sort and assemble records plus the column schema
//
// A pure function of its inputs: no I/O, no shared state between calls.
// ============================================================================

// Spec describes the dataset handed to Execute.
type Spec struct {
	Slots         Slots       `json:"slots" yaml:"slots"`
	Measures      []string    `json:"measures" yaml:"measures"`
	CategoryTypes []FieldType `json:"categoryTypes,omitempty" yaml:"category_types"`
	Language      string      `json:"language,omitempty" yaml:"language"`
	Title         string      `json:"title,omitempty" yaml:"title"`
}

// Execute turns rows into the ordered summary records and column schema.
//
// Errors:
//   - ErrEmptyInput when the view has no rows (or none survive filtering)
//   - *LayoutError when a row does not fit the resolved layout
func Execute(spec Spec, view RowView, opts ...Option) (*Result, error) {
	cfg := applyOptions(opts)
	log := cfg.Logger

	if view == nil || view.Len() == 0 {
		log.Debug("pivot: no rows")
		return nil, ErrEmptyInput
	}

	layout, err := ResolveLayout(spec.Slots, view.Row(0))
	if err != nil {
		log.Info("pivot: layout unresolved", zap.Error(err))
		return nil, err
	}
	for i := 0; i < view.Len(); i++ {
		if err := layout.validateAt(i, view.Row(i)); err != nil {
			log.Info("pivot: row rejected", zap.Int("row", i), zap.Error(err))
			return nil, err
		}
	}

	log.Debug("pivot: processing",
		zap.Int("rows", view.Len()),
		zap.Bool("order", layout.HasOrder),
		zap.Int("levels", layout.CategoryLevels),
		zap.Int("measures", layout.MeasureCount))

	if !cfg.Filters.IsEmpty() {
		filtered := ApplyFilters(view, layout, cfg.Filters, spec.CategoryTypes, cfg.Localizer, spec.Language)
		log.Debug("pivot: filtered", zap.Int("rows", filtered.Len()), zap.Int("from", view.Len()))
		if filtered.Len() == 0 {
			return nil, fmt.Errorf("%w: no rows match filters", ErrEmptyInput)
		}
		view = filtered
	}

	p := newPivot(cfg, layout, spec)
	if err := p.aggregate(view); err != nil {
		log.Info("pivot: aggregation aborted", zap.Error(err))
		return nil, err
	}
	p.cumulate()
	p.sortByOrder()

	orders := p.levelOrders()
	var topOrder []string
	if len(orders) > 0 {
		topOrder = orders[0]
	}
	subs := p.subtotals(topOrder)
	grand := p.grandTotal()

	result := &Result{
		Title:    spec.Title,
		Records:  assemble(p.leaves, subs, grand, orders),
		Columns:  p.columns(),
		Periods:  p.periods,
		Measures: p.measures,
		Levels:   layout.CategoryLevels,
		Orders:   orders,
		Warnings: p.warnings,
	}

	for _, w := range p.warnings {
		log.Debug("pivot: warning", zap.String("kind", string(w.Kind)), zap.Int("row", w.Row), zap.String("message", w.Message))
	}
	log.Info("pivot: done",
		zap.Int("leaves", len(p.leaves)),
		zap.Int("subtotals", len(subs)),
		zap.Int("periods", len(p.periods)),
		zap.Int("warnings", len(p.warnings)))

	return result, nil
}
