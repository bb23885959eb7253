// Package pivot turns flat, dated, categorized measurement rows into a
// hierarchical summary table.
//
// Usage:
//
//	import "github.com/spektr-org/pivot/engine"
//
//	result, err := engine.Execute(spec, engine.NewSliceView(rows),
//	    engine.WithBoundaryLabels("Initial", "Final"),
//	    engine.WithRollupLabel("Cashflow Net"),
//	)
//
// Each category combination becomes one record with a value per
// period × measure, a Gap column when exactly two measures are bound, and a
// Cumul (running-total) column per measure. Records are followed by
// per-top-level subtotals and a single grand total.
//
// Rendering is handled separately: engine.BuildTable, engine.BuildChart and
// the helpers package turn a Result into render-ready data or files.
// The engine performs no I/O.
package pivot
