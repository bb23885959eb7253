package engine

import (
	"fmt"
	"strings"
)

// ============================================================================
// TEXT BUILDER — one-line summary of a Result
// ============================================================================

// DerivePeriod builds a human-readable period range.
func DerivePeriod(result *Result) string {
	if result == nil || len(result.Periods) == 0 {
		return "No data"
	}
	first := result.Periods[0].Label
	last := result.Periods[len(result.Periods)-1].Label
	if first == last {
		return first
	}
	return fmt.Sprintf("%s – %s", first, last)
}

// Describe summarises a Result: category count, period range and the grand
// total's running totals per measure.
func Describe(result *Result, lang string) string {
	if result == nil || len(result.Records) == 0 {
		return "No data available to summarise."
	}

	leaves := len(result.Leaves())
	parts := []string{
		fmt.Sprintf("%d categories over %s", leaves, DerivePeriod(result)),
	}
	if subs := len(result.Subtotals()); subs > 0 {
		parts = append(parts, fmt.Sprintf("%d subtotals", subs))
	}

	if gt := result.GrandTotal(); gt != nil {
		totals := make([]string, 0, len(result.Measures))
		for _, m := range result.Measures {
			totals = append(totals, fmt.Sprintf("%s %s", m, FormatNumber(gt.Cumul[m], 2, lang)))
		}
		if len(totals) > 0 {
			parts = append(parts, "closing "+strings.Join(totals, ", "))
		}
	}

	out := strings.Join(parts, "; ") + "."
	if n := len(result.Warnings); n > 0 {
		out += fmt.Sprintf(" %d warnings.", n)
	}
	return out
}
