package engine

import (
	"fmt"
)

// ============================================================================
// TABLE BUILDER — Produces TableData from a Result
// ============================================================================
// Category columns first, then one column per schema entry. Each row keeps
// its record kind so renderers can style subtotals and the grand total.
// ============================================================================

// TableData defines how to render a table.
type TableData struct {
	Title    string        `json:"title"`
	Columns  []TableColumn `json:"columns"`
	Rows     [][]string    `json:"rows"`
	RowKinds []string      `json:"rowKinds"`
}

// TableColumn defines a table column.
type TableColumn struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number"
	Align string `json:"align"` // "left", "right"
	Group string `json:"group,omitempty"`
}

// TableOptions controls table rendering.
type TableOptions struct {
	Language      string
	Decimals      int
	CategoryNames []string // header per category level; defaults to "Category N"
}

// Headers returns the column labels in order.
func (t *TableData) Headers() []string {
	h := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		h[i] = c.Label
	}
	return h
}

// BuildTable produces a TableData from a pivot Result.
func BuildTable(result *Result, opts TableOptions) *TableData {
	if result == nil || len(result.Records) == 0 {
		return &TableData{
			Columns: []TableColumn{},
			Rows:    [][]string{},
		}
	}

	columns := make([]TableColumn, 0, result.Levels+len(result.Columns))
	for level := 0; level < result.Levels; level++ {
		label := fmt.Sprintf("Category %d", level+1)
		if level < len(opts.CategoryNames) && opts.CategoryNames[level] != "" {
			label = opts.CategoryNames[level]
		}
		columns = append(columns, TableColumn{
			Key:   fmt.Sprintf("category-%d", level+1),
			Label: label,
			Type:  "text",
			Align: "left",
		})
	}
	for _, c := range result.Columns {
		columns = append(columns, TableColumn{
			Key:   c.Key,
			Label: c.Measure,
			Type:  "number",
			Align: "right",
			Group: c.Period,
		})
	}

	rows := make([][]string, 0, len(result.Records))
	kinds := make([]string, 0, len(result.Records))
	for i := range result.Records {
		rec := &result.Records[i]
		row := make([]string, 0, len(columns))
		for level := 0; level < result.Levels; level++ {
			row = append(row, rec.Label(level))
		}
		for _, c := range result.Columns {
			row = append(row, FormatNumber(rec.Get(c), opts.Decimals, opts.Language))
		}
		rows = append(rows, row)
		kinds = append(kinds, rec.Kind.String())
	}

	return &TableData{
		Title:    result.Title,
		Columns:  columns,
		Rows:     rows,
		RowKinds: kinds,
	}
}

// FormatNumber formats a value with the language's grouping and decimal marks.
func FormatNumber(v float64, decimals int, lang string) string {
	if decimals < 0 {
		decimals = 0
	}
	return printerFor(lang).Sprintf(fmt.Sprintf("%%.%df", decimals), v)
}
