package helpers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spektr-org/pivot/engine"
	"github.com/spektr-org/pivot/schema"
)

// ============================================================================
// CSV HELPER — Parses CSV data into []engine.Row
// ============================================================================
// Consumer reads the CSV from wherever it lives (file, S3, Sheets).
// This helper lays each data row out as [period, order?, categories...,
// measures...] using the schema's column bindings.
// ============================================================================

// ParseCSV parses CSV bytes into rows laid out for the schema.
func ParseCSV(data []byte, sch schema.Config) ([]engine.Row, error) {
	headers, records, err := readCSV(data)
	if err != nil {
		return nil, err
	}
	return RowsFromRecords(headers, records, sch)
}

// ParseCSVView parses CSV into a RowView (convenience wrapper).
func ParseCSVView(data []byte, sch schema.Config) (engine.RowView, error) {
	rows, err := ParseCSV(data, sch)
	if err != nil {
		return nil, err
	}
	return engine.NewSliceView(rows), nil
}

// ParseCSVAuto discovers a schema from the data, then parses with it.
// Consumers can use this for quick demos before writing a schema by hand.
func ParseCSVAuto(data []byte) ([]engine.Row, *schema.Config, error) {
	sch, err := schema.DiscoverFromCSV(data)
	if err != nil {
		return nil, nil, err
	}
	rows, err := ParseCSV(data, *sch)
	if err != nil {
		return nil, nil, err
	}
	return rows, sch, nil
}

func readCSV(data []byte) ([]string, [][]string, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read CSV row %d: %w", len(records)+1, err)
		}
		records = append(records, record)
	}
	return headers, records, nil
}

// ============================================================================
// ROW LAYOUT
// ============================================================================

// RowsFromRecords maps raw string records onto the schema's row layout.
// Headers are matched case-insensitively against each field's column or key.
// Fully blank records are skipped.
func RowsFromRecords(headers []string, records [][]string, sch schema.Config) ([]engine.Row, error) {
	if err := sch.Validate(); err != nil {
		return nil, err
	}

	index := make(map[string]int, len(headers))
	for i, h := range headers {
		h = strings.ToLower(strings.TrimSpace(h))
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}
	lookup := func(f schema.FieldMeta) (int, error) {
		for _, name := range []string{f.Column, f.Key} {
			if i, ok := index[strings.ToLower(strings.TrimSpace(name))]; ok && name != "" {
				return i, nil
			}
		}
		return 0, fmt.Errorf("column %q not found in headers", f.Column)
	}

	type binding struct {
		col     int
		numeric bool
	}
	var bindings []binding
	add := func(f schema.FieldMeta, numeric bool) error {
		i, err := lookup(f)
		if err != nil {
			return err
		}
		bindings = append(bindings, binding{col: i, numeric: numeric})
		return nil
	}

	if err := add(sch.Time, false); err != nil {
		return nil, err
	}
	if sch.Order != nil {
		if err := add(*sch.Order, true); err != nil {
			return nil, err
		}
	}
	for _, f := range sch.Categories {
		if err := add(f, false); err != nil {
			return nil, err
		}
	}
	for _, f := range sch.Measures {
		if err := add(f, true); err != nil {
			return nil, err
		}
	}

	rows := make([]engine.Row, 0, len(records))
	for _, record := range records {
		if isBlank(record) {
			continue
		}
		row := make(engine.Row, len(bindings))
		for i, b := range bindings {
			val := ""
			if b.col < len(record) {
				val = strings.TrimSpace(record[b.col])
			}
			row[i] = cellFor(val, b.numeric)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// cellFor converts a raw value. Empty cells stay empty so the engine can flag
// them; numeric fields that fail to parse keep their text for the same reason.
func cellFor(val string, numeric bool) engine.Cell {
	if val == "" {
		return engine.Cell{}
	}
	if numeric {
		if f, ok := parseNumber(val); ok {
			return engine.Scalar(f)
		}
	}
	return engine.Scalar(val)
}

func parseNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(s, ",", "")
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	for _, sym := range []string{"$", "€", "£"} {
		s = strings.TrimPrefix(s, sym)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		f = -f
	}
	return f, true
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ============================================================================
// CSV EXPORT
// ============================================================================

// WriteCSV writes a rendered table as CSV, one header row then one row per record.
func WriteCSV(w io.Writer, table *engine.TableData) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headerRow(table)); err != nil {
		return err
	}
	for _, row := range table.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// headerRow qualifies value columns with their period so headers stay unique.
func headerRow(table *engine.TableData) []string {
	h := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		h[i] = c.Label
		if c.Group != "" {
			h[i] = c.Group + " " + c.Label
		}
	}
	return h
}
