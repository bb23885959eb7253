package helpers

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/spektr-org/pivot/engine"
	"github.com/spektr-org/pivot/schema"
)

// ============================================================================
// XLSX HELPER — spreadsheet input and pivot export
// ============================================================================

// ReadXLSX reads a sheet (the first one when sheet is empty) and lays its
// rows out for the schema. The first sheet row holds the headers.
func ReadXLSX(path, sheet string, sch schema.Config) ([]engine.Row, error) {
	headers, records, err := ReadXLSXRecords(path, sheet)
	if err != nil {
		return nil, err
	}
	return RowsFromRecords(headers, records, sch)
}

// ReadXLSXRecords returns the header row and raw string records of a sheet.
func ReadXLSXRecords(path, sheet string) ([]string, [][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil, fmt.Errorf("workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("sheet %q must have a header row and one data row", sheet)
	}
	return rows[0], rows[1:], nil
}

// DiscoverXLSX builds a schema from a sheet's headers and sample rows.
func DiscoverXLSX(path, sheet string, opts ...schema.DiscoverOptions) (*schema.Config, error) {
	headers, records, err := ReadXLSXRecords(path, sheet)
	if err != nil {
		return nil, err
	}
	sch, err := schema.Discover(headers, records, opts...)
	if err != nil {
		return nil, err
	}
	sch.DiscoveredFrom = "XLSX"
	return sch, nil
}

// WriteXLSX saves a pivot result to a workbook. Labels and headers come from
// the rendered table; values are written as numbers with a grouped number
// format. Subtotal and grand-total rows are bold.
func WriteXLSX(path string, result *engine.Result, opts engine.TableOptions) error {
	table := engine.BuildTable(result, opts)

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Pivot"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	numFmt := "#,##0"
	if opts.Decimals > 0 {
		numFmt += "." + strings.Repeat("0", opts.Decimals)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	number, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return err
	}
	boldNumber, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, CustomNumFmt: &numFmt})
	if err != nil {
		return err
	}

	header := headerRow(table)
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	if len(header) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(header), 1)
		if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
			return err
		}
	}
	if result == nil {
		return save(f, path)
	}

	levels := result.Levels
	for r := range result.Records {
		rec := &result.Records[r]
		rowIdx := r + 2
		labelStyle, valueStyle := 0, number
		if !rec.IsLeaf() {
			labelStyle, valueStyle = bold, boldNumber
		}

		for level := 0; level < levels; level++ {
			cell, _ := excelize.CoordinatesToCellName(level+1, rowIdx)
			if err := f.SetCellValue(sheet, cell, rec.Label(level)); err != nil {
				return err
			}
			if labelStyle != 0 {
				if err := f.SetCellStyle(sheet, cell, cell, labelStyle); err != nil {
					return err
				}
			}
		}
		for c, col := range result.Columns {
			cell, _ := excelize.CoordinatesToCellName(levels+c+1, rowIdx)
			if err := f.SetCellValue(sheet, cell, rec.Get(col)); err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet, cell, cell, valueStyle); err != nil {
				return err
			}
		}
	}

	return save(f, path)
}

func save(f *excelize.File, path string) error {
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
