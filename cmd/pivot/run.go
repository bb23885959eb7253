package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spektr-org/pivot/engine"
	"github.com/spektr-org/pivot/helpers"
	"github.com/spektr-org/pivot/schema"
)

type runFlags struct {
	file       string
	sheet      string
	schemaPath string
	format     string
	out        string
	measure    string
}

func newRunCmd(c *cli) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build the pivot summary of a data file",
		Long: `Reads a CSV or XLSX file, lays each row out as
[period, order?, categories..., measures...] using a schema (auto-discovered
when --schema is not given) and renders the summary.

Formats:
  json      Records, column schema and chart data (default)
  pretty    Indented JSON
  csv       One row per record, ready for Sheets/Excel
  xlsx      Workbook with bold subtotals (requires --out)
  text      One-line summary followed by an aligned table`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				f.format = c.cfg.Output.Format
			}
			return c.run(cmd.OutOrStdout(), f)
		},
	}

	cmd.Flags().StringVarP(&f.file, "file", "f", "", "Path to CSV or XLSX data file (required)")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "Sheet to read from an XLSX file (default: first)")
	cmd.Flags().StringVarP(&f.schemaPath, "schema", "s", "", "Path to schema JSON (skips auto-discovery)")
	cmd.Flags().StringVar(&f.format, "format", "json", "Output format: json, pretty, csv, xlsx, text")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "Write output to file instead of stdout")
	cmd.Flags().StringVar(&f.measure, "measure", "", "Measure to chart (default: first)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (c *cli) run(stdout io.Writer, f *runFlags) error {
	format := strings.ToLower(f.format)
	if format == "xlsx" && f.out == "" {
		return fmt.Errorf("--format xlsx requires --out")
	}

	rows, sch, err := c.loadInput(f)
	if err != nil {
		return err
	}
	if c.cfg.TwoLevel {
		sch.TwoLevel = true
	}

	opts := append(c.cfg.EngineOptions(), engine.WithLogger(c.logger))
	result, err := engine.Execute(sch.Spec(c.cfg.Language), engine.NewSliceView(rows), opts...)
	if err != nil {
		return fmt.Errorf("pivot %s: %w", f.file, err)
	}
	for _, w := range result.Warnings {
		c.logger.Warn("pivot warning",
			zap.String("kind", string(w.Kind)),
			zap.Int("row", w.Row),
			zap.String("message", w.Message))
	}

	tableOpts := c.cfg.TableOptions(sch.CategoryNames())
	if format == "xlsx" {
		if err := helpers.WriteXLSX(f.out, result, tableOpts); err != nil {
			return err
		}
		c.logger.Info("workbook written", zap.String("path", f.out))
		return nil
	}

	w, closeOut, err := openOutput(stdout, f.out)
	if err != nil {
		return err
	}
	defer closeOut()

	return render(w, format, result, tableOpts, f.measure)
}

// loadInput reads the data file and resolves its schema.
func (c *cli) loadInput(f *runFlags) ([]engine.Row, *schema.Config, error) {
	var sch *schema.Config
	if f.schemaPath != "" {
		loaded, err := schema.Load(f.schemaPath)
		if err != nil {
			return nil, nil, err
		}
		sch = loaded
	}

	if isSpreadsheet(f.file) {
		if sch == nil {
			discovered, err := helpers.DiscoverXLSX(f.file, f.sheet)
			if err != nil {
				return nil, nil, fmt.Errorf("discover %s: %w", f.file, err)
			}
			sch = discovered
		}
		rows, err := helpers.ReadXLSX(f.file, f.sheet, *sch)
		if err != nil {
			return nil, nil, err
		}
		c.logger.Debug("rows loaded", zap.String("file", f.file), zap.Int("rows", len(rows)))
		return rows, sch, nil
	}

	data, err := os.ReadFile(f.file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}
	if sch == nil {
		discovered, err := schema.DiscoverFromCSV(data)
		if err != nil {
			return nil, nil, fmt.Errorf("discover %s: %w", f.file, err)
		}
		sch = discovered
		c.logger.Info("schema discovered",
			zap.String("period", sch.Time.Column),
			zap.Int("categories", len(sch.Categories)),
			zap.Int("measures", len(sch.Measures)),
			zap.Int("skipped", len(sch.SkippedColumns)))
	}
	rows, err := helpers.ParseCSV(data, *sch)
	if err != nil {
		return nil, nil, err
	}
	c.logger.Debug("rows loaded", zap.String("file", f.file), zap.Int("rows", len(rows)))
	return rows, sch, nil
}

func isSpreadsheet(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return true
	}
	return false
}

// openOutput returns the file at path, or stdout when path is empty.
func openOutput(stdout io.Writer, path string) (io.Writer, func(), error) {
	if path == "" {
		return stdout, func() {}, nil
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return file, func() { _ = file.Close() }, nil
}
