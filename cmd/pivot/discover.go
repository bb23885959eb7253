package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spektr-org/pivot/helpers"
	"github.com/spektr-org/pivot/schema"
)

func newDiscoverCmd(c *cli) *cobra.Command {
	var (
		file        string
		sheet       string
		name        string
		recoverCols []string
		out         string
	)
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Print the auto-discovered schema of a data file",
		Long: `Classifies each column as the period, the order column, a category level
or a measure, and prints the schema as indented JSON. Save it, adjust it and
pass it back with "pivot run --schema".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := schema.DefaultDiscoverOptions()
			opts.Name = name
			opts.RecoverColumns = recoverCols

			var sch *schema.Config
			var err error
			if isSpreadsheet(file) {
				sch, err = helpers.DiscoverXLSX(file, sheet, opts)
			} else {
				var data []byte
				data, err = os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("failed to read file: %w", err)
				}
				sch, err = schema.DiscoverFromCSV(data, opts)
			}
			if err != nil {
				return fmt.Errorf("discover %s: %w", file, err)
			}

			c.logger.Sugar().Infof("discovered %s: period %q, %d categories, %d measures, skipped [%s]",
				sch.Name, sch.Time.Column, len(sch.Categories), len(sch.Measures), skippedNames(sch))

			w, closeOut, err := openOutput(cmd.OutOrStdout(), out)
			if err != nil {
				return err
			}
			defer closeOut()
			return writeJSON(w, sch, true)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to CSV or XLSX data file (required)")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Sheet to read from an XLSX file (default: first)")
	cmd.Flags().StringVar(&name, "name", "", "Dataset name")
	cmd.Flags().StringSliceVar(&recoverCols, "recover", nil, "Columns to keep as categories even if skipped")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the schema to file instead of stdout")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func skippedNames(sch *schema.Config) string {
	names := make([]string, len(sch.SkippedColumns))
	for i, s := range sch.SkippedColumns {
		names[i] = s.Column
	}
	return strings.Join(names, ", ")
}
