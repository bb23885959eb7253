// Command pivot turns a CSV or XLSX file into a hierarchical
// period × measure summary with subtotals and a grand total.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spektr-org/pivot/internal/config"
	"github.com/spektr-org/pivot/internal/logging"
)

const version = "0.3.0"

// cli carries flag values and per-invocation state.
type cli struct {
	verbose    bool
	configPath string

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:     "pivot",
		Short:   "Hierarchical period × measure summaries for tabular data",
		Version: version,
		Long: `pivot reads rows of (period, category levels, measures) and produces one
summary record per category with a column per period and measure, running
totals, subtotals per top-level category and a grand total.

Examples:
  pivot run --file ledger.csv --format pretty
  pivot run --file budget.xlsx --schema budget.json --format xlsx --out pivot.xlsx
  pivot discover --file ledger.csv > schema.json

Environment:
  PIVOT_LANGUAGE        Language for labels and numbers (en, de, fr, ...)
  PIVOT_LOG_LEVEL       debug, info, warn, error
  PIVOT_OUTPUT_FORMAT   json, pretty, csv, xlsx, text`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A missing .env is not an error.
			_ = godotenv.Load()

			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			if c.verbose {
				cfg.Logging.Level = "debug"
			}
			logger, err := logging.New(cfg.Logging.Level)
			if err != nil {
				return err
			}
			c.cfg, c.logger = cfg, logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable verbose logging")
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "pivot.yaml", "Path to YAML config")

	root.AddCommand(newRunCmd(c), newDiscoverCmd(c))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
