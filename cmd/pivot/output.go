package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spektr-org/pivot/engine"
	"github.com/spektr-org/pivot/helpers"
)

// ============================================================================
// OUTPUT
// ============================================================================

type runOutput struct {
	Summary string              `json:"summary"`
	Result  *engine.Result      `json:"result"`
	Chart   *engine.ChartConfig `json:"chart,omitempty"`
}

// render writes a result in one of the stream formats (everything but xlsx).
func render(w io.Writer, format string, result *engine.Result, opts engine.TableOptions, measure string) error {
	switch format {
	case "csv":
		return helpers.WriteCSV(w, engine.BuildTable(result, opts))
	case "text":
		return writeText(w, result, opts)
	case "json", "pretty":
		return writeJSON(w, runOutput{
			Summary: engine.Describe(result, opts.Language),
			Result:  result,
			Chart:   engine.BuildChart(result, measure),
		}, format == "pretty")
	}
	return fmt.Errorf("unknown output format %q", format)
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	var out []byte
	var err error

	if pretty {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// writeText prints the summary line and the table with right-aligned values.
func writeText(w io.Writer, result *engine.Result, opts engine.TableOptions) error {
	if _, err := fmt.Fprintln(w, engine.Describe(result, opts.Language)); err != nil {
		return err
	}
	table := engine.BuildTable(result, opts)
	if len(table.Rows) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	groups := make([]string, len(table.Columns))
	labels := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		groups[i] = c.Group
		labels[i] = c.Label
	}
	fmt.Fprintln(tw, strings.Join(groups, "\t")+"\t")
	fmt.Fprintln(tw, strings.Join(labels, "\t")+"\t")
	for i, row := range table.Rows {
		cells := append([]string(nil), row...)
		if i < len(table.RowKinds) && table.RowKinds[i] != engine.KindLeaf.String() && len(cells) > 0 {
			cells[0] = "* " + cells[0]
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t")
	}
	return tw.Flush()
}
