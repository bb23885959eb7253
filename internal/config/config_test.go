package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/pivot/engine"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pivot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
boundary_labels: [Opening, Closing]
rollup_label: Net
language: de
filters:
  0: [Revenue]
output:
  format: csv
  decimals: 0
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Opening", "Closing"}, cfg.BoundaryLabels)
	assert.Equal(t, "Net", cfg.RollupLabel)
	assert.Equal(t, engine.GrandTotalLabel, cfg.GrandTotalLabel, "unset keys keep defaults")
	assert.Equal(t, "de", cfg.Language)
	assert.Equal(t, map[int][]string{0: {"Revenue"}}, cfg.Filters)
	assert.Equal(t, "csv", cfg.Output.Format)
	assert.Equal(t, 0, cfg.Output.Decimals)
}

func TestLoadRejectsBadConfig(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("output: [nope"), 0644))
	_, err := Load(bad)
	assert.ErrorContains(t, err, "failed to parse config")

	format := filepath.Join(dir, "format.yaml")
	require.NoError(t, os.WriteFile(format, []byte("output:\n  format: html\n"), 0644))
	_, err = Load(format)
	assert.ErrorContains(t, err, `unknown output format "html"`)

	clash := filepath.Join(dir, "clash.yaml")
	require.NoError(t, os.WriteFile(clash, []byte("rollup_label: Final\n"), 0644))
	_, err = Load(clash)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PIVOT_LANGUAGE", "fr")
	t.Setenv("PIVOT_LOG_LEVEL", "DEBUG")
	t.Setenv("PIVOT_OUTPUT_FORMAT", "Text")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "fr", cfg.Language)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Output.Format)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pivot.yaml")
	cfg := DefaultConfig()
	cfg.RollupLabel = "Net"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestEngineOptionsDriveExecute(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Filters = map[int][]string{0: {"Initial", "Revenue", "Cashflow Net"}}

	spec := engine.Spec{Slots: engine.Slots{Time: 1, Category: 2, Measure: 1}, Measures: []string{"Amount"}}
	rows := []engine.Row{
		{engine.Scalar("2024-01"), engine.Scalar("Initial"), engine.Scalar("Cash"), engine.Scalar(100.0)},
		{engine.Scalar("2024-02"), engine.Scalar("Initial"), engine.Scalar("Cash"), engine.Scalar(150.0)},
		{engine.Scalar("2024-01"), engine.Scalar("Revenue"), engine.Scalar("Sales"), engine.Scalar(50.0)},
		{engine.Scalar("2024-02"), engine.Scalar("Revenue"), engine.Scalar("Sales"), engine.Scalar(50.0)},
		{engine.Scalar("2024-01"), engine.Scalar("Cashflow Net"), engine.Scalar("Net"), engine.Scalar(0.0)},
		{engine.Scalar("2024-01"), engine.Scalar("Costs"), engine.Scalar("Rent"), engine.Scalar(-20.0)},
	}

	result, err := engine.Execute(spec, engine.NewSliceView(rows), cfg.EngineOptions()...)
	require.NoError(t, err)

	var subtotals []string
	for _, s := range result.Subtotals() {
		subtotals = append(subtotals, s.Label(0))
	}
	assert.Equal(t, []string{"Revenue", "Cashflow Net"}, subtotals, "boundary labels get no subtotal")

	for _, leaf := range result.Leaves() {
		if leaf.Label(0) == "Initial" {
			assert.Equal(t, 100.0, leaf.Cumul["Amount"], "boundary cumul is the first period")
		}
	}
	assert.Len(t, result.Leaves(), 3, "filtered to three leaves")
}
