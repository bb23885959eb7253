package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const cashflowCSV = `Month,Section,Line,Amount
2024-01,Initial,Cash,1000.00
2024-02,Initial,Cash,1250.00
2024-01,Revenue,Sales,400.00
2024-02,Revenue,Sales,350.00
2024-01,Costs,Rent,-150.00
2024-02,Costs,Rent,-150.00
2024-01,Cashflow Net,Net,250.00
2024-02,Cashflow Net,Net,200.00
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("PIVOT_OUTPUT_FORMAT", "")
	t.Setenv("PIVOT_LANGUAGE", "")

	dir := t.TempDir()
	args = append(args, "--config", filepath.Join(dir, "none.yaml"))

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeData(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cashflow.csv")
	require.NoError(t, os.WriteFile(path, []byte(cashflowCSV), 0o644))
	return path
}

func TestRunCSV(t *testing.T) {
	out, err := execute(t, "run", "--file", writeData(t), "--format", "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "Section,Line,2024-01 Amount,2024-02 Amount,Cumul Amount", lines[0])
	assert.Equal(t, `Initial,Cash,"1,000.00","1,250.00","1,000.00"`, lines[1], "boundary rows keep the opening balance")
	assert.Equal(t, `Grand Total,Grand Total,"1,500.00","1,650.00","1,650.00"`, lines[len(lines)-1])
}

func TestRunJSON(t *testing.T) {
	out, err := execute(t, "run", "--file", writeData(t))
	require.NoError(t, err)

	var got struct {
		Summary string                  `json:"summary"`
		Result  struct{ Records []any } `json:"result"`
		Chart   struct{ Series []any }  `json:"chart"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Contains(t, got.Summary, "4 categories over 2024-01 – 2024-02")
	assert.NotEmpty(t, got.Result.Records)
	assert.NotEmpty(t, got.Chart.Series)
}

func TestRunText(t *testing.T) {
	out, err := execute(t, "run", "--file", writeData(t), "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "* Revenue")
	assert.Contains(t, out, "Cumul")
}

func TestRunXLSX(t *testing.T) {
	_, err := execute(t, "run", "--file", writeData(t), "--format", "xlsx")
	assert.ErrorContains(t, err, "requires --out")

	path := filepath.Join(t.TempDir(), "pivot.xlsx")
	_, err = execute(t, "run", "--file", writeData(t), "--format", "xlsx", "--out", path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue("Pivot", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Section", v)
}

func TestRunWithSchema(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(`{
		"name": "Cash flow",
		"time": {"key": "month", "column": "Month"},
		"categories": [{"key": "section", "column": "Section", "displayName": "Group"}],
		"measures": [{"key": "amount", "column": "Amount", "displayName": "EUR"}]
	}`), 0o644))

	out, err := execute(t, "run", "--file", writeData(t), "--schema", schemaPath, "--format", "csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Group,2024-01 EUR,2024-02 EUR,Cumul EUR\n"), out)
}

func TestRunErrors(t *testing.T) {
	_, err := execute(t, "run", "--file", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)

	_, err = execute(t, "run")
	assert.Error(t, err, "--file is required")
}

func TestDiscover(t *testing.T) {
	out, err := execute(t, "discover", "--file", writeData(t), "--name", "Cash")
	require.NoError(t, err)

	var sch struct {
		Name string `json:"name"`
		Time struct {
			Column string `json:"column"`
		} `json:"time"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &sch))
	assert.Equal(t, "Cash", sch.Name)
	assert.Equal(t, "Month", sch.Time.Column)
}
