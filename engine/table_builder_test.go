package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult(t *testing.T) *Result {
	t.Helper()
	spec := twoLevels
	spec.Title = "Cash flow"
	return run(t, spec, []Row{
		row("2024-01", "Revenue", "Sales", 100),
		row("2024-02", "Revenue", "Sales", 1200.5),
		row("2024-01", "Costs", "Rent", -30),
		row("2024-02", "Costs", "Rent", -30),
	})
}

func TestBuildTable(t *testing.T) {
	result := sampleResult(t)
	table := BuildTable(result, TableOptions{Language: "en", Decimals: 2, CategoryNames: []string{"Section"}})

	assert.Equal(t, "Cash flow", table.Title)
	headers := table.Headers()
	assert.Equal(t, []string{"Section", "Category 2", "Amount", "Amount", "Amount"}, headers)
	assert.Equal(t, "2024-01", table.Columns[2].Group)
	assert.Equal(t, CumulLabel, table.Columns[4].Group)

	require.Len(t, table.Rows, len(result.Records))
	assert.Equal(t, []string{"leaf", "subtotal", "leaf", "subtotal", "grandtotal"}, table.RowKinds)
	assert.Equal(t, []string{"Revenue", "Sales", "100.00", "1,200.50", "1,300.50"}, table.Rows[0])
	assert.Equal(t, "-60.00", table.Rows[2][4])
}

func TestBuildTableEmpty(t *testing.T) {
	table := BuildTable(nil, TableOptions{})
	assert.Empty(t, table.Columns)
	assert.Empty(t, table.Rows)
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "1,234.50", FormatNumber(1234.5, 2, "en"))
	assert.Equal(t, "1.234,50", FormatNumber(1234.5, 2, "de"))
	assert.Equal(t, "-7", FormatNumber(-7, 0, ""))
}

func TestBuildChart(t *testing.T) {
	result := sampleResult(t)
	chart := BuildChart(result, "")
	require.NotNil(t, chart)

	require.Len(t, chart.Series, 2)
	assert.Equal(t, "Revenue", chart.Series[0].Name)
	assert.Equal(t, []ChartPoint{{Label: "2024-01", Value: 100}, {Label: "2024-02", Value: 1200.5}}, chart.Series[0].Data)
	assert.Equal(t, "Amount", chart.YAxis)
	assert.True(t, chart.ShowLegend)
	assert.Len(t, chart.Colors, 2)

	assert.Nil(t, BuildChart(nil, "Amount"))
}

func TestBuildChartSingleLevelUsesLeaves(t *testing.T) {
	result := run(t, oneLevel, []Row{row("2024-01", "A", 1), row("2024-01", "B", 2)})
	chart := BuildChart(result, "Amount")
	require.NotNil(t, chart)
	assert.Len(t, chart.Series, 2)
}

func TestDescribe(t *testing.T) {
	result := sampleResult(t)
	text := Describe(result, "en")
	assert.True(t, strings.HasPrefix(text, "2 categories over 2024-01 – 2024-02"), text)
	assert.Contains(t, text, "2 subtotals")
	assert.Contains(t, text, "closing Amount 1,170.50")

	assert.Equal(t, "No data", DerivePeriod(nil))
	assert.Equal(t, "No data available to summarise.", Describe(nil, ""))
}
