package helpers

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/spektr-org/pivot/engine"
)

func writeLedgerWorkbook(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.xlsx")

	f := excelize.NewFile()
	defer f.Close()
	rows := [][]any{
		{"Month", "Section", "Line", "Amount"},
		{"2024-01", "Revenue", "Sales", 100},
		{"2024-01", "Costs", "Rent", -40},
		{"2024-02", "Revenue", "Sales", 60.5},
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadXLSX(t *testing.T) {
	path := writeLedgerWorkbook(t)

	rows, err := ReadXLSX(path, "", ledgerSchema())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Costs", rows[1][1].Value)
	assert.Equal(t, 60.5, rows[2][3].Value)

	_, err = ReadXLSX(path, "Nope", ledgerSchema())
	assert.Error(t, err)
	_, err = ReadXLSX(filepath.Join(t.TempDir(), "missing.xlsx"), "", ledgerSchema())
	assert.Error(t, err)
}

func TestDiscoverXLSX(t *testing.T) {
	sch, err := DiscoverXLSX(writeLedgerWorkbook(t), "Sheet1")
	require.NoError(t, err)
	assert.Equal(t, "XLSX", sch.DiscoveredFrom)
	assert.Equal(t, "Month", sch.Time.Column)
	assert.Equal(t, []string{"Amount"}, sch.MeasureLabels())
}

func TestWriteXLSX(t *testing.T) {
	sch := ledgerSchema()
	rows, err := ReadXLSX(writeLedgerWorkbook(t), "", sch)
	require.NoError(t, err)
	result, err := engine.Execute(sch.Spec("en"), engine.NewSliceView(rows))
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "pivot.xlsx")
	require.NoError(t, WriteXLSX(out, result, engine.TableOptions{Decimals: 2, CategoryNames: sch.CategoryNames()}))

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows("Pivot", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, got, 1+len(result.Records))
	assert.Equal(t, []string{"Section", "line", "2024-01 Amount", "2024-02 Amount", "Cumul Amount"}, got[0])
	assert.Equal(t, []string{"Revenue", "Sales", "100", "60.5", "160.5"}, got[1])

	// Row 3 is the Revenue subtotal.
	styleID, err := f.GetCellStyle("Pivot", "A3")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
}
