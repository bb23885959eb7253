package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCategoryKey(t *testing.T) {
	layout := ColumnLayout{HasOrder: true, CategoryLevels: 2, MeasureCount: 1}
	r := row("2024-01", 1, Named("Revenue", 17), Cell{Label: "Sales"}, 10)

	key, labels := BuildCategoryKey(r, layout, nil, DefaultLocalizer{}, "en")
	assert.Equal(t, CategoryKey("Revenue || Sales"), key)
	assert.Equal(t, []string{"Revenue", "Sales"}, labels)
}

func TestBuildCategoryKeyFallsBackToID(t *testing.T) {
	layout := ColumnLayout{CategoryLevels: 1, MeasureCount: 1}
	key, _ := BuildCategoryKey(row("2024-01", Cell{ID: "acct-7", Value: 7}, 1), layout, nil, DefaultLocalizer{}, "")
	assert.Equal(t, CategoryKey("acct-7"), key)
}

func TestBuildCategoryKeyTimestampLevels(t *testing.T) {
	layout := ColumnLayout{CategoryLevels: 2, MeasureCount: 1}
	types := []FieldType{FieldTimestamp, FieldTimestamp}

	_, labels := BuildCategoryKey(row("2024-01", "2024-03-05T10:00:00Z", int64(1709632800), 1), layout, types, DefaultLocalizer{}, "en")
	assert.Equal(t, []string{"2024-03-05", "2024-03-05"}, labels)
}

func TestBuildCategoryKeyLevelsAreIndependent(t *testing.T) {
	layout := ColumnLayout{CategoryLevels: 2, MeasureCount: 1}
	_, a := BuildCategoryKey(row("p", "x", "y", 1), layout, nil, DefaultLocalizer{}, "")
	_, b := BuildCategoryKey(row("p", "x", "z", 1), layout, nil, DefaultLocalizer{}, "")
	assert.Equal(t, a[0], b[0])
	assert.NotEqual(t, a[1], b[1])
}

func TestCustomLocalizer(t *testing.T) {
	upper := LocalizerFunc(func(v any, lang string) string {
		if lang == "fr" {
			return "fr:" + DefaultLocalizer{}.Localize(v, lang)
		}
		return DefaultLocalizer{}.Localize(v, lang)
	})
	layout := ColumnLayout{CategoryLevels: 1, MeasureCount: 1}
	key, _ := BuildCategoryKey(row("p", "Ventes", 1), layout, nil, upper, "fr")
	assert.Equal(t, CategoryKey("fr:Ventes"), key)
}

func TestDefaultLocalizer(t *testing.T) {
	loc := DefaultLocalizer{}
	assert.Equal(t, "", loc.Localize(nil, "en"))
	assert.Equal(t, "Revenue", loc.Localize("Revenue", "en"))
	assert.Equal(t, "2024-02-29", loc.Localize(time.Date(2024, 2, 29, 13, 0, 0, 0, time.UTC), "en"))
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in    Cell
		label string
	}{
		{Scalar("2024-01"), "2024-01"},
		{Scalar(" Jan-2024 "), "Jan-2024"},
		{Scalar("Q2-2024"), "Q2-2024"},
		{Scalar(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)), "2024-05-01"},
		{Scalar(2024), "2024"},
		{Named("FY24", "x"), "FY24"},
	}
	for _, tt := range tests {
		p, err := ParsePeriod(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.label, p.Label)
	}
}

func TestParsePeriodOrdering(t *testing.T) {
	labels := []string{"Q1-2024", "Apr-2024", "2024-05", "2024-06-15", "2025"}
	var prev Period
	for i, l := range labels {
		p, err := ParsePeriod(Scalar(l))
		require.NoError(t, err)
		if i > 0 {
			assert.True(t, lessPeriod(prev, p), "%s should sort before %s", prev.Label, p.Label)
		}
		prev = p
	}
}

func TestParsePeriodRejectsEmpty(t *testing.T) {
	_, err := ParsePeriod(Scalar(""))
	assert.True(t, errors.Is(err, ErrInvalidPeriod))
	_, err = ParsePeriod(Cell{})
	assert.True(t, errors.Is(err, ErrInvalidPeriod))
}

func TestToFloat(t *testing.T) {
	for in, want := range map[any]float64{
		"1,234.5":  1234.5,
		int64(7):   7,
		float32(2): 2,
		uint8(3):   3,
	} {
		got, ok := toFloat(in)
		assert.True(t, ok, "%v", in)
		assert.Equal(t, want, got)
	}
	_, ok := toFloat("abc")
	assert.False(t, ok)
	_, ok = toFloat(nil)
	assert.False(t, ok)
}
