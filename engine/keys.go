package engine

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ============================================================================
// CATEGORY KEYS — per-level labels and the composite key
// ============================================================================

// Localizer turns a display value into a label for a language tag.
type Localizer interface {
	Localize(v any, lang string) string
}

// LocalizerFunc adapts a function to Localizer.
type LocalizerFunc func(v any, lang string) string

func (f LocalizerFunc) Localize(v any, lang string) string { return f(v, lang) }

// DefaultLocalizer passes strings through, prints dates as 2006-01-02 and
// formats numbers with the language's grouping rules.
type DefaultLocalizer struct{}

func (DefaultLocalizer) Localize(v any, lang string) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		return x.Format(dateLayout)
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return printerFor(lang).Sprint(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func printerFor(lang string) *message.Printer {
	tag := language.English
	if lang != "" {
		if t, err := language.Parse(lang); err == nil {
			tag = t
		}
	}
	return message.NewPrinter(tag)
}

// BuildCategoryKey derives the composite key and per-level labels of a row.
// types may be shorter than the number of levels; missing entries are text.
func BuildCategoryKey(row Row, layout ColumnLayout, types []FieldType, loc Localizer, lang string) (CategoryKey, []string) {
	labels := make([]string, layout.CategoryLevels)
	for level := 0; level < layout.CategoryLevels; level++ {
		labels[level] = levelLabel(row[layout.categoryIndex(level)], fieldTypeAt(types, level), loc, lang)
	}
	return CategoryKey(strings.Join(labels, KeySeparator)), labels
}

func levelLabel(c Cell, ft FieldType, loc Localizer, lang string) string {
	v := c.Display()
	if ft == FieldTimestamp {
		if t, ok := toTime(v); ok {
			v = t
		}
	}
	return loc.Localize(v, lang)
}

func fieldTypeAt(types []FieldType, level int) FieldType {
	if level < len(types) {
		return types[level]
	}
	return FieldText
}

// ============================================================================
// PERIODS
// ============================================================================

// PeriodParser coerces a period cell to a sortable Period.
type PeriodParser func(c Cell) (Period, error)

const dateLayout = "2006-01-02"

var periodLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	dateLayout,
	"2006-01",
	"Jan-2006",
	"January 2006",
	"Jan 2006",
	"2006",
}

// ParsePeriod is the default PeriodParser. String labels are kept verbatim;
// the sort key is derived from the first layout that parses.
func ParsePeriod(c Cell) (Period, error) {
	if c.IsEmpty() {
		return Period{}, ErrInvalidPeriod
	}
	switch v := c.Display().(type) {
	case time.Time:
		return Period{Label: v.Format(dateLayout), Key: v.Unix()}, nil
	case string:
		label := strings.TrimSpace(v)
		if label == "" {
			return Period{}, ErrInvalidPeriod
		}
		return Period{Label: label, Key: periodKey(label)}, nil
	default:
		f, ok := toFloat(v)
		if !ok {
			return Period{}, fmt.Errorf("%w: %v", ErrInvalidPeriod, v)
		}
		return Period{Label: strconv.FormatFloat(f, 'f', -1, 64), Key: int64(f)}, nil
	}
}

func periodKey(label string) int64 {
	if t, ok := parseQuarter(label); ok {
		return t.Unix()
	}
	for _, layout := range periodLayouts {
		if t, err := time.Parse(layout, label); err == nil {
			return t.Unix()
		}
	}
	if n, err := strconv.ParseInt(label, 10, 64); err == nil {
		return n
	}
	return 0
}

// parseQuarter handles "Q1-2026" and "Q1 2026".
func parseQuarter(s string) (time.Time, bool) {
	if len(s) != 7 || s[0] != 'Q' || (s[2] != '-' && s[2] != ' ') {
		return time.Time{}, false
	}
	q := int(s[1] - '0')
	if q < 1 || q > 4 {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(s[3:])
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(3*(q-1)+1), 1, 0, 0, 0, 0, time.UTC), true
}

func lessPeriod(a, b Period) bool {
	if a.Key != b.Key {
		return a.Key < b.Key
	}
	return a.Label < b.Label
}

// ============================================================================
// VALUE COERCION
// ============================================================================

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, !math.IsNaN(x)
	case float32:
		return float64(x), !math.IsNaN(float64(x))
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(x, ",", ""))
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil && !math.IsNaN(f)
	}
	return 0, false
}

// toTime accepts time values, date strings and unix seconds or milliseconds.
func toTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range periodLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	}
	f, ok := toFloat(v)
	if !ok {
		return time.Time{}, false
	}
	// Anything past year 5138 in seconds is taken as milliseconds.
	if math.Abs(f) >= 1e11 {
		return time.UnixMilli(int64(f)).UTC(), true
	}
	return time.Unix(int64(f), 0).UTC(), true
}
