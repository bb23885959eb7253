package engine

import (
	"encoding/json"
	"fmt"
	"math"
)

// ============================================================================
// PIVOT ENGINE TYPES
// ============================================================================
// Input: rows of cells laid out as [period, order?, category_1..N, measure_1..M].
// Output: ordered SummaryRecords plus a column schema (period × measure, Cumul).
// ============================================================================

// KeySeparator joins per-level labels into a CategoryKey and period/measure
// pairs into wire column ids.
const KeySeparator = " || "

// Synthetic labels.
const (
	GapLabel        = "Gap"
	CumulLabel      = "Cumul"
	GrandTotalLabel = "Grand Total"
)

// ============================================================================
// CELL / ROW
// ============================================================================

// Cell is one value of an input row. Plain cells carry only Value; cells
// decoded from richer host objects also carry display names.
type Cell struct {
	Value any    `json:"value"`
	Name  string `json:"name,omitempty"`
	Label string `json:"label,omitempty"`
	ID    string `json:"id,omitempty"`
}

// Scalar wraps a raw value.
func Scalar(v any) Cell { return Cell{Value: v} }

// Named wraps a value with a display name.
func Named(name string, v any) Cell { return Cell{Name: name, Value: v} }

// Display returns the value to localize: name, label, id, then the raw value.
func (c Cell) Display() any {
	switch {
	case c.Name != "":
		return c.Name
	case c.Label != "":
		return c.Label
	case c.ID != "":
		return c.ID
	}
	return c.Value
}

// IsEmpty reports whether the cell carries nothing at all.
func (c Cell) IsEmpty() bool {
	if c.Name != "" || c.Label != "" || c.ID != "" {
		return false
	}
	switch v := c.Value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	}
	return false
}

// Row is one input row.
type Row []Cell

// ============================================================================
// LAYOUT
// ============================================================================

// FieldType is the declared type of a category level.
type FieldType int

const (
	FieldText FieldType = iota
	FieldTimestamp
)

// ColumnLayout maps positional cells to semantic fields.
type ColumnLayout struct {
	HasOrder       bool `json:"hasOrder"`
	CategoryLevels int  `json:"categoryLevels"`
	MeasureCount   int  `json:"measureCount"`
}

// Width is the number of cells every row must have.
func (l ColumnLayout) Width() int {
	w := 1 + l.CategoryLevels + l.MeasureCount
	if l.HasOrder {
		w++
	}
	return w
}

func (l ColumnLayout) orderIndex() int { return 1 }

func (l ColumnLayout) categoryIndex(level int) int {
	if l.HasOrder {
		return 2 + level
	}
	return 1 + level
}

func (l ColumnLayout) measureIndex(m int) int {
	return l.categoryIndex(l.CategoryLevels) + m
}

// ============================================================================
// PERIODS / COLUMNS
// ============================================================================

// Period is one position on the time axis.
type Period struct {
	Label string `json:"label"`
	Key   int64  `json:"key"`
}

// ColumnID addresses one value of a SummaryRecord.
type ColumnID struct {
	Period  string
	Measure string
}

func (id ColumnID) String() string { return id.Period + KeySeparator + id.Measure }

// Column is one entry of the column schema.
type Column struct {
	ID         ColumnID `json:"-"`
	Key        string   `json:"key"`
	Period     string   `json:"period"`
	Measure    string   `json:"measure"`
	Cumulative bool     `json:"cumulative,omitempty"`
}

func newColumn(period, measure string, cumulative bool) Column {
	id := ColumnID{Period: period, Measure: measure}
	return Column{ID: id, Key: id.String(), Period: period, Measure: measure, Cumulative: cumulative}
}

// ============================================================================
// SUMMARY RECORD
// ============================================================================

// CategoryKey identifies a leaf's category combination across all levels.
type CategoryKey string

// RecordKind classifies a record for presentation.
type RecordKind int

const (
	KindLeaf RecordKind = iota
	KindSubtotal
	KindGrandTotal
)

func (k RecordKind) String() string {
	switch k {
	case KindSubtotal:
		return "subtotal"
	case KindGrandTotal:
		return "grandtotal"
	default:
		return "leaf"
	}
}

// SummaryRecord is one output row of the pivot.
type SummaryRecord struct {
	Key      CategoryKey
	Labels   []string
	Order    float64
	HasOrder bool
	Kind     RecordKind
	Values   map[ColumnID]float64
	Cumul    map[string]float64
}

func newRecord(key CategoryKey, labels []string, kind RecordKind) *SummaryRecord {
	return &SummaryRecord{
		Key:    key,
		Labels: labels,
		Kind:   kind,
		Values: make(map[ColumnID]float64),
		Cumul:  make(map[string]float64),
	}
}

// Label returns the label at a zero-based level, or "" when out of range.
func (r *SummaryRecord) Label(level int) string {
	if level < 0 || level >= len(r.Labels) {
		return ""
	}
	return r.Labels[level]
}

// Value returns the value for a period and measure; missing values are 0.
func (r *SummaryRecord) Value(period, measure string) float64 {
	return r.Values[ColumnID{Period: period, Measure: measure}]
}

// Get returns the value of a schema column.
func (r *SummaryRecord) Get(c Column) float64 {
	if c.Cumulative {
		return r.Cumul[c.Measure]
	}
	return r.Values[c.ID]
}

func (r *SummaryRecord) IsLeaf() bool       { return r.Kind == KindLeaf }
func (r *SummaryRecord) IsSubtotal() bool   { return r.Kind == KindSubtotal }
func (r *SummaryRecord) IsGrandTotal() bool { return r.Kind == KindGrandTotal }

// MarshalJSON flattens the record into the string-keyed shape renderers consume:
// "category", "category-1".."category-N", "order", "subtotal", "grandtotal",
// "<period> || <measure>" and "Cumul || <measure>".
func (r SummaryRecord) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Values)+len(r.Cumul)+len(r.Labels)+4)
	out["category"] = string(r.Key)
	for i, l := range r.Labels {
		out[fmt.Sprintf("category-%d", i+1)] = l
	}
	if r.HasOrder {
		if math.IsInf(r.Order, 1) {
			// JSON has no infinity.
			out["order"] = math.MaxFloat64
		} else {
			out["order"] = r.Order
		}
	}
	if r.Kind == KindSubtotal {
		out["subtotal"] = true
	}
	if r.Kind == KindGrandTotal {
		out["grandtotal"] = true
	}
	for id, v := range r.Values {
		out[id.String()] = v
	}
	for m, v := range r.Cumul {
		out[CumulLabel+KeySeparator+m] = v
	}
	return json.Marshal(out)
}

// ============================================================================
// RESULT
// ============================================================================

// WarningKind names a non-fatal anomaly.
type WarningKind string

const (
	WarnMissingValue   WarningKind = "missing_value"
	WarnAmbiguousOrder WarningKind = "ambiguous_order"
)

// Warning is a non-fatal anomaly observed during a run.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Row     int         `json:"row"` // -1 when not tied to an input row
	Message string      `json:"message"`
}

// Result is the engine's render-ready output.
type Result struct {
	Title    string          `json:"title,omitempty"`
	Records  []SummaryRecord `json:"records"`
	Columns  []Column        `json:"columns"`
	Periods  []Period        `json:"periods"`
	Measures []string        `json:"measures"`
	Levels   int             `json:"levels"`

	// Orders holds the canonical display order of labels per category level.
	Orders   [][]string `json:"orders"`
	Warnings []Warning  `json:"warnings,omitempty"`
}

// Leaves returns the leaf records in output order.
func (r *Result) Leaves() []SummaryRecord {
	out := make([]SummaryRecord, 0, len(r.Records))
	for _, rec := range r.Records {
		if rec.IsLeaf() {
			out = append(out, rec)
		}
	}
	return out
}

// Subtotals returns the subtotal records in output order.
func (r *Result) Subtotals() []SummaryRecord {
	var out []SummaryRecord
	for _, rec := range r.Records {
		if rec.IsSubtotal() {
			out = append(out, rec)
		}
	}
	return out
}

// GrandTotal returns the grand-total record, or nil.
func (r *Result) GrandTotal() *SummaryRecord {
	for i := range r.Records {
		if r.Records[i].IsGrandTotal() {
			return &r.Records[i]
		}
	}
	return nil
}
