package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// ============================================================================
// AGGREGATORS — records, cumulative columns, subtotals and the grand total
// ============================================================================
// One pivot value per Execute call. Nothing here outlives the call.
// ============================================================================

type pivot struct {
	cfg    *config
	layout ColumnLayout
	types  []FieldType
	lang   string

	inputMeasures []string // bound measure labels
	measures      []string // inputMeasures plus Gap when derived

	periods     []Period
	periodIndex map[string]int

	leaves   []*SummaryRecord
	byKey    map[CategoryKey]*SummaryRecord
	warnings []Warning
}

func newPivot(cfg *config, layout ColumnLayout, spec Spec) *pivot {
	labels := measureLabels(spec.Measures, layout.MeasureCount)
	measures := append([]string(nil), labels...)
	if layout.MeasureCount == 2 {
		measures = append(measures, GapLabel)
	}
	return &pivot{
		cfg:           cfg,
		layout:        layout,
		types:         spec.CategoryTypes,
		lang:          spec.Language,
		inputMeasures: labels,
		measures:      measures,
		periodIndex:   make(map[string]int),
		byKey:         make(map[CategoryKey]*SummaryRecord),
	}
}

// measureLabels pads or trims the caller's labels to the bound measure count.
func measureLabels(given []string, count int) []string {
	labels := make([]string, count)
	for i := range labels {
		if i < len(given) && strings.TrimSpace(given[i]) != "" {
			labels[i] = given[i]
		} else {
			labels[i] = fmt.Sprintf("Measure %d", i+1)
		}
	}
	return labels
}

func (p *pivot) warn(kind WarningKind, row int, format string, args ...any) {
	p.warnings = append(p.warnings, Warning{Kind: kind, Row: row, Message: fmt.Sprintf(format, args...)})
}

// ============================================================================
// RECORD AGGREGATION
// ============================================================================

// aggregate folds every row into the leaf record for its category key.
// Later rows overwrite earlier values for the same (category, period) pair.
func (p *pivot) aggregate(view RowView) error {
	for i := 0; i < view.Len(); i++ {
		row := view.Row(i)

		period, err := p.cfg.PeriodParser(row[0])
		if err != nil {
			return newLayoutError(i, err, "period cell cannot be parsed")
		}
		if _, seen := p.periodIndex[period.Label]; !seen {
			p.periodIndex[period.Label] = len(p.periods)
			p.periods = append(p.periods, period)
		}

		key, labels := BuildCategoryKey(row, p.layout, p.types, p.cfg.Localizer, p.lang)
		rec, ok := p.byKey[key]
		if !ok {
			rec = newRecord(key, labels, KindLeaf)
			if p.layout.HasOrder {
				if o, ok := toFloat(row[p.layout.orderIndex()].Value); ok {
					rec.Order = o
					rec.HasOrder = true
				}
			}
			p.byKey[key] = rec
			p.leaves = append(p.leaves, rec)
		}

		values := make([]float64, p.layout.MeasureCount)
		for m := 0; m < p.layout.MeasureCount; m++ {
			cell := row[p.layout.measureIndex(m)]
			v, ok := toFloat(cell.Value)
			if !ok {
				if cell.IsEmpty() {
					p.warn(WarnMissingValue, i, "%s: %s is empty, using 0", key, p.inputMeasures[m])
				} else {
					p.warn(WarnMissingValue, i, "%s: %s value %v is not numeric, using 0", key, p.inputMeasures[m], cell.Value)
				}
				v = 0
			}
			values[m] = v
			rec.Values[ColumnID{Period: period.Label, Measure: p.inputMeasures[m]}] = v
		}
		if p.layout.MeasureCount == 2 {
			rec.Values[ColumnID{Period: period.Label, Measure: GapLabel}] = values[1] - values[0]
		}
	}

	sort.SliceStable(p.periods, func(i, j int) bool { return lessPeriod(p.periods[i], p.periods[j]) })
	return nil
}

// ============================================================================
// CUMULATIVE COLUMNS
// ============================================================================

// cumulate zero-fills absent period values on every leaf and sums each
// measure across all periods into its Cumul column.
func (p *pivot) cumulate() {
	for _, rec := range p.leaves {
		for _, period := range p.periods {
			missing := false
			for _, m := range p.measures {
				id := ColumnID{Period: period.Label, Measure: m}
				if _, ok := rec.Values[id]; !ok {
					rec.Values[id] = 0
					missing = true
				}
			}
			if missing {
				p.warn(WarnMissingValue, -1, "%s: no values for period %s, using 0", rec.Key, period.Label)
			}
		}
		for _, m := range p.measures {
			rec.Cumul[m] = p.sumPeriods(rec, m)
		}
	}
}

// sumPeriods adds a measure across periods in period order.
func (p *pivot) sumPeriods(rec *SummaryRecord, measure string) float64 {
	var total float64
	for _, period := range p.periods {
		total += rec.Value(period.Label, measure)
	}
	return total
}

// SnapshotPolicy selects which period a balance row's Cumul reports.
type SnapshotPolicy int

const (
	SnapshotFirst SnapshotPolicy = iota
	SnapshotLast
)

// snapshotCumul replaces a record's running totals with one period's values:
// balance rows report a point-in-time figure, not a flow.
func (p *pivot) snapshotCumul(rec *SummaryRecord, policy SnapshotPolicy) {
	if len(p.periods) == 0 {
		return
	}
	period := p.periods[0]
	if policy == SnapshotLast {
		period = p.periods[len(p.periods)-1]
	}
	for _, m := range p.measures {
		rec.Cumul[m] = rec.Value(period.Label, m)
	}
}

// ============================================================================
// ROLLUPS
// ============================================================================

func (p *pivot) zeroed(key CategoryKey, labels []string, kind RecordKind) *SummaryRecord {
	rec := newRecord(key, labels, kind)
	for _, period := range p.periods {
		for _, m := range p.measures {
			rec.Values[ColumnID{Period: period.Label, Measure: m}] = 0
		}
	}
	for _, m := range p.measures {
		rec.Cumul[m] = 0
	}
	return rec
}

func (p *pivot) addInto(dst, src *SummaryRecord) {
	for _, period := range p.periods {
		for _, m := range p.measures {
			dst.Values[ColumnID{Period: period.Label, Measure: m}] += src.Value(period.Label, m)
		}
	}
	for _, m := range p.measures {
		dst.Cumul[m] += src.Cumul[m]
	}
}

func repeatLabel(label string, n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = label
	}
	return labels
}

// subtotals builds one rollup per top-level label, skipping boundary labels.
// The rollup label collects every non-boundary leaf; any other label collects
// the leaves filed under it. Boundary leaves then get first-period snapshots.
func (p *pivot) subtotals(topOrder []string) []*SummaryRecord {
	if p.layout.CategoryLevels < 2 {
		return nil
	}

	boundary := make(map[string]bool, len(p.cfg.BoundaryLabels))
	for _, b := range p.cfg.BoundaryLabels {
		boundary[b] = true
	}

	subs := make([]*SummaryRecord, 0, len(topOrder))
	for _, top := range topOrder {
		if boundary[top] {
			continue
		}
		crossCutting := p.cfg.RollupLabel != "" && top == p.cfg.RollupLabel
		sub := p.zeroed(CategoryKey(top), repeatLabel(top, p.layout.CategoryLevels), KindSubtotal)
		for _, leaf := range p.leaves {
			label := leaf.Label(0)
			if crossCutting {
				if boundary[label] {
					continue
				}
			} else if label != top {
				continue
			}
			p.addInto(sub, leaf)
		}
		subs = append(subs, sub)
	}

	for _, leaf := range p.leaves {
		if boundary[leaf.Label(0)] {
			p.snapshotCumul(leaf, SnapshotFirst)
		}
	}
	return subs
}

// grandTotal sums every leaf. Its Cumul columns report the last period.
func (p *pivot) grandTotal() *SummaryRecord {
	label := p.cfg.GrandTotalLabel
	labels := repeatLabel(label, p.layout.CategoryLevels)
	key := CategoryKey(strings.Join(labels, KeySeparator))
	if len(labels) == 0 {
		key = CategoryKey(label)
	}
	gt := p.zeroed(key, labels, KindGrandTotal)
	gt.Order = math.Inf(1)
	gt.HasOrder = true
	for _, leaf := range p.leaves {
		p.addInto(gt, leaf)
	}
	p.snapshotCumul(gt, SnapshotLast)
	return gt
}

// ============================================================================
// COLUMN SCHEMA
// ============================================================================

// columns lists period × measure blocks in period order, then the Cumul block.
func (p *pivot) columns() []Column {
	cols := make([]Column, 0, (len(p.periods)+1)*len(p.measures))
	for _, period := range p.periods {
		for _, m := range p.measures {
			cols = append(cols, newColumn(period.Label, m, false))
		}
	}
	for _, m := range p.measures {
		cols = append(cols, newColumn(CumulLabel, m, true))
	}
	return cols
}

// SumColumn sums one schema column over a set of records.
func SumColumn(records []SummaryRecord, col Column) float64 {
	var total float64
	for i := range records {
		total += records[i].Get(col)
	}
	return total
}

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
