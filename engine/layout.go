package engine

// ============================================================================
// LAYOUT RESOLVER — slot bindings → ColumnLayout
// ============================================================================
// Slots describe how many fields the host bound to each role. The resolver
// checks them against a sample row; every other row is checked by Validate.
// ============================================================================

// MinRowWidth is the fewest cells a row can have: period, category, measure.
const MinRowWidth = 3

// Slots counts the fields bound to each role.
type Slots struct {
	Time     int  `json:"time" yaml:"time"`
	Order    int  `json:"order" yaml:"order"`
	Category int  `json:"category" yaml:"category"`
	Columns  int  `json:"columns" yaml:"columns"`
	Measure  int  `json:"measure" yaml:"measure"`
	TwoLevel bool `json:"twoLevel" yaml:"two_level"`
}

func (s Slots) isZero() bool {
	return s.Time == 0 && s.Order == 0 && s.Category == 0 && s.Columns == 0 && s.Measure == 0
}

// ResolveLayout derives the ColumnLayout for a dataset from its slot bindings
// and one sample row.
func ResolveLayout(slots Slots, sample Row) (ColumnLayout, error) {
	if len(sample) < MinRowWidth {
		return ColumnLayout{}, newLayoutError(-1, ErrInsufficientColumns,
			"row has %d cells, need at least %d", len(sample), MinRowWidth)
	}

	if slots.isZero() {
		// Nothing bound: period first, one measure last, categories between.
		return ColumnLayout{CategoryLevels: len(sample) - 2, MeasureCount: 1}, nil
	}

	layout := ColumnLayout{
		HasOrder:       slots.Order > 0,
		CategoryLevels: slots.Category + slots.Columns,
		MeasureCount:   slots.Measure,
	}
	if layout.MeasureCount < 1 {
		return ColumnLayout{}, newLayoutError(-1, ErrInsufficientColumns, "no measure bound")
	}

	if slots.TwoLevel && layout.CategoryLevels < 2 {
		fixed := 1 + layout.MeasureCount
		if layout.HasOrder {
			fixed++
		}
		maxCatsFromData := len(sample) - fixed
		levels := 2
		if maxCatsFromData < levels {
			levels = maxCatsFromData
		}
		if levels < 1 {
			levels = 1
		}
		layout.CategoryLevels = levels
	}

	if err := layout.Validate(sample); err != nil {
		return ColumnLayout{}, err
	}
	return layout, nil
}

// Validate checks that a row matches the layout.
func (l ColumnLayout) Validate(row Row) error {
	return l.validateAt(-1, row)
}

func (l ColumnLayout) validateAt(index int, row Row) error {
	if len(row) < MinRowWidth {
		return newLayoutError(index, ErrInsufficientColumns,
			"row has %d cells, need at least %d", len(row), MinRowWidth)
	}
	if l.MeasureCount < 1 {
		return newLayoutError(index, ErrInsufficientColumns, "layout has no measures")
	}
	if len(row) != l.Width() {
		return newLayoutError(index, ErrLayoutMismatch,
			"row has %d cells, layout expects %d (order=%t, categories=%d, measures=%d)",
			len(row), l.Width(), l.HasOrder, l.CategoryLevels, l.MeasureCount)
	}
	return nil
}
