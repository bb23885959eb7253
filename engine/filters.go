package engine

import (
	"strings"
)

// ============================================================================
// FILTERS — category-level filtering via RowView
// ============================================================================
// Single-pass filter: checks ALL level constraints per row in one loop.
// Returns a SubView (index list into parent); no row data is copied.
// ============================================================================

// Filters restrict rows by category label. Keys are zero-based levels.
// OR within a level, AND across levels. Empty = all.
type Filters struct {
	Levels map[int][]string `json:"levels" yaml:"levels"`
}

// IsEmpty returns true if no filters are set.
func (f Filters) IsEmpty() bool {
	for _, vals := range f.Levels {
		if len(vals) > 0 {
			return false
		}
	}
	return true
}

// ApplyFilters returns a view of rows whose localized category labels match
// every level filter. Matching is case-insensitive. Levels the layout does not
// have are ignored.
func ApplyFilters(view RowView, layout ColumnLayout, filters Filters, types []FieldType, loc Localizer, lang string) RowView {
	if filters.IsEmpty() {
		return view
	}
	if loc == nil {
		loc = DefaultLocalizer{}
	}

	sets := make(map[int]map[string]bool)
	for level, allowed := range filters.Levels {
		if len(allowed) > 0 && level >= 0 && level < layout.CategoryLevels {
			sets[level] = toLowerSet(allowed)
		}
	}
	if len(sets) == 0 {
		return view
	}

	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		row := view.Row(i)
		pass := true
		for level, set := range sets {
			label := levelLabel(row[layout.categoryIndex(level)], fieldTypeAt(types, level), loc, lang)
			if !set[strings.ToLower(label)] {
				pass = false
				break
			}
		}
		if pass {
			indices = append(indices, i)
		}
	}

	return newSubView(view, indices)
}

// toLowerSet converts a string slice to a lowercase lookup set.
func toLowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = true
	}
	return set
}
