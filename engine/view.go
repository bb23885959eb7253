package engine

// ============================================================================
// ROW VIEW — Zero-Copy Data Access Interface
// ============================================================================
// The engine never owns consumer data. It reads through this interface.
//
// Implementations:
//   SliceView      — wraps []Row (CSV, XLSX, ad-hoc)
//   DomainView[T]  — builds rows from typed structs via accessor functions
//   SubView        — filtered subset (indices into parent, zero-copy)
// ============================================================================

// RowView provides indexed access to a dataset.
type RowView interface {
	Len() int
	Row(index int) Row
}

// ============================================================================
// SLICE VIEW
// ============================================================================

// SliceView wraps a []Row slice as a RowView.
type SliceView struct {
	rows []Row
}

// NewSliceView creates a RowView from a []Row slice.
func NewSliceView(rows []Row) RowView {
	return &SliceView{rows: rows}
}

func (v *SliceView) Len() int { return len(v.rows) }

func (v *SliceView) Row(i int) Row {
	if i < 0 || i >= len(v.rows) {
		return nil
	}
	return v.rows[i]
}

// ============================================================================
// SUB VIEW — filtered subset (zero-copy)
// ============================================================================

// SubView is a filtered subset of a parent RowView.
type SubView struct {
	parent  RowView
	indices []int
}

func newSubView(parent RowView, indices []int) RowView {
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) Row(i int) Row {
	if i < 0 || i >= len(v.indices) {
		return nil
	}
	return v.parent.Row(v.indices[i])
}

// ============================================================================
// DOMAIN ADAPTER — rows from typed structs
// ============================================================================
//
// Usage:
//
//	adapter := engine.NewDomainAdapter[Entry]().
//	    Period(func(e Entry) any { return e.Month }).
//	    Category(func(e Entry) any { return e.Section }).
//	    Category(func(e Entry) any { return e.Line }).
//	    Measure("Plan", func(e Entry) any { return e.Plan }).
//	    Measure("Actual", func(e Entry) any { return e.Actual })
//
//	view := adapter.Bind(entries)
//	result, _ := engine.Execute(adapter.Spec(), view, opts...)
//
// ============================================================================

// DomainAdapter builds a RowView from typed structs. Declare once, bind many times.
type DomainAdapter[T any] struct {
	period     func(T) any
	order      func(T) any
	categories []func(T) any
	catTypes   []FieldType
	measures   []func(T) any
	labels     []string
}

// NewDomainAdapter creates a new adapter for type T.
func NewDomainAdapter[T any]() *DomainAdapter[T] {
	return &DomainAdapter[T]{}
}

// Period registers the period accessor.
func (a *DomainAdapter[T]) Period(fn func(T) any) *DomainAdapter[T] {
	a.period = fn
	return a
}

// Order registers an explicit ordering accessor.
func (a *DomainAdapter[T]) Order(fn func(T) any) *DomainAdapter[T] {
	a.order = fn
	return a
}

// Category registers the accessor for the next category level.
func (a *DomainAdapter[T]) Category(fn func(T) any) *DomainAdapter[T] {
	a.categories = append(a.categories, fn)
	a.catTypes = append(a.catTypes, FieldText)
	return a
}

// TimestampCategory registers a category level whose values are dates.
func (a *DomainAdapter[T]) TimestampCategory(fn func(T) any) *DomainAdapter[T] {
	a.categories = append(a.categories, fn)
	a.catTypes = append(a.catTypes, FieldTimestamp)
	return a
}

// Measure registers a measure accessor under a display label.
func (a *DomainAdapter[T]) Measure(label string, fn func(T) any) *DomainAdapter[T] {
	a.measures = append(a.measures, fn)
	a.labels = append(a.labels, label)
	return a
}

// Slots reports the bindings this adapter produces.
func (a *DomainAdapter[T]) Slots() Slots {
	s := Slots{Time: 1, Category: len(a.categories), Measure: len(a.measures)}
	if a.order != nil {
		s.Order = 1
	}
	return s
}

// Spec returns a Spec describing the adapter's rows.
func (a *DomainAdapter[T]) Spec() Spec {
	return Spec{
		Slots:         a.Slots(),
		Measures:      append([]string(nil), a.labels...),
		CategoryTypes: append([]FieldType(nil), a.catTypes...),
	}
}

// Bind creates a RowView from a data slice. Holds a reference, no copy.
func (a *DomainAdapter[T]) Bind(data []T) RowView {
	return &DomainView[T]{data: data, adapter: a}
}

// DomainView reads typed struct fields via registered accessor functions.
type DomainView[T any] struct {
	data    []T
	adapter *DomainAdapter[T]
}

func (v *DomainView[T]) Len() int { return len(v.data) }

func (v *DomainView[T]) Row(i int) Row {
	if i < 0 || i >= len(v.data) {
		return nil
	}
	a, item := v.adapter, v.data[i]
	row := make(Row, 0, 2+len(a.categories)+len(a.measures))
	row = append(row, cellOf(a.period, item))
	if a.order != nil {
		row = append(row, cellOf(a.order, item))
	}
	for _, fn := range a.categories {
		row = append(row, cellOf(fn, item))
	}
	for _, fn := range a.measures {
		row = append(row, cellOf(fn, item))
	}
	return row
}

func cellOf[T any](fn func(T) any, item T) Cell {
	if fn == nil {
		return Cell{}
	}
	v := fn(item)
	if c, ok := v.(Cell); ok {
		return c
	}
	return Scalar(v)
}
