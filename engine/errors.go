package engine

import (
	"errors"
	"fmt"
)

// Engine errors. LayoutError wraps the layout sentinels so callers can use
// errors.Is for the cause and errors.As for the offending row.
var (
	ErrEmptyInput          = errors.New("no data")
	ErrInsufficientColumns = errors.New("insufficient columns")
	ErrLayoutMismatch      = errors.New("layout does not match row")
	ErrInvalidPeriod       = errors.New("invalid period")
)

// LayoutError reports a row the resolved layout cannot describe. Callers show
// a "configuration incomplete" state instead of a partial table.
type LayoutError struct {
	Row    int // index into the input view, -1 for the sample row
	Reason string
	Err    error
}

func (e *LayoutError) Error() string {
	if e.Row >= 0 {
		return fmt.Sprintf("layout error at row %d: %s: %v", e.Row, e.Reason, e.Err)
	}
	return fmt.Sprintf("layout error: %s: %v", e.Reason, e.Err)
}

func (e *LayoutError) Unwrap() error { return e.Err }

func newLayoutError(row int, err error, format string, args ...any) *LayoutError {
	return &LayoutError{Row: row, Reason: fmt.Sprintf(format, args...), Err: err}
}

// IsLayoutError reports whether err is, or wraps, a *LayoutError.
func IsLayoutError(err error) bool {
	var le *LayoutError
	return errors.As(err, &le)
}

// IsEmptyInput reports whether err signals a run with zero rows.
func IsEmptyInput(err error) bool {
	return errors.Is(err, ErrEmptyInput)
}
