package dataset

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyDataset is returned when a source parses cleanly but contains
// zero data rows. An empty table has no meaningful KPI or ranking, so it
// is rejected at load time rather than handed downstream.
var ErrEmptyDataset = errors.New("dataset contains no rows")

// ErrUnknownColumn is returned when a caller names a column that is not
// part of the schema. Wrapped errors carry the offending name.
var ErrUnknownColumn = errors.New("unknown column")

// TypeViolation records one cell whose value could not be converted to
// the column's declared kind.
type TypeViolation struct {
	Column string
	Row    int // 1-based data row number, excluding the header
	Value  string
}

func (v TypeViolation) String() string {
	return fmt.Sprintf("%s row %d: %q", v.Column, v.Row, v.Value)
}

// SchemaViolation is the fatal load-time error: the table is missing
// required columns, or required cells hold values of the wrong type.
// Nothing downstream runs when one is returned.
type SchemaViolation struct {
	Missing  []string
	BadTypes []TypeViolation
}

func (e *SchemaViolation) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", ")))
	}
	if len(e.BadTypes) > 0 {
		samples := make([]string, 0, len(e.BadTypes))
		for _, v := range e.BadTypes {
			samples = append(samples, v.String())
		}
		parts = append(parts, fmt.Sprintf("incompatible values: %s", strings.Join(samples, "; ")))
	}
	if len(parts) == 0 {
		return "schema violation"
	}
	return "schema violation: " + strings.Join(parts, "; ")
}

// UnknownColumnError wraps ErrUnknownColumn with the requested name.
func UnknownColumnError(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownColumn, name)
}
