package tblfill

import "fmt"

// ParseError is returned when a label text contains no valid annotation line.
type ParseError struct {
	Lines int // The number of lines that were read.
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("no valid annotation in %d lines", e.Lines)
}

// ClassificationError is returned when the roles of the classes cannot be inferred.
type ClassificationError struct {
	Classes int // The number of distinct classes found.
	Reason  string
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("cannot classify %d label classes: %s", e.Classes, e.Reason)
}

// InsufficientDataError is returned when fewer than two data rows are annotated, so that no
// row pitch can be measured.
type InsufficientDataError struct {
	Rows int // The number of rows detected.
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("need at least two annotated data rows, found %d", e.Rows)
}

// WarningKind identifies a non-fatal condition found while filling a table.
type WarningKind int

// The known warning kinds.
const (
	WarnDegeneratePitch WarningKind = iota + 1 // The row pitch is <= 0; no rows are generated.
	WarnHeaderAsData                           // No data class besides the header.
	WarnDegenerateTable                        // The table edge is not finite; no rows are generated.
)

func (k WarningKind) String() string {
	switch k {
	case WarnDegeneratePitch:
		return "degenerate-pitch"
	case WarnHeaderAsData:
		return "header-as-data"
	case WarnDegenerateTable:
		return "degenerate-table"
	}
	return "unknown"
}

// Warning is a non-fatal finding attached to a Result.
type Warning struct {
	Kind    WarningKind
	Message string
}

func (w Warning) String() string {
	return w.Kind.String() + ": " + w.Message
}
