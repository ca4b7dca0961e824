package tblfill

import (
	"math"
	"sort"
)

// DefaultTolerance is the default vertical distance, in normalised units, within which boxes
// belong to the same row.
const DefaultTolerance = 0.01

// GroupRows clusters boxes into rows ordered top to bottom, each ordered left to right.
//
// Boxes are visited by ascending (Y, X). A new row starts whenever the Y of a box differs from
// that of the last box added to the current row by more than tolerance. A row is therefore a
// chain: its first and last boxes may be further apart than tolerance.
//
// Returns an *InsufficientDataError if fewer than two rows are found.
func GroupRows(boxes []Box, tolerance float64) ([]Row, error) {
	if len(boxes) == 0 {
		return nil, &InsufficientDataError{Rows: 0}
	}

	sorted := make([]Box, len(boxes))
	copy(sorted, boxes)
	sort.Slice(sorted, func(i, j int) bool { return lessYX(sorted[i], sorted[j]) })

	var rows []Row
	current := Row{sorted[0]}
	for _, b := range sorted[1:] {
		if math.Abs(b.Y-current[len(current)-1].Y) > tolerance {
			rows = append(rows, sortRow(current))
			current = Row{b}
			continue
		}
		current = append(current, b)
	}
	rows = append(rows, sortRow(current))

	if len(rows) < 2 {
		return nil, &InsufficientDataError{Rows: len(rows)}
	}
	return rows, nil
}

// sortRow orders r by X in place and returns it.
func sortRow(r Row) Row {
	sort.Slice(r, func(i, j int) bool {
		if r[i].X != r[j].X {
			return r[i].X < r[j].X
		}
		return lessYX(r[i], r[j])
	})
	return r
}

// lessYX orders boxes by Y, then X. Width and height break the remaining ties so that the order
// never depends on the input order.
func lessYX(a, b Box) bool {
	switch {
	case a.Y != b.Y:
		return a.Y < b.Y
	case a.X != b.X:
		return a.X < b.X
	case a.W != b.W:
		return a.W < b.W
	}
	return a.H < b.H
}
