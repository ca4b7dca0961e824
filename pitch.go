package tblfill

import "fmt"

// PitchMode selects how the row pitch is measured.
type PitchMode int

// The pitch estimation modes.
const (
	PitchAverage  PitchMode = iota // Mean gap over all consecutive row pairs.
	PitchFirstGap                  // Gap between the first two rows only.
)

func (m PitchMode) String() string {
	switch m {
	case PitchAverage:
		return "average"
	case PitchFirstGap:
		return "first"
	}
	return "unknown"
}

// ParsePitchMode parses the String form of a PitchMode.
func ParsePitchMode(s string) (PitchMode, error) {
	switch s {
	case "average", "":
		return PitchAverage, nil
	case "first":
		return PitchFirstGap, nil
	}
	return 0, fmt.Errorf("unknown pitch mode %q", s)
}

// EstimatePitch returns the vertical distance between consecutive rows, measured on the first
// box of each row. The result is positive for rows ordered top to bottom. It returns zero for
// fewer than two rows.
func EstimatePitch(rows []Row, mode PitchMode) float64 {
	if len(rows) < 2 {
		return 0
	}

	gap := func(i int) float64 {
		return rows[i+1].representative().Y - rows[i].representative().Y
	}

	if mode == PitchFirstGap {
		return gap(0)
	}

	var sum float64
	for i := 0; i < len(rows)-1; i++ {
		sum += gap(i)
	}
	return sum / float64(len(rows)-1)
}
