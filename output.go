package tblfill

// Serialisation of fill results.

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// Format is the output format of WriteResult.
type Format int

// The output formats.
const (
	FormatAppend   Format = iota // The input annotations followed by the generated ones.
	FormatSeparate               // Only the generated annotations.
	FormatJSON                   // The generated rows as JSON, see JSONResult.
)

func (f Format) String() string {
	switch f {
	case FormatAppend:
		return "append"
	case FormatSeparate:
		return "separate"
	case FormatJSON:
		return "json"
	}
	return "unknown"
}

// ParseFormat parses the String form of a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "append", "":
		return FormatAppend, nil
	case "separate":
		return FormatSeparate, nil
	case "json":
		return FormatJSON, nil
	}
	return 0, fmt.Errorf("unknown output format %q", s)
}

// FormatLine formats a box as a label line.
func FormatLine(id ClassID, b Box) string {
	return fmt.Sprintf("%d %.6f %.6f %.6f %.6f", id, b.X, b.Y, b.W, b.H)
}

// MarshalLines returns the label lines of set, by ascending class id.
func MarshalLines(set AnnotationSet) []string {
	lines := make([]string, 0, set.Len())
	for _, id := range set.Classes() {
		for _, b := range set[id] {
			lines = append(lines, FormatLine(id, b))
		}
	}
	return lines
}

// GeneratedLines returns the label lines of the generated rows, top to bottom.
func (r *Result) GeneratedLines() []string {
	id := r.OutputClass()
	lines := make([]string, 0, r.NumGenerated())
	for _, row := range r.Generated {
		for _, b := range row {
			lines = append(lines, FormatLine(id, b))
		}
	}
	return lines
}

// JSONResult is the JSON form of a Result.
type JSONResult struct {
	Roles struct {
		Table        *ClassID  `json:"table"` // Null if the table is synthesised.
		TableSource  string    `json:"table_source"`
		Header       ClassID   `json:"header"`
		Data         []ClassID `json:"data"`
		HeaderAsData bool      `json:"header_as_data,omitempty"`
	} `json:"roles"`
	Table       [4]float64     `json:"table"`
	OutputClass ClassID        `json:"output_class"`
	Pitch       float64        `json:"pitch"`
	Rows        [][][4]float64 `json:"rows"` // Generated rows of (x, y, w, h) cells.
	Warnings    []string       `json:"warnings,omitempty"`
}

// ToJSON converts r to its JSON form.
func (r *Result) ToJSON() JSONResult {
	var j JSONResult
	l := r.Layout
	if l.TableSource != TableSynthesized {
		id := l.Roles.Table
		j.Roles.Table = &id
	}
	j.Roles.TableSource = l.TableSource.String()
	j.Roles.Header = l.Roles.Header
	j.Roles.Data = l.Roles.Data
	j.Roles.HeaderAsData = l.Roles.HeaderAsData

	j.Table = [4]float64{l.Table.X, l.Table.Y, l.Table.W, l.Table.H}
	j.OutputClass = r.OutputClass()
	j.Pitch = r.Pitch
	j.Rows = make([][][4]float64, len(r.Generated))
	for i, row := range r.Generated {
		j.Rows[i] = make([][4]float64, len(row))
		for k, b := range row {
			j.Rows[i][k] = [4]float64{b.X, b.Y, b.W, b.H}
		}
	}
	for _, w := range r.Warnings {
		j.Warnings = append(j.Warnings, w.String())
	}
	return j
}

// WriteResult writes r to w in the given format.
func WriteResult(w io.Writer, r *Result, format Format) error {
	var lines []string
	switch format {
	case FormatAppend:
		lines = append(MarshalLines(r.Set), r.GeneratedLines()...)
	case FormatSeparate:
		lines = r.GeneratedLines()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r.ToJSON())
	default:
		return fmt.Errorf("unsupported output format %v", format)
	}

	bw := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return err
		}
	}
	return bw.Flush()
}
