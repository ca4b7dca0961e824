package tblfill

import "fmt"

// Config holds the options of Fill.
type Config struct {
	Tolerance  float64    // Row grouping tolerance in normalised units. Non-positive uses the default.
	PitchMode  PitchMode  // How to measure the row pitch.
	Classifier Classifier // Role inference strategy. Nil uses StatisticalClassifier.
	Format     Format     // The output format used by WriteResult.
}

// DefaultConfig returns a Config with the default tolerance, averaged pitch and the statistical
// classifier falling back to the largest box as table.
func DefaultConfig() Config {
	return Config{
		Tolerance:  DefaultTolerance,
		PitchMode:  PitchAverage,
		Classifier: StatisticalClassifier{Fallback: FallbackLargestBox},
		Format:     FormatAppend,
	}
}

// Result is the outcome of filling one annotated table.
type Result struct {
	Set       AnnotationSet // The parsed input. Not modified.
	Layout    *Layout       // The inferred roles and table boundary.
	Rows      []Row         // The annotated data rows, top to bottom.
	Pitch     float64       // The row pitch.
	Generated []Row         // The new rows, top to bottom.
	Warnings  []Warning
}

// OutputClass is the class id given to generated boxes: the data class with the most boxes, the
// lowest id on ties.
func (r *Result) OutputClass() ClassID {
	best := r.Layout.Roles.Data[0]
	for _, id := range r.Layout.Roles.Data[1:] {
		if len(r.Set[id]) > len(r.Set[best]) {
			best = id
		}
	}
	return best
}

// NumGenerated is the number of generated boxes.
func (r *Result) NumGenerated() int {
	n := 0
	for _, row := range r.Generated {
		n += len(row)
	}
	return n
}

// Fill parses annotation text, infers the table layout and generates the missing data rows below
// the last annotated one.
//
// Either a complete Result or an error is returned. The error is a *ParseError,
// *ClassificationError or *InsufficientDataError. A non-positive pitch is not an error: the
// Result then has no generated rows and a WarnDegeneratePitch warning.
func Fill(text string, cfg Config) (*Result, error) {
	set, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return FillSet(set, cfg)
}

// FillSet works like Fill on an already parsed annotation set.
func FillSet(set AnnotationSet, cfg Config) (*Result, error) {
	classifier := cfg.Classifier
	if classifier == nil {
		classifier = StatisticalClassifier{}
	}
	tolerance := cfg.Tolerance
	if !(tolerance > 0) || !isFinite(tolerance) {
		tolerance = DefaultTolerance
	}

	layout, err := classifier.Classify(set)
	if err != nil {
		return nil, err
	}

	rows, err := GroupRows(layout.Data, tolerance)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Set:      set,
		Layout:   layout,
		Rows:     rows,
		Pitch:    EstimatePitch(rows, cfg.PitchMode),
		Warnings: append([]Warning(nil), layout.Warnings...),
	}

	g := NewGenerator(rows[len(rows)-1], res.Pitch, layout.Table)
	switch {
	case !(res.Pitch > 0) || !isFinite(res.Pitch):
		res.Warnings = append(res.Warnings, Warning{
			Kind:    WarnDegeneratePitch,
			Message: fmt.Sprintf("row pitch %v is not positive, no rows generated", res.Pitch),
		})
	case g.State() == Done:
		res.Warnings = append(res.Warnings, Warning{
			Kind:    WarnDegenerateTable,
			Message: fmt.Sprintf("table bottom edge %v is not finite, no rows generated", layout.Table.Bottom()),
		})
	}
	res.Generated = g.Run()

	return res, nil
}

// Merged returns the input set with the generated boxes added under OutputClass. The input set is
// left unchanged.
func (r *Result) Merged() AnnotationSet {
	out := make(AnnotationSet, len(r.Set))
	for id, boxes := range r.Set {
		out[id] = append([]Box(nil), boxes...)
	}
	id := r.OutputClass()
	for _, row := range r.Generated {
		out[id] = append(out[id], row...)
	}
	return out
}

// The role names used by exporters.
const (
	RoleTable  = "table"
	RoleHeader = "header"
	RoleData   = "data"
)

// LabeledBox is a box tagged with its inferred role.
type LabeledBox struct {
	Box
	Role      string
	Generated bool // Produced by Fill rather than annotated.
}

// Labeled lists the table, header, data and generated boxes with their role names, in that
// order. Header boxes that double as data are listed once, as data.
func (r *Result) Labeled() []LabeledBox {
	l := r.Layout
	out := make([]LabeledBox, 0, 1+len(l.Header)+len(l.Data)+r.NumGenerated())
	out = append(out, LabeledBox{Box: l.Table, Role: RoleTable})
	if !l.Roles.HeaderAsData {
		for _, b := range l.Header {
			out = append(out, LabeledBox{Box: b, Role: RoleHeader})
		}
	}
	for _, b := range l.Data {
		out = append(out, LabeledBox{Box: b, Role: RoleData})
	}
	for _, row := range r.Generated {
		for _, b := range row {
			out = append(out, LabeledBox{Box: b, Role: RoleData, Generated: true})
		}
	}
	return out
}
