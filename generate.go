package tblfill

// Extrapolation of rows down to the bottom of the table.

import "math"

// GeneratorState is the state of a Generator.
type GeneratorState int

// The generator states.
const (
	Generating GeneratorState = iota
	Done
)

func (s GeneratorState) String() string {
	if s == Done {
		return "done"
	}
	return "generating"
}

// Generator produces rows below a template row, one pitch apart, until the next row would reach
// the bottom edge of the table.
//
// Each generated row keeps the X, W and H of every cell of the template. A row is emitted only if
// the bottom edge of its leftmost cell lies strictly above the table's bottom edge.
type Generator struct {
	template   Row
	pitch      float64
	limit      float64 // The table's bottom edge.
	state      GeneratorState
	iterations int
}

// NewGenerator returns a Generator that starts below template. A non-positive or non-finite
// pitch, a non-finite table edge or an empty template yields a Generator that is Done from the
// start.
func NewGenerator(template Row, pitch float64, table Box) *Generator {
	g := &Generator{
		template: template,
		pitch:    pitch,
		limit:    table.Bottom(),
	}
	if !(pitch > 0) || !isFinite(pitch) || !isFinite(g.limit) || len(template) == 0 {
		g.state = Done
	}
	return g
}

// State returns the current state.
func (g *Generator) State() GeneratorState {
	return g.state
}

// Iterations returns the number of candidate rows built so far, including the rejected one.
func (g *Generator) Iterations() int {
	return g.iterations
}

// Step builds the next candidate row. It returns the row and true if the row fits in the table,
// or nil and false once the Generator is Done.
func (g *Generator) Step() (Row, bool) {
	if g.state == Done {
		return nil, false
	}

	g.iterations++
	candidate := make(Row, len(g.template))
	for i, b := range g.template {
		candidate[i] = b.shifted(g.pitch)
	}

	// Stop at the table edge, and when the pitch is too small to move the row at all.
	rep := candidate.representative()
	if rep.Bottom() >= g.limit || rep.Y == g.template.representative().Y {
		g.state = Done
		return nil, false
	}

	g.template = candidate
	return candidate, true
}

// Run steps until Done and returns the emitted rows.
func (g *Generator) Run() []Row {
	var rows []Row
	for {
		row, ok := g.Step()
		if !ok {
			return rows
		}
		rows = append(rows, row)
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
