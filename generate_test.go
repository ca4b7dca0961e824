package tblfill

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_StopsAboveTableBottom(t *testing.T) {
	table := Box{X: 0.5, Y: 0.4809, W: 0.9049, H: 0.6277} // Bottom edge at 0.79475.
	template := Row{
		{X: 0.0935, Y: 0.2265, W: 0.0919, H: 0.0228},
		{X: 0.3880, Y: 0.2258, W: 0.3038, H: 0.0228},
		{X: 0.8904, Y: 0.2275, W: 0.1160, H: 0.0239},
	}
	const pitch = 0.0216

	g := NewGenerator(template, pitch, table)
	require.Equal(t, Generating, g.State())
	rows := g.Run()

	// 0.2265 + 0.0114 + k*0.0216 < 0.79475 holds for k <= 25.
	require.Len(t, rows, 25)
	assert.Equal(t, Done, g.State())
	assert.LessOrEqual(t, g.Iterations(), int(math.Ceil(table.H/pitch)))

	prev := template
	for k, row := range rows {
		require.Len(t, row, len(template))
		assert.Less(t, row[0].Bottom(), table.Bottom(), "row %d", k)
		for i, b := range row {
			assert.Equal(t, template[i].X, b.X, "row %d cell %d", k, i)
			assert.Equal(t, template[i].W, b.W, "row %d cell %d", k, i)
			assert.Equal(t, template[i].H, b.H, "row %d cell %d", k, i)
			assert.InDelta(t, template[i].Y+float64(k+1)*pitch, b.Y, 1e-9, "row %d cell %d", k, i)
			assert.Greater(t, b.Y, prev[i].Y, "row %d cell %d does not move down", k, i)
		}
		prev = row
	}

	next := rows[len(rows)-1][0].shifted(pitch)
	assert.GreaterOrEqual(t, next.Bottom(), table.Bottom())
}

func TestGenerator_ExcludesRowTouchingBoundary(t *testing.T) {
	// Dyadic values, so that the second candidate ends exactly on the table edge at 1.0.
	table := Box{X: 0.5, Y: 0.5, W: 1, H: 1}
	template := Row{{X: 0.25, Y: 0.25, W: 0.5, H: 0.5}}

	rows := NewGenerator(template, 0.25, table).Run()

	require.Len(t, rows, 1)
	assert.Equal(t, Box{X: 0.25, Y: 0.5, W: 0.5, H: 0.5}, rows[0][0])
}

func TestGenerator_DegeneratePitch(t *testing.T) {
	table := Box{X: 0.5, Y: 0.5, W: 1, H: 1}
	template := Row{{X: 0.25, Y: 0.25, W: 0.1, H: 0.1}}

	for _, pitch := range []float64{0, -0.02, math.NaN(), math.Inf(1), math.Inf(-1)} {
		g := NewGenerator(template, pitch, table)

		assert.Equal(t, Done, g.State(), "pitch %v", pitch)
		assert.Empty(t, g.Run(), "pitch %v", pitch)
		assert.Zero(t, g.Iterations(), "pitch %v", pitch)
	}
}

func TestGenerator_DegenerateTable(t *testing.T) {
	template := Row{{X: 0.25, Y: 0.25, W: 0.1, H: 0.1}}

	for _, table := range []Box{
		{X: 0.5, Y: math.NaN(), W: 1, H: 1},
		{X: 0.5, Y: 0.5, W: 1, H: math.Inf(1)},
	} {
		g := NewGenerator(template, 0.1, table)
		assert.Equal(t, Done, g.State())
		assert.Empty(t, g.Run())
	}
}

func TestGenerator_TemplateBelowTable(t *testing.T) {
	table := Box{X: 0.5, Y: 0.3, W: 1, H: 0.4}
	template := Row{{X: 0.25, Y: 0.6, W: 0.1, H: 0.02}}

	g := NewGenerator(template, 0.05, table)
	assert.Empty(t, g.Run())
	assert.Equal(t, 1, g.Iterations())
}

func TestGenerator_StepAfterDone(t *testing.T) {
	table := Box{X: 0.5, Y: 0.5, W: 1, H: 1}
	g := NewGenerator(Row{{X: 0.5, Y: 0.9, W: 0.1, H: 0.02}}, 0.05, table)

	row, ok := g.Step()
	assert.True(t, ok)
	assert.Len(t, row, 1)

	for i := 0; i < 3; i++ {
		row, ok = g.Step()
		assert.False(t, ok)
		assert.Nil(t, row)
	}
	assert.Equal(t, 2, g.Iterations())
}
