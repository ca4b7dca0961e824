package tblfill

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupRows(t *testing.T) {
	set, err := Parse(statementPage)
	require.NoError(t, err)

	rows, err := GroupRows(set[0], DefaultTolerance)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	for i, row := range rows {
		assert.Len(t, row, 7, "row %d", i)
		for k := 1; k < len(row); k++ {
			assert.Less(t, row[k-1].X, row[k].X, "row %d is not ordered by x", i)
		}
	}
	assert.Equal(t, Box{X: 0.095890, Y: 0.204675, W: 0.093473, H: 0.023945}, rows[0][0])
	assert.Equal(t, Box{X: 0.093473, Y: 0.226340, W: 0.091861, H: 0.021665}, rows[1][0])
}

func TestGroupRows_Tolerance(t *testing.T) {
	boxes := []Box{
		{X: 0.1, Y: 0.100, W: 0.1, H: 0.01},
		{X: 0.2, Y: 0.108, W: 0.1, H: 0.01},
		{X: 0.3, Y: 0.116, W: 0.1, H: 0.01}, // Within tolerance of the previous box only.
		{X: 0.1, Y: 0.200, W: 0.1, H: 0.01},
		{X: 0.2, Y: 0.230, W: 0.1, H: 0.01},
	}

	rows, err := GroupRows(boxes, 0.01)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Len(t, rows[0], 3)
	assert.Len(t, rows[1], 1)
	assert.Len(t, rows[2], 1)

	rows, err = GroupRows(boxes, 0.05)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestGroupRows_InputOrderInvariant(t *testing.T) {
	set, err := Parse(statementPage)
	require.NoError(t, err)
	boxes := append(append([]Box(nil), set[0]...), set[2]...)

	want, err := GroupRows(boxes, DefaultTolerance)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := append([]Box(nil), boxes...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		got, err := GroupRows(shuffled, DefaultTolerance)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestGroupRows_DoesNotModifyInput(t *testing.T) {
	boxes := []Box{
		{X: 0.5, Y: 0.3, W: 0.1, H: 0.01},
		{X: 0.1, Y: 0.1, W: 0.1, H: 0.01},
	}
	before := append([]Box(nil), boxes...)

	_, err := GroupRows(boxes, DefaultTolerance)
	require.NoError(t, err)
	assert.Equal(t, before, boxes)
}

func TestGroupRows_InsufficientData(t *testing.T) {
	tests := []struct {
		name  string
		boxes []Box
		rows  int
	}{
		{"no boxes", nil, 0},
		{"one row", []Box{{X: 0.1, Y: 0.2, W: 0.1, H: 0.01}, {X: 0.3, Y: 0.205, W: 0.1, H: 0.01}}, 1},
	}

	for _, tt := range tests {
		_, err := GroupRows(tt.boxes, DefaultTolerance)

		var dataErr *InsufficientDataError
		require.True(t, errors.As(err, &dataErr), "%s: error = %v", tt.name, err)
		assert.Equal(t, tt.rows, dataErr.Rows, tt.name)
	}
}
