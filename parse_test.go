package tblfill

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	set, err := Parse(statementPage)
	require.NoError(t, err)

	assert.Equal(t, []ClassID{0, 1, 2}, set.Classes())
	assert.Len(t, set[0], 14)
	assert.Len(t, set[1], 1)
	assert.Len(t, set[2], 7)
	assert.Equal(t, Box{X: 0.5, Y: 0.480901, W: 0.904915, H: 0.627708}, set[1][0])
	assert.Equal(t, 22, set.Len())
}

func TestParse_SkipsMalformedLines(t *testing.T) {
	text := "0 0.1 0.2 0.1 0.02\n" +
		"0 0.1 0.2 0.1\n" + // Too few fields.
		"0 0.1 0.2 0.1 0.02 0.9\n" + // Too many fields.
		"x 0.1 0.2 0.1 0.02\n" +
		"0 0.1 abc 0.1 0.02\n" +
		"0 NaN 0.2 0.1 0.02\n" +
		"\n   \n" +
		"\t3   0.5\t0.5 0.9  0.9  \r\n"

	set, err := Parse(text)
	require.NoError(t, err)
	assert.Equal(t, []ClassID{0, 3}, set.Classes())
	assert.Equal(t, []Box{{X: 0.1, Y: 0.2, W: 0.1, H: 0.02}}, set[0])
	assert.Equal(t, []Box{{X: 0.5, Y: 0.5, W: 0.9, H: 0.9}}, set[3])
}

func TestParse_NoValidLines(t *testing.T) {
	for _, text := range []string{"", "\n\n", "# comment\n1 2 3\n"} {
		_, err := Parse(text)

		var parseErr *ParseError
		require.True(t, errors.As(err, &parseErr), "Parse(%q) error = %v", text, err)
	}
}
