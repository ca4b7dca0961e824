package tblfill

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tblfill.yaml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
tolerance: 0.02
pitch_mode: first
table_fallback: bounding-rect
format: json
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, Config{
		Tolerance:  0.02,
		PitchMode:  PitchFirstGap,
		Classifier: StatisticalClassifier{Fallback: FallbackBoundingRect},
		Format:     FormatJSON,
	}, cfg)
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "{}\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_Fixed(t *testing.T) {
	path := writeConfig(t, `
classifier: fixed
fixed_roles: {table: 3, header: 4, data: 5}
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, FixedClassifier{Table: 3, Header: 4, Data: 5}, cfg.Classifier)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"negative tolerance", "tolerance: -1\n"},
		{"pitch mode", "pitch_mode: median\n"},
		{"format", "format: csv\n"},
		{"classifier", "classifier: neural\n"},
		{"fallback", "table_fallback: none\n"},
		{"fixed without roles", "classifier: fixed\n"},
		{"yaml", "tolerance: [\n"},
	}

	for _, tt := range tests {
		_, err := LoadConfig(writeConfig(t, tt.text))
		assert.Error(t, err, tt.name)
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseTableFallback(t *testing.T) {
	f, err := ParseTableFallback("")
	require.NoError(t, err)
	assert.Equal(t, FallbackLargestBox, f)

	f, err = ParseTableFallback("bounding-rect")
	require.NoError(t, err)
	assert.Equal(t, FallbackBoundingRect, f)
}
