package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensorable/tblfill"
)

func TestClassifierFromFlags(t *testing.T) {
	fixed := tblfill.FixedClassifier{Table: 3, Header: 4, Data: 5}
	statistical := tblfill.StatisticalClassifier{Fallback: tblfill.FallbackLargestBox}

	tests := []struct {
		name    string
		current tblfill.Classifier
		isSet   map[string]bool
		want    tblfill.Classifier
	}{
		{"nothing set keeps the config", fixed, nil, fixed},
		{"fallback keeps a fixed classifier", fixed, map[string]bool{"table-fallback": true}, fixed},
		{"fallback updates a statistical classifier", statistical, map[string]bool{"table-fallback": true},
			tblfill.StatisticalClassifier{Fallback: tblfill.FallbackBoundingRect}},
		{"roles imply fixed", statistical, map[string]bool{"roles": true},
			tblfill.FixedClassifier{Table: 1, Header: 2, Data: 0}},
		{"classifier replaces the config", fixed, map[string]bool{"classifier": true, "table-fallback": true},
			tblfill.StatisticalClassifier{Fallback: tblfill.FallbackBoundingRect}},
	}

	for _, tt := range tests {
		got, err := classifierFromFlags(tt.current, tt.isSet, "statistical", "bounding-rect", "1,2,0")
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}
}

func TestClassifierFromFlags_Invalid(t *testing.T) {
	current := tblfill.StatisticalClassifier{}

	_, err := classifierFromFlags(current, map[string]bool{"table-fallback": true}, "statistical", "none", "1,2,0")
	assert.Error(t, err)

	_, err = classifierFromFlags(current, map[string]bool{"roles": true}, "statistical", "largest-box", "1,2")
	assert.Error(t, err)

	_, err = classifierFromFlags(current, map[string]bool{"classifier": true}, "neural", "largest-box", "1,2,0")
	assert.Error(t, err)
}

func TestParseRoles(t *testing.T) {
	ids, err := parseRoles(" 4, 5 ,6")
	require.NoError(t, err)
	assert.Equal(t, []int{4, 5, 6}, ids)

	_, err = parseRoles("1,x,3")
	assert.Error(t, err)
}
