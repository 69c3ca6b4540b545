package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaseRatios(t *testing.T) {
	tests := []struct {
		name     string
		newCases []float64
		expected []float64
	}{
		{
			name:     "steady growth",
			newCases: []float64{100, 110, 121},
			expected: []float64{1.1, 1.1, 1.1},
		},
		{
			name:     "outbreak start with zero first day",
			newCases: []float64{0, 100, 50},
			// Day 1 divides by zero and takes day 2's computed ratio;
			// day 0 started at zero so the general fill applies.
			expected: []float64{0, 0.5, 0.5},
		},
		{
			name:     "nonzero first day copies second ratio",
			newCases: []float64{10, 20, 10},
			expected: []float64{2, 2, 0.5},
		},
		{
			name:     "zero denominator at end of sequence fills with zero",
			newCases: []float64{0, 5},
			expected: []float64{0, 0},
		},
		{
			name:     "all zeros",
			newCases: []float64{0, 0, 0},
			expected: []float64{0, 0, 0},
		},
		{
			name:     "zero run in the middle",
			newCases: []float64{4, 0, 0, 8},
			// 0/4 = 0, 0/0 is undefined, 8/0 is infinite with nothing
			// after it to fill from.
			expected: []float64{0, 0, 0, 0},
		},
		{
			name:     "recovery after gap day",
			newCases: []float64{10, 0, 5, 10},
			// Day 2 is infinite and takes day 3's ratio (10/5 = 2).
			expected: []float64{0, 0, 2, 2},
		},
		{
			name:     "single nonzero record",
			newCases: []float64{5},
			expected: []float64{0},
		},
		{
			name:     "single zero record",
			newCases: []float64{0},
			expected: []float64{0},
		},
		{
			name:     "empty sequence",
			newCases: []float64{},
			expected: []float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CaseRatios(tt.newCases)

			assert.Len(t, got, len(tt.newCases), "ratio sequence length must match input")
			assert.InDeltaSlice(t, tt.expected, got, 1e-9)
		})
	}
}

func TestCaseRatiosAlwaysFiniteNonNegative(t *testing.T) {
	sequences := [][]float64{
		{0, 1, 0, 2, 0, 3},
		{7, 0, 0, 0, 7},
		{1, 2, 4, 8, 0},
		{0, 0, 0, 1},
	}

	for _, seq := range sequences {
		for i, rt := range CaseRatios(seq) {
			assert.GreaterOrEqual(t, rt, 0.0, "rt[%d] of %v", i, seq)
			assert.False(t, rt != rt, "rt[%d] of %v is NaN", i, seq)
		}
	}
}
