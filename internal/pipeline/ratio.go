package pipeline

import "math"

// CaseRatios computes the day-over-day new-case ratio ("Rt") sequence for one
// entity's chronologically ordered new-case counts. For i > 0 the ratio is
// newCases[i] / newCases[i-1], an approximation of the effective reproduction
// number under a unit-length generation interval.
//
// Fill policy:
//   - A zero denominator with a nonzero numerator is an infinite ratio; it is
//     replaced by the next record's originally computed ratio (forward fill).
//   - The first ratio has no prior record; when newCases[0] != 0 it takes the
//     value of the second ratio, otherwise it falls through to the general fill.
//   - Anything still undefined or infinite afterwards fills with 0, so the
//     returned sequence contains only finite non-negative values.
//
// The result always has the same length as the input.
func CaseRatios(newCases []float64) []float64 {
	n := len(newCases)
	rt := make([]float64, n)
	if n == 0 {
		return rt
	}

	raw := make([]float64, n)
	raw[0] = math.NaN()
	for i := 1; i < n; i++ {
		prev := newCases[i-1]
		switch {
		case prev != 0:
			raw[i] = newCases[i] / prev
		case newCases[i] != 0:
			raw[i] = math.Inf(1)
		default:
			raw[i] = math.NaN() // 0/0
		}
	}

	copy(rt, raw)

	// Forward fill uses the pre-replacement ratios, so a run of infinities
	// does not cascade a filled value backwards.
	for i := range rt {
		if math.IsInf(rt[i], 1) {
			if i+1 < n {
				rt[i] = raw[i+1]
			} else {
				rt[i] = math.NaN()
			}
		}
	}

	if newCases[0] != 0 && n > 1 {
		rt[0] = rt[1]
	}

	for i := range rt {
		if math.IsNaN(rt[i]) || math.IsInf(rt[i], 0) {
			rt[i] = 0
		}
	}

	return rt
}
