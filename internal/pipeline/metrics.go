package pipeline

import (
	"sort"

	"epipulse/pkg/contracts/domain"
)

// GroupKey selects the entity column used for grouped computations.
type GroupKey int

const (
	// KeyCountry groups records by country name.
	KeyCountry GroupKey = iota
	// KeyRegion groups records by WHO region.
	KeyRegion
)

// String returns the string representation of the grouping key.
func (k GroupKey) String() string {
	switch k {
	case KeyCountry:
		return "country"
	case KeyRegion:
		return "region"
	default:
		return "unknown"
	}
}

// EntityOf returns the entity name the key selects from a record.
func (k GroupKey) EntityOf(r domain.DailyRecord) string {
	if k == KeyRegion {
		return r.WHORegion
	}
	return r.Country
}

// ComputeStats augments the records with deaths_per_cases and the per-entity
// case ratio, then derives the per-capita sibling table. The input slice is
// not mutated; the two returned tables are independent copies sharing the
// original row order.
//
// The case ratio is computed independently within each group defined by key,
// over the group's chronologically sorted rows, and written back to each
// row's original position. There is no cross-entity leakage of the previous
// day's value.
func ComputeStats(records []domain.DailyRecord, key GroupKey) (absolute, normalized []domain.DailyRecord) {
	out := make([]domain.DailyRecord, len(records))
	copy(out, records)

	for i := range out {
		if out[i].CumulativeCases > 0 {
			out[i].DeathsPerCases = out[i].CumulativeDeaths / out[i].CumulativeCases
		} else {
			// No cumulative cases yet: defined as 0, never inf or NaN.
			out[i].DeathsPerCases = 0
		}
	}

	// Collect each entity's row indices, preserving row identity so the
	// computed ratios can be scattered back in place.
	groups := make(map[string][]int)
	for i := range out {
		entity := key.EntityOf(out[i])
		groups[entity] = append(groups[entity], i)
	}

	for _, idx := range groups {
		sort.SliceStable(idx, func(a, b int) bool {
			return out[idx[a]].Date.Before(out[idx[b]].Date)
		})

		newCases := make([]float64, len(idx))
		for j, i := range idx {
			newCases[j] = out[i].NewCases
		}

		ratios := CaseRatios(newCases)
		for j, i := range idx {
			out[i].Rt = ratios[j]
		}
	}

	return out, Normalize(out)
}
