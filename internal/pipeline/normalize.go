package pipeline

import "epipulse/pkg/contracts/domain"

// PopulationBase is the population size the per-capita view rescales to.
const PopulationBase = 1_000_000

// Normalize returns a new table with the four absolute count fields rescaled
// to "per PopulationBase inhabitants". Non-count fields (population itself,
// rt, deaths_per_cases) pass through unchanged. The input is never mutated.
//
// The joiner guarantees a positive population on every record, so the scale
// factor is always finite.
func Normalize(records []domain.DailyRecord) []domain.DailyRecord {
	out := make([]domain.DailyRecord, len(records))
	copy(out, records)

	for i := range out {
		factor := PopulationBase / out[i].Population
		out[i].NewCases *= factor
		out[i].CumulativeCases *= factor
		out[i].NewDeaths *= factor
		out[i].CumulativeDeaths *= factor
	}

	return out
}
