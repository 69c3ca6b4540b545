package pipeline

import "epipulse/pkg/contracts/domain"

// Unify concatenates a country-level and a region-level result table into the
// combined output table, renaming each side's entity identifier to the common
// entity_name column and projecting down to the fixed output column set.
// Country rows come first; the relative order is not semantically meaningful.
func Unify(countries, regions []domain.DailyRecord) []domain.CombinedRow {
	out := make([]domain.CombinedRow, 0, len(countries)+len(regions))
	for _, r := range countries {
		out = append(out, toCombined(r, KeyCountry))
	}
	for _, r := range regions {
		out = append(out, toCombined(r, KeyRegion))
	}
	return out
}

func toCombined(r domain.DailyRecord, key GroupKey) domain.CombinedRow {
	return domain.CombinedRow{
		EntityName:       key.EntityOf(r),
		DateReported:     r.Date,
		NewCases:         r.NewCases,
		CumulativeCases:  r.CumulativeCases,
		NewDeaths:        r.NewDeaths,
		CumulativeDeaths: r.CumulativeDeaths,
		DeathsPerCases:   r.DeathsPerCases,
		Rt:               r.Rt,
	}
}
