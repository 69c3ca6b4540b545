package pipeline

import (
	"math"

	"epipulse/pkg/contracts/domain"
)

// Join merges raw country-level daily rows with the alpha-2/alpha-3 country
// code crosswalk and the World Bank population table, producing one enriched
// record per surviving row.
//
// Both joins are inner joins: a row whose country code has no
// crosswalk entry, or whose 3-letter code has no resolvable population, is
// silently excluded from all downstream statistics. The returned records
// carry no join-key helper fields.
func Join(cases []domain.CaseRow, codes []domain.CountryCode, populations []domain.PopulationRow) []domain.DailyRecord {
	alpha3ByAlpha2 := make(map[string]string, len(codes))
	for _, c := range codes {
		if c.Alpha2 != "" && c.Alpha3 != "" {
			alpha3ByAlpha2[c.Alpha2] = c.Alpha3
		}
	}

	populationByAlpha3 := make(map[string]float64, len(populations))
	for _, p := range populations {
		mean := p.MeanPopulation()
		if math.IsNaN(mean) || mean <= 0 {
			// Population must be resolvable and positive before any
			// normalization step; otherwise the country is excluded.
			continue
		}
		populationByAlpha3[p.CountryCode] = mean
	}

	records := make([]domain.DailyRecord, 0, len(cases))
	for _, row := range cases {
		alpha3, ok := alpha3ByAlpha2[row.CountryCode]
		if !ok {
			continue
		}
		population, ok := populationByAlpha3[alpha3]
		if !ok {
			continue
		}

		records = append(records, domain.DailyRecord{
			Date:             row.DateReported,
			Country:          row.Country,
			WHORegion:        row.WHORegion,
			NewCases:         float64(row.NewCases),
			CumulativeCases:  float64(row.CumulativeCases),
			NewDeaths:        float64(row.NewDeaths),
			CumulativeDeaths: float64(row.CumulativeDeaths),
			Population:       population,
		})
	}

	return records
}
