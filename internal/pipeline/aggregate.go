package pipeline

import (
	"sort"
	"time"

	"epipulse/pkg/contracts/domain"
)

type regionDate struct {
	region string
	date   time.Time
}

// AggregateByRegion sums the enriched country-level table into one row per
// (WHO region, date). The four count fields and population are additive
// across the region's member countries on that date.
//
// The result is structurally a country-level table with the Country field
// left empty, so it runs through ComputeStats and Normalize unchanged with
// the grouping key switched to KeyRegion. Rows are ordered by region then
// date for determinism; derived metric fields start zeroed.
func AggregateByRegion(records []domain.DailyRecord) []domain.DailyRecord {
	sums := make(map[regionDate]*domain.DailyRecord)

	for _, r := range records {
		k := regionDate{region: r.WHORegion, date: r.Date}
		agg, ok := sums[k]
		if !ok {
			agg = &domain.DailyRecord{
				Date:      r.Date,
				WHORegion: r.WHORegion,
			}
			sums[k] = agg
		}
		agg.NewCases += r.NewCases
		agg.CumulativeCases += r.CumulativeCases
		agg.NewDeaths += r.NewDeaths
		agg.CumulativeDeaths += r.CumulativeDeaths
		agg.Population += r.Population
	}

	out := make([]domain.DailyRecord, 0, len(sums))
	for _, agg := range sums {
		out = append(out, *agg)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].WHORegion != out[j].WHORegion {
			return out[i].WHORegion < out[j].WHORegion
		}
		return out[i].Date.Before(out[j].Date)
	})

	return out
}
