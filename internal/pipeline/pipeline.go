package pipeline

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"epipulse/pkg/contracts/domain"
)

// Result is the canonical pipeline output: the unified country-plus-region
// table in absolute and per-capita form, plus the lookup metadata the
// serving layer filters against. It is constructed once per run and treated
// as immutable by every consumer.
type Result struct {
	Absolute   []domain.CombinedRow
	Normalized []domain.CombinedRow

	// Entities lists the distinct entity names present in the combined
	// tables, countries first, each group sorted alphabetically.
	Entities []string
	// Countries and Regions partition Entities by level.
	Countries []string
	Regions   []string

	MinDate  time.Time
	MaxDate  time.Time
	LoadedAt time.Time
}

// Empty reports whether the run produced no rows at all.
func (r *Result) Empty() bool {
	return r == nil || len(r.Absolute) == 0
}

// Run executes the full statistics pipeline against the source tables:
// load, reference join, country-level derived metrics, regional aggregation
// with re-derived metrics, and unification. Empty input tables propagate an
// empty result; only unavailable or malformed inputs return an error.
func Run(ctx context.Context, logger *slog.Logger, src Sources) (*Result, error) {
	start := time.Now()

	cases, codes, populations, err := LoadSources(ctx, logger, src)
	if err != nil {
		return nil, err
	}

	enriched := Join(cases, codes, populations)
	logger.InfoContext(ctx, "reference join completed",
		slog.Int("raw_rows", len(cases)),
		slog.Int("enriched_rows", len(enriched)),
		slog.Int("dropped_rows", len(cases)-len(enriched)))

	countries, countriesNorm := ComputeStats(enriched, KeyCountry)

	regional := AggregateByRegion(enriched)
	regions, regionsNorm := ComputeStats(regional, KeyRegion)

	result := &Result{
		Absolute:   Unify(countries, regions),
		Normalized: Unify(countriesNorm, regionsNorm),
		LoadedAt:   time.Now(),
	}
	result.Countries = entityNames(countries, KeyCountry)
	result.Regions = entityNames(regions, KeyRegion)
	result.Entities = append(append([]string{}, result.Countries...), result.Regions...)
	result.MinDate, result.MaxDate = dateRange(result.Absolute)

	logger.InfoContext(ctx, "pipeline run completed",
		slog.Int("combined_rows", len(result.Absolute)),
		slog.Int("countries", len(result.Countries)),
		slog.Int("regions", len(result.Regions)),
		slog.Duration("elapsed", time.Since(start)))

	return result, nil
}

func entityNames(records []domain.DailyRecord, key GroupKey) []string {
	seen := make(map[string]bool)
	var names []string
	for _, r := range records {
		name := key.EntityOf(r)
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func dateRange(rows []domain.CombinedRow) (min, max time.Time) {
	for _, r := range rows {
		if min.IsZero() || r.DateReported.Before(min) {
			min = r.DateReported
		}
		if max.IsZero() || r.DateReported.After(max) {
			max = r.DateReported
		}
	}
	return min, max
}
