package domain

import (
	"math"
	"time"
)

// CaseRow is one row of the WHO daily global dataset as read from
// WHO-COVID-19-global-data.csv. Counts are zero-filled when the source
// cell is empty and clamped to be non-negative.
type CaseRow struct {
	DateReported     time.Time `json:"date_reported"`
	CountryCode      string    `json:"country_code"` // ISO 3166-1 alpha-2
	Country          string    `json:"country"`
	WHORegion        string    `json:"who_region"`
	NewCases         int64     `json:"new_cases"`
	CumulativeCases  int64     `json:"cumulative_cases"`
	NewDeaths        int64     `json:"new_deaths"`
	CumulativeDeaths int64     `json:"cumulative_deaths"`
}

// CountryCode is one row of the alpha-2/alpha-3 crosswalk table.
type CountryCode struct {
	Alpha2 string `json:"alpha2"`
	Alpha3 string `json:"alpha3"`
}

// PopulationRow carries a country's annual population figures from the
// World Bank table, keyed by the 3-letter country code. A year with no
// figure in the source is NaN.
type PopulationRow struct {
	CountryCode string  `json:"country_code"` // ISO 3166-1 alpha-3
	Y2019       float64 `json:"y2019"`
	Y2020       float64 `json:"y2020"`
	Y2021       float64 `json:"y2021"`
}

// MeanPopulation returns the arithmetic mean of the year figures that are
// actually present. It returns NaN when no year is resolvable.
func (p PopulationRow) MeanPopulation() float64 {
	var sum float64
	var n int
	for _, v := range []float64{p.Y2019, p.Y2020, p.Y2021} {
		if !math.IsNaN(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// DailyRecord is one enriched per-entity-per-day record, the atomic unit
// flowing through the statistics pipeline. For country-level records Country
// names the entity; for region-level aggregates Country is empty and
// WHORegion names the entity. Counts are float64 so that the absolute and
// the per-capita views share one shape.
type DailyRecord struct {
	Date             time.Time `json:"date"`
	Country          string    `json:"country"`
	WHORegion        string    `json:"who_region"`
	NewCases         float64   `json:"new_cases"`
	CumulativeCases  float64   `json:"cumulative_cases"`
	NewDeaths        float64   `json:"new_deaths"`
	CumulativeDeaths float64   `json:"cumulative_deaths"`
	Population       float64   `json:"population"`
	DeathsPerCases   float64   `json:"deaths_per_cases"`
	Rt               float64   `json:"rt"`
}

// IsValid checks the record invariants that hold after the pipeline has
// completed: positive population, finite non-negative derived metrics.
func (r DailyRecord) IsValid() bool {
	return r.Population > 0 && !r.Date.IsZero() &&
		r.NewCases >= 0 && r.CumulativeCases >= 0 &&
		r.NewDeaths >= 0 && r.CumulativeDeaths >= 0 &&
		r.DeathsPerCases >= 0 && !math.IsInf(r.DeathsPerCases, 0) && !math.IsNaN(r.DeathsPerCases) &&
		r.Rt >= 0 && !math.IsInf(r.Rt, 0) && !math.IsNaN(r.Rt)
}

// CombinedRow is one row of the unified country-plus-region output table,
// the pipeline's final deliverable. EntityName holds either a country name
// or a WHO region identifier.
type CombinedRow struct {
	EntityName       string    `json:"entity_name"`
	DateReported     time.Time `json:"date_reported"`
	NewCases         float64   `json:"new_cases"`
	CumulativeCases  float64   `json:"cumulative_cases"`
	NewDeaths        float64   `json:"new_deaths"`
	CumulativeDeaths float64   `json:"cumulative_deaths"`
	DeathsPerCases   float64   `json:"deaths_per_cases"`
	Rt               float64   `json:"rt"`
}

// CombinedHeader is the fixed column set of the unified output table.
var CombinedHeader = []string{
	"entity_name",
	"Date_reported",
	"New_cases",
	"Cumulative_cases",
	"New_deaths",
	"Cumulative_deaths",
	"deaths_per_cases",
	"Rt",
}
