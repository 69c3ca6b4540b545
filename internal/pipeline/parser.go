package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"epipulse/pkg/contracts/domain"
)

// Source table column names, as shipped by the WHO and the World Bank.
const (
	colDateReported     = "Date_reported"
	colCountryCode      = "Country_code"
	colCountry          = "Country"
	colWHORegion        = "WHO_region"
	colNewCases         = "New_cases"
	colCumulativeCases  = "Cumulative_cases"
	colNewDeaths        = "New_deaths"
	colCumulativeDeaths = "Cumulative_deaths"

	colAlpha2 = "alpha-2"
	colAlpha3 = "alpha-3"

	colPopCountryCode = "Country Code"
	colPopY2019       = "2019 [YR2019]"
	colPopY2020       = "2020 [YR2020]"
	colPopY2021       = "2021 [YR2021]"
)

// whoDateFormat is the report date layout used by the WHO global dataset.
const whoDateFormat = "2006-01-02"

// columnMap resolves header names to column positions so the parsers are
// independent of column order in the source files.
type columnMap map[string]int

func mapColumns(header []string) columnMap {
	m := make(columnMap, len(header))
	for i, name := range header {
		m[strings.TrimSpace(name)] = i
	}
	return m
}

func (m columnMap) require(names ...string) error {
	for _, name := range names {
		if _, ok := m[name]; !ok {
			return fmt.Errorf("missing required column %q", name)
		}
	}
	return nil
}

func (m columnMap) get(row []string, name string) string {
	idx, ok := m[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// count parses a count cell. Empty cells fill to 0 and negative source
// corrections clamp to 0 so counts stay non-negative downstream.
func (m columnMap) count(row []string, name string) (int64, error) {
	cell := m.get(row, name)
	if cell == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(strings.ReplaceAll(cell, ",", ""), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	if v < 0 {
		return 0, nil
	}
	return v, nil
}

// population parses a World Bank population cell. Empty cells and the World
// Bank ".." missing-value marker yield NaN.
func (m columnMap) population(row []string, name string) float64 {
	cell := m.get(row, name)
	if cell == "" || cell == ".." {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", ""), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// ParseCases reads the WHO daily global dataset. A malformed report date
// fails the parse; an empty table (header only or nothing) yields an empty
// slice, not an error.
func ParseCases(r io.Reader) ([]domain.CaseRow, error) {
	rows, cols, err := readTable(r, colDateReported, colCountryCode, colCountry, colWHORegion,
		colNewCases, colCumulativeCases, colNewDeaths, colCumulativeDeaths)
	if err != nil || rows == nil {
		return nil, err
	}

	cases := make([]domain.CaseRow, 0, len(rows))
	for i, row := range rows {
		date, err := time.Parse(whoDateFormat, cols.get(row, colDateReported))
		if err != nil {
			return nil, fmt.Errorf("row %d: parse %s: %w", i+2, colDateReported, err)
		}

		c := domain.CaseRow{
			DateReported: date,
			CountryCode:  cols.get(row, colCountryCode),
			Country:      cols.get(row, colCountry),
			WHORegion:    cols.get(row, colWHORegion),
		}
		for _, f := range []struct {
			name string
			dst  *int64
		}{
			{colNewCases, &c.NewCases},
			{colCumulativeCases, &c.CumulativeCases},
			{colNewDeaths, &c.NewDeaths},
			{colCumulativeDeaths, &c.CumulativeDeaths},
		} {
			v, err := cols.count(row, f.name)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i+2, err)
			}
			*f.dst = v
		}

		cases = append(cases, c)
	}

	return cases, nil
}

// ParseCountryCodes reads the alpha-2/alpha-3 crosswalk table.
func ParseCountryCodes(r io.Reader) ([]domain.CountryCode, error) {
	rows, cols, err := readTable(r, colAlpha2, colAlpha3)
	if err != nil || rows == nil {
		return nil, err
	}

	codes := make([]domain.CountryCode, 0, len(rows))
	for _, row := range rows {
		codes = append(codes, domain.CountryCode{
			Alpha2: cols.get(row, colAlpha2),
			Alpha3: cols.get(row, colAlpha3),
		})
	}

	return codes, nil
}

// ParsePopulations reads the World Bank population table in CSV form.
func ParsePopulations(r io.Reader) ([]domain.PopulationRow, error) {
	rows, cols, err := readTable(r, colPopCountryCode, colPopY2019, colPopY2020, colPopY2021)
	if err != nil || rows == nil {
		return nil, err
	}
	return populationRows(rows, cols), nil
}

// ParsePopulationsXLSX reads the World Bank population table from an Excel
// workbook, as downloaded from the World Bank data portal. The first sheet's
// first row is the header.
func ParsePopulationsXLSX(path string) ([]domain.PopulationRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	cols := mapColumns(rows[0])
	if err := cols.require(colPopCountryCode, colPopY2019, colPopY2020, colPopY2021); err != nil {
		return nil, err
	}

	return populationRows(rows[1:], cols), nil
}

func populationRows(rows [][]string, cols columnMap) []domain.PopulationRow {
	populations := make([]domain.PopulationRow, 0, len(rows))
	for _, row := range rows {
		code := cols.get(row, colPopCountryCode)
		if code == "" {
			continue
		}
		populations = append(populations, domain.PopulationRow{
			CountryCode: code,
			Y2019:       cols.population(row, colPopY2019),
			Y2020:       cols.population(row, colPopY2020),
			Y2021:       cols.population(row, colPopY2021),
		})
	}
	return populations
}

// readTable reads a CSV table and maps its header. A completely empty input
// returns nil rows and a nil error so callers propagate an empty result.
func readTable(r io.Reader, required ...string) ([][]string, columnMap, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read CSV records: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}

	cols := mapColumns(records[0])
	if err := cols.require(required...); err != nil {
		return nil, nil, err
	}

	return records[1:], cols, nil
}
