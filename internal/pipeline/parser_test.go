package pipeline

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseCases(t *testing.T) {
	input := `Date_reported,Country_code,Country,WHO_region,New_cases,Cumulative_cases,New_deaths,Cumulative_deaths
2020-03-01,CH,Switzerland,EURO,10,10,1,1
2020-03-02,CH,Switzerland,EURO,,10,,1
2020-03-03,CH,Switzerland,EURO,-5,10,0,1
`

	cases, err := ParseCases(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, cases, 3)

	assert.Equal(t, day("2020-03-01"), cases[0].DateReported)
	assert.Equal(t, "CH", cases[0].CountryCode)
	assert.Equal(t, "Switzerland", cases[0].Country)
	assert.Equal(t, "EURO", cases[0].WHORegion)
	assert.Equal(t, int64(10), cases[0].NewCases)
	assert.Equal(t, int64(1), cases[0].CumulativeDeaths)

	assert.Equal(t, int64(0), cases[1].NewCases, "empty count cell fills to 0")
	assert.Equal(t, int64(0), cases[1].NewDeaths)
	assert.Equal(t, int64(0), cases[2].NewCases, "negative corrections clamp to 0")
}

func TestParseCasesColumnOrderIndependent(t *testing.T) {
	// Same table with the columns shuffled; parsing is keyed on header
	// names, not positions.
	input := `Country,New_cases,Date_reported,WHO_region,Cumulative_deaths,Country_code,New_deaths,Cumulative_cases
Switzerland,10,2020-03-01,EURO,1,CH,1,10
`

	cases, err := ParseCases(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, day("2020-03-01"), cases[0].DateReported)
	assert.Equal(t, int64(10), cases[0].NewCases)
	assert.Equal(t, "CH", cases[0].CountryCode)
}

func TestParseCasesMalformedDate(t *testing.T) {
	input := `Date_reported,Country_code,Country,WHO_region,New_cases,Cumulative_cases,New_deaths,Cumulative_deaths
03/01/2020,CH,Switzerland,EURO,10,10,1,1
`

	_, err := ParseCases(strings.NewReader(input))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Date_reported")
}

func TestParseCasesMissingColumn(t *testing.T) {
	input := `Date_reported,Country_code,Country,New_cases,Cumulative_cases,New_deaths,Cumulative_deaths
2020-03-01,CH,Switzerland,10,10,1,1
`

	_, err := ParseCases(strings.NewReader(input))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "WHO_region")
}

func TestParseCasesEmptyInput(t *testing.T) {
	cases, err := ParseCases(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, cases)

	header := "Date_reported,Country_code,Country,WHO_region,New_cases,Cumulative_cases,New_deaths,Cumulative_deaths\n"
	cases, err = ParseCases(strings.NewReader(header))
	require.NoError(t, err)
	assert.Empty(t, cases)
}

func TestParseCountryCodes(t *testing.T) {
	input := `name,alpha-2,alpha-3,region
Switzerland,CH,CHE,Europe
Germany,DE,DEU,Europe
`

	codes, err := ParseCountryCodes(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, codes, 2)
	assert.Equal(t, "CH", codes[0].Alpha2)
	assert.Equal(t, "CHE", codes[0].Alpha3)
	assert.Equal(t, "DEU", codes[1].Alpha3)
}

func TestParsePopulations(t *testing.T) {
	input := `Country Name,Country Code,2019 [YR2019],2020 [YR2020],2021 [YR2021]
Switzerland,CHE,8575280,8636896,8703405
Eritrea,ERI,..,..,..
Germany,DEU,83092962,..,83196078
,,1,2,3
`

	populations, err := ParsePopulations(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, populations, 3, "rows without a country code are skipped")

	assert.Equal(t, "CHE", populations[0].CountryCode)
	assert.InDelta(t, 8636896, populations[0].Y2020, 1e-6)

	assert.True(t, math.IsNaN(populations[1].Y2019), "the .. marker reads as missing")
	assert.True(t, math.IsNaN(populations[1].Y2021))

	assert.True(t, math.IsNaN(populations[2].Y2020))
	assert.InDelta(t, 83196078, populations[2].Y2021, 1e-6)
}

func TestParsePopulationsXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "populations.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Country Name", "Country Code", "2019 [YR2019]", "2020 [YR2020]", "2021 [YR2021]"},
		{"Switzerland", "CHE", 8575280, 8636896, 8703405},
		{"Eritrea", "ERI", "..", "..", ".."},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	populations, err := ParsePopulationsXLSX(path)

	require.NoError(t, err)
	require.Len(t, populations, 2)
	assert.Equal(t, "CHE", populations[0].CountryCode)
	assert.InDelta(t, 8575280, populations[0].Y2019, 1e-6)
	assert.True(t, math.IsNaN(populations[1].Y2020))
}

func TestParsePopulationsXLSXMissingFile(t *testing.T) {
	_, err := ParsePopulationsXLSX(filepath.Join(t.TempDir(), "absent.xlsx"))
	assert.Error(t, err)
}
