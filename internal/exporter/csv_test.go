package exporter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"epipulse/internal/config"
	"epipulse/internal/pipeline"
	"epipulse/pkg/contracts/domain"
)

func testWriter(t *testing.T) (*CSVWriter, string) {
	t.Helper()
	dir := t.TempDir()
	paths := &config.Paths{
		DataDir:      filepath.Join(dir, "data"),
		ProcessedDir: filepath.Join(dir, "processed"),
		LogsDir:      filepath.Join(dir, "logs"),
	}
	return NewCSVWriter(paths), paths.ProcessedDir
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteSimpleCSV(t *testing.T) {
	w, processed := testWriter(t)

	err := w.WriteSimpleCSV("out.csv", []string{"a", "b"}, [][]string{{"1", "2"}, {"3", "4"}})

	require.NoError(t, err)
	records := readCSV(t, filepath.Join(processed, "out.csv"))
	require.Len(t, records, 3)
	assert.Equal(t, []string{"a", "b"}, records[0])
	assert.Equal(t, []string{"3", "4"}, records[2])
}

func TestWriteCSVAppend(t *testing.T) {
	w, processed := testWriter(t)

	require.NoError(t, w.WriteCSV("out.csv", WriteOptions{
		Headers: []string{"a"},
		Records: [][]string{{"1"}},
	}))
	require.NoError(t, w.WriteCSV("out.csv", WriteOptions{
		Records: [][]string{{"2"}},
		Append:  true,
	}))

	records := readCSV(t, filepath.Join(processed, "out.csv"))
	require.Len(t, records, 3)
	assert.Equal(t, []string{"2"}, records[2])
}

func TestWriteCombined(t *testing.T) {
	w, processed := testWriter(t)
	date := time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := []domain.CombinedRow{
		{
			EntityName: "Switzerland", DateReported: date,
			NewCases: 100, CumulativeCases: 100, NewDeaths: 2, CumulativeDeaths: 2,
			DeathsPerCases: 0.02, Rt: 1.5,
		},
		{
			EntityName: "EURO", DateReported: date,
			NewCases: 12.5, CumulativeCases: 12.5,
			DeathsPerCases: 0, Rt: 0,
		},
	}

	require.NoError(t, w.WriteCombined("combined.csv", rows))

	records := readCSV(t, filepath.Join(processed, "combined.csv"))
	require.Len(t, records, 3)
	assert.Equal(t, domain.CombinedHeader, records[0])
	assert.Equal(t, []string{"Switzerland", "2020-03-01", "100", "100", "2", "2", "0.02", "1.5"}, records[1])
	assert.Equal(t, "12.5", records[2][2], "fractional per-capita counts keep their decimals")
}

func TestWriteResult(t *testing.T) {
	w, processed := testWriter(t)
	date := time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)
	result := &pipeline.Result{
		Absolute:   []domain.CombinedRow{{EntityName: "A", DateReported: date, NewCases: 10}},
		Normalized: []domain.CombinedRow{{EntityName: "A", DateReported: date, NewCases: 1.25}},
	}

	require.NoError(t, w.WriteResult(result))

	absolute := readCSV(t, filepath.Join(processed, AbsoluteFile))
	normalized := readCSV(t, filepath.Join(processed, NormalizedFile))
	require.Len(t, absolute, 2)
	require.Len(t, normalized, 2)
	assert.Equal(t, "10", absolute[1][2])
	assert.Equal(t, "1.25", normalized[1][2])
}
