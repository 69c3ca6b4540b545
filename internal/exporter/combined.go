package exporter

import (
	"fmt"
	"strconv"

	"epipulse/internal/pipeline"
	"epipulse/pkg/contracts/domain"
)

// Output file names for the two combined tables.
const (
	AbsoluteFile   = "df_absolute.csv"
	NormalizedFile = "df_normalized.csv"
)

// WriteResult persists the pipeline result as the absolute and normalized
// combined tables in the processed output directory.
func (w *CSVWriter) WriteResult(result *pipeline.Result) error {
	if err := w.WriteCombined(AbsoluteFile, result.Absolute); err != nil {
		return fmt.Errorf("write absolute table: %w", err)
	}
	if err := w.WriteCombined(NormalizedFile, result.Normalized); err != nil {
		return fmt.Errorf("write normalized table: %w", err)
	}
	return nil
}

// WriteCombined writes one combined table with the fixed output column set.
func (w *CSVWriter) WriteCombined(filePath string, rows []domain.CombinedRow) error {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			row.EntityName,
			row.DateReported.Format("2006-01-02"),
			formatCount(row.NewCases),
			formatCount(row.CumulativeCases),
			formatCount(row.NewDeaths),
			formatCount(row.CumulativeDeaths),
			strconv.FormatFloat(row.DeathsPerCases, 'f', -1, 64),
			strconv.FormatFloat(row.Rt, 'f', -1, 64),
		})
	}

	return w.WriteSimpleCSV(filePath, domain.CombinedHeader, records)
}

// formatCount renders a count without a trailing decimal point for whole
// numbers, so the absolute table keeps integer-looking counts while the
// normalized table keeps its fractional per-capita values.
func formatCount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
