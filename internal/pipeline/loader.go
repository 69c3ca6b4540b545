package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"epipulse/pkg/contracts/domain"
)

// Default source file names inside the data directory.
const (
	CasesFile           = "WHO-COVID-19-global-data.csv"
	CountryCodesFile    = "region.csv"
	PopulationsFile     = "populations.csv"
	PopulationsXLSXFile = "populations.xlsx"
)

// Sources names the three input table files.
type Sources struct {
	Cases        string
	CountryCodes string
	Populations  string
}

// SourcesInDir resolves the default source file layout under dir. The
// population table may be either the CSV or the Excel export; the CSV wins
// when both exist.
func SourcesInDir(dir string) Sources {
	s := Sources{
		Cases:        filepath.Join(dir, CasesFile),
		CountryCodes: filepath.Join(dir, CountryCodesFile),
		Populations:  filepath.Join(dir, PopulationsFile),
	}
	if _, err := os.Stat(s.Populations); os.IsNotExist(err) {
		if xlsx := filepath.Join(dir, PopulationsXLSXFile); fileExists(xlsx) {
			s.Populations = xlsx
		}
	}
	return s
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// InputUnavailableError reports a missing or unreadable source table. Batch
// runs treat it as fatal; the serving layer reports it and substitutes an
// empty result set.
type InputUnavailableError struct {
	Path string
	Err  error
}

func (e *InputUnavailableError) Error() string {
	return fmt.Sprintf("input table unavailable: %s: %v", e.Path, e.Err)
}

func (e *InputUnavailableError) Unwrap() error { return e.Err }

// LoadSources reads the three source tables concurrently.
func LoadSources(ctx context.Context, logger *slog.Logger, src Sources) (cases []domain.CaseRow, codes []domain.CountryCode, populations []domain.PopulationRow, err error) {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		cases, err = loadCSV(src.Cases, ParseCases)
		return err
	})
	g.Go(func() error {
		var err error
		codes, err = loadCSV(src.CountryCodes, ParseCountryCodes)
		return err
	})
	g.Go(func() error {
		var err error
		populations, err = loadPopulations(src.Populations)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}

	logger.InfoContext(ctx, "source tables loaded",
		slog.Int("case_rows", len(cases)),
		slog.Int("country_codes", len(codes)),
		slog.Int("population_rows", len(populations)))

	return cases, codes, populations, nil
}

func loadCSV[T any](path string, parse func(r io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &InputUnavailableError{Path: path, Err: err}
	}
	defer f.Close()

	rows, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

func loadPopulations(path string) ([]domain.PopulationRow, error) {
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		if !fileExists(path) {
			return nil, &InputUnavailableError{Path: path, Err: os.ErrNotExist}
		}
		rows, err := ParsePopulationsXLSX(path)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
		return rows, nil
	}
	return loadCSV(path, ParsePopulations)
}
