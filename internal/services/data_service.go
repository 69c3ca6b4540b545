package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"epipulse/internal/config"
	"epipulse/internal/infrastructure"
	"epipulse/internal/pipeline"
	"epipulse/pkg/contracts/domain"
)

// RefreshNotifier receives a notification when the dataset is reloaded.
// The websocket hub implements it.
type RefreshNotifier interface {
	BroadcastDataUpdate(rows int, loadedAt time.Time)
}

// DataService owns the pipeline result and serves read-only queries against
// it. The result object is constructed once at startup and swapped only by
// an explicit Reload, never reassigned from request handlers.
type DataService struct {
	cfg      *config.Config
	paths    *config.Paths
	logger   *slog.Logger
	notifier RefreshNotifier
	validate *validator.Validate

	mu     sync.RWMutex
	result *pipeline.Result
}

// NewDataService creates a data service and runs the pipeline once. A
// missing source table is the one condition reported to the caller without
// failing construction: the service starts with an empty result set and the
// returned error wraps *pipeline.InputUnavailableError.
func NewDataService(ctx context.Context, cfg *config.Config, logger *slog.Logger, notifier RefreshNotifier) (*DataService, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &DataService{
		cfg:      cfg,
		paths:    cfg.GetPaths(),
		logger:   logger.With(slog.String("service", "data")),
		notifier: notifier,
		validate: validator.New(),
		result:   &pipeline.Result{LoadedAt: time.Now()},
	}

	if err := s.Reload(ctx); err != nil {
		return s, err
	}

	return s, nil
}

// Reload re-runs the pipeline from the raw source tables and atomically
// swaps in the new result.
func (s *DataService) Reload(ctx context.Context) error {
	start := time.Now()
	src := pipeline.SourcesInDir(s.paths.DataDir)

	result, err := pipeline.Run(ctx, s.logger, src)
	infrastructure.PipelineDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		infrastructure.PipelineRuns.WithLabelValues("error").Inc()
		return fmt.Errorf("pipeline run: %w", err)
	}
	infrastructure.PipelineRuns.WithLabelValues("success").Inc()
	infrastructure.DatasetRows.WithLabelValues("absolute").Set(float64(len(result.Absolute)))
	infrastructure.DatasetRows.WithLabelValues("normalized").Set(float64(len(result.Normalized)))

	s.mu.Lock()
	s.result = result
	s.mu.Unlock()

	if s.notifier != nil {
		s.notifier.BroadcastDataUpdate(len(result.Absolute), result.LoadedAt)
	}

	return nil
}

// snapshot returns the current result under the read lock.
func (s *DataService) snapshot() *pipeline.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

// EntitiesResponse lists the selectable entities and the covered date range.
type EntitiesResponse struct {
	Countries []string  `json:"countries"`
	Regions   []string  `json:"regions"`
	MinDate   time.Time `json:"min_date"`
	MaxDate   time.Time `json:"max_date"`
}

// ListEntities returns the entities available for selection.
func (s *DataService) ListEntities(ctx context.Context) *EntitiesResponse {
	result := s.snapshot()
	return &EntitiesResponse{
		Countries: result.Countries,
		Regions:   result.Regions,
		MinDate:   result.MinDate,
		MaxDate:   result.MaxDate,
	}
}

// SeriesRequest is one dashboard interaction: entity multi-select, an
// inclusive date range, and the normalize toggle.
type SeriesRequest struct {
	Entities   []string  `validate:"required,min=1,dive,required"`
	From       time.Time `validate:"-"`
	To         time.Time `validate:"-"`
	Normalized bool
}

// SeriesPoint is one plotted value row.
type SeriesPoint struct {
	Date             time.Time `json:"date"`
	NewCases         float64   `json:"new_cases"`
	CumulativeCases  float64   `json:"cumulative_cases"`
	NewDeaths        float64   `json:"new_deaths"`
	CumulativeDeaths float64   `json:"cumulative_deaths"`
	DeathsPerCases   float64   `json:"deaths_per_cases"`
	Rt               float64   `json:"rt"`
}

// EntitySeries is one entity's chronologically ordered series.
type EntitySeries struct {
	Name   string        `json:"name"`
	Points []SeriesPoint `json:"points"`
}

// SeriesResponse answers one dashboard interaction.
type SeriesResponse struct {
	Series     []EntitySeries `json:"series"`
	Normalized bool           `json:"normalized"`
	LoadedAt   time.Time      `json:"loaded_at"`
}

// Series filters the precomputed combined table. No statistical computation
// happens here; selection, date bounds and the normalize toggle only choose
// which precomputed rows are returned.
func (s *DataService) Series(ctx context.Context, req SeriesRequest) (*SeriesResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validate series request: %w", err)
	}
	if !req.From.IsZero() && !req.To.IsZero() && req.To.Before(req.From) {
		return nil, fmt.Errorf("invalid date range: to %s before from %s",
			req.To.Format("2006-01-02"), req.From.Format("2006-01-02"))
	}

	result := s.snapshot()
	rows := result.Absolute
	view := "absolute"
	if req.Normalized {
		rows = result.Normalized
		view = "normalized"
	}
	infrastructure.SeriesRequests.WithLabelValues(view).Inc()

	selected := make(map[string]bool, len(req.Entities))
	for _, e := range req.Entities {
		selected[e] = true
	}

	byEntity := make(map[string][]SeriesPoint)
	for _, row := range rows {
		if !selected[row.EntityName] {
			continue
		}
		if !inRange(row.DateReported, req.From, req.To) {
			continue
		}
		byEntity[row.EntityName] = append(byEntity[row.EntityName], toPoint(row))
	}

	// An unknown entity yields an empty series rather than an error.
	resp := &SeriesResponse{Normalized: req.Normalized, LoadedAt: result.LoadedAt}
	for _, name := range req.Entities {
		points := byEntity[name]
		sort.Slice(points, func(i, j int) bool {
			return points[i].Date.Before(points[j].Date)
		})
		resp.Series = append(resp.Series, EntitySeries{Name: name, Points: points})
	}

	s.logger.DebugContext(ctx, "series query served",
		slog.Int("entities", len(req.Entities)),
		slog.Bool("normalized", req.Normalized))

	return resp, nil
}

// SummaryResponse describes the loaded dataset.
type SummaryResponse struct {
	Rows      int       `json:"rows"`
	Countries int       `json:"countries"`
	Regions   int       `json:"regions"`
	MinDate   time.Time `json:"min_date"`
	MaxDate   time.Time `json:"max_date"`
	LoadedAt  time.Time `json:"loaded_at"`
	Empty     bool      `json:"empty"`
}

// Summary reports dataset-level statistics.
func (s *DataService) Summary(ctx context.Context) *SummaryResponse {
	result := s.snapshot()
	return &SummaryResponse{
		Rows:      len(result.Absolute),
		Countries: len(result.Countries),
		Regions:   len(result.Regions),
		MinDate:   result.MinDate,
		MaxDate:   result.MaxDate,
		LoadedAt:  result.LoadedAt,
		Empty:     result.Empty(),
	}
}

func inRange(date, from, to time.Time) bool {
	if !from.IsZero() && date.Before(from) {
		return false
	}
	if !to.IsZero() && date.After(to) {
		return false
	}
	return true
}

func toPoint(row domain.CombinedRow) SeriesPoint {
	return SeriesPoint{
		Date:             row.DateReported,
		NewCases:         row.NewCases,
		CumulativeCases:  row.CumulativeCases,
		NewDeaths:        row.NewDeaths,
		CumulativeDeaths: row.CumulativeDeaths,
		DeathsPerCases:   row.DeathsPerCases,
		Rt:               row.Rt,
	}
}
