package infrastructure

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Application metrics exposed on /metrics.
var (
	// PipelineRuns counts statistics pipeline executions by outcome.
	PipelineRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "epipulse_pipeline_runs_total",
		Help: "Number of statistics pipeline executions by outcome.",
	}, []string{"outcome"})

	// PipelineDuration observes the wall time of pipeline executions.
	PipelineDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "epipulse_pipeline_duration_seconds",
		Help:    "Wall time of statistics pipeline executions.",
		Buckets: prometheus.DefBuckets,
	})

	// DatasetRows tracks the number of rows in the combined table by view.
	DatasetRows = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "epipulse_dataset_rows",
		Help: "Rows in the combined output table by view.",
	}, []string{"view"})

	// SeriesRequests counts series queries served by the data service.
	SeriesRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "epipulse_series_requests_total",
		Help: "Series queries served by the data service.",
	}, []string{"view"})
)
