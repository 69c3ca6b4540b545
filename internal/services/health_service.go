package services

import (
	"context"
	"time"
)

// Version information, set at build time.
var (
	Version   = "dev"
	BuildTime = ""
)

// HealthService reports liveness and readiness of the serving layer.
type HealthService struct {
	data      *DataService
	startedAt time.Time
}

// NewHealthService creates a new health service
func NewHealthService(data *DataService) *HealthService {
	return &HealthService{
		data:      data,
		startedAt: time.Now(),
	}
}

// HealthStatus is the health check payload.
type HealthStatus struct {
	Status   string            `json:"status"`
	Uptime   string            `json:"uptime"`
	Version  string            `json:"version"`
	Checks   map[string]string `json:"checks,omitempty"`
	Datasets *SummaryResponse  `json:"datasets,omitempty"`
}

// HealthCheck handles the full health report.
func (s *HealthService) HealthCheck(ctx context.Context) *HealthStatus {
	summary := s.data.Summary(ctx)

	status := "healthy"
	checks := map[string]string{"dataset": "loaded"}
	if summary.Empty {
		// The service keeps serving with an empty result set; degraded,
		// not down.
		status = "degraded"
		checks["dataset"] = "empty"
	}

	return &HealthStatus{
		Status:   status,
		Uptime:   time.Since(s.startedAt).String(),
		Version:  Version,
		Checks:   checks,
		Datasets: summary,
	}
}

// LivenessCheck reports that the process is up.
func (s *HealthService) LivenessCheck(ctx context.Context) *HealthStatus {
	return &HealthStatus{
		Status: "alive",
		Uptime: time.Since(s.startedAt).String(),
	}
}

// ReadinessCheck reports whether the service can answer queries.
func (s *HealthService) ReadinessCheck(ctx context.Context) *HealthStatus {
	return s.HealthCheck(ctx)
}

// VersionInfo reports build information.
func (s *HealthService) VersionInfo() map[string]string {
	return map[string]string{
		"version":    Version,
		"build_time": BuildTime,
	}
}
