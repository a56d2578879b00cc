package papyrus

import (
	"context"
	"time"

	healthuc "github.com/kailas-cloud/papyrus/internal/usecase/health"
)

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string // "ok", "degraded", "error"
	Checks map[string]ComponentHealth
}

// ComponentHealth is one checked dependency, keyed "storage" or "generation".
type ComponentHealth struct {
	Status  string // "ok" or "error"
	Backend string
	Latency time.Duration
	Err     error
}

// Health checks the store and the generation provider.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]ComponentHealth, len(report.Checks))
	for name, ch := range report.Checks {
		checks[name] = ComponentHealth{
			Status:  string(ch.Result),
			Backend: ch.Backend,
			Latency: ch.Latency,
			Err:     ch.Err,
		}
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
