package health

import (
	"context"
	"time"
)

// Status is the aggregated health of the service.
type Status string

const (
	// Healthy means storage and generation both answer.
	Healthy Status = "ok"
	// Degraded means the directory serves but generation does not.
	Degraded Status = "degraded"
	// Unhealthy means storage is down and nothing can be served.
	Unhealthy Status = "error"
)

// CheckResult is the outcome of one component check.
type CheckResult string

const (
	CheckOK    CheckResult = "ok"
	CheckError CheckResult = "error"
)

// Component names used as report keys.
const (
	ComponentStorage    = "storage"
	ComponentGeneration = "generation"
)

const defaultCheckTimeout = 2 * time.Second

// Check is one component's entry in a Report.
type Check struct {
	Result  CheckResult
	Backend string // storage driver or generation provider
	Latency time.Duration
	Err     error
}

// Report aggregates component checks.
type Report struct {
	Status Status
	Checks map[string]Check
}

// Options names the configured backends and bounds each check.
type Options struct {
	StorageBackend    string
	GenerationBackend string
	Timeout           time.Duration
}

// Service checks the store and the generation provider.
type Service struct {
	storage    Pinger
	generation GenerationChecker
	opts       Options
	now        func() time.Time
}

// New creates a Service. generation may be nil, in which case the report
// carries no generation entry.
func New(storage Pinger, generation GenerationChecker, opts Options) *Service {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultCheckTimeout
	}
	return &Service{storage: storage, generation: generation, opts: opts, now: time.Now}
}

// Check runs every component check. A storage failure makes the report
// Unhealthy; a generation failure only degrades it.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]Check, 2)
	status := Healthy

	checks[ComponentStorage] = s.run(ctx, s.opts.StorageBackend, s.storage.Ping)
	if checks[ComponentStorage].Result == CheckError {
		status = Unhealthy
	}

	if s.generation != nil {
		checks[ComponentGeneration] = s.run(ctx, s.opts.GenerationBackend, s.generation.HealthCheck)
		if checks[ComponentGeneration].Result == CheckError && status == Healthy {
			status = Degraded
		}
	}

	return Report{Status: status, Checks: checks}
}

func (s *Service) run(ctx context.Context, backend string, fn func(context.Context) error) Check {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	start := s.now()
	err := fn(ctx)
	c := Check{Result: CheckOK, Backend: backend, Latency: s.now().Sub(start)}
	if err != nil {
		c.Result = CheckError
		c.Err = err
	}
	return c
}
