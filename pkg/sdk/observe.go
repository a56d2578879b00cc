package papyrus

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// operation names an SDK call in metrics and logs.
type operation string

const (
	opPing              operation = "ping"
	opPaperList         operation = "paper.list"
	opPaperGet          operation = "paper.get"
	opPaperSearch       operation = "paper.search"
	opLibraryList       operation = "library.list"
	opLibraryGet        operation = "library.get"
	opLibraryCreate     operation = "library.create"
	opLibraryRename     operation = "library.rename"
	opLibraryAddPaper   operation = "library.add_paper"
	opLibraryPapers     operation = "library.papers"
	opReviewFromPapers  operation = "review.from_papers"
	opReviewFromPrompt  operation = "review.from_prompt"
	opReviewGet         operation = "review.get"
	opReviewList        operation = "review.list"
	opReviewUpdate      operation = "review.update_content"
	opAssistUnsupported operation = "assist.unsupported"
)

// assistOp keeps the assist label set bounded: unknown tasks share one name.
func assistOp(task Task) operation {
	switch task {
	case TaskParaphrase, TaskCite, TaskExpand, TaskShorten:
		return operation("assist." + string(task))
	}
	return opAssistUnsupported
}

// Operation statuses.
const (
	statusOK               = "ok"
	statusNotFound         = "not_found"
	statusInvalid          = "invalid"
	statusRateLimited      = "rate_limited"
	statusTimeout          = "timeout"
	statusGenerationFailed = "generation_failed"
	statusUnavailable      = "unavailable"
	statusError            = "error"
)

// statusOf maps an operation error onto a bounded status label.
func statusOf(err error) string {
	switch {
	case err == nil:
		return statusOK
	case errors.Is(err, ErrNotFound):
		return statusNotFound
	case errors.Is(err, ErrInvalidInput):
		return statusInvalid
	case errors.Is(err, ErrRateLimited):
		return statusRateLimited
	case errors.Is(err, ErrGenerationTimeout):
		return statusTimeout
	case errors.Is(err, ErrGenerationFailed):
		return statusGenerationFailed
	case errors.Is(err, ErrUnavailable):
		return statusUnavailable
	default:
		return statusError
	}
}

// sdkMetrics holds prometheus metrics registered for the SDK.
type sdkMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "papyrus",
			Subsystem: "sdk",
			Name:      "operations_total",
			Help:      "Total SDK operations by operation and status.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "papyrus",
			Subsystem: "sdk",
			Name:      "operation_duration_seconds",
			Help:      "SDK operation duration in seconds.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.025, 0.1, 0.5, 1, 2.5, 5, 10, 20, 45},
		}, []string{"operation"}),
	}
	if err := registerOrReuse(reg, &m.operations); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector, or adopts the one already registered
// under the same name so several clients can share a registry.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	err := reg.Register(*c)
	if err == nil {
		return nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return fmt.Errorf("papyrus: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return fmt.Errorf("papyrus: metric already registered with incompatible type: %T", are.ExistingCollector)
	}
	*c = existing
	return nil
}

// observer records metrics and logs for SDK operations. A nil observer is a no-op.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg != nil {
		m, err := newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
		o.metrics = m
	}
	return o, nil
}

func (o *observer) observe(op operation, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)
	status := statusOf(err)

	if o.metrics != nil {
		o.metrics.operations.WithLabelValues(string(op), status).Inc()
		o.metrics.duration.WithLabelValues(string(op)).Observe(dur.Seconds())
	}

	if o.logger == nil {
		return
	}
	switch status {
	case statusOK:
		o.logger.Debug("operation completed", "op", op, "duration", dur)
	case statusNotFound, statusInvalid:
		// Caller mistakes, not SDK failures.
		o.logger.Debug("operation rejected", "op", op, "status", status, "duration", dur, "error", err)
	default:
		o.logger.Warn("operation failed", "op", op, "status", status, "duration", dur, "error", err)
	}
}
