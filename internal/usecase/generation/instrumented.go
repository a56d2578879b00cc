package generation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/papyrus/internal/domain"
	"github.com/kailas-cloud/papyrus/internal/metrics"
)

// Options tune an InstrumentedGenerator. Zero values disable the corresponding guard.
type Options struct {
	// Timeout bounds a single provider call.
	Timeout time.Duration
	// RatePerMinute limits provider calls; Burst is the bucket size.
	RatePerMinute int
	Burst         int
}

// InstrumentedGenerator wraps a Generator with rate limiting, a call timeout,
// error classification, metrics and logging.
//
// Errors returned by Generate always match one of domain.ErrRateLimited,
// domain.ErrGenerationTimeout or domain.ErrGenerationFailed.
type InstrumentedGenerator struct {
	inner    domain.Generator
	provider string
	timeout  time.Duration
	limiter  *rate.Limiter
	logger   *zap.Logger
}

// NewInstrumentedGenerator wraps a generator with limits and observability.
func NewInstrumentedGenerator(
	inner domain.Generator, provider string, opts Options, logger *zap.Logger,
) *InstrumentedGenerator {
	g := &InstrumentedGenerator{
		inner:    inner,
		provider: provider,
		timeout:  opts.Timeout,
		logger:   logger,
	}
	if opts.RatePerMinute > 0 {
		burst := max(opts.Burst, 1)
		g.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RatePerMinute)), burst)
	}
	return g
}

// Generate applies the rate limit and timeout, delegates to the inner generator
// and records usage.
func (g *InstrumentedGenerator) Generate(
	ctx context.Context, req domain.GenerationRequest,
) (domain.GenerationResult, error) {
	task := string(req.Task)

	if g.limiter != nil && !g.limiter.Allow() {
		g.logger.Warn("Generation rate limited",
			zap.String("provider", g.provider),
			zap.String("task", task),
		)
		metrics.GenerationRequestsTotal.WithLabelValues(g.provider, task, "rate_limited").Inc()
		return domain.GenerationResult{}, fmt.Errorf("generate %s: %w", task, domain.ErrRateLimited)
	}

	callCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := g.inner.Generate(callCtx, req)
	duration := time.Since(start)

	metrics.GenerationRequestDuration.WithLabelValues(g.provider, task).Observe(duration.Seconds())

	if err != nil {
		err = g.classify(callCtx, err)
		errType := "failed"
		if errors.Is(err, domain.ErrGenerationTimeout) {
			errType = "timeout"
		}
		metrics.GenerationRequestsTotal.WithLabelValues(g.provider, task, "error").Inc()
		metrics.GenerationErrorsTotal.WithLabelValues(g.provider, errType).Inc()
		g.logger.Error("Generation request failed",
			zap.String("provider", g.provider),
			zap.String("task", task),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.GenerationResult{}, fmt.Errorf("generate %s: %w", task, err)
	}

	metrics.GenerationRequestsTotal.WithLabelValues(g.provider, task, "ok").Inc()
	if result.PromptTokens > 0 {
		metrics.GenerationTokensTotal.WithLabelValues(g.provider, "prompt").Add(float64(result.PromptTokens))
	}
	if result.CompletionTokens > 0 {
		metrics.GenerationTokensTotal.WithLabelValues(g.provider, "completion").Add(float64(result.CompletionTokens))
	}
	domain.UsageFromContext(ctx).AddTokens(result.TotalTokens())

	g.logger.Debug("Generation request completed",
		zap.String("provider", g.provider),
		zap.String("task", task),
		zap.Duration("duration", duration),
		zap.Int("prompt_tokens", result.PromptTokens),
		zap.Int("completion_tokens", result.CompletionTokens),
	)

	return result, nil
}

// HealthCheck delegates to the inner generator when it supports health checks.
func (g *InstrumentedGenerator) HealthCheck(ctx context.Context) error {
	if hc, ok := g.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx) //nolint:wrapcheck // transparent decorator
	}
	return nil
}

// classify maps a provider error onto the generation sentinels. Errors that
// already carry one are kept as they are.
func (g *InstrumentedGenerator) classify(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrRateLimited),
		errors.Is(err, domain.ErrGenerationTimeout),
		errors.Is(err, domain.ErrGenerationFailed):
		return err
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", domain.ErrGenerationTimeout, err)
	default:
		return fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
	}
}
