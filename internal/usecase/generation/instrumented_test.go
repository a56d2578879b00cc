package generation

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/papyrus/internal/domain"
	"github.com/kailas-cloud/papyrus/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterGenerationMetrics()
	os.Exit(m.Run())
}

type mockGenerator struct {
	result domain.GenerationResult
	err    error
	block  bool
	calls  int
	health error
}

func (m *mockGenerator) Generate(ctx context.Context, _ domain.GenerationRequest) (domain.GenerationResult, error) {
	m.calls++
	if m.block {
		<-ctx.Done()
		return domain.GenerationResult{}, ctx.Err()
	}
	return m.result, m.err
}

func (m *mockGenerator) HealthCheck(_ context.Context) error { return m.health }

func req(task domain.Task) domain.GenerationRequest {
	return domain.GenerationRequest{Task: task, Language: domain.English, Text: "hello"}
}

func TestInstrumentedGenerator_Success(t *testing.T) {
	inner := &mockGenerator{result: domain.GenerationResult{Text: "done", PromptTokens: 10, CompletionTokens: 5}}
	g := NewInstrumentedGenerator(inner, "test-ok", Options{}, zap.NewNop())

	ctx, usage := domain.NewContextWithUsage(context.Background())
	res, err := g.Generate(ctx, req(domain.TaskExpand))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "done" {
		t.Errorf("Text = %q", res.Text)
	}
	if usage.TotalTokens != 15 || !usage.Used {
		t.Errorf("usage not recorded: %+v", usage)
	}

	ok := testutil.ToFloat64(metrics.GenerationRequestsTotal.WithLabelValues("test-ok", "expand", "ok"))
	if ok != 1 {
		t.Errorf("expected 1 ok request, got %f", ok)
	}
	completion := testutil.ToFloat64(metrics.GenerationTokensTotal.WithLabelValues("test-ok", "completion"))
	if completion != 5 {
		t.Errorf("expected 5 completion tokens, got %f", completion)
	}
}

func TestInstrumentedGenerator_ProviderError(t *testing.T) {
	cause := errors.New("HTTP 500")
	g := NewInstrumentedGenerator(&mockGenerator{err: cause}, "test-fail", Options{}, zap.NewNop())

	_, err := g.Generate(context.Background(), req(domain.TaskCite))
	if !errors.Is(err, domain.ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("cause lost: %v", err)
	}
	if v := testutil.ToFloat64(metrics.GenerationErrorsTotal.WithLabelValues("test-fail", "failed")); v != 1 {
		t.Errorf("expected 1 failed error, got %f", v)
	}
}

func TestInstrumentedGenerator_KeepsClassifiedError(t *testing.T) {
	inner := &mockGenerator{err: domain.ErrRateLimited}
	g := NewInstrumentedGenerator(inner, "test-upstream-429", Options{}, zap.NewNop())

	_, err := g.Generate(context.Background(), req(domain.TaskCite))
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if errors.Is(err, domain.ErrGenerationFailed) {
		t.Error("already classified errors must not be re-wrapped as failures")
	}
}

func TestInstrumentedGenerator_Timeout(t *testing.T) {
	inner := &mockGenerator{block: true}
	g := NewInstrumentedGenerator(inner, "test-timeout", Options{Timeout: 10 * time.Millisecond}, zap.NewNop())

	_, err := g.Generate(context.Background(), req(domain.TaskPromptReview))
	if !errors.Is(err, domain.ErrGenerationTimeout) {
		t.Fatalf("expected ErrGenerationTimeout, got %v", err)
	}
}

func TestInstrumentedGenerator_CallerCancel(t *testing.T) {
	inner := &mockGenerator{block: true}
	g := NewInstrumentedGenerator(inner, "test-cancel", Options{Timeout: time.Minute}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Generate(ctx, req(domain.TaskParaphrase))
	if errors.Is(err, domain.ErrGenerationTimeout) {
		t.Fatal("cancellation is not a timeout")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled in chain, got %v", err)
	}
}

func TestInstrumentedGenerator_RateLimit(t *testing.T) {
	inner := &mockGenerator{result: domain.GenerationResult{Text: "x"}}
	g := NewInstrumentedGenerator(inner, "test-rl", Options{RatePerMinute: 1, Burst: 2}, zap.NewNop())

	for i := range 2 {
		if _, err := g.Generate(context.Background(), req(domain.TaskShorten)); err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
	}
	_, err := g.Generate(context.Background(), req(domain.TaskShorten))
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if inner.calls != 2 {
		t.Errorf("limited call reached provider: %d calls", inner.calls)
	}
}

func TestInstrumentedGenerator_HealthCheck(t *testing.T) {
	down := errors.New("down")
	g := NewInstrumentedGenerator(&mockGenerator{health: down}, "test-hc", Options{}, zap.NewNop())
	if err := g.HealthCheck(context.Background()); !errors.Is(err, down) {
		t.Errorf("expected inner health error, got %v", err)
	}
}
