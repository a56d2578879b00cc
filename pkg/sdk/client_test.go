package papyrus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func newMemoryClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	c, err := New(context.Background(), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := &clientConfig{driver: "unknown"}
	_, err := createStore(cfg)
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestNew_MissingCatalog(t *testing.T) {
	_, err := New(context.Background(), WithCatalog(filepath.Join(t.TempDir(), "missing.yaml")))
	if err == nil {
		t.Fatal("expected error for missing catalog")
	}
}

func TestNew_SeedsDefaultCatalog(t *testing.T) {
	c := newMemoryClient(t)
	ctx := context.Background()

	papers, err := c.Papers().List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(papers) != 3 {
		t.Fatalf("papers = %d, want 3", len(papers))
	}
	libs, err := c.Libraries().List(ctx)
	if err != nil {
		t.Fatalf("Libraries: %v", err)
	}
	if len(libs) != 2 || libs[0].ID != "lib1" {
		t.Errorf("unexpected libraries %+v", libs)
	}
	if err := c.Ping(ctx); err != nil {
		t.Errorf("Ping: %v", err)
	}
	h := c.Health(ctx)
	if h.Status != "ok" || h.Checks["storage"].Backend != "memory" || h.Checks["generation"].Backend != "placeholder" {
		t.Errorf("health = %+v", h)
	}
}

func TestNew_WithoutSeed(t *testing.T) {
	c := newMemoryClient(t, WithoutSeed())
	papers, err := c.Papers().List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(papers) != 0 {
		t.Errorf("papers = %d, want 0", len(papers))
	}
}

func TestNew_SQLitePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papyrus.db")
	ctx := context.Background()

	c, err := New(ctx, WithSQLite(path))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	lib, err := c.Libraries().Create(ctx, "Reading list")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	c.Close()

	c2, err := New(ctx, WithSQLite(path), WithoutSeed())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer c2.Close()
	got, err := c2.Libraries().Get(ctx, lib.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Reading list" {
		t.Errorf("Name = %q", got.Name)
	}
}

func TestClient_SearchBuilder(t *testing.T) {
	c := newMemoryClient(t)
	ctx := context.Background()

	res, err := c.Papers().Search("an").Oldest().Do(ctx)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got := ids(res.Papers); !equal(got, []string{"2", "1", "3"}) {
		t.Errorf("oldest = %v", got)
	}

	res, err = c.Papers().Search("an").Journal("quantum").Do(ctx)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got := ids(res.Papers); !equal(got, []string{"3"}) {
		t.Errorf("journal = %v", got)
	}

	res, err = c.Papers().Search("an").Years("2023", "2023").Year(2022).Do(ctx)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Total != 0 {
		t.Errorf("range and exact year should compose, got %v", ids(res.Papers))
	}

	res, err = c.Papers().Search("").Do(ctx)
	if err != nil || res.Total != 0 {
		t.Errorf("blank query: %+v, %v", res, err)
	}

	_, err = c.Papers().Search("an").Sort("sideways").Do(ctx)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	_, err = c.Papers().Search("an").Language("de").Do(ctx)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestClient_LibraryFlow(t *testing.T) {
	c := newMemoryClient(t)
	ctx := context.Background()

	lib, err := c.Libraries().Create(ctx, "Agents")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for range 2 {
		if err := c.Libraries().AddPaper(ctx, lib.ID, "2"); err != nil {
			t.Fatalf("AddPaper: %v", err)
		}
	}
	papers, err := c.Libraries().Papers(ctx, lib.ID)
	if err != nil {
		t.Fatalf("Papers: %v", err)
	}
	if len(papers) != 1 || papers[0].ID != "2" {
		t.Errorf("unexpected papers %v", ids(papers))
	}

	if err := c.Libraries().AddPaper(ctx, "missing", "1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := c.Libraries().Create(ctx, " "); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestClient_RenameLibrary(t *testing.T) {
	c := newMemoryClient(t)
	ctx := context.Background()

	lib, err := c.Libraries().Rename(ctx, "lib1", "ML")
	if err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if lib.Name != "ML" || lib.ID != "lib1" {
		t.Errorf("unexpected library %+v", lib)
	}
	got, err := c.Libraries().Get(ctx, "lib1")
	if err != nil || got.Name != "ML" {
		t.Errorf("Get after rename: %+v, %v", got, err)
	}

	if _, err := c.Libraries().Rename(ctx, "missing", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := c.Libraries().Rename(ctx, "lib1", ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestClient_ReviewFlow(t *testing.T) {
	c := newMemoryClient(t)
	ctx := context.Background()

	rev, err := c.Reviews().FromPapers(ctx, []string{"1", "3"}, "", Farsi)
	if err != nil {
		t.Fatalf("FromPapers: %v", err)
	}
	if rev.Title != "مرور ادبیات" || rev.Kind != ReviewFromPapers {
		t.Errorf("unexpected review %+v", rev)
	}

	edited, err := c.Reviews().UpdateContent(ctx, rev.ID, "edited")
	if err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}
	if edited.Content != "edited" || edited.Title != rev.Title {
		t.Errorf("unexpected edit %+v", edited)
	}

	if _, err := c.Reviews().Get(ctx, "review-0"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := c.Reviews().FromPrompt(ctx, "", nil, English); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestClient_Assist(t *testing.T) {
	c := newMemoryClient(t)

	out, err := c.Assist(context.Background(), TaskCite, "Graphs help", English)
	if err != nil {
		t.Fatalf("Assist: %v", err)
	}
	if out != "Graphs help (Author, Year)" {
		t.Errorf("out = %q", out)
	}

	if _, err := c.Assist(context.Background(), TaskLiteratureReview, "x", English); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestClient_WithGenerator(t *testing.T) {
	var got GenerationRequest
	gen := &mockGenerator{fn: func(_ context.Context, req GenerationRequest) (GenerationResult, error) {
		got = req
		return GenerationResult{Text: "custom review", PromptTokens: 3}, nil
	}}
	c := newMemoryClient(t, WithGenerator(gen))

	rev, err := c.Reviews().FromPapers(context.Background(), []string{"3"}, "hardware", English)
	if err != nil {
		t.Fatalf("FromPapers: %v", err)
	}
	if rev.Content != "custom review" {
		t.Errorf("Content = %q", rev.Content)
	}
	if got.Task != TaskLiteratureReview || len(got.Papers) != 1 || got.Papers[0].ID != "3" {
		t.Errorf("unexpected request %+v", got)
	}
}

func TestClient_GeneratorFailure(t *testing.T) {
	gen := &mockGenerator{fn: func(context.Context, GenerationRequest) (GenerationResult, error) {
		return GenerationResult{}, errors.New("provider down")
	}}
	c := newMemoryClient(t, WithGenerator(gen))

	_, err := c.Reviews().FromPrompt(context.Background(), "graphs", nil, English)
	if !errors.Is(err, ErrGenerationFailed) {
		t.Errorf("expected ErrGenerationFailed, got %v", err)
	}
}

func TestClientOptions(t *testing.T) {
	cfg := &clientConfig{}

	WithValkey("localhost:6379", "secret").apply(cfg)
	if cfg.driver != "valkey" || cfg.addrs[0] != "localhost:6379" || cfg.password != "secret" {
		t.Errorf("unexpected valkey config %+v", cfg)
	}

	cfg2 := &clientConfig{}
	WithRedis("localhost:6380", "pass").apply(cfg2)
	if cfg2.driver != "redis" {
		t.Errorf("driver = %q, want redis", cfg2.driver)
	}

	cfg3 := &clientConfig{}
	WithSQLite("x.db").apply(cfg3)
	WithKeyPrefix("t:").apply(cfg3)
	WithCatalog("catalog.yaml").apply(cfg3)
	WithoutSeed().apply(cfg3)
	if cfg3.driver != "sqlite" || cfg3.path != "x.db" || cfg3.prefix != "t:" ||
		cfg3.catalogPath != "catalog.yaml" || !cfg3.skipSeed {
		t.Errorf("unexpected config %+v", cfg3)
	}
	WithMemory().apply(cfg3)
	if cfg3.driver != "memory" {
		t.Errorf("driver = %q, want memory", cfg3.driver)
	}

	cfg4 := &clientConfig{}
	logger := slog.Default()
	WithLogger(logger).apply(cfg4)
	if cfg4.logger != logger {
		t.Error("expected logger to be set")
	}

	cfg5 := &clientConfig{}
	reg := prometheus.NewRegistry()
	WithPrometheus(reg).apply(cfg5)
	if cfg5.metricsReg != reg {
		t.Error("expected metricsReg to be set")
	}
}

func TestClient_Close_NilStore(t *testing.T) {
	c := &Client{store: nil}
	c.Close()
}

func TestObserver_NilSafe(t *testing.T) {
	var obs *observer
	obs.observe("test", time.Now(), nil)
	obs.observe("test", time.Now(), errors.New("err"))
}

func TestObserver_WithPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}

	obs.observe(opPaperGet, time.Now().Add(-10*time.Millisecond), nil)
	obs.observe(opPaperGet, time.Now(), fmt.Errorf("paper 9: %w", ErrNotFound))
	obs.observe(opReviewFromPrompt, time.Now(), fmt.Errorf("generate: %w", ErrRateLimited))

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	got := map[string]bool{}
	for _, f := range families {
		if f.GetName() != "papyrus_sdk_operations_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			got[labels["operation"]+"/"+labels["status"]] = true
		}
	}
	for _, want := range []string{"paper.get/ok", "paper.get/not_found", "review.from_prompt/rate_limited"} {
		if !got[want] {
			t.Errorf("missing sample %s in %v", want, got)
		}
	}
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{fmt.Errorf("x: %w", ErrNotFound), "not_found"},
		{fmt.Errorf("x: %w", ErrInvalidInput), "invalid"},
		{ErrRateLimited, "rate_limited"},
		{ErrGenerationTimeout, "timeout"},
		{ErrGenerationFailed, "generation_failed"},
		{fmt.Errorf("x: %w", ErrUnavailable), "unavailable"},
		{errors.New("disk on fire"), "error"},
	}
	for _, tt := range tests {
		if got := statusOf(tt.err); got != tt.want {
			t.Errorf("statusOf(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestAssistOp_Bounded(t *testing.T) {
	if got := assistOp(TaskCite); got != "assist.cite" {
		t.Errorf("assistOp(cite) = %q", got)
	}
	for _, task := range []Task{"translate", TaskLiteratureReview, ""} {
		if got := assistOp(task); got != opAssistUnsupported {
			t.Errorf("assistOp(%q) = %q, want %q", task, got, opAssistUnsupported)
		}
	}
}

func TestObserver_ReusesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := newObserver(nil, reg); err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, err := newObserver(nil, reg); err != nil {
		t.Fatalf("second registration should reuse collectors: %v", err)
	}
}

func TestObserver_WithLogger(t *testing.T) {
	obs, err := newObserver(slog.Default(), nil)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}
	obs.observe("test.op", time.Now(), nil)
	obs.observe("test.op", time.Now(), errors.New("test error"))
}

// --- helpers ---

type mockGenerator struct {
	fn func(ctx context.Context, req GenerationRequest) (GenerationResult, error)
}

func (m *mockGenerator) Generate(ctx context.Context, req GenerationRequest) (GenerationResult, error) {
	return m.fn(ctx, req)
}

func ids(papers []Paper) []string {
	out := make([]string, len(papers))
	for i, p := range papers {
		out[i] = p.ID
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
