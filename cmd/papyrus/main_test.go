package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/papyrus/internal/config"
	"github.com/kailas-cloud/papyrus/internal/db/memory"
	"github.com/kailas-cloud/papyrus/internal/db/sqlite"
	"github.com/kailas-cloud/papyrus/internal/domain"
	logpkg "github.com/kailas-cloud/papyrus/internal/logger"
)

func TestJSONRecoverer(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	h := jsonRecoverer(zap.New(core))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/papers", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"code":"internal_error","message":"internal error"}`, rr.Body.String())
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}

func TestWideEventMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logpkg.FromContext(r.Context(), nil).Info("handler")
		w.Header().Set("X-Generation-Tokens", "42")
		w.WriteHeader(http.StatusCreated)
	})
	h := chiMiddleware.RequestID(wideEventMiddleware(zap.New(core))(inner))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/reviews", nil))

	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	handlerLines := logs.FilterMessage("handler").All()
	require.Len(t, handlerLines, 1)
	assert.Equal(t, rr.Header().Get("X-Request-ID"), handlerLines[0].ContextMap()["request_id"])

	entries := logs.FilterMessage("http_request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(http.StatusCreated), fields["status"])
	assert.Equal(t, "/api/v1/reviews", fields["path"])
	assert.Equal(t, "42", fields["generation_tokens"])
	assert.NotEmpty(t, fields["request_id"])
}

func TestBuildStore(t *testing.T) {
	s, err := buildStore(config.DatabaseConfig{Driver: config.DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, s)

	s, err = buildStore(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "papyrus.db"),
	})
	require.NoError(t, err)
	defer s.Close()
	assert.IsType(t, &sqlite.Store{}, s)

	_, err = buildStore(config.DatabaseConfig{Driver: "mongo"})
	require.Error(t, err)
}

func TestBuildGenerator_Placeholder(t *testing.T) {
	gen := buildGenerator(config.GenerationConfig{Provider: config.ProviderPlaceholder}, zap.NewNop())

	res, err := gen.Generate(context.Background(), domain.GenerationRequest{
		Task: domain.TaskCite, Language: domain.English, Text: "Graphs help",
	})
	require.NoError(t, err)
	assert.Equal(t, "Graphs help (Author, Year)", res.Text)
	require.NoError(t, newGenerationHealthChecker(gen).HealthCheck(context.Background()))
}

func TestBuildGenerator_Instruction(t *testing.T) {
	gen := buildGenerator(config.GenerationConfig{
		Provider:    config.ProviderPlaceholder,
		Instruction: "Answer formally.",
	}, zap.NewNop())
	assert.IsType(t, &domain.InstructionGenerator{}, gen)
}
