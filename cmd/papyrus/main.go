package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/papyrus/internal/catalog"
	"github.com/kailas-cloud/papyrus/internal/config"
	logpkg "github.com/kailas-cloud/papyrus/internal/logger"
	"github.com/kailas-cloud/papyrus/internal/metrics"
	libraryrepo "github.com/kailas-cloud/papyrus/internal/repository/library"
	paperrepo "github.com/kailas-cloud/papyrus/internal/repository/paper"
	reviewrepo "github.com/kailas-cloud/papyrus/internal/repository/review"
	chiTransport "github.com/kailas-cloud/papyrus/internal/transport/chi"
	"github.com/kailas-cloud/papyrus/internal/transport/mcptools"
	"github.com/kailas-cloud/papyrus/internal/version"
	assistuc "github.com/kailas-cloud/papyrus/internal/usecase/assist"
	directoryuc "github.com/kailas-cloud/papyrus/internal/usecase/directory"
	healthuc "github.com/kailas-cloud/papyrus/internal/usecase/health"
	reviewuc "github.com/kailas-cloud/papyrus/internal/usecase/review"
	searchuc "github.com/kailas-cloud/papyrus/internal/usecase/search"
)

func main() {
	// .env is optional; real environment wins
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting papyrus API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("generation_provider", cfg.Generation.Provider),
	)

	store, err := buildStore(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register generation metrics explicitly (no init())
	metrics.RegisterGenerationMetrics()

	generator := buildGenerator(cfg.Generation, logger)
	logger.Info("Generator created",
		zap.String("provider", cfg.Generation.Provider),
		zap.String("model", cfg.Generation.Model),
		zap.Int("rate_per_minute", cfg.Generation.RatePerMinute),
	)

	prefix := cfg.Storage.KeyPrefix
	dirSvc := directoryuc.New(paperrepo.New(store, prefix), libraryrepo.New(store, prefix))

	if !cfg.Catalog.SkipSeed {
		cat, err := catalog.Load(cfg.Catalog.Path)
		if err != nil {
			logger.Fatal("Failed to load catalog", zap.String("path", cfg.Catalog.Path), zap.Error(err))
		}
		if err := dirSvc.Seed(ctx, cat); err != nil {
			logger.Fatal("Failed to seed directory", zap.Error(err))
		}
		logger.Info("Directory seeded",
			zap.Int("papers", len(cat.Papers)),
			zap.Int("libraries", len(cat.Libraries)),
		)
	}

	searchSvc := searchuc.New(dirSvc)
	reviewSvc := reviewuc.New(dirSvc, reviewrepo.New(store, prefix), generator)
	assistSvc := assistuc.New(generator)
	healthSvc := healthuc.New(store, newGenerationHealthChecker(generator), healthuc.Options{
		StorageBackend:    cfg.Database.Driver,
		GenerationBackend: cfg.Generation.Provider,
	})

	server := chiTransport.NewServer(dirSvc, searchSvc, reviewSvc, assistSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(chiTransport.AuthKeys{
		Editors: cfg.Auth.APIKeys,
		Readers: cfg.Auth.ReadAPIKeys,
	}))
	r.Use(metrics.Middleware(cfg.MCP.Path))
	server.Register(r)

	if cfg.MCP.Enabled {
		mcpSrv := mcptools.New(dirSvc, searchSvc, reviewSvc, assistSvc)
		r.Mount(cfg.MCP.Path, mcptools.Handler(mcpSrv))
		logger.Info("MCP endpoint enabled", zap.String("path", cfg.MCP.Path))
	}

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
