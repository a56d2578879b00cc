package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/papyrus/internal/config"
	"github.com/kailas-cloud/papyrus/internal/db"
	"github.com/kailas-cloud/papyrus/internal/db/memory"
	dbRedis "github.com/kailas-cloud/papyrus/internal/db/redis"
	"github.com/kailas-cloud/papyrus/internal/db/sqlite"
	"github.com/kailas-cloud/papyrus/internal/domain"
	anthropicGen "github.com/kailas-cloud/papyrus/internal/transport/anthropic"
	openaiGen "github.com/kailas-cloud/papyrus/internal/transport/openai"
	"github.com/kailas-cloud/papyrus/internal/transport/placeholder"
	generationuc "github.com/kailas-cloud/papyrus/internal/usecase/generation"
)

// buildStore opens the store for the configured driver. Redis and Valkey share
// the rueidis client.
func buildStore(cfg config.DatabaseConfig) (db.Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return memory.New(), nil
	case config.DriverRedis, config.DriverValkey:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("open %s store: %w", cfg.Driver, err)
		}
		return s, nil
	case config.DriverSQLite:
		s, err := sqlite.Open(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// buildGenerator assembles the decorator chain: provider -> Instrumented -> Instruction
func buildGenerator(cfg config.GenerationConfig, logger *zap.Logger) domain.Generator {
	provCfg := cfg.Providers[cfg.Provider]

	var base domain.Generator
	switch cfg.Provider {
	case config.ProviderOpenAI:
		base = openaiGen.NewGenerator(&openaiGen.Config{
			APIKey:    provCfg.APIKey,
			BaseURL:   provCfg.BaseURL,
			Model:     cfg.Model,
			MaxTokens: cfg.MaxTokens,
		})
	case config.ProviderAnthropic:
		base = anthropicGen.NewGenerator(&anthropicGen.Config{
			APIKey:    provCfg.APIKey,
			BaseURL:   provCfg.BaseURL,
			Model:     cfg.Model,
			MaxTokens: cfg.MaxTokens,
		})
	default:
		base = placeholder.New()
	}

	var gen domain.Generator = generationuc.NewInstrumentedGenerator(base, cfg.Provider, generationuc.Options{
		Timeout:       time.Duration(cfg.TimeoutSec) * time.Second,
		RatePerMinute: cfg.RatePerMinute,
		Burst:         cfg.Burst,
	}, logger)

	// Instruction prefix (outermost)
	if cfg.Instruction != "" {
		gen = domain.NewInstructionGenerator(gen, cfg.Instruction)
	}
	return gen
}

// generationHealthChecker wraps domain.Generator to implement health.GenerationChecker.
type generationHealthChecker struct {
	generator domain.Generator
}

func newGenerationHealthChecker(generator domain.Generator) *generationHealthChecker {
	return &generationHealthChecker{generator: generator}
}

func (h *generationHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.generator.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("generation health check: %w", err)
		}
	}
	return nil
}
