package papyrus

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/papyrus/internal/catalog"
	"github.com/kailas-cloud/papyrus/internal/db"
	"github.com/kailas-cloud/papyrus/internal/db/memory"
	dbRedis "github.com/kailas-cloud/papyrus/internal/db/redis"
	"github.com/kailas-cloud/papyrus/internal/db/sqlite"
	"github.com/kailas-cloud/papyrus/internal/domain"
	domlib "github.com/kailas-cloud/papyrus/internal/domain/library"
	dompaper "github.com/kailas-cloud/papyrus/internal/domain/paper"
	domreview "github.com/kailas-cloud/papyrus/internal/domain/review"
	"github.com/kailas-cloud/papyrus/internal/domain/search/result"
	libraryrepo "github.com/kailas-cloud/papyrus/internal/repository/library"
	paperrepo "github.com/kailas-cloud/papyrus/internal/repository/paper"
	reviewrepo "github.com/kailas-cloud/papyrus/internal/repository/review"
	"github.com/kailas-cloud/papyrus/internal/transport/placeholder"
	assistuc "github.com/kailas-cloud/papyrus/internal/usecase/assist"
	directoryuc "github.com/kailas-cloud/papyrus/internal/usecase/directory"
	generationuc "github.com/kailas-cloud/papyrus/internal/usecase/generation"
	healthuc "github.com/kailas-cloud/papyrus/internal/usecase/health"
	reviewuc "github.com/kailas-cloud/papyrus/internal/usecase/review"
	searchuc "github.com/kailas-cloud/papyrus/internal/usecase/search"
)

const (
	defaultReadinessTimeout  = 10 * time.Second
	defaultGenerationTimeout = 45 * time.Second
	defaultKeyPrefix         = "papyrus:"
)

// Internal interfaces so services can be replaced in tests.
type directoryUseCase interface {
	ListPapers(ctx context.Context) ([]dompaper.Paper, error)
	GetPaperByID(ctx context.Context, id string) (dompaper.Paper, bool, error)
	GetLibraries(ctx context.Context) ([]domlib.Library, error)
	GetLibrary(ctx context.Context, id string) (domlib.Library, bool, error)
	LibraryPapers(ctx context.Context, id string) ([]dompaper.Paper, bool, error)
	CreateLibrary(ctx context.Context, name string) (domlib.Library, error)
	RenameLibrary(ctx context.Context, id, name string) (domlib.Library, bool, error)
	AddPaperToLibrary(ctx context.Context, libraryID, paperID string) (bool, error)
}

type searchUseCase interface {
	Search(ctx context.Context, q searchuc.Query) (result.Result, error)
}

type reviewUseCase interface {
	GenerateLiteratureReview(
		ctx context.Context, paperIDs []string, prompt string, lang domain.Language,
	) (domreview.LiteratureReview, error)
	GeneratePromptBasedReview(
		ctx context.Context, prompt string, references []string, lang domain.Language,
	) (domreview.LiteratureReview, error)
	GetReview(ctx context.Context, id string) (domreview.LiteratureReview, bool, error)
	ListReviews(ctx context.Context) ([]domreview.LiteratureReview, error)
	UpdateReviewContent(ctx context.Context, id, content string) (domreview.LiteratureReview, bool, error)
}

type assistUseCase interface {
	Run(ctx context.Context, task domain.Task, text string, lang domain.Language) (string, error)
}

// Client is the papyrus SDK entry point.
type Client struct {
	store     db.Store
	dirSvc    directoryUseCase
	searchSvc searchUseCase
	reviewSvc reviewUseCase
	assistSvc assistUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a papyrus Client, connects to the store and seeds the directory.
// The provided context is used for the readiness check and the seed.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{driver: "memory", prefix: defaultKeyPrefix}
	for _, o := range opts {
		o.apply(cfg)
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("papyrus: store not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}

	c, err := wireClient(ctx, store, cfg, obs)
	if err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "memory":
		return memory.New(), nil
	case "sqlite":
		s, err := sqlite.Open(cfg.path)
		if err != nil {
			return nil, fmt.Errorf("papyrus: open sqlite store: %w", err)
		}
		return s, nil
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("papyrus: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("papyrus: unknown driver %q", cfg.driver)
	}
}

func wireClient(ctx context.Context, store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	dirSvc := directoryuc.New(paperrepo.New(store, cfg.prefix), libraryrepo.New(store, cfg.prefix))

	if !cfg.skipSeed {
		cat, err := catalog.Load(cfg.catalogPath)
		if err != nil {
			return nil, fmt.Errorf("papyrus: load catalog: %w", err)
		}
		if err := dirSvc.Seed(ctx, cat); err != nil {
			return nil, fmt.Errorf("papyrus: seed directory: %w", err)
		}
	}

	// Placeholder unless the caller brings a provider
	var base domain.Generator = placeholder.New()
	provider := "placeholder"
	if cfg.generator != nil {
		base = &generatorAdapter{inner: cfg.generator}
		provider = "sdk"
	}
	gen := generationuc.NewInstrumentedGenerator(base, provider, generationuc.Options{
		Timeout: defaultGenerationTimeout,
	}, zap.NewNop())

	return &Client{
		store:     store,
		dirSvc:    dirSvc,
		searchSvc: searchuc.New(dirSvc),
		reviewSvc: reviewuc.New(dirSvc, reviewrepo.New(store, cfg.prefix), gen),
		assistSvc: assistuc.New(gen),
		healthSvc: healthuc.New(store, gen, healthuc.Options{
			StorageBackend:    cfg.driver,
			GenerationBackend: provider,
		}),
		obs:       obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks store connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe(opPing, start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Papers returns the paper directory and search service.
func (c *Client) Papers() *PaperService {
	return &PaperService{dir: c.dirSvc, search: c.searchSvc, obs: c.obs}
}

// Libraries returns the library service.
func (c *Client) Libraries() *LibraryService {
	return &LibraryService{dir: c.dirSvc, obs: c.obs}
}

// Reviews returns the literature review service.
func (c *Client) Reviews() *ReviewService {
	return &ReviewService{svc: c.reviewSvc, obs: c.obs}
}

// Assist rewrites a text selection. task must be one of TaskParaphrase, TaskCite,
// TaskExpand or TaskShorten.
func (c *Client) Assist(ctx context.Context, task Task, text string, lang Language) (out string, err error) {
	start := time.Now()
	defer func() { c.obs.observe(assistOp(task), start, err) }()

	l, err := languageToDomain(lang)
	if err != nil {
		return "", err
	}
	out, err = c.assistSvc.Run(ctx, domain.Task(task), text, l)
	if err != nil {
		return "", fmt.Errorf("assist: %w", err)
	}
	return out, nil
}
