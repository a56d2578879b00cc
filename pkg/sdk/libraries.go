package papyrus

import (
	"context"
	"fmt"
	"time"

	domlib "github.com/kailas-cloud/papyrus/internal/domain/library"
)

// LibraryService manages paper libraries.
type LibraryService struct {
	dir directoryUseCase
	obs *observer
}

// List returns every library in creation order.
func (s *LibraryService) List(ctx context.Context) (_ []Library, err error) {
	start := time.Now()
	defer func() { s.obs.observe(opLibraryList, start, err) }()

	libs, err := s.dir.GetLibraries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list libraries: %w", err)
	}
	out := make([]Library, len(libs))
	for i, l := range libs {
		out[i] = libraryFromDomain(l)
	}
	return out, nil
}

// Get returns a library by id, or ErrNotFound.
func (s *LibraryService) Get(ctx context.Context, id string) (_ Library, err error) {
	start := time.Now()
	defer func() { s.obs.observe(opLibraryGet, start, err) }()

	l, ok, err := s.dir.GetLibrary(ctx, id)
	if err != nil {
		return Library{}, fmt.Errorf("get library %s: %w", id, err)
	}
	if !ok {
		return Library{}, fmt.Errorf("library %s: %w", id, ErrNotFound)
	}
	return libraryFromDomain(l), nil
}

// Create makes an empty library.
func (s *LibraryService) Create(ctx context.Context, name string) (_ Library, err error) {
	start := time.Now()
	defer func() { s.obs.observe(opLibraryCreate, start, err) }()

	if err := domlib.ValidateName(name); err != nil {
		return Library{}, fmt.Errorf("create library: %w", err)
	}
	l, err := s.dir.CreateLibrary(ctx, name)
	if err != nil {
		return Library{}, fmt.Errorf("create library: %w", err)
	}
	return libraryFromDomain(l), nil
}

// Rename changes a library's display name.
func (s *LibraryService) Rename(ctx context.Context, id, name string) (_ Library, err error) {
	start := time.Now()
	defer func() { s.obs.observe(opLibraryRename, start, err) }()

	if err := domlib.ValidateName(name); err != nil {
		return Library{}, fmt.Errorf("rename library: %w", err)
	}
	l, ok, err := s.dir.RenameLibrary(ctx, id, name)
	if err != nil {
		return Library{}, fmt.Errorf("rename library %s: %w", id, err)
	}
	if !ok {
		return Library{}, fmt.Errorf("library %s: %w", id, ErrNotFound)
	}
	return libraryFromDomain(l), nil
}

// AddPaper appends paperID to a library. Adding a paper twice is a no-op.
func (s *LibraryService) AddPaper(ctx context.Context, libraryID, paperID string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe(opLibraryAddPaper, start, err) }()

	ok, err := s.dir.AddPaperToLibrary(ctx, libraryID, paperID)
	if err != nil {
		return fmt.Errorf("add paper to library %s: %w", libraryID, err)
	}
	if !ok {
		return fmt.Errorf("library %s: %w", libraryID, ErrNotFound)
	}
	return nil
}

// Papers resolves the papers of a library. Ids that no longer resolve are skipped.
func (s *LibraryService) Papers(ctx context.Context, libraryID string) (_ []Paper, err error) {
	start := time.Now()
	defer func() { s.obs.observe(opLibraryPapers, start, err) }()

	papers, ok, err := s.dir.LibraryPapers(ctx, libraryID)
	if err != nil {
		return nil, fmt.Errorf("library papers %s: %w", libraryID, err)
	}
	if !ok {
		return nil, fmt.Errorf("library %s: %w", libraryID, ErrNotFound)
	}
	return papersFromDomain(papers), nil
}
