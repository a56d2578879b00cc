package directory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/papyrus/internal/catalog"
	"github.com/kailas-cloud/papyrus/internal/domain"
	domlib "github.com/kailas-cloud/papyrus/internal/domain/library"
	dompaper "github.com/kailas-cloud/papyrus/internal/domain/paper"
	"github.com/kailas-cloud/papyrus/internal/domain/search/request"
	"github.com/kailas-cloud/papyrus/internal/domain/search/result"
)

// Service is the paper directory: the canonical source of papers and libraries
// and the sole authority for library identifiers.
//
// Absence is reported with a boolean. A non-nil error always wraps
// domain.ErrUnavailable. The service never retries.
type Service struct {
	papers    PaperRepository
	libraries LibraryRepository

	// mu serializes library read-modify-write cycles.
	mu    sync.Mutex
	now   func() time.Time
	newID func() string
}

// New creates a directory service.
func New(papers PaperRepository, libraries LibraryRepository) *Service {
	return &Service{
		papers:    papers,
		libraries: libraries,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// WithClock overrides the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithIDGenerator overrides library id assignment.
func (s *Service) WithIDGenerator(fn func() string) *Service {
	s.newID = fn
	return s
}

// Seed writes the catalog papers and creates catalog libraries that do not exist yet.
// Existing libraries are left untouched so user additions survive restarts.
func (s *Service) Seed(ctx context.Context, c catalog.Catalog) error {
	if err := s.papers.SaveMany(ctx, c.Papers); err != nil {
		return domain.Unavailable("seed papers", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range c.Libraries {
		_, err := s.libraries.Get(ctx, l.ID())
		switch {
		case err == nil:
			continue
		case errors.Is(err, domain.ErrNotFound):
			if err := s.libraries.Create(ctx, l); err != nil {
				return domain.Unavailable("seed library "+l.ID(), err)
			}
		default:
			return domain.Unavailable("seed library "+l.ID(), err)
		}
	}
	return nil
}

// SearchPapers matches query case-insensitively against the title side for lang,
// returning candidates in catalog order. Pagination is not enforced: page is
// echoed (normalized to at least 1) and HasMore is always false.
//
// A blank query yields an empty result without touching the store. A malformed
// request (over-long query, unknown language) also yields an empty result.
func (s *Service) SearchPapers(
	ctx context.Context, query string, lang domain.Language, page int,
) (result.Result, error) {
	req, err := request.New(query, lang, page)
	if err != nil {
		return result.Empty(max(page, request.DefaultPage)), nil
	}
	if req.IsBlank() {
		return result.Empty(req.Page()), nil
	}

	all, err := s.papers.List(ctx)
	if err != nil {
		return result.Result{}, domain.Unavailable("search papers", err)
	}

	matched := make([]dompaper.Paper, 0, len(all))
	for _, p := range all {
		if p.TitleContains(req.Language(), req.Query()) {
			matched = append(matched, p)
		}
	}
	return result.New(matched, req.Page(), false), nil
}

// ListPapers returns every paper in catalog order.
func (s *Service) ListPapers(ctx context.Context) ([]dompaper.Paper, error) {
	papers, err := s.papers.List(ctx)
	if err != nil {
		return nil, domain.Unavailable("list papers", err)
	}
	return papers, nil
}

// GetPaperByID looks up a paper. ok is false when the id does not resolve.
func (s *Service) GetPaperByID(ctx context.Context, id string) (p dompaper.Paper, ok bool, err error) {
	p, err = s.papers.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return dompaper.Paper{}, false, nil
	}
	if err != nil {
		return dompaper.Paper{}, false, domain.Unavailable("get paper", err)
	}
	return p, true, nil
}

// Papers resolves ids in order, skipping ids that do not resolve.
func (s *Service) Papers(ctx context.Context, ids []string) ([]dompaper.Paper, error) {
	papers, err := s.papers.GetMany(ctx, ids)
	if err != nil {
		return nil, domain.Unavailable("get papers", err)
	}
	return papers, nil
}

// GetLibraries returns every library in creation order.
func (s *Service) GetLibraries(ctx context.Context) ([]domlib.Library, error) {
	libs, err := s.libraries.List(ctx)
	if err != nil {
		return nil, domain.Unavailable("list libraries", err)
	}
	return libs, nil
}

// GetLibrary looks up a library. ok is false when the id does not resolve.
func (s *Service) GetLibrary(ctx context.Context, id string) (l domlib.Library, ok bool, err error) {
	l, err = s.libraries.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domlib.Library{}, false, nil
	}
	if err != nil {
		return domlib.Library{}, false, domain.Unavailable("get library", err)
	}
	return l, true, nil
}

// LibraryPapers resolves a library's paper ids at read time, skipping dangling ones.
// ok is false when the library does not resolve.
func (s *Service) LibraryPapers(ctx context.Context, id string) (papers []dompaper.Paper, ok bool, err error) {
	l, ok, err := s.GetLibrary(ctx, id)
	if err != nil || !ok {
		return nil, ok, err
	}
	papers, err = s.Papers(ctx, l.PaperIDs())
	if err != nil {
		return nil, false, err
	}
	return papers, true, nil
}

// CreateLibrary creates an empty library with a fresh id and timestamp.
// The name is not validated.
func (s *Service) CreateLibrary(ctx context.Context, name string) (domlib.Library, error) {
	l := domlib.New(s.newID(), name, s.now().UTC())

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.libraries.Create(ctx, l); err != nil {
		return domlib.Library{}, domain.Unavailable("create library", err)
	}
	return l, nil
}

// RenameLibrary replaces a library's display name. ok is false when the id does
// not resolve. The name is not validated.
func (s *Service) RenameLibrary(ctx context.Context, id, name string) (l domlib.Library, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err = s.libraries.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domlib.Library{}, false, nil
	}
	if err != nil {
		return domlib.Library{}, false, domain.Unavailable("get library", err)
	}

	l = l.WithName(name)
	if err := s.libraries.Update(ctx, l); err != nil {
		return domlib.Library{}, false, domain.Unavailable("update library", err)
	}
	return l, true, nil
}

// AddPaperToLibrary appends paperID to a library unless already present.
// It returns false when the library does not resolve; paperID is not checked.
func (s *Service) AddPaperToLibrary(ctx context.Context, libraryID, paperID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.libraries.Get(ctx, libraryID)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, domain.Unavailable("get library", err)
	}

	updated, added := l.WithPaper(paperID)
	if !added {
		return true, nil
	}
	if err := s.libraries.Update(ctx, updated); err != nil {
		return false, domain.Unavailable("update library", err)
	}
	return true, nil
}
