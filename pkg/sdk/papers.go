package papyrus

import (
	"context"
	"fmt"
	"time"
)

// PaperService reads the paper directory.
type PaperService struct {
	dir    directoryUseCase
	search searchUseCase
	obs    *observer
}

// List returns every paper in catalog order.
func (s *PaperService) List(ctx context.Context) (_ []Paper, err error) {
	start := time.Now()
	defer func() { s.obs.observe(opPaperList, start, err) }()

	papers, err := s.dir.ListPapers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list papers: %w", err)
	}
	return papersFromDomain(papers), nil
}

// Get returns a paper by id, or ErrNotFound.
func (s *PaperService) Get(ctx context.Context, id string) (_ Paper, err error) {
	start := time.Now()
	defer func() { s.obs.observe(opPaperGet, start, err) }()

	p, ok, err := s.dir.GetPaperByID(ctx, id)
	if err != nil {
		return Paper{}, fmt.Errorf("get paper %s: %w", id, err)
	}
	if !ok {
		return Paper{}, fmt.Errorf("paper %s: %w", id, ErrNotFound)
	}
	return paperFromDomain(p), nil
}

// Search starts a fluent search for papers whose title contains query.
func (s *PaperService) Search(query string) *SearchBuilder {
	return &SearchBuilder{svc: s, query: query, lang: English, page: 1}
}
