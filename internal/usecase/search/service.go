package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/papyrus/internal/domain"
	"github.com/kailas-cloud/papyrus/internal/domain/search/filter"
	"github.com/kailas-cloud/papyrus/internal/domain/search/order"
	"github.com/kailas-cloud/papyrus/internal/domain/search/result"
)

// Query is a full search: the directory lookup plus the display pipeline.
type Query struct {
	Text     string
	Language domain.Language
	Page     int
	Filters  filter.Options
	Order    order.Order
	Year     filter.YearSelector
}

// Service runs a directory lookup and derives the display list from it.
type Service struct {
	dir Directory
}

// New creates a search service.
func New(dir Directory) *Service {
	return &Service{dir: dir}
}

// Search fetches candidates for q.Text and applies the filter and sort pipeline.
// Total reflects the derived list.
func (s *Service) Search(ctx context.Context, q Query) (result.Result, error) {
	candidates, err := s.dir.SearchPapers(ctx, q.Text, q.Language, q.Page)
	if err != nil {
		return result.Result{}, fmt.Errorf("search papers: %w", err)
	}
	return candidates.WithPapers(Derive(candidates.Papers(), q.Filters, q.Order, q.Year)), nil
}
