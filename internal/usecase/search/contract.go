package search

import (
	"context"

	"github.com/kailas-cloud/papyrus/internal/domain"
	"github.com/kailas-cloud/papyrus/internal/domain/search/result"
)

// Directory supplies search candidates.
type Directory interface {
	SearchPapers(ctx context.Context, query string, lang domain.Language, page int) (result.Result, error)
}
