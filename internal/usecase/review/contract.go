package review

import (
	"context"

	dompaper "github.com/kailas-cloud/papyrus/internal/domain/paper"
	domreview "github.com/kailas-cloud/papyrus/internal/domain/review"
)

// PaperSource resolves paper ids, skipping ids that do not resolve.
type PaperSource interface {
	Papers(ctx context.Context, ids []string) ([]dompaper.Paper, error)
}

// Repository defines the storage contract for reviews.
type Repository interface {
	Create(ctx context.Context, r domreview.LiteratureReview) error
	Update(ctx context.Context, r domreview.LiteratureReview) error
	Get(ctx context.Context, id string) (domreview.LiteratureReview, error)
	List(ctx context.Context) ([]domreview.LiteratureReview, error)
}
