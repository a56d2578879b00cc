package directory

import (
	"context"

	domlib "github.com/kailas-cloud/papyrus/internal/domain/library"
	dompaper "github.com/kailas-cloud/papyrus/internal/domain/paper"
)

// PaperRepository defines the storage contract for papers.
type PaperRepository interface {
	Save(ctx context.Context, p dompaper.Paper) error
	SaveMany(ctx context.Context, papers []dompaper.Paper) error
	Get(ctx context.Context, id string) (dompaper.Paper, error)
	GetMany(ctx context.Context, ids []string) ([]dompaper.Paper, error)
	List(ctx context.Context) ([]dompaper.Paper, error)
}

// LibraryRepository defines the storage contract for libraries.
type LibraryRepository interface {
	Create(ctx context.Context, l domlib.Library) error
	Update(ctx context.Context, l domlib.Library) error
	Get(ctx context.Context, id string) (domlib.Library, error)
	List(ctx context.Context) ([]domlib.Library, error)
}
