package papyrus

import "github.com/kailas-cloud/papyrus/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound          = domain.ErrNotFound
	ErrInvalidInput      = domain.ErrInvalidInput
	ErrUnavailable       = domain.ErrUnavailable
	ErrRateLimited       = domain.ErrRateLimited
	ErrGenerationFailed  = domain.ErrGenerationFailed
	ErrGenerationTimeout = domain.ErrGenerationTimeout
	ErrNotImplemented    = domain.ErrNotImplemented
)
