package nsnsearch

import "github.com/kailas-cloud/nsnsearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound           = domain.ErrNotFound
	ErrInvalidNIIN        = domain.ErrInvalidNIIN
	ErrInvalidRequest     = domain.ErrInvalidRequest
	ErrStorageUnavailable = domain.ErrStorageUnavailable
)
