package listingsearch

import "github.com/kailas-cloud/listingsearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidQuery           = domain.ErrInvalidQuery
	ErrVectorDimMismatch      = domain.ErrVectorDimMismatch
	ErrEmbeddingQuotaExceeded = domain.ErrEmbeddingQuotaExceeded
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
	ErrEmbedderNotConfigured  = domain.ErrEmbedderNotConfigured
	ErrSearchTimeout          = domain.ErrSearchTimeout
)
