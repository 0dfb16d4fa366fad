package domain

import "errors"

var (
	// ErrInvalidQuery signals a request the caller must fix (e.g. missing semantic query).
	ErrInvalidQuery = errors.New("invalid query")
	// ErrVectorDimMismatch signals embeddings of different length in one ranking.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrEmbeddingQuotaExceeded signals an exhausted embedding budget.
	ErrEmbeddingQuotaExceeded = errors.New("embedding quota exceeded")
	// ErrEmbeddingProviderError signals an embedding provider failure. Retryable.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrEmbedderNotConfigured signals a semantic search without an embedding provider.
	ErrEmbedderNotConfigured = errors.New("embedder not configured")
	// ErrSearchTimeout signals that a search ran past its deadline.
	// Kept apart from empty results so callers can tell "no matches" from "provider unreachable".
	ErrSearchTimeout = errors.New("search timed out")
	// ErrUnsupportedMode signals an unknown search strategy.
	ErrUnsupportedMode = errors.New("unsupported search mode")
)

// IsRetryable reports whether err is worth retrying later with the same input.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrEmbeddingProviderError) || errors.Is(err, ErrSearchTimeout)
}
