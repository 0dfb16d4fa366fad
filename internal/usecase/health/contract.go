package health

import (
	"context"

	"github.com/kailas-cloud/listingsearch/internal/domain/listing"
)

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}

// Catalog is the listing source the search routes read from.
type Catalog interface {
	Listings(ctx context.Context) ([]listing.Listing, error)
}
