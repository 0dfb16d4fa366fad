package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates a failing optional component (database, embedding).
	Degraded Status = "degraded"
	// Unhealthy indicates the catalog cannot be read, so no search can be served.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status   Status
	Checks   map[string]CheckResult
	Listings int
}

// Service coordinates health checks.
type Service struct {
	catalog   Catalog
	db        DBPinger
	embedding EmbeddingChecker
}

// New creates a Service. db and embedding can be nil when not configured.
func New(catalog Catalog, db DBPinger, embedding EmbeddingChecker) *Service {
	return &Service{catalog: catalog, db: db, embedding: embedding}
}

// Check runs health checks against all configured components.
func (s *Service) Check(ctx context.Context) Report {
	r := Report{Status: Healthy, Checks: make(map[string]CheckResult)}

	if listings, err := s.catalog.Listings(ctx); err != nil {
		r.Checks["catalog"] = CheckError
		r.Status = Unhealthy
	} else {
		r.Checks["catalog"] = CheckOK
		r.Listings = len(listings)
	}

	if s.db != nil {
		r.Checks["database"] = result(s.db.Ping(ctx))
	}
	if s.embedding != nil {
		r.Checks["embedding"] = result(s.embedding.HealthCheck(ctx))
	}

	if r.Status == Healthy {
		for _, v := range r.Checks {
			if v == CheckError {
				r.Status = Degraded
				break
			}
		}
	}
	return r
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
