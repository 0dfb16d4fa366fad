package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/listingsearch/internal/domain"
	"github.com/kailas-cloud/listingsearch/internal/domain/listing"
	"github.com/kailas-cloud/listingsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/listingsearch/internal/domain/search/request"
	domusage "github.com/kailas-cloud/listingsearch/internal/domain/usage"
	"github.com/kailas-cloud/listingsearch/internal/metrics"
	healthuc "github.com/kailas-cloud/listingsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/listingsearch/internal/usecase/search"
	usageuc "github.com/kailas-cloud/listingsearch/internal/usecase/usage"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Catalog supplies the listings a request may search.
type Catalog interface {
	Listings(ctx context.Context) ([]listing.Listing, error)
}

// RouteDefaults holds per-route defaults applied when a query parameter is absent.
type RouteDefaults struct {
	Alpha        float64
	FuzzyLimit   int
	SemanticTopN int
}

// Server serves the search routes.
type Server struct {
	search        *searchuc.Service
	catalog       Catalog
	health        *healthuc.Service
	usage         *usageuc.Service
	defaults      RouteDefaults
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	catalog Catalog,
	health *healthuc.Service,
	usage *usageuc.Service,
	defaults RouteDefaults,
	logger *zap.Logger,
) *Server {
	if defaults.FuzzyLimit <= 0 {
		defaults.FuzzyLimit = 3
	}
	if defaults.SemanticTopN <= 0 {
		defaults.SemanticTopN = 3
	}
	s := &Server{
		search:   search,
		catalog:  catalog,
		health:   health,
		usage:    usage,
		defaults: defaults,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, codeInvalidQuery),
		sentinelHandler(domain.ErrUnsupportedMode, http.StatusBadRequest, codeBadRequest),
		sentinelHandler(domain.ErrEmbeddingQuotaExceeded, http.StatusPaymentRequired, codeQuotaExceeded),
		sentinelHandler(domain.ErrSearchTimeout, http.StatusGatewayTimeout, codeSearchTimeout),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeProviderError),
		sentinelHandler(domain.ErrEmbedderNotConfigured, http.StatusServiceUnavailable, codeSemanticUnavailable),
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusInternalServerError, codeVectorDimMismatch),
	}
	return s
}

// Search handles GET /search (hybrid).
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	guests := optionalInt(q, "guestCount")
	alpha := optionalFloat(q, "alpha")
	if alpha == nil && s.defaults.Alpha > 0 {
		alpha = &s.defaults.Alpha
	}

	corpus, ok := s.listings(w, r)
	if !ok {
		return
	}

	req := request.NewHybrid(
		filter.New(q.Get("category"), q.Get("location"), derefInt(guests)),
		q.Get("queryText"),
		alpha,
	)
	results, err := s.search.Search(r.Context(), corpus, request.ForHybrid(req))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listingsToResponse(results))
}

// SemanticSearch handles GET /search/semantic.
func (s *Server) SemanticSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	topN := s.defaults.SemanticTopN
	if n := optionalInt(q, "topN"); n != nil && *n > 0 {
		topN = *n
	}

	req, err := request.NewSemantic(q.Get("query"), topN, filter.New(q.Get("category"), q.Get("location"), 0))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	corpus, ok := s.listings(w, r)
	if !ok {
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	results, err := s.search.Search(ctx, corpus, request.ForSemantic(req))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, semanticToResponse(results))
}

// FuzzySearch handles GET /search/fuzzy.
func (s *Server) FuzzySearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	corpus, ok := s.listings(w, r)
	if !ok {
		return
	}

	req := request.NewFuzzy(
		q.Get("name"), q.Get("description"),
		filter.New(q.Get("category"), q.Get("location"), 0),
		s.defaults.FuzzyLimit,
	)
	results, err := s.search.Search(r.Context(), corpus, request.ForFuzzy(req))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listingsToResponse(results))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:   string(report.Status),
		Checks:   checks,
		Listings: report.Listings,
	})
}

// GetUsage handles GET /usage.
func (s *Server) GetUsage(w http.ResponseWriter, r *http.Request) {
	period, ok := domusage.ParsePeriod(r.URL.Query().Get("period"))
	if !ok {
		writeError(w, http.StatusBadRequest, codeBadRequest, "period must be day or month")
		return
	}
	report := s.usage.GetReport(r.Context(), period)
	writeJSON(w, http.StatusOK, usageToResponse(&report))
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// listings loads the catalog, writing a 503 on failure.
func (s *Server) listings(w http.ResponseWriter, r *http.Request) ([]listing.Listing, bool) {
	corpus, err := s.catalog.Listings(r.Context())
	if err != nil {
		s.logger.Error("catalog unavailable",
			zap.String("request_id", chiMiddleware.GetReqID(r.Context())), zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, codeCatalogUnavailable, "listing catalog unavailable")
		return nil, false
	}
	return corpus, true
}

// optionalInt binds an integer query parameter. Values that fail to parse count as absent.
func optionalInt(q url.Values, name string) *int {
	var v *int
	if err := runtime.BindQueryParameter("form", true, false, name, q, &v); err != nil {
		return nil
	}
	return v
}

// optionalFloat binds a float query parameter. Values that fail to parse count as absent.
func optionalFloat(q url.Values, name string) *float64 {
	var v *float64
	if err := runtime.BindQueryParameter("form", true, false, name, q, &v); err != nil {
		return nil
	}
	return v
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func setEmbeddingHeaders(w http.ResponseWriter, usage *domain.EmbeddingUsage) {
	if usage != nil && usage.Used {
		w.Header().Set(metrics.EmbeddingTokensHeader, strconv.Itoa(usage.Tokens()))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrUnsupportedMode,
		domain.ErrEmbeddingQuotaExceeded,
		domain.ErrSearchTimeout,
		domain.ErrEmbeddingProviderError,
		domain.ErrEmbedderNotConfigured,
		domain.ErrVectorDimMismatch,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.logger.With(zap.String("request_id", chiMiddleware.GetReqID(r.Context())))
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
