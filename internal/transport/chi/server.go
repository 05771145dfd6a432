// Package chi is the thin read-only HTTP surface over the search and
// enrichment usecases. Handlers parse parameters, call the usecase, and map
// sentinel errors to statuses; response shaping stays in the domain types.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/bzuer/ethnos-api/internal/domain"
	"github.com/bzuer/ethnos-api/internal/domain/pagination"
	"github.com/bzuer/ethnos-api/internal/domain/search/kind"
	"github.com/bzuer/ethnos-api/internal/domain/search/request"
	domvenue "github.com/bzuer/ethnos-api/internal/domain/venue"
	enrichuc "github.com/bzuer/ethnos-api/internal/usecase/enrich"
	healthuc "github.com/bzuer/ethnos-api/internal/usecase/health"
	searchuc "github.com/bzuer/ethnos-api/internal/usecase/search"
)

// Server wires the usecases to HTTP routes.
type Server struct {
	search *searchuc.Service
	enrich *enrichuc.Service
	health *healthuc.Service
	logger *zap.Logger
}

// NewServer creates the HTTP API server.
func NewServer(
	search *searchuc.Service,
	enrich *enrichuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	return &Server{search: search, enrich: enrich, health: health, logger: logger}
}

// Routes mounts all routes on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/v1/works/search", s.searchWorks)
	r.Get("/v1/persons/search", s.searchPersons)
	r.Get("/v1/venues", s.listVenues)
	r.Get("/v1/venues/{id}", s.getVenue)
	r.Get("/healthz", s.healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

func (s *Server) searchWorks(w http.ResponseWriter, r *http.Request) {
	req, err := searchRequestFromQuery(r, kind.Work)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	page, err := s.search.SearchWorks(r.Context(), &req)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) searchPersons(w http.ResponseWriter, r *http.Request) {
	req, err := searchRequestFromQuery(r, kind.Person)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	page, err := s.search.SearchPersons(r.Context(), &req)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) getVenue(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "venue id must be a positive integer")
		return
	}

	enriched, err := s.enrich.GetVenue(r.Context(), id, optionsFromQuery(r))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, enriched)
}

func (s *Server) listVenues(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := domvenue.ListFilters{Type: q.Get("type")}
	if mw := q.Get("min_works"); mw != "" {
		n, err := strconv.Atoi(mw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "min_works must be a non-negative integer")
			return
		}
		filters.MinWorks = n
	}

	pg := pagination.Normalize(q.Get("page"), q.Get("limit"), q.Get("offset"))
	page, err := s.enrich.ListVenues(r.Context(), filters, pg)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())
	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

// reservedParams are query keys consumed by the request itself; everything
// else is passed through to the index as a structured filter.
var reservedParams = map[string]bool{
	"q": true, "page": true, "limit": true, "offset": true, "include": true,
}

func searchRequestFromQuery(r *http.Request, k kind.Kind) (request.Request, error) {
	q := r.URL.Query()

	filters := make(map[string]string)
	for key, vals := range q {
		if reservedParams[key] || len(vals) == 0 || vals[0] == "" {
			continue
		}
		filters[key] = vals[0]
	}
	if len(filters) == 0 {
		filters = nil
	}

	pg := pagination.Normalize(q.Get("page"), q.Get("limit"), q.Get("offset"))
	return request.New(q.Get("q"), k, filters, pg)
}

func optionsFromQuery(r *http.Request) domvenue.Options {
	include := r.URL.Query().Get("include")
	if include == "" {
		// Detail views default to the full composite.
		return domvenue.Options{
			IncludeSubjects:      true,
			IncludeYearly:        true,
			IncludeTopAuthors:    true,
			IncludeUniqueAuthors: true,
		}
	}

	var opts domvenue.Options
	for _, part := range strings.Split(include, ",") {
		switch strings.TrimSpace(part) {
		case "subjects":
			opts.IncludeSubjects = true
		case "yearly":
			opts.IncludeYearly = true
		case "top_authors":
			opts.IncludeTopAuthors = true
		case "unique_authors":
			opts.IncludeUniqueAuthors = true
		}
	}
	return opts
}

func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrStoreUnavailable):
		s.logger.Error("store unavailable", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "service temporarily unavailable")
	default:
		s.logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
