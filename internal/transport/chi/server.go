// Package chi implements the HTTP API.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/audiencelab/segmatch/internal/domain"
	"github.com/audiencelab/segmatch/internal/retrieval"
	healthuc "github.com/audiencelab/segmatch/internal/usecase/health"
	searchuc "github.com/audiencelab/segmatch/internal/usecase/search"
	segmentuc "github.com/audiencelab/segmatch/internal/usecase/segment"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the search and segmentation services over HTTP.
type Server struct {
	catalog       searchuc.CatalogProvider
	search        *searchuc.Service
	segments      *segmentuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	catalog searchuc.CatalogProvider,
	search *searchuc.Service,
	segments *segmentuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		catalog:  catalog,
		search:   search,
		segments: segments,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrVariableNotFound, http.StatusNotFound, "variable_not_found"),
		sentinelHandler(domain.ErrMissingRecordColumn, http.StatusBadRequest, "missing_record_column"),
		sentinelHandler(domain.ErrEmptyCatalog, http.StatusServiceUnavailable, "empty_catalog"),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, "embedding_provider_error"),
	}
	return s
}

// Routes mounts all API endpoints on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/search", s.handleSearch)
		r.Post("/segments", s.handleSegments)
		r.Get("/variables/{code}", s.handleGetVariable)
	})
	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
}

// handleSearch handles POST /api/v1/search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	resp, err := s.search.Search(r.Context(), searchuc.Request{
		Query: req.Query,
		TopK:  req.TopK,
		Filters: retrieval.Filters{
			Theme:    req.Filters.Theme,
			Category: req.Filters.Category,
			Product:  req.Filters.Product,
			Domain:   req.Filters.Domain,
		},
		DisableConcepts: req.DisableConcepts,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchToDTO(resp))
}

// handleSegments handles POST /api/v1/segments.
func (s *Server) handleSegments(w http.ResponseWriter, r *http.Request) {
	var req segmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}
	if len(req.Codes) == 0 {
		writeError(w, http.StatusBadRequest, "validation_failed", "At least one variable code is required")
		return
	}

	resp, err := s.segments.Segment(r.Context(), segmentuc.Request{
		Codes:  req.Codes,
		MinPct: req.MinPct,
		MaxPct: req.MaxPct,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, segmentToDTO(resp))
}

// handleGetVariable handles GET /api/v1/variables/{code}.
func (s *Server) handleGetVariable(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(chi.URLParam(r, "code"))
	snap := s.catalog.Snapshot()
	if snap == nil {
		s.handleDomainError(w, domain.ErrEmptyCatalog)
		return
	}

	v, ok := snap.Get(code)
	if !ok {
		s.handleDomainError(w, domain.ErrVariableNotFound)
		return
	}

	writeJSON(w, http.StatusOK, variableResponse{
		Code:        v.Code,
		Description: v.Description,
		Category:    v.Category,
		Theme:       v.Theme,
		Product:     v.Product,
		Context:     v.Context,
		Domain:      v.Domain,
	})
}

// handleHealth handles GET /healthz.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrVariableNotFound,
		domain.ErrMissingRecordColumn,
		domain.ErrEmptyCatalog,
		domain.ErrSemanticUnavailable,
		domain.ErrEmbeddingProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}
