// Package chi exposes the search API over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/shopkit/searchapi/internal/dictionary"
	"github.com/shopkit/searchapi/internal/domain"
	"github.com/shopkit/searchapi/internal/metrics"
	healthuc "github.com/shopkit/searchapi/internal/usecase/health"
	searchuc "github.com/shopkit/searchapi/internal/usecase/search"
)

// Error codes returned in the error response body.
const (
	codeBadRequest            = "bad_request"
	codeValidationFailed      = "validation_failed"
	codeEnvironmentNotFound   = "environment_not_found"
	codeRateLimited           = "rate_limited"
	codeEmbeddingUnavailable  = "embedding_unavailable"
	codeRetrievalTimeout      = "retrieval_timeout"
	codeRetrievalUnavailable  = "retrieval_unavailable"
	codeDictionaryUnavailable = "dictionary_unavailable"
	codeInternalError         = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Limits carries operator-tunable request bounds applied before validation.
// Zero values fall back to the request package's built-in defaults.
type Limits struct {
	DefaultPageSize int
	MaxPageSize     int
	HybridTopK      int
}

// Server handles the HTTP API.
type Server struct {
	search        *searchuc.Service
	dicts         *dictionary.Service
	envs          dictionary.EnvironmentResolver
	health        *healthuc.Service
	apiKeys       []string
	limits        Limits
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	dicts *dictionary.Service,
	envs dictionary.EnvironmentResolver,
	health *healthuc.Service,
	apiKeys []string,
	limits Limits,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:  search,
		dicts:   dicts,
		envs:    envs,
		health:  health,
		apiKeys: apiKeys,
		limits:  limits,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEnvironmentNotFound, http.StatusNotFound, codeEnvironmentNotFound),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, codeRateLimited),
		sentinelHandler(domain.ErrEmbeddingUnavailable, http.StatusBadGateway, codeEmbeddingUnavailable),
		sentinelHandler(domain.ErrRetrievalTimeout, http.StatusGatewayTimeout, codeRetrievalTimeout),
		sentinelHandler(domain.ErrRetrievalUnavailable, http.StatusServiceUnavailable, codeRetrievalUnavailable),
		sentinelHandler(domain.ErrDictionaryUnavailable, http.StatusServiceUnavailable, codeDictionaryUnavailable),
	}
	return s
}

// Router assembles the chi route tree with the standard middleware stack.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware())
	r.Use(BearerAuthMiddleware(s.apiKeys))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/search", s.handleSearch)
		r.Post("/dictionaries/sync", s.handleDictionarySync)
		r.Get("/environments", s.handleEnvironments)
	})
	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}

// handleSearch handles POST /api/v1/search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var body searchRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	body.applyLimits(s.limits)
	req, err := body.toRequest()
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	resp, err := s.search.Search(r.Context(), &req, body.WithExplain)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleDictionarySync handles POST /api/v1/dictionaries/sync?env=dev.
// It replaces the environment's resident dictionary snapshots so live edits
// become visible without an index deploy.
func (s *Server) handleDictionarySync(w http.ResponseWriter, r *http.Request) {
	envType, err := domain.ParseEnvironmentType(r.URL.Query().Get("env"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	if err := s.dicts.RealtimeSync(r.Context(), envType); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "synced", "env": string(envType)})
}

// handleEnvironments handles GET /api/v1/environments.
func (s *Server) handleEnvironments(w http.ResponseWriter, r *http.Request) {
	envs, err := s.envs.Environments(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]environmentBody, 0, len(envs))
	for _, e := range envs {
		items = append(items, environmentBody{
			EnvType:       string(e.EnvType),
			Version:       e.Version,
			DocumentCount: e.DocumentCount,
			Status:        string(e.Status),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"environments": items})
}

// handleHealth handles GET /healthz.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
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
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEnvironmentNotFound,
		domain.ErrRateLimited,
		domain.ErrEmbeddingUnavailable,
		domain.ErrRetrievalTimeout,
		domain.ErrRetrievalUnavailable,
		domain.ErrDictionaryUnavailable,
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

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Code: code, Message: message})
}
