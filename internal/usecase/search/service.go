// Package search dispatches validated requests to retrieval strategies and
// assembles the uniform response.
package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shopkit/searchapi/internal/domain"
	"github.com/shopkit/searchapi/internal/domain/search/mode"
	"github.com/shopkit/searchapi/internal/domain/search/request"
	"github.com/shopkit/searchapi/internal/domain/search/result"
	"github.com/shopkit/searchapi/internal/metrics"
)

// Deps wires the service's collaborators.
type Deps struct {
	Retriever   Retriever
	Analyzer    Analyzer
	Embedder    Embedder
	Queries     QueryAnalyzer
	Categories  CategoryResolver
	Envs        EnvironmentResolver
	IndexPrefix string
	Logger      *zap.Logger
}

// Service routes search requests to the strategy registered for their mode.
type Service struct {
	strategies  map[mode.Mode]Strategy
	envs        EnvironmentResolver
	indexPrefix string
	logger      *zap.Logger
}

// New builds the strategy table and verifies it covers every declared mode.
// A mode without a handler is a wiring bug, so construction fails instead of
// deferring the panic to the first request.
func New(deps Deps) (*Service, error) {
	keyword := &keywordStrategy{
		retriever:  deps.Retriever,
		analyzer:   deps.Analyzer,
		queries:    deps.Queries,
		categories: deps.Categories,
		logger:     deps.Logger,
	}
	vector := &vectorStrategy{
		retriever: deps.Retriever,
		embedder:  deps.Embedder,
		queries:   deps.Queries,
		logger:    deps.Logger,
	}

	strategies := map[mode.Mode]Strategy{
		mode.KeywordOnly:      keyword,
		mode.VectorMultiField: vector,
		mode.HybridRRF: &hybridStrategy{
			keyword: keyword,
			vector:  vector,
			logger:  deps.Logger,
		},
	}

	if err := verifyCoverage(strategies, mode.All()); err != nil {
		return nil, err
	}

	return &Service{
		strategies:  strategies,
		envs:        deps.Envs,
		indexPrefix: deps.IndexPrefix,
		logger:      deps.Logger,
	}, nil
}

// verifyCoverage checks that every declared mode has a registered strategy.
func verifyCoverage(strategies map[mode.Mode]Strategy, modes []mode.Mode) error {
	for _, m := range modes {
		if _, ok := strategies[m]; !ok {
			return fmt.Errorf("no strategy registered for mode %q", m)
		}
	}
	return nil
}

// Search resolves the serving index and executes the request's strategy.
// A blank query carries no lexical or semantic signal, so it always takes the
// keyword path's filter-only match regardless of the requested mode.
func (s *Service) Search(ctx context.Context, req *request.Request, explain bool) (result.Response, error) {
	start := time.Now()

	version, err := s.envs.CurrentVersion(ctx, domain.EnvCurrent)
	if err != nil {
		s.countRequest(req.Mode(), "error")
		return result.Response{}, fmt.Errorf("resolve serving index: %w", err)
	}
	index := s.indexPrefix + version

	m := req.Mode()
	if strings.TrimSpace(req.Query()) == "" {
		m = mode.KeywordOnly
	}

	resp, err := s.strategies[m].Search(ctx, index, req, explain)
	if err != nil {
		s.countRequest(req.Mode(), "error")
		return result.Response{}, err
	}

	elapsed := time.Since(start)
	resp.Meta.ProcessingTimeMs = elapsed.Milliseconds()
	s.countRequest(req.Mode(), "success")
	metrics.SearchRequestDuration.WithLabelValues(string(req.Mode())).Observe(elapsed.Seconds())

	return resp, nil
}

func (s *Service) countRequest(m mode.Mode, status string) {
	metrics.SearchRequestsTotal.WithLabelValues(string(m), status).Inc()
}
