package search

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/shopkit/searchapi/internal/domain"
	"github.com/shopkit/searchapi/internal/domain/search/request"
	"github.com/shopkit/searchapi/internal/domain/search/result"
	"github.com/shopkit/searchapi/internal/querydsl"
)

// keywordStrategy runs the lexical bool query with server-side paging and
// backend facet aggregations.
type keywordStrategy struct {
	retriever  Retriever
	analyzer   Analyzer
	queries    QueryAnalyzer
	categories CategoryResolver
	logger     *zap.Logger
}

func (s *keywordStrategy) Search(
	ctx context.Context, index string, req *request.Request, explain bool,
) (result.Response, error) {
	qc := s.queries.Analyze(ctx, req.Query(), req.ApplyTypoCorrection())

	weights := s.categories.CategoryWeights(ctx, qc.Processed, s.morphTokens(ctx, index, qc.Processed), domain.EnvCurrent)

	body := querydsl.SearchBody(
		querydsl.BuildBoolQuery(qc, req.Filters(), weights),
		req.Page()*req.Size(), req.Size(), req.Sort(), true,
	)

	resp, err := s.retriever.Search(ctx, index, body)
	if err != nil {
		return result.Response{}, fmt.Errorf("keyword retrieval: %w", err)
	}

	return result.NewResponse(
		resp.Hits, resp.Total, resp.Aggregations,
		req.Page(), req.Size(), 0, explainDSL(body, explain),
	), nil
}

// morphTokens feeds morpheme-level dictionary matching. Analyzer failures
// degrade to the whitespace pass only.
func (s *keywordStrategy) morphTokens(ctx context.Context, index, text string) []string {
	if text == "" {
		return nil
	}
	tokens, err := s.analyzer.Analyze(ctx, index, text)
	if err != nil {
		s.logger.Debug("Morphological analysis skipped", zap.Error(err))
		return nil
	}
	return tokens
}

// retrieve runs the lexical query to a fixed candidate depth for fusion.
func (s *keywordStrategy) retrieve(
	ctx context.Context, index string, req *request.Request, depth int,
) ([]result.Hit, result.Aggregations, map[string]any, error) {
	qc := s.queries.Analyze(ctx, req.Query(), req.ApplyTypoCorrection())
	weights := s.categories.CategoryWeights(ctx, qc.Processed, s.morphTokens(ctx, index, qc.Processed), domain.EnvCurrent)

	body := querydsl.SearchBody(
		querydsl.BuildBoolQuery(qc, req.Filters(), weights),
		0, depth, request.SortRelevance, true,
	)

	resp, err := s.retriever.Search(ctx, index, body)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("keyword retrieval: %w", err)
	}
	return resp.Hits, resp.Aggregations, body, nil
}

func explainDSL(body map[string]any, explain bool) string {
	if !explain {
		return ""
	}
	data, err := json.Marshal(body)
	if err != nil {
		return ""
	}
	return string(data)
}
