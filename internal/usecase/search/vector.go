package search

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/shopkit/searchapi/internal/domain/search/request"
	"github.com/shopkit/searchapi/internal/domain/search/result"
	"github.com/shopkit/searchapi/internal/querydsl"
)

// vectorStrategy embeds the query and ranks by weighted multi-field
// similarity. The engine returns the full topK candidate pool; paging and
// facet counts are computed client-side from that pool, so deep pages stay
// consistent with the pool the user was shown.
type vectorStrategy struct {
	retriever Retriever
	embedder  Embedder
	queries   QueryAnalyzer
	logger    *zap.Logger
}

func (s *vectorStrategy) Search(
	ctx context.Context, index string, req *request.Request, explain bool,
) (result.Response, error) {
	pool, body, err := s.retrieve(ctx, index, req, req.HybridTopK())
	if err != nil {
		return result.Response{}, err
	}

	page := slicePage(pool, req.Page(), req.Size())

	return result.NewResponse(
		page, int64(len(pool)), poolAggregations(pool),
		req.Page(), req.Size(), 0, explainDSL(body, explain),
	), nil
}

// retrieve embeds the processed query and fetches the candidate pool.
func (s *vectorStrategy) retrieve(
	ctx context.Context, index string, req *request.Request, depth int,
) ([]result.Hit, map[string]any, error) {
	qc := s.queries.Analyze(ctx, req.Query(), req.ApplyTypoCorrection())

	emb, err := s.embedder.Embed(ctx, qc.Processed)
	if err != nil {
		return nil, nil, fmt.Errorf("vectorize query: %w", err)
	}

	body := querydsl.VectorSearchBody(
		emb.Embedding, req.VectorBoosts(), depth, req.VectorMinScore(), req.Filters(),
	)

	resp, err := s.retriever.Search(ctx, index, body)
	if err != nil {
		return nil, nil, fmt.Errorf("vector retrieval: %w", err)
	}
	return resp.Hits, body, nil
}

// slicePage addresses a zero-based page window within the candidate pool.
func slicePage(pool []result.Hit, page, size int) []result.Hit {
	from := page * size
	if from >= len(pool) {
		return nil
	}
	to := from + size
	if to > len(pool) {
		to = len(pool)
	}
	return pool[from:to]
}

// poolAggregations counts brand and category facets over the candidate pool.
// Mirrors the backend's terms aggregation: top 20 buckets, count descending,
// key ascending on ties.
func poolAggregations(pool []result.Hit) result.Aggregations {
	aggs := result.Aggregations{
		querydsl.FieldBrand:    poolBuckets(pool, querydsl.FieldBrand),
		querydsl.FieldCategory: poolBuckets(pool, querydsl.FieldCategory),
	}
	return aggs
}

func poolBuckets(pool []result.Hit, field string) []result.Bucket {
	counts := make(map[string]int64)
	for i := range pool {
		if v, ok := pool[i].Source()[field].(string); ok && v != "" {
			counts[v]++
		}
	}

	buckets := make([]result.Bucket, 0, len(counts))
	for key, count := range counts {
		buckets = append(buckets, result.Bucket{Key: key, DocCount: count})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].DocCount != buckets[j].DocCount {
			return buckets[i].DocCount > buckets[j].DocCount
		}
		return buckets[i].Key < buckets[j].Key
	})

	if len(buckets) > 20 {
		buckets = buckets[:20]
	}
	return buckets
}
