package search

import (
	"context"

	"go.uber.org/zap"

	"github.com/shopkit/searchapi/internal/domain/search/request"
	"github.com/shopkit/searchapi/internal/domain/search/result"
)

// hybridStrategy fuses the lexical and vector rankings via reciprocal rank
// fusion. Both retrievals run to the shared candidate depth; either failing
// fails the request rather than silently degrading to one signal.
type hybridStrategy struct {
	keyword *keywordStrategy
	vector  *vectorStrategy
	logger  *zap.Logger
}

func (s *hybridStrategy) Search(
	ctx context.Context, index string, req *request.Request, explain bool,
) (result.Response, error) {
	depth := req.HybridTopK()

	lexical, aggs, lexBody, err := s.keyword.retrieve(ctx, index, req, depth)
	if err != nil {
		return result.Response{}, err
	}

	vector, _, err := s.vector.retrieve(ctx, index, req, depth)
	if err != nil {
		return result.Response{}, err
	}

	fused := fuseRRF(lexical, vector)
	page := slicePage(fused, req.Page(), req.Size())

	return result.NewResponse(
		page, int64(len(fused)), aggs,
		req.Page(), req.Size(), 0, explainDSL(lexBody, explain),
	), nil
}
