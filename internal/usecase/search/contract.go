package search

import (
	"context"

	"github.com/shopkit/searchapi/internal/backend"
	"github.com/shopkit/searchapi/internal/domain"
	"github.com/shopkit/searchapi/internal/domain/search/request"
	"github.com/shopkit/searchapi/internal/domain/search/result"
	"github.com/shopkit/searchapi/internal/queryproc"
)

// Retriever executes query DSL bodies against a serving index.
type Retriever interface {
	Search(ctx context.Context, index string, body map[string]any) (backend.Response, error)
}

// Analyzer tokenizes text with the index's morphological analyzer.
type Analyzer interface {
	Analyze(ctx context.Context, index, text string) ([]string, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// QueryAnalyzer derives the per-request QueryContext from a raw query.
type QueryAnalyzer interface {
	Analyze(ctx context.Context, rawQuery string, applyTypoCorrection bool) queryproc.QueryContext
}

// CategoryResolver maps query tokens to category score boosts.
type CategoryResolver interface {
	CategoryWeights(
		ctx context.Context, query string, morphTokens []string, envType domain.EnvironmentType,
	) map[string]int
}

// EnvironmentResolver resolves the deployed index version serving traffic.
type EnvironmentResolver interface {
	CurrentVersion(ctx context.Context, envType domain.EnvironmentType) (string, error)
}

// Strategy is one retrieval mode's execution path.
type Strategy interface {
	Search(ctx context.Context, index string, req *request.Request, explain bool) (result.Response, error)
}
