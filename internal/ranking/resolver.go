package ranking

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/shopkit/searchapi/internal/dictionary"
	"github.com/shopkit/searchapi/internal/domain"
)

// Resolver maps query tokens to category score boosts via the versioned
// category dictionary. Boosts bias ranking toward matching categories; they
// never filter documents.
type Resolver struct {
	categories *dictionary.CategoryCache
	envs       dictionary.EnvironmentResolver
	logger     *zap.Logger
}

// New creates a category ranking resolver.
func New(categories *dictionary.CategoryCache, envs dictionary.EnvironmentResolver, logger *zap.Logger) *Resolver {
	return &Resolver{categories: categories, envs: envs, logger: logger}
}

// CategoryWeights resolves the summed category boosts for a query.
//
// Two token sources feed the lookup: the whitespace-split tokens of the query
// catch exact multi-morpheme brand terms the analyzer would split apart, and
// the morphological tokens catch compound words the whitespace split misses.
// A token contributes at most once even when both passes surface it.
// Returns an empty map, never nil, when nothing matches or the dictionary is
// unavailable.
func (r *Resolver) CategoryWeights(
	ctx context.Context, query string, morphTokens []string, envType domain.EnvironmentType,
) map[string]int {
	weights := make(map[string]int)
	if strings.TrimSpace(query) == "" {
		return weights
	}

	version, err := r.envs.CurrentVersion(ctx, envType)
	if err != nil {
		r.logger.Debug("Category boost skipped: version unresolved",
			zap.String("env", string(envType)), zap.Error(err))
		return weights
	}

	applied := make(map[string]bool)

	for _, token := range strings.Fields(strings.ToLower(query)) {
		r.applyToken(version, token, applied, weights)
	}
	for _, token := range morphTokens {
		r.applyToken(version, strings.ToLower(token), applied, weights)
	}
	return weights
}

func (r *Resolver) applyToken(version, token string, applied map[string]bool, weights map[string]int) {
	if token == "" || applied[token] {
		return
	}
	entries, found := r.categories.Lookup(version, token)
	if !found {
		return
	}
	applied[token] = true
	for _, cw := range entries {
		weights[cw.Category] += cw.Weight
	}
}
