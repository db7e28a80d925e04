package dictionary

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/shopkit/searchapi/internal/domain"
)

// CategoryCache maps keywords to category score boosts, per index version.
type CategoryCache = VersionedCache[[]CategoryWeight]

// NewCategoryCache creates the category-ranking cache backed by the dictionary store.
func NewCategoryCache(
	store Store, envs EnvironmentResolver,
	lookups, refreshes *prometheus.CounterVec, logger *zap.Logger,
) (*CategoryCache, error) {
	load := func(ctx context.Context, envType domain.EnvironmentType) (map[string][]CategoryWeight, error) {
		rows, err := store.CategoryEntries(ctx, envType)
		if err != nil {
			return nil, err
		}
		snap := make(map[string][]CategoryWeight)
		for _, row := range rows {
			if row.Keyword == "" || row.Category == "" {
				continue
			}
			weight := DefaultCategoryWeight
			if row.Weight != nil {
				weight = *row.Weight
			}
			snap[row.Keyword] = append(snap[row.Keyword], CategoryWeight{
				Category: row.Category,
				Weight:   weight,
			})
		}
		return snap, nil
	}
	return NewVersionedCache("category", load, envs, lookups, refreshes, logger)
}
