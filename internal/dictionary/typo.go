package dictionary

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/shopkit/searchapi/internal/domain"
)

// TypoCache maps misspelled keywords to their corrected forms, per index version.
type TypoCache = VersionedCache[string]

// NewTypoCache creates the typo-correction cache backed by the dictionary store.
func NewTypoCache(
	store Store, envs EnvironmentResolver,
	lookups, refreshes *prometheus.CounterVec, logger *zap.Logger,
) (*TypoCache, error) {
	load := func(ctx context.Context, envType domain.EnvironmentType) (map[string]string, error) {
		rows, err := store.TypoEntries(ctx, envType)
		if err != nil {
			return nil, err
		}
		snap := make(map[string]string, len(rows))
		for _, row := range rows {
			if row.Keyword == "" || row.CorrectedWord == "" {
				continue
			}
			snap[row.Keyword] = row.CorrectedWord
		}
		return snap, nil
	}
	return NewVersionedCache("typo", load, envs, lookups, refreshes, logger)
}
