package dictionary

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/shopkit/searchapi/internal/domain"
)

// Service coordinates the typo and category caches through the shared
// lifecycle: startup warm-up, post-deploy refresh, and realtime sync.
type Service struct {
	typos      *TypoCache
	categories *CategoryCache
	envs       EnvironmentResolver
	logger     *zap.Logger
}

// NewService creates the dictionary lifecycle service.
func NewService(
	typos *TypoCache, categories *CategoryCache,
	envs EnvironmentResolver, logger *zap.Logger,
) *Service {
	return &Service{typos: typos, categories: categories, envs: envs, logger: logger}
}

// Typos returns the typo-correction cache.
func (s *Service) Typos() *TypoCache { return s.typos }

// Categories returns the category-ranking cache.
func (s *Service) Categories() *CategoryCache { return s.categories }

// WarmUp populates both caches for every known environment/version pair.
func (s *Service) WarmUp(ctx context.Context) error {
	return errors.Join(
		s.typos.WarmUp(ctx),
		s.categories.WarmUp(ctx),
	)
}

// RefreshDeployed rebuilds both caches after a new index version deploys.
func (s *Service) RefreshDeployed(ctx context.Context, envType domain.EnvironmentType) error {
	return errors.Join(
		s.typos.Refresh(ctx, envType),
		s.categories.Refresh(ctx, envType),
	)
}

// RealtimeSync replaces both caches' snapshots for the environment so live
// dictionary edits become visible without a deploy.
func (s *Service) RealtimeSync(ctx context.Context, envType domain.EnvironmentType) error {
	s.logger.Info("Realtime dictionary sync", zap.String("env", string(envType)))
	return errors.Join(
		s.typos.InvalidateAndRefresh(ctx, envType),
		s.categories.InvalidateAndRefresh(ctx, envType),
	)
}
