package dictionary

import (
	"context"

	"github.com/shopkit/searchapi/internal/domain"
)

// TypoRow is a single typo-correction dictionary entry.
type TypoRow struct {
	Keyword       string
	CorrectedWord string
}

// CategoryRow maps a keyword to one boosted category. Weight is nil when the
// editor left it unset; the loader applies DefaultCategoryWeight.
type CategoryRow struct {
	Keyword  string
	Category string
	Weight   *int
}

// CategoryWeight is one category boost resolved for a keyword.
type CategoryWeight struct {
	Category string
	Weight   int
}

// DefaultCategoryWeight applies when a dictionary row has no explicit weight.
const DefaultCategoryWeight = 1000

// Store is the read-only dictionary persistence contract. Implementations
// return rows ordered by keyword; this package never writes dictionary rows.
type Store interface {
	TypoEntries(ctx context.Context, envType domain.EnvironmentType) ([]TypoRow, error)
	CategoryEntries(ctx context.Context, envType domain.EnvironmentType) ([]CategoryRow, error)
}

// EnvironmentResolver resolves blue/green index environments to versions.
type EnvironmentResolver interface {
	CurrentVersion(ctx context.Context, envType domain.EnvironmentType) (string, error)
	Environment(ctx context.Context, envType domain.EnvironmentType) (domain.IndexEnvironment, error)
	Environments(ctx context.Context) ([]domain.IndexEnvironment, error)
}
