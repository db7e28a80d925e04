package request

import (
	"fmt"

	"github.com/shopkit/searchapi/internal/domain/search/filter"
	"github.com/shopkit/searchapi/internal/domain/search/mode"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 1024
	DefaultSize    = 20
	MaxSize        = 100
	DefaultTopK    = 100
	MaxTopK        = 500
)

// Sort orders for search results.
const (
	SortRelevance = "relevance"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortNewest    = "newest"
)

func validSort(s string) bool {
	return s == SortRelevance || s == SortPriceAsc || s == SortPriceDesc || s == SortNewest
}

// VectorBoosts weighs the per-field similarity scores in vector search.
type VectorBoosts struct {
	Name  float64
	Specs float64
}

// DefaultVectorBoosts returns the standard name/specs weighting.
func DefaultVectorBoosts() VectorBoosts {
	return VectorBoosts{Name: 0.7, Specs: 0.3}
}

// Request is a validated, immutable search request. Page numbering is
// zero-based: page 2 with size 20 addresses hits 40..59.
type Request struct {
	query          string
	page           int
	size           int
	sort           string
	filters        filter.Filters
	searchMode     mode.Mode
	applyTypo      bool
	hybridTopK     int
	vectorMinScore float64
	vectorBoosts   VectorBoosts
}

// New validates and normalizes search parameters.
// Defaults: mode=keyword_only, size=20, sort=relevance, topK=100.
// A blank query is allowed; strategies fall back to a filter-only match.
func New(
	query string,
	page, size int,
	sort string,
	filters filter.Filters,
	m mode.Mode,
	applyTypo bool,
	hybridTopK int,
	vectorMinScore float64,
	vectorBoosts *VectorBoosts,
) (Request, error) {
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if page < 0 {
		return Request{}, fmt.Errorf("page must not be negative")
	}
	if size <= 0 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}
	if sort == "" {
		sort = SortRelevance
	}
	if !validSort(sort) {
		return Request{}, fmt.Errorf("invalid sort %q", sort)
	}
	if m == "" {
		m = mode.KeywordOnly
	}
	if !m.IsValid() {
		return Request{}, fmt.Errorf("invalid search mode: %q", m)
	}
	if hybridTopK <= 0 {
		hybridTopK = DefaultTopK
	}
	if hybridTopK > MaxTopK {
		hybridTopK = MaxTopK
	}
	if vectorMinScore < 0 || vectorMinScore > 1 {
		return Request{}, fmt.Errorf("vector min score must be between 0 and 1")
	}
	boosts := DefaultVectorBoosts()
	if vectorBoosts != nil {
		if vectorBoosts.Name < 0 || vectorBoosts.Specs < 0 {
			return Request{}, fmt.Errorf("vector boosts must not be negative")
		}
		if vectorBoosts.Name == 0 && vectorBoosts.Specs == 0 {
			return Request{}, fmt.Errorf("at least one vector boost must be positive")
		}
		boosts = *vectorBoosts
	}

	return Request{
		query:          query,
		page:           page,
		size:           size,
		sort:           sort,
		filters:        filters,
		searchMode:     m,
		applyTypo:      applyTypo,
		hybridTopK:     hybridTopK,
		vectorMinScore: vectorMinScore,
		vectorBoosts:   boosts,
	}, nil
}

// Query returns the raw search query text.
func (r *Request) Query() string { return r.query }

// Page returns the zero-based page number.
func (r *Request) Page() int { return r.page }

// Size returns the page size.
func (r *Request) Size() int { return r.size }

// Sort returns the sort order.
func (r *Request) Sort() string { return r.sort }

// Filters returns the facet filters.
func (r *Request) Filters() filter.Filters { return r.filters }

// Mode returns the retrieval strategy.
func (r *Request) Mode() mode.Mode { return r.searchMode }

// ApplyTypoCorrection reports whether typo correction was requested.
func (r *Request) ApplyTypoCorrection() bool { return r.applyTypo }

// HybridTopK returns the candidate depth for vector and hybrid retrieval.
func (r *Request) HybridTopK() int { return r.hybridTopK }

// VectorMinScore returns the minimum similarity threshold.
func (r *Request) VectorMinScore() float64 { return r.vectorMinScore }

// VectorBoosts returns the per-field similarity weights.
func (r *Request) VectorBoosts() VectorBoosts { return r.vectorBoosts }
