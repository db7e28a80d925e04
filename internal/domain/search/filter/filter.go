package filter

import "fmt"

// Maximum facet values accepted per filter group.
const MaxValuesPerGroup = 32

// Filters is the structured facet filter for a search request. All clauses
// are exact-match constraints; they never contribute to relevance scoring.
type Filters struct {
	brands     []string
	categories []string
	priceRange *PriceRange
}

// New validates and creates Filters.
func New(brands, categories []string, priceRange *PriceRange) (Filters, error) {
	if len(brands) > MaxValuesPerGroup {
		return Filters{}, fmt.Errorf("too many brand filters (max %d)", MaxValuesPerGroup)
	}
	if len(categories) > MaxValuesPerGroup {
		return Filters{}, fmt.Errorf("too many category filters (max %d)", MaxValuesPerGroup)
	}
	for _, b := range brands {
		if b == "" {
			return Filters{}, fmt.Errorf("brand filter value must not be empty")
		}
	}
	for _, c := range categories {
		if c == "" {
			return Filters{}, fmt.Errorf("category filter value must not be empty")
		}
	}
	return Filters{brands: brands, categories: categories, priceRange: priceRange}, nil
}

// Brands returns the brand terms to filter on.
func (f Filters) Brands() []string { return f.brands }

// Categories returns the category terms to filter on.
func (f Filters) Categories() []string { return f.categories }

// PriceRange returns the price boundaries, nil when unconstrained.
func (f Filters) PriceRange() *PriceRange { return f.priceRange }

// IsEmpty reports whether no filter clause is set.
func (f Filters) IsEmpty() bool {
	return len(f.brands) == 0 && len(f.categories) == 0 && f.priceRange == nil
}

// PriceRange is an inclusive numeric price constraint.
type PriceRange struct {
	min *float64
	max *float64
}

// NewPriceRange validates and creates a PriceRange. At least one boundary is
// required and min must not exceed max.
func NewPriceRange(minPrice, maxPrice *float64) (PriceRange, error) {
	if minPrice == nil && maxPrice == nil {
		return PriceRange{}, fmt.Errorf("at least one price boundary is required")
	}
	if minPrice != nil && *minPrice < 0 {
		return PriceRange{}, fmt.Errorf("min price must not be negative")
	}
	if maxPrice != nil && *maxPrice < 0 {
		return PriceRange{}, fmt.Errorf("max price must not be negative")
	}
	if minPrice != nil && maxPrice != nil && *minPrice > *maxPrice {
		return PriceRange{}, fmt.Errorf("min price %v exceeds max price %v", *minPrice, *maxPrice)
	}
	return PriceRange{min: minPrice, max: maxPrice}, nil
}

// Min returns the inclusive lower bound, nil when open.
func (r PriceRange) Min() *float64 { return r.min }

// Max returns the inclusive upper bound, nil when open.
func (r PriceRange) Max() *float64 { return r.max }
