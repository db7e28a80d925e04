package chi

import (
	"fmt"

	"github.com/shopkit/searchapi/internal/domain/search/filter"
	"github.com/shopkit/searchapi/internal/domain/search/mode"
	"github.com/shopkit/searchapi/internal/domain/search/request"
)

// searchRequestBody is the wire form of a search request.
type searchRequestBody struct {
	Query               string            `json:"query"`
	Page                int               `json:"page"`
	Size                int               `json:"size"`
	Sort                string            `json:"sort"`
	SearchMode          string            `json:"searchMode"`
	ApplyTypoCorrection bool              `json:"applyTypoCorrection"`
	WithExplain         bool              `json:"withExplain"`
	Filters             *filtersBody      `json:"filters"`
	HybridTopK          int               `json:"hybridTopK"`
	VectorMinScore      float64           `json:"vectorMinScore"`
	VectorBoosts        *vectorBoostsBody `json:"vectorBoosts"`
}

type filtersBody struct {
	Brands     []string        `json:"brands"`
	Categories []string        `json:"categories"`
	PriceRange *priceRangeBody `json:"priceRange"`
}

type priceRangeBody struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

type vectorBoostsBody struct {
	Name  float64 `json:"name"`
	Specs float64 `json:"specs"`
}

type environmentBody struct {
	EnvType       string `json:"envType"`
	Version       string `json:"version"`
	DocumentCount int64  `json:"documentCount"`
	Status        string `json:"status"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// applyLimits fills unset paging and candidate-depth fields from the server
// limits and caps the page size. The request package's own bounds still hold.
func (b *searchRequestBody) applyLimits(l Limits) {
	if b.Size == 0 && l.DefaultPageSize > 0 {
		b.Size = l.DefaultPageSize
	}
	if l.MaxPageSize > 0 && b.Size > l.MaxPageSize {
		b.Size = l.MaxPageSize
	}
	if b.HybridTopK == 0 && l.HybridTopK > 0 {
		b.HybridTopK = l.HybridTopK
	}
}

func (b *searchRequestBody) toRequest() (request.Request, error) {
	filters, err := b.toFilters()
	if err != nil {
		return request.Request{}, fmt.Errorf("parse filters: %w", err)
	}

	var boosts *request.VectorBoosts
	if b.VectorBoosts != nil {
		boosts = &request.VectorBoosts{
			Name:  b.VectorBoosts.Name,
			Specs: b.VectorBoosts.Specs,
		}
	}

	req, err := request.New(
		b.Query, b.Page, b.Size, b.Sort, filters,
		mode.Mode(b.SearchMode), b.ApplyTypoCorrection,
		b.HybridTopK, b.VectorMinScore, boosts,
	)
	if err != nil {
		return request.Request{}, fmt.Errorf("build search request: %w", err)
	}
	return req, nil
}

func (b *searchRequestBody) toFilters() (filter.Filters, error) {
	if b.Filters == nil {
		return filter.Filters{}, nil
	}

	var priceRange *filter.PriceRange
	if pr := b.Filters.PriceRange; pr != nil {
		built, err := filter.NewPriceRange(pr.Min, pr.Max)
		if err != nil {
			return filter.Filters{}, fmt.Errorf("price range: %w", err)
		}
		priceRange = &built
	}

	return filter.New(b.Filters.Brands, b.Filters.Categories, priceRange)
}
