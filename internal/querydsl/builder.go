// Package querydsl assembles the backend-native JSON query DSL. The search
// engine is a black box behind a JSON-over-HTTP boundary; this package only
// guarantees the clause semantics: filter clauses never affect score, should
// clauses never exclude documents, and the must clause is the only
// required-match condition for a non-blank query.
package querydsl

import (
	"sort"

	"github.com/shopkit/searchapi/internal/domain/search/filter"
	"github.com/shopkit/searchapi/internal/domain/search/request"
	"github.com/shopkit/searchapi/internal/queryproc"
)

// M is a JSON object fragment of the query DSL.
type M = map[string]any

// Document fields of the product index.
const (
	FieldName       = "name"
	FieldBrand      = "brand"
	FieldCategory   = "category"
	FieldPrice      = "price"
	FieldCreatedAt  = "created_at"
	FieldUnits      = "units"
	FieldModelCodes = "model_codes"
)

// Boosts applied to should clauses.
const (
	unitBoost  = 2.0
	modelBoost = 3.0
	// Category weights are dictionary integers; DefaultCategoryWeight (1000)
	// maps to a neutral boost of 1.0.
	categoryWeightScale = 1000.0
)

// MatchAll returns the match-all query.
func MatchAll() M {
	return M{"match_all": M{}}
}

// Match returns an analyzed full-text match clause.
func Match(field, text string) M {
	return M{"match": M{field: M{"query": text}}}
}

// MatchPhrase returns a phrase match clause with a boost.
func MatchPhrase(field, text string, boost float64) M {
	return M{"match_phrase": M{field: M{"query": text, "boost": boost}}}
}

// Terms returns an exact-match terms clause.
func Terms(field string, values []string) M {
	return M{"terms": M{field: values}}
}

// ConstantScore wraps a filter so a match adds a fixed score contribution.
func ConstantScore(f M, boost float64) M {
	return M{"constant_score": M{"filter": f, "boost": boost}}
}

// Bool collects must/filter/should clauses of a boolean query.
type Bool struct {
	Must   []M
	Filter []M
	Should []M
}

// Query renders the bool query as DSL.
func (b Bool) Query() M {
	inner := M{}
	if len(b.Must) > 0 {
		inner["must"] = b.Must
	}
	if len(b.Filter) > 0 {
		inner["filter"] = b.Filter
	}
	if len(b.Should) > 0 {
		inner["should"] = b.Should
	}
	return M{"bool": inner}
}

// BuildBoolQuery assembles the lexical retrieval query for a processed
// request. A blank processed query degrades to match-all plus filters with no
// scoring signal; otherwise the stripped lexical text forms the must clause
// and category/unit/model boosts join as should clauses.
func BuildBoolQuery(qc queryproc.QueryContext, filters filter.Filters, categoryWeights map[string]int) M {
	b := Bool{Filter: FilterClauses(filters)}

	if qc.Processed == "" {
		b.Must = []M{MatchAll()}
		return b.Query()
	}

	if qc.EmptyAfterRemoval {
		// Nothing lexical remains once special terms are stripped; ranking is
		// carried entirely by the should clauses.
		b.Must = []M{MatchAll()}
	} else {
		b.Must = []M{Match(FieldName, qc.QueryWithoutTerms)}
	}

	b.Should = append(b.Should, CategoryBoostClauses(categoryWeights)...)
	b.Should = append(b.Should, SpecialTermClauses(qc.Units, qc.Models)...)
	return b.Query()
}

// FilterClauses renders facet filters as non-scoring exact-match clauses.
func FilterClauses(f filter.Filters) []M {
	var clauses []M
	if brands := f.Brands(); len(brands) > 0 {
		clauses = append(clauses, Terms(FieldBrand, brands))
	}
	if categories := f.Categories(); len(categories) > 0 {
		clauses = append(clauses, Terms(FieldCategory, categories))
	}
	if pr := f.PriceRange(); pr != nil {
		bounds := M{}
		if pr.Min() != nil {
			bounds["gte"] = *pr.Min()
		}
		if pr.Max() != nil {
			bounds["lte"] = *pr.Max()
		}
		clauses = append(clauses, M{"range": M{FieldPrice: bounds}})
	}
	return clauses
}

// CategoryBoostClauses renders category weights as constant-score should
// clauses, ordered by category name so the built query is reproducible.
func CategoryBoostClauses(weights map[string]int) []M {
	if len(weights) == 0 {
		return nil
	}
	categories := make([]string, 0, len(weights))
	for c := range weights {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	clauses := make([]M, 0, len(categories))
	for _, c := range categories {
		boost := float64(weights[c]) / categoryWeightScale
		clauses = append(clauses, ConstantScore(M{"term": M{FieldCategory: c}}, boost))
	}
	return clauses
}

// SpecialTermClauses renders extracted unit and model terms as phrase boosts
// against their dedicated index fields.
func SpecialTermClauses(units, models []string) []M {
	clauses := make([]M, 0, len(units)+len(models))
	for _, u := range units {
		clauses = append(clauses, MatchPhrase(FieldUnits, u, unitBoost))
	}
	for _, m := range models {
		clauses = append(clauses, MatchPhrase(FieldModelCodes, m, modelBoost))
	}
	return clauses
}

// SortClauses maps a request sort order to the DSL sort spec.
func SortClauses(sortOrder string) []M {
	switch sortOrder {
	case request.SortPriceAsc:
		return []M{{FieldPrice: M{"order": "asc"}}, {"_score": M{"order": "desc"}}}
	case request.SortPriceDesc:
		return []M{{FieldPrice: M{"order": "desc"}}, {"_score": M{"order": "desc"}}}
	case request.SortNewest:
		return []M{{FieldCreatedAt: M{"order": "desc"}}, {"_score": M{"order": "desc"}}}
	default:
		return []M{{"_score": M{"order": "desc"}}}
	}
}

// FacetAggs requests terms aggregations over the brand and category facets.
func FacetAggs() M {
	return M{
		FieldBrand:    M{"terms": M{"field": FieldBrand, "size": 20}},
		FieldCategory: M{"terms": M{"field": FieldCategory, "size": 20}},
	}
}

// SearchBody assembles the full backend request body.
func SearchBody(query M, from, size int, sortOrder string, withAggs bool) M {
	body := M{
		"query":            query,
		"from":             from,
		"size":             size,
		"sort":             SortClauses(sortOrder),
		"track_total_hits": true,
	}
	if withAggs {
		body["aggs"] = FacetAggs()
	}
	return body
}
