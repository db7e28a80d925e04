package querydsl

import (
	"github.com/shopkit/searchapi/internal/domain/search/filter"
	"github.com/shopkit/searchapi/internal/domain/search/request"
)

// Vector fields of the product index.
const (
	FieldNameVector  = "name_vector"
	FieldSpecsVector = "specs_vector"
)

// knnClause renders one weighted ANN sub-search against a vector field.
func knnClause(field string, vector []float32, topK int, boost float64, filters []M) M {
	clause := M{
		"field":          field,
		"query_vector":   vector,
		"k":              topK,
		"num_candidates": topK * 2,
		"boost":          boost,
	}
	if len(filters) > 0 {
		clause["filter"] = filters
	}
	return clause
}

// VectorSearchBody assembles the multi-field ANN request. Per-field scores are
// weighted by the request boosts and summed by the engine; min_score trims the
// candidate pool server-side. Paging over the pool happens client-side, so the
// body always requests the full topK.
func VectorSearchBody(
	vector []float32, boosts request.VectorBoosts,
	topK int, minScore float64, f filter.Filters,
) M {
	filters := FilterClauses(f)

	var knn []M
	if boosts.Name > 0 {
		knn = append(knn, knnClause(FieldNameVector, vector, topK, boosts.Name, filters))
	}
	if boosts.Specs > 0 {
		knn = append(knn, knnClause(FieldSpecsVector, vector, topK, boosts.Specs, filters))
	}

	body := M{
		"knn":  knn,
		"size": topK,
	}
	if minScore > 0 {
		body["min_score"] = minScore
	}
	return body
}
