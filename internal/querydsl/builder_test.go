package querydsl

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/shopkit/searchapi/internal/domain/search/filter"
	"github.com/shopkit/searchapi/internal/domain/search/request"
	"github.com/shopkit/searchapi/internal/queryproc"
)

func boolPart(t *testing.T, q M, part string) []M {
	t.Helper()
	inner, ok := q["bool"].(M)
	if !ok {
		t.Fatalf("query is not a bool query: %v", q)
	}
	clauses, _ := inner[part].([]M)
	return clauses
}

func mustFilters(t *testing.T, brands []string) filter.Filters {
	t.Helper()
	f, err := filter.New(brands, nil, nil)
	if err != nil {
		t.Fatalf("filter.New: %v", err)
	}
	return f
}

func TestBuildBoolQuery_BlankQueryIsFilterOnly(t *testing.T) {
	q := BuildBoolQuery(queryproc.QueryContext{}, mustFilters(t, []string{"Samsung"}), map[string]int{"전자제품": 1500})

	must := boolPart(t, q, "must")
	if len(must) != 1 || !reflect.DeepEqual(must[0], MatchAll()) {
		t.Errorf("must = %v, want single match_all", must)
	}
	if should := boolPart(t, q, "should"); len(should) != 0 {
		t.Errorf("blank query must have no should clauses, got %v", should)
	}
	if flt := boolPart(t, q, "filter"); len(flt) != 1 {
		t.Errorf("filter = %v, want single brand terms clause", flt)
	}
}

func TestBuildBoolQuery_LexicalMust(t *testing.T) {
	qc := queryproc.QueryContext{
		Processed:         "삼성 갤럭시 500ml",
		Units:             []string{"500ml"},
		QueryWithoutTerms: "삼성 갤럭시",
	}
	q := BuildBoolQuery(qc, filter.Filters{}, nil)

	must := boolPart(t, q, "must")
	want := Match(FieldName, "삼성 갤럭시")
	if len(must) != 1 || !reflect.DeepEqual(must[0], want) {
		t.Errorf("must = %v, want %v", must, want)
	}
	should := boolPart(t, q, "should")
	if len(should) != 1 {
		t.Fatalf("should = %v, want one unit phrase boost", should)
	}
}

func TestBuildBoolQuery_EmptyAfterRemovalKeepsBoosts(t *testing.T) {
	qc := queryproc.QueryContext{
		Processed:         "500ml",
		Units:             []string{"500ml"},
		EmptyAfterRemoval: true,
	}
	q := BuildBoolQuery(qc, filter.Filters{}, nil)

	must := boolPart(t, q, "must")
	if len(must) != 1 || !reflect.DeepEqual(must[0], MatchAll()) {
		t.Errorf("must = %v, want match_all fallback", must)
	}
	if should := boolPart(t, q, "should"); len(should) != 1 {
		t.Errorf("should = %v, want the unit boost to survive", should)
	}
}

func TestCategoryBoostClauses_DeterministicOrder(t *testing.T) {
	weights := map[string]int{"주방용품": 500, "전자제품": 1500, "가구": 1000}
	first := CategoryBoostClauses(weights)
	for i := 0; i < 20; i++ {
		if got := CategoryBoostClauses(weights); !reflect.DeepEqual(got, first) {
			t.Fatal("clause order must not depend on map iteration")
		}
	}
	if len(first) != 3 {
		t.Fatalf("clauses = %d, want 3", len(first))
	}
}

func TestFilterClauses_PriceRange(t *testing.T) {
	minP, maxP := 1000.0, 50000.0
	pr, err := filter.NewPriceRange(&minP, &maxP)
	if err != nil {
		t.Fatalf("NewPriceRange: %v", err)
	}
	f, err := filter.New(nil, nil, &pr)
	if err != nil {
		t.Fatalf("filter.New: %v", err)
	}

	clauses := FilterClauses(f)
	if len(clauses) != 1 {
		t.Fatalf("clauses = %v, want one range clause", clauses)
	}
	want := M{"range": M{FieldPrice: M{"gte": 1000.0, "lte": 50000.0}}}
	if !reflect.DeepEqual(clauses[0], want) {
		t.Errorf("range clause = %v, want %v", clauses[0], want)
	}
}

func TestSortClauses(t *testing.T) {
	if got := SortClauses(request.SortRelevance); len(got) != 1 {
		t.Errorf("relevance sort = %v, want score only", got)
	}
	got := SortClauses(request.SortPriceAsc)
	if len(got) != 2 {
		t.Fatalf("price sort = %v, want price then score tiebreak", got)
	}
	if _, ok := got[0][FieldPrice]; !ok {
		t.Errorf("primary sort = %v, want price", got[0])
	}
}

func TestSearchBody_Serializable(t *testing.T) {
	qc := queryproc.QueryContext{Processed: "노트북", QueryWithoutTerms: "노트북"}
	body := SearchBody(BuildBoolQuery(qc, filter.Filters{}, nil), 20, 20, request.SortRelevance, true)

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("body must serialize to JSON: %v", err)
	}
	for _, key := range []string{`"query"`, `"from"`, `"size"`, `"aggs"`, `"track_total_hits"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("serialized body missing %s: %s", key, data)
		}
	}
}
