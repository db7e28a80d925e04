package ranking

import (
	"context"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/shopkit/searchapi/internal/dictionary"
	"github.com/shopkit/searchapi/internal/domain"
)

type stubStore struct {
	rows []dictionary.CategoryRow
}

func (s *stubStore) TypoEntries(_ context.Context, _ domain.EnvironmentType) ([]dictionary.TypoRow, error) {
	return nil, nil
}

func (s *stubStore) CategoryEntries(_ context.Context, _ domain.EnvironmentType) ([]dictionary.CategoryRow, error) {
	return s.rows, nil
}

type stubEnvs struct {
	version string
	err     error
}

func (s *stubEnvs) CurrentVersion(_ context.Context, _ domain.EnvironmentType) (string, error) {
	return s.version, s.err
}

func (s *stubEnvs) Environment(_ context.Context, e domain.EnvironmentType) (domain.IndexEnvironment, error) {
	return domain.IndexEnvironment{EnvType: e, Version: s.version}, s.err
}

func (s *stubEnvs) Environments(_ context.Context) ([]domain.IndexEnvironment, error) {
	return nil, nil
}

func intPtr(v int) *int { return &v }

func newResolver(t *testing.T, rows []dictionary.CategoryRow, envs *stubEnvs) *Resolver {
	t.Helper()
	cache, err := dictionary.NewCategoryCache(&stubStore{rows: rows}, envs, nil, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("NewCategoryCache: %v", err)
	}
	if envs.version != "" {
		if err := cache.Load(context.Background(), envs.version, domain.EnvProd); err != nil {
			t.Fatalf("Load: %v", err)
		}
	}
	return New(cache, envs, zap.NewNop())
}

func TestCategoryWeights_WhitespacePass(t *testing.T) {
	envs := &stubEnvs{version: "v1"}
	r := newResolver(t, []dictionary.CategoryRow{
		{Keyword: "노트북", Category: "전자제품", Weight: intPtr(1500)},
	}, envs)

	got := r.CategoryWeights(context.Background(), "노트북", nil, domain.EnvProd)
	want := map[string]int{"전자제품": 1500}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CategoryWeights = %v, want %v", got, want)
	}
}

func TestCategoryWeights_MorphemePass(t *testing.T) {
	envs := &stubEnvs{version: "v1"}
	r := newResolver(t, []dictionary.CategoryRow{
		{Keyword: "노트북", Category: "전자제품", Weight: intPtr(1500)},
	}, envs)

	// The whitespace token "게이밍노트북" misses; the analyzer's "노트북" hits.
	got := r.CategoryWeights(context.Background(), "게이밍노트북", []string{"게이밍", "노트북"}, domain.EnvProd)
	want := map[string]int{"전자제품": 1500}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CategoryWeights = %v, want %v", got, want)
	}
}

func TestCategoryWeights_DedupAcrossPasses(t *testing.T) {
	envs := &stubEnvs{version: "v1"}
	r := newResolver(t, []dictionary.CategoryRow{
		{Keyword: "노트북", Category: "전자제품", Weight: intPtr(1500)},
	}, envs)

	// "노트북" surfaces in both passes but must contribute exactly once.
	got := r.CategoryWeights(context.Background(), "노트북", []string{"노트북"}, domain.EnvProd)
	want := map[string]int{"전자제품": 1500}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CategoryWeights = %v, want %v", got, want)
	}
}

func TestCategoryWeights_SumsAcrossTokens(t *testing.T) {
	envs := &stubEnvs{version: "v1"}
	r := newResolver(t, []dictionary.CategoryRow{
		{Keyword: "삼성", Category: "전자제품", Weight: intPtr(500)},
		{Keyword: "노트북", Category: "전자제품", Weight: intPtr(1500)},
		{Keyword: "노트북", Category: "사무용품", Weight: nil},
	}, envs)

	got := r.CategoryWeights(context.Background(), "삼성 노트북", nil, domain.EnvProd)
	want := map[string]int{
		"전자제품": 2000,
		"사무용품": dictionary.DefaultCategoryWeight,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CategoryWeights = %v, want %v", got, want)
	}
}

func TestCategoryWeights_BlankQuery(t *testing.T) {
	r := newResolver(t, nil, &stubEnvs{version: "v1"})

	got := r.CategoryWeights(context.Background(), "  ", []string{"노트북"}, domain.EnvProd)
	if got == nil {
		t.Fatal("result must never be nil")
	}
	if len(got) != 0 {
		t.Errorf("CategoryWeights = %v, want empty for blank query", got)
	}
}

func TestCategoryWeights_FailOpenOnUnresolvedVersion(t *testing.T) {
	r := newResolver(t, nil, &stubEnvs{err: domain.ErrEnvironmentNotFound})

	got := r.CategoryWeights(context.Background(), "노트북", nil, domain.EnvProd)
	if got == nil || len(got) != 0 {
		t.Errorf("CategoryWeights = %v, want empty non-nil map", got)
	}
}
