package dictionary

import (
	"context"
	"errors"
	"testing"

	"github.com/shopkit/searchapi/internal/db"
	"github.com/shopkit/searchapi/internal/domain"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hashes map[string]map[string]string
	keys   map[string]string
	err    error
}

func (m *mockStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hashes[key], nil
}

func (m *mockStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	v, ok := m.keys[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return []byte(v), nil
}

func TestTypoEntries_OrderedByKeyword(t *testing.T) {
	store := &mockStore{hashes: map[string]map[string]string{
		"searchapi:dict:typo:prod": {
			"엘디": "엘지",
			"쌈성": "삼성",
		},
	}}
	repo := New(store, "searchapi:")

	rows, err := repo.TypoEntries(context.Background(), domain.EnvProd)
	if err != nil {
		t.Fatalf("TypoEntries: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Keyword > rows[1].Keyword {
		t.Errorf("rows not ordered by keyword: %v", rows)
	}
}

func TestCategoryEntries_ParsesWeights(t *testing.T) {
	store := &mockStore{hashes: map[string]map[string]string{
		"searchapi:dict:category:prod": {
			"노트북": `[{"category":"전자제품","weight":1500},{"category":"사무용품"}]`,
		},
	}}
	repo := New(store, "searchapi:")

	rows, err := repo.CategoryEntries(context.Background(), domain.EnvProd)
	if err != nil {
		t.Fatalf("CategoryEntries: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Weight == nil || *rows[0].Weight != 1500 {
		t.Errorf("explicit weight lost: %+v", rows[0])
	}
	if rows[1].Weight != nil {
		t.Errorf("unset weight should stay nil: %+v", rows[1])
	}
}

func TestCategoryEntries_MalformedRow(t *testing.T) {
	store := &mockStore{hashes: map[string]map[string]string{
		"searchapi:dict:category:prod": {"노트북": "not-json"},
	}}
	repo := New(store, "searchapi:")

	_, err := repo.CategoryEntries(context.Background(), domain.EnvProd)
	if !errors.Is(err, domain.ErrDictionaryUnavailable) {
		t.Errorf("err = %v, want ErrDictionaryUnavailable", err)
	}
}

func TestEnvironment(t *testing.T) {
	store := &mockStore{hashes: map[string]map[string]string{
		"searchapi:env:prod": {
			"version":        "v20260801",
			"document_count": "123456",
			"status":         "active",
		},
	}}
	repo := New(store, "searchapi:")

	env, err := repo.Environment(context.Background(), domain.EnvProd)
	if err != nil {
		t.Fatalf("Environment: %v", err)
	}
	if env.Version != "v20260801" || env.DocumentCount != 123456 || !env.IsActive() {
		t.Errorf("unexpected environment: %+v", env)
	}
}

func TestEnvironment_Missing(t *testing.T) {
	repo := New(&mockStore{}, "searchapi:")

	_, err := repo.Environment(context.Background(), domain.EnvProd)
	if !errors.Is(err, domain.ErrEnvironmentNotFound) {
		t.Errorf("err = %v, want ErrEnvironmentNotFound", err)
	}
}

func TestCurrentEnvironmentResolution(t *testing.T) {
	store := &mockStore{
		hashes: map[string]map[string]string{
			"searchapi:env:prod": {"version": "v7", "status": "active"},
		},
		keys: map[string]string{"searchapi:env:current": "prod"},
	}
	repo := New(store, "searchapi:")

	version, err := repo.CurrentVersion(context.Background(), domain.EnvCurrent)
	if err != nil {
		t.Fatalf("CurrentVersion: %v", err)
	}
	if version != "v7" {
		t.Errorf("version = %q, want v7", version)
	}
}

func TestCurrentEnvironmentResolution_MissingPointer(t *testing.T) {
	repo := New(&mockStore{}, "searchapi:")

	_, err := repo.CurrentVersion(context.Background(), domain.EnvCurrent)
	if !errors.Is(err, domain.ErrEnvironmentNotFound) {
		t.Errorf("err = %v, want ErrEnvironmentNotFound", err)
	}
}

func TestEnvironments_SkipsMissing(t *testing.T) {
	store := &mockStore{hashes: map[string]map[string]string{
		"searchapi:env:prod": {"version": "v7", "status": "active"},
	}}
	repo := New(store, "searchapi:")

	envs, err := repo.Environments(context.Background())
	if err != nil {
		t.Fatalf("Environments: %v", err)
	}
	if len(envs) != 1 || envs[0].EnvType != domain.EnvProd {
		t.Errorf("envs = %+v, want only prod", envs)
	}
}
