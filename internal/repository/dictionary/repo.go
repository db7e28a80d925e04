// Package dictionary persists dictionary rows and index-environment records
// in Redis hashes. The search core only reads; rows are written by the
// administration service that owns dictionary CRUD.
package dictionary

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	dict "github.com/shopkit/searchapi/internal/dictionary"
	"github.com/shopkit/searchapi/internal/domain"
)

// store is the consumer interface for the dictionary repository.
type store interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Get(ctx context.Context, key string) ([]byte, error)
}

// Repo reads dictionary rows and environment records.
type Repo struct {
	store     store
	keyPrefix string
}

// Compile-time checks against the dictionary package contracts.
var (
	_ dict.Store               = (*Repo)(nil)
	_ dict.EnvironmentResolver = (*Repo)(nil)
)

// New creates a dictionary repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

func (r *Repo) typoKey(env domain.EnvironmentType) string {
	return r.keyPrefix + "dict:typo:" + string(env)
}

func (r *Repo) categoryKey(env domain.EnvironmentType) string {
	return r.keyPrefix + "dict:category:" + string(env)
}

func (r *Repo) envKey(env domain.EnvironmentType) string {
	return r.keyPrefix + "env:" + string(env)
}

func (r *Repo) currentKey() string {
	return r.keyPrefix + "env:current"
}

// TypoEntries returns the typo-correction rows for an environment, ordered by keyword.
func (r *Repo) TypoEntries(ctx context.Context, envType domain.EnvironmentType) ([]dict.TypoRow, error) {
	envType, err := r.resolveEnvType(ctx, envType)
	if err != nil {
		return nil, err
	}

	fields, err := r.store.HGetAll(ctx, r.typoKey(envType))
	if err != nil {
		return nil, fmt.Errorf("%w: read typo rows: %w", domain.ErrDictionaryUnavailable, err)
	}

	rows := make([]dict.TypoRow, 0, len(fields))
	for keyword, corrected := range fields {
		rows = append(rows, dict.TypoRow{Keyword: keyword, CorrectedWord: corrected})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Keyword < rows[j].Keyword })
	return rows, nil
}

// categoryEntryRow is the JSON row format of one category mapping.
type categoryEntryRow struct {
	Category string `json:"category"`
	Weight   *int   `json:"weight,omitempty"`
}

// CategoryEntries returns the category-ranking rows for an environment, ordered by keyword.
func (r *Repo) CategoryEntries(ctx context.Context, envType domain.EnvironmentType) ([]dict.CategoryRow, error) {
	envType, err := r.resolveEnvType(ctx, envType)
	if err != nil {
		return nil, err
	}

	fields, err := r.store.HGetAll(ctx, r.categoryKey(envType))
	if err != nil {
		return nil, fmt.Errorf("%w: read category rows: %w", domain.ErrDictionaryUnavailable, err)
	}

	keywords := make([]string, 0, len(fields))
	for keyword := range fields {
		keywords = append(keywords, keyword)
	}
	sort.Strings(keywords)

	var rows []dict.CategoryRow
	for _, keyword := range keywords {
		var entries []categoryEntryRow
		if err := json.Unmarshal([]byte(fields[keyword]), &entries); err != nil {
			return nil, fmt.Errorf("%w: parse category row %q: %w", domain.ErrDictionaryUnavailable, keyword, err)
		}
		for _, e := range entries {
			rows = append(rows, dict.CategoryRow{Keyword: keyword, Category: e.Category, Weight: e.Weight})
		}
	}
	return rows, nil
}

// CurrentVersion resolves the index version an environment currently serves.
func (r *Repo) CurrentVersion(ctx context.Context, envType domain.EnvironmentType) (string, error) {
	env, err := r.Environment(ctx, envType)
	if err != nil {
		return "", err
	}
	return env.Version, nil
}

// Environment reads one index-environment record.
func (r *Repo) Environment(ctx context.Context, envType domain.EnvironmentType) (domain.IndexEnvironment, error) {
	envType, err := r.resolveEnvType(ctx, envType)
	if err != nil {
		return domain.IndexEnvironment{}, err
	}

	fields, err := r.store.HGetAll(ctx, r.envKey(envType))
	if err != nil {
		return domain.IndexEnvironment{}, fmt.Errorf("read environment %s: %w", envType, err)
	}
	if len(fields) == 0 || fields["version"] == "" {
		return domain.IndexEnvironment{}, fmt.Errorf("%w: %s", domain.ErrEnvironmentNotFound, envType)
	}

	docCount, _ := strconv.ParseInt(fields["document_count"], 10, 64)
	status := domain.IndexStatus(fields["status"])
	if status == "" {
		status = domain.IndexInactive
	}

	return domain.IndexEnvironment{
		EnvType:       envType,
		Version:       fields["version"],
		DocumentCount: docCount,
		Status:        status,
	}, nil
}

// Environments lists every concrete environment record that exists.
func (r *Repo) Environments(ctx context.Context) ([]domain.IndexEnvironment, error) {
	var out []domain.IndexEnvironment
	for _, envType := range []domain.EnvironmentType{domain.EnvDev, domain.EnvProd} {
		env, err := r.Environment(ctx, envType)
		if err != nil {
			// A missing environment is normal before its first deploy.
			continue
		}
		out = append(out, env)
	}
	return out, nil
}

// resolveEnvType maps EnvCurrent to the concrete environment named by the
// current-pointer key. Dev and prod pass through.
func (r *Repo) resolveEnvType(ctx context.Context, envType domain.EnvironmentType) (domain.EnvironmentType, error) {
	if envType != domain.EnvCurrent {
		return envType, nil
	}
	data, err := r.store.Get(ctx, r.currentKey())
	if err != nil {
		return "", fmt.Errorf("%w: current environment pointer: %w", domain.ErrEnvironmentNotFound, err)
	}
	resolved := domain.EnvironmentType(string(data))
	if resolved != domain.EnvDev && resolved != domain.EnvProd {
		return "", fmt.Errorf("%w: current pointer names %q", domain.ErrEnvironmentNotFound, resolved)
	}
	return resolved, nil
}
