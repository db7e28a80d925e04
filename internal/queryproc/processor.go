package queryproc

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/shopkit/searchapi/internal/dictionary"
	"github.com/shopkit/searchapi/internal/domain"
	"github.com/shopkit/searchapi/internal/textproc"
)

// ProcessedQuery carries a query through normalization and typo correction.
type ProcessedQuery struct {
	Original   string
	FinalQuery string
}

// QueryContext is the immutable per-request derivation of a raw query:
// normalized text, extracted special terms, and the lexical remainder after
// those terms are stripped. Created once per request, never mutated.
type QueryContext struct {
	Original          string
	Processed         string
	Units             []string
	Models            []string
	QueryWithoutTerms string
	EmptyAfterRemoval bool
	TypoApplied       bool
}

// Processor normalizes and rewrites raw queries into QueryContexts.
type Processor struct {
	typos     *dictionary.TypoCache
	envs      dictionary.EnvironmentResolver
	extractor *textproc.Extractor
	logger    *zap.Logger
}

// New creates a query processor using the search-time (literal) extractor.
func New(typos *dictionary.TypoCache, envs dictionary.EnvironmentResolver, logger *zap.Logger) *Processor {
	return &Processor{
		typos:     typos,
		envs:      envs,
		extractor: textproc.NewSearchExtractor(),
		logger:    logger,
	}
}

// Process normalizes the raw query and, when requested, replaces each
// whitespace-delimited token with its typo correction. Corrections are exact
// matches against the current environment's resident snapshot; any cache gap
// degrades to the unmodified token.
func (p *Processor) Process(ctx context.Context, rawQuery string, applyTypoCorrection bool) ProcessedQuery {
	if strings.TrimSpace(rawQuery) == "" {
		return ProcessedQuery{}
	}

	final := textproc.Normalize(rawQuery)
	if applyTypoCorrection && final != "" {
		final = p.correctTypos(ctx, final)
	}
	return ProcessedQuery{Original: rawQuery, FinalQuery: final}
}

// Analyze runs the full derivation: Process plus unit/model extraction from
// the original query (before typo correction), and the lexical remainder used
// by the query builder to decide on a filter-only fallback.
func (p *Processor) Analyze(ctx context.Context, rawQuery string, applyTypoCorrection bool) QueryContext {
	processed := p.Process(ctx, rawQuery, applyTypoCorrection)

	units := p.extractor.Units(rawQuery)
	models := p.extractor.Models(rawQuery)

	terms := make([]string, 0, len(units)+len(models))
	terms = append(terms, units...)
	terms = append(terms, models...)
	withoutTerms := textproc.RemoveTerms(processed.FinalQuery, terms)

	return QueryContext{
		Original:          processed.Original,
		Processed:         processed.FinalQuery,
		Units:             units,
		Models:            models,
		QueryWithoutTerms: withoutTerms,
		EmptyAfterRemoval: withoutTerms == "",
		TypoApplied:       applyTypoCorrection,
	}
}

func (p *Processor) correctTypos(ctx context.Context, normalized string) string {
	version, err := p.envs.CurrentVersion(ctx, domain.EnvCurrent)
	if err != nil {
		p.logger.Debug("Typo correction skipped: current version unresolved", zap.Error(err))
		return normalized
	}

	tokens := strings.Split(normalized, " ")
	changed := false
	for i, token := range tokens {
		if corrected, found := p.typos.Lookup(version, token); found {
			tokens[i] = corrected
			changed = true
		}
	}
	if !changed {
		return normalized
	}
	return strings.Join(tokens, " ")
}
