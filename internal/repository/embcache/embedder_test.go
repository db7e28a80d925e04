package embcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/shopkit/searchapi/internal/db"
	"github.com/shopkit/searchapi/internal/domain"
)

type mockEmbedder struct {
	result domain.EmbeddingResult
	err    error
	calls  int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	return m.result, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func TestEmbed_CacheMiss(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding:    []float32{0.1, 0.2, 0.3},
		PromptTokens: 10,
		TotalTokens:  10,
	}}
	ms := &mockKVStore{}
	ce := New(inner, ms, "searchapi:", time.Hour, nil, zap.NewNop())

	var stored []byte
	var storedTTL time.Duration
	ms.setFn = func(_ context.Context, _ string, value []byte, ttl time.Duration) error {
		stored = value
		storedTTL = ttl
		return nil
	}

	result, err := ce.Embed(context.Background(), "무선 키보드")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("inner calls = %d, want 1", inner.calls)
	}
	if result.TotalTokens != 10 {
		t.Errorf("miss should report real token usage, got %d", result.TotalTokens)
	}
	if len(stored) != 12 {
		t.Errorf("stored %d bytes, want 12 (3 float32)", len(stored))
	}
	if storedTTL != time.Hour {
		t.Errorf("stored TTL = %v, want %v", storedTTL, time.Hour)
	}
}

func TestNew_NonPositiveTTLDefaults(t *testing.T) {
	ce := New(&mockEmbedder{}, &mockKVStore{}, "searchapi:", 0, nil, zap.NewNop())
	if ce.ttl != DefaultTTL {
		t.Errorf("ttl = %v, want %v", ce.ttl, DefaultTTL)
	}
}

func TestEmbed_CacheHit(t *testing.T) {
	inner := &mockEmbedder{err: errors.New("must not be called")}
	ms := &mockKVStore{}
	ce := New(inner, ms, "searchapi:", time.Hour, nil, zap.NewNop())

	want := []float32{0.5, -1.25}
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return vectorToCacheBytes(want), nil
	}

	result, err := ce.Embed(context.Background(), "무선 키보드")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if inner.calls != 0 {
		t.Errorf("inner called on cache hit")
	}
	if len(result.Embedding) != 2 || result.Embedding[0] != 0.5 || result.Embedding[1] != -1.25 {
		t.Errorf("embedding = %v, want %v", result.Embedding, want)
	}
	if result.TotalTokens != 0 {
		t.Errorf("hit should report zero tokens, got %d", result.TotalTokens)
	}
}

func TestEmbed_CorruptCacheFallsThrough(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1}}}
	ms := &mockKVStore{}
	ce := New(inner, ms, "searchapi:", time.Hour, nil, zap.NewNop())

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return []byte{1, 2, 3}, nil // not a multiple of 4
	}

	result, err := ce.Embed(context.Background(), "q")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("corrupt cache entry should fall through to inner embedder")
	}
	if len(result.Embedding) != 1 {
		t.Errorf("embedding = %v", result.Embedding)
	}
}

func TestEmbed_InnerError(t *testing.T) {
	inner := &mockEmbedder{err: domain.ErrEmbeddingUnavailable}
	ce := New(inner, &mockKVStore{}, "searchapi:", time.Hour, nil, zap.NewNop())

	_, err := ce.Embed(context.Background(), "q")
	if !errors.Is(err, domain.ErrEmbeddingUnavailable) {
		t.Errorf("err = %v, want ErrEmbeddingUnavailable", err)
	}
}

func TestCacheKey_Deterministic(t *testing.T) {
	ce := New(&mockEmbedder{}, &mockKVStore{}, "searchapi:", time.Hour, nil, zap.NewNop())
	if ce.cacheKey("a") != ce.cacheKey("a") {
		t.Error("same text must map to the same key")
	}
	if ce.cacheKey("a") == ce.cacheKey("b") {
		t.Error("different texts must map to different keys")
	}
}
