package search

import (
	"testing"

	"github.com/shopkit/searchapi/internal/domain/search/result"
)

func hit(id string, score float64) result.Hit {
	return result.New(id, score, map[string]any{})
}

func TestFuseRRF_BothListsOutrankSingle(t *testing.T) {
	lexical := []result.Hit{hit("a", 10), hit("b", 8), hit("c", 5)}
	vector := []result.Hit{hit("b", 0.9), hit("d", 0.8)}

	fused := fuseRRF(lexical, vector)

	if len(fused) != 4 {
		t.Fatalf("fused len = %d, want 4", len(fused))
	}
	if fused[0].ID() != "b" {
		t.Errorf("top = %s, want b (present in both rankings)", fused[0].ID())
	}

	// b: 1/62 + 1/61; a: 1/61
	wantTop := 1.0/62 + 1.0/61
	if diff := fused[0].Score() - wantTop; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("top score = %v, want %v", fused[0].Score(), wantTop)
	}
}

func TestFuseRRF_TieBrokenByLexicalScore(t *testing.T) {
	// a at lexical rank 0, d at vector rank 0: identical fused contributions.
	lexical := []result.Hit{hit("a", 10)}
	vector := []result.Hit{hit("d", 0.9)}

	fused := fuseRRF(lexical, vector)

	if len(fused) != 2 {
		t.Fatalf("fused len = %d, want 2", len(fused))
	}
	if fused[0].ID() != "a" {
		t.Errorf("tie should favor the lexical hit, got %s first", fused[0].ID())
	}
}

func TestFuseRRF_EmptyLists(t *testing.T) {
	if got := fuseRRF(nil, nil); len(got) != 0 {
		t.Errorf("fused = %v, want empty", got)
	}

	lexOnly := fuseRRF([]result.Hit{hit("a", 1)}, nil)
	if len(lexOnly) != 1 || lexOnly[0].ID() != "a" {
		t.Errorf("lexical-only fusion = %v", lexOnly)
	}
}

func TestFuseRRF_DeterministicOrder(t *testing.T) {
	lexical := []result.Hit{hit("a", 3), hit("b", 3)}
	first := fuseRRF(lexical, nil)
	for range 10 {
		again := fuseRRF(lexical, nil)
		for i := range first {
			if first[i].ID() != again[i].ID() {
				t.Fatalf("order not deterministic: %v vs %v", first, again)
			}
		}
	}
}
