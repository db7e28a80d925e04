package result

import "testing"

func TestWithScore(t *testing.T) {
	h := New("p1", 0.5, map[string]any{"name": "cola"})
	h2 := h.WithScore(0.9)
	if h.Score() != 0.5 {
		t.Errorf("original hit mutated: score = %v", h.Score())
	}
	if h2.Score() != 0.9 || h2.ID() != "p1" {
		t.Errorf("copy = (%s, %v), want (p1, 0.9)", h2.ID(), h2.Score())
	}
}

func TestNewResponse_TotalPages(t *testing.T) {
	tests := []struct {
		total int64
		size  int
		want  int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{100, 20, 5},
		{5, 0, 0},
	}
	for _, tt := range tests {
		resp := NewResponse(nil, tt.total, nil, 0, tt.size, 0, "")
		if resp.Meta.TotalPages != tt.want {
			t.Errorf("total=%d size=%d: totalPages = %d, want %d",
				tt.total, tt.size, resp.Meta.TotalPages, tt.want)
		}
	}
}

func TestNewResponse_NeverNilAggregations(t *testing.T) {
	resp := NewResponse(nil, 0, nil, 0, 20, 0, "")
	if resp.Aggregations == nil {
		t.Fatal("aggregations must not be nil")
	}
	if resp.Hits.Data == nil {
		t.Fatal("hit data must not be nil")
	}
}

func TestNewResponse_ExplainEcho(t *testing.T) {
	resp := NewResponse(nil, 0, nil, 0, 20, 0, `{"query":{"match_all":{}}}`)
	if resp.QueryDSL == "" {
		t.Error("queryDsl should be echoed when provided")
	}
}
