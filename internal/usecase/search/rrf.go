package search

import (
	"sort"

	"github.com/shopkit/searchapi/internal/domain/search/result"
)

// rrfK is the Reciprocal Rank Fusion constant (standard value from Cormack et al. 2009).
const rrfK = 60

// fuseRRF merges the lexical and vector rankings.
// score(d) = sum of 1/(k + rank_i(d) + 1) over the rankings where d appears,
// rank zero-based. Equal fused scores break toward the higher lexical score,
// then document ID for a stable order.
func fuseRRF(lexical, vector []result.Hit) []result.Hit {
	type scored struct {
		hit      result.Hit
		score    float64
		lexScore float64
	}

	merged := make(map[string]*scored, len(lexical)+len(vector))

	for rank := range lexical {
		h := lexical[rank]
		merged[h.ID()] = &scored{
			hit:      h,
			score:    1.0 / float64(rrfK+rank+1),
			lexScore: h.Score(),
		}
	}

	for rank := range vector {
		h := vector[rank]
		contribution := 1.0 / float64(rrfK+rank+1)
		if existing, ok := merged[h.ID()]; ok {
			existing.score += contribution
		} else {
			merged[h.ID()] = &scored{hit: h, score: contribution}
		}
	}

	fused := make([]*scored, 0, len(merged))
	for _, s := range merged {
		fused = append(fused, s)
	}
	sort.Slice(fused, func(i, j int) bool {
		if fused[i].score != fused[j].score {
			return fused[i].score > fused[j].score
		}
		if fused[i].lexScore != fused[j].lexScore {
			return fused[i].lexScore > fused[j].lexScore
		}
		return fused[i].hit.ID() < fused[j].hit.ID()
	})

	hits := make([]result.Hit, 0, len(fused))
	for _, s := range fused {
		hits = append(hits, s.hit.WithScore(s.score))
	}
	return hits
}
