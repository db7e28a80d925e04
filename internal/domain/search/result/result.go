package result

// Hit is a single scored document from a retrieval strategy.
type Hit struct {
	id     string
	score  float64
	source map[string]any
}

// New creates a search hit.
func New(id string, score float64, source map[string]any) Hit {
	return Hit{id: id, score: score, source: source}
}

// ID returns the document identifier.
func (h *Hit) ID() string { return h.id }

// Score returns the relevance score.
func (h *Hit) Score() float64 { return h.score }

// Source returns the document source fields.
func (h *Hit) Source() map[string]any { return h.source }

// WithScore returns a copy of the hit carrying a different score.
func (h Hit) WithScore(score float64) Hit {
	h.score = score
	return h
}

// Bucket is a single facet aggregation bucket.
type Bucket struct {
	Key      string `json:"key"`
	DocCount int64  `json:"docCount"`
}

// Aggregations maps a facet name to its buckets.
type Aggregations map[string][]Bucket
