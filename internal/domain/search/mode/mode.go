package mode

// Mode is the retrieval strategy for a search request.
type Mode string

// Search mode constants.
const (
	// KeywordOnly runs a lexical bool query with server-side pagination.
	KeywordOnly Mode = "keyword_only"
	// VectorMultiField runs similarity search across weighted vector fields.
	VectorMultiField Mode = "vector_multi_field"
	// HybridRRF fuses lexical and vector rankings via reciprocal rank fusion.
	HybridRRF Mode = "hybrid_rrf"
)

// All lists every declared mode. The strategy table is checked against this
// list at startup, so adding a mode here without a handler fails fast.
func All() []Mode {
	return []Mode{KeywordOnly, VectorMultiField, HybridRRF}
}

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == KeywordOnly || m == VectorMultiField || m == HybridRRF
}
