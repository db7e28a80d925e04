package result

// HitData is the wire form of a single hit.
type HitData struct {
	ID     string         `json:"id"`
	Score  float64        `json:"score"`
	Source map[string]any `json:"source"`
}

// Hits carries the total matching count and the page of hit data.
type Hits struct {
	Total int64     `json:"total"`
	Data  []HitData `json:"data"`
}

// Meta is the paging and timing metadata of a response.
type Meta struct {
	Page             int   `json:"page"`
	Size             int   `json:"size"`
	TotalPages       int   `json:"totalPages"`
	ProcessingTimeMs int64 `json:"processingTimeMs"`
}

// Response is the uniform search response produced by every strategy.
type Response struct {
	Hits         Hits         `json:"hits"`
	Aggregations Aggregations `json:"aggregations"`
	Meta         Meta         `json:"meta"`
	// QueryDSL echoes the backend request; populated only in explain mode.
	QueryDSL string `json:"queryDsl,omitempty"`
}

// NewResponse assembles the uniform response from strategy output.
func NewResponse(
	hits []Hit, total int64, aggs Aggregations,
	page, size int, processingTimeMs int64, queryDSL string,
) Response {
	data := make([]HitData, 0, len(hits))
	for i := range hits {
		data = append(data, HitData{
			ID:     hits[i].ID(),
			Score:  hits[i].Score(),
			Source: hits[i].Source(),
		})
	}
	if aggs == nil {
		aggs = Aggregations{}
	}
	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}
	return Response{
		Hits:         Hits{Total: total, Data: data},
		Aggregations: aggs,
		Meta: Meta{
			Page:             page,
			Size:             size,
			TotalPages:       totalPages,
			ProcessingTimeMs: processingTimeMs,
		},
		QueryDSL: queryDSL,
	}
}
