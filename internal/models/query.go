package models

// Sort modes for search results. The default is relevance (score order);
// price sorts re-order an already-ranked result list.
const (
	SortRelevance = "relevance"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

// IsValidSort reports whether s is a recognized sort mode.
func IsValidSort(s string) bool {
	switch s {
	case SortRelevance, SortPriceAsc, SortPriceDesc:
		return true
	}
	return false
}

// SearchQuery is a search request: free text plus an optional hard category
// filter and a sort mode.
type SearchQuery struct {
	Query    string `json:"query"`
	Category string `json:"category,omitempty"`
	Sort     string `json:"sort,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}

// Validate applies defaults. An empty query is legal (it yields an empty
// result, not an error), so no error is ever returned for query text.
func (q *SearchQuery) Validate() {
	if q.Sort == "" || !IsValidSort(q.Sort) {
		q.Sort = SortRelevance
	}
	if q.Limit < 0 {
		q.Limit = 0
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
}
