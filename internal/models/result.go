package models

// ScoredResult is a single ranked hit. Scores are normalized to roughly
// [0,1] and are recomputed on every catalog load, never carried across.
type ScoredResult struct {
	Item  *Item   `json:"item"`
	Score float64 `json:"score"`
}

// SearchResponse is the response for a search request.
type SearchResponse struct {
	Results   []ScoredResult `json:"results"`
	Total     int            `json:"total"`
	Query     string         `json:"query"`
	Category  string         `json:"category,omitempty"`
	Sort      string         `json:"sort"`
	QueryTime int64          `json:"query_time_ms"`
	CacheHit  bool           `json:"cache_hit,omitempty"`
}
