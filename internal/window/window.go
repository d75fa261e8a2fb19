// Package window delivers ranked results in fixed-size pages and recycles
// display-slot handles across renders.
package window

import "github.com/ludmilasolutions/productos/internal/models"

// Window exposes a ranked result list as successive fixed-size pages. It is
// rebuilt (via Reset) on every new query or filter/sort change and mutated
// only through Reset and NextPage.
type Window struct {
	results  []models.ScoredResult
	offset   int
	hasMore  bool
	pageSize int
}

// DefaultPageSize is used when a Window is created with a non-positive size.
const DefaultPageSize = 20

// New creates a window with the given page size.
func New(pageSize int) *Window {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Window{pageSize: pageSize}
}

// Reset replaces the window contents, rewinds the offset, and recomputes
// hasMore. The results slice is referenced, not copied; callers hand over
// ownership.
func (w *Window) Reset(results []models.ScoredResult) {
	w.results = results
	w.offset = 0
	w.hasMore = len(results) > 0
}

// NextPage returns the next page slice and advances the offset. When the
// window is exhausted it is a no-op returning an empty page.
func (w *Window) NextPage() []models.ScoredResult {
	if !w.hasMore {
		return nil
	}
	end := w.offset + w.pageSize
	if end > len(w.results) {
		end = len(w.results)
	}
	page := w.results[w.offset:end]
	w.offset = end
	w.hasMore = end < len(w.results)
	return page
}

// HasMore reports whether NextPage would return a non-empty page.
func (w *Window) HasMore() bool { return w.hasMore }

// Offset returns the next unread position. It never exceeds Len.
func (w *Window) Offset() int { return w.offset }

// Len returns the total number of results in the window.
func (w *Window) Len() int { return len(w.results) }

// PageSize returns the fixed page size.
func (w *Window) PageSize() int { return w.pageSize }
