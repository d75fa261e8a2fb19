// Package session wires the query triggers to the engine and the result
// window: debounced text input, discrete category/sort events, and paged
// delivery through recycled display slots.
package session

import (
	"sync"
	"time"

	"github.com/ludmilasolutions/productos/internal/models"
	"github.com/ludmilasolutions/productos/internal/search"
	"github.com/ludmilasolutions/productos/internal/window"
)

// Renderer is the presentation collaborator. UpdateSlot rebinds a recycled
// slot to a result in place and must not call back into the session. PageReady
// is called after each delivered page with the bound slots and whether more
// pages remain; calling NextPage from inside PageReady is allowed and drops.
type Renderer interface {
	UpdateSlot(slot *window.Slot, result models.ScoredResult)
	PageReady(slots []*window.Slot, hasMore bool)
}

// Session owns one consumer's view state: the current query text, category
// filter, sort mode, result window, and slot pool. Rapid text changes
// debounce into a single search using only the last observed text; page
// requests arriving while one is in flight are dropped, not queued.
type Session struct {
	engine   *search.Engine
	renderer Renderer
	debounce *Debouncer

	// renderMu serializes deliveries end to end: window paging, slot
	// recycling, and the PageReady handoff. Slots stay stable for the
	// renderer until the next delivery rebinds them.
	renderMu sync.Mutex

	mu       sync.Mutex
	window   *window.Window
	pool     *window.Pool
	text     string
	category string
	sortMode string
	ranked   []models.ScoredResult
	loading  bool
}

// New creates a session delivering pages of pageSize through renderer.
// debounce is the text settle window (typically a few hundred ms).
func New(engine *search.Engine, renderer Renderer, pageSize int, debounce time.Duration) *Session {
	s := &Session{
		engine:   engine,
		renderer: renderer,
		debounce: NewDebouncer(debounce),
		window:   window.New(pageSize),
		sortMode: models.SortRelevance,
	}
	s.pool = window.NewPool(renderer.UpdateSlot)
	return s
}

// SetQueryText feeds one text-input event. Successive calls within the
// debounce window collapse into a single search on the last text.
func (s *Session) SetQueryText(text string) {
	s.mu.Lock()
	s.text = text
	s.mu.Unlock()
	s.debounce.Trigger(s.runSearch)
}

// SetCategory feeds a discrete category-selection event and re-queries
// immediately.
func (s *Session) SetCategory(category string) {
	s.mu.Lock()
	s.category = category
	s.mu.Unlock()
	s.runSearch()
}

// SetSort re-sorts the already-ranked results without issuing a new query.
// Selecting relevance restores score order.
func (s *Session) SetSort(mode string) {
	if !models.IsValidSort(mode) {
		mode = models.SortRelevance
	}
	s.mu.Lock()
	s.sortMode = mode
	ranked := s.ranked
	s.mu.Unlock()
	s.deliver(search.SortResults(ranked, mode))
}

// NextPage delivers the next page. A request arriving while a prior delivery
// is still in flight is dropped, not queued.
func (s *Session) NextPage() {
	s.mu.Lock()
	if s.loading || !s.window.HasMore() {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.renderMu.Lock()
	defer s.renderMu.Unlock()

	s.mu.Lock()
	if s.loading || !s.window.HasMore() {
		s.mu.Unlock()
		return
	}
	s.loading = true
	page := s.window.NextPage()
	hasMore := s.window.HasMore()
	slots := s.pool.Bind(page)
	s.mu.Unlock()

	s.renderer.PageReady(slots, hasMore)

	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

// Close cancels any pending debounced search.
func (s *Session) Close() {
	s.debounce.Stop()
}

func (s *Session) runSearch() {
	s.mu.Lock()
	q := &models.SearchQuery{Query: s.text, Category: s.category}
	sortMode := s.sortMode
	s.mu.Unlock()

	resp := s.engine.Search(q)

	s.mu.Lock()
	s.ranked = resp.Results
	s.mu.Unlock()
	s.deliver(search.SortResults(resp.Results, sortMode))
}

// deliver resets the window over results, reclaims all slots, and pushes the
// first page. The debouncer delivers from timer goroutines, so a delivery can
// land while the consumer is paging; renderMu keeps the slot recycling and
// the renderer handoff serialized, and the loading flag drops page requests
// that arrive mid-delivery.
func (s *Session) deliver(results []models.ScoredResult) {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()

	s.mu.Lock()
	s.loading = true
	s.window.Reset(results)
	page := s.window.NextPage()
	hasMore := s.window.HasMore()
	s.pool.ReleaseAll()
	slots := s.pool.Bind(page)
	s.mu.Unlock()

	s.renderer.PageReady(slots, hasMore)

	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}
