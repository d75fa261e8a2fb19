package session

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/ludmilasolutions/productos/internal/catalog"
	"github.com/ludmilasolutions/productos/internal/config"
	"github.com/ludmilasolutions/productos/internal/models"
	"github.com/ludmilasolutions/productos/internal/scoring"
	"github.com/ludmilasolutions/productos/internal/search"
	"github.com/ludmilasolutions/productos/internal/window"
)

type stubSource struct {
	items []models.CatalogItem
}

func (s *stubSource) Fetch(ctx context.Context) ([]models.CatalogItem, []byte, error) {
	payload, err := json.Marshal(s.items)
	return s.items, payload, err
}

// recordingRenderer captures delivered pages.
type recordingRenderer struct {
	mu    sync.Mutex
	pages [][]string // codes per PageReady call
	more  []bool
	hook  func() // optional, runs inside PageReady
}

func (r *recordingRenderer) UpdateSlot(slot *window.Slot, result models.ScoredResult) {
	slot.Payload = result.Item.Code
}

func (r *recordingRenderer) PageReady(slots []*window.Slot, hasMore bool) {
	codes := make([]string, len(slots))
	for i, s := range slots {
		codes[i] = s.Payload.(string)
	}
	r.mu.Lock()
	r.pages = append(r.pages, codes)
	r.more = append(r.more, hasMore)
	r.mu.Unlock()
	if r.hook != nil {
		r.hook()
	}
}

func (r *recordingRenderer) snapshot() ([][]string, []bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pages := make([][]string, len(r.pages))
	copy(pages, r.pages)
	more := make([]bool, len(r.more))
	copy(more, r.more)
	return pages, more
}

func strPtr(s string) *string { return &s }

func testEngine(t *testing.T) *search.Engine {
	t.Helper()
	records := []models.CatalogItem{
		{Codigo: strPtr("100"), Descripcion: strPtr("Martillo de uña"), Rubro: "HERRAMIENTAS", PrecioVenta: 1500.0},
		{Codigo: strPtr("200"), Descripcion: strPtr("Martillo de goma"), Rubro: "HERRAMIENTAS", PrecioVenta: 900.0},
		{Codigo: strPtr("300"), Descripcion: strPtr("Martillo carpintero"), Rubro: "PINTURAS", PrecioVenta: 2000.0},
		{Codigo: strPtr("400"), Descripcion: strPtr("Pintura látex"), Rubro: "PINTURAS", PrecioVenta: 32000.0},
	}
	cfg := &config.SearchConfig{MaxResults: 200, CacheSize: 10, PageSize: 20}
	engine := search.NewEngine(&stubSource{items: records}, catalog.NewLoader(), scoring.NewScorer(nil), cfg)
	if err := engine.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	return engine
}

func TestSession_ImmediateSearch(t *testing.T) {
	renderer := &recordingRenderer{}
	s := New(testEngine(t), renderer, 2, 0) // no debounce: synchronous
	defer s.Close()

	s.SetQueryText("martillo")

	pages, more := renderer.snapshot()
	if len(pages) != 1 {
		t.Fatalf("PageReady calls = %d, want 1", len(pages))
	}
	if len(pages[0]) != 2 {
		t.Errorf("first page = %v, want 2 results", pages[0])
	}
	if !more[0] {
		t.Error("hasMore = false with a third result pending")
	}
}

func TestSession_DebounceCollapsesBurst(t *testing.T) {
	renderer := &recordingRenderer{}
	s := New(testEngine(t), renderer, 10, 20*time.Millisecond)
	defer s.Close()

	s.SetQueryText("mar")
	s.SetQueryText("marti")
	s.SetQueryText("martillo")

	time.Sleep(150 * time.Millisecond)

	pages, _ := renderer.snapshot()
	if len(pages) != 1 {
		t.Fatalf("PageReady calls = %d, want 1 (burst should collapse)", len(pages))
	}
	if len(pages[0]) != 3 {
		t.Errorf("page = %v, want the 3 results for the final text", pages[0])
	}
}

func TestSession_SetCategoryRequeriesImmediately(t *testing.T) {
	renderer := &recordingRenderer{}
	s := New(testEngine(t), renderer, 10, 0)
	defer s.Close()

	s.SetQueryText("martillo")
	s.SetCategory("PINTURAS")

	pages, _ := renderer.snapshot()
	if len(pages) != 2 {
		t.Fatalf("PageReady calls = %d, want 2", len(pages))
	}
	if len(pages[1]) != 1 || pages[1][0] != "300" {
		t.Errorf("filtered page = %v, want [300]", pages[1])
	}
}

func TestSession_SetSortReordersWithoutRequery(t *testing.T) {
	renderer := &recordingRenderer{}
	engine := testEngine(t)
	s := New(engine, renderer, 10, 0)
	defer s.Close()

	s.SetQueryText("martillo")
	s.SetSort(models.SortPriceAsc)

	pages, _ := renderer.snapshot()
	if len(pages) != 2 {
		t.Fatalf("PageReady calls = %d, want 2", len(pages))
	}
	want := []string{"200", "100", "300"} // 900, 1500, 2000
	for i, code := range want {
		if pages[1][i] != code {
			t.Errorf("sorted page[%d] = %s, want %s", i, pages[1][i], code)
		}
	}
}

func TestSession_NextPageWalksWindow(t *testing.T) {
	renderer := &recordingRenderer{}
	s := New(testEngine(t), renderer, 2, 0)
	defer s.Close()

	s.SetQueryText("martillo") // 3 results, first page of 2 delivered
	s.NextPage()

	pages, more := renderer.snapshot()
	if len(pages) != 2 {
		t.Fatalf("PageReady calls = %d, want 2", len(pages))
	}
	if len(pages[1]) != 1 {
		t.Errorf("second page = %v, want 1 result", pages[1])
	}
	if more[1] {
		t.Error("hasMore = true after final page")
	}

	s.NextPage() // exhausted: dropped
	pages, _ = renderer.snapshot()
	if len(pages) != 2 {
		t.Errorf("PageReady calls after exhausted NextPage = %d, want 2", len(pages))
	}
}

func TestSession_NextPageDroppedWhileLoading(t *testing.T) {
	renderer := &recordingRenderer{}
	s := New(testEngine(t), renderer, 1, 0)
	defer s.Close()

	s.SetQueryText("martillo")

	// A page request arriving while the previous delivery is still in flight
	// is dropped, not queued.
	reentered := false
	renderer.hook = func() {
		if !reentered {
			reentered = true
			s.NextPage()
		}
	}
	s.NextPage()

	pages, _ := renderer.snapshot()
	if len(pages) != 2 {
		t.Errorf("PageReady calls = %d, want 2 (initial page + one NextPage)", len(pages))
	}
}

// Exercises debounced deliveries landing on timer goroutines while the
// consumer pages concurrently. Run with -race: slot recycling and window
// paging must stay serialized across both paths.
func TestSession_ConcurrentTypingAndPaging(t *testing.T) {
	renderer := &recordingRenderer{}
	s := New(testEngine(t), renderer, 1, 2*time.Millisecond)
	defer s.Close()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 40; i++ {
			s.SetQueryText("martillo")
			time.Sleep(time.Millisecond)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 400; i++ {
			s.NextPage()
		}
	}()
	wg.Wait()
	time.Sleep(50 * time.Millisecond)

	pages, _ := renderer.snapshot()
	if len(pages) == 0 {
		t.Fatal("no pages delivered")
	}
	for i, page := range pages {
		if len(page) > 1 {
			t.Errorf("page[%d] = %v, want at most one result per page", i, page)
		}
	}
}

func TestDebouncer_Collapse(t *testing.T) {
	db := NewDebouncer(15 * time.Millisecond)
	defer db.Stop()

	var mu sync.Mutex
	calls := 0
	for i := 0; i < 5; i++ {
		db.Trigger(func() {
			mu.Lock()
			calls++
			mu.Unlock()
		})
	}
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDebouncer_StopCancels(t *testing.T) {
	db := NewDebouncer(15 * time.Millisecond)

	fired := make(chan struct{}, 1)
	db.Trigger(func() { fired <- struct{}{} })
	db.Stop()

	select {
	case <-fired:
		t.Error("stopped debouncer still fired")
	case <-time.After(80 * time.Millisecond):
	}
}

func TestDebouncer_Synchronous(t *testing.T) {
	db := NewDebouncer(0)
	called := false
	db.Trigger(func() { called = true })
	if !called {
		t.Error("zero-window Trigger did not invoke synchronously")
	}
}
