package window

import (
	"fmt"
	"testing"

	"github.com/ludmilasolutions/productos/internal/models"
)

func ranked(n int) []models.ScoredResult {
	results := make([]models.ScoredResult, n)
	for i := range results {
		results[i] = models.ScoredResult{
			Item:  &models.Item{Code: fmt.Sprintf("C%d", i)},
			Score: float64(n - i),
		}
	}
	return results
}

func TestWindow_Paging(t *testing.T) {
	w := New(2)
	w.Reset(ranked(5))

	if !w.HasMore() {
		t.Fatal("HasMore() = false after Reset with results")
	}

	page := w.NextPage()
	if len(page) != 2 || page[0].Item.Code != "C0" || page[1].Item.Code != "C1" {
		t.Fatalf("page 1 = %v", codes(page))
	}
	page = w.NextPage()
	if len(page) != 2 || page[0].Item.Code != "C2" {
		t.Fatalf("page 2 = %v", codes(page))
	}
	if !w.HasMore() {
		t.Fatal("HasMore() = false with one result remaining")
	}

	page = w.NextPage()
	if len(page) != 1 || page[0].Item.Code != "C4" {
		t.Fatalf("final page = %v", codes(page))
	}
	if w.HasMore() {
		t.Error("HasMore() = true after final page")
	}
	if got := w.NextPage(); len(got) != 0 {
		t.Errorf("NextPage() past end = %v, want empty", codes(got))
	}
	if w.Offset() != 5 {
		t.Errorf("Offset() = %d, want 5", w.Offset())
	}
}

func TestWindow_ExactMultiple(t *testing.T) {
	w := New(2)
	w.Reset(ranked(4))

	w.NextPage()
	w.NextPage()
	if w.HasMore() {
		t.Error("HasMore() = true after consuming an exact multiple of the page size")
	}
	if got := w.NextPage(); got != nil {
		t.Errorf("NextPage() = %v, want nil", codes(got))
	}
}

func TestWindow_SinglePartialPage(t *testing.T) {
	w := New(10)
	w.Reset(ranked(3))

	page := w.NextPage()
	if len(page) != 3 {
		t.Fatalf("page len = %d, want 3", len(page))
	}
	if w.HasMore() {
		t.Error("HasMore() = true after the only page")
	}
}

func TestWindow_ResetRewinds(t *testing.T) {
	w := New(2)
	w.Reset(ranked(5))
	w.NextPage()
	w.NextPage()

	w.Reset(ranked(3))
	if w.Offset() != 0 {
		t.Errorf("Offset() after Reset = %d, want 0", w.Offset())
	}
	page := w.NextPage()
	if len(page) != 2 || page[0].Item.Code != "C0" {
		t.Errorf("first page after Reset = %v", codes(page))
	}
}

func TestWindow_EmptyResults(t *testing.T) {
	w := New(2)
	w.Reset(nil)

	if w.HasMore() {
		t.Error("HasMore() = true on empty window")
	}
	if got := w.NextPage(); got != nil {
		t.Errorf("NextPage() = %v, want nil", codes(got))
	}
	if w.Len() != 0 {
		t.Errorf("Len() = %d, want 0", w.Len())
	}
}

func TestWindow_DefaultPageSize(t *testing.T) {
	for _, size := range []int{0, -3} {
		if got := New(size).PageSize(); got != DefaultPageSize {
			t.Errorf("New(%d).PageSize() = %d, want %d", size, got, DefaultPageSize)
		}
	}
}

func codes(results []models.ScoredResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Item.Code
	}
	return out
}
