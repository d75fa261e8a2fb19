package benchmark

import (
	"context"
	"fmt"
	"testing"

	"github.com/ludmilasolutions/productos/internal/catalog"
	"github.com/ludmilasolutions/productos/internal/config"
	"github.com/ludmilasolutions/productos/internal/index"
	"github.com/ludmilasolutions/productos/internal/models"
	"github.com/ludmilasolutions/productos/internal/normalize"
	"github.com/ludmilasolutions/productos/internal/scoring"
	"github.com/ludmilasolutions/productos/internal/search"
)

type memorySource struct {
	items []models.CatalogItem
}

func (s *memorySource) Fetch(ctx context.Context) ([]models.CatalogItem, []byte, error) {
	return s.items, nil, nil
}

func strPtr(s string) *string { return &s }

var descriptions = []string{
	"Martillo de uña %d mm",
	"Tornillo galvanizado 3x%d",
	"Pintura látex interior %d litros",
	"Taladro percutor %d mm",
	"Llave combinada %d mm",
	"Clavo punta paris %d mm",
}

var categories = []string{"HERRAMIENTAS", "BULONERIA", "PINTURAS", "FERRETERIA"}

func syntheticRecords(n int) []models.CatalogItem {
	records := make([]models.CatalogItem, n)
	for i := range records {
		records[i] = models.CatalogItem{
			Codigo:      strPtr(fmt.Sprintf("B%05d", i)),
			Descripcion: strPtr(fmt.Sprintf(descriptions[i%len(descriptions)], 10+i%40)),
			Rubro:       categories[i%len(categories)],
			PrecioVenta: float64(100 + i),
		}
	}
	return records
}

func benchEngine(b *testing.B, n int) *search.Engine {
	b.Helper()
	cfg := &config.SearchConfig{MaxResults: 200, CacheSize: 50, PageSize: 20}
	engine := search.NewEngine(&memorySource{items: syntheticRecords(n)}, catalog.NewLoader(), scoring.NewScorer(nil), cfg)
	if err := engine.Reload(context.Background()); err != nil {
		b.Fatal(err)
	}
	return engine
}

func BenchmarkReload(b *testing.B) {
	cfg := &config.SearchConfig{MaxResults: 200, CacheSize: 50, PageSize: 20}
	engine := search.NewEngine(&memorySource{items: syntheticRecords(4000)}, catalog.NewLoader(), scoring.NewScorer(nil), cfg)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := engine.Reload(ctx); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSearch_ColdCache(b *testing.B) {
	engine := benchEngine(b, 4000)
	queries := []*models.SearchQuery{
		{Query: "martillo"},
		{Query: "tornillo galvanizado"},
		{Query: "pintura latex"},
		{Query: "taladro", Category: "HERRAMIENTAS"},
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// A reload every iteration would dominate; vary the query text so
		// each search misses the bounded cache instead.
		q := *queries[i%len(queries)]
		q.Query = fmt.Sprintf("%s %d", q.Query, 10+i%40)
		_ = engine.Search(&q)
	}
}

func BenchmarkSearch_WarmCache(b *testing.B) {
	engine := benchEngine(b, 4000)
	q := &models.SearchQuery{Query: "martillo"}
	_ = engine.Search(q)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = engine.Search(q)
	}
}

func BenchmarkIndexBuild(b *testing.B) {
	records := syntheticRecords(4000)
	items := make([]*models.Item, 0, len(records))
	for i := range records {
		item, err := normalize.Record(&records[i])
		if err != nil {
			b.Fatal(err)
		}
		items = append(items, item)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = index.Build(items)
	}
}

func BenchmarkNormalizeRecord(b *testing.B) {
	records := syntheticRecords(1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = normalize.Record(&records[0])
	}
}
