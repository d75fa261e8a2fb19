// Package search provides the catalog query engine: AND-resolution over the
// inverted index, weighted scoring, result caching, and atomic reloads.
package search

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/ludmilasolutions/productos/internal/catalog"
	"github.com/ludmilasolutions/productos/internal/config"
	"github.com/ludmilasolutions/productos/internal/index"
	"github.com/ludmilasolutions/productos/internal/models"
	"github.com/ludmilasolutions/productos/internal/normalize"
	"github.com/ludmilasolutions/productos/internal/scoring"
	"github.com/ludmilasolutions/productos/internal/source"
	"github.com/ludmilasolutions/productos/internal/storage"
)

// cacheKeySep joins the verbatim query text and category filter into one
// cache key. Neither side is normalized first.
const cacheKeySep = "\x1f"

// snapshot is one immutable load cycle: catalog, index, and lookup tables
// built together, swapped together, discarded together.
type snapshot struct {
	catalog    *catalog.Catalog
	index      *index.Index
	byCode     map[string]*models.Item
	generation string
	loadedAt   time.Time
	stale      bool
}

// Engine resolves free-text queries against the current catalog snapshot.
// Reload builds a complete replacement snapshot off to the side and swaps it
// in together with a fresh query cache; a failed reload leaves the previous
// snapshot queryable.
type Engine struct {
	src    source.Source
	loader *catalog.Loader
	scorer *scoring.Scorer
	cfg    *config.SearchConfig

	store      *storage.SnapshotStore // optional stale-copy fallback
	sourceName string
	logger     *zap.Logger // optional

	mu    sync.RWMutex
	snap  *snapshot
	cache *queryCache

	sf singleflight.Group
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets a logger for reload and query debug output.
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// WithSnapshotStore enables the stale-copy fallback: successful fetches are
// persisted under sourceName and replayed when a later fetch fails.
func WithSnapshotStore(store *storage.SnapshotStore, sourceName string) EngineOption {
	return func(e *Engine) {
		e.store = store
		e.sourceName = sourceName
	}
}

// NewEngine creates an engine with the given dependencies. The engine is
// empty (all queries return zero results) until the first successful Reload.
func NewEngine(src source.Source, loader *catalog.Loader, scorer *scoring.Scorer, cfg *config.SearchConfig, opts ...EngineOption) *Engine {
	e := &Engine{
		src:    src,
		loader: loader,
		scorer: scorer,
		cfg:    cfg,
		cache:  newQueryCache(cfg.CacheSize),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reload fetches, normalizes, and indexes the catalog, then atomically swaps
// the snapshot and discards the query cache. On fetch failure it falls back
// to the stored snapshot payload when one exists; otherwise the error is
// returned and prior state is untouched.
func (e *Engine) Reload(ctx context.Context) error {
	start := time.Now()

	raw, payload, err := e.src.Fetch(ctx)
	stale := false
	if err != nil {
		raw, stale = e.loadFallback(ctx, err)
		if !stale {
			return err
		}
	}

	cat := e.loader.Load(raw)
	ix := index.Build(cat.Items())
	byCode := make(map[string]*models.Item, cat.Len())
	for _, item := range cat.Items() {
		byCode[item.Code] = item
	}
	snap := &snapshot{
		catalog:    cat,
		index:      ix,
		byCode:     byCode,
		generation: uuid.New().String(),
		loadedAt:   time.Now(),
		stale:      stale,
	}

	e.mu.Lock()
	e.snap = snap
	e.cache = newQueryCache(e.cfg.CacheSize)
	e.mu.Unlock()

	if !stale && e.store != nil {
		if serr := e.store.Save(ctx, e.sourceName, snap.generation, payload); serr != nil && e.logger != nil {
			e.logger.Warn("snapshot save failed", zap.Error(serr))
		}
	}
	if e.logger != nil {
		e.logger.Info("catalog loaded",
			zap.String("generation", snap.generation),
			zap.Int("items", cat.Len()),
			zap.Int("dropped", cat.Dropped()),
			zap.Int("terms", ix.Terms()),
			zap.Int("categories", len(ix.Categories())),
			zap.Bool("stale", stale),
			zap.Duration("took", time.Since(start)),
		)
	}
	return nil
}

// loadFallback tries the persisted snapshot payload after a fetch failure.
func (e *Engine) loadFallback(ctx context.Context, fetchErr error) ([]models.CatalogItem, bool) {
	if e.store == nil {
		return nil, false
	}
	payload, fetchedAt, err := e.store.Load(ctx, e.sourceName)
	if err != nil {
		return nil, false
	}
	raw, err := source.Decode(payload)
	if err != nil {
		return nil, false
	}
	if e.logger != nil {
		e.logger.Warn("catalog fetch failed, serving stale snapshot",
			zap.Error(fetchErr),
			zap.Time("fetched_at", fetchedAt),
		)
	}
	return raw, true
}

// current returns the active snapshot and cache as a consistent pair.
func (e *Engine) current() (*snapshot, *queryCache) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap, e.cache
}

// Search resolves the query against the current snapshot. It never returns
// an error: an empty or unloaded catalog and unmatched queries all yield an
// empty result list.
func (e *Engine) Search(q *models.SearchQuery) *models.SearchResponse {
	start := time.Now()
	req := *q
	req.Validate()

	resp := &models.SearchResponse{
		Results:  []models.ScoredResult{},
		Query:    q.Query,
		Category: q.Category,
		Sort:     req.Sort,
	}

	snap, cache := e.current()
	if snap == nil {
		resp.QueryTime = time.Since(start).Milliseconds()
		return resp
	}

	words := QueryWords(q.Query)
	if len(words) == 0 {
		resp.QueryTime = time.Since(start).Milliseconds()
		return resp
	}

	key := q.Query + cacheKeySep + q.Category
	ranked, hit := cache.get(key)
	if hit {
		resp.CacheHit = true
	} else {
		v, _, _ := e.sf.Do(key, func() (interface{}, error) {
			if r, ok := cache.get(key); ok {
				return r, nil
			}
			r := e.resolve(snap, words, q.Category)
			cache.set(key, r)
			return r, nil
		})
		ranked = v.([]models.ScoredResult)
	}

	view := SortResults(ranked, req.Sort)
	resp.Total = len(view)
	resp.Results = page(view, req.Offset, req.Limit)
	resp.QueryTime = time.Since(start).Milliseconds()

	if e.logger != nil {
		e.logger.Debug("search",
			zap.String("query", q.Query),
			zap.String("category", q.Category),
			zap.Int("results", resp.Total),
			zap.Bool("cache_hit", resp.CacheHit),
		)
	}
	return resp
}

// resolve intersects posting lists (AND semantics), scores candidates, drops
// sub-threshold hits, and returns the capped, score-ordered list.
func (e *Engine) resolve(snap *snapshot, words []string, categoryFilter string) []models.ScoredResult {
	positions := snap.index.Intersect(words)
	if len(positions) == 0 {
		return []models.ScoredResult{}
	}

	results := make([]models.ScoredResult, 0, len(positions))
	for _, pos := range positions {
		item := snap.catalog.At(pos)
		score := e.scorer.Score(item, words, categoryFilter)
		if score < e.scorer.MinScore() {
			continue
		}
		results = append(results, models.ScoredResult{Item: item, Score: score})
	}

	// Stable keeps candidate enumeration order for ties.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if max := e.cfg.MaxResults; max > 0 && len(results) > max {
		results = results[:max]
	}
	return results
}

// QueryWords normalizes query text the same way as item search text and
// returns its unique words of indexable length.
func QueryWords(query string) []string {
	return index.Tokenize(normalize.SearchText(query))
}

// SortResults returns a copy of ranked ordered by mode. Relevance preserves
// the incoming (score) order; price sorts are stable re-sorts of it.
func SortResults(ranked []models.ScoredResult, mode string) []models.ScoredResult {
	out := make([]models.ScoredResult, len(ranked))
	copy(out, ranked)
	switch mode {
	case models.SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Item.Price < out[j].Item.Price })
	case models.SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Item.Price > out[j].Item.Price })
	}
	return out
}

func page(results []models.ScoredResult, offset, limit int) []models.ScoredResult {
	if offset > len(results) {
		offset = len(results)
	}
	end := len(results)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return results[offset:end]
}

// ItemByCode returns the item with the given code from the current snapshot.
func (e *Engine) ItemByCode(code string) (*models.Item, bool) {
	snap, _ := e.current()
	if snap == nil {
		return nil, false
	}
	item, ok := snap.byCode[code]
	return item, ok
}

// Categories returns the current snapshot's distinct categories.
func (e *Engine) Categories() []string {
	snap, _ := e.current()
	if snap == nil {
		return nil
	}
	return snap.index.Categories()
}

// Status describes the current snapshot for status reporting.
type Status struct {
	Loaded     bool      `json:"loaded"`
	Generation string    `json:"generation,omitempty"`
	LoadedAt   time.Time `json:"loaded_at,omitempty"`
	Items      int       `json:"items"`
	Dropped    int       `json:"dropped"`
	Terms      int       `json:"terms"`
	Categories int       `json:"categories"`
	CachedKeys int       `json:"cached_queries"`
	Stale      bool      `json:"stale,omitempty"`
}

// Status reports the engine's current snapshot and cache state.
func (e *Engine) Status() Status {
	snap, cache := e.current()
	if snap == nil {
		return Status{}
	}
	return Status{
		Loaded:     true,
		Generation: snap.generation,
		LoadedAt:   snap.loadedAt,
		Items:      snap.catalog.Len(),
		Dropped:    snap.catalog.Dropped(),
		Terms:      snap.index.Terms(),
		Categories: len(snap.index.Categories()),
		CachedKeys: cache.len(),
		Stale:      snap.stale,
	}
}
