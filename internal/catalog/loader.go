package catalog

import (
	"runtime"

	"go.uber.org/zap"

	"github.com/ludmilasolutions/productos/internal/models"
	"github.com/ludmilasolutions/productos/internal/normalize"
)

const (
	defaultBatchSize  = 1000
	defaultYieldEvery = 1
)

// Loader converts a raw record sequence into a Catalog in contiguous
// batches. Each batch is normalized synchronously; between batches the
// loader yields to the scheduler so a load of several thousand records does
// not monopolize its goroutine's thread. Malformed records are dropped and
// logged, never surfaced.
type Loader struct {
	batchSize  int
	yieldEvery int
	yield      func()
	logger     *zap.Logger // optional; when set, logs dropped records
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets a logger for debug output (dropped records, batch progress).
func WithLogger(l *zap.Logger) LoaderOption {
	return func(ld *Loader) { ld.logger = l }
}

// WithBatchSize sets the number of records normalized per batch.
func WithBatchSize(n int) LoaderOption {
	return func(ld *Loader) {
		if n > 0 {
			ld.batchSize = n
		}
	}
}

// WithYieldEvery sets how many batches run between yield points.
func WithYieldEvery(n int) LoaderOption {
	return func(ld *Loader) {
		if n > 0 {
			ld.yieldEvery = n
		}
	}
}

// WithYieldFunc replaces the yield primitive (default runtime.Gosched).
// Tests use this to observe yield points.
func WithYieldFunc(f func()) LoaderOption {
	return func(ld *Loader) {
		if f != nil {
			ld.yield = f
		}
	}
}

// NewLoader creates a loader with the given options.
func NewLoader(opts ...LoaderOption) *Loader {
	ld := &Loader{
		batchSize:  defaultBatchSize,
		yieldEvery: defaultYieldEvery,
		yield:      runtime.Gosched,
	}
	for _, opt := range opts {
		opt(ld)
	}
	return ld
}

// Load normalizes raw into a fresh Catalog, preserving original relative
// order of accepted records. An in-progress batch always runs to completion.
func (ld *Loader) Load(raw []models.CatalogItem) *Catalog {
	cat := &Catalog{items: make([]*models.Item, 0, len(raw))}
	batches := 0
	for start := 0; start < len(raw); start += ld.batchSize {
		end := start + ld.batchSize
		if end > len(raw) {
			end = len(raw)
		}
		for i := start; i < end; i++ {
			item, err := normalize.Record(&raw[i])
			if err != nil {
				cat.dropped++
				if ld.logger != nil {
					ld.logger.Debug("dropped malformed record", zap.Int("position", i), zap.Error(err))
				}
				continue
			}
			cat.items = append(cat.items, item)
		}
		batches++
		if start+ld.batchSize < len(raw) && batches%ld.yieldEvery == 0 {
			ld.yield()
		}
	}
	if ld.logger != nil {
		ld.logger.Debug("catalog normalized",
			zap.Int("accepted", len(cat.items)),
			zap.Int("dropped", cat.dropped),
			zap.Int("batches", batches))
	}
	return cat
}
