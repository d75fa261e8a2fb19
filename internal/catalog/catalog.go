// Package catalog holds the loaded item collection and the batched,
// cooperatively-yielding ingestion pipeline that fills it.
package catalog

import (
	"github.com/ludmilasolutions/productos/internal/models"
)

// Catalog is an ordered, position-addressed collection of normalized items.
// Positions are stable for the lifetime of one load cycle and are what the
// inverted index references. A reload produces a whole new Catalog; an
// existing one is never mutated after Load returns it.
type Catalog struct {
	items   []*models.Item
	dropped int
}

// Items returns the ordered items. The slice is owned by the catalog.
func (c *Catalog) Items() []*models.Item { return c.items }

// At returns the item at position pos, or nil when pos is out of range.
func (c *Catalog) At(pos int) *models.Item {
	if pos < 0 || pos >= len(c.items) {
		return nil
	}
	return c.items[pos]
}

// Len returns the number of items.
func (c *Catalog) Len() int { return len(c.items) }

// Dropped returns how many raw records were discarded during normalization.
func (c *Catalog) Dropped() int { return c.dropped }
