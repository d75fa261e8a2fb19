package window

import "github.com/ludmilasolutions/productos/internal/models"

// Slot is an opaque display-slot handle. The rendering collaborator owns its
// Payload; the pool only hands slots out and reclaims them.
type Slot struct {
	// Payload is collaborator-owned display state, reused across bindings.
	Payload any

	id    int
	inUse bool
}

// ID returns the slot's stable identity, assigned at allocation.
func (s *Slot) ID() int { return s.id }

// UpdateFunc rebinds a recycled (or freshly allocated) slot to a result
// in place. Implemented by the rendering collaborator.
type UpdateFunc func(slot *Slot, result models.ScoredResult)

// Pool recycles display slots across renders: previously released handles
// are handed back before any new slot is allocated, and rebinding happens
// in place through the update contract, never by reallocation of a slot
// still in use.
type Pool struct {
	update UpdateFunc
	free   []*Slot
	inUse  []*Slot
	nextID int
}

// NewPool creates a pool that rebinds slots through update.
func NewPool(update UpdateFunc) *Pool {
	return &Pool{update: update}
}

// Bind assigns one slot per result, recycling freed slots first, and returns
// the bound handles in result order.
func (p *Pool) Bind(results []models.ScoredResult) []*Slot {
	bound := make([]*Slot, 0, len(results))
	for _, r := range results {
		slot := p.acquire()
		p.update(slot, r)
		bound = append(bound, slot)
	}
	return bound
}

func (p *Pool) acquire() *Slot {
	var slot *Slot
	if n := len(p.free); n > 0 {
		slot = p.free[n-1]
		p.free = p.free[:n-1]
	} else {
		slot = &Slot{id: p.nextID}
		p.nextID++
	}
	slot.inUse = true
	p.inUse = append(p.inUse, slot)
	return slot
}

// ReleaseAll reclaims every bound slot for reuse. Payloads are kept so the
// collaborator can recycle whatever display state they carry.
func (p *Pool) ReleaseAll() {
	for _, slot := range p.inUse {
		slot.inUse = false
		p.free = append(p.free, slot)
	}
	p.inUse = p.inUse[:0]
}

// InUse returns how many slots are currently bound.
func (p *Pool) InUse() int { return len(p.inUse) }

// Allocated returns how many slots exist in total.
func (p *Pool) Allocated() int { return len(p.free) + len(p.inUse) }
