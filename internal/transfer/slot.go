package transfer

import (
	"github.com/pixil98/go-satchel/internal/inventory"
	"github.com/pixil98/go-satchel/internal/items"
)

// SlotEndpoint adapts one slot of an inventory store.
type SlotEndpoint struct {
	store *inventory.Store
	index int
}

var _ Endpoint = SlotEndpoint{}

// NewSlotEndpoint returns an endpoint for slot index of store. Endpoints for
// the same store and index compare equal.
func NewSlotEndpoint(store *inventory.Store, index int) SlotEndpoint {
	return SlotEndpoint{store: store, index: index}
}

func (e SlotEndpoint) occupant() *items.Stack {
	if e.store == nil {
		return nil
	}
	return e.store.At(e.index)
}

func (e SlotEndpoint) Payload() Payload {
	return From(e.occupant(), e.store)
}

func (e SlotEndpoint) Count() int {
	if rec := e.occupant(); rec != nil {
		return rec.Quantity
	}
	return 0
}

// MaxAcceptable returns the free space of a matching stack, 0 for a matching
// non-stackable record, and Unbounded for an empty slot or a different item.
func (e SlotEndpoint) MaxAcceptable(p Payload) int {
	switch p.Kind() {
	case KindEmpty:
		return 0
	case KindStack:
		cur := e.occupant()
		if cur == nil || cur.ItemID != p.Stack().ItemID {
			return Unbounded
		}
		if !cur.Stackable {
			return 0
		}
		return cur.Space()
	}
	return 0
}

// Add tops up a matching stack, or replaces the occupant. A whole record
// already removed from this store is placed as-is; anything else is copied.
func (e SlotEndpoint) Add(p Payload, count int) {
	if e.store == nil || p.IsEmpty() || count <= 0 {
		return
	}
	rec := p.Stack()

	if cur := e.occupant(); cur != nil && cur.ItemID == rec.ItemID && cur.Stackable {
		cur.Quantity = min(cur.Quantity+count, cur.EffectiveMaxStack())
		e.store.UpdateSlot(e.index, cur)
		return
	}

	if p.Source() == any(e.store) && count == rec.Quantity && e.store.IndexOf(rec) < 0 {
		e.store.UpdateSlot(e.index, rec)
		return
	}

	e.store.UpdateSlot(e.index, rec.Clone(min(count, rec.EffectiveMaxStack())))
}

func (e SlotEndpoint) Remove(count int) {
	if e.store == nil {
		return
	}
	e.store.RemoveAt(e.index, count)
}
