package inventory

import "github.com/pixil98/go-satchel/internal/items"

// View is a read-only window over a store's slots. Records are returned by
// value, so holders cannot mutate the store through it.
type View struct {
	slots []*items.Stack
}

func (v View) Len() int {
	return len(v.slots)
}

// At returns a copy of the record in slot i and whether the slot is occupied.
func (v View) At(i int) (items.Stack, bool) {
	if i < 0 || i >= len(v.slots) || v.slots[i] == nil {
		return items.Stack{}, false
	}
	return *v.slots[i], true
}

// Occupied counts non-empty slots.
func (v View) Occupied() int {
	n := 0
	for _, s := range v.slots {
		if s != nil {
			n++
		}
	}
	return n
}

// Each calls fn for every slot in order. ok is false for empty slots.
func (v View) Each(fn func(i int, rec items.Stack, ok bool)) {
	for i := range v.slots {
		rec, ok := v.At(i)
		fn(i, rec, ok)
	}
}
