package inventory

import (
	"log/slog"
	"math"
	"slices"

	"github.com/pixil98/go-satchel/internal/items"
)

// ChangeFunc receives the full slot sequence after a mutation.
// Handlers run synchronously; mutating the same store from a handler
// re-enters the store while its caller is still running.
type ChangeFunc func(View)

// Option configures a Store at construction.
type Option func(*Store)

// WithExtraCapacity starts the store with granted extra slots.
func WithExtraCapacity(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.extraCapacity = n
		}
	}
}

// WithMaxCapacity caps how far ExpandCapacity may grow the store.
func WithMaxCapacity(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxCapacity = n
		}
	}
}

// WithName labels the store for logging and registry lookups.
func WithName(name string) Option {
	return func(s *Store) {
		s.name = name
	}
}

// Store is a fixed-capacity ordered sequence of slots, each holding zero or one
// stack record. len(slots) always equals BaseCapacity()+ExtraCapacity() once a
// mutating call returns.
//
// A Store is owned by a single agent and is not safe for concurrent use.
type Store struct {
	name          string
	baseCapacity  int
	extraCapacity int
	maxCapacity   int
	slots         []*items.Stack

	nextSubID   int
	subscribers []subscriber
}

type subscriber struct {
	id int
	fn ChangeFunc
}

// SlotDelta is the quantity one add put into one slot. Opened marks a slot
// that was empty before the add.
type SlotDelta struct {
	Index    int
	Quantity int
	Opened   bool
}

// AddResult reports how much of an incoming record was placed and where.
type AddResult struct {
	ItemID    string
	Placed    int
	Remaining int
	Deltas    []SlotDelta
}

// Partial reports whether some but not all quantity was placed.
func (r AddResult) Partial() bool {
	return r.Placed > 0 && r.Remaining > 0
}

// New creates an empty store with baseCapacity slots.
func New(baseCapacity int, opts ...Option) *Store {
	s := &Store{
		baseCapacity: max(0, baseCapacity),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ensureCapacity()
	return s
}

func (s *Store) Name() string {
	return s.name
}

func (s *Store) BaseCapacity() int {
	return s.baseCapacity
}

func (s *Store) ExtraCapacity() int {
	return s.extraCapacity
}

// MaxCapacity is the growth limit, or 0 when only integer range bounds it.
func (s *Store) MaxCapacity() int {
	return s.maxCapacity
}

// Capacity is the current slot count.
func (s *Store) Capacity() int {
	return s.baseCapacity + s.extraCapacity
}

// ensureCapacity pads or truncates the slot sequence to Capacity().
// Truncation discards records past the new bound.
func (s *Store) ensureCapacity() {
	capacity := s.Capacity()
	for len(s.slots) < capacity {
		s.slots = append(s.slots, nil)
	}
	if len(s.slots) > capacity {
		for _, dropped := range s.slots[capacity:] {
			if dropped != nil {
				slog.Warn("inventory truncated occupied slot", "inventory", s.name, "item", dropped.ItemID, "quantity", dropped.Quantity)
			}
		}
		clear(s.slots[capacity:])
		s.slots = s.slots[:capacity]
	}
}

func (s *Store) inBounds(i int) bool {
	return i >= 0 && i < s.Capacity()
}

// At returns the record in slot i, or nil when empty or out of bounds.
// The returned record belongs to the store; callers that change it must
// write it back with UpdateSlot.
func (s *Store) At(i int) *items.Stack {
	if i < 0 || i >= len(s.slots) {
		return nil
	}
	return s.slots[i]
}

// IndexOf returns the slot holding exactly rec, or -1.
func (s *Store) IndexOf(rec *items.Stack) int {
	if rec == nil {
		return -1
	}
	return slices.Index(s.slots, rec)
}

// FirstEmpty returns the lowest empty slot index, or -1 when full.
func (s *Store) FirstEmpty() int {
	return slices.Index(s.slots, nil)
}

// Count totals the quantity of itemID across all slots.
func (s *Store) Count(itemID string) int {
	total := 0
	for _, rec := range s.slots {
		if rec != nil && rec.ItemID == itemID {
			total += rec.Quantity
		}
	}
	return total
}

// Slots returns a read-only view of the current slot sequence.
func (s *Store) Slots() View {
	return View{slots: s.slots}
}

// TryAddItem places rec into the store, topping up existing stacks of the
// same item before filling empty slots. It reports whether any quantity was
// placed. rec itself is never stored.
func (s *Store) TryAddItem(rec *items.Stack) bool {
	return s.AddItem(rec).Placed > 0
}

// AddItem is TryAddItem with a detailed result.
func (s *Store) AddItem(rec *items.Stack) AddResult {
	if !rec.Valid() {
		slog.Debug("rejected invalid item", "inventory", s.name)
		if rec != nil {
			return AddResult{Remaining: max(0, rec.Quantity)}
		}
		return AddResult{}
	}

	s.ensureCapacity()

	remaining := rec.Quantity
	var deltas []SlotDelta

	// Top up existing stacks first.
	for i, existing := range s.slots {
		if remaining == 0 {
			break
		}
		if existing == nil || existing.ItemID != rec.ItemID {
			continue
		}
		take := min(existing.Space(), remaining)
		if take <= 0 {
			continue
		}
		existing.Quantity += take
		remaining -= take
		deltas = append(deltas, SlotDelta{Index: i, Quantity: take})
	}

	// Then open new stacks in empty slots.
	limit := rec.EffectiveMaxStack()
	for i := range s.slots {
		if remaining == 0 {
			break
		}
		if s.slots[i] != nil {
			continue
		}
		take := min(limit, remaining)
		s.slots[i] = rec.Clone(take)
		remaining -= take
		deltas = append(deltas, SlotDelta{Index: i, Quantity: take, Opened: true})
	}

	res := AddResult{
		ItemID:    rec.ItemID,
		Placed:    rec.Quantity - remaining,
		Remaining: remaining,
		Deltas:    deltas,
	}

	switch {
	case res.Placed == 0:
		slog.Warn("inventory full", "inventory", s.name, "item", rec.ItemID, "quantity", rec.Quantity)
		return res
	case res.Remaining > 0:
		slog.Warn("inventory partially full", "inventory", s.name, "item", rec.ItemID, "placed", res.Placed, "remaining", res.Remaining)
	default:
		slog.Debug("item added", "inventory", s.name, "item", rec.ItemID, "quantity", res.Placed)
	}

	s.raiseChanged()
	return res
}

// RevertAdd takes back exactly what the add reported in res, slot by slot in
// reverse order, so the store returns to its layout before that add. It
// fails without changing anything if a touched slot no longer holds the
// added quantity of the item.
func (s *Store) RevertAdd(res AddResult) bool {
	if len(res.Deltas) == 0 {
		return false
	}

	s.ensureCapacity()

	for _, d := range res.Deltas {
		rec := s.At(d.Index)
		if rec == nil || rec.ItemID != res.ItemID || d.Quantity <= 0 {
			return false
		}
		if rec.Quantity < d.Quantity || (d.Opened && rec.Quantity != d.Quantity) {
			return false
		}
	}

	for _, d := range slices.Backward(res.Deltas) {
		rec := s.slots[d.Index]
		rec.Quantity -= d.Quantity
		if rec.Quantity == 0 {
			s.slots[d.Index] = nil
		}
	}

	s.raiseChanged()
	return true
}

// TryRemoveItem removes quantity units of itemID, draining the smallest
// stacks first and, between equal stacks, the highest slot first. Nothing is
// removed unless the full quantity is available. Use RevertAdd to undo a
// specific add.
func (s *Store) TryRemoveItem(itemID string, quantity int) bool {
	if itemID == "" || quantity <= 0 {
		return false
	}

	s.ensureCapacity()

	if s.Count(itemID) < quantity {
		return false
	}

	var idx []int
	for i, rec := range s.slots {
		if rec != nil && rec.ItemID == itemID {
			idx = append(idx, i)
		}
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		qa, qb := s.slots[a].Quantity, s.slots[b].Quantity
		if qa != qb {
			return qa - qb
		}
		return b - a
	})

	remaining := quantity
	for _, i := range idx {
		if remaining == 0 {
			break
		}
		rec := s.slots[i]
		take := min(rec.Quantity, remaining)
		rec.Quantity -= take
		remaining -= take
		if rec.Quantity == 0 {
			s.slots[i] = nil
		}
	}

	s.raiseChanged()
	return true
}

// RemoveAt takes count units from slot i, clearing the slot when the record
// runs out.
func (s *Store) RemoveAt(i, count int) bool {
	s.ensureCapacity()
	if !s.inBounds(i) || count <= 0 {
		return false
	}
	rec := s.slots[i]
	if rec == nil {
		return false
	}
	if rec.Quantity > count {
		rec.Quantity -= count
	} else {
		s.slots[i] = nil
	}
	s.raiseChanged()
	return true
}

// SwapItems exchanges the contents of two slots.
func (s *Store) SwapItems(a, b int) bool {
	s.ensureCapacity()

	if a == b || !s.inBounds(a) || !s.inBounds(b) {
		return false
	}

	s.slots[a], s.slots[b] = s.slots[b], s.slots[a]
	s.raiseChanged()
	return true
}

// ClearSlot empties slot i.
func (s *Store) ClearSlot(i int) bool {
	s.ensureCapacity()
	if !s.inBounds(i) {
		return false
	}

	s.slots[i] = nil
	s.raiseChanged()
	return true
}

// UpdateSlot replaces the contents of slot i. A record with no quantity
// clears the slot.
func (s *Store) UpdateSlot(i int, rec *items.Stack) bool {
	s.ensureCapacity()
	if !s.inBounds(i) {
		return false
	}

	if rec != nil && rec.Quantity <= 0 {
		rec = nil
	}
	s.slots[i] = rec
	s.raiseChanged()
	return true
}

// TrySplitStack moves count units out of slot src into a new record in the
// first empty slot.
func (s *Store) TrySplitStack(src, count int) bool {
	s.ensureCapacity()
	if !s.inBounds(src) {
		return false
	}

	rec := s.slots[src]
	if rec == nil || !rec.Stackable || rec.Quantity <= 1 {
		return false
	}
	if count < 1 || count > rec.Quantity-1 {
		return false
	}

	dst := s.FirstEmpty()
	if dst < 0 {
		slog.Debug("no empty slot for split", "inventory", s.name, "item", rec.ItemID)
		return false
	}

	rec.Quantity -= count
	s.slots[dst] = rec.Clone(count)
	s.raiseChanged()
	return true
}

// ExpandCapacity grants amount extra slots. It fails without changing
// anything if the new capacity would pass MaxCapacity or overflow.
func (s *Store) ExpandCapacity(amount int) bool {
	if amount <= 0 || amount > math.MaxInt-s.Capacity() {
		return false
	}
	if s.maxCapacity > 0 && s.Capacity()+amount > s.maxCapacity {
		slog.Debug("capacity limit reached", "inventory", s.name, "max", s.maxCapacity)
		return false
	}

	s.extraCapacity += amount
	s.ensureCapacity()
	s.raiseChanged()
	return true
}

// Subscribe registers fn for change notifications and returns a function
// that removes it.
func (s *Store) Subscribe(fn ChangeFunc) func() {
	s.nextSubID++
	id := s.nextSubID
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})

	return func() {
		s.subscribers = slices.DeleteFunc(s.subscribers, func(sub subscriber) bool {
			return sub.id == id
		})
	}
}

func (s *Store) raiseChanged() {
	view := s.Slots()
	// Copy so handlers may unsubscribe while being notified.
	for _, sub := range slices.Clone(s.subscribers) {
		sub.fn(view)
	}
}
