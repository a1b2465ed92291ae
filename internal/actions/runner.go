package actions

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/pixil98/go-satchel/internal/inventory"
	"github.com/pixil98/go-satchel/internal/items"
)

// Option configures a Runner.
type Option func(*Runner)

// WithObserver adds an observer for item events.
func WithObserver(o Observer) Option {
	return func(r *Runner) {
		if o != nil {
			r.observers = append(r.observers, o)
		}
	}
}

type binding struct {
	slot      items.EquipSlot
	stack     items.Stack
	modifiers []items.Modifier
}

// Runner maps slot indexes of one agent's store to item actions and tracks
// which records are equipped. At most one record is bound per equip slot.
//
// Bindings are keyed by record handle. When a bound record leaves the store
// its binding is released on the next change notification.
type Runner struct {
	store     *inventory.Store
	defs      items.DefinitionProvider
	stats     StatsSink
	observers []Observer

	byHandle map[string]binding
	bySlot   map[items.EquipSlot]string

	unsubscribe func()
}

// NewRunner creates a runner acting on store. stats may be nil, in which case
// effects are skipped. A nil store makes every action a no-op.
func NewRunner(store *inventory.Store, defs items.DefinitionProvider, stats StatsSink, opts ...Option) *Runner {
	r := &Runner{
		store:    store,
		defs:     defs,
		stats:    stats,
		byHandle: make(map[string]binding),
		bySlot:   make(map[items.EquipSlot]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	if store != nil {
		r.unsubscribe = store.Subscribe(r.sync)
	}
	return r
}

// Close stops tracking store changes.
func (r *Runner) Close() {
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
}

func (r *Runner) occupant(i int) *items.Stack {
	if r.store == nil {
		return nil
	}
	return r.store.At(i)
}

func (r *Runner) definition(rec *items.Stack) *items.Definition {
	if r.defs == nil {
		return nil
	}
	def, ok := r.defs.Definition(rec.ItemID)
	if !ok {
		slog.Warn("no definition for item", "item", rec.ItemID)
		return nil
	}
	return def
}

func (r *Runner) CanUse(i int) bool {
	rec := r.occupant(i)
	return rec != nil && rec.Type == items.ItemTypeConsumable
}

func (r *Runner) CanEquip(i int) bool {
	_, ok := r.equipSlot(i)
	return ok && !r.IsEquipped(i)
}

func (r *Runner) CanUnequip(i int) bool {
	return r.IsEquipped(i)
}

func (r *Runner) CanDrop(i int) bool {
	rec := r.occupant(i)
	return rec != nil && rec.Type != items.ItemTypeQuest
}

func (r *Runner) CanSplit(i int) bool {
	rec := r.occupant(i)
	return rec != nil && rec.Stackable && rec.Quantity > 1
}

// equipSlot resolves the equip slot for the equipment in slot i.
func (r *Runner) equipSlot(i int) (items.EquipSlot, bool) {
	rec := r.occupant(i)
	if rec == nil || rec.Type != items.ItemTypeEquipment {
		return items.EquipSlotNone, false
	}
	def := r.definition(rec)
	if def == nil || def.EquipSlot == items.EquipSlotNone {
		return items.EquipSlotNone, false
	}
	return def.EquipSlot, true
}

// IsEquipped reports whether the record in slot i is bound.
func (r *Runner) IsEquipped(i int) bool {
	rec := r.occupant(i)
	if rec == nil {
		return false
	}
	_, ok := r.byHandle[rec.Handle]
	return ok
}

// Use consumes one unit of the consumable in slot i, applying its heal.
func (r *Runner) Use(i int) bool {
	if !r.CanUse(i) {
		return false
	}
	rec := r.occupant(i)
	snapshot := *rec

	if def := r.definition(rec); def != nil && def.HealAmount > 0 && r.stats != nil {
		r.stats.Heal(def.HealAmount)
	}

	rec.Quantity--
	if rec.Quantity <= 0 {
		r.store.ClearSlot(i)
	} else {
		r.store.UpdateSlot(i, rec)
	}

	slog.Debug("item used", "item", rec.ItemID, "remaining", max(0, rec.Quantity))
	r.emit(Event{Kind: EventConsumed, Stack: snapshot})
	return true
}

// Equip binds the equipment in slot i, releasing whatever held its equip
// slot first. Equipping an already bound record does nothing.
func (r *Runner) Equip(i int) bool {
	slot, ok := r.equipSlot(i)
	if !ok {
		return false
	}
	rec := r.occupant(i)
	if _, bound := r.byHandle[rec.Handle]; bound {
		slog.Debug("item already equipped", "item", rec.ItemID)
		return false
	}

	if current, held := r.bySlot[slot]; held {
		r.release(current)
	}

	b := binding{
		slot:      slot,
		stack:     *rec,
		modifiers: r.definition(rec).EffectModifiers(),
	}
	r.applyModifiers(b.modifiers, true)
	r.byHandle[rec.Handle] = b
	r.bySlot[slot] = rec.Handle

	slog.Debug("item equipped", "item", rec.ItemID, "slot", slot, "modifiers", len(b.modifiers))
	r.emit(Event{Kind: EventEquipped, Stack: b.stack, Slot: slot})
	return true
}

// Unequip releases the binding of the record in slot i.
func (r *Runner) Unequip(i int) bool {
	if !r.IsEquipped(i) {
		return false
	}
	r.release(r.occupant(i).Handle)
	return true
}

// Drop removes the record in slot i from the store, unequipping it first.
// Quest items cannot be dropped.
func (r *Runner) Drop(i int) bool {
	if !r.CanDrop(i) {
		return false
	}
	rec := r.occupant(i)
	if _, bound := r.byHandle[rec.Handle]; bound {
		r.release(rec.Handle)
	}

	snapshot := *rec
	r.store.ClearSlot(i)

	slog.Debug("item dropped", "item", snapshot.ItemID, "quantity", snapshot.Quantity)
	r.emit(Event{Kind: EventDropped, Stack: snapshot})
	return true
}

// Split moves half of the stack in slot i into the first empty slot.
func (r *Runner) Split(i int) bool {
	if !r.CanSplit(i) {
		return false
	}
	return r.store.TrySplitStack(i, r.occupant(i).Quantity/2)
}

// Equipped returns a copy of every bound record by equip slot.
func (r *Runner) Equipped() map[items.EquipSlot]items.Stack {
	out := make(map[items.EquipSlot]items.Stack, len(r.bySlot))
	for slot, handle := range r.bySlot {
		out[slot] = r.byHandle[handle].stack
	}
	return out
}

// EquippedHandles returns the handles of every bound record.
func (r *Runner) EquippedHandles() map[string]items.EquipSlot {
	out := make(map[string]items.EquipSlot, len(r.byHandle))
	for h, b := range r.byHandle {
		out[h] = b.slot
	}
	return out
}

func (r *Runner) release(handle string) {
	b, ok := r.byHandle[handle]
	if !ok {
		return
	}
	r.applyModifiers(b.modifiers, false)
	delete(r.byHandle, handle)
	if r.bySlot[b.slot] == handle {
		delete(r.bySlot, b.slot)
	}

	slog.Debug("item unequipped", "item", b.stack.ItemID, "slot", b.slot)
	r.emit(Event{Kind: EventUnequipped, Stack: b.stack, Slot: b.slot})
}

// sync releases bindings whose record is no longer in the store.
func (r *Runner) sync(v inventory.View) {
	if len(r.byHandle) == 0 {
		return
	}
	present := make(map[string]struct{}, v.Len())
	v.Each(func(_ int, rec items.Stack, ok bool) {
		if ok {
			present[rec.Handle] = struct{}{}
		}
	})
	for _, handle := range sortedHandles(r.byHandle) {
		if _, ok := present[handle]; !ok {
			r.release(handle)
		}
	}
}

func (r *Runner) applyModifiers(mods []items.Modifier, add bool) {
	if r.stats == nil {
		return
	}
	for _, m := range mods {
		r.stats.ApplyModifier(m.Stat, m.Amount, add)
	}
}

func (r *Runner) emit(e Event) {
	for _, o := range r.observers {
		o.ItemEvent(e)
	}
}

func sortedHandles(m map[string]binding) []string {
	return slices.Sorted(maps.Keys(m))
}
