package actions

// Action is an operation offered for an occupied slot.
type Action string

const (
	ActionUse     Action = "use"
	ActionEquip   Action = "equip"
	ActionUnequip Action = "unequip"
	ActionSplit   Action = "split"
	ActionDrop    Action = "drop"
)

// Actions lists what can be done with the record in slot i, in menu order.
func (r *Runner) Actions(i int) []Action {
	rec := r.occupant(i)
	if rec == nil {
		return nil
	}

	var out []Action
	if r.CanUse(i) {
		out = append(out, ActionUse)
	}
	switch {
	case r.IsEquipped(i):
		out = append(out, ActionUnequip)
	case r.CanEquip(i):
		out = append(out, ActionEquip)
	}
	if r.CanSplit(i) {
		out = append(out, ActionSplit)
	}
	if r.CanDrop(i) {
		out = append(out, ActionDrop)
	}
	return out
}

// Do runs action on slot i.
func (r *Runner) Do(action Action, i int) bool {
	switch action {
	case ActionUse:
		return r.Use(i)
	case ActionEquip:
		return r.Equip(i)
	case ActionUnequip:
		return r.Unequip(i)
	case ActionSplit:
		return r.Split(i)
	case ActionDrop:
		return r.Drop(i)
	}
	return false
}
