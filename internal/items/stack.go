package items

import "github.com/google/uuid"

// DefaultMaxStack is the stack limit for stackable items that do not configure one.
const DefaultMaxStack = 99

// Stack is one inventory entry: an item identity, a quantity, and the
// descriptive metadata copied from its definition.
//
// Handle identifies the record instance. Two stacks of the same ItemID in
// different slots have different handles. A record keeps its handle when it is
// relocated inside a single store and gets a new one when it is copied.
type Stack struct {
	Handle      string   `json:"handle"`
	ItemID      string   `json:"item_id"`
	DisplayName string   `json:"display_name"`
	Description string   `json:"description,omitempty"`
	Quantity    int      `json:"quantity"`
	IconKey     string   `json:"icon_key,omitempty"`
	Type        ItemType `json:"type"`
	Stackable   bool     `json:"stackable"`
	MaxStack    int      `json:"max_stack"`
}

// NewStack creates a record with a fresh handle.
func NewStack(itemID string, quantity int) *Stack {
	return &Stack{
		Handle:    uuid.New().String(),
		ItemID:    itemID,
		Quantity:  quantity,
		Stackable: true,
	}
}

// EffectiveMaxStack returns the upper bound on this record's quantity.
func (s *Stack) EffectiveMaxStack() int {
	if !s.Stackable {
		return 1
	}
	if s.MaxStack > 0 {
		return s.MaxStack
	}
	return DefaultMaxStack
}

// Space returns how many more units this record can hold.
func (s *Stack) Space() int {
	return max(0, s.EffectiveMaxStack()-s.Quantity)
}

// Valid reports whether s can be placed into a slot.
func (s *Stack) Valid() bool {
	return s != nil && s.ItemID != "" && s.Quantity > 0
}

// SameItem reports whether both records share an item identity.
func (s *Stack) SameItem(o *Stack) bool {
	return s != nil && o != nil && s.ItemID == o.ItemID
}

// Clone copies every descriptive field into a new record with a fresh handle.
func (s *Stack) Clone(quantity int) *Stack {
	c := *s
	c.Handle = uuid.New().String()
	c.Quantity = quantity
	return &c
}

// Name returns the display name, falling back to the item id.
func (s *Stack) Name() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return s.ItemID
}
