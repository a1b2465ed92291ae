package items

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-satchel/internal/storage"
)

// Definition describes a kind of item loaded from asset files.
// Stack records are created from definitions and carry a copy of the
// descriptive fields.
type Definition struct {
	DisplayName string    `json:"display_name"`
	Description string    `json:"description,omitempty"`
	IconKey     string    `json:"icon_key,omitempty"`
	Type        ItemType  `json:"type"`
	EquipSlot   EquipSlot `json:"equip_slot,omitempty"`

	// Stackable defaults to true when omitted.
	Stackable *bool `json:"stackable,omitempty"`
	MaxStack  int   `json:"max_stack,omitempty"`

	HealAmount  int        `json:"heal_amount,omitempty"`
	AttackBonus int        `json:"attack_bonus,omitempty"`
	Modifiers   []Modifier `json:"modifiers,omitempty"`
}

// IsStackable reports whether records of this definition may hold more than one unit.
func (d *Definition) IsStackable() bool {
	return d.Stackable == nil || *d.Stackable
}

// EffectiveMaxStack mirrors Stack.EffectiveMaxStack for a definition.
func (d *Definition) EffectiveMaxStack() int {
	if !d.IsStackable() {
		return 1
	}
	if d.MaxStack > 0 {
		return d.MaxStack
	}
	return DefaultMaxStack
}

// EffectModifiers returns the modifiers applied while the item is equipped.
// AttackBonus is folded in as an Attack modifier.
func (d *Definition) EffectModifiers() []Modifier {
	if d == nil {
		return nil
	}
	mods := make([]Modifier, 0, len(d.Modifiers)+1)
	mods = append(mods, d.Modifiers...)
	if d.AttackBonus != 0 {
		mods = append(mods, Modifier{Stat: StatAttack, Amount: d.AttackBonus})
	}
	return mods
}

// Validate satisfies storage.ValidatingSpec
func (d *Definition) Validate() error {
	el := errors.NewErrorList()
	if d.DisplayName == "" {
		el.Add(fmt.Errorf("display name is required"))
	}
	if d.MaxStack < 0 {
		el.Add(fmt.Errorf("max stack must not be negative"))
	}
	if d.HealAmount < 0 {
		el.Add(fmt.Errorf("heal amount must not be negative"))
	}
	if d.Type == ItemTypeEquipment && d.EquipSlot == EquipSlotNone {
		el.Add(fmt.Errorf("equipment requires an equip slot"))
	}
	if d.Type != ItemTypeEquipment && d.EquipSlot != EquipSlotNone {
		el.Add(fmt.Errorf("equip slot %q is only valid for equipment", d.EquipSlot))
	}
	return el.Err()
}

// DefinitionProvider looks up item definitions by item id.
type DefinitionProvider interface {
	Definition(itemID string) (*Definition, bool)
}

// Catalog serves definitions out of an asset store.
type Catalog struct {
	store storage.Storer[*Definition]
}

// NewCatalog wraps a definition store.
func NewCatalog(store storage.Storer[*Definition]) *Catalog {
	return &Catalog{store: store}
}

// Definition satisfies DefinitionProvider.
func (c *Catalog) Definition(itemID string) (*Definition, bool) {
	if itemID == "" {
		return nil, false
	}
	def, ok := c.store.Lookup(itemID)
	if !ok || def == nil {
		return nil, false
	}
	return def, true
}

// IDs returns every known item id in sorted order.
func (c *Catalog) IDs() []string {
	return c.store.Keys()
}

// NewStack builds a record for itemID, clamping quantity to the definition's
// effective max stack. Returns false for unknown ids or non-positive quantities.
func (c *Catalog) NewStack(itemID string, quantity int) (*Stack, bool) {
	def, ok := c.Definition(itemID)
	if !ok || quantity <= 0 {
		return nil, false
	}
	return FromDefinition(itemID, def, quantity), true
}

// FromDefinition builds a record from def without consulting a store.
func FromDefinition(itemID string, def *Definition, quantity int) *Stack {
	s := NewStack(itemID, min(quantity, def.EffectiveMaxStack()))
	s.DisplayName = def.DisplayName
	s.Description = def.Description
	s.IconKey = def.IconKey
	s.Type = def.Type
	s.Stackable = def.IsStackable()
	s.MaxStack = def.EffectiveMaxStack()
	return s
}
