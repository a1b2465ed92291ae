package items

import (
	"fmt"
	"strings"
)

// ItemType defines the behavioral category of an item.
type ItemType int

const (
	ItemTypeMisc ItemType = iota
	ItemTypeConsumable
	ItemTypeEquipment
	ItemTypeQuest
	ItemTypeCurrency
)

var itemTypeNames = map[ItemType]string{
	ItemTypeMisc:       "misc",
	ItemTypeConsumable: "consumable",
	ItemTypeEquipment:  "equipment",
	ItemTypeQuest:      "quest",
	ItemTypeCurrency:   "currency",
}

func (t ItemType) String() string {
	if s, ok := itemTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("ItemType(%d)", int(t))
}

func (t ItemType) MarshalText() ([]byte, error) {
	s, ok := itemTypeNames[t]
	if !ok {
		return nil, fmt.Errorf("unknown item type: %d", int(t))
	}
	return []byte(s), nil
}

func (t *ItemType) UnmarshalText(text []byte) error {
	for k, v := range itemTypeNames {
		if strings.EqualFold(v, string(text)) {
			*t = k
			return nil
		}
	}
	return fmt.Errorf("unknown item type: %s", text)
}

// EquipSlot is the body/gear category an equipped item occupies.
// At most one item is bound per slot type.
type EquipSlot int

const (
	EquipSlotNone EquipSlot = iota
	EquipSlotHead
	EquipSlotChest
	EquipSlotLegs
	EquipSlotFeet
	EquipSlotHands
	EquipSlotWeapon
	EquipSlotShield
	EquipSlotAccessory
)

// EquipSlots lists every bindable slot type in display order.
var EquipSlots = []EquipSlot{
	EquipSlotHead,
	EquipSlotChest,
	EquipSlotLegs,
	EquipSlotFeet,
	EquipSlotHands,
	EquipSlotWeapon,
	EquipSlotShield,
	EquipSlotAccessory,
}

var equipSlotNames = map[EquipSlot]string{
	EquipSlotNone:      "none",
	EquipSlotHead:      "head",
	EquipSlotChest:     "chest",
	EquipSlotLegs:      "legs",
	EquipSlotFeet:      "feet",
	EquipSlotHands:     "hands",
	EquipSlotWeapon:    "weapon",
	EquipSlotShield:    "shield",
	EquipSlotAccessory: "accessory",
}

func (s EquipSlot) String() string {
	if n, ok := equipSlotNames[s]; ok {
		return n
	}
	return fmt.Sprintf("EquipSlot(%d)", int(s))
}

func (s EquipSlot) MarshalText() ([]byte, error) {
	n, ok := equipSlotNames[s]
	if !ok {
		return nil, fmt.Errorf("unknown equip slot: %d", int(s))
	}
	return []byte(n), nil
}

func (s *EquipSlot) UnmarshalText(text []byte) error {
	for k, v := range equipSlotNames {
		if strings.EqualFold(v, string(text)) {
			*s = k
			return nil
		}
	}
	return fmt.Errorf("unknown equip slot: %s", text)
}

// StatType identifies a stat that equipment can modify.
type StatType int

const (
	StatMaxHP StatType = iota
	StatMaxMP
	StatAttack
	StatAttackSpeed
	StatMoveSpeed
	StatStrength
	StatAgility
	StatIntellect
	StatVitality
)

// StatTypes lists every stat in display order.
var StatTypes = []StatType{
	StatMaxHP,
	StatMaxMP,
	StatAttack,
	StatAttackSpeed,
	StatMoveSpeed,
	StatStrength,
	StatAgility,
	StatIntellect,
	StatVitality,
}

var statNames = map[StatType]string{
	StatMaxHP:       "max_hp",
	StatMaxMP:       "max_mp",
	StatAttack:      "attack",
	StatAttackSpeed: "attack_speed",
	StatMoveSpeed:   "move_speed",
	StatStrength:    "strength",
	StatAgility:     "agility",
	StatIntellect:   "intellect",
	StatVitality:    "vitality",
}

func (s StatType) String() string {
	if n, ok := statNames[s]; ok {
		return n
	}
	return fmt.Sprintf("StatType(%d)", int(s))
}

func (s StatType) MarshalText() ([]byte, error) {
	n, ok := statNames[s]
	if !ok {
		return nil, fmt.Errorf("unknown stat: %d", int(s))
	}
	return []byte(n), nil
}

func (s *StatType) UnmarshalText(text []byte) error {
	for k, v := range statNames {
		if strings.EqualFold(v, string(text)) {
			*s = k
			return nil
		}
	}
	return fmt.Errorf("unknown stat: %s", text)
}

// Modifier is a signed delta applied to a single stat while an item is equipped.
type Modifier struct {
	Stat   StatType `json:"stat"`
	Amount int      `json:"amount"`
}
