package items

import (
	"encoding/json"
	"testing"

	"github.com/pixil98/go-satchel/internal/storage"
	"github.com/pixil98/go-testutil"
)

func boolPtr(b bool) *bool { return &b }

func TestStack_EffectiveMaxStack(t *testing.T) {
	tests := map[string]struct {
		stack *Stack
		exp   int
	}{
		"configured":    {stack: &Stack{Stackable: true, MaxStack: 5}, exp: 5},
		"defaulted":     {stack: &Stack{Stackable: true}, exp: DefaultMaxStack},
		"negative":      {stack: &Stack{Stackable: true, MaxStack: -4}, exp: DefaultMaxStack},
		"non-stackable": {stack: &Stack{Stackable: false, MaxStack: 20}, exp: 1},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "max", tt.stack.EffectiveMaxStack(), tt.exp)
		})
	}
}

func TestStack_Valid(t *testing.T) {
	var nilStack *Stack
	testutil.AssertEqual(t, "nil", nilStack.Valid(), false)
	testutil.AssertEqual(t, "no id", NewStack("", 1).Valid(), false)
	testutil.AssertEqual(t, "no quantity", NewStack("potion", 0).Valid(), false)
	testutil.AssertEqual(t, "ok", NewStack("potion", 1).Valid(), true)
}

func TestStack_Clone(t *testing.T) {
	s := NewStack("potion", 4)
	s.DisplayName = "Potion"
	s.MaxStack = 10

	c := s.Clone(2)

	testutil.AssertEqual(t, "quantity", c.Quantity, 2)
	testutil.AssertEqual(t, "name", c.DisplayName, "Potion")
	testutil.AssertEqual(t, "max", c.MaxStack, 10)
	testutil.AssertEqual(t, "source quantity", s.Quantity, 4)
	if c.Handle == s.Handle {
		t.Errorf("clone shares handle %s", c.Handle)
	}
}

func TestDefinition_Validate(t *testing.T) {
	tests := map[string]struct {
		def    Definition
		expErr string
	}{
		"valid consumable": {
			def: Definition{DisplayName: "Potion", Type: ItemTypeConsumable, HealAmount: 20},
		},
		"valid equipment": {
			def: Definition{DisplayName: "Helm", Type: ItemTypeEquipment, EquipSlot: EquipSlotHead},
		},
		"missing name": {
			def:    Definition{Type: ItemTypeMisc},
			expErr: "display name is required",
		},
		"negative max stack": {
			def:    Definition{DisplayName: "Gem", MaxStack: -1},
			expErr: "max stack must not be negative",
		},
		"negative heal": {
			def:    Definition{DisplayName: "Poison", Type: ItemTypeConsumable, HealAmount: -5},
			expErr: "heal amount must not be negative",
		},
		"equipment without slot": {
			def:    Definition{DisplayName: "Ring", Type: ItemTypeEquipment},
			expErr: "equipment requires an equip slot",
		},
		"slot on non-equipment": {
			def:    Definition{DisplayName: "Hat", Type: ItemTypeMisc, EquipSlot: EquipSlotHead},
			expErr: "only valid for equipment",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.def.Validate()
			if tt.expErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			testutil.AssertErrorContains(t, err, tt.expErr)
		})
	}
}

func TestDefinition_EffectModifiers(t *testing.T) {
	def := &Definition{
		AttackBonus: 3,
		Modifiers:   []Modifier{{Stat: StatStrength, Amount: 2}},
	}

	testutil.AssertEqual(t, "mods", def.EffectModifiers(), []Modifier{
		{Stat: StatStrength, Amount: 2},
		{Stat: StatAttack, Amount: 3},
	})

	var none *Definition
	testutil.AssertEqual(t, "nil", len(none.EffectModifiers()), 0)
}

func TestDefinition_UnmarshalJSON(t *testing.T) {
	raw := `{
		"display_name": "Iron Sword",
		"type": "Equipment",
		"equip_slot": "weapon",
		"stackable": false,
		"attack_bonus": 4,
		"modifiers": [{"stat": "strength", "amount": 1}]
	}`

	var def Definition
	if err := json.Unmarshal([]byte(raw), &def); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "type", def.Type, ItemTypeEquipment)
	testutil.AssertEqual(t, "slot", def.EquipSlot, EquipSlotWeapon)
	testutil.AssertEqual(t, "stackable", def.IsStackable(), false)
	testutil.AssertEqual(t, "max", def.EffectiveMaxStack(), 1)
	testutil.AssertEqual(t, "mod stat", def.Modifiers[0].Stat, StatStrength)
}

func TestItemType_UnmarshalText_Unknown(t *testing.T) {
	var it ItemType
	testutil.AssertErrorContains(t, it.UnmarshalText([]byte("weapon")), "unknown item type")

	var slot EquipSlot
	testutil.AssertErrorContains(t, slot.UnmarshalText([]byte("tail")), "unknown equip slot")

	var stat StatType
	testutil.AssertErrorContains(t, stat.UnmarshalText([]byte("luck")), "unknown stat")
}

func TestCatalog_NewStack(t *testing.T) {
	store, err := storage.NewMapStore(map[string]*Definition{
		"potion": {DisplayName: "Potion", Type: ItemTypeConsumable, MaxStack: 5, HealAmount: 10},
		"sword":  {DisplayName: "Sword", Type: ItemTypeEquipment, EquipSlot: EquipSlotWeapon, Stackable: boolPtr(false)},
		"ore":    {DisplayName: "Ore"},
	})
	if err != nil {
		t.Fatalf("building store: %v", err)
	}
	c := NewCatalog(store)

	tests := map[string]struct {
		id        string
		qty       int
		expOk     bool
		expQty    int
		expMax    int
		expStacks bool
	}{
		"clamps to max stack":   {id: "potion", qty: 8, expOk: true, expQty: 5, expMax: 5, expStacks: true},
		"non-stackable":         {id: "sword", qty: 3, expOk: true, expQty: 1, expMax: 1},
		"default max":           {id: "ore", qty: 40, expOk: true, expQty: 40, expMax: DefaultMaxStack, expStacks: true},
		"unknown id":            {id: "gem", qty: 1},
		"non-positive quantity": {id: "potion", qty: 0},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s, ok := c.NewStack(tt.id, tt.qty)
			testutil.AssertEqual(t, "ok", ok, tt.expOk)
			if !tt.expOk {
				return
			}
			testutil.AssertEqual(t, "quantity", s.Quantity, tt.expQty)
			testutil.AssertEqual(t, "max", s.MaxStack, tt.expMax)
			testutil.AssertEqual(t, "stackable", s.Stackable, tt.expStacks)
			testutil.AssertEqual(t, "id", s.ItemID, tt.id)
		})
	}
}

func TestCatalog_SampleAssets(t *testing.T) {
	store, err := storage.NewFileStore[*Definition]("../../assets/items")
	if err != nil {
		t.Fatalf("loading sample assets: %v", err)
	}
	c := NewCatalog(store)

	sword, ok := c.NewStack("iron-sword", 1)
	if !ok {
		t.Fatalf("iron-sword missing from sample assets")
	}
	testutil.AssertEqual(t, "sword max stack", sword.EffectiveMaxStack(), 1)

	coins, ok := c.NewStack("gold-coin", 25)
	if !ok {
		t.Fatalf("gold-coin missing from sample assets")
	}
	testutil.AssertEqual(t, "coin max stack", coins.EffectiveMaxStack(), 999)
}
