package display

import (
	"testing"

	"github.com/pixil98/go-satchel/internal/inventory"
	"github.com/pixil98/go-satchel/internal/items"
	"github.com/pixil98/go-testutil"
)

func TestTemplate_Render(t *testing.T) {
	tests := map[string]struct {
		tmplStr string
		data    any
		exp     string
		expErr  bool
	}{
		"plain string no expansion": {
			tmplStr: "hello world",
			data:    struct{}{},
			exp:     "hello world",
		},
		"expand field": {
			tmplStr: "{{ .Agent }} drops {{ .Item }}.",
			data:    map[string]any{"Agent": "Bob", "Item": "a potion"},
			exp:     "Bob drops a potion.",
		},
		"sprig function": {
			tmplStr: "{{ .Agent | upper }} x{{ .Count | add 1 }}",
			data:    map[string]any{"Agent": "bob", "Count": 2},
			exp:     "BOB x3",
		},
		"invalid template syntax": {
			tmplStr: "{{ .Invalid",
			data:    struct{}{},
			expErr:  true,
		},
		"missing field": {
			tmplStr: "{{ .Nonexistent }}",
			data:    struct{}{},
			expErr:  true,
		},
		"missing map key": {
			tmplStr: "{{ .Nonexistent }}",
			data:    map[string]any{},
			expErr:  true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := render(tt.tmplStr, tt.data)
			if tt.expErr {
				if err == nil {
					t.Errorf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "result", got, tt.exp)
		})
	}
}

func render(text string, data any) (string, error) {
	tmpl, err := ParseTemplate("test", text)
	if err != nil {
		return "", err
	}
	return tmpl.Render(data)
}

func TestTemplate_RenderTwice(t *testing.T) {
	tmpl, err := ParseTemplate("greeting", "hello {{ .Name }}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, who := range []string{"ann", "bo"} {
		got, err := tmpl.Render(map[string]string{"Name": who})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		testutil.AssertEqual(t, "rendered", got, "hello "+who)
	}

	_, err = tmpl.Render(map[string]string{})
	testutil.AssertErrorContains(t, err, "rendering template greeting")
}

func TestTitle(t *testing.T) {
	tests := map[string]struct {
		in  string
		exp string
	}{
		"single word": {in: "weapon", exp: "Weapon"},
		"snake case":  {in: "attack_speed", exp: "Attack Speed"},
		"empty":       {in: "", exp: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "title", Title(tt.in), tt.exp)
		})
	}
}

func TestNewTooltip(t *testing.T) {
	rec := items.Stack{
		ItemID:      "sword",
		DisplayName: "Iron Sword",
		Description: "A plain blade.",
		Quantity:    1,
		Type:        items.ItemTypeEquipment,
	}
	def := &items.Definition{
		DisplayName: "Iron Sword",
		Type:        items.ItemTypeEquipment,
		EquipSlot:   items.EquipSlotWeapon,
		AttackBonus: 3,
		Modifiers:   []items.Modifier{{Stat: items.StatMoveSpeed, Amount: -5}},
	}

	tip := NewTooltip(rec, def)

	testutil.AssertEqual(t, "title", tip.Title, "Iron Sword")
	testutil.AssertEqual(t, "subtitle", tip.Subtitle, "Equipment (Weapon)")
	testutil.AssertEqual(t, "lines", tip.StatLines, []StatLine{
		{Label: "Move Speed", Value: "-5"},
		{Label: "Attack", Value: "+3"},
	})
}

func TestNewTooltip_Consumable(t *testing.T) {
	rec := items.Stack{ItemID: "potion", Quantity: 3, Stackable: true, MaxStack: 5, Type: items.ItemTypeConsumable}

	tip := NewTooltip(rec, &items.Definition{DisplayName: "Potion", HealAmount: 20})

	testutil.AssertEqual(t, "title falls back to id", tip.Title, "potion")
	testutil.AssertEqual(t, "lines", tip.StatLines, []StatLine{
		{Label: "Stack", Value: "3/5"},
		{Label: "Heals", Value: "20 HP"},
	})
}

func TestRenderSlots(t *testing.T) {
	s := inventory.New(3)
	potion := items.NewStack("potion", 2)
	potion.DisplayName = "Potion"
	sword := items.NewStack("sword", 1)
	sword.DisplayName = "Sword"
	sword.Stackable = false
	s.UpdateSlot(0, potion)
	s.UpdateSlot(2, sword)

	got := RenderSlots("Backpack", s.Slots(), map[string]items.EquipSlot{sword.Handle: items.EquipSlotWeapon}, "")

	exp := "Backpack (2/3):\n" +
		"  [  0] Potion x2\n" +
		"  [  1] -\n" +
		"  [  2] Sword (weapon)\n"
	testutil.AssertEqual(t, "render", got, exp)
}

func TestRenderEquipment(t *testing.T) {
	got := RenderEquipment(map[items.EquipSlot]items.Stack{
		items.EquipSlotHead: {ItemID: "helm", DisplayName: "Helm"},
	})

	exp := "Equipment:\n" +
		"  Head:      Helm\n" +
		"  Chest:     -\n" +
		"  Legs:      -\n" +
		"  Feet:      -\n" +
		"  Hands:     -\n" +
		"  Weapon:    -\n" +
		"  Shield:    -\n" +
		"  Accessory: -\n"
	testutil.AssertEqual(t, "render", got, exp)
}
