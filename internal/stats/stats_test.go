package stats

import (
	"testing"

	"github.com/pixil98/go-satchel/internal/items"
	"github.com/pixil98/go-testutil"
)

func TestNew(t *testing.T) {
	s := New(map[items.StatType]int{items.StatMaxHP: 40})

	testutil.AssertEqual(t, "max hp", s.MaxHP(), 40)
	testutil.AssertEqual(t, "current hp", s.CurrentHP(), 40)
	testutil.AssertEqual(t, "max mp default", s.MaxMP(), 50)
	testutil.AssertEqual(t, "current mp", s.CurrentMP(), 50)
	testutil.AssertEqual(t, "attack speed", s.Speed(items.StatAttackSpeed), 1.0)
}

func TestStats_Heal(t *testing.T) {
	tests := map[string]struct {
		damage int
		heal   int
		exp    int
	}{
		"restores":          {damage: 30, heal: 10, exp: 80},
		"clamps to max":     {damage: 5, heal: 50, exp: 100},
		"ignores zero":      {damage: 20, heal: 0, exp: 80},
		"ignores negative":  {damage: 20, heal: -10, exp: 80},
		"damage stops at 0": {damage: 500, heal: 0, exp: 0},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s := New(nil)
			s.TakeDamage(tt.damage)
			s.Heal(tt.heal)
			testutil.AssertEqual(t, "hp", s.CurrentHP(), tt.exp)
		})
	}
}

func TestStats_ApplyModifier(t *testing.T) {
	s := New(nil)

	s.ApplyModifier(items.StatAttack, 5, true)
	testutil.AssertEqual(t, "attack", s.Get(items.StatAttack), 15)
	testutil.AssertEqual(t, "bonus", s.Bonus(items.StatAttack), 5)

	s.ApplyModifier(items.StatAttack, 5, false)
	testutil.AssertEqual(t, "attack reverted", s.Get(items.StatAttack), 10)
	testutil.AssertEqual(t, "bonus reverted", s.Bonus(items.StatAttack), 0)

	s.ApplyModifier(items.StatAttack, -3, true)
	testutil.AssertEqual(t, "negative modifier", s.Get(items.StatAttack), 7)
}

func TestStats_ApplyModifier_ClampsPools(t *testing.T) {
	s := New(nil)

	s.ApplyModifier(items.StatMaxHP, 20, true)
	testutil.AssertEqual(t, "hp not raised", s.CurrentHP(), 100)
	s.Heal(50)
	testutil.AssertEqual(t, "hp healed to new max", s.CurrentHP(), 120)

	s.ApplyModifier(items.StatMaxHP, 20, false)
	testutil.AssertEqual(t, "hp clamped", s.CurrentHP(), 100)

	s.ApplyModifier(items.StatMaxMP, 30, false)
	testutil.AssertEqual(t, "mp clamped", s.CurrentMP(), 20)
}

func TestValidateBase(t *testing.T) {
	tests := map[string]struct {
		base   map[items.StatType]int
		expErr string
	}{
		"valid": {
			base: map[items.StatType]int{items.StatMaxHP: 10, items.StatAttack: 0},
		},
		"negative": {
			base:   map[items.StatType]int{items.StatStrength: -1},
			expErr: "base strength must not be negative",
		},
		"zero hp": {
			base:   map[items.StatType]int{items.StatMaxHP: 0},
			expErr: "base max_hp must be positive",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := ValidateBase(tt.base)
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
