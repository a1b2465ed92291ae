package stats

import (
	"fmt"
	"log/slog"
	"maps"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-satchel/internal/items"
)

// Speed stats are stored in hundredths.
const speedScale = 100

// DefaultBase returns the starting values used when none are configured.
func DefaultBase() map[items.StatType]int {
	return map[items.StatType]int{
		items.StatMaxHP:       100,
		items.StatMaxMP:       50,
		items.StatAttack:      10,
		items.StatAttackSpeed: 100,
		items.StatMoveSpeed:   500,
		items.StatStrength:    10,
		items.StatAgility:     10,
		items.StatIntellect:   10,
		items.StatVitality:    10,
	}
}

// ValidateBase checks a configured base stat table.
func ValidateBase(base map[items.StatType]int) error {
	el := errors.NewErrorList()
	for stat, v := range base {
		if v < 0 {
			el.Add(fmt.Errorf("base %s must not be negative", stat))
		}
	}
	if v, ok := base[items.StatMaxHP]; ok && v == 0 {
		el.Add(fmt.Errorf("base %s must be positive", items.StatMaxHP))
	}
	return el.Err()
}

// Stats tracks one agent's base values, equipment bonuses and current pools.
type Stats struct {
	base      map[items.StatType]int
	bonus     map[items.StatType]int
	currentHP int
	currentMP int
}

// New creates stats from base, filling missing entries from DefaultBase.
// Current HP and MP start full.
func New(base map[items.StatType]int) *Stats {
	b := DefaultBase()
	maps.Copy(b, base)

	s := &Stats{
		base:  b,
		bonus: make(map[items.StatType]int),
	}
	s.currentHP = s.MaxHP()
	s.currentMP = s.MaxMP()
	return s
}

// Get returns base plus bonus for stat.
func (s *Stats) Get(stat items.StatType) int {
	return s.base[stat] + s.bonus[stat]
}

func (s *Stats) Base(stat items.StatType) int {
	return s.base[stat]
}

func (s *Stats) Bonus(stat items.StatType) int {
	return s.bonus[stat]
}

// Speed returns a speed stat as a multiplier.
func (s *Stats) Speed(stat items.StatType) float64 {
	return float64(s.Get(stat)) / speedScale
}

// IsSpeed reports whether stat is stored in hundredths.
func IsSpeed(stat items.StatType) bool {
	return stat == items.StatAttackSpeed || stat == items.StatMoveSpeed
}

func (s *Stats) MaxHP() int     { return max(0, s.Get(items.StatMaxHP)) }
func (s *Stats) MaxMP() int     { return max(0, s.Get(items.StatMaxMP)) }
func (s *Stats) CurrentHP() int { return s.currentHP }
func (s *Stats) CurrentMP() int { return s.currentMP }

// Heal restores HP up to MaxHP. Non-positive amounts are ignored.
func (s *Stats) Heal(amount int) {
	if amount <= 0 {
		return
	}
	s.currentHP = min(s.currentHP+amount, s.MaxHP())
	slog.Debug("healed", "amount", amount, "hp", s.currentHP, "max_hp", s.MaxHP())
}

// TakeDamage lowers HP, stopping at zero.
func (s *Stats) TakeDamage(amount int) {
	if amount <= 0 {
		return
	}
	s.currentHP = max(0, s.currentHP-amount)
}

// ApplyModifier adds amount to stat's bonus, or revokes it when add is false.
// Current pools are clamped to their new maximums.
func (s *Stats) ApplyModifier(stat items.StatType, amount int, add bool) {
	delta := amount
	if !add {
		delta = -amount
	}
	s.bonus[stat] += delta
	if s.bonus[stat] == 0 {
		delete(s.bonus, stat)
	}
	s.clampPools()
}

func (s *Stats) clampPools() {
	s.currentHP = min(max(s.currentHP, 0), s.MaxHP())
	s.currentMP = min(max(s.currentMP, 0), s.MaxMP())
}
