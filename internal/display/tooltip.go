package display

import (
	"fmt"
	"strings"

	"github.com/pixil98/go-satchel/internal/items"
)

// StatLine is one label/value row of a tooltip.
type StatLine struct {
	Label string
	Value string
}

// Tooltip is the descriptive card shown for a stack.
type Tooltip struct {
	Title       string
	Subtitle    string
	Description string
	StatLines   []StatLine
}

// NewTooltip builds a tooltip for rec. def may be nil.
func NewTooltip(rec items.Stack, def *items.Definition) Tooltip {
	tip := Tooltip{
		Title:       rec.Name(),
		Subtitle:    Title(rec.Type.String()),
		Description: rec.Description,
	}

	if rec.Stackable {
		tip.StatLines = append(tip.StatLines, StatLine{Label: "Stack", Value: fmt.Sprintf("%d/%d", rec.Quantity, rec.EffectiveMaxStack())})
	}
	if def == nil {
		return tip
	}

	if def.EquipSlot != items.EquipSlotNone {
		tip.Subtitle = fmt.Sprintf("%s (%s)", tip.Subtitle, Title(def.EquipSlot.String()))
	}
	if def.HealAmount > 0 {
		tip.StatLines = append(tip.StatLines, StatLine{Label: "Heals", Value: fmt.Sprintf("%d HP", def.HealAmount)})
	}
	for _, m := range def.EffectModifiers() {
		tip.StatLines = append(tip.StatLines, StatLine{Label: Title(m.Stat.String()), Value: fmt.Sprintf("%+d", m.Amount)})
	}
	return tip
}

// String renders the tooltip as wrapped text.
func (t Tooltip) String() string {
	var sb strings.Builder
	sb.WriteString(t.Title)
	if t.Subtitle != "" {
		fmt.Fprintf(&sb, " - %s", t.Subtitle)
	}
	sb.WriteString("\n")
	if t.Description != "" {
		sb.WriteString(Indent(Wrap(t.Description), "  "))
		sb.WriteString("\n")
	}
	for _, l := range t.StatLines {
		fmt.Fprintf(&sb, "  %-14s %s\n", l.Label+":", l.Value)
	}
	return sb.String()
}
