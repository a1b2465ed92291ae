package display

import (
	"fmt"
	"strings"

	"github.com/pixil98/go-satchel/internal/inventory"
	"github.com/pixil98/go-satchel/internal/items"
)

// RenderSlots lists every slot of v, one per line. Records whose handle is in
// equipped are marked with their equip slot. prefix is prepended to indexes.
func RenderSlots(title string, v inventory.View, equipped map[string]items.EquipSlot, prefix string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%d/%d):\n", title, v.Occupied(), v.Len())

	v.Each(func(i int, rec items.Stack, ok bool) {
		label := fmt.Sprintf("%s%d", prefix, i)
		if !ok {
			fmt.Fprintf(&sb, "  [%3s] -\n", label)
			return
		}

		line := fmt.Sprintf("  [%3s] %s", label, rec.Name())
		if rec.Stackable {
			line += fmt.Sprintf(" x%d", rec.Quantity)
		}
		if slot, ok := equipped[rec.Handle]; ok {
			line += fmt.Sprintf(" (%s)", slot)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	})

	return sb.String()
}

// RenderEquipment lists every equip slot and what is bound to it.
func RenderEquipment(equipped map[items.EquipSlot]items.Stack) string {
	var sb strings.Builder
	sb.WriteString("Equipment:\n")
	for _, slot := range items.EquipSlots {
		name := "-"
		if rec, ok := equipped[slot]; ok {
			name = rec.Name()
		}
		fmt.Fprintf(&sb, "  %-10s %s\n", Title(slot.String())+":", name)
	}
	return sb.String()
}
