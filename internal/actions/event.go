package actions

import (
	"fmt"

	"github.com/pixil98/go-satchel/internal/items"
)

// EventKind names what happened to an item.
type EventKind int

const (
	EventDropped EventKind = iota
	EventConsumed
	EventEquipped
	EventUnequipped
)

var eventKindNames = map[EventKind]string{
	EventDropped:    "dropped",
	EventConsumed:   "consumed",
	EventEquipped:   "equipped",
	EventUnequipped: "unequipped",
}

func (k EventKind) String() string {
	if n, ok := eventKindNames[k]; ok {
		return n
	}
	return "unknown"
}

func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *EventKind) UnmarshalText(text []byte) error {
	for kind, name := range eventKindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown event kind: %s", text)
}

// Event describes an item leaving, being used, or changing equip state.
// Stack is a copy taken before the change was applied.
type Event struct {
	Kind  EventKind       `json:"kind"`
	Stack items.Stack     `json:"stack"`
	Slot  items.EquipSlot `json:"slot,omitempty"`
}

// Observer receives item events. Calls are synchronous.
type Observer interface {
	ItemEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) ItemEvent(e Event) {
	f(e)
}

// StatsSink applies item effects to an agent.
type StatsSink interface {
	Heal(amount int)
	ApplyModifier(stat items.StatType, amount int, add bool)
}
