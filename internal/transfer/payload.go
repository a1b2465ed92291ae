package transfer

import "github.com/pixil98/go-satchel/internal/items"

// Kind tags what a Payload carries.
type Kind int

const (
	KindEmpty Kind = iota
	KindStack
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindStack:
		return "stack"
	default:
		return "unknown"
	}
}

// Payload is the occupant of an endpoint: either nothing or a stack record.
// The zero value is empty.
type Payload struct {
	kind   Kind
	stack  *items.Stack
	source any
}

// Empty returns a payload carrying nothing.
func Empty() Payload {
	return Payload{}
}

// Of wraps a stack record. Nil or invalid records yield an empty payload.
func Of(s *items.Stack) Payload {
	return From(s, nil)
}

// From wraps a stack record and remembers the container it was read from.
// Endpoints use the source to relocate records instead of copying them.
func From(s *items.Stack, source any) Payload {
	if !s.Valid() {
		return Empty()
	}
	return Payload{kind: KindStack, stack: s, source: source}
}

func (p Payload) Kind() Kind {
	return p.kind
}

func (p Payload) IsEmpty() bool {
	return p.kind == KindEmpty
}

// Stack returns the carried record, or nil for an empty payload.
func (p Payload) Stack() *items.Stack {
	return p.stack
}

// Source returns the container the payload was read from, if known.
func (p Payload) Source() any {
	return p.source
}

// SameItem reports whether both payloads carry the same item identity.
func (p Payload) SameItem(o Payload) bool {
	if p.kind != KindStack || o.kind != KindStack {
		return false
	}
	return p.stack.SameItem(o.stack)
}

// Stackable reports whether the carried record can hold more than one unit.
func (p Payload) Stackable() bool {
	switch p.kind {
	case KindStack:
		return p.stack.Stackable
	case KindEmpty:
		return false
	}
	return false
}
