package inventory

import "log/slog"

// Manager tracks the named stores belonging to one agent (backpack, stash, ...)
// and moves whole stacks between them.
type Manager struct {
	stores      map[string]*Store
	defaultName string
}

func NewManager() *Manager {
	return &Manager{
		stores: make(map[string]*Store),
	}
}

// Register adds or replaces a store under name. The first registered store
// becomes the default.
func (m *Manager) Register(name string, s *Store) {
	if name == "" || s == nil {
		return
	}
	m.stores[name] = s
	if m.defaultName == "" {
		m.defaultName = name
	}
}

// Unregister removes name only if it still refers to s.
func (m *Manager) Unregister(name string, s *Store) {
	registered, ok := m.stores[name]
	if !ok || registered != s {
		return
	}
	delete(m.stores, name)
	if m.defaultName == name {
		m.defaultName = ""
	}
}

// Get returns the store registered under name, falling back to the default.
func (m *Manager) Get(name string) *Store {
	if s, ok := m.stores[name]; ok {
		return s
	}
	return m.stores[m.defaultName]
}

// Lookup returns the store registered under name, without falling back.
func (m *Manager) Lookup(name string) (*Store, bool) {
	s, ok := m.stores[name]
	return s, ok
}

// TryTransferStack moves the stack in slot index of one store into another,
// using the target's stacking rules. The source keeps whatever did not fit.
// Both names must be registered.
func (m *Manager) TryTransferStack(from string, index int, to string) bool {
	src, ok := m.Lookup(from)
	if !ok {
		slog.Debug("unknown transfer source", "store", from)
		return false
	}
	dst, ok := m.Lookup(to)
	if !ok {
		slog.Debug("unknown transfer target", "store", to)
		return false
	}
	if src == dst {
		return false
	}

	rec := src.At(index)
	if rec == nil {
		return false
	}

	res := dst.AddItem(rec.Clone(rec.Quantity))
	switch {
	case res.Placed == 0:
		return false
	case res.Remaining == 0:
		src.ClearSlot(index)
	default:
		src.RemoveAt(index, res.Placed)
		slog.Debug("stack partially transferred", "from", from, "to", to, "item", rec.ItemID, "placed", res.Placed)
	}
	return true
}
