package session

import (
	"log/slog"

	"github.com/pixil98/go-satchel/internal/actions"
	"github.com/pixil98/go-satchel/internal/inventory"
	"github.com/pixil98/go-satchel/internal/items"
	"github.com/pixil98/go-satchel/internal/stats"
)

const (
	BackpackName = "backpack"
	StashName    = "stash"

	// DefaultMaxCapacity bounds backpack growth when none is configured.
	DefaultMaxCapacity = 100
)

// Catalog resolves item ids into definitions and fresh records.
type Catalog interface {
	items.DefinitionProvider
	NewStack(itemID string, quantity int) (*items.Stack, bool)
	IDs() []string
}

// KitEntry is one starter kit line.
type KitEntry struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
}

// AgentConfig describes how new agents are equipped.
type AgentConfig struct {
	BaseCapacity  int
	StashCapacity int
	MaxCapacity   int
	BaseStats     map[items.StatType]int
	StarterKit    []KitEntry
}

// Agent is one connected character: a backpack the actions operate on, a
// stash for storage, and the stats equipment modifies.
type Agent struct {
	Name     string
	Backpack *inventory.Store
	Stash    *inventory.Store
	Stores   *inventory.Manager
	Stats    *stats.Stats
	Runner   *actions.Runner

	catalog Catalog
}

// NewAgent builds an agent and hands out its starter kit.
func NewAgent(name string, cfg AgentConfig, catalog Catalog, observers ...actions.Observer) *Agent {
	maxCapacity := cfg.MaxCapacity
	if maxCapacity <= 0 {
		maxCapacity = max(DefaultMaxCapacity, cfg.BaseCapacity)
	}

	backpack := inventory.New(cfg.BaseCapacity,
		inventory.WithName(BackpackName),
		inventory.WithMaxCapacity(maxCapacity),
	)

	a := &Agent{
		Name:     name,
		Backpack: backpack,
		Stash:    inventory.New(cfg.StashCapacity, inventory.WithName(StashName)),
		Stores:   inventory.NewManager(),
		Stats:    stats.New(cfg.BaseStats),
		catalog:  catalog,
	}
	a.Stores.Register(BackpackName, a.Backpack)
	a.Stores.Register(StashName, a.Stash)

	opts := make([]actions.Option, 0, len(observers))
	for _, o := range observers {
		opts = append(opts, actions.WithObserver(o))
	}
	a.Runner = actions.NewRunner(a.Backpack, catalog, a.Stats, opts...)

	for _, k := range cfg.StarterKit {
		res, err := a.Give(k.Item, k.Quantity)
		if err != nil || res.Remaining > 0 {
			slog.Warn("starter kit item not fully granted", "agent", name, "item", k.Item, "quantity", k.Quantity)
		}
	}

	return a
}

// Give creates quantity units of itemID and adds them to the backpack,
// spreading over as many stacks as needed.
func (a *Agent) Give(itemID string, quantity int) (inventory.AddResult, error) {
	rec, ok := a.catalog.NewStack(itemID, 1)
	if !ok {
		return inventory.AddResult{}, NewUserError("There is no such item.")
	}
	if quantity <= 0 {
		return inventory.AddResult{}, NewUserError("Quantity must be positive.")
	}
	rec.Quantity = quantity
	return a.Backpack.AddItem(rec), nil
}

// Close releases the agent's subscriptions and stores.
func (a *Agent) Close() {
	a.Runner.Close()
	a.Stores.Unregister(BackpackName, a.Backpack)
	a.Stores.Unregister(StashName, a.Stash)
}
