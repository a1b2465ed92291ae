package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-satchel/internal/items"
	"github.com/pixil98/go-satchel/internal/session"
	"github.com/pixil98/go-satchel/internal/stats"
)

type AgentConfig struct {
	BaseCapacity  int                    `json:"base_capacity" env:"SATCHEL_BASE_CAPACITY"`
	StashCapacity int                    `json:"stash_capacity" env:"SATCHEL_STASH_CAPACITY"`
	MaxCapacity   int                    `json:"max_capacity,omitempty" env:"SATCHEL_MAX_CAPACITY"`
	BaseStats     map[items.StatType]int `json:"base_stats,omitempty"`
	StarterKit    []session.KitEntry     `json:"starter_kit,omitempty"`
}

func (c *AgentConfig) validate() error {
	el := errors.NewErrorList()

	if c.BaseCapacity <= 0 {
		el.Add(fmt.Errorf("agent base_capacity must be positive"))
	}
	if c.StashCapacity < 0 {
		el.Add(fmt.Errorf("agent stash_capacity must not be negative"))
	}
	if c.MaxCapacity != 0 && c.MaxCapacity < c.BaseCapacity {
		el.Add(fmt.Errorf("agent max_capacity must be at least base_capacity"))
	}
	if err := stats.ValidateBase(c.BaseStats); err != nil {
		el.Add(fmt.Errorf("agent base_stats: %w", err))
	}
	for i, k := range c.StarterKit {
		if k.Item == "" {
			el.Add(fmt.Errorf("starter_kit %d: item is required", i))
		}
		if k.Quantity <= 0 {
			el.Add(fmt.Errorf("starter_kit %d: quantity must be positive", i))
		}
	}

	return el.Err()
}

// checkKit reports starter kit entries that name unknown items.
func (c *AgentConfig) checkKit(defs items.DefinitionProvider) error {
	el := errors.NewErrorList()
	for i, k := range c.StarterKit {
		if _, ok := defs.Definition(k.Item); !ok {
			el.Add(fmt.Errorf("starter_kit %d: unknown item %q", i, k.Item))
		}
	}
	return el.Err()
}

func (c *AgentConfig) sessionConfig() session.AgentConfig {
	return session.AgentConfig{
		BaseCapacity:  c.BaseCapacity,
		StashCapacity: c.StashCapacity,
		MaxCapacity:   c.MaxCapacity,
		BaseStats:     c.BaseStats,
		StarterKit:    c.StarterKit,
	}
}
