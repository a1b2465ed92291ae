package command

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-satchel/internal/telemetry"
)

type Config struct {
	Listeners []ListenerConfig `json:"listeners"`
	Storage   StorageConfig    `json:"storage"`
	Nats      NatsConfig       `json:"nats"`
	Agent     AgentConfig      `json:"agent"`
	Telemetry telemetry.Config `json:"telemetry"`
}

// ApplyEnv overlays SATCHEL_* environment variables onto the loaded config.
// Listeners are only configurable from the file.
func (c *Config) ApplyEnv() error {
	sections := map[string]any{
		"storage":   &c.Storage,
		"nats":      &c.Nats,
		"agent":     &c.Agent,
		"telemetry": &c.Telemetry,
	}
	for name, section := range sections {
		if err := env.Parse(section); err != nil {
			return fmt.Errorf("parsing %s environment: %w", name, err)
		}
	}
	return nil
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if len(c.Listeners) == 0 {
		el.Add(fmt.Errorf("at least one listener is required"))
	}
	for i, l := range c.Listeners {
		err := l.validate()
		if err != nil {
			el.Add(fmt.Errorf("listener %d: %w", i, err))
		}
	}

	el.Add(c.Storage.validate())
	el.Add(c.Nats.validate())
	el.Add(c.Agent.validate())

	if err := c.Telemetry.Validate(); err != nil {
		el.Add(fmt.Errorf("telemetry: %w", err))
	}

	return el.Err()
}
