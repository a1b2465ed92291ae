package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-satchel/internal/messaging"
)

type NatsConfig struct {
	Host         string `json:"host" env:"SATCHEL_NATS_HOST"`
	Port         int    `json:"port" env:"SATCHEL_NATS_PORT"`
	StartTimeout string `json:"start_timeout"`

	// DropTemplate renders the broadcast line sent when an agent drops an item.
	DropTemplate string `json:"drop_template,omitempty" env:"SATCHEL_DROP_TEMPLATE"`
}

func (n *NatsConfig) validate() error {
	el := errors.NewErrorList()

	if n.StartTimeout != "" {
		_, err := time.ParseDuration(n.StartTimeout)
		if err != nil {
			el.Add(fmt.Errorf("parsing start_timeout: %w", err))
		}
	}
	if n.Port < 0 || n.Port > 65535 {
		el.Add(fmt.Errorf("nats port %d is out of range", n.Port))
	}
	if n.DropTemplate != "" {
		if _, err := messaging.ParseDropTemplate(n.DropTemplate); err != nil {
			el.Add(fmt.Errorf("drop_template: %w", err))
		}
	}

	return el.Err()
}

func (n *NatsConfig) buildBroker() (*messaging.Broker, error) {
	var opts []messaging.BrokerOption
	if n.StartTimeout != "" {
		d, err := time.ParseDuration(n.StartTimeout)
		if err != nil {
			return nil, fmt.Errorf("parsing start_timeout: %w", err)
		}
		opts = append(opts, messaging.WithStartTimeout(d))
	}
	if n.Host != "" {
		opts = append(opts, messaging.WithHost(n.Host))
	}
	if n.Port != 0 {
		opts = append(opts, messaging.WithPort(n.Port))
	}

	return messaging.NewBroker(opts...)
}
