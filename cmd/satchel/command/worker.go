package command

import (
	"context"
	"fmt"

	"github.com/pixil98/go-satchel/internal/listener"
	"github.com/pixil98/go-satchel/internal/session"
	"github.com/pixil98/go-satchel/internal/telemetry"
	"github.com/pixil98/go-service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	// Load item definitions
	catalog, err := cfg.Storage.BuildCatalog()
	if err != nil {
		return nil, err
	}
	if err := cfg.Agent.checkKit(catalog); err != nil {
		return nil, fmt.Errorf("validating agent config: %w", err)
	}

	// Tracing
	shutdown, err := telemetry.Setup(context.Background(), cfg.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("setting up telemetry: %w", err)
	}

	// Message bus for item events and broadcasts
	broker, err := cfg.Nats.buildBroker()
	if err != nil {
		return nil, fmt.Errorf("creating message broker: %w", err)
	}

	sessions := session.NewManager(catalog, cfg.Agent.sessionConfig(),
		session.WithBus(broker),
		session.WithDropTemplate(cfg.Nats.DropTemplate),
	)
	cm := listener.NewConnectionManager(sessions)

	// Create Listeners
	listeners := make(service.WorkerList, len(cfg.Listeners))
	for i, l := range cfg.Listeners {
		worker, err := l.BuildListener(cm)
		if err != nil {
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		listeners[fmt.Sprintf("%s-%d", l.Protocol, i)] = worker
	}

	return service.WorkerList{
		"telemetry": telemetry.NewWorker(shutdown),
		"broker":    broker,
		"sessions":  sessions,
		"listeners": &listeners,
	}, nil
}
