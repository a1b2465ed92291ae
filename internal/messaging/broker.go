package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

var errNotStarted = errors.New("broker not started")

// Broker embeds a NATS server in the process and holds one client
// connection to it that every session shares.
type Broker struct {
	opts    server.Options
	timeout time.Duration

	ns    *server.Server
	conn  *nats.Conn
	ready chan struct{}
}

type BrokerOption func(*Broker)

// WithStartTimeout bounds how long Start waits for the server to accept
// clients.
func WithStartTimeout(d time.Duration) BrokerOption {
	return func(b *Broker) { b.timeout = d }
}

// WithHost sets the interface the server binds to.
func WithHost(host string) BrokerOption {
	return func(b *Broker) { b.opts.Host = host }
}

// WithPort sets the client port. -1 picks a free port.
func WithPort(port int) BrokerOption {
	return func(b *Broker) { b.opts.Port = port }
}

func NewBroker(opts ...BrokerOption) (*Broker, error) {
	b := &Broker{
		opts: server.Options{
			ServerName: "satchel",
			Host:       "127.0.0.1",
			NoSigs:     true,
			NoLog:      true,
		},
		timeout: 10 * time.Second,
		ready:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}

	ns, err := server.NewServer(&b.opts)
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}
	b.ns = ns
	return b, nil
}

// Start runs the server until ctx ends.
func (b *Broker) Start(ctx context.Context) error {
	b.ns.Start()
	defer func() {
		b.ns.Shutdown()
		b.ns.WaitForShutdown()
	}()

	if !b.ns.ReadyForConnections(b.timeout) {
		return fmt.Errorf("nats server not ready after %s", b.timeout)
	}

	conn, err := nats.Connect(b.ns.ClientURL(), nats.Name("satchel-sessions"))
	if err != nil {
		return fmt.Errorf("connecting to nats server: %w", err)
	}
	defer conn.Close()

	b.conn = conn
	close(b.ready)
	slog.InfoContext(ctx, "message broker listening", "url", b.ns.ClientURL())

	<-ctx.Done()
	return nil
}

// WaitReady blocks until the client connection is up or ctx ends.
func (b *Broker) WaitReady(ctx context.Context) error {
	select {
	case <-b.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// client returns the shared connection once Start has established it.
func (b *Broker) client() (*nats.Conn, error) {
	select {
	case <-b.ready:
		return b.conn, nil
	default:
		return nil, errNotStarted
	}
}

// Subscribe delivers every message on subject to handler until the returned
// function is called.
func (b *Broker) Subscribe(subject string, handler func(data []byte)) (func(), error) {
	conn, err := b.client()
	if err != nil {
		return nil, err
	}
	sub, err := conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribing to %s: %w", subject, err)
	}
	return func() {
		if err := sub.Unsubscribe(); err != nil && !errors.Is(err, nats.ErrConnectionClosed) {
			slog.Warn("unsubscribing", "subject", subject, "error", err)
		}
	}, nil
}

func (b *Broker) Publish(subject string, data []byte) error {
	conn, err := b.client()
	if err != nil {
		return err
	}
	return conn.Publish(subject, data)
}
