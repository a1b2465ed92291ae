package session

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"unicode"

	"github.com/pixil98/go-satchel/internal/actions"
	"github.com/pixil98/go-satchel/internal/messaging"
)

const (
	maxNameLength = 16
	maxNameTries  = 3
)

// Bus publishes and subscribes to messages shared between sessions.
type Bus interface {
	messaging.Publisher
	Subscribe(subject string, handler func(data []byte)) (func(), error)
}

// readyWaiter is implemented by buses that connect asynchronously.
type readyWaiter interface {
	WaitReady(ctx context.Context) error
}

type ManagerOpt func(*Manager)

// WithDropTemplate overrides the template used for drop broadcasts.
func WithDropTemplate(tmpl string) ManagerOpt {
	return func(m *Manager) {
		m.dropTemplate = tmpl
	}
}

// WithBus connects sessions to a message bus for item events and broadcasts.
func WithBus(bus Bus) ManagerOpt {
	return func(m *Manager) {
		m.bus = bus
	}
}

// Manager creates an agent for each connection and runs its session.
type Manager struct {
	catalog      Catalog
	cfg          AgentConfig
	handler      *Handler
	bus          Bus
	dropTemplate string

	mu     sync.Mutex
	active map[string]struct{}
}

func NewManager(catalog Catalog, cfg AgentConfig, opts ...ManagerOpt) *Manager {
	m := &Manager{
		catalog: catalog,
		cfg:     cfg,
		handler: NewHandler(),
		active:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Start(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

// Active returns the number of connected agents.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active)
}

func (m *Manager) claim(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.active[name]; taken {
		return false
	}
	m.active[name] = struct{}{}
	return true
}

func (m *Manager) release(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.active, name)
}

var errInvalidName = errors.New("Invalid name, please try another.")

// validName accepts 1 to maxNameLength letters.
func validName(name string) error {
	if name == "" || len(name) > maxNameLength {
		return errInvalidName
	}
	for _, r := range name {
		if !unicode.IsLetter(r) {
			return errInvalidName
		}
	}
	return nil
}

// RunSession greets the connection, claims a unique agent name and plays
// until the connection ends.
func (m *Manager) RunSession(ctx context.Context, conn io.ReadWriter) error {
	in := bufio.NewReader(conn)
	if _, err := io.WriteString(conn, "Welcome to Satchel!\n"); err != nil {
		return err
	}

	name, err := m.login(conn, in)
	if err != nil {
		return err
	}
	defer m.release(name)

	if w, ok := m.bus.(readyWaiter); ok {
		if err := w.WaitReady(ctx); err != nil {
			return fmt.Errorf("waiting for message bus: %w", err)
		}
	}

	var observers []actions.Observer
	if m.bus != nil {
		observers = append(observers, messaging.NewEventPublisher(m.bus, name, m.dropTemplate))
	}
	agent := NewAgent(name, m.cfg, m.catalog, observers...)
	defer agent.Close()

	sess := NewSession(in, conn, agent, m.handler)

	if m.bus != nil {
		unsub, err := m.bus.Subscribe(messaging.BroadcastSubject, func(data []byte) {
			var b messaging.Broadcast
			if err := json.Unmarshal(data, &b); err != nil {
				slog.Warn("decoding broadcast", "error", err)
				return
			}
			if b.From == name {
				return
			}
			sess.Notify(b.Text)
		})
		if err != nil {
			slog.WarnContext(ctx, "broadcasts unavailable", "agent", name, "error", err)
		} else {
			defer unsub()
		}
	}

	slog.InfoContext(ctx, "session started", "agent", name)
	err = sess.Play(ctx)
	slog.InfoContext(ctx, "session ended", "agent", name)
	return err
}

func (m *Manager) login(w io.Writer, in *bufio.Reader) (string, error) {
	q := question{
		text:     "By what name do you wish to be known? ",
		check:    validName,
		attempts: maxNameTries,
	}
	for range maxNameTries {
		raw, err := q.ask(w, in)
		if err != nil {
			return "", fmt.Errorf("reading name: %w", err)
		}

		name := strings.ToLower(raw)
		if m.claim(name) {
			return name, nil
		}
		if _, err := io.WriteString(w, "Someone by that name is already here.\n"); err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("reading name: %w", errTooManyTries)
}
