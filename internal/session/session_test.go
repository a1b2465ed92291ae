package session

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pixil98/go-satchel/internal/messaging"
	"github.com/pixil98/go-testutil"
)

type fakeConn struct {
	io.Reader
	io.Writer
}

type fakeBus struct {
	mu        sync.Mutex
	published []string
	handlers  map[string][]func([]byte)
}

func newFakeBus() *fakeBus {
	return &fakeBus{handlers: make(map[string][]func([]byte))}
}

func (b *fakeBus) Publish(subject string, data []byte) error {
	b.mu.Lock()
	b.published = append(b.published, subject)
	handlers := b.handlers[subject]
	b.mu.Unlock()

	for _, h := range handlers {
		h(data)
	}
	return nil
}

func (b *fakeBus) Subscribe(subject string, handler func([]byte)) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[subject] = append(b.handlers[subject], handler)
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers, subject)
	}, nil
}

func TestSession_Play(t *testing.T) {
	tests := map[string]struct {
		input       string
		expContains []string
		expMissing  []string
	}{
		"quit": {
			input:       "quit\n",
			expContains: []string{"Backpack (2/4):", "[100/100HP] > ", "Goodbye!"},
		},
		"use and inventory": {
			input:       "use 0\ni\nquit\n",
			expContains: []string{"You use Potion.", "[  0] Potion x2", "Goodbye!"},
		},
		"user errors keep the session going": {
			input:       "dance\nlook 3\nquit\n",
			expContains: []string{"Unknown command: dance", "Slot 3 is empty.", "Goodbye!"},
		},
		"blank lines reprompt": {
			input:       "\n   \nquit\n",
			expContains: []string{"Goodbye!"},
			expMissing:  []string{"Unknown command"},
		},
		"connection closed": {
			input:      "equip 1\n",
			expMissing: []string{"Goodbye!"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			a := newTestAgent(t)
			var out bytes.Buffer
			s := NewSession(bufio.NewReader(strings.NewReader(tt.input)), &out, a, NewHandler())

			err := s.Play(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			for _, exp := range tt.expContains {
				if !strings.Contains(out.String(), exp) {
					t.Errorf("output missing %q:\n%s", exp, out.String())
				}
			}
			for _, exp := range tt.expMissing {
				if strings.Contains(out.String(), exp) {
					t.Errorf("output unexpectedly contains %q:\n%s", exp, out.String())
				}
			}
		})
	}
}

func TestSession_Notify(t *testing.T) {
	a := newTestAgent(t)
	pr, pw := io.Pipe()
	out := &syncBuffer{}
	s := NewSession(bufio.NewReader(pr), out, a, NewHandler())

	done := make(chan error, 1)
	go func() { done <- s.Play(context.Background()) }()

	s.Notify("bob drops Sword.")
	waitFor(t, func() bool { return strings.Contains(out.String(), "bob drops Sword.") })

	pw.Close()
	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSession_NotifyDropsWhenFull(t *testing.T) {
	a := newTestAgent(t)
	s := NewSession(bufio.NewReader(strings.NewReader("")), io.Discard, a, NewHandler())

	for range cap(s.msgs) + 5 {
		s.Notify("spam")
	}

	testutil.AssertEqual(t, "queued", len(s.msgs), cap(s.msgs))
}

func TestManager_RunSession(t *testing.T) {
	bus := newFakeBus()
	m := NewManager(testCatalog(t), testAgentConfig, WithBus(bus))

	var out bytes.Buffer
	conn := fakeConn{Reader: strings.NewReader("b0b\nAlice\ndrop 0\nquit\n"), Writer: &out}

	if err := m.RunSession(context.Background(), conn); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := out.String()
	for _, exp := range []string{"Welcome to Satchel!", "Invalid name, please try another.", "You drop 3 x Potion.", "Goodbye!"} {
		if !strings.Contains(output, exp) {
			t.Errorf("output missing %q:\n%s", exp, output)
		}
	}
	if strings.Contains(output, "alice drops") {
		t.Errorf("own broadcast echoed back:\n%s", output)
	}

	testutil.AssertEqual(t, "published", bus.published, []string{"items.alice.dropped", messaging.BroadcastSubject})
	testutil.AssertEqual(t, "active after session", m.Active(), 0)
	testutil.AssertEqual(t, "subscriptions released", len(bus.handlers), 0)
}

func TestManager_RunSession_ForwardsBroadcasts(t *testing.T) {
	bus := newFakeBus()
	m := NewManager(testCatalog(t), testAgentConfig, WithBus(bus))

	pr, pw := io.Pipe()
	out := &syncBuffer{}
	conn := fakeConn{Reader: pr, Writer: out}

	done := make(chan error, 1)
	go func() { done <- m.RunSession(context.Background(), conn) }()

	if _, err := io.WriteString(pw, "alice\n"); err != nil {
		t.Fatalf("writing input: %v", err)
	}
	waitFor(t, func() bool { return strings.Contains(out.String(), "Backpack (2/4):") })

	data, err := json.Marshal(messaging.Broadcast{From: "bob", Text: "bob drops Sword."})
	if err != nil {
		t.Fatalf("encoding broadcast: %v", err)
	}
	if err := bus.Publish(messaging.BroadcastSubject, data); err != nil {
		t.Fatalf("publishing: %v", err)
	}
	waitFor(t, func() bool { return strings.Contains(out.String(), "bob drops Sword.") })

	if _, err := io.WriteString(pw, "quit\n"); err != nil {
		t.Fatalf("writing input: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pw.Close()
}

func TestManager_NamesAreUnique(t *testing.T) {
	m := NewManager(testCatalog(t), testAgentConfig)
	if !m.claim("alice") {
		t.Fatalf("first claim failed")
	}

	var out bytes.Buffer
	conn := fakeConn{Reader: strings.NewReader("alice\nALICE\nbob\nquit\n"), Writer: &out}

	if err := m.RunSession(context.Background(), conn); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "taken messages", strings.Count(out.String(), "Someone by that name is already here."), 2)
	testutil.AssertEqual(t, "active after session", m.Active(), 1)
}

func TestManager_TooManyNameTries(t *testing.T) {
	m := NewManager(testCatalog(t), testAgentConfig)

	var out bytes.Buffer
	conn := fakeConn{Reader: strings.NewReader("1\n2\n3\n"), Writer: &out}

	err := m.RunSession(context.Background(), conn)
	testutil.AssertErrorContains(t, err, "too many tries")
}

// syncBuffer is a bytes.Buffer safe for one writer and one reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for condition")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
