package messaging

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-satchel/internal/actions"
	"github.com/pixil98/go-satchel/internal/display"
)

// BroadcastSubject carries human-readable lines shared by every session.
const BroadcastSubject = "room.broadcast"

// DefaultDropTemplate renders the broadcast sent when an item is dropped.
const DefaultDropTemplate = `{{ .Agent }} drops {{ if gt .Quantity 1 }}{{ .Quantity }} x {{ end }}{{ .Item }}.`

// Publisher sends raw messages to a subject.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// ItemSubject returns the subject for an agent's item events of kind.
func ItemSubject(agent string, kind actions.EventKind) string {
	return fmt.Sprintf("items.%s.%s", agent, kind)
}

// ItemMessage is the JSON body published for each item event.
type ItemMessage struct {
	Agent string        `json:"agent"`
	Event actions.Event `json:"event"`
}

// Broadcast is the JSON body published on BroadcastSubject.
type Broadcast struct {
	From string `json:"from"`
	Text string `json:"text"`
}

// DropData is what drop templates render against.
type DropData struct {
	Agent    string
	Item     string
	Quantity int
}

// EventPublisher forwards one agent's item events to NATS.
type EventPublisher struct {
	pub   Publisher
	agent string
	drop  *display.Template
}

var _ actions.Observer = (*EventPublisher)(nil)

// NewEventPublisher creates a publisher for agent. An empty dropTemplate uses
// DefaultDropTemplate. A template that fails to parse disables drop
// broadcasts; item events are still published.
func NewEventPublisher(pub Publisher, agent string, dropTemplate string) *EventPublisher {
	p := &EventPublisher{pub: pub, agent: agent}

	drop, err := ParseDropTemplate(dropTemplate)
	if err != nil {
		slog.Warn("drop broadcasts disabled", "agent", agent, "error", err)
	}
	p.drop = drop
	return p
}

// ParseDropTemplate compiles text, or DefaultDropTemplate when text is empty,
// and checks that it renders against DropData.
func ParseDropTemplate(text string) (*display.Template, error) {
	if text == "" {
		text = DefaultDropTemplate
	}
	t, err := display.ParseTemplate("drop", text)
	if err != nil {
		return nil, err
	}
	if _, err := t.Render(DropData{Agent: "someone", Item: "something", Quantity: 2}); err != nil {
		return nil, err
	}
	return t, nil
}

// ItemEvent satisfies actions.Observer. Delivery failures are logged.
func (p *EventPublisher) ItemEvent(e actions.Event) {
	data, err := json.Marshal(ItemMessage{Agent: p.agent, Event: e})
	if err != nil {
		slog.Error("encoding item event", "agent", p.agent, "error", err)
		return
	}
	if err := p.pub.Publish(ItemSubject(p.agent, e.Kind), data); err != nil {
		slog.Warn("publishing item event", "agent", p.agent, "kind", e.Kind, "error", err)
	}

	if e.Kind == actions.EventDropped && p.drop != nil {
		p.broadcastDrop(e)
	}
}

func (p *EventPublisher) broadcastDrop(e actions.Event) {
	text, err := p.drop.Render(DropData{
		Agent:    p.agent,
		Item:     e.Stack.Name(),
		Quantity: e.Stack.Quantity,
	})
	if err != nil {
		slog.Warn("rendering drop broadcast", "agent", p.agent, "error", err)
		return
	}

	data, err := json.Marshal(Broadcast{From: p.agent, Text: text})
	if err != nil {
		slog.Error("encoding broadcast", "agent", p.agent, "error", err)
		return
	}
	if err := p.pub.Publish(BroadcastSubject, data); err != nil {
		slog.Warn("publishing broadcast", "agent", p.agent, "error", err)
	}
}
