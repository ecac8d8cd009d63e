package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/whisper/market-chat/internal/escalation"
)

// Publisher is the subset of NATSClient used to publish events.
type Publisher interface {
	PublishEvent(kind string, data []byte) error
}

// EventPublisher implements escalation.EventSink by publishing JSON events
// on moderation.event.<kind>.
type EventPublisher struct {
	pub Publisher
}

var _ escalation.EventSink = (*EventPublisher)(nil)

// NewEventPublisher creates an EventPublisher.
func NewEventPublisher(pub Publisher) *EventPublisher {
	return &EventPublisher{pub: pub}
}

// Emit implements escalation.EventSink.
func (p *EventPublisher) Emit(_ context.Context, event escalation.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("messaging: marshal %s: %w", event.Kind(), err)
	}
	if err := p.pub.PublishEvent(event.Kind(), data); err != nil {
		return fmt.Errorf("messaging: publish %s: %w", event.Kind(), err)
	}
	return nil
}
