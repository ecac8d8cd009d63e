// Package messaging provides a NATS client wrapper for the moderation
// service. It carries moderation requests and results between the chat
// pipeline and the moderator, and publishes escalation events for
// notification delivery.
package messaging

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// NATS subject patterns used by the moderation service.
const (
	SubjectModeration       = "moderation.check"
	SubjectModerationResult = "moderation.result" // + .<chat_id>
	SubjectModerationEvent  = "moderation.event"  // + .<kind>

	// QueueModerators lets several moderator instances share the check load.
	QueueModerators = "moderators"
)

// NATSClient wraps the NATS connection with helper methods for pub/sub.
type NATSClient struct {
	conn *nats.Conn
	mu   sync.Mutex
	subs map[string]*nats.Subscription
}

// NATSConfig holds NATS connection settings.
type NATSConfig struct {
	URL           string        // nats://localhost:4222
	Name          string        // client name for identification
	ReconnectWait time.Duration // time between reconnect attempts
	MaxReconnects int           // max reconnect attempts (-1 for infinite)
}

// DefaultNATSConfig returns sensible defaults.
func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		URL:           "nats://localhost:4222",
		Name:          "market-chat-moderator",
		ReconnectWait: 2 * time.Second,
		MaxReconnects: -1, // infinite reconnects
	}
}

// NewNATSClient connects to NATS with the given config and returns a ready client.
// It returns an error if the initial connection fails.
func NewNATSClient(config NATSConfig) (*NATSClient, error) {
	opts := []nats.Option{
		nats.Name(config.Name),
		nats.ReconnectWait(config.ReconnectWait),
		nats.MaxReconnects(config.MaxReconnects),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Printf("[nats] disconnected: %v", err)
			} else {
				log.Printf("[nats] disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("[nats] reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			log.Printf("[nats] connection closed")
		}),
	}

	nc, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	log.Printf("[nats] connected to %s", nc.ConnectedUrl())

	return &NATSClient{
		conn: nc,
		subs: make(map[string]*nats.Subscription),
	}, nil
}

// Publish sends data to the given NATS subject.
func (c *NATSClient) Publish(subject string, data []byte) error {
	return c.conn.Publish(subject, data)
}

// Subscribe registers a handler for the given subject and stores the
// subscription internally for later cleanup.
func (c *NATSClient) Subscribe(subject string, handler func(msg *nats.Msg)) error {
	sub, err := c.conn.Subscribe(subject, handler)
	if err != nil {
		return fmt.Errorf("nats subscribe %s: %w", subject, err)
	}
	c.track(subject, sub)
	return nil
}

// QueueSubscribe registers a queue-group handler so each message is handled
// by exactly one member of the group.
func (c *NATSClient) QueueSubscribe(subject, queue string, handler func(msg *nats.Msg)) error {
	sub, err := c.conn.QueueSubscribe(subject, queue, handler)
	if err != nil {
		return fmt.Errorf("nats queue subscribe %s: %w", subject, err)
	}
	c.track(subject+"#"+queue, sub)
	return nil
}

// PublishModerationRequest publishes a moderation check request.
func (c *NATSClient) PublishModerationRequest(data []byte) error {
	return c.Publish(SubjectModeration, data)
}

// SubscribeModerationCheck subscribes to moderation check requests in the
// moderators queue group.
func (c *NATSClient) SubscribeModerationCheck(handler func(data []byte)) error {
	return c.QueueSubscribe(SubjectModeration, QueueModerators, func(msg *nats.Msg) {
		handler(msg.Data)
	})
}

// PublishModerationResult publishes a moderation result for a chat.
func (c *NATSClient) PublishModerationResult(chatID string, data []byte) error {
	return c.Publish(SubjectModerationResult+"."+chatID, data)
}

// SubscribeModerationResult subscribes to moderation results for a chat.
func (c *NATSClient) SubscribeModerationResult(chatID string, handler func(data []byte)) error {
	return c.Subscribe(SubjectModerationResult+"."+chatID, func(msg *nats.Msg) {
		handler(msg.Data)
	})
}

// UnsubscribeModerationResult unsubscribes from moderation results for a chat.
func (c *NATSClient) UnsubscribeModerationResult(chatID string) error {
	return c.unsubscribe(SubjectModerationResult + "." + chatID)
}

// RequestModeration publishes a moderation check for chatID and waits for
// the first result on that chat's result subject. ctx must carry a
// deadline. The result subscription is removed before returning.
func (c *NATSClient) RequestModeration(ctx context.Context, chatID string, data []byte) ([]byte, error) {
	results := make(chan []byte, 1)
	err := c.SubscribeModerationResult(chatID, func(data []byte) {
		select {
		case results <- data:
		default:
		}
	})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := c.UnsubscribeModerationResult(chatID); err != nil {
			log.Printf("[nats] %v", err)
		}
	}()

	// The result subscription must reach the server before the request does.
	if err := c.conn.FlushWithContext(ctx); err != nil {
		return nil, fmt.Errorf("nats flush: %w", err)
	}
	if err := c.PublishModerationRequest(data); err != nil {
		return nil, fmt.Errorf("nats publish %s: %w", SubjectModeration, err)
	}

	select {
	case data := <-results:
		return data, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("nats: waiting for result of chat %s: %w", chatID, ctx.Err())
	}
}

// PublishEvent publishes an escalation event on moderation.event.<kind>.
func (c *NATSClient) PublishEvent(kind string, data []byte) error {
	return c.Publish(SubjectModerationEvent+"."+kind, data)
}

// SubscribeEvents subscribes to every escalation event. The handler
// receives the event kind and payload.
func (c *NATSClient) SubscribeEvents(handler func(kind string, data []byte)) error {
	prefix := SubjectModerationEvent + "."
	return c.Subscribe(prefix+"*", func(msg *nats.Msg) {
		handler(msg.Subject[len(prefix):], msg.Data)
	})
}

// Close drains all active subscriptions and closes the NATS connection.
func (c *NATSClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for subject, sub := range c.subs {
		if err := sub.Drain(); err != nil {
			log.Printf("[nats] drain %s: %v", subject, err)
		}
	}
	c.subs = make(map[string]*nats.Subscription)

	if err := c.conn.Drain(); err != nil {
		log.Printf("[nats] connection drain: %v", err)
	}

	log.Printf("[nats] client closed")
}

func (c *NATSClient) track(key string, sub *nats.Subscription) {
	c.mu.Lock()
	c.subs[key] = sub
	c.mu.Unlock()
}

// unsubscribe removes and unsubscribes from a specific subject.
func (c *NATSClient) unsubscribe(subject string) error {
	c.mu.Lock()
	sub, ok := c.subs[subject]
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("nats: no subscription for subject %s", subject)
	}
	delete(c.subs, subject)
	c.mu.Unlock()

	if err := sub.Unsubscribe(); err != nil {
		return fmt.Errorf("nats unsubscribe %s: %w", subject, err)
	}
	return nil
}
