package messaging

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/whisper/market-chat/internal/escalation"
)

// newTestClient connects to the NATS server named by NATS_URL, or
// localhost. Tests are skipped when it is not reachable.
func newTestClient(t *testing.T) *NATSClient {
	t.Helper()
	cfg := DefaultNATSConfig()
	cfg.Name = "market-chat-test"
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.URL = v
	}
	client, err := NewNATSClient(cfg)
	if err != nil {
		t.Skipf("nats not available: %v", err)
	}
	t.Cleanup(client.Close)
	return client
}

func TestRequestModeration_RoundTrip(t *testing.T) {
	client := newTestClient(t)

	err := client.SubscribeModerationCheck(func(data []byte) {
		reply := append([]byte("checked:"), data...)
		if err := client.PublishModerationResult("chat-rt", reply); err != nil {
			t.Errorf("PublishModerationResult() error: %v", err)
		}
	})
	if err != nil {
		t.Fatalf("SubscribeModerationCheck() error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got, err := client.RequestModeration(ctx, "chat-rt", []byte("hola"))
	if err != nil {
		t.Fatalf("RequestModeration() error: %v", err)
	}
	if string(got) != "checked:hola" {
		t.Errorf("result = %q, want %q", got, "checked:hola")
	}

	// The result subscription is gone once the request returns.
	if err := client.UnsubscribeModerationResult("chat-rt"); err == nil {
		t.Error("result subscription still registered after RequestModeration")
	}
}

func TestRequestModeration_Timeout(t *testing.T) {
	client := newTestClient(t)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	if _, err := client.RequestModeration(ctx, "chat-nobody-listens", []byte("hola")); err == nil {
		t.Error("RequestModeration() without a moderator should time out")
	}
}

func TestSubscribeEvents(t *testing.T) {
	client := newTestClient(t)

	received := make(chan escalation.Event, 1)
	err := client.SubscribeEvents(func(kind string, data []byte) {
		ev, err := DecodeEvent(kind, data)
		if err != nil {
			t.Errorf("DecodeEvent() error: %v", err)
			return
		}
		received <- ev
	})
	if err != nil {
		t.Fatalf("SubscribeEvents() error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.conn.FlushWithContext(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}

	sink := NewEventPublisher(client)
	if err := sink.Emit(ctx, escalation.AccountBlockedEvent{ID: "evt-1", UserID: 7, StrikeCount: 3}); err != nil {
		t.Fatalf("Emit() error: %v", err)
	}

	select {
	case ev := <-received:
		blocked, ok := ev.(escalation.AccountBlockedEvent)
		if !ok || blocked.UserID != 7 {
			t.Errorf("received %#v, want account blocked for user 7", ev)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for event")
	}
}
