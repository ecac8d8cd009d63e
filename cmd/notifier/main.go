// Command notifier consumes escalation events from NATS and turns them into
// seller notifications. Delivery is currently a structured log line per
// event, which the notification pipeline tails.
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/whisper/market-chat/internal/escalation"
	"github.com/whisper/market-chat/internal/messaging"
)

func main() {
	log.Println("Starting moderation event notifier...")

	natsConfig := messaging.DefaultNATSConfig()
	natsConfig.Name = "market-chat-notifier"
	if v := os.Getenv("NATS_URL"); v != "" {
		natsConfig.URL = v
	}

	natsClient, err := messaging.NewNATSClient(natsConfig)
	if err != nil {
		log.Fatalf("failed to connect to NATS: %v", err)
	}

	err = natsClient.SubscribeEvents(func(kind string, data []byte) {
		event, err := messaging.DecodeEvent(kind, data)
		if err != nil {
			log.Printf("[notifier] %v", err)
			return
		}
		log.Printf("[notifier] %s", notification(event))
	})
	if err != nil {
		log.Fatalf("failed to subscribe to events: %v", err)
	}

	log.Printf("Notifier running, nats_url: %s", natsConfig.URL)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("received signal %v, shutting down...", sig)

	natsClient.Close()
}

// notification renders the message shown to the affected seller.
func notification(event escalation.Event) string {
	switch e := event.(type) {
	case escalation.StrikeAddedEvent:
		return fmt.Sprintf("user=%d event=%s strike=%d: recibiste una advertencia: %s",
			e.UserID, e.ID, e.StrikeID, e.Reason)
	case escalation.AccountBlockedEvent:
		return fmt.Sprintf("user=%d event=%s strikes=%d: tu cuenta fue bloqueada por compartir datos de contacto",
			e.UserID, e.ID, e.StrikeCount)
	default:
		return fmt.Sprintf("unhandled event kind %s", event.Kind())
	}
}
