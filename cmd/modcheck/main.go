// Command modcheck sends one message through a running moderator and prints
// the verdict. It is meant for operators tuning moderation settings.
//
// Usage:
//
//	go run ./cmd/modcheck/ [-nats nats://localhost:4222] [-user 0] [-timeout 5s] "pasame tu whatsapp"
//
// Exit code 0 if the message is clean, 1 if it is flagged, 2 on error.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/whisper/market-chat/internal/messaging"
	"github.com/whisper/market-chat/internal/moderation"
)

func main() {
	natsURL := flag.String("nats", "nats://localhost:4222", "NATS server URL")
	userID := flag.Int64("user", 0, "author user id (0 classifies without enforcement)")
	timeout := flag.Duration("timeout", 5*time.Second, "how long to wait for the verdict")
	flag.Parse()

	text := strings.Join(flag.Args(), " ")
	if text == "" {
		fmt.Fprintln(os.Stderr, "usage: modcheck [flags] <message>")
		os.Exit(2)
	}

	cfg := messaging.DefaultNATSConfig()
	cfg.URL = *natsURL
	cfg.Name = "market-chat-modcheck"
	cfg.MaxReconnects = 0

	client, err := messaging.NewNATSClient(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect: %v\n", err)
		os.Exit(2)
	}

	resp, err := check(client, newRequest(text, *userID), *timeout)
	client.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	out, _ := json.MarshalIndent(resp, "", "  ")
	fmt.Println(string(out))
	if resp.Blocked {
		os.Exit(1)
	}
}

// newRequest builds a request on a throwaway chat so the result subject is
// not shared with real conversations.
func newRequest(text string, userID int64) moderation.ModerationRequest {
	return moderation.ModerationRequest{
		MessageID: uuid.NewString(),
		ChatID:    "modcheck-" + uuid.NewString(),
		UserID:    userID,
		Text:      text,
		Ts:        time.Now().UnixMilli(),
	}
}

func check(client *messaging.NATSClient, req moderation.ModerationRequest, timeout time.Duration) (moderation.ModerationResult, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return moderation.ModerationResult{}, fmt.Errorf("marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	raw, err := client.RequestModeration(ctx, req.ChatID, data)
	if err != nil {
		return moderation.ModerationResult{}, err
	}

	var resp moderation.ModerationResult
	if err := json.Unmarshal(raw, &resp); err != nil {
		return moderation.ModerationResult{}, fmt.Errorf("unmarshal result: %w", err)
	}
	return resp, nil
}
