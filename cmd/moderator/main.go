package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/whisper/market-chat/internal/account"
	"github.com/whisper/market-chat/internal/chat"
	"github.com/whisper/market-chat/internal/config"
	"github.com/whisper/market-chat/internal/database"
	"github.com/whisper/market-chat/internal/escalation"
	"github.com/whisper/market-chat/internal/lock"
	"github.com/whisper/market-chat/internal/messaging"
	"github.com/whisper/market-chat/internal/metrics"
	"github.com/whisper/market-chat/internal/moderation"
	"github.com/whisper/market-chat/internal/strike"
)

func main() {
	log.Println("Starting marketplace chat moderation service...")

	redisAddr := envOr("REDIS_ADDR", "localhost:6379")
	databaseURL := envOr("DATABASE_URL", "postgres://localhost:5432/market_chat?sslmode=disable")
	metricsAddr := envOr("METRICS_ADDR", ":9102")
	configFile := os.Getenv("MODERATION_CONFIG_FILE")

	// Redis setup.
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := rdb.Ping(ctx).Err(); err != nil {
		cancel()
		log.Fatalf("failed to connect to Redis: %v", err)
	}
	cancel()

	// PostgreSQL setup.
	db, err := database.Open(context.Background(), databaseURL)
	if err != nil {
		log.Fatalf("failed to connect to PostgreSQL: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// NATS setup.
	natsConfig := messaging.DefaultNATSConfig()
	if v := os.Getenv("NATS_URL"); v != "" {
		natsConfig.URL = v
	}

	natsClient, err := messaging.NewNATSClient(natsConfig)
	if err != nil {
		log.Fatalf("failed to connect to NATS: %v", err)
	}

	// Settings are looked up per message: Redis first, then the optional
	// YAML file, then built-in defaults.
	sources := config.Chain{config.NewRedisSource(rdb, "")}
	if configFile != "" {
		sources = append(sources, config.NewFileSource(configFile))
	}
	settings := config.NewReader(sources)

	engine := escalation.NewEngine(
		strike.NewStore(db),
		account.NewStore(db),
		messaging.NewEventPublisher(natsClient),
		lock.NewRedisLocker(rdb),
	)
	service := moderation.NewService(moderation.NewFilter(), settings, engine)

	err = subscribeChecks(natsClient, service)
	if err != nil {
		log.Fatalf("failed to subscribe to moderation checks: %v", err)
	}

	// Metrics endpoint.
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	metricsServer := &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[moderator] metrics server: %v", err)
		}
	}()

	log.Printf("Marketplace chat moderation service running")
	log.Printf("  redis_addr:   %s", redisAddr)
	log.Printf("  nats_url:     %s", natsConfig.URL)
	log.Printf("  metrics_addr: %s", metricsAddr)
	if configFile != "" {
		log.Printf("  config_file:  %s", configFile)
	}

	// Graceful shutdown.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("received signal %v, shutting down...", sig)

	natsClient.Close()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("metrics server shutdown: %v", err)
	}
	db.Close()
	rdb.Close()
}

// subscribeChecks handles moderation requests from the moderators queue
// group and publishes each result on the chat's result subject.
func subscribeChecks(natsClient *messaging.NATSClient, service *moderation.Service) error {
	return natsClient.SubscribeModerationCheck(func(data []byte) {
		var req moderation.ModerationRequest
		if err := json.Unmarshal(data, &req); err != nil {
			log.Printf("[moderator] failed to unmarshal request: %v", err)
			return
		}
		if err := chat.ValidateMessage(req.Text); err != nil {
			log.Printf("[moderator] SKIPPED message=%s chat=%s: %v", req.MessageID, req.ChatID, err)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		resp := handleRequest(ctx, service, req)

		if resp.Blocked {
			log.Printf("[moderator] FLAGGED message=%s chat=%s user=%d rule=%s",
				req.MessageID, req.ChatID, req.UserID, resp.Rule)
		} else {
			log.Printf("[moderator] CLEAN message=%s chat=%s", req.MessageID, req.ChatID)
		}

		respData, err := json.Marshal(resp)
		if err != nil {
			log.Printf("[moderator] failed to marshal result: %v", err)
			return
		}
		if err := natsClient.PublishModerationResult(req.ChatID, respData); err != nil {
			log.Printf("[moderator] failed to publish result: %v", err)
		}
	})
}

// handleRequest classifies one message, enforcing when the author is
// known, and attaches the censored text. The verdict is kept even when
// enforcement fails.
func handleRequest(ctx context.Context, service *moderation.Service, req moderation.ModerationRequest) moderation.ModerationResult {
	result, err := service.ClassifyAndEnforce(ctx, req.Text, req.UserID, nil)

	resp := moderation.ModerationResult{
		MessageID: req.MessageID,
		ChatID:    req.ChatID,
		UserID:    req.UserID,
		Blocked:   result.Blocked,
		Rule:      result.Rule,
		Reason:    result.Reason,
		Censored:  service.Censor(ctx, req.Text),
	}
	if err != nil {
		resp.EnforcementError = err.Error()
	}
	return resp
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
