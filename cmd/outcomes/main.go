// Command outcomes tails the checkout outcome channel and logs every event.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/lalofigo/web-store-mvp/internal/adapter/publisher"
	"github.com/lalofigo/web-store-mvp/internal/config"
	"github.com/lalofigo/web-store-mvp/pkg/logger"
	"github.com/lalofigo/web-store-mvp/pkg/messaging"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logCfg := cfg.Log
	logCfg.Service = cfg.Service.Name + "-outcomes"
	zapLogger, err := logger.NewZapLogger(logCfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := messaging.NewRedisClient(ctx, cfg.Redis.Options)
	if err != nil {
		zapLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer client.Close()

	messages, err := client.Subscribe(ctx, cfg.Redis.Channel)
	if err != nil {
		zapLogger.Fatal("Failed to subscribe", zap.String("channel", cfg.Redis.Channel), zap.Error(err))
	}

	zapLogger.Info("Listening for checkout outcomes", zap.String("channel", cfg.Redis.Channel))

	for msg := range messages {
		var event publisher.OutcomeEvent
		if err := json.Unmarshal(msg.Payload, &event); err != nil {
			zapLogger.Warn("Skipping malformed event", zap.Error(err))
			continue
		}

		zapLogger.Info("Checkout outcome",
			zap.String("request_id", event.RequestID),
			zap.String("provider", event.Provider),
			zap.String("stage", string(event.Stage)),
			zap.String("status", event.Status),
			zap.String("payment_id", event.PaymentID),
			zap.String("transaction_id", event.TransactionID),
			zap.String("error_kind", event.ErrorKind),
			zap.String("amount", event.Amount.String()),
			zap.String("currency", event.Currency),
			zap.Int64("duration_ms", event.DurationMS),
		)
	}
}
