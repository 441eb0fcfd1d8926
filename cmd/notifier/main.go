// The notifier consumes receipt events from RabbitMQ and forwards them
// to a Telegram chat. It runs as a separate process so Telegram outages
// never slow down the API server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/snapsplit/snapsplit/internal/config"
	"github.com/snapsplit/snapsplit/internal/notify"
	"github.com/snapsplit/snapsplit/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	logging.Setup()

	cfg := config.Load()
	if cfg.AMQPURL == "" {
		slog.Error("AMQP_URL is required for the notifier")
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	client, err := notify.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		slog.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	telegram := notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID)
	if !telegram.Enabled() {
		slog.Warn("Telegram credentials not configured, events will be logged only")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("Notifier started", "queue", cfg.AMQPQueue)
	err = client.Consume(ctx, func(ev *notify.Event) error {
		slog.Info("Received event", "kind", ev.Kind, "receipt_id", ev.ReceiptID)
		return telegram.Notify(ctx, ev)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("Consumer stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("Notifier stopped gracefully")
}
