package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/snapsplit/snapsplit/internal/auth"
	"github.com/snapsplit/snapsplit/internal/config"
	"github.com/snapsplit/snapsplit/internal/handlers"
	"github.com/snapsplit/snapsplit/internal/notify"
	"github.com/snapsplit/snapsplit/internal/scan"
	"github.com/snapsplit/snapsplit/internal/service"
	"github.com/snapsplit/snapsplit/internal/storage/sqlite"
	"github.com/snapsplit/snapsplit/pkg/logging"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logging.Setup()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.SQLiteDBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.SQLiteDBPath)

	// Eventing is optional; without AMQP_URL receipts are created silently.
	var publisher *notify.Client
	if cfg.AMQPURL != "" {
		publisher, err = notify.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			slog.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()
		slog.Info("AMQP publisher initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		slog.Info("AMQP disabled - no AMQP_URL provided")
	}

	var scanner handlers.Scanner
	if cfg.GeminiAPIKey != "" {
		scanner = scan.New(cfg.GeminiAPIKey)
	} else {
		slog.Info("Receipt scanning disabled - no GEMINI_API_KEY provided")
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	// notify.Client is stored as a concrete pointer, so guard the
	// interface fields against a typed nil.
	var receiptPublisher service.Publisher
	var scanFailures handlers.ScanFailurePublisher
	if publisher != nil {
		receiptPublisher = publisher
		scanFailures = publisher
	}

	router := handlers.NewRouter(handlers.Deps{
		JWTManager: jwtManager,
		Auth:       handlers.NewAuthHandler(authenticator, jwtManager),
		Users:      handlers.NewUserHandler(service.NewProfileService(store)),
		Friends:    handlers.NewFriendHandler(service.NewFriendService(store)),
		Receipts:   handlers.NewReceiptHandler(service.NewReceiptService(store, receiptPublisher), scanner, scanFailures),
	})

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		// h2c allows HTTP/2 without TLS for local and in-cluster traffic.
		Handler:        h2c.NewHandler(router, &http2.Server{}),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16, // 64KB
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Server starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped gracefully")
}
