package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/dhanushsit/smart-canteen-system/internal/config"
	"github.com/dhanushsit/smart-canteen-system/internal/messaging"
	"github.com/dhanushsit/smart-canteen-system/internal/notifier"
	"github.com/dhanushsit/smart-canteen-system/internal/telemetry"
)

const (
	serviceName    = "canteen-notifier"
	serviceVersion = "0.1.0"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if len(cfg.KafkaBrokers) == 0 {
		logger.Error("KAFKA_BROKERS environment variable is required")
		os.Exit(1)
	}

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, serviceName, serviceVersion)
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	hub := notifier.NewHub()
	handler := notifier.NewHandler(hub, logger)

	// Stale notifications are useless to a dashboard, so a fresh consumer
	// group starts at the newest offset.
	consumer := messaging.NewConsumer(cfg.KafkaBrokers, messaging.TopicNotifications, "canteen-notifier",
		messaging.WithStartOffset(kafka.LastOffset))
	defer func() { _ = consumer.Close() }()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /events", handler.HandleEvents)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":5001"
	}

	// No WriteTimeout: the event stream stays open for as long as the client
	// listens.
	server := &http.Server{
		Addr:        addr,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting notifier", "addr", addr, "brokers", cfg.KafkaBrokers)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		logger.Info("shutting down")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
		cancel()
	}()

	if err := consumer.Consume(ctx, handler.HandleEnvelope); err != nil {
		if ctx.Err() == context.Canceled {
			logger.Info("consumer stopped")
			return
		}
		logger.Error("consumer error", "error", err)
		os.Exit(1)
	}
}
