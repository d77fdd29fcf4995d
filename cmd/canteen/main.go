package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/contrib/instrumentation/runtime"

	"github.com/dhanushsit/smart-canteen-system/internal/cache"
	"github.com/dhanushsit/smart-canteen-system/internal/catalog"
	"github.com/dhanushsit/smart-canteen-system/internal/complaints"
	"github.com/dhanushsit/smart-canteen-system/internal/config"
	"github.com/dhanushsit/smart-canteen-system/internal/messaging"
	"github.com/dhanushsit/smart-canteen-system/internal/orders"
	"github.com/dhanushsit/smart-canteen-system/internal/payments"
	"github.com/dhanushsit/smart-canteen-system/internal/settings"
	"github.com/dhanushsit/smart-canteen-system/internal/telemetry"
	"github.com/dhanushsit/smart-canteen-system/internal/users"
)

const (
	serviceName    = "canteen-api"
	serviceVersion = "0.1.0"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if cfg.PostgresURL == "" {
		logger.Error("POSTGRES_URL environment variable is required")
		os.Exit(1)
	}

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, serviceName, serviceVersion)
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider(serviceName, serviceVersion)
	if err != nil {
		logger.Error("failed to initialize meter", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(ctx) }()

	if err := runtime.Start(); err != nil {
		logger.Error("failed to start runtime instrumentation", "error", err)
		os.Exit(1)
	}

	db, err := telemetry.OpenDB("postgres", cfg.PostgresURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := db.PingContext(ctx); err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	var notifier *messaging.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		producer := messaging.NewProducer(cfg.KafkaBrokers, messaging.TopicNotifications)
		defer func() { _ = producer.Close() }()
		notifier = messaging.NewEventPublisher(producer)
	} else {
		logger.Warn("KAFKA_BROKERS not set, notifications disabled")
	}

	var cacheStore *cache.Store
	if cfg.RedisAddr != "" {
		rdb := cache.NewClient(cfg.RedisAddr)
		defer func() { _ = rdb.Close() }()
		cacheStore = cache.NewStore(rdb)
	}

	orderRepo := orders.NewRepository(db)
	userRepo := users.NewRepository(db)
	productRepo := catalog.NewRepository(db)
	complaintRepo := complaints.NewRepository(db)
	settingsRepo := settings.NewRepository(db)

	// The service takes the notifier as an interface; a nil concrete pointer
	// inside a non-nil interface would dodge the service's nil check.
	var orderNotifier orders.Notifier
	if notifier != nil {
		orderNotifier = notifier
	}
	orderService := orders.NewService(orderRepo, userRepo, orderNotifier, logger)

	orderHandler := orders.NewHandler(orderService, logger)
	productHandler := catalog.NewHandler(productRepo, logger)
	userHandler := users.NewHandler(userRepo, logger)
	settingsHandler := settings.NewHandler(settingsRepo, cacheStore, logger)

	var complaintNotifier complaints.Notifier
	if notifier != nil {
		complaintNotifier = notifier
	}
	complaintHandler := complaints.NewHandler(complaintRepo, complaintNotifier, logger)

	paymentClient := payments.NewClient(cfg.RazorpayBaseURL, cfg.RazorpayKeyID, cfg.RazorpayKeySecret, &http.Client{
		Timeout:   10 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	})
	paymentHandler := payments.NewHandler(paymentClient, logger)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/orders", telemetry.WithHTTPRoute(orderHandler.HandleList))
	mux.HandleFunc("POST /api/orders", telemetry.WithHTTPRoute(orderHandler.HandleCreate))
	mux.HandleFunc("GET /api/orders/user/{userId}", telemetry.WithHTTPRoute(orderHandler.HandleListByUser))
	mux.HandleFunc("PATCH /api/orders/{id}/status", telemetry.WithHTTPRoute(orderHandler.HandleUpdateStatus))

	mux.HandleFunc("GET /api/products", telemetry.WithHTTPRoute(productHandler.HandleList))
	mux.HandleFunc("POST /api/products", telemetry.WithHTTPRoute(productHandler.HandleCreate))
	mux.HandleFunc("PUT /api/products/{id}", telemetry.WithHTTPRoute(productHandler.HandleUpdate))
	mux.HandleFunc("PATCH /api/products/{id}/stock", telemetry.WithHTTPRoute(productHandler.HandleSetStock))
	mux.HandleFunc("DELETE /api/products/{id}", telemetry.WithHTTPRoute(productHandler.HandleDelete))

	mux.HandleFunc("GET /api/users", telemetry.WithHTTPRoute(userHandler.HandleList))
	mux.HandleFunc("POST /api/users", telemetry.WithHTTPRoute(userHandler.HandleCreate))
	mux.HandleFunc("PUT /api/users/{id}", telemetry.WithHTTPRoute(userHandler.HandleUpdate))
	mux.HandleFunc("DELETE /api/users/{id}", telemetry.WithHTTPRoute(userHandler.HandleDelete))

	mux.HandleFunc("GET /api/complaints", telemetry.WithHTTPRoute(complaintHandler.HandleList))
	mux.HandleFunc("POST /api/complaints", telemetry.WithHTTPRoute(complaintHandler.HandleSubmit))
	mux.HandleFunc("DELETE /api/complaints/{id}", telemetry.WithHTTPRoute(complaintHandler.HandleDelete))

	mux.HandleFunc("GET /api/settings", telemetry.WithHTTPRoute(settingsHandler.HandleGet))
	mux.HandleFunc("PATCH /api/settings", telemetry.WithHTTPRoute(settingsHandler.HandlePatch))

	mux.HandleFunc("POST /api/payment/create-order", telemetry.WithHTTPRoute(paymentHandler.HandleCreateOrder))

	mux.Handle("GET /metrics", metricsHandler)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	handler := corsMiddleware(cfg.CORSOrigin, otelhttp.NewHandler(mux, serviceName,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			if r.Pattern != "" {
				return r.Pattern
			}
			return r.Method + " " + r.URL.Path
		}),
	))

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting canteen API", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}

func corsMiddleware(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
