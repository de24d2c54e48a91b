package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/dourou/internal/auth"
	"github.com/mmynk/dourou/internal/config"
	"github.com/mmynk/dourou/internal/events"
	"github.com/mmynk/dourou/internal/middleware"
	"github.com/mmynk/dourou/internal/scheduler"
	"github.com/mmynk/dourou/internal/service"
	"github.com/mmynk/dourou/internal/storage"
	"github.com/mmynk/dourou/internal/storage/postgres"
	"github.com/mmynk/dourou/internal/storage/sqlite"
	"github.com/mmynk/dourou/pkg/api/apiconnect"
	"github.com/mmynk/dourou/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logging.Setup(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "driver", cfg.DBDriver)

	publisher := openPublisher(cfg)
	defer publisher.Close()

	jobs := scheduler.New(scheduler.NewJobs(store, publisher), cfg.LatePaymentSchedule)
	if err := jobs.Start(); err != nil {
		return fmt.Errorf("failed to schedule late payment job: %w", err)
	}
	defer func() { <-jobs.Stop().Done() }()

	mux := http.NewServeMux()

	verifier := auth.NewVerifier(cfg.JWTSecret)
	tontinePath, tontineHandler := apiconnect.NewTontineServiceHandler(
		service.NewTontineService(store, publisher),
		connect.WithInterceptors(middleware.RequireAuth(verifier), middleware.LoggingInterceptor()),
	)
	mux.Handle(tontinePath, tontineHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// h2c serves HTTP/2 without TLS, which Connect and gRPC clients need.
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h2c.NewHandler(corsMiddleware(mux), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", server.Addr, "url", fmt.Sprintf("http://localhost%s", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}

func openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		return postgres.New(ctx, cfg.DatabaseURL)
	default:
		return sqlite.New(cfg.DBPath)
	}
}

// openPublisher connects to RabbitMQ when configured and falls back to
// logging events otherwise.
func openPublisher(cfg *config.Config) events.Publisher {
	if cfg.RabbitMQURL == "" {
		slog.Info("RABBITMQ_URL not set, events will be logged only")
		return events.LogPublisher{}
	}
	publisher, err := events.NewRabbitPublisher(cfg.RabbitMQURL, cfg.EventsExchange)
	if err != nil {
		slog.Warn("RabbitMQ unavailable, events will be logged only", "error", err)
		return events.LogPublisher{}
	}
	slog.Info("Publishing events to RabbitMQ", "exchange", cfg.EventsExchange)
	return publisher
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
