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

	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/application/services"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/config"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/infrastructure/metrics"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/interfaces/rest"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/interfaces/rest/middleware"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/worker"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := cfg.Logger.NewLogger(os.Stdout)
	if err != nil {
		slog.Error("failed to build logger", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("orchestrator stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting payment orchestrator",
		"env", cfg.Primary.Env,
		"port", cfg.Server.Port,
		"store", cfg.Store.Driver,
		"idempotency", cfg.Idempotency.Driver,
	)

	ctx := context.Background()

	shutdownTracing, err := setupTracing(ctx, cfg.Telemetry, logger)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("failed to flush traces", "error", err)
		}
	}()

	store, closeStore, err := newTransactionStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	idempotency, closeIdempotency, err := newIdempotencyStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeIdempotency()

	publisher, closePublisher := newPublisher(cfg.Kafka, logger)
	defer closePublisher()

	report := config.ValidateCredentials(cfg.Gateways)
	if !report.IsValid {
		logger.Warn("gateway credentials incomplete", "errors", report.Errors)
	}

	orchestrator := services.NewOrchestrator(
		newAdapters(cfg, logger),
		report,
		store,
		idempotency,
		publisher,
		metrics.NewRecorder(prometheus.DefaultRegisterer),
		logger,
	)

	mux := http.NewServeMux()
	rest.NewPaymentHandler(orchestrator, rest.DefaultMetricsHandler(), logger).RegisterRoutes(mux)

	server := &http.Server{
		Addr: "0.0.0.0:" + cfg.Server.Port,
		Handler: middleware.Chain(mux,
			middleware.Logging(logger),
			middleware.Recovery(logger),
			middleware.Timeout(cfg.Server.RequestTimeout),
		),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	expirationWorker := worker.NewExpirationWorker(
		store,
		orchestrator,
		cfg.Worker.Interval,
		cfg.Worker.PendingTTL,
		cfg.Worker.BatchSize,
		logger,
	)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	go expirationWorker.Start(workerCtx)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		if err != nil {
			return err
		}
	}

	logger.Info("shutting down server...")
	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
	return nil
}
