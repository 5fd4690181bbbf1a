package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/application"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/config"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/infrastructure/events"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/infrastructure/gateway/directcapture"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/infrastructure/gateway/redirectapproval"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/infrastructure/gateway/tokenredirect"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/infrastructure/httpclient"
	idemmemory "github.com/DanielPopoola/ficmart-payment-orchestrator/internal/infrastructure/idempotency/memory"
	idemredis "github.com/DanielPopoola/ficmart-payment-orchestrator/internal/infrastructure/idempotency/redis"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/infrastructure/persistence/memory"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/infrastructure/persistence/postgres"
	goredis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func newTransactionStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (application.TransactionStore, func(), error) {
	if cfg.Store.Driver != "postgres" {
		logger.Warn("using in-memory transaction store; state is lost on restart")
		return memory.NewTransactionStore(), func() {}, nil
	}

	db, err := postgres.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return postgres.NewTransactionStore(db), db.Close, nil
}

func newIdempotencyStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (application.IdempotencyStore, func(), error) {
	if cfg.Idempotency.Driver != "redis" {
		return idemmemory.NewStore(cfg.Idempotency.TTL), func() {}, nil
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	logger.Info("redis connected", "addr", cfg.Redis.Addr)

	closeClient := func() {
		if err := client.Close(); err != nil {
			logger.Warn("failed to close redis client", "error", err)
		}
	}
	return idemredis.NewStore(client, cfg.Idempotency.TTL, logger), closeClient, nil
}

func newPublisher(cfg config.KafkaConfig, logger *slog.Logger) (application.EventPublisher, func()) {
	brokers := events.SplitBrokers(cfg.Brokers)
	if len(brokers) == 0 {
		return events.NewLogPublisher(logger), func() {}
	}

	publisher := events.NewKafkaPublisher(events.NewKafkaWriter(brokers, cfg.Topic), logger)
	logger.Info("publishing state changes to kafka", "brokers", brokers, "topic", cfg.Topic)
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("failed to close kafka writer", "error", err)
		}
	}
}

// newAdapters builds every family; the orchestrator keeps only the configured ones.
func newAdapters(cfg *config.Config, logger *slog.Logger) []application.GatewayAdapter {
	hc := cfg.HTTPClient
	retry := httpclient.WithStatusRetry(hc.StatusRetries, hc.StatusBaseDelay)
	creds := cfg.Gateways

	direct := httpclient.New(creds.DirectCapture.BaseURL, hc.Timeout, retry,
		httpclient.WithHeader("Authorization", "Bearer "+creds.DirectCapture.SecretKey),
	)
	approval := httpclient.New(creds.RedirectApproval.BaseURL, hc.Timeout, retry,
		httpclient.WithBasicAuth(creds.RedirectApproval.ClientID, creds.RedirectApproval.ClientSecret),
	)
	token := httpclient.New(creds.TokenRedirect.BaseURL, hc.Timeout, retry,
		httpclient.WithHeader("Tbk-Api-Key-Id", creds.TokenRedirect.CommerceCode),
		httpclient.WithHeader("Tbk-Api-Key-Secret", creds.TokenRedirect.APIKey),
	)

	return []application.GatewayAdapter{
		directcapture.NewAdapter("direct-capture-"+creds.DirectCapture.Environment,
			directcapture.NewHTTPClient(direct), logger.With("family", "direct_capture")),
		redirectapproval.NewAdapter("redirect-approval-"+creds.RedirectApproval.Environment,
			redirectapproval.NewHTTPClient(approval), logger.With("family", "redirect_approval")),
		tokenredirect.NewAdapter("token-redirect-"+creds.TokenRedirect.Environment,
			tokenredirect.NewHTTPClient(token), logger.With("family", "token_redirect")),
	}
}

// setupTracing installs an OTLP exporter when an endpoint is configured and
// leaves the global no-op provider otherwise.
func setupTracing(ctx context.Context, cfg config.TelemetryConfig, logger *slog.Logger) (func(context.Context) error, error) {
	if cfg.OTLPEndpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.OTLPEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	name := cfg.ServiceName
	if name == "" {
		name = "payment-orchestrator"
	}
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", name))),
	)
	otel.SetTracerProvider(provider)
	logger.Info("tracing enabled", "endpoint", cfg.OTLPEndpoint, "service", name)

	return provider.Shutdown, nil
}
