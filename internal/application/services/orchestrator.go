// Package services implements the payment facade: it routes each request to
// the adapter of the requested gateway family, drives the canonical state
// machine and records every accepted transition in the ledger.
package services

import (
	"context"
	"log/slog"
	"maps"
	"time"

	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/application"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/DanielPopoola/ficmart-payment-orchestrator/internal/application/services"

type Orchestrator struct {
	adapters    map[domain.GatewayFamily]application.GatewayAdapter
	report      domain.ValidationReport
	ledger      *ledger
	idempotency application.IdempotencyStore
	refunds     *RefundCoordinator
	metrics     application.MetricsRecorder
	tracer      trace.Tracer
	logger      *slog.Logger
}

// NewOrchestrator registers an adapter only when the report marks its family as
// configured; requests for any other family fail with CONFIGURATION.
// idempotency and metrics may be nil.
func NewOrchestrator(
	adapters []application.GatewayAdapter,
	report domain.ValidationReport,
	store application.TransactionStore,
	idempotency application.IdempotencyStore,
	publisher application.EventPublisher,
	metrics application.MetricsRecorder,
	logger *slog.Logger,
) *Orchestrator {
	registered := make(map[domain.GatewayFamily]application.GatewayAdapter, len(adapters))
	for _, adapter := range adapters {
		family := adapter.Family()
		if !report.Configured[family] {
			logger.Warn("gateway family disabled", "family", family, "gateway", adapter.Name())
			continue
		}
		registered[family] = adapter
		logger.Info("gateway family enabled", "family", family, "gateway", adapter.Name())
	}

	l := &ledger{store: store, publisher: publisher, logger: logger}

	return &Orchestrator{
		adapters:    registered,
		report:      report,
		ledger:      l,
		idempotency: idempotency,
		refunds:     newRefundCoordinator(registered, l, logger),
		metrics:     metrics,
		tracer:      otel.Tracer(tracerName),
		logger:      logger,
	}
}

// ValidateConfiguration returns the credential report the orchestrator was built with.
func (o *Orchestrator) ValidateConfiguration() domain.ValidationReport {
	report := o.report
	report.Errors = append([]string(nil), o.report.Errors...)
	report.Configured = maps.Clone(o.report.Configured)
	return report
}

func (o *Orchestrator) adapterFor(family domain.GatewayFamily) (application.GatewayAdapter, *domain.CanonicalError) {
	if !family.Valid() {
		return nil, domain.NewValidationError("unknown gateway family %q", family)
	}
	adapter, ok := o.adapters[family]
	if !ok {
		return nil, domain.NewConfigurationError(family)
	}
	return adapter, nil
}

func (o *Orchestrator) startSpan(ctx context.Context, operation string, family domain.GatewayFamily, paymentID string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{attribute.String("payment.family", string(family))}
	if paymentID != "" {
		attrs = append(attrs, attribute.String("payment.id", paymentID))
	}
	return o.tracer.Start(ctx, "orchestrator."+operation, trace.WithAttributes(attrs...))
}

// finish closes the span and records the operation outcome: the canonical state
// on success, the error kind otherwise.
func (o *Orchestrator) finish(span trace.Span, operation string, family domain.GatewayFamily, paymentID string, state domain.TransactionState, cerr *domain.CanonicalError, start time.Time) {
	outcome := string(state)
	if cerr != nil {
		outcome = string(cerr.Kind)
		span.SetStatus(codes.Error, cerr.Message)
		span.SetAttributes(attribute.String("payment.error_kind", string(cerr.Kind)))
	}
	if paymentID != "" {
		span.SetAttributes(attribute.String("payment.id", paymentID))
	}
	span.SetAttributes(attribute.String("payment.state", string(state)))
	span.End()

	if o.metrics != nil {
		o.metrics.ObserveOperation(operation, string(family), outcome, time.Since(start))
	}
}
