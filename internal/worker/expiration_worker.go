// Package worker runs the background jobs of the orchestrator.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/application"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/domain"
)

// Expirer is the part of the orchestrator the expiration worker drives.
type Expirer interface {
	GetPaymentStatus(ctx context.Context, gatewayPaymentID string, family domain.GatewayFamily) domain.PaymentResult
	ExpirePayment(ctx context.Context, tx *domain.Transaction, pendingFor time.Duration) error
}

// ExpirationWorker fails transactions that waited on the payer longer than
// pendingTTL.
type ExpirationWorker struct {
	store      application.TransactionStore
	expirer    Expirer
	interval   time.Duration
	pendingTTL time.Duration
	batchSize  int
	logger     *slog.Logger
}

func NewExpirationWorker(
	store application.TransactionStore,
	expirer Expirer,
	interval time.Duration,
	pendingTTL time.Duration,
	batchSize int,
	logger *slog.Logger,
) *ExpirationWorker {
	return &ExpirationWorker{
		store:      store,
		expirer:    expirer,
		interval:   interval,
		pendingTTL: pendingTTL,
		batchSize:  batchSize,
		logger:     logger,
	}
}

func (w *ExpirationWorker) Start(ctx context.Context) {
	w.logger.Info("expiration worker started", "interval", w.interval, "pending_ttl", w.pendingTTL)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	if _, err := w.ProcessExpirations(ctx); err != nil {
		w.logger.Error("expiration processing failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("expiration worker stopping")
			return
		case <-ticker.C:
			if _, err := w.ProcessExpirations(ctx); err != nil {
				w.logger.Error("expiration processing failed", "error", err)
			}
		}
	}
}

// ProcessExpirations runs one sweep and returns how many transactions it expired.
func (w *ExpirationWorker) ProcessExpirations(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	stale, err := w.store.FindStalePending(ctx, now.Add(-w.pendingTTL), w.batchSize)
	if err != nil {
		return 0, err
	}
	if len(stale) == 0 {
		return 0, nil
	}

	var processed, expired int
	for _, tx := range stale {
		if ctx.Err() != nil {
			break
		}
		processed++

		ok, err := w.checkAndExpire(ctx, tx, now.Sub(tx.UpdatedAt))
		if err != nil {
			w.logger.Error("failed to expire payment",
				"payment_id", tx.GatewayPaymentID,
				"family", tx.Family,
				"error", err,
			)
			continue
		}
		if ok {
			expired++
		}
	}

	w.logger.Info("processed expiration check",
		"processed", processed,
		"marked_expired", expired,
	)
	return expired, nil
}

// checkAndExpire leaves alone a payment the gateway already settled; the
// caller's next confirm or capture records that outcome.
func (w *ExpirationWorker) checkAndExpire(ctx context.Context, tx *domain.Transaction, pendingFor time.Duration) (bool, error) {
	status := w.expirer.GetPaymentStatus(ctx, tx.GatewayPaymentID, tx.Family)
	if status.Success && status.State != domain.StateUnknown && !status.State.IsPending() {
		w.logger.Warn("pending payment settled at gateway despite age",
			"payment_id", tx.GatewayPaymentID,
			"family", tx.Family,
			"recorded_state", tx.State,
			"gateway_state", status.State,
		)
		return false, nil
	}
	if status.Error != nil && status.Error.Retryable {
		return false, status.Error
	}

	if err := w.expirer.ExpirePayment(ctx, tx, pendingFor.Truncate(time.Second)); err != nil {
		return false, err
	}
	return true, nil
}
