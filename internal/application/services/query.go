package services

import (
	"context"
	"errors"
	"time"

	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/application"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/domain"
)

// GetPaymentStatus asks the gateway for the payment's current state. It never
// writes to the ledger. When family is empty it is taken from the ledger.
func (o *Orchestrator) GetPaymentStatus(ctx context.Context, gatewayPaymentID string, family domain.GatewayFamily) domain.PaymentResult {
	start := time.Now()
	ctx, span := o.startSpan(ctx, "status", family, gatewayPaymentID)

	res := func() domain.PaymentResult {
		tx, err := o.ledger.store.Get(ctx, gatewayPaymentID)
		if err != nil && !errors.Is(err, application.ErrTransactionNotFound) {
			if family == "" {
				return domain.RejectedPayment("", gatewayPaymentID, domain.StateUnknown,
					o.ledger.storeFailure("load", gatewayPaymentID, err))
			}
			o.logger.Warn("ledger unavailable for status lookup", "payment_id", gatewayPaymentID, "error", err)
			tx = nil
		}
		if family == "" {
			if tx == nil {
				return domain.RejectedPayment("", gatewayPaymentID, domain.StateUnknown,
					domain.NewValidationError("gateway family is required for unrecorded payment %s", gatewayPaymentID))
			}
			family = tx.Family
		}

		adapter, cerr := o.adapterFor(family)
		if cerr != nil {
			return domain.RejectedPayment(family, gatewayPaymentID, domain.StateUnknown, cerr)
		}

		res := adapter.GetStatus(ctx, gatewayPaymentID)
		if tx != nil && tx.Family == family {
			if res.Currency == "" {
				res.Currency = tx.Currency
				if res.Amount.IsZero() {
					res.Amount = tx.Amount
				}
			}
			if res.State == domain.StateUnknown && res.Note != "" {
				res.Note += "; last recorded state is " + string(tx.State)
			}
		}
		return res
	}()

	o.finish(span, "status", family, gatewayPaymentID, res.State, res.Error, start)
	return res
}
