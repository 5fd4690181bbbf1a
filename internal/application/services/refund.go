package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/application"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/domain"
	"github.com/shopspring/decimal"
)

const maxBookingAttempts = 5

// RefundCoordinator checks a refund against the ledger before any gateway is
// contacted and books the outcome afterwards. Bookings are conditional on the
// row version that was read; a booking that loses a race is reapplied on the
// fresh row, so every refund the gateway accepted is counted once and the
// refunded total never exceeds the captured amount.
type RefundCoordinator struct {
	adapters map[domain.GatewayFamily]application.GatewayAdapter
	ledger   *ledger
	logger   *slog.Logger
}

func newRefundCoordinator(adapters map[domain.GatewayFamily]application.GatewayAdapter, l *ledger, logger *slog.Logger) *RefundCoordinator {
	return &RefundCoordinator{adapters: adapters, ledger: l, logger: logger}
}

// RefundPayment refunds req.Amount, or the whole remaining balance when it is nil.
func (o *Orchestrator) RefundPayment(ctx context.Context, req domain.RefundRequest, idempotencyKey string) domain.RefundResult {
	start := time.Now()
	ctx, span := o.startSpan(ctx, "refund", "", req.GatewayPaymentID)

	res := idempotent(ctx, o.idempotency, o.logger, idempotencyKey, "refund", req,
		func(ce *domain.CanonicalError) domain.RefundResult {
			return domain.FailedRefund("", req.GatewayPaymentID, domain.StateUnknown, ce)
		},
		func(res domain.RefundResult) bool {
			return res.Error != nil && res.Error.Retryable
		},
		func(ctx context.Context) domain.RefundResult {
			return o.refunds.Refund(ctx, req)
		},
	)

	o.finish(span, "refund", res.Family, res.GatewayPaymentID, res.State, res.Error, start)
	return res
}

func (c *RefundCoordinator) Refund(ctx context.Context, req domain.RefundRequest) domain.RefundResult {
	tx, cerr := c.ledger.load(ctx, req.GatewayPaymentID)
	if cerr != nil {
		return domain.FailedRefund("", req.GatewayPaymentID, domain.StateUnknown, cerr)
	}

	amount := tx.RemainingRefundable()
	if req.Amount != nil {
		amount = *req.Amount
	}
	if err := tx.CheckRefund(amount); err != nil {
		c.logger.Info("refund rejected",
			"payment_id", tx.GatewayPaymentID,
			"state", tx.State,
			"amount", amount.String(),
			"error", err,
		)
		return c.rejected(tx, asCanonical(err, tx.Family))
	}

	adapter, ok := c.adapters[tx.Family]
	if !ok {
		return c.rejected(tx, domain.NewConfigurationError(tx.Family))
	}

	res := adapter.Refund(ctx, tx.GatewayPaymentID, &amount, tx.Currency, req.Reason)
	res.Family = tx.Family
	res.GatewayPaymentID = tx.GatewayPaymentID

	if !res.Success {
		if res.Error == nil || res.Error.Retryable || res.Error.Kind == domain.KindValidation {
			return c.rejected(tx, res.Error)
		}
		prev, before := tx.State, *tx
		if err := tx.Transition(domain.StateRefundFailed); err != nil {
			return c.rejected(tx, asCanonical(err, tx.Family))
		}
		tx.LastError = res.Error
		if cerr := c.ledger.save(ctx, tx, prev); cerr != nil {
			return c.rejected(&before, cerr)
		}
		return c.booked(tx, res, amount)
	}

	if !res.Amount.IsZero() && !res.Amount.Equal(amount) {
		c.logger.Warn("gateway refunded a different amount",
			"payment_id", tx.GatewayPaymentID,
			"requested", amount.String(),
			"refunded", res.Amount.String(),
		)
	}

	tx, cerr = c.ledger.apply(ctx, tx, maxBookingAttempts, func(t *domain.Transaction) error {
		return t.ApplyRefund(amount)
	})
	if cerr != nil {
		c.logger.Error("refund executed but not booked",
			"payment_id", tx.GatewayPaymentID,
			"refund_id", res.RefundID,
			"amount", amount.String(),
			"error", cerr.Message,
		)
		return c.rejected(tx, cerr)
	}

	c.logger.Info("refund booked",
		"payment_id", tx.GatewayPaymentID,
		"refund_id", res.RefundID,
		"amount", amount.String(),
		"state", tx.State,
	)
	return c.booked(tx, res, amount)
}

// rejected reports a refund that left the transaction unchanged.
func (c *RefundCoordinator) rejected(tx *domain.Transaction, cerr *domain.CanonicalError) domain.RefundResult {
	if cerr == nil {
		cerr = domain.NewCanonicalError(domain.KindUnknown, "refund failed", string(tx.Family))
	}
	res := domain.FailedRefund(tx.Family, tx.GatewayPaymentID, tx.State, cerr)
	res.Currency = tx.Currency
	res.RefundedTotal = tx.RefundedAmount
	res.Remaining = tx.RemainingRefundable()
	return res
}

func (c *RefundCoordinator) booked(tx *domain.Transaction, res domain.RefundResult, amount decimal.Decimal) domain.RefundResult {
	res.State = tx.State
	res.Amount = amount
	res.Currency = tx.Currency
	res.RefundedTotal = tx.RefundedAmount
	res.Remaining = tx.RemainingRefundable()
	return res
}
