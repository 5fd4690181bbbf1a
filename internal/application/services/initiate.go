package services

import (
	"context"
	"time"

	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/domain"
)

// InitiatePayment starts a payment on the adapter of req.GatewayFamily. The
// result may be terminal or carry the action the payer must take next.
func (o *Orchestrator) InitiatePayment(ctx context.Context, req domain.PaymentRequest, idempotencyKey string) domain.PaymentResult {
	start := time.Now()
	ctx, span := o.startSpan(ctx, "initiate", req.GatewayFamily, "")

	res := idempotent(ctx, o.idempotency, o.logger, idempotencyKey, "initiate", req,
		func(ce *domain.CanonicalError) domain.PaymentResult {
			return domain.FailedPayment(req.GatewayFamily, "", ce)
		},
		retryablePayment,
		func(ctx context.Context) domain.PaymentResult {
			return o.initiate(ctx, req)
		},
	)

	o.finish(span, "initiate", req.GatewayFamily, res.GatewayPaymentID, res.State, res.Error, start)
	return res
}

func (o *Orchestrator) initiate(ctx context.Context, req domain.PaymentRequest) domain.PaymentResult {
	if err := req.Validate(); err != nil {
		return domain.FailedPayment(req.GatewayFamily, "", asCanonical(err, req.GatewayFamily))
	}

	adapter, cerr := o.adapterFor(req.GatewayFamily)
	if cerr != nil {
		o.logger.Error("payment requested for unavailable family", "family", req.GatewayFamily, "order_id", req.OrderID)
		return domain.FailedPayment(req.GatewayFamily, "", cerr)
	}

	res := adapter.Initiate(ctx, req)

	// without a remote record there is nothing to track
	if res.GatewayPaymentID == "" || res.StateRetained {
		return res
	}

	amount, currency := req.Amount, req.Currency
	if res.Currency != "" {
		amount, currency = res.Amount, res.Currency
	}

	tx, err := domain.NewTransaction(res.GatewayPaymentID, req.OrderID, req.GatewayFamily, amount, currency)
	if err != nil {
		return domain.FailedPayment(req.GatewayFamily, res.GatewayPaymentID, asCanonical(err, req.GatewayFamily))
	}
	if err := tx.Transition(res.State); err != nil {
		o.logger.Error("gateway reported an illegal initial state",
			"family", req.GatewayFamily,
			"payment_id", res.GatewayPaymentID,
			"state", res.State,
		)
		return domain.FailedPayment(req.GatewayFamily, res.GatewayPaymentID, domain.NewCanonicalError(
			domain.KindUnknown, "gateway reported state "+string(res.State)+" at initiation", string(req.GatewayFamily)))
	}
	tx.Action = res.Action
	if !res.Success {
		tx.LastError = res.Error
	}

	if cerr := o.ledger.create(ctx, tx); cerr != nil {
		// the remote payment exists; report it even though the ledger missed it
		o.logger.Error("payment not recorded",
			"payment_id", tx.GatewayPaymentID,
			"order_id", tx.OrderID,
			"state", tx.State,
			"error", cerr.Message,
		)
		return res
	}

	o.logger.Info("payment initiated",
		"payment_id", tx.GatewayPaymentID,
		"order_id", tx.OrderID,
		"family", tx.Family,
		"state", tx.State,
	)
	return res
}

func retryablePayment(res domain.PaymentResult) bool {
	return res.Error != nil && res.Error.Retryable
}

func asCanonical(err error, family domain.GatewayFamily) *domain.CanonicalError {
	if ce, ok := domain.AsCanonicalError(err); ok {
		return ce
	}
	return domain.NewCanonicalError(domain.KindUnknown, err.Error(), string(family))
}
