package services

import (
	"context"
	"time"

	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/application"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/domain"
)

type secondPhase func(adapter application.GatewayAdapter, ctx context.Context, id string) domain.PaymentResult

// ConfirmPayment completes whichever second phase the transaction's family
// defines: challenge confirmation, order capture or token commit.
func (o *Orchestrator) ConfirmPayment(ctx context.Context, gatewayPaymentID string) domain.PaymentResult {
	return o.advance(ctx, "confirm", gatewayPaymentID, func(adapter application.GatewayAdapter, ctx context.Context, id string) domain.PaymentResult {
		switch adapter.Family() {
		case domain.FamilyRedirectApproval:
			return adapter.Capture(ctx, id)
		case domain.FamilyTokenRedirect:
			return adapter.ConfirmRedirect(ctx, id)
		default:
			return adapter.Confirm(ctx, id)
		}
	})
}

// CapturePayment captures an approved redirect-approval order.
func (o *Orchestrator) CapturePayment(ctx context.Context, gatewayPaymentID string) domain.PaymentResult {
	return o.advance(ctx, "capture", gatewayPaymentID, application.GatewayAdapter.Capture)
}

// ConfirmRedirect commits a token-redirect token after the payer returns.
func (o *Orchestrator) ConfirmRedirect(ctx context.Context, token string) domain.PaymentResult {
	return o.advance(ctx, "confirm_redirect", token, application.GatewayAdapter.ConfirmRedirect)
}

func (o *Orchestrator) advance(ctx context.Context, operation, gatewayPaymentID string, call secondPhase) domain.PaymentResult {
	start := time.Now()
	ctx, span := o.startSpan(ctx, operation, "", gatewayPaymentID)

	var family domain.GatewayFamily
	res := func() domain.PaymentResult {
		tx, cerr := o.ledger.load(ctx, gatewayPaymentID)
		if cerr != nil {
			return domain.RejectedPayment("", gatewayPaymentID, domain.StateUnknown, cerr)
		}
		family = tx.Family

		adapter, cerr := o.adapterFor(tx.Family)
		if cerr != nil {
			return domain.RejectedPayment(tx.Family, gatewayPaymentID, tx.State, cerr)
		}

		switch {
		case tx.State == domain.StateCreated:
			return domain.RejectedPayment(tx.Family, gatewayPaymentID, tx.State,
				domain.NewValidationError("transaction %s has not been initiated yet", gatewayPaymentID))
		case !tx.State.IsPending():
			o.logger.Info("second phase on settled transaction, replaying",
				"operation", operation,
				"payment_id", gatewayPaymentID,
				"state", tx.State,
			)
			return tx.Result()
		}

		return o.apply(ctx, tx, call(adapter, ctx, gatewayPaymentID))
	}()

	o.finish(span, operation, family, gatewayPaymentID, res.State, res.Error, start)
	return res
}

// apply reconciles a second-phase result with the stored transaction.
func (o *Orchestrator) apply(ctx context.Context, tx *domain.Transaction, res domain.PaymentResult) domain.PaymentResult {
	if res.GatewayPaymentID == "" {
		res.GatewayPaymentID = tx.GatewayPaymentID
	}
	if res.Currency == "" {
		res.Currency = tx.Currency
		if res.Amount.IsZero() {
			res.Amount = tx.Amount
		}
	}
	if res.State == domain.StateUnknown {
		res.State = tx.State
	}

	if res.StateRetained || res.State == tx.State {
		return res
	}

	prev := tx.State
	if err := tx.Transition(res.State); err != nil {
		o.logger.Error("gateway reported an illegal transition",
			"payment_id", tx.GatewayPaymentID,
			"from", prev,
			"to", res.State,
		)
		return domain.RejectedPayment(tx.Family, tx.GatewayPaymentID, prev, asCanonical(err, tx.Family))
	}
	tx.Action = res.Action
	if !res.Success {
		tx.LastError = res.Error
	}

	if cerr := o.ledger.save(ctx, tx, prev); cerr != nil {
		return domain.RejectedPayment(tx.Family, tx.GatewayPaymentID, prev, cerr)
	}

	o.logger.Info("payment advanced",
		"payment_id", tx.GatewayPaymentID,
		"from", prev,
		"to", tx.State,
	)
	return res
}

// ExpirePayment fails a transaction still waiting on the payer. No gateway is
// contacted; the remote record is left to lapse on its own.
func (o *Orchestrator) ExpirePayment(ctx context.Context, tx *domain.Transaction, pendingFor time.Duration) error {
	if !tx.State.IsPending() {
		return domain.NewValidationError("transaction %s is %s, not pending", tx.GatewayPaymentID, tx.State)
	}

	prev := tx.State
	if err := tx.Transition(domain.StateFailed); err != nil {
		return err
	}
	tx.Action = nil
	tx.LastError = domain.NewCanonicalError(domain.KindDeclined,
		"payment expired after waiting "+pendingFor.String()+" for the payer", string(tx.Family))

	if cerr := o.ledger.save(ctx, tx, prev); cerr != nil {
		return cerr
	}

	o.logger.Info("pending payment expired",
		"payment_id", tx.GatewayPaymentID,
		"family", tx.Family,
		"from", prev,
	)
	return nil
}
