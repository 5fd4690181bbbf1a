// Package directcapture adapts gateways that authorize and capture in one call,
// optionally after a strong-authentication challenge.
package directcapture

import (
	"context"
	"log/slog"
	"strings"

	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/domain"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/infrastructure/gateway"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const family = domain.FamilyDirectCapture

type Adapter struct {
	gateway.Unsupported
	name   string
	client Client
	logger *slog.Logger
}

func NewAdapter(name string, client Client, logger *slog.Logger) *Adapter {
	return &Adapter{
		Unsupported: gateway.NewUnsupported(family),
		name:        name,
		client:      client,
		logger:      logger,
	}
}

func (a *Adapter) Family() domain.GatewayFamily { return family }

func (a *Adapter) Name() string { return a.name }

// Initiate authorizes and captures in one round trip.
func (a *Adapter) Initiate(ctx context.Context, req domain.PaymentRequest) domain.PaymentResult {
	amount, err := domain.ToGatewayUnits(req.Amount, req.Currency, family)
	if err != nil {
		return gateway.Failure(a.logger, family, "", err)
	}

	intent, err := a.client.CreatePaymentIntent(ctx, CreateIntentRequest{
		Amount:        amount.Integer,
		Currency:      strings.ToLower(amount.Currency),
		Confirm:       true,
		CaptureMethod: "automatic",
		Description:   "order " + req.OrderID,
		Customer:      req.CustomerReference,
		ReturnURL:     req.ReturnURL,
		Metadata:      withOrderID(req.Metadata, req.OrderID),
	}, uuid.NewString())
	if err != nil {
		return gateway.Failure(a.logger, family, "", err)
	}

	a.logger.Info("payment intent created",
		"payment_id", intent.ID,
		"order_id", req.OrderID,
		"status", intent.Status,
	)

	return a.fromIntent(intent)
}

// Confirm completes a pending challenge. It is safe to repeat: an intent that
// already succeeded is reported as COMPLETED without confirming again.
func (a *Adapter) Confirm(ctx context.Context, pendingID string) domain.PaymentResult {
	intent, err := a.client.RetrievePaymentIntent(ctx, pendingID)
	if err != nil {
		return gateway.Failure(a.logger, family, pendingID, err)
	}

	switch intent.Status {
	case IntentRequiresAction, IntentRequiresConfirmation:
		intent, err = a.client.ConfirmPaymentIntent(ctx, pendingID, gateway.RequestID("confirm", pendingID))
		if err != nil {
			return gateway.Failure(a.logger, family, pendingID, err)
		}
	}

	return a.fromIntent(intent)
}

func (a *Adapter) Refund(ctx context.Context, paymentID string, amount *decimal.Decimal, currency, reason string) domain.RefundResult {
	req := RefundRequest{PaymentIntent: paymentID, Reason: reason}
	if amount != nil {
		wire, err := domain.ToGatewayUnits(*amount, currency, family)
		if err != nil {
			return gateway.RefundFailure(a.logger, family, paymentID, err)
		}
		req.Amount = &wire.Integer
	}

	refund, err := a.client.CreateRefund(ctx, req, uuid.NewString())
	if err != nil {
		return gateway.RefundFailure(a.logger, family, paymentID, err)
	}
	if refund.Status == "failed" || refund.Status == "canceled" {
		return gateway.RefundDeclined(a.logger, family, paymentID, "refund "+refund.ID+" "+refund.Status)
	}

	code := strings.ToUpper(refund.Currency)
	refunded, err := domain.FromGatewayUnits(domain.GatewayAmount{Unit: domain.UnitMinor, Integer: refund.Amount}, code)
	if err != nil {
		return gateway.RefundFailure(a.logger, family, paymentID, err)
	}

	return domain.RefundResult{
		Success:          true,
		State:            domain.StateRefunded,
		Family:           family,
		GatewayPaymentID: paymentID,
		RefundID:         refund.ID,
		Amount:           refunded,
		Currency:         code,
	}
}

func (a *Adapter) GetStatus(ctx context.Context, paymentID string) domain.PaymentResult {
	intent, err := a.client.RetrievePaymentIntent(ctx, paymentID)
	if err != nil {
		return gateway.Failure(a.logger, family, paymentID, err)
	}
	return a.fromIntent(intent)
}

func (a *Adapter) fromIntent(intent *PaymentIntent) domain.PaymentResult {
	code := strings.ToUpper(intent.Currency)
	amount, err := domain.FromGatewayUnits(domain.GatewayAmount{Unit: domain.UnitMinor, Integer: intent.Amount}, code)
	if err != nil {
		return gateway.Failure(a.logger, family, intent.ID, err)
	}

	res := domain.PaymentResult{
		Success:          true,
		Family:           family,
		GatewayPaymentID: intent.ID,
		Amount:           amount,
		Currency:         code,
	}

	switch intent.Status {
	case IntentSucceeded:
		res.State = domain.StateCompleted
	case IntentRequiresAction, IntentRequiresConfirmation, IntentProcessing:
		res.State = domain.StateRequiresAction
		res.RequiresAction = true
		res.Action = &domain.ActionPayload{Type: domain.ActionChallenge, Token: intent.ID}
		if intent.NextAction != nil {
			res.Action.URL = intent.NextAction.RedirectURL
		}
		if intent.Status == IntentProcessing {
			res.Note = "payment is processing; confirm again to refresh"
		}
	case IntentRequiresPaymentMethod, IntentCanceled:
		message := "payment " + intent.Status
		if intent.LastPaymentError != nil {
			message = intent.LastPaymentError.Message
		}
		failed := gateway.Declined(a.logger, family, intent.ID, message)
		failed.Amount, failed.Currency = amount, code
		return failed
	default:
		return gateway.Failure(a.logger, family, intent.ID, domain.NewCanonicalError(
			domain.KindUnknown, "unexpected intent status "+intent.Status, string(family)))
	}

	return res
}

func withOrderID(metadata map[string]string, orderID string) map[string]string {
	out := make(map[string]string, len(metadata)+1)
	for k, v := range metadata {
		out[k] = v
	}
	out["order_id"] = orderID
	return out
}
