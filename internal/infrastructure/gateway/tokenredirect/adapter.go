// Package tokenredirect adapts gateways that bind an amount to a token, send the
// payer to a hosted page and let the merchant commit the token afterwards.
package tokenredirect

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/domain"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/infrastructure/gateway"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const family = domain.FamilyTokenRedirect

// TokenParam is the query parameter the hosted page expects the token in.
const TokenParam = "token_ws"

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

// Initiate creates a token for the exact integer major-unit amount.
func (a *Adapter) Initiate(ctx context.Context, req domain.PaymentRequest) domain.PaymentResult {
	amount, err := domain.ToGatewayUnits(req.Amount, req.Currency, family)
	if err != nil {
		return gateway.Failure(a.logger, family, "", err)
	}

	created, err := a.client.CreateTransaction(ctx, CreateTransactionRequest{
		BuyOrder:  req.OrderID,
		SessionID: uuid.NewString(),
		Amount:    amount.Integer,
		ReturnURL: req.ReturnURL,
	})
	if err != nil {
		return gateway.Failure(a.logger, family, "", err)
	}
	if created.Token == "" || created.URL == "" {
		return gateway.Failure(a.logger, family, "", domain.NewCanonicalError(
			domain.KindUnknown, "transaction created without token or url", string(family)))
	}

	charged, err := domain.FromGatewayUnits(amount, amount.Currency)
	if err != nil {
		return gateway.Failure(a.logger, family, created.Token, err)
	}

	a.logger.Info("transaction token created", "order_id", req.OrderID)

	return domain.PaymentResult{
		Success:          true,
		State:            domain.StatePendingPayment,
		Family:           family,
		GatewayPaymentID: created.Token,
		Amount:           charged,
		Currency:         amount.Currency,
		RequiresAction:   true,
		Action: &domain.ActionPayload{
			Type:  domain.ActionRedirectURL,
			Token: created.Token,
			URL:   redirectURL(created.URL, created.Token),
		},
	}
}

// ConfirmRedirect commits the token after the payer returns. Tokens are single
// use, so any definitive rejection ends the payment. A failure that leaves the
// outcome open (retryable, misconfigured or unknown) keeps the token pending.
func (a *Adapter) ConfirmRedirect(ctx context.Context, token string) domain.PaymentResult {
	committed, err := a.client.Commit(ctx, token)
	if err != nil {
		res := gateway.Failure(a.logger, family, token, err)
		res.StateRetained = res.Error.Retryable ||
			res.Error.Kind == domain.KindConfiguration ||
			res.Error.Kind == domain.KindUnknown
		return res
	}

	amount := decimal.NewFromInt(committed.Amount)
	if committed.Status != StatusAuthorized || committed.ResponseCode != 0 {
		res := gateway.Declined(a.logger, family, token,
			fmt.Sprintf("transaction %s (response code %d)", committed.Status, committed.ResponseCode))
		res.Amount = amount
		return res
	}

	a.logger.Info("transaction committed", "order_id", committed.BuyOrder)

	// the commit reply carries no currency; callers fill it from their own record
	return domain.PaymentResult{
		Success:          true,
		State:            domain.StateCompleted,
		Family:           family,
		GatewayPaymentID: token,
		Amount:           amount,
	}
}

func (a *Adapter) Refund(ctx context.Context, paymentID string, amount *decimal.Decimal, currency, reason string) domain.RefundResult {
	if amount == nil {
		return gateway.RefundFailure(a.logger, family, paymentID,
			domain.NewValidationError("token redirect refunds need an explicit amount"))
	}
	wire, err := domain.ToGatewayUnits(*amount, currency, family)
	if err != nil {
		return gateway.RefundFailure(a.logger, family, paymentID, err)
	}

	refund, err := a.client.Refund(ctx, paymentID, RefundRequest{Amount: wire.Integer})
	if err != nil {
		return gateway.RefundFailure(a.logger, family, paymentID, err)
	}
	if (refund.Type != StatusReversed && refund.Type != StatusNullified) || refund.ResponseCode != 0 {
		return gateway.RefundDeclined(a.logger, family, paymentID,
			fmt.Sprintf("refund %s (response code %d)", refund.Type, refund.ResponseCode))
	}

	refunded := decimal.NewFromInt(wire.Integer)
	if refund.NullifiedAmount > 0 {
		refunded = decimal.NewFromInt(refund.NullifiedAmount)
	}

	return domain.RefundResult{
		Success:          true,
		State:            domain.StateRefunded,
		Family:           family,
		GatewayPaymentID: paymentID,
		RefundID:         refund.AuthorizationCode,
		Amount:           refunded,
		Currency:         wire.Currency,
	}
}

// GetStatus cannot query the gateway for an uncommitted token.
func (a *Adapter) GetStatus(_ context.Context, paymentID string) domain.PaymentResult {
	return domain.PaymentResult{
		Success:          true,
		State:            domain.StateUnknown,
		Family:           family,
		GatewayPaymentID: paymentID,
		Note:             "token redirect gateways offer no status lookup; state is known only after commit",
	}
}

func redirectURL(base, token string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base + "?" + TokenParam + "=" + url.QueryEscape(token)
	}
	q := u.Query()
	q.Set(TokenParam, token)
	u.RawQuery = q.Encode()
	return u.String()
}
