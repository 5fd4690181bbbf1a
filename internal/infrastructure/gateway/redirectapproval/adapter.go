// Package redirectapproval adapts gateways where the payer approves an order on
// the provider's site and the merchant captures it afterwards.
package redirectapproval

import (
	"context"
	"log/slog"
	"strings"

	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/domain"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/infrastructure/gateway"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/infrastructure/httpclient"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const family = domain.FamilyRedirectApproval

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

// Initiate creates an order and returns the approval URL the payer must visit.
func (a *Adapter) Initiate(ctx context.Context, req domain.PaymentRequest) domain.PaymentResult {
	amount, err := domain.ToGatewayUnits(req.Amount, req.Currency, family)
	if err != nil {
		return gateway.Failure(a.logger, family, "", err)
	}

	order, err := a.client.CreateOrder(ctx, CreateOrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []PurchaseUnit{{
			ReferenceID: req.OrderID,
			CustomID:    req.CustomerReference,
			Amount:      Money{CurrencyCode: amount.Currency, Value: amount.Text},
		}},
		ApplicationContext: &ApplicationContext{
			ReturnURL: req.ReturnURL,
			CancelURL: req.CancelURL,
		},
	}, uuid.NewString())
	if err != nil {
		return gateway.Failure(a.logger, family, "", err)
	}

	a.logger.Info("order created",
		"payment_id", order.ID,
		"order_id", req.OrderID,
		"status", order.Status,
	)

	return a.fromOrder(order)
}

// Capture finalizes an order the payer approved. An order that was never
// approved is reported FAILED/DECLINED but stays open for a later capture.
func (a *Adapter) Capture(ctx context.Context, pendingID string) domain.PaymentResult {
	order, err := a.client.GetOrder(ctx, pendingID)
	if err != nil {
		return gateway.Failure(a.logger, family, pendingID, err)
	}

	switch order.Status {
	case OrderCompleted:
		return a.fromOrder(order)
	case OrderApproved:
	case OrderVoided:
		return a.declined(order, "order was voided")
	default:
		res := a.declined(order, "order has not been approved by the payer")
		res.StateRetained = true
		return res
	}

	captured, err := a.client.CaptureOrder(ctx, pendingID, gateway.RequestID("capture", pendingID))
	if err != nil {
		res := gateway.Failure(a.logger, family, pendingID, err)
		if gwErr, ok := httpclient.IsGatewayError(err); ok && strings.EqualFold(gwErr.Code, "ORDER_NOT_APPROVED") {
			res.StateRetained = true
		}
		return res
	}

	for _, pu := range captured.PurchaseUnits {
		if pu.Payments == nil {
			continue
		}
		for _, c := range pu.Payments.Captures {
			if c.Status == "DECLINED" || c.Status == "FAILED" {
				return a.declined(captured, "capture "+c.ID+" "+strings.ToLower(c.Status))
			}
		}
	}

	a.logger.Info("order captured", "payment_id", pendingID, "status", captured.Status)

	return a.fromOrder(captured)
}

func (a *Adapter) Refund(ctx context.Context, paymentID string, amount *decimal.Decimal, currency, reason string) domain.RefundResult {
	order, err := a.client.GetOrder(ctx, paymentID)
	if err != nil {
		return gateway.RefundFailure(a.logger, family, paymentID, err)
	}
	captures := order.CaptureIDs()
	if len(captures) == 0 {
		return gateway.RefundFailure(a.logger, family, paymentID, domain.NewValidationError("order %s has no capture to refund", paymentID))
	}

	req := RefundRequest{NoteToPayer: reason}
	if amount != nil {
		wire, err := domain.ToGatewayUnits(*amount, currency, family)
		if err != nil {
			return gateway.RefundFailure(a.logger, family, paymentID, err)
		}
		req.Amount = &Money{CurrencyCode: wire.Currency, Value: wire.Text}
	}

	refund, err := a.client.RefundCapture(ctx, captures[0], req, uuid.NewString())
	if err != nil {
		return gateway.RefundFailure(a.logger, family, paymentID, err)
	}
	if refund.Status == "CANCELLED" || refund.Status == "FAILED" {
		return gateway.RefundDeclined(a.logger, family, paymentID, "refund "+refund.ID+" "+strings.ToLower(refund.Status))
	}

	money := refund.Amount
	if money == nil {
		money = req.Amount
	}
	if money == nil && len(order.PurchaseUnits) > 0 {
		money = &order.PurchaseUnits[0].Amount
	}
	if money == nil {
		return gateway.RefundFailure(a.logger, family, paymentID, domain.NewCanonicalError(domain.KindUnknown, "refund amount missing from reply", string(family)))
	}
	refunded, err := domain.FromGatewayUnits(domain.GatewayAmount{Unit: domain.UnitDecimal, Text: money.Value}, money.CurrencyCode)
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
		Currency:         strings.ToUpper(money.CurrencyCode),
	}
}

func (a *Adapter) GetStatus(ctx context.Context, paymentID string) domain.PaymentResult {
	order, err := a.client.GetOrder(ctx, paymentID)
	if err != nil {
		return gateway.Failure(a.logger, family, paymentID, err)
	}
	return a.fromOrder(order)
}

func (a *Adapter) fromOrder(order *Order) domain.PaymentResult {
	res := domain.PaymentResult{
		Success:          true,
		Family:           family,
		GatewayPaymentID: order.ID,
	}
	if err := a.fillAmount(&res, order); err != nil {
		return gateway.Failure(a.logger, family, order.ID, err)
	}

	switch order.Status {
	case OrderCompleted:
		res.State = domain.StateCompleted
	case OrderCreated, OrderSaved, OrderApproved, OrderPayerActionRequired:
		link := order.ApprovalLink()
		if link == "" && order.Status != OrderApproved {
			return gateway.Failure(a.logger, family, order.ID, domain.NewCanonicalError(
				domain.KindUnknown, "order "+order.ID+" has no approval link", string(family)))
		}
		res.State = domain.StatePendingApproval
		res.RequiresAction = true
		res.Action = &domain.ActionPayload{Type: domain.ActionApprovalURL, Token: order.ID, URL: link}
		if order.Status == OrderApproved {
			res.Note = "approved by the payer; ready to capture"
		}
	case OrderVoided:
		return a.declined(order, "order was voided")
	default:
		return gateway.Failure(a.logger, family, order.ID, domain.NewCanonicalError(
			domain.KindUnknown, "unexpected order status "+order.Status, string(family)))
	}

	return res
}

func (a *Adapter) declined(order *Order, message string) domain.PaymentResult {
	res := gateway.Declined(a.logger, family, order.ID, message)
	_ = a.fillAmount(&res, order)
	return res
}

func (a *Adapter) fillAmount(res *domain.PaymentResult, order *Order) error {
	if len(order.PurchaseUnits) == 0 {
		return nil
	}
	money := order.PurchaseUnits[0].Amount
	if money.Value == "" {
		return nil
	}
	amount, err := domain.FromGatewayUnits(domain.GatewayAmount{Unit: domain.UnitDecimal, Text: money.Value}, money.CurrencyCode)
	if err != nil {
		return err
	}
	res.Amount = amount
	res.Currency = strings.ToUpper(money.CurrencyCode)
	return nil
}
