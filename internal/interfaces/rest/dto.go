package rest

import (
	"time"

	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/domain"
	"github.com/shopspring/decimal"
)

type InitiatePaymentRequest struct {
	Amount            *decimal.Decimal  `json:"amount" validate:"required"`
	Currency          string            `json:"currency" validate:"required,len=3,alpha"`
	GatewayFamily     string            `json:"gateway_family" validate:"required,oneof=direct_capture redirect_approval token_redirect"`
	OrderID           string            `json:"order_id" validate:"required,max=64"`
	CustomerReference string            `json:"customer_reference" validate:"max=128"`
	ReturnURL         string            `json:"return_url" validate:"omitempty,url"`
	CancelURL         string            `json:"cancel_url" validate:"omitempty,url"`
	Metadata          map[string]string `json:"metadata"`
}

// toDomain expects a validated request.
func (r InitiatePaymentRequest) toDomain() domain.PaymentRequest {
	var amount decimal.Decimal
	if r.Amount != nil {
		amount = *r.Amount
	}
	return domain.PaymentRequest{
		Amount:            amount,
		Currency:          r.Currency,
		GatewayFamily:     domain.GatewayFamily(r.GatewayFamily),
		OrderID:           r.OrderID,
		CustomerReference: r.CustomerReference,
		ReturnURL:         r.ReturnURL,
		CancelURL:         r.CancelURL,
		Metadata:          r.Metadata,
	}
}

// RefundRequest omits amount to refund the remaining balance.
type RefundRequest struct {
	Amount *decimal.Decimal `json:"amount,omitempty"`
	Reason string           `json:"reason" validate:"max=255"`
}

type ActionResponse struct {
	Type  domain.ActionType `json:"type"`
	Token string            `json:"token,omitempty"`
	URL   string            `json:"url,omitempty"`
}

type PaymentResponse struct {
	GatewayPaymentID string                  `json:"gateway_payment_id,omitempty"`
	GatewayFamily    domain.GatewayFamily    `json:"gateway_family,omitempty"`
	State            domain.TransactionState `json:"canonical_state"`
	Amount           decimal.Decimal         `json:"amount"`
	Currency         string                  `json:"currency,omitempty"`
	RequiresAction   bool                    `json:"requires_action"`
	Action           *ActionResponse         `json:"action_payload,omitempty"`
	Note             string                  `json:"note,omitempty"`
}

func toPaymentResponse(res domain.PaymentResult) PaymentResponse {
	out := PaymentResponse{
		GatewayPaymentID: res.GatewayPaymentID,
		GatewayFamily:    res.Family,
		State:            res.State,
		Amount:           res.Amount,
		Currency:         res.Currency,
		RequiresAction:   res.RequiresAction,
		Note:             res.Note,
	}
	if res.Action != nil {
		out.Action = &ActionResponse{Type: res.Action.Type, Token: res.Action.Token, URL: res.Action.URL}
	}
	return out
}

type RefundResponse struct {
	GatewayPaymentID string                  `json:"gateway_payment_id"`
	GatewayFamily    domain.GatewayFamily    `json:"gateway_family,omitempty"`
	State            domain.TransactionState `json:"canonical_state"`
	RefundID         string                  `json:"refund_id,omitempty"`
	Amount           decimal.Decimal         `json:"amount"`
	RefundedTotal    decimal.Decimal         `json:"refunded_total"`
	Remaining        decimal.Decimal         `json:"remaining"`
	Currency         string                  `json:"currency,omitempty"`
}

func toRefundResponse(res domain.RefundResult) RefundResponse {
	return RefundResponse{
		GatewayPaymentID: res.GatewayPaymentID,
		GatewayFamily:    res.Family,
		State:            res.State,
		RefundID:         res.RefundID,
		Amount:           res.Amount,
		RefundedTotal:    res.RefundedTotal,
		Remaining:        res.Remaining,
		Currency:         res.Currency,
	}
}

type HealthResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}
