// Package domain encodes the canonical payment lifecycle shared by every gateway family.
package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentRequest is created by the caller per checkout attempt and never mutated.
type PaymentRequest struct {
	Amount            decimal.Decimal
	Currency          string
	GatewayFamily     GatewayFamily
	OrderID           string
	CustomerReference string
	ReturnURL         string
	CancelURL         string
	Metadata          map[string]string
}

// Validate checks the fields that do not depend on the gateway family's amount rules.
func (r PaymentRequest) Validate() error {
	if strings.TrimSpace(r.OrderID) == "" {
		return NewValidationError("order ID is required")
	}
	if !r.GatewayFamily.Valid() {
		return NewValidationError("unknown gateway family %q", r.GatewayFamily)
	}
	_, err := ValidateAmount(r.Amount, r.Currency)
	return err
}

// ActionType tells the caller what kind of out-of-band step is pending.
type ActionType string

const (
	ActionChallenge   ActionType = "CHALLENGE"
	ActionApprovalURL ActionType = "APPROVAL_URL"
	ActionRedirectURL ActionType = "REDIRECT_URL"
)

// ActionPayload is opaque to the core; the caller hands Token back on the second phase.
type ActionPayload struct {
	Type  ActionType `json:"type"`
	Token string     `json:"token,omitempty"`
	URL   string     `json:"url,omitempty"`
}

// PaymentResult is produced by every payment operation. Either Success is true with a
// valid State, or Success is false with Error set.
type PaymentResult struct {
	Success          bool             `json:"success"`
	State            TransactionState `json:"canonical_state"`
	Family           GatewayFamily    `json:"gateway_family"`
	GatewayPaymentID string           `json:"gateway_payment_id"`
	Amount           decimal.Decimal  `json:"amount"`
	Currency         string           `json:"currency"`
	RequiresAction   bool             `json:"requires_action"`
	Action           *ActionPayload   `json:"action_payload,omitempty"`
	Note             string           `json:"note,omitempty"`
	Error            *CanonicalError  `json:"error,omitempty"`

	// StateRetained marks a failure after which the remote record is still open,
	// so the stored state must not change.
	StateRetained bool `json:"-"`
}

// FailedPayment builds a failure result. The state defaults to FAILED.
func FailedPayment(family GatewayFamily, paymentID string, err *CanonicalError) PaymentResult {
	return PaymentResult{
		Success:          false,
		State:            StateFailed,
		Family:           family,
		GatewayPaymentID: paymentID,
		Error:            err,
	}
}

// RejectedPayment builds a failure result for a request rejected before any state change.
func RejectedPayment(family GatewayFamily, paymentID string, state TransactionState, err *CanonicalError) PaymentResult {
	res := FailedPayment(family, paymentID, err)
	res.State = state
	return res
}

// RefundRequest omits Amount for a full refund of the remaining captured balance.
type RefundRequest struct {
	GatewayPaymentID string
	Amount           *decimal.Decimal
	Reason           string
}

// RefundResult mirrors PaymentResult; State is REFUNDED, PARTIALLY_REFUNDED or REFUND_FAILED
// unless the request was rejected before reaching the gateway.
type RefundResult struct {
	Success          bool             `json:"success"`
	State            TransactionState `json:"canonical_state"`
	Family           GatewayFamily    `json:"gateway_family"`
	GatewayPaymentID string           `json:"gateway_payment_id"`
	RefundID         string           `json:"refund_id,omitempty"`
	Amount           decimal.Decimal  `json:"amount"`
	RefundedTotal    decimal.Decimal  `json:"refunded_total"`
	Remaining        decimal.Decimal  `json:"remaining"`
	Currency         string           `json:"currency"`
	Error            *CanonicalError  `json:"error,omitempty"`
}

// FailedRefund builds a refund failure result in the given state.
func FailedRefund(family GatewayFamily, paymentID string, state TransactionState, err *CanonicalError) RefundResult {
	return RefundResult{
		Success:          false,
		State:            state,
		Family:           family,
		GatewayPaymentID: paymentID,
		Error:            err,
	}
}

// ValidationReport is the outcome of checking every family's credential set.
type ValidationReport struct {
	IsValid    bool                   `json:"is_valid"`
	Errors     []string               `json:"errors"`
	Configured map[GatewayFamily]bool `json:"configured"`
}

// StateChange is emitted for every accepted transition.
type StateChange struct {
	EventID          string           `json:"event_id"`
	GatewayPaymentID string           `json:"gateway_payment_id"`
	OrderID          string           `json:"order_id"`
	Family           GatewayFamily    `json:"family"`
	From             TransactionState `json:"from"`
	To               TransactionState `json:"to"`
	OccurredAt       time.Time        `json:"occurred_at"`
}
