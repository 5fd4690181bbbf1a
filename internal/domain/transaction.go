package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionState is a lifecycle value independent of any gateway's native vocabulary.
type TransactionState string

const (
	StateCreated           TransactionState = "CREATED"
	StateRequiresAction    TransactionState = "REQUIRES_ACTION"
	StatePendingApproval   TransactionState = "PENDING_APPROVAL"
	StatePendingPayment    TransactionState = "PENDING_PAYMENT"
	StateCompleted         TransactionState = "COMPLETED"
	StateFailed            TransactionState = "FAILED"
	StateRefunded          TransactionState = "REFUNDED"
	StatePartiallyRefunded TransactionState = "PARTIALLY_REFUNDED"
	StateRefundFailed      TransactionState = "REFUND_FAILED"

	// StateUnknown is reported by status lookups a family cannot answer. It is never stored.
	StateUnknown TransactionState = "UNKNOWN"
)

// pre-completion edges, scoped by family
var lifecycle = map[GatewayFamily]map[TransactionState][]TransactionState{
	FamilyDirectCapture: {
		StateCreated:        {StateCompleted, StateRequiresAction, StateFailed},
		StateRequiresAction: {StateCompleted, StateFailed},
	},
	FamilyRedirectApproval: {
		StateCreated:         {StatePendingApproval, StateFailed},
		StatePendingApproval: {StateCompleted, StateFailed},
	},
	FamilyTokenRedirect: {
		StateCreated:        {StatePendingPayment, StateFailed},
		StatePendingPayment: {StateCompleted, StateFailed},
	},
}

// refund edges, shared by all families
var refundPath = map[TransactionState][]TransactionState{
	StateCompleted:         {StateRefunded, StatePartiallyRefunded, StateRefundFailed},
	StatePartiallyRefunded: {StatePartiallyRefunded, StateRefunded, StateRefundFailed},
}

// CanTransition reports whether from -> to is legal for the family.
func CanTransition(family GatewayFamily, from, to TransactionState) bool {
	if edges, ok := lifecycle[family]; ok {
		if slices.Contains(edges[from], to) {
			return true
		}
	} else {
		return false
	}
	return slices.Contains(refundPath[from], to)
}

// IsTerminal reports whether no further transition can leave the state.
func (s TransactionState) IsTerminal() bool {
	switch s {
	case StateCompleted, StateFailed, StateRefunded, StateRefundFailed:
		return true
	default:
		return false
	}
}

// IsPending reports whether the state waits on an out-of-band user step.
func (s TransactionState) IsPending() bool {
	switch s {
	case StateRequiresAction, StatePendingApproval, StatePendingPayment:
		return true
	default:
		return false
	}
}

// IsRefundable reports whether a refund may be attempted from the state.
func (s TransactionState) IsRefundable() bool {
	return s == StateCompleted || s == StatePartiallyRefunded
}

// Transaction is the ledger record of one gateway payment.
type Transaction struct {
	GatewayPaymentID string
	OrderID          string
	Family           GatewayFamily
	State            TransactionState
	Amount           decimal.Decimal
	Currency         string
	RefundedAmount   decimal.Decimal
	Action           *ActionPayload
	LastError        *CanonicalError
	// Version counts stored writes; stores compare it on every update.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewTransaction(
	gatewayPaymentID string,
	orderID string,
	family GatewayFamily,
	amount decimal.Decimal,
	currency string,
) (*Transaction, error) {
	if strings.TrimSpace(gatewayPaymentID) == "" {
		return nil, NewValidationError("gateway payment ID is required")
	}
	if !family.Valid() {
		return nil, NewValidationError("unknown gateway family %q", family)
	}
	code, err := ValidateAmount(amount, currency)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Transaction{
		GatewayPaymentID: gatewayPaymentID,
		OrderID:          orderID,
		Family:           family,
		State:            StateCreated,
		Amount:           amount,
		Currency:         code,
		RefundedAmount:   decimal.Zero,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// Transition moves the transaction to target. An illegal target is rejected with
// VALIDATION and the state is left unchanged.
func (t *Transaction) Transition(target TransactionState) error {
	if !CanTransition(t.Family, t.State, target) {
		return NewInvalidTransitionError(t.Family, t.State, target)
	}
	t.State = target
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// RemainingRefundable is the captured amount not yet refunded.
func (t *Transaction) RemainingRefundable() decimal.Decimal {
	remaining := t.Amount.Sub(t.RefundedAmount)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// CheckRefund validates a refund of amount without changing the transaction.
func (t *Transaction) CheckRefund(amount decimal.Decimal) error {
	if !t.State.IsRefundable() {
		return NewCanonicalError(
			KindValidation,
			"refund requires a COMPLETED or PARTIALLY_REFUNDED transaction, got "+string(t.State),
			string(t.Family),
		)
	}
	if !amount.IsPositive() {
		return NewValidationError("refund amount must be positive, got %s", amount.String())
	}
	if amount.Round(MinorUnitExponent(t.Currency)).Cmp(amount) != 0 {
		return NewValidationError("refund amount %s exceeds %s precision", amount.String(), t.Currency)
	}
	remaining := t.RemainingRefundable()
	if amount.GreaterThan(remaining) {
		return NewValidationError("refund amount %s exceeds remaining refundable balance %s", amount.String(), remaining.String())
	}
	return nil
}

// ApplyRefund records a successful refund of amount and moves to REFUNDED once the
// captured amount is exhausted, PARTIALLY_REFUNDED otherwise.
func (t *Transaction) ApplyRefund(amount decimal.Decimal) error {
	if err := t.CheckRefund(amount); err != nil {
		return err
	}
	target := StatePartiallyRefunded
	if t.RefundedAmount.Add(amount).Equal(t.Amount) {
		target = StateRefunded
	}
	if err := t.Transition(target); err != nil {
		return err
	}
	t.RefundedAmount = t.RefundedAmount.Add(amount)
	return nil
}

// Result rebuilds the canonical result of the last accepted step.
func (t *Transaction) Result() PaymentResult {
	res := PaymentResult{
		Success:          t.State != StateFailed,
		State:            t.State,
		Family:           t.Family,
		GatewayPaymentID: t.GatewayPaymentID,
		Amount:           t.Amount,
		Currency:         t.Currency,
	}
	if t.State.IsPending() && t.Action != nil {
		res.RequiresAction = true
		action := *t.Action
		res.Action = &action
	}
	if !res.Success {
		res.Error = t.LastError
		if res.Error == nil {
			res.Error = NewCanonicalError(KindUnknown, "transaction failed", string(t.Family))
		}
	}
	return res
}
