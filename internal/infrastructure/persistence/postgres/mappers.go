package postgres

import (
	"encoding/json"
	"fmt"

	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/domain"
	"github.com/shopspring/decimal"
)

// toDomainModel maps a row to the ledger entity.
func toDomainModel(m TransactionModel) (*domain.Transaction, error) {
	amount, err := decimal.NewFromString(m.Amount)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount %q: %w", m.Amount, err)
	}
	refunded, err := decimal.NewFromString(m.RefundedAmount)
	if err != nil {
		return nil, fmt.Errorf("failed to parse refunded amount %q: %w", m.RefundedAmount, err)
	}

	tx := &domain.Transaction{
		GatewayPaymentID: m.GatewayPaymentID,
		OrderID:          m.OrderID,
		Family:           domain.GatewayFamily(m.Family),
		State:            domain.TransactionState(m.State),
		Amount:           amount,
		Currency:         m.Currency,
		RefundedAmount:   refunded,
		Version:          m.Version,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
	if len(m.Action) > 0 {
		tx.Action = &domain.ActionPayload{}
		if err := json.Unmarshal(m.Action, tx.Action); err != nil {
			return nil, fmt.Errorf("failed to decode action: %w", err)
		}
	}
	if len(m.LastError) > 0 {
		tx.LastError = &domain.CanonicalError{}
		if err := json.Unmarshal(m.LastError, tx.LastError); err != nil {
			return nil, fmt.Errorf("failed to decode last error: %w", err)
		}
	}
	return tx, nil
}

// toDBModel maps the ledger entity to a row.
func toDBModel(tx *domain.Transaction) (*TransactionModel, error) {
	m := &TransactionModel{
		GatewayPaymentID: tx.GatewayPaymentID,
		OrderID:          tx.OrderID,
		Family:           string(tx.Family),
		State:            string(tx.State),
		Amount:           tx.Amount.String(),
		Currency:         tx.Currency,
		RefundedAmount:   tx.RefundedAmount.String(),
		Version:          tx.Version,
		CreatedAt:        tx.CreatedAt,
		UpdatedAt:        tx.UpdatedAt,
	}
	var err error
	if tx.Action != nil {
		if m.Action, err = json.Marshal(tx.Action); err != nil {
			return nil, fmt.Errorf("failed to encode action: %w", err)
		}
	}
	if tx.LastError != nil {
		if m.LastError, err = json.Marshal(tx.LastError); err != nil {
			return nil, fmt.Errorf("failed to encode last error: %w", err)
		}
	}
	return m, nil
}
