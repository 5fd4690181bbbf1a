package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/application"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const selectColumns = `
	gateway_payment_id, order_id, family, state,
	amount::text, currency, refunded_amount::text,
	action, last_error, version, created_at, updated_at`

type TransactionStore struct {
	pool *pgxpool.Pool
}

func NewTransactionStore(db *DB) *TransactionStore {
	return &TransactionStore{pool: db.Pool}
}

func (s *TransactionStore) Create(ctx context.Context, tx *domain.Transaction) error {
	m, err := toDBModel(tx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO transactions (
			gateway_payment_id, order_id, family, state,
			amount, currency, refunded_amount,
			action, last_error, version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5::numeric, $6, $7::numeric, $8, $9, $10, $11, $12)`

	_, err = s.pool.Exec(ctx, query,
		m.GatewayPaymentID, m.OrderID, m.Family, m.State,
		m.Amount, m.Currency, m.RefundedAmount,
		m.Action, m.LastError, m.Version, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: %s", application.ErrDuplicateTransaction, tx.GatewayPaymentID)
		}
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (s *TransactionStore) Get(ctx context.Context, gatewayPaymentID string) (*domain.Transaction, error) {
	query := `SELECT ` + selectColumns + ` FROM transactions WHERE gateway_payment_id = $1`

	return scanTransaction(s.pool.QueryRow(ctx, query, gatewayPaymentID))
}

// Update writes tx only while the row is still in prevState at tx.Version.
// Zero affected rows means either the row is gone or another writer got there
// first.
func (s *TransactionStore) Update(ctx context.Context, tx *domain.Transaction, prevState domain.TransactionState) error {
	m, err := toDBModel(tx)
	if err != nil {
		return err
	}

	query := `
		UPDATE transactions
		SET state = $1, refunded_amount = $2::numeric, action = $3, last_error = $4, updated_at = $5,
			version = version + 1
		WHERE gateway_payment_id = $6 AND state = $7 AND version = $8`

	result, err := s.pool.Exec(ctx, query,
		m.State, m.RefundedAmount, m.Action, m.LastError, m.UpdatedAt,
		m.GatewayPaymentID, string(prevState), m.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	if result.RowsAffected() > 0 {
		tx.Version++
		return nil
	}

	var exists bool
	err = s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM transactions WHERE gateway_payment_id = $1)`,
		m.GatewayPaymentID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check transaction: %w", err)
	}
	if !exists {
		return application.ErrTransactionNotFound
	}
	return fmt.Errorf("%w: expected %s at version %d", application.ErrConcurrentUpdate, prevState, tx.Version)
}

func (s *TransactionStore) FindStalePending(ctx context.Context, olderThan time.Time, limit int) ([]*domain.Transaction, error) {
	query := `SELECT ` + selectColumns + `
		FROM transactions
		WHERE state IN ($1, $2, $3) AND updated_at < $4
		ORDER BY updated_at ASC
		LIMIT $5`

	rows, err := s.pool.Query(ctx, query,
		string(domain.StateRequiresAction),
		string(domain.StatePendingApproval),
		string(domain.StatePendingPayment),
		olderThan,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query stale pending transactions: %w", err)
	}

	transactions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Transaction, error) {
		return scanTransaction(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan stale pending transactions: %w", err)
	}
	return transactions, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var m TransactionModel
	err := row.Scan(
		&m.GatewayPaymentID, &m.OrderID, &m.Family, &m.State,
		&m.Amount, &m.Currency, &m.RefundedAmount,
		&m.Action, &m.LastError, &m.Version, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, application.ErrTransactionNotFound
		}
		return nil, err
	}
	return toDomainModel(m)
}
