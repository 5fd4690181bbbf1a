package application

import (
	"context"
	"errors"
	"time"

	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/domain"
	"github.com/shopspring/decimal"
)

// GatewayAdapter is the capability set every gateway family implements.
// Implementations never return Go errors; every failure is carried in the result.
type GatewayAdapter interface {
	Family() domain.GatewayFamily
	Name() string

	Initiate(ctx context.Context, req domain.PaymentRequest) domain.PaymentResult
	// Confirm completes an out-of-band challenge. Direct capture only.
	Confirm(ctx context.Context, pendingID string) domain.PaymentResult
	// Capture finalizes an approved order. Redirect approval only.
	Capture(ctx context.Context, pendingID string) domain.PaymentResult
	// ConfirmRedirect commits a token after the hosted page returns. Token redirect only.
	ConfirmRedirect(ctx context.Context, token string) domain.PaymentResult
	// Refund returns the gateway's outcome; a nil amount refunds the full captured balance remotely.
	Refund(ctx context.Context, paymentID string, amount *decimal.Decimal, currency, reason string) domain.RefundResult
	GetStatus(ctx context.Context, paymentID string) domain.PaymentResult
}

var (
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrDuplicateTransaction = errors.New("transaction already exists")
	ErrConcurrentUpdate     = errors.New("transaction changed concurrently")
)

// TransactionStore is the ledger of canonical transaction state.
type TransactionStore interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	Get(ctx context.Context, gatewayPaymentID string) (*domain.Transaction, error)
	// Update persists tx only if the stored row is still in prevState at
	// tx.Version, and bumps tx.Version on success.
	Update(ctx context.Context, tx *domain.Transaction, prevState domain.TransactionState) error
	FindStalePending(ctx context.Context, olderThan time.Time, limit int) ([]*domain.Transaction, error)
}

var (
	ErrRequestInProgress   = errors.New("request is being processed")
	ErrIdempotencyMismatch = errors.New("idempotency key reused with different parameters")
)

// IdempotencyStore deduplicates caller-keyed requests.
type IdempotencyStore interface {
	// Begin locks key for requestHash. It returns the stored payload when the key
	// already completed, ErrRequestInProgress while another caller holds it and
	// ErrIdempotencyMismatch when the hash differs.
	Begin(ctx context.Context, key, requestHash string) ([]byte, error)
	Complete(ctx context.Context, key string, payload []byte) error
	Release(ctx context.Context, key string) error
}

type EventPublisher interface {
	PublishStateChange(ctx context.Context, event domain.StateChange) error
}

type MetricsRecorder interface {
	ObserveOperation(operation, family, outcome string, duration time.Duration)
}
