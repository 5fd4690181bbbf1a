package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/application"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/domain"
	"github.com/google/uuid"
)

// ledger persists transitions and announces them.
type ledger struct {
	store     application.TransactionStore
	publisher application.EventPublisher
	logger    *slog.Logger
}

func (l *ledger) load(ctx context.Context, gatewayPaymentID string) (*domain.Transaction, *domain.CanonicalError) {
	tx, err := l.store.Get(ctx, gatewayPaymentID)
	if err != nil {
		return nil, l.storeFailure("load", gatewayPaymentID, err)
	}
	return tx, nil
}

func (l *ledger) create(ctx context.Context, tx *domain.Transaction) *domain.CanonicalError {
	if err := l.store.Create(ctx, tx); err != nil {
		return l.storeFailure("create", tx.GatewayPaymentID, err)
	}
	l.publish(ctx, tx, domain.StateCreated)
	return nil
}

// save writes tx if the stored state is still prev and publishes the change.
func (l *ledger) save(ctx context.Context, tx *domain.Transaction, prev domain.TransactionState) *domain.CanonicalError {
	if err := l.store.Update(ctx, tx, prev); err != nil {
		return l.storeFailure("update", tx.GatewayPaymentID, err)
	}
	if tx.State != prev {
		l.publish(ctx, tx, prev)
	}
	return nil
}

// apply runs mutate on a copy of tx and saves it. When another writer got to
// the row first, the fresh row is reloaded and mutate runs again, up to
// attempts times. The returned transaction is the last stored version.
func (l *ledger) apply(
	ctx context.Context,
	tx *domain.Transaction,
	attempts int,
	mutate func(*domain.Transaction) error,
) (*domain.Transaction, *domain.CanonicalError) {
	current := tx
	for attempt := 1; ; attempt++ {
		next := *current
		if err := mutate(&next); err != nil {
			return current, asCanonical(err, current.Family)
		}

		err := l.store.Update(ctx, &next, current.State)
		if err == nil {
			if next.State != current.State {
				l.publish(ctx, &next, current.State)
			}
			return &next, nil
		}
		if !errors.Is(err, application.ErrConcurrentUpdate) || attempt >= attempts {
			return current, l.storeFailure("update", current.GatewayPaymentID, err)
		}

		l.logger.Info("transaction changed concurrently, reapplying",
			"payment_id", current.GatewayPaymentID,
			"attempt", attempt,
		)
		reloaded, cerr := l.load(ctx, current.GatewayPaymentID)
		if cerr != nil {
			return current, cerr
		}
		current = reloaded
	}
}

func (l *ledger) publish(ctx context.Context, tx *domain.Transaction, from domain.TransactionState) {
	if l.publisher == nil {
		return
	}
	event := domain.StateChange{
		EventID:          uuid.NewString(),
		GatewayPaymentID: tx.GatewayPaymentID,
		OrderID:          tx.OrderID,
		Family:           tx.Family,
		From:             from,
		To:               tx.State,
		OccurredAt:       tx.UpdatedAt,
	}
	if err := l.publisher.PublishStateChange(ctx, event); err != nil {
		l.logger.Warn("failed to publish state change",
			"payment_id", tx.GatewayPaymentID,
			"from", from,
			"to", tx.State,
			"error", err,
		)
	}
}

func (l *ledger) storeFailure(operation, gatewayPaymentID string, err error) *domain.CanonicalError {
	switch {
	case errors.Is(err, application.ErrTransactionNotFound):
		return domain.NewValidationError("transaction %s not found", gatewayPaymentID)
	case errors.Is(err, application.ErrConcurrentUpdate):
		return domain.NewValidationError("transaction changed concurrently")
	case errors.Is(err, application.ErrDuplicateTransaction):
		return domain.NewValidationError("transaction %s already recorded", gatewayPaymentID)
	}
	l.logger.Error("transaction store failed",
		"operation", operation,
		"payment_id", gatewayPaymentID,
		"error", err,
	)
	return application.Translate(fmt.Errorf("transaction store %s: %w", operation, err), "")
}

// ComputeHash fingerprints a request so a reused idempotency key can be told
// apart from a retry.
func ComputeHash(operation string, request any) (string, error) {
	data, err := json.Marshal(struct {
		Operation string `json:"operation"`
		Request   any    `json:"request"`
	}{operation, request})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// idempotent runs op at most once per key. A completed key replays the stored
// result; a result whose error is retryable releases the key instead.
func idempotent[T any](
	ctx context.Context,
	store application.IdempotencyStore,
	logger *slog.Logger,
	key, operation string,
	request any,
	fail func(*domain.CanonicalError) T,
	retryable func(T) bool,
	op func(context.Context) T,
) T {
	if key == "" || store == nil {
		return op(ctx)
	}

	hash, err := ComputeHash(operation, request)
	if err != nil {
		return fail(domain.NewValidationError("request cannot be fingerprinted: %v", err))
	}

	stored, err := store.Begin(ctx, key, hash)
	switch {
	case errors.Is(err, application.ErrIdempotencyMismatch):
		return fail(domain.NewValidationError("idempotency key reused with different parameters"))
	case errors.Is(err, application.ErrRequestInProgress):
		return fail(domain.NewCanonicalError(domain.KindNetwork, "request is being processed", ""))
	case err != nil:
		logger.Error("idempotency store failed", "key", key, "error", err)
		return fail(domain.NewCanonicalError(domain.KindNetwork, "idempotency store unavailable", ""))
	}

	if stored != nil {
		var replay T
		if err := json.Unmarshal(stored, &replay); err != nil {
			logger.Error("stored idempotent result is unreadable", "key", key, "error", err)
			return fail(domain.NewCanonicalError(domain.KindUnknown, "stored result is unreadable", ""))
		}
		logger.Info("replaying idempotent result", "key", key, "operation", operation)
		return replay
	}

	res := op(ctx)

	if retryable(res) {
		if err := store.Release(ctx, key); err != nil {
			logger.Warn("failed to release idempotency key", "key", key, "error", err)
		}
		return res
	}

	payload, err := json.Marshal(res)
	if err == nil {
		err = store.Complete(ctx, key, payload)
	}
	if err != nil {
		logger.Warn("failed to store idempotent result", "key", key, "error", err)
	}
	return res
}
