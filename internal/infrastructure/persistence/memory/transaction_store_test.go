package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/application"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/domain"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/infrastructure/persistence/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTransaction(t *testing.T, id string) *domain.Transaction {
	t.Helper()
	tx, err := domain.NewTransaction(id, "order-1", domain.FamilyRedirectApproval, decimal.RequireFromString("25.00"), "EUR")
	require.NoError(t, err)
	return tx
}

func TestTransactionStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := memory.NewTransactionStore()
	tx := newTransaction(t, "ORDER-1")
	tx.Action = &domain.ActionPayload{Type: domain.ActionApprovalURL, URL: "https://approve.example.test"}

	require.NoError(t, store.Create(ctx, tx))

	got, err := store.Get(ctx, "ORDER-1")
	require.NoError(t, err)
	assert.Equal(t, tx.GatewayPaymentID, got.GatewayPaymentID)
	assert.True(t, tx.Amount.Equal(got.Amount))
	assert.Equal(t, "https://approve.example.test", got.Action.URL)

	// returned copies do not alias the stored record
	got.Action.URL = "changed"
	again, err := store.Get(ctx, "ORDER-1")
	require.NoError(t, err)
	assert.Equal(t, "https://approve.example.test", again.Action.URL)
}

func TestTransactionStore_CreateDuplicate(t *testing.T) {
	ctx := context.Background()
	store := memory.NewTransactionStore()
	require.NoError(t, store.Create(ctx, newTransaction(t, "ORDER-1")))

	err := store.Create(ctx, newTransaction(t, "ORDER-1"))

	assert.ErrorIs(t, err, application.ErrDuplicateTransaction)
}

func TestTransactionStore_GetMissing(t *testing.T) {
	_, err := memory.NewTransactionStore().Get(context.Background(), "nope")

	assert.ErrorIs(t, err, application.ErrTransactionNotFound)
}

func TestTransactionStore_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("applies when previous state matches", func(t *testing.T) {
		store := memory.NewTransactionStore()
		tx := newTransaction(t, "ORDER-1")
		require.NoError(t, store.Create(ctx, tx))
		require.NoError(t, tx.Transition(domain.StatePendingApproval))

		require.NoError(t, store.Update(ctx, tx, domain.StateCreated))

		got, err := store.Get(ctx, "ORDER-1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatePendingApproval, got.State)
	})

	t.Run("rejects a stale previous state", func(t *testing.T) {
		store := memory.NewTransactionStore()
		tx := newTransaction(t, "ORDER-1")
		require.NoError(t, store.Create(ctx, tx))
		require.NoError(t, tx.Transition(domain.StatePendingApproval))

		err := store.Update(ctx, tx, domain.StatePendingApproval)

		assert.ErrorIs(t, err, application.ErrConcurrentUpdate)
	})

	t.Run("rejects a stale version on a self transition", func(t *testing.T) {
		store := memory.NewTransactionStore()
		tx, err := domain.NewTransaction("ORDER-1", "order-1", domain.FamilyDirectCapture, decimal.NewFromInt(100), "USD")
		require.NoError(t, err)
		require.NoError(t, tx.Transition(domain.StateCompleted))
		require.NoError(t, tx.ApplyRefund(decimal.NewFromInt(10)))
		require.NoError(t, store.Create(ctx, tx))

		first, err := store.Get(ctx, "ORDER-1")
		require.NoError(t, err)
		second, err := store.Get(ctx, "ORDER-1")
		require.NoError(t, err)

		require.NoError(t, first.ApplyRefund(decimal.NewFromInt(30)))
		require.NoError(t, store.Update(ctx, first, domain.StatePartiallyRefunded))
		assert.Equal(t, int64(1), first.Version)

		require.NoError(t, second.ApplyRefund(decimal.NewFromInt(30)))
		err = store.Update(ctx, second, domain.StatePartiallyRefunded)

		assert.ErrorIs(t, err, application.ErrConcurrentUpdate)
		got, err := store.Get(ctx, "ORDER-1")
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(40).Equal(got.RefundedAmount))
	})

	t.Run("missing transaction", func(t *testing.T) {
		err := memory.NewTransactionStore().Update(ctx, newTransaction(t, "ORDER-9"), domain.StateCreated)

		assert.ErrorIs(t, err, application.ErrTransactionNotFound)
	})
}

func TestTransactionStore_FindStalePending(t *testing.T) {
	ctx := context.Background()
	store := memory.NewTransactionStore()
	old := time.Now().Add(-2 * time.Hour)

	for i, id := range []string{"ORDER-1", "ORDER-2", "ORDER-3"} {
		tx := newTransaction(t, id)
		require.NoError(t, tx.Transition(domain.StatePendingApproval))
		tx.UpdatedAt = old.Add(time.Duration(i) * time.Minute)
		require.NoError(t, store.Create(ctx, tx))
	}
	fresh := newTransaction(t, "ORDER-4")
	require.NoError(t, fresh.Transition(domain.StatePendingApproval))
	require.NoError(t, store.Create(ctx, fresh))
	created := newTransaction(t, "ORDER-5")
	created.UpdatedAt = old
	require.NoError(t, store.Create(ctx, created))

	stale, err := store.FindStalePending(ctx, time.Now().Add(-time.Hour), 2)

	require.NoError(t, err)
	require.Len(t, stale, 2)
	assert.Equal(t, "ORDER-1", stale[0].GatewayPaymentID)
	assert.Equal(t, "ORDER-2", stale[1].GatewayPaymentID)
}
