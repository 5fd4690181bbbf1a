package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/application"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/infrastructure/idempotency/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(time.Hour)

	payload, err := store.Begin(ctx, "key-1", "hash-a")
	require.NoError(t, err)
	assert.Nil(t, payload)

	_, err = store.Begin(ctx, "key-1", "hash-a")
	assert.ErrorIs(t, err, application.ErrRequestInProgress)

	_, err = store.Begin(ctx, "key-1", "hash-b")
	assert.ErrorIs(t, err, application.ErrIdempotencyMismatch)

	require.NoError(t, store.Complete(ctx, "key-1", []byte(`{"success":true}`)))

	payload, err = store.Begin(ctx, "key-1", "hash-a")
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true}`, string(payload))
}

func TestStore_Release(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(time.Hour)

	_, err := store.Begin(ctx, "key-1", "hash-a")
	require.NoError(t, err)
	require.NoError(t, store.Release(ctx, "key-1"))

	payload, err := store.Begin(ctx, "key-1", "hash-b")
	require.NoError(t, err)
	assert.Nil(t, payload)
}

func TestStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(time.Millisecond)

	_, err := store.Begin(ctx, "key-1", "hash-a")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	_, err = store.Begin(ctx, "key-1", "hash-b")
	assert.NoError(t, err)
}
