package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/application"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/application/services"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/domain"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/infrastructure/persistence/memory"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newMockedOrchestrator(t *testing.T) (*services.Orchestrator, *mocks.MockGatewayAdapter, *memory.TransactionStore) {
	t.Helper()
	adapter := mocks.NewMockGatewayAdapter(t)
	adapter.EXPECT().Family().Return(domain.FamilyDirectCapture).Maybe()
	adapter.EXPECT().Name().Return("mock").Maybe()

	store := memory.NewTransactionStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	o := services.NewOrchestrator([]application.GatewayAdapter{adapter}, allConfigured(), store, nil, &recordingPublisher{}, nil, logger)
	return o, adapter, store
}

func TestInitiate_IllegalInitialStateIsNotRecorded(t *testing.T) {
	o, adapter, store := newMockedOrchestrator(t)
	adapter.EXPECT().Initiate(mock.Anything, mock.Anything).Return(domain.PaymentResult{
		Success:          true,
		State:            domain.StateRefunded,
		Family:           domain.FamilyDirectCapture,
		GatewayPaymentID: "pi_odd",
		Amount:           decimal.NewFromInt(10),
		Currency:         "USD",
	}).Once()

	res := o.InitiatePayment(context.Background(), newRequest(domain.FamilyDirectCapture, "10", "USD"), "")

	assert.False(t, res.Success)
	require.NotNil(t, res.Error)
	assert.Equal(t, domain.KindUnknown, res.Error.Kind)
	_, err := store.Get(context.Background(), "pi_odd")
	assert.ErrorIs(t, err, application.ErrTransactionNotFound)
}

func TestInitiate_RetainedFailureIsNotRecorded(t *testing.T) {
	o, adapter, store := newMockedOrchestrator(t)
	failed := domain.FailedPayment(domain.FamilyDirectCapture, "pi_open",
		domain.NewCanonicalError(domain.KindNetwork, "upstream timed out", "direct"))
	failed.StateRetained = true
	adapter.EXPECT().Initiate(mock.Anything, mock.Anything).Return(failed).Once()

	res := o.InitiatePayment(context.Background(), newRequest(domain.FamilyDirectCapture, "10", "USD"), "")

	assert.False(t, res.Success)
	assert.True(t, res.Error.Retryable)
	_, err := store.Get(context.Background(), "pi_open")
	assert.ErrorIs(t, err, application.ErrTransactionNotFound)
}

func TestRefund_AdapterReceivesExplicitAmount(t *testing.T) {
	o, adapter, store := newMockedOrchestrator(t)
	tx, err := domain.NewTransaction("pi_paid", "order-7", domain.FamilyDirectCapture, decimal.RequireFromString("30.00"), "USD")
	require.NoError(t, err)
	require.NoError(t, tx.Transition(domain.StateCompleted))
	require.NoError(t, store.Create(context.Background(), tx))

	adapter.EXPECT().
		Refund(mock.Anything, "pi_paid", mock.MatchedBy(func(amount *decimal.Decimal) bool {
			return amount != nil && amount.Equal(decimal.RequireFromString("30"))
		}), "USD", "").
		Return(domain.RefundResult{Success: true, State: domain.StateRefunded, RefundID: "re_1"}).
		Once()

	res := o.RefundPayment(context.Background(), domain.RefundRequest{GatewayPaymentID: "pi_paid"}, "")

	assert.True(t, res.Success)
	assert.Equal(t, domain.StateRefunded, res.State)
	assert.Equal(t, "USD", res.Currency)
}

func TestRefund_ValidationFailureKeepsState(t *testing.T) {
	o, adapter, store := newMockedOrchestrator(t)
	tx, err := domain.NewTransaction("pi_paid", "order-7", domain.FamilyDirectCapture, decimal.NewFromInt(30), "USD")
	require.NoError(t, err)
	require.NoError(t, tx.Transition(domain.StateCompleted))
	require.NoError(t, store.Create(context.Background(), tx))

	adapter.EXPECT().Refund(mock.Anything, "pi_paid", mock.Anything, "USD", "").
		Return(domain.FailedRefund(domain.FamilyDirectCapture, "pi_paid", domain.StateRefundFailed,
			domain.NewCanonicalError(domain.KindValidation, "charge_already_refunded", "direct"))).
		Once()

	res := o.RefundPayment(context.Background(), domain.RefundRequest{GatewayPaymentID: "pi_paid"}, "")

	assert.False(t, res.Success)
	assert.Equal(t, domain.StateCompleted, res.State)
	stored, err := store.Get(context.Background(), "pi_paid")
	require.NoError(t, err)
	assert.Equal(t, domain.StateCompleted, stored.State)
}

func amountOf(v string) interface{} {
	want := decimal.RequireFromString(v)
	return mock.MatchedBy(func(amount *decimal.Decimal) bool {
		return amount != nil && amount.Equal(want)
	})
}

func TestRefund_ConcurrentPartialRefundsAreAllBooked(t *testing.T) {
	o, adapter, store := newMockedOrchestrator(t)
	ctx := context.Background()
	tx, err := domain.NewTransaction("pi_paid", "order-7", domain.FamilyDirectCapture, decimal.NewFromInt(100), "USD")
	require.NoError(t, err)
	require.NoError(t, tx.Transition(domain.StateCompleted))
	require.NoError(t, store.Create(ctx, tx))

	adapter.EXPECT().Refund(mock.Anything, "pi_paid", amountOf("10"), "USD", "").
		Return(domain.RefundResult{Success: true, RefundID: "re_first"}).
		Once()

	var arrived sync.WaitGroup
	arrived.Add(2)
	adapter.EXPECT().Refund(mock.Anything, "pi_paid", amountOf("30"), "USD", "").
		Run(func(context.Context, string, *decimal.Decimal, string, string) {
			arrived.Done()
			arrived.Wait()
		}).
		Return(domain.RefundResult{Success: true, RefundID: "re_racing"}).
		Times(2)

	thirty := decimal.NewFromInt(30)
	first := o.RefundPayment(ctx, domain.RefundRequest{GatewayPaymentID: "pi_paid", Amount: decimalPtr("10")}, "")
	require.True(t, first.Success)
	require.Equal(t, domain.StatePartiallyRefunded, first.State)

	results := make([]domain.RefundResult, 2)
	var done sync.WaitGroup
	for i := range results {
		done.Add(1)
		go func(i int) {
			defer done.Done()
			results[i] = o.RefundPayment(ctx, domain.RefundRequest{GatewayPaymentID: "pi_paid", Amount: &thirty}, "")
		}(i)
	}
	done.Wait()

	for _, res := range results {
		assert.True(t, res.Success)
	}
	stored, err := store.Get(ctx, "pi_paid")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(70).Equal(stored.RefundedAmount), "refunded %s", stored.RefundedAmount)
	assert.Equal(t, domain.StatePartiallyRefunded, stored.State)

	over := o.RefundPayment(ctx, domain.RefundRequest{GatewayPaymentID: "pi_paid", Amount: decimalPtr("60")}, "")

	assert.False(t, over.Success)
	require.NotNil(t, over.Error)
	assert.Equal(t, domain.KindValidation, over.Error.Kind)
	assert.True(t, decimal.NewFromInt(30).Equal(over.Remaining))
}

func decimalPtr(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

type unavailableStore struct {
	*memory.TransactionStore
}

func (unavailableStore) Get(context.Context, string) (*domain.Transaction, error) {
	return nil, errors.New("dial tcp 10.0.0.5:5432: connection refused")
}

func TestGetPaymentStatus_StoreOutage(t *testing.T) {
	adapter := mocks.NewMockGatewayAdapter(t)
	adapter.EXPECT().Family().Return(domain.FamilyDirectCapture).Maybe()
	adapter.EXPECT().Name().Return("mock").Maybe()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	o := services.NewOrchestrator([]application.GatewayAdapter{adapter}, allConfigured(),
		unavailableStore{memory.NewTransactionStore()}, nil, nil, nil, logger)

	t.Run("without family", func(t *testing.T) {
		res := o.GetPaymentStatus(context.Background(), "pi_paid", "")

		assert.False(t, res.Success)
		require.NotNil(t, res.Error)
		assert.Equal(t, domain.KindNetwork, res.Error.Kind)
		assert.True(t, res.Error.Retryable)
	})

	t.Run("with family still asks the gateway", func(t *testing.T) {
		adapter.EXPECT().GetStatus(mock.Anything, "pi_paid").Return(domain.PaymentResult{
			Success:          true,
			State:            domain.StateCompleted,
			Family:           domain.FamilyDirectCapture,
			GatewayPaymentID: "pi_paid",
		}).Once()

		res := o.GetPaymentStatus(context.Background(), "pi_paid", domain.FamilyDirectCapture)

		assert.True(t, res.Success)
		assert.Equal(t, domain.StateCompleted, res.State)
	})
}
