package directcapture_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/domain"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/infrastructure/gateway/directcapture"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/infrastructure/httpclient"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdapter(t *testing.T) (*directcapture.Adapter, *mocks.DirectCaptureClient) {
	t.Helper()
	client := mocks.NewDirectCaptureClient()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return directcapture.NewAdapter("stripe", client, logger), client
}

func paymentRequest(amount, currency string) domain.PaymentRequest {
	return domain.PaymentRequest{
		Amount:            decimal.RequireFromString(amount),
		Currency:          currency,
		GatewayFamily:     domain.FamilyDirectCapture,
		OrderID:           "order-1",
		CustomerReference: "cus_1",
	}
}

func TestAdapter_Initiate(t *testing.T) {
	t.Run("fast path completes", func(t *testing.T) {
		adapter, client := newAdapter(t)

		res := adapter.Initiate(context.Background(), paymentRequest("100.00", "USD"))

		require.True(t, res.Success)
		assert.Equal(t, domain.StateCompleted, res.State)
		assert.Equal(t, "100", res.Amount.String())
		assert.Equal(t, "USD", res.Currency)
		assert.NotEmpty(t, res.GatewayPaymentID)
		assert.False(t, res.RequiresAction)
		assert.Equal(t, 1, client.GetCalls("CreatePaymentIntent"))
	})

	t.Run("zero amount completes", func(t *testing.T) {
		adapter, _ := newAdapter(t)

		res := adapter.Initiate(context.Background(), paymentRequest("0", "USD"))

		require.True(t, res.Success)
		assert.Equal(t, domain.StateCompleted, res.State)
		assert.True(t, res.Amount.IsZero())
	})

	t.Run("sends minor units and lower-case currency", func(t *testing.T) {
		adapter, client := newAdapter(t)
		var sent directcapture.CreateIntentRequest
		client.CreatePaymentIntentFn = func(_ context.Context, req directcapture.CreateIntentRequest, key string) (*directcapture.PaymentIntent, error) {
			sent = req
			assert.NotEmpty(t, key)
			return &directcapture.PaymentIntent{ID: "pi_x", Amount: req.Amount, Currency: req.Currency, Status: directcapture.IntentSucceeded}, nil
		}

		res := adapter.Initiate(context.Background(), paymentRequest("100.00", "USD"))

		require.True(t, res.Success)
		assert.Equal(t, int64(10000), sent.Amount)
		assert.Equal(t, "usd", sent.Currency)
		assert.True(t, sent.Confirm)
		assert.Equal(t, "order-1", sent.Metadata["order_id"])
	})

	t.Run("challenge returns requires action", func(t *testing.T) {
		adapter, client := newAdapter(t)
		client.RequireChallenge = true

		res := adapter.Initiate(context.Background(), paymentRequest("25.00", "EUR"))

		require.True(t, res.Success)
		assert.Equal(t, domain.StateRequiresAction, res.State)
		assert.True(t, res.RequiresAction)
		require.NotNil(t, res.Action)
		assert.Equal(t, domain.ActionChallenge, res.Action.Type)
		assert.Equal(t, res.GatewayPaymentID, res.Action.Token)
		assert.Contains(t, res.Action.URL, "3ds")
	})

	t.Run("rejects fractional CLP before calling the gateway", func(t *testing.T) {
		adapter, client := newAdapter(t)

		res := adapter.Initiate(context.Background(), paymentRequest("100.50", "CLP"))

		assert.False(t, res.Success)
		require.NotNil(t, res.Error)
		assert.Equal(t, domain.KindValidation, res.Error.Kind)
		assert.Equal(t, 0, client.GetCalls("CreatePaymentIntent"))
	})

	t.Run("declined card", func(t *testing.T) {
		adapter, client := newAdapter(t)
		client.CreatePaymentIntentFn = func(context.Context, directcapture.CreateIntentRequest, string) (*directcapture.PaymentIntent, error) {
			return nil, &httpclient.GatewayError{Code: "card_declined", Message: "Your card was declined.", StatusCode: 402}
		}

		res := adapter.Initiate(context.Background(), paymentRequest("10.00", "USD"))

		assert.False(t, res.Success)
		assert.Equal(t, domain.StateFailed, res.State)
		assert.Equal(t, domain.KindDeclined, res.Error.Kind)
		assert.False(t, res.Error.Retryable)
		assert.Equal(t, "direct_capture", res.Error.SourceGateway)
	})

	t.Run("timeout is retryable network failure", func(t *testing.T) {
		adapter, client := newAdapter(t)
		client.CreatePaymentIntentFn = func(context.Context, directcapture.CreateIntentRequest, string) (*directcapture.PaymentIntent, error) {
			return nil, context.DeadlineExceeded
		}

		res := adapter.Initiate(context.Background(), paymentRequest("10.00", "USD"))

		assert.False(t, res.Success)
		assert.Equal(t, domain.KindNetwork, res.Error.Kind)
		assert.True(t, res.Error.Retryable)
		assert.True(t, res.StateRetained)
	})
}

func TestAdapter_Confirm(t *testing.T) {
	t.Run("completes a challenged intent", func(t *testing.T) {
		adapter, client := newAdapter(t)
		client.RequireChallenge = true
		pending := adapter.Initiate(context.Background(), paymentRequest("25.00", "USD"))

		res := adapter.Confirm(context.Background(), pending.Action.Token)

		require.True(t, res.Success)
		assert.Equal(t, domain.StateCompleted, res.State)
		assert.Equal(t, 1, client.GetCalls("ConfirmPaymentIntent"))
	})

	t.Run("second confirm does not charge again", func(t *testing.T) {
		adapter, client := newAdapter(t)
		client.RequireChallenge = true
		pending := adapter.Initiate(context.Background(), paymentRequest("25.00", "USD"))

		first := adapter.Confirm(context.Background(), pending.GatewayPaymentID)
		second := adapter.Confirm(context.Background(), pending.GatewayPaymentID)

		assert.Equal(t, first, second)
		assert.Equal(t, domain.StateCompleted, second.State)
		assert.Equal(t, 1, client.GetCalls("ConfirmPaymentIntent"))
	})

	t.Run("declined challenge fails", func(t *testing.T) {
		adapter, client := newAdapter(t)
		client.RequireChallenge = true
		client.DeclineConfirm = true
		pending := adapter.Initiate(context.Background(), paymentRequest("25.00", "USD"))

		res := adapter.Confirm(context.Background(), pending.GatewayPaymentID)

		assert.False(t, res.Success)
		assert.Equal(t, domain.StateFailed, res.State)
		assert.Equal(t, domain.KindDeclined, res.Error.Kind)
		assert.Equal(t, "Your card was declined.", res.Error.Message)
		assert.False(t, res.StateRetained)
	})

	t.Run("unknown intent", func(t *testing.T) {
		adapter, _ := newAdapter(t)

		res := adapter.Confirm(context.Background(), "pi_missing")

		assert.False(t, res.Success)
		assert.Equal(t, domain.KindValidation, res.Error.Kind)
	})
}

func TestAdapter_UnsupportedOperations(t *testing.T) {
	adapter, _ := newAdapter(t)

	for _, res := range []domain.PaymentResult{
		adapter.Capture(context.Background(), "pi_1"),
		adapter.ConfirmRedirect(context.Background(), "tok"),
	} {
		assert.False(t, res.Success)
		assert.Equal(t, domain.KindValidation, res.Error.Kind)
		assert.True(t, res.StateRetained)
	}
}

func TestAdapter_Refund(t *testing.T) {
	t.Run("partial refund in minor units", func(t *testing.T) {
		adapter, client := newAdapter(t)
		paid := adapter.Initiate(context.Background(), paymentRequest("100.00", "USD"))
		var sent directcapture.RefundRequest
		client.CreateRefundFn = func(_ context.Context, req directcapture.RefundRequest, _ string) (*directcapture.Refund, error) {
			sent = req
			return &directcapture.Refund{ID: "re_1", Amount: *req.Amount, Currency: "usd", Status: "succeeded"}, nil
		}
		amount := decimal.RequireFromString("60.00")

		res := adapter.Refund(context.Background(), paid.GatewayPaymentID, &amount, "USD", "requested_by_customer")

		require.True(t, res.Success)
		require.NotNil(t, sent.Amount)
		assert.Equal(t, int64(6000), *sent.Amount)
		assert.Equal(t, "requested_by_customer", sent.Reason)
		assert.Equal(t, "re_1", res.RefundID)
		assert.True(t, amount.Equal(res.Amount))
	})

	t.Run("full refund omits amount", func(t *testing.T) {
		adapter, _ := newAdapter(t)
		paid := adapter.Initiate(context.Background(), paymentRequest("12.34", "USD"))

		res := adapter.Refund(context.Background(), paid.GatewayPaymentID, nil, "USD", "")

		require.True(t, res.Success)
		assert.Equal(t, "12.34", res.Amount.String())
	})

	t.Run("gateway failure", func(t *testing.T) {
		adapter, client := newAdapter(t)
		client.CreateRefundFn = func(context.Context, directcapture.RefundRequest, string) (*directcapture.Refund, error) {
			return nil, errors.New("connection refused")
		}
		amount := decimal.NewFromInt(1)

		res := adapter.Refund(context.Background(), "pi_1", &amount, "USD", "")

		assert.False(t, res.Success)
		assert.Equal(t, domain.StateRefundFailed, res.State)
		assert.True(t, res.Error.Retryable)
	})

	t.Run("refund reported failed", func(t *testing.T) {
		adapter, client := newAdapter(t)
		client.CreateRefundFn = func(context.Context, directcapture.RefundRequest, string) (*directcapture.Refund, error) {
			return &directcapture.Refund{ID: "re_9", Status: "failed"}, nil
		}
		amount := decimal.NewFromInt(1)

		res := adapter.Refund(context.Background(), "pi_1", &amount, "USD", "")

		assert.False(t, res.Success)
		assert.Equal(t, domain.KindDeclined, res.Error.Kind)
	})
}

func TestAdapter_GetStatus(t *testing.T) {
	adapter, client := newAdapter(t)
	client.RequireChallenge = true
	pending := adapter.Initiate(context.Background(), paymentRequest("5.00", "USD"))

	res := adapter.GetStatus(context.Background(), pending.GatewayPaymentID)

	require.True(t, res.Success)
	assert.Equal(t, domain.StateRequiresAction, res.State)
	assert.Equal(t, "5", res.Amount.String())
}
