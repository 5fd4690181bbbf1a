package gateway_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/domain"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/infrastructure/gateway"
	"github.com/stretchr/testify/assert"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestFailure(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		kind     domain.ErrorKind
		retained bool
	}{
		{"declined moves to failed", errors.New("card declined"), domain.KindDeclined, false},
		{"network keeps state", context.DeadlineExceeded, domain.KindNetwork, true},
		{"configuration keeps state", errors.New("invalid api key"), domain.KindConfiguration, true},
		{"unknown keeps state", errors.New("spurious"), domain.KindUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := gateway.Failure(discard, domain.FamilyDirectCapture, "pi_1", tt.err)

			assert.False(t, res.Success)
			assert.Equal(t, domain.StateFailed, res.State)
			assert.Equal(t, tt.kind, res.Error.Kind)
			assert.Equal(t, tt.retained, res.StateRetained)
			assert.Equal(t, "pi_1", res.GatewayPaymentID)
		})
	}
}

func TestUnsupported(t *testing.T) {
	u := gateway.NewUnsupported(domain.FamilyTokenRedirect)

	res := u.Capture(context.Background(), "tok")

	assert.False(t, res.Success)
	assert.Equal(t, domain.KindValidation, res.Error.Kind)
	assert.Contains(t, res.Error.Message, "capture is not supported")
	assert.True(t, res.StateRetained)
}

func TestRefundFailure(t *testing.T) {
	res := gateway.RefundFailure(discard, domain.FamilyRedirectApproval, "ORDER-1", errors.New("connection refused"))

	assert.False(t, res.Success)
	assert.Equal(t, domain.StateRefundFailed, res.State)
	assert.True(t, res.Error.Retryable)
}
