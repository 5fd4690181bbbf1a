// Package gateway holds what the family adapters share: unsupported-operation
// stubs and the conversion of raw failures into canonical results.
package gateway

import (
	"context"
	"log/slog"

	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/application"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/domain"
)

// Unsupported answers the second-phase operations a family does not have.
// Adapters embed it and override the ones they implement.
type Unsupported struct {
	family domain.GatewayFamily
}

func NewUnsupported(family domain.GatewayFamily) Unsupported {
	return Unsupported{family: family}
}

func (u Unsupported) Confirm(_ context.Context, pendingID string) domain.PaymentResult {
	return u.reject(pendingID, "confirm")
}

func (u Unsupported) Capture(_ context.Context, pendingID string) domain.PaymentResult {
	return u.reject(pendingID, "capture")
}

func (u Unsupported) ConfirmRedirect(_ context.Context, token string) domain.PaymentResult {
	return u.reject(token, "confirmRedirect")
}

func (u Unsupported) reject(id, operation string) domain.PaymentResult {
	res := domain.RejectedPayment(u.family, id, domain.StateUnknown, domain.NewUnsupportedOperationError(u.family, operation))
	res.StateRetained = true
	return res
}

// Failure translates err into a FAILED payment result. Only a declined payment
// moves the stored transaction; any other failure leaves the remote record open.
func Failure(logger *slog.Logger, family domain.GatewayFamily, paymentID string, err error) domain.PaymentResult {
	ce := application.Translate(err, string(family))
	logFailure(logger, family, paymentID, ce)
	res := domain.FailedPayment(family, paymentID, ce)
	res.StateRetained = ce.Kind != domain.KindDeclined
	return res
}

// Declined builds a FAILED result for a payment the gateway answered but refused.
func Declined(logger *slog.Logger, family domain.GatewayFamily, paymentID, message string) domain.PaymentResult {
	ce := domain.NewCanonicalError(domain.KindDeclined, message, string(family))
	logFailure(logger, family, paymentID, ce)
	return domain.FailedPayment(family, paymentID, ce)
}

// RefundFailure translates err into a REFUND_FAILED result.
func RefundFailure(logger *slog.Logger, family domain.GatewayFamily, paymentID string, err error) domain.RefundResult {
	ce := application.Translate(err, string(family))
	logFailure(logger, family, paymentID, ce)
	return domain.FailedRefund(family, paymentID, domain.StateRefundFailed, ce)
}

// RefundDeclined builds a REFUND_FAILED result for a refund the gateway refused.
func RefundDeclined(logger *slog.Logger, family domain.GatewayFamily, paymentID, message string) domain.RefundResult {
	ce := domain.NewCanonicalError(domain.KindDeclined, message, string(family))
	logFailure(logger, family, paymentID, ce)
	return domain.FailedRefund(family, paymentID, domain.StateRefundFailed, ce)
}

func logFailure(logger *slog.Logger, family domain.GatewayFamily, paymentID string, ce *domain.CanonicalError) {
	attrs := []any{
		"family", family,
		"payment_id", paymentID,
		"kind", ce.Kind,
		"error", ce.Message,
	}
	switch {
	case ce.NeedsOperatorAttention():
		logger.Error("gateway call failed", attrs...)
	case ce.Kind == domain.KindNetwork:
		logger.Warn("gateway call failed", attrs...)
	default:
		logger.Info("gateway call failed", attrs...)
	}
}

// RequestID derives a stable gateway idempotency key for a mutating call on an existing record.
func RequestID(operation, id string) string {
	return operation + "-" + id
}
