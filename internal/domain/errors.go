package domain

import (
	"errors"
	"fmt"
)

// ErrorKind is the canonical failure taxonomy shared by every gateway family.
type ErrorKind string

const (
	KindDeclined       ErrorKind = "DECLINED"
	KindRequiresAction ErrorKind = "REQUIRES_ACTION"
	KindNetwork        ErrorKind = "NETWORK"
	KindConfiguration  ErrorKind = "CONFIGURATION"
	KindValidation     ErrorKind = "VALIDATION"
	KindUnknown        ErrorKind = "UNKNOWN"
)

// CanonicalError is the data form of every failure that crosses the facade.
// Retryable is derived from Kind; only NETWORK failures are retryable.
type CanonicalError struct {
	Kind          ErrorKind `json:"kind"`
	Message       string    `json:"message"`
	Retryable     bool      `json:"retryable"`
	SourceGateway string    `json:"source_gateway,omitempty"`
}

func NewCanonicalError(kind ErrorKind, message, sourceGateway string) *CanonicalError {
	return &CanonicalError{
		Kind:          kind,
		Message:       message,
		Retryable:     kind == KindNetwork,
		SourceGateway: sourceGateway,
	}
}

func (e *CanonicalError) Error() string {
	if e.SourceGateway != "" {
		return fmt.Sprintf("%s [%s]: %s", e.Kind, e.SourceGateway, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// UserMessage returns text that is safe to show to an end user.
// CONFIGURATION and UNKNOWN messages are never exposed verbatim.
func (e *CanonicalError) UserMessage() string {
	switch e.Kind {
	case KindDeclined:
		return "The payment was declined. Please try another payment method."
	case KindNetwork:
		return "The payment provider is temporarily unavailable. It is safe to retry."
	case KindValidation:
		return e.Message
	case KindRequiresAction:
		return "Additional verification is required to complete the payment."
	default:
		return "The payment could not be processed. Please contact support."
	}
}

// NeedsOperatorAttention reports whether the failure must be logged for operators.
func (e *CanonicalError) NeedsOperatorAttention() bool {
	return e.Kind == KindConfiguration || e.Kind == KindUnknown
}

func NewValidationError(format string, args ...any) *CanonicalError {
	return NewCanonicalError(KindValidation, fmt.Sprintf(format, args...), "")
}

func NewConfigurationError(family GatewayFamily) *CanonicalError {
	return NewCanonicalError(KindConfiguration, fmt.Sprintf("gateway family %s is not configured", family), string(family))
}

func NewInvalidTransitionError(family GatewayFamily, from, to TransactionState) *CanonicalError {
	return NewCanonicalError(
		KindValidation,
		fmt.Sprintf("cannot transition from %s to %s", from, to),
		string(family),
	)
}

func NewUnsupportedOperationError(family GatewayFamily, operation string) *CanonicalError {
	return NewCanonicalError(
		KindValidation,
		fmt.Sprintf("%s is not supported by the %s family", operation, family),
		string(family),
	)
}

// AsCanonicalError extracts a CanonicalError from an error chain.
func AsCanonicalError(err error) (*CanonicalError, bool) {
	var ce *CanonicalError
	ok := errors.As(err, &ce)
	return ce, ok
}

// IsErrorKind checks if an error is a CanonicalError with a specific kind
func IsErrorKind(err error, kind ErrorKind) bool {
	if ce, ok := AsCanonicalError(err); ok {
		return ce.Kind == kind
	}
	return false
}
