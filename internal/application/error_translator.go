package application

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/domain"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/infrastructure/httpclient"
)

// gateway error codes with a fixed classification
var codeKinds = map[string]domain.ErrorKind{
	// DECLINED: the payer must change something
	"card_declined":        domain.KindDeclined,
	"insufficient_funds":   domain.KindDeclined,
	"expired_card":         domain.KindDeclined,
	"incorrect_cvc":        domain.KindDeclined,
	"invalid_card":         domain.KindDeclined,
	"do_not_honor":         domain.KindDeclined,
	"instrument_declined":  domain.KindDeclined,
	"order_not_approved":   domain.KindDeclined,
	"transaction_rejected": domain.KindDeclined,

	// REQUIRES_ACTION
	"authentication_required": domain.KindRequiresAction,
	"payer_action_required":   domain.KindRequiresAction,

	// CONFIGURATION
	"invalid_api_key":      domain.KindConfiguration,
	"authentication_error": domain.KindConfiguration,
	"permission_denied":    domain.KindConfiguration,
	"invalid_client":       domain.KindConfiguration,

	// VALIDATION
	"invalid_request":         domain.KindValidation,
	"invalid_amount":          domain.KindValidation,
	"amount_too_large":        domain.KindValidation,
	"invalid_currency":        domain.KindValidation,
	"resource_missing":        domain.KindValidation,
	"charge_already_refunded": domain.KindValidation,

	// NETWORK
	"rate_limited":   domain.KindNetwork,
	"internal_error": domain.KindNetwork,
	"lock_timeout":   domain.KindNetwork,
}

// message fragments checked in order; the first match wins
var substringKinds = []struct {
	fragments []string
	kind      domain.ErrorKind
}{
	{[]string{"declin", "card", "insufficient", "rejected"}, domain.KindDeclined},
	{[]string{"timeout", "timed out", "connection", "network", "unavailable", "eof"}, domain.KindNetwork},
	{[]string{"credential", "api key", "unauthorized", "authentication", "not configured", "forbidden"}, domain.KindConfiguration},
	{[]string{"invalid", "malformed", "missing", "bad request", "required"}, domain.KindValidation},
}

// Translate maps a raw adapter-level failure into the canonical taxonomy.
// It never panics; a failure while classifying degrades to UNKNOWN.
func Translate(err error, sourceGateway string) (ce *domain.CanonicalError) {
	if err == nil {
		return nil
	}

	defer func() {
		if rec := recover(); rec != nil {
			ce = domain.NewCanonicalError(domain.KindUnknown, fmt.Sprintf("untranslatable error: %v", rec), sourceGateway)
		}
	}()

	if existing, ok := domain.AsCanonicalError(err); ok {
		if existing.SourceGateway != "" || sourceGateway == "" {
			return existing
		}
		return domain.NewCanonicalError(existing.Kind, existing.Message, sourceGateway)
	}

	return domain.NewCanonicalError(classify(err), err.Error(), sourceGateway)
}

func classify(err error) domain.ErrorKind {
	// Context Errors (transport/timeout)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domain.KindNetwork
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return domain.KindNetwork
	}

	// Gateway Errors (remote API)
	if gwErr, ok := httpclient.IsGatewayError(err); ok {
		if gwErr.StatusCode >= 500 {
			return domain.KindNetwork
		}
		if kind, ok := codeKinds[strings.ToLower(gwErr.Code)]; ok {
			return kind
		}
		switch gwErr.StatusCode {
		case 401, 403:
			return domain.KindConfiguration
		case 402:
			return domain.KindDeclined
		case 408, 429:
			return domain.KindNetwork
		}
	}

	// a success reply we could not read says nothing about the outcome
	if _, ok := httpclient.IsResponseError(err); ok {
		return domain.KindUnknown
	}

	msg := strings.ToLower(err.Error())
	for _, entry := range substringKinds {
		for _, fragment := range entry.fragments {
			if strings.Contains(msg, fragment) {
				return entry.kind
			}
		}
	}

	return domain.KindUnknown
}
