package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/infrastructure/gateway/directcapture"
)

// DirectCaptureClient simulates a direct-capture gateway in memory.
type DirectCaptureClient struct {
	mu      sync.Mutex
	calls   map[string]int
	intents map[string]*directcapture.PaymentIntent
	seq     int

	// RequireChallenge makes new intents stop in requires_action.
	RequireChallenge bool
	// DeclineConfirm makes challenge confirmation fail with a declined card.
	DeclineConfirm bool

	CreatePaymentIntentFn   func(ctx context.Context, req directcapture.CreateIntentRequest, idempotencyKey string) (*directcapture.PaymentIntent, error)
	ConfirmPaymentIntentFn  func(ctx context.Context, intentID string, idempotencyKey string) (*directcapture.PaymentIntent, error)
	RetrievePaymentIntentFn func(ctx context.Context, intentID string) (*directcapture.PaymentIntent, error)
	CreateRefundFn          func(ctx context.Context, req directcapture.RefundRequest, idempotencyKey string) (*directcapture.Refund, error)
}

func NewDirectCaptureClient() *DirectCaptureClient {
	return &DirectCaptureClient{
		calls:   make(map[string]int),
		intents: make(map[string]*directcapture.PaymentIntent),
	}
}

func (m *DirectCaptureClient) inc(method string) {
	m.calls[method]++
}

func (m *DirectCaptureClient) GetCalls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

func (m *DirectCaptureClient) CreatePaymentIntent(ctx context.Context, req directcapture.CreateIntentRequest, idempotencyKey string) (*directcapture.PaymentIntent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inc("CreatePaymentIntent")
	if m.CreatePaymentIntentFn != nil {
		return m.CreatePaymentIntentFn(ctx, req, idempotencyKey)
	}

	m.seq++
	intent := &directcapture.PaymentIntent{
		ID:       fmt.Sprintf("pi_%d", m.seq),
		Amount:   req.Amount,
		Currency: req.Currency,
		Status:   directcapture.IntentSucceeded,
	}
	if m.RequireChallenge {
		intent.Status = directcapture.IntentRequiresAction
		intent.NextAction = &directcapture.NextAction{
			Type:        "redirect_to_url",
			RedirectURL: "https://hooks.example.test/3ds/" + intent.ID,
		}
	}
	m.intents[intent.ID] = intent
	out := *intent
	return &out, nil
}

func (m *DirectCaptureClient) ConfirmPaymentIntent(ctx context.Context, intentID string, idempotencyKey string) (*directcapture.PaymentIntent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inc("ConfirmPaymentIntent")
	if m.ConfirmPaymentIntentFn != nil {
		return m.ConfirmPaymentIntentFn(ctx, intentID, idempotencyKey)
	}

	intent, ok := m.intents[intentID]
	if !ok {
		return nil, notFound("payment intent", intentID)
	}
	intent.NextAction = nil
	if m.DeclineConfirm {
		intent.Status = directcapture.IntentRequiresPaymentMethod
		intent.LastPaymentError = &directcapture.PaymentIntentError{
			Code:        "card_declined",
			DeclineCode: "generic_decline",
			Message:     "Your card was declined.",
		}
	} else {
		intent.Status = directcapture.IntentSucceeded
	}
	out := *intent
	return &out, nil
}

func (m *DirectCaptureClient) RetrievePaymentIntent(ctx context.Context, intentID string) (*directcapture.PaymentIntent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inc("RetrievePaymentIntent")
	if m.RetrievePaymentIntentFn != nil {
		return m.RetrievePaymentIntentFn(ctx, intentID)
	}

	intent, ok := m.intents[intentID]
	if !ok {
		return nil, notFound("payment intent", intentID)
	}
	out := *intent
	return &out, nil
}

func (m *DirectCaptureClient) CreateRefund(ctx context.Context, req directcapture.RefundRequest, idempotencyKey string) (*directcapture.Refund, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inc("CreateRefund")
	if m.CreateRefundFn != nil {
		return m.CreateRefundFn(ctx, req, idempotencyKey)
	}

	intent, ok := m.intents[req.PaymentIntent]
	if !ok {
		return nil, notFound("payment intent", req.PaymentIntent)
	}
	amount := intent.Amount
	if req.Amount != nil {
		amount = *req.Amount
	}
	m.seq++
	return &directcapture.Refund{
		ID:            fmt.Sprintf("re_%d", m.seq),
		Amount:        amount,
		Currency:      intent.Currency,
		Status:        "succeeded",
		PaymentIntent: intent.ID,
	}, nil
}
