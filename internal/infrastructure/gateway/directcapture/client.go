package directcapture

import (
	"context"
	"fmt"
	"net/url"

	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/infrastructure/httpclient"
)

// Intent statuses reported by the gateway.
const (
	IntentSucceeded             = "succeeded"
	IntentRequiresAction        = "requires_action"
	IntentRequiresConfirmation  = "requires_confirmation"
	IntentRequiresPaymentMethod = "requires_payment_method"
	IntentProcessing            = "processing"
	IntentCanceled              = "canceled"
)

type CreateIntentRequest struct {
	Amount        int64             `json:"amount"`
	Currency      string            `json:"currency"`
	Confirm       bool              `json:"confirm"`
	CaptureMethod string            `json:"capture_method"`
	Description   string            `json:"description,omitempty"`
	Customer      string            `json:"customer,omitempty"`
	ReturnURL     string            `json:"return_url,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

type PaymentIntent struct {
	ID               string              `json:"id"`
	Amount           int64               `json:"amount"`
	Currency         string              `json:"currency"`
	Status           string              `json:"status"`
	ClientSecret     string              `json:"client_secret,omitempty"`
	NextAction       *NextAction         `json:"next_action,omitempty"`
	LastPaymentError *PaymentIntentError `json:"last_payment_error,omitempty"`
}

type NextAction struct {
	Type        string `json:"type"`
	RedirectURL string `json:"redirect_url,omitempty"`
}

type PaymentIntentError struct {
	Code        string `json:"code"`
	DeclineCode string `json:"decline_code,omitempty"`
	Message     string `json:"message"`
}

type RefundRequest struct {
	PaymentIntent string `json:"payment_intent"`
	Amount        *int64 `json:"amount,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

type Refund struct {
	ID            string `json:"id"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	Status        string `json:"status"`
	PaymentIntent string `json:"payment_intent"`
}

// Client is the low-level API of a direct-capture gateway.
type Client interface {
	CreatePaymentIntent(ctx context.Context, req CreateIntentRequest, idempotencyKey string) (*PaymentIntent, error)
	ConfirmPaymentIntent(ctx context.Context, intentID string, idempotencyKey string) (*PaymentIntent, error)
	RetrievePaymentIntent(ctx context.Context, intentID string) (*PaymentIntent, error)
	CreateRefund(ctx context.Context, req RefundRequest, idempotencyKey string) (*Refund, error)
}

type HTTPClient struct {
	transport *httpclient.Client
}

func NewHTTPClient(transport *httpclient.Client) *HTTPClient {
	return &HTTPClient{transport: transport}
}

func (c *HTTPClient) CreatePaymentIntent(ctx context.Context, req CreateIntentRequest, idempotencyKey string) (*PaymentIntent, error) {
	return httpclient.Post[CreateIntentRequest, PaymentIntent](ctx, c.transport, "/v1/payment_intents", &req, idempotencyKey)
}

func (c *HTTPClient) ConfirmPaymentIntent(ctx context.Context, intentID string, idempotencyKey string) (*PaymentIntent, error) {
	path := fmt.Sprintf("/v1/payment_intents/%s/confirm", url.PathEscape(intentID))
	return httpclient.Post[struct{}, PaymentIntent](ctx, c.transport, path, &struct{}{}, idempotencyKey)
}

func (c *HTTPClient) RetrievePaymentIntent(ctx context.Context, intentID string) (*PaymentIntent, error) {
	path := fmt.Sprintf("/v1/payment_intents/%s", url.PathEscape(intentID))
	return httpclient.Get[PaymentIntent](ctx, c.transport, path)
}

func (c *HTTPClient) CreateRefund(ctx context.Context, req RefundRequest, idempotencyKey string) (*Refund, error) {
	return httpclient.Post[RefundRequest, Refund](ctx, c.transport, "/v1/refunds", &req, idempotencyKey)
}
