package redirectapproval

import (
	"context"
	"fmt"
	"net/url"

	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/infrastructure/httpclient"
)

// Order statuses reported by the gateway.
const (
	OrderCreated             = "CREATED"
	OrderSaved               = "SAVED"
	OrderApproved            = "APPROVED"
	OrderVoided              = "VOIDED"
	OrderCompleted           = "COMPLETED"
	OrderPayerActionRequired = "PAYER_ACTION_REQUIRED"
)

type Money struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method,omitempty"`
}

type Capture struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Amount Money  `json:"amount"`
}

type Payments struct {
	Captures []Capture `json:"captures,omitempty"`
}

type PurchaseUnit struct {
	ReferenceID string    `json:"reference_id,omitempty"`
	CustomID    string    `json:"custom_id,omitempty"`
	Amount      Money     `json:"amount"`
	Payments    *Payments `json:"payments,omitempty"`
}

type ApplicationContext struct {
	ReturnURL string `json:"return_url,omitempty"`
	CancelURL string `json:"cancel_url,omitempty"`
}

type CreateOrderRequest struct {
	Intent             string              `json:"intent"`
	PurchaseUnits      []PurchaseUnit      `json:"purchase_units"`
	ApplicationContext *ApplicationContext `json:"application_context,omitempty"`
}

type Order struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"`
	PurchaseUnits []PurchaseUnit `json:"purchase_units"`
	Links         []Link         `json:"links"`
}

// ApprovalLink returns the URL the payer must visit, if the order has one.
func (o *Order) ApprovalLink() string {
	for _, l := range o.Links {
		if l.Rel == "approve" || l.Rel == "payer-action" {
			return l.Href
		}
	}
	return ""
}

// CaptureIDs lists the captures recorded on the order.
func (o *Order) CaptureIDs() []string {
	var ids []string
	for _, pu := range o.PurchaseUnits {
		if pu.Payments == nil {
			continue
		}
		for _, c := range pu.Payments.Captures {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

type RefundRequest struct {
	Amount      *Money `json:"amount,omitempty"`
	NoteToPayer string `json:"note_to_payer,omitempty"`
}

type Refund struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Amount *Money `json:"amount,omitempty"`
}

// Client is the low-level API of a redirect-approval gateway.
type Client interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest, requestID string) (*Order, error)
	CaptureOrder(ctx context.Context, orderID string, requestID string) (*Order, error)
	GetOrder(ctx context.Context, orderID string) (*Order, error)
	RefundCapture(ctx context.Context, captureID string, req RefundRequest, requestID string) (*Refund, error)
}

type HTTPClient struct {
	transport *httpclient.Client
}

func NewHTTPClient(transport *httpclient.Client) *HTTPClient {
	return &HTTPClient{transport: transport}
}

func (c *HTTPClient) CreateOrder(ctx context.Context, req CreateOrderRequest, requestID string) (*Order, error) {
	return httpclient.Post[CreateOrderRequest, Order](ctx, c.transport, "/v2/checkout/orders", &req, requestID)
}

func (c *HTTPClient) CaptureOrder(ctx context.Context, orderID string, requestID string) (*Order, error) {
	path := fmt.Sprintf("/v2/checkout/orders/%s/capture", url.PathEscape(orderID))
	return httpclient.Post[struct{}, Order](ctx, c.transport, path, &struct{}{}, requestID)
}

func (c *HTTPClient) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	path := fmt.Sprintf("/v2/checkout/orders/%s", url.PathEscape(orderID))
	return httpclient.Get[Order](ctx, c.transport, path)
}

func (c *HTTPClient) RefundCapture(ctx context.Context, captureID string, req RefundRequest, requestID string) (*Refund, error) {
	path := fmt.Sprintf("/v2/payments/captures/%s/refund", url.PathEscape(captureID))
	return httpclient.Post[RefundRequest, Refund](ctx, c.transport, path, &req, requestID)
}
