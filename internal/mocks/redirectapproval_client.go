package mocks

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/infrastructure/gateway/redirectapproval"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/infrastructure/httpclient"
)

// RedirectApprovalClient simulates a redirect-approval gateway in memory.
// Orders stay CREATED until Approve is called.
type RedirectApprovalClient struct {
	mu     sync.Mutex
	calls  map[string]int
	orders map[string]*redirectapproval.Order
	seq    int

	CreateOrderFn   func(ctx context.Context, req redirectapproval.CreateOrderRequest, requestID string) (*redirectapproval.Order, error)
	CaptureOrderFn  func(ctx context.Context, orderID string, requestID string) (*redirectapproval.Order, error)
	GetOrderFn      func(ctx context.Context, orderID string) (*redirectapproval.Order, error)
	RefundCaptureFn func(ctx context.Context, captureID string, req redirectapproval.RefundRequest, requestID string) (*redirectapproval.Refund, error)
}

func NewRedirectApprovalClient() *RedirectApprovalClient {
	return &RedirectApprovalClient{
		calls:  make(map[string]int),
		orders: make(map[string]*redirectapproval.Order),
	}
}

func (m *RedirectApprovalClient) GetCalls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

// Approve simulates the payer approving the order on the provider's site.
func (m *RedirectApprovalClient) Approve(orderID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if order, ok := m.orders[orderID]; ok && order.Status == redirectapproval.OrderCreated {
		order.Status = redirectapproval.OrderApproved
	}
}

func (m *RedirectApprovalClient) CreateOrder(ctx context.Context, req redirectapproval.CreateOrderRequest, requestID string) (*redirectapproval.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["CreateOrder"]++
	if m.CreateOrderFn != nil {
		return m.CreateOrderFn(ctx, req, requestID)
	}

	m.seq++
	id := fmt.Sprintf("ORDER-%04d", m.seq)
	order := &redirectapproval.Order{
		ID:            id,
		Status:        redirectapproval.OrderCreated,
		PurchaseUnits: append([]redirectapproval.PurchaseUnit(nil), req.PurchaseUnits...),
		Links: []redirectapproval.Link{
			{Href: "https://api.example.test/v2/checkout/orders/" + id, Rel: "self", Method: "GET"},
			{Href: "https://www.example.test/checkoutnow?token=" + id, Rel: "approve", Method: "GET"},
		},
	}
	m.orders[id] = order
	return copyOrder(order), nil
}

func (m *RedirectApprovalClient) CaptureOrder(ctx context.Context, orderID string, requestID string) (*redirectapproval.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["CaptureOrder"]++
	if m.CaptureOrderFn != nil {
		return m.CaptureOrderFn(ctx, orderID, requestID)
	}

	order, ok := m.orders[orderID]
	if !ok {
		return nil, notFound("order", orderID)
	}
	switch order.Status {
	case redirectapproval.OrderCompleted:
		return copyOrder(order), nil
	case redirectapproval.OrderApproved:
	default:
		return nil, &httpclient.GatewayError{
			Code:       "ORDER_NOT_APPROVED",
			Message:    "Payer has not yet approved the Order for payment.",
			StatusCode: http.StatusUnprocessableEntity,
		}
	}

	m.seq++
	order.Status = redirectapproval.OrderCompleted
	for i := range order.PurchaseUnits {
		order.PurchaseUnits[i].Payments = &redirectapproval.Payments{
			Captures: []redirectapproval.Capture{{
				ID:     fmt.Sprintf("CAPTURE-%04d", m.seq),
				Status: "COMPLETED",
				Amount: order.PurchaseUnits[i].Amount,
			}},
		}
	}
	return copyOrder(order), nil
}

func (m *RedirectApprovalClient) GetOrder(ctx context.Context, orderID string) (*redirectapproval.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["GetOrder"]++
	if m.GetOrderFn != nil {
		return m.GetOrderFn(ctx, orderID)
	}

	order, ok := m.orders[orderID]
	if !ok {
		return nil, notFound("order", orderID)
	}
	return copyOrder(order), nil
}

func (m *RedirectApprovalClient) RefundCapture(ctx context.Context, captureID string, req redirectapproval.RefundRequest, requestID string) (*redirectapproval.Refund, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["RefundCapture"]++
	if m.RefundCaptureFn != nil {
		return m.RefundCaptureFn(ctx, captureID, req, requestID)
	}

	for _, order := range m.orders {
		for _, pu := range order.PurchaseUnits {
			if pu.Payments == nil {
				continue
			}
			for _, c := range pu.Payments.Captures {
				if c.ID != captureID {
					continue
				}
				amount := c.Amount
				if req.Amount != nil {
					amount = *req.Amount
				}
				m.seq++
				return &redirectapproval.Refund{
					ID:     fmt.Sprintf("REFUND-%04d", m.seq),
					Status: "COMPLETED",
					Amount: &amount,
				}, nil
			}
		}
	}
	return nil, notFound("capture", captureID)
}

func copyOrder(order *redirectapproval.Order) *redirectapproval.Order {
	out := *order
	out.PurchaseUnits = append([]redirectapproval.PurchaseUnit(nil), order.PurchaseUnits...)
	out.Links = append([]redirectapproval.Link(nil), order.Links...)
	return &out
}
