package tokenredirect

import (
	"context"
	"fmt"
	"net/url"

	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/infrastructure/httpclient"
)

const transactionsPath = "/rswebpaytransaction/api/webpay/v1.2/transactions"

// Commit statuses reported by the gateway.
const (
	StatusInitialized = "INITIALIZED"
	StatusAuthorized  = "AUTHORIZED"
	StatusFailed      = "FAILED"
	StatusReversed    = "REVERSED"
	StatusNullified   = "NULLIFIED"
)

type CreateTransactionRequest struct {
	BuyOrder  string `json:"buy_order"`
	SessionID string `json:"session_id"`
	Amount    int64  `json:"amount"`
	ReturnURL string `json:"return_url"`
}

type CreateTransactionResponse struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

type CommitResponse struct {
	VCI               string `json:"vci,omitempty"`
	Amount            int64  `json:"amount"`
	Status            string `json:"status"`
	BuyOrder          string `json:"buy_order"`
	SessionID         string `json:"session_id"`
	AuthorizationCode string `json:"authorization_code,omitempty"`
	PaymentTypeCode   string `json:"payment_type_code,omitempty"`
	ResponseCode      int    `json:"response_code"`
}

type RefundRequest struct {
	Amount int64 `json:"amount"`
}

type RefundResponse struct {
	Type              string `json:"type"`
	AuthorizationCode string `json:"authorization_code,omitempty"`
	NullifiedAmount   int64  `json:"nullified_amount"`
	Balance           int64  `json:"balance"`
	ResponseCode      int    `json:"response_code"`
}

// Client is the low-level API of a token-redirect gateway. It has no status
// lookup for a token the merchant has not committed yet.
type Client interface {
	CreateTransaction(ctx context.Context, req CreateTransactionRequest) (*CreateTransactionResponse, error)
	Commit(ctx context.Context, token string) (*CommitResponse, error)
	Refund(ctx context.Context, token string, req RefundRequest) (*RefundResponse, error)
}

type HTTPClient struct {
	transport *httpclient.Client
}

func NewHTTPClient(transport *httpclient.Client) *HTTPClient {
	return &HTTPClient{transport: transport}
}

func (c *HTTPClient) CreateTransaction(ctx context.Context, req CreateTransactionRequest) (*CreateTransactionResponse, error) {
	return httpclient.Post[CreateTransactionRequest, CreateTransactionResponse](ctx, c.transport, transactionsPath, &req, "")
}

func (c *HTTPClient) Commit(ctx context.Context, token string) (*CommitResponse, error) {
	path := fmt.Sprintf("%s/%s", transactionsPath, url.PathEscape(token))
	return httpclient.Put[struct{}, CommitResponse](ctx, c.transport, path, &struct{}{})
}

func (c *HTTPClient) Refund(ctx context.Context, token string, req RefundRequest) (*RefundResponse, error) {
	path := fmt.Sprintf("%s/%s/refunds", transactionsPath, url.PathEscape(token))
	return httpclient.Post[RefundRequest, RefundResponse](ctx, c.transport, path, &req, "")
}
