package mocks

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/infrastructure/gateway/tokenredirect"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/infrastructure/httpclient"
)

type tokenTransaction struct {
	request   tokenredirect.CreateTransactionRequest
	paid      bool
	committed bool
	refunded  int64
}

// TokenRedirectClient simulates a token-redirect gateway in memory.
// A token commits successfully only after Pay is called for it.
type TokenRedirectClient struct {
	mu     sync.Mutex
	calls  map[string]int
	tokens map[string]*tokenTransaction
	seq    int

	CreateTransactionFn func(ctx context.Context, req tokenredirect.CreateTransactionRequest) (*tokenredirect.CreateTransactionResponse, error)
	CommitFn            func(ctx context.Context, token string) (*tokenredirect.CommitResponse, error)
	RefundFn            func(ctx context.Context, token string, req tokenredirect.RefundRequest) (*tokenredirect.RefundResponse, error)
}

func NewTokenRedirectClient() *TokenRedirectClient {
	return &TokenRedirectClient{
		calls:  make(map[string]int),
		tokens: make(map[string]*tokenTransaction),
	}
}

func (m *TokenRedirectClient) GetCalls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

// Pay simulates the payer completing the hosted payment page.
func (m *TokenRedirectClient) Pay(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if tx, ok := m.tokens[token]; ok {
		tx.paid = true
	}
}

func (m *TokenRedirectClient) CreateTransaction(ctx context.Context, req tokenredirect.CreateTransactionRequest) (*tokenredirect.CreateTransactionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["CreateTransaction"]++
	if m.CreateTransactionFn != nil {
		return m.CreateTransactionFn(ctx, req)
	}

	m.seq++
	token := fmt.Sprintf("01ab%060d", m.seq)
	m.tokens[token] = &tokenTransaction{request: req}
	return &tokenredirect.CreateTransactionResponse{
		Token: token,
		URL:   "https://webpay.example.test/webpayserver/initTransaction",
	}, nil
}

func (m *TokenRedirectClient) Commit(ctx context.Context, token string) (*tokenredirect.CommitResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["Commit"]++
	if m.CommitFn != nil {
		return m.CommitFn(ctx, token)
	}

	tx, ok := m.tokens[token]
	if !ok {
		return nil, notFound("token", token)
	}
	if tx.committed {
		return nil, &httpclient.GatewayError{
			Code:       "transaction_rejected",
			Message:    "transaction already committed",
			StatusCode: http.StatusUnprocessableEntity,
		}
	}
	tx.committed = true

	resp := &tokenredirect.CommitResponse{
		Amount:    tx.request.Amount,
		BuyOrder:  tx.request.BuyOrder,
		SessionID: tx.request.SessionID,
	}
	if tx.paid {
		resp.Status = tokenredirect.StatusAuthorized
		resp.VCI = "TSY"
		resp.AuthorizationCode = "1213"
		resp.PaymentTypeCode = "VN"
	} else {
		resp.Status = tokenredirect.StatusFailed
		resp.ResponseCode = -1
	}
	return resp, nil
}

func (m *TokenRedirectClient) Refund(ctx context.Context, token string, req tokenredirect.RefundRequest) (*tokenredirect.RefundResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["Refund"]++
	if m.RefundFn != nil {
		return m.RefundFn(ctx, token, req)
	}

	tx, ok := m.tokens[token]
	if !ok || !tx.committed || !tx.paid {
		return nil, notFound("authorized transaction", token)
	}
	if tx.refunded+req.Amount > tx.request.Amount {
		return nil, &httpclient.GatewayError{
			Code:       "invalid_amount",
			Message:    "refund exceeds authorized amount",
			StatusCode: http.StatusUnprocessableEntity,
		}
	}
	tx.refunded += req.Amount

	return &tokenredirect.RefundResponse{
		Type:              tokenredirect.StatusNullified,
		AuthorizationCode: fmt.Sprintf("NUL-%d", m.seq),
		NullifiedAmount:   req.Amount,
		Balance:           tx.request.Amount - tx.refunded,
	}, nil
}
