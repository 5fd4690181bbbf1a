package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/application"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/application/services"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/domain"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/infrastructure/gateway/directcapture"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/infrastructure/gateway/redirectapproval"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/infrastructure/gateway/tokenredirect"
	idemmemory "github.com/DanielPopoola/ficmart-payment-orchestrator/internal/infrastructure/idempotency/memory"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/infrastructure/metrics"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/infrastructure/persistence/memory"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/interfaces/rest"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/interfaces/rest/middleware"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/mocks"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/require"
)

// Stack is the whole orchestrator behind a real HTTP server, with in-memory
// gateway simulators.
type Stack struct {
	Server   *httptest.Server
	Direct   *mocks.DirectCaptureClient
	Approval *mocks.RedirectApprovalClient
	Token    *mocks.TokenRedirectClient
}

func NewStack(t *testing.T) *Stack {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := &Stack{
		Direct:   mocks.NewDirectCaptureClient(),
		Approval: mocks.NewRedirectApprovalClient(),
		Token:    mocks.NewTokenRedirectClient(),
	}

	registry := prometheus.NewRegistry()
	orchestrator := services.NewOrchestrator(
		[]application.GatewayAdapter{
			directcapture.NewAdapter("direct", s.Direct, logger),
			redirectapproval.NewAdapter("approval", s.Approval, logger),
			tokenredirect.NewAdapter("webpay", s.Token, logger),
		},
		domain.ValidationReport{IsValid: true, Errors: []string{}, Configured: map[domain.GatewayFamily]bool{
			domain.FamilyDirectCapture:    true,
			domain.FamilyRedirectApproval: true,
			domain.FamilyTokenRedirect:    true,
		}},
		memory.NewTransactionStore(),
		idemmemory.NewStore(time.Hour),
		nil,
		metrics.NewRecorder(registry),
		logger,
	)

	mux := http.NewServeMux()
	rest.NewPaymentHandler(orchestrator, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), logger).RegisterRoutes(mux)
	s.Server = httptest.NewServer(middleware.Chain(mux,
		middleware.Logging(logger),
		middleware.Recovery(logger),
		middleware.Timeout(5*time.Second),
	))
	t.Cleanup(s.Server.Close)
	return s
}

// TestClient wraps HTTP calls to the orchestrator
type TestClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewTestClient(baseURL string) *TestClient {
	return &TestClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *rest.APIError  `json:"error"`
}

type Response struct {
	Status   int
	Envelope Envelope
}

func (r Response) Payment(t *testing.T) rest.PaymentResponse {
	t.Helper()
	var p rest.PaymentResponse
	require.NoError(t, json.Unmarshal(r.Envelope.Data, &p))
	return p
}

func (r Response) Refund(t *testing.T) rest.RefundResponse {
	t.Helper()
	var p rest.RefundResponse
	require.NoError(t, json.Unmarshal(r.Envelope.Data, &p))
	return p
}

func (c *TestClient) do(t *testing.T, method, path string, payload any, idempotencyKey string) Response {
	t.Helper()
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := Response{Status: resp.StatusCode}
	require.NoError(t, json.Unmarshal(bodyBytes, &out.Envelope), string(bodyBytes))
	return out
}

// Initiate calls POST /v1/payments with a fresh idempotency key
func (c *TestClient) Initiate(t *testing.T, req rest.InitiatePaymentRequest) Response {
	return c.InitiateWithKey(t, req, "e2e-init-"+uuid.NewString())
}

func (c *TestClient) InitiateWithKey(t *testing.T, req rest.InitiatePaymentRequest, key string) Response {
	return c.do(t, http.MethodPost, "/v1/payments", req, key)
}

func (c *TestClient) Confirm(t *testing.T, id string) Response {
	return c.do(t, http.MethodPost, "/v1/payments/"+id+"/confirm", nil, "")
}

func (c *TestClient) Capture(t *testing.T, id string) Response {
	return c.do(t, http.MethodPost, "/v1/payments/"+id+"/capture", nil, "")
}

func (c *TestClient) RedirectReturn(t *testing.T, token string) Response {
	return c.do(t, http.MethodGet, "/v1/redirects/return?"+tokenredirect.TokenParam+"="+token, nil, "")
}

func (c *TestClient) Refund(t *testing.T, id string, req rest.RefundRequest) Response {
	return c.do(t, http.MethodPost, "/v1/payments/"+id+"/refunds", req, "e2e-refund-"+uuid.NewString())
}

func (c *TestClient) Status(t *testing.T, id string) Response {
	return c.do(t, http.MethodGet, "/v1/payments/"+id, nil, "")
}

func (c *TestClient) Metrics(t *testing.T) string {
	t.Helper()
	resp, err := c.httpClient.Get(c.baseURL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}
