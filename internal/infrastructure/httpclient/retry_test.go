package httpclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/infrastructure/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoRequest struct {
	Amount int64 `json:"amount"`
}

type echoResponse struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
}

func TestGet_RetriesOn5xx(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"internal_error","message":"Internal server error"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(echoResponse{ID: "pi_1"})
	}))
	defer srv.Close()

	client := httpclient.New(srv.URL, time.Second, httpclient.WithStatusRetry(3, time.Millisecond))

	resp, err := httpclient.Get[echoResponse](context.Background(), client, "/v1/things/pi_1")

	require.NoError(t, err)
	assert.Equal(t, "pi_1", resp.ID)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGet_DoesNotRetryOn4xx(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"resource_missing","message":"No such intent"}`))
	}))
	defer srv.Close()

	client := httpclient.New(srv.URL, time.Second, httpclient.WithStatusRetry(3, time.Millisecond))

	resp, err := httpclient.Get[echoResponse](context.Background(), client, "/v1/things/missing")

	require.Error(t, err)
	assert.Nil(t, resp)
	gwErr, ok := httpclient.IsGatewayError(err)
	require.True(t, ok)
	assert.Equal(t, "resource_missing", gwErr.Code)
	assert.Equal(t, http.StatusNotFound, gwErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGet_ExhaustsRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := httpclient.New(srv.URL, time.Second, httpclient.WithStatusRetry(3, time.Millisecond))

	_, err := httpclient.Get[echoResponse](context.Background(), client, "/")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "maximum retries exceeded")
	gwErr, ok := httpclient.IsGatewayError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, gwErr.StatusCode)
}

func TestGet_RespectsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := httpclient.New(srv.URL, time.Second, httpclient.WithStatusRetry(10, 50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := httpclient.Get[echoResponse](ctx, client, "/")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPost_NeverRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := httpclient.New(srv.URL, time.Second, httpclient.WithStatusRetry(5, time.Millisecond))

	_, err := httpclient.Post[echoRequest, echoResponse](context.Background(), client, "/v1/things", &echoRequest{Amount: 100}, "idem-1")

	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestPost_UnreadableSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	client := httpclient.New(srv.URL, time.Second)

	_, err := httpclient.Post[echoRequest, echoResponse](context.Background(), client, "/v1/things", &echoRequest{Amount: 100}, "")

	respErr, ok := httpclient.IsResponseError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, respErr.StatusCode)
	_, isGateway := httpclient.IsGatewayError(err)
	assert.False(t, isGateway)
}

func TestPost_SendsHeadersAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		assert.Equal(t, "idem-1", r.Header.Get("Idempotency-Key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req echoRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(echoResponse{ID: "obj_1", Amount: req.Amount})
	}))
	defer srv.Close()

	client := httpclient.New(srv.URL+"/", time.Second, httpclient.WithHeader("Authorization", "Bearer sk_test"))

	resp, err := httpclient.Post[echoRequest, echoResponse](context.Background(), client, "/v1/things", &echoRequest{Amount: 2500}, "idem-1")

	require.NoError(t, err)
	assert.Equal(t, "obj_1", resp.ID)
	assert.Equal(t, int64(2500), resp.Amount)
}

func TestGatewayError_Envelopes(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode string
		wantMsg  string
	}{
		{"flat", http.StatusPaymentRequired, `{"error":"card_declined","message":"Your card was declined."}`, "card_declined", "Your card was declined."},
		{"nested", http.StatusBadRequest, `{"error":{"code":"invalid_request","message":"amount is required"}}`, "invalid_request", "amount is required"},
		{"named", http.StatusUnprocessableEntity, `{"name":"ORDER_NOT_APPROVED","message":"Payer has not approved"}`, "ORDER_NOT_APPROVED", "Payer has not approved"},
		{"plain text", http.StatusUnauthorized, `unauthorized`, "Unauthorized", "unauthorized"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := httpclient.New(srv.URL, time.Second)

			_, err := httpclient.Post[echoRequest, echoResponse](context.Background(), client, "/", &echoRequest{}, "")

			gwErr, ok := httpclient.IsGatewayError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, gwErr.Code)
			assert.Equal(t, tt.wantMsg, gwErr.Message)
			assert.Equal(t, tt.status, gwErr.StatusCode)
		})
	}
}

func TestWithBasicAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, password, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "client-id", user)
		assert.Equal(t, "client-secret", password)
		_ = json.NewEncoder(w).Encode(echoResponse{ID: "obj_2"})
	}))
	defer srv.Close()

	client := httpclient.New(srv.URL, time.Second, httpclient.WithBasicAuth("client-id", "client-secret"))

	resp, err := httpclient.Get[echoResponse](context.Background(), client, "/v1/things/obj_2")

	require.NoError(t, err)
	assert.Equal(t, "obj_2", resp.ID)
}
