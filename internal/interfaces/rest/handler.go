// Package rest exposes the payment orchestrator over HTTP.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/domain"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/infrastructure/gateway/tokenredirect"
	"github.com/go-playground/validator"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxBodyBytes = 1 << 20

type PaymentService interface {
	InitiatePayment(ctx context.Context, req domain.PaymentRequest, idempotencyKey string) domain.PaymentResult
	ConfirmPayment(ctx context.Context, gatewayPaymentID string) domain.PaymentResult
	CapturePayment(ctx context.Context, gatewayPaymentID string) domain.PaymentResult
	ConfirmRedirect(ctx context.Context, token string) domain.PaymentResult
	RefundPayment(ctx context.Context, req domain.RefundRequest, idempotencyKey string) domain.RefundResult
	GetPaymentStatus(ctx context.Context, gatewayPaymentID string, family domain.GatewayFamily) domain.PaymentResult
	ValidateConfiguration() domain.ValidationReport
}

type PaymentHandler struct {
	service  PaymentService
	validate *validator.Validate
	metrics  http.Handler
	logger   *slog.Logger
}

// NewPaymentHandler serves /metrics from metrics when it is non-nil.
func NewPaymentHandler(service PaymentService, metrics http.Handler, logger *slog.Logger) *PaymentHandler {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &PaymentHandler{
		service:  service,
		validate: validate,
		metrics:  metrics,
		logger:   logger,
	}
}

// DefaultMetricsHandler serves the default Prometheus registry.
func DefaultMetricsHandler() http.Handler {
	return promhttp.Handler()
}

func (h *PaymentHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/payments", h.HandleInitiate)
	mux.HandleFunc("GET /v1/payments/{id}", h.HandleStatus)
	mux.HandleFunc("POST /v1/payments/{id}/confirm", h.HandleConfirm)
	mux.HandleFunc("POST /v1/payments/{id}/capture", h.HandleCapture)
	mux.HandleFunc("POST /v1/payments/{id}/refunds", h.HandleRefund)
	mux.HandleFunc("GET /v1/redirects/return", h.HandleRedirectReturn)
	mux.HandleFunc("POST /v1/redirects/return", h.HandleRedirectReturn)
	mux.HandleFunc("GET /v1/configuration", h.HandleConfiguration)
	mux.HandleFunc("GET /healthz", h.HandleHealth)
	if h.metrics != nil {
		mux.Handle("GET /metrics", h.metrics)
	}
}

func (h *PaymentHandler) HandleInitiate(w http.ResponseWriter, r *http.Request) {
	var req InitiatePaymentRequest
	if !h.decode(w, r, &req) {
		return
	}

	res := h.service.InitiatePayment(r.Context(), req.toDomain(), idempotencyKey(r))
	writeCanonical(w, http.StatusCreated, toPaymentResponse(res), res.Error)
}

// HandleConfirm drives the family's second phase: challenge confirmation,
// order capture or token commit.
func (h *PaymentHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	res := h.service.ConfirmPayment(r.Context(), id)
	writeCanonical(w, http.StatusOK, toPaymentResponse(res), res.Error)
}

func (h *PaymentHandler) HandleCapture(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	res := h.service.CapturePayment(r.Context(), id)
	writeCanonical(w, http.StatusOK, toPaymentResponse(res), res.Error)
}

// HandleRedirectReturn is the landing point of a hosted payment page. The
// token arrives as a query parameter or a form field.
func (h *PaymentHandler) HandleRedirectReturn(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get(tokenredirect.TokenParam)
	if token == "" && r.Method == http.MethodPost {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err == nil {
			token = r.PostForm.Get(tokenredirect.TokenParam)
		}
	}
	if token == "" {
		writeValidationError(w, tokenredirect.TokenParam+" is required")
		return
	}

	res := h.service.ConfirmRedirect(r.Context(), token)
	writeCanonical(w, http.StatusOK, toPaymentResponse(res), res.Error)
}

func (h *PaymentHandler) HandleRefund(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req RefundRequest
	if !h.decode(w, r, &req) {
		return
	}

	res := h.service.RefundPayment(r.Context(), domain.RefundRequest{
		GatewayPaymentID: id,
		Amount:           req.Amount,
		Reason:           req.Reason,
	}, idempotencyKey(r))
	writeCanonical(w, http.StatusOK, toRefundResponse(res), res.Error)
}

func (h *PaymentHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	family := domain.GatewayFamily(r.URL.Query().Get("family"))

	res := h.service.GetPaymentStatus(r.Context(), id, family)
	writeCanonical(w, http.StatusOK, toPaymentResponse(res), res.Error)
}

func (h *PaymentHandler) HandleConfiguration(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, APIResponse{Success: true, Data: h.service.ValidateConfiguration()})
}

func (h *PaymentHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    HealthResponse{Status: "ok", Time: time.Now().UTC()},
	})
}

// decode reads a JSON body into dst and validates it. An empty body is
// accepted as the zero value.
func (h *PaymentHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, http.StatusRequestEntityTooLarge, string(domain.KindValidation), "request body too large")
			return false
		}
		writeValidationError(w, "request body could not be read")
		return false
	}

	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, dst); err != nil {
			writeValidationError(w, "invalid JSON body")
			return false
		}
	}

	if err := h.validate.Struct(dst); err != nil {
		h.logger.Info("request rejected", "method", r.Method, "path", r.URL.Path, "error", err)
		writeValidationError(w, validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fe.Field()+" is required")
		case "oneof":
			parts = append(parts, fe.Field()+" must be one of: "+fe.Param())
		case "url":
			parts = append(parts, fe.Field()+" must be a valid URL")
		default:
			parts = append(parts, fe.Field()+" is invalid")
		}
	}
	return strings.Join(parts, "; ")
}

func pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeValidationError(w, "payment id is required")
		return "", false
	}
	return id, true
}

func idempotencyKey(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("Idempotency-Key"))
}
