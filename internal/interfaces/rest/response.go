package rest

import (
	"encoding/json"
	"net/http"

	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/domain"
)

type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

func respondWithJSON(w http.ResponseWriter, status int, response APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response)
}

// WriteError writes a bare error envelope.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	respondWithJSON(w, status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: message},
	})
}

func writeValidationError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, string(domain.KindValidation), message)
}

// writeCanonical writes data with the HTTP status of its canonical error. Only
// the user-safe message leaves the process.
func writeCanonical(w http.ResponseWriter, okStatus int, data any, cerr *domain.CanonicalError) {
	if cerr == nil {
		respondWithJSON(w, okStatus, APIResponse{Success: true, Data: data})
		return
	}
	respondWithJSON(w, StatusForKind(cerr.Kind), APIResponse{
		Success: false,
		Data:    data,
		Error: &APIError{
			Code:      string(cerr.Kind),
			Message:   cerr.UserMessage(),
			Retryable: cerr.Retryable,
		},
	})
}

func StatusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindDeclined:
		return http.StatusPaymentRequired
	case domain.KindRequiresAction:
		return http.StatusAccepted
	case domain.KindNetwork:
		return http.StatusServiceUnavailable
	case domain.KindConfiguration:
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}
