package httpclient

import (
	"errors"
	"fmt"
)

// GatewayError is a non-2xx reply from a remote gateway API.
type GatewayError struct {
	Code       string
	Message    string
	StatusCode int
}

// errorBody covers the error envelopes the supported gateways send:
// {"error":"code","message":"..."}, {"error":{"code":"...","message":"..."}},
// {"name":"CODE","message":"..."} and {"error_message":"..."}.
type errorBody struct {
	Err          any    `json:"error"`
	Message      string `json:"message"`
	Name         string `json:"name"`
	ErrorMessage string `json:"error_message"`
}

func (b errorBody) toGatewayError(status int) *GatewayError {
	gwErr := &GatewayError{Message: b.Message, StatusCode: status}
	switch v := b.Err.(type) {
	case string:
		gwErr.Code = v
	case map[string]any:
		if code, ok := v["code"].(string); ok {
			gwErr.Code = code
		}
		if msg, ok := v["message"].(string); ok && gwErr.Message == "" {
			gwErr.Message = msg
		}
	}
	if gwErr.Code == "" {
		gwErr.Code = b.Name
	}
	if gwErr.Message == "" {
		gwErr.Message = b.ErrorMessage
	}
	return gwErr
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway error [%s]: %s (status: %d)", e.Code, e.Message, e.StatusCode)
}

func (e *GatewayError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}

// ResponseError is a 2xx reply whose body could not be decoded. The remote
// operation may have succeeded.
type ResponseError struct {
	StatusCode int
	Err        error
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("unreadable gateway response (status: %d): %v", e.StatusCode, e.Err)
}

func (e *ResponseError) Unwrap() error {
	return e.Err
}

func IsResponseError(err error) (*ResponseError, bool) {
	var respErr *ResponseError
	ok := errors.As(err, &respErr)
	return respErr, ok
}

func IsGatewayError(err error) (*GatewayError, bool) {
	var gwErr *GatewayError
	ok := errors.As(err, &gwErr)
	return gwErr, ok
}
