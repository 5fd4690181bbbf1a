// Package mocks provides test doubles: stateful in-memory gateway clients and
// mockery-style testify mocks.
package mocks

import (
	"net/http"

	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/infrastructure/httpclient"
)

func notFound(kind, id string) error {
	return &httpclient.GatewayError{
		Code:       "resource_missing",
		Message:    "no such " + kind + ": " + id,
		StatusCode: http.StatusNotFound,
	}
}
