package middleware

import (
	"net/http"
	"time"
)

// Timeout bounds every request; the handler's context is cancelled when the
// budget runs out so in-flight gateway calls stop too.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if timeout <= 0 {
			return next
		}
		return http.TimeoutHandler(
			next,
			timeout,
			`{"success":false,"error":{"code":"NETWORK","message":"Request timeout","retryable":true}}`,
		)
	}
}
