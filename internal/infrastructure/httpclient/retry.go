package httpclient

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"time"
)

// retry runs a read-only operation up to attempts times with exponential backoff and jitter.
func retry[T any](ctx context.Context, attempts int, baseDelay time.Duration, operation func(ctx context.Context) (*T, error)) (*T, error) {
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		resp, err := operation(ctx)
		if err == nil {
			return resp, nil
		}

		lastErr = err

		if !isRetryable(ctx, err) {
			return nil, err
		}

		if attempt < attempts-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff(baseDelay, attempt)):
			}
		}
	}

	if attempts == 1 {
		return nil, lastErr
	}
	return nil, fmt.Errorf("maximum retries exceeded: %w", lastErr)
}

func isRetryable(ctx context.Context, err error) bool {
	if gwErr, ok := IsGatewayError(err); ok {
		return gwErr.IsRetryable()
	}

	// caller is gone
	if ctx.Err() != nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return errors.Is(err, context.DeadlineExceeded)
}

func backoff(baseDelay time.Duration, attempt int) time.Duration {
	base := baseDelay * time.Duration(1<<attempt)
	if baseDelay <= 0 {
		return 0
	}

	jitter := time.Duration(rand.Int63n(int64(baseDelay)/2 + 1))

	return base + jitter
}
