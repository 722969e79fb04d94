package canvas

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
)

var (
	// ErrUnavailable means the Canvas API could not be reached at all.
	ErrUnavailable = errors.New("canvas api unreachable")

	// ErrUnauthorized means Canvas rejected the configured credentials.
	ErrUnauthorized = errors.New("canvas rejected credentials")

	// ErrRetryExhausted wraps the last transient error after the retry
	// budget is spent.
	ErrRetryExhausted = errors.New("retry limit exhausted")
)

// RemoteError is a non-2xx response from Canvas.
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("canvas returned status %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the response may succeed on a later attempt:
// rate limiting (429) and server errors (5xx). Other 4xx responses are
// terminal; Canvas rejected the payload or the target is gone.
func (e *RemoteError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Retryable classifies an error from a remote call. Timeouts and
// transport-level failures are transient; terminal rejections are not.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote.Retryable()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
