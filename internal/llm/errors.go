package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
)

// StatusError means the completion API answered with a status other than 200.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("completion API returned status %d", e.StatusCode)
}

// TransportError means the request could not be issued or its reply could not
// be read: connection refused, DNS failure, timeout, cancelled context.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// isTransportFailure reports whether an SDK error came from the HTTP layer
// rather than from the API itself.
func isTransportFailure(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
