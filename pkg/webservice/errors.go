package webservice

import (
	"errors"
	"fmt"
)

// ErrUnknown classifies failures with no more specific cause: transport
// errors, malformed request URLs, cancelled contexts.
var ErrUnknown = errors.New("webservice: unknown error")

// HTTPError reports a response with a status code outside 200-299. The
// response body is discarded, not decoded.
type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("webservice: http status %d", e.StatusCode)
}

// DecodeError reports a response body that did not match the expected
// shape. The underlying unmarshal or validation failure is retained for
// diagnostics.
type DecodeError struct {
	cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("webservice: decode response: %v", e.cause)
}

func (e *DecodeError) Unwrap() error { return e.cause }

// unknown wraps err so that errors.Is(result, ErrUnknown) holds while the
// original cause stays reachable through the chain.
func unknown(err error) error {
	return fmt.Errorf("%w: %w", ErrUnknown, err)
}
