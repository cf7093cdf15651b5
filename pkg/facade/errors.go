package facade

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedQuery is returned when a GET query entry lacks exactly one '='.
	ErrMalformedQuery = errors.New("malformed query")
	// ErrUnsupportedMethod is returned for a Method outside the known variants.
	ErrUnsupportedMethod = errors.New("unsupported http request method")
	// ErrInvalidPayload is returned when the payload does not fit the method.
	ErrInvalidPayload = errors.New("invalid payload")
)

// TransportError reports a transport fault other than a timeout. Timeouts
// never surface as errors; they come back as a Result with OutcomeTimeout.
type TransportError struct {
	Method Method
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("http %s %s: %v", e.Method.verb(), e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
