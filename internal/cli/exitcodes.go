package cli

import (
	"errors"

	"github.com/samvad-hq/reqtrace/pkg/facade"
)

// Exit codes for the reqtrace CLI
const (
	ExitSuccess = 0

	// ExitFailure covers anything not classified below
	ExitFailure = 1

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitNetworkError indicates a timeout or transport fault
	ExitNetworkError = 4

	// ExitUsageError indicates invalid CLI usage or a malformed request
	ExitUsageError = 64
)

var (
	errTimedOut = errors.New("request timed out")
	errUsage    = errors.New("usage")
)

type configError struct{ err error }

func (e configError) Error() string { return e.err.Error() }
func (e configError) Unwrap() error { return e.err }

// exitCode classifies err into one of the exit codes above.
func exitCode(err error) int {
	var (
		terr *facade.TransportError
		cerr configError
	)
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, errTimedOut), errors.As(err, &terr):
		return ExitNetworkError
	case errors.As(err, &cerr):
		return ExitConfigError
	case errors.Is(err, errUsage),
		errors.Is(err, facade.ErrMalformedQuery),
		errors.Is(err, facade.ErrUnsupportedMethod),
		errors.Is(err, facade.ErrInvalidPayload):
		return ExitUsageError
	default:
		return ExitFailure
	}
}
