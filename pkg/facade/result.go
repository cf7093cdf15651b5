package facade

import (
	"net/http"
	"time"
)

// Outcome tags how a call that did not fail ended.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeTimeout
)

func (o Outcome) String() string {
	if o == OutcomeTimeout {
		return "timeout"
	}
	return "success"
}

// Response is a completed round trip.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	// URL is the final URL after redirects.
	URL     string
	Elapsed time.Duration
}

// Result is either a populated Response or the timeout marker.
type Result struct {
	Outcome  Outcome
	Response *Response
}

// TimedOut reports whether the call was abandoned on its timeout.
func (r Result) TimedOut() bool { return r.Outcome == OutcomeTimeout }

// OK reports whether a response was received, whatever its status code.
func (r Result) OK() bool { return r.Outcome == OutcomeSuccess && r.Response != nil }
