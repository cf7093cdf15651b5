package trace

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Outcome labels how a traced call ended.
const (
	OutcomeSuccess = "success"
	OutcomeTimeout = "timeout"
)

// Record captures one request/response round trip.
type Record struct {
	ID              string            `json:"id"`
	Method          string            `json:"method"`
	URL             string            `json:"url"`
	FinalURL        string            `json:"final_url,omitempty"`
	RequestHeaders  map[string]string `json:"request_headers,omitempty"`
	Query           string            `json:"query,omitempty"`
	RequestBody     string            `json:"request_body,omitempty"`
	StatusCode      int               `json:"status_code,omitempty"`
	ResponseHeaders map[string]string `json:"response_headers,omitempty"`
	ResponseBody    string            `json:"response_body,omitempty"`
	Outcome         string            `json:"outcome"`
	TimeoutMs       int64             `json:"timeout_ms"`
	StartedAt       time.Time         `json:"started_at"`
	ElapsedMs       int64             `json:"elapsed_ms"`
}

// NewRecord returns a record with a fresh ID for the given call.
func NewRecord(method, url string, startedAt time.Time) Record {
	return Record{
		ID:        uuid.NewString(),
		Method:    method,
		URL:       url,
		StartedAt: startedAt.UTC(),
	}
}

// Recorder receives completed trace records.
type Recorder interface {
	Record(ctx context.Context, rec Record) error
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(ctx context.Context, rec Record) error

func (f RecorderFunc) Record(ctx context.Context, rec Record) error { return f(ctx, rec) }

// Nop discards records.
type Nop struct{}

func (Nop) Record(context.Context, Record) error { return nil }

// Snippet truncates s to at most max bytes without splitting a UTF-8 sequence.
func Snippet(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }
