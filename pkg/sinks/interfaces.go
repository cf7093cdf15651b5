package sinks

import (
	"context"

	"github.com/samvad-hq/reqtrace/pkg/trace"
)

// Sink delivers trace records to a downstream destination (HTTP, SQS, etc).
type Sink interface {
	ID() string
	Type() string
	Send(ctx context.Context, rec trace.Record) error
}
