package sinks

import (
	"context"
	"io"

	"github.com/samvad-hq/reqtrace/pkg/trace"
)

// Logger is what the registry and fanout report delivery through.
// *logger.ZapLogger satisfies it.
type Logger interface {
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type discard struct{}

func (discard) DebugObj(string, string, interface{}) {}
func (discard) WarnObj(string, string, interface{})  {}
func (discard) ErrorObj(string, string, interface{}) {}

func orDiscard(log Logger) Logger {
	if log == nil {
		return discard{}
	}
	return log
}

// loggedSink reports every delivery of the wrapped sink.
type loggedSink struct {
	Sink
	log Logger
}

func (s loggedSink) Send(ctx context.Context, rec trace.Record) error {
	fields := map[string]any{
		"sink_id":   s.ID(),
		"sink_type": s.Type(),
		"trace_id":  rec.ID,
	}
	if err := s.Sink.Send(ctx, rec); err != nil {
		fields["error"] = err.Error()
		s.log.ErrorObj("trace sink delivery failed", "sink_delivery", fields)
		return err
	}
	s.log.DebugObj("trace sink delivered", "sink_delivery", fields)
	return nil
}

func (s loggedSink) Close() error {
	if c, ok := s.Sink.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
