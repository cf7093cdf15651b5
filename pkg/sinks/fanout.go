package sinks

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/samvad-hq/reqtrace/pkg/trace"
)

// Fanout dispatches trace records to all configured sinks.
type Fanout struct {
	sinks []Sink
	log   Logger
}

// NewFanout builds a dispatcher that fans out records across sinks.
func NewFanout(sinks []Sink, log Logger) *Fanout {
	cp := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s == nil {
			continue
		}
		cp = append(cp, s)
	}
	return &Fanout{sinks: cp, log: orDiscard(log)}
}

// Send forwards the record to every registered sink.
// It returns the number of sinks that successfully handled the record.
func (f *Fanout) Send(ctx context.Context, rec trace.Record) (int, error) {
	if f == nil || len(f.sinks) == 0 {
		return 0, nil
	}

	var errs []error
	successful := 0
	for _, s := range f.sinks {
		if err := s.Send(ctx, rec); err != nil {
			errs = append(errs, fmt.Errorf("%s sink[%s]: %w", s.Type(), s.ID(), err))
		} else {
			successful++
		}
	}
	return successful, errors.Join(errs...)
}

// Record implements trace.Recorder.
func (f *Fanout) Record(ctx context.Context, rec trace.Record) error {
	delivered, err := f.Send(ctx, rec)
	if err != nil {
		f.log.WarnObj("trace fanout incomplete", "fanout_result", map[string]any{
			"trace_id":  rec.ID,
			"delivered": delivered,
			"sinks":     f.Size(),
			"error":     err.Error(),
		})
	}
	return err
}

// Close releases sinks that hold resources (open files, client connections).
func (f *Fanout) Close() error {
	if f == nil {
		return nil
	}
	var errs []error
	for _, s := range f.sinks {
		if c, ok := s.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s sink[%s]: %w", s.Type(), s.ID(), err))
			}
		}
	}
	return errors.Join(errs...)
}

// Size returns the number of active sinks.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.sinks)
}
