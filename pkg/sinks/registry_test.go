package sinks

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/samvad-hq/reqtrace/pkg/trace"
)

type logEntry struct {
	level, msg string
	fields     map[string]any
}

type recordingLogger struct{ entries []logEntry }

func (l *recordingLogger) add(level, msg string, obj interface{}) {
	fields, _ := obj.(map[string]any)
	l.entries = append(l.entries, logEntry{level: level, msg: msg, fields: fields})
}

func (l *recordingLogger) DebugObj(msg, _ string, obj interface{}) { l.add("debug", msg, obj) }
func (l *recordingLogger) WarnObj(msg, _ string, obj interface{})  { l.add("warn", msg, obj) }
func (l *recordingLogger) ErrorObj(msg, _ string, obj interface{}) { l.add("error", msg, obj) }

func TestDefaultRegistryBuildsKnownTypes(t *testing.T) {
	built, err := DefaultRegistry(nil).Build(context.Background(), []SinkConfig{
		{ID: "hook", Type: TypeHTTP, HTTP: &HTTPSinkConfig{URL: "https://example.com"}},
		{ID: "local", Type: TypeBBolt, BBolt: &BBoltSinkConfig{Path: filepath.Join(t.TempDir(), "traces.db")}},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(built) != 2 {
		t.Fatalf("expected 2 sinks, got %d", len(built))
	}
	if built[0].ID() != "hook" || built[1].Type() != TypeBBolt {
		t.Fatalf("unexpected sinks: %s/%s", built[0].ID(), built[1].Type())
	}
	if err := NewFanout(built, nil).Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestRegistryRejectsUnknownOrMissingType(t *testing.T) {
	reg := DefaultRegistry(nil)
	if _, err := reg.Build(context.Background(), []SinkConfig{{ID: "x", Type: "kafka"}}); err == nil {
		t.Fatalf("expected error for unknown sink type")
	}
	if _, err := reg.SinkFor(context.Background(), SinkConfig{ID: "x"}); err == nil {
		t.Fatalf("expected error for missing sink type")
	}
}

func TestRegistryClosesBuiltSinksOnFailure(t *testing.T) {
	first := &closingSink{stubSink{id: "first", typ: "stub"}}
	reg := NewRegistry(nil).
		Register("stub", func(context.Context, SinkConfig) (Sink, error) { return first, nil }).
		Register("broken", func(context.Context, SinkConfig) (Sink, error) { return nil, errors.New("no creds") })

	_, err := reg.Build(context.Background(), []SinkConfig{{ID: "first", Type: "stub"}, {ID: "second", Type: "BROKEN"}})
	if err == nil {
		t.Fatalf("expected build error")
	}
	if !first.closed {
		t.Fatalf("sink built before the failure was not closed")
	}
}

func TestRegistrySinksReportDelivery(t *testing.T) {
	log := &recordingLogger{}
	ok := &stubSink{id: "ok", typ: "stub"}
	bad := &stubSink{id: "bad", typ: "stub", err: errors.New("queue full")}
	reg := NewRegistry(log).Register("stub", func(_ context.Context, cfg SinkConfig) (Sink, error) {
		if cfg.ID == "bad" {
			return bad, nil
		}
		return ok, nil
	})

	built, err := reg.Build(context.Background(), []SinkConfig{{ID: "ok", Type: "stub"}, {ID: "bad", Type: "stub"}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	rec := trace.Record{ID: "t1"}
	if err := built[0].Send(context.Background(), rec); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if err := built[1].Send(context.Background(), rec); err == nil {
		t.Fatalf("expected delivery error")
	}

	if len(log.entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(log.entries))
	}
	if e := log.entries[0]; e.level != "debug" || e.fields["sink_id"] != "ok" || e.fields["trace_id"] != "t1" {
		t.Fatalf("unexpected delivery entry: %+v", e)
	}
	if e := log.entries[1]; e.level != "error" || e.fields["sink_id"] != "bad" || e.fields["error"] != "queue full" {
		t.Fatalf("unexpected failure entry: %+v", e)
	}
}
