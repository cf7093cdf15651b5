// Package storage keeps trace records on local disk.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/reqtrace/pkg/trace"
)

// Store persists trace records. Every Store is also a trace.Recorder.
type Store interface {
	trace.Recorder
	Close() error
	Put(rec trace.Record) error
	Get(id string) (trace.Record, bool, error)
	// List returns up to limit records, newest first. A non-positive limit returns all.
	List(limit int) ([]trace.Record, error)
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	TraceTTL        time.Duration
	CleanupInterval time.Duration
}

const (
	defaultTraceTTL        = 7 * 24 * time.Hour
	defaultCleanupInterval = time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.TraceTTL <= 0 {
		opts.TraceTTL = defaultTraceTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                               { return nil }
func (noopStore) Put(trace.Record) error                     { return nil }
func (noopStore) Get(string) (trace.Record, bool, error)     { return trace.Record{}, false, nil }
func (noopStore) List(int) ([]trace.Record, error)           { return nil, nil }
func (noopStore) Record(context.Context, trace.Record) error { return nil }
