package sinks

import (
	"context"
	"fmt"
	"time"

	"github.com/samvad-hq/reqtrace/internal/storage"
	"github.com/samvad-hq/reqtrace/pkg/trace"
)

// bboltSink keeps records in a local bbolt trace store.
type bboltSink struct {
	id    string
	store storage.Store
}

func newBBoltSink(_ context.Context, cfg SinkConfig) (Sink, error) {
	if cfg.BBolt == nil {
		return nil, fmt.Errorf("sink %q missing bbolt configuration", cfg.ID)
	}

	store, err := storage.NewStore(TypeBBolt, cfg.BBolt.Path, storage.Options{
		TraceTTL:        time.Duration(cfg.BBolt.TTLSeconds) * time.Second,
		CleanupInterval: time.Duration(cfg.BBolt.CleanupIntervalSeconds) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("open trace store: %w", err)
	}

	return &bboltSink{id: cfg.ID, store: store}, nil
}

func (b *bboltSink) ID() string   { return b.id }
func (b *bboltSink) Type() string { return TypeBBolt }

func (b *bboltSink) Send(_ context.Context, rec trace.Record) error {
	return b.store.Put(rec)
}

func (b *bboltSink) Close() error { return b.store.Close() }
