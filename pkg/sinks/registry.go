package sinks

import (
	"context"
	"fmt"
	"strings"
)

// Builder creates a Sink from a config entry.
type Builder func(ctx context.Context, cfg SinkConfig) (Sink, error)

// Registry maps sink types to builders. Sinks it builds log each delivery
// through the registry's logger.
type Registry struct {
	builders map[string]Builder
	log      Logger
}

// NewRegistry returns an empty registry. A nil log discards delivery reports.
func NewRegistry(log Logger) *Registry {
	return &Registry{builders: map[string]Builder{}, log: orDiscard(log)}
}

// DefaultRegistry knows every sink type this package ships.
func DefaultRegistry(log Logger) *Registry {
	return NewRegistry(log).
		Register(TypeHTTP, newHTTPSink).
		Register(TypeSQS, newSQSSink).
		Register(TypeSNS, newSNSSink).
		Register(TypeGCPPubSub, newPubSubSink).
		Register(TypeBBolt, newBBoltSink)
}

// Register associates builder with typ, replacing any earlier builder.
func (r *Registry) Register(typ string, builder Builder) *Registry {
	if typ = strings.TrimSpace(strings.ToLower(typ)); typ != "" && builder != nil {
		r.builders[typ] = builder
	}
	return r
}

// SinkFor builds the sink described by cfg.
func (r *Registry) SinkFor(ctx context.Context, cfg SinkConfig) (Sink, error) {
	typ := strings.ToLower(cfg.Type)
	if typ == "" {
		return nil, fmt.Errorf("sink %q has no type configured", cfg.ID)
	}
	builder, ok := r.builders[typ]
	if !ok {
		return nil, fmt.Errorf("no sink registered for type %q", cfg.Type)
	}

	s, err := builder(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return loggedSink{Sink: s, log: r.log}, nil
}

// Build instantiates one sink per config. On failure the sinks already
// built are closed.
func (r *Registry) Build(ctx context.Context, cfgs []SinkConfig) ([]Sink, error) {
	out := make([]Sink, 0, len(cfgs))
	for _, cfg := range cfgs {
		s, err := r.SinkFor(ctx, cfg)
		if err != nil {
			_ = NewFanout(out, r.log).Close()
			return nil, fmt.Errorf("build sink %q: %w", cfg.ID, err)
		}
		out = append(out, s)
	}
	return out, nil
}
