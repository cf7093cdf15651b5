package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/samvad-hq/reqtrace/internal/storage"
	"github.com/samvad-hq/reqtrace/pkg/facade"
	"github.com/samvad-hq/reqtrace/pkg/httpclient"
	"github.com/samvad-hq/reqtrace/pkg/sinks"
	"github.com/samvad-hq/reqtrace/pkg/trace"
)

// runtime owns the facade plus the recorders behind it.
type runtime struct {
	facade *facade.Facade
	store  storage.Store
	fanout *sinks.Fanout
}

func (c *CLI) newRuntime(ctx context.Context) (*runtime, error) {
	cfg := c.cfg
	rt := &runtime{}

	if cfg.SinksFile != "" {
		reg, err := sinks.LoadRegistry(cfg.SinksFile)
		if err != nil {
			return nil, configError{fmt.Errorf("load sinks registry: %w", err)}
		}
		built, err := sinks.DefaultRegistry(c.log).Build(ctx, reg.Enabled())
		if err != nil {
			return nil, configError{err}
		}
		rt.fanout = sinks.NewFanout(built, c.log)

		ids := make([]string, 0, len(built))
		for _, s := range built {
			ids = append(ids, s.ID())
		}
		c.log.InfoObj("trace sinks loaded", "sinks_meta", map[string]any{
			"count": len(ids),
			"ids":   ids,
		})
	}

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		TraceTTL:        cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		rt.close()
		return nil, configError{fmt.Errorf("init storage: %w", err)}
	}
	rt.store = store

	var recorders []trace.Recorder
	if cfg.StorageType == "bbolt" {
		recorders = append(recorders, store)
	}
	if rt.fanout != nil && rt.fanout.Size() > 0 {
		recorders = append(recorders, rt.fanout)
	}

	opts := []facade.Option{facade.WithDefaultHeaders(cfg.DefaultHeaders)}
	if len(recorders) > 0 {
		opts = append(opts, facade.WithRecorder(trace.Multi(recorders...)))
	}

	rt.facade = facade.New(httpclient.NewRestyClient(), c.sugar, opts...)
	return rt, nil
}

func (r *runtime) close() error {
	var errs []error
	if r.fanout != nil {
		errs = append(errs, r.fanout.Close())
	}
	if r.store != nil {
		errs = append(errs, r.store.Close())
	}
	return errors.Join(errs...)
}
