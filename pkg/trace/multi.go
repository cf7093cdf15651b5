package trace

import (
	"context"
	"errors"
)

// Multi returns a Recorder that hands every record to each non-nil recorder
// and joins their errors.
func Multi(recs ...Recorder) Recorder {
	var live []Recorder
	for _, r := range recs {
		if r != nil {
			live = append(live, r)
		}
	}
	switch len(live) {
	case 0:
		return Nop{}
	case 1:
		return live[0]
	}
	return RecorderFunc(func(ctx context.Context, rec Record) error {
		var errs []error
		for _, r := range live {
			if err := r.Record(ctx, rec); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}
