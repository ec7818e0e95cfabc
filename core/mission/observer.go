package mission

import (
	"context"
	"errors"
	"io"

	"github.com/kilianp07/auvsim/core/model"
)

// Observer receives a snapshot after every control step. Implementations
// that also satisfy io.Closer are closed when the mission ends.
type Observer interface {
	Observe(ctx context.Context, snap model.Snapshot) error
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, snap model.Snapshot) error

func (f ObserverFunc) Observe(ctx context.Context, snap model.Snapshot) error { return f(ctx, snap) }

// MultiObserver fans snapshots out to every observer. One failing observer
// does not prevent the others from being called.
type MultiObserver []Observer

// Observe forwards snap and joins the errors.
func (m MultiObserver) Observe(ctx context.Context, snap model.Snapshot) error {
	var errs []error
	for _, o := range m {
		if err := o.Observe(ctx, snap); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every observer implementing io.Closer.
func (m MultiObserver) Close() error {
	var errs []error
	for _, o := range m {
		if c, ok := o.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
