package lifecycle

import (
	"context"
	"errors"
	"time"
)

// Result describes a finished command.
type Result struct {
	Name     string
	Duration time.Duration
	Err      error
}

// Run executes fn, measures it, and reports the outcome to handler.
// A nil handler only times the call. The error from fn is returned unchanged.
func Run(handler NotificationHandler, name string, fn func() error) error {
	return RunWithResult(handler, name, fn, nil)
}

// RunWithResult is Run with an optional callback receiving the Result,
// used by callers that record history.
func RunWithResult(handler NotificationHandler, name string, fn func() error, done func(Result)) error {
	start := time.Now()
	err := fn()
	res := Result{Name: name, Duration: time.Since(start), Err: err}

	if handler != nil {
		handler.OnCommandComplete(name, err == nil, res.Duration)
		if err != nil {
			handler.OnError(name, err)
		}
	}
	if done != nil {
		done(res)
	}
	return err
}

// RunWithContext is Run for long-lived commands driven by a context.
// Cancellation of ctx counts as a clean exit.
func RunWithContext(ctx context.Context, handler NotificationHandler, name string, fn func(context.Context) error) error {
	return Run(handler, name, func() error {
		err := fn(ctx)
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil
		}
		return err
	})
}
